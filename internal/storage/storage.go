package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/frahmantamala/lead-management/pkg/logger"
)

// Well known keys of the console's key-value store.
const (
	KeyRoles           = "roles"
	KeyPermissions     = "permissions"
	KeyRolePermissions = "rolePermissions"
	KeyBankTypes       = "bankTypes"
	KeyLegalStatuses   = "legalStatuses"
	KeyTypesOfCredit   = "typesOfCredit"
	KeyServiceToken    = "serviceToken"
	KeyUsers           = "users"
	KeyPersonalInfo    = "personalInfo"
)

var ErrStorageParse = errors.New("stored value could not be parsed")

// Adapter is a synchronous key-value store holding one JSON document per key.
// Put overwrites the whole value; there is no versioning so the last writer
// wins.
type Adapter interface {
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Put(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
}

// Validatable records can report shape errors after decoding.
type Validatable interface {
	Valid() error
}

// Load returns the collection stored under key. A missing key, a backend
// failure or malformed content all yield an empty collection.
func Load[T any](ctx context.Context, a Adapter, key string) []T {
	raw, found, err := a.Get(ctx, key)
	if err != nil {
		logger.From(ctx).Warn("storage read failed, treating as empty", "key", key, "error", err)
		return []T{}
	}
	if !found || len(raw) == 0 {
		return []T{}
	}

	var out []T
	if err := json.Unmarshal(raw, &out); err != nil {
		logger.From(ctx).Warn("stored collection is malformed, treating as empty", "key", key, "error", err)
		return []T{}
	}
	if out == nil {
		return []T{}
	}
	return out
}

// LoadStrict is Load that reports malformed content and invalid records as
// ErrStorageParse instead of hiding them.
func LoadStrict[T Validatable](ctx context.Context, a Adapter, key string) ([]T, error) {
	raw, found, err := a.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	if !found || len(raw) == 0 {
		return []T{}, nil
	}

	var out []T
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("%w: key %s: %v", ErrStorageParse, key, err)
	}
	for i, rec := range out {
		if err := rec.Valid(); err != nil {
			return nil, fmt.Errorf("%w: key %s: record %d: %v", ErrStorageParse, key, i, err)
		}
	}
	if out == nil {
		return []T{}, nil
	}
	return out, nil
}

// Save replaces the collection stored under key.
func Save[T any](ctx context.Context, a Adapter, key string, records []T) error {
	if records == nil {
		records = []T{}
	}
	raw, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return a.Put(ctx, key, raw)
}

// LoadValue decodes a single value such as the session token. found is false
// when the key is absent or its content does not decode.
func LoadValue[T any](ctx context.Context, a Adapter, key string) (value T, found bool) {
	raw, ok, err := a.Get(ctx, key)
	if err != nil || !ok || len(raw) == 0 {
		return value, false
	}
	if err := json.Unmarshal(raw, &value); err != nil {
		logger.From(ctx).Warn("stored value is malformed", "key", key, "error", err)
		var zero T
		return zero, false
	}
	return value, true
}

func SaveValue[T any](ctx context.Context, a Adapter, key string, value T) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return a.Put(ctx, key, raw)
}
