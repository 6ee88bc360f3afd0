// Package form implements the create/edit dialog shared by every entity
// screen: open a blank or seeded form, validate it, and write the whole
// collection back through the storage adapter.
package form

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/frahmantamala/lead-management/internal"
	"github.com/frahmantamala/lead-management/internal/core/events"
	"github.com/frahmantamala/lead-management/internal/entity"
	"github.com/frahmantamala/lead-management/internal/storage"
)

// Validated is a record that knows its own field rules.
type Validated interface {
	entity.Record
	Validate() *internal.AppError
}

type State string

const (
	StateIdle    State = "idle"
	StateEditing State = "editing"
)

type Mode string

const (
	ModeCreate Mode = "create"
	ModeEdit   Mode = "edit"
)

var ErrNotOpen = errors.New("form is not open")

// Fields is the state of an open form.
type Fields[T Validated] struct {
	Mode    Mode   `json:"mode"`
	Editing string `json:"editing,omitempty"`
	Record  T      `json:"record"`
}

// Controller is one form dialog. It is not safe for concurrent use; the view
// layer creates one per request.
type Controller[T Validated] struct {
	kind   entity.Kind
	store  storage.Adapter
	events events.Publisher
	logger *slog.Logger

	state  State
	fields Fields[T]
}

func NewController[T Validated](kind entity.Kind, store storage.Adapter, publisher events.Publisher, logger *slog.Logger) *Controller[T] {
	if publisher == nil {
		publisher = events.Discard{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller[T]{
		kind:   kind,
		store:  store,
		events: publisher,
		logger: logger,
		state:  StateIdle,
	}
}

// Open starts a create form when existing is nil and an edit form otherwise.
// The identity of existing is remembered so a rename still replaces it.
func (c *Controller[T]) Open(existing *T) Fields[T] {
	if existing == nil {
		var blank T
		c.fields = Fields[T]{Mode: ModeCreate, Record: blank}
	} else {
		c.fields = Fields[T]{Mode: ModeEdit, Editing: (*existing).Identity(), Record: *existing}
	}
	c.state = StateEditing
	return c.fields
}

// Cancel closes the form without writing.
func (c *Controller[T]) Cancel() {
	c.state = StateIdle
	c.fields = Fields[T]{}
}

func (c *Controller[T]) State() State {
	return c.state
}

func (c *Controller[T]) Fields() Fields[T] {
	return c.fields
}

// Validate returns field -> message for every failing field; an empty map
// means the record may be submitted.
func (c *Controller[T]) Validate(record T) map[string]string {
	if err := record.Validate(); err != nil {
		return err.FieldErrors()
	}
	return map[string]string{}
}

// Submit validates record and, when valid, writes the updated collection.
// Validation failures leave the form open and perform no write.
func (c *Controller[T]) Submit(ctx context.Context, record T) error {
	if c.state != StateEditing {
		return ErrNotOpen
	}
	if err := record.Validate(); err != nil {
		return err
	}

	records := storage.Load[T](ctx, c.store, c.kind.StorageKey)

	var updated []T
	var err error
	if c.fields.Mode == ModeEdit {
		updated, err = replace(records, c.fields.Editing, record)
	} else {
		updated, err = appendUnique(records, record)
	}
	if err != nil {
		return err
	}

	if err := storage.Save(ctx, c.store, c.kind.StorageKey, updated); err != nil {
		c.logger.Error("failed to save collection", "entity", c.kind.Name, "key", c.kind.StorageKey, "error", err)
		c.notify(ctx, events.EventTypeRecordSaveFailed, events.LevelError, fmt.Sprintf("Failed to save %s", c.kind.Name))
		return internal.NewInternalError(fmt.Sprintf("failed to save %s", c.kind.Name), err)
	}

	c.logger.Info("record saved", "entity", c.kind.Name, "identity", record.Identity(), "mode", c.fields.Mode, "count", len(updated))
	c.state = StateIdle
	c.fields = Fields[T]{}
	c.notify(ctx, events.EventTypeRecordSaved, events.LevelSuccess, fmt.Sprintf("%s %q saved", c.kind.Name, record.Identity()))
	return nil
}

func (c *Controller[T]) notify(ctx context.Context, eventType string, level events.Level, message string) {
	if err := c.events.PublishSync(ctx, events.NewNotification(eventType, level, c.kind.Name, message)); err != nil {
		c.logger.Warn("notification not delivered", "event_type", eventType, "error", err)
	}
}

func replace[T entity.Record](records []T, editing string, record T) ([]T, error) {
	idx := -1
	for i, r := range records {
		if r.Identity() == editing {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, internal.NewNotFoundError(fmt.Sprintf("%q no longer exists", editing), internal.ErrCodeRecordNotFound)
	}
	for i, r := range records {
		if i != idx && sameIdentity(r.Identity(), record.Identity()) {
			return nil, duplicate(record.Identity())
		}
	}

	out := make([]T, len(records))
	copy(out, records)
	out[idx] = record
	return out, nil
}

func appendUnique[T entity.Record](records []T, record T) ([]T, error) {
	for _, r := range records {
		if sameIdentity(r.Identity(), record.Identity()) {
			return nil, duplicate(record.Identity())
		}
	}
	out := make([]T, 0, len(records)+1)
	out = append(out, records...)
	return append(out, record), nil
}

func sameIdentity(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

func duplicate(identity string) *internal.AppError {
	return internal.NewConflictError(fmt.Sprintf("%q already exists", identity), internal.ErrCodeDuplicateIdentity)
}
