// Package listing derives the visible rows of an entity table: filter by a
// search term and status, then slice out the current page.
package listing

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

const DefaultPageSize = 10

// Decision is the answer to the delete confirmation prompt.
type Decision int

const (
	Cancel Decision = iota
	Confirm
)

var ErrReadOnly = errors.New("list is read only")

// Controller holds one table's in-memory collection and view state. The
// collection is the source of truth until the next Mount.
type Controller[T entity.Record] struct {
	kind   entity.Kind
	store  storage.Adapter
	events events.Publisher
	logger *slog.Logger

	records  []T
	filtered []T

	term     string
	status   string
	page     int
	pageSize int
}

func NewController[T entity.Record](kind entity.Kind, store storage.Adapter, publisher events.Publisher, logger *slog.Logger) *Controller[T] {
	if publisher == nil {
		publisher = events.Discard{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller[T]{
		kind:     kind,
		store:    store,
		events:   publisher,
		logger:   logger,
		records:  []T{},
		filtered: []T{},
		pageSize: DefaultPageSize,
	}
}

// FromRecords builds a read-only list over a fixed collection.
func FromRecords[T entity.Record](kind entity.Kind, records []T) *Controller[T] {
	c := NewController[T](kind, nil, nil, nil)
	c.records = append([]T(nil), records...)
	c.refilter()
	return c
}

// Mount loads the collection from storage, replacing what is held.
func (c *Controller[T]) Mount(ctx context.Context) {
	if c.store == nil {
		return
	}
	c.records = storage.Load[T](ctx, c.store, c.kind.StorageKey)
	c.refilter()
}

// SetFilter matches term case-insensitively against each record's search
// text; an empty status matches every status. The page resets to the first.
func (c *Controller[T]) SetFilter(term, status string) {
	c.term = strings.TrimSpace(term)
	c.status = strings.TrimSpace(status)
	c.page = 0
	c.refilter()
}

func (c *Controller[T]) SetPage(page int) {
	if page < 0 {
		page = 0
	}
	c.page = page
}

// SetPageSize changes the page size and always returns to the first page.
func (c *Controller[T]) SetPageSize(n int) {
	if n <= 0 {
		n = DefaultPageSize
	}
	c.pageSize = n
	c.page = 0
}

func (c *Controller[T]) Page() int     { return c.page }
func (c *Controller[T]) PageSize() int { return c.pageSize }

// Total is the number of records passing the filter.
func (c *Controller[T]) Total() int { return len(c.filtered) }

func (c *Controller[T]) PageCount() int {
	return (len(c.filtered) + c.pageSize - 1) / c.pageSize
}

// All returns the whole held collection in insertion order.
func (c *Controller[T]) All() []T {
	return append([]T(nil), c.records...)
}

// Find returns the held record with the given identity.
func (c *Controller[T]) Find(identity string) (T, bool) {
	for _, r := range c.records {
		if r.Identity() == identity {
			return r, true
		}
	}
	var zero T
	return zero, false
}

// VisibleRows is filtered[page*size : page*size+size], clamped to the
// filtered length, in stored order.
func (c *Controller[T]) VisibleRows() []T {
	start := c.page * c.pageSize
	if start >= len(c.filtered) {
		return []T{}
	}
	end := start + c.pageSize
	if end > len(c.filtered) {
		end = len(c.filtered)
	}
	return append([]T(nil), c.filtered[start:end]...)
}

// Delete removes the record matching identity after the caller confirmed.
// Cancel and unknown identities are no-ops and perform no write. The return
// value reports whether a record was removed.
func (c *Controller[T]) Delete(ctx context.Context, identity string, decision Decision) (bool, error) {
	if decision != Confirm {
		return false, nil
	}
	if c.store == nil {
		return false, ErrReadOnly
	}

	idx := -1
	for i, r := range c.records {
		if r.Identity() == identity {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false, nil
	}

	remaining := make([]T, 0, len(c.records)-1)
	remaining = append(remaining, c.records[:idx]...)
	remaining = append(remaining, c.records[idx+1:]...)

	if err := storage.Save(ctx, c.store, c.kind.StorageKey, remaining); err != nil {
		c.logger.Error("failed to persist delete", "entity", c.kind.Name, "identity", identity, "error", err)
		c.notify(ctx, events.EventTypeRecordSaveFailed, events.LevelError, fmt.Sprintf("Failed to delete %s", c.kind.Name))
		return false, internal.NewInternalError(fmt.Sprintf("failed to delete %s", c.kind.Name), err)
	}

	c.records = remaining
	c.refilter()
	c.logger.Info("record deleted", "entity", c.kind.Name, "identity", identity, "count", len(remaining))
	c.notify(ctx, events.EventTypeRecordDeleted, events.LevelSuccess, fmt.Sprintf("%s %q deleted", c.kind.Name, identity))
	return true, nil
}

func (c *Controller[T]) refilter() {
	term := strings.ToLower(c.term)
	out := make([]T, 0, len(c.records))
	for _, r := range c.records {
		if c.status != "" && r.StatusValue() != c.status {
			continue
		}
		if term != "" && !strings.Contains(strings.ToLower(r.SearchText()), term) {
			continue
		}
		out = append(out, r)
	}
	c.filtered = out
}

func (c *Controller[T]) notify(ctx context.Context, eventType string, level events.Level, message string) {
	if err := c.events.PublishSync(ctx, events.NewNotification(eventType, level, c.kind.Name, message)); err != nil {
		c.logger.Warn("notification not delivered", "event_type", eventType, "error", err)
	}
}
