package events

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeRecordSaved      = "record.saved"
	EventTypeRecordSaveFailed = "record.save_failed"
	EventTypeRecordDeleted    = "record.deleted"
	EventTypeSessionLoggedIn  = "session.logged_in"
	EventTypeSessionLoggedOut = "session.logged_out"

	EventTypeSessionLoginFailed    = "session.login_failed"
	EventTypeSessionRegisterFailed = "session.register_failed"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// NotificationEvent is the user visible toast raised after a form submit,
// a delete or a session change.
type NotificationEvent struct {
	BaseEvent
	Level   Level  `json:"level"`
	Entity  string `json:"entity,omitempty"`
	Message string `json:"message"`
}

func NewNotification(eventType string, level Level, entity, message string) *NotificationEvent {
	return &NotificationEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      eventType,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"level":   string(level),
				"entity":  entity,
				"message": message,
			},
		},
		Level:   level,
		Entity:  entity,
		Message: message,
	}
}

// Inbox keeps the most recent notifications for the dashboard to render.
type Inbox struct {
	mu    sync.Mutex
	items []*NotificationEvent
	limit int
}

func NewInbox(limit int) *Inbox {
	if limit <= 0 {
		limit = 20
	}
	return &Inbox{limit: limit}
}

// Attach subscribes the inbox to every notification event type.
func (in *Inbox) Attach(bus *EventBus) {
	for _, t := range []string{
		EventTypeRecordSaved,
		EventTypeRecordSaveFailed,
		EventTypeRecordDeleted,
		EventTypeSessionLoggedIn,
		EventTypeSessionLoggedOut,
		EventTypeSessionLoginFailed,
		EventTypeSessionRegisterFailed,
	} {
		bus.Subscribe(t, in.handle)
	}
}

func (in *Inbox) handle(_ context.Context, event Event) error {
	n, ok := event.(*NotificationEvent)
	if !ok {
		return nil
	}
	in.mu.Lock()
	defer in.mu.Unlock()
	in.items = append(in.items, n)
	if len(in.items) > in.limit {
		in.items = in.items[len(in.items)-in.limit:]
	}
	return nil
}

// Recent returns notifications newest first.
func (in *Inbox) Recent() []*NotificationEvent {
	in.mu.Lock()
	defer in.mu.Unlock()
	out := make([]*NotificationEvent, len(in.items))
	for i, n := range in.items {
		out[len(in.items)-1-i] = n
	}
	return out
}
