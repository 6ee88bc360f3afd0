package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/frahmantamala/lead-management/internal"
	"github.com/frahmantamala/lead-management/internal/core/events"
	"github.com/frahmantamala/lead-management/internal/storage"
	"github.com/google/uuid"
)

// Controller is the console's single session. The token in storage is the
// only proof of login; whether it is still honoured is up to the verifier.
type Controller struct {
	mu    sync.RWMutex
	state State
	user  *User

	store    storage.Adapter
	account  AccountAPI
	verifier TokenVerifier
	events   events.Publisher
	logger   *slog.Logger
}

func NewController(store storage.Adapter, account AccountAPI, verifier TokenVerifier, publisher events.Publisher, logger *slog.Logger) *Controller {
	if verifier == nil {
		verifier = PresenceVerifier{}
	}
	if publisher == nil {
		publisher = events.Discard{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		state:    StateUninitialized,
		store:    store,
		account:  account,
		verifier: verifier,
		events:   publisher,
		logger:   logger,
	}
}

// Initialize derives the session from the stored token. A Login or Logout
// that finishes while storage is being read wins over the stored state.
func (c *Controller) Initialize(ctx context.Context) State {
	c.mu.Lock()
	c.state = StateInitializing
	c.mu.Unlock()

	token, found := storage.LoadValue[string](ctx, c.store, storage.KeyServiceToken)
	accepted := found && c.verifier.Verify(token)

	var user *User
	if accepted {
		if u, ok := storage.LoadValue[User](ctx, c.store, storage.KeyPersonalInfo); ok {
			user = &u
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateInitializing {
		c.logger.Info("session changed during initialization", "state", c.state)
		return c.state
	}

	if accepted {
		c.state = StateLoggedIn
	} else {
		c.state = StateLoggedOut
	}
	c.user = user
	c.logger.Info("session initialized", "state", c.state, "token_present", found)
	return c.state
}

func (c *Controller) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	snap := Snapshot{State: c.state}
	if c.user != nil {
		u := *c.user
		snap.User = &u
	}
	return snap
}

// Login calls the account service and stores the returned token. Failures
// are returned unchanged in kind; nothing is retried.
func (c *Controller) Login(ctx context.Context, credentials Credentials) (*User, error) {
	if err := credentials.Validate(); err != nil {
		return nil, err
	}
	if c.account == nil {
		return nil, internal.NewExternalError("login failed", ErrAccountNotConfigured)
	}

	resp, err := c.account.Login(ctx, credentials)
	if err != nil {
		c.logger.Warn("login failed", "email", credentials.Email, "error", err)
		c.notify(ctx, events.EventTypeSessionLoginFailed, events.LevelError, "Login failed")
		return nil, internal.NewExternalError("login failed", err)
	}
	if resp.ServiceToken == "" {
		c.notify(ctx, events.EventTypeSessionLoginFailed, events.LevelError, "Login failed")
		return nil, internal.NewExternalError("login failed", ErrEmptyToken)
	}

	if err := storage.SaveValue(ctx, c.store, storage.KeyServiceToken, resp.ServiceToken); err != nil {
		return nil, internal.NewInternalError("failed to store session token", err)
	}
	if err := storage.SaveValue(ctx, c.store, storage.KeyPersonalInfo, resp.User); err != nil {
		c.logger.Warn("failed to cache personal info", "error", err)
	}

	user := resp.User
	c.mu.Lock()
	c.state = StateLoggedIn
	c.user = &user
	c.mu.Unlock()

	c.logger.Info("operator logged in", "email", user.Email)
	c.notify(ctx, events.EventTypeSessionLoggedIn, events.LevelSuccess, "Logged in as "+user.Email)
	return &user, nil
}

// Logout forgets the token. It cannot fail; storage errors are only logged.
func (c *Controller) Logout(ctx context.Context) {
	if err := c.store.Remove(ctx, storage.KeyServiceToken); err != nil {
		c.logger.Warn("failed to remove session token", "error", err)
	}
	if err := c.store.Remove(ctx, storage.KeyPersonalInfo); err != nil {
		c.logger.Warn("failed to remove personal info", "error", err)
	}

	c.mu.Lock()
	c.state = StateLoggedOut
	c.user = nil
	c.mu.Unlock()

	c.logger.Info("operator logged out")
	c.notify(ctx, events.EventTypeSessionLoggedOut, events.LevelSuccess, "Logged out")
}

// Register creates an account remotely and keeps a display-only copy of it
// under users. The session state does not change.
func (c *Controller) Register(ctx context.Context, fields RegisterFields) (*ShadowUser, error) {
	if err := fields.Validate(); err != nil {
		return nil, err
	}
	if c.account == nil {
		return nil, internal.NewExternalError("registration failed", ErrAccountNotConfigured)
	}

	req := RegisterRequest{
		ID:        uuid.NewString(),
		Email:     fields.Email,
		Password:  fields.Password,
		FirstName: fields.FirstName,
		LastName:  fields.LastName,
	}
	if _, err := c.account.Register(ctx, req); err != nil {
		c.logger.Warn("registration failed", "email", fields.Email, "error", err)
		c.notify(ctx, events.EventTypeSessionRegisterFailed, events.LevelError, "Registration failed")
		return nil, internal.NewExternalError("registration failed", err)
	}

	shadow := ShadowUser{ID: req.ID, Email: req.Email, FirstName: req.FirstName, LastName: req.LastName}
	users := storage.Load[ShadowUser](ctx, c.store, storage.KeyUsers)
	users = append(users, shadow)
	if err := storage.Save(ctx, c.store, storage.KeyUsers, users); err != nil {
		c.logger.Warn("failed to cache registered user", "email", req.Email, "error", err)
	}

	c.logger.Info("account registered", "email", req.Email, "id", req.ID)
	return &shadow, nil
}

// Users returns the display-only registrations.
func (c *Controller) Users(ctx context.Context) []ShadowUser {
	return storage.Load[ShadowUser](ctx, c.store, storage.KeyUsers)
}

// Profile asks the account service who the stored token belongs to and
// refreshes personalInfo with the answer.
func (c *Controller) Profile(ctx context.Context) (*User, error) {
	if c.account == nil {
		return nil, internal.NewExternalError("profile lookup failed", ErrAccountNotConfigured)
	}

	user, err := c.account.Me(ctx)
	if err != nil {
		if errors.Is(err, internal.ErrSessionMissing) {
			return nil, internal.ErrSessionMissing
		}
		c.logger.Warn("profile lookup failed", "error", err)
		return nil, internal.NewExternalError("profile lookup failed", err)
	}

	if err := storage.SaveValue(ctx, c.store, storage.KeyPersonalInfo, *user); err != nil {
		c.logger.Warn("failed to cache personal info", "error", err)
	}

	c.mu.Lock()
	if c.state == StateLoggedIn {
		u := *user
		c.user = &u
	}
	c.mu.Unlock()
	return user, nil
}

func (c *Controller) notify(ctx context.Context, eventType string, level events.Level, message string) {
	if err := c.events.PublishSync(ctx, events.NewNotification(eventType, level, "session", message)); err != nil {
		c.logger.Warn("notification not delivered", "event_type", eventType, "error", err)
	}
}
