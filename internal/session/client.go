package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/frahmantamala/lead-management/internal"
	"github.com/frahmantamala/lead-management/internal/storage"
)

const (
	loginPath    = "/api/account/login"
	registerPath = "/api/account/register"
	mePath       = "/api/account/me"
)

// AccountAPI is the remote account service the session talks to.
type AccountAPI interface {
	Login(ctx context.Context, credentials Credentials) (*LoginResponse, error)
	Register(ctx context.Context, req RegisterRequest) ([]json.RawMessage, error)
	Me(ctx context.Context) (*User, error)
}

type ClientConfig struct {
	BaseURL string
	Timeout time.Duration
}

// Client calls the account service over HTTP. Calls made through
// DoAuthenticated carry the stored service token as a Bearer header.
type Client struct {
	baseURL    string
	httpClient *http.Client
	store      storage.Adapter
	logger     *slog.Logger
}

func NewClient(config ClientConfig, store storage.Adapter, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(config.BaseURL, "/"),
		httpClient: &http.Client{Timeout: config.Timeout},
		store:      store,
		logger:     logger,
	}
}

func (c *Client) Login(ctx context.Context, credentials Credentials) (*LoginResponse, error) {
	var resp LoginResponse
	if err := c.do(ctx, http.MethodPost, loginPath, "", credentials, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Register(ctx context.Context, req RegisterRequest) ([]json.RawMessage, error) {
	var resp []json.RawMessage
	if err := c.do(ctx, http.MethodPost, registerPath, "", req, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// Me looks up the account owning the stored token.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var user User
	if err := c.DoAuthenticated(ctx, http.MethodGet, mePath, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// DoAuthenticated sends a request carrying Authorization: Bearer <token>.
// Without a stored token it returns internal.ErrSessionMissing and sends
// nothing.
func (c *Client) DoAuthenticated(ctx context.Context, method, path string, body, out interface{}) error {
	token, ok := storage.LoadValue[string](ctx, c.store, storage.KeyServiceToken)
	if !ok || token == "" {
		return internal.ErrSessionMissing
	}
	return c.do(ctx, method, path, token, body, out)
}

func (c *Client) do(ctx context.Context, method, path, token string, body, out interface{}) error {
	if c.baseURL == "" {
		return ErrAccountNotConfigured
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("account request failed", "method", method, "path", path, "error", err)
		return fmt.Errorf("account request %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("account request completed",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds())

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("account service returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode account response: %w", err)
	}
	return nil
}
