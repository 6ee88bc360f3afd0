package session

import (
	"net/http"

	"github.com/frahmantamala/lead-management/internal"
	"github.com/frahmantamala/lead-management/internal/transport"
	"github.com/frahmantamala/lead-management/pkg/logger"
)

type Handler struct {
	*transport.BaseHandler
	Session *Controller
}

func NewHandler(baseHandler *transport.BaseHandler, session *Controller) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Session:     session,
	}
}

// GetSession handles GET /session
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	h.WriteJSON(w, http.StatusOK, h.Session.Snapshot())
}

// Login handles POST /login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var credentials Credentials
	if err := h.DecodeJSON(r, &credentials); err != nil {
		h.WriteAppError(w, err)
		return
	}

	if _, err := h.Session.Login(r.Context(), credentials); err != nil {
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, h.Session.Snapshot())
}

// Logout handles POST /logout
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.Session.Logout(r.Context())
	h.WriteJSON(w, http.StatusOK, h.Session.Snapshot())
}

// Register handles POST /register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var fields RegisterFields
	if err := h.DecodeJSON(r, &fields); err != nil {
		h.WriteAppError(w, err)
		return
	}

	user, err := h.Session.Register(r.Context(), fields)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, user)
}

// Profile handles GET /account/me
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	user, err := h.Session.Profile(r.Context())
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, user)
}

// RequireSession gates protected views. Before initialization finishes it
// answers 503 with a loading body; a logged out console is sent to "/".
func (h *Handler) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		snap := h.Session.Snapshot()

		switch snap.State {
		case StateLoggedIn:
			ctx := r.Context()
			if snap.User != nil {
				ctx = internal.ContextWithOperator(ctx, snap.User.Email)
				ctx = logger.With(ctx, "operator", snap.User.Email)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		case StateLoggedOut:
			http.Redirect(w, r, "/", http.StatusSeeOther)
		default:
			w.Header().Set("Retry-After", "1")
			h.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "loading",
				"state":  string(snap.State),
			})
		}
	})
}
