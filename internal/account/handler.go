package account

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/frahmantamala/lead-management/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	Login(dto LoginDTO) (*LoginResponse, error)
	Register(dto RegisterDTO) ([]UserResponse, error)
	Me(token string) (*UserResponse, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, svc ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     svc,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/api/account/login", h.Login)
	r.Post("/api/account/register", h.Register)
	r.Get("/api/account/me", h.Me)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.Service.Login(dto)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var dto RegisterDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	accounts, err := h.Service.Register(dto)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, accounts)
}

// Me handles GET /api/account/me with Authorization: Bearer <token>.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	token, ok := bearerToken(r)
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "missing bearer token")
		return
	}

	user, err := h.Service.Me(token)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, user)
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	return strings.TrimSpace(header[len(prefix):]), true
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	var validationErr ValidationError
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		h.WriteError(w, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, ErrInvalidToken):
		h.WriteError(w, http.StatusUnauthorized, "invalid token")
	case errors.Is(err, ErrEmailTaken):
		h.WriteError(w, http.StatusConflict, err.Error())
	case errors.As(err, &validationErr):
		h.WriteError(w, http.StatusBadRequest, err.Error())
	default:
		h.Logger.Error("account request failed", "error", err)
		h.WriteError(w, http.StatusInternalServerError, "internal server error")
	}
}
