package dashboard

import (
	"net/http"

	"github.com/frahmantamala/lead-management/internal/core/events"
	"github.com/frahmantamala/lead-management/internal/entity"
	"github.com/frahmantamala/lead-management/internal/lead"
	"github.com/frahmantamala/lead-management/internal/session"
	"github.com/frahmantamala/lead-management/internal/transport"
)

type View struct {
	Name  string `json:"name"`
	Route string `json:"route"`
}

type HomeResponse struct {
	Session       session.Snapshot            `json:"session"`
	Views         []View                      `json:"views,omitempty"`
	Notifications []*events.NotificationEvent `json:"notifications"`
}

type HomeHandler struct {
	*transport.BaseHandler
	session *session.Controller
	inbox   *events.Inbox
}

func NewHomeHandler(baseHandler *transport.BaseHandler, s *session.Controller, inbox *events.Inbox) *HomeHandler {
	return &HomeHandler{BaseHandler: baseHandler, session: s, inbox: inbox}
}

// Home handles GET /. Views are listed only once logged in.
func (h *HomeHandler) Home(w http.ResponseWriter, r *http.Request) {
	resp := HomeResponse{
		Session:       h.session.Snapshot(),
		Notifications: h.inbox.Recent(),
	}
	if resp.Session.State == session.StateLoggedIn {
		for _, k := range entity.Kinds() {
			resp.Views = append(resp.Views, View{Name: k.Name, Route: k.Route})
		}
		resp.Views = append(resp.Views, View{Name: lead.Kind.Name, Route: lead.Kind.Route})
	}
	h.WriteJSON(w, http.StatusOK, resp)
}

// Users handles GET /account/users, the display-only registrations.
func (h *HomeHandler) Users(w http.ResponseWriter, r *http.Request) {
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"users": h.session.Users(r.Context()),
	})
}
