package lead

import (
	"net/http"

	"github.com/frahmantamala/lead-management/internal/listing"
	"github.com/frahmantamala/lead-management/internal/transport"
	"github.com/frahmantamala/lead-management/internal/transport/paging"
)

type Handler struct {
	*transport.BaseHandler
	leads []Lead
}

func NewHandler(baseHandler *transport.BaseHandler, leads []Lead) *Handler {
	return &Handler{BaseHandler: baseHandler, leads: leads}
}

// List handles GET /lead/list
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := paging.FromRequest(r)

	list := listing.FromRecords(Kind, h.leads)
	list.SetFilter(q.Search, q.Status)
	list.SetPageSize(q.PageSize)
	list.SetPage(q.Page)

	h.WriteJSON(w, http.StatusOK, paging.NewPage(list.VisibleRows(), list))
}
