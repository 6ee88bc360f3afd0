package dashboard

import (
	"context"
	"net/http"
	"net/url"

	"github.com/frahmantamala/lead-management/internal"
	"github.com/frahmantamala/lead-management/internal/core/events"
	"github.com/frahmantamala/lead-management/internal/entity"
	"github.com/frahmantamala/lead-management/internal/form"
	"github.com/frahmantamala/lead-management/internal/listing"
	"github.com/frahmantamala/lead-management/internal/storage"
	"github.com/frahmantamala/lead-management/internal/transport"
	"github.com/frahmantamala/lead-management/internal/transport/paging"
	"github.com/go-chi/chi"
)

// OptionsFunc lists the choices a form offers, keyed by field.
type OptionsFunc func(ctx context.Context) map[string][]string

// EntityHandler serves one CRUD screen. Every request mounts the collection
// afresh, the way a view loads storage when it is opened.
type EntityHandler[T form.Validated] struct {
	*transport.BaseHandler
	Kind    entity.Kind
	store   storage.Adapter
	events  events.Publisher
	options OptionsFunc
}

func NewEntityHandler[T form.Validated](baseHandler *transport.BaseHandler, kind entity.Kind, store storage.Adapter, publisher events.Publisher, options OptionsFunc) *EntityHandler[T] {
	if options == nil {
		options = StatusOptions
	}
	return &EntityHandler[T]{
		BaseHandler: baseHandler,
		Kind:        kind,
		store:       store,
		events:      publisher,
		options:     options,
	}
}

// Routes registers the screen's endpoints on r.
func (h *EntityHandler[T]) Routes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/form", h.Form)
	r.Post("/", h.Create)
	r.Put("/{name}", h.Update)
	r.Delete("/{name}", h.Delete)
}

type FormResponse[T form.Validated] struct {
	Fields  form.Fields[T]      `json:"fields"`
	Options map[string][]string `json:"options"`
}

type DeleteResponse struct {
	Deleted   bool `json:"deleted"`
	Cancelled bool `json:"cancelled,omitempty"`
}

func (h *EntityHandler[T]) newList(ctx context.Context) *listing.Controller[T] {
	l := listing.NewController[T](h.Kind, h.store, h.events, h.Logger)
	l.Mount(ctx)
	return l
}

func (h *EntityHandler[T]) newForm() *form.Controller[T] {
	return form.NewController[T](h.Kind, h.store, h.events, h.Logger)
}

// List handles GET {route}/?q=&status=&page=&page_size=
func (h *EntityHandler[T]) List(w http.ResponseWriter, r *http.Request) {
	q := paging.FromRequest(r)

	l := h.newList(r.Context())
	l.SetFilter(q.Search, q.Status)
	l.SetPageSize(q.PageSize)
	l.SetPage(q.Page)

	h.WriteJSON(w, http.StatusOK, paging.NewPage(l.VisibleRows(), l))
}

// Form handles GET {route}/form?name=; without name it opens a blank form.
func (h *EntityHandler[T]) Form(w http.ResponseWriter, r *http.Request) {
	f := h.newForm()

	var fields form.Fields[T]
	if name := r.URL.Query().Get("name"); name != "" {
		existing, ok := h.newList(r.Context()).Find(name)
		if !ok {
			h.WriteAppError(w, h.notFound(name))
			return
		}
		fields = f.Open(&existing)
	} else {
		fields = f.Open(nil)
	}

	h.WriteJSON(w, http.StatusOK, FormResponse[T]{Fields: fields, Options: h.options(r.Context())})
}

// Create handles POST {route}/
func (h *EntityHandler[T]) Create(w http.ResponseWriter, r *http.Request) {
	var record T
	if err := h.DecodeJSON(r, &record); err != nil {
		h.WriteAppError(w, err)
		return
	}

	f := h.newForm()
	f.Open(nil)
	if err := f.Submit(r.Context(), record); err != nil {
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, record)
}

// Update handles PUT {route}/{name}; the body may rename the record.
func (h *EntityHandler[T]) Update(w http.ResponseWriter, r *http.Request) {
	name, err := url.PathUnescape(chi.URLParam(r, "name"))
	if err != nil {
		h.WriteAppError(w, transport.ErrInvalidBody)
		return
	}

	existing, ok := h.newList(r.Context()).Find(name)
	if !ok {
		h.WriteAppError(w, h.notFound(name))
		return
	}

	var record T
	if err := h.DecodeJSON(r, &record); err != nil {
		h.WriteAppError(w, err)
		return
	}

	f := h.newForm()
	f.Open(&existing)
	if err := f.Submit(r.Context(), record); err != nil {
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, record)
}

// Delete handles DELETE {route}/{name}?confirm=true. Without confirm=true
// the prompt counts as cancelled and nothing is written.
func (h *EntityHandler[T]) Delete(w http.ResponseWriter, r *http.Request) {
	name, err := url.PathUnescape(chi.URLParam(r, "name"))
	if err != nil {
		h.WriteAppError(w, transport.ErrInvalidBody)
		return
	}

	decision := listing.Cancel
	if r.URL.Query().Get("confirm") == "true" {
		decision = listing.Confirm
	}

	deleted, err := h.newList(r.Context()).Delete(r.Context(), name, decision)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, DeleteResponse{Deleted: deleted, Cancelled: decision == listing.Cancel})
}

func (h *EntityHandler[T]) notFound(name string) *internal.AppError {
	return internal.NewNotFoundError(h.Kind.Name+" "+name+" not found", internal.ErrCodeRecordNotFound)
}
