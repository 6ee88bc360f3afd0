package paging

import (
	"net/http"
	"strconv"
	"strings"
)

// MaxPageSize caps page_size from the query string.
const MaxPageSize = 100

// Query is the list view state carried in the query string. Page is the
// zero-based page index; the wire value is one-based.
type Query struct {
	Search   string
	Status   string
	Page     int
	PageSize int
}

// FromRequest reads q, status, page and page_size. Missing or invalid
// numbers fall back to the first page and the default size (0).
func FromRequest(r *http.Request) Query {
	values := r.URL.Query()

	page, _ := strconv.Atoi(values.Get("page"))
	if page < 1 {
		page = 1
	}

	size, _ := strconv.Atoi(values.Get("page_size"))
	if size < 0 {
		size = 0
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}

	return Query{
		Search:   strings.TrimSpace(values.Get("q")),
		Status:   strings.TrimSpace(values.Get("status")),
		Page:     page - 1,
		PageSize: size,
	}
}

// Lister is the view state a page response is built from.
type Lister interface {
	Page() int
	PageSize() int
	Total() int
	PageCount() int
}

type Meta struct {
	Page       int  `json:"page"`
	PageSize   int  `json:"page_size"`
	Total      int  `json:"total"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

type Page[T any] struct {
	Data []T  `json:"data"`
	Meta Meta `json:"meta"`
}

func NewPage[T any](rows []T, l Lister) Page[T] {
	if rows == nil {
		rows = []T{}
	}
	page := l.Page() + 1
	pages := l.PageCount()
	return Page[T]{
		Data: rows,
		Meta: Meta{
			Page:       page,
			PageSize:   l.PageSize(),
			Total:      l.Total(),
			TotalPages: pages,
			HasNext:    page < pages,
			HasPrev:    page > 1,
		},
	}
}
