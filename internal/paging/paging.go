// Package paging holds the page/limit/total-pages envelope returned by every list operation.
package paging

const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// Request is a normalised, 1-indexed page request.
type Request struct {
	Page  int
	Limit int
}

// Normalize applies the defaults: when page or limit is missing both fall back to page 1, limit 10.
// Non-positive values count as missing.
func Normalize(page, limit *int) Request {
	if page == nil || limit == nil || *page < 1 || *limit < 1 {
		return Request{Page: DefaultPage, Limit: DefaultLimit}
	}
	return Request{Page: *page, Limit: *limit}
}

func (r Request) Offset() int {
	return (r.Page - 1) * r.Limit
}

// Model is the paging envelope. TotalPages comes from a count query, never from len(ListResult).
type Model[T any] struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPage"`
	ListResult []T `json:"listResult"`
}

func TotalPages(total int64, limit int) int {
	if limit < 1 || total <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}

func New[T any](req Request, total int64, items []T) Model[T] {
	if items == nil {
		items = []T{}
	}
	return Model[T]{
		Page:       req.Page,
		Limit:      req.Limit,
		TotalPages: TotalPages(total, req.Limit),
		ListResult: items,
	}
}

// Map converts the list while keeping the paging metadata.
func Map[S, T any](m Model[S], fn func(S) T) Model[T] {
	out := make([]T, 0, len(m.ListResult))
	for _, item := range m.ListResult {
		out = append(out, fn(item))
	}
	return Model[T]{Page: m.Page, Limit: m.Limit, TotalPages: m.TotalPages, ListResult: out}
}
