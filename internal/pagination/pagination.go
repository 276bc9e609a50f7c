package pagination

import (
	"net/url"
	"strconv"
)

// Backend paging defaults for list endpoints
const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// Params represents the page being requested from a backend list endpoint
type Params struct {
	Page  int `json:"page"`  // Current page number (1-based)
	Limit int `json:"limit"` // Number of items per page
}

// Meta is the paging envelope returned by the backend alongside a list
type Meta struct {
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
	Total   int `json:"total"`
}

// FirstPage returns params for the first page with the given size
func FirstPage(limit int) Params {
	p := Params{Page: DefaultPage, Limit: limit}
	p.Validate()
	return p
}

// Validate ensures pagination parameters are valid and sets defaults if needed
func (p *Params) Validate() {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.Limit < 1 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
}

// Next returns the params for the following page
func (p Params) Next() Params {
	return Params{Page: p.Page + 1, Limit: p.Limit}
}

// Apply writes the page and size into query values using the backend's key names
func (p Params) Apply(q url.Values, pageKey, limitKey string) {
	if pageKey != "" {
		q.Set(pageKey, strconv.Itoa(p.Page))
	}
	if limitKey != "" {
		q.Set(limitKey, strconv.Itoa(p.Limit))
	}
}

// TotalPages returns the number of pages the backend reports
func (m Meta) TotalPages() int {
	if m.PerPage < 1 {
		return 1
	}
	totalPages := (m.Total + m.PerPage - 1) / m.PerPage // Ceiling division
	if totalPages < 1 {
		totalPages = 1
	}
	return totalPages
}

// HasNext reports whether another page follows the one described by m
func (m Meta) HasNext() bool {
	return m.Page < m.TotalPages()
}
