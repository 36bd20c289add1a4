// Package pagination parses list-query parameters (sort field, order,
// page, limit) and builds the pagination metadata block returned in API
// responses.
package pagination

import (
	"net/url"
	"strconv"
	"time"
)

const (
	// DefaultLimit is the page size when the client does not specify one.
	DefaultLimit = 10

	// MaxLimit caps the page size a client may request.
	MaxLimit = 100
)

// Params holds normalized list-query parameters. SortBy is always one of
// the whitelisted fields handed to FromQuery, so it is safe to
// interpolate into ORDER BY.
type Params struct {
	SortBy string
	Order  string // "asc" or "desc"
	Page   int
	Limit  int

	columns map[string]string
}

// FromQuery parses sortBy/order/page/limit from query values. sortFields
// maps allowed sort keys (as they appear in the query string) to column
// names; an unknown or missing sortBy falls back to defaultSort.
func FromQuery(q url.Values, sortFields map[string]string, defaultSort string) Params {
	sortBy := q.Get("sortBy")
	if _, ok := sortFields[sortBy]; !ok {
		sortBy = defaultSort
	}

	order := "desc"
	if q.Get("order") == "asc" {
		order = "asc"
	}

	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}

	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	return Params{
		SortBy:  sortBy,
		Order:   order,
		Page:    page,
		Limit:   limit,
		columns: sortFields,
	}
}

// SortColumn returns the database column for the active sort field.
func (p Params) SortColumn() string {
	if col, ok := p.columns[p.SortBy]; ok {
		return col
	}
	return "created_at"
}

// OrderSQL returns the SQL order keyword for the active order.
func (p Params) OrderSQL() string {
	if p.Order == "asc" {
		return "ASC"
	}
	return "DESC"
}

// Offset returns the row offset for the active page.
func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Metadata is the pagination block attached to list responses.
type Metadata struct {
	Total           int    `json:"total"`
	Page            int    `json:"page"`
	Limit           int    `json:"limit"`
	TotalPages      int    `json:"totalPages"`
	NextPage        *int   `json:"nextPage"`
	PreviousPage    *int   `json:"previousPage"`
	HasNextPage     bool   `json:"hasNextPage"`
	HasPreviousPage bool   `json:"hasPreviousPage"`
	IsFirstPage     bool   `json:"isFirstPage"`
	IsLastPage      bool   `json:"isLastPage"`
	SortBy          string `json:"sortBy"`
	Order           string `json:"order"`
	Timestamp       int64  `json:"timestamp"`
}

// NewMetadata builds the metadata block for a page of results.
func NewMetadata(total int, p Params) Metadata {
	totalPages := (total + p.Limit - 1) / p.Limit

	m := Metadata{
		Total:       total,
		Page:        p.Page,
		Limit:       p.Limit,
		TotalPages:  totalPages,
		IsFirstPage: p.Page == 1,
		IsLastPage:  p.Page >= totalPages,
		SortBy:      p.SortBy,
		Order:       p.Order,
		Timestamp:   time.Now().UnixMilli(),
	}

	if next := p.Page + 1; next <= totalPages {
		m.NextPage = &next
		m.HasNextPage = true
	}
	if prev := p.Page - 1; prev >= 1 {
		m.PreviousPage = &prev
		m.HasPreviousPage = true
	}
	return m
}
