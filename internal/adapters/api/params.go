package api

import (
	"net/url"
	"strconv"
	"time"
)

// Sort order constants
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// ListParams carries the pagination, sorting and date-range query parameters
// shared by the list endpoints.
type ListParams struct {
	Page      int
	PerPage   int
	SortBy    string
	SortOrder string
	StartDate time.Time
	EndDate   time.Time
	Filters   map[string]string
}

// Values encodes the parameters as a query string. Zero values are omitted;
// the server applies its own defaults (page 1, 20 per page).
// INVARIANT: ListParams fields are not mutated
func (p ListParams) Values() url.Values {
	v := url.Values{}
	if p.Page > 0 {
		v.Set("page", strconv.Itoa(p.Page))
	}
	if p.PerPage > 0 {
		v.Set("per_page", strconv.Itoa(p.PerPage))
	}
	if p.SortBy != "" {
		v.Set("sort_by", p.SortBy)
		order := p.SortOrder
		if order == "" {
			order = SortAsc
		}
		v.Set("sort_order", order)
	}
	if !p.StartDate.IsZero() {
		v.Set("start_date", p.StartDate.Format("2006-01-02"))
	}
	if !p.EndDate.IsZero() {
		v.Set("end_date", p.EndDate.Format("2006-01-02"))
	}
	for k, val := range p.Filters {
		v.Set(k, val)
	}
	return v
}

// itoa keeps resource path construction terse.
func itoa(n int) string {
	return strconv.Itoa(n)
}
