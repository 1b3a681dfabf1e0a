package domain

import "math"

const (
	defaultPageLimit = 50
	maxPageLimit     = 200
	// maxPage keeps (Page-1)*Limit within an int for every allowed limit.
	maxPage = math.MaxInt / maxPageLimit
)

// PaginationParams carries optional page/limit values from the HTTP layer to
// the repo layer. The zero value means "no paging": return every row.
type PaginationParams struct {
	// Page is the current page number, starting at 1.
	Page int
	// Limit is the maximum number of rows to return. Zero disables paging.
	Limit int
}

// NewPaginationParams builds PaginationParams from optional query values.
// When neither is supplied the result is unpaged. Otherwise a missing page
// falls back to 1 and a missing limit to 50. The limit is capped at 200 and
// the page at maxPage.
func NewPaginationParams(page, limit *int) PaginationParams {
	if page == nil && limit == nil {
		return PaginationParams{}
	}
	p := PaginationParams{Page: 1, Limit: defaultPageLimit}
	if page != nil && *page >= 1 {
		p.Page = min(*page, maxPage)
	}
	if limit != nil && *limit >= 1 {
		p.Limit = min(*limit, maxPageLimit)
	}
	return p
}

// Paged reports whether a LIMIT/OFFSET should be applied.
func (p PaginationParams) Paged() bool { return p.Limit > 0 }

// Offset returns the zero-based row offset for a SQL OFFSET clause.
func (p PaginationParams) Offset() int {
	if !p.Paged() || p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}
