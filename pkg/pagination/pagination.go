package pagination

import (
	"math"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
)

const (
	DefaultPerPage = 10
	MaxPerPage     = 100

	// MaxOffset bounds (page-1)*perPage so it fits a Postgres integer.
	MaxOffset = math.MaxInt32
)

// Params holds lazy-list parameters extracted from a request.
type Params struct {
	Page    int
	PerPage int
	Search  string
}

// FromContext extracts ?page=, ?perPage= and ?search= from the echo context.
// Missing or invalid values fall back to page 1 and DefaultPerPage. Pages
// past MaxOffset are clamped.
func FromContext(c echo.Context) Params {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page <= 0 {
		page = 1
	}

	perPage, _ := strconv.Atoi(c.QueryParam("perPage"))
	if perPage <= 0 {
		perPage, _ = strconv.Atoi(c.QueryParam("per_page"))
	}
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	if maxPage := MaxOffset/perPage + 1; page > maxPage {
		page = maxPage
	}

	return Params{
		Page:    page,
		PerPage: perPage,
		Search:  strings.TrimSpace(c.QueryParam("search")),
	}
}

// Limit is the SQL LIMIT for the page.
func (p Params) Limit() int {
	return p.PerPage
}

// Offset is the SQL OFFSET for the page: (page-1)*perPage, never above
// MaxOffset.
func (p Params) Offset() int {
	if p.Page <= 1 || p.PerPage <= 0 {
		return 0
	}
	if p.Page-1 > MaxOffset/p.PerPage {
		return MaxOffset
	}
	return (p.Page - 1) * p.PerPage
}

// Window applies the page to an already ordered slice. It is used by the
// in-memory repositories in tests to mirror LIMIT/OFFSET.
func Window[T any](items []T, p Params) []T {
	start := p.Offset()
	if start >= len(items) {
		return []T{}
	}
	end := start + p.Limit()
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// TotalCountHeader carries the unpaginated row count of a lazy list.
const TotalCountHeader = "X-Total-Count"
