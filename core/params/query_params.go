package params

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

const (
	DefaultPageNumber = 1
	DefaultPageSize   = 20
	MaxPageSize       = 100
)

// QueryParams holds common list-endpoint query parameters.
type QueryParams struct {
	PageNumber int
	PageSize   int
	Search     string
	SortBy     string
	SortDir    string
}

// FromContext extracts paging/sorting parameters from an echo request,
// clamping them to sane bounds.
func FromContext(c echo.Context) QueryParams {
	qp := QueryParams{
		PageNumber: DefaultPageNumber,
		PageSize:   DefaultPageSize,
		Search:     c.QueryParam("search"),
		SortBy:     c.QueryParam("sort_by"),
		SortDir:    c.QueryParam("sort_direction"),
	}

	if n, err := strconv.Atoi(c.QueryParam("page_number")); err == nil && n > 0 {
		qp.PageNumber = n
	}
	if n, err := strconv.Atoi(c.QueryParam("page_size")); err == nil && n > 0 {
		qp.PageSize = n
	}
	if qp.PageSize > MaxPageSize {
		qp.PageSize = MaxPageSize
	}
	return qp
}

func (p QueryParams) Offset() int {
	return (p.PageNumber - 1) * p.PageSize
}
