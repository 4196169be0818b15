package query

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

type Limits struct {
	DefaultLimit int
	MaxLimit     int
}

var DefaultLimits = Limits{DefaultLimit: 10, MaxLimit: 1000}

// Page is a 1-based skip/limit window.
type Page struct {
	Number int
	Limit  int
}

func (p Page) Skip() int {
	return (p.Number - 1) * p.Limit
}

// ParsePage reads page and limit, falling back to defaults when absent and
// clamping to page >= 1 and 1 <= limit <= MaxLimit. Page is also capped so
// that the skip offset fits in an int.
func ParsePage(page, limit string, l Limits) (Page, error) {
	p := Page{Number: 1, Limit: l.DefaultLimit}

	if page = strings.TrimSpace(page); page != "" {
		n, err := strconv.Atoi(page)
		if err != nil {
			return Page{}, fmt.Errorf("%w: page must be an integer, got %q", ErrInvalidParam, page)
		}
		p.Number = n
	}

	if limit = strings.TrimSpace(limit); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil {
			return Page{}, fmt.Errorf("%w: limit must be an integer, got %q", ErrInvalidParam, limit)
		}
		p.Limit = n
	}

	p.Number = max(1, p.Number)
	p.Limit = max(1, p.Limit)
	if l.MaxLimit > 0 {
		p.Limit = min(p.Limit, l.MaxLimit)
	}
	// Keeps Skip from overflowing int.
	p.Number = min(p.Number, math.MaxInt/p.Limit)

	return p, nil
}

// Pagination is the envelope returned next to a page of transactions.
type Pagination struct {
	Page              int   `json:"page"`
	Limit             int   `json:"limit"`
	Total             int64 `json:"total"`
	TotalPages        int64 `json:"totalPages"`
	CurrentPage       int   `json:"currentPage"`
	TotalTransactions int64 `json:"totalTransactions"`
	HasNext           bool  `json:"hasNext"`
	HasPrev           bool  `json:"hasPrev"`
}

// NewPagination builds the envelope from the window, the unwindowed count and
// the number of rows actually returned for the window.
func NewPagination(p Page, total int64, returned int) Pagination {
	limit := int64(p.Limit)

	return Pagination{
		Page:              p.Number,
		Limit:             p.Limit,
		Total:             total,
		TotalPages:        (total + limit - 1) / limit,
		CurrentPage:       p.Number,
		TotalTransactions: total,
		HasNext:           int64(p.Skip()+returned) < total,
		HasPrev:           p.Number > 1,
	}
}
