package query

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"math"
	"net/url"
	"testing"
)

func TestParsePage(t *testing.T) {
	limits := Limits{DefaultLimit: 10, MaxLimit: 100}

	tests := []struct {
		name      string
		page      string
		limit     string
		want      Page
		wantError bool
	}{
		{name: "defaults", want: Page{Number: 1, Limit: 10}},
		{name: "explicit", page: "3", limit: "25", want: Page{Number: 3, Limit: 25}},
		{name: "zero page clamps", page: "0", limit: "5", want: Page{Number: 1, Limit: 5}},
		{name: "negative values clamp", page: "-4", limit: "-1", want: Page{Number: 1, Limit: 1}},
		{name: "limit above max", limit: "5000", want: Page{Number: 1, Limit: 100}},
		{name: "huge page caps", page: "9223372036854775807", limit: "10", want: Page{Number: math.MaxInt / 10, Limit: 10}},
		{name: "page beyond int", page: "99999999999999999999", wantError: true},
		{name: "non numeric page", page: "two", wantError: true},
		{name: "non numeric limit", limit: "1.5", wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePage(tt.page, tt.limit, limits)
			if tt.wantError {
				require.ErrorIs(t, err, ErrInvalidParam)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPageSkip(t *testing.T) {
	assert.Equal(t, 0, Page{Number: 1, Limit: 10}.Skip())
	assert.Equal(t, 40, Page{Number: 5, Limit: 10}.Skip())
}

func TestSkipNeverNegative(t *testing.T) {
	for _, limit := range []string{"1", "7", "10", "1000"} {
		p, err := ParsePage("9223372036854775807", limit, DefaultLimits)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, p.Skip(), 0, limit)
	}
}

func TestNewPagination(t *testing.T) {
	p := NewPagination(Page{Number: 3, Limit: 10}, 25, 5)

	assert.Equal(t, Pagination{
		Page:              3,
		Limit:             10,
		Total:             25,
		TotalPages:        3,
		CurrentPage:       3,
		TotalTransactions: 25,
		HasNext:           false,
		HasPrev:           true,
	}, p)

	empty := NewPagination(Page{Number: 1, Limit: 10}, 0, 0)
	assert.Equal(t, int64(0), empty.TotalPages)
	assert.False(t, empty.HasNext)
	assert.False(t, empty.HasPrev)
}

func TestHasNextIffBeforeLastPage(t *testing.T) {
	for total := int64(1); total <= 40; total++ {
		for limit := 1; limit <= 12; limit++ {
			totalPages := (total + int64(limit) - 1) / int64(limit)
			for page := 1; int64(page) <= totalPages; page++ {
				skip := (page - 1) * limit
				returned := int(min(int64(limit), total-int64(skip)))

				p := NewPagination(Page{Number: page, Limit: limit}, total, returned)
				assert.Equal(t, int64(page) < p.TotalPages, p.HasNext, "total=%d limit=%d page=%d", total, limit, page)
				assert.Equal(t, page > 1, p.HasPrev)
			}
		}
	}
}

func TestFromValues(t *testing.T) {
	v := url.Values{}
	v.Set("page", "2")
	v.Set("limit", "20")
	v.Set("category", "Expense")
	v.Set("status", "Pending")
	v.Set("user_id", "user_002")
	v.Set("search", " rent ")
	v.Set("sortBy", "amount")
	v.Set("sortOrder", "asc")

	q, err := FromValues(v, DefaultLimits)
	require.NoError(t, err)

	assert.Equal(t, Filter{Category: "Expense", Status: "Pending", UserID: "user_002", Search: Search{Term: "rent"}}, q.Filter)
	assert.Equal(t, Sort{Field: FieldAmount}, q.Sort)
	assert.Equal(t, Page{Number: 2, Limit: 20}, q.Page)
}

func TestFromValuesRejectsBadSort(t *testing.T) {
	v := url.Values{}
	v.Set("sortBy", "password")

	_, err := FromValues(v, DefaultLimits)
	require.ErrorIs(t, err, ErrInvalidParam)
}
