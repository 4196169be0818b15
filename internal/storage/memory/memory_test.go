package memory

import (
	"context"
	"fmt"
	"github.com/IlyasAtabaev731/finboard/internal/domain/models"
	"github.com/IlyasAtabaev731/finboard/internal/query"
	"github.com/IlyasAtabaev731/finboard/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"slices"
	"testing"
	"time"
)

func scenarioStorage(t *testing.T) *Storage {
	t.Helper()

	s := New()
	day := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	err := s.SaveTransactions(context.Background(), []models.Transaction{
		{ID: 1, Date: day, Amount: 100, Description: "Consulting Services", Category: models.CategoryRevenue, Status: models.StatusPaid, UserID: "user_001", UserName: "John Smith"},
		{ID: 2, Date: day.AddDate(0, 0, 1), Amount: 50, Description: "Office Supplies", Category: models.CategoryExpense, Status: models.StatusPending, UserID: "user_002", UserName: "Sarah Johnson"},
		{ID: 3, Date: day.AddDate(0, 1, 0), Amount: 200, Description: "API Integration", Category: models.CategoryRevenue, Status: models.StatusPaid, UserID: "user_001", UserName: "John Smith"},
	})
	require.NoError(t, err)

	return s
}

func bulkStorage(t *testing.T, n int) *Storage {
	t.Helper()

	s := New()
	base := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	ts := make([]models.Transaction, 0, n)
	for i := 1; i <= n; i++ {
		category := models.CategoryRevenue
		if i%3 == 0 {
			category = models.CategoryExpense
		}
		status := models.StatusPaid
		if i%2 == 0 {
			status = models.StatusPending
		}
		ts = append(ts, models.Transaction{
			ID:          int64(i),
			Date:        base.AddDate(0, 0, i%9),
			Amount:      float64((i * 37) % 500),
			Description: fmt.Sprintf("item %d", i),
			Category:    category,
			Status:      status,
			UserID:      fmt.Sprintf("user_%03d", i%4+1),
			UserName:    fmt.Sprintf("User %d", i%4+1),
		})
	}
	require.NoError(t, s.SaveTransactions(context.Background(), ts))

	return s
}

func ids(ts []models.Transaction) []int64 {
	out := make([]int64, 0, len(ts))
	for _, t := range ts {
		out = append(out, t.ID)
	}
	return out
}

func TestCategoryFilterScenario(t *testing.T) {
	s := scenarioStorage(t)
	ctx := context.Background()

	f := query.Filter{Category: "Revenue"}
	got, err := s.Transactions(ctx, query.TransactionQuery{Filter: f, Sort: query.Sort{Field: query.FieldID}, Page: query.Page{Number: 1, Limit: 10}})
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 3}, ids(got))

	total, err := s.CountTransactions(ctx, f)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	summary, err := s.CategorySummary(ctx)
	require.NoError(t, err)
	require.Len(t, summary, 2)
	assert.Equal(t, models.CategorySummary{Category: models.CategoryRevenue, Total: 300, Count: 2, Paid: 300, Pending: 0}, summary[1])
	assert.Equal(t, models.CategorySummary{Category: models.CategoryExpense, Total: 50, Count: 1, Paid: 0, Pending: 50}, summary[0])
}

func TestPagesCoverFilteredSetExactlyOnce(t *testing.T) {
	s := bulkStorage(t, 53)
	ctx := context.Background()

	filters := []query.Filter{
		{},
		{Category: "Revenue"},
		{Status: "Pending", UserID: "user_002"},
		{Search: query.NewSearch("item 1")},
	}
	sorts := []query.Sort{query.DefaultSort, {Field: query.FieldAmount}, {Field: query.FieldUserName, Desc: true}}

	for _, f := range filters {
		total, err := s.CountTransactions(ctx, f)
		require.NoError(t, err)

		for _, srt := range sorts {
			for _, limit := range []int{1, 4, 10, 60} {
				var seen []int64
				totalPages := int((total + int64(limit) - 1) / int64(limit))
				for page := 1; page <= totalPages; page++ {
					got, err := s.Transactions(ctx, query.TransactionQuery{Filter: f, Sort: srt, Page: query.Page{Number: page, Limit: limit}})
					require.NoError(t, err)
					assert.LessOrEqual(t, len(got), limit)
					seen = append(seen, ids(got)...)
				}

				slices.Sort(seen)
				assert.Len(t, seen, int(total))
				assert.Equal(t, len(seen), len(slices.Compact(slices.Clone(seen))), "duplicates for %+v %+v limit=%d", f, srt, limit)
			}
		}
	}
}

func TestAmountSortReverses(t *testing.T) {
	s := bulkStorage(t, 30)
	ctx := context.Background()
	page := query.Page{Number: 1, Limit: 100}

	asc, err := s.Transactions(ctx, query.TransactionQuery{Sort: query.Sort{Field: query.FieldAmount}, Page: page})
	require.NoError(t, err)
	desc, err := s.Transactions(ctx, query.TransactionQuery{Sort: query.Sort{Field: query.FieldAmount, Desc: true}, Page: page})
	require.NoError(t, err)

	amounts := func(ts []models.Transaction) []float64 {
		out := make([]float64, 0, len(ts))
		for _, tx := range ts {
			out = append(out, tx.Amount)
		}
		return out
	}

	reversed := amounts(desc)
	slices.Reverse(reversed)
	assert.Equal(t, amounts(asc), reversed)
}

func TestSearchByAmount(t *testing.T) {
	s := New()
	ctx := context.Background()
	require.NoError(t, s.SaveTransactions(ctx, []models.Transaction{
		{ID: 1, Amount: 1200, Description: "Laptop", UserID: "u1", UserName: "A"},
		{ID: 2, Amount: 120, Description: "Mouse", UserID: "u2", UserName: "B"},
	}))

	got, err := s.Transactions(ctx, query.TransactionQuery{Filter: query.Filter{Search: query.NewSearch("$1,200")}, Sort: query.DefaultSort, Page: query.Page{Number: 1, Limit: 10}})
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, ids(got))

	got, err = s.Transactions(ctx, query.TransactionQuery{Filter: query.Filter{Search: query.NewSearch("abc")}, Sort: query.DefaultSort, Page: query.Page{Number: 1, Limit: 10}})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestPageBeyondEnd(t *testing.T) {
	s := scenarioStorage(t)

	got, err := s.Transactions(context.Background(), query.TransactionQuery{Sort: query.DefaultSort, Page: query.Page{Number: 9, Limit: 10}})
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestAggregationInvariants(t *testing.T) {
	s := bulkStorage(t, 47)
	ctx := context.Background()

	all, err := s.Transactions(ctx, query.TransactionQuery{Sort: query.DefaultSort, Page: query.Page{Number: 1, Limit: 1000}})
	require.NoError(t, err)
	var grand float64
	for _, tx := range all {
		grand += tx.Amount
	}

	categories, err := s.CategorySummary(ctx)
	require.NoError(t, err)
	var byCategory float64
	var count int64
	for _, c := range categories {
		byCategory += c.Total
		count += c.Count
		assert.InDelta(t, c.Total, c.Paid+c.Pending, 1e-9)
	}
	assert.InDelta(t, grand, byCategory, 1e-9)
	assert.Equal(t, int64(47), count)

	statuses, err := s.StatusDistribution(ctx)
	require.NoError(t, err)
	var byStatus float64
	for _, st := range statuses {
		byStatus += st.Total
	}
	assert.InDelta(t, grand, byStatus, 1e-9)

	trends, err := s.MonthlyTrends(ctx)
	require.NoError(t, err)
	for i := 1; i < len(trends); i++ {
		prev, cur := trends[i-1].Key, trends[i].Key
		assert.True(t, prev.Year < cur.Year || (prev.Year == cur.Year && prev.Month <= cur.Month))
	}

	users, err := s.CountDistinctUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), users)
}

func TestTopUsers(t *testing.T) {
	s := New()
	ctx := context.Background()

	var ts []models.Transaction
	for i := 1; i <= 12; i++ {
		ts = append(ts, models.Transaction{ID: int64(i), Amount: float64(i * 10), Category: models.CategoryRevenue, UserID: fmt.Sprintf("user_%02d", i)})
	}
	ts = append(ts, models.Transaction{ID: 13, Amount: 5, Category: models.CategoryExpense, UserID: "user_12"})
	require.NoError(t, s.SaveTransactions(ctx, ts))

	top, err := s.TopUsers(ctx, 10)
	require.NoError(t, err)
	require.Len(t, top, 10)
	assert.Equal(t, models.UserSummary{UserID: "user_12", TotalAmount: 125, TransactionCount: 2, Revenue: 120, Expenses: 5}, top[0])
	for i := 1; i < len(top); i++ {
		assert.GreaterOrEqual(t, top[i-1].TotalAmount, top[i].TotalAmount)
	}
}

func TestUsers(t *testing.T) {
	s := New()
	ctx := context.Background()

	require.NoError(t, s.SaveUser(ctx, models.User{ID: "a", Email: "a@example.com", PasswordHash: "x"}))
	err := s.SaveUser(ctx, models.User{ID: "b", Email: "a@example.com", PasswordHash: "y"})
	require.ErrorIs(t, err, storage.ErrUserExists)

	u, err := s.UserByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, "a", u.ID)
	assert.False(t, u.CreatedAt.IsZero())

	_, err = s.UserByID(ctx, "missing")
	require.ErrorIs(t, err, storage.ErrUserNotFound)
}

func TestSaveTransactionAssignsIDs(t *testing.T) {
	s := scenarioStorage(t)
	ctx := context.Background()

	created, err := s.SaveTransaction(ctx, models.Transaction{Amount: 10, Category: models.CategoryExpense, Status: models.StatusPaid})
	require.NoError(t, err)
	assert.Equal(t, int64(4), created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := s.TransactionByID(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	_, err = s.TransactionByID(ctx, 99)
	require.ErrorIs(t, err, storage.ErrTransactionNotFound)

	require.Error(t, s.SaveTransactions(ctx, []models.Transaction{{ID: 2}}))
}
