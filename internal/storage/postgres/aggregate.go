package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"github.com/IlyasAtabaev731/finboard/internal/domain/models"
	"github.com/shopspring/decimal"
)

const (
	categorySummaryQuery = `SELECT category,
		COALESCE(SUM(amount), 0),
		COUNT(*),
		COALESCE(SUM(CASE WHEN status = 'Paid' THEN amount ELSE 0 END), 0),
		COALESCE(SUM(CASE WHEN status = 'Pending' THEN amount ELSE 0 END), 0)
	FROM transactions
	GROUP BY category
	ORDER BY category`

	monthlyTrendsQuery = `SELECT EXTRACT(YEAR FROM date AT TIME ZONE 'UTC')::int AS year,
		EXTRACT(MONTH FROM date AT TIME ZONE 'UTC')::int AS month,
		category,
		COALESCE(SUM(amount), 0),
		COUNT(*)
	FROM transactions
	GROUP BY year, month, category
	ORDER BY year, month, category`

	statusDistributionQuery = `SELECT status, COALESCE(SUM(amount), 0), COUNT(*)
	FROM transactions
	GROUP BY status
	ORDER BY status`

	topUsersQuery = `SELECT user_id,
		COALESCE(SUM(amount), 0) AS total_amount,
		COUNT(*),
		COALESCE(SUM(CASE WHEN category = 'Revenue' THEN amount ELSE 0 END), 0),
		COALESCE(SUM(CASE WHEN category = 'Expense' THEN amount ELSE 0 END), 0)
	FROM transactions
	GROUP BY user_id
	ORDER BY total_amount DESC, user_id ASC
	LIMIT $1`

	distinctUsersQuery = `SELECT COUNT(DISTINCT user_id) FROM transactions`
)

func (s *Storage) CategorySummary(ctx context.Context) ([]models.CategorySummary, error) {
	const op = "storage.postgres.CategorySummary"

	out := make([]models.CategorySummary, 0, 2)
	err := s.collect(ctx, categorySummaryQuery, nil, func(rows *sql.Rows) error {
		var (
			row                  models.CategorySummary
			total, paid, pending decimal.Decimal
		)
		if err := rows.Scan(&row.Category, &total, &row.Count, &paid, &pending); err != nil {
			return err
		}
		row.Total = total.InexactFloat64()
		row.Paid = paid.InexactFloat64()
		row.Pending = pending.InexactFloat64()
		out = append(out, row)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

func (s *Storage) MonthlyTrends(ctx context.Context) ([]models.MonthlyTrend, error) {
	const op = "storage.postgres.MonthlyTrends"

	out := make([]models.MonthlyTrend, 0)
	err := s.collect(ctx, monthlyTrendsQuery, nil, func(rows *sql.Rows) error {
		var (
			row   models.MonthlyTrend
			total decimal.Decimal
		)
		if err := rows.Scan(&row.Key.Year, &row.Key.Month, &row.Key.Category, &total, &row.Count); err != nil {
			return err
		}
		row.Total = total.InexactFloat64()
		out = append(out, row)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

func (s *Storage) StatusDistribution(ctx context.Context) ([]models.StatusSummary, error) {
	const op = "storage.postgres.StatusDistribution"

	out := make([]models.StatusSummary, 0, 2)
	err := s.collect(ctx, statusDistributionQuery, nil, func(rows *sql.Rows) error {
		var (
			row   models.StatusSummary
			total decimal.Decimal
		)
		if err := rows.Scan(&row.Status, &total, &row.Count); err != nil {
			return err
		}
		row.Total = total.InexactFloat64()
		out = append(out, row)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

func (s *Storage) TopUsers(ctx context.Context, limit int) ([]models.UserSummary, error) {
	const op = "storage.postgres.TopUsers"

	out := make([]models.UserSummary, 0, limit)
	err := s.collect(ctx, topUsersQuery, []any{limit}, func(rows *sql.Rows) error {
		var (
			row                     models.UserSummary
			total, revenue, expense decimal.Decimal
		)
		if err := rows.Scan(&row.UserID, &total, &row.TransactionCount, &revenue, &expense); err != nil {
			return err
		}
		row.TotalAmount = total.InexactFloat64()
		row.Revenue = revenue.InexactFloat64()
		row.Expenses = expense.InexactFloat64()
		out = append(out, row)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

func (s *Storage) CountDistinctUsers(ctx context.Context) (int64, error) {
	const op = "storage.postgres.CountDistinctUsers"

	var n int64
	if err := s.db.QueryRowContext(ctx, distinctUsersQuery).Scan(&n); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return n, nil
}

func (s *Storage) collect(ctx context.Context, stmt string, args []any, scan func(*sql.Rows) error) error {
	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return err
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			s.logger.Error("Failed to close aggregate rows", "error", err)
		}
	}(rows)

	for rows.Next() {
		if err := scan(rows); err != nil {
			return err
		}
	}

	return rows.Err()
}
