package memory

import (
	"cmp"
	"context"
	"github.com/IlyasAtabaev731/finboard/internal/domain/models"
	"slices"
)

func (s *Storage) CategorySummary(ctx context.Context) ([]models.CategorySummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	groups := make(map[models.Category]*models.CategorySummary)
	for _, t := range s.transactions {
		g, ok := groups[t.Category]
		if !ok {
			g = &models.CategorySummary{Category: t.Category}
			groups[t.Category] = g
		}
		g.Total += t.Amount
		g.Count++
		switch t.Status {
		case models.StatusPaid:
			g.Paid += t.Amount
		case models.StatusPending:
			g.Pending += t.Amount
		}
	}

	out := make([]models.CategorySummary, 0, len(groups))
	for _, g := range groups {
		out = append(out, *g)
	}
	slices.SortFunc(out, func(a, b models.CategorySummary) int {
		return cmp.Compare(a.Category, b.Category)
	})

	return out, nil
}

func (s *Storage) MonthlyTrends(ctx context.Context) ([]models.MonthlyTrend, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	groups := make(map[models.MonthKey]*models.MonthlyTrend)
	for _, t := range s.transactions {
		d := t.Date.UTC()
		key := models.MonthKey{Year: d.Year(), Month: int(d.Month()), Category: t.Category}
		g, ok := groups[key]
		if !ok {
			g = &models.MonthlyTrend{Key: key}
			groups[key] = g
		}
		g.Total += t.Amount
		g.Count++
	}

	out := make([]models.MonthlyTrend, 0, len(groups))
	for _, g := range groups {
		out = append(out, *g)
	}
	slices.SortFunc(out, func(a, b models.MonthlyTrend) int {
		return cmp.Or(
			cmp.Compare(a.Key.Year, b.Key.Year),
			cmp.Compare(a.Key.Month, b.Key.Month),
			cmp.Compare(a.Key.Category, b.Key.Category),
		)
	})

	return out, nil
}

func (s *Storage) StatusDistribution(ctx context.Context) ([]models.StatusSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	groups := make(map[models.Status]*models.StatusSummary)
	for _, t := range s.transactions {
		g, ok := groups[t.Status]
		if !ok {
			g = &models.StatusSummary{Status: t.Status}
			groups[t.Status] = g
		}
		g.Total += t.Amount
		g.Count++
	}

	out := make([]models.StatusSummary, 0, len(groups))
	for _, g := range groups {
		out = append(out, *g)
	}
	slices.SortFunc(out, func(a, b models.StatusSummary) int {
		return cmp.Compare(a.Status, b.Status)
	})

	return out, nil
}

func (s *Storage) TopUsers(ctx context.Context, limit int) ([]models.UserSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	groups := make(map[string]*models.UserSummary)
	for _, t := range s.transactions {
		g, ok := groups[t.UserID]
		if !ok {
			g = &models.UserSummary{UserID: t.UserID}
			groups[t.UserID] = g
		}
		g.TotalAmount += t.Amount
		g.TransactionCount++
		switch t.Category {
		case models.CategoryRevenue:
			g.Revenue += t.Amount
		case models.CategoryExpense:
			g.Expenses += t.Amount
		}
	}

	out := make([]models.UserSummary, 0, len(groups))
	for _, g := range groups {
		out = append(out, *g)
	}
	slices.SortFunc(out, func(a, b models.UserSummary) int {
		return cmp.Or(
			cmp.Compare(b.TotalAmount, a.TotalAmount),
			cmp.Compare(a.UserID, b.UserID),
		)
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}

	return out, nil
}

func (s *Storage) CountDistinctUsers(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	for _, t := range s.transactions {
		seen[t.UserID] = struct{}{}
	}

	return int64(len(seen)), nil
}
