package analytics

import (
	"context"
	"fmt"
	"github.com/IlyasAtabaev731/finboard/internal/domain/models"
	"github.com/IlyasAtabaev731/finboard/internal/query"
	"golang.org/x/sync/errgroup"
	"log/slog"
)

// Source is the set of aggregations a storage backend provides.
type Source interface {
	CategorySummary(ctx context.Context) ([]models.CategorySummary, error)
	MonthlyTrends(ctx context.Context) ([]models.MonthlyTrend, error)
	StatusDistribution(ctx context.Context) ([]models.StatusSummary, error)
	TopUsers(ctx context.Context, limit int) ([]models.UserSummary, error)
	CountTransactions(ctx context.Context, f query.Filter) (int64, error)
	CountDistinctUsers(ctx context.Context) (int64, error)
}

type Aggregator struct {
	source   Source
	topUsers int
	logger   *slog.Logger
}

func New(source Source, topUsers int, logger *slog.Logger) *Aggregator {
	return &Aggregator{
		source:   source,
		topUsers: topUsers,
		logger:   logger.With("component", "analytics"),
	}
}

// Build runs every aggregation concurrently. The first failure cancels the
// rest and fails the whole call; no partial result is returned.
func (a *Aggregator) Build(ctx context.Context) (models.Analytics, error) {
	var (
		categories []models.CategorySummary
		monthly    []models.MonthlyTrend
		statuses   []models.StatusSummary
		topUsers   []models.UserSummary
		total      int64
		users      int64
	)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		categories, err = a.source.CategorySummary(ctx)
		return wrap("category summary", err)
	})
	g.Go(func() (err error) {
		monthly, err = a.source.MonthlyTrends(ctx)
		return wrap("monthly trends", err)
	})
	g.Go(func() (err error) {
		statuses, err = a.source.StatusDistribution(ctx)
		return wrap("status distribution", err)
	})
	g.Go(func() (err error) {
		topUsers, err = a.source.TopUsers(ctx, a.topUsers)
		return wrap("top users", err)
	})
	g.Go(func() (err error) {
		total, err = a.source.CountTransactions(ctx, query.Filter{})
		return wrap("transaction count", err)
	})
	g.Go(func() (err error) {
		users, err = a.source.CountDistinctUsers(ctx)
		return wrap("distinct users", err)
	})

	if err := g.Wait(); err != nil {
		a.logger.Error("Failed to build analytics", "error", err)
		return models.Analytics{}, err
	}

	a.logger.Debug("Analytics built",
		slog.Int64("transactions", total),
		slog.Int64("users", users),
	)

	return models.Analytics{
		Summary: models.Summary{
			RevenueVsExpenses:  nonNil(categories),
			StatusDistribution: nonNil(statuses),
			TotalTransactions:  total,
			TotalUsers:         users,
		},
		Trends:   models.Trends{Monthly: nonNil(monthly)},
		TopUsers: nonNil(topUsers),
	}, nil
}

func wrap(stage string, err error) error {
	if err != nil {
		return fmt.Errorf("analytics: %s: %w", stage, err)
	}
	return nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
