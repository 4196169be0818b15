// Package backend opens the storage driver named in the configuration.
package backend

import (
	"context"
	"fmt"
	"github.com/IlyasAtabaev731/finboard/internal/config"
	"github.com/IlyasAtabaev731/finboard/internal/domain/models"
	"github.com/IlyasAtabaev731/finboard/internal/query"
	"github.com/IlyasAtabaev731/finboard/internal/storage/memory"
	"github.com/IlyasAtabaev731/finboard/internal/storage/mongo"
	"github.com/IlyasAtabaev731/finboard/internal/storage/postgres"
	"log/slog"
)

// Backend is the method set shared by every storage driver.
type Backend interface {
	SaveUser(ctx context.Context, user models.User) error
	UserByEmail(ctx context.Context, email string) (models.User, error)
	UserByID(ctx context.Context, id string) (models.User, error)

	Transactions(ctx context.Context, q query.TransactionQuery) ([]models.Transaction, error)
	CountTransactions(ctx context.Context, f query.Filter) (int64, error)
	TransactionByID(ctx context.Context, id int64) (models.Transaction, error)
	SaveTransaction(ctx context.Context, t models.Transaction) (models.Transaction, error)
	SaveTransactions(ctx context.Context, ts []models.Transaction) error

	CategorySummary(ctx context.Context) ([]models.CategorySummary, error)
	MonthlyTrends(ctx context.Context) ([]models.MonthlyTrend, error)
	StatusDistribution(ctx context.Context) ([]models.StatusSummary, error)
	TopUsers(ctx context.Context, limit int) ([]models.UserSummary, error)
	CountDistinctUsers(ctx context.Context) (int64, error)

	Reset(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}

var (
	_ Backend = (*memory.Storage)(nil)
	_ Backend = (*postgres.Storage)(nil)
	_ Backend = (*mongo.Storage)(nil)
)

func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (Backend, error) {
	logger = logger.With("component", "storage", slog.String("driver", cfg.Driver))

	switch cfg.Driver {
	case config.DriverMemory:
		return memory.New(), nil

	case config.DriverPostgres:
		s, err := postgres.New(cfg.Postgres.DSN(), logger)
		if err != nil {
			return nil, err
		}
		return s, nil

	case config.DriverMongo:
		s, err := mongo.New(ctx, cfg.Mongo.URI, cfg.Mongo.Database, logger)
		if err != nil {
			return nil, err
		}
		if err := s.EnsureIndexes(ctx); err != nil {
			_ = s.Close()
			return nil, err
		}
		return s, nil

	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
