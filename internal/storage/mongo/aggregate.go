package mongo

import (
	"context"
	"fmt"
	"github.com/IlyasAtabaev731/finboard/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func sumIf(field string, value any) bson.D {
	return bson.D{{Key: "$sum", Value: bson.D{{Key: "$cond", Value: bson.A{
		bson.D{{Key: "$eq", Value: bson.A{"$" + field, value}}},
		"$amount",
		0,
	}}}}}
}

var (
	sumAmount = bson.D{{Key: "$sum", Value: "$amount"}}
	countOne  = bson.D{{Key: "$sum", Value: 1}}
)

func categorySummaryPipeline() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$category"},
			{Key: "total", Value: sumAmount},
			{Key: "count", Value: countOne},
			{Key: "paid", Value: sumIf("status", models.StatusPaid)},
			{Key: "pending", Value: sumIf("status", models.StatusPending)},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}
}

func monthlyTrendsPipeline() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: bson.D{
				{Key: "year", Value: bson.D{{Key: "$year", Value: "$date"}}},
				{Key: "month", Value: bson.D{{Key: "$month", Value: "$date"}}},
				{Key: "category", Value: "$category"},
			}},
			{Key: "total", Value: sumAmount},
			{Key: "count", Value: countOne},
		}}},
		{{Key: "$sort", Value: bson.D{
			{Key: "_id.year", Value: 1},
			{Key: "_id.month", Value: 1},
			{Key: "_id.category", Value: 1},
		}}},
	}
}

func statusDistributionPipeline() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$status"},
			{Key: "total", Value: sumAmount},
			{Key: "count", Value: countOne},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}
}

func topUsersPipeline(limit int) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$user_id"},
			{Key: "totalAmount", Value: sumAmount},
			{Key: "transactionCount", Value: countOne},
			{Key: "revenue", Value: sumIf("category", models.CategoryRevenue)},
			{Key: "expenses", Value: sumIf("category", models.CategoryExpense)},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "totalAmount", Value: -1}, {Key: "_id", Value: 1}}}},
		{{Key: "$limit", Value: int64(limit)}},
	}
}

func (s *Storage) CategorySummary(ctx context.Context) ([]models.CategorySummary, error) {
	const op = "storage.mongo.CategorySummary"

	out := make([]models.CategorySummary, 0, 2)
	if err := s.aggregate(ctx, categorySummaryPipeline(), &out); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

func (s *Storage) MonthlyTrends(ctx context.Context) ([]models.MonthlyTrend, error) {
	const op = "storage.mongo.MonthlyTrends"

	out := make([]models.MonthlyTrend, 0)
	if err := s.aggregate(ctx, monthlyTrendsPipeline(), &out); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

func (s *Storage) StatusDistribution(ctx context.Context) ([]models.StatusSummary, error) {
	const op = "storage.mongo.StatusDistribution"

	out := make([]models.StatusSummary, 0, 2)
	if err := s.aggregate(ctx, statusDistributionPipeline(), &out); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

func (s *Storage) TopUsers(ctx context.Context, limit int) ([]models.UserSummary, error) {
	const op = "storage.mongo.TopUsers"

	out := make([]models.UserSummary, 0, limit)
	if err := s.aggregate(ctx, topUsersPipeline(limit), &out); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

func (s *Storage) CountDistinctUsers(ctx context.Context) (int64, error) {
	const op = "storage.mongo.CountDistinctUsers"

	ids, err := s.transactions.Distinct(ctx, "user_id", bson.D{})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return int64(len(ids)), nil
}

func (s *Storage) aggregate(ctx context.Context, pipeline mongo.Pipeline, out any) error {
	cursor, err := s.transactions.Aggregate(ctx, pipeline)
	if err != nil {
		return err
	}

	return cursor.All(ctx, out)
}
