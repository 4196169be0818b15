package mongo

import (
	"context"
	"errors"
	"fmt"
	"github.com/IlyasAtabaev731/finboard/internal/domain/models"
	"github.com/IlyasAtabaev731/finboard/internal/query"
	"github.com/IlyasAtabaev731/finboard/internal/storage"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"regexp"
	"time"
)

// filterDoc renders the filter as a query document. The search term is
// matched literally; regex metacharacters in user input are escaped.
func filterDoc(f query.Filter) bson.D {
	doc := bson.D{}

	if f.Category != "" {
		doc = append(doc, bson.E{Key: "category", Value: f.Category})
	}
	if f.Status != "" {
		doc = append(doc, bson.E{Key: "status", Value: f.Status})
	}
	if f.UserID != "" {
		doc = append(doc, bson.E{Key: "user_id", Value: f.UserID})
	}

	if !f.Search.Empty() {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(f.Search.Term), Options: "i"}
		or := bson.A{
			bson.D{{Key: "description", Value: re}},
			bson.D{{Key: "user_name", Value: re}},
			bson.D{{Key: "user_id", Value: re}},
		}
		if f.Search.Amount != nil {
			or = append(or, bson.D{{Key: "amount", Value: f.Search.Amount.InexactFloat64()}})
		}
		doc = append(doc, bson.E{Key: "$or", Value: or})
	}

	return doc
}

func findOptions(q query.TransactionQuery) *options.FindOptions {
	direction := 1
	if q.Sort.Desc {
		direction = -1
	}

	field := q.Sort.Field
	if field == "" {
		field = query.FieldDate
	}

	sort := bson.D{{Key: field, Value: direction}}
	if field != query.FieldID {
		sort = append(sort, bson.E{Key: query.FieldID, Value: 1})
	}

	return options.Find().
		SetSort(sort).
		SetSkip(int64(q.Page.Skip())).
		SetLimit(int64(q.Page.Limit)).
		SetProjection(bson.D{{Key: "_id", Value: 0}})
}

func (s *Storage) Transactions(ctx context.Context, q query.TransactionQuery) ([]models.Transaction, error) {
	const op = "storage.mongo.Transactions"

	cursor, err := s.transactions.Find(ctx, filterDoc(q.Filter), findOptions(q))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	transactions := make([]models.Transaction, 0, q.Page.Limit)
	if err := cursor.All(ctx, &transactions); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return transactions, nil
}

func (s *Storage) CountTransactions(ctx context.Context, f query.Filter) (int64, error) {
	const op = "storage.mongo.CountTransactions"

	n, err := s.transactions.CountDocuments(ctx, filterDoc(f))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return n, nil
}

func (s *Storage) TransactionByID(ctx context.Context, id int64) (models.Transaction, error) {
	const op = "storage.mongo.TransactionByID"

	var t models.Transaction
	err := s.transactions.FindOne(ctx, bson.D{{Key: "id", Value: id}}).Decode(&t)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Transaction{}, fmt.Errorf("%s: %w", op, storage.ErrTransactionNotFound)
		}
		return models.Transaction{}, fmt.Errorf("%s: %w", op, err)
	}

	return t, nil
}

func (s *Storage) SaveTransaction(ctx context.Context, t models.Transaction) (models.Transaction, error) {
	const op = "storage.mongo.SaveTransaction"

	id, err := s.nextID(ctx)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("%s: %w", op, err)
	}

	t.ID = id
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}

	if _, err := s.transactions.InsertOne(ctx, t); err != nil {
		return models.Transaction{}, fmt.Errorf("%s: %w", op, err)
	}

	return t, nil
}

// SaveTransactions inserts records with preassigned ids and raises the id
// counter to the largest of them.
func (s *Storage) SaveTransactions(ctx context.Context, ts []models.Transaction) error {
	const op = "storage.mongo.SaveTransactions"

	if len(ts) == 0 {
		return nil
	}

	now := time.Now().UTC()
	docs := make([]any, 0, len(ts))
	var maxID int64
	for _, t := range ts {
		if t.CreatedAt.IsZero() {
			t.CreatedAt = now
		}
		maxID = max(maxID, t.ID)
		docs = append(docs, t)
	}

	if _, err := s.transactions.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	_, err := s.counters.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: transactionsCounter}},
		bson.D{{Key: "$max", Value: bson.D{{Key: "seq", Value: maxID}}}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("%s: counter: %w", op, err)
	}

	return nil
}

func (s *Storage) nextID(ctx context.Context) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}

	err := s.counters.FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: transactionsCounter}},
		bson.D{{Key: "$inc", Value: bson.D{{Key: "seq", Value: int64(1)}}}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, err
	}

	return counter.Seq, nil
}
