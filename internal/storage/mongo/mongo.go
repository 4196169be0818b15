package mongo

import (
	"context"
	"errors"
	"fmt"
	"github.com/IlyasAtabaev731/finboard/internal/domain/models"
	"github.com/IlyasAtabaev731/finboard/internal/storage"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"log/slog"
	"time"
)

const (
	transactionsCollection = "transactions"
	usersCollection        = "users"
	countersCollection     = "counters"

	transactionsCounter = "transactions"
)

type Storage struct {
	client       *mongo.Client
	transactions *mongo.Collection
	users        *mongo.Collection
	counters     *mongo.Collection
	logger       *slog.Logger
}

func New(ctx context.Context, uri, database string, logger *slog.Logger) (*Storage, error) {
	const op = "storage.mongo.New"

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	db := client.Database(database)

	return &Storage{
		client:       client,
		transactions: db.Collection(transactionsCollection),
		users:        db.Collection(usersCollection),
		counters:     db.Collection(countersCollection),
		logger:       logger,
	}, nil
}

// EnsureIndexes creates the indexes the list and analytics queries rely on.
func (s *Storage) EnsureIndexes(ctx context.Context) error {
	const op = "storage.mongo.EnsureIndexes"

	_, err := s.transactions.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "user_id", Value: 1}}},
		{Keys: bson.D{{Key: "category", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "date", Value: -1}, {Key: "id", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("%s: transactions: %w", op, err)
	}

	_, err = s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("%s: users: %w", op, err)
	}

	s.logger.Debug("Indexes ensured")

	return nil
}

func (s *Storage) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.client.Disconnect(ctx)
}

func (s *Storage) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

// Reset drops every document, including the id counter.
func (s *Storage) Reset(ctx context.Context) error {
	const op = "storage.mongo.Reset"

	for _, c := range []*mongo.Collection{s.transactions, s.users, s.counters} {
		if _, err := c.DeleteMany(ctx, bson.D{}); err != nil {
			return fmt.Errorf("%s: %s: %w", op, c.Name(), err)
		}
	}

	return nil
}

func (s *Storage) SaveUser(ctx context.Context, user models.User) error {
	const op = "storage.mongo.SaveUser"

	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	if _, err := s.users.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%s: %w", op, storage.ErrUserExists)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Storage) UserByEmail(ctx context.Context, email string) (models.User, error) {
	const op = "storage.mongo.UserByEmail"

	user, err := s.findUser(ctx, bson.D{{Key: "email", Value: email}})
	if err != nil {
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}

func (s *Storage) UserByID(ctx context.Context, id string) (models.User, error) {
	const op = "storage.mongo.UserByID"

	user, err := s.findUser(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}

func (s *Storage) findUser(ctx context.Context, filter bson.D) (models.User, error) {
	var user models.User
	if err := s.users.FindOne(ctx, filter).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.User{}, storage.ErrUserNotFound
		}
		return models.User{}, err
	}

	return user, nil
}
