// Package memory keeps users and transactions in process memory. It backs
// local runs without a database and the HTTP tests.
package memory

import (
	"cmp"
	"context"
	"fmt"
	"github.com/IlyasAtabaev731/finboard/internal/domain/models"
	"github.com/IlyasAtabaev731/finboard/internal/query"
	"github.com/IlyasAtabaev731/finboard/internal/storage"
	"slices"
	"strings"
	"sync"
	"time"
)

type Storage struct {
	mu           sync.RWMutex
	users        map[string]models.User
	transactions []models.Transaction
	nextID       int64
	now          func() time.Time
}

func New() *Storage {
	return &Storage{
		users:  make(map[string]models.User),
		nextID: 1,
		now:    time.Now,
	}
}

func (s *Storage) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (s *Storage) Close() error {
	return nil
}

func (s *Storage) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.users = make(map[string]models.User)
	s.transactions = nil
	s.nextID = 1

	return nil
}

func (s *Storage) SaveUser(ctx context.Context, user models.User) error {
	const op = "storage.memory.SaveUser"

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == user.Email {
			return fmt.Errorf("%s: %w", op, storage.ErrUserExists)
		}
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = s.now().UTC()
	}
	s.users[user.ID] = user

	return nil
}

func (s *Storage) UserByEmail(ctx context.Context, email string) (models.User, error) {
	const op = "storage.memory.UserByEmail"

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}

	return models.User{}, fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
}

func (s *Storage) UserByID(ctx context.Context, id string) (models.User, error) {
	const op = "storage.memory.UserByID"

	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return models.User{}, fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
	}

	return u, nil
}

func (s *Storage) SaveTransaction(ctx context.Context, t models.Transaction) (models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t.ID = s.nextID
	s.nextID++
	if t.CreatedAt.IsZero() {
		t.CreatedAt = s.now().UTC()
	}
	s.transactions = append(s.transactions, t)

	return t, nil
}

// SaveTransactions inserts records with ids already assigned and moves the
// id counter past the largest one.
func (s *Storage) SaveTransactions(ctx context.Context, ts []models.Transaction) error {
	const op = "storage.memory.SaveTransactions"

	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[int64]struct{}, len(s.transactions)+len(ts))
	for _, t := range s.transactions {
		seen[t.ID] = struct{}{}
	}

	for _, t := range ts {
		if _, dup := seen[t.ID]; dup {
			return fmt.Errorf("%s: duplicate transaction id %d", op, t.ID)
		}
		seen[t.ID] = struct{}{}
		if t.CreatedAt.IsZero() {
			t.CreatedAt = s.now().UTC()
		}
		s.transactions = append(s.transactions, t)
		s.nextID = max(s.nextID, t.ID+1)
	}

	return nil
}

func (s *Storage) TransactionByID(ctx context.Context, id int64) (models.Transaction, error) {
	const op = "storage.memory.TransactionByID"

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, t := range s.transactions {
		if t.ID == id {
			return t, nil
		}
	}

	return models.Transaction{}, fmt.Errorf("%s: %w", op, storage.ErrTransactionNotFound)
}

func (s *Storage) Transactions(ctx context.Context, q query.TransactionQuery) ([]models.Transaction, error) {
	s.mu.RLock()
	matched := s.filter(q.Filter)
	s.mu.RUnlock()

	slices.SortStableFunc(matched, func(a, b models.Transaction) int {
		c := compareField(a, b, q.Sort.Field)
		if q.Sort.Desc {
			c = -c
		}
		if c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	skip := q.Page.Skip()
	if skip < 0 || skip >= len(matched) {
		return []models.Transaction{}, nil
	}
	end := min(skip+q.Page.Limit, len(matched))

	return matched[skip:end], nil
}

func (s *Storage) CountTransactions(ctx context.Context, f query.Filter) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for _, t := range s.transactions {
		if f.Match(t) {
			n++
		}
	}

	return n, nil
}

// filter returns a copy of the matching transactions; callers hold the read lock.
func (s *Storage) filter(f query.Filter) []models.Transaction {
	matched := make([]models.Transaction, 0, len(s.transactions))
	for _, t := range s.transactions {
		if f.Match(t) {
			matched = append(matched, t)
		}
	}
	return matched
}

func compareField(a, b models.Transaction, field string) int {
	switch field {
	case query.FieldID:
		return cmp.Compare(a.ID, b.ID)
	case query.FieldAmount:
		return cmp.Compare(a.Amount, b.Amount)
	case query.FieldDescription:
		return strings.Compare(a.Description, b.Description)
	case query.FieldCategory:
		return strings.Compare(string(a.Category), string(b.Category))
	case query.FieldStatus:
		return strings.Compare(string(a.Status), string(b.Status))
	case query.FieldUserID:
		return strings.Compare(a.UserID, b.UserID)
	case query.FieldUserName:
		return strings.Compare(a.UserName, b.UserName)
	case query.FieldCreatedAt:
		return a.CreatedAt.Compare(b.CreatedAt)
	default:
		return a.Date.Compare(b.Date)
	}
}
