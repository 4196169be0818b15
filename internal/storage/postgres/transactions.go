package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"github.com/IlyasAtabaev731/finboard/internal/domain/models"
	"github.com/IlyasAtabaev731/finboard/internal/query"
	"github.com/IlyasAtabaev731/finboard/internal/storage"
	"github.com/shopspring/decimal"
	"strconv"
	"strings"
	"time"
)

const transactionColumns = "id, date, amount, description, category, status, user_id, user_name, user_profile, created_at"

var sortColumns = map[string]string{
	query.FieldID:          "id",
	query.FieldDate:        "date",
	query.FieldAmount:      "amount",
	query.FieldDescription: "description",
	query.FieldCategory:    "category",
	query.FieldStatus:      "status",
	query.FieldUserID:      "user_id",
	query.FieldUserName:    "user_name",
	query.FieldCreatedAt:   "created_at",
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// whereClause renders the filter as a WHERE clause with positional arguments.
func whereClause(f query.Filter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if f.Category != "" {
		conds = append(conds, "category = "+arg(f.Category))
	}
	if f.Status != "" {
		conds = append(conds, "status = "+arg(f.Status))
	}
	if f.UserID != "" {
		conds = append(conds, "user_id = "+arg(f.UserID))
	}
	if !f.Search.Empty() {
		p := arg("%" + likeEscaper.Replace(f.Search.Term) + "%")
		or := []string{"description ILIKE " + p, "user_name ILIKE " + p, "user_id ILIKE " + p}
		if f.Search.Amount != nil {
			or = append(or, "amount = "+arg(*f.Search.Amount))
		}
		conds = append(conds, "("+strings.Join(or, " OR ")+")")
	}

	if len(conds) == 0 {
		return "", nil
	}

	return " WHERE " + strings.Join(conds, " AND "), args
}

func orderClause(srt query.Sort) string {
	column, ok := sortColumns[srt.Field]
	if !ok {
		column = "date"
	}

	direction := "ASC"
	if srt.Desc {
		direction = "DESC"
	}

	if column == "id" {
		return " ORDER BY id " + direction
	}

	return " ORDER BY " + column + " " + direction + ", id ASC"
}

func (s *Storage) Transactions(ctx context.Context, q query.TransactionQuery) ([]models.Transaction, error) {
	const op = "storage.postgres.Transactions"

	where, args := whereClause(q.Filter)
	args = append(args, q.Page.Limit, q.Page.Skip())
	stmt := "SELECT " + transactionColumns + " FROM transactions" + where + orderClause(q.Sort) +
		fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			s.logger.Error("Failed to close transactions rows", "error", err)
		}
	}(rows)

	transactions := make([]models.Transaction, 0, q.Page.Limit)
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		transactions = append(transactions, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return transactions, nil
}

func (s *Storage) CountTransactions(ctx context.Context, f query.Filter) (int64, error) {
	const op = "storage.postgres.CountTransactions"

	where, args := whereClause(f)

	var total int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM transactions"+where, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return total, nil
}

func (s *Storage) TransactionByID(ctx context.Context, id int64) (models.Transaction, error) {
	const op = "storage.postgres.TransactionByID"

	row := s.db.QueryRowContext(ctx, "SELECT "+transactionColumns+" FROM transactions WHERE id = $1", id)

	t, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Transaction{}, fmt.Errorf("%s: %w", op, storage.ErrTransactionNotFound)
		}
		return models.Transaction{}, fmt.Errorf("%s: %w", op, err)
	}

	return t, nil
}

func (s *Storage) SaveTransaction(ctx context.Context, t models.Transaction) (models.Transaction, error) {
	const op = "storage.postgres.SaveTransaction"

	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}

	err := s.db.QueryRowContext(ctx,
		`INSERT INTO transactions (date, amount, description, category, status, user_id, user_name, user_profile, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`,
		t.Date, decimal.NewFromFloat(t.Amount), t.Description, t.Category, t.Status,
		t.UserID, t.UserName, nullString(t.UserProfile), t.CreatedAt,
	).Scan(&t.ID)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("%s: %w", op, err)
	}

	return t, nil
}

// SaveTransactions inserts records with preassigned ids in one database
// transaction and moves the identity sequence past the largest id.
func (s *Storage) SaveTransactions(ctx context.Context, ts []models.Transaction) error {
	const op = "storage.postgres.SaveTransactions"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO transactions (id, date, amount, description, category, status, user_id, user_name, user_profile, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, t := range ts {
		if t.CreatedAt.IsZero() {
			t.CreatedAt = now
		}
		_, err := stmt.ExecContext(ctx,
			t.ID, t.Date, decimal.NewFromFloat(t.Amount), t.Description, t.Category, t.Status,
			t.UserID, t.UserName, nullString(t.UserProfile), t.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("%s: insert %d: %w", op, t.ID, err)
		}
	}

	_, err = tx.ExecContext(ctx,
		"SELECT setval(pg_get_serial_sequence('transactions', 'id'), COALESCE((SELECT MAX(id) FROM transactions), 0) + 1, false)")
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (models.Transaction, error) {
	var (
		t       models.Transaction
		amount  decimal.Decimal
		profile sql.NullString
	)

	err := row.Scan(&t.ID, &t.Date, &amount, &t.Description, &t.Category, &t.Status,
		&t.UserID, &t.UserName, &profile, &t.CreatedAt)
	if err != nil {
		return models.Transaction{}, err
	}

	t.Amount = amount.InexactFloat64()
	t.UserProfile = profile.String

	return t, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
