package query

import (
	"errors"
	"github.com/IlyasAtabaev731/finboard/internal/domain/models"
	"github.com/shopspring/decimal"
	"strings"
)

var ErrInvalidParam = errors.New("invalid query parameter")

// Filter is the backend-neutral predicate over transactions. Empty fields
// place no constraint. Category and Status are compared literally, so values
// outside the enums simply match nothing.
type Filter struct {
	Category string
	Status   string
	UserID   string
	Search   Search
}

// Search is a free-text term matched against description, user_name and
// user_id. Amount is set only when the term reads as a positive number.
type Search struct {
	Term   string
	Amount *decimal.Decimal
}

var currencyStripper = strings.NewReplacer("$", "", ",", "")

func NewSearch(raw string) Search {
	term := strings.TrimSpace(raw)
	if term == "" {
		return Search{}
	}

	s := Search{Term: term}

	amount, err := decimal.NewFromString(currencyStripper.Replace(term))
	if err == nil && amount.IsPositive() {
		s.Amount = &amount
	}

	return s
}

func (s Search) Empty() bool {
	return s.Term == ""
}

// Match evaluates the filter against a single transaction. Storage backends
// that cannot push the predicate down to a database use it directly.
func (f Filter) Match(t models.Transaction) bool {
	if f.Category != "" && string(t.Category) != f.Category {
		return false
	}
	if f.Status != "" && string(t.Status) != f.Status {
		return false
	}
	if f.UserID != "" && t.UserID != f.UserID {
		return false
	}
	if f.Search.Empty() {
		return true
	}

	term := strings.ToLower(f.Search.Term)
	if strings.Contains(strings.ToLower(t.Description), term) ||
		strings.Contains(strings.ToLower(t.UserName), term) ||
		strings.Contains(strings.ToLower(t.UserID), term) {
		return true
	}

	if f.Search.Amount != nil {
		return decimal.NewFromFloat(t.Amount).Equal(*f.Search.Amount)
	}

	return false
}
