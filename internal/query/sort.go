package query

import (
	"fmt"
	"strings"
)

// Sortable fields as clients name them.
const (
	FieldID          = "id"
	FieldDate        = "date"
	FieldAmount      = "amount"
	FieldDescription = "description"
	FieldCategory    = "category"
	FieldStatus      = "status"
	FieldUserID      = "user_id"
	FieldUserName    = "user_name"
	FieldCreatedAt   = "createdAt"
)

var sortableFields = map[string]struct{}{
	FieldID:          {},
	FieldDate:        {},
	FieldAmount:      {},
	FieldDescription: {},
	FieldCategory:    {},
	FieldStatus:      {},
	FieldUserID:      {},
	FieldUserName:    {},
	FieldCreatedAt:   {},
}

// Sort orders a result set by one field. Backends always append id ascending
// as a tie-breaker so that page windows are stable.
type Sort struct {
	Field string
	Desc  bool
}

var DefaultSort = Sort{Field: FieldDate, Desc: true}

func ParseSort(sortBy, sortOrder string) (Sort, error) {
	sortBy = strings.TrimSpace(sortBy)
	if sortBy == "" {
		return DefaultSort, nil
	}

	if _, ok := sortableFields[sortBy]; !ok {
		return Sort{}, fmt.Errorf("%w: invalid sortBy %q", ErrInvalidParam, sortBy)
	}

	switch strings.ToLower(strings.TrimSpace(sortOrder)) {
	case "asc":
		return Sort{Field: sortBy}, nil
	case "", "desc":
		return Sort{Field: sortBy, Desc: true}, nil
	default:
		return Sort{}, fmt.Errorf("%w: invalid sortOrder %q, expected asc or desc", ErrInvalidParam, sortOrder)
	}
}
