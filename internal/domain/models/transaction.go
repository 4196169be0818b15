package models

import "time"

type Category string

const (
	CategoryRevenue Category = "Revenue"
	CategoryExpense Category = "Expense"
)

func (c Category) Valid() bool {
	return c == CategoryRevenue || c == CategoryExpense
}

type Status string

const (
	StatusPaid    Status = "Paid"
	StatusPending Status = "Pending"
)

func (s Status) Valid() bool {
	return s == StatusPaid || s == StatusPending
}

// Transaction is a financial record. UserName and UserProfile are copies of the
// owner's display data kept on the record so reads never join against users.
type Transaction struct {
	ID          int64     `json:"id" bson:"id"`
	Date        time.Time `json:"date" bson:"date"`
	Amount      float64   `json:"amount" bson:"amount"`
	Description string    `json:"description" bson:"description"`
	Category    Category  `json:"category" bson:"category"`
	Status      Status    `json:"status" bson:"status"`
	UserID      string    `json:"user_id" bson:"user_id"`
	UserName    string    `json:"user_name" bson:"user_name"`
	UserProfile string    `json:"user_profile,omitempty" bson:"user_profile,omitempty"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
}
