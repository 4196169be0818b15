package models

// The `_id` JSON keys mirror the grouping key of each summary row.

type CategorySummary struct {
	Category Category `json:"_id" bson:"_id"`
	Total    float64  `json:"total" bson:"total"`
	Count    int64    `json:"count" bson:"count"`
	Paid     float64  `json:"paid" bson:"paid"`
	Pending  float64  `json:"pending" bson:"pending"`
}

type MonthKey struct {
	Year     int      `json:"year" bson:"year"`
	Month    int      `json:"month" bson:"month"`
	Category Category `json:"category" bson:"category"`
}

type MonthlyTrend struct {
	Key   MonthKey `json:"_id" bson:"_id"`
	Total float64  `json:"total" bson:"total"`
	Count int64    `json:"count" bson:"count"`
}

type StatusSummary struct {
	Status Status  `json:"_id" bson:"_id"`
	Total  float64 `json:"total" bson:"total"`
	Count  int64   `json:"count" bson:"count"`
}

type UserSummary struct {
	UserID           string  `json:"_id" bson:"_id"`
	TotalAmount      float64 `json:"totalAmount" bson:"totalAmount"`
	TransactionCount int64   `json:"transactionCount" bson:"transactionCount"`
	Revenue          float64 `json:"revenue" bson:"revenue"`
	Expenses         float64 `json:"expenses" bson:"expenses"`
}

type Summary struct {
	RevenueVsExpenses  []CategorySummary `json:"revenueVsExpenses"`
	StatusDistribution []StatusSummary   `json:"statusDistribution"`
	TotalTransactions  int64             `json:"totalTransactions"`
	TotalUsers         int64             `json:"totalUsers"`
}

type Trends struct {
	Monthly []MonthlyTrend `json:"monthly"`
}

type Analytics struct {
	Summary  Summary       `json:"summary"`
	Trends   Trends        `json:"trends"`
	TopUsers []UserSummary `json:"topUsers"`
}
