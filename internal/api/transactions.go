package api

import (
	"encoding/json"
	"github.com/IlyasAtabaev731/finboard/internal/domain/models"
	"github.com/IlyasAtabaev731/finboard/internal/query"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"
)

type TransactionsResponse struct {
	Transactions []models.Transaction `json:"transactions"`
	Pagination   query.Pagination     `json:"pagination"`
}

func (s *APIServer) transactionsHandler() func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		q, err := query.FromValues(r.URL.Query(), s.limits)
		if err != nil {
			s.fail(w, r, err, "")
			return
		}

		transactions, err := s.storage.Transactions(r.Context(), q)
		if err != nil {
			s.fail(w, r, err, "")
			return
		}

		total, err := s.storage.CountTransactions(r.Context(), q.Filter)
		if err != nil {
			s.fail(w, r, err, "")
			return
		}

		if transactions == nil {
			transactions = []models.Transaction{}
		}

		writeJSON(w, http.StatusOK, TransactionsResponse{
			Transactions: transactions,
			Pagination:   query.NewPagination(q.Page, total, len(transactions)),
		})
	}
}

func (s *APIServer) transactionHandler() func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid transaction id")
			return
		}

		t, err := s.storage.TransactionByID(r.Context(), id)
		if err != nil {
			s.fail(w, r, err, "Transaction not found")
			return
		}

		writeJSON(w, http.StatusOK, t)
	}
}

// maxAmount is the first value that no longer fits NUMERIC(14,2).
var maxAmount = decimal.New(1, 12)

type CreateTransactionRequest struct {
	Date        time.Time `json:"date"`
	Amount      *float64  `json:"amount"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Status      string    `json:"status"`
	UserID      string    `json:"user_id"`
	UserName    string    `json:"user_name"`
	UserProfile string    `json:"user_profile"`
}

func (req CreateTransactionRequest) validate() string {
	var problems []string

	if req.Date.IsZero() {
		problems = append(problems, "date is required")
	}
	switch {
	case req.Amount == nil:
		problems = append(problems, "amount is required")
	case math.IsNaN(*req.Amount) || math.IsInf(*req.Amount, 0) || *req.Amount < 0:
		problems = append(problems, "amount must be a non-negative number")
	case decimal.NewFromFloat(*req.Amount).Round(2).GreaterThanOrEqual(maxAmount):
		problems = append(problems, "amount must be less than "+maxAmount.String())
	}
	if strings.TrimSpace(req.Description) == "" {
		problems = append(problems, "description is required")
	}
	if !models.Category(req.Category).Valid() {
		problems = append(problems, "category must be Revenue or Expense")
	}
	if !models.Status(req.Status).Valid() {
		problems = append(problems, "status must be Paid or Pending")
	}
	if strings.TrimSpace(req.UserID) == "" {
		problems = append(problems, "user_id is required")
	}
	if strings.TrimSpace(req.UserName) == "" {
		problems = append(problems, "user_name is required")
	}

	return strings.Join(problems, ", ")
}

func (s *APIServer) createTransactionHandler() func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateTransactionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		if msg := req.validate(); msg != "" {
			writeError(w, http.StatusBadRequest, msg)
			return
		}

		t, err := s.storage.SaveTransaction(r.Context(), models.Transaction{
			Date:        req.Date.UTC(),
			Amount:      decimal.NewFromFloat(*req.Amount).Round(2).InexactFloat64(),
			Description: strings.TrimSpace(req.Description),
			Category:    models.Category(req.Category),
			Status:      models.Status(req.Status),
			UserID:      strings.TrimSpace(req.UserID),
			UserName:    strings.TrimSpace(req.UserName),
			UserProfile: strings.TrimSpace(req.UserProfile),
			CreatedAt:   time.Now().UTC(),
		})
		if err != nil {
			s.fail(w, r, err, "")
			return
		}

		writeJSON(w, http.StatusCreated, t)
	}
}

func (s *APIServer) analyticsHandler() func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		analytics, err := s.analytics.Build(r.Context())
		if err != nil {
			s.fail(w, r, err, "")
			return
		}

		writeJSON(w, http.StatusOK, analytics)
	}
}
