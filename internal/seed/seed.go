package seed

import (
	"context"
	"fmt"
	"github.com/IlyasAtabaev731/finboard/internal/domain/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"log/slog"
	"math/rand/v2"
	"time"
)

type Credential struct {
	Email    string
	Password string
}

var SampleUsers = []Credential{
	{Email: "user001@example.com", Password: "password123"},
	{Email: "user002@example.com", Password: "password123"},
	{Email: "user003@example.com", Password: "password123"},
	{Email: "user004@example.com", Password: "password123"},
	{Email: "admin@loopr.com", Password: "admin123"},
}

var (
	revenueDescriptions = []string{
		"Website Development Project", "Mobile App Development", "Consulting Services", "Software License Sale",
		"Design Services", "Digital Marketing Campaign", "E-commerce Platform", "API Integration",
		"Data Analysis Project", "Cloud Migration Service", "SEO Optimization", "Content Management System",
		"Custom Software Development", "Technical Support Services", "Database Optimization",
		"Security Audit", "Performance Tuning", "Training Services", "Project Management",
		"UI/UX Design", "Brand Identity Design", "Social Media Marketing", "Email Marketing Campaign",
	}

	expenseDescriptions = []string{
		"Office Rent Payment", "Equipment Purchase", "Software Subscription", "Marketing Expenses",
		"Travel Expenses", "Utility Bills", "Internet Service", "Phone Service",
		"Insurance Premium", "Legal Fees", "Accounting Services", "Office Supplies",
		"Computer Hardware", "Server Hosting", "Domain Registration", "SSL Certificate",
		"Professional Development", "Conference Tickets", "Training Materials", "Software Tools",
		"Advertising Costs", "Freelancer Payment", "Contractor Fees",
	}

	userNames = []string{"John Smith", "Sarah Johnson", "Mike Davis", "Lisa Wilson", "Admin User"}

	profileURLs = []string{
		"https://thispersondoesnotexist.com/",
		"https://randomuser.me/api/portraits/men/1.jpg",
		"https://randomuser.me/api/portraits/women/1.jpg",
		"https://randomuser.me/api/portraits/men/2.jpg",
		"https://randomuser.me/api/portraits/women/2.jpg",
	}
)

type Options struct {
	// From and To bound the generated months; To is exclusive.
	From        time.Time
	To          time.Time
	MinPerMonth int
	MaxPerMonth int
	Seed        uint64
	// Cost is the bcrypt cost for sample user passwords.
	Cost int
}

func DefaultOptions() Options {
	return Options{
		From:        time.Date(2022, time.July, 1, 0, 0, 0, 0, time.UTC),
		To:          time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC),
		MinPerMonth: 15,
		MaxPerMonth: 24,
		Seed:        uint64(time.Now().UnixNano()),
		Cost:        bcrypt.DefaultCost,
	}
}

// Transactions generates records month by month with ids numbered from 1.
// The same options always yield the same records.
func Transactions(opts Options) []models.Transaction {
	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15))

	var (
		out []models.Transaction
		id  int64 = 1
	)

	from := time.Date(opts.From.Year(), opts.From.Month(), 1, 0, 0, 0, 0, time.UTC)
	for month := from; month.Before(opts.To); month = month.AddDate(0, 1, 0) {
		n := opts.MinPerMonth
		if spread := opts.MaxPerMonth - opts.MinPerMonth; spread > 0 {
			n += rng.IntN(spread + 1)
		}

		for range n {
			date := time.Date(month.Year(), month.Month(), 1+rng.IntN(28),
				rng.IntN(24), rng.IntN(60), rng.IntN(60), 0, time.UTC)

			category := models.CategoryExpense
			descriptions := expenseDescriptions
			if rng.Float64() > 0.45 {
				category = models.CategoryRevenue
				descriptions = revenueDescriptions
			}

			status := models.StatusPending
			if rng.Float64() > 0.2 {
				status = models.StatusPaid
			}

			u := rng.IntN(len(userNames))

			out = append(out, models.Transaction{
				ID:          id,
				Date:        date,
				Amount:      amount(rng, category),
				Description: descriptions[rng.IntN(len(descriptions))],
				Category:    category,
				Status:      status,
				UserID:      fmt.Sprintf("user_00%d", u%4+1),
				UserName:    userNames[u],
				UserProfile: profileURLs[u],
			})
			id++
		}
	}

	return out
}

// amount draws revenue from 500..5000 with occasional deals up to 15000 and
// expenses from 100..3000 with occasional purchases up to 10000, in cents.
func amount(rng *rand.Rand, category models.Category) float64 {
	var v float64
	if category == models.CategoryRevenue {
		if rng.Float64() > 0.1 {
			v = 500 + rng.Float64()*4500
		} else {
			v = 5000 + rng.Float64()*10000
		}
	} else {
		if rng.Float64() > 0.15 {
			v = 100 + rng.Float64()*2900
		} else {
			v = 3000 + rng.Float64()*7000
		}
	}

	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

func Users(creds []Credential, cost int, now time.Time) ([]models.User, error) {
	users := make([]models.User, 0, len(creds))
	for _, c := range creds {
		hash, err := bcrypt.GenerateFromPassword([]byte(c.Password), cost)
		if err != nil {
			return nil, fmt.Errorf("hash password for %s: %w", c.Email, err)
		}
		users = append(users, models.User{
			ID:           uuid.NewString(),
			Email:        c.Email,
			PasswordHash: string(hash),
			CreatedAt:    now.UTC(),
		})
	}

	return users, nil
}

type Store interface {
	Reset(ctx context.Context) error
	SaveUser(ctx context.Context, user models.User) error
	SaveTransactions(ctx context.Context, ts []models.Transaction) error
}

type Summary struct {
	Users               int
	Transactions        int
	PaidRevenue         decimal.Decimal
	PaidExpenses        decimal.Decimal
	PendingTransactions int
}

type Seeder struct {
	store  Store
	logger *slog.Logger
}

func New(store Store, logger *slog.Logger) *Seeder {
	return &Seeder{store: store, logger: logger.With("component", "seed")}
}

// Run wipes the store and fills it with the sample users and generated
// transactions.
func (s *Seeder) Run(ctx context.Context, opts Options) (Summary, error) {
	s.logger.Info("Clearing existing data")
	if err := s.store.Reset(ctx); err != nil {
		return Summary{}, fmt.Errorf("reset: %w", err)
	}

	users, err := Users(SampleUsers, opts.Cost, time.Now())
	if err != nil {
		return Summary{}, err
	}
	for _, u := range users {
		if err := s.store.SaveUser(ctx, u); err != nil {
			return Summary{}, fmt.Errorf("save user %s: %w", u.Email, err)
		}
	}
	s.logger.Info("Created sample users", slog.Int("count", len(users)))

	ts := Transactions(opts)
	if err := s.store.SaveTransactions(ctx, ts); err != nil {
		return Summary{}, fmt.Errorf("save transactions: %w", err)
	}

	summary := Summary{Users: len(users), Transactions: len(ts)}
	for _, t := range ts {
		if t.Status == models.StatusPending {
			summary.PendingTransactions++
			continue
		}
		switch t.Category {
		case models.CategoryRevenue:
			summary.PaidRevenue = summary.PaidRevenue.Add(decimal.NewFromFloat(t.Amount))
		case models.CategoryExpense:
			summary.PaidExpenses = summary.PaidExpenses.Add(decimal.NewFromFloat(t.Amount))
		}
	}

	s.logger.Info("Seeded transactions",
		slog.Int("transactions", summary.Transactions),
		slog.String("paid_revenue", summary.PaidRevenue.StringFixed(2)),
		slog.String("paid_expenses", summary.PaidExpenses.StringFixed(2)),
		slog.Int("pending", summary.PendingTransactions),
	)

	return summary, nil
}
