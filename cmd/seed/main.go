package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"github.com/IlyasAtabaev731/finboard/internal/config"
	"github.com/IlyasAtabaev731/finboard/internal/lib/logger"
	"github.com/IlyasAtabaev731/finboard/internal/seed"
	"github.com/IlyasAtabaev731/finboard/internal/storage/backend"
	"github.com/joho/godotenv"
	"log/slog"
	"os"
	"time"
)

func main() {
	_ = godotenv.Load()

	opts := seed.DefaultOptions()

	var from, to string
	flag.StringVar(&from, "from", opts.From.Format(time.DateOnly), "first month to generate (YYYY-MM-DD)")
	flag.StringVar(&to, "to", opts.To.Format(time.DateOnly), "end of generated range, exclusive (YYYY-MM-DD)")
	flag.IntVar(&opts.MinPerMonth, "min-per-month", opts.MinPerMonth, "minimum transactions per month")
	flag.IntVar(&opts.MaxPerMonth, "max-per-month", opts.MaxPerMonth, "maximum transactions per month")
	flag.Uint64Var(&opts.Seed, "seed", opts.Seed, "random seed")

	// MustLoad parses the command line, so every flag is registered above.
	cfg := config.MustLoad()

	log := logger.Setup(cfg.Env, os.Stdout)

	var err error
	if opts.From, err = time.Parse(time.DateOnly, from); err != nil {
		log.Error("Invalid -from", "error", err)
		os.Exit(2)
	}
	if opts.To, err = time.Parse(time.DateOnly, to); err != nil {
		log.Error("Invalid -to", "error", err)
		os.Exit(2)
	}
	if opts.MinPerMonth < 0 || opts.MaxPerMonth < opts.MinPerMonth {
		log.Error("Invalid per-month bounds", slog.Int("min", opts.MinPerMonth), slog.Int("max", opts.MaxPerMonth))
		os.Exit(2)
	}

	if err := checkDriver(cfg.Driver); err != nil {
		log.Error("Refusing to seed", "error", err)
		os.Exit(2)
	}

	ctx := context.Background()

	storage, err := backend.Open(ctx, cfg, log)
	if err != nil {
		log.Error("Failed to open storage", "error", err)
		os.Exit(1)
	}
	defer storage.Close()

	summary, err := seed.New(storage, log).Run(ctx, opts)
	if err != nil {
		log.Error("Seeding failed", "error", err)
		storage.Close()
		os.Exit(1)
	}

	fmt.Printf("Seeded %d users and %d transactions (%d pending)\n",
		summary.Users, summary.Transactions, summary.PendingTransactions)
	fmt.Printf("Paid revenue: $%s, paid expenses: $%s\n",
		summary.PaidRevenue.StringFixed(2), summary.PaidExpenses.StringFixed(2))
	fmt.Println("Sample credentials:")
	for i, c := range seed.SampleUsers {
		fmt.Printf("%d. %s / %s\n", i+1, c.Email, c.Password)
	}
}

// checkDriver rejects backends whose data would vanish when the seeder exits.
func checkDriver(driver string) error {
	if driver == config.DriverMemory {
		return errors.New("memory storage is not persisted, set STORAGE_DRIVER to postgres or mongo")
	}
	return nil
}
