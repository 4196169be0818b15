package main

import (
	"errors"
	"flag"
	"fmt"
	"github.com/IlyasAtabaev731/finboard/internal/config"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/joho/godotenv"
	"strings"
)

func main() {
	_ = godotenv.Load()

	var dbUrl, migrationsPath, migrationsTable string
	var down bool

	flag.StringVar(&dbUrl, "db-url", "", "postgres connection url; defaults to the configured database")
	flag.StringVar(&migrationsPath, "migrations-path", "./migrations", "path to migrations")
	flag.StringVar(&migrationsTable, "migrations-table", "migrations", "name of migrations table")
	flag.BoolVar(&down, "down", false, "roll back every migration")

	cfg := config.MustLoad()

	if dbUrl == "" {
		dbUrl = cfg.Postgres.DSN()
	}
	if migrationsPath == "" {
		panic("migrations path is required")
	}

	m, err := migrate.New(
		"file://"+migrationsPath,
		withMigrationsTable(dbUrl, migrationsTable),
	)
	if err != nil {
		panic(err)
	}

	apply := m.Up
	if down {
		apply = m.Down
	}

	if err := apply(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			fmt.Println("no migrations to apply")
			return
		}
		panic(err)
	}

	fmt.Println("migrations applied successfully")
}

func withMigrationsTable(dbUrl, table string) string {
	sep := "?"
	if strings.Contains(dbUrl, "?") {
		sep = "&"
	}
	return fmt.Sprintf("%s%sx-migrations-table=%s", dbUrl, sep, table)
}
