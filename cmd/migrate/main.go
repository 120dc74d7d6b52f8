package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"

	"github.com/samirrijal/skylog/internal/adapters/postgres"
	"github.com/samirrijal/skylog/internal/pkg/config"
)

const migrationsDir = "migrations"

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: migrate <up|status>")
	}
	_ = godotenv.Load()

	cfg, err := config.Load("skylog-migrate")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()
	db, err := postgres.New(ctx, cfg.Database.DSN(), 2)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()

	files, err := filepath.Glob(filepath.Join(migrationsDir, "*.sql"))
	if err != nil || len(files) == 0 {
		log.Fatalf("no migrations found in %s", migrationsDir)
	}
	sort.Strings(files)

	// The first migration creates schema_migrations and is safe to rerun.
	if err := exec(ctx, db, files[0]); err != nil {
		log.Fatal(err)
	}

	switch os.Args[1] {
	case "up":
		runMigrations(ctx, db, files)
	case "status":
		printStatus(ctx, db, files)
	default:
		log.Fatalf("unknown command: %s", os.Args[1])
	}
}

func runMigrations(ctx context.Context, db *postgres.DB, files []string) {
	applied := 0
	for _, f := range files {
		name := filepath.Base(f)
		done, err := isApplied(ctx, db, name)
		if err != nil {
			log.Fatalf("check %s: %v", name, err)
		}
		if done {
			continue
		}

		data, err := os.ReadFile(f)
		if err != nil {
			log.Fatalf("read %s: %v", f, err)
		}

		err = pgx.BeginFunc(ctx, db.Pool, func(tx pgx.Tx) error {
			if _, err := tx.Exec(ctx, string(data)); err != nil {
				return err
			}
			_, err := tx.Exec(ctx, `INSERT INTO schema_migrations (name) VALUES ($1)`, name)
			return err
		})
		if err != nil {
			log.Fatalf("apply %s: %v", name, err)
		}
		applied++
		fmt.Printf("OK  %s\n", name)
	}

	log.Printf("migrations applied: %d", applied)
}

func printStatus(ctx context.Context, db *postgres.DB, files []string) {
	for _, f := range files {
		name := filepath.Base(f)
		done, err := isApplied(ctx, db, name)
		if err != nil {
			log.Fatalf("check %s: %v", name, err)
		}
		state := "pending"
		if done {
			state = "applied"
		}
		fmt.Printf("%-8s %s\n", state, name)
	}
}

func isApplied(ctx context.Context, db *postgres.DB, name string) (bool, error) {
	var exists bool
	err := db.Pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE name = $1)`, name).Scan(&exists)
	return exists, err
}

func exec(ctx context.Context, db *postgres.DB, file string) error {
	data, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("read %s: %w", file, err)
	}
	if _, err := db.Pool.Exec(ctx, string(data)); err != nil {
		return fmt.Errorf("exec %s: %w", file, err)
	}
	return nil
}
