package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"

	mongoadapter "github.com/samirrijal/skylog/internal/adapters/mongo"
	"github.com/samirrijal/skylog/internal/adapters/openflights"
	"github.com/samirrijal/skylog/internal/adapters/postgres"
	"github.com/samirrijal/skylog/internal/core/domain"
	"github.com/samirrijal/skylog/internal/pkg/config"
	"github.com/samirrijal/skylog/internal/pkg/logging"
)

const batchSize = 1000

// sink is an airport store the ingestor can write to.
type sink interface {
	UpsertBatch(ctx context.Context, airports []domain.Airport) error
	Count(ctx context.Context) (int, error)
}

// Usage: ingestor [airports.dat path or URL] [postgres,mongo]
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load("skylog-ingestor")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup("skylog-ingestor", cfg.Log.Level, cfg.Log.Format)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	source := cfg.Directory.File
	if len(os.Args) > 1 {
		source = os.Args[1]
	}
	targets := []string{config.SourcePostgres}
	if len(os.Args) > 2 {
		targets = strings.Split(os.Args[2], ",")
	}

	airports, skipped, err := readAirports(ctx, source)
	if err != nil {
		log.Fatalf("read %s: %v", source, err)
	}
	slog.Info("airports parsed", "source", source, "airports", len(airports), "skipped", skipped)

	sinks := make(map[string]sink)
	for _, t := range targets {
		switch strings.TrimSpace(t) {
		case config.SourcePostgres:
			db, err := postgres.New(ctx, cfg.Database.DSN(), cfg.Database.MaxConns)
			if err != nil {
				log.Fatalf("db: %v", err)
			}
			defer db.Close()
			sinks[config.SourcePostgres] = postgres.NewAirportRepo(db)

		case config.SourceMongo:
			mc, err := mongoadapter.NewClient(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
			if err != nil {
				log.Fatalf("mongo: %v", err)
			}
			defer mc.Close(context.Background())
			repo := mongoadapter.NewAirportRepo(mc)
			if err := repo.EnsureIndexes(ctx); err != nil {
				log.Fatalf("mongo indexes: %v", err)
			}
			sinks[config.SourceMongo] = repo

		default:
			log.Fatalf("unknown target %q (want postgres or mongo)", t)
		}
	}

	var wg sync.WaitGroup
	failed := make(chan string, len(sinks))
	for name, s := range sinks {
		wg.Add(1)
		go func(name string, s sink) {
			defer wg.Done()
			if err := ingest(ctx, s, airports); err != nil {
				slog.Error("ingest failed", "target", name, "error", err)
				failed <- name
				return
			}
			n, err := s.Count(ctx)
			if err != nil {
				slog.Warn("count failed", "target", name, "error", err)
				return
			}
			slog.Info("ingest complete", "target", name, "stored", n)
		}(name, s)
	}
	wg.Wait()
	close(failed)

	if len(failed) > 0 {
		os.Exit(1)
	}
}

// ingest upserts airports in fixed-size batches.
func ingest(ctx context.Context, s sink, airports []domain.Airport) error {
	for start := 0; start < len(airports); start += batchSize {
		end := start + batchSize
		if end > len(airports) {
			end = len(airports)
		}
		if err := s.UpsertBatch(ctx, airports[start:end]); err != nil {
			return fmt.Errorf("batch %d-%d: %w", start, end, err)
		}
	}
	return nil
}

// readAirports parses an OpenFlights airports.dat from a local path or an
// http(s) URL.
func readAirports(ctx context.Context, source string) ([]domain.Airport, int, error) {
	var r io.ReadCloser
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
		if err != nil {
			return nil, 0, err
		}
		client := &http.Client{Timeout: 120 * time.Second}
		resp, err := client.Do(req)
		if err != nil {
			return nil, 0, fmt.Errorf("download: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, 0, fmt.Errorf("HTTP %d for %s", resp.StatusCode, source)
		}
		r = resp.Body
	} else {
		f, err := os.Open(source)
		if err != nil {
			return nil, 0, err
		}
		r = f
	}
	defer r.Close()

	return openflights.Parse(r)
}
