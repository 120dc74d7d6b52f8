// Package bootstrap wires the airport directory for the skylog binaries.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	mongoadapter "github.com/samirrijal/skylog/internal/adapters/mongo"
	"github.com/samirrijal/skylog/internal/adapters/openflights"
	"github.com/samirrijal/skylog/internal/adapters/postgres"
	"github.com/samirrijal/skylog/internal/core/ports"
	"github.com/samirrijal/skylog/internal/core/usecases"
	"github.com/samirrijal/skylog/internal/pkg/config"
)

// Backends holds the storage connections opened for the directory source.
// Fields are nil when the source does not need them.
type Backends struct {
	DB    *postgres.DB
	Mongo *mongoadapter.Client
}

// Close releases every open connection.
func (b *Backends) Close() {
	if b.DB != nil {
		b.DB.Close()
	}
	if b.Mongo != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		b.Mongo.Close(ctx)
	}
}

// OpenSource connects to the configured directory source.
func OpenSource(ctx context.Context, cfg *config.Config) (ports.AirportSource, *Backends, error) {
	b := &Backends{}
	switch cfg.Directory.Source {
	case config.SourcePostgres:
		db, err := postgres.New(ctx, cfg.Database.DSN(), cfg.Database.MaxConns)
		if err != nil {
			return nil, nil, fmt.Errorf("database: %w", err)
		}
		b.DB = db
		return postgres.NewAirportRepo(db), b, nil

	case config.SourceMongo:
		mc, err := mongoadapter.NewClient(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("mongo: %w", err)
		}
		b.Mongo = mc
		return mongoadapter.NewAirportRepo(mc), b, nil

	case config.SourceFile:
		return openflights.NewFileSource(cfg.Directory.File), b, nil
	}
	return nil, nil, fmt.Errorf("unknown directory source %q", cfg.Directory.Source)
}

// LoadDirectory opens the configured source and performs the initial load.
func LoadDirectory(ctx context.Context, cfg *config.Config) (*usecases.AirportService, *Backends, error) {
	src, b, err := OpenSource(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	svc := usecases.NewAirportService(src)
	if err := svc.Load(ctx); err != nil {
		b.Close()
		return nil, nil, err
	}
	return svc, b, nil
}

// ScheduleRefresh reloads the directory on a cron spec. An empty spec
// returns a nil scheduler. A failed reload keeps the previous snapshot.
func ScheduleRefresh(svc *usecases.AirportService, spec string) (*cron.Cron, error) {
	if spec == "" {
		return nil, nil
	}
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		if err := svc.Load(ctx); err != nil {
			slog.Error("directory refresh failed", "error", err)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("refresh schedule %q: %w", spec, err)
	}
	c.Start()
	return c, nil
}
