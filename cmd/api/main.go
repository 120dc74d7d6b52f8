package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"
	"go.temporal.io/sdk/client"
	tlog "go.temporal.io/sdk/log"

	"github.com/samirrijal/skylog/internal/adapters/http"
	natsadapter "github.com/samirrijal/skylog/internal/adapters/nats"
	"github.com/samirrijal/skylog/internal/adapters/valkey"
	"github.com/samirrijal/skylog/internal/bootstrap"
	"github.com/samirrijal/skylog/internal/core/ports"
	"github.com/samirrijal/skylog/internal/core/usecases"
	"github.com/samirrijal/skylog/internal/pkg/config"
	"github.com/samirrijal/skylog/internal/pkg/logging"
	"github.com/samirrijal/skylog/internal/pkg/telemetry"
	"github.com/samirrijal/skylog/internal/workflows"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load("skylog-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logging.Setup("skylog-api", cfg.Log.Level, cfg.Log.Format)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.OTLPEndpoint)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	// Airport directory
	airports, backends, err := bootstrap.LoadDirectory(ctx, cfg)
	if err != nil {
		log.Fatalf("airport directory: %v", err)
	}
	defer backends.Close()

	refresher, err := bootstrap.ScheduleRefresh(airports, cfg.Directory.Refresh)
	if err != nil {
		log.Fatalf("directory refresh: %v", err)
	}
	if refresher != nil {
		defer refresher.Stop()
	}

	// Cache
	var cache *valkey.Cache
	var reportCache ports.CacheService
	if cfg.Valkey.Enabled {
		cache, err = valkey.New(cfg.Valkey.Addr)
		if err != nil {
			slog.Warn("valkey unavailable", "error", err)
		} else {
			defer cache.Close()
			reportCache = cache
		}
	}

	// NATS
	var publisher ports.EventPublisher
	var wsConn *nats.Conn
	if cfg.NATS.Enabled {
		pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
		if err != nil {
			slog.Warn("nats unavailable", "error", err)
		} else {
			defer pub.Close()
			publisher = pub
		}

		// Raw NATS connection for WebSocket relay
		wsConn, err = natsadapter.RawConn(cfg.NATS.URL)
		if err != nil {
			slog.Warn("nats ws conn unavailable", "error", err)
		} else {
			defer wsConn.Close()
		}
	}

	// Temporal
	var starter ports.WorkflowStarter
	if cfg.Temporal.Enabled {
		tc, err := client.Dial(client.Options{
			HostPort:  cfg.Temporal.HostPort,
			Namespace: cfg.Temporal.Namespace,
			Logger:    tlog.NewStructuredLogger(slog.Default()),
		})
		if err != nil {
			slog.Warn("temporal unavailable", "error", err)
		} else {
			defer tc.Close()
			starter = workflows.NewStarter(tc, cfg.Temporal.TaskQueue)
		}
	}

	deps := &http.Dependencies{
		Airports:       airports,
		Times:          usecases.NewTimeService(airports),
		Night:          usecases.NewNightService(airports, reportCache, publisher, cfg.Night.Segments),
		Sun:            usecases.NewSunService(airports),
		Workflows:      starter,
		NATS:           wsConn,
		DB:             backends.DB,
		Mongo:          backends.Mongo,
		Cache:          cache,
		RateLimit:      cfg.Server.RateLimit,
		RequestTimeout: time.Duration(cfg.Server.RequestTimeout) * time.Second,
		AllowOrigins:   cfg.Server.AllowOrigins,
		OpenAPIPath:    cfg.Server.OpenAPIPath,
	}

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    4 * 1024 * 1024, // recalculation batches
		AppName:      "Skylog API",
	})
	http.SetupRoutes(app, deps)

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr, "directory_source", cfg.Directory.Source)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}
