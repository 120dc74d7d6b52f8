package main

import (
	"context"
	"log"
	"log/slog"

	"github.com/joho/godotenv"
	"go.temporal.io/sdk/client"
	tlog "go.temporal.io/sdk/log"
	"go.temporal.io/sdk/worker"

	"github.com/samirrijal/skylog/internal/bootstrap"
	"github.com/samirrijal/skylog/internal/core/usecases"
	"github.com/samirrijal/skylog/internal/pkg/config"
	"github.com/samirrijal/skylog/internal/pkg/logging"
	"github.com/samirrijal/skylog/internal/pkg/telemetry"
	"github.com/samirrijal/skylog/internal/workflows"
)

// The recalculator runs the Temporal worker for batch night recalculations.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load("skylog-recalculator")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup("skylog-recalculator", cfg.Log.Level, cfg.Log.Format)

	ctx := context.Background()

	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, "skylog-recalculator", cfg.Telemetry.OTLPEndpoint)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	airports, backends, err := bootstrap.LoadDirectory(ctx, cfg)
	if err != nil {
		log.Fatalf("airport directory: %v", err)
	}
	defer backends.Close()

	c, err := client.Dial(client.Options{
		HostPort:  cfg.Temporal.HostPort,
		Namespace: cfg.Temporal.Namespace,
		Logger:    tlog.NewStructuredLogger(slog.Default()),
	})
	if err != nil {
		log.Fatalf("temporal client: %v", err)
	}
	defer c.Close()

	w := worker.New(c, cfg.Temporal.TaskQueue, worker.Options{})

	w.RegisterWorkflow(workflows.RecalculationWorkflow)
	w.RegisterActivity(&workflows.RecalculationActivities{
		Directory: airports,
		// Batch results go back to the caller, so no cache or publisher.
		Night: usecases.NewNightService(airports, nil, nil, cfg.Night.Segments),
	})

	slog.Info("recalculator worker started", "task_queue", cfg.Temporal.TaskQueue)
	if err := w.Run(worker.InterruptCh()); err != nil {
		log.Fatalf("worker: %v", err)
	}
}
