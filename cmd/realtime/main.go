package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	natsadapter "github.com/samirrijal/skylog/internal/adapters/nats"
	"github.com/samirrijal/skylog/internal/adapters/valkey"
	"github.com/samirrijal/skylog/internal/bootstrap"
	"github.com/samirrijal/skylog/internal/core/domain"
	"github.com/samirrijal/skylog/internal/core/ports"
	"github.com/samirrijal/skylog/internal/core/usecases"
	"github.com/samirrijal/skylog/internal/pkg/config"
	"github.com/samirrijal/skylog/internal/pkg/logging"
	"github.com/samirrijal/skylog/internal/pkg/telemetry"
)

const heartbeatInterval = 30 * time.Second

// heartbeat is broadcast periodically so dashboards can see live workers.
type heartbeat struct {
	Worker    string    `json:"worker"`
	Airports  int       `json:"airports"`
	Processed int64     `json:"processed"`
	Dropped   int64     `json:"dropped"`
	At        time.Time `json:"at"`
}

// The realtime worker consumes queued flight requests from JetStream,
// computes their night reports and publishes them on skylog.report.>.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load("skylog-realtime")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup("skylog-realtime", cfg.Log.Level, cfg.Log.Format)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, "skylog-realtime", cfg.Telemetry.OTLPEndpoint)
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

	refresher, err := bootstrap.ScheduleRefresh(airports, cfg.Directory.Refresh)
	if err != nil {
		log.Fatalf("directory refresh: %v", err)
	}
	if refresher != nil {
		defer refresher.Stop()
	}

	pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		log.Fatalf("nats publisher: %v", err)
	}
	defer pub.Close()

	sub, err := natsadapter.NewSubscriber(cfg.NATS.URL)
	if err != nil {
		log.Fatalf("nats subscriber: %v", err)
	}
	defer sub.Close()

	var cache ports.CacheService
	if cfg.Valkey.Enabled {
		vc, err := valkey.New(cfg.Valkey.Addr)
		if err != nil {
			slog.Warn("valkey unavailable", "error", err)
		} else {
			defer vc.Close()
			cache = vc
		}
	}

	night := usecases.NewNightService(airports, cache, pub, cfg.Night.Segments)

	var processed, dropped atomic.Int64
	err = sub.SubscribeFlightRequests(ctx, func(ctx context.Context, req *domain.FlightRequest) error {
		report, err := night.Calculate(ctx, *req)
		switch {
		case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrAirportNotFound):
			// Redelivery cannot fix bad input.
			dropped.Add(1)
			slog.Warn("flight request dropped", "flight_id", req.ID, "error", err)
			return nil
		case err != nil:
			return err
		}
		processed.Add(1)
		slog.Debug("flight processed", "flight_id", req.ID, "night_hours", report.NightHours)
		return nil
	})
	if err != nil {
		log.Fatalf("subscribe: %v", err)
	}
	slog.Info("realtime worker started", "subject", natsadapter.SubjectFlights)

	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-ticker.C:
			_, total := airports.List(0, 1)
			data, _ := json.Marshal(heartbeat{
				Worker:    "skylog-realtime",
				Airports:  total,
				Processed: processed.Load(),
				Dropped:   dropped.Load(),
				At:        time.Now().UTC(),
			})
			if err := pub.PublishBroadcast(ctx, data); err != nil {
				slog.Warn("heartbeat failed", "error", err)
			}
		case sig := <-quit:
			slog.Info("shutting down realtime worker", "signal", sig.String())
			cancel()
			return
		}
	}
}
