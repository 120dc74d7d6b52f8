package http

import (
	"time"

	"github.com/nats-io/nats.go"

	mongoadapter "github.com/samirrijal/skylog/internal/adapters/mongo"
	"github.com/samirrijal/skylog/internal/adapters/postgres"
	"github.com/samirrijal/skylog/internal/adapters/valkey"
	"github.com/samirrijal/skylog/internal/core/ports"
	"github.com/samirrijal/skylog/internal/core/usecases"
)

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Airports  *usecases.AirportService
	Times     *usecases.TimeService
	Night     *usecases.NightService
	Sun       *usecases.SunService
	Workflows ports.WorkflowStarter
	NATS      *nats.Conn
	DB        *postgres.DB
	Mongo     *mongoadapter.Client
	Cache     *valkey.Cache

	// Zero values fall back to 120 requests per minute and 15s.
	RateLimit      int
	RequestTimeout time.Duration
	AllowOrigins   string
	// OpenAPIPath defaults to DefaultOpenAPIPath.
	OpenAPIPath string
}
