package ports

import (
	"context"

	"github.com/samirrijal/skylog/internal/core/domain"
)

// AirportDirectory resolves ICAO or IATA codes to airports. Implementations
// must be safe for concurrent reads.
type AirportDirectory interface {
	Lookup(code string) (domain.Airport, bool)
}

// EventPublisher publishes domain events to a message broker.
type EventPublisher interface {
	PublishReport(ctx context.Context, report *domain.FlightReport) error
	PublishFlightRequest(ctx context.Context, req *domain.FlightRequest) error
	PublishBroadcast(ctx context.Context, data []byte) error
}

// EventSubscriber subscribes to domain events from a message broker.
type EventSubscriber interface {
	SubscribeFlightRequests(ctx context.Context, handler func(ctx context.Context, req *domain.FlightRequest) error) error
	SubscribeReports(ctx context.Context, handler func(ctx context.Context, report *domain.FlightReport) error) error
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}

// WorkflowStarter launches long-running recalculation workflows.
type WorkflowStarter interface {
	StartRecalculation(ctx context.Context, batchID string, flights []domain.FlightRequest) (runID string, err error)
}
