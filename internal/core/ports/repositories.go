package ports

import (
	"context"

	"github.com/samirrijal/skylog/internal/core/domain"
)

// AirportSource yields the full airport reference set.
type AirportSource interface {
	List(ctx context.Context) ([]domain.Airport, error)
}

// AirportRepository persists airports.
type AirportRepository interface {
	AirportSource
	UpsertBatch(ctx context.Context, airports []domain.Airport) error
	GetByCode(ctx context.Context, code string) (*domain.Airport, error)
	Count(ctx context.Context) (int, error)
}
