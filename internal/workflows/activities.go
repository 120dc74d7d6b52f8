package workflows

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	"github.com/samirrijal/skylog/internal/core/domain"
	"github.com/samirrijal/skylog/internal/core/usecases"
	"github.com/samirrijal/skylog/internal/pkg/telemetry"
)

// ErrTypeInvalidFlight marks activity failures that retrying cannot fix.
const ErrTypeInvalidFlight = "InvalidFlight"

// RecalculationActivities holds the activity implementations for the
// recalculation workflow.
type RecalculationActivities struct {
	Directory *usecases.AirportService
	Night     *usecases.NightService
}

// RefreshDirectory reloads the airport directory and returns its size.
func (a *RecalculationActivities) RefreshDirectory(ctx context.Context) (int, error) {
	if err := a.Directory.Load(ctx); err != nil {
		return 0, err
	}
	_, total := a.Directory.List(0, 1)
	return total, nil
}

// RecalculateFlight computes the night report for one flight.
func (a *RecalculationActivities) RecalculateFlight(ctx context.Context, req domain.FlightRequest) (*domain.FlightReport, error) {
	ctx, span := telemetry.Tracer().Start(ctx, telemetry.SpanRecalcActivity)
	defer span.End()
	span.SetAttributes(attribute.Int(telemetry.AttrActivityAttempt, int(activity.GetInfo(ctx).Attempt)))

	report, err := a.Night.Calculate(ctx, req)
	if errors.Is(err, domain.ErrInvalidInput) || errors.Is(err, domain.ErrAirportNotFound) {
		activity.GetLogger(ctx).Warn("Flight rejected", "id", req.ID, "error", err)
		return nil, temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeInvalidFlight, err)
	}
	return report, err
}
