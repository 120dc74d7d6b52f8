package workflows

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/samirrijal/skylog/internal/core/domain"
)

// RecalculationInput is the input for the recalculation workflow.
type RecalculationInput struct {
	BatchID string
	Flights []domain.FlightRequest
	// ReloadDirectory refreshes the airport directory before recalculating.
	ReloadDirectory bool
}

// FailedFlight records a flight that could not be recalculated.
type FailedFlight struct {
	ID     string
	Reason string
}

// RecalculationResult summarises a batch.
type RecalculationResult struct {
	BatchID         string
	Computed        int
	Failed          []FailedFlight
	TotalNightHours float64
}

// maxInFlight bounds concurrent activities per batch.
const maxInFlight = 20

// RecalculationWorkflow recomputes night reports for a batch of logbook
// flights, for example after the airport reference data changed. Flights
// that fail are reported, not retried forever.
func RecalculationWorkflow(ctx workflow.Context, input RecalculationInput) (*RecalculationResult, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("Starting recalculation workflow", "batch", input.BatchID, "flights", len(input.Flights))

	actOpts := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts:        3,
			NonRetryableErrorTypes: []string{ErrTypeInvalidFlight},
		},
	}
	ctx = workflow.WithActivityOptions(ctx, actOpts)

	if input.ReloadDirectory {
		var n int
		if err := workflow.ExecuteActivity(ctx, "RefreshDirectory").Get(ctx, &n); err != nil {
			return nil, err
		}
		logger.Info("Directory refreshed", "airports", n)
	}

	result := &RecalculationResult{BatchID: input.BatchID}
	for start := 0; start < len(input.Flights); start += maxInFlight {
		end := start + maxInFlight
		if end > len(input.Flights) {
			end = len(input.Flights)
		}
		chunk := input.Flights[start:end]

		futures := make([]workflow.Future, len(chunk))
		for i, f := range chunk {
			futures[i] = workflow.ExecuteActivity(ctx, "RecalculateFlight", f)
		}
		for i, fut := range futures {
			var report domain.FlightReport
			if err := fut.Get(ctx, &report); err != nil {
				result.Failed = append(result.Failed, FailedFlight{ID: chunk[i].ID, Reason: err.Error()})
				continue
			}
			result.Computed++
			result.TotalNightHours += report.NightHours
		}
	}

	logger.Info("Recalculation finished", "computed", result.Computed, "failed", len(result.Failed))
	return result, nil
}
