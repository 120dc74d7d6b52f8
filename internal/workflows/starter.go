package workflows

import (
	"context"
	"fmt"

	"go.temporal.io/sdk/client"

	"github.com/samirrijal/skylog/internal/core/domain"
)

// Starter implements ports.WorkflowStarter on a Temporal client.
type Starter struct {
	client    client.Client
	taskQueue string
}

// NewStarter creates a new Starter.
func NewStarter(c client.Client, taskQueue string) *Starter {
	return &Starter{client: c, taskQueue: taskQueue}
}

// StartRecalculation starts a RecalculationWorkflow with a batch-derived ID,
// so resubmitting a running batch is rejected by Temporal.
func (s *Starter) StartRecalculation(ctx context.Context, batchID string, flights []domain.FlightRequest) (string, error) {
	run, err := s.client.ExecuteWorkflow(ctx, client.StartWorkflowOptions{
		ID:        "recalculation-" + batchID,
		TaskQueue: s.taskQueue,
	}, RecalculationWorkflow, RecalculationInput{BatchID: batchID, Flights: flights})
	if err != nil {
		return "", fmt.Errorf("start recalculation %s: %w", batchID, err)
	}
	return run.GetRunID(), nil
}
