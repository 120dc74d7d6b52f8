package workflows_test

import (
	"context"
	"testing"

	"go.temporal.io/sdk/testsuite"

	"github.com/samirrijal/skylog/internal/core/domain"
	"github.com/samirrijal/skylog/internal/core/usecases"
	"github.com/samirrijal/skylog/internal/pkg/dst"
	"github.com/samirrijal/skylog/internal/workflows"
)

type staticSource []domain.Airport

func (s staticSource) List(ctx context.Context) ([]domain.Airport, error) { return s, nil }

func newActivities(t *testing.T) *workflows.RecalculationActivities {
	t.Helper()
	dir := usecases.NewAirportService(staticSource{
		{ICAO: "EGLL", IATA: "LHR", Location: domain.GeoPoint{Lat: 51.4775, Lon: -0.4614}, DST: dst.Europe},
		{ICAO: "KJFK", IATA: "JFK", Location: domain.GeoPoint{Lat: 40.6398, Lon: -73.7789}, UTCOffset: -5, DST: dst.USCanada},
	})
	if err := dir.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	return &workflows.RecalculationActivities{
		Directory: dir,
		Night:     usecases.NewNightService(dir, nil, nil, 200),
	}
}

func TestRecalculationWorkflow(t *testing.T) {
	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestWorkflowEnvironment()
	env.RegisterWorkflow(workflows.RecalculationWorkflow)
	env.RegisterActivity(newActivities(t))

	input := workflows.RecalculationInput{
		BatchID:         "b1",
		ReloadDirectory: true,
		Flights: []domain.FlightRequest{
			{ID: "night", From: "EGLL", To: "KJFK", DepartureDate: "15/01/2025", DepartureTime: "2000", DurationHours: 7.5},
			{ID: "day", From: "LHR", To: "JFK", DepartureDate: "15/01/2025", DepartureTime: "1000", DurationHours: 7.5},
			{ID: "unknown", From: "QQQQ", To: "KJFK", DepartureDate: "15/01/2025", DepartureTime: "1000", DurationHours: 7.5},
			{ID: "bad", From: "EGLL", To: "KJFK", DepartureDate: "15/01/2025", DepartureTime: "1000", DurationHours: 0},
		},
	}
	env.ExecuteWorkflow(workflows.RecalculationWorkflow, input)

	if !env.IsWorkflowCompleted() {
		t.Fatal("workflow did not complete")
	}
	if err := env.GetWorkflowError(); err != nil {
		t.Fatalf("workflow error: %v", err)
	}

	var result workflows.RecalculationResult
	if err := env.GetWorkflowResult(&result); err != nil {
		t.Fatal(err)
	}
	if result.BatchID != "b1" || result.Computed != 2 || len(result.Failed) != 2 {
		t.Fatalf("unexpected result %+v", result)
	}
	if result.TotalNightHours != 7.5 {
		t.Errorf("total night hours %v, want 7.5", result.TotalNightHours)
	}
	failed := map[string]bool{}
	for _, f := range result.Failed {
		failed[f.ID] = true
	}
	if !failed["unknown"] || !failed["bad"] {
		t.Errorf("failed flights %+v", result.Failed)
	}
}

func TestRecalculationWorkflow_Empty(t *testing.T) {
	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestWorkflowEnvironment()
	env.RegisterWorkflow(workflows.RecalculationWorkflow)
	env.RegisterActivity(newActivities(t))

	env.ExecuteWorkflow(workflows.RecalculationWorkflow, workflows.RecalculationInput{BatchID: "empty"})
	var result workflows.RecalculationResult
	if err := env.GetWorkflowResult(&result); err != nil {
		t.Fatal(err)
	}
	if result.Computed != 0 || len(result.Failed) != 0 {
		t.Errorf("unexpected result %+v", result)
	}
}
