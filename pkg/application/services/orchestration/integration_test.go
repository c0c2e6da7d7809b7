package orchestration

import (
	"context"
	"testing"

	testinghelpers "github.com/quakeplan/quakeplan/pkg/application/services/testing"
	"github.com/quakeplan/quakeplan/pkg/domain/entities"
)

func TestPipelineOrchestrator_PortfolioRun(t *testing.T) {
	assessmentRepo, scenarios := testinghelpers.BuildPortfolioTestData()

	assessments, err := assessmentRepo.GetAssessments()
	if err != nil {
		t.Fatalf("GetAssessments failed: %v", err)
	}

	pipeline := newTestPipeline(t)

	result, err := pipeline.RunFromAssessments(context.Background(), assessments, scenarios)
	if err != nil {
		t.Fatalf("Failed to run pipeline: %v", err)
	}

	t.Logf("Pipeline Results:")
	t.Logf("  %s", result.GetSummary())

	if len(result.Ranking.Ranked) != 4 {
		t.Errorf("expected 4 ranked buildings, got %d", len(result.Ranking.Ranked))
	}
	if len(result.Report.Results) != 3 {
		t.Fatalf("expected 3 scenario results, got %d", len(result.Report.Results))
	}
	if len(result.Report.Failures) != 0 {
		t.Errorf("expected no failures, got %v", result.Report.Failures)
	}

	// Faster mobilisation ends recovery sooner for this portfolio.
	byScenario := make(map[string]float64)
	for _, m := range result.Metrics {
		byScenario[m.Scenario.Name] = m.MaxRecovery
	}
	if !(byScenario["optimistic"] < byScenario["baseline"] && byScenario["baseline"] < byScenario["pessimistic"]) {
		t.Errorf("expected max recovery ordered optimistic < baseline < pessimistic, got %v", byScenario)
	}

	for _, m := range result.Metrics {
		t.Logf("  %s: max recovery %.2f days, curve area %.2f", m.Scenario.Name, m.MaxRecovery, m.CurveArea)
	}
}

func TestPipelineOrchestrator_ReferenceQueueRun(t *testing.T) {
	repo := testinghelpers.BuildReferenceQueueData()

	queue, err := repo.GetQueue()
	if err != nil {
		t.Fatalf("GetQueue failed: %v", err)
	}

	pipeline := newTestPipeline(t)

	result, err := pipeline.RunFromQueue(context.Background(), queue,
		[]entities.ScenarioConfig{{Name: "baseline", MobilisationFactor: 1.0}})
	if err != nil {
		t.Fatalf("Failed to run pipeline: %v", err)
	}

	allocations := result.Report.Results[0].Allocations
	if len(allocations) != 2 {
		t.Fatalf("expected 2 allocations, got %d", len(allocations))
	}
	if !almostEqual(allocations[1].WaitTime, 13.457078350012205) {
		t.Errorf("expected second wait 13.457078350012205, got %v", allocations[1].WaitTime)
	}
}
