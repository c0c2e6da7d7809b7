package orchestration

import (
	"context"
	"math"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/quakeplan/quakeplan/pkg/application/services/metrics"
	"github.com/quakeplan/quakeplan/pkg/application/services/priority"
	"github.com/quakeplan/quakeplan/pkg/application/services/simulation"
	"github.com/quakeplan/quakeplan/pkg/domain/entities"
	"github.com/quakeplan/quakeplan/pkg/domain/services"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) <= 1e-9
}

func newTestPipeline(t *testing.T) *PipelineOrchestrator {
	t.Helper()

	simulator, err := simulation.NewQueueSimulator(services.DefaultMobilisationModel())
	if err != nil {
		t.Fatalf("NewQueueSimulator failed: %v", err)
	}
	runner, err := simulation.NewScenarioRunner(simulator, zap.NewNop(), nil)
	if err != nil {
		t.Fatalf("NewScenarioRunner failed: %v", err)
	}

	return NewPipelineOrchestrator(priority.NewDefaultService(), runner, metrics.NewDefaultRecoveryService())
}

func testAssessments() []*entities.BuildingAssessment {
	build := func(id string, cap entities.CapStatus, paid, repair int64, policy, resources, duration float64) *entities.BuildingAssessment {
		return &entities.BuildingAssessment{
			ID:                entities.BuildingID(id),
			CapStatus:         cap,
			TotalBuildingPaid: decimal.NewFromInt(paid),
			RepairCost:        decimal.NewFromInt(repair),
			ImportanceLevel:   2,
			PolicyPreference:  policy,
			RequiredResources: resources,
			RepairDuration:    duration,
		}
	}

	return []*entities.BuildingAssessment{
		build("B-001", entities.Undercap, 100_000, 50_000, 1, 20, 10),
		build("B-002", entities.Undercap, 200_000, 100_000, 3, 15, 5),
		build("B-003", entities.Overcap, 500_000, 300_000, 5, 30, 20),
		build("B-004", entities.Overcap, 900_000, 150_000, 2, 8, 4),
	}
}

func TestRunFromAssessments_EndToEnd(t *testing.T) {
	pipeline := newTestPipeline(t)

	scenarios := []entities.ScenarioConfig{{Name: "baseline", MobilisationFactor: 1.0}}

	result, err := pipeline.RunFromAssessments(context.Background(), testAssessments(), scenarios)
	if err != nil {
		t.Fatalf("RunFromAssessments failed: %v", err)
	}

	// Ranking stage: PRI order B-003, B-002, B-004, B-001.
	wantOrder := []entities.BuildingID{"B-003", "B-002", "B-004", "B-001"}
	for i, want := range wantOrder {
		if result.Ranking.Buildings[i].ID != want {
			t.Errorf("queue position %d: expected %s, got %s", i, want, result.Ranking.Buildings[i].ID)
		}
	}

	// Simulation stage: the ranked queue drains the opening balance at once,
	// so every building takes the shortfall path and waits accumulate.
	if len(result.Report.Results) != 1 {
		t.Fatalf("expected 1 scenario result, got %d", len(result.Report.Results))
	}
	allocations := result.Report.Results[0].Allocations

	if !almostEqual(allocations[0].WaitTime, 7.355052477422505) {
		t.Errorf("expected first wait 7.355052477422505, got %v", allocations[0].WaitTime)
	}
	if !almostEqual(allocations[3].WaitTime, 128.27302904564317) {
		t.Errorf("expected last wait 128.27302904564317, got %v", allocations[3].WaitTime)
	}
	for i := 1; i < len(allocations); i++ {
		if allocations[i].WaitTime < allocations[i-1].WaitTime {
			t.Errorf("expected waits to accumulate down the queue, got %v after %v",
				allocations[i].WaitTime, allocations[i-1].WaitTime)
		}
	}
	if !almostEqual(result.Report.Results[0].FinalBalance, -46.50983) {
		t.Errorf("expected final balance -46.50983, got %v", result.Report.Results[0].FinalBalance)
	}

	// Metrics stage: one row per scenario against the default horizon.
	if len(result.Metrics) != 1 {
		t.Fatalf("expected 1 metrics row, got %d", len(result.Metrics))
	}
	m := result.Metrics[0]
	if m.Scenario.Name != "baseline" {
		t.Errorf("expected metrics for baseline, got %s", m.Scenario.Name)
	}
	if !almostEqual(m.MaxRecovery, 138.27302904564317) {
		t.Errorf("expected max recovery 138.27302904564317, got %v", m.MaxRecovery)
	}
	if m.CurveArea <= 0 || m.CurveArea >= metrics.DefaultHorizon {
		t.Errorf("expected curve area within (0, horizon), got %v", m.CurveArea)
	}
}

func TestRunFromQueue_SkipsRanking(t *testing.T) {
	pipeline := newTestPipeline(t)

	queue := []*entities.BuildingRecord{
		{ID: "B-001", RequiredResources: 20, RepairDuration: 10, Rank: 1},
		{ID: "B-002", RequiredResources: 15, RepairDuration: 5, Rank: 2},
	}

	result, err := pipeline.RunFromQueue(context.Background(), queue, entities.DefaultScenarios())
	if err != nil {
		t.Fatalf("RunFromQueue failed: %v", err)
	}

	if result.Ranking != nil {
		t.Error("expected no ranking stage for a pre-ranked queue")
	}
	if len(result.Report.Results) != 3 {
		t.Errorf("expected 3 scenario results, got %d", len(result.Report.Results))
	}
	if len(result.Metrics) != 3 {
		t.Errorf("expected 3 metrics rows, got %d", len(result.Metrics))
	}
}

func TestRunFromAssessments_RankingFailureAbortsPipeline(t *testing.T) {
	pipeline := newTestPipeline(t)

	_, err := pipeline.RunFromAssessments(context.Background(),
		testAssessments()[:1], entities.DefaultScenarios())
	if err == nil {
		t.Fatal("expected error for too few assessments")
	}
	if !strings.Contains(err.Error(), "failed to rank assessments") {
		t.Errorf("expected wrapped ranking error, got %v", err)
	}
}

func TestPipelineResult_GetSummary(t *testing.T) {
	pipeline := newTestPipeline(t)

	result, err := pipeline.RunFromAssessments(context.Background(),
		testAssessments(), entities.DefaultScenarios())
	if err != nil {
		t.Fatalf("RunFromAssessments failed: %v", err)
	}

	summary := result.GetSummary()
	for _, want := range []string{"Ranked: 4 buildings", "Scenarios: 3 completed, 0 failed", "baseline", "curve area"} {
		if !strings.Contains(summary, want) {
			t.Errorf("expected summary to contain %q, got:\n%s", want, summary)
		}
	}
}
