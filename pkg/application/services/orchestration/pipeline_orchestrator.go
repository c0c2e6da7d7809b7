package orchestration

import (
	"context"
	"fmt"

	"github.com/quakeplan/quakeplan/pkg/application/dto"
	"github.com/quakeplan/quakeplan/pkg/application/services/metrics"
	"github.com/quakeplan/quakeplan/pkg/application/services/priority"
	"github.com/quakeplan/quakeplan/pkg/application/services/simulation"
	"github.com/quakeplan/quakeplan/pkg/domain/entities"
)

// PipelineOrchestrator coordinates the three stages of a planning run:
// prioritisation, scenario simulation and recovery metrics.
type PipelineOrchestrator struct {
	priorityService *priority.Service
	runner          *simulation.ScenarioRunner
	metricsService  *metrics.RecoveryService
}

// NewPipelineOrchestrator creates a pipeline over the given stage services
func NewPipelineOrchestrator(
	priorityService *priority.Service,
	runner *simulation.ScenarioRunner,
	metricsService *metrics.RecoveryService,
) *PipelineOrchestrator {
	return &PipelineOrchestrator{
		priorityService: priorityService,
		runner:          runner,
		metricsService:  metricsService,
	}
}

// PipelineResult contains the combined output of a full pipeline run. Ranking
// is nil when the run started from an already ranked queue.
type PipelineResult struct {
	Ranking *dto.RankingResult
	Report  *dto.SimulationReport
	Metrics []dto.RecoveryMetrics
}

// RunFromAssessments ranks the raw assessments, simulates every scenario over
// the resulting queue, and derives recovery metrics.
func (po *PipelineOrchestrator) RunFromAssessments(
	ctx context.Context,
	assessments []*entities.BuildingAssessment,
	scenarios []entities.ScenarioConfig,
) (*PipelineResult, error) {
	ranking, err := po.priorityService.Rank(assessments)
	if err != nil {
		return nil, fmt.Errorf("failed to rank assessments: %w", err)
	}

	queue := make([]*entities.BuildingRecord, len(ranking.Buildings))
	for i := range ranking.Buildings {
		queue[i] = &ranking.Buildings[i]
	}

	result, err := po.runQueue(ctx, queue, scenarios)
	if err != nil {
		return nil, err
	}
	result.Ranking = ranking

	return result, nil
}

// RunFromQueue simulates every scenario over an already ranked queue and
// derives recovery metrics.
func (po *PipelineOrchestrator) RunFromQueue(
	ctx context.Context,
	buildings []*entities.BuildingRecord,
	scenarios []entities.ScenarioConfig,
) (*PipelineResult, error) {
	return po.runQueue(ctx, buildings, scenarios)
}

func (po *PipelineOrchestrator) runQueue(
	ctx context.Context,
	buildings []*entities.BuildingRecord,
	scenarios []entities.ScenarioConfig,
) (*PipelineResult, error) {
	report, err := po.runner.RunAll(ctx, scenarios, buildings)
	if err != nil {
		return nil, fmt.Errorf("failed to simulate scenarios: %w", err)
	}

	return &PipelineResult{
		Report:  report,
		Metrics: po.metricsService.SummariseAll(report),
	}, nil
}

// GetSummary returns a formatted summary of the pipeline results
func (result *PipelineResult) GetSummary() string {
	summary := fmt.Sprintf("Pipeline Summary (run %s):\n", result.Report.RunID)
	if result.Ranking != nil {
		summary += fmt.Sprintf("  Ranked: %d buildings\n", len(result.Ranking.Ranked))
	}
	summary += fmt.Sprintf("  Scenarios: %d completed, %d failed\n",
		len(result.Report.Results), len(result.Report.Failures))
	for _, m := range result.Metrics {
		summary += fmt.Sprintf("  %s: mean wait %.2f days, max recovery %.2f days, curve area %.2f\n",
			m.Scenario.Name, m.MeanWait, m.MaxRecovery, m.CurveArea)
	}
	return summary
}
