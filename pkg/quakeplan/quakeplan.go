// Package quakeplan exposes the repair planning pipeline as a library. It
// re-exports the domain types and wraps the three pipeline stages behind a
// single Planner so embedding programs need one import instead of wiring the
// layered packages themselves.
package quakeplan

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/quakeplan/quakeplan/pkg/application/dto"
	"github.com/quakeplan/quakeplan/pkg/application/services/metrics"
	"github.com/quakeplan/quakeplan/pkg/application/services/orchestration"
	"github.com/quakeplan/quakeplan/pkg/application/services/priority"
	"github.com/quakeplan/quakeplan/pkg/application/services/simulation"
	"github.com/quakeplan/quakeplan/pkg/domain/entities"
	"github.com/quakeplan/quakeplan/pkg/domain/services"
	"github.com/quakeplan/quakeplan/pkg/infrastructure/events"
)

// Domain types
type (
	BuildingID         = entities.BuildingID
	BuildingRecord     = entities.BuildingRecord
	BuildingAssessment = entities.BuildingAssessment
	CapStatus          = entities.CapStatus
	ScenarioConfig     = entities.ScenarioConfig
)

// Pipeline results
type (
	RankingResult      = dto.RankingResult
	RankedBuilding     = dto.RankedBuilding
	SimulationReport   = dto.SimulationReport
	ScenarioResult     = dto.ScenarioResult
	BuildingAllocation = dto.BuildingAllocation
	RecoveryMetrics    = dto.RecoveryMetrics
	PipelineResult     = orchestration.PipelineResult
	Weights            = priority.Weights
)

const (
	Undercap = entities.Undercap
	Overcap  = entities.Overcap
)

// NewBuildingRecord creates a validated queue entry
func NewBuildingRecord(id BuildingID, requiredResources, repairDuration float64, rank int) (*BuildingRecord, error) {
	return entities.NewBuildingRecord(id, requiredResources, repairDuration, rank)
}

// NewBuildingAssessment creates a validated raw assessment
func NewBuildingAssessment(
	id BuildingID,
	capStatus CapStatus,
	totalBuildingPaid, repairCost decimal.Decimal,
	importanceLevel int,
	policyPreference, requiredResources, repairDuration float64,
) (*BuildingAssessment, error) {
	return entities.NewBuildingAssessment(id, capStatus, totalBuildingPaid, repairCost,
		importanceLevel, policyPreference, requiredResources, repairDuration)
}

// NewScenarioConfig creates a validated scenario
func NewScenarioConfig(name string, mobilisationFactor float64) (*ScenarioConfig, error) {
	return entities.NewScenarioConfig(name, mobilisationFactor)
}

// DefaultScenarios returns the standard baseline, optimistic and pessimistic
// mobilisation scenarios.
func DefaultScenarios() []ScenarioConfig {
	return entities.DefaultScenarios()
}

// DefaultWeights returns the standard prioritisation weights
func DefaultWeights() Weights {
	return priority.DefaultWeights()
}

// PlannerOptions configures a Planner. Zero values fall back to the standard
// pool parameters, weights and recovery horizon.
type PlannerOptions struct {
	BaseCapacity  float64
	RetentionRate float64
	Weights       Weights
	Horizon       float64

	// Logger receives per-scenario progress; nil disables logging.
	Logger *zap.Logger

	// EventStore records the allocation audit trail; nil disables it.
	EventStore events.EventStore
}

// Planner runs the planning pipeline: rank assessments into a repair queue,
// simulate every scenario over it, and derive recovery metrics.
type Planner struct {
	orchestrator *orchestration.PipelineOrchestrator
}

// NewPlanner builds a Planner from the given options
func NewPlanner(opts PlannerOptions) (*Planner, error) {
	if opts.BaseCapacity == 0 {
		opts.BaseCapacity = services.DefaultBaseCapacity
	}
	if opts.RetentionRate == 0 {
		opts.RetentionRate = services.DefaultRetentionRate
	}
	if opts.Weights == (Weights{}) {
		opts.Weights = priority.DefaultWeights()
	}
	if opts.Horizon == 0 {
		opts.Horizon = metrics.DefaultHorizon
	}

	model, err := services.NewMobilisationModel(opts.BaseCapacity, opts.RetentionRate)
	if err != nil {
		return nil, fmt.Errorf("invalid pool parameters: %w", err)
	}

	simulator, err := simulation.NewQueueSimulator(model)
	if err != nil {
		return nil, err
	}

	runner, err := simulation.NewScenarioRunner(simulator, opts.Logger, opts.EventStore)
	if err != nil {
		return nil, err
	}

	priorityService, err := priority.NewService(opts.Weights)
	if err != nil {
		return nil, fmt.Errorf("invalid weights: %w", err)
	}

	metricsService, err := metrics.NewRecoveryService(opts.Horizon)
	if err != nil {
		return nil, fmt.Errorf("invalid horizon: %w", err)
	}

	return &Planner{
		orchestrator: orchestration.NewPipelineOrchestrator(priorityService, runner, metricsService),
	}, nil
}

// RankAndSimulate ranks raw assessments into a queue, then simulates every
// scenario over it. The result's Ranking field carries the queue order.
func (p *Planner) RankAndSimulate(
	ctx context.Context,
	assessments []*BuildingAssessment,
	scenarios []ScenarioConfig,
) (*PipelineResult, error) {
	return p.orchestrator.RunFromAssessments(ctx, assessments, scenarios)
}

// Simulate runs every scenario over an already ranked queue
func (p *Planner) Simulate(
	ctx context.Context,
	queue []*BuildingRecord,
	scenarios []ScenarioConfig,
) (*PipelineResult, error) {
	return p.orchestrator.RunFromQueue(ctx, queue, scenarios)
}
