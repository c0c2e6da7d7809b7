package simulation

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/quakeplan/quakeplan/pkg/application/dto"
	"github.com/quakeplan/quakeplan/pkg/domain/entities"
	"github.com/quakeplan/quakeplan/pkg/infrastructure/events"
)

// ScenarioRunner executes a set of mobilisation scenarios against the same
// ranked queue. Scenarios are independent: each one simulates on its own pool
// and carried state, and one scenario's failure never aborts its siblings.
type ScenarioRunner struct {
	simulator *QueueSimulator
	logger    *zap.Logger
	store     events.EventStore
}

// NewScenarioRunner creates a runner. The event store may be nil when no
// audit trail is wanted; a nil logger falls back to a no-op logger.
func NewScenarioRunner(simulator *QueueSimulator, logger *zap.Logger, store events.EventStore) (*ScenarioRunner, error) {
	if simulator == nil {
		return nil, fmt.Errorf("simulator cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &ScenarioRunner{
		simulator: simulator,
		logger:    logger,
		store:     store,
	}, nil
}

// RunAll simulates every scenario concurrently and assembles the report.
// Results and Failures keep the configured scenario order regardless of
// completion order. The context is honoured between scenario launches; a
// scenario already running is allowed to finish.
func (r *ScenarioRunner) RunAll(ctx context.Context, scenarios []entities.ScenarioConfig, buildings []*entities.BuildingRecord) (*dto.SimulationReport, error) {
	if len(scenarios) == 0 {
		return nil, fmt.Errorf("at least one scenario is required")
	}

	report := &dto.SimulationReport{
		RunID:       uuid.New(),
		GeneratedAt: time.Now().UTC(),
		Buildings:   len(buildings),
		Results:     make([]dto.ScenarioResult, 0, len(scenarios)),
	}

	r.logger.Info("starting simulation run",
		zap.String("run_id", report.RunID.String()),
		zap.Int("scenarios", len(scenarios)),
		zap.Int("buildings", len(buildings)))

	type slot struct {
		result *dto.ScenarioResult
		err    error
	}
	slots := make([]slot, len(scenarios))

	var wg sync.WaitGroup
	for i, sc := range scenarios {
		if err := ctx.Err(); err != nil {
			wg.Wait()
			return nil, fmt.Errorf("simulation run cancelled: %w", err)
		}

		r.emit(events.NewScenarioStartedEvent(report.RunID, sc, len(buildings)))

		wg.Add(1)
		go func(i int, sc entities.ScenarioConfig) {
			defer wg.Done()
			res, err := r.simulator.Run(sc, buildings)
			slots[i] = slot{result: res, err: err}
		}(i, sc)
	}
	wg.Wait()

	for i, sc := range scenarios {
		if err := slots[i].err; err != nil {
			r.logger.Warn("scenario failed",
				zap.String("scenario", sc.Name),
				zap.Error(err))
			r.emit(events.NewScenarioFailedEvent(report.RunID, sc, err.Error()))
			report.Failures = append(report.Failures, dto.ScenarioFailure{
				Scenario: sc,
				Reason:   err.Error(),
			})
			continue
		}

		res := slots[i].result
		for _, a := range res.Allocations {
			if a.WaitTime == 0 {
				r.emit(events.NewBuildingAllocatedEvent(report.RunID, sc.Name, a))
			} else {
				r.emit(events.NewBuildingQueuedEvent(report.RunID, sc.Name, a))
			}
		}
		r.emit(events.NewScenarioCompletedEvent(report.RunID, sc, len(res.Allocations), res.FinalBalance))

		r.logger.Info("scenario completed",
			zap.String("scenario", sc.Name),
			zap.Float64("final_balance", res.FinalBalance),
			zap.Duration("elapsed", res.Elapsed))

		report.Results = append(report.Results, *res)
	}

	return report, nil
}

func (r *ScenarioRunner) emit(event events.Event) {
	if r.store == nil {
		return
	}
	if err := r.store.AppendEvent(event.StreamID(), event); err != nil {
		r.logger.Warn("failed to record event",
			zap.String("type", event.Type()),
			zap.Error(err))
	}
}
