package simulation

import (
	"fmt"
	"time"

	"github.com/quakeplan/quakeplan/pkg/application/dto"
	"github.com/quakeplan/quakeplan/pkg/domain/entities"
	"github.com/quakeplan/quakeplan/pkg/domain/services"
)

// CarriedState threads the previous building's outcome through the queue. It
// is zero-valued at the start of a run: the first building sees no
// predecessor, so an insufficient opening balance compares the clock against
// a completion time of zero.
type CarriedState struct {
	PrevRequired   float64
	PrevWait       float64
	PrevCompletion float64
}

// QueueSimulator walks a ranked building queue against a mobilising resource
// pool, assigning each building its wait and recovery times. A simulator is
// stateless across runs and safe for concurrent use.
type QueueSimulator struct {
	model *services.MobilisationModel
}

// NewQueueSimulator creates a simulator backed by the given mobilisation model
func NewQueueSimulator(model *services.MobilisationModel) (*QueueSimulator, error) {
	if model == nil {
		return nil, fmt.Errorf("mobilisation model cannot be nil")
	}

	return &QueueSimulator{model: model}, nil
}

// Run simulates one scenario over the ranked queue. Buildings are processed
// strictly in rank order; a validation failure on any record aborts the run
// before that record is allocated.
func (s *QueueSimulator) Run(scenario entities.ScenarioConfig, buildings []*entities.BuildingRecord) (*dto.ScenarioResult, error) {
	started := time.Now()

	if scenario.MobilisationFactor <= 0 {
		return nil, entities.NewConfigurationError(scenario.Name,
			fmt.Sprintf("mobilisation factor must be positive, got %g", scenario.MobilisationFactor))
	}

	pool := NewResourcePool(s.model.SeedBalance(scenario.MobilisationFactor))
	carried := &CarriedState{}

	result := &dto.ScenarioResult{
		Scenario:    scenario,
		Allocations: make([]dto.BuildingAllocation, 0, len(buildings)),
	}

	prevRank := 0
	for _, b := range buildings {
		if err := validateRecord(b, prevRank); err != nil {
			return nil, err
		}
		prevRank = b.Rank

		wait, completion := s.step(pool, carried, b, scenario.MobilisationFactor)
		result.Allocations = append(result.Allocations, dto.BuildingAllocation{
			Building:     *b,
			WaitTime:     wait,
			RecoveryTime: completion,
		})
	}

	result.FinalBalance = pool.Balance()
	result.Elapsed = time.Since(started)

	return result, nil
}

// step advances the recurrence for one building and returns its wait and
// completion times. The pool and carried state are updated in place.
func (s *QueueSimulator) step(pool *ResourcePool, carried *CarriedState, b *entities.BuildingRecord, factor float64) (wait, completion float64) {
	required := b.RequiredResources

	switch {
	case pool.CanCover(required):
		// Fully funded: repairs start immediately and the clock does not move.
		wait = 0
		pool.Draw(required)

	case pool.Clock() > carried.PrevCompletion:
		// The previous building has already finished, so its claim returns to
		// the pool before this building's shortfall is measured.
		pool.Release(carried.PrevRequired)
		if pool.CanCover(required) {
			wait = carried.PrevWait
			pool.Draw(required)
			pool.AdvanceClock(wait)
		} else {
			wait = s.model.ShortfallWait(required-pool.Balance(), factor) + carried.PrevWait
			pool.Draw(required)
			pool.ResetClock(wait)
		}

	default:
		// Still inside the previous building's repair window: nothing to
		// reclaim, so inflow must cover the whole shortfall.
		wait = s.model.ShortfallWait(required-pool.Balance(), factor) + carried.PrevWait
		pool.Draw(required)
		pool.ResetClock(wait)
	}

	completion = wait + b.RepairDuration

	carried.PrevRequired = required
	carried.PrevWait = wait
	carried.PrevCompletion = completion

	return wait, completion
}

// validateRecord rejects records the recurrence cannot process. Ranks must be
// strictly increasing across the queue, which also rules out duplicates.
func validateRecord(b *entities.BuildingRecord, prevRank int) error {
	if b.ID == "" {
		return entities.NewValidationError(b.ID, "id", "building id cannot be empty")
	}
	if b.RequiredResources <= 0 {
		return entities.NewValidationError(b.ID, "required_resources",
			fmt.Sprintf("must be positive, got %g", b.RequiredResources))
	}
	if b.RepairDuration <= 0 {
		return entities.NewValidationError(b.ID, "repair_duration",
			fmt.Sprintf("must be positive, got %g", b.RepairDuration))
	}
	if b.Rank <= prevRank {
		return entities.NewValidationError(b.ID, "rank",
			fmt.Sprintf("rank %d must be strictly greater than preceding rank %d", b.Rank, prevRank))
	}

	return nil
}
