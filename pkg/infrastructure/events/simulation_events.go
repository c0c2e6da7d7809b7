package events

import (
	"github.com/google/uuid"

	"github.com/quakeplan/quakeplan/pkg/application/dto"
	"github.com/quakeplan/quakeplan/pkg/domain/entities"
)

const (
	ScenarioStartedEvent   = "scenario.started"
	ScenarioCompletedEvent = "scenario.completed"
	ScenarioFailedEvent    = "scenario.failed"

	BuildingAllocatedEvent = "building.allocated"
	BuildingQueuedEvent    = "building.queued"
)

// ScenarioStarted records the launch of one scenario within a run
type ScenarioStarted struct {
	RunID     uuid.UUID               `json:"run_id"`
	Scenario  entities.ScenarioConfig `json:"scenario"`
	Buildings int                     `json:"buildings"`
}

// ScenarioCompleted records a scenario that simulated its whole queue
type ScenarioCompleted struct {
	RunID        uuid.UUID               `json:"run_id"`
	Scenario     entities.ScenarioConfig `json:"scenario"`
	Buildings    int                     `json:"buildings"`
	FinalBalance float64                 `json:"final_balance"`
}

// ScenarioFailed records a scenario rejected before or during its run
type ScenarioFailed struct {
	RunID    uuid.UUID               `json:"run_id"`
	Scenario entities.ScenarioConfig `json:"scenario"`
	Reason   string                  `json:"reason"`
}

// BuildingAllocated records a building whose repair started without waiting
type BuildingAllocated struct {
	RunID      uuid.UUID              `json:"run_id"`
	Scenario   string                 `json:"scenario"`
	Allocation dto.BuildingAllocation `json:"allocation"`
}

// BuildingQueued records a building that had to wait for resource inflow
type BuildingQueued struct {
	RunID      uuid.UUID              `json:"run_id"`
	Scenario   string                 `json:"scenario"`
	Allocation dto.BuildingAllocation `json:"allocation"`
}

func NewScenarioStartedEvent(runID uuid.UUID, scenario entities.ScenarioConfig, buildings int) Event {
	return NewEvent(ScenarioStartedEvent, scenario.Name, ScenarioStarted{
		RunID:     runID,
		Scenario:  scenario,
		Buildings: buildings,
	})
}

func NewScenarioCompletedEvent(runID uuid.UUID, scenario entities.ScenarioConfig, buildings int, finalBalance float64) Event {
	return NewEvent(ScenarioCompletedEvent, scenario.Name, ScenarioCompleted{
		RunID:        runID,
		Scenario:     scenario,
		Buildings:    buildings,
		FinalBalance: finalBalance,
	})
}

func NewScenarioFailedEvent(runID uuid.UUID, scenario entities.ScenarioConfig, reason string) Event {
	return NewEvent(ScenarioFailedEvent, scenario.Name, ScenarioFailed{
		RunID:    runID,
		Scenario: scenario,
		Reason:   reason,
	})
}

func NewBuildingAllocatedEvent(runID uuid.UUID, scenario string, allocation dto.BuildingAllocation) Event {
	return NewEvent(BuildingAllocatedEvent, scenario, BuildingAllocated{
		RunID:      runID,
		Scenario:   scenario,
		Allocation: allocation,
	})
}

func NewBuildingQueuedEvent(runID uuid.UUID, scenario string, allocation dto.BuildingAllocation) Event {
	return NewEvent(BuildingQueuedEvent, scenario, BuildingQueued{
		RunID:      runID,
		Scenario:   scenario,
		Allocation: allocation,
	})
}
