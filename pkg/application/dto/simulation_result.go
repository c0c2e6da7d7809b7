package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/quakeplan/quakeplan/pkg/domain/entities"
)

// BuildingAllocation is one building's outcome within a scenario: the input
// record paired with the wait it endured and the time at which its repair
// completed.
type BuildingAllocation struct {
	Building     entities.BuildingRecord `json:"building"`
	WaitTime     float64                 `json:"wait_time"`
	RecoveryTime float64                 `json:"recovery_time"`
}

// ScenarioResult contains the complete allocation outcome of one scenario
type ScenarioResult struct {
	Scenario     entities.ScenarioConfig `json:"scenario"`
	Allocations  []BuildingAllocation    `json:"allocations"`
	FinalBalance float64                 `json:"final_balance"`
	Elapsed      time.Duration           `json:"elapsed"`
}

// ScenarioFailure records a scenario that was rejected before or during its run
type ScenarioFailure struct {
	Scenario entities.ScenarioConfig `json:"scenario"`
	Reason   string                  `json:"reason"`
}

// SimulationReport is the full output of a multi-scenario run. Results keeps
// the configured scenario order regardless of completion order.
type SimulationReport struct {
	RunID       uuid.UUID         `json:"run_id"`
	GeneratedAt time.Time         `json:"generated_at"`
	Buildings   int               `json:"buildings"`
	Results     []ScenarioResult  `json:"results"`
	Failures    []ScenarioFailure `json:"failures,omitempty"`
}
