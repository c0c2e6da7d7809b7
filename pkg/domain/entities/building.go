package entities

import "fmt"

// BuildingID represents a unique building identifier
type BuildingID string

// BuildingRecord represents one damaged building in the repair queue. Records
// are immutable during simulation; the simulator only reads them.
type BuildingRecord struct {
	ID                BuildingID `json:"id"`
	RequiredResources float64    `json:"required_resources"` // resource units needed before repair can start
	RepairDuration    float64    `json:"repair_duration"`    // days of repair work once started
	Rank              int        `json:"rank"`               // 1-based priority order, processed ascending
}

// NewBuildingRecord creates a validated BuildingRecord
func NewBuildingRecord(id BuildingID, requiredResources, repairDuration float64, rank int) (*BuildingRecord, error) {
	if string(id) == "" {
		return nil, NewValidationError(id, "id", "building id cannot be empty")
	}
	if requiredResources <= 0 {
		return nil, NewValidationError(id, "required_resources",
			fmt.Sprintf("must be positive, got %g", requiredResources))
	}
	if repairDuration <= 0 {
		return nil, NewValidationError(id, "repair_duration",
			fmt.Sprintf("must be positive, got %g", repairDuration))
	}
	if rank < 1 {
		return nil, NewValidationError(id, "rank",
			fmt.Sprintf("must be 1 or greater, got %d", rank))
	}

	return &BuildingRecord{
		ID:                id,
		RequiredResources: requiredResources,
		RepairDuration:    repairDuration,
		Rank:              rank,
	}, nil
}
