package services

import (
	"fmt"

	"github.com/quakeplan/quakeplan/pkg/domain/entities"
)

// QueueValidator provides validation for ranked building queues before a
// simulation run. The simulator re-checks each record as it allocates; this
// validator exists so malformed input fails fast with every violation listed.
type QueueValidator struct{}

// NewQueueValidator creates a new queue validator
func NewQueueValidator() *QueueValidator {
	return &QueueValidator{}
}

// QueueValidationResult contains the results of queue validation
type QueueValidationResult struct {
	DuplicateIDs   []entities.BuildingID
	DuplicateRanks []int
	Errors         []string
}

// Valid reports whether the queue passed all checks
func (r *QueueValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// ValidateQueue checks a ranked building list for duplicate ids, duplicate or
// out-of-order ranks, and non-positive resource or duration values.
func (v *QueueValidator) ValidateQueue(buildings []*entities.BuildingRecord) *QueueValidationResult {
	result := &QueueValidationResult{
		DuplicateIDs:   make([]entities.BuildingID, 0),
		DuplicateRanks: make([]int, 0),
		Errors:         make([]string, 0),
	}

	seenIDs := make(map[entities.BuildingID]bool, len(buildings))
	seenRanks := make(map[int]bool, len(buildings))
	prevRank := 0

	for _, b := range buildings {
		if b.ID == "" {
			result.Errors = append(result.Errors, "building with empty id")
		}
		if b.RequiredResources <= 0 {
			result.Errors = append(result.Errors,
				fmt.Sprintf("building %s: required resources must be positive, got %g", b.ID, b.RequiredResources))
		}
		if b.RepairDuration <= 0 {
			result.Errors = append(result.Errors,
				fmt.Sprintf("building %s: repair duration must be positive, got %g", b.ID, b.RepairDuration))
		}

		if seenIDs[b.ID] {
			result.DuplicateIDs = append(result.DuplicateIDs, b.ID)
			result.Errors = append(result.Errors,
				fmt.Sprintf("duplicate building id %s", b.ID))
		}
		seenIDs[b.ID] = true

		switch {
		case b.Rank < 1:
			result.Errors = append(result.Errors,
				fmt.Sprintf("building %s: rank must be 1 or greater, got %d", b.ID, b.Rank))
		case seenRanks[b.Rank]:
			result.DuplicateRanks = append(result.DuplicateRanks, b.Rank)
			result.Errors = append(result.Errors,
				fmt.Sprintf("building %s: duplicate rank %d", b.ID, b.Rank))
		case b.Rank < prevRank:
			result.Errors = append(result.Errors,
				fmt.Sprintf("building %s: rank %d out of order after rank %d", b.ID, b.Rank, prevRank))
		}
		seenRanks[b.Rank] = true

		if b.Rank > prevRank {
			prevRank = b.Rank
		}
	}

	return result
}
