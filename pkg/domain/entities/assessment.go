package entities

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// CapStatus represents whether an insurance claim settled under or over the
// policy cap. Damage ratios are normalised within each status group so that
// capped and uncapped payouts stay comparable.
type CapStatus int

const (
	Undercap CapStatus = iota
	Overcap
)

// String method for CapStatus enum
func (c CapStatus) String() string {
	switch c {
	case Undercap:
		return "Undercap"
	case Overcap:
		return "Overcap"
	default:
		return "Unknown"
	}
}

// MarshalJSON renders the status as its text form rather than the raw int
func (c CapStatus) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", c.String())), nil
}

// UnmarshalJSON parses the text form produced by MarshalJSON
func (c *CapStatus) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	status, err := ParseCapStatus(s)
	if err != nil {
		return err
	}
	*c = status

	return nil
}

// ParseCapStatus parses a cap status from its text form
func ParseCapStatus(s string) (CapStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "undercap":
		return Undercap, nil
	case "overcap":
		return Overcap, nil
	default:
		return Undercap, fmt.Errorf("invalid cap_status: %s (expected: Undercap or Overcap)", s)
	}
}

// BuildingAssessment represents the raw post-event survey data for one
// building, before prioritisation. Monetary fields carry currency amounts and
// use decimals; the simulation inputs (resources, duration) are plain reals.
type BuildingAssessment struct {
	ID                BuildingID      `json:"id"`
	CapStatus         CapStatus       `json:"cap_status"`
	TotalBuildingPaid decimal.Decimal `json:"total_building_paid"` // claim paid incl. GST
	RepairCost        decimal.Decimal `json:"repair_cost"`
	ImportanceLevel   int             `json:"importance_level"`
	PolicyPreference  float64         `json:"policy_preference"`
	RequiredResources float64         `json:"required_resources"`
	RepairDuration    float64         `json:"repair_duration"`
}

// NewBuildingAssessment creates a validated BuildingAssessment
func NewBuildingAssessment(
	id BuildingID,
	capStatus CapStatus,
	totalBuildingPaid, repairCost decimal.Decimal,
	importanceLevel int,
	policyPreference, requiredResources, repairDuration float64,
) (*BuildingAssessment, error) {
	if string(id) == "" {
		return nil, NewValidationError(id, "id", "building id cannot be empty")
	}
	if totalBuildingPaid.IsNegative() {
		return nil, NewValidationError(id, "total_building_paid",
			fmt.Sprintf("cannot be negative, got %s", totalBuildingPaid))
	}
	if repairCost.IsNegative() {
		return nil, NewValidationError(id, "repair_cost",
			fmt.Sprintf("cannot be negative, got %s", repairCost))
	}
	if requiredResources <= 0 {
		return nil, NewValidationError(id, "required_resources",
			fmt.Sprintf("must be positive, got %g", requiredResources))
	}
	if repairDuration <= 0 {
		return nil, NewValidationError(id, "repair_duration",
			fmt.Sprintf("must be positive, got %g", repairDuration))
	}

	return &BuildingAssessment{
		ID:                id,
		CapStatus:         capStatus,
		TotalBuildingPaid: totalBuildingPaid,
		RepairCost:        repairCost,
		ImportanceLevel:   importanceLevel,
		PolicyPreference:  policyPreference,
		RequiredResources: requiredResources,
		RepairDuration:    repairDuration,
	}, nil
}
