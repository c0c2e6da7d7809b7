package dto

import "github.com/quakeplan/quakeplan/pkg/domain/entities"

// RankedBuilding is one assessment annotated with its normalised score
// components and assigned priority rank.
type RankedBuilding struct {
	Assessment     entities.BuildingAssessment `json:"assessment"`
	DamageRatio    float64                     `json:"damage_ratio"`
	RepairCostNorm float64                     `json:"repair_cost_norm"`
	PolicyNorm     float64                     `json:"policy_norm"`
	PRI            float64                     `json:"pri"`
	Rank           int                         `json:"rank"`
}

// RankingResult pairs the scored assessments with the simulation-ready queue
// they produce. Both slices are ordered by rank.
type RankingResult struct {
	Ranked    []RankedBuilding          `json:"ranked"`
	Buildings []entities.BuildingRecord `json:"buildings"`
}
