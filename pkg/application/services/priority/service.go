package priority

import (
	"fmt"
	"math"
	"sort"

	"github.com/quakeplan/quakeplan/pkg/application/dto"
	"github.com/quakeplan/quakeplan/pkg/domain/entities"
)

// Weights are the PRI index contributions. The defaults give equal quarter
// weight to damage ratio, repair cost and policy preference; importance level
// is required input but carries no weight, so the default weights sum to 0.75.
type Weights struct {
	DamageRatio float64
	RepairCost  float64
	Policy      float64
}

// DefaultWeights returns the standard quarter weights
func DefaultWeights() Weights {
	return Weights{DamageRatio: 0.25, RepairCost: 0.25, Policy: 0.25}
}

// Service scores building assessments with a priority repair index and turns
// the ordering into a simulation-ready ranked queue.
type Service struct {
	weights Weights
}

// NewService creates a prioritisation service with the given weights
func NewService(weights Weights) (*Service, error) {
	if weights.DamageRatio < 0 || weights.RepairCost < 0 || weights.Policy < 0 {
		return nil, fmt.Errorf("PRI weights cannot be negative")
	}
	if weights.DamageRatio+weights.RepairCost+weights.Policy == 0 {
		return nil, fmt.Errorf("at least one PRI weight must be positive")
	}

	return &Service{weights: weights}, nil
}

// NewDefaultService creates a prioritisation service with the default weights
func NewDefaultService() *Service {
	return &Service{weights: DefaultWeights()}
}

// Rank scores every assessment and returns them ordered by descending PRI,
// ties keeping their input order. Ranks run 1..n; the derived building
// records carry each assessment's resource figures under its new rank.
func (s *Service) Rank(assessments []*entities.BuildingAssessment) (*dto.RankingResult, error) {
	if len(assessments) < 2 {
		return nil, fmt.Errorf("prioritisation needs at least 2 assessments, got %d", len(assessments))
	}
	if err := validateAssessments(assessments); err != nil {
		return nil, err
	}

	damage := damageRatios(assessments)
	repairNorm := normalise(assessments, func(a *entities.BuildingAssessment) float64 {
		return a.RepairCost.InexactFloat64()
	})
	policyNorm := normalise(assessments, func(a *entities.BuildingAssessment) float64 {
		return a.PolicyPreference
	})

	ranked := make([]dto.RankedBuilding, len(assessments))
	for i, a := range assessments {
		ranked[i] = dto.RankedBuilding{
			Assessment:     *a,
			DamageRatio:    damage[i],
			RepairCostNorm: repairNorm[i],
			PolicyNorm:     policyNorm[i],
			PRI: s.weights.DamageRatio*damage[i] +
				s.weights.RepairCost*repairNorm[i] +
				s.weights.Policy*policyNorm[i],
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].PRI > ranked[j].PRI
	})

	buildings := make([]entities.BuildingRecord, len(ranked))
	for i := range ranked {
		ranked[i].Rank = i + 1
		buildings[i] = entities.BuildingRecord{
			ID:                ranked[i].Assessment.ID,
			RequiredResources: ranked[i].Assessment.RequiredResources,
			RepairDuration:    ranked[i].Assessment.RepairDuration,
			Rank:              i + 1,
		}
	}

	return &dto.RankingResult{Ranked: ranked, Buildings: buildings}, nil
}

func validateAssessments(assessments []*entities.BuildingAssessment) error {
	seen := make(map[entities.BuildingID]bool, len(assessments))
	for _, a := range assessments {
		if a.ID == "" {
			return entities.NewValidationError(a.ID, "id", "building id cannot be empty")
		}
		if seen[a.ID] {
			return entities.NewValidationError(a.ID, "id", "duplicate building id")
		}
		seen[a.ID] = true

		if a.TotalBuildingPaid.IsNegative() {
			return entities.NewValidationError(a.ID, "total_building_paid",
				fmt.Sprintf("cannot be negative, got %s", a.TotalBuildingPaid))
		}
		if a.RepairCost.IsNegative() {
			return entities.NewValidationError(a.ID, "repair_cost",
				fmt.Sprintf("cannot be negative, got %s", a.RepairCost))
		}
		if a.RequiredResources <= 0 {
			return entities.NewValidationError(a.ID, "required_resources",
				fmt.Sprintf("must be positive, got %g", a.RequiredResources))
		}
		if a.RepairDuration <= 0 {
			return entities.NewValidationError(a.ID, "repair_duration",
				fmt.Sprintf("must be positive, got %g", a.RepairDuration))
		}
	}

	return nil
}

// damageRatios normalises the paid claim amount within each cap status group
// so capped and uncapped settlements stay comparable.
func damageRatios(assessments []*entities.BuildingAssessment) []float64 {
	type bounds struct {
		min, max float64
	}
	groups := make(map[entities.CapStatus]*bounds)
	values := make([]float64, len(assessments))

	for i, a := range assessments {
		v := a.TotalBuildingPaid.InexactFloat64()
		values[i] = v

		g, ok := groups[a.CapStatus]
		if !ok {
			groups[a.CapStatus] = &bounds{min: v, max: v}
			continue
		}
		g.min = math.Min(g.min, v)
		g.max = math.Max(g.max, v)
	}

	out := make([]float64, len(assessments))
	for i, a := range assessments {
		g := groups[a.CapStatus]
		out[i] = minMaxScale(values[i], g.min, g.max)
	}

	return out
}

// normalise min-max scales a column across the whole assessment set
func normalise(assessments []*entities.BuildingAssessment, value func(*entities.BuildingAssessment) float64) []float64 {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, a := range assessments {
		v := value(a)
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}

	out := make([]float64, len(assessments))
	for i, a := range assessments {
		out[i] = minMaxScale(value(a), lo, hi)
	}

	return out
}

// minMaxScale maps v into [0, 1]. A degenerate range scales to 0 rather than
// NaN, dropping a uniform column out of the index.
func minMaxScale(v, lo, hi float64) float64 {
	if hi == lo {
		return 0
	}
	return (v - lo) / (hi - lo)
}
