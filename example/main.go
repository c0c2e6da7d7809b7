package main

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/quakeplan/quakeplan/pkg/quakeplan"
)

func main() {
	ctx := context.Background()

	assessments := buildPortfolio()
	scenarios := quakeplan.DefaultScenarios()

	planner, err := quakeplan.NewPlanner(quakeplan.PlannerOptions{})
	if err != nil {
		fmt.Printf("❌ Planner setup failed: %v\n", err)
		return
	}

	fmt.Println("🚀 Planning repairs for the eastern suburbs portfolio...")
	fmt.Printf("Buildings: %d | Scenarios: %d\n", len(assessments), len(scenarios))
	fmt.Println()

	result, err := planner.RankAndSimulate(ctx, assessments, scenarios)
	if err != nil {
		fmt.Printf("❌ Planning failed: %v\n", err)
		return
	}

	fmt.Println("🏅 Repair queue:")
	for _, rb := range result.Ranking.Ranked {
		fmt.Printf("  #%d %s (PRI %.4f, %s)\n",
			rb.Rank, rb.Assessment.ID, rb.PRI, rb.Assessment.CapStatus)
	}
	fmt.Println()

	for _, res := range result.Report.Results {
		fmt.Printf("📊 Scenario %s (factor %.2f):\n",
			res.Scenario.Name, res.Scenario.MobilisationFactor)
		for _, a := range res.Allocations {
			fmt.Printf("  %s: waits %.1f days, recovered day %.1f\n",
				a.Building.ID, a.WaitTime, a.RecoveryTime)
		}
		fmt.Printf("  Final pool balance: %.2f\n", res.FinalBalance)
		fmt.Println()
	}

	fmt.Println("📈 Recovery metrics:")
	for _, m := range result.Metrics {
		fmt.Printf("  %s: mean wait %.1f days, full recovery day %.1f, curve area %.0f\n",
			m.Scenario.Name, m.MeanWait, m.MaxRecovery, m.CurveArea)
	}
}

// buildPortfolio assembles a small mixed portfolio: two overcap claims, a
// couple of lightly damaged houses and a school block.
func buildPortfolio() []*quakeplan.BuildingAssessment {
	specs := []struct {
		id         string
		capStatus  quakeplan.CapStatus
		paid       int64
		repairCost int64
		importance int
		policy     float64
		resources  float64
		duration   float64
	}{
		{"AVONSIDE_CHURCH", quakeplan.Overcap, 148000, 310000, 3, 0.85, 14, 60},
		{"NEW_BRIGHTON_LIBRARY", quakeplan.Overcap, 121000, 180000, 4, 0.9, 10, 45},
		{"DALLINGTON_VILLA", quakeplan.Undercap, 64000, 58000, 1, 0.3, 6, 30},
		{"BEXLEY_BUNGALOW", quakeplan.Undercap, 23000, 21000, 1, 0.2, 4, 18},
		{"ARANUI_SCHOOL_BLOCK", quakeplan.Undercap, 87000, 95000, 4, 0.95, 12, 40},
	}

	portfolio := make([]*quakeplan.BuildingAssessment, 0, len(specs))
	for _, s := range specs {
		a, err := quakeplan.NewBuildingAssessment(
			quakeplan.BuildingID(s.id), s.capStatus,
			decimal.NewFromInt(s.paid), decimal.NewFromInt(s.repairCost),
			s.importance, s.policy, s.resources, s.duration,
		)
		if err != nil {
			panic(err)
		}
		portfolio = append(portfolio, a)
	}

	return portfolio
}
