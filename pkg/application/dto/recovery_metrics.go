package dto

import "github.com/quakeplan/quakeplan/pkg/domain/entities"

// RecoveryMetrics summarises one scenario's recovery trajectory
type RecoveryMetrics struct {
	Scenario     entities.ScenarioConfig `json:"scenario"`
	MeanWait     float64                 `json:"mean_wait"`
	MaxWait      float64                 `json:"max_wait"`
	MaxRecovery  float64                 `json:"max_recovery"`
	CurveArea    float64                 `json:"curve_area"`
	FinalBalance float64                 `json:"final_balance"`
}
