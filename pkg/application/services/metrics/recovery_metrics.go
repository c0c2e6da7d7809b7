package metrics

import (
	"fmt"
	"math"
	"sort"

	"github.com/quakeplan/quakeplan/pkg/application/dto"
)

// DefaultHorizon is the upper time bound in days that curve areas are
// measured against. The value is informed by the maximum recovery times
// observed in the Canterbury dataset.
const DefaultHorizon = 5152.0

// RecoveryService derives summary metrics from scenario results. The curve
// area treats the recovery ECDF as a step function, closed at recovery level
// 1 out to the horizon; recoveries beyond the horizon subtract from the area.
type RecoveryService struct {
	horizon float64
}

// NewRecoveryService creates a metrics service with a custom horizon
func NewRecoveryService(horizon float64) (*RecoveryService, error) {
	if horizon <= 0 {
		return nil, fmt.Errorf("horizon must be positive, got %g", horizon)
	}

	return &RecoveryService{horizon: horizon}, nil
}

// NewDefaultRecoveryService creates a metrics service with the default horizon
func NewDefaultRecoveryService() *RecoveryService {
	return &RecoveryService{horizon: DefaultHorizon}
}

// Horizon returns the configured upper time bound in days
func (s *RecoveryService) Horizon() float64 {
	return s.horizon
}

// Summarise computes one scenario's recovery metrics. An empty scenario
// yields zero metrics apart from the final balance.
func (s *RecoveryService) Summarise(result dto.ScenarioResult) dto.RecoveryMetrics {
	m := dto.RecoveryMetrics{
		Scenario:     result.Scenario,
		FinalBalance: result.FinalBalance,
	}
	if len(result.Allocations) == 0 {
		return m
	}

	var waitSum float64
	recoveries := make([]float64, len(result.Allocations))
	for i, a := range result.Allocations {
		waitSum += a.WaitTime
		m.MaxWait = math.Max(m.MaxWait, a.WaitTime)
		m.MaxRecovery = math.Max(m.MaxRecovery, a.RecoveryTime)
		recoveries[i] = a.RecoveryTime
	}

	m.MeanWait = waitSum / float64(len(result.Allocations))
	m.CurveArea = s.CurveArea(recoveries)

	return m
}

// SummariseAll computes metrics for every scenario in report order
func (s *RecoveryService) SummariseAll(report *dto.SimulationReport) []dto.RecoveryMetrics {
	out := make([]dto.RecoveryMetrics, len(report.Results))
	for i, result := range report.Results {
		out[i] = s.Summarise(result)
	}

	return out
}

// CurveArea integrates the recovery step curve from time 0 to the horizon by
// the trapezoid rule, closing the polyline at recovery level 1.
func (s *RecoveryService) CurveArea(recoveryTimes []float64) float64 {
	if len(recoveryTimes) == 0 {
		return 0
	}

	xs, ys := RecoveryCurve(recoveryTimes)

	closedX := make([]float64, 0, len(xs)+4)
	closedY := make([]float64, 0, len(ys)+4)
	closedX = append(closedX, 0)
	closedY = append(closedY, 0)
	closedX = append(closedX, xs...)
	closedY = append(closedY, ys...)
	closedX = append(closedX, s.horizon, s.horizon, 0)
	closedY = append(closedY, 1, 0, 0)

	return trapezoid(closedX, closedY)
}

// RecoveryCurve returns the step polyline of the recovery ECDF. The curve
// starts at (x_1, 0), rises 1/n at each sorted recovery time, and carries
// each level forward to the next time; both slices have length 2n.
func RecoveryCurve(recoveryTimes []float64) (xs, ys []float64) {
	n := len(recoveryTimes)
	if n == 0 {
		return nil, nil
	}

	sorted := make([]float64, n)
	copy(sorted, recoveryTimes)
	sort.Float64s(sorted)

	xs = make([]float64, 0, 2*n)
	ys = make([]float64, 0, 2*n)
	xs = append(xs, sorted[0])
	ys = append(ys, 0)

	for k, x := range sorted {
		if k > 0 {
			xs = append(xs, x)
			ys = append(ys, float64(k)/float64(n))
		}
		xs = append(xs, x)
		ys = append(ys, float64(k+1)/float64(n))
	}

	return xs, ys
}

func trapezoid(xs, ys []float64) float64 {
	var area float64
	for i := 1; i < len(xs); i++ {
		area += (xs[i] - xs[i-1]) * (ys[i] + ys[i-1]) / 2
	}

	return area
}
