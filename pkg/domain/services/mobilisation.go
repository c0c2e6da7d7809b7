package services

import "fmt"

// Inflow coefficients fitted to New Zealand post-earthquake immigration data.
// The same rate drives the catch-up divisor in the insufficient-resources path.
const (
	inflowRate      = 0.8194
	inflowIntercept = 2.1569
	shortfallOffset = 2.5169
)

// Default pool parameters. Retention models attrition of mobilised labor
// (0.7 retained means 0.3 turnover).
const (
	DefaultBaseCapacity  = 40.0
	DefaultRetentionRate = 0.7
)

// MobilisationModel turns elapsed time and a scenario factor into resource
// inflow. The same coefficients seed the per-scenario pool balance and price
// the waiting time needed to close a resource shortfall.
type MobilisationModel struct {
	baseCapacity  float64
	retentionRate float64
}

// NewMobilisationModel creates a validated MobilisationModel
func NewMobilisationModel(baseCapacity, retentionRate float64) (*MobilisationModel, error) {
	if baseCapacity <= 0 {
		return nil, fmt.Errorf("base capacity must be positive, got %g", baseCapacity)
	}
	if retentionRate <= 0 || retentionRate > 1 {
		return nil, fmt.Errorf("retention rate must be in (0, 1], got %g", retentionRate)
	}

	return &MobilisationModel{
		baseCapacity:  baseCapacity,
		retentionRate: retentionRate,
	}, nil
}

// DefaultMobilisationModel returns a model with the standard pool parameters
func DefaultMobilisationModel() *MobilisationModel {
	return &MobilisationModel{
		baseCapacity:  DefaultBaseCapacity,
		retentionRate: DefaultRetentionRate,
	}
}

// Inflow returns the incremental resource inflow at elapsed time t for the
// given scenario factor: (0.8194*t - 2.1569) * factor. Total over all reals;
// negative results represent net outflow.
func (m *MobilisationModel) Inflow(t, factor float64) float64 {
	return (inflowRate*t - inflowIntercept) * factor
}

// SeedBalance computes the initial pool balance for a scenario:
// (baseCapacity + Inflow(0, factor)) * retentionRate. Evaluated exactly once
// per run; every later balance change comes from allocation arithmetic, never
// from re-seeding.
func (m *MobilisationModel) SeedBalance(factor float64) float64 {
	return (m.baseCapacity + m.Inflow(0, factor)) * m.retentionRate
}

// ShortfallWait returns the additional days needed for the pool to close a
// resource shortfall at the scenario's mobilisation rate:
// (shortfall + 2.5169*factor) / (0.8194*factor). The caller must guarantee
// factor > 0; a zero factor is rejected as a configuration error before any
// run starts.
func (m *MobilisationModel) ShortfallWait(shortfall, factor float64) float64 {
	return (shortfall + shortfallOffset*factor) / (inflowRate * factor)
}

// BaseCapacity returns the configured pre-event pool capacity
func (m *MobilisationModel) BaseCapacity() float64 {
	return m.baseCapacity
}

// RetentionRate returns the configured labor retention rate
func (m *MobilisationModel) RetentionRate() float64 {
	return m.retentionRate
}
