package entities

import "fmt"

// ScenarioConfig represents a named resource-mobilisation scenario. The factor
// scales how fast new repair labor becomes available: >1 mobilises faster than
// the baseline, <1 slower.
type ScenarioConfig struct {
	Name               string  `json:"name"`
	MobilisationFactor float64 `json:"mobilisation_factor"`
}

// NewScenarioConfig creates a validated ScenarioConfig. A zero factor would
// make the wait-time divisor zero and a negative factor would model resource
// contraction, which this model does not support, so both are rejected.
func NewScenarioConfig(name string, mobilisationFactor float64) (*ScenarioConfig, error) {
	if name == "" {
		return nil, NewConfigurationError(name, "scenario name cannot be empty")
	}
	if mobilisationFactor <= 0 {
		return nil, NewConfigurationError(name,
			fmt.Sprintf("mobilisation factor must be positive, got %g", mobilisationFactor))
	}

	return &ScenarioConfig{
		Name:               name,
		MobilisationFactor: mobilisationFactor,
	}, nil
}

// DefaultScenarios returns the three standard mobilisation scenarios. The
// factors follow observed post-disaster mobilisation spreads; local studies
// should override them via configuration.
func DefaultScenarios() []ScenarioConfig {
	return []ScenarioConfig{
		{Name: "baseline", MobilisationFactor: 1.0},
		{Name: "optimistic", MobilisationFactor: 2.0},
		{Name: "pessimistic", MobilisationFactor: 0.5},
	}
}
