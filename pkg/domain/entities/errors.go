package entities

import "fmt"

// ConfigurationError indicates an invalid scenario configuration that would
// make a simulation run undefined, such as a non-positive mobilisation factor.
// It is raised before any building is processed.
type ConfigurationError struct {
	Scenario string
	Reason   string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("scenario %q: %s", e.Scenario, e.Reason)
}

// NewConfigurationError creates a ConfigurationError for the named scenario.
func NewConfigurationError(scenario, reason string) *ConfigurationError {
	return &ConfigurationError{Scenario: scenario, Reason: reason}
}

// ValidationError indicates a malformed building record, attributable to the
// record that carries it. It is raised before the record allocates resources,
// so state computed for earlier buildings is never corrupted.
type ValidationError struct {
	BuildingID BuildingID
	Field      string
	Reason     string
}

func (e *ValidationError) Error() string {
	if e.BuildingID == "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("building %s: %s: %s", e.BuildingID, e.Field, e.Reason)
}

// NewValidationError creates a ValidationError for the given building and field.
func NewValidationError(id BuildingID, field, reason string) *ValidationError {
	return &ValidationError{BuildingID: id, Field: field, Reason: reason}
}
