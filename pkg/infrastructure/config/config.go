package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/quakeplan/quakeplan/pkg/application/services/metrics"
	"github.com/quakeplan/quakeplan/pkg/application/services/priority"
	"github.com/quakeplan/quakeplan/pkg/domain/entities"
	"github.com/quakeplan/quakeplan/pkg/domain/services"
)

// PoolConfig defines the shared resource pool parameters
type PoolConfig struct {
	BaseCapacity  float64 `yaml:"baseCapacity" validate:"gt=0"`
	RetentionRate float64 `yaml:"retentionRate" validate:"gt=0,lte=1"`
}

// ScenarioEntry defines one named mobilisation scenario
type ScenarioEntry struct {
	Name               string  `yaml:"name" validate:"required"`
	MobilisationFactor float64 `yaml:"mobilisationFactor" validate:"gt=0"`
}

// PriorityConfig defines the weights of the prioritisation index components
type PriorityConfig struct {
	DamageWeight     float64 `yaml:"damageWeight" validate:"gte=0,lte=1"`
	RepairCostWeight float64 `yaml:"repairCostWeight" validate:"gte=0,lte=1"`
	PolicyWeight     float64 `yaml:"policyWeight" validate:"gte=0,lte=1"`
}

// ChartsConfig defines chart rendering parameters
type ChartsConfig struct {
	RecoveryHorizon float64 `yaml:"recoveryHorizon" validate:"gt=0"`
}

// Config represents the application configuration
type Config struct {
	Pool      PoolConfig      `yaml:"pool"`
	Scenarios []ScenarioEntry `yaml:"scenarios" validate:"min=1,dive"`
	Priority  PriorityConfig  `yaml:"priority"`
	Charts    ChartsConfig    `yaml:"charts"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Default returns the configuration used when no config file exists: the
// standard pool parameters, the three standard scenarios, equal index
// weights and the standard recovery horizon.
func Default() *Config {
	weights := priority.DefaultWeights()

	scenarios := make([]ScenarioEntry, 0, 3)
	for _, scenario := range entities.DefaultScenarios() {
		scenarios = append(scenarios, ScenarioEntry{
			Name:               scenario.Name,
			MobilisationFactor: scenario.MobilisationFactor,
		})
	}

	return &Config{
		Pool: PoolConfig{
			BaseCapacity:  services.DefaultBaseCapacity,
			RetentionRate: services.DefaultRetentionRate,
		},
		Scenarios: scenarios,
		Priority: PriorityConfig{
			DamageWeight:     weights.DamageRatio,
			RepairCostWeight: weights.RepairCost,
			PolicyWeight:     weights.Policy,
		},
		Charts: ChartsConfig{
			RecoveryHorizon: metrics.DefaultHorizon,
		},
	}
}

// Load loads and validates the configuration from quakeplan.yaml.
// It looks for the config file in the current directory first, then in the
// user's home directory; when neither has one it returns Default().
func Load() (*Config, error) {
	configPath, err := findConfigFile()
	if err != nil {
		return Default(), nil
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path.
// The file is parsed on top of Default(), so sections and fields it omits
// keep their default values.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate validates the configuration struct and checks scenario and weight
// constraints yaml tags cannot express
func Validate(cfg *Config) error {
	// Run struct validation
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	// Scenario names key result rows and event streams, so they must be unique
	seen := make(map[string]struct{}, len(cfg.Scenarios))
	for i, scenario := range cfg.Scenarios {
		if _, ok := seen[scenario.Name]; ok {
			return fmt.Errorf("duplicate scenario name %q in scenarios[%d]", scenario.Name, i)
		}
		seen[scenario.Name] = struct{}{}
	}

	if cfg.Priority.DamageWeight+cfg.Priority.RepairCostWeight+cfg.Priority.PolicyWeight <= 0 {
		return fmt.Errorf("config validation failed: priority weights cannot all be zero")
	}

	return nil
}

// MobilisationModel builds the domain mobilisation model from the pool section
func (c *Config) MobilisationModel() (*services.MobilisationModel, error) {
	return services.NewMobilisationModel(c.Pool.BaseCapacity, c.Pool.RetentionRate)
}

// ScenarioConfigs converts the scenario entries into domain scenario configs.
// A non-positive factor surfaces here as a ConfigurationError, before any
// simulation starts.
func (c *Config) ScenarioConfigs() ([]entities.ScenarioConfig, error) {
	scenarios := make([]entities.ScenarioConfig, 0, len(c.Scenarios))
	for _, entry := range c.Scenarios {
		scenario, err := entities.NewScenarioConfig(entry.Name, entry.MobilisationFactor)
		if err != nil {
			return nil, err
		}
		scenarios = append(scenarios, *scenario)
	}

	return scenarios, nil
}

// PriorityWeights converts the priority section into index weights
func (c *Config) PriorityWeights() priority.Weights {
	return priority.Weights{
		DamageRatio: c.Priority.DamageWeight,
		RepairCost:  c.Priority.RepairCostWeight,
		Policy:      c.Priority.PolicyWeight,
	}
}

// findConfigFile searches for quakeplan.yaml in current directory and home directory
func findConfigFile() (string, error) {
	configFileName := "quakeplan.yaml"

	// Check current directory
	if _, err := os.Stat(configFileName); err == nil {
		return configFileName, nil
	}

	// Check home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homeConfigPath := filepath.Join(homeDir, configFileName)
	if _, err := os.Stat(homeConfigPath); err == nil {
		return homeConfigPath, nil
	}

	return "", fmt.Errorf("config file not found in current directory or home directory")
}
