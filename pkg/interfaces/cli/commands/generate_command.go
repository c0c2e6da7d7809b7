package commands

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/quakeplan/quakeplan/pkg/domain/entities"
	"github.com/quakeplan/quakeplan/pkg/infrastructure/config"
)

// buildingCap is the policy cap a claim settles against. Overcap buildings
// have payouts at or beyond this amount.
const buildingCap = 100000.0

// GenerateConfig holds configuration for portfolio generation
type GenerateConfig struct {
	Buildings    int     // Number of buildings to generate
	OvercapShare float64 // Fraction of claims that settled at the policy cap
	OutputDir    string  // Output directory for generated files
	Seed         int64   // Random seed for reproducible generation
	Verbose      bool    // Verbose output
}

// GenerateCommand produces a synthetic assessment portfolio that the rank and
// simulate commands can consume.
type GenerateCommand struct {
	config GenerateConfig
	rand   *rand.Rand
	seed   int64
}

// NewGenerateCommand creates a new generate command
func NewGenerateCommand(cfg GenerateConfig) *GenerateCommand {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &GenerateCommand{
		config: cfg,
		rand:   rand.New(rand.NewSource(seed)),
		seed:   seed,
	}
}

// Execute runs the generate command
func (cmd *GenerateCommand) Execute(ctx context.Context) error {
	if err := cmd.validateInputs(); err != nil {
		return err
	}

	if cmd.config.Verbose {
		fmt.Printf("🔧 Generating portfolio with %d buildings (%.0f%% overcap)\n",
			cmd.config.Buildings, cmd.config.OvercapShare*100)
		fmt.Printf("📁 Output directory: %s\n", cmd.config.OutputDir)
		fmt.Printf("🎲 Random seed: %d\n", cmd.seed)
	}

	if err := os.MkdirAll(cmd.config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if cmd.config.Verbose {
		fmt.Println("🏗️ Generating assessments.csv...")
	}
	if err := cmd.generateAssessments(); err != nil {
		return fmt.Errorf("failed to generate assessments: %w", err)
	}

	if cmd.config.Verbose {
		fmt.Println("⚙️ Writing quakeplan.yaml...")
	}
	if err := cmd.generateConfigFile(); err != nil {
		return fmt.Errorf("failed to generate config file: %w", err)
	}

	if cmd.config.Verbose {
		fmt.Printf("✅ Portfolio generated successfully in %s\n", cmd.config.OutputDir)
	}

	return nil
}

func (cmd *GenerateCommand) validateInputs() error {
	if cmd.config.Buildings <= 0 {
		return fmt.Errorf("number of buildings must be positive, got %d", cmd.config.Buildings)
	}
	if cmd.config.OvercapShare < 0 || cmd.config.OvercapShare > 1 {
		return fmt.Errorf("overcap share must be between 0 and 1, got %g", cmd.config.OvercapShare)
	}
	if cmd.config.OutputDir == "" {
		return fmt.Errorf("must specify an output directory")
	}
	return nil
}

// generateAssessments creates the assessments.csv file
func (cmd *GenerateCommand) generateAssessments() error {
	filePath := filepath.Join(cmd.config.OutputDir, "assessments.csv")
	file, err := os.Create(filePath)
	if err != nil {
		return err
	}
	defer file.Close()

	fmt.Fprintln(
		file,
		"building_id,cap_status,total_building_paid,repair_cost,importance_level,policy_preference,required_resources,repair_duration",
	)

	for i := 0; i < cmd.config.Buildings; i++ {
		id := fmt.Sprintf("BLD_%04d", i+1)
		capStatus := cmd.generateCapStatus()
		paid := cmd.generatePaidAmount(capStatus)
		repairCost := cmd.generateRepairCost(capStatus, paid)
		importance := cmd.generateImportanceLevel()
		policy := cmd.generatePolicyPreference(importance)
		resources := cmd.generateRequiredResources(repairCost)
		duration := cmd.generateRepairDuration(repairCost)

		fmt.Fprintf(file, "%s,%s,%.2f,%.2f,%d,%.3f,%g,%g\n",
			id, capStatus, paid, repairCost, importance, policy, resources, duration)
	}

	return nil
}

func (cmd *GenerateCommand) generateCapStatus() entities.CapStatus {
	if cmd.rand.Float64() < cmd.config.OvercapShare {
		return entities.Overcap
	}
	return entities.Undercap
}

// generatePaidAmount creates payout amounts consistent with the cap status.
// Undercap payouts skew towards small claims.
func (cmd *GenerateCommand) generatePaidAmount(capStatus entities.CapStatus) float64 {
	if capStatus == entities.Overcap {
		return buildingCap + cmd.rand.Float64()*50000
	}

	roll := cmd.rand.Float64()
	return 2000 + roll*roll*(buildingCap-2000)
}

// generateRepairCost correlates repair cost with the payout. Overcap repairs
// exceed what the policy paid; undercap repairs sit around it.
func (cmd *GenerateCommand) generateRepairCost(capStatus entities.CapStatus, paid float64) float64 {
	if capStatus == entities.Overcap {
		return paid * (1.1 + cmd.rand.Float64()*0.9)
	}
	return paid * (0.6 + cmd.rand.Float64()*0.6)
}

// generateImportanceLevel skews towards ordinary residential buildings.
// Lifeline facilities are rare.
func (cmd *GenerateCommand) generateImportanceLevel() int {
	roll := cmd.rand.Float64()
	switch {
	case roll < 0.05:
		return 4
	case roll < 0.20:
		return 3
	case roll < 0.55:
		return 2
	default:
		return 1
	}
}

func (cmd *GenerateCommand) generatePolicyPreference(importance int) float64 {
	pref := cmd.rand.Float64()*0.6 + float64(importance-1)*0.15
	if pref > 1 {
		pref = 1
	}
	return pref
}

// generateRequiredResources sizes the repair crew with the cost of the work
func (cmd *GenerateCommand) generateRequiredResources(repairCost float64) float64 {
	crews := 2 + repairCost/15000 + cmd.rand.Float64()*3
	return math.Round(crews)
}

// generateRepairDuration estimates working days from the repair cost, capped
// so no single building dominates a schedule.
func (cmd *GenerateCommand) generateRepairDuration(repairCost float64) float64 {
	days := 10 + repairCost/2000 + cmd.rand.Float64()*20
	if days > 240 {
		days = 240
	}
	return math.Round(days)
}

// generateConfigFile writes a default quakeplan.yaml next to the portfolio so
// a generated directory is runnable as-is.
func (cmd *GenerateCommand) generateConfigFile() error {
	data, err := yaml.Marshal(config.Default())
	if err != nil {
		return err
	}

	filePath := filepath.Join(cmd.config.OutputDir, "quakeplan.yaml")
	return os.WriteFile(filePath, data, 0644)
}
