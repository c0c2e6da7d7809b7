package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/quakeplan/quakeplan/pkg/application/services/priority"
	"github.com/quakeplan/quakeplan/pkg/infrastructure/config"
	"github.com/quakeplan/quakeplan/pkg/infrastructure/repositories/csv"
	"github.com/quakeplan/quakeplan/pkg/infrastructure/repositories/memory"
	"github.com/quakeplan/quakeplan/pkg/interfaces/cli/output"
)

// RankConfig holds configuration for the rank command
type RankConfig struct {
	AssessmentsFile string
	OutputDir       string
	Format          string
	Verbose         bool
}

// RankCommand scores raw building assessments and emits the ranked repair
// queue without running any simulation.
type RankCommand struct {
	config RankConfig
	appCfg *config.Config
}

// NewRankCommand creates a new rank command instance
func NewRankCommand(cfg RankConfig, appCfg *config.Config) *RankCommand {
	return &RankCommand{
		config: cfg,
		appCfg: appCfg,
	}
}

// Execute runs the prioritisation workflow
func (c *RankCommand) Execute(ctx context.Context) error {
	if err := c.validateInputs(); err != nil {
		return err
	}

	if c.config.Verbose {
		fmt.Println("🚀 QuakePlan Prioritiser")
		fmt.Println("========================")
		fmt.Println()
		fmt.Println("📂 Loading building assessments from CSV...")
	}

	loader := csv.NewLoader()
	assessments, err := loader.LoadAssessments(c.config.AssessmentsFile)
	if err != nil {
		return fmt.Errorf("error loading assessments: %w", err)
	}

	repo := memory.NewAssessmentRepository()
	if err := repo.LoadAssessments(assessments); err != nil {
		return fmt.Errorf("failed to load assessments into repository: %w", err)
	}

	loaded, err := repo.GetAssessments()
	if err != nil {
		return fmt.Errorf("failed to read assessments: %w", err)
	}

	if c.config.Verbose {
		fmt.Printf("   Loaded %d assessments\n\n", len(loaded))
		fmt.Println("🔄 Scoring buildings...")
	}

	priorityService, err := priority.NewService(c.appCfg.PriorityWeights())
	if err != nil {
		return fmt.Errorf("invalid priority weights: %w", err)
	}

	ranking, err := priorityService.Rank(loaded)
	if err != nil {
		return fmt.Errorf("failed to rank assessments: %w", err)
	}

	if c.config.Verbose {
		fmt.Printf("✅ Ranked %d buildings\n\n", len(ranking.Ranked))
	}

	outputConfig := output.Config{
		Format:    c.config.Format,
		OutputDir: c.config.OutputDir,
		Verbose:   c.config.Verbose,
	}

	if err := output.GenerateRanking(ranking, outputConfig); err != nil {
		return fmt.Errorf("error generating output: %w", err)
	}

	if c.config.Verbose {
		fmt.Println("🏁 Ranking complete!")
	}

	return nil
}

func (c *RankCommand) validateInputs() error {
	if c.config.AssessmentsFile == "" {
		return fmt.Errorf("must specify an assessments CSV")
	}

	if _, err := os.Stat(c.config.AssessmentsFile); os.IsNotExist(err) {
		return fmt.Errorf("assessments file not found: %s", c.config.AssessmentsFile)
	}

	return nil
}
