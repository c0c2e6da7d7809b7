package commands

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/quakeplan/quakeplan/pkg/application/services/metrics"
	"github.com/quakeplan/quakeplan/pkg/application/services/orchestration"
	"github.com/quakeplan/quakeplan/pkg/application/services/priority"
	"github.com/quakeplan/quakeplan/pkg/application/services/simulation"
	"github.com/quakeplan/quakeplan/pkg/domain/entities"
	"github.com/quakeplan/quakeplan/pkg/domain/services"
	"github.com/quakeplan/quakeplan/pkg/infrastructure/config"
	"github.com/quakeplan/quakeplan/pkg/infrastructure/events"
	"github.com/quakeplan/quakeplan/pkg/infrastructure/repositories/csv"
	"github.com/quakeplan/quakeplan/pkg/infrastructure/repositories/memory"
	"github.com/quakeplan/quakeplan/pkg/interfaces/cli/output"
)

// SimulateConfig holds configuration for the simulate command
type SimulateConfig struct {
	BuildingsFile   string
	AssessmentsFile string
	OutputDir       string
	Format          string
	Charts          bool
	Verbose         bool
}

// SimulateCommand runs the full planning pipeline: load a queue (or rank raw
// assessments into one), simulate every configured scenario, derive recovery
// metrics and write the report.
type SimulateCommand struct {
	config SimulateConfig
	appCfg *config.Config
	logger *zap.Logger
}

// NewSimulateCommand creates a new simulate command instance
func NewSimulateCommand(cfg SimulateConfig, appCfg *config.Config, logger *zap.Logger) *SimulateCommand {
	return &SimulateCommand{
		config: cfg,
		appCfg: appCfg,
		logger: logger,
	}
}

// Execute runs the simulation workflow
func (c *SimulateCommand) Execute(ctx context.Context) error {
	if err := c.validateInputs(); err != nil {
		return err
	}

	if c.config.Verbose {
		c.printHeader()
	}

	model, err := c.appCfg.MobilisationModel()
	if err != nil {
		return fmt.Errorf("invalid pool configuration: %w", err)
	}

	scenarios, err := c.appCfg.ScenarioConfigs()
	if err != nil {
		return fmt.Errorf("invalid scenario configuration: %w", err)
	}

	simulator, err := simulation.NewQueueSimulator(model)
	if err != nil {
		return fmt.Errorf("failed to create simulator: %w", err)
	}

	store := events.NewInMemoryEventStore()
	runner, err := simulation.NewScenarioRunner(simulator, c.logger, store)
	if err != nil {
		return fmt.Errorf("failed to create scenario runner: %w", err)
	}

	priorityService, err := priority.NewService(c.appCfg.PriorityWeights())
	if err != nil {
		return fmt.Errorf("invalid priority weights: %w", err)
	}

	metricsService, err := metrics.NewRecoveryService(c.appCfg.Charts.RecoveryHorizon)
	if err != nil {
		return fmt.Errorf("invalid recovery horizon: %w", err)
	}

	pipeline := orchestration.NewPipelineOrchestrator(priorityService, runner, metricsService)
	loader := csv.NewLoader()

	if c.config.Verbose {
		fmt.Printf("🔄 Running %d scenario(s)...\n", len(scenarios))
	}

	startTime := time.Now()

	var result *orchestration.PipelineResult
	if c.config.BuildingsFile != "" {
		queue, loadErr := c.loadQueue(loader)
		if loadErr != nil {
			return loadErr
		}
		result, err = pipeline.RunFromQueue(ctx, queue, scenarios)
	} else {
		assessments, loadErr := c.loadAssessments(loader)
		if loadErr != nil {
			return loadErr
		}
		result, err = pipeline.RunFromAssessments(ctx, assessments, scenarios)
	}
	if err != nil {
		return fmt.Errorf("simulation run failed: %w", err)
	}

	if c.config.Verbose {
		fmt.Printf("✅ Simulation completed in %v\n\n", time.Since(startTime))
		if result.Ranking != nil {
			fmt.Printf("🏅 Ranked %d buildings before simulating\n\n", len(result.Ranking.Ranked))
		}
	}

	outputConfig := output.Config{
		Format:    c.config.Format,
		OutputDir: c.config.OutputDir,
		Verbose:   c.config.Verbose,
		Charts:    c.config.Charts,
	}

	if err := output.Generate(result.Report, result.Metrics, outputConfig); err != nil {
		return fmt.Errorf("error generating output: %w", err)
	}

	if c.config.Verbose {
		c.printEventTrail(store)
		fmt.Println("🏁 Simulation complete!")
	}

	return nil
}

// loadQueue reads an already ranked building queue, rejects malformed input
// before any scenario runs, and returns the queue in rank order.
func (c *SimulateCommand) loadQueue(loader *csv.Loader) ([]*entities.BuildingRecord, error) {
	if c.config.Verbose {
		fmt.Println("📂 Loading ranked queue from CSV...")
	}

	buildings, err := loader.LoadBuildings(c.config.BuildingsFile)
	if err != nil {
		return nil, fmt.Errorf("error loading buildings: %w", err)
	}

	validation := services.NewQueueValidator().ValidateQueue(buildings)
	if !validation.Valid() {
		return nil, fmt.Errorf("queue validation failed: %s", strings.Join(validation.Errors, "; "))
	}

	repo := memory.NewBuildingRepository()
	if err := repo.LoadBuildings(buildings); err != nil {
		return nil, fmt.Errorf("failed to load buildings into repository: %w", err)
	}

	queue, err := repo.GetQueue()
	if err != nil {
		return nil, fmt.Errorf("failed to read building queue: %w", err)
	}

	if c.config.Verbose {
		fmt.Printf("   Loaded %d buildings\n\n", len(queue))
	}

	return queue, nil
}

// loadAssessments reads raw building assessments for the rank-then-simulate
// path.
func (c *SimulateCommand) loadAssessments(loader *csv.Loader) ([]*entities.BuildingAssessment, error) {
	if c.config.Verbose {
		fmt.Println("📂 Loading building assessments from CSV...")
	}

	assessments, err := loader.LoadAssessments(c.config.AssessmentsFile)
	if err != nil {
		return nil, fmt.Errorf("error loading assessments: %w", err)
	}

	repo := memory.NewAssessmentRepository()
	if err := repo.LoadAssessments(assessments); err != nil {
		return nil, fmt.Errorf("failed to load assessments into repository: %w", err)
	}

	loaded, err := repo.GetAssessments()
	if err != nil {
		return nil, fmt.Errorf("failed to read assessments: %w", err)
	}

	if c.config.Verbose {
		fmt.Printf("   Loaded %d assessments\n\n", len(loaded))
	}

	return loaded, nil
}

func (c *SimulateCommand) validateInputs() error {
	if c.config.BuildingsFile == "" && c.config.AssessmentsFile == "" {
		return fmt.Errorf("must specify either a ranked buildings CSV or an assessments CSV")
	}

	if c.config.BuildingsFile != "" && c.config.AssessmentsFile != "" {
		return fmt.Errorf("buildings and assessments inputs are mutually exclusive")
	}

	if c.config.BuildingsFile != "" {
		if _, err := os.Stat(c.config.BuildingsFile); os.IsNotExist(err) {
			return fmt.Errorf("buildings file not found: %s", c.config.BuildingsFile)
		}
	}

	if c.config.AssessmentsFile != "" {
		if _, err := os.Stat(c.config.AssessmentsFile); os.IsNotExist(err) {
			return fmt.Errorf("assessments file not found: %s", c.config.AssessmentsFile)
		}
	}

	return nil
}

func (c *SimulateCommand) printHeader() {
	fmt.Println("🚀 QuakePlan Simulator")
	fmt.Println("======================")
	fmt.Println()
}

// printEventTrail replays the audit trail recorded during the run, in global
// append order.
func (c *SimulateCommand) printEventTrail(store events.EventStore) {
	trail, err := store.ReadAllEvents(0)
	if err != nil || len(trail) == 0 {
		return
	}

	fmt.Printf("📜 Event trail (%d events):\n", len(trail))
	for _, ev := range trail {
		fmt.Printf("   %-20s stream=%s v%d\n", ev.Type(), ev.StreamID(), ev.Version())
	}
	fmt.Println()
}
