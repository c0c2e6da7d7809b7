package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/quakeplan/quakeplan/pkg/infrastructure/config"
	"github.com/quakeplan/quakeplan/pkg/infrastructure/logging"
	"github.com/quakeplan/quakeplan/pkg/interfaces/cli/commands"
)

// App carries the configuration and logger shared by every subcommand
type App struct {
	cfg    *config.Config
	logger *zap.Logger
}

var (
	cfgFile string
	logsDir string
	verbose bool

	app *App
)

var rootCmd = &cobra.Command{
	Use:   "quakeplan",
	Short: "Post-earthquake repair scheduling toolkit",
	Long: `quakeplan ranks earthquake-damaged buildings into a repair queue and
simulates how long each repair waits for crews under different labour
mobilisation scenarios.`,
	PersistentPreRunE: initApp,
	PersistentPostRun: closeApp,
	SilenceUsage:      true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"Path to quakeplan.yaml (defaults to ./quakeplan.yaml, then ~/quakeplan.yaml)")
	rootCmd.PersistentFlags().StringVar(&logsDir, "logs", "",
		"Directory for debug log files (file logging disabled when empty)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable verbose output")

	rootCmd.AddCommand(newRankCmd())
	rootCmd.AddCommand(newSimulateCmd())
	rootCmd.AddCommand(newGenerateCmd())
}

func initApp(cmd *cobra.Command, args []string) error {
	logger, err := logging.NewLogger(verbose, logsDir)
	if err != nil {
		return fmt.Errorf("failed to initialise logging: %w", err)
	}

	var cfg *config.Config
	if cfgFile != "" {
		cfg, err = config.LoadFromPath(cfgFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}

	app = &App{cfg: cfg, logger: logger}
	return nil
}

func closeApp(cmd *cobra.Command, args []string) {
	if app != nil && app.logger != nil {
		_ = app.logger.Sync()
	}
}

func newRankCmd() *cobra.Command {
	var (
		assessmentsFile string
		outputDir       string
		format          string
	)

	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Score building assessments and emit the ranked repair queue",
		RunE: func(cmd *cobra.Command, args []string) error {
			rank := commands.NewRankCommand(commands.RankConfig{
				AssessmentsFile: assessmentsFile,
				OutputDir:       outputDir,
				Format:          format,
				Verbose:         verbose,
			}, app.cfg)
			return rank.Execute(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&assessmentsFile, "assessments", "", "Path to building assessments CSV file")
	cmd.Flags().StringVar(&outputDir, "output", "", "Output directory for results (optional)")
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text, json, csv")

	return cmd
}

func newSimulateCmd() *cobra.Command {
	var (
		buildingsFile   string
		assessmentsFile string
		outputDir       string
		format          string
		charts          bool
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Simulate repair scheduling scenarios over a building queue",
		Long: `Simulate runs every configured mobilisation scenario over a ranked building
queue. The queue comes either from a ranked buildings CSV (as written by the
rank command) or from raw assessments, which are ranked first.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			sim := commands.NewSimulateCommand(commands.SimulateConfig{
				BuildingsFile:   buildingsFile,
				AssessmentsFile: assessmentsFile,
				OutputDir:       outputDir,
				Format:          format,
				Charts:          charts,
				Verbose:         verbose,
			}, app.cfg, app.logger)
			return sim.Execute(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&buildingsFile, "buildings", "", "Path to ranked buildings CSV file")
	cmd.Flags().StringVar(&assessmentsFile, "assessments", "", "Path to building assessments CSV file (ranked before simulating)")
	cmd.Flags().StringVar(&outputDir, "output", "", "Output directory for results (optional)")
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text, json, csv, html")
	cmd.Flags().BoolVar(&charts, "charts", false, "Write SVG schedule and recovery charts")

	return cmd
}

func newGenerateCmd() *cobra.Command {
	var (
		count        int
		overcapShare float64
		outputDir    string
		seed         int64
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a synthetic assessment portfolio for testing",
		RunE: func(cmd *cobra.Command, args []string) error {
			gen := commands.NewGenerateCommand(commands.GenerateConfig{
				Buildings:    count,
				OvercapShare: overcapShare,
				OutputDir:    outputDir,
				Seed:         seed,
				Verbose:      verbose,
			})
			return gen.Execute(cmd.Context())
		},
	}

	cmd.Flags().IntVar(&count, "count", 100, "Number of buildings to generate")
	cmd.Flags().Float64Var(&overcapShare, "overcap", 0.3, "Fraction of claims that settled at the policy cap")
	cmd.Flags().StringVar(&outputDir, "output", "", "Output directory for generated files")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Random seed for reproducible generation (0 uses the clock)")

	return cmd
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
