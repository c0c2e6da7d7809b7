package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/quakeplan/quakeplan/pkg/application/dto"
)

// Config holds configuration for output generation
type Config struct {
	Format    string
	OutputDir string
	Verbose   bool
	Charts    bool
}

// Generate creates simulation output in the specified format, plus the SVG
// charts when requested
func Generate(report *dto.SimulationReport, recoveryMetrics []dto.RecoveryMetrics, config Config) error {
	var err error
	switch config.Format {
	case "text":
		err = generateTextOutput(report, recoveryMetrics, config)
	case "json":
		err = generateJSONOutput(report, recoveryMetrics, config)
	case "csv":
		err = generateCSVOutput(report, recoveryMetrics, config)
	case "html":
		err = generateHTMLOutput(report, recoveryMetrics, config)
	default:
		return fmt.Errorf("unsupported output format: %s", config.Format)
	}
	if err != nil {
		return err
	}

	if config.Charts {
		return WriteCharts(report, recoveryMetrics, config)
	}

	return nil
}

// GenerateRanking creates prioritisation output in the specified format
func GenerateRanking(ranking *dto.RankingResult, config Config) error {
	switch config.Format {
	case "text":
		return generateRankingTextOutput(ranking)
	case "json":
		return generateRankingJSONOutput(ranking, config)
	case "csv":
		return generateRankingCSVOutput(ranking, config)
	default:
		return fmt.Errorf("unsupported output format: %s", config.Format)
	}
}

// generateTextOutput prints a human-readable summary to stdout
func generateTextOutput(report *dto.SimulationReport, recoveryMetrics []dto.RecoveryMetrics, config Config) error {
	titleColor := color.New(color.FgCyan, color.Bold)
	warnColor := color.New(color.FgRed, color.Bold)

	titleColor.Printf("\n📊 Simulation Results\n")
	fmt.Printf("Run:       %s\n", report.RunID)
	fmt.Printf("Generated: %s\n", report.GeneratedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("Buildings: %d\n", report.Buildings)
	fmt.Printf("Scenarios: %d completed, %d failed\n\n", len(report.Results), len(report.Failures))

	if len(recoveryMetrics) > 0 {
		fmt.Println("📈 Recovery Metrics:")
		table := tablewriter.NewTable(os.Stdout,
			tablewriter.WithHeader([]string{"Scenario", "Factor", "Mean Wait", "Max Wait", "Max Recovery", "Curve Area", "Final Balance"}),
		)
		for _, row := range recoveryMetrics {
			table.Append([]string{
				row.Scenario.Name,
				fmt.Sprintf("%.2f", row.Scenario.MobilisationFactor),
				fmt.Sprintf("%.2f", row.MeanWait),
				fmt.Sprintf("%.2f", row.MaxWait),
				fmt.Sprintf("%.2f", row.MaxRecovery),
				fmt.Sprintf("%.1f", row.CurveArea),
				fmt.Sprintf("%.2f", row.FinalBalance),
			})
		}
		table.Render()
		fmt.Println()
	}

	if len(report.Failures) > 0 {
		warnColor.Println("⚠️  Failed Scenarios:")
		for _, failure := range report.Failures {
			fmt.Printf("  ✗ %s: %s\n", failure.Scenario.Name, failure.Reason)
		}
		fmt.Println()
	}

	if config.Verbose {
		for _, result := range report.Results {
			fmt.Printf("🏗️  Scenario %s (factor %.2f):\n", result.Scenario.Name, result.Scenario.MobilisationFactor)
			table := tablewriter.NewTable(os.Stdout,
				tablewriter.WithHeader([]string{"Rank", "Building", "Required", "Duration", "Wait", "Recovery"}),
			)
			for _, alloc := range result.Allocations {
				table.Append(allocationRow(alloc, "%.2f"))
			}
			table.Render()
			fmt.Println()
		}
	}

	return nil
}

// generateJSONOutput writes the report and metrics as one JSON document
func generateJSONOutput(report *dto.SimulationReport, recoveryMetrics []dto.RecoveryMetrics, config Config) error {
	payload := struct {
		*dto.SimulationReport
		Metrics []dto.RecoveryMetrics `json:"metrics"`
	}{report, recoveryMetrics}

	jsonData, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if config.OutputDir == "" {
		// Print to stdout
		fmt.Println(string(jsonData))
		return nil
	}

	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	filename := filepath.Join(config.OutputDir, "simulation_report.json")
	if err := os.WriteFile(filename, jsonData, 0644); err != nil {
		return fmt.Errorf("failed to write JSON file: %w", err)
	}

	if config.Verbose {
		fmt.Printf("💾 JSON report saved to: %s\n", filename)
	}

	return nil
}

// generateCSVOutput writes the metrics table plus one allocation file per scenario
func generateCSVOutput(report *dto.SimulationReport, recoveryMetrics []dto.RecoveryMetrics, config Config) error {
	if config.OutputDir == "" {
		return fmt.Errorf("output directory required for CSV format")
	}

	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	metricsFile := filepath.Join(config.OutputDir, "metrics.csv")
	if err := writeMetricsCSV(recoveryMetrics, metricsFile); err != nil {
		return fmt.Errorf("failed to write metrics CSV: %w", err)
	}
	if config.Verbose {
		fmt.Printf("💾 Metrics saved to: %s\n", metricsFile)
	}

	for _, result := range report.Results {
		resultFile := filepath.Join(config.OutputDir, fmt.Sprintf("results_%s.csv", sanitizeName(result.Scenario.Name)))
		if err := writeAllocationsCSV(result.Allocations, resultFile); err != nil {
			return fmt.Errorf("failed to write allocations CSV: %w", err)
		}
		if config.Verbose {
			fmt.Printf("💾 Scenario %s saved to: %s\n", result.Scenario.Name, resultFile)
		}
	}

	return nil
}

// generateRankingTextOutput prints the ranked portfolio to stdout
func generateRankingTextOutput(ranking *dto.RankingResult) error {
	titleColor := color.New(color.FgCyan, color.Bold)

	titleColor.Printf("\n🏅 Building Prioritisation\n")
	fmt.Printf("Ranked: %d buildings\n\n", len(ranking.Ranked))

	table := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"Rank", "Building", "PRI", "Damage", "Repair Cost", "Policy", "Cap Status"}),
	)
	for _, ranked := range ranking.Ranked {
		table.Append([]string{
			strconv.Itoa(ranked.Rank),
			string(ranked.Assessment.ID),
			fmt.Sprintf("%.4f", ranked.PRI),
			fmt.Sprintf("%.4f", ranked.DamageRatio),
			fmt.Sprintf("%.4f", ranked.RepairCostNorm),
			fmt.Sprintf("%.4f", ranked.PolicyNorm),
			ranked.Assessment.CapStatus.String(),
		})
	}
	table.Render()
	fmt.Println()

	return nil
}

// generateRankingJSONOutput writes the ranking as JSON
func generateRankingJSONOutput(ranking *dto.RankingResult, config Config) error {
	jsonData, err := json.MarshalIndent(ranking, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if config.OutputDir == "" {
		fmt.Println(string(jsonData))
		return nil
	}

	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	filename := filepath.Join(config.OutputDir, "ranked_buildings.json")
	if err := os.WriteFile(filename, jsonData, 0644); err != nil {
		return fmt.Errorf("failed to write JSON file: %w", err)
	}

	if config.Verbose {
		fmt.Printf("💾 Ranking saved to: %s\n", filename)
	}

	return nil
}

// generateRankingCSVOutput writes the scored ranking plus a queue file that
// the simulate command accepts as --buildings input
func generateRankingCSVOutput(ranking *dto.RankingResult, config Config) error {
	if config.OutputDir == "" {
		return fmt.Errorf("output directory required for CSV format")
	}

	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	rankedFile := filepath.Join(config.OutputDir, "ranked_buildings.csv")
	rankedRows := make([][]string, 0, len(ranking.Ranked))
	for _, ranked := range ranking.Ranked {
		rankedRows = append(rankedRows, []string{
			strconv.Itoa(ranked.Rank),
			string(ranked.Assessment.ID),
			formatFloat(ranked.PRI),
			formatFloat(ranked.DamageRatio),
			formatFloat(ranked.RepairCostNorm),
			formatFloat(ranked.PolicyNorm),
			ranked.Assessment.CapStatus.String(),
		})
	}
	header := []string{"rank", "building_id", "pri", "damage_ratio", "repair_cost_norm", "policy_norm", "cap_status"}
	if err := writeCSVFile(rankedFile, header, rankedRows); err != nil {
		return fmt.Errorf("failed to write ranking CSV: %w", err)
	}

	queueFile := filepath.Join(config.OutputDir, "queue.csv")
	queueRows := make([][]string, 0, len(ranking.Buildings))
	for _, building := range ranking.Buildings {
		queueRows = append(queueRows, []string{
			string(building.ID),
			formatFloat(building.RequiredResources),
			formatFloat(building.RepairDuration),
			strconv.Itoa(building.Rank),
		})
	}
	queueHeader := []string{"building_id", "required_resources", "repair_duration", "rank"}
	if err := writeCSVFile(queueFile, queueHeader, queueRows); err != nil {
		return fmt.Errorf("failed to write queue CSV: %w", err)
	}

	if config.Verbose {
		fmt.Printf("💾 Ranking saved to: %s\n", rankedFile)
		fmt.Printf("💾 Simulation queue saved to: %s\n", queueFile)
	}

	return nil
}

// WriteCharts renders the per-scenario schedule charts and the combined
// recovery curve chart into the output directory
func WriteCharts(report *dto.SimulationReport, recoveryMetrics []dto.RecoveryMetrics, config Config) error {
	if config.OutputDir == "" {
		return fmt.Errorf("output directory required for charts")
	}

	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	for _, result := range report.Results {
		chart := NewGanttChart(&result)
		filename := filepath.Join(config.OutputDir, fmt.Sprintf("schedule_%s.svg", sanitizeName(result.Scenario.Name)))
		if err := os.WriteFile(filename, []byte(chart.GenerateSVG(&result)), 0644); err != nil {
			return fmt.Errorf("failed to write schedule chart: %w", err)
		}
		if config.Verbose {
			fmt.Printf("💾 Schedule chart saved to: %s\n", filename)
		}
	}

	curve := NewRecoveryCurveChart(report.Results)
	filename := filepath.Join(config.OutputDir, "recovery_curves.svg")
	if err := os.WriteFile(filename, []byte(curve.GenerateSVG(report.Results, recoveryMetrics)), 0644); err != nil {
		return fmt.Errorf("failed to write recovery curve chart: %w", err)
	}
	if config.Verbose {
		fmt.Printf("💾 Recovery curves saved to: %s\n", filename)
	}

	return nil
}

// Helper functions for CSV generation

func writeMetricsCSV(recoveryMetrics []dto.RecoveryMetrics, filename string) error {
	header := []string{"scenario", "mobilisation_factor", "mean_wait", "max_wait", "max_recovery", "curve_area", "final_balance"}
	rows := make([][]string, 0, len(recoveryMetrics))
	for _, row := range recoveryMetrics {
		rows = append(rows, []string{
			row.Scenario.Name,
			formatFloat(row.Scenario.MobilisationFactor),
			formatFloat(row.MeanWait),
			formatFloat(row.MaxWait),
			formatFloat(row.MaxRecovery),
			formatFloat(row.CurveArea),
			formatFloat(row.FinalBalance),
		})
	}
	return writeCSVFile(filename, header, rows)
}

func writeAllocationsCSV(allocations []dto.BuildingAllocation, filename string) error {
	header := []string{"building_id", "rank", "required_resources", "repair_duration", "wait_time", "recovery_time"}
	rows := make([][]string, 0, len(allocations))
	for _, alloc := range allocations {
		rows = append(rows, []string{
			string(alloc.Building.ID),
			strconv.Itoa(alloc.Building.Rank),
			formatFloat(alloc.Building.RequiredResources),
			formatFloat(alloc.Building.RepairDuration),
			formatFloat(alloc.WaitTime),
			formatFloat(alloc.RecoveryTime),
		})
	}
	return writeCSVFile(filename, header, rows)
}

func writeCSVFile(filename string, header []string, rows [][]string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", filename, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(header); err != nil {
		return err
	}
	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()

	return writer.Error()
}

func allocationRow(alloc dto.BuildingAllocation, floatFormat string) []string {
	return []string{
		strconv.Itoa(alloc.Building.Rank),
		string(alloc.Building.ID),
		fmt.Sprintf(floatFormat, alloc.Building.RequiredResources),
		fmt.Sprintf(floatFormat, alloc.Building.RepairDuration),
		fmt.Sprintf(floatFormat, alloc.WaitTime),
		fmt.Sprintf(floatFormat, alloc.RecoveryTime),
	}
}

// formatFloat renders floats with full precision so CSV output round-trips
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// sanitizeName makes a scenario name safe to embed in a filename
func sanitizeName(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
}
