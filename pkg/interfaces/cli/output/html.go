package output

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"time"

	"github.com/quakeplan/quakeplan/pkg/application/dto"
)

//go:embed templates/*.html
var templateFS embed.FS

// scenarioSection pairs one scenario's results with its metrics and chart
type scenarioSection struct {
	Result   dto.ScenarioResult
	Metrics  dto.RecoveryMetrics
	GanttSVG template.HTML
}

// reportData feeds the HTML report template
type reportData struct {
	Report      *dto.SimulationReport
	Scenarios   []scenarioSection
	CurveSVG    template.HTML
	GeneratedAt string
}

// HTMLReport renders the full simulation report as one standalone HTML page
// with the SVG charts inlined
type HTMLReport struct{}

// NewHTMLReport creates a new HTML report generator
func NewHTMLReport() *HTMLReport {
	return &HTMLReport{}
}

// GenerateHTML renders the report template with per-scenario sections
func (hr *HTMLReport) GenerateHTML(report *dto.SimulationReport, recoveryMetrics []dto.RecoveryMetrics) (string, error) {
	metricsByScenario := make(map[string]dto.RecoveryMetrics, len(recoveryMetrics))
	for _, row := range recoveryMetrics {
		metricsByScenario[row.Scenario.Name] = row
	}

	sections := make([]scenarioSection, 0, len(report.Results))
	for _, result := range report.Results {
		chart := NewGanttChart(&result)
		sections = append(sections, scenarioSection{
			Result:   result,
			Metrics:  metricsByScenario[result.Scenario.Name],
			GanttSVG: template.HTML(chart.GenerateSVG(&result)),
		})
	}

	curve := NewRecoveryCurveChart(report.Results)

	data := &reportData{
		Report:      report,
		Scenarios:   sections,
		CurveSVG:    template.HTML(curve.GenerateSVG(report.Results, recoveryMetrics)),
		GeneratedAt: time.Now().Format("2006-01-02 15:04:05"),
	}

	tmpl, err := template.ParseFS(templateFS, "templates/report.html")
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}

// generateHTMLOutput writes the HTML report into the output directory
func generateHTMLOutput(report *dto.SimulationReport, recoveryMetrics []dto.RecoveryMetrics, config Config) error {
	if config.OutputDir == "" {
		return fmt.Errorf("output directory required for HTML format")
	}

	html, err := NewHTMLReport().GenerateHTML(report, recoveryMetrics)
	if err != nil {
		return fmt.Errorf("failed to generate HTML report: %w", err)
	}

	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	filename := filepath.Join(config.OutputDir, "report.html")
	if err := os.WriteFile(filename, []byte(html), 0644); err != nil {
		return fmt.Errorf("failed to write HTML file: %w", err)
	}

	if config.Verbose {
		fmt.Printf("🌐 HTML report saved to: %s\n", filename)
	}

	return nil
}
