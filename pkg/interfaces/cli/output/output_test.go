package output

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quakeplan/quakeplan/pkg/application/dto"
	"github.com/quakeplan/quakeplan/pkg/application/services/metrics"
	"github.com/quakeplan/quakeplan/pkg/domain/entities"
	csvrepo "github.com/quakeplan/quakeplan/pkg/infrastructure/repositories/csv"
)

func testReport(t *testing.T) (*dto.SimulationReport, []dto.RecoveryMetrics) {
	t.Helper()

	report := &dto.SimulationReport{
		RunID:       uuid.New(),
		GeneratedAt: time.Now().UTC(),
		Buildings:   2,
		Results: []dto.ScenarioResult{
			{
				Scenario: entities.ScenarioConfig{Name: "baseline", MobilisationFactor: 1.0},
				Allocations: []dto.BuildingAllocation{
					{
						Building:     entities.BuildingRecord{ID: "B-001", RequiredResources: 20, RepairDuration: 10, Rank: 1},
						WaitTime:     0,
						RecoveryTime: 10,
					},
					{
						Building:     entities.BuildingRecord{ID: "B-002", RequiredResources: 15, RepairDuration: 5, Rank: 2},
						WaitTime:     13.457078350012205,
						RecoveryTime: 18.457078350012203,
					},
				},
				FinalBalance: -8.509830000000001,
			},
			{
				Scenario: entities.ScenarioConfig{Name: "optimistic", MobilisationFactor: 2.0},
				Allocations: []dto.BuildingAllocation{
					{
						Building:     entities.BuildingRecord{ID: "B-001", RequiredResources: 20, RepairDuration: 10, Rank: 1},
						WaitTime:     0,
						RecoveryTime: 10,
					},
					{
						Building:     entities.BuildingRecord{ID: "B-002", RequiredResources: 15, RepairDuration: 5, Rank: 2},
						WaitTime:     9.185660239199414,
						RecoveryTime: 14.185660239199414,
					},
				},
				FinalBalance: -10.01966,
			},
		},
		Failures: []dto.ScenarioFailure{
			{
				Scenario: entities.ScenarioConfig{Name: "stalled", MobilisationFactor: 0},
				Reason:   "mobilisation factor must be positive, got 0",
			},
		},
	}

	return report, metrics.NewDefaultRecoveryService().SummariseAll(report)
}

func TestGenerate_UnsupportedFormat(t *testing.T) {
	report, rows := testReport(t)

	err := Generate(report, rows, Config{Format: "xml"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported output format: xml")
}

func TestGenerate_CSV(t *testing.T) {
	report, rows := testReport(t)
	outputDir := t.TempDir()

	err := Generate(report, rows, Config{Format: "csv", OutputDir: outputDir})
	require.NoError(t, err)

	metricsFile, err := os.Open(filepath.Join(outputDir, "metrics.csv"))
	require.NoError(t, err)
	defer metricsFile.Close()

	records, err := csv.NewReader(metricsFile).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"scenario", "mobilisation_factor", "mean_wait", "max_wait", "max_recovery", "curve_area", "final_balance"}, records[0])
	assert.Equal(t, "baseline", records[1][0])
	assert.Equal(t, "6.7285391750061025", records[1][2])
	assert.Equal(t, "optimistic", records[2][0])

	resultsFile, err := os.Open(filepath.Join(outputDir, "results_baseline.csv"))
	require.NoError(t, err)
	defer resultsFile.Close()

	allocRecords, err := csv.NewReader(resultsFile).ReadAll()
	require.NoError(t, err)
	require.Len(t, allocRecords, 3)
	assert.Equal(t, []string{"building_id", "rank", "required_resources", "repair_duration", "wait_time", "recovery_time"}, allocRecords[0])
	assert.Equal(t, []string{"B-001", "1", "20", "10", "0", "10"}, allocRecords[1])
	assert.Equal(t, "13.457078350012205", allocRecords[2][4])
}

func TestGenerate_CSVRequiresOutputDir(t *testing.T) {
	report, rows := testReport(t)

	err := Generate(report, rows, Config{Format: "csv"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "output directory required")
}

func TestGenerate_JSON(t *testing.T) {
	report, rows := testReport(t)
	outputDir := t.TempDir()

	err := Generate(report, rows, Config{Format: "json", OutputDir: outputDir})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(outputDir, "simulation_report.json"))
	require.NoError(t, err)

	var decoded struct {
		RunID   uuid.UUID             `json:"run_id"`
		Results []dto.ScenarioResult  `json:"results"`
		Metrics []dto.RecoveryMetrics `json:"metrics"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, report.RunID, decoded.RunID)
	require.Len(t, decoded.Results, 2)
	require.Len(t, decoded.Metrics, 2)
	assert.Equal(t, "baseline", decoded.Metrics[0].Scenario.Name)
	assert.Equal(t, 13.457078350012205, decoded.Results[0].Allocations[1].WaitTime)
}

func TestGenerate_HTML(t *testing.T) {
	report, rows := testReport(t)
	outputDir := t.TempDir()

	err := Generate(report, rows, Config{Format: "html", OutputDir: outputDir})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(outputDir, "report.html"))
	require.NoError(t, err)
	html := string(data)

	assert.Contains(t, html, "<title>Simulation Report "+report.RunID.String())
	assert.Contains(t, html, "Scenario: baseline")
	assert.Contains(t, html, "Scenario: optimistic")
	assert.Contains(t, html, "Recovery Curves")
	assert.Contains(t, html, "stalled")
	assert.Contains(t, html, "<svg")
	assert.Contains(t, html, "B-002")
}

func TestGenerate_HTMLRequiresOutputDir(t *testing.T) {
	report, rows := testReport(t)

	err := Generate(report, rows, Config{Format: "html"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "output directory required")
}

func TestWriteCharts(t *testing.T) {
	report, rows := testReport(t)
	outputDir := t.TempDir()

	err := Generate(report, rows, Config{Format: "json", OutputDir: outputDir, Charts: true})
	require.NoError(t, err)

	for _, name := range []string{"schedule_baseline.svg", "schedule_optimistic.svg", "recovery_curves.svg"} {
		data, err := os.ReadFile(filepath.Join(outputDir, name))
		require.NoError(t, err, name)
		assert.True(t, strings.HasPrefix(string(data), "<svg"), name)
	}
}

func TestGanttChart_SVGStructure(t *testing.T) {
	report, _ := testReport(t)
	result := &report.Results[0]

	svg := NewGanttChart(result).GenerateSVG(result)

	assert.Contains(t, svg, `xmlns="http://www.w3.org/2000/svg"`)
	assert.Contains(t, svg, "Repair Schedule - baseline (factor 1.00)")
	assert.Contains(t, svg, "#1 B-001")
	assert.Contains(t, svg, "#2 B-002")
	assert.Contains(t, svg, "Waiting for resources")
	assert.Contains(t, svg, "Under repair")

	// B-001 waits zero days, so only B-002 gets a wait bar. The legend swatch
	// is the second grey rectangle.
	assert.Equal(t, 2, strings.Count(svg, waitColor))
	// One repair bar per building plus the legend swatch.
	assert.Equal(t, 3, strings.Count(svg, repairColor))
}

func TestGanttChart_Empty(t *testing.T) {
	result := &dto.ScenarioResult{Scenario: entities.ScenarioConfig{Name: "baseline", MobilisationFactor: 1.0}}

	svg := NewGanttChart(result).GenerateSVG(result)
	assert.Contains(t, svg, "No Buildings Allocated")
}

func TestRecoveryCurveChart_SVGStructure(t *testing.T) {
	report, rows := testReport(t)

	svg := NewRecoveryCurveChart(report.Results).GenerateSVG(report.Results, rows)

	assert.Contains(t, svg, "Portfolio Recovery by Scenario")
	assert.Equal(t, 2, strings.Count(svg, "<polyline"))
	assert.Contains(t, svg, "baseline (factor 1.00")
	assert.Contains(t, svg, "optimistic (factor 2.00")
	assert.Contains(t, svg, "curve area")
	assert.Contains(t, svg, "days since event")
	assert.Contains(t, svg, "100%")
}

func TestRecoveryCurveChart_Empty(t *testing.T) {
	svg := NewRecoveryCurveChart(nil).GenerateSVG(nil, nil)
	assert.Contains(t, svg, "No Scenario Results")
}

func testRanking() *dto.RankingResult {
	return &dto.RankingResult{
		Ranked: []dto.RankedBuilding{
			{
				Assessment:     entities.BuildingAssessment{ID: "B-003", CapStatus: entities.Overcap, RequiredResources: 9, RepairDuration: 4},
				DamageRatio:    1,
				RepairCostNorm: 0.5,
				PolicyNorm:     0.5,
				PRI:            0.5,
				Rank:           1,
			},
			{
				Assessment:     entities.BuildingAssessment{ID: "B-001", CapStatus: entities.Undercap, RequiredResources: 20, RepairDuration: 10},
				DamageRatio:    0,
				RepairCostNorm: 0,
				PolicyNorm:     0,
				PRI:            0,
				Rank:           2,
			},
		},
		Buildings: []entities.BuildingRecord{
			{ID: "B-003", RequiredResources: 9, RepairDuration: 4, Rank: 1},
			{ID: "B-001", RequiredResources: 20, RepairDuration: 10, Rank: 2},
		},
	}
}

func TestGenerateRanking_CSV(t *testing.T) {
	outputDir := t.TempDir()

	err := GenerateRanking(testRanking(), Config{Format: "csv", OutputDir: outputDir})
	require.NoError(t, err)

	rankedFile, err := os.Open(filepath.Join(outputDir, "ranked_buildings.csv"))
	require.NoError(t, err)
	defer rankedFile.Close()

	records, err := csv.NewReader(rankedFile).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"rank", "building_id", "pri", "damage_ratio", "repair_cost_norm", "policy_norm", "cap_status"}, records[0])
	assert.Equal(t, []string{"1", "B-003", "0.5", "1", "0.5", "0.5", "Overcap"}, records[1])

	// The queue file feeds straight back into the simulate command.
	queue, err := csvrepo.NewLoader().LoadBuildings(filepath.Join(outputDir, "queue.csv"))
	require.NoError(t, err)
	require.Len(t, queue, 2)
	assert.Equal(t, entities.BuildingID("B-003"), queue[0].ID)
	assert.Equal(t, 1, queue[0].Rank)
	assert.Equal(t, 20.0, queue[1].RequiredResources)
}

func TestGenerateRanking_JSON(t *testing.T) {
	outputDir := t.TempDir()

	err := GenerateRanking(testRanking(), Config{Format: "json", OutputDir: outputDir})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(outputDir, "ranked_buildings.json"))
	require.NoError(t, err)

	var decoded dto.RankingResult
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded.Ranked, 2)
	assert.Equal(t, entities.BuildingID("B-003"), decoded.Ranked[0].Assessment.ID)
	assert.Equal(t, 0.5, decoded.Ranked[0].PRI)
}

func TestGenerateRanking_UnsupportedFormat(t *testing.T) {
	err := GenerateRanking(testRanking(), Config{Format: "html"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported output format: html")
}
