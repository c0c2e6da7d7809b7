package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/quakeplan/quakeplan/pkg/infrastructure/config"
	"github.com/quakeplan/quakeplan/pkg/infrastructure/repositories/csv"
)

// TestGenerateRankSimulate_EndToEnd drives the whole CLI surface through real
// files: a generated portfolio is ranked and the ranked queue simulated.
func TestGenerateRankSimulate_EndToEnd(t *testing.T) {
	dir := t.TempDir()

	gen := NewGenerateCommand(GenerateConfig{
		Buildings:    25,
		OvercapShare: 0.3,
		OutputDir:    dir,
		Seed:         42,
	})
	require.NoError(t, gen.Execute(context.Background()))

	assessmentsFile := filepath.Join(dir, "assessments.csv")
	loader := csv.NewLoader()
	assessments, err := loader.LoadAssessments(assessmentsFile)
	require.NoError(t, err)
	require.Len(t, assessments, 25)

	cfg, err := config.LoadFromPath(filepath.Join(dir, "quakeplan.yaml"))
	require.NoError(t, err)

	rankDir := filepath.Join(dir, "rank")
	rank := NewRankCommand(RankConfig{
		AssessmentsFile: assessmentsFile,
		OutputDir:       rankDir,
		Format:          "csv",
	}, cfg)
	require.NoError(t, rank.Execute(context.Background()))

	queueFile := filepath.Join(rankDir, "queue.csv")
	queue, err := loader.LoadBuildings(queueFile)
	require.NoError(t, err)
	require.Len(t, queue, 25)

	simDir := filepath.Join(dir, "sim")
	sim := NewSimulateCommand(SimulateConfig{
		BuildingsFile: queueFile,
		OutputDir:     simDir,
		Format:        "csv",
		Charts:        true,
	}, cfg, zap.NewNop())
	require.NoError(t, sim.Execute(context.Background()))

	data, err := os.ReadFile(filepath.Join(simDir, "metrics.csv"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Len(t, lines, len(cfg.Scenarios)+1)

	for _, sc := range cfg.Scenarios {
		assert.FileExists(t, filepath.Join(simDir, fmt.Sprintf("results_%s.csv", sc.Name)))
		assert.FileExists(t, filepath.Join(simDir, fmt.Sprintf("schedule_%s.svg", sc.Name)))
	}
	assert.FileExists(t, filepath.Join(simDir, "recovery_curves.svg"))
}

func TestSimulateCommand_FromAssessments(t *testing.T) {
	dir := t.TempDir()

	gen := NewGenerateCommand(GenerateConfig{
		Buildings:    10,
		OvercapShare: 0.5,
		OutputDir:    dir,
		Seed:         7,
	})
	require.NoError(t, gen.Execute(context.Background()))

	simDir := filepath.Join(dir, "sim")
	sim := NewSimulateCommand(SimulateConfig{
		AssessmentsFile: filepath.Join(dir, "assessments.csv"),
		OutputDir:       simDir,
		Format:          "json",
	}, config.Default(), zap.NewNop())
	require.NoError(t, sim.Execute(context.Background()))

	assert.FileExists(t, filepath.Join(simDir, "simulation_report.json"))
}

func TestGenerateCommand_DeterministicUnderSeed(t *testing.T) {
	dirA := t.TempDir()
	dirB := t.TempDir()

	for _, dir := range []string{dirA, dirB} {
		cmd := NewGenerateCommand(GenerateConfig{
			Buildings:    10,
			OvercapShare: 0.5,
			OutputDir:    dir,
			Seed:         7,
		})
		require.NoError(t, cmd.Execute(context.Background()))
	}

	a, err := os.ReadFile(filepath.Join(dirA, "assessments.csv"))
	require.NoError(t, err)
	b, err := os.ReadFile(filepath.Join(dirB, "assessments.csv"))
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestGenerateCommand_RejectsBadInputs(t *testing.T) {
	tests := []struct {
		name    string
		cfg     GenerateConfig
		wantErr string
	}{
		{
			name:    "zero buildings",
			cfg:     GenerateConfig{Buildings: 0, OutputDir: "out"},
			wantErr: "number of buildings must be positive",
		},
		{
			name:    "overcap share above one",
			cfg:     GenerateConfig{Buildings: 5, OvercapShare: 1.5, OutputDir: "out"},
			wantErr: "overcap share must be between 0 and 1",
		},
		{
			name:    "missing output directory",
			cfg:     GenerateConfig{Buildings: 5},
			wantErr: "must specify an output directory",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewGenerateCommand(tt.cfg).Execute(context.Background())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSimulateCommand_ValidatesInputs(t *testing.T) {
	cfg := config.Default()
	logger := zap.NewNop()

	err := NewSimulateCommand(SimulateConfig{}, cfg, logger).Execute(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must specify either a ranked buildings CSV or an assessments CSV")

	err = NewSimulateCommand(SimulateConfig{
		BuildingsFile:   "a.csv",
		AssessmentsFile: "b.csv",
	}, cfg, logger).Execute(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mutually exclusive")

	err = NewSimulateCommand(SimulateConfig{
		BuildingsFile: filepath.Join(t.TempDir(), "missing.csv"),
	}, cfg, logger).Execute(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "buildings file not found")
}

func TestSimulateCommand_RejectsInvalidQueue(t *testing.T) {
	dir := t.TempDir()
	queueFile := filepath.Join(dir, "queue.csv")
	content := "building_id,required_resources,repair_duration,rank\n" +
		"A,10,5,1\n" +
		"B,8,4,1\n"
	require.NoError(t, os.WriteFile(queueFile, []byte(content), 0644))

	sim := NewSimulateCommand(SimulateConfig{
		BuildingsFile: queueFile,
		Format:        "json",
		OutputDir:     dir,
	}, config.Default(), zap.NewNop())

	err := sim.Execute(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "queue validation failed")
	assert.Contains(t, err.Error(), "duplicate rank 1")
}

func TestRankCommand_ValidatesInputs(t *testing.T) {
	cfg := config.Default()

	err := NewRankCommand(RankConfig{}, cfg).Execute(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must specify an assessments CSV")

	err = NewRankCommand(RankConfig{
		AssessmentsFile: filepath.Join(t.TempDir(), "missing.csv"),
	}, cfg).Execute(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "assessments file not found")
}
