package csv

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/quakeplan/quakeplan/pkg/domain/entities"
)

// Loader handles loading portfolio data from CSV files
type Loader struct{}

// NewLoader creates a new CSV loader
func NewLoader() *Loader {
	return &Loader{}
}

// LoadAssessments loads building assessments from a CSV file
func (l *Loader) LoadAssessments(filename string) ([]*entities.BuildingAssessment, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open assessments file %s: %w", filename, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read assessments CSV: %w", err)
	}

	if len(records) < 2 {
		return nil, fmt.Errorf("assessments CSV must have header and at least one data row")
	}

	// Validate header
	expectedHeader := []string{"building_id", "cap_status", "total_building_paid", "repair_cost", "importance_level", "policy_preference", "required_resources", "repair_duration"}
	header := records[0]
	if !validateHeader(header, expectedHeader) {
		return nil, fmt.Errorf("assessments CSV header mismatch. Expected: %v, Got: %v", expectedHeader, header)
	}

	var assessments []*entities.BuildingAssessment
	for i, record := range records[1:] {
		if len(record) != len(expectedHeader) {
			return nil, fmt.Errorf("assessments CSV row %d: expected %d columns, got %d", i+2, len(expectedHeader), len(record))
		}

		assessment, err := parseAssessment(record)
		if err != nil {
			return nil, fmt.Errorf("assessments CSV row %d: %w", i+2, err)
		}

		assessments = append(assessments, assessment)
	}

	return assessments, nil
}

// LoadBuildings loads a pre-ranked building queue from a CSV file
func (l *Loader) LoadBuildings(filename string) ([]*entities.BuildingRecord, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open buildings file %s: %w", filename, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read buildings CSV: %w", err)
	}

	if len(records) < 2 {
		return nil, fmt.Errorf("buildings CSV must have header and at least one data row")
	}

	// Validate header
	expectedHeader := []string{"building_id", "required_resources", "repair_duration", "rank"}
	header := records[0]
	if !validateHeader(header, expectedHeader) {
		return nil, fmt.Errorf("buildings CSV header mismatch. Expected: %v, Got: %v", expectedHeader, header)
	}

	var buildings []*entities.BuildingRecord
	for i, record := range records[1:] {
		if len(record) != len(expectedHeader) {
			return nil, fmt.Errorf("buildings CSV row %d: expected %d columns, got %d", i+2, len(expectedHeader), len(record))
		}

		building, err := parseBuilding(record)
		if err != nil {
			return nil, fmt.Errorf("buildings CSV row %d: %w", i+2, err)
		}

		buildings = append(buildings, building)
	}

	return buildings, nil
}

// Helper functions for parsing CSV records

func validateHeader(actual, expected []string) bool {
	if len(actual) != len(expected) {
		return false
	}

	for i, col := range expected {
		if strings.ToLower(strings.TrimSpace(actual[i])) != col {
			return false
		}
	}

	return true
}

func parseAssessment(record []string) (*entities.BuildingAssessment, error) {
	id := entities.BuildingID(strings.TrimSpace(record[0]))

	capStatus, err := entities.ParseCapStatus(record[1])
	if err != nil {
		return nil, err
	}

	totalBuildingPaid, err := decimal.NewFromString(strings.TrimSpace(record[2]))
	if err != nil {
		return nil, fmt.Errorf("invalid total_building_paid: %s", record[2])
	}

	repairCost, err := decimal.NewFromString(strings.TrimSpace(record[3]))
	if err != nil {
		return nil, fmt.Errorf("invalid repair_cost: %s", record[3])
	}

	importanceLevel, err := strconv.Atoi(strings.TrimSpace(record[4]))
	if err != nil {
		return nil, fmt.Errorf("invalid importance_level: %s", record[4])
	}

	policyPreference, err := strconv.ParseFloat(strings.TrimSpace(record[5]), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid policy_preference: %s", record[5])
	}

	requiredResources, err := strconv.ParseFloat(strings.TrimSpace(record[6]), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid required_resources: %s", record[6])
	}

	repairDuration, err := strconv.ParseFloat(strings.TrimSpace(record[7]), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid repair_duration: %s", record[7])
	}

	return entities.NewBuildingAssessment(id, capStatus, totalBuildingPaid, repairCost,
		importanceLevel, policyPreference, requiredResources, repairDuration)
}

func parseBuilding(record []string) (*entities.BuildingRecord, error) {
	id := entities.BuildingID(strings.TrimSpace(record[0]))

	requiredResources, err := strconv.ParseFloat(strings.TrimSpace(record[1]), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid required_resources: %s", record[1])
	}

	repairDuration, err := strconv.ParseFloat(strings.TrimSpace(record[2]), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid repair_duration: %s", record[2])
	}

	rank, err := strconv.Atoi(strings.TrimSpace(record[3]))
	if err != nil {
		return nil, fmt.Errorf("invalid rank: %s", record[3])
	}

	return entities.NewBuildingRecord(id, requiredResources, repairDuration, rank)
}
