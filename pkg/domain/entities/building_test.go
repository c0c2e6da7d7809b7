package entities

import (
	"errors"
	"testing"
)

func TestBuildingRecord_Validation(t *testing.T) {
	validBuilding, err := NewBuildingRecord("BLDG-001", 20, 10, 1)
	if err != nil {
		t.Fatalf("Expected valid building creation to succeed: %v", err)
	}
	if validBuilding.ID != "BLDG-001" {
		t.Errorf("Expected building id BLDG-001, got %s", validBuilding.ID)
	}
	if validBuilding.Rank != 1 {
		t.Errorf("Expected rank 1, got %d", validBuilding.Rank)
	}

	testCases := []struct {
		name              string
		id                BuildingID
		requiredResources float64
		repairDuration    float64
		rank              int
		expectError       string
	}{
		{"empty id", "", 20, 10, 1, "id: building id cannot be empty"},
		{"zero required resources", "B1", 0, 10, 1, "building B1: required_resources: must be positive, got 0"},
		{"negative required resources", "B1", -5, 10, 1, "building B1: required_resources: must be positive, got -5"},
		{"zero repair duration", "B1", 20, 0, 1, "building B1: repair_duration: must be positive, got 0"},
		{"negative repair duration", "B1", 20, -3.5, 1, "building B1: repair_duration: must be positive, got -3.5"},
		{"zero rank", "B1", 20, 10, 0, "building B1: rank: must be 1 or greater, got 0"},
		{"negative rank", "B1", 20, 10, -2, "building B1: rank: must be 1 or greater, got -2"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewBuildingRecord(tc.id, tc.requiredResources, tc.repairDuration, tc.rank)
			if err == nil {
				t.Fatalf("Expected error %q, got nil", tc.expectError)
			}
			if err.Error() != tc.expectError {
				t.Errorf("Expected error %q, got %q", tc.expectError, err.Error())
			}
		})
	}
}

func TestBuildingRecord_ValidationErrorType(t *testing.T) {
	_, err := NewBuildingRecord("B7", -1, 10, 1)
	if err == nil {
		t.Fatal("Expected validation error, got nil")
	}

	var valErr *ValidationError
	if !errors.As(err, &valErr) {
		t.Fatalf("Expected *ValidationError, got %T", err)
	}
	if valErr.BuildingID != "B7" {
		t.Errorf("Expected error attributed to building B7, got %s", valErr.BuildingID)
	}
	if valErr.Field != "required_resources" {
		t.Errorf("Expected field required_resources, got %s", valErr.Field)
	}
}
