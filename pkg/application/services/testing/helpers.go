package testing

import (
	"github.com/shopspring/decimal"

	"github.com/quakeplan/quakeplan/pkg/domain/entities"
	"github.com/quakeplan/quakeplan/pkg/infrastructure/repositories/memory"
)

// mustCreateBuilding is a helper for tests - panics on validation error
func mustCreateBuilding(id string, requiredResources, repairDuration float64, rank int) *entities.BuildingRecord {
	b, err := entities.NewBuildingRecord(entities.BuildingID(id), requiredResources, repairDuration, rank)
	if err != nil {
		panic(err)
	}
	return b
}

// mustCreateScenario is a helper for tests - panics on validation error
func mustCreateScenario(name string, factor float64) entities.ScenarioConfig {
	sc, err := entities.NewScenarioConfig(name, factor)
	if err != nil {
		panic(err)
	}
	return *sc
}

// mustCreateAssessment is a helper for tests - panics on validation error
func mustCreateAssessment(
	id string,
	capStatus entities.CapStatus,
	totalPaid, repairCost int64,
	importanceLevel int,
	policyPreference, requiredResources, repairDuration float64,
) *entities.BuildingAssessment {
	a, err := entities.NewBuildingAssessment(
		entities.BuildingID(id),
		capStatus,
		decimal.NewFromInt(totalPaid),
		decimal.NewFromInt(repairCost),
		importanceLevel,
		policyPreference,
		requiredResources,
		repairDuration,
	)
	if err != nil {
		panic(err)
	}
	return a
}

// BuildReferenceQueueData builds the two-building reference queue: the first
// building is covered by the baseline opening balance, the second overdrafts
// the pool.
func BuildReferenceQueueData() *memory.BuildingRepository {
	repo := memory.NewBuildingRepository()

	buildings := []*entities.BuildingRecord{
		mustCreateBuilding("B-001", 20, 10, 1),
		mustCreateBuilding("B-002", 15, 5, 2),
	}

	if err := repo.LoadBuildings(buildings); err != nil {
		panic(err)
	}

	return repo
}

// BuildPortfolioTestData builds a mixed assessment portfolio spanning both
// cap status groups, plus the standard scenario set.
func BuildPortfolioTestData() (*memory.AssessmentRepository, []entities.ScenarioConfig) {
	repo := memory.NewAssessmentRepository()

	assessments := []*entities.BuildingAssessment{
		mustCreateAssessment("B-001", entities.Undercap, 100_000, 50_000, 2, 1, 20, 10),
		mustCreateAssessment("B-002", entities.Undercap, 200_000, 100_000, 3, 3, 15, 5),
		mustCreateAssessment("B-003", entities.Overcap, 500_000, 300_000, 4, 5, 30, 20),
		mustCreateAssessment("B-004", entities.Overcap, 900_000, 150_000, 1, 2, 8, 4),
	}

	if err := repo.LoadAssessments(assessments); err != nil {
		panic(err)
	}

	scenarios := []entities.ScenarioConfig{
		mustCreateScenario("baseline", 1.0),
		mustCreateScenario("optimistic", 2.0),
		mustCreateScenario("pessimistic", 0.5),
	}

	return repo, scenarios
}
