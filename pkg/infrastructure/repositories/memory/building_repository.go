package memory

import (
	"fmt"
	"sort"

	"github.com/quakeplan/quakeplan/pkg/domain/entities"
	"github.com/quakeplan/quakeplan/pkg/domain/repositories"
)

// BuildingRepository provides in-memory building queue storage
type BuildingRepository struct {
	buildings []entities.BuildingRecord
}

// NewBuildingRepository creates a new in-memory building repository
func NewBuildingRepository() *BuildingRepository {
	return &BuildingRepository{
		buildings: []entities.BuildingRecord{},
	}
}

// Verify interface compliance
var _ repositories.BuildingRepository = (*BuildingRepository)(nil)

// LoadBuildings loads building records into the repository
func (r *BuildingRepository) LoadBuildings(buildings []*entities.BuildingRecord) error {
	for _, b := range buildings {
		r.buildings = append(r.buildings, *b)
	}
	return nil
}

// GetBuilding returns the building with the given id
func (r *BuildingRepository) GetBuilding(id entities.BuildingID) (*entities.BuildingRecord, error) {
	for i := range r.buildings {
		if r.buildings[i].ID == id {
			return &r.buildings[i], nil
		}
	}
	return nil, fmt.Errorf("building not found: %s", id)
}

// GetQueue returns all building records ordered by rank
func (r *BuildingRepository) GetQueue() ([]*entities.BuildingRecord, error) {
	queue := make([]*entities.BuildingRecord, 0, len(r.buildings))
	for i := range r.buildings {
		queue = append(queue, &r.buildings[i])
	}
	sort.SliceStable(queue, func(i, j int) bool {
		return queue[i].Rank < queue[j].Rank
	})
	return queue, nil
}
