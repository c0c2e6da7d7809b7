package repositories

import "github.com/quakeplan/quakeplan/pkg/domain/entities"

// BuildingRepository provides access to the ranked building queue
type BuildingRepository interface {
	GetBuilding(id entities.BuildingID) (*entities.BuildingRecord, error)
	GetQueue() ([]*entities.BuildingRecord, error)
	LoadBuildings(buildings []*entities.BuildingRecord) error
}
