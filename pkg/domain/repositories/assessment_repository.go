package repositories

import "github.com/quakeplan/quakeplan/pkg/domain/entities"

// AssessmentRepository provides access to raw post-event building assessments
type AssessmentRepository interface {
	GetAssessments() ([]*entities.BuildingAssessment, error)
	LoadAssessments(assessments []*entities.BuildingAssessment) error
}
