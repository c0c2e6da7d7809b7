package memory

import (
	"github.com/quakeplan/quakeplan/pkg/domain/entities"
	"github.com/quakeplan/quakeplan/pkg/domain/repositories"
)

// AssessmentRepository provides in-memory assessment storage
type AssessmentRepository struct {
	assessments []entities.BuildingAssessment
}

// NewAssessmentRepository creates a new in-memory assessment repository
func NewAssessmentRepository() *AssessmentRepository {
	return &AssessmentRepository{
		assessments: []entities.BuildingAssessment{},
	}
}

// Verify interface compliance
var _ repositories.AssessmentRepository = (*AssessmentRepository)(nil)

// LoadAssessments loads assessments into the repository
func (r *AssessmentRepository) LoadAssessments(assessments []*entities.BuildingAssessment) error {
	for _, a := range assessments {
		r.assessments = append(r.assessments, *a)
	}
	return nil
}

// GetAssessments returns all assessments in insertion order
func (r *AssessmentRepository) GetAssessments() ([]*entities.BuildingAssessment, error) {
	var assessments []*entities.BuildingAssessment
	for i := range r.assessments {
		assessments = append(assessments, &r.assessments[i])
	}
	return assessments, nil
}
