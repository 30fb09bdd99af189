package services

import (
	"context"
	"strings"

	"github.com/selinay/moraled/internal/app/models"
	"github.com/selinay/moraled/internal/app/models/dto"
	"github.com/selinay/moraled/internal/app/repositories"
	"github.com/selinay/moraled/internal/pkg/apperrors"
)

// GradeService handles grade-level operations.
type GradeService struct {
	gradeRepo *repositories.GradeRepository
}

// NewGradeService creates a new GradeService.
func NewGradeService(gradeRepo *repositories.GradeRepository) *GradeService {
	return &GradeService{
		gradeRepo: gradeRepo,
	}
}

// CreateGrade creates a grade level.
func (s *GradeService) CreateGrade(ctx context.Context, req *dto.CreateGradeRequest) (*models.Grade, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, apperrors.NewValidationError("grade name cannot be empty")
	}

	grade := &models.Grade{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
	}
	if err := s.gradeRepo.Create(ctx, grade); err != nil {
		return nil, err
	}
	return grade, nil
}

// GetGrade retrieves a grade by ID.
func (s *GradeService) GetGrade(ctx context.Context, id int64) (*models.Grade, error) {
	return s.gradeRepo.GetByID(ctx, id)
}

// ListGrades retrieves all grades.
func (s *GradeService) ListGrades(ctx context.Context) ([]*models.Grade, error) {
	return s.gradeRepo.List(ctx)
}

// UpdateGrade updates a grade's name and description.
func (s *GradeService) UpdateGrade(ctx context.Context, id int64, req *dto.UpdateGradeRequest) (*models.Grade, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, apperrors.NewValidationError("grade name cannot be empty")
	}

	grade, err := s.gradeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	grade.Name = strings.TrimSpace(req.Name)
	grade.Description = req.Description

	if err := s.gradeRepo.Update(ctx, grade); err != nil {
		return nil, err
	}
	return grade, nil
}

// DeleteGrade removes a grade and its classes.
func (s *GradeService) DeleteGrade(ctx context.Context, id int64) error {
	return s.gradeRepo.Delete(ctx, id)
}
