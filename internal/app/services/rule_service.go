package services

import (
	"context"
	"strings"

	"github.com/selinay/moraled/internal/app/models"
	"github.com/selinay/moraled/internal/app/models/dto"
	"github.com/selinay/moraled/internal/app/repositories"
	"github.com/selinay/moraled/internal/pkg/apperrors"
)

// RuleService handles the behavior rule catalogue.
type RuleService struct {
	ruleRepo *repositories.RuleRepository
}

// NewRuleService creates a new RuleService.
func NewRuleService(ruleRepo *repositories.RuleRepository) *RuleService {
	return &RuleService{
		ruleRepo: ruleRepo,
	}
}

// CreateChapter creates a top-level rule chapter.
func (s *RuleService) CreateChapter(ctx context.Context, req *dto.CreateChapterRequest) (*models.RuleChapter, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, apperrors.NewValidationError("chapter name cannot be empty")
	}

	chapter := &models.RuleChapter{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Order:       req.Order,
	}
	if err := s.ruleRepo.CreateChapter(ctx, chapter); err != nil {
		return nil, err
	}
	return chapter, nil
}

// GetChapter retrieves a chapter.
func (s *RuleService) GetChapter(ctx context.Context, id int64) (*models.RuleChapter, error) {
	return s.ruleRepo.GetChapter(ctx, id)
}

// ListChapters retrieves all chapters in display order.
func (s *RuleService) ListChapters(ctx context.Context) ([]*models.RuleChapter, error) {
	return s.ruleRepo.ListChapters(ctx)
}

// UpdateChapter updates a chapter's editable fields.
func (s *RuleService) UpdateChapter(ctx context.Context, id int64, req *dto.UpdateRuleRequest) (*models.RuleChapter, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, apperrors.NewValidationError("chapter name cannot be empty")
	}

	chapter, err := s.ruleRepo.GetChapter(ctx, id)
	if err != nil {
		return nil, err
	}
	chapter.Name = strings.TrimSpace(req.Name)
	chapter.Description = req.Description
	chapter.Order = req.Order

	if err := s.ruleRepo.UpdateChapter(ctx, chapter); err != nil {
		return nil, err
	}
	return chapter, nil
}

// DeleteChapter removes a chapter and everything below it.
func (s *RuleService) DeleteChapter(ctx context.Context, id int64) error {
	return s.ruleRepo.DeleteChapter(ctx, id)
}

// CreateDimension creates a dimension under a chapter.
func (s *RuleService) CreateDimension(ctx context.Context, req *dto.CreateDimensionRequest) (*models.RuleDimension, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, apperrors.NewValidationError("dimension name cannot be empty")
	}
	if _, err := s.ruleRepo.GetChapter(ctx, req.ChapterID); err != nil {
		return nil, err
	}

	dim := &models.RuleDimension{
		ChapterID:   req.ChapterID,
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Order:       req.Order,
	}
	if err := s.ruleRepo.CreateDimension(ctx, dim); err != nil {
		return nil, err
	}
	return dim, nil
}

// GetDimension retrieves a dimension.
func (s *RuleService) GetDimension(ctx context.Context, id int64) (*models.RuleDimension, error) {
	return s.ruleRepo.GetDimension(ctx, id)
}

// ListDimensions retrieves dimensions, optionally under one chapter.
func (s *RuleService) ListDimensions(ctx context.Context, chapterID *int64) ([]*models.RuleDimension, error) {
	return s.ruleRepo.ListDimensions(ctx, chapterID)
}

// UpdateDimension updates a dimension's editable fields.
func (s *RuleService) UpdateDimension(ctx context.Context, id int64, req *dto.UpdateRuleRequest) (*models.RuleDimension, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, apperrors.NewValidationError("dimension name cannot be empty")
	}

	dim, err := s.ruleRepo.GetDimension(ctx, id)
	if err != nil {
		return nil, err
	}
	dim.Name = strings.TrimSpace(req.Name)
	dim.Description = req.Description
	dim.Order = req.Order

	if err := s.ruleRepo.UpdateDimension(ctx, dim); err != nil {
		return nil, err
	}
	return dim, nil
}

// DeleteDimension removes a dimension and its sub-items.
func (s *RuleService) DeleteDimension(ctx context.Context, id int64) error {
	return s.ruleRepo.DeleteDimension(ctx, id)
}

// CreateSubItem creates a scoreable sub-item under a dimension.
func (s *RuleService) CreateSubItem(ctx context.Context, req *dto.CreateSubItemRequest) (*models.RuleSubItem, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, apperrors.NewValidationError("sub-item name cannot be empty")
	}
	if _, err := s.ruleRepo.GetDimension(ctx, req.DimensionID); err != nil {
		return nil, err
	}

	item := &models.RuleSubItem{
		DimensionID: req.DimensionID,
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Order:       req.Order,
	}
	if err := s.ruleRepo.CreateSubItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// GetSubItem retrieves a sub-item.
func (s *RuleService) GetSubItem(ctx context.Context, id int64) (*models.RuleSubItem, error) {
	return s.ruleRepo.GetSubItem(ctx, id)
}

// ListSubItems retrieves sub-items, optionally under one dimension.
func (s *RuleService) ListSubItems(ctx context.Context, dimensionID *int64) ([]*models.RuleSubItem, error) {
	return s.ruleRepo.ListSubItems(ctx, dimensionID)
}

// UpdateSubItem updates a sub-item's editable fields.
func (s *RuleService) UpdateSubItem(ctx context.Context, id int64, req *dto.UpdateRuleRequest) (*models.RuleSubItem, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, apperrors.NewValidationError("sub-item name cannot be empty")
	}

	item, err := s.ruleRepo.GetSubItem(ctx, id)
	if err != nil {
		return nil, err
	}
	item.Name = strings.TrimSpace(req.Name)
	item.Description = req.Description
	item.Order = req.Order

	if err := s.ruleRepo.UpdateSubItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// DeleteSubItem removes a sub-item and its scores.
func (s *RuleService) DeleteSubItem(ctx context.Context, id int64) error {
	return s.ruleRepo.DeleteSubItem(ctx, id)
}
