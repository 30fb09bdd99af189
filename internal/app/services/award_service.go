package services

import (
	"context"
	"time"

	authz "github.com/selinay/moraled/internal/app/auth"
	"github.com/selinay/moraled/internal/app/models"
	"github.com/selinay/moraled/internal/app/models/dto"
	"github.com/selinay/moraled/internal/app/repositories"
	"github.com/selinay/moraled/internal/pkg/apperrors"
)

// AwardService handles student award operations.
type AwardService struct {
	awardRepo *repositories.AwardRepository
	userRepo  *repositories.UserRepository
	notifier  *NotificationService
}

// NewAwardService creates a new AwardService.
func NewAwardService(
	awardRepo *repositories.AwardRepository,
	userRepo *repositories.UserRepository,
	notifier *NotificationService,
) *AwardService {
	return &AwardService{
		awardRepo: awardRepo,
		userRepo:  userRepo,
		notifier:  notifier,
	}
}

// CreateAward grants an award to a student. Star awards require a level in
// 1..5; other types must not carry one.
func (s *AwardService) CreateAward(ctx context.Context, viewer authz.Viewer, req *dto.CreateAwardRequest) (*models.Award, error) {
	student, err := s.userRepo.GetByID(ctx, req.StudentID)
	if err != nil {
		return nil, err
	}
	if student.Role != models.RoleStudent {
		return nil, apperrors.ErrNotAStudent
	}
	if err := validateAwardLevel(req.AwardType, req.Level); err != nil {
		return nil, err
	}

	date, err := time.Parse("2006-01-02", req.AwardDate)
	if err != nil {
		return nil, apperrors.NewValidationError("awardDate must be YYYY-MM-DD")
	}

	award := &models.Award{
		StudentID:   req.StudentID,
		Name:        req.Name,
		AwardType:   req.AwardType,
		Level:       req.Level,
		AwardedByID: viewer.UserID,
		AwardDate:   date,
	}
	if err := s.awardRepo.Create(ctx, award); err != nil {
		return nil, err
	}

	s.notifier.NotifyAwardGranted(ctx, award)
	return award, nil
}

// GetAward retrieves an award the viewer may see.
func (s *AwardService) GetAward(ctx context.Context, viewer authz.Viewer, id int64) (*models.Award, error) {
	award, err := s.awardRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	scope := authz.Scope(viewer, authz.ResourceAwards)
	row := authz.RowRef{SubjectID: award.StudentID}
	if !scope.Matches(row) && len(scope.SubjectClassIDs) > 0 {
		student, err := s.userRepo.GetByID(ctx, award.StudentID)
		if err != nil {
			return nil, err
		}
		if student.SchoolClassID != nil {
			row.SubjectClassID = *student.SchoolClassID
		}
	}
	if !scope.Matches(row) {
		return nil, apperrors.ErrAwardNotFound
	}
	return award, nil
}

// ListAwards retrieves awards visible to the viewer.
func (s *AwardService) ListAwards(ctx context.Context, viewer authz.Viewer, studentID *int64, from, to *time.Time, offset uint64, limit int) ([]*models.Award, error) {
	scope := authz.Scope(viewer, authz.ResourceAwards)
	return s.awardRepo.List(ctx, scope, studentID, from, to, offset, limit)
}

// UpdateAward edits an award. Only the granter or an administrator may.
func (s *AwardService) UpdateAward(ctx context.Context, viewer authz.Viewer, id int64, req *dto.CreateAwardRequest) (*models.Award, error) {
	award, err := s.awardRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if award.AwardedByID != viewer.UserID && viewer.Role != models.RoleSystemAdmin {
		return nil, apperrors.NewForbiddenError("only the granter may edit an award")
	}
	if err := validateAwardLevel(req.AwardType, req.Level); err != nil {
		return nil, err
	}

	date, err := time.Parse("2006-01-02", req.AwardDate)
	if err != nil {
		return nil, apperrors.NewValidationError("awardDate must be YYYY-MM-DD")
	}

	award.Name = req.Name
	award.AwardType = req.AwardType
	award.Level = req.Level
	award.AwardDate = date

	if err := s.awardRepo.Update(ctx, award); err != nil {
		return nil, err
	}
	return award, nil
}

// DeleteAward removes an award. Only the granter or an administrator may.
func (s *AwardService) DeleteAward(ctx context.Context, viewer authz.Viewer, id int64) error {
	award, err := s.awardRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if award.AwardedByID != viewer.UserID && viewer.Role != models.RoleSystemAdmin {
		return apperrors.NewForbiddenError("only the granter may delete an award")
	}
	return s.awardRepo.Delete(ctx, id)
}

func validateAwardLevel(awardType models.AwardType, level *int) error {
	if awardType == models.AwardStar {
		if level == nil {
			return apperrors.NewValidationError("star awards require a level between 1 and 5")
		}
		if *level < 1 || *level > 5 {
			return apperrors.NewValidationError("star award level must be between 1 and 5")
		}
		return nil
	}
	if level != nil {
		return apperrors.NewValidationError("only star awards carry a level")
	}
	return nil
}
