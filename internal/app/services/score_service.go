package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	authz "github.com/selinay/moraled/internal/app/auth"
	"github.com/selinay/moraled/internal/app/models"
	"github.com/selinay/moraled/internal/app/models/dto"
	"github.com/selinay/moraled/internal/app/repositories"
	"github.com/selinay/moraled/internal/pkg/apperrors"
)

// ScoreService handles behavior score operations.
type ScoreService struct {
	scoreRepo *repositories.ScoreRepository
	userRepo  *repositories.UserRepository
	classRepo *repositories.ClassRepository
	notifier  *NotificationService
	logger    zerolog.Logger
}

// NewScoreService creates a new ScoreService.
func NewScoreService(
	scoreRepo *repositories.ScoreRepository,
	userRepo *repositories.UserRepository,
	classRepo *repositories.ClassRepository,
	notifier *NotificationService,
	logger zerolog.Logger,
) *ScoreService {
	return &ScoreService{
		scoreRepo: scoreRepo,
		userRepo:  userRepo,
		classRepo: classRepo,
		notifier:  notifier,
		logger:    logger,
	}
}

// CreateScore records a behavior score event. The recorder is the caller.
func (s *ScoreService) CreateScore(ctx context.Context, viewer authz.Viewer, req *dto.CreateScoreRequest) (*models.BehaviorScore, error) {
	student, err := s.userRepo.GetByID(ctx, req.StudentID)
	if err != nil {
		return nil, err
	}
	if student.Role != models.RoleStudent {
		return nil, apperrors.ErrNotAStudent
	}
	exists, err := s.classRepo.Exists(ctx, req.SchoolClassID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperrors.ErrClassNotFound
	}

	// A teaching teacher may only score within classes they teach; class
	// teachers within classes they lead. Wider roles score anywhere.
	scope := authz.Scope(viewer, authz.ResourceBehaviorScores)
	row := authz.RowRef{ClassID: req.SchoolClassID, SubjectID: req.StudentID}
	if student.SchoolClassID != nil {
		row.SubjectClassID = *student.SchoolClassID
	}
	if !scope.Matches(row) {
		return nil, apperrors.NewForbiddenError("student is outside your scoring scope")
	}

	date, err := time.Parse("2006-01-02", req.DateOfBehavior)
	if err != nil {
		return nil, apperrors.NewValidationError("dateOfBehavior must be YYYY-MM-DD")
	}

	score := &models.BehaviorScore{
		StudentID:      req.StudentID,
		RuleSubItemID:  req.RuleSubItemID,
		RecordedByID:   viewer.UserID,
		SchoolClassID:  req.SchoolClassID,
		ScoreType:      req.ScoreType,
		Points:         req.Points,
		Comment:        req.Comment,
		DateOfBehavior: date,
	}
	if err := s.scoreRepo.Create(ctx, score); err != nil {
		return nil, err
	}

	s.notifier.NotifyScoreRecorded(ctx, score)
	return s.scoreRepo.GetByID(ctx, score.ID)
}

// GetScore retrieves a score the viewer is allowed to see.
func (s *ScoreService) GetScore(ctx context.Context, viewer authz.Viewer, id int64) (*models.BehaviorScore, error) {
	score, err := s.scoreRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.visible(ctx, viewer, score) {
		return nil, apperrors.ErrScoreNotFound
	}
	return score, nil
}

// ListScores retrieves a page of scores visible to the viewer.
func (s *ScoreService) ListScores(ctx context.Context, viewer authz.Viewer, filter repositories.ScoreFilter, offset uint64, limit int) ([]*models.BehaviorScore, int64, error) {
	scope := authz.Scope(viewer, authz.ResourceBehaviorScores)
	scores, err := s.scoreRepo.List(ctx, scope, filter, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.scoreRepo.Count(ctx, scope, filter)
	if err != nil {
		return nil, 0, err
	}
	return scores, total, nil
}

// UpdateScore re-edits a score. Only the original recorder may do so; scores
// are otherwise immutable once created.
func (s *ScoreService) UpdateScore(ctx context.Context, viewer authz.Viewer, id int64, req *dto.UpdateScoreRequest) (*models.BehaviorScore, error) {
	score, err := s.scoreRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if score.RecordedByID != viewer.UserID && viewer.Role != models.RoleSystemAdmin {
		return nil, apperrors.NewForbiddenError("only the recorder may edit a score")
	}

	date, err := time.Parse("2006-01-02", req.DateOfBehavior)
	if err != nil {
		return nil, apperrors.NewValidationError("dateOfBehavior must be YYYY-MM-DD")
	}

	score.ScoreType = req.ScoreType
	score.Points = req.Points
	score.Comment = req.Comment
	score.DateOfBehavior = date

	if err := s.scoreRepo.Update(ctx, score); err != nil {
		return nil, err
	}
	return s.scoreRepo.GetByID(ctx, id)
}

// DeleteScore removes a score. Only the recorder or an administrator may.
func (s *ScoreService) DeleteScore(ctx context.Context, viewer authz.Viewer, id int64) error {
	score, err := s.scoreRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if score.RecordedByID != viewer.UserID && viewer.Role != models.RoleSystemAdmin {
		return apperrors.NewForbiddenError("only the recorder may delete a score")
	}
	return s.scoreRepo.Delete(ctx, id)
}

func (s *ScoreService) visible(ctx context.Context, viewer authz.Viewer, score *models.BehaviorScore) bool {
	scope := authz.Scope(viewer, authz.ResourceBehaviorScores)
	row := authz.RowRef{ClassID: score.SchoolClassID, SubjectID: score.StudentID}
	if scope.Matches(row) {
		return true
	}
	// Subject-class scoping needs the student's home class.
	student, err := s.userRepo.GetByID(ctx, score.StudentID)
	if err != nil || student.SchoolClassID == nil {
		return false
	}
	row.SubjectClassID = *student.SchoolClassID
	return scope.Matches(row)
}
