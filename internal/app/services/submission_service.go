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

// SubmissionService handles parent observations and student self-reports,
// including their review workflow.
type SubmissionService struct {
	submissionRepo   *repositories.SubmissionRepository
	relationshipRepo *repositories.RelationshipRepository
	userRepo         *repositories.UserRepository
	notifier         *NotificationService
	logger           zerolog.Logger
}

// NewSubmissionService creates a new SubmissionService.
func NewSubmissionService(
	submissionRepo *repositories.SubmissionRepository,
	relationshipRepo *repositories.RelationshipRepository,
	userRepo *repositories.UserRepository,
	notifier *NotificationService,
	logger zerolog.Logger,
) *SubmissionService {
	return &SubmissionService{
		submissionRepo:   submissionRepo,
		relationshipRepo: relationshipRepo,
		userRepo:         userRepo,
		notifier:         notifier,
		logger:           logger,
	}
}

// CreateObservation submits a parent observation about a linked student.
func (s *SubmissionService) CreateObservation(ctx context.Context, viewer authz.Viewer, req *dto.CreateObservationRequest) (*models.ParentObservation, error) {
	if viewer.Role != models.RoleParent {
		return nil, apperrors.NewForbiddenError("only parents may submit observations")
	}
	linked, err := s.relationshipRepo.Exists(ctx, req.StudentID, viewer.UserID)
	if err != nil {
		return nil, err
	}
	if !linked {
		return nil, apperrors.ErrRelationshipMissing
	}

	date, err := time.Parse("2006-01-02", req.DateOfBehavior)
	if err != nil {
		return nil, apperrors.NewValidationError("dateOfBehavior must be YYYY-MM-DD")
	}

	obs := &models.ParentObservation{
		ParentID:       viewer.UserID,
		StudentID:      req.StudentID,
		Description:    req.Description,
		DateOfBehavior: date,
	}
	if err := s.submissionRepo.CreateObservation(ctx, obs); err != nil {
		return nil, err
	}

	s.notifier.NotifySubmissionPending(ctx, relatedObservation, obs.ID, "A parent observation awaits review.")
	return obs, nil
}

// GetObservation retrieves an observation the viewer may see.
func (s *SubmissionService) GetObservation(ctx context.Context, viewer authz.Viewer, id int64) (*models.ParentObservation, error) {
	obs, err := s.submissionRepo.GetObservation(ctx, id)
	if err != nil {
		return nil, err
	}
	visible, err := s.subjectRowVisible(ctx, viewer, authz.ResourceParentObservations,
		authz.RowRef{SubjectID: obs.StudentID, ParentID: obs.ParentID}, obs.StudentID)
	if err != nil {
		return nil, err
	}
	if !visible {
		return nil, apperrors.ErrSubmissionNotFound
	}
	return obs, nil
}

// ListObservations retrieves observations visible to the viewer.
func (s *SubmissionService) ListObservations(ctx context.Context, viewer authz.Viewer, status *models.SubmissionStatus, offset uint64, limit int) ([]*models.ParentObservation, error) {
	scope := authz.Scope(viewer, authz.ResourceParentObservations)
	return s.submissionRepo.ListObservations(ctx, scope, status, offset, limit)
}

// UpdateObservation edits a pending observation. Only the submitting parent
// may edit, and only while the observation is pending.
func (s *SubmissionService) UpdateObservation(ctx context.Context, viewer authz.Viewer, id int64, req *dto.UpdateSubmissionRequest) (*models.ParentObservation, error) {
	obs, err := s.submissionRepo.GetObservation(ctx, id)
	if err != nil {
		return nil, err
	}
	if obs.ParentID != viewer.UserID {
		return nil, apperrors.NewForbiddenError("only the submitting parent may edit an observation")
	}
	if obs.Status.Terminal() {
		return nil, apperrors.ErrSubmissionReviewed
	}

	date, err := time.Parse("2006-01-02", req.DateOfBehavior)
	if err != nil {
		return nil, apperrors.NewValidationError("dateOfBehavior must be YYYY-MM-DD")
	}
	obs.Description = req.Description
	obs.DateOfBehavior = date

	if err := s.submissionRepo.UpdateObservation(ctx, obs); err != nil {
		return nil, err
	}
	return s.submissionRepo.GetObservation(ctx, id)
}

// ReviewObservation resolves a pending observation. The first review wins;
// a later attempt observes the terminal state and fails with a conflict.
func (s *SubmissionService) ReviewObservation(ctx context.Context, viewer authz.Viewer, id int64, req *dto.ReviewRequest) (*models.ParentObservation, error) {
	obs, err := s.submissionRepo.GetObservation(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := models.CanReview(obs.Status, req.Status); err != nil {
		return nil, reviewError(err)
	}

	reviewed, err := s.submissionRepo.ReviewObservation(ctx, id, req.Status, viewer.UserID)
	if err != nil {
		return nil, err
	}

	s.notifier.NotifyObservationReviewed(ctx, reviewed)
	return reviewed, nil
}

// DeleteObservation removes a pending observation of the submitting parent.
func (s *SubmissionService) DeleteObservation(ctx context.Context, viewer authz.Viewer, id int64) error {
	obs, err := s.submissionRepo.GetObservation(ctx, id)
	if err != nil {
		return err
	}
	if obs.ParentID != viewer.UserID && viewer.Role != models.RoleSystemAdmin {
		return apperrors.NewForbiddenError("only the submitting parent may delete an observation")
	}
	return s.submissionRepo.DeleteObservation(ctx, id)
}

// CreateSelfReport submits a student self-report for the caller.
func (s *SubmissionService) CreateSelfReport(ctx context.Context, viewer authz.Viewer, req *dto.CreateSelfReportRequest) (*models.StudentSelfReport, error) {
	if viewer.Role != models.RoleStudent {
		return nil, apperrors.NewForbiddenError("only students may submit self-reports")
	}

	date, err := time.Parse("2006-01-02", req.DateOfBehavior)
	if err != nil {
		return nil, apperrors.NewValidationError("dateOfBehavior must be YYYY-MM-DD")
	}

	report := &models.StudentSelfReport{
		StudentID:      viewer.UserID,
		Description:    req.Description,
		DateOfBehavior: date,
	}
	if err := s.submissionRepo.CreateSelfReport(ctx, report); err != nil {
		return nil, err
	}

	s.notifier.NotifySubmissionPending(ctx, relatedSelfReport, report.ID, "A student self-report awaits review.")
	return report, nil
}

// GetSelfReport retrieves a self-report the viewer may see.
func (s *SubmissionService) GetSelfReport(ctx context.Context, viewer authz.Viewer, id int64) (*models.StudentSelfReport, error) {
	report, err := s.submissionRepo.GetSelfReport(ctx, id)
	if err != nil {
		return nil, err
	}
	visible, err := s.subjectRowVisible(ctx, viewer, authz.ResourceStudentSelfReports,
		authz.RowRef{SubjectID: report.StudentID}, report.StudentID)
	if err != nil {
		return nil, err
	}
	if !visible {
		return nil, apperrors.ErrSubmissionNotFound
	}
	return report, nil
}

// ListSelfReports retrieves self-reports visible to the viewer.
func (s *SubmissionService) ListSelfReports(ctx context.Context, viewer authz.Viewer, status *models.SubmissionStatus, offset uint64, limit int) ([]*models.StudentSelfReport, error) {
	scope := authz.Scope(viewer, authz.ResourceStudentSelfReports)
	return s.submissionRepo.ListSelfReports(ctx, scope, status, offset, limit)
}

// UpdateSelfReport edits a pending self-report of the submitting student.
func (s *SubmissionService) UpdateSelfReport(ctx context.Context, viewer authz.Viewer, id int64, req *dto.UpdateSubmissionRequest) (*models.StudentSelfReport, error) {
	report, err := s.submissionRepo.GetSelfReport(ctx, id)
	if err != nil {
		return nil, err
	}
	if report.StudentID != viewer.UserID {
		return nil, apperrors.NewForbiddenError("only the submitting student may edit a self-report")
	}
	if report.Status.Terminal() {
		return nil, apperrors.ErrSubmissionReviewed
	}

	date, err := time.Parse("2006-01-02", req.DateOfBehavior)
	if err != nil {
		return nil, apperrors.NewValidationError("dateOfBehavior must be YYYY-MM-DD")
	}
	report.Description = req.Description
	report.DateOfBehavior = date

	if err := s.submissionRepo.UpdateSelfReport(ctx, report); err != nil {
		return nil, err
	}
	return s.submissionRepo.GetSelfReport(ctx, id)
}

// ReviewSelfReport resolves a pending self-report, first review wins.
func (s *SubmissionService) ReviewSelfReport(ctx context.Context, viewer authz.Viewer, id int64, req *dto.ReviewRequest) (*models.StudentSelfReport, error) {
	report, err := s.submissionRepo.GetSelfReport(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := models.CanReview(report.Status, req.Status); err != nil {
		return nil, reviewError(err)
	}

	reviewed, err := s.submissionRepo.ReviewSelfReport(ctx, id, req.Status, viewer.UserID)
	if err != nil {
		return nil, err
	}

	s.notifier.NotifySelfReportReviewed(ctx, reviewed)
	return reviewed, nil
}

// DeleteSelfReport removes a pending self-report of the submitting student.
func (s *SubmissionService) DeleteSelfReport(ctx context.Context, viewer authz.Viewer, id int64) error {
	report, err := s.submissionRepo.GetSelfReport(ctx, id)
	if err != nil {
		return err
	}
	if report.StudentID != viewer.UserID && viewer.Role != models.RoleSystemAdmin {
		return apperrors.NewForbiddenError("only the submitting student may delete a self-report")
	}
	return s.submissionRepo.DeleteSelfReport(ctx, id)
}

// subjectRowVisible applies the viewer's scope to a single row, resolving the
// subject's home class only when the filter needs it.
func (s *SubmissionService) subjectRowVisible(ctx context.Context, viewer authz.Viewer, resource authz.Resource, row authz.RowRef, studentID int64) (bool, error) {
	scope := authz.Scope(viewer, resource)
	if scope.Matches(row) {
		return true, nil
	}
	if len(scope.SubjectClassIDs) == 0 {
		return false, nil
	}
	student, err := s.userRepo.GetByID(ctx, studentID)
	if err != nil {
		return false, err
	}
	if student.SchoolClassID == nil {
		return false, nil
	}
	row.SubjectClassID = *student.SchoolClassID
	return scope.Matches(row), nil
}

// reviewError maps state machine failures onto the API error taxonomy.
func reviewError(err error) error {
	switch err {
	case models.ErrInvalidReviewStatus:
		return apperrors.NewValidationError("status must be approved or rejected")
	case models.ErrAlreadyReviewed:
		return apperrors.ErrSubmissionReviewed
	}
	return err
}
