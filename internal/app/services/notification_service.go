package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/selinay/moraled/internal/app/models"
	"github.com/selinay/moraled/internal/app/repositories"
)

// Related object type tags used in notification references.
const (
	relatedScore       = "behavior_score"
	relatedObservation = "parent_observation"
	relatedSelfReport  = "student_self_report"
	relatedAward       = "award"
)

// NotificationService creates and manages in-app notifications. Delivery
// failures are logged, never propagated: a missing notification must not fail
// the operation that triggered it.
type NotificationService struct {
	notificationRepo *repositories.NotificationRepository
	userRepo         *repositories.UserRepository
	logger           zerolog.Logger
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(
	notificationRepo *repositories.NotificationRepository,
	userRepo *repositories.UserRepository,
	logger zerolog.Logger,
) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		logger:           logger,
	}
}

// Send creates a notification for one user.
func (s *NotificationService) Send(ctx context.Context, userID int64, title, message string, notifyType models.NotificationType, relatedType string, relatedID int64) {
	n := &models.Notification{
		UserID:  userID,
		Title:   title,
		Message: message,
		Type:    notifyType,
	}
	if relatedType != "" {
		n.RelatedObjectType = &relatedType
		n.RelatedObjectID = &relatedID
	}
	if err := s.notificationRepo.Create(ctx, n); err != nil {
		s.logger.Error().Err(err).Int64("userID", userID).Str("title", title).Msg("Failed to create notification")
	}
}

// NotifyScoreRecorded tells a student (and their parents) about a new score.
func (s *NotificationService) NotifyScoreRecorded(ctx context.Context, score *models.BehaviorScore) {
	notifyType := models.NotifySuccess
	verb := "earned"
	if score.ScoreType == models.ScoreNegative {
		notifyType = models.NotifyWarning
		verb = "lost"
	}
	message := fmt.Sprintf("You %s %d points for behavior on %s.", verb, score.Points, score.DateOfBehavior.Format("2006-01-02"))
	s.Send(ctx, score.StudentID, "Behavior score recorded", message, notifyType, relatedScore, score.ID)

	parents, err := s.parentIDs(ctx, score.StudentID)
	if err != nil {
		s.logger.Error().Err(err).Int64("studentID", score.StudentID).Msg("Failed to load parents for score notification")
		return
	}
	for _, parentID := range parents {
		s.Send(ctx, parentID, "Behavior score recorded",
			fmt.Sprintf("Your child %s %d points for behavior on %s.", verb, score.Points, score.DateOfBehavior.Format("2006-01-02")),
			notifyType, relatedScore, score.ID)
	}
}

// NotifyObservationReviewed tells the submitting parent the outcome.
func (s *NotificationService) NotifyObservationReviewed(ctx context.Context, obs *models.ParentObservation) {
	notifyType := models.NotifySuccess
	if obs.Status == models.StatusRejected {
		notifyType = models.NotifyError
	}
	message := fmt.Sprintf("Your observation from %s was %s.", obs.DateOfBehavior.Format("2006-01-02"), obs.Status)
	s.Send(ctx, obs.ParentID, "Observation reviewed", message, notifyType, relatedObservation, obs.ID)
}

// NotifySelfReportReviewed tells the submitting student the outcome.
func (s *NotificationService) NotifySelfReportReviewed(ctx context.Context, report *models.StudentSelfReport) {
	notifyType := models.NotifySuccess
	if report.Status == models.StatusRejected {
		notifyType = models.NotifyError
	}
	message := fmt.Sprintf("Your self-report from %s was %s.", report.DateOfBehavior.Format("2006-01-02"), report.Status)
	s.Send(ctx, report.StudentID, "Self-report reviewed", message, notifyType, relatedSelfReport, report.ID)
}

// NotifySubmissionPending tells reviewers a new submission awaits them.
func (s *NotificationService) NotifySubmissionPending(ctx context.Context, relatedType string, relatedID int64, description string) {
	reviewers, err := s.reviewerIDs(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to load reviewers for submission notification")
		return
	}
	notifications := make([]*models.Notification, 0, len(reviewers))
	rt := relatedType
	rid := relatedID
	for _, reviewerID := range reviewers {
		notifications = append(notifications, &models.Notification{
			UserID:            reviewerID,
			Title:             "Submission awaiting review",
			Message:           description,
			Type:              models.NotifyInfo,
			RelatedObjectType: &rt,
			RelatedObjectID:   &rid,
		})
	}
	if err := s.notificationRepo.CreateBatch(ctx, notifications); err != nil {
		s.logger.Error().Err(err).Msg("Failed to create reviewer notifications")
	}
}

// NotifyAwardGranted tells a student about a new award.
func (s *NotificationService) NotifyAwardGranted(ctx context.Context, award *models.Award) {
	message := fmt.Sprintf("You received the award %q.", award.Name)
	s.Send(ctx, award.StudentID, "Award granted", message, models.NotifySuccess, relatedAward, award.ID)
}

// ListForUser retrieves a user's notifications.
func (s *NotificationService) ListForUser(ctx context.Context, userID int64, unreadOnly bool, offset uint64, limit int) ([]*models.Notification, int64, error) {
	list, err := s.notificationRepo.ListForUser(ctx, userID, unreadOnly, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	unread, err := s.notificationRepo.CountUnread(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	return list, unread, nil
}

// UnreadCount returns how many unread notifications the user has.
func (s *NotificationService) UnreadCount(ctx context.Context, userID int64) (int64, error) {
	return s.notificationRepo.CountUnread(ctx, userID)
}

// MarkRead marks one notification read for its owner.
func (s *NotificationService) MarkRead(ctx context.Context, id, userID int64) error {
	return s.notificationRepo.MarkRead(ctx, id, userID)
}

// MarkAllRead marks all of a user's notifications read.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	return s.notificationRepo.MarkAllRead(ctx, userID)
}

// Delete removes one of the user's notifications.
func (s *NotificationService) Delete(ctx context.Context, id, userID int64) error {
	return s.notificationRepo.Delete(ctx, id, userID)
}

func (s *NotificationService) parentIDs(ctx context.Context, studentID int64) ([]int64, error) {
	// GetChildIDs maps parent to children; the reverse lookup goes through
	// the relationship rows directly.
	return s.userRepo.ListParentIDs(ctx, studentID)
}

func (s *NotificationService) reviewerIDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	for _, role := range []models.Role{models.RoleClassTeacher, models.RoleMoralSupervisor} {
		roleIDs, err := s.userRepo.ListIDsByRole(ctx, role)
		if err != nil {
			return nil, err
		}
		ids = append(ids, roleIDs...)
	}
	return ids, nil
}
