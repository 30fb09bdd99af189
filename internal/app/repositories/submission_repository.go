package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/selinay/moraled/internal/app/auth"
	"github.com/selinay/moraled/internal/app/models"
	"github.com/selinay/moraled/internal/pkg/apperrors"
	"github.com/selinay/moraled/internal/pkg/dberrors"
)

// SubmissionRepository handles database operations for parent observations
// and student self-reports.
type SubmissionRepository struct {
	db *pgxpool.Pool
}

// NewSubmissionRepository creates a new submission repository.
func NewSubmissionRepository(db *pgxpool.Pool) *SubmissionRepository {
	return &SubmissionRepository{
		db: db,
	}
}

const observationSelect = `
	SELECT o.id, o.parent_id, o.student_id, o.description, o.date_of_behavior,
	       o.status, o.reviewed_by_id, o.reviewed_at, o.created_at
	FROM parent_observations o
	JOIN users stu ON stu.id = o.student_id
`

const selfReportSelect = `
	SELECT r.id, r.student_id, r.description, r.date_of_behavior,
	       r.status, r.reviewed_by_id, r.reviewed_at, r.created_at
	FROM student_self_reports r
	JOIN users stu ON stu.id = r.student_id
`

func scanObservation(row pgx.Row) (*models.ParentObservation, error) {
	var obs models.ParentObservation
	err := row.Scan(
		&obs.ID,
		&obs.ParentID,
		&obs.StudentID,
		&obs.Description,
		&obs.DateOfBehavior,
		&obs.Status,
		&obs.ReviewedByID,
		&obs.ReviewedAt,
		&obs.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &obs, nil
}

func scanSelfReport(row pgx.Row) (*models.StudentSelfReport, error) {
	var report models.StudentSelfReport
	err := row.Scan(
		&report.ID,
		&report.StudentID,
		&report.Description,
		&report.DateOfBehavior,
		&report.Status,
		&report.ReviewedByID,
		&report.ReviewedAt,
		&report.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &report, nil
}

// CreateObservation inserts a pending parent observation and fills in its ID.
func (r *SubmissionRepository) CreateObservation(ctx context.Context, obs *models.ParentObservation) error {
	query := `
		INSERT INTO parent_observations (parent_id, student_id, description, date_of_behavior, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query,
		obs.ParentID, obs.StudentID, obs.Description, obs.DateOfBehavior, models.StatusPending,
	).Scan(&obs.ID, &obs.CreatedAt)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrUserNotFound
		}
		return fmt.Errorf("error creating parent observation: %w", err)
	}
	obs.Status = models.StatusPending
	return nil
}

// GetObservation retrieves a parent observation by ID.
func (r *SubmissionRepository) GetObservation(ctx context.Context, id int64) (*models.ParentObservation, error) {
	obs, err := scanObservation(r.db.QueryRow(ctx, observationSelect+` WHERE o.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("error retrieving parent observation: %w", err)
	}
	return obs, nil
}

// ListObservations retrieves observations visible under the scope filter,
// optionally narrowed by status, newest first.
func (r *SubmissionRepository) ListObservations(ctx context.Context, scope auth.ScopeFilter, status *models.SubmissionStatus, offset uint64, limit int) ([]*models.ParentObservation, error) {
	cols := scopeColumns{
		Subject:      "o.student_id",
		SubjectClass: "stu.school_class_id",
		Parent:       "o.parent_id",
	}
	conds, args, ok := appendScope(nil, nil, scope, cols)
	if !ok {
		return nil, nil
	}
	if status != nil {
		args = append(args, *status)
		conds = append(conds, fmt.Sprintf("o.status = $%d", len(args)))
	}

	query := observationSelect + whereClause(conds)
	args = append(args, limit, offset)
	query += fmt.Sprintf(" ORDER BY o.created_at DESC, o.id DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing parent observations: %w", err)
	}
	defer rows.Close()

	var list []*models.ParentObservation
	for rows.Next() {
		obs, err := scanObservation(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, obs)
	}
	return list, rows.Err()
}

// UpdateObservation persists the content fields of a pending observation.
// Reviewed observations are immutable; the update is conditional on status.
func (r *SubmissionRepository) UpdateObservation(ctx context.Context, obs *models.ParentObservation) error {
	query := `
		UPDATE parent_observations
		SET description = $1, date_of_behavior = $2
		WHERE id = $3 AND status = $4
	`

	cmdTag, err := r.db.Exec(ctx, query,
		obs.Description, obs.DateOfBehavior, obs.ID, models.StatusPending)
	if err != nil {
		return fmt.Errorf("error updating parent observation: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return r.observationUpdateFailure(ctx, obs.ID)
	}
	return nil
}

// ReviewObservation moves a pending observation to a terminal status. The
// update is conditional on the row still being pending, so concurrent reviews
// serialize on the database and the loser gets ErrSubmissionReviewed.
func (r *SubmissionRepository) ReviewObservation(ctx context.Context, id int64, status models.SubmissionStatus, reviewerID int64) (*models.ParentObservation, error) {
	query := `
		UPDATE parent_observations
		SET status = $1, reviewed_by_id = $2, reviewed_at = now()
		WHERE id = $3 AND status = $4
		RETURNING id, parent_id, student_id, description, date_of_behavior,
		          status, reviewed_by_id, reviewed_at, created_at
	`

	obs, err := scanObservation(r.db.QueryRow(ctx, query, status, reviewerID, id, models.StatusPending))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, r.observationUpdateFailure(ctx, id)
		}
		return nil, fmt.Errorf("error reviewing parent observation: %w", err)
	}
	return obs, nil
}

// DeleteObservation removes a pending observation.
func (r *SubmissionRepository) DeleteObservation(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx,
		`DELETE FROM parent_observations WHERE id = $1 AND status = $2`, id, models.StatusPending)
	if err != nil {
		return fmt.Errorf("error deleting parent observation: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return r.observationUpdateFailure(ctx, id)
	}
	return nil
}

func (r *SubmissionRepository) observationUpdateFailure(ctx context.Context, id int64) error {
	var exists bool
	if err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM parent_observations WHERE id = $1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("error checking parent observation: %w", err)
	}
	if exists {
		return apperrors.ErrSubmissionReviewed
	}
	return apperrors.ErrSubmissionNotFound
}

// CreateSelfReport inserts a pending student self-report and fills in its ID.
func (r *SubmissionRepository) CreateSelfReport(ctx context.Context, report *models.StudentSelfReport) error {
	query := `
		INSERT INTO student_self_reports (student_id, description, date_of_behavior, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query,
		report.StudentID, report.Description, report.DateOfBehavior, models.StatusPending,
	).Scan(&report.ID, &report.CreatedAt)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrUserNotFound
		}
		return fmt.Errorf("error creating student self-report: %w", err)
	}
	report.Status = models.StatusPending
	return nil
}

// GetSelfReport retrieves a student self-report by ID.
func (r *SubmissionRepository) GetSelfReport(ctx context.Context, id int64) (*models.StudentSelfReport, error) {
	report, err := scanSelfReport(r.db.QueryRow(ctx, selfReportSelect+` WHERE r.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("error retrieving student self-report: %w", err)
	}
	return report, nil
}

// ListSelfReports retrieves self-reports visible under the scope filter,
// optionally narrowed by status, newest first.
func (r *SubmissionRepository) ListSelfReports(ctx context.Context, scope auth.ScopeFilter, status *models.SubmissionStatus, offset uint64, limit int) ([]*models.StudentSelfReport, error) {
	cols := scopeColumns{
		Subject:      "r.student_id",
		SubjectClass: "stu.school_class_id",
	}
	conds, args, ok := appendScope(nil, nil, scope, cols)
	if !ok {
		return nil, nil
	}
	if status != nil {
		args = append(args, *status)
		conds = append(conds, fmt.Sprintf("r.status = $%d", len(args)))
	}

	query := selfReportSelect + whereClause(conds)
	args = append(args, limit, offset)
	query += fmt.Sprintf(" ORDER BY r.created_at DESC, r.id DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing student self-reports: %w", err)
	}
	defer rows.Close()

	var list []*models.StudentSelfReport
	for rows.Next() {
		report, err := scanSelfReport(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, report)
	}
	return list, rows.Err()
}

// UpdateSelfReport persists the content fields of a pending self-report.
func (r *SubmissionRepository) UpdateSelfReport(ctx context.Context, report *models.StudentSelfReport) error {
	query := `
		UPDATE student_self_reports
		SET description = $1, date_of_behavior = $2
		WHERE id = $3 AND status = $4
	`

	cmdTag, err := r.db.Exec(ctx, query,
		report.Description, report.DateOfBehavior, report.ID, models.StatusPending)
	if err != nil {
		return fmt.Errorf("error updating student self-report: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return r.selfReportUpdateFailure(ctx, report.ID)
	}
	return nil
}

// ReviewSelfReport moves a pending self-report to a terminal status, with the
// same conditional-update serialization as ReviewObservation.
func (r *SubmissionRepository) ReviewSelfReport(ctx context.Context, id int64, status models.SubmissionStatus, reviewerID int64) (*models.StudentSelfReport, error) {
	query := `
		UPDATE student_self_reports
		SET status = $1, reviewed_by_id = $2, reviewed_at = now()
		WHERE id = $3 AND status = $4
		RETURNING id, student_id, description, date_of_behavior,
		          status, reviewed_by_id, reviewed_at, created_at
	`

	report, err := scanSelfReport(r.db.QueryRow(ctx, query, status, reviewerID, id, models.StatusPending))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, r.selfReportUpdateFailure(ctx, id)
		}
		return nil, fmt.Errorf("error reviewing student self-report: %w", err)
	}
	return report, nil
}

// DeleteSelfReport removes a pending self-report.
func (r *SubmissionRepository) DeleteSelfReport(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx,
		`DELETE FROM student_self_reports WHERE id = $1 AND status = $2`, id, models.StatusPending)
	if err != nil {
		return fmt.Errorf("error deleting student self-report: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return r.selfReportUpdateFailure(ctx, id)
	}
	return nil
}

func (r *SubmissionRepository) selfReportUpdateFailure(ctx context.Context, id int64) error {
	var exists bool
	if err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM student_self_reports WHERE id = $1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("error checking student self-report: %w", err)
	}
	if exists {
		return apperrors.ErrSubmissionReviewed
	}
	return apperrors.ErrSubmissionNotFound
}

func (r *SubmissionRepository) engagementRows(ctx context.Context, query string, from, to time.Time) ([]*SubmissionTally, error) {
	rows, err := r.db.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("error querying submission tallies: %w", err)
	}
	defer rows.Close()

	var tallies []*SubmissionTally
	for rows.Next() {
		var t SubmissionTally
		if err := rows.Scan(&t.ActorID, &t.Status, &t.Count); err != nil {
			return nil, err
		}
		tallies = append(tallies, &t)
	}
	return tallies, rows.Err()
}

// SubmissionTally is one (actor, status) count used by engagement reports.
type SubmissionTally struct {
	ActorID int64
	Status  models.SubmissionStatus
	Count   int
}

// ObservationTallies groups observations by parent and status over a window.
func (r *SubmissionRepository) ObservationTallies(ctx context.Context, from, to time.Time) ([]*SubmissionTally, error) {
	query := `
		SELECT parent_id, status, COUNT(*)
		FROM parent_observations
		WHERE created_at >= $1 AND created_at <= $2
		GROUP BY parent_id, status
	`
	return r.engagementRows(ctx, query, from, to)
}

// SelfReportTallies groups self-reports by student and status over a window.
func (r *SubmissionRepository) SelfReportTallies(ctx context.Context, from, to time.Time) ([]*SubmissionTally, error) {
	query := `
		SELECT student_id, status, COUNT(*)
		FROM student_self_reports
		WHERE created_at >= $1 AND created_at <= $2
		GROUP BY student_id, status
	`
	return r.engagementRows(ctx, query, from, to)
}
