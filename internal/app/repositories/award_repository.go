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

// AwardRepository handles database operations for student awards.
type AwardRepository struct {
	db *pgxpool.Pool
}

// NewAwardRepository creates a new award repository.
func NewAwardRepository(db *pgxpool.Pool) *AwardRepository {
	return &AwardRepository{
		db: db,
	}
}

const awardSelect = `
	SELECT a.id, a.student_id, a.name, a.award_type, a.level, a.awarded_by_id, a.award_date, a.created_at
	FROM awards a
	JOIN users stu ON stu.id = a.student_id
`

func scanAward(row pgx.Row) (*models.Award, error) {
	var award models.Award
	err := row.Scan(
		&award.ID,
		&award.StudentID,
		&award.Name,
		&award.AwardType,
		&award.Level,
		&award.AwardedByID,
		&award.AwardDate,
		&award.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &award, nil
}

// Create inserts a new award and fills in its ID.
func (r *AwardRepository) Create(ctx context.Context, award *models.Award) error {
	query := `
		INSERT INTO awards (student_id, name, award_type, level, awarded_by_id, award_date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query,
		award.StudentID, award.Name, award.AwardType, award.Level, award.AwardedByID, award.AwardDate,
	).Scan(&award.ID, &award.CreatedAt)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrUserNotFound
		}
		return fmt.Errorf("error creating award: %w", err)
	}
	return nil
}

// GetByID retrieves an award by ID.
func (r *AwardRepository) GetByID(ctx context.Context, id int64) (*models.Award, error) {
	award, err := scanAward(r.db.QueryRow(ctx, awardSelect+` WHERE a.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrAwardNotFound
		}
		return nil, fmt.Errorf("error retrieving award: %w", err)
	}
	return award, nil
}

// List retrieves awards visible under the scope filter, optionally narrowed
// by student and date window, newest first.
func (r *AwardRepository) List(ctx context.Context, scope auth.ScopeFilter, studentID *int64, from, to *time.Time, offset uint64, limit int) ([]*models.Award, error) {
	cols := scopeColumns{
		Subject:      "a.student_id",
		SubjectClass: "stu.school_class_id",
	}
	conds, args, ok := appendScope(nil, nil, scope, cols)
	if !ok {
		return nil, nil
	}
	if studentID != nil {
		args = append(args, *studentID)
		conds = append(conds, fmt.Sprintf("a.student_id = $%d", len(args)))
	}
	if from != nil {
		args = append(args, *from)
		conds = append(conds, fmt.Sprintf("a.award_date >= $%d", len(args)))
	}
	if to != nil {
		args = append(args, *to)
		conds = append(conds, fmt.Sprintf("a.award_date <= $%d", len(args)))
	}

	query := awardSelect + whereClause(conds)
	args = append(args, limit, offset)
	query += fmt.Sprintf(" ORDER BY a.award_date DESC, a.id DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing awards: %w", err)
	}
	defer rows.Close()

	var awards []*models.Award
	for rows.Next() {
		award, err := scanAward(rows)
		if err != nil {
			return nil, err
		}
		awards = append(awards, award)
	}
	return awards, rows.Err()
}

// ListForReport retrieves all awards in a window with the student's name,
// for award analytics.
func (r *AwardRepository) ListForReport(ctx context.Context, from, to time.Time) ([]*AwardReportRow, error) {
	query := `
		SELECT a.id, a.student_id, a.award_type, a.level, a.award_date,
		       stu.first_name, stu.last_name
		FROM awards a
		JOIN users stu ON stu.id = a.student_id
		WHERE a.award_date >= $1 AND a.award_date <= $2
		ORDER BY a.award_date, a.id
	`

	rows, err := r.db.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("error listing awards for report: %w", err)
	}
	defer rows.Close()

	var out []*AwardReportRow
	for rows.Next() {
		var row AwardReportRow
		if err := rows.Scan(
			&row.ID, &row.StudentID, &row.AwardType, &row.Level, &row.AwardDate,
			&row.StudentFirstName, &row.StudentLastName); err != nil {
			return nil, err
		}
		out = append(out, &row)
	}
	return out, rows.Err()
}

// AwardReportRow is an award joined with its student's name for analytics.
type AwardReportRow struct {
	ID               int64
	StudentID        int64
	AwardType        models.AwardType
	Level            *int
	AwardDate        time.Time
	StudentFirstName string
	StudentLastName  string
}

// Update persists the mutable fields of an award.
func (r *AwardRepository) Update(ctx context.Context, award *models.Award) error {
	query := `
		UPDATE awards
		SET name = $1, award_type = $2, level = $3, award_date = $4
		WHERE id = $5
	`

	cmdTag, err := r.db.Exec(ctx, query,
		award.Name, award.AwardType, award.Level, award.AwardDate, award.ID)
	if err != nil {
		return fmt.Errorf("error updating award: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrAwardNotFound
	}
	return nil
}

// Delete removes an award.
func (r *AwardRepository) Delete(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM awards WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting award: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrAwardNotFound
	}
	return nil
}
