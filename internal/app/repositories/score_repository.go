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

// ScoreFilter narrows behavior score listings on top of the caller's scope.
type ScoreFilter struct {
	StudentID *int64
	ClassID   *int64
	GradeID   *int64
	ScoreType *models.ScoreType
	From      *time.Time
	To        *time.Time
}

// ScoreRepository handles database operations for behavior scores.
type ScoreRepository struct {
	db *pgxpool.Pool
}

// NewScoreRepository creates a new score repository.
func NewScoreRepository(db *pgxpool.Pool) *ScoreRepository {
	return &ScoreRepository{
		db: db,
	}
}

// scoreSelect joins the rule hierarchy so each row carries its dimension,
// and the student so subject-class scoping can apply.
const scoreSelect = `
	SELECT s.id, s.student_id, s.rule_sub_item_id, s.recorded_by_id, s.school_class_id,
	       s.score_type, s.points, s.comment, s.date_of_behavior, s.created_at,
	       d.id, d.name
	FROM behavior_scores s
	JOIN rule_sub_items si ON si.id = s.rule_sub_item_id
	JOIN rule_dimensions d ON d.id = si.dimension_id
	JOIN users stu ON stu.id = s.student_id
`

var scoreScopeColumns = scopeColumns{
	Class:        "s.school_class_id",
	Subject:      "s.student_id",
	SubjectClass: "stu.school_class_id",
}

func scanScore(row pgx.Row) (*models.BehaviorScore, error) {
	var score models.BehaviorScore
	err := row.Scan(
		&score.ID,
		&score.StudentID,
		&score.RuleSubItemID,
		&score.RecordedByID,
		&score.SchoolClassID,
		&score.ScoreType,
		&score.Points,
		&score.Comment,
		&score.DateOfBehavior,
		&score.CreatedAt,
		&score.DimensionID,
		&score.DimensionName,
	)
	if err != nil {
		return nil, err
	}
	return &score, nil
}

// Create inserts a new behavior score and fills in its ID.
func (r *ScoreRepository) Create(ctx context.Context, score *models.BehaviorScore) error {
	query := `
		INSERT INTO behavior_scores (student_id, rule_sub_item_id, recorded_by_id, school_class_id,
		                             score_type, points, comment, date_of_behavior)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query,
		score.StudentID, score.RuleSubItemID, score.RecordedByID, score.SchoolClassID,
		score.ScoreType, score.Points, score.Comment, score.DateOfBehavior,
	).Scan(&score.ID, &score.CreatedAt)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrSubItemNotFound
		}
		return fmt.Errorf("error creating behavior score: %w", err)
	}
	return nil
}

// GetByID retrieves a behavior score with its dimension.
func (r *ScoreRepository) GetByID(ctx context.Context, id int64) (*models.BehaviorScore, error) {
	score, err := scanScore(r.db.QueryRow(ctx, scoreSelect+` WHERE s.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrScoreNotFound
		}
		return nil, fmt.Errorf("error retrieving behavior score: %w", err)
	}
	return score, nil
}

// List retrieves scores visible under the scope filter, narrowed by the
// optional filter fields, newest behavior first.
func (r *ScoreRepository) List(ctx context.Context, scope auth.ScopeFilter, filter ScoreFilter, offset uint64, limit int) ([]*models.BehaviorScore, error) {
	conds, args, ok := r.buildConds(scope, filter)
	if !ok {
		return nil, nil
	}

	query := scoreSelect + whereClause(conds)
	args = append(args, limit, offset)
	query += fmt.Sprintf(" ORDER BY s.date_of_behavior DESC, s.id DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing behavior scores: %w", err)
	}
	defer rows.Close()

	var scores []*models.BehaviorScore
	for rows.Next() {
		score, err := scanScore(rows)
		if err != nil {
			return nil, err
		}
		scores = append(scores, score)
	}
	return scores, rows.Err()
}

// Count counts scores matching the same scope and filter as List.
func (r *ScoreRepository) Count(ctx context.Context, scope auth.ScopeFilter, filter ScoreFilter) (int64, error) {
	conds, args, ok := r.buildConds(scope, filter)
	if !ok {
		return 0, nil
	}

	query := `
		SELECT COUNT(*)
		FROM behavior_scores s
		JOIN rule_sub_items si ON si.id = s.rule_sub_item_id
		JOIN rule_dimensions d ON d.id = si.dimension_id
		JOIN users stu ON stu.id = s.student_id
	` + whereClause(conds)

	var total int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("error counting behavior scores: %w", err)
	}
	return total, nil
}

// ListForReport retrieves all scores matching the scope and filter without
// pagination, for aggregation.
func (r *ScoreRepository) ListForReport(ctx context.Context, scope auth.ScopeFilter, filter ScoreFilter) ([]*models.BehaviorScore, error) {
	conds, args, ok := r.buildConds(scope, filter)
	if !ok {
		return nil, nil
	}

	query := scoreSelect + whereClause(conds) + ` ORDER BY s.date_of_behavior, s.id`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing behavior scores for report: %w", err)
	}
	defer rows.Close()

	var scores []*models.BehaviorScore
	for rows.Next() {
		score, err := scanScore(rows)
		if err != nil {
			return nil, err
		}
		scores = append(scores, score)
	}
	return scores, rows.Err()
}

// Update persists the mutable fields of a behavior score.
func (r *ScoreRepository) Update(ctx context.Context, score *models.BehaviorScore) error {
	query := `
		UPDATE behavior_scores
		SET rule_sub_item_id = $1, score_type = $2, points = $3, comment = $4, date_of_behavior = $5
		WHERE id = $6
	`

	cmdTag, err := r.db.Exec(ctx, query,
		score.RuleSubItemID, score.ScoreType, score.Points, score.Comment, score.DateOfBehavior, score.ID)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrSubItemNotFound
		}
		return fmt.Errorf("error updating behavior score: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrScoreNotFound
	}
	return nil
}

// Delete removes a behavior score.
func (r *ScoreRepository) Delete(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM behavior_scores WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting behavior score: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrScoreNotFound
	}
	return nil
}

func (r *ScoreRepository) buildConds(scope auth.ScopeFilter, filter ScoreFilter) ([]string, []interface{}, bool) {
	var conds []string
	var args []interface{}
	var ok bool

	conds, args, ok = appendScope(conds, args, scope, scoreScopeColumns)
	if !ok {
		return nil, nil, false
	}
	if filter.StudentID != nil {
		args = append(args, *filter.StudentID)
		conds = append(conds, fmt.Sprintf("s.student_id = $%d", len(args)))
	}
	if filter.ClassID != nil {
		args = append(args, *filter.ClassID)
		conds = append(conds, fmt.Sprintf("s.school_class_id = $%d", len(args)))
	}
	if filter.GradeID != nil {
		args = append(args, *filter.GradeID)
		conds = append(conds, fmt.Sprintf("s.school_class_id IN (SELECT id FROM school_classes WHERE grade_id = $%d)", len(args)))
	}
	if filter.ScoreType != nil {
		args = append(args, *filter.ScoreType)
		conds = append(conds, fmt.Sprintf("s.score_type = $%d", len(args)))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		conds = append(conds, fmt.Sprintf("s.date_of_behavior >= $%d", len(args)))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		conds = append(conds, fmt.Sprintf("s.date_of_behavior <= $%d", len(args)))
	}
	return conds, args, true
}
