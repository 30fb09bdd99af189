package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/selinay/moraled/internal/app/models"
	"github.com/selinay/moraled/internal/pkg/apperrors"
	"github.com/selinay/moraled/internal/pkg/dberrors"
)

// GradeRepository handles database operations for grade levels.
type GradeRepository struct {
	db *pgxpool.Pool
}

// NewGradeRepository creates a new grade repository.
func NewGradeRepository(db *pgxpool.Pool) *GradeRepository {
	return &GradeRepository{
		db: db,
	}
}

// Create inserts a new grade and fills in its ID.
func (r *GradeRepository) Create(ctx context.Context, grade *models.Grade) error {
	query := `
		INSERT INTO grades (name, description)
		VALUES ($1, $2)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query, grade.Name, grade.Description).Scan(&grade.ID)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrGradeAlreadyExists
		}
		return fmt.Errorf("error creating grade: %w", err)
	}
	return nil
}

// GetByID retrieves a grade by ID.
func (r *GradeRepository) GetByID(ctx context.Context, id int64) (*models.Grade, error) {
	var grade models.Grade
	err := r.db.QueryRow(ctx,
		`SELECT id, name, description FROM grades WHERE id = $1`, id,
	).Scan(&grade.ID, &grade.Name, &grade.Description)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrGradeNotFound
		}
		return nil, fmt.Errorf("error retrieving grade: %w", err)
	}
	return &grade, nil
}

// List retrieves all grades ordered by name.
func (r *GradeRepository) List(ctx context.Context) ([]*models.Grade, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, description FROM grades ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("error listing grades: %w", err)
	}
	defer rows.Close()

	var grades []*models.Grade
	for rows.Next() {
		var grade models.Grade
		if err := rows.Scan(&grade.ID, &grade.Name, &grade.Description); err != nil {
			return nil, err
		}
		grades = append(grades, &grade)
	}
	return grades, rows.Err()
}

// Update persists a grade's name and description.
func (r *GradeRepository) Update(ctx context.Context, grade *models.Grade) error {
	cmdTag, err := r.db.Exec(ctx,
		`UPDATE grades SET name = $1, description = $2 WHERE id = $3`,
		grade.Name, grade.Description, grade.ID)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrGradeAlreadyExists
		}
		return fmt.Errorf("error updating grade: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrGradeNotFound
	}
	return nil
}

// Delete removes a grade. Its classes cascade per schema.
func (r *GradeRepository) Delete(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM grades WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting grade: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrGradeNotFound
	}
	return nil
}
