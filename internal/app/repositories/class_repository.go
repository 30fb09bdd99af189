package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/selinay/moraled/internal/app/auth"
	"github.com/selinay/moraled/internal/app/models"
	"github.com/selinay/moraled/internal/pkg/apperrors"
	"github.com/selinay/moraled/internal/pkg/dberrors"
)

// ClassRepository handles database operations for school classes and their
// class-teacher assignments.
type ClassRepository struct {
	db *pgxpool.Pool
}

// NewClassRepository creates a new class repository.
func NewClassRepository(db *pgxpool.Pool) *ClassRepository {
	return &ClassRepository{
		db: db,
	}
}

// Create inserts a new class and fills in its ID.
func (r *ClassRepository) Create(ctx context.Context, class *models.SchoolClass) error {
	query := `
		INSERT INTO school_classes (name, grade_id, class_type)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query, class.Name, class.GradeID, class.ClassType).Scan(&class.ID)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrClassAlreadyExists
		}
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrGradeNotFound
		}
		return fmt.Errorf("error creating class: %w", err)
	}
	return nil
}

// GetByID retrieves a class with its grade and class teachers.
func (r *ClassRepository) GetByID(ctx context.Context, id int64) (*models.SchoolClass, error) {
	query := `
		SELECT c.id, c.name, c.grade_id, c.class_type, g.id, g.name, g.description
		FROM school_classes c
		JOIN grades g ON g.id = c.grade_id
		WHERE c.id = $1
	`

	var class models.SchoolClass
	var grade models.Grade
	err := r.db.QueryRow(ctx, query, id).Scan(
		&class.ID, &class.Name, &class.GradeID, &class.ClassType,
		&grade.ID, &grade.Name, &grade.Description)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrClassNotFound
		}
		return nil, fmt.Errorf("error retrieving class: %w", err)
	}
	class.Grade = &grade

	class.ClassTeacherIDs, err = r.getClassTeacherIDs(ctx, id)
	if err != nil {
		return nil, err
	}
	return &class, nil
}

// List retrieves classes visible under the scope filter, optionally narrowed
// by grade and class type.
func (r *ClassRepository) List(ctx context.Context, scope auth.ScopeFilter, gradeID *int64, classType *models.ClassType) ([]*models.SchoolClass, error) {
	query := `
		SELECT c.id, c.name, c.grade_id, c.class_type, g.id, g.name, g.description
		FROM school_classes c
		JOIN grades g ON g.id = c.grade_id
	`
	var conds []string
	var args []interface{}
	var ok bool

	conds, args, ok = appendScope(conds, args, scope, scopeColumns{Class: "c.id"})
	if !ok {
		return nil, nil
	}
	if gradeID != nil {
		args = append(args, *gradeID)
		conds = append(conds, fmt.Sprintf("c.grade_id = $%d", len(args)))
	}
	if classType != nil {
		args = append(args, *classType)
		conds = append(conds, fmt.Sprintf("c.class_type = $%d", len(args)))
	}

	query += whereClause(conds) + ` ORDER BY g.name, c.name`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing classes: %w", err)
	}
	defer rows.Close()

	var classes []*models.SchoolClass
	for rows.Next() {
		var class models.SchoolClass
		var grade models.Grade
		if err := rows.Scan(
			&class.ID, &class.Name, &class.GradeID, &class.ClassType,
			&grade.ID, &grade.Name, &grade.Description); err != nil {
			return nil, err
		}
		class.Grade = &grade
		classes = append(classes, &class)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, class := range classes {
		class.ClassTeacherIDs, err = r.getClassTeacherIDs(ctx, class.ID)
		if err != nil {
			return nil, err
		}
	}
	return classes, nil
}

// Update persists a class's name, grade and type.
func (r *ClassRepository) Update(ctx context.Context, class *models.SchoolClass) error {
	cmdTag, err := r.db.Exec(ctx,
		`UPDATE school_classes SET name = $1, grade_id = $2, class_type = $3 WHERE id = $4`,
		class.Name, class.GradeID, class.ClassType, class.ID)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrClassAlreadyExists
		}
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrGradeNotFound
		}
		return fmt.Errorf("error updating class: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrClassNotFound
	}
	return nil
}

// Delete removes a class. Member users keep their accounts with the class
// reference cleared per schema.
func (r *ClassRepository) Delete(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM school_classes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting class: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrClassNotFound
	}
	return nil
}

// SetClassTeachers replaces the class-teacher assignments of a class.
func (r *ClassRepository) SetClassTeachers(ctx context.Context, classID int64, teacherIDs []int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM class_teachers WHERE class_id = $1`, classID); err != nil {
		return fmt.Errorf("error clearing class teachers: %w", err)
	}
	for _, teacherID := range teacherIDs {
		if _, err := tx.Exec(ctx,
			`INSERT INTO class_teachers (class_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			classID, teacherID); err != nil {
			if dberrors.IsForeignKeyViolation(err) {
				return apperrors.ErrUserNotFound
			}
			return fmt.Errorf("error assigning class teacher: %w", err)
		}
	}

	return tx.Commit(ctx)
}

// Exists checks that a class ID refers to an existing class.
func (r *ClassRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM school_classes WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking class existence: %w", err)
	}
	return exists, nil
}

// GetIDByName resolves a class name to its ID, for CSV import.
func (r *ClassRepository) GetIDByName(ctx context.Context, name string) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx,
		`SELECT id FROM school_classes WHERE name = $1`, name).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperrors.ErrClassNotFound
		}
		return 0, fmt.Errorf("error resolving class name: %w", err)
	}
	return id, nil
}

func (r *ClassRepository) getClassTeacherIDs(ctx context.Context, classID int64) ([]int64, error) {
	rows, err := r.db.Query(ctx,
		`SELECT user_id FROM class_teachers WHERE class_id = $1 ORDER BY user_id`, classID)
	if err != nil {
		return nil, fmt.Errorf("error listing class teachers: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
