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

// RelationshipRepository handles database operations for student-parent
// links.
type RelationshipRepository struct {
	db *pgxpool.Pool
}

// NewRelationshipRepository creates a new relationship repository.
func NewRelationshipRepository(db *pgxpool.Pool) *RelationshipRepository {
	return &RelationshipRepository{
		db: db,
	}
}

// GetOrCreate links a student to a parent, returning the existing row when
// the pair is already linked. The ON CONFLICT no-op keeps concurrent assigns
// from failing; existed reports whether the link predates this call.
func (r *RelationshipRepository) GetOrCreate(ctx context.Context, studentID, parentID int64) (rel *models.StudentParentRelationship, existed bool, err error) {
	query := `
		INSERT INTO student_parent_relationships (student_id, parent_id)
		VALUES ($1, $2)
		ON CONFLICT (student_id, parent_id) DO NOTHING
		RETURNING id, student_id, parent_id, created_at
	`

	rel = &models.StudentParentRelationship{}
	err = r.db.QueryRow(ctx, query, studentID, parentID).Scan(
		&rel.ID, &rel.StudentID, &rel.ParentID, &rel.CreatedAt)
	if err == nil {
		return rel, false, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		if dberrors.IsForeignKeyViolation(err) {
			return nil, false, apperrors.ErrUserNotFound
		}
		return nil, false, fmt.Errorf("error creating relationship: %w", err)
	}

	// Conflict path: the row already exists, fetch it.
	err = r.db.QueryRow(ctx,
		`SELECT id, student_id, parent_id, created_at
		 FROM student_parent_relationships
		 WHERE student_id = $1 AND parent_id = $2`, studentID, parentID,
	).Scan(&rel.ID, &rel.StudentID, &rel.ParentID, &rel.CreatedAt)
	if err != nil {
		return nil, false, fmt.Errorf("error retrieving relationship: %w", err)
	}
	return rel, true, nil
}

// GetByID retrieves a relationship with both users attached.
func (r *RelationshipRepository) GetByID(ctx context.Context, id int64) (*models.StudentParentRelationship, error) {
	rel, err := r.scanWithUsers(r.db.QueryRow(ctx, relationshipSelect+` WHERE rel.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrRelationshipMissing
		}
		return nil, fmt.Errorf("error retrieving relationship: %w", err)
	}
	return rel, nil
}

// List retrieves relationships visible under the scope filter with both users
// attached.
func (r *RelationshipRepository) List(ctx context.Context, scope auth.ScopeFilter, offset uint64, limit int) ([]*models.StudentParentRelationship, error) {
	cols := scopeColumns{
		Parent:  "rel.parent_id",
		Student: "rel.student_id",
	}
	conds, args, ok := appendScope(nil, nil, scope, cols)
	if !ok {
		return nil, nil
	}

	query := relationshipSelect + whereClause(conds)
	args = append(args, limit, offset)
	query += fmt.Sprintf(" ORDER BY rel.id LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing relationships: %w", err)
	}
	defer rows.Close()

	var list []*models.StudentParentRelationship
	for rows.Next() {
		rel, err := r.scanWithUsers(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, rel)
	}
	return list, rows.Err()
}

// Exists checks whether a student-parent pair is linked.
func (r *RelationshipRepository) Exists(ctx context.Context, studentID, parentID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM student_parent_relationships WHERE student_id = $1 AND parent_id = $2)`,
		studentID, parentID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking relationship: %w", err)
	}
	return exists, nil
}

// Delete removes a relationship.
func (r *RelationshipRepository) Delete(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM student_parent_relationships WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting relationship: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrRelationshipMissing
	}
	return nil
}

const relationshipSelect = `
	SELECT rel.id, rel.student_id, rel.parent_id, rel.created_at,
	       s.id, s.username, s.first_name, s.last_name, s.role,
	       p.id, p.username, p.first_name, p.last_name, p.role
	FROM student_parent_relationships rel
	JOIN users s ON s.id = rel.student_id
	JOIN users p ON p.id = rel.parent_id
`

func (r *RelationshipRepository) scanWithUsers(row pgx.Row) (*models.StudentParentRelationship, error) {
	var rel models.StudentParentRelationship
	var student, parent models.User
	err := row.Scan(
		&rel.ID, &rel.StudentID, &rel.ParentID, &rel.CreatedAt,
		&student.ID, &student.Username, &student.FirstName, &student.LastName, &student.Role,
		&parent.ID, &parent.Username, &parent.FirstName, &parent.LastName, &parent.Role,
	)
	if err != nil {
		return nil, err
	}
	rel.Student = &student
	rel.Parent = &parent
	return &rel, nil
}
