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

// UserRepository handles database operations for users and their class
// affiliations.
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository creates a new user repository.
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

const userColumns = `id, username, email, password, first_name, last_name, role, school_class_id, is_active, date_joined`

func scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.Password,
		&user.FirstName,
		&user.LastName,
		&user.Role,
		&user.SchoolClassID,
		&user.IsActive,
		&user.DateJoined,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Create inserts a new user and fills in its ID.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (username, email, password, first_name, last_name, role, school_class_id, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, date_joined
	`

	err := r.db.QueryRow(ctx, query,
		user.Username, user.Email, user.Password, user.FirstName, user.LastName,
		user.Role, user.SchoolClassID, user.IsActive,
	).Scan(&user.ID, &user.DateJoined)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "users_username_key") {
			return apperrors.ErrUsernameAlreadyExists
		}
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrClassNotFound
		}
		return fmt.Errorf("error creating user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by ID.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error retrieving user: %w", err)
	}

	return user, nil
}

// GetByUsername retrieves a user by username.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`

	user, err := scanUser(r.db.QueryRow(ctx, query, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error retrieving user by username: %w", err)
	}

	return user, nil
}

// UsernameExists checks whether a username is already taken.
func (r *UserRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`, username).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking username existence: %w", err)
	}
	return exists, nil
}

// List retrieves users, optionally filtered by role and/or home class.
func (r *UserRepository) List(ctx context.Context, role *models.Role, classID *int64, offset uint64, limit int) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users`
	var conds []string
	var args []interface{}

	if role != nil {
		args = append(args, *role)
		conds = append(conds, fmt.Sprintf("role = $%d", len(args)))
	}
	if classID != nil {
		args = append(args, *classID)
		conds = append(conds, fmt.Sprintf("school_class_id = $%d", len(args)))
	}

	query += whereClause(conds)
	args = append(args, limit, offset)
	query += fmt.Sprintf(" ORDER BY date_joined DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// Count counts users matching the same optional filters as List.
func (r *UserRepository) Count(ctx context.Context, role *models.Role, classID *int64) (int64, error) {
	query := `SELECT COUNT(*) FROM users`
	var conds []string
	var args []interface{}

	if role != nil {
		args = append(args, *role)
		conds = append(conds, fmt.Sprintf("role = $%d", len(args)))
	}
	if classID != nil {
		args = append(args, *classID)
		conds = append(conds, fmt.Sprintf("school_class_id = $%d", len(args)))
	}

	var total int64
	err := r.db.QueryRow(ctx, query+whereClause(conds), args...).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("error counting users: %w", err)
	}
	return total, nil
}

// Update persists the mutable fields of a user.
func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users
		SET email = $1, password = $2, first_name = $3, last_name = $4,
		    role = $5, school_class_id = $6, is_active = $7
		WHERE id = $8
	`

	cmdTag, err := r.db.Exec(ctx, query,
		user.Email, user.Password, user.FirstName, user.LastName,
		user.Role, user.SchoolClassID, user.IsActive, user.ID)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrClassNotFound
		}
		return fmt.Errorf("error updating user: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// UpdateSchoolClass reassigns (or clears) a user's home class.
func (r *UserRepository) UpdateSchoolClass(ctx context.Context, userID int64, classID *int64) error {
	cmdTag, err := r.db.Exec(ctx,
		`UPDATE users SET school_class_id = $1 WHERE id = $2`, classID, userID)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrClassNotFound
		}
		return fmt.Errorf("error updating school class: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// Delete removes a user. Related rows cascade per schema.
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting user: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// GetTeachingClassIDs lists the subject classes a teaching teacher instructs.
func (r *UserRepository) GetTeachingClassIDs(ctx context.Context, userID int64) ([]int64, error) {
	return r.queryIDs(ctx,
		`SELECT class_id FROM user_teaching_classes WHERE user_id = $1 ORDER BY class_id`, userID)
}

// SetTeachingClasses replaces a teaching teacher's class set.
func (r *UserRepository) SetTeachingClasses(ctx context.Context, userID int64, classIDs []int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM user_teaching_classes WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("error clearing teaching classes: %w", err)
	}
	for _, classID := range classIDs {
		if _, err := tx.Exec(ctx,
			`INSERT INTO user_teaching_classes (user_id, class_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			userID, classID); err != nil {
			if dberrors.IsForeignKeyViolation(err) {
				return apperrors.ErrClassNotFound
			}
			return fmt.Errorf("error assigning teaching class: %w", err)
		}
	}

	return tx.Commit(ctx)
}

// GetLedClassIDs lists the classes a class teacher leads.
func (r *UserRepository) GetLedClassIDs(ctx context.Context, userID int64) ([]int64, error) {
	return r.queryIDs(ctx,
		`SELECT class_id FROM class_teachers WHERE user_id = $1 ORDER BY class_id`, userID)
}

// GetChildIDs lists the students linked to a parent.
func (r *UserRepository) GetChildIDs(ctx context.Context, parentID int64) ([]int64, error) {
	return r.queryIDs(ctx,
		`SELECT student_id FROM student_parent_relationships WHERE parent_id = $1 ORDER BY student_id`, parentID)
}

// ListParentIDs lists the parents linked to a student.
func (r *UserRepository) ListParentIDs(ctx context.Context, studentID int64) ([]int64, error) {
	return r.queryIDs(ctx,
		`SELECT parent_id FROM student_parent_relationships WHERE student_id = $1 ORDER BY parent_id`, studentID)
}

// ListIDsByRole lists the IDs of all users holding a role.
func (r *UserRepository) ListIDsByRole(ctx context.Context, role models.Role) ([]int64, error) {
	return r.queryIDs(ctx, `SELECT id FROM users WHERE role = $1 ORDER BY id`, role)
}

// ListStudentsByIDs retrieves the subset of the given IDs that are students.
func (r *UserRepository) ListStudentsByIDs(ctx context.Context, ids []int64) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE role = $1 AND id = ANY($2) ORDER BY id`

	rows, err := r.db.Query(ctx, query, models.RoleStudent, ids)
	if err != nil {
		return nil, fmt.Errorf("error listing students: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// ListAll streams every user, for CSV export.
func (r *UserRepository) ListAll(ctx context.Context) ([]*models.User, error) {
	rows, err := r.db.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY username`)
	if err != nil {
		return nil, fmt.Errorf("error listing users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (r *UserRepository) queryIDs(ctx context.Context, query string, arg interface{}) ([]int64, error) {
	rows, err := r.db.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("error querying ids: %w", err)
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

func whereClause(conds []string) string {
	if len(conds) == 0 {
		return ""
	}
	out := " WHERE " + conds[0]
	for _, c := range conds[1:] {
		out += " AND " + c
	}
	return out
}
