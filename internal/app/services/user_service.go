package services

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	authz "github.com/selinay/moraled/internal/app/auth"
	"github.com/selinay/moraled/internal/app/models"
	"github.com/selinay/moraled/internal/app/models/dto"
	"github.com/selinay/moraled/internal/app/repositories"
	"github.com/selinay/moraled/internal/pkg/apperrors"
	"github.com/selinay/moraled/internal/pkg/auth"
)

// csvHeader is the import/export column set, in order.
var csvHeader = []string{"username", "email", "first_name", "last_name", "role", "school_class", "password"}

// userImportStore is the storage surface the CSV import needs; satisfied by
// the user and class repositories.
type userImportStore interface {
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
}

// classResolver resolves class references in import rows.
type classResolver interface {
	GetIDByName(ctx context.Context, name string) (int64, error)
	Exists(ctx context.Context, id int64) (bool, error)
}

// UserService handles user management operations.
type UserService struct {
	userRepo  *repositories.UserRepository
	classRepo *repositories.ClassRepository
	logger    zerolog.Logger
}

// NewUserService creates a new UserService.
func NewUserService(userRepo *repositories.UserRepository, classRepo *repositories.ClassRepository, logger zerolog.Logger) *UserService {
	return &UserService{
		userRepo:  userRepo,
		classRepo: classRepo,
		logger:    logger,
	}
}

// CreateUser creates a user from a request.
func (s *UserService) CreateUser(ctx context.Context, req *dto.CreateUserRequest) (*models.User, error) {
	if !req.Role.Valid() {
		return nil, apperrors.ErrRoleInvalid
	}
	if req.SchoolClassID != nil {
		exists, err := s.classRepo.Exists(ctx, *req.SchoolClassID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, apperrors.ErrClassNotFound
		}
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		Username:      req.Username,
		Email:         req.Email,
		Password:      hashed,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Role:          req.Role,
		SchoolClassID: req.SchoolClassID,
		IsActive:      true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// GetUser retrieves a user with affiliations attached.
func (s *UserService) GetUser(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.Role == models.RoleTeachingTeacher {
		user.TeachingClassIDs, err = s.userRepo.GetTeachingClassIDs(ctx, id)
		if err != nil {
			return nil, err
		}
	}
	return user, nil
}

// ListUsers retrieves a page of users with the total count.
func (s *UserService) ListUsers(ctx context.Context, role *models.Role, classID *int64, offset uint64, limit int) ([]*models.User, int64, error) {
	users, err := s.userRepo.List(ctx, role, classID, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.userRepo.Count(ctx, role, classID)
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// UpdateUser applies a partial update. Only non-nil fields change.
func (s *UserService) UpdateUser(ctx context.Context, id int64, req *dto.UpdateUserRequest) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.Password != nil {
		hashed, err := auth.HashPassword(*req.Password)
		if err != nil {
			return nil, fmt.Errorf("error hashing password: %w", err)
		}
		user.Password = hashed
	}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Role != nil {
		if !req.Role.Valid() {
			return nil, apperrors.ErrRoleInvalid
		}
		user.Role = *req.Role
	}
	if req.SchoolClassID != nil {
		if *req.SchoolClassID == 0 {
			user.SchoolClassID = nil
		} else {
			exists, err := s.classRepo.Exists(ctx, *req.SchoolClassID)
			if err != nil {
				return nil, err
			}
			if !exists {
				return nil, apperrors.ErrClassNotFound
			}
			user.SchoolClassID = req.SchoolClassID
		}
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteUser removes a user.
func (s *UserService) DeleteUser(ctx context.Context, id int64) error {
	return s.userRepo.Delete(ctx, id)
}

// SetTeachingClasses replaces a teaching teacher's class assignments.
func (s *UserService) SetTeachingClasses(ctx context.Context, userID int64, classIDs []int64) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.Role != models.RoleTeachingTeacher {
		return apperrors.NewBadRequestError("user is not a teaching teacher")
	}
	return s.userRepo.SetTeachingClasses(ctx, userID, classIDs)
}

// BuildViewer assembles the scoping identity for a user, loading only the
// affiliations the role consults.
func (s *UserService) BuildViewer(ctx context.Context, user *models.User) (authz.Viewer, error) {
	viewer := authz.Viewer{
		UserID:      user.ID,
		Role:        user.Role,
		HomeClassID: user.SchoolClassID,
	}

	var err error
	switch user.Role {
	case models.RoleTeachingTeacher:
		viewer.TeachingClassIDs, err = s.userRepo.GetTeachingClassIDs(ctx, user.ID)
	case models.RoleClassTeacher:
		viewer.LedClassIDs, err = s.userRepo.GetLedClassIDs(ctx, user.ID)
	case models.RoleParent:
		viewer.ChildIDs, err = s.userRepo.GetChildIDs(ctx, user.ID)
	}
	if err != nil {
		return authz.Viewer{}, err
	}
	return viewer, nil
}

// ImportUsersCSV processes a user CSV. Rows fail independently; a bad row is
// reported and the rest of the file still commits.
func (s *UserService) ImportUsersCSV(ctx context.Context, input io.Reader) (*dto.ImportResult, error) {
	return importUsers(ctx, csv.NewReader(input), s.userRepo, s.classRepo)
}

// importUsers is the row-level import logic, split from the reader setup so
// tests can exercise it with fake stores.
func importUsers(ctx context.Context, reader *csv.Reader, users userImportStore, classes classResolver) (*dto.ImportResult, error) {
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, apperrors.NewBadRequestError("empty or unreadable CSV file")
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"username", "role"} {
		if _, ok := cols[required]; !ok {
			return nil, apperrors.NewBadRequestError(fmt.Sprintf("CSV is missing the %q column", required))
		}
	}

	result := &dto.ImportResult{}
	rowNum := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		rowNum++
		if err != nil {
			result.Errors = append(result.Errors, dto.ImportRowError{Row: rowNum, Message: "malformed CSV row"})
			continue
		}

		field := func(name string) string {
			idx, ok := cols[name]
			if !ok || idx >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[idx])
		}

		if rowErr := importRow(ctx, rowNum, field, users, classes, result); rowErr != nil {
			result.Errors = append(result.Errors, *rowErr)
		}
	}
	return result, nil
}

func importRow(ctx context.Context, rowNum int, field func(string) string, users userImportStore, classes classResolver, result *dto.ImportResult) *dto.ImportRowError {
	username := field("username")
	if username == "" {
		return &dto.ImportRowError{Row: rowNum, Field: "username", Message: "username is required"}
	}

	role := models.Role(field("role"))
	if !role.Valid() {
		return &dto.ImportRowError{Row: rowNum, Field: "role", Message: fmt.Sprintf("unknown role %q", role)}
	}

	// Students may carry a class reference: empty clears it, anything else
	// must resolve to an existing class.
	var classID *int64
	if role == models.RoleStudent {
		if ref := field("school_class"); ref != "" {
			id, err := resolveClassRef(ctx, classes, ref)
			if err != nil {
				return &dto.ImportRowError{Row: rowNum, Field: "school_class", Message: fmt.Sprintf("school class %q not found", ref)}
			}
			classID = &id
		}
	}

	existing, err := users.GetByUsername(ctx, username)
	switch {
	case err == nil:
		// Existing username: partial update.
		existing.Email = orKeep(field("email"), existing.Email)
		existing.FirstName = orKeep(field("first_name"), existing.FirstName)
		existing.LastName = orKeep(field("last_name"), existing.LastName)
		existing.Role = role
		if role == models.RoleStudent {
			existing.SchoolClassID = classID
		}
		if password := field("password"); password != "" {
			hashed, err := auth.HashPassword(password)
			if err != nil {
				return &dto.ImportRowError{Row: rowNum, Field: "password", Message: "could not hash password"}
			}
			existing.Password = hashed
		}
		if err := users.Update(ctx, existing); err != nil {
			return &dto.ImportRowError{Row: rowNum, Message: err.Error()}
		}
		result.UpdatedCount++
		return nil

	case errors.Is(err, apperrors.ErrUserNotFound):
		password := field("password")
		if password == "" {
			return &dto.ImportRowError{Row: rowNum, Field: "password", Message: "password is required for new users"}
		}
		hashed, err := auth.HashPassword(password)
		if err != nil {
			return &dto.ImportRowError{Row: rowNum, Field: "password", Message: "could not hash password"}
		}
		user := &models.User{
			Username:      username,
			Email:         field("email"),
			Password:      hashed,
			FirstName:     field("first_name"),
			LastName:      field("last_name"),
			Role:          role,
			SchoolClassID: classID,
			IsActive:      true,
		}
		if err := users.Create(ctx, user); err != nil {
			return &dto.ImportRowError{Row: rowNum, Message: err.Error()}
		}
		result.CreatedCount++
		return nil

	default:
		return &dto.ImportRowError{Row: rowNum, Message: err.Error()}
	}
}

// resolveClassRef accepts a class ID or a class name.
func resolveClassRef(ctx context.Context, classes classResolver, ref string) (int64, error) {
	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		exists, err := classes.Exists(ctx, id)
		if err != nil {
			return 0, err
		}
		if !exists {
			return 0, apperrors.ErrClassNotFound
		}
		return id, nil
	}
	return classes.GetIDByName(ctx, ref)
}

func orKeep(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

// ExportUsersCSV writes every user to w in the import column layout. The
// password column is always blank.
func (s *UserService) ExportUsersCSV(ctx context.Context, w io.Writer) error {
	users, err := s.userRepo.ListAll(ctx)
	if err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return fmt.Errorf("error writing CSV header: %w", err)
	}
	for _, user := range users {
		class := ""
		if user.SchoolClassID != nil {
			class = strconv.FormatInt(*user.SchoolClassID, 10)
		}
		record := []string{user.Username, user.Email, user.FirstName, user.LastName, string(user.Role), class, ""}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("error writing CSV row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// PromoteStudents reassigns the listed students to the target class. Students
// not matching the optional source filters are silently skipped; per-student
// failures never abort the rest of the batch.
func (s *UserService) PromoteStudents(ctx context.Context, req *dto.PromoteStudentsRequest) (*dto.PromoteStudentsResult, error) {
	target, err := s.classRepo.GetByID(ctx, req.TargetClassID)
	if err != nil {
		return nil, err
	}
	if req.TargetGradeID != nil && target.GradeID != *req.TargetGradeID {
		return nil, apperrors.NewBadRequestError("target class does not belong to the target grade")
	}

	students, err := s.userRepo.ListStudentsByIDs(ctx, req.StudentIDs)
	if err != nil {
		return nil, err
	}

	var sourceClassIDs map[int64]bool
	if req.SourceGradeID != nil {
		classes, err := s.classRepo.List(ctx, authz.ScopeFilter{All: true}, req.SourceGradeID, nil)
		if err != nil {
			return nil, err
		}
		sourceClassIDs = make(map[int64]bool, len(classes))
		for _, c := range classes {
			sourceClassIDs[c.ID] = true
		}
	}

	return applyPromotion(ctx, students, req.SourceClassID, sourceClassIDs, target.ID, s.userRepo.UpdateSchoolClass), nil
}

// applyPromotion reassigns each candidate student, skipping those outside the
// source filters and isolating per-student failures.
func applyPromotion(
	ctx context.Context,
	students []*models.User,
	sourceClassID *int64,
	sourceClassIDs map[int64]bool,
	targetClassID int64,
	reassign func(ctx context.Context, userID int64, classID *int64) error,
) *dto.PromoteStudentsResult {
	result := &dto.PromoteStudentsResult{}
	for _, student := range students {
		if sourceClassID != nil {
			if student.SchoolClassID == nil || *student.SchoolClassID != *sourceClassID {
				continue
			}
		}
		if sourceClassIDs != nil {
			if student.SchoolClassID == nil || !sourceClassIDs[*student.SchoolClassID] {
				continue
			}
		}

		if err := reassign(ctx, student.ID, &targetClassID); err != nil {
			if result.Errors == nil {
				result.Errors = make(map[int64]string)
			}
			result.Errors[student.ID] = err.Error()
			continue
		}
		result.UpdatedCount++
	}
	return result
}
