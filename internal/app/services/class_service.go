package services

import (
	"context"
	"strings"

	authz "github.com/selinay/moraled/internal/app/auth"
	"github.com/selinay/moraled/internal/app/models"
	"github.com/selinay/moraled/internal/app/models/dto"
	"github.com/selinay/moraled/internal/app/repositories"
	"github.com/selinay/moraled/internal/pkg/apperrors"
)

// ClassService handles school class operations.
type ClassService struct {
	classRepo *repositories.ClassRepository
	gradeRepo *repositories.GradeRepository
	userRepo  *repositories.UserRepository
}

// NewClassService creates a new ClassService.
func NewClassService(
	classRepo *repositories.ClassRepository,
	gradeRepo *repositories.GradeRepository,
	userRepo *repositories.UserRepository,
) *ClassService {
	return &ClassService{
		classRepo: classRepo,
		gradeRepo: gradeRepo,
		userRepo:  userRepo,
	}
}

// CreateClass creates a school class in a grade.
func (s *ClassService) CreateClass(ctx context.Context, req *dto.CreateClassRequest) (*models.SchoolClass, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, apperrors.NewValidationError("class name cannot be empty")
	}
	if _, err := s.gradeRepo.GetByID(ctx, req.GradeID); err != nil {
		return nil, err
	}

	classType := req.ClassType
	if classType == "" {
		classType = models.ClassTypeHome
	}

	class := &models.SchoolClass{
		Name:      strings.TrimSpace(req.Name),
		GradeID:   req.GradeID,
		ClassType: classType,
	}
	if err := s.classRepo.Create(ctx, class); err != nil {
		return nil, err
	}
	return s.classRepo.GetByID(ctx, class.ID)
}

// GetClass retrieves a class visible to the viewer.
func (s *ClassService) GetClass(ctx context.Context, viewer authz.Viewer, id int64) (*models.SchoolClass, error) {
	class, err := s.classRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	scope := authz.Scope(viewer, authz.ResourceClasses)
	if !scope.Matches(authz.RowRef{ClassID: class.ID}) {
		return nil, apperrors.ErrClassNotFound
	}
	return class, nil
}

// ListClasses retrieves the classes visible to the viewer.
func (s *ClassService) ListClasses(ctx context.Context, viewer authz.Viewer, gradeID *int64, classType *models.ClassType) ([]*models.SchoolClass, error) {
	scope := authz.Scope(viewer, authz.ResourceClasses)
	return s.classRepo.List(ctx, scope, gradeID, classType)
}

// UpdateClass updates a class's name, grade and type.
func (s *ClassService) UpdateClass(ctx context.Context, id int64, req *dto.UpdateClassRequest) (*models.SchoolClass, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, apperrors.NewValidationError("class name cannot be empty")
	}

	class, err := s.classRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.GradeID != class.GradeID {
		if _, err := s.gradeRepo.GetByID(ctx, req.GradeID); err != nil {
			return nil, err
		}
	}

	class.Name = strings.TrimSpace(req.Name)
	class.GradeID = req.GradeID
	if req.ClassType != "" {
		class.ClassType = req.ClassType
	}

	if err := s.classRepo.Update(ctx, class); err != nil {
		return nil, err
	}
	return s.classRepo.GetByID(ctx, id)
}

// DeleteClass removes a class. Members keep their accounts with the class
// reference cleared.
func (s *ClassService) DeleteClass(ctx context.Context, id int64) error {
	return s.classRepo.Delete(ctx, id)
}

// AssignClassTeachers replaces the class-teacher set of a class. Every
// assignee must hold the class teacher role.
func (s *ClassService) AssignClassTeachers(ctx context.Context, classID int64, teacherIDs []int64) (*models.SchoolClass, error) {
	if _, err := s.classRepo.GetByID(ctx, classID); err != nil {
		return nil, err
	}
	for _, teacherID := range teacherIDs {
		teacher, err := s.userRepo.GetByID(ctx, teacherID)
		if err != nil {
			return nil, err
		}
		if teacher.Role != models.RoleClassTeacher {
			return nil, apperrors.NewBadRequestError("assignee is not a class teacher")
		}
	}

	if err := s.classRepo.SetClassTeachers(ctx, classID, teacherIDs); err != nil {
		return nil, err
	}
	return s.classRepo.GetByID(ctx, classID)
}

// ListClassStudents retrieves the students whose home class is the given
// class, provided the viewer can see the class.
func (s *ClassService) ListClassStudents(ctx context.Context, viewer authz.Viewer, classID int64, offset uint64, limit int) ([]*models.User, int64, error) {
	if _, err := s.GetClass(ctx, viewer, classID); err != nil {
		return nil, 0, err
	}

	role := models.RoleStudent
	students, err := s.userRepo.List(ctx, &role, &classID, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.userRepo.Count(ctx, &role, &classID)
	if err != nil {
		return nil, 0, err
	}
	return students, total, nil
}
