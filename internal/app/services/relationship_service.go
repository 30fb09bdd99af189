package services

import (
	"context"

	authz "github.com/selinay/moraled/internal/app/auth"
	"github.com/selinay/moraled/internal/app/models"
	"github.com/selinay/moraled/internal/app/models/dto"
	"github.com/selinay/moraled/internal/app/repositories"
	"github.com/selinay/moraled/internal/pkg/apperrors"
)

// RelationshipService handles student-parent links.
type RelationshipService struct {
	relationshipRepo *repositories.RelationshipRepository
	userRepo         *repositories.UserRepository
}

// NewRelationshipService creates a new RelationshipService.
func NewRelationshipService(
	relationshipRepo *repositories.RelationshipRepository,
	userRepo *repositories.UserRepository,
) *RelationshipService {
	return &RelationshipService{
		relationshipRepo: relationshipRepo,
		userRepo:         userRepo,
	}
}

// AssignParent links a parent to a student. Assigning an already linked pair
// returns the existing row flagged AlreadyExists rather than failing or
// duplicating.
func (s *RelationshipService) AssignParent(ctx context.Context, req *dto.AssignParentRequest) (*dto.AssignParentResponse, error) {
	student, err := s.userRepo.GetByID(ctx, req.StudentID)
	if err != nil {
		return nil, err
	}
	if student.Role != models.RoleStudent {
		return nil, apperrors.ErrNotAStudent
	}
	parent, err := s.userRepo.GetByID(ctx, req.ParentID)
	if err != nil {
		return nil, err
	}
	if parent.Role != models.RoleParent {
		return nil, apperrors.ErrNotAParent
	}

	rel, existed, err := s.relationshipRepo.GetOrCreate(ctx, req.StudentID, req.ParentID)
	if err != nil {
		return nil, err
	}
	rel.Student = student
	rel.Parent = parent

	return &dto.AssignParentResponse{
		Relationship:  rel,
		AlreadyExists: existed,
	}, nil
}

// GetRelationship retrieves a link the viewer may see.
func (s *RelationshipService) GetRelationship(ctx context.Context, viewer authz.Viewer, id int64) (*models.StudentParentRelationship, error) {
	rel, err := s.relationshipRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	scope := authz.Scope(viewer, authz.ResourceRelationships)
	if !scope.Matches(authz.RowRef{ParentID: rel.ParentID, StudentID: rel.StudentID}) {
		return nil, apperrors.ErrRelationshipMissing
	}
	return rel, nil
}

// ListRelationships retrieves the links visible to the viewer.
func (s *RelationshipService) ListRelationships(ctx context.Context, viewer authz.Viewer, offset uint64, limit int) ([]*models.StudentParentRelationship, error) {
	scope := authz.Scope(viewer, authz.ResourceRelationships)
	return s.relationshipRepo.List(ctx, scope, offset, limit)
}

// DeleteRelationship removes a link.
func (s *RelationshipService) DeleteRelationship(ctx context.Context, id int64) error {
	return s.relationshipRepo.Delete(ctx, id)
}
