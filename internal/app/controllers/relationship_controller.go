package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/selinay/moraled/internal/app/models/dto"
	"github.com/selinay/moraled/internal/app/services"
	"github.com/selinay/moraled/internal/middleware"
	"github.com/selinay/moraled/internal/pkg/helpers"
)

// RelationshipController handles student-parent link operations.
type RelationshipController struct {
	relationshipService *services.RelationshipService
}

// NewRelationshipController creates a new RelationshipController.
func NewRelationshipController(relationshipService *services.RelationshipService) *RelationshipController {
	return &RelationshipController{relationshipService: relationshipService}
}

// AssignParent links a parent to a student
// @Summary Assign parent to student
// @Description Creates a student-parent link; assigning an existing pair returns the existing link
// @Tags relationships
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.AssignParentRequest true "Student and parent IDs"
// @Success 201 {object} dto.APIResponse{data=dto.AssignParentResponse} "Link created or already present"
// @Failure 400 {object} dto.ErrorResponse "User roles do not match student/parent"
// @Failure 404 {object} dto.ErrorResponse "Student or parent not found"
// @Router /relationships [post]
func (c *RelationshipController) AssignParent(ctx *gin.Context) {
	var req dto.AssignParentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(middleware.BindingErrorDetail(err)))
		return
	}

	result, err := c.relationshipService.AssignParent(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	status := http.StatusCreated
	if result.AlreadyExists {
		status = http.StatusOK
	}

	ctx.JSON(status, dto.APIResponse{
		Data:      result,
		Timestamp: time.Now(),
	})
}

// ListRelationships lists links within the caller's scope
// @Summary List student-parent relationships
// @Tags relationships
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=[]models.StudentParentRelationship} "Relationships"
// @Router /relationships [get]
func (c *RelationshipController) ListRelationships(ctx *gin.Context) {
	viewer, _ := middleware.CurrentViewer(ctx)

	page, size := helpers.ParsePaginationParams(ctx)
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	relationships, err := c.relationshipService.ListRelationships(ctx, viewer, offset, limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      relationships,
		Timestamp: time.Now(),
	})
}

// GetRelationship retrieves a link by ID
// @Summary Get relationship by ID
// @Tags relationships
// @Produce json
// @Security BearerAuth
// @Param id path int true "Relationship ID"
// @Success 200 {object} dto.APIResponse{data=models.StudentParentRelationship} "Relationship"
// @Failure 404 {object} dto.ErrorResponse "Relationship not found or out of scope"
// @Router /relationships/{id} [get]
func (c *RelationshipController) GetRelationship(ctx *gin.Context) {
	viewer, _ := middleware.CurrentViewer(ctx)

	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	relationship, err := c.relationshipService.GetRelationship(ctx, viewer, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      relationship,
		Timestamp: time.Now(),
	})
}

// DeleteRelationship removes a link
// @Summary Delete relationship
// @Tags relationships
// @Produce json
// @Security BearerAuth
// @Param id path int true "Relationship ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Relationship deleted"
// @Failure 404 {object} dto.ErrorResponse "Relationship not found"
// @Router /relationships/{id} [delete]
func (c *RelationshipController) DeleteRelationship(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.relationshipService.DeleteRelationship(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Relationship deleted"},
		Timestamp: time.Now(),
	})
}
