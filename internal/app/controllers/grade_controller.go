package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/selinay/moraled/internal/app/models/dto"
	"github.com/selinay/moraled/internal/app/services"
	"github.com/selinay/moraled/internal/middleware"
)

// GradeController handles grade operations.
type GradeController struct {
	gradeService *services.GradeService
}

// NewGradeController creates a new GradeController.
func NewGradeController(gradeService *services.GradeService) *GradeController {
	return &GradeController{gradeService: gradeService}
}

// CreateGrade creates a grade
// @Summary Create a new grade
// @Tags grades
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateGradeRequest true "Grade information"
// @Success 201 {object} dto.APIResponse{data=models.Grade} "Grade created"
// @Failure 409 {object} dto.ErrorResponse "Grade name already exists"
// @Router /grades [post]
func (c *GradeController) CreateGrade(ctx *gin.Context) {
	var req dto.CreateGradeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(middleware.BindingErrorDetail(err)))
		return
	}

	grade, err := c.gradeService.CreateGrade(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      grade,
		Timestamp: time.Now(),
	})
}

// ListGrades lists all grades
// @Summary List grades
// @Tags grades
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Grade} "Grades"
// @Router /grades [get]
func (c *GradeController) ListGrades(ctx *gin.Context) {
	grades, err := c.gradeService.ListGrades(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      grades,
		Timestamp: time.Now(),
	})
}

// GetGrade retrieves a grade by ID
// @Summary Get grade by ID
// @Tags grades
// @Produce json
// @Security BearerAuth
// @Param id path int true "Grade ID"
// @Success 200 {object} dto.APIResponse{data=models.Grade} "Grade"
// @Failure 404 {object} dto.ErrorResponse "Grade not found"
// @Router /grades/{id} [get]
func (c *GradeController) GetGrade(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	grade, err := c.gradeService.GetGrade(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      grade,
		Timestamp: time.Now(),
	})
}

// UpdateGrade updates a grade
// @Summary Update grade
// @Tags grades
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Grade ID"
// @Param request body dto.UpdateGradeRequest true "Grade information"
// @Success 200 {object} dto.APIResponse{data=models.Grade} "Updated grade"
// @Failure 404 {object} dto.ErrorResponse "Grade not found"
// @Router /grades/{id} [put]
func (c *GradeController) UpdateGrade(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateGradeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(middleware.BindingErrorDetail(err)))
		return
	}

	grade, err := c.gradeService.UpdateGrade(ctx, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      grade,
		Timestamp: time.Now(),
	})
}

// DeleteGrade deletes a grade
// @Summary Delete grade
// @Description Deletes a grade; its classes are removed and affected students lose their home class
// @Tags grades
// @Produce json
// @Security BearerAuth
// @Param id path int true "Grade ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Grade deleted"
// @Failure 404 {object} dto.ErrorResponse "Grade not found"
// @Router /grades/{id} [delete]
func (c *GradeController) DeleteGrade(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.gradeService.DeleteGrade(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Grade deleted"},
		Timestamp: time.Now(),
	})
}
