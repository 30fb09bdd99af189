package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/selinay/moraled/internal/app/models"
	"github.com/selinay/moraled/internal/app/models/dto"
	"github.com/selinay/moraled/internal/app/services"
	"github.com/selinay/moraled/internal/middleware"
	"github.com/selinay/moraled/internal/pkg/helpers"
)

// ClassController handles school class operations.
type ClassController struct {
	classService *services.ClassService
}

// NewClassController creates a new ClassController.
func NewClassController(classService *services.ClassService) *ClassController {
	return &ClassController{classService: classService}
}

// CreateClass creates a school class
// @Summary Create a new class
// @Description Creates a class under a grade; the name must be unique within the grade
// @Tags classes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateClassRequest true "Class information"
// @Success 201 {object} dto.APIResponse{data=models.SchoolClass} "Class created"
// @Failure 404 {object} dto.ErrorResponse "Grade not found"
// @Failure 409 {object} dto.ErrorResponse "Class name already exists in the grade"
// @Router /classes [post]
func (c *ClassController) CreateClass(ctx *gin.Context) {
	var req dto.CreateClassRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(middleware.BindingErrorDetail(err)))
		return
	}

	class, err := c.classService.CreateClass(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      class,
		Timestamp: time.Now(),
	})
}

// ListClasses lists classes visible to the caller
// @Summary List classes
// @Description Lists classes within the caller's visibility scope
// @Tags classes
// @Produce json
// @Security BearerAuth
// @Param gradeId query int false "Filter by grade ID"
// @Param classType query string false "Filter by class type (home_class, subject_class)"
// @Success 200 {object} dto.APIResponse{data=[]models.SchoolClass} "Classes"
// @Router /classes [get]
func (c *ClassController) ListClasses(ctx *gin.Context) {
	viewer, _ := middleware.CurrentViewer(ctx)

	var gradeID *int64
	if gradeStr := ctx.Query("gradeId"); gradeStr != "" {
		id, err := strconv.ParseInt(gradeStr, 10, 64)
		if err != nil {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid gradeId parameter")
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
			return
		}
		gradeID = &id
	}

	var classType *models.ClassType
	if typeStr := ctx.Query("classType"); typeStr != "" {
		t := models.ClassType(typeStr)
		if !t.Valid() {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Unknown class type")
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
			return
		}
		classType = &t
	}

	classes, err := c.classService.ListClasses(ctx, viewer, gradeID, classType)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      classes,
		Timestamp: time.Now(),
	})
}

// GetClass retrieves a class by ID
// @Summary Get class by ID
// @Tags classes
// @Produce json
// @Security BearerAuth
// @Param id path int true "Class ID"
// @Success 200 {object} dto.APIResponse{data=models.SchoolClass} "Class"
// @Failure 404 {object} dto.ErrorResponse "Class not found or out of scope"
// @Router /classes/{id} [get]
func (c *ClassController) GetClass(ctx *gin.Context) {
	viewer, _ := middleware.CurrentViewer(ctx)

	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	class, err := c.classService.GetClass(ctx, viewer, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      class,
		Timestamp: time.Now(),
	})
}

// UpdateClass updates a class
// @Summary Update class
// @Tags classes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Class ID"
// @Param request body dto.UpdateClassRequest true "Class information"
// @Success 200 {object} dto.APIResponse{data=models.SchoolClass} "Updated class"
// @Failure 404 {object} dto.ErrorResponse "Class not found"
// @Router /classes/{id} [put]
func (c *ClassController) UpdateClass(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateClassRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(middleware.BindingErrorDetail(err)))
		return
	}

	class, err := c.classService.UpdateClass(ctx, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      class,
		Timestamp: time.Now(),
	})
}

// DeleteClass deletes a class
// @Summary Delete class
// @Description Deletes a class; students assigned to it keep their account but lose the home class
// @Tags classes
// @Produce json
// @Security BearerAuth
// @Param id path int true "Class ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Class deleted"
// @Failure 404 {object} dto.ErrorResponse "Class not found"
// @Router /classes/{id} [delete]
func (c *ClassController) DeleteClass(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.classService.DeleteClass(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Class deleted"},
		Timestamp: time.Now(),
	})
}

// AssignClassTeachers replaces the class-teacher set
// @Summary Assign class teachers
// @Description Replaces the set of class teachers leading this class
// @Tags classes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Class ID"
// @Param request body dto.AssignClassTeachersRequest true "Teacher IDs"
// @Success 200 {object} dto.APIResponse{data=models.SchoolClass} "Class with updated teachers"
// @Failure 400 {object} dto.ErrorResponse "A listed user is not a class teacher"
// @Router /classes/{id}/teachers [put]
func (c *ClassController) AssignClassTeachers(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.AssignClassTeachersRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(middleware.BindingErrorDetail(err)))
		return
	}

	class, err := c.classService.AssignClassTeachers(ctx, id, req.TeacherIDs)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      class,
		Timestamp: time.Now(),
	})
}

// ListClassStudents lists students of a class
// @Summary List class students
// @Description Lists students whose home class is this class, if it is within the caller's scope
// @Tags classes
// @Produce json
// @Security BearerAuth
// @Param id path int true "Class ID"
// @Param page query int false "Page number"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=[]models.User} "Students"
// @Failure 404 {object} dto.ErrorResponse "Class not found or out of scope"
// @Router /classes/{id}/students [get]
func (c *ClassController) ListClassStudents(ctx *gin.Context) {
	viewer, _ := middleware.CurrentViewer(ctx)

	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	page, size := helpers.ParsePaginationParams(ctx)
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	students, total, err := c.classService.ListClassStudents(ctx, viewer, id, offset, limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	pagination := helpers.NewPaginationInfo(total, page, size)
	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:       students,
		Pagination: &pagination,
		Timestamp:  time.Now(),
	})
}
