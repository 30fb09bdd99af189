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

// UserController handles user management operations.
type UserController struct {
	userService *services.UserService
}

// NewUserController creates a new UserController.
func NewUserController(userService *services.UserService) *UserController {
	return &UserController{userService: userService}
}

// CreateUser creates a user
// @Summary Create a new user
// @Description Creates a user with the given role; students may carry a home class
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateUserRequest true "User information"
// @Success 201 {object} dto.APIResponse{data=models.User} "User created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 403 {object} dto.ErrorResponse "Permission denied"
// @Failure 409 {object} dto.ErrorResponse "Username already exists"
// @Router /users [post]
func (c *UserController) CreateUser(ctx *gin.Context) {
	var req dto.CreateUserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(middleware.BindingErrorDetail(err)))
		return
	}

	user, err := c.userService.CreateUser(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      user,
		Timestamp: time.Now(),
	})
}

// ListUsers lists users
// @Summary List users
// @Description Lists users, optionally filtered by role or home class
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param role query string false "Filter by role code"
// @Param classId query int false "Filter by home class ID"
// @Param page query int false "Page number"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=[]models.User} "Users"
// @Router /users [get]
func (c *UserController) ListUsers(ctx *gin.Context) {
	var role *models.Role
	if roleStr := ctx.Query("role"); roleStr != "" {
		r := models.Role(roleStr)
		if !r.Valid() {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Unknown role code")
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
			return
		}
		role = &r
	}

	var classID *int64
	if classStr := ctx.Query("classId"); classStr != "" {
		id, err := strconv.ParseInt(classStr, 10, 64)
		if err != nil {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid classId parameter")
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
			return
		}
		classID = &id
	}

	page, size := helpers.ParsePaginationParams(ctx)
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	users, total, err := c.userService.ListUsers(ctx, role, classID, offset, limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	pagination := helpers.NewPaginationInfo(total, page, size)
	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:       users,
		Pagination: &pagination,
		Timestamp:  time.Now(),
	})
}

// GetUser retrieves a user by ID
// @Summary Get user by ID
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} dto.APIResponse{data=models.User} "User"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /users/{id} [get]
func (c *UserController) GetUser(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	user, err := c.userService.GetUser(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      user,
		Timestamp: time.Now(),
	})
}

// UpdateUser applies a partial update to a user
// @Summary Update user
// @Description Applies a partial update; omitted fields are left unchanged
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param request body dto.UpdateUserRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=models.User} "Updated user"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /users/{id} [put]
func (c *UserController) UpdateUser(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateUserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(middleware.BindingErrorDetail(err)))
		return
	}

	user, err := c.userService.UpdateUser(ctx, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      user,
		Timestamp: time.Now(),
	})
}

// DeleteUser deletes a user
// @Summary Delete user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "User deleted"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /users/{id} [delete]
func (c *UserController) DeleteUser(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.userService.DeleteUser(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "User deleted"},
		Timestamp: time.Now(),
	})
}

// SetTeachingClasses replaces a teaching teacher's subject classes
// @Summary Set teaching classes
// @Description Replaces the set of subject classes a teaching teacher covers
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param request body dto.TeachingClassesRequest true "Class IDs"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Assignments replaced"
// @Failure 400 {object} dto.ErrorResponse "User is not a teaching teacher"
// @Router /users/{id}/teaching-classes [put]
func (c *UserController) SetTeachingClasses(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.TeachingClassesRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(middleware.BindingErrorDetail(err)))
		return
	}

	if err := c.userService.SetTeachingClasses(ctx, id, req.ClassIDs); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Teaching classes updated"},
		Timestamp: time.Now(),
	})
}

// ImportUsers imports users from a CSV file
// @Summary Import users from CSV
// @Description Creates or updates users from an uploaded CSV; rows fail independently
// @Tags users
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "CSV file (username,email,first_name,last_name,role,school_class,password)"
// @Success 200 {object} dto.APIResponse{data=dto.ImportResult} "Import result with per-row errors"
// @Failure 400 {object} dto.ErrorResponse "Missing or unreadable file"
// @Router /users/import [post]
func (c *UserController) ImportUsers(ctx *gin.Context) {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "CSV file is required")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Could not read uploaded file")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}
	defer file.Close()

	result, err := c.userService.ImportUsersCSV(ctx, file)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      result,
		Timestamp: time.Now(),
	})
}

// ExportUsers exports all users as CSV
// @Summary Export users to CSV
// @Description Streams all users in the import column layout; passwords are blank
// @Tags users
// @Produce text/csv
// @Security BearerAuth
// @Success 200 {string} string "CSV payload"
// @Router /users/export [get]
func (c *UserController) ExportUsers(ctx *gin.Context) {
	ctx.Header("Content-Type", "text/csv")
	ctx.Header("Content-Disposition", `attachment; filename="users.csv"`)

	if err := c.userService.ExportUsersCSV(ctx, ctx.Writer); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
}

// PromoteStudents moves students into a target class
// @Summary Promote or demote students
// @Description Reassigns the listed students to the target class; non-students and students outside the source filter are skipped
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.PromoteStudentsRequest true "Promotion parameters"
// @Success 200 {object} dto.APIResponse{data=dto.PromoteStudentsResult} "Per-student outcomes"
// @Failure 404 {object} dto.ErrorResponse "Target class not found"
// @Router /users/promote [post]
func (c *UserController) PromoteStudents(ctx *gin.Context) {
	var req dto.PromoteStudentsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(middleware.BindingErrorDetail(err)))
		return
	}

	result, err := c.userService.PromoteStudents(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      result,
		Timestamp: time.Now(),
	})
}
