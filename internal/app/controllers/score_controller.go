package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/selinay/moraled/internal/app/models"
	"github.com/selinay/moraled/internal/app/models/dto"
	"github.com/selinay/moraled/internal/app/repositories"
	"github.com/selinay/moraled/internal/app/services"
	"github.com/selinay/moraled/internal/middleware"
	"github.com/selinay/moraled/internal/pkg/helpers"
)

// ScoreController handles behavior score operations.
type ScoreController struct {
	scoreService *services.ScoreService
}

// NewScoreController creates a new ScoreController.
func NewScoreController(scoreService *services.ScoreService) *ScoreController {
	return &ScoreController{scoreService: scoreService}
}

// CreateScore records a behavior score
// @Summary Record a behavior score
// @Description Records a positive or negative score for a student within the caller's scoring scope
// @Tags scores
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateScoreRequest true "Score information"
// @Success 201 {object} dto.APIResponse{data=models.BehaviorScore} "Score recorded"
// @Failure 403 {object} dto.ErrorResponse "Student outside the caller's scoring scope"
// @Failure 404 {object} dto.ErrorResponse "Student, class or rule sub-item not found"
// @Router /scores [post]
func (c *ScoreController) CreateScore(ctx *gin.Context) {
	viewer, _ := middleware.CurrentViewer(ctx)

	var req dto.CreateScoreRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(middleware.BindingErrorDetail(err)))
		return
	}

	score, err := c.scoreService.CreateScore(ctx, viewer, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      score,
		Timestamp: time.Now(),
	})
}

// ListScores lists behavior scores within the caller's scope
// @Summary List behavior scores
// @Tags scores
// @Produce json
// @Security BearerAuth
// @Param studentId query int false "Filter by student ID"
// @Param classId query int false "Filter by class ID"
// @Param gradeId query int false "Filter by grade ID"
// @Param scoreType query string false "Filter by score type (positive, negative)"
// @Param startDate query string false "Start date (YYYY-MM-DD)"
// @Param endDate query string false "End date (YYYY-MM-DD)"
// @Param page query int false "Page number"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=[]models.BehaviorScore} "Scores"
// @Router /scores [get]
func (c *ScoreController) ListScores(ctx *gin.Context) {
	viewer, _ := middleware.CurrentViewer(ctx)

	filter, ok := parseScoreFilter(ctx)
	if !ok {
		return
	}

	page, size := helpers.ParsePaginationParams(ctx)
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	scores, total, err := c.scoreService.ListScores(ctx, viewer, filter, offset, limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	pagination := helpers.NewPaginationInfo(total, page, size)
	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:       scores,
		Pagination: &pagination,
		Timestamp:  time.Now(),
	})
}

// GetScore retrieves a behavior score by ID
// @Summary Get behavior score by ID
// @Tags scores
// @Produce json
// @Security BearerAuth
// @Param id path int true "Score ID"
// @Success 200 {object} dto.APIResponse{data=models.BehaviorScore} "Score"
// @Failure 404 {object} dto.ErrorResponse "Score not found or out of scope"
// @Router /scores/{id} [get]
func (c *ScoreController) GetScore(ctx *gin.Context) {
	viewer, _ := middleware.CurrentViewer(ctx)

	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	score, err := c.scoreService.GetScore(ctx, viewer, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      score,
		Timestamp: time.Now(),
	})
}

// UpdateScore re-edits a score recorded by the caller
// @Summary Update behavior score
// @Description Only the recorder of a score may re-edit it
// @Tags scores
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Score ID"
// @Param request body dto.UpdateScoreRequest true "Score information"
// @Success 200 {object} dto.APIResponse{data=models.BehaviorScore} "Updated score"
// @Failure 403 {object} dto.ErrorResponse "Caller did not record this score"
// @Failure 404 {object} dto.ErrorResponse "Score not found"
// @Router /scores/{id} [put]
func (c *ScoreController) UpdateScore(ctx *gin.Context) {
	viewer, _ := middleware.CurrentViewer(ctx)

	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateScoreRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(middleware.BindingErrorDetail(err)))
		return
	}

	score, err := c.scoreService.UpdateScore(ctx, viewer, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      score,
		Timestamp: time.Now(),
	})
}

// DeleteScore deletes a score
// @Summary Delete behavior score
// @Tags scores
// @Produce json
// @Security BearerAuth
// @Param id path int true "Score ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Score deleted"
// @Failure 403 {object} dto.ErrorResponse "Caller did not record this score"
// @Failure 404 {object} dto.ErrorResponse "Score not found"
// @Router /scores/{id} [delete]
func (c *ScoreController) DeleteScore(ctx *gin.Context) {
	viewer, _ := middleware.CurrentViewer(ctx)

	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.scoreService.DeleteScore(ctx, viewer, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Score deleted"},
		Timestamp: time.Now(),
	})
}

// parseScoreFilter builds a score filter from the shared query parameters.
func parseScoreFilter(ctx *gin.Context) (repositories.ScoreFilter, bool) {
	var filter repositories.ScoreFilter
	var ok bool

	if filter.StudentID, ok = parseOptionalIDQuery(ctx, "studentId"); !ok {
		return filter, false
	}
	if filter.ClassID, ok = parseOptionalIDQuery(ctx, "classId"); !ok {
		return filter, false
	}
	if filter.GradeID, ok = parseOptionalIDQuery(ctx, "gradeId"); !ok {
		return filter, false
	}

	if typeStr := ctx.Query("scoreType"); typeStr != "" {
		t := models.ScoreType(typeStr)
		if !t.Valid() {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Unknown score type")
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
			return filter, false
		}
		filter.ScoreType = &t
	}

	if filter.From, ok = parseOptionalDateQuery(ctx, "startDate"); !ok {
		return filter, false
	}
	if filter.To, ok = parseOptionalDateQuery(ctx, "endDate"); !ok {
		return filter, false
	}

	return filter, true
}

// parseOptionalDateQuery parses an optional YYYY-MM-DD query parameter.
func parseOptionalDateQuery(ctx *gin.Context, name string) (*time.Time, bool) {
	value := ctx.Query(name)
	if value == "" {
		return nil, true
	}
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid "+name+" parameter")
		errorDetail = errorDetail.WithDetails(name + " must be YYYY-MM-DD")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return nil, false
	}
	return &parsed, true
}
