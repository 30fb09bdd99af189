package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/selinay/moraled/internal/app/models"
	"github.com/selinay/moraled/internal/app/models/dto"
	"github.com/selinay/moraled/internal/app/services"
	"github.com/selinay/moraled/internal/middleware"
	"github.com/selinay/moraled/internal/pkg/helpers"
)

// SubmissionController handles parent observations and student self-reports.
type SubmissionController struct {
	submissionService *services.SubmissionService
}

// NewSubmissionController creates a new SubmissionController.
func NewSubmissionController(submissionService *services.SubmissionService) *SubmissionController {
	return &SubmissionController{submissionService: submissionService}
}

// CreateObservation submits a parent observation
// @Summary Submit parent observation
// @Description A parent reports observed behavior of a linked child; the submission starts pending
// @Tags submissions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateObservationRequest true "Observation"
// @Success 201 {object} dto.APIResponse{data=models.ParentObservation} "Observation submitted"
// @Failure 404 {object} dto.ErrorResponse "Student not linked to the caller"
// @Router /observations [post]
func (c *SubmissionController) CreateObservation(ctx *gin.Context) {
	viewer, _ := middleware.CurrentViewer(ctx)

	var req dto.CreateObservationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(middleware.BindingErrorDetail(err)))
		return
	}

	observation, err := c.submissionService.CreateObservation(ctx, viewer, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      observation,
		Timestamp: time.Now(),
	})
}

// ListObservations lists observations within the caller's scope
// @Summary List parent observations
// @Tags submissions
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status (pending, approved, rejected)"
// @Param page query int false "Page number"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=[]models.ParentObservation} "Observations"
// @Router /observations [get]
func (c *SubmissionController) ListObservations(ctx *gin.Context) {
	viewer, _ := middleware.CurrentViewer(ctx)

	status, ok := parseStatusQuery(ctx)
	if !ok {
		return
	}

	page, size := helpers.ParsePaginationParams(ctx)
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	observations, err := c.submissionService.ListObservations(ctx, viewer, status, offset, limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      observations,
		Timestamp: time.Now(),
	})
}

// GetObservation retrieves an observation by ID
// @Summary Get parent observation by ID
// @Tags submissions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Observation ID"
// @Success 200 {object} dto.APIResponse{data=models.ParentObservation} "Observation"
// @Failure 404 {object} dto.ErrorResponse "Observation not found or out of scope"
// @Router /observations/{id} [get]
func (c *SubmissionController) GetObservation(ctx *gin.Context) {
	viewer, _ := middleware.CurrentViewer(ctx)

	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	observation, err := c.submissionService.GetObservation(ctx, viewer, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      observation,
		Timestamp: time.Now(),
	})
}

// UpdateObservation edits a pending observation
// @Summary Update parent observation
// @Description The submitting parent may edit an observation while it is still pending
// @Tags submissions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Observation ID"
// @Param request body dto.UpdateSubmissionRequest true "Observation"
// @Success 200 {object} dto.APIResponse{data=models.ParentObservation} "Updated observation"
// @Failure 409 {object} dto.ErrorResponse "Observation already reviewed"
// @Router /observations/{id} [put]
func (c *SubmissionController) UpdateObservation(ctx *gin.Context) {
	viewer, _ := middleware.CurrentViewer(ctx)

	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateSubmissionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(middleware.BindingErrorDetail(err)))
		return
	}

	observation, err := c.submissionService.UpdateObservation(ctx, viewer, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      observation,
		Timestamp: time.Now(),
	})
}

// ReviewObservation resolves a pending observation
// @Summary Review parent observation
// @Description Approves or rejects a pending observation; a reviewed observation cannot be re-reviewed
// @Tags submissions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Observation ID"
// @Param request body dto.ReviewRequest true "Review decision"
// @Success 200 {object} dto.APIResponse{data=models.ParentObservation} "Reviewed observation"
// @Failure 400 {object} dto.ErrorResponse "Status must be approved or rejected"
// @Failure 409 {object} dto.ErrorResponse "Observation already reviewed"
// @Router /observations/{id}/review [post]
func (c *SubmissionController) ReviewObservation(ctx *gin.Context) {
	viewer, _ := middleware.CurrentViewer(ctx)

	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.ReviewRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(middleware.BindingErrorDetail(err)))
		return
	}

	observation, err := c.submissionService.ReviewObservation(ctx, viewer, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      observation,
		Timestamp: time.Now(),
	})
}

// DeleteObservation deletes an observation
// @Summary Delete parent observation
// @Tags submissions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Observation ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Observation deleted"
// @Failure 404 {object} dto.ErrorResponse "Observation not found"
// @Router /observations/{id} [delete]
func (c *SubmissionController) DeleteObservation(ctx *gin.Context) {
	viewer, _ := middleware.CurrentViewer(ctx)

	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.submissionService.DeleteObservation(ctx, viewer, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Observation deleted"},
		Timestamp: time.Now(),
	})
}

// CreateSelfReport submits a student self-report
// @Summary Submit student self-report
// @Description A student reports their own behavior; the submission starts pending
// @Tags submissions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateSelfReportRequest true "Self-report"
// @Success 201 {object} dto.APIResponse{data=models.StudentSelfReport} "Self-report submitted"
// @Router /self-reports [post]
func (c *SubmissionController) CreateSelfReport(ctx *gin.Context) {
	viewer, _ := middleware.CurrentViewer(ctx)

	var req dto.CreateSelfReportRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(middleware.BindingErrorDetail(err)))
		return
	}

	report, err := c.submissionService.CreateSelfReport(ctx, viewer, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      report,
		Timestamp: time.Now(),
	})
}

// ListSelfReports lists self-reports within the caller's scope
// @Summary List student self-reports
// @Tags submissions
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status (pending, approved, rejected)"
// @Param page query int false "Page number"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=[]models.StudentSelfReport} "Self-reports"
// @Router /self-reports [get]
func (c *SubmissionController) ListSelfReports(ctx *gin.Context) {
	viewer, _ := middleware.CurrentViewer(ctx)

	status, ok := parseStatusQuery(ctx)
	if !ok {
		return
	}

	page, size := helpers.ParsePaginationParams(ctx)
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	reports, err := c.submissionService.ListSelfReports(ctx, viewer, status, offset, limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      reports,
		Timestamp: time.Now(),
	})
}

// GetSelfReport retrieves a self-report by ID
// @Summary Get student self-report by ID
// @Tags submissions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Self-report ID"
// @Success 200 {object} dto.APIResponse{data=models.StudentSelfReport} "Self-report"
// @Failure 404 {object} dto.ErrorResponse "Self-report not found or out of scope"
// @Router /self-reports/{id} [get]
func (c *SubmissionController) GetSelfReport(ctx *gin.Context) {
	viewer, _ := middleware.CurrentViewer(ctx)

	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	report, err := c.submissionService.GetSelfReport(ctx, viewer, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      report,
		Timestamp: time.Now(),
	})
}

// UpdateSelfReport edits a pending self-report
// @Summary Update student self-report
// @Description The submitting student may edit a self-report while it is still pending
// @Tags submissions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Self-report ID"
// @Param request body dto.UpdateSubmissionRequest true "Self-report"
// @Success 200 {object} dto.APIResponse{data=models.StudentSelfReport} "Updated self-report"
// @Failure 409 {object} dto.ErrorResponse "Self-report already reviewed"
// @Router /self-reports/{id} [put]
func (c *SubmissionController) UpdateSelfReport(ctx *gin.Context) {
	viewer, _ := middleware.CurrentViewer(ctx)

	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateSubmissionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(middleware.BindingErrorDetail(err)))
		return
	}

	report, err := c.submissionService.UpdateSelfReport(ctx, viewer, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      report,
		Timestamp: time.Now(),
	})
}

// ReviewSelfReport resolves a pending self-report
// @Summary Review student self-report
// @Description Approves or rejects a pending self-report; a reviewed self-report cannot be re-reviewed
// @Tags submissions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Self-report ID"
// @Param request body dto.ReviewRequest true "Review decision"
// @Success 200 {object} dto.APIResponse{data=models.StudentSelfReport} "Reviewed self-report"
// @Failure 400 {object} dto.ErrorResponse "Status must be approved or rejected"
// @Failure 409 {object} dto.ErrorResponse "Self-report already reviewed"
// @Router /self-reports/{id}/review [post]
func (c *SubmissionController) ReviewSelfReport(ctx *gin.Context) {
	viewer, _ := middleware.CurrentViewer(ctx)

	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.ReviewRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(middleware.BindingErrorDetail(err)))
		return
	}

	report, err := c.submissionService.ReviewSelfReport(ctx, viewer, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      report,
		Timestamp: time.Now(),
	})
}

// DeleteSelfReport deletes a self-report
// @Summary Delete student self-report
// @Tags submissions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Self-report ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Self-report deleted"
// @Failure 404 {object} dto.ErrorResponse "Self-report not found"
// @Router /self-reports/{id} [delete]
func (c *SubmissionController) DeleteSelfReport(ctx *gin.Context) {
	viewer, _ := middleware.CurrentViewer(ctx)

	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.submissionService.DeleteSelfReport(ctx, viewer, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Self-report deleted"},
		Timestamp: time.Now(),
	})
}

// parseStatusQuery parses the optional submission status filter.
func parseStatusQuery(ctx *gin.Context) (*models.SubmissionStatus, bool) {
	value := ctx.Query("status")
	if value == "" {
		return nil, true
	}
	status := models.SubmissionStatus(value)
	if status != models.StatusPending && status != models.StatusApproved && status != models.StatusRejected {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Unknown submission status")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return nil, false
	}
	return &status, true
}
