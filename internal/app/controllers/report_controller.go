package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/selinay/moraled/internal/app/models/dto"
	"github.com/selinay/moraled/internal/app/repositories"
	"github.com/selinay/moraled/internal/app/services"
	"github.com/selinay/moraled/internal/middleware"
	"github.com/selinay/moraled/internal/pkg/helpers"
)

// reportWindowDays is the default reporting window.
const reportWindowDays = 30

// ReportController handles analytics and reporting endpoints.
type ReportController struct {
	reportService *services.ReportService
}

// NewReportController creates a new ReportController.
func NewReportController(reportService *services.ReportService) *ReportController {
	return &ReportController{reportService: reportService}
}

// ScoreSummary returns the net-score rollup
// @Summary Behavior score summary
// @Description Net score, totals and counts for the scores visible to the caller; window defaults to the last 30 days
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param studentId query int false "Filter by student ID"
// @Param classId query int false "Filter by class ID"
// @Param gradeId query int false "Filter by grade ID"
// @Param startDate query string false "Start date (YYYY-MM-DD)"
// @Param endDate query string false "End date (YYYY-MM-DD)"
// @Success 200 {object} dto.APIResponse{data=dto.ScoreSummary} "Summary"
// @Router /reports/summary [get]
func (c *ReportController) ScoreSummary(ctx *gin.Context) {
	viewer, _ := middleware.CurrentViewer(ctx)

	filter, ok := parseReportFilter(ctx)
	if !ok {
		return
	}

	summary, err := c.reportService.ScoreSummary(ctx, viewer, filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      summary,
		Timestamp: time.Now(),
	})
}

// DimensionReport returns the per-dimension breakdown
// @Summary Per-dimension score breakdown
// @Description Points per rule dimension; net points reconcile to the summary net score
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param studentId query int false "Filter by student ID"
// @Param classId query int false "Filter by class ID"
// @Param gradeId query int false "Filter by grade ID"
// @Param startDate query string false "Start date (YYYY-MM-DD)"
// @Param endDate query string false "End date (YYYY-MM-DD)"
// @Success 200 {object} dto.APIResponse{data=[]dto.DimensionScore} "Breakdown"
// @Router /reports/dimensions [get]
func (c *ReportController) DimensionReport(ctx *gin.Context) {
	viewer, _ := middleware.CurrentViewer(ctx)

	filter, ok := parseReportFilter(ctx)
	if !ok {
		return
	}

	breakdown, err := c.reportService.DimensionReport(ctx, viewer, filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      breakdown,
		Timestamp: time.Now(),
	})
}

// TimeSeriesReport returns bucketed score series
// @Summary Behavior score time series
// @Description Positive and negative score series bucketed by day, week or month
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param interval query string false "Bucket size: day, week or month (default day)"
// @Param studentId query int false "Filter by student ID"
// @Param classId query int false "Filter by class ID"
// @Param gradeId query int false "Filter by grade ID"
// @Param startDate query string false "Start date (YYYY-MM-DD)"
// @Param endDate query string false "End date (YYYY-MM-DD)"
// @Success 200 {object} dto.APIResponse{data=dto.BehaviorTimeSeries} "Series"
// @Failure 400 {object} dto.ErrorResponse "Unknown interval"
// @Router /reports/timeseries [get]
func (c *ReportController) TimeSeriesReport(ctx *gin.Context) {
	viewer, _ := middleware.CurrentViewer(ctx)

	filter, ok := parseReportFilter(ctx)
	if !ok {
		return
	}

	interval := services.Interval(ctx.DefaultQuery("interval", string(services.IntervalDay)))

	series, err := c.reportService.TimeSeriesReport(ctx, viewer, filter, interval)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      series,
		Timestamp: time.Now(),
	})
}

// EngagementReport returns parent, student and teacher engagement
// @Summary Engagement report
// @Description Submission activity of parents and students plus teacher scoring activity in the window
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param startDate query string false "Start date (YYYY-MM-DD)"
// @Param endDate query string false "End date (YYYY-MM-DD)"
// @Success 200 {object} dto.APIResponse{data=dto.UserEngagementReport} "Engagement"
// @Router /reports/engagement [get]
func (c *ReportController) EngagementReport(ctx *gin.Context) {
	viewer, _ := middleware.CurrentViewer(ctx)

	from, to, err := helpers.DateRange(ctx.Query("startDate"), ctx.Query("endDate"), reportWindowDays)
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Dates must be YYYY-MM-DD")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	report, err := c.reportService.EngagementReport(ctx, viewer, from, to)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      report,
		Timestamp: time.Now(),
	})
}

// AwardAnalytics returns award distribution analytics
// @Summary Award analytics
// @Description Awards by type, star-level distribution, top students and monthly counts in the window
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param startDate query string false "Start date (YYYY-MM-DD)"
// @Param endDate query string false "End date (YYYY-MM-DD)"
// @Success 200 {object} dto.APIResponse{data=dto.AwardAnalytics} "Analytics"
// @Router /reports/awards [get]
func (c *ReportController) AwardAnalytics(ctx *gin.Context) {
	from, to, err := helpers.DateRange(ctx.Query("startDate"), ctx.Query("endDate"), reportWindowDays)
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Dates must be YYYY-MM-DD")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	analytics, err := c.reportService.AwardAnalytics(ctx, from, to)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      analytics,
		Timestamp: time.Now(),
	})
}

// parseReportFilter builds a score filter with the default reporting window
// applied when dates are absent.
func parseReportFilter(ctx *gin.Context) (repositories.ScoreFilter, bool) {
	filter, ok := parseScoreFilter(ctx)
	if !ok {
		return filter, false
	}

	from, to, err := helpers.DateRange(ctx.Query("startDate"), ctx.Query("endDate"), reportWindowDays)
	if err != nil {
		// parseScoreFilter already validated the date format.
		return filter, true
	}
	filter.From = &from
	filter.To = &to

	return filter, true
}
