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

// AwardController handles student award operations.
type AwardController struct {
	awardService *services.AwardService
}

// NewAwardController creates a new AwardController.
func NewAwardController(awardService *services.AwardService) *AwardController {
	return &AwardController{awardService: awardService}
}

// CreateAward grants an award to a student
// @Summary Grant an award
// @Description Grants a star, badge, certificate or other award; star awards carry a level 1..5
// @Tags awards
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateAwardRequest true "Award information"
// @Success 201 {object} dto.APIResponse{data=models.Award} "Award granted"
// @Failure 400 {object} dto.ErrorResponse "Star level missing or level on a non-star award"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /awards [post]
func (c *AwardController) CreateAward(ctx *gin.Context) {
	viewer, _ := middleware.CurrentViewer(ctx)

	var req dto.CreateAwardRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(middleware.BindingErrorDetail(err)))
		return
	}

	award, err := c.awardService.CreateAward(ctx, viewer, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      award,
		Timestamp: time.Now(),
	})
}

// ListAwards lists awards within the caller's scope
// @Summary List awards
// @Tags awards
// @Produce json
// @Security BearerAuth
// @Param studentId query int false "Filter by student ID"
// @Param startDate query string false "Start date (YYYY-MM-DD)"
// @Param endDate query string false "End date (YYYY-MM-DD)"
// @Param page query int false "Page number"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=[]models.Award} "Awards"
// @Router /awards [get]
func (c *AwardController) ListAwards(ctx *gin.Context) {
	viewer, _ := middleware.CurrentViewer(ctx)

	studentID, ok := parseOptionalIDQuery(ctx, "studentId")
	if !ok {
		return
	}
	from, ok := parseOptionalDateQuery(ctx, "startDate")
	if !ok {
		return
	}
	to, ok := parseOptionalDateQuery(ctx, "endDate")
	if !ok {
		return
	}

	page, size := helpers.ParsePaginationParams(ctx)
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	awards, err := c.awardService.ListAwards(ctx, viewer, studentID, from, to, offset, limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      awards,
		Timestamp: time.Now(),
	})
}

// GetAward retrieves an award by ID
// @Summary Get award by ID
// @Tags awards
// @Produce json
// @Security BearerAuth
// @Param id path int true "Award ID"
// @Success 200 {object} dto.APIResponse{data=models.Award} "Award"
// @Failure 404 {object} dto.ErrorResponse "Award not found or out of scope"
// @Router /awards/{id} [get]
func (c *AwardController) GetAward(ctx *gin.Context) {
	viewer, _ := middleware.CurrentViewer(ctx)

	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	award, err := c.awardService.GetAward(ctx, viewer, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      award,
		Timestamp: time.Now(),
	})
}

// UpdateAward updates an award granted by the caller
// @Summary Update award
// @Description Only the granter of an award may update it
// @Tags awards
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Award ID"
// @Param request body dto.CreateAwardRequest true "Award information"
// @Success 200 {object} dto.APIResponse{data=models.Award} "Updated award"
// @Failure 403 {object} dto.ErrorResponse "Caller did not grant this award"
// @Failure 404 {object} dto.ErrorResponse "Award not found"
// @Router /awards/{id} [put]
func (c *AwardController) UpdateAward(ctx *gin.Context) {
	viewer, _ := middleware.CurrentViewer(ctx)

	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.CreateAwardRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(middleware.BindingErrorDetail(err)))
		return
	}

	award, err := c.awardService.UpdateAward(ctx, viewer, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      award,
		Timestamp: time.Now(),
	})
}

// DeleteAward deletes an award
// @Summary Delete award
// @Tags awards
// @Produce json
// @Security BearerAuth
// @Param id path int true "Award ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Award deleted"
// @Failure 403 {object} dto.ErrorResponse "Caller did not grant this award"
// @Failure 404 {object} dto.ErrorResponse "Award not found"
// @Router /awards/{id} [delete]
func (c *AwardController) DeleteAward(ctx *gin.Context) {
	viewer, _ := middleware.CurrentViewer(ctx)

	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.awardService.DeleteAward(ctx, viewer, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Award deleted"},
		Timestamp: time.Now(),
	})
}
