package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/selinay/moraled/internal/app/models/dto"
	"github.com/selinay/moraled/internal/app/services"
	"github.com/selinay/moraled/internal/middleware"
)

// RuleController handles the three-level behavior rule taxonomy.
type RuleController struct {
	ruleService *services.RuleService
}

// NewRuleController creates a new RuleController.
func NewRuleController(ruleService *services.RuleService) *RuleController {
	return &RuleController{ruleService: ruleService}
}

// CreateChapter creates a rule chapter
// @Summary Create rule chapter
// @Tags rules
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateChapterRequest true "Chapter information"
// @Success 201 {object} dto.APIResponse{data=models.RuleChapter} "Chapter created"
// @Failure 409 {object} dto.ErrorResponse "Chapter name already exists"
// @Router /rules/chapters [post]
func (c *RuleController) CreateChapter(ctx *gin.Context) {
	var req dto.CreateChapterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(middleware.BindingErrorDetail(err)))
		return
	}

	chapter, err := c.ruleService.CreateChapter(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      chapter,
		Timestamp: time.Now(),
	})
}

// ListChapters lists all rule chapters
// @Summary List rule chapters
// @Tags rules
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.RuleChapter} "Chapters in display order"
// @Router /rules/chapters [get]
func (c *RuleController) ListChapters(ctx *gin.Context) {
	chapters, err := c.ruleService.ListChapters(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      chapters,
		Timestamp: time.Now(),
	})
}

// GetChapter retrieves a chapter by ID
// @Summary Get rule chapter by ID
// @Tags rules
// @Produce json
// @Security BearerAuth
// @Param id path int true "Chapter ID"
// @Success 200 {object} dto.APIResponse{data=models.RuleChapter} "Chapter"
// @Failure 404 {object} dto.ErrorResponse "Chapter not found"
// @Router /rules/chapters/{id} [get]
func (c *RuleController) GetChapter(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	chapter, err := c.ruleService.GetChapter(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      chapter,
		Timestamp: time.Now(),
	})
}

// UpdateChapter updates a chapter
// @Summary Update rule chapter
// @Tags rules
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Chapter ID"
// @Param request body dto.UpdateRuleRequest true "Chapter information"
// @Success 200 {object} dto.APIResponse{data=models.RuleChapter} "Updated chapter"
// @Failure 404 {object} dto.ErrorResponse "Chapter not found"
// @Router /rules/chapters/{id} [put]
func (c *RuleController) UpdateChapter(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateRuleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(middleware.BindingErrorDetail(err)))
		return
	}

	chapter, err := c.ruleService.UpdateChapter(ctx, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      chapter,
		Timestamp: time.Now(),
	})
}

// DeleteChapter deletes a chapter and its subtree
// @Summary Delete rule chapter
// @Description Deletes a chapter; its dimensions and sub-items are removed with it
// @Tags rules
// @Produce json
// @Security BearerAuth
// @Param id path int true "Chapter ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Chapter deleted"
// @Failure 404 {object} dto.ErrorResponse "Chapter not found"
// @Router /rules/chapters/{id} [delete]
func (c *RuleController) DeleteChapter(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.ruleService.DeleteChapter(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Chapter deleted"},
		Timestamp: time.Now(),
	})
}

// CreateDimension creates a rule dimension
// @Summary Create rule dimension
// @Tags rules
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateDimensionRequest true "Dimension information"
// @Success 201 {object} dto.APIResponse{data=models.RuleDimension} "Dimension created"
// @Failure 404 {object} dto.ErrorResponse "Chapter not found"
// @Failure 409 {object} dto.ErrorResponse "Dimension name already exists in the chapter"
// @Router /rules/dimensions [post]
func (c *RuleController) CreateDimension(ctx *gin.Context) {
	var req dto.CreateDimensionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(middleware.BindingErrorDetail(err)))
		return
	}

	dimension, err := c.ruleService.CreateDimension(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      dimension,
		Timestamp: time.Now(),
	})
}

// ListDimensions lists dimensions
// @Summary List rule dimensions
// @Tags rules
// @Produce json
// @Security BearerAuth
// @Param chapterId query int false "Filter by chapter ID"
// @Success 200 {object} dto.APIResponse{data=[]models.RuleDimension} "Dimensions in display order"
// @Router /rules/dimensions [get]
func (c *RuleController) ListDimensions(ctx *gin.Context) {
	chapterID, ok := parseOptionalIDQuery(ctx, "chapterId")
	if !ok {
		return
	}

	dimensions, err := c.ruleService.ListDimensions(ctx, chapterID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dimensions,
		Timestamp: time.Now(),
	})
}

// GetDimension retrieves a dimension by ID
// @Summary Get rule dimension by ID
// @Tags rules
// @Produce json
// @Security BearerAuth
// @Param id path int true "Dimension ID"
// @Success 200 {object} dto.APIResponse{data=models.RuleDimension} "Dimension"
// @Failure 404 {object} dto.ErrorResponse "Dimension not found"
// @Router /rules/dimensions/{id} [get]
func (c *RuleController) GetDimension(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	dimension, err := c.ruleService.GetDimension(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dimension,
		Timestamp: time.Now(),
	})
}

// UpdateDimension updates a dimension
// @Summary Update rule dimension
// @Tags rules
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Dimension ID"
// @Param request body dto.UpdateRuleRequest true "Dimension information"
// @Success 200 {object} dto.APIResponse{data=models.RuleDimension} "Updated dimension"
// @Failure 404 {object} dto.ErrorResponse "Dimension not found"
// @Router /rules/dimensions/{id} [put]
func (c *RuleController) UpdateDimension(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateRuleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(middleware.BindingErrorDetail(err)))
		return
	}

	dimension, err := c.ruleService.UpdateDimension(ctx, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dimension,
		Timestamp: time.Now(),
	})
}

// DeleteDimension deletes a dimension and its sub-items
// @Summary Delete rule dimension
// @Tags rules
// @Produce json
// @Security BearerAuth
// @Param id path int true "Dimension ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Dimension deleted"
// @Failure 404 {object} dto.ErrorResponse "Dimension not found"
// @Router /rules/dimensions/{id} [delete]
func (c *RuleController) DeleteDimension(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.ruleService.DeleteDimension(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Dimension deleted"},
		Timestamp: time.Now(),
	})
}

// CreateSubItem creates a rule sub-item
// @Summary Create rule sub-item
// @Tags rules
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateSubItemRequest true "Sub-item information"
// @Success 201 {object} dto.APIResponse{data=models.RuleSubItem} "Sub-item created"
// @Failure 404 {object} dto.ErrorResponse "Dimension not found"
// @Failure 409 {object} dto.ErrorResponse "Sub-item name already exists in the dimension"
// @Router /rules/sub-items [post]
func (c *RuleController) CreateSubItem(ctx *gin.Context) {
	var req dto.CreateSubItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(middleware.BindingErrorDetail(err)))
		return
	}

	subItem, err := c.ruleService.CreateSubItem(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      subItem,
		Timestamp: time.Now(),
	})
}

// ListSubItems lists sub-items
// @Summary List rule sub-items
// @Tags rules
// @Produce json
// @Security BearerAuth
// @Param dimensionId query int false "Filter by dimension ID"
// @Success 200 {object} dto.APIResponse{data=[]models.RuleSubItem} "Sub-items in display order"
// @Router /rules/sub-items [get]
func (c *RuleController) ListSubItems(ctx *gin.Context) {
	dimensionID, ok := parseOptionalIDQuery(ctx, "dimensionId")
	if !ok {
		return
	}

	subItems, err := c.ruleService.ListSubItems(ctx, dimensionID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      subItems,
		Timestamp: time.Now(),
	})
}

// GetSubItem retrieves a sub-item by ID
// @Summary Get rule sub-item by ID
// @Tags rules
// @Produce json
// @Security BearerAuth
// @Param id path int true "Sub-item ID"
// @Success 200 {object} dto.APIResponse{data=models.RuleSubItem} "Sub-item"
// @Failure 404 {object} dto.ErrorResponse "Sub-item not found"
// @Router /rules/sub-items/{id} [get]
func (c *RuleController) GetSubItem(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	subItem, err := c.ruleService.GetSubItem(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      subItem,
		Timestamp: time.Now(),
	})
}

// UpdateSubItem updates a sub-item
// @Summary Update rule sub-item
// @Tags rules
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Sub-item ID"
// @Param request body dto.UpdateRuleRequest true "Sub-item information"
// @Success 200 {object} dto.APIResponse{data=models.RuleSubItem} "Updated sub-item"
// @Failure 404 {object} dto.ErrorResponse "Sub-item not found"
// @Router /rules/sub-items/{id} [put]
func (c *RuleController) UpdateSubItem(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateRuleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(middleware.BindingErrorDetail(err)))
		return
	}

	subItem, err := c.ruleService.UpdateSubItem(ctx, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      subItem,
		Timestamp: time.Now(),
	})
}

// DeleteSubItem deletes a sub-item
// @Summary Delete rule sub-item
// @Tags rules
// @Produce json
// @Security BearerAuth
// @Param id path int true "Sub-item ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Sub-item deleted"
// @Failure 404 {object} dto.ErrorResponse "Sub-item not found"
// @Router /rules/sub-items/{id} [delete]
func (c *RuleController) DeleteSubItem(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.ruleService.DeleteSubItem(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Sub-item deleted"},
		Timestamp: time.Now(),
	})
}

// parseOptionalIDQuery parses an optional numeric query parameter.
func parseOptionalIDQuery(ctx *gin.Context, name string) (*int64, bool) {
	value := ctx.Query(name)
	if value == "" {
		return nil, true
	}
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id <= 0 {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid "+name+" parameter")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return nil, false
	}
	return &id, true
}
