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

// NotificationController handles the caller's in-app notifications.
type NotificationController struct {
	notificationService *services.NotificationService
}

// NewNotificationController creates a new NotificationController.
func NewNotificationController(notificationService *services.NotificationService) *NotificationController {
	return &NotificationController{notificationService: notificationService}
}

// ListNotifications lists the caller's notifications
// @Summary List notifications
// @Description Lists the caller's notifications, newest first
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param unreadOnly query bool false "Only unread notifications"
// @Param page query int false "Page number"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=[]models.Notification} "Notifications"
// @Router /notifications [get]
func (c *NotificationController) ListNotifications(ctx *gin.Context) {
	user := middleware.CurrentUser(ctx)
	unreadOnly := ctx.Query("unreadOnly") == "true"

	page, size := helpers.ParsePaginationParams(ctx)
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	notifications, unread, err := c.notificationService.ListForUser(ctx, user.ID, unreadOnly, offset, limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: gin.H{
			"notifications": notifications,
			"unreadCount":   unread,
		},
		Timestamp: time.Now(),
	})
}

// UnreadCount returns the caller's unread notification count
// @Summary Unread notification count
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse "Unread count"
// @Router /notifications/unread-count [get]
func (c *NotificationController) UnreadCount(ctx *gin.Context) {
	user := middleware.CurrentUser(ctx)

	count, err := c.notificationService.UnreadCount(ctx, user.ID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      gin.H{"unreadCount": count},
		Timestamp: time.Now(),
	})
}

// MarkRead marks one notification read
// @Summary Mark notification read
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param id path int true "Notification ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Marked read"
// @Failure 404 {object} dto.ErrorResponse "Notification not found"
// @Router /notifications/{id}/read [put]
func (c *NotificationController) MarkRead(ctx *gin.Context) {
	user := middleware.CurrentUser(ctx)

	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.notificationService.MarkRead(ctx, id, user.ID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Notification marked read"},
		Timestamp: time.Now(),
	})
}

// MarkAllRead marks all of the caller's notifications read
// @Summary Mark all notifications read
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse "Number of notifications marked"
// @Router /notifications/read-all [put]
func (c *NotificationController) MarkAllRead(ctx *gin.Context) {
	user := middleware.CurrentUser(ctx)

	updated, err := c.notificationService.MarkAllRead(ctx, user.ID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      gin.H{"markedCount": updated},
		Timestamp: time.Now(),
	})
}

// DeleteNotification deletes one of the caller's notifications
// @Summary Delete notification
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param id path int true "Notification ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Notification deleted"
// @Failure 404 {object} dto.ErrorResponse "Notification not found"
// @Router /notifications/{id} [delete]
func (c *NotificationController) DeleteNotification(ctx *gin.Context) {
	user := middleware.CurrentUser(ctx)

	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.notificationService.Delete(ctx, id, user.ID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Notification deleted"},
		Timestamp: time.Now(),
	})
}
