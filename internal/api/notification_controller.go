package api

import (
	"strconv"

	"github.com/AyaSox/hr-offboarding-checklist/internal/service"
	"github.com/gin-gonic/gin"
)

// NotificationController 站内通知控制器
type NotificationController struct {
	notificationService service.NotificationService
}

// NewNotificationController 创建站内通知控制器
func NewNotificationController(notificationService service.NotificationService) *NotificationController {
	return &NotificationController{
		notificationService: notificationService,
	}
}

// List 通知列表
// @Summary      通知列表
// @Description  当前操作者可见的通知,按时间倒序
// @Tags         通知
// @Produce      json
// @Param        unread query bool false "仅未读"
// @Param        limit  query int  false "条数上限"
// @Success      200  {object}  Response
// @Router       /notifications [get]
// @Security     BearerAuth
func (c *NotificationController) List(ctx *gin.Context) {
	actor, ok := actorOrAbort(ctx)
	if !ok {
		return
	}

	unreadOnly, _ := strconv.ParseBool(ctx.DefaultQuery("unread", "false"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "50"))

	notifications, err := c.notificationService.List(actor, unreadOnly, limit)
	if err != nil {
		HandleServiceError(ctx, err, "list notifications")
		return
	}
	Success(ctx, notifications)
}

// UnreadCount 未读数
// @Summary      未读通知数
// @Tags         通知
// @Produce      json
// @Success      200  {object}  Response
// @Router       /notifications/unread-count [get]
// @Security     BearerAuth
func (c *NotificationController) UnreadCount(ctx *gin.Context) {
	actor, ok := actorOrAbort(ctx)
	if !ok {
		return
	}

	count, err := c.notificationService.UnreadCount(actor)
	if err != nil {
		HandleServiceError(ctx, err, "count unread notifications")
		return
	}
	Success(ctx, gin.H{"unread": count})
}

// MarkRead 标记已读
// @Summary      标记通知已读
// @Tags         通知
// @Produce      json
// @Param        id path int true "通知 ID"
// @Success      200  {object}  Response
// @Failure      404  {object}  ErrorResponse
// @Router       /notifications/{id}/read [post]
// @Security     BearerAuth
func (c *NotificationController) MarkRead(ctx *gin.Context) {
	actor, ok := actorOrAbort(ctx)
	if !ok {
		return
	}
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	if err := c.notificationService.MarkRead(id, actor); err != nil {
		HandleServiceError(ctx, err, "mark notification read")
		return
	}
	Success(ctx, nil)
}

// MarkAllRead 全部标记已读
// @Summary      全部标记已读
// @Tags         通知
// @Produce      json
// @Success      200  {object}  Response
// @Router       /notifications/read-all [post]
// @Security     BearerAuth
func (c *NotificationController) MarkAllRead(ctx *gin.Context) {
	actor, ok := actorOrAbort(ctx)
	if !ok {
		return
	}

	if err := c.notificationService.MarkAllRead(actor); err != nil {
		HandleServiceError(ctx, err, "mark all notifications read")
		return
	}
	Success(ctx, nil)
}

// Delete 删除通知
// @Summary      删除通知
// @Tags         通知
// @Produce      json
// @Param        id path int true "通知 ID"
// @Success      200  {object}  Response
// @Failure      404  {object}  ErrorResponse
// @Router       /notifications/{id} [delete]
// @Security     BearerAuth
func (c *NotificationController) Delete(ctx *gin.Context) {
	actor, ok := actorOrAbort(ctx)
	if !ok {
		return
	}
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	if err := c.notificationService.Delete(id, actor); err != nil {
		HandleServiceError(ctx, err, "delete notification")
		return
	}
	Success(ctx, nil)
}
