package api

import (
	"strconv"

	"github.com/AyaSox/hr-offboarding-checklist/internal/auth"
	"github.com/AyaSox/hr-offboarding-checklist/internal/service"
	"github.com/gin-gonic/gin"
)

// AuditController 审计日志控制器
type AuditController struct {
	auditSvc service.AuditLogService
}

// NewAuditController 创建审计日志控制器
func NewAuditController(auditSvc service.AuditLogService) *AuditController {
	return &AuditController{auditSvc: auditSvc}
}

// RecentByUser 查询用户最近的操作记录
// @Summary 查询用户操作记录
// @Description 按用户查询最近的审计日志,user 缺省为当前操作者
// @Tags audit
// @Produce json
// @Param user query string false "用户标识(邮箱)"
// @Param limit query int false "返回条数上限" default(50)
// @Success 200 {object} Response
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /audit-logs [get]
func (ctrl *AuditController) RecentByUser(c *gin.Context) {
	actor, _ := auth.ActorFromContext(c)

	user := c.Query("user")
	if user == "" {
		user = actor.Identifier
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit <= 0 {
		limit = 50
	}

	logs, err := ctrl.auditSvc.RecentByUser(user, limit)
	if err != nil {
		HandleServiceError(c, err, "list audit logs")
		return
	}
	Success(c, logs)
}

// ResourceHistory 查询资源的操作历史
// @Summary 查询资源操作历史
// @Description 按资源类型和 ID 查询全部审计记录
// @Tags audit
// @Produce json
// @Param type path string true "资源类型" Enums(process, task, template, department)
// @Param id path string true "资源 ID"
// @Success 200 {object} Response
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /audit-logs/{type}/{id} [get]
func (ctrl *AuditController) ResourceHistory(c *gin.Context) {
	logs, err := ctrl.auditSvc.ResourceHistory(c.Param("type"), c.Param("id"))
	if err != nil {
		HandleServiceError(c, err, "query resource history")
		return
	}
	Success(c, logs)
}
