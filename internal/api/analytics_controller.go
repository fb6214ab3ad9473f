package api

import (
	"github.com/AyaSox/hr-offboarding-checklist/internal/service"
	"github.com/gin-gonic/gin"
)

// AnalyticsController 统计分析控制器
type AnalyticsController struct {
	queryService service.QueryService
}

// NewAnalyticsController 创建统计分析控制器
func NewAnalyticsController(queryService service.QueryService) *AnalyticsController {
	return &AnalyticsController{
		queryService: queryService,
	}
}

// DepartmentStats 部门统计
// @Summary      部门统计
// @Description  按部门聚合任务完成率与逾期数
// @Tags         统计分析
// @Produce      json
// @Success      200  {object}  Response
// @Router       /analytics/departments [get]
// @Security     BearerAuth
func (c *AnalyticsController) DepartmentStats(ctx *gin.Context) {
	stats, err := c.queryService.DepartmentStats()
	if err != nil {
		HandleServiceError(ctx, err, "department stats")
		return
	}
	Success(ctx, stats)
}

// Overview 系统总览
// @Summary      系统总览
// @Description  流程与任务的全局计数和平均进度
// @Tags         统计分析
// @Produce      json
// @Success      200  {object}  Response
// @Router       /analytics/overview [get]
// @Security     BearerAuth
func (c *AnalyticsController) Overview(ctx *gin.Context) {
	overview, err := c.queryService.SystemOverview()
	if err != nil {
		HandleServiceError(ctx, err, "system overview")
		return
	}
	Success(ctx, overview)
}

// Dashboard 工作台计数
// @Summary      工作台计数
// @Description  当前操作者视角的流程与任务计数
// @Tags         统计分析
// @Produce      json
// @Success      200  {object}  Response
// @Router       /analytics/dashboard [get]
// @Security     BearerAuth
func (c *AnalyticsController) Dashboard(ctx *gin.Context) {
	actor, ok := actorOrAbort(ctx)
	if !ok {
		return
	}

	counts, err := c.queryService.Dashboard(actor)
	if err != nil {
		HandleServiceError(ctx, err, "dashboard counts")
		return
	}
	Success(ctx, counts)
}
