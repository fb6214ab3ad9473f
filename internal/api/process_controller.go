package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/AyaSox/hr-offboarding-checklist/internal/auth"
	"github.com/AyaSox/hr-offboarding-checklist/internal/repository"
	"github.com/AyaSox/hr-offboarding-checklist/internal/service"
	"github.com/gin-gonic/gin"
)

// ProcessController 离职流程控制器
type ProcessController struct {
	processService service.ProcessService
}

// NewProcessController 创建离职流程控制器
func NewProcessController(processService service.ProcessService) *ProcessController {
	return &ProcessController{
		processService: processService,
	}
}

// parseID 解析路径中的数字 ID
func parseID(ctx *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil || id == 0 {
		Error(ctx, http.StatusBadRequest, "invalid id", "id must be a positive integer")
		return 0, false
	}
	return uint(id), true
}

// actorOrAbort 读取当前操作者
func actorOrAbort(ctx *gin.Context) (auth.Actor, bool) {
	actor, ok := auth.ActorFromContext(ctx)
	if !ok {
		Error(ctx, http.StatusUnauthorized, "unauthorized", "actor not found in context")
		return auth.Actor{}, false
	}
	return actor, true
}

// Create 发起离职流程
// @Summary      发起离职流程
// @Description  创建新的离职流程,初始状态为待审批
// @Tags         流程管理
// @Accept       json
// @Produce      json
// @Param        request body service.CreateProcessRequest true "流程信息"
// @Success      200  {object}  Response
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /processes [post]
// @Security     BearerAuth
func (c *ProcessController) Create(ctx *gin.Context) {
	actor, ok := actorOrAbort(ctx)
	if !ok {
		return
	}

	var req service.CreateProcessRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	process, err := c.processService.Create(ctx.Request.Context(), &req, actor)
	if err != nil {
		HandleServiceError(ctx, err, "create process")
		return
	}

	Success(ctx, process)
}

// List 流程列表
// @Summary      查询流程列表
// @Description  分页查询流程,支持搜索、状态、部门与日期过滤
// @Tags         流程管理
// @Produce      json
// @Param        search     query string false "员工姓名/职位/发起人模糊匹配"
// @Param        status     query string false "pending/approved/active/closed/rejected/overdue"
// @Param        department query string false "按任务部门过滤"
// @Param        start_from query string false "发起日期下限 (YYYY-MM-DD)"
// @Param        start_to   query string false "发起日期上限 (YYYY-MM-DD)"
// @Param        sort       query string false "name/name_desc/date/date_desc"
// @Param        page       query int    false "页码"
// @Param        page_size  query int    false "每页数量"
// @Success      200  {object}  PaginatedResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /processes [get]
// @Security     BearerAuth
func (c *ProcessController) List(ctx *gin.Context) {
	actor, ok := actorOrAbort(ctx)
	if !ok {
		return
	}

	filter := buildProcessFilter(ctx)
	processes, total, err := c.processService.List(filter, actor)
	if err != nil {
		HandleServiceError(ctx, err, "list processes")
		return
	}

	Paginated(ctx, processes, NewPagination(filter.Page, filter.PageSize, total))
}

// Get 流程详情
// @Summary      获取流程详情
// @Description  根据 ID 获取流程及其清单任务与文档
// @Tags         流程管理
// @Produce      json
// @Param        id path int true "流程 ID"
// @Success      200  {object}  Response
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /processes/{id} [get]
// @Security     BearerAuth
func (c *ProcessController) Get(ctx *gin.Context) {
	actor, ok := actorOrAbort(ctx)
	if !ok {
		return
	}
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	process, err := c.processService.Get(id, actor)
	if err != nil {
		HandleServiceError(ctx, err, "get process")
		return
	}

	Success(ctx, process)
}

// Update 更新流程
// @Summary      更新流程
// @Description  发起人在审批前修改流程信息
// @Tags         流程管理
// @Accept       json
// @Produce      json
// @Param        id path int true "流程 ID"
// @Param        request body service.UpdateProcessRequest true "更新内容"
// @Success      200  {object}  Response
// @Failure      409  {object}  ErrorResponse
// @Failure      422  {object}  ErrorResponse
// @Router       /processes/{id} [put]
// @Security     BearerAuth
func (c *ProcessController) Update(ctx *gin.Context) {
	actor, ok := actorOrAbort(ctx)
	if !ok {
		return
	}
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	var req service.UpdateProcessRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	process, err := c.processService.Update(ctx.Request.Context(), id, &req, actor)
	if err != nil {
		HandleServiceError(ctx, err, "update process")
		return
	}

	Success(ctx, process)
}

// approveRequest 审批/关闭请求体
type approveRequest struct {
	Version int `json:"version" binding:"required"` // 乐观并发令牌
}

// rejectRequest 驳回请求体
type rejectRequest struct {
	Reason  string `json:"reason"`                     // 驳回原因,可空
	Version int    `json:"version" binding:"required"` // 乐观并发令牌
}

// deleteRequest 删除请求体
type deleteRequest struct {
	Confirmation string `json:"confirmation" binding:"required"` // 确认文本,必须为 DELETE
}

// Approve 审批通过
// @Summary      审批通过
// @Description  HR/Admin 审批通过流程并生成清单任务
// @Tags         流程管理
// @Accept       json
// @Produce      json
// @Param        id path int true "流程 ID"
// @Param        request body approveRequest true "审批参数"
// @Success      200  {object}  Response
// @Failure      403  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Failure      422  {object}  ErrorResponse
// @Router       /processes/{id}/approve [post]
// @Security     BearerAuth
func (c *ProcessController) Approve(ctx *gin.Context) {
	actor, ok := actorOrAbort(ctx)
	if !ok {
		return
	}
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	var req approveRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	process, err := c.processService.Approve(ctx.Request.Context(), id, req.Version, actor)
	if err != nil {
		HandleServiceError(ctx, err, "approve process")
		return
	}

	Success(ctx, process)
}

// Reject 驳回流程
// @Summary      驳回流程
// @Description  HR/Admin 驳回待审批流程,原因可空
// @Tags         流程管理
// @Accept       json
// @Produce      json
// @Param        id path int true "流程 ID"
// @Param        request body rejectRequest true "驳回参数"
// @Success      200  {object}  Response
// @Failure      403  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /processes/{id}/reject [post]
// @Security     BearerAuth
func (c *ProcessController) Reject(ctx *gin.Context) {
	actor, ok := actorOrAbort(ctx)
	if !ok {
		return
	}
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	var req rejectRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	process, err := c.processService.Reject(ctx.Request.Context(), id, req.Reason, req.Version, actor)
	if err != nil {
		HandleServiceError(ctx, err, "reject process")
		return
	}

	Success(ctx, process)
}

// Close 关闭流程
// @Summary      关闭流程
// @Description  HR/Admin 在全部任务完成后关闭流程
// @Tags         流程管理
// @Accept       json
// @Produce      json
// @Param        id path int true "流程 ID"
// @Param        request body approveRequest true "关闭参数"
// @Success      200  {object}  Response
// @Failure      422  {object}  ErrorResponse
// @Router       /processes/{id}/close [post]
// @Security     BearerAuth
func (c *ProcessController) Close(ctx *gin.Context) {
	actor, ok := actorOrAbort(ctx)
	if !ok {
		return
	}
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	var req approveRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	process, err := c.processService.Close(ctx.Request.Context(), id, req.Version, actor)
	if err != nil {
		HandleServiceError(ctx, err, "close process")
		return
	}

	Success(ctx, process)
}

// Delete 删除流程
// @Summary      删除流程
// @Description  HR/Admin 删除流程及全部关联数据,需输入 DELETE 确认
// @Tags         流程管理
// @Accept       json
// @Produce      json
// @Param        id path int true "流程 ID"
// @Param        request body deleteRequest true "删除确认"
// @Success      200  {object}  Response
// @Failure      422  {object}  ErrorResponse
// @Router       /processes/{id} [delete]
// @Security     BearerAuth
func (c *ProcessController) Delete(ctx *gin.Context) {
	actor, ok := actorOrAbort(ctx)
	if !ok {
		return
	}
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	var req deleteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	if err := c.processService.Delete(ctx.Request.Context(), id, req.Confirmation, actor); err != nil {
		HandleServiceError(ctx, err, "delete process")
		return
	}

	Success(ctx, nil)
}

// Export 导出流程 CSV
// @Summary      导出流程列表
// @Description  按当前过滤条件导出流程为 CSV
// @Tags         流程管理
// @Produce      text/csv
// @Success      200 {string} string "CSV 内容"
// @Router       /processes/export [get]
// @Security     BearerAuth
func (c *ProcessController) Export(ctx *gin.Context) {
	actor, ok := actorOrAbort(ctx)
	if !ok {
		return
	}

	data, err := c.processService.ExportCSV(buildProcessFilter(ctx), actor)
	if err != nil {
		HandleServiceError(ctx, err, "export processes")
		return
	}

	ctx.Header("Content-Disposition", `attachment; filename="offboarding-processes.csv"`)
	ctx.Data(http.StatusOK, "text/csv", data)
}

// Departments 任务涉及的部门列表
// @Summary      部门筛选项
// @Description  清单任务中出现过的部门列表
// @Tags         流程管理
// @Produce      json
// @Success      200  {object}  Response
// @Router       /processes/departments [get]
// @Security     BearerAuth
func (c *ProcessController) Departments(ctx *gin.Context) {
	departments, err := c.processService.Departments()
	if err != nil {
		HandleServiceError(ctx, err, "list departments")
		return
	}
	Success(ctx, departments)
}

// buildProcessFilter 从查询参数构建过滤器
func buildProcessFilter(ctx *gin.Context) *repository.ProcessFilter {
	filter := &repository.ProcessFilter{
		Search:     ctx.Query("search"),
		Status:     ctx.Query("status"),
		Department: ctx.Query("department"),
		SortOrder:  ctx.Query("sort"),
	}

	if from := ctx.Query("start_from"); from != "" {
		if t, err := time.Parse("2006-01-02", from); err == nil {
			filter.StartFrom = &t
		}
	}
	if to := ctx.Query("start_to"); to != "" {
		if t, err := time.Parse("2006-01-02", to); err == nil {
			filter.StartTo = &t
		}
	}

	filter.Page, _ = strconv.Atoi(ctx.DefaultQuery("page", "1"))
	filter.PageSize, _ = strconv.Atoi(ctx.DefaultQuery("page_size", "20"))
	if filter.PageSize > 100 {
		filter.PageSize = 100
	}

	return filter
}
