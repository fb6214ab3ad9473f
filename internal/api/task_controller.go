package api

import (
	"net/http"

	"github.com/AyaSox/hr-offboarding-checklist/internal/service"
	"github.com/gin-gonic/gin"
)

// TaskController 清单任务控制器
type TaskController struct {
	checklistService service.ChecklistService
}

// NewTaskController 创建清单任务控制器
func NewTaskController(checklistService service.ChecklistService) *TaskController {
	return &TaskController{
		checklistService: checklistService,
	}
}

// Complete 标记任务完成
// @Summary      完成任务
// @Description  标记清单任务完成,依赖未完成时拦截
// @Tags         任务管理
// @Accept       json
// @Produce      json
// @Param        id path int true "任务 ID"
// @Param        request body service.CompleteTaskRequest true "完成参数"
// @Success      200  {object}  Response
// @Failure      409  {object}  ErrorResponse
// @Failure      422  {object}  ErrorResponse
// @Router       /tasks/{id}/complete [post]
// @Security     BearerAuth
func (c *TaskController) Complete(ctx *gin.Context) {
	actor, ok := actorOrAbort(ctx)
	if !ok {
		return
	}
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	var req service.CompleteTaskRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	item, err := c.checklistService.Complete(ctx.Request.Context(), id, req.Version, req.Comment, actor)
	if err != nil {
		HandleServiceError(ctx, err, "complete task")
		return
	}

	Success(ctx, item)
}

// Uncomplete 取消任务完成标记
// @Summary      取消完成
// @Description  取消任务完成标记,已完成的依赖方任务会拦截
// @Tags         任务管理
// @Accept       json
// @Produce      json
// @Param        id path int true "任务 ID"
// @Param        request body service.UncompleteTaskRequest true "取消参数"
// @Success      200  {object}  Response
// @Failure      403  {object}  ErrorResponse
// @Failure      422  {object}  ErrorResponse
// @Router       /tasks/{id}/uncomplete [post]
// @Security     BearerAuth
func (c *TaskController) Uncomplete(ctx *gin.Context) {
	actor, ok := actorOrAbort(ctx)
	if !ok {
		return
	}
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	var req service.UncompleteTaskRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	item, err := c.checklistService.Uncomplete(ctx.Request.Context(), id, req.Version, actor)
	if err != nil {
		HandleServiceError(ctx, err, "uncomplete task")
		return
	}

	Success(ctx, item)
}

// BulkComplete 批量完成
// @Summary      批量完成任务
// @Description  批量标记任务完成,逐项返回结果
// @Tags         任务管理
// @Accept       json
// @Produce      json
// @Param        request body service.BulkCompleteRequest true "任务 ID 列表"
// @Success      200  {object}  Response
// @Failure      400  {object}  ErrorResponse
// @Router       /tasks/bulk-complete [post]
// @Security     BearerAuth
func (c *TaskController) BulkComplete(ctx *gin.Context) {
	actor, ok := actorOrAbort(ctx)
	if !ok {
		return
	}

	var req service.BulkCompleteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	results, err := c.checklistService.BulkComplete(ctx.Request.Context(), &req, actor)
	if err != nil {
		HandleServiceError(ctx, err, "bulk complete tasks")
		return
	}

	Success(ctx, results)
}

// AddComment 追加任务备注
// @Summary      追加备注
// @Description  给任务追加一条备注记录
// @Tags         任务管理
// @Accept       json
// @Produce      json
// @Param        id path int true "任务 ID"
// @Param        request body service.AddCommentRequest true "备注内容"
// @Success      200  {object}  Response
// @Failure      404  {object}  ErrorResponse
// @Router       /tasks/{id}/comments [post]
// @Security     BearerAuth
func (c *TaskController) AddComment(ctx *gin.Context) {
	actor, ok := actorOrAbort(ctx)
	if !ok {
		return
	}
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	var req service.AddCommentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	comment, err := c.checklistService.AddComment(id, req.Comment, actor)
	if err != nil {
		HandleServiceError(ctx, err, "add comment")
		return
	}

	Success(ctx, comment)
}

// ListComments 任务备注历史
// @Summary      备注历史
// @Description  任务的备注记录,按时间倒序
// @Tags         任务管理
// @Produce      json
// @Param        id path int true "任务 ID"
// @Success      200  {object}  Response
// @Failure      404  {object}  ErrorResponse
// @Router       /tasks/{id}/comments [get]
// @Security     BearerAuth
func (c *TaskController) ListComments(ctx *gin.Context) {
	actor, ok := actorOrAbort(ctx)
	if !ok {
		return
	}
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	comments, err := c.checklistService.ListComments(id, actor)
	if err != nil {
		HandleServiceError(ctx, err, "list comments")
		return
	}

	Success(ctx, comments)
}
