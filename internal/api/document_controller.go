package api

import (
	"net/http"
	"strconv"

	"github.com/AyaSox/hr-offboarding-checklist/internal/service"
	"github.com/gin-gonic/gin"
)

// DocumentController 流程文档控制器
// 只处理元数据,文件内容的存取由外部适配层负责
type DocumentController struct {
	documentService service.DocumentService
}

// NewDocumentController 创建流程文档控制器
func NewDocumentController(documentService service.DocumentService) *DocumentController {
	return &DocumentController{
		documentService: documentService,
	}
}

// Register 登记文档
// @Summary      登记文档元数据
// @Tags         文档管理
// @Accept       json
// @Produce      json
// @Param        request body service.RegisterDocumentRequest true "文档信息"
// @Success      200  {object}  Response
// @Failure      404  {object}  ErrorResponse
// @Router       /documents [post]
// @Security     BearerAuth
func (c *DocumentController) Register(ctx *gin.Context) {
	actor, ok := actorOrAbort(ctx)
	if !ok {
		return
	}

	var req service.RegisterDocumentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	document, err := c.documentService.Register(&req, actor)
	if err != nil {
		HandleServiceError(ctx, err, "register document")
		return
	}
	Success(ctx, document)
}

// ListByProcess 流程的文档列表
// @Summary      流程文档列表
// @Tags         文档管理
// @Produce      json
// @Param        process_id query int true "流程 ID"
// @Success      200  {object}  Response
// @Failure      404  {object}  ErrorResponse
// @Router       /documents [get]
// @Security     BearerAuth
func (c *DocumentController) ListByProcess(ctx *gin.Context) {
	actor, ok := actorOrAbort(ctx)
	if !ok {
		return
	}

	processID, err := strconv.ParseUint(ctx.Query("process_id"), 10, 32)
	if err != nil || processID == 0 {
		Error(ctx, http.StatusBadRequest, "invalid request", "process_id query parameter is required")
		return
	}

	documents, err := c.documentService.ListByProcess(uint(processID), actor)
	if err != nil {
		HandleServiceError(ctx, err, "list documents")
		return
	}
	Success(ctx, documents)
}

// Get 文档详情
// @Summary      获取文档详情
// @Tags         文档管理
// @Produce      json
// @Param        id path int true "文档 ID"
// @Success      200  {object}  Response
// @Failure      404  {object}  ErrorResponse
// @Router       /documents/{id} [get]
// @Security     BearerAuth
func (c *DocumentController) Get(ctx *gin.Context) {
	actor, ok := actorOrAbort(ctx)
	if !ok {
		return
	}
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	document, err := c.documentService.Get(id, actor)
	if err != nil {
		HandleServiceError(ctx, err, "get document")
		return
	}
	Success(ctx, document)
}

// Update 更新文档
// @Summary      更新文档元数据
// @Tags         文档管理
// @Accept       json
// @Produce      json
// @Param        id path int true "文档 ID"
// @Param        request body service.UpdateDocumentRequest true "文档信息"
// @Success      200  {object}  Response
// @Failure      404  {object}  ErrorResponse
// @Router       /documents/{id} [put]
// @Security     BearerAuth
func (c *DocumentController) Update(ctx *gin.Context) {
	actor, ok := actorOrAbort(ctx)
	if !ok {
		return
	}
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	var req service.UpdateDocumentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	document, err := c.documentService.Update(id, &req, actor)
	if err != nil {
		HandleServiceError(ctx, err, "update document")
		return
	}
	Success(ctx, document)
}

// Delete 删除文档
// @Summary      删除文档记录
// @Tags         文档管理
// @Produce      json
// @Param        id path int true "文档 ID"
// @Success      200  {object}  Response
// @Failure      403  {object}  ErrorResponse
// @Router       /documents/{id} [delete]
// @Security     BearerAuth
func (c *DocumentController) Delete(ctx *gin.Context) {
	actor, ok := actorOrAbort(ctx)
	if !ok {
		return
	}
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	if err := c.documentService.Delete(id, actor); err != nil {
		HandleServiceError(ctx, err, "delete document")
		return
	}
	Success(ctx, nil)
}
