package api

import (
	"net/http"

	"github.com/AyaSox/hr-offboarding-checklist/internal/service"
	"github.com/gin-gonic/gin"
)

// TemplateController 任务模板控制器
type TemplateController struct {
	templateService service.TemplateService
}

// NewTemplateController 创建任务模板控制器
func NewTemplateController(templateService service.TemplateService) *TemplateController {
	return &TemplateController{
		templateService: templateService,
	}
}

// Create 创建模板
// @Summary      创建任务模板
// @Description  HR/Admin 创建可复用的任务模板
// @Tags         模板管理
// @Accept       json
// @Produce      json
// @Param        request body service.TemplateRequest true "模板信息"
// @Success      200  {object}  Response
// @Failure      403  {object}  ErrorResponse
// @Failure      422  {object}  ErrorResponse
// @Router       /templates [post]
// @Security     BearerAuth
func (c *TemplateController) Create(ctx *gin.Context) {
	actor, ok := actorOrAbort(ctx)
	if !ok {
		return
	}

	var req service.TemplateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	template, err := c.templateService.Create(&req, actor)
	if err != nil {
		HandleServiceError(ctx, err, "create template")
		return
	}

	Success(ctx, template)
}

// List 模板列表
// @Summary      查询模板列表
// @Description  全部模板,按部门与任务名排序
// @Tags         模板管理
// @Produce      json
// @Success      200  {object}  Response
// @Router       /templates [get]
// @Security     BearerAuth
func (c *TemplateController) List(ctx *gin.Context) {
	templates, err := c.templateService.List()
	if err != nil {
		HandleServiceError(ctx, err, "list templates")
		return
	}
	Success(ctx, templates)
}

// Get 模板详情
// @Summary      获取模板详情
// @Tags         模板管理
// @Produce      json
// @Param        id path int true "模板 ID"
// @Success      200  {object}  Response
// @Failure      404  {object}  ErrorResponse
// @Router       /templates/{id} [get]
// @Security     BearerAuth
func (c *TemplateController) Get(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	template, err := c.templateService.Get(id)
	if err != nil {
		HandleServiceError(ctx, err, "get template")
		return
	}
	Success(ctx, template)
}

// Update 更新模板
// @Summary      更新任务模板
// @Description  HR/Admin 更新模板,依赖变更做环检查
// @Tags         模板管理
// @Accept       json
// @Produce      json
// @Param        id path int true "模板 ID"
// @Param        request body service.TemplateRequest true "模板信息"
// @Success      200  {object}  Response
// @Failure      422  {object}  ErrorResponse
// @Router       /templates/{id} [put]
// @Security     BearerAuth
func (c *TemplateController) Update(ctx *gin.Context) {
	actor, ok := actorOrAbort(ctx)
	if !ok {
		return
	}
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	var req service.TemplateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	template, err := c.templateService.Update(id, &req, actor)
	if err != nil {
		HandleServiceError(ctx, err, "update template")
		return
	}
	Success(ctx, template)
}

// Delete 删除模板
// @Summary      删除任务模板
// @Description  HR/Admin 删除模板,存在依赖方时拦截
// @Tags         模板管理
// @Produce      json
// @Param        id path int true "模板 ID"
// @Success      200  {object}  Response
// @Failure      422  {object}  ErrorResponse
// @Router       /templates/{id} [delete]
// @Security     BearerAuth
func (c *TemplateController) Delete(ctx *gin.Context) {
	actor, ok := actorOrAbort(ctx)
	if !ok {
		return
	}
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	if err := c.templateService.Delete(id, actor); err != nil {
		HandleServiceError(ctx, err, "delete template")
		return
	}
	Success(ctx, nil)
}

// Import 导入模板 CSV
// @Summary      导入模板
// @Description  从 CSV 文件批量导入模板,首行为表头
// @Tags         模板管理
// @Accept       multipart/form-data
// @Produce      json
// @Param        file formData file true "CSV 文件"
// @Success      200  {object}  Response
// @Failure      400  {object}  ErrorResponse
// @Router       /templates/import [post]
// @Security     BearerAuth
func (c *TemplateController) Import(ctx *gin.Context) {
	actor, ok := actorOrAbort(ctx)
	if !ok {
		return
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		Error(ctx, http.StatusBadRequest, "invalid request", "file field is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		Error(ctx, http.StatusBadRequest, "invalid request", err.Error())
		return
	}
	defer file.Close()

	result, err := c.templateService.ImportCSV(file, actor)
	if err != nil {
		HandleServiceError(ctx, err, "import templates")
		return
	}
	Success(ctx, result)
}

// Export 导出模板 CSV
// @Summary      导出模板
// @Description  导出全部模板为 CSV
// @Tags         模板管理
// @Produce      text/csv
// @Success      200 {string} string "CSV 内容"
// @Router       /templates/export [get]
// @Security     BearerAuth
func (c *TemplateController) Export(ctx *gin.Context) {
	data, err := c.templateService.ExportCSV()
	if err != nil {
		HandleServiceError(ctx, err, "export templates")
		return
	}

	ctx.Header("Content-Disposition", `attachment; filename="task-templates.csv"`)
	ctx.Data(http.StatusOK, "text/csv", data)
}
