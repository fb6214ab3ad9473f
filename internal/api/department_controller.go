package api

import (
	"net/http"
	"strconv"

	"github.com/AyaSox/hr-offboarding-checklist/internal/service"
	"github.com/gin-gonic/gin"
)

// DepartmentController 部门目录控制器
type DepartmentController struct {
	departmentService service.DepartmentService
}

// NewDepartmentController 创建部门目录控制器
func NewDepartmentController(departmentService service.DepartmentService) *DepartmentController {
	return &DepartmentController{
		departmentService: departmentService,
	}
}

// Create 创建部门
// @Summary      创建部门
// @Description  HR/Admin 在目录中登记部门与联系邮箱
// @Tags         部门管理
// @Accept       json
// @Produce      json
// @Param        request body service.CreateDepartmentRequest true "部门信息"
// @Success      200  {object}  Response
// @Failure      422  {object}  ErrorResponse
// @Router       /departments [post]
// @Security     BearerAuth
func (c *DepartmentController) Create(ctx *gin.Context) {
	actor, ok := actorOrAbort(ctx)
	if !ok {
		return
	}

	var req service.CreateDepartmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	department, err := c.departmentService.Create(&req, actor.Identifier)
	if err != nil {
		HandleServiceError(ctx, err, "create department")
		return
	}
	Success(ctx, department)
}

// List 部门列表
// @Summary      部门列表
// @Tags         部门管理
// @Produce      json
// @Param        active query bool false "仅启用的"
// @Success      200  {object}  Response
// @Router       /departments [get]
// @Security     BearerAuth
func (c *DepartmentController) List(ctx *gin.Context) {
	activeOnly, _ := strconv.ParseBool(ctx.DefaultQuery("active", "false"))

	departments, err := c.departmentService.List(activeOnly)
	if err != nil {
		HandleServiceError(ctx, err, "list departments")
		return
	}
	Success(ctx, departments)
}

// Get 部门详情
// @Summary      获取部门详情
// @Tags         部门管理
// @Produce      json
// @Param        id path int true "部门 ID"
// @Success      200  {object}  Response
// @Failure      404  {object}  ErrorResponse
// @Router       /departments/{id} [get]
// @Security     BearerAuth
func (c *DepartmentController) Get(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	department, err := c.departmentService.Get(id)
	if err != nil {
		HandleServiceError(ctx, err, "get department")
		return
	}
	Success(ctx, department)
}

// Update 更新部门
// @Summary      更新部门
// @Tags         部门管理
// @Accept       json
// @Produce      json
// @Param        id path int true "部门 ID"
// @Param        request body service.UpdateDepartmentRequest true "部门信息"
// @Success      200  {object}  Response
// @Failure      404  {object}  ErrorResponse
// @Router       /departments/{id} [put]
// @Security     BearerAuth
func (c *DepartmentController) Update(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	var req service.UpdateDepartmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	department, err := c.departmentService.Update(id, &req)
	if err != nil {
		HandleServiceError(ctx, err, "update department")
		return
	}
	Success(ctx, department)
}

// Delete 删除部门
// @Summary      删除部门
// @Tags         部门管理
// @Produce      json
// @Param        id path int true "部门 ID"
// @Success      200  {object}  Response
// @Failure      404  {object}  ErrorResponse
// @Router       /departments/{id} [delete]
// @Security     BearerAuth
func (c *DepartmentController) Delete(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	if err := c.departmentService.Delete(id); err != nil {
		HandleServiceError(ctx, err, "delete department")
		return
	}
	Success(ctx, nil)
}
