package api

import (
	"context"
	"net/http"
	"time"

	"github.com/AyaSox/hr-offboarding-checklist/internal/service"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// HealthController 健康检查控制器
type HealthController struct {
	db       *gorm.DB
	emailSvc service.EmailService
}

// NewHealthController 创建健康检查控制器
func NewHealthController(db *gorm.DB, emailSvc service.EmailService) *HealthController {
	return &HealthController{
		db:       db,
		emailSvc: emailSvc,
	}
}

// Check 健康检查
// @Summary      健康检查
// @Description  报告数据库连接与邮件通道状态
// @Tags         系统
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      503  {object}  map[string]interface{}
// @Router       /health [get]
func (c *HealthController) Check(ctx *gin.Context) {
	status := "healthy"
	checks := make(map[string]string)

	// 检查数据库连接
	if c.db != nil {
		if err := c.checkDatabase(ctx.Request.Context()); err != nil {
			status = "unhealthy"
			checks["database"] = "unhealthy: " + err.Error()
		} else {
			checks["database"] = "healthy"
		}
	} else {
		checks["database"] = "not configured"
	}

	// 邮件通道只报告配置状态,不做发送探测
	if c.emailSvc != nil && c.emailSvc.Enabled() {
		checks["email"] = "configured"
	} else {
		checks["email"] = "log-only"
	}

	httpStatus := http.StatusOK
	if status == "unhealthy" {
		httpStatus = http.StatusServiceUnavailable
	}

	ctx.JSON(httpStatus, gin.H{
		"status":    status,
		"timestamp": time.Now().Unix(),
		"checks":    checks,
	})
}

// checkDatabase 检查数据库连接
func (c *HealthController) checkDatabase(ctx context.Context) error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return sqlDB.PingContext(ctx)
}
