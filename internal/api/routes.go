package api

import (
	"github.com/AyaSox/hr-offboarding-checklist/internal/auth"
	"github.com/AyaSox/hr-offboarding-checklist/internal/config"
	"github.com/AyaSox/hr-offboarding-checklist/internal/service"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// Services 路由需要的服务集合
type Services struct {
	Process      service.ProcessService
	Checklist    service.ChecklistService
	Template     service.TemplateService
	Notification service.NotificationService
	Department   service.DepartmentService
	Document     service.DocumentService
	Query        service.QueryService
	Email        service.EmailService
	AuditLog     service.AuditLogService
}

// SetupRoutes 配置路由
func SetupRoutes(db *gorm.DB, validator *auth.TokenValidator, cfg *config.Config, svcs Services) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	// 中间件
	router.Use(RequestIDMiddleware())
	router.Use(RequestLogMiddleware())
	router.Use(CORSMiddleware(&cfg.CORS))
	router.Use(RateLimitMiddleware(100, 200))

	// 健康检查
	healthController := NewHealthController(db, svcs.Email)
	router.GET("/health", healthController.Check)

	// Prometheus 指标端点
	router.GET("/metrics", MetricsHandler)

	// Swagger UI 路由
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	processController := NewProcessController(svcs.Process)
	taskController := NewTaskController(svcs.Checklist)
	templateController := NewTemplateController(svcs.Template)
	notificationController := NewNotificationController(svcs.Notification)
	departmentController := NewDepartmentController(svcs.Department)
	documentController := NewDocumentController(svcs.Document)
	analyticsController := NewAnalyticsController(svcs.Query)
	auditController := NewAuditController(svcs.AuditLog)

	hrOrAdmin := auth.RoleMiddleware(auth.RoleHR, auth.RoleAdmin)

	// API v1 路由组,全部需要认证
	v1 := router.Group("/api/v1")
	v1.Use(auth.AuthMiddleware(validator))
	{
		// 流程管理路由
		processes := v1.Group("/processes")
		{
			processes.POST("", processController.Create)
			processes.GET("", processController.List)
			processes.GET("/export", processController.Export)
			processes.GET("/departments", processController.Departments)
			processes.GET("/:id", processController.Get)
			processes.PUT("/:id", processController.Update)
			processes.POST("/:id/approve", hrOrAdmin, processController.Approve)
			processes.POST("/:id/reject", hrOrAdmin, processController.Reject)
			processes.POST("/:id/close", hrOrAdmin, processController.Close)
			processes.DELETE("/:id", hrOrAdmin, processController.Delete)
		}

		// 清单任务路由
		tasks := v1.Group("/tasks")
		{
			tasks.POST("/bulk-complete", taskController.BulkComplete)
			tasks.POST("/:id/complete", taskController.Complete)
			tasks.POST("/:id/uncomplete", taskController.Uncomplete)
			tasks.GET("/:id/comments", taskController.ListComments)
			tasks.POST("/:id/comments", taskController.AddComment)
		}

		// 模板管理路由
		templates := v1.Group("/templates")
		{
			templates.GET("", templateController.List)
			templates.GET("/export", templateController.Export)
			templates.GET("/:id", templateController.Get)
			templates.POST("", hrOrAdmin, templateController.Create)
			templates.PUT("/:id", hrOrAdmin, templateController.Update)
			templates.DELETE("/:id", hrOrAdmin, templateController.Delete)
			templates.POST("/import", hrOrAdmin, templateController.Import)
		}

		// 通知路由
		notifications := v1.Group("/notifications")
		{
			notifications.GET("", notificationController.List)
			notifications.GET("/unread-count", notificationController.UnreadCount)
			notifications.POST("/read-all", notificationController.MarkAllRead)
			notifications.POST("/:id/read", notificationController.MarkRead)
			notifications.DELETE("/:id", notificationController.Delete)
		}

		// 部门目录路由
		departments := v1.Group("/departments")
		{
			departments.GET("", departmentController.List)
			departments.GET("/:id", departmentController.Get)
			departments.POST("", hrOrAdmin, departmentController.Create)
			departments.PUT("/:id", hrOrAdmin, departmentController.Update)
			departments.DELETE("/:id", hrOrAdmin, departmentController.Delete)
		}

		// 文档元数据路由
		documents := v1.Group("/documents")
		{
			documents.POST("", documentController.Register)
			documents.GET("", documentController.ListByProcess)
			documents.GET("/:id", documentController.Get)
			documents.PUT("/:id", documentController.Update)
			documents.DELETE("/:id", documentController.Delete)
		}

		// 统计分析路由
		analytics := v1.Group("/analytics")
		{
			analytics.GET("/departments", analyticsController.DepartmentStats)
			analytics.GET("/overview", analyticsController.Overview)
			analytics.GET("/dashboard", analyticsController.Dashboard)
		}

		// 审计日志路由,仅 HR/Admin 可查
		auditLogs := v1.Group("/audit-logs", hrOrAdmin)
		{
			auditLogs.GET("", auditController.RecentByUser)
			auditLogs.GET("/:type/:id", auditController.ResourceHistory)
		}
	}

	return router
}
