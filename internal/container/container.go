package container

import (
	"fmt"
	"time"

	"github.com/AyaSox/hr-offboarding-checklist/internal/api"
	"github.com/AyaSox/hr-offboarding-checklist/internal/auth"
	"github.com/AyaSox/hr-offboarding-checklist/internal/config"
	"github.com/AyaSox/hr-offboarding-checklist/internal/database"
	"github.com/AyaSox/hr-offboarding-checklist/internal/repository"
	"github.com/AyaSox/hr-offboarding-checklist/internal/service"
	"gorm.io/gorm"
)

// Container 依赖注入容器
// 管理数据库连接、仓储与全部业务服务
type Container struct {
	db             *gorm.DB
	cfg            *config.Config
	tokenValidator *auth.TokenValidator
	services       api.Services
	reminderSvc    *service.ReminderService
	auditSvc       service.AuditLogService
}

// NewContainer 创建依赖注入容器
// 根据配置初始化所有依赖组件
func NewContainer(cfg *config.Config) (*Container, error) {
	// 初始化数据库（带重试机制）
	// 默认重试 3 次，初始间隔 1 秒，指数退避
	db, err := database.ConnectWithRetry(cfg.Database, 3, time.Second)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// 执行数据库迁移
	if err := database.Migrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return NewContainerWithDB(db, cfg), nil
}

// NewContainerWithDB 用已有数据库连接构建容器(供测试使用)
func NewContainerWithDB(db *gorm.DB, cfg *config.Config) *Container {
	// 仓储层
	processRepo := repository.NewProcessRepository(db)
	checkRepo := repository.NewChecklistRepository(db)
	templateRepo := repository.NewTemplateRepository(db)
	notifRepo := repository.NewNotificationRepository(db)
	deptRepo := repository.NewDepartmentRepository(db)
	docRepo := repository.NewDocumentRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)

	// 服务层
	auditSvc := service.NewAuditLogService(auditRepo)
	emailSvc := service.NewEmailService(cfg.SMTP)
	deptSvc := service.NewDepartmentService(deptRepo, cfg.Notify)
	notifSvc := service.NewNotificationService(notifRepo, deptSvc, emailSvc, cfg.Notify)
	genSvc := service.NewGenerationService(templateRepo)
	processSvc := service.NewProcessService(db, processRepo, checkRepo, genSvc, notifSvc, auditSvc)
	checklistSvc := service.NewChecklistService(db, checkRepo, processRepo, notifSvc, auditSvc)
	templateSvc := service.NewTemplateService(templateRepo)
	querySvc := service.NewQueryService(db)
	docSvc := service.NewDocumentService(docRepo, processRepo)
	reminderSvc := service.NewReminderService(processRepo, checkRepo, notifSvc, emailSvc, auditSvc, cfg.Reminder, cfg.Notify)

	return &Container{
		db:             db,
		cfg:            cfg,
		tokenValidator: auth.NewTokenValidator(cfg.Auth.JWTSecret),
		services: api.Services{
			Process:      processSvc,
			Checklist:    checklistSvc,
			Template:     templateSvc,
			Notification: notifSvc,
			Department:   deptSvc,
			Document:     docSvc,
			Query:        querySvc,
			Email:        emailSvc,
			AuditLog:     auditSvc,
		},
		reminderSvc: reminderSvc,
		auditSvc:    auditSvc,
	}
}

// DB 获取数据库连接
func (c *Container) DB() *gorm.DB {
	return c.db
}

// Config 获取配置
func (c *Container) Config() *config.Config {
	return c.cfg
}

// TokenValidator 获取 JWT 验证器
func (c *Container) TokenValidator() *auth.TokenValidator {
	return c.tokenValidator
}

// Services 获取路由层服务集合
func (c *Container) Services() api.Services {
	return c.services
}

// ReminderService 获取提醒扫描服务
func (c *Container) ReminderService() *service.ReminderService {
	return c.reminderSvc
}

// AuditLogService 获取审计日志服务
func (c *Container) AuditLogService() service.AuditLogService {
	return c.auditSvc
}

// Close 关闭容器,清理资源
func (c *Container) Close() error {
	if c.db != nil {
		sqlDB, err := c.db.DB()
		if err == nil {
			sqlDB.Close()
		}
	}
	return nil
}
