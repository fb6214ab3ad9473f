package service

import (
	"context"
	"testing"
	"time"

	"github.com/AyaSox/hr-offboarding-checklist/internal/auth"
	"github.com/AyaSox/hr-offboarding-checklist/internal/config"
	"github.com/AyaSox/hr-offboarding-checklist/internal/database"
	"github.com/AyaSox/hr-offboarding-checklist/internal/model"
	"github.com/AyaSox/hr-offboarding-checklist/internal/repository"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	hrActor    = auth.Actor{Identifier: "hr@company.co.za", Roles: []string{auth.RoleHR}}
	adminActor = auth.Actor{Identifier: "admin@company.co.za", Roles: []string{auth.RoleAdmin}}
	userActor  = auth.Actor{Identifier: "user@company.co.za", Roles: []string{auth.RoleUser}}
)

// testEnv 服务层测试环境,基于内存 SQLite
type testEnv struct {
	db           *gorm.DB
	process      ProcessService
	checklist    ChecklistService
	template     TemplateService
	notification NotificationService
	department   DepartmentService
	document     DocumentService
	query        QueryService
	audit        AuditLogService
	reminder     *ReminderService
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// 内存库,多连接会各自为政
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	return db
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := newTestDB(t)

	notify := config.NotifyConfig{
		HREmail:      "hr@company.co.za",
		AdminEmail:   "admin@company.co.za",
		DefaultEmail: "hr@company.co.za",
		FallbackEmails: map[string]string{
			"it":      "it@company.co.za",
			"payroll": "payroll@company.co.za",
		},
		RetentionDays: 30,
	}
	reminderCfg := config.ReminderConfig{
		Enabled:         true,
		IntervalHours:   24,
		ErrorRetryMins:  30,
		ArchiveAgeYears: 2,
	}

	processRepo := repository.NewProcessRepository(db)
	checkRepo := repository.NewChecklistRepository(db)
	templateRepo := repository.NewTemplateRepository(db)
	notifRepo := repository.NewNotificationRepository(db)
	deptRepo := repository.NewDepartmentRepository(db)
	docRepo := repository.NewDocumentRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)

	auditSvc := NewAuditLogService(auditRepo)
	emailSvc := NewEmailService(config.SMTPConfig{})
	deptSvc := NewDepartmentService(deptRepo, notify)
	notifSvc := NewNotificationService(notifRepo, deptSvc, emailSvc, notify)
	genSvc := NewGenerationService(templateRepo)

	return &testEnv{
		db:           db,
		process:      NewProcessService(db, processRepo, checkRepo, genSvc, notifSvc, auditSvc),
		checklist:    NewChecklistService(db, checkRepo, processRepo, notifSvc, auditSvc),
		template:     NewTemplateService(templateRepo),
		notification: notifSvc,
		department:   deptSvc,
		document:     NewDocumentService(docRepo, processRepo),
		query:        NewQueryService(db),
		audit:        auditSvc,
		reminder:     NewReminderService(processRepo, checkRepo, notifSvc, emailSvc, auditSvc, reminderCfg, notify),
	}
}

func (e *testEnv) createProcess(t *testing.T, actor auth.Actor) *model.OffboardingProcess {
	t.Helper()
	process, err := e.process.Create(context.Background(), &CreateProcessRequest{
		EmployeeName:        "Sipho Dlamini",
		JobTitle:            "Software Engineer",
		EmploymentStartDate: time.Date(2020, 3, 1, 0, 0, 0, 0, time.UTC),
		LastWorkingDay:      time.Now().AddDate(0, 0, 14),
	}, actor)
	require.NoError(t, err)
	return process
}

func (e *testEnv) createTemplate(t *testing.T, name, department string, days int, dependsOn *uint) *model.TaskTemplate {
	t.Helper()
	template, err := e.template.Create(&TemplateRequest{
		TaskName:               name,
		Department:             department,
		DaysFromLastWorkingDay: days,
		DependsOnTemplateID:    dependsOn,
	}, hrActor)
	require.NoError(t, err)
	return template
}

func (e *testEnv) itemsFor(t *testing.T, processID uint) []model.ChecklistItem {
	t.Helper()
	var items []model.ChecklistItem
	require.NoError(t, e.db.Where("process_id = ?", processID).Order("id").Find(&items).Error)
	return items
}
