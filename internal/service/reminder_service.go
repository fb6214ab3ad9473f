package service

import (
	"context"
	"fmt"
	"time"

	"github.com/AyaSox/hr-offboarding-checklist/internal/auth"
	"github.com/AyaSox/hr-offboarding-checklist/internal/config"
	"github.com/AyaSox/hr-offboarding-checklist/internal/metrics"
	"github.com/AyaSox/hr-offboarding-checklist/internal/model"
	"github.com/AyaSox/hr-offboarding-checklist/internal/repository"
	"github.com/sirupsen/logrus"
)

// ReminderService 提醒扫描后台服务
// 长驻循环,每轮扫描逾期任务、新关闭流程、过期通知与归档候选
type ReminderService struct {
	processRepo repository.ProcessRepository
	checkRepo   repository.ChecklistRepository
	notifSvc    NotificationService
	emailSvc    EmailService
	auditSvc    AuditLogService
	reminder    config.ReminderConfig
	notify      config.NotifyConfig
	stopChan    chan struct{}
}

// NewReminderService 创建提醒扫描服务
func NewReminderService(
	processRepo repository.ProcessRepository,
	checkRepo repository.ChecklistRepository,
	notifSvc NotificationService,
	emailSvc EmailService,
	auditSvc AuditLogService,
	reminder config.ReminderConfig,
	notify config.NotifyConfig,
) *ReminderService {
	return &ReminderService{
		processRepo: processRepo,
		checkRepo:   checkRepo,
		notifSvc:    notifSvc,
		emailSvc:    emailSvc,
		auditSvc:    auditSvc,
		reminder:    reminder,
		notify:      notify,
		stopChan:    make(chan struct{}),
	}
}

// Start 启动扫描循环
// 正常节奏为 interval_hours,单轮出错后按 error_retry_mins 缩短重试间隔
func (s *ReminderService) Start(ctx context.Context) {
	go s.run(ctx)
}

// Stop 停止扫描循环
func (s *ReminderService) Stop() {
	close(s.stopChan)
}

func (s *ReminderService) run(ctx context.Context) {
	interval := time.Duration(s.reminder.IntervalHours) * time.Hour
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	retry := time.Duration(s.reminder.ErrorRetryMins) * time.Minute
	if retry <= 0 {
		retry = 30 * time.Minute
	}

	timer := time.NewTimer(interval)
	defer timer.Stop()

	// 启动时先跑一轮
	s.sweepAndReschedule(ctx, timer, interval, retry)

	for {
		select {
		case <-timer.C:
			s.sweepAndReschedule(ctx, timer, interval, retry)
		case <-s.stopChan:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (s *ReminderService) sweepAndReschedule(ctx context.Context, timer *time.Timer, interval, retry time.Duration) {
	next := interval
	if err := s.Sweep(ctx); err != nil {
		logrus.WithError(err).Error("Reminder sweep failed, retrying sooner")
		next = retry
	}
	timer.Reset(next)
}

// Sweep 执行一轮扫描
// 逐项错误只记日志不中断本轮;返回错误仅代表扫描主体失败
func (s *ReminderService) Sweep(ctx context.Context) error {
	start := time.Now()
	logrus.Debug("Reminder sweep started")

	if err := s.remindOverdueTasks(start); err != nil {
		return err
	}
	s.notifyRecentlyClosed(start)
	s.purgeOldNotifications()
	s.purgeOldAuditLogs(start)
	s.countArchiveCandidates(start)

	metrics.RecordSweepRun()
	logrus.WithField("duration", time.Since(start).String()).Info("Reminder sweep completed")
	return nil
}

// remindOverdueTasks 对逾期未完成任务派发提醒,逐项容错
func (s *ReminderService) remindOverdueTasks(now time.Time) error {
	items, err := s.checkRepo.FindOverdue(now)
	if err != nil {
		return fmt.Errorf("failed to query overdue tasks: %w", err)
	}

	for _, item := range items {
		process, err := s.processRepo.FindByID(item.ProcessID)
		if err != nil {
			logrus.WithError(err).WithField("task_id", item.ID).Warn("Skipping overdue reminder, process lookup failed")
			continue
		}
		if !process.IsActive() {
			continue
		}

		daysPastDue := 0
		if item.DueDate != nil {
			daysPastDue = int(now.Truncate(24*time.Hour).Sub(item.DueDate.Truncate(24*time.Hour)).Hours() / 24)
		}
		s.notifSvc.NotifyTaskOverdue(process, item, daysPastDue)
	}

	if len(items) > 0 {
		logrus.WithField("count", len(items)).Info("Overdue task reminders dispatched")
	}
	return nil
}

// notifyRecentlyClosed 对最近 24 小时内关闭的流程发送收尾邮件
func (s *ReminderService) notifyRecentlyClosed(now time.Time) {
	processes, err := s.processRepo.FindClosedSince(now.Add(-24 * time.Hour))
	if err != nil {
		logrus.WithError(err).Warn("Failed to query recently closed processes")
		return
	}

	for _, process := range processes {
		if err := s.emailSvc.Send([]string{process.InitiatedBy},
			fmt.Sprintf("Offboarding completed: %s", process.EmployeeName),
			fmt.Sprintf("The offboarding process for %s has been closed. All checklist tasks were completed.", process.EmployeeName),
		); err != nil {
			logrus.WithError(err).WithField("process_id", process.ID).Warn("Failed to send closure email")
		}

		if err := s.notifSvc.CreateForRole(auth.RoleHR, &model.Notification{
			Title:            "Offboarding wrapped up",
			Message:          fmt.Sprintf("Process for %s closed on %s.", process.EmployeeName, process.ClosedOn.Format("2006-01-02")),
			Type:             model.NotificationProcessClosed,
			Priority:         model.PriorityLow,
			RelatedProcessID: &process.ID,
		}); err != nil {
			logrus.WithError(err).WithField("process_id", process.ID).Warn("Failed to create closure notification")
		}
	}
}

// purgeOldNotifications 清理超过保留期的已读通知
func (s *ReminderService) purgeOldNotifications() {
	purged, err := s.notifSvc.Cleanup(s.notify.RetentionDays)
	if err != nil {
		logrus.WithError(err).Warn("Failed to purge old notifications")
		return
	}
	if purged > 0 {
		logrus.WithField("count", purged).Info("Purged old notifications")
	}
}

// purgeOldAuditLogs 清理超过归档年限的审计日志
func (s *ReminderService) purgeOldAuditLogs(now time.Time) {
	years := s.reminder.ArchiveAgeYears
	if years <= 0 {
		years = 2
	}
	purged, err := s.auditSvc.DeleteOlderThan(now.AddDate(-years, 0, 0))
	if err != nil {
		logrus.WithError(err).Warn("Failed to purge old audit logs")
		return
	}
	if purged > 0 {
		logrus.WithField("count", purged).Info("Purged old audit logs")
	}
}

// countArchiveCandidates 统计超龄已关闭流程,目前只记日志
func (s *ReminderService) countArchiveCandidates(now time.Time) {
	years := s.reminder.ArchiveAgeYears
	if years <= 0 {
		years = 2
	}
	count, err := s.processRepo.CountClosedBefore(now.AddDate(-years, 0, 0))
	if err != nil {
		logrus.WithError(err).Warn("Failed to count archive candidates")
		return
	}
	if count > 0 {
		logrus.WithField("count", count).Info("Processes eligible for archival")
	}
}
