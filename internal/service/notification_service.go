package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/AyaSox/hr-offboarding-checklist/internal/auth"
	"github.com/AyaSox/hr-offboarding-checklist/internal/config"
	"github.com/AyaSox/hr-offboarding-checklist/internal/model"
	"github.com/AyaSox/hr-offboarding-checklist/internal/repository"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// NotificationService 站内通知服务接口
// 业务事件通知方法(Notify*)尽力而为: 入库与邮件失败只记日志,不向调用方传播
type NotificationService interface {
	CreateForUser(user string, n *model.Notification) error
	CreateForRole(role string, n *model.Notification) error
	List(actor auth.Actor, unreadOnly bool, limit int) ([]*model.Notification, error)
	UnreadCount(actor auth.Actor) (int64, error)
	MarkRead(id uint, actor auth.Actor) error
	MarkAllRead(actor auth.Actor) error
	Delete(id uint, actor auth.Actor) error
	Cleanup(retentionDays int) (int64, error)

	NotifyProcessPendingApproval(process *model.OffboardingProcess)
	NotifyProcessApproved(process *model.OffboardingProcess)
	NotifyProcessRejected(process *model.OffboardingProcess, reason string)
	NotifyProcessClosed(process *model.OffboardingProcess)
	NotifyTaskAssigned(process *model.OffboardingProcess, item *model.ChecklistItem)
	NotifyTaskCompleted(process *model.OffboardingProcess, item *model.ChecklistItem, completedBy string)
	NotifyTaskOverdue(process *model.OffboardingProcess, item *model.ChecklistItem, daysPastDue int)
}

// notificationService 站内通知服务实现
type notificationService struct {
	notifRepo repository.NotificationRepository
	deptSvc   DepartmentService
	emailSvc  EmailService
	notify    config.NotifyConfig
}

// NewNotificationService 创建站内通知服务
func NewNotificationService(
	notifRepo repository.NotificationRepository,
	deptSvc DepartmentService,
	emailSvc EmailService,
	notify config.NotifyConfig,
) NotificationService {
	return &notificationService{
		notifRepo: notifRepo,
		deptSvc:   deptSvc,
		emailSvc:  emailSvc,
		notify:    notify,
	}
}

// CreateForUser 给指定用户创建通知
func (s *notificationService) CreateForUser(user string, n *model.Notification) error {
	n.RecipientUser = user
	n.RecipientRole = ""
	return s.create(n)
}

// CreateForRole 给指定角色创建通知
// 角色通知为单条记录,同角色成员共享已读状态
func (s *notificationService) CreateForRole(role string, n *model.Notification) error {
	n.RecipientUser = ""
	n.RecipientRole = role
	return s.create(n)
}

func (s *notificationService) create(n *model.Notification) error {
	if n.Priority == 0 {
		n.Priority = model.PriorityNormal
	}
	if n.CreatedOn.IsZero() {
		n.CreatedOn = time.Now()
	}
	if err := n.Validate(); err != nil {
		return err
	}
	return s.notifRepo.Create(n)
}

// List 操作者可见的通知列表
func (s *notificationService) List(actor auth.Actor, unreadOnly bool, limit int) ([]*model.Notification, error) {
	return s.notifRepo.FindForRecipient(actor.Identifier, actor.Roles, unreadOnly, limit)
}

// UnreadCount 操作者的未读通知数
func (s *notificationService) UnreadCount(actor auth.Actor) (int64, error) {
	return s.notifRepo.CountUnread(actor.Identifier, actor.Roles)
}

// MarkRead 标记已读,只能操作自己可见的通知
func (s *notificationService) MarkRead(id uint, actor auth.Actor) error {
	notification, err := s.notifRepo.FindByIDForRecipient(id, actor.Identifier, actor.Roles)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if notification.IsRead {
		return nil
	}
	return s.notifRepo.MarkRead(notification)
}

// MarkAllRead 标记操作者全部通知已读
func (s *notificationService) MarkAllRead(actor auth.Actor) error {
	return s.notifRepo.MarkAllRead(actor.Identifier, actor.Roles)
}

// Delete 删除通知,只能操作自己可见的通知
func (s *notificationService) Delete(id uint, actor auth.Actor) error {
	notification, err := s.notifRepo.FindByIDForRecipient(id, actor.Identifier, actor.Roles)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return s.notifRepo.Delete(notification)
}

// Cleanup 清理超过保留期的已读通知
func (s *notificationService) Cleanup(retentionDays int) (int64, error) {
	if retentionDays <= 0 {
		retentionDays = 30
	}
	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	return s.notifRepo.DeleteReadOlderThan(cutoff)
}

// NotifyProcessPendingApproval 流程发起待审批,通知 HR 与 Admin
func (s *notificationService) NotifyProcessPendingApproval(process *model.OffboardingProcess) {
	for _, role := range []string{auth.RoleHR, auth.RoleAdmin} {
		s.notifyRole(role, &model.Notification{
			Title:            "Offboarding approval required",
			Message:          fmt.Sprintf("Offboarding for %s (%s) was initiated by %s and awaits approval.", process.EmployeeName, process.JobTitle, process.InitiatedBy),
			Type:             model.NotificationProcessStarted,
			Priority:         model.PriorityHigh,
			RelatedProcessID: &process.ID,
			ActionURL:        fmt.Sprintf("/processes/%d", process.ID),
			ActionText:       "Review",
		})
	}
	s.sendEmail([]string{s.notify.HREmail},
		fmt.Sprintf("Approval required: offboarding for %s", process.EmployeeName),
		fmt.Sprintf("An offboarding process for %s was initiated by %s and requires approval.", process.EmployeeName, process.InitiatedBy))
}

// NotifyProcessApproved 流程审批通过,通知发起人并抄送 HR
func (s *notificationService) NotifyProcessApproved(process *model.OffboardingProcess) {
	s.notifyUser(process.InitiatedBy, &model.Notification{
		Title:            "Offboarding approved",
		Message:          fmt.Sprintf("Offboarding for %s was approved by %s. The checklist is now active.", process.EmployeeName, process.ApprovedBy),
		Type:             model.NotificationProcessStarted,
		Priority:         model.PriorityNormal,
		RelatedProcessID: &process.ID,
		ActionURL:        fmt.Sprintf("/processes/%d", process.ID),
		ActionText:       "View checklist",
	})
	s.notifyRole(auth.RoleHR, &model.Notification{
		Title:            "Offboarding checklist active",
		Message:          fmt.Sprintf("Checklist for %s is active, last working day %s.", process.EmployeeName, process.LastWorkingDay.Format("2006-01-02")),
		Type:             model.NotificationProcessStarted,
		Priority:         model.PriorityNormal,
		RelatedProcessID: &process.ID,
	})
	s.sendEmail([]string{process.InitiatedBy},
		fmt.Sprintf("Offboarding approved: %s", process.EmployeeName),
		fmt.Sprintf("The offboarding process for %s was approved. Checklist tasks have been generated.", process.EmployeeName))
}

// NotifyProcessRejected 流程被驳回,通知发起人
func (s *notificationService) NotifyProcessRejected(process *model.OffboardingProcess, reason string) {
	s.notifyUser(process.InitiatedBy, &model.Notification{
		Title:            "Offboarding rejected",
		Message:          fmt.Sprintf("Offboarding for %s was rejected by %s. Reason: %s", process.EmployeeName, process.RejectedBy, reason),
		Type:             model.NotificationSystemAlert,
		Priority:         model.PriorityHigh,
		RelatedProcessID: &process.ID,
	})
	s.sendEmail([]string{process.InitiatedBy},
		fmt.Sprintf("Offboarding rejected: %s", process.EmployeeName),
		fmt.Sprintf("The offboarding process for %s was rejected. Reason: %s", process.EmployeeName, reason))
}

// NotifyProcessClosed 流程关闭,通知发起人与 HR
func (s *notificationService) NotifyProcessClosed(process *model.OffboardingProcess) {
	s.notifyUser(process.InitiatedBy, &model.Notification{
		Title:            "Offboarding completed",
		Message:          fmt.Sprintf("Offboarding for %s was closed by %s.", process.EmployeeName, process.ClosedBy),
		Type:             model.NotificationProcessClosed,
		Priority:         model.PriorityNormal,
		RelatedProcessID: &process.ID,
	})
	s.notifyRole(auth.RoleHR, &model.Notification{
		Title:            "Offboarding completed",
		Message:          fmt.Sprintf("All checklist tasks for %s are done and the process is closed.", process.EmployeeName),
		Type:             model.NotificationProcessClosed,
		Priority:         model.PriorityNormal,
		RelatedProcessID: &process.ID,
	})
}

// NotifyTaskAssigned 清单任务生成后按部门派发
func (s *notificationService) NotifyTaskAssigned(process *model.OffboardingProcess, item *model.ChecklistItem) {
	due := "no due date"
	if item.DueDate != nil {
		due = item.DueDate.Format("2006-01-02")
	}
	s.notifyRole(auth.RoleHR, &model.Notification{
		Title:            fmt.Sprintf("Task assigned to %s", item.Department),
		Message:          fmt.Sprintf("%q for %s is due %s.", item.TaskName, process.EmployeeName, due),
		Type:             model.NotificationReminder,
		Priority:         model.PriorityNormal,
		RelatedProcessID: &process.ID,
		RelatedTaskID:    &item.ID,
	})
	s.sendEmail([]string{s.deptSvc.EmailFor(item.Department)},
		fmt.Sprintf("New offboarding task: %s", item.TaskName),
		fmt.Sprintf("Task %q for the offboarding of %s is assigned to %s, due %s.", item.TaskName, process.EmployeeName, item.Department, due))
}

// NotifyTaskCompleted 任务完成,通知发起人与 HR
func (s *notificationService) NotifyTaskCompleted(process *model.OffboardingProcess, item *model.ChecklistItem, completedBy string) {
	message := fmt.Sprintf("%q for %s was completed by %s.", item.TaskName, process.EmployeeName, completedBy)
	s.notifyUser(process.InitiatedBy, &model.Notification{
		Title:            "Task completed",
		Message:          message,
		Type:             model.NotificationTaskCompleted,
		Priority:         model.PriorityLow,
		RelatedProcessID: &process.ID,
		RelatedTaskID:    &item.ID,
	})
	s.notifyRole(auth.RoleHR, &model.Notification{
		Title:            "Task completed",
		Message:          message,
		Type:             model.NotificationTaskCompleted,
		Priority:         model.PriorityLow,
		RelatedProcessID: &process.ID,
		RelatedTaskID:    &item.ID,
	})
}

// NotifyTaskOverdue 任务逾期提醒,站内通知 + 部门与 HR 邮件
func (s *notificationService) NotifyTaskOverdue(process *model.OffboardingProcess, item *model.ChecklistItem, daysPastDue int) {
	s.notifyRole(auth.RoleHR, &model.Notification{
		Title:            "Task overdue",
		Message:          fmt.Sprintf("%q for %s (%s) is %d day(s) past due.", item.TaskName, process.EmployeeName, item.Department, daysPastDue),
		Type:             model.NotificationTaskOverdue,
		Priority:         model.PriorityHigh,
		RelatedProcessID: &process.ID,
		RelatedTaskID:    &item.ID,
	})
	s.sendEmail([]string{s.deptSvc.EmailFor(item.Department), s.notify.HREmail, s.notify.AdminEmail},
		fmt.Sprintf("Overdue offboarding task: %s", item.TaskName),
		fmt.Sprintf("Task %q for the offboarding of %s is %d day(s) past due. Department: %s.", item.TaskName, process.EmployeeName, daysPastDue, item.Department))
}

func (s *notificationService) notifyUser(user string, n *model.Notification) {
	if err := s.CreateForUser(user, n); err != nil {
		logrus.WithError(err).WithField("recipient", user).Warn("Failed to create notification")
	}
}

func (s *notificationService) notifyRole(role string, n *model.Notification) {
	if err := s.CreateForRole(role, n); err != nil {
		logrus.WithError(err).WithField("role", role).Warn("Failed to create notification")
	}
}

func (s *notificationService) sendEmail(to []string, subject, body string) {
	// 收件人去重
	seen := make(map[string]struct{}, len(to))
	unique := to[:0]
	for _, addr := range to {
		if addr == "" {
			continue
		}
		if _, ok := seen[addr]; ok {
			continue
		}
		seen[addr] = struct{}{}
		unique = append(unique, addr)
	}

	if err := s.emailSvc.Send(unique, subject, body); err != nil {
		logrus.WithError(err).WithField("subject", subject).Warn("Failed to send email")
	}
}
