package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/AyaSox/hr-offboarding-checklist/internal/auth"
	"github.com/AyaSox/hr-offboarding-checklist/internal/metrics"
	"github.com/AyaSox/hr-offboarding-checklist/internal/model"
	"github.com/AyaSox/hr-offboarding-checklist/internal/repository"
	"gorm.io/gorm"
)

// DeleteConfirmationText 删除流程所需的确认文本
const DeleteConfirmationText = "DELETE"

// 驳回未填原因时的默认值
const defaultRejectionReason = "No reason provided"

// ProcessService 离职流程服务接口
type ProcessService interface {
	Create(ctx context.Context, req *CreateProcessRequest, actor auth.Actor) (*model.OffboardingProcess, error)
	Get(id uint, actor auth.Actor) (*model.OffboardingProcess, error)
	List(filter *repository.ProcessFilter, actor auth.Actor) ([]*model.OffboardingProcess, int64, error)
	Update(ctx context.Context, id uint, req *UpdateProcessRequest, actor auth.Actor) (*model.OffboardingProcess, error)
	Approve(ctx context.Context, id uint, version int, actor auth.Actor) (*model.OffboardingProcess, error)
	Reject(ctx context.Context, id uint, reason string, version int, actor auth.Actor) (*model.OffboardingProcess, error)
	Close(ctx context.Context, id uint, version int, actor auth.Actor) (*model.OffboardingProcess, error)
	Delete(ctx context.Context, id uint, confirmation string, actor auth.Actor) error
	ExportCSV(filter *repository.ProcessFilter, actor auth.Actor) ([]byte, error)
	Departments() ([]string, error)
}

// CreateProcessRequest 创建流程请求
// @Description 发起离职流程的请求参数
type CreateProcessRequest struct {
	EmployeeName        string    `json:"employee_name" example:"Sipho Dlamini" binding:"required,max=100"` // 员工姓名
	JobTitle            string    `json:"job_title" example:"Software Engineer" binding:"required,max=50"`  // 职位
	EmploymentStartDate time.Time `json:"employment_start_date" binding:"required"`                         // 入职日期
	LastWorkingDay      time.Time `json:"last_working_day" binding:"required"`                              // 最后工作日
}

// UpdateProcessRequest 更新流程请求
// @Description 更新待审批流程的请求参数
type UpdateProcessRequest struct {
	EmployeeName        string    `json:"employee_name" binding:"required,max=100"` // 员工姓名
	JobTitle            string    `json:"job_title" binding:"required,max=50"`      // 职位
	EmploymentStartDate time.Time `json:"employment_start_date" binding:"required"` // 入职日期
	LastWorkingDay      time.Time `json:"last_working_day" binding:"required"`      // 最后工作日
	Version             int       `json:"version" binding:"required"`               // 乐观并发令牌
}

// processService 离职流程服务实现
type processService struct {
	db          *gorm.DB
	processRepo repository.ProcessRepository
	checkRepo   repository.ChecklistRepository
	genSvc      GenerationService
	notifSvc    NotificationService
	auditSvc    AuditLogService
}

// NewProcessService 创建离职流程服务
func NewProcessService(
	db *gorm.DB,
	processRepo repository.ProcessRepository,
	checkRepo repository.ChecklistRepository,
	genSvc GenerationService,
	notifSvc NotificationService,
	auditSvc AuditLogService,
) ProcessService {
	return &processService{
		db:          db,
		processRepo: processRepo,
		checkRepo:   checkRepo,
		genSvc:      genSvc,
		notifSvc:    notifSvc,
		auditSvc:    auditSvc,
	}
}

// Create 发起离职流程,初始状态为待审批
func (s *processService) Create(ctx context.Context, req *CreateProcessRequest, actor auth.Actor) (*model.OffboardingProcess, error) {
	process := &model.OffboardingProcess{
		EmployeeName:        req.EmployeeName,
		JobTitle:            req.JobTitle,
		EmploymentStartDate: req.EmploymentStartDate,
		LastWorkingDay:      req.LastWorkingDay,
		StartDate:           time.Now(),
		InitiatedBy:         actor.Identifier,
		Status:              model.StatusPendingApproval,
		Version:             1,
	}
	if err := process.Validate(); err != nil {
		return nil, err
	}

	if err := s.processRepo.Create(process); err != nil {
		return nil, fmt.Errorf("failed to create process: %w", err)
	}

	metrics.RecordProcessCreated()
	s.recordAudit(ctx, actor, "create", process.ID, map[string]interface{}{"employee_name": process.EmployeeName})

	// 通知在持久化成功后派发,失败不回传
	s.notifSvc.NotifyProcessPendingApproval(process)

	return process, nil
}

// Get 获取流程详情,非 HR/Admin 只能查看自己发起的流程
func (s *processService) Get(id uint, actor auth.Actor) (*model.OffboardingProcess, error) {
	process, err := s.processRepo.FindByIDWithItems(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !actor.IsHROrAdmin() && process.InitiatedBy != actor.Identifier {
		return nil, ErrForbidden
	}
	return process, nil
}

// List 分页查询流程,非 HR/Admin 限定为自己发起的
func (s *processService) List(filter *repository.ProcessFilter, actor auth.Actor) ([]*model.OffboardingProcess, int64, error) {
	if filter == nil {
		filter = &repository.ProcessFilter{}
	}
	if !actor.IsHROrAdmin() {
		filter.InitiatedBy = actor.Identifier
	}
	return s.processRepo.FindByFilter(filter)
}

// Update 更新流程,仅发起人或 HR/Admin,且流程处于可编辑状态
func (s *processService) Update(ctx context.Context, id uint, req *UpdateProcessRequest, actor auth.Actor) (*model.OffboardingProcess, error) {
	process, err := s.findByID(id)
	if err != nil {
		return nil, err
	}
	if process.InitiatedBy != actor.Identifier && !actor.IsHROrAdmin() {
		return nil, ErrForbidden
	}
	if !process.CanBeEdited() {
		return nil, Blocked("process in status %q can no longer be edited", process.Status)
	}

	updated := *process
	updated.EmployeeName = req.EmployeeName
	updated.JobTitle = req.JobTitle
	updated.EmploymentStartDate = req.EmploymentStartDate
	updated.LastWorkingDay = req.LastWorkingDay
	if err := updated.Validate(); err != nil {
		return nil, err
	}

	err = s.versionedUpdate(s.db, id, req.Version, map[string]interface{}{
		"employee_name":         req.EmployeeName,
		"job_title":             req.JobTitle,
		"employment_start_date": req.EmploymentStartDate,
		"last_working_day":      req.LastWorkingDay,
	})
	if err != nil {
		return nil, err
	}

	s.recordAudit(ctx, actor, "update", id, map[string]interface{}{"employee_name": req.EmployeeName})
	return s.findByID(id)
}

// Approve 审批通过,状态转为执行中并生成清单任务
// 任务生成与状态变更在同一事务内,通知在事务提交后派发
func (s *processService) Approve(ctx context.Context, id uint, version int, actor auth.Actor) (*model.OffboardingProcess, error) {
	if !actor.IsHROrAdmin() {
		return nil, ErrForbidden
	}

	process, err := s.findByID(id)
	if err != nil {
		return nil, err
	}
	if !process.CanBeApproved() {
		return nil, Blocked("process in status %q cannot be approved", process.Status)
	}

	now := time.Now()
	var items []model.ChecklistItem
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.versionedUpdate(tx, id, version, map[string]interface{}{
			"status":      model.StatusActive,
			"approved_by": actor.Identifier,
			"approved_on": now,
		}); err != nil {
			return err
		}

		items, err = s.genSvc.Generate(tx, process)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.recordAudit(ctx, actor, "approve", id, map[string]interface{}{"tasks_generated": len(items)})

	process, err = s.findByID(id)
	if err != nil {
		return nil, err
	}
	s.notifSvc.NotifyProcessApproved(process)
	for i := range items {
		s.notifSvc.NotifyTaskAssigned(process, &items[i])
	}

	return process, nil
}

// Reject 驳回待审批流程,原因为空时落默认值
func (s *processService) Reject(ctx context.Context, id uint, reason string, version int, actor auth.Actor) (*model.OffboardingProcess, error) {
	if !actor.IsHROrAdmin() {
		return nil, ErrForbidden
	}

	process, err := s.findByID(id)
	if err != nil {
		return nil, err
	}
	if !process.CanBeApproved() {
		return nil, Blocked("process in status %q cannot be rejected", process.Status)
	}

	if reason == "" {
		reason = defaultRejectionReason
	}

	now := time.Now()
	err = s.versionedUpdate(s.db, id, version, map[string]interface{}{
		"status":           model.StatusRejected,
		"rejected_by":      actor.Identifier,
		"rejected_on":      now,
		"rejection_reason": reason,
	})
	if err != nil {
		return nil, err
	}

	s.recordAudit(ctx, actor, "reject", id, map[string]interface{}{"reason": reason})

	process, err = s.findByID(id)
	if err != nil {
		return nil, err
	}
	s.notifSvc.NotifyProcessRejected(process, reason)

	return process, nil
}

// Close 关闭流程,要求全部清单任务已完成
func (s *processService) Close(ctx context.Context, id uint, version int, actor auth.Actor) (*model.OffboardingProcess, error) {
	if !actor.IsHROrAdmin() {
		return nil, ErrForbidden
	}

	process, err := s.findByID(id)
	if err != nil {
		return nil, err
	}
	if !process.IsActive() {
		return nil, Blocked("only active processes can be closed, current status is %q", process.Status)
	}

	outstanding, err := s.checkRepo.CountIncomplete(id)
	if err != nil {
		return nil, err
	}
	if outstanding > 0 {
		return nil, Blocked("cannot close process: %d task(s) still outstanding", outstanding)
	}

	now := time.Now()
	err = s.versionedUpdate(s.db, id, version, map[string]interface{}{
		"status":    model.StatusClosed,
		"is_closed": true,
		"closed_by": actor.Identifier,
		"closed_on": now,
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordProcessClosed()
	s.recordAudit(ctx, actor, "close", id, nil)

	process, err = s.findByID(id)
	if err != nil {
		return nil, err
	}
	s.notifSvc.NotifyProcessClosed(process)

	return process, nil
}

// Delete 删除流程及其全部关联数据
// 需要确认文本,执行中且有已完成任务的流程与已关闭流程不可删除
func (s *processService) Delete(ctx context.Context, id uint, confirmation string, actor auth.Actor) error {
	if !actor.IsHROrAdmin() {
		return ErrForbidden
	}
	if confirmation != DeleteConfirmationText {
		return Blocked("deletion requires typing %q to confirm", DeleteConfirmationText)
	}

	process, err := s.processRepo.FindByIDWithItems(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if process.IsClosed || process.Status == model.StatusClosed {
		return Blocked("closed processes are retained for record keeping and cannot be deleted")
	}
	if process.Status == model.StatusActive {
		for _, item := range process.ChecklistItems {
			if item.IsCompleted {
				return Blocked("active processes with completed tasks cannot be deleted")
			}
		}
	}

	// 级联删除: 备注 → 任务 → 文档 → 关联通知 → 流程
	err = s.db.Transaction(func(tx *gorm.DB) error {
		itemIDs := make([]uint, 0, len(process.ChecklistItems))
		for _, item := range process.ChecklistItems {
			itemIDs = append(itemIDs, item.ID)
		}

		if len(itemIDs) > 0 {
			if err := tx.Where("checklist_item_id IN ?", itemIDs).Delete(&model.TaskComment{}).Error; err != nil {
				return fmt.Errorf("failed to delete task comments: %w", err)
			}
		}
		if err := tx.Where("process_id = ?", id).Delete(&model.ChecklistItem{}).Error; err != nil {
			return fmt.Errorf("failed to delete checklist items: %w", err)
		}
		if err := tx.Where("process_id = ?", id).Delete(&model.OffboardingDocument{}).Error; err != nil {
			return fmt.Errorf("failed to delete documents: %w", err)
		}
		if err := tx.Where("related_process_id = ?", id).Delete(&model.Notification{}).Error; err != nil {
			return fmt.Errorf("failed to delete related notifications: %w", err)
		}
		if err := tx.Delete(&model.OffboardingProcess{}, id).Error; err != nil {
			return fmt.Errorf("failed to delete process: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.recordAudit(ctx, actor, "delete", id, map[string]interface{}{"employee_name": process.EmployeeName})
	return nil
}

// ExportCSV 导出流程列表
func (s *processService) ExportCSV(filter *repository.ProcessFilter, actor auth.Actor) ([]byte, error) {
	if filter == nil {
		filter = &repository.ProcessFilter{}
	}
	// 导出不分页
	filter.Page = 0
	filter.PageSize = 0

	processes, _, err := s.List(filter, actor)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	header := []string{"Employee Name", "Job Title", "Status", "Start Date", "Last Working Day", "Initiated By", "Progress %", "Overdue Tasks"}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	now := time.Now()
	for _, p := range processes {
		row := []string{
			p.EmployeeName,
			p.JobTitle,
			p.Status,
			p.StartDate.Format("2006-01-02"),
			p.LastWorkingDay.Format("2006-01-02"),
			p.InitiatedBy,
			strconv.FormatFloat(p.Progress(), 'f', 1, 64),
			strconv.Itoa(p.OverdueTaskCount(now)),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Departments 清单任务中出现过的部门(筛选下拉用)
func (s *processService) Departments() ([]string, error) {
	return s.processRepo.Departments()
}

func (s *processService) findByID(id uint) (*model.OffboardingProcess, error) {
	process, err := s.processRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return process, nil
}

// versionedUpdate 带乐观并发令牌的更新,令牌失配返回 ErrConflict
func (s *processService) versionedUpdate(tx *gorm.DB, id uint, version int, fields map[string]interface{}) error {
	fields["version"] = gorm.Expr("version + 1")
	res := tx.Model(&model.OffboardingProcess{}).
		Where("id = ? AND version = ?", id, version).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrConflict
	}
	return nil
}

func (s *processService) recordAudit(ctx context.Context, actor auth.Actor, action string, processID uint, details map[string]interface{}) {
	if s.auditSvc == nil {
		return
	}
	if details == nil {
		details = map[string]interface{}{}
	}
	_ = s.auditSvc.RecordAction(ctx, actor.Identifier, action, "process", strconv.FormatUint(uint64(processID), 10), details)
}
