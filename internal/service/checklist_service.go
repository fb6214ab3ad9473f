package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/AyaSox/hr-offboarding-checklist/internal/auth"
	"github.com/AyaSox/hr-offboarding-checklist/internal/metrics"
	"github.com/AyaSox/hr-offboarding-checklist/internal/model"
	"github.com/AyaSox/hr-offboarding-checklist/internal/repository"
	"gorm.io/gorm"
)

// ChecklistService 清单任务服务接口
type ChecklistService interface {
	Complete(ctx context.Context, id uint, version int, comment string, actor auth.Actor) (*model.ChecklistItem, error)
	Uncomplete(ctx context.Context, id uint, version int, actor auth.Actor) (*model.ChecklistItem, error)
	BulkComplete(ctx context.Context, req *BulkCompleteRequest, actor auth.Actor) ([]BulkCompleteResult, error)
	AddComment(id uint, comment string, actor auth.Actor) (*model.TaskComment, error)
	ListComments(id uint, actor auth.Actor) ([]*model.TaskComment, error)
}

// CompleteTaskRequest 完成任务请求
// @Description 标记清单任务完成的请求参数
type CompleteTaskRequest struct {
	Comment string `json:"comment" example:"Laptop returned to IT store"` // 完成备注,可选
	Version int    `json:"version" binding:"required"`                    // 乐观并发令牌
}

// UncompleteTaskRequest 取消完成请求
// @Description 取消任务完成标记的请求参数
type UncompleteTaskRequest struct {
	Version int `json:"version" binding:"required"` // 乐观并发令牌
}

// BulkCompleteRequest 批量完成请求
// @Description 批量标记任务完成的请求参数
type BulkCompleteRequest struct {
	TaskIDs []uint `json:"task_ids" binding:"required"`            // 任务 ID 列表
	Comment string `json:"comment" example:"Closed out in batch"` // 统一备注,可选
}

// BulkCompleteResult 批量完成的单条结果
// @Description 批量完成操作的结果
type BulkCompleteResult struct {
	TaskID  uint   `json:"task_id"`         // 任务 ID
	Success bool   `json:"success"`         // 是否成功
	Error   string `json:"error,omitempty"` // 错误信息(如果失败)
}

// AddCommentRequest 追加备注请求
// @Description 给任务追加备注的请求参数
type AddCommentRequest struct {
	Comment string `json:"comment" binding:"required"` // 备注内容
}

// checklistService 清单任务服务实现
type checklistService struct {
	db          *gorm.DB
	checkRepo   repository.ChecklistRepository
	processRepo repository.ProcessRepository
	notifSvc    NotificationService
	auditSvc    AuditLogService
}

// NewChecklistService 创建清单任务服务
func NewChecklistService(
	db *gorm.DB,
	checkRepo repository.ChecklistRepository,
	processRepo repository.ProcessRepository,
	notifSvc NotificationService,
	auditSvc AuditLogService,
) ChecklistService {
	return &checklistService{
		db:          db,
		checkRepo:   checkRepo,
		processRepo: processRepo,
		notifSvc:    notifSvc,
		auditSvc:    auditSvc,
	}
}

// Complete 标记任务完成
// 流程须处于执行中,依赖任务须已完成;备注作为审计记录追加
func (s *checklistService) Complete(ctx context.Context, id uint, version int, comment string, actor auth.Actor) (*model.ChecklistItem, error) {
	item, process, err := s.loadItemWithProcess(id, actor)
	if err != nil {
		return nil, err
	}

	if !process.IsActive() {
		return nil, Blocked("tasks can only be completed while the process is active")
	}
	if item.IsCompleted {
		return nil, Blocked("task %q is already completed", item.TaskName)
	}
	if !item.CanBeCompleted() {
		return nil, Blocked("task %q is blocked by incomplete dependency %q", item.TaskName, item.DependsOnTask.TaskName)
	}

	now := time.Now()
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.versionedUpdate(tx, id, version, map[string]interface{}{
			"is_completed": true,
			"completed_by": actor.Identifier,
			"completed_on": now,
			"comments":     comment,
		}); err != nil {
			return err
		}

		if comment != "" {
			taskComment := &model.TaskComment{
				ChecklistItemID: id,
				Comment:         comment,
				CreatedBy:       actor.Identifier,
				CreatedOn:       now,
			}
			if err := tx.Create(taskComment).Error; err != nil {
				return fmt.Errorf("failed to record task comment: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordTaskCompleted()
	s.recordAudit(ctx, actor, "complete", id)

	item, err = s.checkRepo.FindByIDForCompletion(id)
	if err != nil {
		return nil, err
	}
	s.notifSvc.NotifyTaskCompleted(process, item, actor.Identifier)

	return item, nil
}

// Uncomplete 取消任务完成标记
// 完成人本人或 HR/Admin 可操作,已完成的依赖方任务会拦截取消;备注历史保留
func (s *checklistService) Uncomplete(ctx context.Context, id uint, version int, actor auth.Actor) (*model.ChecklistItem, error) {
	item, process, err := s.loadItemWithProcess(id, actor)
	if err != nil {
		return nil, err
	}

	if !process.IsActive() {
		return nil, Blocked("tasks can only be changed while the process is active")
	}
	if !item.IsCompleted {
		return nil, Blocked("task %q is not completed", item.TaskName)
	}
	if item.CompletedBy != actor.Identifier && !actor.IsHROrAdmin() {
		return nil, ErrForbidden
	}

	var completedDependents []string
	for _, dep := range item.DependentTasks {
		if dep.IsCompleted {
			completedDependents = append(completedDependents, dep.TaskName)
		}
	}
	if len(completedDependents) > 0 {
		return nil, Blocked("cannot uncomplete %q: completed dependent task(s) %s", item.TaskName, strings.Join(completedDependents, ", "))
	}

	err = s.versionedUpdate(s.db, id, version, map[string]interface{}{
		"is_completed": false,
		"completed_by": "",
		"completed_on": nil,
		"comments":     "",
	})
	if err != nil {
		return nil, err
	}

	s.recordAudit(ctx, actor, "uncomplete", id)

	return s.checkRepo.FindByIDForCompletion(id)
}

// BulkComplete 批量标记完成
// 已完成的任务跳过;非 HR/Admin 的范围过滤在查询层完成,范围外任务静默跳过;
// 批量路径不做逐项依赖检查
func (s *checklistService) BulkComplete(ctx context.Context, req *BulkCompleteRequest, actor auth.Actor) ([]BulkCompleteResult, error) {
	initiatedBy := ""
	if !actor.IsHROrAdmin() {
		initiatedBy = actor.Identifier
	}
	items, err := s.checkRepo.FindIncompleteByIDs(req.TaskIDs, initiatedBy)
	if err != nil {
		return nil, err
	}

	itemByID := make(map[uint]*model.ChecklistItem, len(items))
	for _, item := range items {
		itemByID[item.ID] = item
	}

	now := time.Now()
	results := make([]BulkCompleteResult, 0, len(req.TaskIDs))
	for _, taskID := range req.TaskIDs {
		item, ok := itemByID[taskID]
		if !ok {
			// 不存在、已完成或不在操作者范围内,跳过
			continue
		}

		result := BulkCompleteResult{TaskID: taskID}
		if err := s.bulkCompleteOne(item, req.Comment, actor, now); err != nil {
			result.Error = err.Error()
		} else {
			result.Success = true
			metrics.RecordTaskCompleted()
		}
		results = append(results, result)
	}

	s.recordAudit(ctx, actor, "bulk_complete", 0)
	return results, nil
}

func (s *checklistService) bulkCompleteOne(item *model.ChecklistItem, comment string, actor auth.Actor, now time.Time) error {
	process, err := s.processRepo.FindByID(item.ProcessID)
	if err != nil {
		return err
	}
	if !process.IsActive() {
		return Blocked("process for task %q is not active", item.TaskName)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.versionedUpdate(tx, item.ID, item.Version, map[string]interface{}{
			"is_completed": true,
			"completed_by": actor.Identifier,
			"completed_on": now,
			"comments":     comment,
		}); err != nil {
			return err
		}
		if comment != "" {
			taskComment := &model.TaskComment{
				ChecklistItemID: item.ID,
				Comment:         comment,
				CreatedBy:       actor.Identifier,
				CreatedOn:       now,
			}
			if err := tx.Create(taskComment).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// AddComment 追加任务备注
func (s *checklistService) AddComment(id uint, comment string, actor auth.Actor) (*model.TaskComment, error) {
	if _, _, err := s.loadItemWithProcess(id, actor); err != nil {
		return nil, err
	}

	taskComment := &model.TaskComment{
		ChecklistItemID: id,
		Comment:         comment,
		CreatedBy:       actor.Identifier,
		CreatedOn:       time.Now(),
	}
	if err := taskComment.Validate(); err != nil {
		return nil, err
	}
	if err := s.db.Create(taskComment).Error; err != nil {
		return nil, err
	}
	return taskComment, nil
}

// ListComments 任务备注历史
func (s *checklistService) ListComments(id uint, actor auth.Actor) ([]*model.TaskComment, error) {
	if _, _, err := s.loadItemWithProcess(id, actor); err != nil {
		return nil, err
	}
	return s.checkRepo.Comments(id)
}

// loadItemWithProcess 加载任务及所属流程并做可见性检查
func (s *checklistService) loadItemWithProcess(id uint, actor auth.Actor) (*model.ChecklistItem, *model.OffboardingProcess, error) {
	item, err := s.checkRepo.FindByIDForCompletion(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}

	process, err := s.processRepo.FindByID(item.ProcessID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}

	if !actor.IsHROrAdmin() && process.InitiatedBy != actor.Identifier {
		return nil, nil, ErrForbidden
	}
	return item, process, nil
}

// versionedUpdate 带乐观并发令牌的任务更新,令牌失配返回 ErrConflict
func (s *checklistService) versionedUpdate(tx *gorm.DB, id uint, version int, fields map[string]interface{}) error {
	fields["version"] = gorm.Expr("version + 1")
	res := tx.Model(&model.ChecklistItem{}).
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

func (s *checklistService) recordAudit(ctx context.Context, actor auth.Actor, action string, taskID uint) {
	if s.auditSvc == nil {
		return
	}
	_ = s.auditSvc.RecordAction(ctx, actor.Identifier, action, "task", strconv.FormatUint(uint64(taskID), 10), map[string]interface{}{})
}
