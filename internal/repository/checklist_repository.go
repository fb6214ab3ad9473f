package repository

import (
	"time"

	"github.com/AyaSox/hr-offboarding-checklist/internal/model"
	"gorm.io/gorm"
)

// ChecklistRepository 清单任务仓储接口
type ChecklistRepository interface {
	FindByID(id uint) (*model.ChecklistItem, error)
	FindByIDForCompletion(id uint) (*model.ChecklistItem, error)
	FindByProcessID(processID uint) ([]*model.ChecklistItem, error)
	FindIncompleteByIDs(ids []uint, initiatedBy string) ([]*model.ChecklistItem, error)
	FindOverdue(asOf time.Time) ([]*model.ChecklistItem, error)
	CountIncomplete(processID uint) (int64, error)
	Comments(itemID uint) ([]*model.TaskComment, error)
}

// checklistRepository 清单任务仓储实现
type checklistRepository struct {
	db *gorm.DB
}

// NewChecklistRepository 创建清单任务仓储
func NewChecklistRepository(db *gorm.DB) ChecklistRepository {
	return &checklistRepository{db: db}
}

// FindByID 根据 ID 查找清单任务
func (r *checklistRepository) FindByID(id uint) (*model.ChecklistItem, error) {
	var item model.ChecklistItem
	if err := r.db.Where("id = ?", id).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// FindByIDForCompletion 查找清单任务并预加载完成/取消完成判定所需的关联:
// 依赖任务、反向依赖与备注历史
func (r *checklistRepository) FindByIDForCompletion(id uint) (*model.ChecklistItem, error) {
	var item model.ChecklistItem
	err := r.db.
		Preload("DependsOnTask").
		Preload("DependentTasks").
		Preload("TaskComments").
		Where("id = ?", id).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// FindByProcessID 查找流程的全部清单任务,按部门+任务名排序
func (r *checklistRepository) FindByProcessID(processID uint) ([]*model.ChecklistItem, error) {
	var items []*model.ChecklistItem
	err := r.db.
		Where("process_id = ?", processID).
		Order("department, task_name").
		Find(&items).Error
	return items, err
}

// FindIncompleteByIDs 按 ID 集合查找未完成任务(批量完成用)
// initiatedBy 非空时只返回该发起人流程下的任务,范围外的任务不出现在结果中
func (r *checklistRepository) FindIncompleteByIDs(ids []uint, initiatedBy string) ([]*model.ChecklistItem, error) {
	query := r.db.
		Select("checklist_items.*").
		Where("checklist_items.id IN ? AND checklist_items.is_completed = ?", ids, false)
	if initiatedBy != "" {
		query = query.
			Joins("JOIN offboarding_processes ON offboarding_processes.id = checklist_items.process_id").
			Where("offboarding_processes.initiated_by = ?", initiatedBy)
	}

	var items []*model.ChecklistItem
	err := query.Find(&items).Error
	return items, err
}

// FindOverdue 查找逾期任务: 未完成、到期日不晚于 asOf、所属流程未关闭
func (r *checklistRepository) FindOverdue(asOf time.Time) ([]*model.ChecklistItem, error) {
	var items []*model.ChecklistItem
	threshold := asOf.Truncate(24 * time.Hour)
	err := r.db.
		Select("checklist_items.*").
		Joins("JOIN offboarding_processes ON offboarding_processes.id = checklist_items.process_id").
		Where("checklist_items.is_completed = ?", false).
		Where("checklist_items.due_date IS NOT NULL AND checklist_items.due_date <= ?", threshold).
		Where("offboarding_processes.is_closed = ?", false).
		Find(&items).Error
	return items, err
}

// CountIncomplete 统计流程中未完成的任务数
func (r *checklistRepository) CountIncomplete(processID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.ChecklistItem{}).
		Where("process_id = ? AND is_completed = ?", processID, false).
		Count(&count).Error
	return count, err
}

// Comments 清单任务的备注历史,按时间倒序
func (r *checklistRepository) Comments(itemID uint) ([]*model.TaskComment, error) {
	var comments []*model.TaskComment
	err := r.db.
		Where("checklist_item_id = ?", itemID).
		Order("created_on DESC").
		Find(&comments).Error
	return comments, err
}
