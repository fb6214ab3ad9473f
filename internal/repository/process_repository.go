package repository

import (
	"time"

	"github.com/AyaSox/hr-offboarding-checklist/internal/model"
	"gorm.io/gorm"
)

// ProcessFilter 流程查询过滤器
type ProcessFilter struct {
	Search      string // 员工姓名/职位/发起人模糊匹配
	Status      string // pending/approved/active/closed/rejected/overdue
	Department  string // 按清单任务所属部门过滤
	InitiatedBy string // 限定发起人(非 HR/Admin 的可见范围)
	StartFrom   *time.Time
	StartTo     *time.Time
	SortOrder   string // name/name_desc/date/date_desc/progress/progress_desc
	Page        int
	PageSize    int
}

// ProcessRepository 离职流程仓储接口
type ProcessRepository interface {
	Create(process *model.OffboardingProcess) error
	FindByID(id uint) (*model.OffboardingProcess, error)
	FindByIDWithItems(id uint) (*model.OffboardingProcess, error)
	FindByFilter(filter *ProcessFilter) ([]*model.OffboardingProcess, int64, error)
	FindClosedSince(cutoff time.Time) ([]*model.OffboardingProcess, error)
	CountClosedBefore(cutoff time.Time) (int64, error)
	Departments() ([]string, error)
}

// processRepository 离职流程仓储实现
type processRepository struct {
	db *gorm.DB
}

// NewProcessRepository 创建离职流程仓储
func NewProcessRepository(db *gorm.DB) ProcessRepository {
	return &processRepository{db: db}
}

// Create 创建流程
func (r *processRepository) Create(process *model.OffboardingProcess) error {
	return r.db.Create(process).Error
}

// FindByID 根据 ID 查找流程
func (r *processRepository) FindByID(id uint) (*model.OffboardingProcess, error) {
	var process model.OffboardingProcess
	if err := r.db.Where("id = ?", id).First(&process).Error; err != nil {
		return nil, err
	}
	return &process, nil
}

// FindByIDWithItems 根据 ID 查找流程并预加载清单任务与备注历史
func (r *processRepository) FindByIDWithItems(id uint) (*model.OffboardingProcess, error) {
	var process model.OffboardingProcess
	err := r.db.
		Preload("ChecklistItems", func(db *gorm.DB) *gorm.DB {
			return db.Order("checklist_items.department, checklist_items.task_name")
		}).
		Preload("ChecklistItems.TaskComments").
		Preload("ChecklistItems.DependsOnTask").
		Preload("Documents").
		Where("id = ?", id).
		First(&process).Error
	if err != nil {
		return nil, err
	}
	return &process, nil
}

// FindByFilter 按过滤器分页查找流程,返回当前页与总条数
func (r *processRepository) FindByFilter(filter *ProcessFilter) ([]*model.OffboardingProcess, int64, error) {
	query := r.db.Model(&model.OffboardingProcess{}).Preload("ChecklistItems")

	if filter != nil {
		if filter.InitiatedBy != "" {
			query = query.Where("initiated_by = ?", filter.InitiatedBy)
		}
		if filter.Search != "" {
			like := "%" + filter.Search + "%"
			query = query.Where("employee_name LIKE ? OR job_title LIKE ? OR initiated_by LIKE ?", like, like, like)
		}
		if filter.StartFrom != nil {
			query = query.Where("start_date >= ?", *filter.StartFrom)
		}
		if filter.StartTo != nil {
			query = query.Where("start_date <= ?", *filter.StartTo)
		}

		switch filter.Status {
		case "pending":
			query = query.Where("status = ?", model.StatusPendingApproval)
		case "approved":
			query = query.Where("status = ?", model.StatusApproved)
		case "active":
			query = query.Where("status = ? AND is_closed = ?", model.StatusActive, false)
		case "closed":
			query = query.Where("is_closed = ? OR status = ?", true, model.StatusClosed)
		case "rejected":
			query = query.Where("status = ?", model.StatusRejected)
		case "overdue":
			// 存在逾期未完成任务的活动流程
			query = query.Where("status = ? AND is_closed = ?", model.StatusActive, false).
				Where("id IN (?)", r.db.Model(&model.ChecklistItem{}).
					Select("process_id").
					Where("is_completed = ? AND due_date IS NOT NULL AND due_date < ?", false, time.Now().Truncate(24*time.Hour)))
		}

		if filter.Department != "" {
			query = query.Where("id IN (?)", r.db.Model(&model.ChecklistItem{}).
				Select("process_id").
				Where("department = ?", filter.Department))
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortOrder := ""
	if filter != nil {
		sortOrder = filter.SortOrder
	}
	switch sortOrder {
	case "name_desc":
		query = query.Order("employee_name DESC")
	case "date":
		query = query.Order("start_date")
	case "date_desc":
		query = query.Order("start_date DESC")
	default:
		query = query.Order("employee_name")
	}

	if filter != nil && filter.PageSize > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		query = query.Offset((page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	var processes []*model.OffboardingProcess
	err := query.Find(&processes).Error
	return processes, total, err
}

// FindClosedSince 查找 cutoff 之后关闭的流程(提醒扫描用)
func (r *processRepository) FindClosedSince(cutoff time.Time) ([]*model.OffboardingProcess, error) {
	var processes []*model.OffboardingProcess
	err := r.db.
		Where("is_closed = ? AND closed_on IS NOT NULL AND closed_on >= ?", true, cutoff).
		Find(&processes).Error
	return processes, err
}

// CountClosedBefore 统计早于 cutoff 关闭的流程数(归档信号)
func (r *processRepository) CountClosedBefore(cutoff time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&model.OffboardingProcess{}).
		Where("is_closed = ? AND closed_on IS NOT NULL AND closed_on < ?", true, cutoff).
		Count(&count).Error
	return count, err
}

// Departments 清单任务中出现过的部门列表(筛选下拉用)
func (r *processRepository) Departments() ([]string, error) {
	var departments []string
	err := r.db.Model(&model.ChecklistItem{}).
		Distinct("department").
		Order("department").
		Pluck("department", &departments).Error
	return departments, err
}
