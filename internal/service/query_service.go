package service

import (
	"time"

	"github.com/AyaSox/hr-offboarding-checklist/internal/auth"
	"github.com/AyaSox/hr-offboarding-checklist/internal/model"
	"gorm.io/gorm"
)

// QueryService 统计分析服务接口
type QueryService interface {
	DepartmentStats() ([]DepartmentStats, error)
	SystemOverview() (*SystemOverview, error)
	Dashboard(actor auth.Actor) (*DashboardCounts, error)
}

// DepartmentStats 部门维度统计
// @Description 单个部门的任务完成统计
type DepartmentStats struct {
	Department     string  `json:"department"`      // 部门名称
	TotalTasks     int64   `json:"total_tasks"`     // 任务总数
	CompletedTasks int64   `json:"completed_tasks"` // 已完成数
	OverdueTasks   int64   `json:"overdue_tasks"`   // 逾期未完成数
	CompletionRate float64 `json:"completion_rate"` // 完成率(0-100)
}

// SystemOverview 系统总览
// @Description 流程与任务的全局统计
type SystemOverview struct {
	TotalProcesses    int64   `json:"total_processes"`    // 流程总数
	PendingProcesses  int64   `json:"pending_processes"`  // 待审批数
	ActiveProcesses   int64   `json:"active_processes"`   // 执行中数
	ClosedProcesses   int64   `json:"closed_processes"`   // 已关闭数
	RejectedProcesses int64   `json:"rejected_processes"` // 已驳回数
	TotalTasks        int64   `json:"total_tasks"`        // 任务总数
	CompletedTasks    int64   `json:"completed_tasks"`    // 已完成任务数
	OverdueTasks      int64   `json:"overdue_tasks"`      // 逾期任务数
	AverageProgress   float64 `json:"average_progress"`   // 执行中流程的平均进度
}

// DashboardCounts 工作台计数
// @Description 当前操作者视角的工作台统计
type DashboardCounts struct {
	MyProcesses      int64 `json:"my_processes"`      // 我发起的流程数
	PendingApprovals int64 `json:"pending_approvals"` // 待审批流程数(HR/Admin 可见)
	ActiveProcesses  int64 `json:"active_processes"`  // 执行中流程数
	OverdueTasks     int64 `json:"overdue_tasks"`     // 逾期任务数
}

// queryService 统计分析服务实现
type queryService struct {
	db *gorm.DB
}

// NewQueryService 创建统计分析服务
func NewQueryService(db *gorm.DB) QueryService {
	return &queryService{db: db}
}

// DepartmentStats 按部门聚合任务完成情况
func (s *queryService) DepartmentStats() ([]DepartmentStats, error) {
	type row struct {
		Department string
		Total      int64
		Completed  int64
	}

	var rows []row
	err := s.db.Model(&model.ChecklistItem{}).
		Select("department, COUNT(*) AS total, SUM(CASE WHEN is_completed THEN 1 ELSE 0 END) AS completed").
		Group("department").
		Order("department").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	today := time.Now().Truncate(24 * time.Hour)
	stats := make([]DepartmentStats, 0, len(rows))
	for _, r := range rows {
		var overdue int64
		err := s.db.Model(&model.ChecklistItem{}).
			Joins("JOIN offboarding_processes ON offboarding_processes.id = checklist_items.process_id").
			Where("checklist_items.department = ?", r.Department).
			Where("checklist_items.is_completed = ?", false).
			Where("checklist_items.due_date IS NOT NULL AND checklist_items.due_date < ?", today).
			Where("offboarding_processes.is_closed = ?", false).
			Count(&overdue).Error
		if err != nil {
			return nil, err
		}

		stat := DepartmentStats{
			Department:     r.Department,
			TotalTasks:     r.Total,
			CompletedTasks: r.Completed,
			OverdueTasks:   overdue,
		}
		if r.Total > 0 {
			stat.CompletionRate = float64(r.Completed) / float64(r.Total) * 100
		}
		stats = append(stats, stat)
	}
	return stats, nil
}

// SystemOverview 全局流程与任务统计
func (s *queryService) SystemOverview() (*SystemOverview, error) {
	overview := &SystemOverview{}

	processCounts := map[string]*int64{
		model.StatusPendingApproval: &overview.PendingProcesses,
		model.StatusActive:          &overview.ActiveProcesses,
		model.StatusClosed:          &overview.ClosedProcesses,
		model.StatusRejected:        &overview.RejectedProcesses,
	}
	if err := s.db.Model(&model.OffboardingProcess{}).Count(&overview.TotalProcesses).Error; err != nil {
		return nil, err
	}
	for status, target := range processCounts {
		if err := s.db.Model(&model.OffboardingProcess{}).Where("status = ?", status).Count(target).Error; err != nil {
			return nil, err
		}
	}

	if err := s.db.Model(&model.ChecklistItem{}).Count(&overview.TotalTasks).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&model.ChecklistItem{}).Where("is_completed = ?", true).Count(&overview.CompletedTasks).Error; err != nil {
		return nil, err
	}

	today := time.Now().Truncate(24 * time.Hour)
	err := s.db.Model(&model.ChecklistItem{}).
		Joins("JOIN offboarding_processes ON offboarding_processes.id = checklist_items.process_id").
		Where("checklist_items.is_completed = ?", false).
		Where("checklist_items.due_date IS NOT NULL AND checklist_items.due_date < ?", today).
		Where("offboarding_processes.is_closed = ?", false).
		Count(&overview.OverdueTasks).Error
	if err != nil {
		return nil, err
	}

	// 执行中流程的平均进度
	var active []*model.OffboardingProcess
	err = s.db.Preload("ChecklistItems").
		Where("status = ? AND is_closed = ?", model.StatusActive, false).
		Find(&active).Error
	if err != nil {
		return nil, err
	}
	if len(active) > 0 {
		var sum float64
		for _, p := range active {
			sum += p.Progress()
		}
		overview.AverageProgress = sum / float64(len(active))
	}

	return overview, nil
}

// Dashboard 操作者视角的工作台计数
func (s *queryService) Dashboard(actor auth.Actor) (*DashboardCounts, error) {
	counts := &DashboardCounts{}

	if err := s.db.Model(&model.OffboardingProcess{}).
		Where("initiated_by = ?", actor.Identifier).
		Count(&counts.MyProcesses).Error; err != nil {
		return nil, err
	}

	if actor.IsHROrAdmin() {
		if err := s.db.Model(&model.OffboardingProcess{}).
			Where("status = ?", model.StatusPendingApproval).
			Count(&counts.PendingApprovals).Error; err != nil {
			return nil, err
		}
	}

	activeScope := s.db.Model(&model.OffboardingProcess{}).
		Where("status = ? AND is_closed = ?", model.StatusActive, false)
	if !actor.IsHROrAdmin() {
		activeScope = activeScope.Where("initiated_by = ?", actor.Identifier)
	}
	if err := activeScope.Count(&counts.ActiveProcesses).Error; err != nil {
		return nil, err
	}

	today := time.Now().Truncate(24 * time.Hour)
	overdueScope := s.db.Model(&model.ChecklistItem{}).
		Joins("JOIN offboarding_processes ON offboarding_processes.id = checklist_items.process_id").
		Where("checklist_items.is_completed = ?", false).
		Where("checklist_items.due_date IS NOT NULL AND checklist_items.due_date < ?", today).
		Where("offboarding_processes.is_closed = ?", false)
	if !actor.IsHROrAdmin() {
		overdueScope = overdueScope.Where("offboarding_processes.initiated_by = ?", actor.Identifier)
	}
	if err := overdueScope.Count(&counts.OverdueTasks).Error; err != nil {
		return nil, err
	}

	return counts, nil
}
