package model

import (
	"errors"
	"time"
)

// ChecklistItem 离职清单任务数据模型
// 由任务模板在流程审批通过时生成,归属单一流程
type ChecklistItem struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	ProcessID   uint       `gorm:"not null;index" json:"process_id"`
	TaskName    string     `gorm:"type:varchar(200);not null" json:"task_name"`
	Department  string     `gorm:"type:varchar(100);not null;index" json:"department"`
	IsCompleted bool       `gorm:"not null;default:false;index" json:"is_completed"`
	CompletedBy string     `gorm:"type:varchar(100)" json:"completed_by,omitempty"`
	CompletedOn *time.Time `json:"completed_on,omitempty"`
	Comments    string     `gorm:"type:varchar(500)" json:"comments,omitempty"`
	DueDate     *time.Time `gorm:"index" json:"due_date,omitempty"`
	Version     int        `gorm:"not null;default:1" json:"version"` // 乐观并发令牌

	// 任务依赖: 弱引用另一个清单任务,删除被依赖方受限(RESTRICT)
	DependsOnTaskID *uint          `gorm:"index" json:"depends_on_task_id,omitempty"`
	DependsOnTask   *ChecklistItem `gorm:"foreignKey:DependsOnTaskID;constraint:OnDelete:RESTRICT" json:"depends_on_task,omitempty"`
	DependentTasks  []ChecklistItem `gorm:"foreignKey:DependsOnTaskID" json:"dependent_tasks,omitempty"`

	TaskComments []TaskComment `gorm:"foreignKey:ChecklistItemID;constraint:OnDelete:CASCADE" json:"task_comments,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName 指定表名
func (ChecklistItem) TableName() string {
	return "checklist_items"
}

// Validate 验证清单任务模型
func (c *ChecklistItem) Validate() error {
	if c.TaskName == "" {
		return errors.New("task name is required")
	}
	if len(c.TaskName) > 200 {
		return errors.New("task name cannot exceed 200 characters")
	}
	if c.Department == "" {
		return errors.New("department is required")
	}
	if c.ProcessID == 0 {
		return errors.New("process ID is required")
	}
	return nil
}

// IsOverdue 到期日已过且任务未完成
func (c *ChecklistItem) IsOverdue(now time.Time) bool {
	if c.DueDate == nil || c.IsCompleted {
		return false
	}
	due := c.DueDate.Truncate(24 * time.Hour)
	return due.Before(now.Truncate(24 * time.Hour))
}

// CanBeCompleted 依赖任务已完成(或无依赖)时才可标记完成
// 依赖未加载时按无依赖处理,由服务层负责预加载
func (c *ChecklistItem) CanBeCompleted() bool {
	if c.DependsOnTaskID == nil {
		return true
	}
	if c.DependsOnTask == nil {
		return true
	}
	return c.DependsOnTask.IsCompleted
}
