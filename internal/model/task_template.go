package model

import (
	"errors"
	"time"
)

// TaskTemplate 任务模板数据模型
// 可复用的任务定义,流程审批通过时按模板生成清单任务
type TaskTemplate struct {
	ID                     uint   `gorm:"primaryKey" json:"id"`
	TaskName               string `gorm:"type:varchar(200);not null" json:"task_name"`
	Department             string `gorm:"type:varchar(100);not null;index" json:"department"`
	Description            string `gorm:"type:varchar(500)" json:"description,omitempty"`
	// 相对最后工作日的偏移天数: 0 = 当天, 负数 = 提前, 正数 = 之后
	DaysFromLastWorkingDay int  `gorm:"not null;default:0" json:"days_from_last_working_day"`
	IsRequired             bool `gorm:"not null;default:true" json:"is_required"`
	IsActive               bool `gorm:"not null;default:true;index" json:"is_active"`

	// 模板依赖: 弱引用另一个模板,存在依赖方时禁止删除
	DependsOnTemplateID *uint         `gorm:"index" json:"depends_on_template_id,omitempty"`
	DependsOnTemplate   *TaskTemplate `gorm:"foreignKey:DependsOnTemplateID;constraint:OnDelete:RESTRICT" json:"depends_on_template,omitempty"`

	CreatedOn time.Time `gorm:"not null" json:"created_on"`
	CreatedBy string    `gorm:"type:varchar(100)" json:"created_by"`
}

// TableName 指定表名
func (TaskTemplate) TableName() string {
	return "task_templates"
}

// Validate 验证任务模板模型
func (t *TaskTemplate) Validate() error {
	if t.TaskName == "" {
		return errors.New("task name is required")
	}
	if len(t.TaskName) > 200 {
		return errors.New("task name cannot exceed 200 characters")
	}
	if t.Department == "" {
		return errors.New("department is required")
	}
	if len(t.Department) > 100 {
		return errors.New("department cannot exceed 100 characters")
	}
	if t.DependsOnTemplateID != nil && *t.DependsOnTemplateID == t.ID && t.ID != 0 {
		return errors.New("template cannot depend on itself")
	}
	return nil
}
