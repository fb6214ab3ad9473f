package model

import (
	"errors"
	"time"
)

// TaskComment 任务备注审计记录
// 仅追加,任务取消完成时保留历史
type TaskComment struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	ChecklistItemID uint      `gorm:"not null;index" json:"checklist_item_id"`
	Comment         string    `gorm:"type:text;not null" json:"comment"`
	CreatedBy       string    `gorm:"type:varchar(100);not null" json:"created_by"`
	CreatedOn       time.Time `gorm:"not null" json:"created_on"`
}

// TableName 指定表名
func (TaskComment) TableName() string {
	return "task_comments"
}

// Validate 验证任务备注模型
func (tc *TaskComment) Validate() error {
	if tc.Comment == "" {
		return errors.New("comment is required")
	}
	if tc.CreatedBy == "" {
		return errors.New("comment author is required")
	}
	if tc.ChecklistItemID == 0 {
		return errors.New("checklist item ID is required")
	}
	return nil
}
