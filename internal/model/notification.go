package model

import (
	"errors"
	"time"
)

// 通知类型
const (
	NotificationProcessStarted = "process_started"
	NotificationProcessClosed  = "process_closed"
	NotificationTaskOverdue    = "task_overdue"
	NotificationTaskCompleted  = "task_completed"
	NotificationSystemAlert    = "system_alert"
	NotificationReminder       = "reminder"
)

// 通知优先级
const (
	PriorityLow      = 1
	PriorityNormal   = 2
	PriorityHigh     = 3
	PriorityCritical = 4
)

// Notification 站内通知数据模型
// RelatedProcessID/RelatedTaskID 为软引用,不建外键,悬空引用视为不可解析
type Notification struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	Title         string     `gorm:"type:varchar(200);not null" json:"title"`
	Message       string     `gorm:"type:text;not null" json:"message"`
	Type          string     `gorm:"type:varchar(32);not null;index" json:"type"`
	Priority      int        `gorm:"not null;default:2" json:"priority"`
	RecipientUser string     `gorm:"type:varchar(200);index" json:"recipient_user,omitempty"`
	RecipientRole string     `gorm:"type:varchar(32);index" json:"recipient_role,omitempty"`
	IsRead        bool       `gorm:"not null;default:false;index" json:"is_read"`
	CreatedOn     time.Time  `gorm:"not null;index" json:"created_on"`
	ReadOn        *time.Time `json:"read_on,omitempty"`
	ActionURL     string     `gorm:"type:varchar(500)" json:"action_url,omitempty"`
	ActionText    string     `gorm:"type:varchar(100)" json:"action_text,omitempty"`

	RelatedProcessID *uint `json:"related_process_id,omitempty"`
	RelatedTaskID    *uint `json:"related_task_id,omitempty"`
}

// TableName 指定表名
func (Notification) TableName() string {
	return "notifications"
}

// Validate 验证通知模型
func (n *Notification) Validate() error {
	if n.Title == "" {
		return errors.New("notification title is required")
	}
	if n.Message == "" {
		return errors.New("notification message is required")
	}
	if n.Type == "" {
		return errors.New("notification type is required")
	}
	if n.RecipientUser == "" && n.RecipientRole == "" {
		return errors.New("notification recipient is required")
	}
	if n.Priority < PriorityLow || n.Priority > PriorityCritical {
		return errors.New("notification priority out of range")
	}
	return nil
}
