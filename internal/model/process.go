package model

import (
	"errors"
	"time"
)

// 离职流程状态
const (
	StatusDraft           = "draft"
	StatusPendingApproval = "pending_approval"
	StatusApproved        = "approved"
	StatusActive          = "active"
	StatusClosed          = "closed"
	StatusRejected        = "rejected"
)

// ValidStatuses 所有合法的流程状态
var ValidStatuses = []string{
	StatusDraft,
	StatusPendingApproval,
	StatusApproved,
	StatusActive,
	StatusClosed,
	StatusRejected,
}

// OffboardingProcess 离职流程数据模型
// 一条记录对应一名员工的离职案件,从发起到关闭
type OffboardingProcess struct {
	ID                  uint       `gorm:"primaryKey" json:"id"`
	EmployeeName        string     `gorm:"type:varchar(100);not null;index" json:"employee_name"`
	JobTitle            string     `gorm:"type:varchar(50);not null" json:"job_title"`
	EmploymentStartDate time.Time  `gorm:"not null" json:"employment_start_date"`
	LastWorkingDay      time.Time  `gorm:"not null;index" json:"last_working_day"`
	StartDate           time.Time  `gorm:"not null;index" json:"start_date"`
	InitiatedBy         string     `gorm:"type:varchar(200);not null;index" json:"initiated_by"`
	Status              string     `gorm:"type:varchar(32);not null;index" json:"status"`
	ApprovedBy          string     `gorm:"type:varchar(200)" json:"approved_by,omitempty"`
	ApprovedOn          *time.Time `json:"approved_on,omitempty"`
	RejectedBy          string     `gorm:"type:varchar(200)" json:"rejected_by,omitempty"`
	RejectedOn          *time.Time `json:"rejected_on,omitempty"`
	RejectionReason     string     `gorm:"type:text" json:"rejection_reason,omitempty"`
	ClosedBy            string     `gorm:"type:varchar(100)" json:"closed_by,omitempty"`
	ClosedOn            *time.Time `gorm:"index" json:"closed_on,omitempty"`
	IsClosed            bool       `gorm:"not null;default:false;index" json:"is_closed"`
	Version             int        `gorm:"not null;default:1" json:"version"` // 乐观并发令牌

	ChecklistItems []ChecklistItem       `gorm:"foreignKey:ProcessID;constraint:OnDelete:CASCADE" json:"checklist_items,omitempty"`
	Documents      []OffboardingDocument `gorm:"foreignKey:ProcessID;constraint:OnDelete:CASCADE" json:"documents,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName 指定表名
func (OffboardingProcess) TableName() string {
	return "offboarding_processes"
}

// Validate 验证流程模型
func (p *OffboardingProcess) Validate() error {
	if p.EmployeeName == "" {
		return errors.New("employee name is required")
	}
	if len(p.EmployeeName) > 100 {
		return errors.New("employee name cannot exceed 100 characters")
	}
	if p.JobTitle == "" {
		return errors.New("job title is required")
	}
	if len(p.JobTitle) > 50 {
		return errors.New("job title cannot exceed 50 characters")
	}
	if p.InitiatedBy == "" {
		return errors.New("initiator is required")
	}
	if p.EmploymentStartDate.IsZero() {
		return errors.New("employment start date is required")
	}
	if p.LastWorkingDay.IsZero() {
		return errors.New("last working day is required")
	}
	if !p.LastWorkingDay.After(p.EmploymentStartDate) {
		return errors.New("last working day must be after employment start date")
	}
	return nil
}

// CanBeEdited 仅草稿和待审批状态可由发起人编辑
func (p *OffboardingProcess) CanBeEdited() bool {
	return p.Status == StatusDraft || p.Status == StatusPendingApproval
}

// CanBeApproved 仅待审批状态可审批
func (p *OffboardingProcess) CanBeApproved() bool {
	return p.Status == StatusPendingApproval
}

// IsActive 流程是否处于执行中
func (p *OffboardingProcess) IsActive() bool {
	return p.Status == StatusActive && !p.IsClosed
}

// Progress 已完成任务占比(0-100)
func (p *OffboardingProcess) Progress() float64 {
	if len(p.ChecklistItems) == 0 {
		return 0
	}
	completed := 0
	for _, item := range p.ChecklistItems {
		if item.IsCompleted {
			completed++
		}
	}
	return float64(completed) / float64(len(p.ChecklistItems)) * 100
}

// OverdueTaskCount 逾期未完成任务数
func (p *OffboardingProcess) OverdueTaskCount(now time.Time) int {
	count := 0
	for _, item := range p.ChecklistItems {
		if item.IsOverdue(now) {
			count++
		}
	}
	return count
}

// YearsOfService 服务年限,已关闭流程按关闭时间计算
func (p *OffboardingProcess) YearsOfService(now time.Time) float64 {
	end := now
	if p.IsClosed && p.ClosedOn != nil {
		end = *p.ClosedOn
	}
	return end.Sub(p.EmploymentStartDate).Hours() / 24 / 365.25
}
