package model

import (
	"errors"
	"time"
)

// 常见文档类型
const (
	DocumentExitInterview   = "Exit Interview"
	DocumentAssetReturnForm = "Asset Return Form"
	DocumentFinalPayslip    = "Final Payslip"
	DocumentClearance       = "Clearance Certificate"
	DocumentHandover        = "Handover Document"
	DocumentOther           = "Other"
)

// OffboardingDocument 流程附件元数据
// 仅登记元数据,文件存取由外部适配层负责;随流程级联删除
type OffboardingDocument struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ProcessID   uint      `gorm:"not null;index" json:"process_id"`
	FileName    string    `gorm:"type:varchar(255);not null" json:"file_name"`
	FileType    string    `gorm:"type:varchar(100);not null" json:"file_type"`
	FilePath    string    `gorm:"type:varchar(500)" json:"file_path,omitempty"`
	FileSize    int64     `json:"file_size"`
	ContentType string    `gorm:"type:varchar(100)" json:"content_type,omitempty"`
	UploadedOn  time.Time `gorm:"not null" json:"uploaded_on"`
	UploadedBy  string    `gorm:"type:varchar(100)" json:"uploaded_by"`
	IsRequired  bool      `gorm:"not null;default:false" json:"is_required"`
	IsCompleted bool      `gorm:"not null;default:false" json:"is_completed"`
	Description string    `gorm:"type:varchar(500)" json:"description,omitempty"`
}

// TableName 指定表名
func (OffboardingDocument) TableName() string {
	return "offboarding_documents"
}

// Validate 验证文档模型
func (d *OffboardingDocument) Validate() error {
	if d.FileName == "" {
		return errors.New("file name is required")
	}
	if d.FileType == "" {
		return errors.New("file type is required")
	}
	if d.ProcessID == 0 {
		return errors.New("process ID is required")
	}
	return nil
}
