package model

import (
	"errors"
	"strings"
	"time"
)

// Department 部门数据模型
// 通知/邮件路由时按名称解析联系邮箱,无有效记录时退回配置的兜底表
type Department struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"type:varchar(100);not null;uniqueIndex" json:"name"`
	EmailAddress string    `gorm:"type:varchar(200);not null" json:"email_address"`
	ManagerName  string    `gorm:"type:varchar(100)" json:"manager_name,omitempty"`
	ManagerEmail string    `gorm:"type:varchar(200)" json:"manager_email,omitempty"`
	IsActive     bool      `gorm:"not null;default:true;index" json:"is_active"`
	Description  string    `gorm:"type:varchar(500)" json:"description,omitempty"`
	CreatedOn    time.Time `gorm:"not null" json:"created_on"`
	CreatedBy    string    `gorm:"type:varchar(100)" json:"created_by"`
}

// TableName 指定表名
func (Department) TableName() string {
	return "departments"
}

// Validate 验证部门模型
func (d *Department) Validate() error {
	if d.Name == "" {
		return errors.New("department name is required")
	}
	if len(d.Name) > 100 {
		return errors.New("department name cannot exceed 100 characters")
	}
	if d.EmailAddress == "" {
		return errors.New("department email address is required")
	}
	if !strings.Contains(d.EmailAddress, "@") {
		return errors.New("department email address is invalid")
	}
	return nil
}
