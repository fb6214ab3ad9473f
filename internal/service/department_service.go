package service

import (
	"errors"
	"strings"
	"time"

	"github.com/AyaSox/hr-offboarding-checklist/internal/config"
	"github.com/AyaSox/hr-offboarding-checklist/internal/model"
	"github.com/AyaSox/hr-offboarding-checklist/internal/repository"
	"gorm.io/gorm"
)

// DepartmentService 部门目录服务接口
type DepartmentService interface {
	Create(req *CreateDepartmentRequest, createdBy string) (*model.Department, error)
	Get(id uint) (*model.Department, error)
	List(activeOnly bool) ([]*model.Department, error)
	Update(id uint, req *UpdateDepartmentRequest) (*model.Department, error)
	Delete(id uint) error
	// EmailFor 部门联系邮箱解析: 目录中的启用记录优先,否则查兜底表
	EmailFor(name string) string
}

// CreateDepartmentRequest 创建部门请求
// @Description 创建部门的请求参数
type CreateDepartmentRequest struct {
	Name         string `json:"name" example:"Information Technology" binding:"required,max=100"` // 部门名称
	EmailAddress string `json:"email_address" example:"it@company.co.za" binding:"required"`      // 联系邮箱
	ManagerName  string `json:"manager_name" example:"Thandi Nkosi"`                              // 负责人姓名
	ManagerEmail string `json:"manager_email" example:"thandi@company.co.za"`                     // 负责人邮箱
	Description  string `json:"description" example:"Hardware and access management"`             // 描述
}

// UpdateDepartmentRequest 更新部门请求
// @Description 更新部门的请求参数
type UpdateDepartmentRequest struct {
	Name         string `json:"name" binding:"required,max=100"` // 部门名称
	EmailAddress string `json:"email_address" binding:"required"` // 联系邮箱
	ManagerName  string `json:"manager_name"`                    // 负责人姓名
	ManagerEmail string `json:"manager_email"`                   // 负责人邮箱
	IsActive     *bool  `json:"is_active"`                       // 是否启用
	Description  string `json:"description"`                     // 描述
}

// departmentService 部门目录服务实现
type departmentService struct {
	deptRepo repository.DepartmentRepository
	notify   config.NotifyConfig
}

// NewDepartmentService 创建部门目录服务
func NewDepartmentService(deptRepo repository.DepartmentRepository, notify config.NotifyConfig) DepartmentService {
	return &departmentService{
		deptRepo: deptRepo,
		notify:   notify,
	}
}

// Create 创建部门,名称唯一
func (s *departmentService) Create(req *CreateDepartmentRequest, createdBy string) (*model.Department, error) {
	if existing, err := s.deptRepo.FindByName(req.Name); err == nil && existing != nil {
		return nil, Blocked("department %q already exists", req.Name)
	}

	department := &model.Department{
		Name:         req.Name,
		EmailAddress: req.EmailAddress,
		ManagerName:  req.ManagerName,
		ManagerEmail: req.ManagerEmail,
		IsActive:     true,
		Description:  req.Description,
		CreatedOn:    time.Now(),
		CreatedBy:    createdBy,
	}
	if err := department.Validate(); err != nil {
		return nil, err
	}

	if err := s.deptRepo.Save(department); err != nil {
		return nil, err
	}
	return department, nil
}

// Get 获取部门详情
func (s *departmentService) Get(id uint) (*model.Department, error) {
	department, err := s.deptRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return department, nil
}

// List 部门列表
func (s *departmentService) List(activeOnly bool) ([]*model.Department, error) {
	return s.deptRepo.FindAll(activeOnly)
}

// Update 更新部门
func (s *departmentService) Update(id uint, req *UpdateDepartmentRequest) (*model.Department, error) {
	department, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	// 改名时检查重名
	if !strings.EqualFold(department.Name, req.Name) {
		if existing, err := s.deptRepo.FindByName(req.Name); err == nil && existing != nil && existing.ID != id {
			return nil, Blocked("department %q already exists", req.Name)
		}
	}

	department.Name = req.Name
	department.EmailAddress = req.EmailAddress
	department.ManagerName = req.ManagerName
	department.ManagerEmail = req.ManagerEmail
	department.Description = req.Description
	if req.IsActive != nil {
		department.IsActive = *req.IsActive
	}
	if err := department.Validate(); err != nil {
		return nil, err
	}

	if err := s.deptRepo.Save(department); err != nil {
		return nil, err
	}
	return department, nil
}

// Delete 删除部门
func (s *departmentService) Delete(id uint) error {
	if _, err := s.Get(id); err != nil {
		return err
	}
	return s.deptRepo.Delete(id)
}

// EmailFor 按部门名解析联系邮箱
// 目录中有启用记录且邮箱非空时使用目录,否则按小写名查配置兜底表,
// 兜底表也没有时返回默认邮箱
func (s *departmentService) EmailFor(name string) string {
	if department, err := s.deptRepo.FindByName(name); err == nil && department.IsActive && department.EmailAddress != "" {
		return department.EmailAddress
	}

	key := strings.ToLower(strings.TrimSpace(name))
	if email, ok := s.notify.FallbackEmails[key]; ok && email != "" {
		return email
	}
	return s.notify.DefaultEmail
}
