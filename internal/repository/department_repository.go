package repository

import (
	"github.com/AyaSox/hr-offboarding-checklist/internal/model"
	"gorm.io/gorm"
)

// DepartmentRepository 部门仓储接口
type DepartmentRepository interface {
	Save(department *model.Department) error
	FindByID(id uint) (*model.Department, error)
	FindByName(name string) (*model.Department, error)
	FindAll(activeOnly bool) ([]*model.Department, error)
	Delete(id uint) error
}

// departmentRepository 部门仓储实现
type departmentRepository struct {
	db *gorm.DB
}

// NewDepartmentRepository 创建部门仓储
func NewDepartmentRepository(db *gorm.DB) DepartmentRepository {
	return &departmentRepository{db: db}
}

// Save 保存部门(新建或更新)
func (r *departmentRepository) Save(department *model.Department) error {
	return r.db.Save(department).Error
}

// FindByID 根据 ID 查找部门
func (r *departmentRepository) FindByID(id uint) (*model.Department, error) {
	var department model.Department
	if err := r.db.Where("id = ?", id).First(&department).Error; err != nil {
		return nil, err
	}
	return &department, nil
}

// FindByName 按名称查找部门(大小写不敏感)
func (r *departmentRepository) FindByName(name string) (*model.Department, error) {
	var department model.Department
	if err := r.db.Where("LOWER(name) = LOWER(?)", name).First(&department).Error; err != nil {
		return nil, err
	}
	return &department, nil
}

// FindAll 查找部门列表,可选仅启用的,按名称排序
func (r *departmentRepository) FindAll(activeOnly bool) ([]*model.Department, error) {
	query := r.db.Model(&model.Department{})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var departments []*model.Department
	err := query.Order("name").Find(&departments).Error
	return departments, err
}

// Delete 删除部门
func (r *departmentRepository) Delete(id uint) error {
	return r.db.Delete(&model.Department{}, id).Error
}
