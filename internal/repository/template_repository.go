package repository

import (
	"github.com/AyaSox/hr-offboarding-checklist/internal/model"
	"gorm.io/gorm"
)

// TemplateRepository 任务模板仓储接口
type TemplateRepository interface {
	Save(template *model.TaskTemplate) error
	FindByID(id uint) (*model.TaskTemplate, error)
	FindAll() ([]*model.TaskTemplate, error)
	FindActive() ([]*model.TaskTemplate, error)
	HasDependents(id uint) (bool, error)
	Delete(id uint) error
}

// templateRepository 任务模板仓储实现
type templateRepository struct {
	db *gorm.DB
}

// NewTemplateRepository 创建任务模板仓储
func NewTemplateRepository(db *gorm.DB) TemplateRepository {
	return &templateRepository{db: db}
}

// Save 保存模板(新建或更新)
func (r *templateRepository) Save(template *model.TaskTemplate) error {
	return r.db.Save(template).Error
}

// FindByID 根据 ID 查找模板
func (r *templateRepository) FindByID(id uint) (*model.TaskTemplate, error) {
	var template model.TaskTemplate
	if err := r.db.Where("id = ?", id).First(&template).Error; err != nil {
		return nil, err
	}
	return &template, nil
}

// FindAll 查找全部模板,按部门+任务名排序
func (r *templateRepository) FindAll() ([]*model.TaskTemplate, error) {
	var templates []*model.TaskTemplate
	err := r.db.
		Preload("DependsOnTemplate").
		Order("department, task_name").
		Find(&templates).Error
	return templates, err
}

// FindActive 查找启用中的模板,按部门+任务名排序(任务生成的确定性顺序)
func (r *templateRepository) FindActive() ([]*model.TaskTemplate, error) {
	var templates []*model.TaskTemplate
	err := r.db.
		Where("is_active = ?", true).
		Order("department, task_name").
		Find(&templates).Error
	return templates, err
}

// HasDependents 是否存在依赖该模板的其他模板
func (r *templateRepository) HasDependents(id uint) (bool, error) {
	var count int64
	err := r.db.Model(&model.TaskTemplate{}).
		Where("depends_on_template_id = ?", id).
		Count(&count).Error
	return count > 0, err
}

// Delete 删除模板
func (r *templateRepository) Delete(id uint) error {
	return r.db.Delete(&model.TaskTemplate{}, id).Error
}
