package repository

import (
	"github.com/AyaSox/hr-offboarding-checklist/internal/model"
	"gorm.io/gorm"
)

// DocumentRepository 流程文档仓储接口
type DocumentRepository interface {
	Create(document *model.OffboardingDocument) error
	FindByID(id uint) (*model.OffboardingDocument, error)
	FindByProcessID(processID uint) ([]*model.OffboardingDocument, error)
	Update(document *model.OffboardingDocument) error
	Delete(document *model.OffboardingDocument) error
}

// documentRepository 流程文档仓储实现
type documentRepository struct {
	db *gorm.DB
}

// NewDocumentRepository 创建流程文档仓储
func NewDocumentRepository(db *gorm.DB) DocumentRepository {
	return &documentRepository{db: db}
}

// Create 登记文档元数据
func (r *documentRepository) Create(document *model.OffboardingDocument) error {
	return r.db.Create(document).Error
}

// FindByID 根据 ID 查找文档
func (r *documentRepository) FindByID(id uint) (*model.OffboardingDocument, error) {
	var document model.OffboardingDocument
	if err := r.db.Where("id = ?", id).First(&document).Error; err != nil {
		return nil, err
	}
	return &document, nil
}

// FindByProcessID 查找流程的全部文档,按上传时间倒序
func (r *documentRepository) FindByProcessID(processID uint) ([]*model.OffboardingDocument, error) {
	var documents []*model.OffboardingDocument
	err := r.db.
		Where("process_id = ?", processID).
		Order("uploaded_on DESC").
		Find(&documents).Error
	return documents, err
}

// Update 更新文档元数据
func (r *documentRepository) Update(document *model.OffboardingDocument) error {
	return r.db.Save(document).Error
}

// Delete 删除文档记录
func (r *documentRepository) Delete(document *model.OffboardingDocument) error {
	return r.db.Delete(document).Error
}
