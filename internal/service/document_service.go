package service

import (
	"errors"
	"time"

	"github.com/AyaSox/hr-offboarding-checklist/internal/auth"
	"github.com/AyaSox/hr-offboarding-checklist/internal/model"
	"github.com/AyaSox/hr-offboarding-checklist/internal/repository"
	"gorm.io/gorm"
)

// DocumentService 流程文档元数据服务接口
// 只管理元数据登记,文件内容存取不在范围内
type DocumentService interface {
	Register(req *RegisterDocumentRequest, actor auth.Actor) (*model.OffboardingDocument, error)
	Get(id uint, actor auth.Actor) (*model.OffboardingDocument, error)
	ListByProcess(processID uint, actor auth.Actor) ([]*model.OffboardingDocument, error)
	Update(id uint, req *UpdateDocumentRequest, actor auth.Actor) (*model.OffboardingDocument, error)
	Delete(id uint, actor auth.Actor) error
}

// RegisterDocumentRequest 登记文档请求
// @Description 登记流程文档元数据的请求参数
type RegisterDocumentRequest struct {
	ProcessID   uint   `json:"process_id" binding:"required"`                            // 所属流程 ID
	FileName    string `json:"file_name" example:"exit-interview.pdf" binding:"required,max=255"` // 文件名
	FileType    string `json:"file_type" example:"Exit Interview" binding:"required"`    // 文档类型
	FilePath    string `json:"file_path"`                                                // 存储路径
	FileSize    int64  `json:"file_size"`                                                // 文件大小(字节)
	ContentType string `json:"content_type" example:"application/pdf"`                   // MIME 类型
	IsRequired  bool   `json:"is_required"`                                              // 是否必需
	Description string `json:"description"`                                              // 描述
}

// UpdateDocumentRequest 更新文档请求
// @Description 更新文档元数据的请求参数
type UpdateDocumentRequest struct {
	FileName    string `json:"file_name" binding:"required,max=255"` // 文件名
	FileType    string `json:"file_type" binding:"required"`         // 文档类型
	IsRequired  *bool  `json:"is_required"`                          // 是否必需
	IsCompleted *bool  `json:"is_completed"`                         // 是否已交付
	Description string `json:"description"`                          // 描述
}

// documentService 流程文档服务实现
type documentService struct {
	docRepo     repository.DocumentRepository
	processRepo repository.ProcessRepository
}

// NewDocumentService 创建流程文档服务
func NewDocumentService(docRepo repository.DocumentRepository, processRepo repository.ProcessRepository) DocumentService {
	return &documentService{
		docRepo:     docRepo,
		processRepo: processRepo,
	}
}

// Register 登记文档元数据
func (s *documentService) Register(req *RegisterDocumentRequest, actor auth.Actor) (*model.OffboardingDocument, error) {
	if _, err := s.visibleProcess(req.ProcessID, actor); err != nil {
		return nil, err
	}

	document := &model.OffboardingDocument{
		ProcessID:   req.ProcessID,
		FileName:    req.FileName,
		FileType:    req.FileType,
		FilePath:    req.FilePath,
		FileSize:    req.FileSize,
		ContentType: req.ContentType,
		UploadedOn:  time.Now(),
		UploadedBy:  actor.Identifier,
		IsRequired:  req.IsRequired,
		Description: req.Description,
	}
	if err := document.Validate(); err != nil {
		return nil, err
	}
	if err := s.docRepo.Create(document); err != nil {
		return nil, err
	}
	return document, nil
}

// Get 获取文档详情
func (s *documentService) Get(id uint, actor auth.Actor) (*model.OffboardingDocument, error) {
	document, err := s.docRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if _, err := s.visibleProcess(document.ProcessID, actor); err != nil {
		return nil, err
	}
	return document, nil
}

// ListByProcess 流程的文档列表
func (s *documentService) ListByProcess(processID uint, actor auth.Actor) ([]*model.OffboardingDocument, error) {
	if _, err := s.visibleProcess(processID, actor); err != nil {
		return nil, err
	}
	return s.docRepo.FindByProcessID(processID)
}

// Update 更新文档元数据
func (s *documentService) Update(id uint, req *UpdateDocumentRequest, actor auth.Actor) (*model.OffboardingDocument, error) {
	document, err := s.Get(id, actor)
	if err != nil {
		return nil, err
	}

	document.FileName = req.FileName
	document.FileType = req.FileType
	document.Description = req.Description
	if req.IsRequired != nil {
		document.IsRequired = *req.IsRequired
	}
	if req.IsCompleted != nil {
		document.IsCompleted = *req.IsCompleted
	}
	if err := document.Validate(); err != nil {
		return nil, err
	}

	if err := s.docRepo.Update(document); err != nil {
		return nil, err
	}
	return document, nil
}

// Delete 删除文档记录,上传人或 HR/Admin 可操作
func (s *documentService) Delete(id uint, actor auth.Actor) error {
	document, err := s.Get(id, actor)
	if err != nil {
		return err
	}
	if document.UploadedBy != actor.Identifier && !actor.IsHROrAdmin() {
		return ErrForbidden
	}
	return s.docRepo.Delete(document)
}

// visibleProcess 可见性检查: 非 HR/Admin 只能操作自己发起的流程
func (s *documentService) visibleProcess(processID uint, actor auth.Actor) (*model.OffboardingProcess, error) {
	process, err := s.processRepo.FindByID(processID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !actor.IsHROrAdmin() && process.InitiatedBy != actor.Identifier {
		return nil, ErrForbidden
	}
	return process, nil
}
