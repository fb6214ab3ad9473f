package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/AyaSox/hr-offboarding-checklist/internal/model"
	"github.com/AyaSox/hr-offboarding-checklist/internal/repository"
	"github.com/google/uuid"
)

// AuditLogService 审计日志服务
type AuditLogService interface {
	RecordAction(ctx context.Context, userID string, action string, resourceType string, resourceID string, details interface{}) error
	RecentByUser(userID string, limit int) ([]*model.AuditLogModel, error)
	ResourceHistory(resourceType string, resourceID string) ([]*model.AuditLogModel, error)
	DeleteOlderThan(cutoff time.Time) (int64, error)
}

// auditLogService 审计日志服务实现
type auditLogService struct {
	auditRepo repository.AuditLogRepository
}

// NewAuditLogService 创建审计日志服务
func NewAuditLogService(auditRepo repository.AuditLogRepository) AuditLogService {
	return &auditLogService{
		auditRepo: auditRepo,
	}
}

// RecordAction 记录操作审计日志
func (s *auditLogService) RecordAction(
	ctx context.Context,
	userID string,
	action string,
	resourceType string,
	resourceID string,
	details interface{},
) error {
	// 序列化详情
	detailsJSON, err := json.Marshal(details)
	if err != nil {
		return err
	}

	// 获取请求信息
	requestID := ""
	if req := ctx.Value("request_id"); req != nil {
		requestID = req.(string)
	}

	ip := ""
	if req := ctx.Value("ip"); req != nil {
		ip = req.(string)
	}

	userAgent := ""
	if req := ctx.Value("user_agent"); req != nil {
		userAgent = req.(string)
	}

	// 创建审计日志
	auditLog := &model.AuditLogModel{
		ID:           uuid.New().String(),
		UserID:       userID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		RequestID:    requestID,
		IP:           ip,
		UserAgent:    userAgent,
		Details:      detailsJSON,
		CreatedAt:    time.Now(),
	}

	return s.auditRepo.Save(auditLog)
}

// RecentByUser 查询用户最近的操作记录
func (s *auditLogService) RecentByUser(userID string, limit int) ([]*model.AuditLogModel, error) {
	return s.auditRepo.FindByUserID(userID, limit)
}

// ResourceHistory 查询资源的操作历史
func (s *auditLogService) ResourceHistory(resourceType string, resourceID string) ([]*model.AuditLogModel, error) {
	return s.auditRepo.FindByResource(resourceType, resourceID)
}

// DeleteOlderThan 清理过期审计日志
func (s *auditLogService) DeleteOlderThan(cutoff time.Time) (int64, error) {
	return s.auditRepo.DeleteOlderThan(cutoff)
}
