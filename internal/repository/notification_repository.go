package repository

import (
	"time"

	"github.com/AyaSox/hr-offboarding-checklist/internal/model"
	"gorm.io/gorm"
)

// NotificationRepository 站内通知仓储接口
type NotificationRepository interface {
	Create(notification *model.Notification) error
	FindForRecipient(user string, roles []string, unreadOnly bool, limit int) ([]*model.Notification, error)
	CountUnread(user string, roles []string) (int64, error)
	FindByIDForRecipient(id uint, user string, roles []string) (*model.Notification, error)
	MarkRead(notification *model.Notification) error
	MarkAllRead(user string, roles []string) error
	Delete(notification *model.Notification) error
	DeleteReadOlderThan(cutoff time.Time) (int64, error)
}

// notificationRepository 站内通知仓储实现
type notificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository 创建站内通知仓储
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

// Create 创建通知
func (r *notificationRepository) Create(notification *model.Notification) error {
	return r.db.Create(notification).Error
}

// recipientScope 收件范围: 直达本人的 + 面向本人任一角色的
func recipientScope(db *gorm.DB, user string, roles []string) *gorm.DB {
	if len(roles) == 0 {
		return db.Where("recipient_user = ?", user)
	}
	return db.Where("recipient_user = ? OR recipient_role IN ?", user, roles)
}

// FindForRecipient 查找收件人可见的通知,按创建时间倒序
func (r *notificationRepository) FindForRecipient(user string, roles []string, unreadOnly bool, limit int) ([]*model.Notification, error) {
	query := recipientScope(r.db.Model(&model.Notification{}), user, roles)
	if unreadOnly {
		query = query.Where("is_read = ?", false)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var notifications []*model.Notification
	err := query.Order("created_on DESC").Find(&notifications).Error
	return notifications, err
}

// CountUnread 统计未读通知数
func (r *notificationRepository) CountUnread(user string, roles []string) (int64, error) {
	var count int64
	err := recipientScope(r.db.Model(&model.Notification{}), user, roles).
		Where("is_read = ?", false).
		Count(&count).Error
	return count, err
}

// FindByIDForRecipient 查找收件人可见的单条通知
func (r *notificationRepository) FindByIDForRecipient(id uint, user string, roles []string) (*model.Notification, error) {
	var notification model.Notification
	err := recipientScope(r.db.Model(&model.Notification{}), user, roles).
		Where("id = ?", id).
		First(&notification).Error
	if err != nil {
		return nil, err
	}
	return &notification, nil
}

// MarkRead 标记单条通知已读
func (r *notificationRepository) MarkRead(notification *model.Notification) error {
	now := time.Now()
	return r.db.Model(notification).Updates(map[string]interface{}{
		"is_read": true,
		"read_on": now,
	}).Error
}

// MarkAllRead 标记收件人全部通知已读
func (r *notificationRepository) MarkAllRead(user string, roles []string) error {
	now := time.Now()
	return recipientScope(r.db.Model(&model.Notification{}), user, roles).
		Where("is_read = ?", false).
		Updates(map[string]interface{}{"is_read": true, "read_on": now}).Error
}

// Delete 删除通知
func (r *notificationRepository) Delete(notification *model.Notification) error {
	return r.db.Delete(notification).Error
}

// DeleteReadOlderThan 清理早于 cutoff 且已读的通知,返回删除条数
func (r *notificationRepository) DeleteReadOlderThan(cutoff time.Time) (int64, error) {
	res := r.db.Where("created_on < ? AND is_read = ?", cutoff, true).Delete(&model.Notification{})
	return res.RowsAffected, res.Error
}
