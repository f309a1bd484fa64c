package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/mrizkyrn/open-forum-sub001/internal/model"
)

// ReadStatus filters a notification listing.
type ReadStatus string

const (
	StatusAll    ReadStatus = "all"
	StatusRead   ReadStatus = "read"
	StatusUnread ReadStatus = "unread"
)

// ListOptions control pagination and filtering of a notification listing.
type ListOptions struct {
	Page   int
	Limit  int
	Status ReadStatus
}

// NotificationStore owns persisted notification records. Rows are created
// exactly once and afterwards mutated only by read-state toggles and deletes.
type NotificationStore interface {
	CreateNotification(ctx context.Context, n *model.Notification) error
	GetNotification(ctx context.Context, id int64) (*model.Notification, error)
	ListNotifications(ctx context.Context, userID int64, opts ListOptions) ([]model.Notification, int64, error)
	MarkAsRead(ctx context.Context, userID int64, ids []int64) (int64, error)
	MarkAllAsRead(ctx context.Context, userID int64) (int64, error)
	DeleteNotification(ctx context.Context, userID, id int64) error
	DeleteAllNotifications(ctx context.Context, userID int64) error
	UnreadCount(ctx context.Context, userID int64) (int64, error)
}

func (s *gormStore) CreateNotification(ctx context.Context, n *model.Notification) error {
	if err := s.db.WithContext(ctx).Create(n).Error; err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	return nil
}

func (s *gormStore) GetNotification(ctx context.Context, id int64) (*model.Notification, error) {
	var n model.Notification
	if err := s.db.WithContext(ctx).First(&n, id).Error; err != nil {
		return nil, err
	}
	return &n, nil
}

func (s *gormStore) ListNotifications(ctx context.Context, userID int64, opts ListOptions) ([]model.Notification, int64, error) {
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit < 1 || opts.Limit > 50 {
		opts.Limit = 20
	}

	q := s.db.WithContext(ctx).Model(&model.Notification{}).Where("recipient_id = ?", userID)
	switch opts.Status {
	case StatusRead:
		q = q.Where("is_read = ?", true)
	case StatusUnread:
		q = q.Where("is_read = ?", false)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count notifications: %w", err)
	}

	var items []model.Notification
	err := q.Order("created_at DESC").
		Offset((opts.Page - 1) * opts.Limit).
		Limit(opts.Limit).
		Find(&items).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list notifications: %w", err)
	}
	return items, total, nil
}

func (s *gormStore) MarkAsRead(ctx context.Context, userID int64, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := s.db.WithContext(ctx).
		Model(&model.Notification{}).
		Where("recipient_id = ? AND id IN ? AND is_read = ?", userID, ids, false).
		Update("is_read", true)
	if result.Error != nil {
		return 0, fmt.Errorf("mark notifications read: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (s *gormStore) MarkAllAsRead(ctx context.Context, userID int64) (int64, error) {
	result := s.db.WithContext(ctx).
		Model(&model.Notification{}).
		Where("recipient_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)
	if result.Error != nil {
		return 0, fmt.Errorf("mark all notifications read: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (s *gormStore) DeleteNotification(ctx context.Context, userID, id int64) error {
	result := s.db.WithContext(ctx).
		Where("recipient_id = ?", userID).
		Delete(&model.Notification{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete notification: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (s *gormStore) DeleteAllNotifications(ctx context.Context, userID int64) error {
	err := s.db.WithContext(ctx).
		Where("recipient_id = ?", userID).
		Delete(&model.Notification{}).Error
	if err != nil {
		return fmt.Errorf("delete all notifications: %w", err)
	}
	return nil
}

func (s *gormStore) UnreadCount(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&model.Notification{}).
		Where("recipient_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}
	return count, nil
}
