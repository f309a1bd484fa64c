package store

import (
	"context"
	"fmt"
	"net/url"

	"gorm.io/gorm/clause"

	"github.com/mrizkyrn/open-forum-sub001/internal/model"
)

// SubscriptionRegistry owns the durable mapping of (user, device endpoint)
// to push keys and the active/inactive flag.
type SubscriptionRegistry interface {
	// Upsert creates or overwrites the subscription row for an endpoint.
	// The endpoint is the natural key: a resubscribe from the same device
	// reassigns the row to the calling user and forces it active.
	Upsert(ctx context.Context, userID int64, endpoint, p256dh, auth, userAgent string) (*model.PushSubscription, error)

	// Deactivate flips the user's active row for an endpoint to inactive.
	// A missing or already-inactive row is a no-op, not an error.
	Deactivate(ctx context.Context, userID int64, endpoint string) error

	// Reactivate flips an inactive row back to active and reports whether
	// a row was found. It never creates a row.
	Reactivate(ctx context.Context, userID int64, endpoint string) (bool, error)

	// Remove is the unsubscribe intent. Hard deletion is unnecessary since
	// endpoints are superseded by future upserts, so its effect matches
	// Deactivate.
	Remove(ctx context.Context, userID int64, endpoint string) error

	// ListActive returns every active subscription owned by the user.
	ListActive(ctx context.Context, userID int64) ([]model.PushSubscription, error)
}

func validSubscription(endpoint, p256dh, auth string) bool {
	if endpoint == "" || p256dh == "" || auth == "" {
		return false
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return false
	}
	return (u.Scheme == "https" || u.Scheme == "http") && u.Host != ""
}

func (s *gormStore) Upsert(ctx context.Context, userID int64, endpoint, p256dh, auth, userAgent string) (*model.PushSubscription, error) {
	if !validSubscription(endpoint, p256dh, auth) {
		return nil, ErrMalformedSubscription
	}

	sub := model.PushSubscription{
		UserID:    userID,
		Endpoint:  endpoint,
		P256DH:    p256dh,
		Auth:      auth,
		UserAgent: userAgent,
		Active:    true,
	}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "endpoint"}},
		DoUpdates: clause.AssignmentColumns([]string{"user_id", "p256dh", "auth", "user_agent", "active", "updated_at"}),
	}).Create(&sub).Error
	if err != nil {
		return nil, fmt.Errorf("upsert subscription: %w", err)
	}

	// The conflict path does not report the surviving row's id back, so
	// reload by the natural key.
	var saved model.PushSubscription
	if err := s.db.WithContext(ctx).First(&saved, "endpoint = ?", endpoint).Error; err != nil {
		return nil, fmt.Errorf("reload subscription: %w", err)
	}
	return &saved, nil
}

func (s *gormStore) Deactivate(ctx context.Context, userID int64, endpoint string) error {
	err := s.db.WithContext(ctx).
		Model(&model.PushSubscription{}).
		Where("user_id = ? AND endpoint = ? AND active = ?", userID, endpoint, true).
		Update("active", false).Error
	if err != nil {
		return fmt.Errorf("deactivate subscription: %w", err)
	}
	return nil
}

func (s *gormStore) Reactivate(ctx context.Context, userID int64, endpoint string) (bool, error) {
	result := s.db.WithContext(ctx).
		Model(&model.PushSubscription{}).
		Where("user_id = ? AND endpoint = ? AND active = ?", userID, endpoint, false).
		Update("active", true)
	if result.Error != nil {
		return false, fmt.Errorf("reactivate subscription: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (s *gormStore) Remove(ctx context.Context, userID int64, endpoint string) error {
	return s.Deactivate(ctx, userID, endpoint)
}

func (s *gormStore) ListActive(ctx context.Context, userID int64) ([]model.PushSubscription, error) {
	var subs []model.PushSubscription
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND active = ?", userID, true).
		Find(&subs).Error
	if err != nil {
		return nil, fmt.Errorf("list active subscriptions: %w", err)
	}
	return subs, nil
}
