package service

import (
	"context"
	"fmt"

	"github.com/mrizkyrn/open-forum-sub001/internal/live"
	"github.com/mrizkyrn/open-forum-sub001/internal/model"
	"github.com/mrizkyrn/open-forum-sub001/internal/store"
)

// PushScheduler schedules best-effort push delivery for a persisted
// notification. It must never block or fail.
type PushScheduler interface {
	Dispatch(notificationID int64)
}

// Broadcaster is the ephemeral room fanout consumed by connected UI
// sessions.
type Broadcaster interface {
	Broadcast(room, eventName string, payload any)
}

// NotificationService is the entry point domain services (comments, votes,
// reports, spaces) use to emit a notification. Persisting the record is the
// only operation that can fail; live broadcast and push delivery are side
// channels that never affect the result.
type NotificationService struct {
	store      store.Store
	hub        Broadcaster
	dispatcher PushScheduler
}

// NewNotificationService wires the store with the two delivery channels.
// Either channel may be nil, which disables it.
func NewNotificationService(s store.Store, hub Broadcaster, dispatcher PushScheduler) *NotificationService {
	return &NotificationService{store: s, hub: hub, dispatcher: dispatcher}
}

// CreateInput carries an already-formed notification intent from a domain
// service.
type CreateInput struct {
	Type        model.NotificationType
	RecipientID int64
	ActorID     *int64
	EntityType  string
	EntityID    int64
	Data        model.NotificationData
}

// CreateNotification persists the notification, then triggers the live
// broadcast and schedules push delivery. The returned error reflects the
// store write only.
func (s *NotificationService) CreateNotification(ctx context.Context, in CreateInput) (*model.Notification, error) {
	n := &model.Notification{
		Type:        in.Type,
		RecipientID: in.RecipientID,
		ActorID:     in.ActorID,
		EntityType:  in.EntityType,
		EntityID:    in.EntityID,
		Data:        in.Data,
	}
	if err := s.store.CreateNotification(ctx, n); err != nil {
		return nil, fmt.Errorf("create notification: %w", err)
	}

	if s.hub != nil {
		s.hub.Broadcast(live.UserRoom(n.RecipientID), "notification", n)
	}
	if s.dispatcher != nil {
		s.dispatcher.Dispatch(n.ID)
	}
	return n, nil
}

// BroadcastDiscussionEvent fans an ephemeral event (new discussion, new
// comment banner) out to the sessions currently viewing a discussion. Not
// persisted, no delivery guarantees.
func (s *NotificationService) BroadcastDiscussionEvent(discussionID int64, eventName string, payload any) {
	if s.hub == nil {
		return
	}
	s.hub.Broadcast(live.DiscussionRoom(discussionID), eventName, payload)
}
