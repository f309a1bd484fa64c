package model

import "time"

// NotificationType enumerates the kinds of events that produce a notification.
type NotificationType string

const (
	TypeNewComment         NotificationType = "new-comment"
	TypeNewReply           NotificationType = "new-reply"
	TypeDiscussionUpvote   NotificationType = "discussion-upvote"
	TypeCommentUpvote      NotificationType = "comment-upvote"
	TypeUserMentioned      NotificationType = "user-mentioned"
	TypeReportStatusUpdate NotificationType = "report-status-update"
	TypeSpaceFollow        NotificationType = "space-follow"
	TypeContentModeration  NotificationType = "content-moderation"
)

// NotificationData is the structured payload attached to a notification.
// All fields are optional; delivery must cope with any of them missing.
type NotificationData struct {
	DiscussionID   *int64 `json:"discussionId,omitempty"`
	CommentID      *int64 `json:"commentId,omitempty"`
	Content        string `json:"content,omitempty"`
	ContentPreview string `json:"contentPreview,omitempty"`
	URL            string `json:"url,omitempty"`
}

// Notification is the durable record of one event directed at one recipient.
// It is created exactly once by the triggering domain action and afterwards
// only mutated by read-state toggles and deletion.
type Notification struct {
	ID          int64            `gorm:"primaryKey" json:"id"`
	Type        NotificationType `gorm:"size:64;not null" json:"type"`
	EntityType  string           `gorm:"size:64;not null" json:"entityType"`
	EntityID    int64            `gorm:"not null" json:"entityId"`
	RecipientID int64            `gorm:"index;not null" json:"recipientId"`
	ActorID     *int64           `json:"actorId,omitempty"` // nil for system-generated notifications
	Data        NotificationData `gorm:"serializer:json" json:"data"`
	IsRead      bool             `gorm:"not null;default:false;index" json:"isRead"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"-"`
}
