package notification

import (
	"encoding/json"
	"fmt"

	"github.com/mrizkyrn/open-forum-sub001/internal/model"
)

const maxBodyLen = 100

// Title maps a notification's type to a human-readable headline. Unknown
// types degrade to a generic string so that a future type never aborts a
// fan-out batch.
func Title(n *model.Notification) string {
	switch n.Type {
	case model.TypeNewComment:
		return "New comment on your discussion"
	case model.TypeNewReply:
		return "New reply to your comment"
	case model.TypeDiscussionUpvote:
		return "Your discussion got an upvote"
	case model.TypeCommentUpvote:
		return "Your comment got an upvote"
	case model.TypeUserMentioned:
		return "You were mentioned"
	case model.TypeReportStatusUpdate:
		return "Update on your report"
	case model.TypeSpaceFollow:
		return "Someone followed your space"
	case model.TypeContentModeration:
		return "Your content was moderated"
	default:
		return "New notification"
	}
}

// Body prefers the full content, truncated to 100 characters, then the
// preview, then a generic string.
func Body(n *model.Notification) string {
	if n.Data.Content != "" {
		return truncate(n.Data.Content, maxBodyLen)
	}
	if n.Data.ContentPreview != "" {
		return n.Data.ContentPreview
	}
	return "You have a new notification"
}

// DeepLink resolves where the client should navigate when the push is
// clicked: an explicit URL wins, then the discussion (optionally anchored to
// a comment), then the notifications page.
func DeepLink(n *model.Notification) string {
	if n.Data.URL != "" {
		return n.Data.URL
	}
	if n.Data.DiscussionID != nil {
		if n.Data.CommentID != nil {
			return fmt.Sprintf("/discussions/%d?comment=%d", *n.Data.DiscussionID, *n.Data.CommentID)
		}
		return fmt.Sprintf("/discussions/%d", *n.Data.DiscussionID)
	}
	return "/notifications"
}

// pushPayload is the JSON document delivered to the service worker.
type pushPayload struct {
	Title          string `json:"title"`
	Body           string `json:"body"`
	URL            string `json:"url"`
	Type           string `json:"type"`
	NotificationID int64  `json:"notificationId"`
}

// BuildPayload assembles the device payload for a notification. It is total:
// a malformed notification still yields a deliverable payload.
func BuildPayload(n *model.Notification) []byte {
	p := pushPayload{
		Title:          Title(n),
		Body:           Body(n),
		URL:            DeepLink(n),
		Type:           string(n.Type),
		NotificationID: n.ID,
	}
	b, err := json.Marshal(p)
	if err != nil {
		return []byte(`{"title":"New notification","url":"/notifications"}`)
	}
	return b
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "…"
}
