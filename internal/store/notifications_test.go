package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mrizkyrn/open-forum-sub001/internal/model"
)

func seedNotification(t *testing.T, s Store, recipientID int64, typ model.NotificationType, read bool) *model.Notification {
	t.Helper()
	n := &model.Notification{
		Type:        typ,
		EntityType:  "comment",
		EntityID:    42,
		RecipientID: recipientID,
		IsRead:      read,
	}
	require.NoError(t, s.CreateNotification(context.Background(), n))
	return n
}

func TestCreateAndGetNotification(t *testing.T) {
	s := newSQLiteStore(t)
	ctx := context.Background()

	actorID := int64(5)
	discussionID := int64(10)
	n := &model.Notification{
		Type:        model.TypeNewReply,
		EntityType:  "comment",
		EntityID:    42,
		RecipientID: 1,
		ActorID:     &actorID,
		Data: model.NotificationData{
			DiscussionID: &discussionID,
			Content:      "did you consider the other approach?",
		},
	}
	require.NoError(t, s.CreateNotification(ctx, n))
	assert.NotZero(t, n.ID)

	got, err := s.GetNotification(ctx, n.ID)
	require.NoError(t, err)
	assert.Equal(t, model.TypeNewReply, got.Type)
	assert.Equal(t, int64(1), got.RecipientID)
	require.NotNil(t, got.ActorID)
	assert.Equal(t, actorID, *got.ActorID)
	require.NotNil(t, got.Data.DiscussionID)
	assert.Equal(t, discussionID, *got.Data.DiscussionID)
	assert.False(t, got.IsRead)
}

func TestListNotifications_PaginationAndFilter(t *testing.T) {
	s := newSQLiteStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		seedNotification(t, s, 1, model.TypeNewComment, false)
	}
	seedNotification(t, s, 1, model.TypeDiscussionUpvote, true)
	seedNotification(t, s, 2, model.TypeNewComment, false) // other user

	all, total, err := s.ListNotifications(ctx, 1, ListOptions{Status: StatusAll})
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	assert.Len(t, all, 4)

	unread, total, err := s.ListNotifications(ctx, 1, ListOptions{Status: StatusUnread})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, unread, 3)

	read, total, err := s.ListNotifications(ctx, 1, ListOptions{Status: StatusRead})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, read, 1)

	page2, total, err := s.ListNotifications(ctx, 1, ListOptions{Page: 2, Limit: 3, Status: StatusAll})
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	assert.Len(t, page2, 1)
}

func TestMarkAsRead(t *testing.T) {
	s := newSQLiteStore(t)
	ctx := context.Background()

	a := seedNotification(t, s, 1, model.TypeNewComment, false)
	seedNotification(t, s, 1, model.TypeNewReply, false)
	other := seedNotification(t, s, 2, model.TypeNewComment, false)

	updated, err := s.MarkAsRead(ctx, 1, []int64{a.ID, other.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), updated) // other user's row untouched

	count, err := s.UnreadCount(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	updated, err = s.MarkAllAsRead(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), updated)

	count, err = s.UnreadCount(ctx, 1)
	require.NoError(t, err)
	assert.Zero(t, count)

	// The other recipient is unaffected throughout.
	count, err = s.UnreadCount(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestMarkAsRead_EmptyIDs(t *testing.T) {
	s := newSQLiteStore(t)

	updated, err := s.MarkAsRead(context.Background(), 1, nil)
	require.NoError(t, err)
	assert.Zero(t, updated)
}

func TestDeleteNotification(t *testing.T) {
	s := newSQLiteStore(t)
	ctx := context.Background()

	n := seedNotification(t, s, 1, model.TypeNewComment, false)

	// Deleting as another user does not touch the row.
	err := s.DeleteNotification(ctx, 2, n.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	require.NoError(t, s.DeleteNotification(ctx, 1, n.ID))

	err = s.DeleteNotification(ctx, 1, n.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestDeleteAllNotifications(t *testing.T) {
	s := newSQLiteStore(t)
	ctx := context.Background()

	seedNotification(t, s, 1, model.TypeNewComment, false)
	seedNotification(t, s, 1, model.TypeNewReply, true)
	seedNotification(t, s, 2, model.TypeNewComment, false)

	require.NoError(t, s.DeleteAllNotifications(ctx, 1))

	_, total, err := s.ListNotifications(ctx, 1, ListOptions{Status: StatusAll})
	require.NoError(t, err)
	assert.Zero(t, total)

	_, total, err = s.ListNotifications(ctx, 2, ListOptions{Status: StatusAll})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}
