package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrizkyrn/open-forum-sub001/internal/model"
	"github.com/mrizkyrn/open-forum-sub001/internal/store"
)

func seedNotifications(t *testing.T, s store.Store, recipientID int64, count int) []int64 {
	t.Helper()
	ids := make([]int64, count)
	for i := 0; i < count; i++ {
		n := &model.Notification{
			Type:        model.TypeNewComment,
			EntityType:  "discussion",
			EntityID:    int64(i + 1),
			RecipientID: recipientID,
		}
		require.NoError(t, s.CreateNotification(context.Background(), n))
		ids[i] = n.ID
	}
	return ids
}

func TestListNotifications(t *testing.T) {
	router, s := newTestRouter(t)
	seedNotifications(t, s, 1, 3)
	seedNotifications(t, s, 2, 1)

	w := doJSON(router, http.MethodGet, "/api/notifications", authHeader(t, 1), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Notifications []model.Notification `json:"notifications"`
		Total         int64                `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(3), resp.Total)
	assert.Len(t, resp.Notifications, 3)

	w = doJSON(router, http.MethodGet, "/api/notifications?status=bogus", authHeader(t, 1), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMarkAsReadAndUnreadCount(t *testing.T) {
	router, s := newTestRouter(t)
	ids := seedNotifications(t, s, 1, 3)

	auth := authHeader(t, 1)

	w := doJSON(router, http.MethodGet, "/api/notifications/unread-count", auth, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"count":3}`, w.Body.String())

	w = doJSON(router, http.MethodPost, "/api/notifications/mark-as-read", auth, map[string]any{"ids": ids[:2]})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"updated":2}`, w.Body.String())

	w = doJSON(router, http.MethodPost, "/api/notifications/mark-all-as-read", auth, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"updated":1}`, w.Body.String())

	w = doJSON(router, http.MethodGet, "/api/notifications/unread-count", auth, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"count":0}`, w.Body.String())
}

func TestDeleteNotificationEndpoints(t *testing.T) {
	router, s := newTestRouter(t)
	ids := seedNotifications(t, s, 1, 2)

	auth := authHeader(t, 1)

	w := doJSON(router, http.MethodDelete, fmt.Sprintf("/api/notifications/%d", ids[0]), auth, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	// Already gone.
	w = doJSON(router, http.MethodDelete, fmt.Sprintf("/api/notifications/%d", ids[0]), auth, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Another user's notification looks like it does not exist.
	w = doJSON(router, http.MethodDelete, fmt.Sprintf("/api/notifications/%d", ids[1]), authHeader(t, 9), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(router, http.MethodDelete, "/api/notifications", auth, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(router, http.MethodGet, "/api/notifications/unread-count", auth, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"count":0}`, w.Body.String())
}
