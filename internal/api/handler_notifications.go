package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mrizkyrn/open-forum-sub001/internal/mw"
	"github.com/mrizkyrn/open-forum-sub001/internal/store"
)

// ListNotifications returns a page of the user's notifications, newest
// first, optionally filtered by read state.
func (h *Handler) ListNotifications(c *gin.Context) {
	userID := mw.UserID(c)

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	status := store.ReadStatus(c.DefaultQuery("status", "all"))
	switch status {
	case store.StatusAll, store.StatusRead, store.StatusUnread:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "status must be all, read or unread"})
		return
	}

	items, total, err := h.store.ListNotifications(c.Request.Context(), userID, store.ListOptions{
		Page:   page,
		Limit:  limit,
		Status: status,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"notifications": items,
		"total":         total,
		"page":          page,
		"limit":         limit,
	})
}

// UnreadCount returns the number of unread notifications.
func (h *Handler) UnreadCount(c *gin.Context) {
	count, err := h.store.UnreadCount(c.Request.Context(), mw.UserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

type markAsReadRequest struct {
	IDs []int64 `json:"ids" binding:"required"`
}

// MarkAsRead marks the given notifications as read.
func (h *Handler) MarkAsRead(c *gin.Context) {
	var req markAsReadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.store.MarkAsRead(c.Request.Context(), mw.UserID(c), req.IDs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": updated})
}

// MarkAllAsRead marks every unread notification of the user as read.
func (h *Handler) MarkAllAsRead(c *gin.Context) {
	updated, err := h.store.MarkAllAsRead(c.Request.Context(), mw.UserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": updated})
}

// DeleteNotification removes one notification owned by the user.
func (h *Handler) DeleteNotification(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid notification id"})
		return
	}

	if err := h.store.DeleteNotification(c.Request.Context(), mw.UserID(c), id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "notification not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// DeleteAllNotifications removes every notification owned by the user.
func (h *Handler) DeleteAllNotifications(c *gin.Context) {
	if err := h.store.DeleteAllNotifications(c.Request.Context(), mw.UserID(c)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}
