package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrizkyrn/open-forum-sub001/internal/mw"
	"github.com/mrizkyrn/open-forum-sub001/internal/store"
)

// GetVAPIDPublicKey returns the server's push public key, needed by the
// browser to create a subscription.
func (h *Handler) GetVAPIDPublicKey(c *gin.Context) {
	if h.webpush == nil || h.webpush.VAPIDPublicKey == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "vapid keys are not configured"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"publicKey": h.webpush.VAPIDPublicKey})
}

type subscribeRequest struct {
	Subscription struct {
		Endpoint string `json:"endpoint" binding:"required"`
		Keys     struct {
			P256DH string `json:"p256dh" binding:"required"`
			Auth   string `json:"auth" binding:"required"`
		} `json:"keys" binding:"required"`
	} `json:"subscription" binding:"required"`
	UserAgent string `json:"userAgent"`
}

// Subscribe registers or refreshes the calling user's device subscription.
func (h *Handler) Subscribe(c *gin.Context) {
	var req subscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sub, err := h.store.Upsert(c.Request.Context(), mw.UserID(c),
		req.Subscription.Endpoint, req.Subscription.Keys.P256DH, req.Subscription.Keys.Auth, req.UserAgent)
	if err != nil {
		if errors.Is(err, store.ErrMalformedSubscription) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, sub)
}

// Unsubscribe handles explicit unsubscription of a device endpoint.
func (h *Handler) Unsubscribe(c *gin.Context) {
	endpoint := c.Param("endpoint")
	if endpoint == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "endpoint is required"})
		return
	}

	if err := h.store.Remove(c.Request.Context(), mw.UserID(c), endpoint); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

type endpointRequest struct {
	Endpoint string `json:"endpoint" binding:"required"`
}

// DeactivateSubscription pauses delivery to a device, intended for logout.
func (h *Handler) DeactivateSubscription(c *gin.Context) {
	var req endpointRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.store.Deactivate(c.Request.Context(), mw.UserID(c), req.Endpoint); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// ReactivateSubscription resumes delivery to a device, intended for login.
func (h *Handler) ReactivateSubscription(c *gin.Context) {
	var req endpointRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	found, err := h.store.Reactivate(c.Request.Context(), mw.UserID(c), req.Endpoint)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reactivated": found})
}
