package api

import (
	"github.com/SherClockHolmes/webpush-go"

	"github.com/mrizkyrn/open-forum-sub001/internal/live"
	"github.com/mrizkyrn/open-forum-sub001/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store   store.Store
	webpush *webpush.Options
	hub     *live.Hub
}

// NewHandler creates a new API handler.
func NewHandler(s store.Store, webpushOptions *webpush.Options, hub *live.Hub) *Handler {
	return &Handler{
		store:   s,
		webpush: webpushOptions,
		hub:     hub,
	}
}
