package api

import (
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/mrizkyrn/open-forum-sub001/config"
	"github.com/mrizkyrn/open-forum-sub001/internal/live"
	"github.com/mrizkyrn/open-forum-sub001/internal/mw"
	"github.com/mrizkyrn/open-forum-sub001/internal/store"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(cfg *config.Config, s store.Store, webpushOptions *webpush.Options, hub *live.Hub) *gin.Engine {
	r := gin.Default()
	// Unsubscribe carries the URL-encoded endpoint as a path parameter;
	// route on the raw path so its escaped slashes survive.
	r.UseRawPath = true

	handler := NewHandler(s, webpushOptions, hub)

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.Server.RateLimitPerSec), cfg.Server.RateLimitBurst)

	cacheTTL := time.Duration(cfg.Server.CacheTTLSeconds) * time.Second
	cacheStore := cache.New(cacheTTL, 2*cacheTTL)
	caching := mw.Cache(cacheStore, cacheTTL)

	api := r.Group("/api")
	api.Use(rateLimiter)

	// The public key is per-deployment constant and needs no principal.
	api.GET("/push-notifications/public-key", caching, handler.GetVAPIDPublicKey)

	authed := api.Group("")
	authed.Use(mw.Auth(cfg.Auth.JWTSecret))
	{
		authed.POST("/push-notifications/subscribe", handler.Subscribe)
		authed.DELETE("/push-notifications/unsubscribe/:endpoint", handler.Unsubscribe)
		authed.POST("/push-notifications/deactivate", handler.DeactivateSubscription)
		authed.POST("/push-notifications/reactivate", handler.ReactivateSubscription)

		authed.GET("/notifications", handler.ListNotifications)
		authed.GET("/notifications/unread-count", handler.UnreadCount)
		authed.POST("/notifications/mark-as-read", handler.MarkAsRead)
		authed.POST("/notifications/mark-all-as-read", handler.MarkAllAsRead)
		authed.DELETE("/notifications/:id", handler.DeleteNotification)
		authed.DELETE("/notifications", handler.DeleteAllNotifications)

		authed.GET("/ws", handler.ServeWS)
	}

	return r
}
