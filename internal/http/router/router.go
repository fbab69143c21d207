// Package router assembles the HTTP engine.
package router

import (
	"net/http"

	"repairbot/internal/webhook"
	"repairbot/platform/httpkit"
	"repairbot/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/time/rate"
)

// Options carries the router dependencies.
type Options struct {
	Log           *logger.Logger
	Pool          *pgxpool.Pool
	Handler       *webhook.Handler
	Signature     gin.HandlerFunc
	RatePerMinute float64
	RateBurst     int
}

// New builds the gin engine with the health endpoint and the webhook route.
func New(opts Options) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(httpkit.RequestLogger(opts.Log))

	engine.GET("/api/health", func(c *gin.Context) {
		if err := opts.Pool.Ping(c.Request.Context()); err != nil {
			httpkit.Error(c, http.StatusServiceUnavailable, "database unreachable")
			return
		}
		httpkit.OK(c, gin.H{"status": "ok"})
	})

	limiter := httpkit.NewKeyRateLimiter(rate.Limit(opts.RatePerMinute/60.0), opts.RateBurst, opts.Log)
	// Rate limit by sender handle: inbound traffic all arrives from
	// Twilio's IPs, so the client IP is useless as a key.
	// The signature middleware runs first, so an over-limit request is a
	// genuine message; it gets a 200 TwiML reply rather than a silent 429.
	bySender := limiter.RateLimit(func(c *gin.Context) string {
		return c.PostForm("From")
	}, webhook.RateLimited)

	engine.POST("/webhook/whatsapp", opts.Signature, bySender, opts.Handler.HandleIncoming)

	return engine
}
