// Package webhook provides the inbound WhatsApp webhook endpoint.
package webhook

import (
	"net/http"
	"strings"

	"repairbot/internal/twilio"
	"repairbot/platform/logger"

	"github.com/gin-gonic/gin"
)

// SignatureMiddleware validates the X-Twilio-Signature header before any
// processing. Requests that fail validation are rejected with 403 and
// produce no side effects. baseURL overrides the reconstructed scheme/host
// when the service runs behind a proxy.
func SignatureMiddleware(validator *twilio.SignatureValidator, baseURL string, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := c.Request.ParseForm(); err != nil {
			c.AbortWithStatus(http.StatusBadRequest)
			return
		}

		signature := c.GetHeader("X-Twilio-Signature")
		requestURL := requestURL(c, baseURL)

		if signature == "" || !validator.Validate(requestURL, c.Request.PostForm, signature) {
			log.Warn("invalid webhook signature", "client_ip", c.ClientIP())
			c.AbortWithStatus(http.StatusForbidden)
			return
		}

		c.Next()
	}
}

// requestURL rebuilds the URL Twilio signed.
func requestURL(c *gin.Context, baseURL string) string {
	if baseURL != "" {
		return strings.TrimRight(baseURL, "/") + c.Request.URL.RequestURI()
	}

	scheme := "https"
	if c.Request.TLS == nil {
		scheme = "http"
	}
	if forwarded := c.GetHeader("X-Forwarded-Proto"); forwarded != "" {
		scheme = forwarded
	}

	return scheme + "://" + c.Request.Host + c.Request.URL.RequestURI()
}
