package webhook

import (
	"context"
	"encoding/xml"
	"net/http"
	"strconv"

	"repairbot/internal/bot"
	"repairbot/platform/logger"
	"repairbot/platform/validator"

	"github.com/gin-gonic/gin"
)

// inboundForm is the Twilio webhook payload subset this bot consumes.
type inboundForm struct {
	From       string `form:"From" validate:"required"`
	Body       string `form:"Body"`
	NumMedia   string `form:"NumMedia"`
	MediaURL0  string `form:"MediaUrl0"`
	MessageSid string `form:"MessageSid"`
}

// twiml is the provider response markup carrying exactly one reply message.
type twiml struct {
	XMLName xml.Name `xml:"Response"`
	Message string   `xml:"Message"`
}

const slowDownReply = "⏳ Too many messages at once. Wait a moment and resend."

// RateLimited answers an over-limit sender with a normal 200 TwiML reply.
// The signature has already been validated at this point, so the message is
// genuine and the channel should not go silent on it.
func RateLimited(c *gin.Context) {
	c.XML(http.StatusOK, twiml{Message: slowDownReply})
}

// Handler handles inbound WhatsApp webhook requests.
type Handler struct {
	bot *bot.Dispatcher
	val *validator.Validator
}

// NewHandler creates a new webhook handler.
func NewHandler(dispatcher *bot.Dispatcher, val *validator.Validator) *Handler {
	return &Handler{bot: dispatcher, val: val}
}

// HandleIncoming processes one inbound message.
// POST /webhook/whatsapp
// Signature validation has already run in middleware; from here the request
// always completes with HTTP 200 and a single TwiML reply.
func (h *Handler) HandleIncoming(c *gin.Context) {
	var form inboundForm
	if err := c.ShouldBind(&form); err != nil {
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}
	if err := h.val.Struct(form); err != nil {
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}

	numMedia, _ := strconv.Atoi(form.NumMedia)

	// Tag the context so downstream logs carry the message SID and sender.
	ctx := context.WithValue(c.Request.Context(), logger.SenderKey, form.From)
	if form.MessageSid != "" {
		ctx = context.WithValue(ctx, logger.RequestIDKey, form.MessageSid)
	}

	reply := h.bot.HandleMessage(ctx, bot.InboundMessage{
		Sender:   form.From,
		Body:     form.Body,
		NumMedia: numMedia,
		MediaURL: form.MediaURL0,
	})

	c.XML(http.StatusOK, twiml{Message: reply})
}
