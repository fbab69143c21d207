// Package twilio provides the Twilio WhatsApp channel adapters: outbound
// message sends, inbound request signature validation, and authenticated
// media fetches.
package twilio

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"repairbot/platform/config"
	"repairbot/platform/logger"
	"repairbot/platform/phone"
)

const messagesURLFormat = "https://api.twilio.com/2010-04-01/Accounts/%s/Messages.json"

// Client sends WhatsApp messages through the Twilio Messages API.
type Client struct {
	accountSID string
	authToken  string
	from       string
	http       *http.Client
	log        *logger.Logger
}

// NewClient creates a Twilio client. Returns nil when Twilio credentials are
// not configured; a nil client is a no-op sender.
func NewClient(cfg config.TwilioConfig, log *logger.Logger) *Client {
	if !cfg.IsTwilioEnabled() {
		return nil
	}

	return &Client{
		accountSID: cfg.GetTwilioAccountSID(),
		authToken:  cfg.GetTwilioAuthToken(),
		from:       cfg.GetTwilioWhatsAppFrom(),
		http:       &http.Client{Timeout: 10 * time.Second},
		log:        log,
	}
}

// Send delivers a WhatsApp message. mediaURL is optional. Sends are
// best-effort; the caller decides whether a failure matters.
func (c *Client) Send(ctx context.Context, to, body, mediaURL string) error {
	if c == nil {
		return nil
	}

	form := url.Values{}
	form.Set("From", c.from)
	form.Set("To", normalizeWhatsAppHandle(to))
	form.Set("Body", body)
	if mediaURL != "" {
		form.Set("MediaUrl", mediaURL)
	}

	endpoint := fmt.Sprintf(messagesURLFormat, c.accountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(c.accountSID, c.authToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("twilio request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("twilio returned %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	c.log.Info("whatsapp message sent", "to", to)
	return nil
}

// normalizeWhatsAppHandle keeps the whatsapp: channel prefix while
// normalizing the number part to E.164.
func normalizeWhatsAppHandle(handle string) string {
	const prefix = "whatsapp:"
	if !strings.HasPrefix(handle, prefix) {
		return prefix + phone.NormalizeE164(handle)
	}
	return prefix + phone.NormalizeE164(strings.TrimPrefix(handle, prefix))
}
