// Package notify is the notification fan-out module. It subscribes to job
// lifecycle events and sends side-channel WhatsApp messages to the affected
// party. Sends are best-effort: failures are logged and never propagate to
// the primary reply.
package notify

import (
	"context"
	"fmt"

	"repairbot/internal/events"
	"repairbot/platform/logger"
)

// Sender delivers an outbound WhatsApp message.
type Sender interface {
	Send(ctx context.Context, to, body, mediaURL string) error
}

// Module routes job lifecycle events to outbound notifications.
type Module struct {
	sender Sender
	log    *logger.Logger
}

// New creates the notification module.
func New(sender Sender, log *logger.Logger) *Module {
	return &Module{sender: sender, log: log}
}

// RegisterHandlers subscribes the module to job lifecycle events.
func (m *Module) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.JobAssigned{}.EventName(), m)
	bus.Subscribe(events.JobAccepted{}.EventName(), m)
	bus.Subscribe(events.JobCompleted{}.EventName(), m)
	bus.Subscribe(events.JobIssueReported{}.EventName(), m)
}

// Handle routes events to the appropriate notification.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.JobAssigned:
		return m.send(ctx, event.EventName(), e.TechHandle, assignmentBody(e))
	case events.JobAccepted:
		return m.send(ctx, event.EventName(), e.CustomerHandle,
			fmt.Sprintf("✅ Tech accepted job #%d.", e.JobID))
	case events.JobCompleted:
		return m.send(ctx, event.EventName(), e.CustomerHandle,
			fmt.Sprintf("🎉 Job #%d completed by tech.", e.JobID))
	case events.JobIssueReported:
		return m.send(ctx, event.EventName(), e.CustomerHandle,
			fmt.Sprintf("⚠️ Issue reported on job #%d: %s", e.JobID, e.Note))
	default:
		return nil
	}
}

func (m *Module) send(ctx context.Context, event, to, body string) error {
	if m.sender == nil || to == "" {
		return nil
	}
	if err := m.sender.Send(ctx, to, body, ""); err != nil {
		m.log.NotifyError(event, to, err)
	}
	// Notification failures never fail the publishing transaction.
	return nil
}

func assignmentBody(e events.JobAssigned) string {
	notes := e.Notes
	if notes == "" {
		notes = "-"
	}
	return fmt.Sprintf(
		"🔔 New assignment #%d\nModel: %s\nQty: %d\nNotes: %s\n\nCommands: /accept %d, /done %d, /issue %d <note>",
		e.JobID, e.Model, e.Qty, notes, e.JobID, e.JobID, e.JobID,
	)
}

// Compile-time check that Module implements events.Handler.
var _ events.Handler = (*Module)(nil)
