// Package bot implements the conversation/command dispatcher: one entry
// point that receives one inbound message at a time and derives all
// conversation state from persisted records. Matching runs in priority
// order: command grammar, active draft step, media present, help.
package bot

import (
	"context"
	"fmt"
	"strings"

	"repairbot/internal/catalog"
	"repairbot/internal/events"
	"repairbot/internal/intake"
	"repairbot/internal/jobs"
	"repairbot/internal/prefs"
	"repairbot/internal/technicians"
	"repairbot/platform/apperr"
	"repairbot/platform/logger"
)

const apologyReply = "⚠️ Unexpected error. Try again."

// InboundMessage is one message from the shared WhatsApp channel.
type InboundMessage struct {
	Sender   string
	Body     string
	NumMedia int
	MediaURL string
}

// Dispatcher interprets inbound messages against the shared registries and
// always produces exactly one reply.
type Dispatcher struct {
	jobs      *jobs.Service
	jobStore  jobs.Store
	techs     *technicians.Service
	prefs     *prefs.Service
	prices    catalog.Store
	intake    *intake.Engine
	bus       events.Bus
	laborRate float64
	log       *logger.Logger
}

// New creates a dispatcher.
func New(
	jobService *jobs.Service,
	jobStore jobs.Store,
	techs *technicians.Service,
	prefService *prefs.Service,
	prices catalog.Store,
	intakeEngine *intake.Engine,
	bus events.Bus,
	laborRate float64,
	log *logger.Logger,
) *Dispatcher {
	return &Dispatcher{
		jobs:      jobService,
		jobStore:  jobStore,
		techs:     techs,
		prefs:     prefService,
		prices:    prices,
		intake:    intakeEngine,
		bus:       bus,
		laborRate: laborRate,
		log:       log,
	}
}

// HandleMessage processes one inbound message and returns the reply body.
// It never returns an error: unclassified failures are logged and converted
// into a generic apology so the transport always answers with a well-formed
// reply.
func (d *Dispatcher) HandleMessage(ctx context.Context, msg InboundMessage) (reply string) {
	log := d.log.WithContext(ctx)

	defer func() {
		if r := recover(); r != nil {
			log.Error("handler panic", "sender", msg.Sender, "panic", fmt.Sprint(r))
			reply = apologyReply
		}
	}()

	// Placeholder resolution must happen before any authorization check
	// that keys off the sender handle.
	d.techs.ResolvePlaceholder(ctx, msg.Sender)

	body := strings.TrimSpace(msg.Body)

	// 1) Commands, first match wins.
	for _, cmd := range commandTable {
		m := cmd.re.FindStringSubmatch(body)
		if m == nil {
			continue
		}
		out, err := cmd.run(d, ctx, msg.Sender, m)
		if err != nil {
			log.Error("command failed", "command", cmd.name, "sender", msg.Sender, "error", err)
			return apologyReply
		}
		return out
	}

	// 2) Active draft consumes every non-command message as the answer to
	// its current step.
	draft, err := d.jobStore.MostRecentDraft(ctx, msg.Sender)
	if err != nil && !apperr.Is(err, apperr.KindNotFound) {
		log.DatabaseError("most recent draft", err)
		return apologyReply
	}
	if err == nil && draft.IntakeStep > jobs.StepNone {
		out, err := d.intake.Advance(ctx, draft, body)
		if err != nil {
			log.Error("intake advance failed", "job", draft.ID, "sender", msg.Sender, "error", err)
			return apologyReply
		}
		return out
	}

	// 3) A photo with no draft in progress starts a new intake.
	if msg.NumMedia > 0 && msg.MediaURL != "" {
		out, err := d.intake.StartDraft(ctx, msg.Sender, msg.MediaURL)
		if err != nil {
			log.Error("intake start failed", "sender", msg.Sender, "error", err)
			return apologyReply
		}
		return out
	}

	// 4) Role-aware help.
	if _, err := d.techs.FindByHandle(ctx, msg.Sender); err == nil {
		return techHelp
	}
	return generalHelp
}

// publish fans out a job lifecycle event. Sends are best-effort and run
// synchronously within the request; failures are logged by the bus and
// never reach the primary reply.
func (d *Dispatcher) publish(ctx context.Context, event events.Event) {
	if d.bus == nil {
		return
	}
	_ = d.bus.PublishSync(ctx, event)
}
