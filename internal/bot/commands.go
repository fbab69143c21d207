package bot

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"repairbot/internal/catalog"
	"repairbot/internal/events"
	"repairbot/internal/jobs"
	"repairbot/platform/apperr"
)

const (
	jobNotFoundReply    = "❌ Job not found."
	notYourJobReply     = "❌ Job not found or not assigned to you."
	unknownModelReply   = "❌ Unknown model. Try: "
	noActiveIntakeReply = "No active intake to cancel."
	intakeCanceledReply = "❌ Intake canceled. Send a photo to start a new job intake."
)

// command pairs a grammar with its action. The table is matched in order;
// first match wins.
type command struct {
	name string
	re   *regexp.Regexp
	run  func(d *Dispatcher, ctx context.Context, sender string, m []string) (string, error)
}

var commandTable = []command{
	{"tz", regexp.MustCompile(`^/tz\s+([A-Za-z_]+/[A-Za-z_]+)$`), (*Dispatcher).cmdTZ},
	{"assign", regexp.MustCompile(`(?i)^/assign\s+(\d+)\s+(.+)$`), (*Dispatcher).cmdAssign},
	{"total", regexp.MustCompile(`(?i)^/total\s+(\d+)$`), (*Dispatcher).cmdTotal},
	{"price", regexp.MustCompile(`(?i)^/price\s+(.+)$`), (*Dispatcher).cmdPrice},
	{"setprice", regexp.MustCompile(`(?i)^/setprice\s+(.+?)\s+(\d+(\.\d+)?)\s*(\+(\d+(\.\d+)?))?$`), (*Dispatcher).cmdSetPrice},
	{"dispatch", regexp.MustCompile(`(?i)^/dispatch\s+(\d+)\s*(.*)$`), (*Dispatcher).cmdDispatch},
	{"accept", regexp.MustCompile(`(?i)^/accept\s+(\d+)$`), (*Dispatcher).cmdAccept},
	{"done", regexp.MustCompile(`(?i)^/done\s+(\d+)$`), (*Dispatcher).cmdDone},
	{"issue", regexp.MustCompile(`(?i)^/issue\s+(\d+)\s*(.*)$`), (*Dispatcher).cmdIssue},
	{"status", regexp.MustCompile(`(?i)^/status\s+(\d+)$`), (*Dispatcher).cmdStatus},
	{"cancel", regexp.MustCompile(`(?i)^/cancel$`), (*Dispatcher).cmdCancel},
}

// /tz <Area/City>
func (d *Dispatcher) cmdTZ(ctx context.Context, sender string, m []string) (string, error) {
	tz := m[1]
	if err := d.prefs.SetTZ(ctx, sender, tz); err != nil {
		if apperr.Is(err, apperr.KindValidation) {
			return "❌ Invalid timezone. Example: /tz Asia/Dubai or /tz America/New_York", nil
		}
		return "", err
	}
	return fmt.Sprintf("✅ Timezone set to *%s*. Current local time: %s", tz, d.prefs.NowFor(ctx, sender)), nil
}

// /assign <job_id> <techname>
func (d *Dispatcher) cmdAssign(ctx context.Context, sender string, m []string) (string, error) {
	jobID, _ := strconv.ParseInt(m[1], 10, 64)
	techName := strings.TrimSpace(m[2])

	// Reject before provisioning: an unassignable job must not leave a
	// freshly registered technician behind.
	if err := d.jobs.CheckAssignable(ctx, jobID); err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return jobNotFoundReply, nil
		}
		if apperr.Is(err, apperr.KindValidation) {
			return "❌ " + err.Error(), nil
		}
		return "", err
	}

	tech, err := d.techs.FindByName(ctx, techName)
	provisioned := false
	if err != nil {
		if !apperr.Is(err, apperr.KindNotFound) {
			return "", err
		}
		tech, err = d.techs.Provision(ctx, techName)
		if err != nil {
			return "", err
		}
		provisioned = true
	}

	job, err := d.jobs.Assign(ctx, jobID, tech.ID)
	if err != nil {
		if apperr.Is(err, apperr.KindValidation) {
			return "❌ " + err.Error(), nil
		}
		return "", err
	}

	// Placeholder handles have nowhere to deliver a notification.
	if !tech.IsPlaceholder() {
		d.publish(ctx, events.JobAssigned{
			BaseEvent:  events.NewBaseEvent(),
			JobID:      job.ID,
			TechName:   tech.Name,
			TechHandle: tech.Handle,
			Model:      job.Model,
			Qty:        job.Qty,
			Notes:      job.Notes,
		})
		return fmt.Sprintf("✅ Assigned job #%d to *%s* and notified them.", job.ID, tech.Name), nil
	}

	if provisioned {
		return fmt.Sprintf(
			"⚠️ New technician *%s* auto-registered. They will be notified once they message this number.\n\n✅ Assigned job #%d to *%s*.",
			tech.Name, job.ID, tech.Name,
		), nil
	}
	return fmt.Sprintf("✅ Assigned job #%d to *%s*.", job.ID, tech.Name), nil
}

// /total <job_id>
func (d *Dispatcher) cmdTotal(ctx context.Context, sender string, m []string) (string, error) {
	jobID, _ := strconv.ParseInt(m[1], 10, 64)

	job, err := d.jobs.Get(ctx, jobID)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return jobNotFoundReply, nil
		}
		return "", err
	}

	totals, err := catalog.LookupTotal(ctx, d.prices, job.Model, job.Qty, job.IncludeAccessory, d.laborRate)
	if err != nil {
		return "", err
	}

	unitLine := fmt.Sprintf("Unit (incl. cable if any): $%.2f", totals.UnitWithAdder)
	if !totals.Priced {
		unitLine += " (no price set yet)"
	}

	return fmt.Sprintf(
		"🧮 Total for job #%d\nModel: %s | Qty: %d\n%s\nLabor ($%.0f × %d): $%.2f\n—\nGrand Total: *$%.2f*",
		job.ID, job.Model, job.Qty, unitLine, d.laborRate, job.Qty, totals.Labor, totals.Grand,
	), nil
}

// /price <model>
func (d *Dispatcher) cmdPrice(ctx context.Context, sender string, m []string) (string, error) {
	model, ok := catalog.Normalize(m[1])
	if !ok {
		return unknownModelReply + catalog.AliasHint(), nil
	}

	price, err := d.prices.GetPrice(ctx, model)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return "No price set yet for that model.", nil
		}
		return "", err
	}

	return fmt.Sprintf("📘 Price for *%s*: $%.2f (+$%.2f with cable)", model, price.UnitPrice, price.AccessoryAdder), nil
}

// /setprice <model> <price> +<cable_adder>
func (d *Dispatcher) cmdSetPrice(ctx context.Context, sender string, m []string) (string, error) {
	model, ok := catalog.Normalize(m[1])
	if !ok {
		return "❌ Unknown model alias.", nil
	}

	unit, _ := strconv.ParseFloat(m[2], 64)
	var adder float64
	if m[5] != "" {
		adder, _ = strconv.ParseFloat(m[5], 64)
	}

	if _, err := d.prices.SetPrice(ctx, model, unit, adder); err != nil {
		return "", err
	}

	return fmt.Sprintf("✅ Set *%s* = $%.2f (+$%.2f with cable).", model, unit, adder), nil
}

// /dispatch <job_id> [pickup note]. Courier integration is stubbed: the
// command only acknowledges, no external call is performed.
func (d *Dispatcher) cmdDispatch(ctx context.Context, sender string, m []string) (string, error) {
	jobID, _ := strconv.ParseInt(m[1], 10, 64)
	note := strings.TrimSpace(m[2])
	if note == "" {
		note = "-"
	}

	job, err := d.jobs.Get(ctx, jobID)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return jobNotFoundReply, nil
		}
		return "", err
	}

	return fmt.Sprintf("🚚 Dispatch requested for job #%d. Note: %s\n(Courier API not connected yet.)", job.ID, note), nil
}

// /accept <job_id>
func (d *Dispatcher) cmdAccept(ctx context.Context, sender string, m []string) (string, error) {
	jobID, _ := strconv.ParseInt(m[1], 10, 64)

	job, err := d.jobs.TechSetStatus(ctx, jobID, sender, jobs.StatusInProgress)
	if reply, handled := techCommandRejection(err); handled {
		return reply, nil
	}
	if err != nil {
		return "", err
	}

	d.publish(ctx, events.JobAccepted{
		BaseEvent:      events.NewBaseEvent(),
		JobID:          job.ID,
		CustomerHandle: job.CustomerHandle,
	})
	return fmt.Sprintf("✅ Accepted job #%d. Start working!", job.ID), nil
}

// /done <job_id>
func (d *Dispatcher) cmdDone(ctx context.Context, sender string, m []string) (string, error) {
	jobID, _ := strconv.ParseInt(m[1], 10, 64)

	job, err := d.jobs.TechSetStatus(ctx, jobID, sender, jobs.StatusDone)
	if reply, handled := techCommandRejection(err); handled {
		return reply, nil
	}
	if err != nil {
		return "", err
	}

	d.publish(ctx, events.JobCompleted{
		BaseEvent:      events.NewBaseEvent(),
		JobID:          job.ID,
		CustomerHandle: job.CustomerHandle,
	})
	return fmt.Sprintf("✅ Marked job #%d as done.", job.ID), nil
}

// /issue <job_id> <note>
func (d *Dispatcher) cmdIssue(ctx context.Context, sender string, m []string) (string, error) {
	jobID, _ := strconv.ParseInt(m[1], 10, 64)
	note := strings.TrimSpace(m[2])
	if note == "" {
		note = "No details provided."
	}

	job, err := d.jobs.ReportIssue(ctx, jobID, sender, note)
	if reply, handled := techCommandRejection(err); handled {
		return reply, nil
	}
	if err != nil {
		return "", err
	}

	d.publish(ctx, events.JobIssueReported{
		BaseEvent:      events.NewBaseEvent(),
		JobID:          job.ID,
		CustomerHandle: job.CustomerHandle,
		Note:           note,
	})
	return fmt.Sprintf("✅ Reported issue for job #%d.", job.ID), nil
}

// /status <job_id>
func (d *Dispatcher) cmdStatus(ctx context.Context, sender string, m []string) (string, error) {
	jobID, _ := strconv.ParseInt(m[1], 10, 64)

	job, err := d.jobs.TechView(ctx, jobID, sender)
	if reply, handled := techCommandRejection(err); handled {
		return reply, nil
	}
	if err != nil {
		return "", err
	}

	notes := job.Notes
	if notes == "" {
		notes = "None"
	}

	return fmt.Sprintf(
		"📋 Job #%d Status\nModel: %s\nQty: %d\nStatus: %s\nCustomer: %s\nNotes: %s",
		job.ID, job.Model, job.Qty, strings.ToUpper(string(job.Status)), job.CustomerHandle, notes,
	), nil
}

// /cancel
func (d *Dispatcher) cmdCancel(ctx context.Context, sender string, m []string) (string, error) {
	if _, err := d.jobs.CancelDraft(ctx, sender); err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return noActiveIntakeReply, nil
		}
		return "", err
	}
	return intakeCanceledReply, nil
}

// techCommandRejection maps failures of technician-only commands to their
// user-facing replies. NotFound and Unauthorized share one wording so the
// reply does not leak which case applied; invalid transitions are spelled
// out.
func techCommandRejection(err error) (string, bool) {
	switch apperr.GetKind(err) {
	case apperr.KindNotFound, apperr.KindUnauthorized:
		return notYourJobReply, true
	case apperr.KindValidation:
		return "❌ " + err.Error(), true
	default:
		return "", false
	}
}
