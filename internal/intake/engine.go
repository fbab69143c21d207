// Package intake implements the step-by-step conversational state machine
// that turns a photo plus four answers into a fully specified job. No
// session state is held in process: the current step lives on the draft
// record and is re-read on every message.
package intake

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"repairbot/internal/catalog"
	"repairbot/internal/jobs"
	"repairbot/platform/logger"
)

// Relocator moves an inbound photo into blob storage.
type Relocator interface {
	Relocate(ctx context.Context, jobID int64, mediaURL string) (locator, key string, err error)
}

// Engine advances drafts through the intake steps.
type Engine struct {
	jobs      jobs.Store
	prices    catalog.Store
	photos    Relocator
	laborRate float64
	log       *logger.Logger
}

// New creates an intake engine. photos may be nil when blob storage is not
// configured; the provider URL is kept in that case.
func New(jobStore jobs.Store, prices catalog.Store, photos Relocator, laborRate float64, log *logger.Logger) *Engine {
	return &Engine{
		jobs:      jobStore,
		prices:    prices,
		photos:    photos,
		laborRate: laborRate,
		log:       log,
	}
}

// StartDraft creates a draft job from an inbound photo and prompts for the
// model. Blob relocation is attempted synchronously but its failure is
// tolerated: the provider URL stays usable and intake proceeds.
func (e *Engine) StartDraft(ctx context.Context, sender, mediaURL string) (string, error) {
	job, err := e.jobs.Create(ctx, sender, mediaURL)
	if err != nil {
		return "", err
	}

	if e.photos != nil {
		locator, key, err := e.photos.Relocate(ctx, job.ID, mediaURL)
		if err != nil {
			e.log.Warn("photo relocation failed", "job", job.ID, "error", err)
		} else if err := e.jobs.UpdatePhoto(ctx, job.ID, locator, key); err != nil {
			e.log.DatabaseError("update photo", err)
		}
	}

	return fmt.Sprintf(
		"📸 Got your photo. Created draft job #%d.\nStep 1/4: What model? (e.g., 14pro, 14 pro max, 13 pro max)",
		job.ID,
	), nil
}

// Advance consumes one answer for the draft's current step and returns the
// next prompt. Validation failures re-prompt without touching the record.
func (e *Engine) Advance(ctx context.Context, draft jobs.Job, answer string) (string, error) {
	switch draft.IntakeStep {
	case jobs.StepModel:
		model, ok := catalog.Normalize(answer)
		if !ok {
			return "❌ Unknown model. Try: " + catalog.AliasHint(), nil
		}
		draft.Model = model
		draft.IntakeStep = jobs.StepQty
		if err := e.jobs.UpdateDraft(ctx, draft); err != nil {
			return "", err
		}
		return "Step 2/4: How many screens (qty)?", nil

	case jobs.StepQty:
		raw := strings.TrimSpace(answer)
		if !digitsOnly(raw) {
			return "❌ Please enter a number for qty.", nil
		}
		qty, err := strconv.Atoi(raw)
		if err != nil {
			return "❌ Please enter a number for qty.", nil
		}
		draft.Qty = qty
		draft.IntakeStep = jobs.StepAccessory
		if err := e.jobs.UpdateDraft(ctx, draft); err != nil {
			return "", err
		}
		return "Step 3/4: Include cable? (yes/no)", nil

	case jobs.StepAccessory:
		// Anything other than y/yes silently maps to false.
		yn := strings.ToLower(strings.TrimSpace(answer))
		draft.IncludeAccessory = yn == "y" || yn == "yes"
		draft.IntakeStep = jobs.StepNotes
		if err := e.jobs.UpdateDraft(ctx, draft); err != nil {
			return "", err
		}
		return "Step 4/4: Any notes? (or reply 'none')", nil

	case jobs.StepNotes:
		notes := strings.TrimSpace(answer)
		if strings.EqualFold(notes, "none") {
			notes = ""
		}
		draft.Notes = notes
		draft.Status = jobs.StatusOpen
		draft.IntakeStep = jobs.StepNone
		if err := e.jobs.UpdateDraft(ctx, draft); err != nil {
			return "", err
		}
		return e.openedReply(ctx, draft)

	default:
		return "", fmt.Errorf("draft #%d has no active intake step", draft.ID)
	}
}

// digitsOnly reports whether s is a non-empty run of ASCII digits. Signed
// forms such as "+2" or "-2" are rejected.
func digitsOnly(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func (e *Engine) openedReply(ctx context.Context, job jobs.Job) (string, error) {
	totals, err := catalog.LookupTotal(ctx, e.prices, job.Model, job.Qty, job.IncludeAccessory, e.laborRate)
	if err != nil {
		return "", err
	}

	cable := "no"
	if job.IncludeAccessory {
		cable = "yes"
	}

	unitLine := fmt.Sprintf("Unit price (w/ cable if any): $%.2f", totals.UnitWithAdder)
	if !totals.Priced {
		unitLine += " (no price set yet)"
	}

	return fmt.Sprintf(
		"✅ Job #%d opened.\nModel: %s | Qty: %d | Cable: %s\n%s\nLabor ($%.0f × %d): $%.2f\nGrand Total: *$%.2f*\n\nAssign with: /assign %d <techname>\nGet total anytime: /total %d",
		job.ID, job.Model, job.Qty, cable, unitLine,
		e.laborRate, job.Qty, totals.Labor, totals.Grand, job.ID, job.ID,
	), nil
}
