package jobs

import (
	"context"
	"fmt"

	"repairbot/platform/apperr"
)

// Service wraps the job store with the lifecycle guards: authorization of
// technician-driven transitions and the directed transition table.
type Service struct {
	store Store
}

// NewService creates a new job ledger service.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Get retrieves a job by id.
func (s *Service) Get(ctx context.Context, id int64) (Job, error) {
	return s.store.Get(ctx, id)
}

// CheckAssignable verifies a job exists and is in a status that accepts an
// assignment. Callers run it before provisioning any side records so a
// rejected command leaves nothing behind.
func (s *Service) CheckAssignable(ctx context.Context, jobID int64) error {
	job, err := s.store.Get(ctx, jobID)
	if err != nil {
		return err
	}
	if !CanAssign(job.Status) {
		return notAssignable(job)
	}
	return nil
}

// Assign binds a technician to a job. Jobs can be assigned while open, or
// re-assigned while already assigned; any other status is rejected.
func (s *Service) Assign(ctx context.Context, jobID, techID int64) (Job, error) {
	job, err := s.store.Get(ctx, jobID)
	if err != nil {
		return Job{}, err
	}

	if !CanAssign(job.Status) {
		return Job{}, notAssignable(job)
	}

	return s.store.Assign(ctx, jobID, techID)
}

func notAssignable(job Job) error {
	return apperr.Validation(fmt.Sprintf("job #%d is %s and cannot be assigned", job.ID, job.Status))
}

// TechSetStatus applies a technician-driven transition. The acting sender
// must be the assigned technician; violations surface with the same kind of
// rejection as a missing job so callers cannot tell which case applied.
// Out-of-order transitions are rejected explicitly.
func (s *Service) TechSetStatus(ctx context.Context, id int64, senderHandle string, to Status) (Job, error) {
	job, err := s.authorize(ctx, id, senderHandle)
	if err != nil {
		return Job{}, err
	}

	if !CanTransition(job.Status, to) {
		return Job{}, apperr.Validation(fmt.Sprintf("job #%d is %s and cannot move to %s", job.ID, job.Status, to))
	}

	return s.store.SetStatus(ctx, id, to)
}

// ReportIssue appends the technician's note and moves the job to issue. The
// note and the status change land in a single store write so a failure
// cannot leave one without the other.
func (s *Service) ReportIssue(ctx context.Context, id int64, senderHandle, note string) (Job, error) {
	job, err := s.authorize(ctx, id, senderHandle)
	if err != nil {
		return Job{}, err
	}

	if !CanTransition(job.Status, StatusIssue) {
		return Job{}, apperr.Validation(fmt.Sprintf("job #%d is %s and cannot move to %s", job.ID, job.Status, StatusIssue))
	}

	return s.store.SetIssue(ctx, id, "Tech issue: "+note)
}

// TechView retrieves a job for its assigned technician (read-only).
func (s *Service) TechView(ctx context.Context, id int64, senderHandle string) (Job, error) {
	return s.authorize(ctx, id, senderHandle)
}

// CancelDraft cancels the customer's most recent draft, but only while an
// intake step is active.
func (s *Service) CancelDraft(ctx context.Context, customerHandle string) (Job, error) {
	draft, err := s.store.MostRecentDraft(ctx, customerHandle)
	if err != nil {
		return Job{}, err
	}
	if draft.IntakeStep == StepNone {
		return Job{}, apperr.NotFound("no active intake to cancel")
	}

	draft.Status = StatusCanceled
	draft.IntakeStep = StepNone
	if err := s.store.UpdateDraft(ctx, draft); err != nil {
		return Job{}, err
	}

	return draft, nil
}

func (s *Service) authorize(ctx context.Context, id int64, senderHandle string) (Job, error) {
	job, err := s.store.Get(ctx, id)
	if err != nil {
		return Job{}, err
	}

	if job.AssignedTo == nil || job.AssignedTo.Handle != senderHandle {
		return Job{}, apperr.Unauthorized("job not assigned to sender")
	}

	return job, nil
}
