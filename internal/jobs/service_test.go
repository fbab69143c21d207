package jobs

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"repairbot/platform/apperr"
)

type fakeJobStore struct {
	jobs        map[int64]Job
	setIssueErr error
}

func newFakeJobStore(seed ...Job) *fakeJobStore {
	s := &fakeJobStore{jobs: make(map[int64]Job)}
	for _, j := range seed {
		s.jobs[j.ID] = j
	}
	return s
}

func (s *fakeJobStore) Create(_ context.Context, customerHandle, photoURL string) (Job, error) {
	j := Job{
		ID:             int64(len(s.jobs) + 1),
		CustomerHandle: customerHandle,
		PhotoURL:       photoURL,
		Status:         StatusDraft,
		IntakeStep:     StepModel,
	}
	s.jobs[j.ID] = j
	return j, nil
}

func (s *fakeJobStore) Get(_ context.Context, id int64) (Job, error) {
	j, ok := s.jobs[id]
	if !ok {
		return Job{}, apperr.NotFound("job not found")
	}
	return j, nil
}

func (s *fakeJobStore) MostRecentDraft(_ context.Context, customerHandle string) (Job, error) {
	var latest Job
	found := false
	for _, j := range s.jobs {
		if j.CustomerHandle == customerHandle && j.Status == StatusDraft && j.ID > latest.ID {
			latest = j
			found = true
		}
	}
	if !found {
		return Job{}, apperr.NotFound("no draft")
	}
	return latest, nil
}

func (s *fakeJobStore) UpdateDraft(_ context.Context, job Job) error {
	if _, ok := s.jobs[job.ID]; !ok {
		return apperr.NotFound("job not found")
	}
	s.jobs[job.ID] = job
	return nil
}

func (s *fakeJobStore) UpdatePhoto(_ context.Context, id int64, photoURL, blobKey string) error {
	j := s.jobs[id]
	j.PhotoURL = photoURL
	j.BlobKey = blobKey
	s.jobs[id] = j
	return nil
}

func (s *fakeJobStore) Assign(_ context.Context, id, techID int64) (Job, error) {
	j, ok := s.jobs[id]
	if !ok {
		return Job{}, apperr.NotFound("job not found")
	}
	j.AssignedTo = &AssignedTech{ID: techID}
	j.Status = StatusAssigned
	s.jobs[id] = j
	return j, nil
}

func (s *fakeJobStore) SetStatus(_ context.Context, id int64, status Status) (Job, error) {
	j, ok := s.jobs[id]
	if !ok {
		return Job{}, apperr.NotFound("job not found")
	}
	j.Status = status
	s.jobs[id] = j
	return j, nil
}

func (s *fakeJobStore) SetIssue(_ context.Context, id int64, note string) (Job, error) {
	if s.setIssueErr != nil {
		return Job{}, s.setIssueErr
	}
	j, ok := s.jobs[id]
	if !ok {
		return Job{}, apperr.NotFound("job not found")
	}
	if j.Notes == "" {
		j.Notes = note
	} else {
		j.Notes = j.Notes + "\n" + note
	}
	j.Status = StatusIssue
	s.jobs[id] = j
	return j, nil
}

const techHandle = "whatsapp:+971500000001"

func assignedJob(id int64, status Status) Job {
	return Job{
		ID:         id,
		Status:     status,
		AssignedTo: &AssignedTech{ID: 1, Name: "Ali", Handle: techHandle},
	}
}

func TestAssignRejectsTerminalJob(t *testing.T) {
	store := newFakeJobStore(Job{ID: 7, Status: StatusDone})
	svc := NewService(store)

	_, err := svc.Assign(context.Background(), 7, 1)
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAssignAllowsReassignment(t *testing.T) {
	store := newFakeJobStore(assignedJob(7, StatusAssigned))
	svc := NewService(store)

	job, err := svc.Assign(context.Background(), 7, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if job.AssignedTo == nil || job.AssignedTo.ID != 2 {
		t.Fatalf("expected job reassigned to tech 2, got %+v", job.AssignedTo)
	}
}

func TestTechSetStatusRejectsWrongSender(t *testing.T) {
	store := newFakeJobStore(assignedJob(7, StatusAssigned))
	svc := NewService(store)

	_, err := svc.TechSetStatus(context.Background(), 7, "whatsapp:+971509999999", StatusInProgress)
	if !apperr.Is(err, apperr.KindUnauthorized) {
		t.Fatalf("expected unauthorized error, got %v", err)
	}
	if store.jobs[7].Status != StatusAssigned {
		t.Fatalf("expected status unchanged, got %s", store.jobs[7].Status)
	}
}

func TestTechSetStatusRejectsAcceptAfterDone(t *testing.T) {
	store := newFakeJobStore(assignedJob(7, StatusDone))
	svc := NewService(store)

	_, err := svc.TechSetStatus(context.Background(), 7, techHandle, StatusInProgress)
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if store.jobs[7].Status != StatusDone {
		t.Fatalf("expected status to stay done, got %s", store.jobs[7].Status)
	}
}

func TestTechSetStatusAppliesForwardMove(t *testing.T) {
	store := newFakeJobStore(assignedJob(7, StatusAssigned))
	svc := NewService(store)

	job, err := svc.TechSetStatus(context.Background(), 7, techHandle, StatusInProgress)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if job.Status != StatusInProgress {
		t.Fatalf("expected in_progress, got %s", job.Status)
	}
}

func TestReportIssueAppendsNoteAndMovesStatus(t *testing.T) {
	store := newFakeJobStore(assignedJob(7, StatusInProgress))
	svc := NewService(store)

	job, err := svc.ReportIssue(context.Background(), 7, techHandle, "screen cracked during repair")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if job.Status != StatusIssue {
		t.Fatalf("expected issue status, got %s", job.Status)
	}
	if !strings.Contains(store.jobs[7].Notes, "Tech issue: screen cracked during repair") {
		t.Fatalf("expected issue note appended, got %q", store.jobs[7].Notes)
	}
}

func TestReportIssueFailedWriteLeavesJobUntouched(t *testing.T) {
	store := newFakeJobStore(assignedJob(7, StatusInProgress))
	store.setIssueErr = fmt.Errorf("write failed")
	svc := NewService(store)

	if _, err := svc.ReportIssue(context.Background(), 7, techHandle, "screen cracked"); err == nil {
		t.Fatal("expected error from failed write")
	}
	if store.jobs[7].Notes != "" {
		t.Fatalf("expected no note after failed write, got %q", store.jobs[7].Notes)
	}
	if store.jobs[7].Status != StatusInProgress {
		t.Fatalf("expected status unchanged, got %s", store.jobs[7].Status)
	}
}

func TestCheckAssignable(t *testing.T) {
	store := newFakeJobStore(
		Job{ID: 1, Status: StatusOpen},
		Job{ID: 2, Status: StatusCanceled},
	)
	svc := NewService(store)

	if err := svc.CheckAssignable(context.Background(), 1); err != nil {
		t.Fatalf("expected open job assignable, got %v", err)
	}
	if err := svc.CheckAssignable(context.Background(), 2); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error for canceled job, got %v", err)
	}
	if err := svc.CheckAssignable(context.Background(), 99); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found error for missing job, got %v", err)
	}
}

func TestCancelDraftRequiresActiveIntake(t *testing.T) {
	store := newFakeJobStore(Job{ID: 3, CustomerHandle: "whatsapp:+971501111111", Status: StatusDraft, IntakeStep: StepNone})
	svc := NewService(store)

	_, err := svc.CancelDraft(context.Background(), "whatsapp:+971501111111")
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestCancelDraftCancelsActiveIntake(t *testing.T) {
	store := newFakeJobStore(Job{ID: 3, CustomerHandle: "whatsapp:+971501111111", Status: StatusDraft, IntakeStep: StepQty})
	svc := NewService(store)

	job, err := svc.CancelDraft(context.Background(), "whatsapp:+971501111111")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if job.Status != StatusCanceled {
		t.Fatalf("expected canceled, got %s", job.Status)
	}
	if job.IntakeStep != StepNone {
		t.Fatalf("expected intake step cleared, got %d", job.IntakeStep)
	}
}
