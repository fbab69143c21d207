// Package jobs provides the repair job record store and lifecycle state
// machine. A job starts as a draft under step-by-step intake, opens once
// intake completes, and is then driven forward by the assigned technician.
package jobs

import "time"

// Status is the lifecycle state of a job.
type Status string

const (
	StatusDraft      Status = "draft"
	StatusOpen       Status = "open"
	StatusAssigned   Status = "assigned"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
	StatusIssue      Status = "issue"
	StatusCanceled   Status = "canceled"
)

// Intake steps. Step 0 means no active intake; a step > 0 implies the job
// is still a draft.
const (
	StepNone      = 0
	StepModel     = 1
	StepQty       = 2
	StepAccessory = 3
	StepNotes     = 4
)

// allowedTransitions is the directed set of legal status moves. Commands
// that would move a job backwards (e.g. accepting a job already marked
// done) are rejected instead of silently regressing the status.
var allowedTransitions = map[Status][]Status{
	StatusDraft:      {StatusOpen, StatusCanceled},
	StatusOpen:       {StatusAssigned},
	StatusAssigned:   {StatusInProgress, StatusDone, StatusIssue},
	StatusInProgress: {StatusDone, StatusIssue},
}

// CanTransition reports whether moving from one status to another is legal.
func CanTransition(from, to Status) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// CanAssign reports whether a job in the given status may receive an
// assignment. Open jobs take a first assignment; assigned jobs may be
// re-assigned.
func CanAssign(s Status) bool {
	return s == StatusOpen || s == StatusAssigned
}

// IsTerminal reports whether a status permits no further transitions.
func IsTerminal(s Status) bool {
	return len(allowedTransitions[s]) == 0
}

// AssignedTech is the technician reference carried on a job.
type AssignedTech struct {
	ID     int64
	Name   string
	Handle string
}

// Job is the central aggregate. Model is empty until intake step 1
// completes; Notes stays empty when the customer answers "none".
type Job struct {
	ID               int64
	CreatedAt        time.Time
	CustomerHandle   string
	Model            string
	Qty              int
	IncludeAccessory bool
	Notes            string
	PhotoURL         string
	BlobKey          string
	Status           Status
	IntakeStep       int
	AssignedTo       *AssignedTech
}
