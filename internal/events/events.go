// Package events provides domain event definitions for decoupled
// communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"repairbot/platform/events"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// JobAssigned is published when a job is assigned to a technician with a
// real contact handle. Placeholder technicians are provisioned silently and
// never produce this event.
type JobAssigned struct {
	BaseEvent
	JobID      int64  `json:"jobId"`
	TechName   string `json:"techName"`
	TechHandle string `json:"techHandle"`
	Model      string `json:"model"`
	Qty        int    `json:"qty"`
	Notes      string `json:"notes"`
}

func (e JobAssigned) EventName() string { return "jobs.assigned" }

// JobAccepted is published when the assigned technician accepts a job.
type JobAccepted struct {
	BaseEvent
	JobID          int64  `json:"jobId"`
	CustomerHandle string `json:"customerHandle"`
}

func (e JobAccepted) EventName() string { return "jobs.accepted" }

// JobCompleted is published when the assigned technician marks a job done.
type JobCompleted struct {
	BaseEvent
	JobID          int64  `json:"jobId"`
	CustomerHandle string `json:"customerHandle"`
}

func (e JobCompleted) EventName() string { return "jobs.completed" }

// JobIssueReported is published when the assigned technician reports an
// issue on a job.
type JobIssueReported struct {
	BaseEvent
	JobID          int64  `json:"jobId"`
	CustomerHandle string `json:"customerHandle"`
	Note           string `json:"note"`
}

func (e JobIssueReported) EventName() string { return "jobs.issue_reported" }
