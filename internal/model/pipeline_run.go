package model

import "time"

type RunStatus string

const (
	RunStatusProcessed RunStatus = "processed"
	RunStatusDuplicate RunStatus = "duplicate"
	RunStatusFiltered  RunStatus = "filtered"
	RunStatusAborted   RunStatus = "aborted"
)

// PipelineRun summarises one pass of an inbound event through the support pipeline.
type PipelineRun struct {
	ID                int64              `json:"id"`
	EventID           string             `json:"event_id"`
	Status            RunStatus          `json:"status"`
	Reason            string             `json:"reason,omitempty"`
	Assignee          Resolution[string] `json:"-"`
	Ticket            Resolution[string] `json:"-"`
	EscalationOffered bool               `json:"escalation_offered"`
	StartedAt         time.Time          `json:"started_at"`
	FinishedAt        time.Time          `json:"finished_at"`
}
