// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"time"

	"leadcrm_backend/platform/events"
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

// LeadCreated is published when a new lead is ingested.
type LeadCreated struct {
	BaseEvent
	LeadID     int64  `json:"leadId"`
	LeadNo     string `json:"leadNo"`
	CategoryID int16  `json:"categoryId"`
	AdvisorID  *int16 `json:"advisorId,omitempty"`
}

func (e LeadCreated) EventName() string { return "leads.lead.created" }

// LeadStatusChanged is published after a status change has been committed
// together with its log entry. Reporting and aggregation consumers
// subscribe to this instead of writing to lead state.
type LeadStatusChanged struct {
	BaseEvent
	LeadID      int64  `json:"leadId"`
	Dimension   string `json:"dimension"`
	OldStatusID *int16 `json:"oldStatusId,omitempty"`
	NewStatusID *int16 `json:"newStatusId,omitempty"`
	OldSubID    *int16 `json:"oldSubId,omitempty"`
	NewSubID    *int16 `json:"newSubId,omitempty"`
	ActorID     *int16 `json:"actorId,omitempty"`
	LogEntryID  int64  `json:"logEntryId"`
}

func (e LeadStatusChanged) EventName() string { return "leads.lead.status_changed" }

// CallOutcomeRecorded is published after a terminal call outcome has been
// applied, including the counter side effects.
type CallOutcomeRecorded struct {
	BaseEvent
	LeadID       int64  `json:"leadId"`
	Outcome      string `json:"outcome"`
	Reached      bool   `json:"reached"`
	FailedCount  int16  `json:"failedCount"`
	CallRecordID *int64 `json:"callRecordId,omitempty"`
	// CallTime is when the call itself happened, as reported by the
	// call-handling subsystem; OccurredAt() remains the publish time.
	CallTime time.Time `json:"occurredAt"`
}

func (e CallOutcomeRecorded) EventName() string { return "leads.lead.call_outcome_recorded" }

// LeadReassigned is published when a lead moves between advisors or groups.
type LeadReassigned struct {
	BaseEvent
	LeadID         int64  `json:"leadId"`
	AdvisorGroupID *int16 `json:"advisorGroupId,omitempty"`
	AdvisorID      *int16 `json:"advisorId,omitempty"`
}

func (e LeadReassigned) EventName() string { return "leads.lead.reassigned" }
