// Package events defines the lead lifecycle events and the subscribers that
// turn them into metrics. The bus itself lives in platform/events.
package events

import (
	"context"

	"crm_backend/platform/events"
	"crm_backend/platform/logger"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
	InMemoryBus = events.InMemoryBus
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// NewInMemoryBus creates a new in-memory event bus.
func NewInMemoryBus(log *logger.Logger) *InMemoryBus {
	return events.NewInMemoryBus(log)
}

// On subscribes fn to one lead event type.
func On[E Event](bus Bus, fn func(ctx context.Context, event E) error) {
	events.On(bus, fn)
}

// Conversion targets carried by lead events.
const (
	TargetContact = "contact"
	TargetAccount = "account"
)

// =============================================================================
// Leads Domain Events
// =============================================================================

// LeadConvertedToContact is published after a lead's contact conversion has
// been recorded on the lead.
type LeadConvertedToContact struct {
	BaseEvent
	LeadID    string  `json:"leadId"`
	ContactID string  `json:"contactId"`
	AccountID *string `json:"accountId,omitempty"`
}

func (e LeadConvertedToContact) EventName() string { return "leads.lead.converted_to_contact" }

// LeadConvertedToAccount is published after a lead's account conversion has
// been recorded on the lead.
type LeadConvertedToAccount struct {
	BaseEvent
	LeadID         string `json:"leadId"`
	AccountID      string `json:"accountId"`
	LinkedContacts int    `json:"linkedContacts"`
}

func (e LeadConvertedToAccount) EventName() string { return "leads.lead.converted_to_account" }

// LeadSynced is published when a lead's current values were re-applied onto
// an existing or newly created contact/account.
type LeadSynced struct {
	BaseEvent
	LeadID   string `json:"leadId"`
	Target   string `json:"target"`
	TargetID string `json:"targetId"`
	Created  bool   `json:"created"`
}

func (e LeadSynced) EventName() string { return "leads.lead.synced" }

// ConsistencyFailed is published when the follow-up counter or link update
// failed after the primary record had been written.
type ConsistencyFailed struct {
	BaseEvent
	Step      string `json:"step"`
	LeadID    string `json:"leadId"`
	AccountID string `json:"accountId"`
	Reason    string `json:"reason"`
}

func (e ConsistencyFailed) EventName() string { return "leads.consistency.failed" }

// LeadsDeduplicated is published after a deduplication run.
type LeadsDeduplicated struct {
	BaseEvent
	Criteria        []string `json:"criteria"`
	DuplicatesFound int      `json:"duplicatesFound"`
	UniqueLeads     int      `json:"uniqueLeadsCount"`
}

func (e LeadsDeduplicated) EventName() string { return "leads.deduplicated" }
