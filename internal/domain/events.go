package domain

import (
	"strings"
	"time"
)

// EventType names an outbox event as "<aggregate>.<verb>".
type EventType string

const (
	EventTypeAccountCreated     EventType = "account.created"
	EventTypeAccountUpdated     EventType = "account.updated"
	EventTypeAccountActivated   EventType = "account.activated"
	EventTypeAccountDeactivated EventType = "account.deactivated"
	EventTypeJournalSubmitted   EventType = "journal.submitted"
	EventTypeJournalApproved    EventType = "journal.approved"
	EventTypeJournalRejected    EventType = "journal.rejected"
)

const (
	AggregateTypeAccount      = "account"
	AggregateTypeJournalGroup = "journal_group"
)

// Aggregate returns the aggregate type the event belongs to, or "" for an
// unknown prefix.
func (t EventType) Aggregate() string {
	prefix, _, _ := strings.Cut(string(t), ".")
	switch prefix {
	case "account":
		return AggregateTypeAccount
	case "journal":
		return AggregateTypeJournalGroup
	}
	return ""
}

// OutboxEvent is a state change waiting to be relayed to subscribers.
// Delivery is at least once; consumers dedupe on ID.
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     EventType
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}

// NewOutboxEvent builds an unpublished event for the aggregate.
func NewOutboxEvent(id string, t EventType, aggregateID string, payload map[string]any, at time.Time) *OutboxEvent {
	if payload == nil {
		payload = map[string]any{}
	}
	return &OutboxEvent{
		ID:            id,
		AggregateID:   aggregateID,
		AggregateType: t.Aggregate(),
		EventType:     t,
		Payload:       payload,
		CreatedAt:     at,
	}
}
