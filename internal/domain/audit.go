package domain

import (
	"context"
	"encoding/json"
	"time"
)

// AuditLog is one row of the change log. Every account or journal change
// records who made it and the resource state on both sides of the change.
type AuditLog struct {
	ID           string
	UserID       string
	Action       string
	ResourceType string
	ResourceID   string
	RequestID    string
	BeforeState  JSON
	AfterState   JSON
	Status       string
	ErrorMessage string
	CreatedAt    time.Time
}

// JSON is a state snapshot stored as a JSONB document.
type JSON map[string]any

type AuditAction string

const (
	AuditActionAccountCreate     AuditAction = "account.create"
	AuditActionAccountUpdate     AuditAction = "account.update"
	AuditActionAccountActivate   AuditAction = "account.activate"
	AuditActionAccountDeactivate AuditAction = "account.deactivate"

	AuditActionJournalSubmit  AuditAction = "journal.submit"
	AuditActionJournalApprove AuditAction = "journal.approve"
	AuditActionJournalReject  AuditAction = "journal.reject"
	AuditActionEntryComment   AuditAction = "journal.comment"
)

const (
	ResourceAccount      = "account"
	ResourceJournalGroup = "journal_group"
	ResourceJournalEntry = "journal_entry"
)

type AuditStatus string

const (
	AuditStatusSuccess AuditStatus = "success"
	AuditStatusFailure AuditStatus = "failure"
)

// MarshalState snapshots v through its JSON form. A value that cannot be
// encoded yields a snapshot holding only an "error" key.
func MarshalState(v any) JSON {
	if v == nil {
		return nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return JSON{"error": err.Error()}
	}

	var state JSON
	if err := json.Unmarshal(data, &state); err != nil {
		// v encodes to a non-object, e.g. a bare string
		return JSON{"value": json.RawMessage(data)}
	}
	return state
}

// AuditFilter narrows a change log query. Zero fields match everything.
type AuditFilter struct {
	UserID       string
	Action       string
	ResourceType string
	ResourceID   string
	StartDate    *time.Time
	EndDate      *time.Time
	Limit        int
	Offset       int
}

type requestIDContextKey struct{}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDContextKey{}, id)
}

// RequestIDFromContext returns the request ID set by WithRequestID, or "".
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDContextKey{}).(string)
	return id
}
