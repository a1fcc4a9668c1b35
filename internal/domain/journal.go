package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Side is the debit or credit side of an entry or an account's normal side.
type Side string

const (
	SideDebit  Side = "debit"
	SideCredit Side = "credit"
)

// ParseSide accepts debit/credit and the left/right aliases.
func ParseSide(s string) (Side, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debit", "left", "dr":
		return SideDebit, nil
	case "credit", "right", "cr":
		return SideCredit, nil
	}
	return "", ErrInvalidNormalSide
}

// IsValid reports whether s is debit or credit.
func (s Side) IsValid() bool {
	return s == SideDebit || s == SideCredit
}

// EntryStatus is the review state shared by a group and its entries.
type EntryStatus string

const (
	StatusPending  EntryStatus = "pending"
	StatusApproved EntryStatus = "approved"
	StatusRejected EntryStatus = "rejected"
)

// ParseStatus parses a status filter value. "denied" is accepted for rejected.
func ParseStatus(s string) (EntryStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pending":
		return StatusPending, nil
	case "approved":
		return StatusApproved, nil
	case "rejected", "denied":
		return StatusRejected, nil
	}
	return "", NewValidationError("status", fmt.Sprintf("unknown status %q", s))
}

// Decision is a reviewer's verdict on a pending group.
type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
)

// Status returns the status a group takes after the decision.
func (d Decision) Status() (EntryStatus, error) {
	switch d {
	case DecisionApprove:
		return StatusApproved, nil
	case DecisionReject:
		return StatusRejected, nil
	}
	return "", ErrInvalidDecision
}

// JournalEntry is one line of a journal group.
type JournalEntry struct {
	ID        string
	GroupID   string
	AccountID string
	Date      time.Time
	Debit     decimal.Decimal
	Credit    decimal.Decimal
	Status    EntryStatus
	Comment   string
	Sequence  int64
	CreatedAt time.Time
}

// Side returns the side the entry is booked on.
func (e *JournalEntry) Side() Side {
	if e.Debit.IsPositive() {
		return SideDebit
	}
	return SideCredit
}

// Amount returns the non-zero amount of the entry.
func (e *JournalEntry) Amount() decimal.Decimal {
	if e.Debit.IsPositive() {
		return e.Debit
	}
	return e.Credit
}

// Validate checks a single line in isolation.
func (e *JournalEntry) Validate() error {
	if e.AccountID == "" {
		return NewValidationError("account_id", "is required")
	}
	if e.Date.IsZero() {
		return NewValidationError("date", "is required")
	}
	if e.Debit.IsNegative() || e.Credit.IsNegative() {
		return ErrInvalidAmount
	}
	if e.Debit.IsPositive() == e.Credit.IsPositive() {
		return ErrInvalidLine
	}
	return ValidateAmount(e.Amount())
}

// InRange reports whether the entry date falls inside [start, end]; nil bounds are open.
func (e *JournalEntry) InRange(start, end *time.Time) bool {
	if start != nil && e.Date.Before(*start) {
		return false
	}
	if end != nil && e.Date.After(*end) {
		return false
	}
	return true
}

// JournalGroup is a set of lines that balance and share one review decision.
type JournalGroup struct {
	ID              string
	Description     string
	Status          EntryStatus
	SubmittedBy     string
	ReviewedBy      string
	ReviewedAt      *time.Time
	RejectionReason string
	CreatedAt       time.Time
	Entries         []*JournalEntry
}

// Totals sums the debit and credit columns of the group.
func (g *JournalGroup) Totals() (debit, credit decimal.Decimal) {
	debit, credit = decimal.Zero, decimal.Zero
	for _, e := range g.Entries {
		debit = debit.Add(e.Debit)
		credit = credit.Add(e.Credit)
	}
	return debit, credit
}

// Validate checks the line rules and that debits equal credits.
func (g *JournalGroup) Validate() error {
	if len(g.Entries) < 2 {
		return ErrTooFewLines
	}
	if len(g.Entries) > MaxGroupLines {
		return NewValidationError("entries", fmt.Sprintf("a group holds at most %d lines", MaxGroupLines))
	}
	if len(g.Description) > MaxDescriptionLength {
		return NewValidationError("description", fmt.Sprintf("exceeds %d characters", MaxDescriptionLength))
	}

	for i, e := range g.Entries {
		if err := e.Validate(); err != nil {
			return fmt.Errorf("line %d: %w", i+1, err)
		}
	}

	debit, credit := g.Totals()
	if !debit.Equal(credit) {
		return fmt.Errorf("%w (debits %s, credits %s)", ErrUnbalancedEntry, debit.String(), credit.String())
	}

	return nil
}

// AccountIDs returns the distinct account IDs referenced by the group.
func (g *JournalGroup) AccountIDs() []string {
	seen := make(map[string]struct{}, len(g.Entries))
	ids := make([]string, 0, len(g.Entries))
	for _, e := range g.Entries {
		if _, ok := seen[e.AccountID]; ok {
			continue
		}
		seen[e.AccountID] = struct{}{}
		ids = append(ids, e.AccountID)
	}
	return ids
}

// GroupFilter narrows group listings.
type GroupFilter struct {
	Status EntryStatus
	Limit  int
	Offset int
}
