package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Callers match them with errors.Is.
var (
	ErrValidation      = errors.New("validation error")
	ErrNotFound        = errors.New("not found")
	ErrUnbalancedEntry = errors.New("journal group is unbalanced: debits do not equal credits")
	ErrInactiveAccount = errors.New("account is inactive")
	ErrAlreadyReviewed = errors.New("journal group has already been reviewed")
	ErrCommentExists   = errors.New("entry already has a comment")
)

var (
	// Not found
	ErrAccountNotFound = fmt.Errorf("account %w", ErrNotFound)
	ErrGroupNotFound   = fmt.Errorf("journal group %w", ErrNotFound)
	ErrEntryNotFound   = fmt.Errorf("journal entry %w", ErrNotFound)

	// Account validation
	ErrDuplicateAccountNumber = fmt.Errorf("%w: account number already exists", ErrValidation)
	ErrDuplicateAccountName   = fmt.Errorf("%w: account name already exists", ErrValidation)
	ErrInvalidNormalSide      = fmt.Errorf("%w: normal side must be debit or credit", ErrValidation)
	ErrInvalidCategory        = fmt.Errorf("%w: unknown account category", ErrValidation)
	ErrAccountHasBalance      = fmt.Errorf("%w: cannot deactivate an account with a positive balance", ErrValidation)

	// Journal validation
	ErrInvalidAmount    = fmt.Errorf("%w: amount must be positive", ErrValidation)
	ErrInvalidLine      = fmt.Errorf("%w: a line must carry exactly one of debit or credit", ErrValidation)
	ErrTooFewLines      = fmt.Errorf("%w: a journal group needs at least two lines", ErrValidation)
	ErrInvalidDecision  = fmt.Errorf("%w: decision must be approve or reject", ErrValidation)
	ErrInvalidDateRange = fmt.Errorf("%w: start date is after end date", ErrValidation)
)

// ValidationError describes a rejected input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// Unwrap lets errors.Is(err, ErrValidation) match field errors.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NewValidationError builds a field error.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
