package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

const (
	MaxAccountNameLength = 255
	MaxDescriptionLength = 1000
	MaxCommentLength     = 2000
	MaxGroupLines        = 200

	// AmountScale is the number of decimal places stored for amounts and
	// balances. Finer amounts would be rounded by the database.
	AmountScale = 4

	defaultPageSize = 50
	maxPageSize     = 1000
)

// maxLineAmount caps a single debit or credit at one trillion.
var maxLineAmount = decimal.New(1, 12)

// ValidateAccountName requires a non-blank name of at most
// MaxAccountNameLength characters.
func ValidateAccountName(name string) error {
	name = strings.TrimSpace(name)
	switch n := utf8.RuneCountInString(name); {
	case n == 0:
		return NewValidationError("name", "cannot be empty")
	case n > MaxAccountNameLength:
		return NewValidationError("name", fmt.Sprintf("exceeds %d characters", MaxAccountNameLength))
	}
	return nil
}

func ValidateAccountNumber(number int64) error {
	if number <= 0 {
		return NewValidationError("number", "must be a positive integer")
	}
	return nil
}

func ValidateDescription(description string) error {
	if utf8.RuneCountInString(description) > MaxDescriptionLength {
		return NewValidationError("description", fmt.Sprintf("exceeds %d characters", MaxDescriptionLength))
	}
	return nil
}

// ValidateComment rejects blank and oversized entry comments.
func ValidateComment(comment string) error {
	comment = strings.TrimSpace(comment)
	switch n := utf8.RuneCountInString(comment); {
	case n == 0:
		return NewValidationError("comment", "cannot be empty")
	case n > MaxCommentLength:
		return NewValidationError("comment", fmt.Sprintf("exceeds %d characters", MaxCommentLength))
	}
	return nil
}

// ValidateAmount checks the non-zero side of a journal line.
func ValidateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	if amount.GreaterThan(maxLineAmount) {
		return NewValidationError("amount", "maximum amount is "+maxLineAmount.String())
	}
	return ValidateScale("amount", amount)
}

// ValidateScale rejects values with more than AmountScale decimal places.
func ValidateScale(field string, v decimal.Decimal) error {
	if !v.Equal(v.Truncate(AmountScale)) {
		return NewValidationError(field, fmt.Sprintf("at most %d decimal places", AmountScale))
	}
	return nil
}

// ValidateDateRange checks that a range with both bounds set is ordered.
// Open bounds are always valid.
func ValidateDateRange(start, end *time.Time) error {
	if start != nil && end != nil && start.After(*end) {
		return ErrInvalidDateRange
	}
	return nil
}

// ValidatePagination clamps limit to (0, 1000], defaulting to 50, and
// floors offset at zero.
func ValidatePagination(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	return min(limit, maxPageSize), max(offset, 0)
}
