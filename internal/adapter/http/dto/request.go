package dto

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/ledgerlogic/internal/domain"
	"github.com/iho/ledgerlogic/internal/usecase"
)

// CreateAccountRequest represents a request to create an account.
type CreateAccountRequest struct {
	Number         int64           `json:"number"          validate:"required,gt=0"`
	Name           string          `json:"name"            validate:"required,max=255"`
	Description    string          `json:"description"     validate:"max=1000"`
	Category       string          `json:"category"        validate:"required"`
	Subcategory    string          `json:"subcategory"     validate:"max=64"`
	NormalSide     string          `json:"normal_side"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
	Order          int             `json:"order"           validate:"gte=0"`
	Comment        string          `json:"comment"         validate:"max=2000"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateAccountRequest) ToUseCaseInput() usecase.CreateAccountInput {
	return usecase.CreateAccountInput{
		Number:         r.Number,
		Name:           strings.TrimSpace(r.Name),
		Description:    r.Description,
		Category:       r.Category,
		Subcategory:    r.Subcategory,
		NormalSide:     r.NormalSide,
		InitialBalance: r.InitialBalance,
		Order:          r.Order,
		Comment:        r.Comment,
	}
}

// UpdateAccountRequest carries the editable account fields. Omitted fields are left alone.
type UpdateAccountRequest struct {
	Name        *string `json:"name,omitempty"        validate:"omitempty,max=255"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=1000"`
	Subcategory *string `json:"subcategory,omitempty" validate:"omitempty,max=64"`
	Order       *int    `json:"order,omitempty"       validate:"omitempty,gte=0"`
	Comment     *string `json:"comment,omitempty"     validate:"omitempty,max=2000"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateAccountRequest) ToUseCaseInput() usecase.UpdateAccountInput {
	return usecase.UpdateAccountInput{
		Name:        r.Name,
		Description: r.Description,
		Subcategory: r.Subcategory,
		Order:       r.Order,
		Comment:     r.Comment,
	}
}

// JournalLineRequest is one line of a journal group.
type JournalLineRequest struct {
	AccountID string          `json:"account_id" validate:"required"`
	Date      string          `json:"date"       validate:"required,datetime=2006-01-02"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
}

// SubmitGroupRequest represents a request to submit a journal group.
type SubmitGroupRequest struct {
	Description string               `json:"description" validate:"max=1000"`
	Lines       []JournalLineRequest `json:"lines"       validate:"required,min=2,max=200,dive"`
}

// ToUseCaseInput converts to use case input. Dates have already been checked
// by the validator.
func (r *SubmitGroupRequest) ToUseCaseInput() (usecase.SubmitGroupInput, error) {
	lines := make([]usecase.JournalLineInput, len(r.Lines))
	for i, l := range r.Lines {
		date, err := ParseDate(l.Date)
		if err != nil {
			return usecase.SubmitGroupInput{}, domain.NewValidationError("lines.date", err.Error())
		}
		lines[i] = usecase.JournalLineInput{
			AccountID: l.AccountID,
			Date:      date,
			Debit:     l.Debit,
			Credit:    l.Credit,
		}
	}

	return usecase.SubmitGroupInput{
		Description: r.Description,
		Lines:       lines,
	}, nil
}

// ReviewRequest carries the optional reason given when rejecting a group.
type ReviewRequest struct {
	Reason string `json:"reason" validate:"max=1000"`
}

// CommentRequest represents a comment on a journal entry.
type CommentRequest struct {
	Comment string `json:"comment" validate:"required,max=2000"`
}

// PeriodRequest is one range of a comparative statement request.
type PeriodRequest struct {
	Start string `json:"start" validate:"omitempty,datetime=2006-01-02"`
	End   string `json:"end"   validate:"omitempty,datetime=2006-01-02"`
}

// PeriodsRequest asks for statements over several ranges.
type PeriodsRequest struct {
	Periods []PeriodRequest `json:"periods" validate:"required,min=1,dive"`
}

// Ranges converts the periods to date ranges.
func (r *PeriodsRequest) Ranges() ([]domain.DateRange, error) {
	ranges := make([]domain.DateRange, len(r.Periods))
	for i, p := range r.Periods {
		rng, err := ParseDateRange(p.Start, p.End)
		if err != nil {
			return nil, err
		}
		ranges[i] = rng
	}
	return ranges, nil
}

// PaginationRequest represents pagination parameters.
type PaginationRequest struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// ParseDate parses a YYYY-MM-DD calendar date in UTC.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(domain.DateFormat, strings.TrimSpace(s), time.UTC)
	if err != nil {
		return time.Time{}, domain.NewValidationError("date", "expected YYYY-MM-DD")
	}
	return t, nil
}

// ParseDateRange parses optional start and end bounds. Empty strings leave the bound open.
func ParseDateRange(start, end string) (domain.DateRange, error) {
	var r domain.DateRange

	if start != "" {
		t, err := ParseDate(start)
		if err != nil {
			return r, domain.NewValidationError("start", "expected YYYY-MM-DD")
		}
		r.Start = &t
	}
	if end != "" {
		t, err := ParseDate(end)
		if err != nil {
			return r, domain.NewValidationError("end", "expected YYYY-MM-DD")
		}
		r.End = &t
	}

	return r, r.Validate()
}
