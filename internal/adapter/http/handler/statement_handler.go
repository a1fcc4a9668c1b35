package handler

import (
	"context"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/iho/ledgerlogic/internal/adapter/http/dto"
	"github.com/iho/ledgerlogic/internal/domain"
)

// StatementService defines the behavior needed by StatementHandler.
type StatementService interface {
	Build(ctx context.Context, r domain.DateRange) (*domain.StatementTotals, error)
	BuildPeriods(ctx context.Context, ranges []domain.DateRange) ([]*domain.StatementTotals, error)
	TrialBalance(ctx context.Context, r domain.DateRange) (domain.TrialBalance, error)
	IncomeStatement(ctx context.Context, r domain.DateRange) (domain.IncomeStatement, error)
	BalanceSheet(ctx context.Context, r domain.DateRange) (domain.BalanceSheet, error)
	RetainedEarnings(ctx context.Context, r domain.DateRange, beginning decimal.Decimal) (domain.RetainedEarnings, error)
}

// StatementHandler serves financial statements over an optional date range.
type StatementHandler struct {
	statementUC StatementService
}

// NewStatementHandler creates a new StatementHandler.
func NewStatementHandler(statementUC StatementService) *StatementHandler {
	return &StatementHandler{statementUC: statementUC}
}

// Statement returns the full category totals for the range.
func (h *StatementHandler) Statement(w http.ResponseWriter, r *http.Request) {
	rng, err := parseRange(r)
	if err != nil {
		respondError(w, r, "invalid date range", err)
		return
	}

	st, err := h.statementUC.Build(r.Context(), rng)
	if err != nil {
		respondError(w, r, "failed to build statement", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.StatementFromDomain(st))
}

// Periods builds statements for several ranges in one request.
func (h *StatementHandler) Periods(w http.ResponseWriter, r *http.Request) {
	var req dto.PeriodsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, "invalid request body", err)
		return
	}

	ranges, err := req.Ranges()
	if err != nil {
		respondError(w, r, "invalid date range", err)
		return
	}

	statements, err := h.statementUC.BuildPeriods(r.Context(), ranges)
	if err != nil {
		respondError(w, r, "failed to build statements", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.StatementsFromDomain(statements))
}

// TrialBalance returns the trial balance for the range.
func (h *StatementHandler) TrialBalance(w http.ResponseWriter, r *http.Request) {
	rng, err := parseRange(r)
	if err != nil {
		respondError(w, r, "invalid date range", err)
		return
	}

	tb, err := h.statementUC.TrialBalance(r.Context(), rng)
	if err != nil {
		respondError(w, r, "failed to build trial balance", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TrialBalanceFromDomain(tb))
}

// IncomeStatement returns revenue, expenses and net income for the range.
func (h *StatementHandler) IncomeStatement(w http.ResponseWriter, r *http.Request) {
	rng, err := parseRange(r)
	if err != nil {
		respondError(w, r, "invalid date range", err)
		return
	}

	is, err := h.statementUC.IncomeStatement(r.Context(), rng)
	if err != nil {
		respondError(w, r, "failed to build income statement", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.IncomeStatementFromDomain(is))
}

// BalanceSheet returns assets, liabilities and equity for the range.
func (h *StatementHandler) BalanceSheet(w http.ResponseWriter, r *http.Request) {
	rng, err := parseRange(r)
	if err != nil {
		respondError(w, r, "invalid date range", err)
		return
	}

	bs, err := h.statementUC.BalanceSheet(r.Context(), rng)
	if err != nil {
		respondError(w, r, "failed to build balance sheet", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.BalanceSheetFromDomain(bs))
}

// RetainedEarnings rolls the beginning query parameter forward by net income less dividends.
func (h *StatementHandler) RetainedEarnings(w http.ResponseWriter, r *http.Request) {
	rng, err := parseRange(r)
	if err != nil {
		respondError(w, r, "invalid date range", err)
		return
	}

	beginning := decimal.Zero
	if v := r.URL.Query().Get("beginning"); v != "" {
		beginning, err = decimal.NewFromString(v)
		if err != nil {
			respondError(w, r, "invalid beginning balance", domain.NewValidationError("beginning", "must be a decimal number"))
			return
		}
	}

	re, err := h.statementUC.RetainedEarnings(r.Context(), rng, beginning)
	if err != nil {
		respondError(w, r, "failed to build retained earnings", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.RetainedEarningsFromDomain(re))
}
