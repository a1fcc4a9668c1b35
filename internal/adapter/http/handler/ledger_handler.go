package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/ledgerlogic/internal/adapter/http/dto"
	"github.com/iho/ledgerlogic/internal/domain"
	"github.com/iho/ledgerlogic/internal/usecase"
)

// LedgerService defines the behavior needed by LedgerHandler.
type LedgerService interface {
	Project(ctx context.Context, accountID string) (*domain.Projection, error)
	CheckConsistency(ctx context.Context) (*usecase.ConsistencyReport, error)
}

// LedgerHandler serves projected account ledgers and the journal-wide check.
type LedgerHandler struct {
	ledgerUC LedgerService
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledgerUC LedgerService) *LedgerHandler {
	return &LedgerHandler{ledgerUC: ledgerUC}
}

// AccountLedger returns the running-balance ledger of one account.
func (h *LedgerHandler) AccountLedger(w http.ResponseWriter, r *http.Request) {
	p, err := h.ledgerUC.Project(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, "failed to project ledger", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.LedgerFromDomain(p))
}

// CheckConsistency reports whether approved debits equal approved credits.
// An inconsistent journal is answered with 409 and the same body.
func (h *LedgerHandler) CheckConsistency(w http.ResponseWriter, r *http.Request) {
	report, err := h.ledgerUC.CheckConsistency(r.Context())
	if err != nil {
		respondError(w, r, "failed to check consistency", err)
		return
	}

	status := http.StatusOK
	if !report.Consistent {
		status = http.StatusConflict
	}
	writeJSON(w, status, dto.ConsistencyFromUseCase(report))
}
