package handler

import (
	"context"
	"net/http"

	"github.com/iho/ledgerlogic/internal/adapter/http/dto"
	"github.com/iho/ledgerlogic/internal/domain"
	"github.com/iho/ledgerlogic/internal/usecase"
)

// RatioService defines the behavior needed by RatioHandler.
type RatioService interface {
	Compute(ctx context.Context, r domain.DateRange) ([]domain.Ratio, error)
	Dashboard(ctx context.Context, r domain.DateRange) (*usecase.Dashboard, error)
	Thresholds() domain.Thresholds
}

// RatioHandler serves the classified financial ratios.
type RatioHandler struct {
	ratioUC RatioService
}

// NewRatioHandler creates a new RatioHandler.
func NewRatioHandler(ratioUC RatioService) *RatioHandler {
	return &RatioHandler{ratioUC: ratioUC}
}

// Ratios returns every ratio for the range in dashboard order.
func (h *RatioHandler) Ratios(w http.ResponseWriter, r *http.Request) {
	rng, err := parseRange(r)
	if err != nil {
		respondError(w, r, "invalid date range", err)
		return
	}

	ratios, err := h.ratioUC.Compute(r.Context(), rng)
	if err != nil {
		respondError(w, r, "failed to compute ratios", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.RatiosFromDomain(ratios))
}

// Thresholds returns the green and yellow boundaries in effect.
func (h *RatioHandler) Thresholds(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dto.ThresholdsFromDomain(h.ratioUC.Thresholds()))
}

// Dashboard returns the statement and its ratios together.
func (h *RatioHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	rng, err := parseRange(r)
	if err != nil {
		respondError(w, r, "invalid date range", err)
		return
	}

	d, err := h.ratioUC.Dashboard(r.Context(), rng)
	if err != nil {
		respondError(w, r, "failed to build dashboard", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.DashboardFromUseCase(d))
}
