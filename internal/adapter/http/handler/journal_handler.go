package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/ledgerlogic/internal/adapter/http/dto"
	"github.com/iho/ledgerlogic/internal/domain"
	"github.com/iho/ledgerlogic/internal/usecase"
)

// JournalService defines the behavior needed by JournalHandler.
type JournalService interface {
	SubmitGroup(ctx context.Context, input usecase.SubmitGroupInput) (*domain.JournalGroup, error)
	ReviewGroup(ctx context.Context, input usecase.ReviewInput) (*domain.JournalGroup, error)
	AddComment(ctx context.Context, entryID, text string) (*domain.JournalEntry, error)
	GetGroup(ctx context.Context, id string) (*domain.JournalGroup, error)
	ListGroups(ctx context.Context, filter domain.GroupFilter) ([]*domain.JournalGroup, error)
}

// JournalHandler handles journal group and entry requests.
type JournalHandler struct {
	journalUC JournalService
}

// NewJournalHandler creates a new JournalHandler.
func NewJournalHandler(journalUC JournalService) *JournalHandler {
	return &JournalHandler{journalUC: journalUC}
}

// Submit records a balanced group of lines as pending.
func (h *JournalHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req dto.SubmitGroupRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, "invalid request body", err)
		return
	}

	input, err := req.ToUseCaseInput()
	if err != nil {
		respondError(w, r, "invalid request body", err)
		return
	}

	group, err := h.journalUC.SubmitGroup(r.Context(), input)
	if err != nil {
		respondError(w, r, "failed to submit journal group", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.GroupFromDomain(group))
}

// List lists journal groups, optionally filtered by status.
func (h *JournalHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := domain.GroupFilter{
		Limit:  parseIntQuery(r, "limit", 50),
		Offset: parseIntQuery(r, "offset", 0),
	}
	if v := r.URL.Query().Get("status"); v != "" {
		status, err := domain.ParseStatus(v)
		if err != nil {
			respondError(w, r, "invalid status", err)
			return
		}
		filter.Status = status
	}

	groups, err := h.journalUC.ListGroups(r.Context(), filter)
	if err != nil {
		respondError(w, r, "failed to list journal groups", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.GroupsFromDomain(groups))
}

// Get retrieves a journal group with its lines.
func (h *JournalHandler) Get(w http.ResponseWriter, r *http.Request) {
	group, err := h.journalUC.GetGroup(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, "failed to get journal group", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.GroupFromDomain(group))
}

// Approve approves a pending group.
func (h *JournalHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, domain.DecisionApprove)
}

// Reject rejects a pending group with an optional reason.
func (h *JournalHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, domain.DecisionReject)
}

func (h *JournalHandler) review(w http.ResponseWriter, r *http.Request, decision domain.Decision) {
	var req dto.ReviewRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(w, r, &req); err != nil {
			respondError(w, r, "invalid request body", err)
			return
		}
	}

	group, err := h.journalUC.ReviewGroup(r.Context(), usecase.ReviewInput{
		GroupID:  chi.URLParam(r, "id"),
		Decision: decision,
		Reason:   req.Reason,
	})
	if err != nil {
		respondError(w, r, "failed to review journal group", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.GroupFromDomain(group))
}

// Comment attaches the one permitted comment to an entry.
func (h *JournalHandler) Comment(w http.ResponseWriter, r *http.Request) {
	var req dto.CommentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, "invalid request body", err)
		return
	}

	entry, err := h.journalUC.AddComment(r.Context(), chi.URLParam(r, "id"), req.Comment)
	if err != nil {
		respondError(w, r, "failed to comment on entry", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.EntryFromDomain(entry))
}
