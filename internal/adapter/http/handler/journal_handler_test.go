package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iho/ledgerlogic/internal/adapter/http/dto"
	"github.com/iho/ledgerlogic/internal/domain"
	"github.com/iho/ledgerlogic/internal/usecase"
)

type journalServiceStub struct {
	submitFn  func(ctx context.Context, input usecase.SubmitGroupInput) (*domain.JournalGroup, error)
	reviewFn  func(ctx context.Context, input usecase.ReviewInput) (*domain.JournalGroup, error)
	commentFn func(ctx context.Context, entryID, text string) (*domain.JournalEntry, error)
	getFn     func(ctx context.Context, id string) (*domain.JournalGroup, error)
	listFn    func(ctx context.Context, filter domain.GroupFilter) ([]*domain.JournalGroup, error)
}

func (s *journalServiceStub) SubmitGroup(ctx context.Context, input usecase.SubmitGroupInput) (*domain.JournalGroup, error) {
	return s.submitFn(ctx, input)
}

func (s *journalServiceStub) ReviewGroup(ctx context.Context, input usecase.ReviewInput) (*domain.JournalGroup, error) {
	return s.reviewFn(ctx, input)
}

func (s *journalServiceStub) AddComment(ctx context.Context, entryID, text string) (*domain.JournalEntry, error) {
	return s.commentFn(ctx, entryID, text)
}

func (s *journalServiceStub) GetGroup(ctx context.Context, id string) (*domain.JournalGroup, error) {
	return s.getFn(ctx, id)
}

func (s *journalServiceStub) ListGroups(ctx context.Context, filter domain.GroupFilter) ([]*domain.JournalGroup, error) {
	return s.listFn(ctx, filter)
}

const balancedBody = `{
	"description": "office rent",
	"lines": [
		{"account_id": "rent", "date": "2024-03-01", "debit": "500"},
		{"account_id": "cash", "date": "2024-03-01", "credit": "500"}
	]
}`

func TestJournalHandler_Submit_Success(t *testing.T) {
	var captured usecase.SubmitGroupInput
	handler := NewJournalHandler(&journalServiceStub{
		submitFn: func(ctx context.Context, input usecase.SubmitGroupInput) (*domain.JournalGroup, error) {
			captured = input
			return &domain.JournalGroup{ID: "grp-1", Status: domain.StatusPending}, nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/journal/groups", strings.NewReader(balancedBody))
	rec := httptest.NewRecorder()

	handler.Submit(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(captured.Lines) != 2 || !captured.Lines[0].Debit.Equal(decimal.NewFromInt(500)) {
		t.Fatalf("unexpected input %+v", captured)
	}
	if captured.Lines[1].Date.Format(domain.DateFormat) != "2024-03-01" {
		t.Fatalf("unexpected line date %v", captured.Lines[1].Date)
	}
}

func TestJournalHandler_Submit_Unbalanced(t *testing.T) {
	handler := NewJournalHandler(&journalServiceStub{
		submitFn: func(ctx context.Context, input usecase.SubmitGroupInput) (*domain.JournalGroup, error) {
			return nil, domain.ErrUnbalancedEntry
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/journal/groups", strings.NewReader(balancedBody))
	rec := httptest.NewRecorder()

	handler.Submit(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	if resp := decodeError(t, rec); resp.Code != CodeUnbalanced {
		t.Fatalf("expected UNBALANCED_ENTRY, got %+v", resp)
	}
}

func TestJournalHandler_Submit_TooFewLines(t *testing.T) {
	handler := NewJournalHandler(&journalServiceStub{
		submitFn: func(ctx context.Context, input usecase.SubmitGroupInput) (*domain.JournalGroup, error) {
			t.Fatal("SubmitGroup should not be called")
			return nil, nil
		},
	})

	body := `{"lines":[{"account_id":"cash","date":"2024-03-01","debit":"1"}]}`
	req := httptest.NewRequest(http.MethodPost, "/journal/groups", strings.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Submit(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestJournalHandler_Reject_WithReason(t *testing.T) {
	var captured usecase.ReviewInput
	handler := NewJournalHandler(&journalServiceStub{
		reviewFn: func(ctx context.Context, input usecase.ReviewInput) (*domain.JournalGroup, error) {
			captured = input
			return &domain.JournalGroup{ID: input.GroupID, Status: domain.StatusRejected, RejectionReason: input.Reason}, nil
		},
	})

	req := withURLParam(httptest.NewRequest(http.MethodPost, "/journal/groups/grp-1/reject", strings.NewReader(`{"reason":"wrong account"}`)), "id", "grp-1")
	rec := httptest.NewRecorder()

	handler.Reject(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if captured.GroupID != "grp-1" || captured.Decision != domain.DecisionReject || captured.Reason != "wrong account" {
		t.Fatalf("unexpected review input %+v", captured)
	}
}

func TestJournalHandler_Approve_AlreadyReviewed(t *testing.T) {
	handler := NewJournalHandler(&journalServiceStub{
		reviewFn: func(ctx context.Context, input usecase.ReviewInput) (*domain.JournalGroup, error) {
			if input.Decision != domain.DecisionApprove {
				t.Fatalf("expected approve, got %s", input.Decision)
			}
			return nil, domain.ErrAlreadyReviewed
		},
	})

	req := withURLParam(httptest.NewRequest(http.MethodPost, "/journal/groups/grp-1/approve", nil), "id", "grp-1")
	rec := httptest.NewRecorder()

	handler.Approve(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
	if resp := decodeError(t, rec); resp.Code != CodeAlreadyReviewed {
		t.Fatalf("expected ALREADY_REVIEWED, got %+v", resp)
	}
}

func TestJournalHandler_Comment_Exists(t *testing.T) {
	handler := NewJournalHandler(&journalServiceStub{
		commentFn: func(ctx context.Context, entryID, text string) (*domain.JournalEntry, error) {
			return nil, domain.ErrCommentExists
		},
	})

	req := withURLParam(httptest.NewRequest(http.MethodPost, "/journal/entries/e1/comment", strings.NewReader(`{"comment":"second"}`)), "id", "e1")
	rec := httptest.NewRecorder()

	handler.Comment(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
	if resp := decodeError(t, rec); resp.Code != CodeCommentExists {
		t.Fatalf("expected COMMENT_EXISTS, got %+v", resp)
	}
}

func TestJournalHandler_List_DeniedMeansRejected(t *testing.T) {
	var captured domain.GroupFilter
	handler := NewJournalHandler(&journalServiceStub{
		listFn: func(ctx context.Context, filter domain.GroupFilter) ([]*domain.JournalGroup, error) {
			captured = filter
			return []*domain.JournalGroup{}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/journal/groups?status=denied", nil)
	rec := httptest.NewRecorder()

	handler.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if captured.Status != domain.StatusRejected {
		t.Fatalf("expected rejected filter, got %q", captured.Status)
	}
}

func TestJournalHandler_Get(t *testing.T) {
	handler := NewJournalHandler(&journalServiceStub{
		getFn: func(ctx context.Context, id string) (*domain.JournalGroup, error) {
			return &domain.JournalGroup{ID: id, Status: domain.StatusApproved}, nil
		},
	})

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/journal/groups/grp-9", nil), "id", "grp-9")
	rec := httptest.NewRecorder()

	handler.Get(rec, req)

	var resp dto.GroupResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ID != "grp-9" || resp.Status != "approved" {
		t.Fatalf("unexpected response %+v", resp)
	}
}
