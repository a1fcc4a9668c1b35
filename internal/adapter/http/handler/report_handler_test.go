package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/iho/ledgerlogic/internal/adapter/http/dto"
	"github.com/iho/ledgerlogic/internal/domain"
	"github.com/iho/ledgerlogic/internal/usecase"
)

type ledgerServiceStub struct {
	projectFn     func(ctx context.Context, accountID string) (*domain.Projection, error)
	consistencyFn func(ctx context.Context) (*usecase.ConsistencyReport, error)
}

func (s *ledgerServiceStub) Project(ctx context.Context, accountID string) (*domain.Projection, error) {
	return s.projectFn(ctx, accountID)
}

func (s *ledgerServiceStub) CheckConsistency(ctx context.Context) (*usecase.ConsistencyReport, error) {
	return s.consistencyFn(ctx)
}

type statementServiceStub struct {
	ranges []domain.DateRange
	st     *domain.StatementTotals
}

func (s *statementServiceStub) Build(ctx context.Context, r domain.DateRange) (*domain.StatementTotals, error) {
	s.ranges = append(s.ranges, r)
	return s.st, nil
}

func (s *statementServiceStub) BuildPeriods(ctx context.Context, ranges []domain.DateRange) ([]*domain.StatementTotals, error) {
	s.ranges = append(s.ranges, ranges...)
	out := make([]*domain.StatementTotals, len(ranges))
	for i := range ranges {
		out[i] = s.st
	}
	return out, nil
}

func (s *statementServiceStub) TrialBalance(ctx context.Context, r domain.DateRange) (domain.TrialBalance, error) {
	return s.st.TrialBalance(), nil
}

func (s *statementServiceStub) IncomeStatement(ctx context.Context, r domain.DateRange) (domain.IncomeStatement, error) {
	return s.st.IncomeStatement(), nil
}

func (s *statementServiceStub) BalanceSheet(ctx context.Context, r domain.DateRange) (domain.BalanceSheet, error) {
	return s.st.BalanceSheet(), nil
}

func (s *statementServiceStub) RetainedEarnings(ctx context.Context, r domain.DateRange, beginning decimal.Decimal) (domain.RetainedEarnings, error) {
	return s.st.RetainedEarnings(beginning), nil
}

func sampleStatement() *domain.StatementTotals {
	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	accounts := []*domain.Account{
		{ID: "cash", Number: 1000, Name: "Cash", Category: domain.CategoryAsset, Subcategory: domain.SubcategoryCash, NormalSide: domain.SideDebit},
		{ID: "sales", Number: 4000, Name: "Sales", Category: domain.CategoryRevenue, Subcategory: domain.SubcategorySales, NormalSide: domain.SideCredit},
	}
	entries := []*domain.JournalEntry{
		{AccountID: "cash", Date: date, Debit: decimal.NewFromInt(100), Status: domain.StatusApproved},
		{AccountID: "sales", Date: date, Credit: decimal.NewFromInt(100), Status: domain.StatusApproved},
	}
	return domain.BuildStatement(accounts, entries, domain.DateRange{})
}

func TestLedgerHandler_AccountLedger(t *testing.T) {
	acc := &domain.Account{ID: "cash", NormalSide: domain.SideDebit, InitialBalance: decimal.NewFromInt(10)}
	handler := NewLedgerHandler(&ledgerServiceStub{
		projectFn: func(ctx context.Context, accountID string) (*domain.Projection, error) {
			return domain.NewProjection(acc, []*domain.JournalEntry{
				{ID: "e1", AccountID: "cash", Date: time.Now(), Debit: decimal.NewFromInt(5), Status: domain.StatusApproved},
			}), nil
		},
	})

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/accounts/cash/ledger", nil), "id", "cash")
	rec := httptest.NewRecorder()

	handler.AccountLedger(rec, req)

	var resp dto.LedgerResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Rows) != 1 || resp.EndingBalance.String() != "15" {
		t.Fatalf("unexpected ledger %+v", resp)
	}
}

func TestLedgerHandler_CheckConsistency(t *testing.T) {
	tests := []struct {
		name       string
		consistent bool
		wantStatus int
	}{
		{"consistent", true, http.StatusOK},
		{"inconsistent", false, http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewLedgerHandler(&ledgerServiceStub{
				consistencyFn: func(ctx context.Context) (*usecase.ConsistencyReport, error) {
					return &usecase.ConsistencyReport{Consistent: tt.consistent}, nil
				},
			})

			rec := httptest.NewRecorder()
			handler.CheckConsistency(rec, httptest.NewRequest(http.MethodGet, "/ledger/consistency", nil))

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d", tt.wantStatus, rec.Code)
			}
		})
	}
}

func TestStatementHandler_Statement_PassesRange(t *testing.T) {
	stub := &statementServiceStub{st: sampleStatement()}
	handler := NewStatementHandler(stub)

	rec := httptest.NewRecorder()
	handler.Statement(rec, httptest.NewRequest(http.MethodGet, "/statements?start=2024-01-01", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(stub.ranges) != 1 || stub.ranges[0].Key() != "2024-01-01..*" {
		t.Fatalf("unexpected ranges %+v", stub.ranges)
	}

	var resp dto.StatementResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.NetIncome.String() != "100" {
		t.Fatalf("expected net income 100, got %s", resp.NetIncome)
	}
}

func TestStatementHandler_InvalidRange(t *testing.T) {
	handler := NewStatementHandler(&statementServiceStub{st: sampleStatement()})

	rec := httptest.NewRecorder()
	handler.TrialBalance(rec, httptest.NewRequest(http.MethodGet, "/statements/trial-balance?start=2024-02-01&end=2024-01-01", nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestStatementHandler_TrialBalance(t *testing.T) {
	handler := NewStatementHandler(&statementServiceStub{st: sampleStatement()})

	rec := httptest.NewRecorder()
	handler.TrialBalance(rec, httptest.NewRequest(http.MethodGet, "/statements/trial-balance", nil))

	var resp dto.TrialBalanceResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.Balanced || len(resp.Rows) != 2 {
		t.Fatalf("unexpected trial balance %+v", resp)
	}
}

func TestStatementHandler_RetainedEarnings(t *testing.T) {
	handler := NewStatementHandler(&statementServiceStub{st: sampleStatement()})

	rec := httptest.NewRecorder()
	handler.RetainedEarnings(rec, httptest.NewRequest(http.MethodGet, "/statements/retained-earnings?beginning=50", nil))

	var resp dto.RetainedEarningsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Ending.String() != "150" {
		t.Fatalf("expected ending 150, got %s", resp.Ending)
	}

	rec = httptest.NewRecorder()
	handler.RetainedEarnings(rec, httptest.NewRequest(http.MethodGet, "/statements/retained-earnings?beginning=abc", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad beginning, got %d", rec.Code)
	}
}

func TestStatementHandler_Periods(t *testing.T) {
	stub := &statementServiceStub{st: sampleStatement()}
	handler := NewStatementHandler(stub)

	body := `{"periods":[{"start":"2024-01-01","end":"2024-06-30"},{"start":"2024-07-01","end":"2024-12-31"}]}`
	rec := httptest.NewRecorder()
	handler.Periods(rec, httptest.NewRequest(http.MethodPost, "/statements/periods", strings.NewReader(body)))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(stub.ranges) != 2 {
		t.Fatalf("expected 2 ranges, got %d", len(stub.ranges))
	}
}

type ratioServiceStub struct {
	st *domain.StatementTotals
}

func (s *ratioServiceStub) Compute(ctx context.Context, r domain.DateRange) ([]domain.Ratio, error) {
	d, err := s.Dashboard(ctx, r)
	if err != nil {
		return nil, err
	}
	return d.Ratios, nil
}

func (s *ratioServiceStub) Dashboard(ctx context.Context, r domain.DateRange) (*usecase.Dashboard, error) {
	computed := domain.ComputeRatios(s.st, domain.DefaultThresholds())
	ratios := make([]domain.Ratio, 0, len(computed))
	for _, name := range domain.RatioNames {
		ratios = append(ratios, computed[name])
	}
	return &usecase.Dashboard{Statement: s.st, Ratios: ratios}, nil
}

func (s *ratioServiceStub) Thresholds() domain.Thresholds {
	return domain.DefaultThresholds()
}

func TestRatioHandler_Ratios(t *testing.T) {
	handler := NewRatioHandler(&ratioServiceStub{st: sampleStatement()})

	rec := httptest.NewRecorder()
	handler.Ratios(rec, httptest.NewRequest(http.MethodGet, "/ratios", nil))

	var resp []dto.RatioResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp) != len(domain.RatioNames) {
		t.Fatalf("expected %d ratios, got %d", len(domain.RatioNames), len(resp))
	}
	if resp[0].Name != string(domain.RatioCurrent) {
		t.Fatalf("expected current ratio first, got %s", resp[0].Name)
	}
	// No liabilities were booked, so the current ratio has no denominator.
	if resp[0].Defined || resp[0].Value != nil {
		t.Fatalf("expected undefined current ratio, got %+v", resp[0])
	}
}

func TestRatioHandler_Thresholds(t *testing.T) {
	handler := NewRatioHandler(&ratioServiceStub{})

	rec := httptest.NewRecorder()
	handler.Thresholds(rec, httptest.NewRequest(http.MethodGet, "/ratios/thresholds", nil))

	var resp map[string]dto.ThresholdResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp[string(domain.RatioDebt)].Direction != "lower" {
		t.Fatalf("unexpected thresholds %+v", resp)
	}
}

func TestRatioHandler_Dashboard(t *testing.T) {
	handler := NewRatioHandler(&ratioServiceStub{st: sampleStatement()})

	rec := httptest.NewRecorder()
	handler.Dashboard(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil))

	var resp dto.DashboardResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Statement == nil || len(resp.Ratios) == 0 {
		t.Fatalf("unexpected dashboard %+v", resp)
	}
}

type pingerStub struct{ err error }

func (p pingerStub) Ping(ctx context.Context) error { return p.err }

type redisPingerStub struct{ err error }

func (p redisPingerStub) Ping(ctx context.Context) *redis.StatusCmd {
	cmd := redis.NewStatusCmd(ctx)
	if p.err != nil {
		cmd.SetErr(p.err)
	} else {
		cmd.SetVal("PONG")
	}
	return cmd
}

func TestHealthHandler_Readiness(t *testing.T) {
	tests := []struct {
		name       string
		db         error
		redis      error
		wantStatus int
	}{
		{"ready", nil, nil, http.StatusOK},
		{"postgres down", errors.New("dial tcp"), nil, http.StatusServiceUnavailable},
		{"redis down", nil, errors.New("connection refused"), http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewHealthHandler(pingerStub{err: tt.db}, redisPingerStub{err: tt.redis})

			rec := httptest.NewRecorder()
			handler.Readiness(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d", tt.wantStatus, rec.Code)
			}
		})
	}
}

func TestHealthHandler_Liveness(t *testing.T) {
	handler := NewHealthHandler(pingerStub{}, nil)

	rec := httptest.NewRecorder()
	handler.Liveness(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
