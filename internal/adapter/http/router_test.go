package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/iho/ledgerlogic/internal/adapter/http/dto"
	"github.com/iho/ledgerlogic/internal/adapter/http/handler"
	apimiddleware "github.com/iho/ledgerlogic/internal/adapter/http/middleware"
	"github.com/iho/ledgerlogic/internal/domain"
	"github.com/iho/ledgerlogic/internal/infrastructure/auth"
	"github.com/iho/ledgerlogic/internal/usecase"
	"github.com/iho/ledgerlogic/internal/usecase/mocks"
)

type okPinger struct{}

func (okPinger) Ping(ctx context.Context) error { return nil }

func newRouterConfig(opts ...func(*RouterConfig)) RouterConfig {
	txManager := mocks.NewMockTransactionManager()
	accounts := mocks.NewMockAccountRepository()
	journal := mocks.NewMockJournalRepository()
	outbox := mocks.NewMockOutboxRepository()
	audit := mocks.NewMockAuditRepository()
	idGen := mocks.NewMockIDGenerator()

	accountUC := usecase.NewAccountUseCase(txManager, accounts, journal, outbox, audit, nil, idGen, nil)
	journalUC := usecase.NewJournalUseCase(txManager, accounts, journal, outbox, audit, nil, nil, idGen, nil)
	ledgerUC := usecase.NewLedgerUseCase(accounts, journal)
	statementUC := usecase.NewStatementUseCase(accounts, journal, nil, nil, nil)
	ratioUC := usecase.NewRatioUseCase(statementUC, domain.DefaultThresholds(), nil)

	cfg := RouterConfig{
		AccountHandler:   handler.NewAccountHandler(accountUC),
		JournalHandler:   handler.NewJournalHandler(journalUC),
		LedgerHandler:    handler.NewLedgerHandler(ledgerUC),
		StatementHandler: handler.NewStatementHandler(statementUC),
		RatioHandler:     handler.NewRatioHandler(ratioUC),
		HealthHandler:    handler.NewHealthHandler(okPinger{}, nil),
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

func do(t *testing.T, router http.Handler, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func createAccount(t *testing.T, router http.Handler, body string) string {
	t.Helper()
	rec := do(t, router, http.MethodPost, "/api/v1/accounts", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create account: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var acc dto.AccountResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &acc); err != nil {
		t.Fatalf("decode account: %v", err)
	}
	return acc.ID
}

func TestNewRouter_HealthEndpointAvailable(t *testing.T) {
	router := NewRouter(newRouterConfig())

	if rec := do(t, router, http.MethodGet, "/health", ""); rec.Code != http.StatusOK {
		t.Fatalf("expected /health to return 200, got %d", rec.Code)
	}
	if rec := do(t, router, http.MethodGet, "/ready", ""); rec.Code != http.StatusOK {
		t.Fatalf("expected /ready to return 200, got %d", rec.Code)
	}
}

func TestNewRouter_RateLimiterBlocksExcessRequests(t *testing.T) {
	rl := apimiddleware.NewRateLimiter(1, 1, nil)
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.RateLimiter = rl
	}))

	req1 := httptest.NewRequest(http.MethodGet, "/health", nil)
	req1.RemoteAddr = "1.2.3.4:1234"
	rec1 := httptest.NewRecorder()
	router.ServeHTTP(rec1, req1)
	if rec1.Code != http.StatusOK {
		t.Fatalf("expected first request to succeed, got %d", rec1.Code)
	}

	req2 := httptest.NewRequest(http.MethodGet, "/health", nil)
	req2.RemoteAddr = "1.2.3.4:1234"
	rec2 := httptest.NewRecorder()
	router.ServeHTTP(rec2, req2)
	if rec2.Code != http.StatusTooManyRequests {
		t.Fatalf("expected second request to be throttled, got %d", rec2.Code)
	}
}

func TestNewRouter_JournalLifecycle(t *testing.T) {
	router := NewRouter(newRouterConfig())

	cash := createAccount(t, router, `{"number":1010,"name":"Cash","category":"asset","subcategory":"cash"}`)
	sales := createAccount(t, router, `{"number":4010,"name":"Sales","category":"revenue","subcategory":"sales"}`)

	submit := `{"description":"cash sale","lines":[
		{"account_id":"` + cash + `","date":"2024-02-10","debit":"250"},
		{"account_id":"` + sales + `","date":"2024-02-10","credit":"250"}]}`
	rec := do(t, router, http.MethodPost, "/api/v1/journal/groups", submit)
	if rec.Code != http.StatusCreated {
		t.Fatalf("submit: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var group dto.GroupResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &group); err != nil {
		t.Fatalf("decode group: %v", err)
	}
	if group.Status != "pending" {
		t.Fatalf("expected pending group, got %s", group.Status)
	}

	// Pending lines do not reach statements.
	rec = do(t, router, http.MethodGet, "/api/v1/statements/income", "")
	var income dto.IncomeStatementResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &income); err != nil {
		t.Fatalf("decode income statement: %v", err)
	}
	if !income.NetIncome.IsZero() {
		t.Fatalf("expected zero net income before approval, got %s", income.NetIncome)
	}

	if rec := do(t, router, http.MethodPost, "/api/v1/journal/groups/"+group.ID+"/approve", ""); rec.Code != http.StatusOK {
		t.Fatalf("approve: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if rec := do(t, router, http.MethodPost, "/api/v1/journal/groups/"+group.ID+"/reject", ""); rec.Code != http.StatusConflict {
		t.Fatalf("second review: expected 409, got %d", rec.Code)
	}

	rec = do(t, router, http.MethodGet, "/api/v1/accounts/"+cash+"/ledger", "")
	var ledger dto.LedgerResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &ledger); err != nil {
		t.Fatalf("decode ledger: %v", err)
	}
	if len(ledger.Rows) != 1 || ledger.EndingBalance.String() != "250" {
		t.Fatalf("unexpected ledger %+v", ledger)
	}

	rec = do(t, router, http.MethodGet, "/api/v1/statements/trial-balance?start=2024-01-01&end=2024-12-31", "")
	var tb dto.TrialBalanceResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &tb); err != nil {
		t.Fatalf("decode trial balance: %v", err)
	}
	if !tb.Balanced || tb.TotalDebit.String() != "250" {
		t.Fatalf("unexpected trial balance %+v", tb)
	}

	if rec := do(t, router, http.MethodGet, "/api/v1/ledger/consistency", ""); rec.Code != http.StatusOK {
		t.Fatalf("consistency: expected 200, got %d", rec.Code)
	}

	entryID := group.Entries[0].ID
	if rec := do(t, router, http.MethodPost, "/api/v1/journal/entries/"+entryID+"/comment", `{"comment":"receipt #12"}`); rec.Code != http.StatusOK {
		t.Fatalf("comment: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if rec := do(t, router, http.MethodPost, "/api/v1/journal/entries/"+entryID+"/comment", `{"comment":"again"}`); rec.Code != http.StatusConflict {
		t.Fatalf("second comment: expected 409, got %d", rec.Code)
	}
}

func TestNewRouter_RolesEnforced(t *testing.T) {
	manager := auth.NewJWTManager("test-secret", time.Hour)
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.Authenticator = apimiddleware.NewAuthenticator(manager, true, nil)
	}))

	token := func(role domain.Role) string {
		tok, err := manager.Generate(&domain.User{ID: "u-" + string(role), Role: role})
		if err != nil {
			t.Fatalf("generate token: %v", err)
		}
		return "Bearer " + tok
	}

	if rec := do(t, router, http.MethodGet, "/api/v1/accounts", ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous: expected 401, got %d", rec.Code)
	}
	if rec := do(t, router, http.MethodGet, "/api/v1/accounts", "", "Authorization", token(domain.RoleViewer)); rec.Code != http.StatusOK {
		t.Fatalf("viewer list: expected 200, got %d", rec.Code)
	}

	body := `{"number":1010,"name":"Cash","category":"asset"}`
	if rec := do(t, router, http.MethodPost, "/api/v1/accounts", body, "Authorization", token(domain.RoleManager)); rec.Code != http.StatusForbidden {
		t.Fatalf("manager create account: expected 403, got %d", rec.Code)
	}
	if rec := do(t, router, http.MethodPost, "/api/v1/accounts", body, "Authorization", token(domain.RoleAdmin)); rec.Code != http.StatusCreated {
		t.Fatalf("admin create account: expected 201, got %d", rec.Code)
	}
	if rec := do(t, router, http.MethodPost, "/api/v1/journal/groups/g-1/approve", "", "Authorization", token(domain.RoleAccountant)); rec.Code != http.StatusForbidden {
		t.Fatalf("accountant approve: expected 403, got %d", rec.Code)
	}
	if rec := do(t, router, http.MethodPost, "/api/v1/journal/groups/g-1/approve", "", "Authorization", token(domain.RoleManager)); rec.Code != http.StatusNotFound {
		t.Fatalf("manager approve of missing group: expected 404, got %d", rec.Code)
	}
}

func TestNewRouter_IdempotentReplay(t *testing.T) {
	store := mocks.NewMockIdempotencyStore()
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.IdempotencyStore = store
	}))

	body := `{"number":1010,"name":"Cash","category":"asset"}`
	first := do(t, router, http.MethodPost, "/api/v1/accounts", body, apimiddleware.IdempotencyKeyHeader, "key-123")
	if first.Code != http.StatusCreated {
		t.Fatalf("first request: expected 201, got %d: %s", first.Code, first.Body.String())
	}

	second := do(t, router, http.MethodPost, "/api/v1/accounts", body, apimiddleware.IdempotencyKeyHeader, "key-123")
	if second.Code != http.StatusCreated || second.Header().Get("X-Idempotency-Replay") != "true" {
		t.Fatalf("expected replayed 201, got %d", second.Code)
	}
	if first.Body.String() != second.Body.String() {
		t.Fatalf("replayed body differs:\n%s\n%s", first.Body.String(), second.Body.String())
	}

	// Without the key the duplicate number is rejected.
	if rec := do(t, router, http.MethodPost, "/api/v1/accounts", body); rec.Code != http.StatusBadRequest {
		t.Fatalf("duplicate without key: expected 400, got %d", rec.Code)
	}
}

func TestNewRouter_RegistersKeyRoutes(t *testing.T) {
	router := NewRouter(newRouterConfig())

	chiRoutes, ok := router.(chi.Router)
	if !ok {
		t.Fatal("router does not implement chi.Routes")
	}

	seen := map[string]bool{}
	if err := chi.Walk(chiRoutes, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		seen[method+" "+route] = true
		return nil
	}); err != nil {
		t.Fatalf("walk failed: %v", err)
	}

	expected := []string{
		"GET /health",
		"GET /ready",
		"POST /api/v1/accounts/",
		"GET /api/v1/accounts/",
		"GET /api/v1/accounts/{id}",
		"PATCH /api/v1/accounts/{id}",
		"POST /api/v1/accounts/{id}/deactivate",
		"GET /api/v1/accounts/{id}/ledger",
		"POST /api/v1/journal/groups",
		"POST /api/v1/journal/groups/{id}/approve",
		"POST /api/v1/journal/entries/{id}/comment",
		"GET /api/v1/statements/balance-sheet",
		"POST /api/v1/statements/periods",
		"GET /api/v1/ratios",
		"GET /api/v1/dashboard",
		"GET /api/v1/ledger/consistency",
	}

	for _, route := range expected {
		if !seen[route] {
			t.Fatalf("expected route %s to be registered", route)
		}
	}
}
