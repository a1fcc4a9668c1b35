package mocks

import (
	"cmp"
	"context"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/ledgerlogic/internal/domain"
	"github.com/iho/ledgerlogic/internal/usecase"
)

// MockAccountRepository is a mock implementation of AccountRepository.
type MockAccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]*domain.Account

	CreateFunc               func(ctx context.Context, tx usecase.Transaction, account *domain.Account) error
	UpdateFunc               func(ctx context.Context, tx usecase.Transaction, account *domain.Account) error
	GetByIDFunc              func(ctx context.Context, id string) (*domain.Account, error)
	GetByIDForUpdateFunc     func(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error)
	GetByIDsForUpdateFunc    func(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.Account, error)
	ExistsByNumberOrNameFunc func(ctx context.Context, tx usecase.Transaction, number int64, name, excludeID string) (bool, bool, error)
	ListFunc                 func(ctx context.Context, filter domain.AccountFilter) ([]*domain.Account, error)
	ListAllFunc              func(ctx context.Context) ([]*domain.Account, error)
}

func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{
		accounts: make(map[string]*domain.Account),
	}
}

// Seed stores accounts directly, bypassing CreateFunc.
func (m *MockAccountRepository) Seed(accounts ...*domain.Account) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range accounts {
		m.accounts[a.ID] = a
	}
}

func (m *MockAccountRepository) Create(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, account)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[account.ID] = account
	return nil
}

func (m *MockAccountRepository) Update(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, tx, account)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.accounts[account.ID]; !ok {
		return domain.ErrAccountNotFound
	}
	m.accounts[account.ID] = account
	return nil
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if acc, ok := m.accounts[id]; ok {
		clone := *acc
		return &clone, nil
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockAccountRepository) GetByIDsForUpdate(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.Account, error) {
	if m.GetByIDsForUpdateFunc != nil {
		return m.GetByIDsForUpdateFunc(ctx, tx, ids)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var accounts []*domain.Account
	for _, id := range ids {
		if acc, ok := m.accounts[id]; ok {
			clone := *acc
			accounts = append(accounts, &clone)
		}
	}
	return accounts, nil
}

func (m *MockAccountRepository) ExistsByNumberOrName(ctx context.Context, tx usecase.Transaction, number int64, name, excludeID string) (bool, bool, error) {
	if m.ExistsByNumberOrNameFunc != nil {
		return m.ExistsByNumberOrNameFunc(ctx, tx, number, name, excludeID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var numberTaken, nameTaken bool
	for _, acc := range m.accounts {
		if acc.ID == excludeID {
			continue
		}
		if number != 0 && acc.Number == number {
			numberTaken = true
		}
		if acc.Name == name {
			nameTaken = true
		}
	}
	return numberTaken, nameTaken, nil
}

func (m *MockAccountRepository) List(ctx context.Context, filter domain.AccountFilter) ([]*domain.Account, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	all, _ := m.ListAll(ctx)
	var result []*domain.Account
	for _, acc := range all {
		if filter.Matches(acc) {
			result = append(result, acc)
		}
	}
	if filter.Offset >= len(result) {
		return []*domain.Account{}, nil
	}
	result = result[filter.Offset:]
	if filter.Limit > 0 && filter.Limit < len(result) {
		result = result[:filter.Limit]
	}
	return result, nil
}

func (m *MockAccountRepository) ListAll(ctx context.Context) ([]*domain.Account, error) {
	if m.ListAllFunc != nil {
		return m.ListAllFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Account, 0, len(m.accounts))
	for _, acc := range m.accounts {
		result = append(result, acc)
	}
	slices.SortFunc(result, func(a, b *domain.Account) int {
		return cmp.Compare(a.Number, b.Number)
	})
	return result, nil
}

// MockJournalRepository is a mock implementation of JournalRepository.
type MockJournalRepository struct {
	mu       sync.RWMutex
	groups   map[string]*domain.JournalGroup
	entries  map[string]*domain.JournalEntry
	sequence int64

	CreateGroupFunc           func(ctx context.Context, tx usecase.Transaction, group *domain.JournalGroup) error
	GetGroupFunc              func(ctx context.Context, id string) (*domain.JournalGroup, error)
	GetGroupForUpdateFunc     func(ctx context.Context, tx usecase.Transaction, id string) (*domain.JournalGroup, error)
	UpdateGroupStatusFunc     func(ctx context.Context, tx usecase.Transaction, group *domain.JournalGroup) error
	ListGroupsFunc            func(ctx context.Context, filter domain.GroupFilter) ([]*domain.JournalGroup, error)
	GetEntryForUpdateFunc     func(ctx context.Context, tx usecase.Transaction, id string) (*domain.JournalEntry, error)
	SetEntryCommentFunc       func(ctx context.Context, tx usecase.Transaction, id, comment string) error
	ListApprovedByAccountFunc func(ctx context.Context, accountID string) ([]*domain.JournalEntry, error)
	ListApprovedFunc          func(ctx context.Context, r domain.DateRange) ([]*domain.JournalEntry, error)
	ApprovedTotalsFunc        func(ctx context.Context) (decimal.Decimal, decimal.Decimal, error)
}

func NewMockJournalRepository() *MockJournalRepository {
	return &MockJournalRepository{
		groups:  make(map[string]*domain.JournalGroup),
		entries: make(map[string]*domain.JournalEntry),
	}
}

func (m *MockJournalRepository) CreateGroup(ctx context.Context, tx usecase.Transaction, group *domain.JournalGroup) error {
	if m.CreateGroupFunc != nil {
		return m.CreateGroupFunc(ctx, tx, group)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.groups[group.ID] = group
	for _, e := range group.Entries {
		m.sequence++
		e.Sequence = m.sequence
		m.entries[e.ID] = e
	}
	return nil
}

func (m *MockJournalRepository) cloneGroup(g *domain.JournalGroup) *domain.JournalGroup {
	clone := *g
	clone.Entries = make([]*domain.JournalEntry, 0, len(g.Entries))
	for _, e := range g.Entries {
		ec := *e
		clone.Entries = append(clone.Entries, &ec)
	}
	return &clone
}

func (m *MockJournalRepository) GetGroup(ctx context.Context, id string) (*domain.JournalGroup, error) {
	if m.GetGroupFunc != nil {
		return m.GetGroupFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if g, ok := m.groups[id]; ok {
		return m.cloneGroup(g), nil
	}
	return nil, domain.ErrGroupNotFound
}

func (m *MockJournalRepository) GetGroupForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.JournalGroup, error) {
	if m.GetGroupForUpdateFunc != nil {
		return m.GetGroupForUpdateFunc(ctx, tx, id)
	}
	return m.GetGroup(ctx, id)
}

func (m *MockJournalRepository) UpdateGroupStatus(ctx context.Context, tx usecase.Transaction, group *domain.JournalGroup) error {
	if m.UpdateGroupStatusFunc != nil {
		return m.UpdateGroupStatusFunc(ctx, tx, group)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.groups[group.ID]
	if !ok {
		return domain.ErrGroupNotFound
	}
	stored.Status = group.Status
	stored.ReviewedBy = group.ReviewedBy
	stored.ReviewedAt = group.ReviewedAt
	stored.RejectionReason = group.RejectionReason
	for _, e := range stored.Entries {
		e.Status = group.Status
	}
	return nil
}

func (m *MockJournalRepository) ListGroups(ctx context.Context, filter domain.GroupFilter) ([]*domain.JournalGroup, error) {
	if m.ListGroupsFunc != nil {
		return m.ListGroupsFunc(ctx, filter)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.JournalGroup
	for _, g := range m.groups {
		if filter.Status == "" || g.Status == filter.Status {
			result = append(result, m.cloneGroup(g))
		}
	}
	slices.SortFunc(result, func(a, b *domain.JournalGroup) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return result, nil
}

func (m *MockJournalRepository) GetEntryForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.JournalEntry, error) {
	if m.GetEntryForUpdateFunc != nil {
		return m.GetEntryForUpdateFunc(ctx, tx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if e, ok := m.entries[id]; ok {
		clone := *e
		return &clone, nil
	}
	return nil, domain.ErrEntryNotFound
}

func (m *MockJournalRepository) SetEntryComment(ctx context.Context, tx usecase.Transaction, id, comment string) error {
	if m.SetEntryCommentFunc != nil {
		return m.SetEntryCommentFunc(ctx, tx, id, comment)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[id]
	if !ok {
		return domain.ErrEntryNotFound
	}
	e.Comment = comment
	return nil
}

func (m *MockJournalRepository) ListApprovedByAccount(ctx context.Context, accountID string) ([]*domain.JournalEntry, error) {
	if m.ListApprovedByAccountFunc != nil {
		return m.ListApprovedByAccountFunc(ctx, accountID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.JournalEntry
	for _, e := range m.entries {
		if e.AccountID == accountID && e.Status == domain.StatusApproved {
			clone := *e
			result = append(result, &clone)
		}
	}
	return result, nil
}

func (m *MockJournalRepository) ListApproved(ctx context.Context, r domain.DateRange) ([]*domain.JournalEntry, error) {
	if m.ListApprovedFunc != nil {
		return m.ListApprovedFunc(ctx, r)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.JournalEntry
	for _, e := range m.entries {
		if e.Status == domain.StatusApproved && e.InRange(r.Start, r.End) {
			clone := *e
			result = append(result, &clone)
		}
	}
	return result, nil
}

func (m *MockJournalRepository) ApprovedTotals(ctx context.Context) (decimal.Decimal, decimal.Decimal, error) {
	if m.ApprovedTotalsFunc != nil {
		return m.ApprovedTotalsFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	debit, credit := decimal.Zero, decimal.Zero
	for _, e := range m.entries {
		if e.Status == domain.StatusApproved {
			debit = debit.Add(e.Debit)
			credit = credit.Add(e.Credit)
		}
	}
	return debit, credit, nil
}

// MockOutboxRepository is a mock implementation of OutboxRepository.
type MockOutboxRepository struct {
	mu     sync.Mutex
	Events []*domain.OutboxEvent

	CreateFunc          func(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error
	GetUnpublishedFunc  func(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublishedFunc   func(ctx context.Context, ids []string, publishedAt time.Time) error
	DeletePublishedFunc func(ctx context.Context, before time.Time) (int64, error)
}

func NewMockOutboxRepository() *MockOutboxRepository {
	return &MockOutboxRepository{}
}

func (m *MockOutboxRepository) Create(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, event)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, event)
	return nil
}

func (m *MockOutboxRepository) GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	if m.GetUnpublishedFunc != nil {
		return m.GetUnpublishedFunc(ctx, limit)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*domain.OutboxEvent
	for _, e := range m.Events {
		if !e.Published && len(result) < limit {
			result = append(result, e)
		}
	}
	return result, nil
}

func (m *MockOutboxRepository) MarkPublished(ctx context.Context, ids []string, publishedAt time.Time) error {
	if m.MarkPublishedFunc != nil {
		return m.MarkPublishedFunc(ctx, ids, publishedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.Events {
		if slices.Contains(ids, e.ID) && !e.Published {
			e.Published = true
			e.PublishedAt = &publishedAt
		}
	}
	return nil
}

func (m *MockOutboxRepository) DeletePublished(ctx context.Context, before time.Time) (int64, error) {
	if m.DeletePublishedFunc != nil {
		return m.DeletePublishedFunc(ctx, before)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.Events[:0]
	var deleted int64
	for _, e := range m.Events {
		if e.Published && e.PublishedAt != nil && e.PublishedAt.Before(before) {
			deleted++
			continue
		}
		kept = append(kept, e)
	}
	m.Events = kept
	return deleted, nil
}

// EventTypes returns the types of the recorded events in order.
func (m *MockOutboxRepository) EventTypes() []domain.EventType {
	m.mu.Lock()
	defer m.mu.Unlock()
	types := make([]domain.EventType, 0, len(m.Events))
	for _, e := range m.Events {
		types = append(types, e.EventType)
	}
	return types
}

// MockAuditRepository is a mock implementation of AuditRepository.
type MockAuditRepository struct {
	mu   sync.Mutex
	Logs []*domain.AuditLog

	CreateTxFunc func(ctx context.Context, tx usecase.Transaction, log *domain.AuditLog) error
	ListFunc     func(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error)
}

func NewMockAuditRepository() *MockAuditRepository {
	return &MockAuditRepository{}
}

func (m *MockAuditRepository) CreateTx(ctx context.Context, tx usecase.Transaction, log *domain.AuditLog) error {
	if m.CreateTxFunc != nil {
		return m.CreateTxFunc(ctx, tx, log)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, log)
	return nil
}

func (m *MockAuditRepository) List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*domain.AuditLog
	for i := len(m.Logs) - 1; i >= 0; i-- {
		l := m.Logs[i]
		if filter.ResourceType != "" && l.ResourceType != filter.ResourceType {
			continue
		}
		if filter.ResourceID != "" && l.ResourceID != filter.ResourceID {
			continue
		}
		result = append(result, l)
	}
	return result, nil
}

// Actions returns the recorded audit actions in order.
func (m *MockAuditRepository) Actions() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	actions := make([]string, 0, len(m.Logs))
	for _, l := range m.Logs {
		actions = append(actions, l.Action)
	}
	return actions
}

// MockTransactionManager is a mock implementation of TransactionManager.
type MockTransactionManager struct {
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)

	mu      sync.Mutex
	Commits int
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	return &MockTransaction{
		CommitFunc: func(context.Context) error {
			m.mu.Lock()
			defer m.mu.Unlock()
			m.Commits++
			return nil
		},
	}, nil
}

// CommitCount returns how many transactions were committed.
func (m *MockTransactionManager) CommitCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Commits
}

// MockTransaction is a mock implementation of Transaction.
type MockTransaction struct {
	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error
}

func (m *MockTransaction) Commit(ctx context.Context) error {
	if m.CommitFunc != nil {
		return m.CommitFunc(ctx)
	}
	return nil
}

func (m *MockTransaction) Rollback(ctx context.Context) error {
	if m.RollbackFunc != nil {
		return m.RollbackFunc(ctx)
	}
	return nil
}

// MockIDGenerator is a mock implementation of IDGenerator.
type MockIDGenerator struct {
	GenerateFunc func() string
	counter      int
	mu           sync.Mutex
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return "mock-id-" + strconv.Itoa(m.counter)
}

// MockRetrier is a mock implementation of Retrier that retries a fixed number of times.
type MockRetrier struct {
	Attempts  int
	RetryFunc func(ctx context.Context, operation func() error) error
}

func (m *MockRetrier) Retry(ctx context.Context, operation func() error) error {
	if m.RetryFunc != nil {
		return m.RetryFunc(ctx, operation)
	}
	attempts := m.Attempts
	if attempts <= 0 {
		attempts = 1
	}
	var err error
	for range attempts {
		if err = operation(); err == nil {
			return nil
		}
	}
	return err
}

// MockIdempotencyStore is a mock implementation of IdempotencyStore.
type MockIdempotencyStore struct {
	mu   sync.RWMutex
	data map[string][]byte

	CheckAndSetFunc func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	UpdateFunc      func(ctx context.Context, key string, response []byte, ttl time.Duration) error
	ReleaseFunc     func(ctx context.Context, key string) error
}

func NewMockIdempotencyStore() *MockIdempotencyStore {
	return &MockIdempotencyStore{
		data: make(map[string][]byte),
	}
}

func (m *MockIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	if m.CheckAndSetFunc != nil {
		return m.CheckAndSetFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.data[key]; ok {
		return true, existing, nil
	}
	if response != nil {
		m.data[key] = response
	} else {
		m.data[key] = []byte(usecase.IdempotencyPending)
	}
	return false, nil, nil
}

func (m *MockIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = response
	return nil
}

func (m *MockIdempotencyStore) Release(ctx context.Context, key string) error {
	if m.ReleaseFunc != nil {
		return m.ReleaseFunc(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}
