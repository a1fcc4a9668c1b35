package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/ledgerlogic/internal/domain"
)

// AccountRepository defines data access for the chart of accounts.
type AccountRepository interface {
	Create(ctx context.Context, tx Transaction, account *domain.Account) error
	Update(ctx context.Context, tx Transaction, account *domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Account, error)
	GetByIDsForUpdate(ctx context.Context, tx Transaction, ids []string) ([]*domain.Account, error)
	ExistsByNumberOrName(ctx context.Context, tx Transaction, number int64, name, excludeID string) (numberTaken, nameTaken bool, err error)
	List(ctx context.Context, filter domain.AccountFilter) ([]*domain.Account, error)
	ListAll(ctx context.Context) ([]*domain.Account, error)
}

// JournalRepository defines data access for journal groups and entries.
type JournalRepository interface {
	CreateGroup(ctx context.Context, tx Transaction, group *domain.JournalGroup) error
	GetGroup(ctx context.Context, id string) (*domain.JournalGroup, error)
	GetGroupForUpdate(ctx context.Context, tx Transaction, id string) (*domain.JournalGroup, error)
	UpdateGroupStatus(ctx context.Context, tx Transaction, group *domain.JournalGroup) error
	ListGroups(ctx context.Context, filter domain.GroupFilter) ([]*domain.JournalGroup, error)
	GetEntryForUpdate(ctx context.Context, tx Transaction, id string) (*domain.JournalEntry, error)
	SetEntryComment(ctx context.Context, tx Transaction, id, comment string) error
	ListApprovedByAccount(ctx context.Context, accountID string) ([]*domain.JournalEntry, error)
	ListApproved(ctx context.Context, r domain.DateRange) ([]*domain.JournalEntry, error)
	ApprovedTotals(ctx context.Context) (debit, credit decimal.Decimal, err error)
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, ids []string, publishedAt time.Time) error
	DeletePublished(ctx context.Context, before time.Time) (int64, error)
}

// AuditRepository defines data access for the change log.
type AuditRepository interface {
	CreateTx(ctx context.Context, tx Transaction, log *domain.AuditLog) error
	List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier re-runs an operation on transient storage conflicts.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release drops a key so the request can be retried.
	Release(ctx context.Context, key string) error
}
