package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/ledgerlogic/internal/domain"
)

// LedgerUseCase projects account ledgers from approved journal entries.
type LedgerUseCase struct {
	accountRepo AccountRepository
	journalRepo JournalRepository
}

// NewLedgerUseCase creates a new LedgerUseCase.
func NewLedgerUseCase(accountRepo AccountRepository, journalRepo JournalRepository) *LedgerUseCase {
	return &LedgerUseCase{
		accountRepo: accountRepo,
		journalRepo: journalRepo,
	}
}

// Project loads an account and its approved entries and returns the running
// balance projection. Nothing is cached between calls.
func (uc *LedgerUseCase) Project(ctx context.Context, accountID string) (*domain.Projection, error) {
	account, err := uc.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	entries, err := uc.journalRepo.ListApprovedByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	return domain.NewProjection(account, entries), nil
}

// Balance returns the ending balance of an account.
func (uc *LedgerUseCase) Balance(ctx context.Context, accountID string) (decimal.Decimal, error) {
	p, err := uc.Project(ctx, accountID)
	if err != nil {
		return decimal.Zero, err
	}
	return p.EndingBalance(), nil
}

// ConsistencyReport is the outcome of a journal-wide balance check.
type ConsistencyReport struct {
	TotalDebit  decimal.Decimal
	TotalCredit decimal.Decimal
	Difference  decimal.Decimal
	Consistent  bool
	CheckedAt   time.Time
}

// CheckConsistency verifies that approved debits equal approved credits
// across the whole journal. An imbalance is reported, never repaired.
func (uc *LedgerUseCase) CheckConsistency(ctx context.Context) (*ConsistencyReport, error) {
	debit, credit, err := uc.journalRepo.ApprovedTotals(ctx)
	if err != nil {
		return nil, err
	}

	diff := debit.Sub(credit)
	return &ConsistencyReport{
		TotalDebit:  debit,
		TotalCredit: credit,
		Difference:  diff,
		Consistent:  diff.IsZero(),
		CheckedAt:   time.Now().UTC(),
	}, nil
}
