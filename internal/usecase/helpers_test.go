package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/ledgerlogic/internal/domain"
	"github.com/iho/ledgerlogic/internal/usecase"
	"github.com/iho/ledgerlogic/internal/usecase/mocks"
)

type fixture struct {
	tx       *mocks.MockTransactionManager
	accounts *mocks.MockAccountRepository
	journal  *mocks.MockJournalRepository
	outbox   *mocks.MockOutboxRepository
	audit    *mocks.MockAuditRepository
	idGen    *mocks.MockIDGenerator
}

func newFixture() *fixture {
	return &fixture{
		tx:       mocks.NewMockTransactionManager(),
		accounts: mocks.NewMockAccountRepository(),
		journal:  mocks.NewMockJournalRepository(),
		outbox:   mocks.NewMockOutboxRepository(),
		audit:    mocks.NewMockAuditRepository(),
		idGen:    mocks.NewMockIDGenerator(),
	}
}

func (f *fixture) accountUseCase() *usecase.AccountUseCase {
	return usecase.NewAccountUseCase(f.tx, f.accounts, f.journal, f.outbox, f.audit, nil, f.idGen, nil)
}

func (f *fixture) journalUseCase() *usecase.JournalUseCase {
	return usecase.NewJournalUseCase(f.tx, f.accounts, f.journal, f.outbox, f.audit, nil, nil, f.idGen, nil)
}

func (f *fixture) seedChart() {
	f.accounts.Seed(
		&domain.Account{ID: "cash", Number: 1010, Name: "Cash", Category: domain.CategoryAsset, Subcategory: domain.SubcategoryCash, NormalSide: domain.SideDebit, Active: true},
		&domain.Account{ID: "payable", Number: 2010, Name: "Accounts Payable", Category: domain.CategoryLiability, Subcategory: domain.SubcategoryCurrentLiability, NormalSide: domain.SideCredit, Active: true},
		&domain.Account{ID: "capital", Number: 3010, Name: "Owner Capital", Category: domain.CategoryEquity, NormalSide: domain.SideCredit, Active: true},
		&domain.Account{ID: "sales", Number: 4010, Name: "Sales", Category: domain.CategoryRevenue, Subcategory: domain.SubcategorySales, NormalSide: domain.SideCredit, Active: true},
		&domain.Account{ID: "rent", Number: 5010, Name: "Rent", Category: domain.CategoryExpense, NormalSide: domain.SideDebit, Active: true},
		&domain.Account{ID: "closed", Number: 1090, Name: "Old Bank", Category: domain.CategoryAsset, NormalSide: domain.SideDebit, Active: false},
	)
}

// post submits and approves a two-line group moving amount from credit to debit.
func (f *fixture) post(t *testing.T, ctx context.Context, debitID, creditID string, amount int64, date time.Time) *domain.JournalGroup {
	t.Helper()
	uc := f.journalUseCase()
	group, err := uc.SubmitGroup(ctx, twoLines(debitID, creditID, amount, date))
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	group, err = uc.ReviewGroup(ctx, usecase.ReviewInput{GroupID: group.ID, Decision: domain.DecisionApprove})
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	return group
}

func twoLines(debitID, creditID string, amount int64, date time.Time) usecase.SubmitGroupInput {
	return usecase.SubmitGroupInput{
		Description: "test group",
		Lines: []usecase.JournalLineInput{
			{AccountID: debitID, Date: date, Debit: decimal.NewFromInt(amount)},
			{AccountID: creditID, Date: date, Credit: decimal.NewFromInt(amount)},
		},
	}
}

func day(s string) time.Time {
	t, err := time.Parse(domain.DateFormat, s)
	if err != nil {
		panic(err)
	}
	return t
}

func ptr[T any](v T) *T {
	return &v
}
