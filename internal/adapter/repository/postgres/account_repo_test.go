package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"

	"github.com/iho/ledgerlogic/internal/domain"
)

var accountColumns = []string{
	"id", "number", "name", "description", "category", "subcategory", "normal_side",
	"initial_balance", "active", "display_order", "comment", "created_by", "created_at", "updated_at",
}

func accountRow(rows *pgxmock.Rows, id string, number int64, name string, category domain.Category, balance string) *pgxmock.Rows {
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	return rows.AddRow(
		id, number, name, "", string(category), "", string(category.DefaultNormalSide()),
		decimalToNumeric(decimal.RequireFromString(balance)), true, int32(1), "", "admin",
		pgtype.Timestamptz{Time: now, Valid: true}, pgtype.Timestamptz{Time: now, Valid: true},
	)
}

func TestAccountRepositoryGetByID(t *testing.T) {
	pool := newMockPool(t)
	repo := NewAccountRepository(pool)

	pool.ExpectQuery(`FROM accounts WHERE id = \$1`).
		WithArgs("acc-1").
		WillReturnRows(accountRow(pgxmock.NewRows(accountColumns), "acc-1", 1010, "Cash", domain.CategoryAsset, "125.50"))

	account, err := repo.GetByID(context.Background(), "acc-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if account.Number != 1010 || account.Name != "Cash" {
		t.Fatalf("unexpected account: %+v", account)
	}
	if account.Category != domain.CategoryAsset || account.NormalSide != domain.SideDebit {
		t.Fatalf("unexpected classification: %s/%s", account.Category, account.NormalSide)
	}
	if !account.InitialBalance.Equal(decimal.RequireFromString("125.50")) {
		t.Fatalf("expected initial balance 125.50, got %s", account.InitialBalance)
	}

	assertExpectations(t, pool)
}

func TestAccountRepositoryGetByIDNotFound(t *testing.T) {
	pool := newMockPool(t)
	repo := NewAccountRepository(pool)

	pool.ExpectQuery(`FROM accounts WHERE id = \$1`).
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing")
	if !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestAccountRepositoryCreateInTransaction(t *testing.T) {
	pool := newMockPool(t)
	repo := NewAccountRepository(pool)

	pool.ExpectBegin()
	pool.ExpectExec(`INSERT INTO accounts`).
		WithArgs(
			"acc-1", int64(1010), "Cash", "", "asset", "cash", "debit",
			pgxmock.AnyArg(), true, int32(3), "", "admin", pgxmock.AnyArg(), pgxmock.AnyArg(),
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	pool.ExpectCommit()

	tx := beginTx(t, pool)
	err := repo.Create(context.Background(), tx, &domain.Account{
		ID:          "acc-1",
		Number:      1010,
		Name:        "Cash",
		Category:    domain.CategoryAsset,
		Subcategory: domain.SubcategoryCash,
		NormalSide:  domain.SideDebit,
		Active:      true,
		Order:       3,
		CreatedBy:   "admin",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := tx.Commit(context.Background()); err != nil {
		t.Fatalf("commit failed: %v", err)
	}

	assertExpectations(t, pool)
}

func TestAccountRepositoryExistsByNumberOrName(t *testing.T) {
	pool := newMockPool(t)
	repo := NewAccountRepository(pool)

	pool.ExpectQuery(`EXISTS`).
		WithArgs(int64(1010), "Cash", "acc-2").
		WillReturnRows(pgxmock.NewRows([]string{"number_taken", "name_taken"}).AddRow(false, true))

	numberTaken, nameTaken, err := repo.ExistsByNumberOrName(context.Background(), nil, 1010, "Cash", "acc-2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if numberTaken || !nameTaken {
		t.Fatalf("expected only the name to be taken, got number=%v name=%v", numberTaken, nameTaken)
	}

	assertExpectations(t, pool)
}

func TestAccountRepositoryListAppliesFilter(t *testing.T) {
	pool := newMockPool(t)
	repo := NewAccountRepository(pool)

	rows := pgxmock.NewRows(accountColumns)
	accountRow(rows, "acc-1", 4010, "Sales", domain.CategoryRevenue, "0")
	accountRow(rows, "acc-2", 4020, "Other income", domain.CategoryRevenue, "0")

	pool.ExpectQuery(`FROM accounts`).
		WithArgs(true, "revenue", int32(50), int32(0)).
		WillReturnRows(rows)

	accounts, err := repo.List(context.Background(), domain.AccountFilter{
		ActiveOnly: true,
		Category:   domain.CategoryRevenue,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(accounts) != 2 || accounts[1].Name != "Other income" {
		t.Fatalf("unexpected accounts: %+v", accounts)
	}
	if accounts[0].NormalSide != domain.SideCredit {
		t.Fatalf("expected revenue to be credit normal, got %s", accounts[0].NormalSide)
	}

	assertExpectations(t, pool)
}

func TestNumericRoundTrip(t *testing.T) {
	for _, s := range []string{"0", "1", "125.5", "-42.0001", "1000000000000"} {
		d := decimal.RequireFromString(s)
		if got := numericToDecimal(decimalToNumeric(d)); !got.Equal(d) {
			t.Fatalf("round trip of %s gave %s", s, got)
		}
	}

	if got := numericToDecimal(pgtype.Numeric{}); !got.IsZero() {
		t.Fatalf("expected NULL numeric to be zero, got %s", got)
	}
}

func TestDateToTimeNormalisesToUTCMidnight(t *testing.T) {
	local := time.Date(2025, 3, 9, 22, 30, 0, 0, time.FixedZone("X", 5*3600))

	got := dateToTime(timeToPgDate(local))
	want := time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("expected %s, got %s", want, got)
	}

	if !dateToTime(pgtype.Date{}).IsZero() {
		t.Fatalf("expected NULL date to be zero time")
	}
}
