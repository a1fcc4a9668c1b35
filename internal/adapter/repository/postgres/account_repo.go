package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/iho/ledgerlogic/internal/domain"
	"github.com/iho/ledgerlogic/internal/infrastructure/postgres/generated"
	"github.com/iho/ledgerlogic/internal/usecase"
)

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	queries *generated.Queries
}

// NewAccountRepository creates a new AccountRepository. db is usually a *pgxpool.Pool.
func NewAccountRepository(db generated.DBTX) *AccountRepository {
	return &AccountRepository{queries: generated.New(db)}
}

// Create inserts a new account.
func (r *AccountRepository) Create(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	return txQueries(tx).CreateAccount(ctx, generated.CreateAccountParams{
		ID:             account.ID,
		Number:         account.Number,
		Name:           account.Name,
		Description:    account.Description,
		Category:       string(account.Category),
		Subcategory:    account.Subcategory,
		NormalSide:     string(account.NormalSide),
		InitialBalance: decimalToNumeric(account.InitialBalance),
		Active:         account.Active,
		DisplayOrder:   int32(account.Order),
		Comment:        account.Comment,
		CreatedBy:      account.CreatedBy,
		CreatedAt:      timeToPgTimestamptz(account.CreatedAt),
		UpdatedAt:      timeToPgTimestamptz(account.UpdatedAt),
	})
}

// Update writes the mutable fields of an account.
func (r *AccountRepository) Update(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	return txQueries(tx).UpdateAccount(ctx, generated.UpdateAccountParams{
		ID:           account.ID,
		Name:         account.Name,
		Description:  account.Description,
		Subcategory:  account.Subcategory,
		DisplayOrder: int32(account.Order),
		Comment:      account.Comment,
		Active:       account.Active,
		UpdatedAt:    timeToPgTimestamptz(account.UpdatedAt),
	})
}

// GetByID retrieves an account by ID.
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	row, err := r.queries.GetAccountByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}

		return nil, err
	}

	return rowToAccount(row), nil
}

// GetByIDForUpdate retrieves an account by ID with a FOR UPDATE lock.
func (r *AccountRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error) {
	row, err := txQueries(tx).GetAccountByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}

		return nil, err
	}

	return rowToAccount(row), nil
}

// GetByIDsForUpdate locks the given accounts in ID order. Missing IDs are
// simply absent from the result.
func (r *AccountRepository) GetByIDsForUpdate(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.Account, error) {
	rows, err := txQueries(tx).GetAccountsByIDsForUpdate(ctx, ids)
	if err != nil {
		return nil, err
	}

	return rowsToAccounts(rows), nil
}

// ExistsByNumberOrName reports whether another account already uses number or name.
func (r *AccountRepository) ExistsByNumberOrName(ctx context.Context, tx usecase.Transaction, number int64, name, excludeID string) (bool, bool, error) {
	q := r.queries
	if tx != nil {
		q = txQueries(tx)
	}

	row, err := q.AccountConflicts(ctx, generated.AccountConflictsParams{
		Number: number,
		Name:   name,
		ID:     excludeID,
	})
	if err != nil {
		return false, false, err
	}

	return row.NumberTaken, row.NameTaken, nil
}

// List lists accounts matching filter ordered by display order and number.
func (r *AccountRepository) List(ctx context.Context, filter domain.AccountFilter) ([]*domain.Account, error) {
	limit, offset := domain.ValidatePagination(filter.Limit, filter.Offset)

	rows, err := r.queries.ListAccounts(ctx, generated.ListAccountsParams{
		Column1: filter.ActiveOnly,
		Column2: string(filter.Category),
		Limit:   int32(limit),
		Offset:  int32(offset),
	})
	if err != nil {
		return nil, err
	}

	return rowsToAccounts(rows), nil
}

// ListAll returns the whole chart of accounts.
func (r *AccountRepository) ListAll(ctx context.Context) ([]*domain.Account, error) {
	rows, err := r.queries.ListAllAccounts(ctx)
	if err != nil {
		return nil, err
	}

	return rowsToAccounts(rows), nil
}

func rowsToAccounts(rows []generated.Account) []*domain.Account {
	accounts := make([]*domain.Account, 0, len(rows))
	for _, row := range rows {
		accounts = append(accounts, rowToAccount(row))
	}

	return accounts
}

func rowToAccount(row generated.Account) *domain.Account {
	return &domain.Account{
		ID:             row.ID,
		Number:         row.Number,
		Name:           row.Name,
		Description:    row.Description,
		Category:       domain.Category(row.Category),
		Subcategory:    row.Subcategory,
		NormalSide:     domain.Side(row.NormalSide),
		InitialBalance: numericToDecimal(row.InitialBalance),
		Active:         row.Active,
		Order:          int(row.DisplayOrder),
		Comment:        row.Comment,
		CreatedBy:      row.CreatedBy,
		CreatedAt:      row.CreatedAt.Time,
		UpdatedAt:      row.UpdatedAt.Time,
	}
}

// Type conversion helpers.
func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric

	_ = n.Scan(d.String())

	return n
}

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}

	d, _ := decimal.NewFromString(n.Int.String())
	if n.Exp != 0 {
		d = d.Shift(n.Exp)
	}

	return d
}

func timeToPgTimestamptz(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: true}
}

func optionalTimestamptz(t *time.Time) pgtype.Timestamptz {
	if t == nil {
		return pgtype.Timestamptz{}
	}
	return timeToPgTimestamptz(*t)
}

func timeToPgDate(t time.Time) pgtype.Date {
	return pgtype.Date{Time: t, Valid: true}
}

func optionalDate(t *time.Time) pgtype.Date {
	if t == nil {
		return pgtype.Date{}
	}
	return timeToPgDate(*t)
}

func dateToTime(d pgtype.Date) time.Time {
	if !d.Valid {
		return time.Time{}
	}
	return time.Date(d.Time.Year(), d.Time.Month(), d.Time.Day(), 0, 0, 0, 0, time.UTC)
}
