package domain

import (
	"iter"
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// LedgerRow is one account's balance after a single approved entry.
type LedgerRow struct {
	EntryID  string
	GroupID  string
	Date     time.Time
	Sequence int64
	Debit    decimal.Decimal
	Credit   decimal.Decimal
	Balance  decimal.Decimal
}

// Projection derives the running balance of an account from its approved entries.
// It holds no balance state; every iteration recomputes from the initial balance.
type Projection struct {
	account *Account
	entries []*JournalEntry
}

// NewProjection keeps the approved entries of account and orders them by date,
// then by insertion sequence.
func NewProjection(account *Account, entries []*JournalEntry) *Projection {
	approved := make([]*JournalEntry, 0, len(entries))
	for _, e := range entries {
		if e.AccountID == account.ID && e.Status == StatusApproved {
			approved = append(approved, e)
		}
	}

	slices.SortStableFunc(approved, compareEntries)

	return &Projection{account: account, entries: approved}
}

func compareEntries(a, b *JournalEntry) int {
	if c := a.Date.Compare(b.Date); c != 0 {
		return c
	}
	switch {
	case a.Sequence < b.Sequence:
		return -1
	case a.Sequence > b.Sequence:
		return 1
	}
	return 0
}

// Account returns the projected account.
func (p *Projection) Account() *Account {
	return p.account
}

// Len returns the number of rows the projection yields.
func (p *Projection) Len() int {
	return len(p.entries)
}

// Rows yields ledger rows lazily. The sequence can be ranged over any number of times.
func (p *Projection) Rows() iter.Seq[LedgerRow] {
	return func(yield func(LedgerRow) bool) {
		balance := p.account.InitialBalance
		for _, e := range p.entries {
			balance = p.account.Apply(balance, e.Side(), e.Amount())
			row := LedgerRow{
				EntryID:  e.ID,
				GroupID:  e.GroupID,
				Date:     e.Date,
				Sequence: e.Sequence,
				Debit:    e.Debit,
				Credit:   e.Credit,
				Balance:  balance,
			}
			if !yield(row) {
				return
			}
		}
	}
}

// Collect materialises all rows.
func (p *Projection) Collect() []LedgerRow {
	return slices.Collect(p.Rows())
}

// EndingBalance returns the balance after the last row, or the initial balance.
func (p *Projection) EndingBalance() decimal.Decimal {
	balance := p.account.InitialBalance
	for row := range p.Rows() {
		balance = row.Balance
	}
	return balance
}

// BalanceAt returns the balance after every row dated on or before at.
func (p *Projection) BalanceAt(at time.Time) decimal.Decimal {
	balance := p.account.InitialBalance
	for row := range p.Rows() {
		if row.Date.After(at) {
			break
		}
		balance = row.Balance
	}
	return balance
}
