package domain

import (
	"cmp"
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// DateFormat is the calendar date layout used for entry dates and ranges.
const DateFormat = "2006-01-02"

// DateRange is an inclusive range of calendar dates. A nil bound is open.
type DateRange struct {
	Start *time.Time
	End   *time.Time
}

// Validate rejects ranges whose start is after their end.
func (r DateRange) Validate() error {
	return ValidateDateRange(r.Start, r.End)
}

// Key renders the range as "start..end" with "*" for open bounds.
func (r DateRange) Key() string {
	format := func(t *time.Time) string {
		if t == nil {
			return "*"
		}
		return t.Format(DateFormat)
	}
	return format(r.Start) + ".." + format(r.End)
}

// AccountTotal is one account's activity inside a statement range.
type AccountTotal struct {
	AccountID   string
	Number      int64
	Name        string
	Category    Category
	Subcategory string
	NormalSide  Side
	Order       int
	Debit       decimal.Decimal
	Credit      decimal.Decimal
	Balance     decimal.Decimal
}

// CategoryTotals rolls up the accounts of one category. Balance is signed by
// the category's default normal side, so contra accounts reduce it.
type CategoryTotals struct {
	Category Category
	Accounts []AccountTotal
	Debit    decimal.Decimal
	Credit   decimal.Decimal
	Balance  decimal.Decimal
}

func newCategoryTotals(c Category) CategoryTotals {
	return CategoryTotals{
		Category: c,
		Accounts: []AccountTotal{},
		Debit:    decimal.Zero,
		Credit:   decimal.Zero,
		Balance:  decimal.Zero,
	}
}

// StatementTotals aggregates approved activity over a date range.
type StatementTotals struct {
	Range       DateRange
	Assets      CategoryTotals
	Liabilities CategoryTotals
	Equity      CategoryTotals
	Revenue     CategoryTotals
	Expenses    CategoryTotals

	// Subtotals holds balances keyed by "category:subcategory", signed the
	// same way as the category totals.
	Subtotals map[string]decimal.Decimal

	// Dividends is debit minus credit over the dividends accounts,
	// whatever their normal side.
	Dividends decimal.Decimal

	TotalAssets               decimal.Decimal
	TotalLiabilities          decimal.Decimal
	TotalEquity               decimal.Decimal
	TotalLiabilitiesAndEquity decimal.Decimal
	TotalRevenue              decimal.Decimal
	TotalExpenses             decimal.Decimal
	NetIncome                 decimal.Decimal
	GeneratedAt               time.Time
}

// SubtotalKey builds the key used in StatementTotals.Subtotals.
func SubtotalKey(c Category, subcategory string) string {
	return string(c) + ":" + subcategory
}

// Subtotal returns the summed balance of accounts with the given subcategory.
func (s *StatementTotals) Subtotal(c Category, subcategory string) decimal.Decimal {
	if v, ok := s.Subtotals[SubtotalKey(c, subcategory)]; ok {
		return v
	}
	return decimal.Zero
}

// Category returns the totals of one category.
func (s *StatementTotals) Category(c Category) *CategoryTotals {
	switch c {
	case CategoryAsset:
		return &s.Assets
	case CategoryLiability:
		return &s.Liabilities
	case CategoryEquity:
		return &s.Equity
	case CategoryRevenue:
		return &s.Revenue
	case CategoryExpense:
		return &s.Expenses
	}
	return nil
}

// BuildStatement sums approved entries dated inside r per account and rolls
// them up by category. Accounts without qualifying entries produce no row.
func BuildStatement(accounts []*Account, entries []*JournalEntry, r DateRange) *StatementTotals {
	st := &StatementTotals{
		Range:       r,
		Assets:      newCategoryTotals(CategoryAsset),
		Liabilities: newCategoryTotals(CategoryLiability),
		Equity:      newCategoryTotals(CategoryEquity),
		Revenue:     newCategoryTotals(CategoryRevenue),
		Expenses:    newCategoryTotals(CategoryExpense),
		Subtotals:   make(map[string]decimal.Decimal),
		Dividends:   decimal.Zero,
	}

	byID := make(map[string]*Account, len(accounts))
	for _, a := range accounts {
		byID[a.ID] = a
	}

	rows := make(map[string]*AccountTotal)
	for _, e := range entries {
		if e.Status != StatusApproved || !e.InRange(r.Start, r.End) {
			continue
		}
		acc, ok := byID[e.AccountID]
		if !ok {
			continue
		}
		row, ok := rows[acc.ID]
		if !ok {
			row = &AccountTotal{
				AccountID:   acc.ID,
				Number:      acc.Number,
				Name:        acc.Name,
				Category:    acc.Category,
				Subcategory: acc.Subcategory,
				NormalSide:  acc.NormalSide,
				Order:       acc.Order,
				Debit:       decimal.Zero,
				Credit:      decimal.Zero,
			}
			rows[acc.ID] = row
		}
		row.Debit = row.Debit.Add(e.Debit)
		row.Credit = row.Credit.Add(e.Credit)
	}

	for _, row := range rows {
		acc := byID[row.AccountID]
		row.Balance = acc.Net(row.Debit, row.Credit)

		cat := st.Category(row.Category)
		if cat == nil {
			continue
		}
		contribution := row.Balance
		if row.NormalSide != row.Category.DefaultNormalSide() {
			contribution = contribution.Neg()
		}
		cat.Accounts = append(cat.Accounts, *row)
		cat.Debit = cat.Debit.Add(row.Debit)
		cat.Credit = cat.Credit.Add(row.Credit)
		cat.Balance = cat.Balance.Add(contribution)

		if row.Subcategory != "" {
			key := SubtotalKey(row.Category, row.Subcategory)
			st.Subtotals[key] = st.Subtotal(row.Category, row.Subcategory).Add(contribution)
		}
		if row.Category == CategoryEquity && row.Subcategory == SubcategoryDividends {
			st.Dividends = st.Dividends.Add(row.Debit.Sub(row.Credit))
		}
	}

	for _, c := range Categories {
		slices.SortFunc(st.Category(c).Accounts, compareAccountTotals)
	}

	st.TotalAssets = st.Assets.Balance
	st.TotalLiabilities = st.Liabilities.Balance
	st.TotalEquity = st.Equity.Balance
	st.TotalLiabilitiesAndEquity = st.TotalLiabilities.Add(st.TotalEquity)
	st.TotalRevenue = st.Revenue.Balance
	st.TotalExpenses = st.Expenses.Balance
	st.NetIncome = st.TotalRevenue.Sub(st.TotalExpenses)

	return st
}

func compareAccountTotals(a, b AccountTotal) int {
	if c := cmp.Compare(a.Order, b.Order); c != 0 {
		return c
	}
	return cmp.Compare(a.Number, b.Number)
}

// TrialBalanceRow lists the debit and credit totals of one account.
type TrialBalanceRow struct {
	AccountID string
	Number    int64
	Name      string
	Category  Category
	Debit     decimal.Decimal
	Credit    decimal.Decimal
}

// TrialBalance lists every account with activity and the column totals.
type TrialBalance struct {
	Range       DateRange
	Rows        []TrialBalanceRow
	TotalDebit  decimal.Decimal
	TotalCredit decimal.Decimal
	Balanced    bool
}

// TrialBalance derives the trial balance from the statement rows.
func (s *StatementTotals) TrialBalance() TrialBalance {
	tb := TrialBalance{
		Range:       s.Range,
		Rows:        []TrialBalanceRow{},
		TotalDebit:  decimal.Zero,
		TotalCredit: decimal.Zero,
	}
	for _, c := range Categories {
		for _, a := range s.Category(c).Accounts {
			tb.Rows = append(tb.Rows, TrialBalanceRow{
				AccountID: a.AccountID,
				Number:    a.Number,
				Name:      a.Name,
				Category:  a.Category,
				Debit:     a.Debit,
				Credit:    a.Credit,
			})
			tb.TotalDebit = tb.TotalDebit.Add(a.Debit)
			tb.TotalCredit = tb.TotalCredit.Add(a.Credit)
		}
	}
	slices.SortFunc(tb.Rows, func(a, b TrialBalanceRow) int { return cmp.Compare(a.Number, b.Number) })
	tb.Balanced = tb.TotalDebit.Equal(tb.TotalCredit)
	return tb
}

// IncomeStatement is the revenue and expense view of a statement.
type IncomeStatement struct {
	Range         DateRange
	Revenue       CategoryTotals
	Expenses      CategoryTotals
	TotalRevenue  decimal.Decimal
	TotalExpenses decimal.Decimal
	NetIncome     decimal.Decimal
}

// IncomeStatement returns the income statement view.
func (s *StatementTotals) IncomeStatement() IncomeStatement {
	return IncomeStatement{
		Range:         s.Range,
		Revenue:       s.Revenue,
		Expenses:      s.Expenses,
		TotalRevenue:  s.TotalRevenue,
		TotalExpenses: s.TotalExpenses,
		NetIncome:     s.NetIncome,
	}
}

// BalanceSheet is the asset, liability and equity view of a statement.
type BalanceSheet struct {
	Range                     DateRange
	Assets                    CategoryTotals
	Liabilities               CategoryTotals
	Equity                    CategoryTotals
	TotalAssets               decimal.Decimal
	TotalLiabilities          decimal.Decimal
	TotalEquity               decimal.Decimal
	TotalLiabilitiesAndEquity decimal.Decimal
}

// BalanceSheet returns the balance sheet view.
func (s *StatementTotals) BalanceSheet() BalanceSheet {
	return BalanceSheet{
		Range:                     s.Range,
		Assets:                    s.Assets,
		Liabilities:               s.Liabilities,
		Equity:                    s.Equity,
		TotalAssets:               s.TotalAssets,
		TotalLiabilities:          s.TotalLiabilities,
		TotalEquity:               s.TotalEquity,
		TotalLiabilitiesAndEquity: s.TotalLiabilitiesAndEquity,
	}
}

// RetainedEarnings is the statement of retained earnings for a range.
type RetainedEarnings struct {
	Range     DateRange
	Beginning decimal.Decimal
	NetIncome decimal.Decimal
	Dividends decimal.Decimal
	Ending    decimal.Decimal
}

// RetainedEarnings computes beginning + net income - dividends.
func (s *StatementTotals) RetainedEarnings(beginning decimal.Decimal) RetainedEarnings {
	dividends := s.Dividends
	return RetainedEarnings{
		Range:     s.Range,
		Beginning: beginning,
		NetIncome: s.NetIncome,
		Dividends: dividends,
		Ending:    beginning.Add(s.NetIncome).Sub(dividends),
	}
}
