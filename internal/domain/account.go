package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Category is the top-level classification of an account.
type Category string

const (
	CategoryAsset     Category = "asset"
	CategoryLiability Category = "liability"
	CategoryEquity    Category = "equity"
	CategoryRevenue   Category = "revenue"
	CategoryExpense   Category = "expense"
)

// Categories lists every category in statement order.
var Categories = []Category{
	CategoryAsset,
	CategoryLiability,
	CategoryEquity,
	CategoryRevenue,
	CategoryExpense,
}

// ParseCategory accepts singular and plural spellings in any case.
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "asset", "assets":
		return CategoryAsset, nil
	case "liability", "liabilities":
		return CategoryLiability, nil
	case "equity":
		return CategoryEquity, nil
	case "revenue", "revenues":
		return CategoryRevenue, nil
	case "expense", "expenses":
		return CategoryExpense, nil
	}
	return "", ErrInvalidCategory
}

// IsValid reports whether c is a known category.
func (c Category) IsValid() bool {
	switch c {
	case CategoryAsset, CategoryLiability, CategoryEquity, CategoryRevenue, CategoryExpense:
		return true
	}
	return false
}

// DefaultNormalSide is the side on which accounts of this category usually grow.
func (c Category) DefaultNormalSide() Side {
	switch c {
	case CategoryAsset, CategoryExpense:
		return SideDebit
	default:
		return SideCredit
	}
}

// Statement reports which financial statement the category belongs to.
func (c Category) Statement() StatementKind {
	switch c {
	case CategoryRevenue, CategoryExpense:
		return StatementIncome
	default:
		return StatementBalanceSheet
	}
}

// StatementKind identifies a financial statement.
type StatementKind string

const (
	StatementBalanceSheet StatementKind = "BS"
	StatementIncome       StatementKind = "IS"
)

// Subcategories recognised by the ratio calculator.
const (
	SubcategoryCash              = "cash"
	SubcategoryReceivables       = "receivables"
	SubcategoryInventory         = "inventory"
	SubcategoryCurrentAsset      = "current_asset"
	SubcategoryNonCurrentAsset   = "non_current_asset"
	SubcategoryCurrentLiability  = "current_liability"
	SubcategoryCurrentDebt       = "current_debt"
	SubcategoryLongTermLiability = "long_term_liability"
	SubcategorySales             = "sales"
	SubcategoryOtherRevenue      = "other_revenue"
	SubcategoryCostOfSales       = "cost_of_sales"
	SubcategoryInterestExpense   = "interest_expense"
	SubcategoryDepreciation      = "depreciation"
	SubcategoryDividends         = "dividends"
)

// Account is a chart-of-accounts entry. Balances are never stored on it;
// they are projected from approved journal entries.
type Account struct {
	ID             string
	Number         int64
	Name           string
	Description    string
	Category       Category
	Subcategory    string
	NormalSide     Side
	InitialBalance decimal.Decimal
	Active         bool
	Order          int
	Comment        string
	CreatedBy      string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Validate checks the invariants of a new account.
func (a *Account) Validate() error {
	if err := ValidateAccountNumber(a.Number); err != nil {
		return err
	}
	if err := ValidateAccountName(a.Name); err != nil {
		return err
	}
	if err := ValidateDescription(a.Description); err != nil {
		return err
	}
	if !a.Category.IsValid() {
		return ErrInvalidCategory
	}
	if !a.NormalSide.IsValid() {
		return ErrInvalidNormalSide
	}
	return ValidateScale("initial_balance", a.InitialBalance)
}

// Apply returns balance adjusted by an amount booked on side.
// The amount increases the balance on the normal side and decreases it otherwise.
func (a *Account) Apply(balance decimal.Decimal, side Side, amount decimal.Decimal) decimal.Decimal {
	if side == a.NormalSide {
		return balance.Add(amount)
	}
	return balance.Sub(amount)
}

// Net returns the normal-side signed difference of debit and credit totals.
func (a *Account) Net(debit, credit decimal.Decimal) decimal.Decimal {
	if a.NormalSide == SideDebit {
		return debit.Sub(credit)
	}
	return credit.Sub(debit)
}

// IsCurrentAsset reports whether the account counts toward current assets.
func (a *Account) IsCurrentAsset() bool {
	if a.Category != CategoryAsset {
		return false
	}
	switch a.Subcategory {
	case SubcategoryCash, SubcategoryReceivables, SubcategoryInventory, SubcategoryCurrentAsset:
		return true
	}
	return false
}

// IsCurrentLiability reports whether the account counts toward current liabilities.
func (a *Account) IsCurrentLiability() bool {
	if a.Category != CategoryLiability {
		return false
	}
	return a.Subcategory == SubcategoryCurrentLiability || a.Subcategory == SubcategoryCurrentDebt
}

// AccountFilter narrows account listings.
type AccountFilter struct {
	ActiveOnly bool
	Category   Category
	Limit      int
	Offset     int
}

// Matches reports whether the account passes the filter, ignoring pagination.
func (f AccountFilter) Matches(a *Account) bool {
	if f.ActiveOnly && !a.Active {
		return false
	}
	if f.Category != "" && a.Category != f.Category {
		return false
	}
	return true
}
