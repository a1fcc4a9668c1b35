package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/ledgerlogic/internal/domain"
	"github.com/iho/ledgerlogic/internal/usecase"
)

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	ID             string          `json:"id"`
	Number         int64           `json:"number"`
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	Category       string          `json:"category"`
	Subcategory    string          `json:"subcategory"`
	NormalSide     string          `json:"normal_side"`
	Statement      string          `json:"statement"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
	Active         bool            `json:"active"`
	Order          int             `json:"order"`
	Comment        string          `json:"comment"`
	CreatedBy      string          `json:"created_by"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// AccountFromDomain converts domain account to response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		ID:             a.ID,
		Number:         a.Number,
		Name:           a.Name,
		Description:    a.Description,
		Category:       string(a.Category),
		Subcategory:    a.Subcategory,
		NormalSide:     string(a.NormalSide),
		Statement:      string(a.Category.Statement()),
		InitialBalance: a.InitialBalance,
		Active:         a.Active,
		Order:          a.Order,
		Comment:        a.Comment,
		CreatedBy:      a.CreatedBy,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}

// AccountsFromDomain converts domain accounts to responses.
func AccountsFromDomain(accounts []*domain.Account) []*AccountResponse {
	result := make([]*AccountResponse, len(accounts))
	for i, a := range accounts {
		result[i] = AccountFromDomain(a)
	}
	return result
}

// EntryResponse represents a journal entry in API responses.
type EntryResponse struct {
	ID        string          `json:"id"`
	GroupID   string          `json:"group_id"`
	AccountID string          `json:"account_id"`
	Date      string          `json:"date"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
	Status    string          `json:"status"`
	Comment   string          `json:"comment,omitempty"`
	Sequence  int64           `json:"sequence"`
	CreatedAt time.Time       `json:"created_at"`
}

// EntryFromDomain converts domain entry to response.
func EntryFromDomain(e *domain.JournalEntry) *EntryResponse {
	return &EntryResponse{
		ID:        e.ID,
		GroupID:   e.GroupID,
		AccountID: e.AccountID,
		Date:      e.Date.Format(domain.DateFormat),
		Debit:     e.Debit,
		Credit:    e.Credit,
		Status:    string(e.Status),
		Comment:   e.Comment,
		Sequence:  e.Sequence,
		CreatedAt: e.CreatedAt,
	}
}

// GroupResponse represents a journal group with its lines.
type GroupResponse struct {
	ID              string           `json:"id"`
	Description     string           `json:"description"`
	Status          string           `json:"status"`
	SubmittedBy     string           `json:"submitted_by"`
	ReviewedBy      string           `json:"reviewed_by,omitempty"`
	ReviewedAt      *time.Time       `json:"reviewed_at,omitempty"`
	RejectionReason string           `json:"rejection_reason,omitempty"`
	TotalDebit      decimal.Decimal  `json:"total_debit"`
	TotalCredit     decimal.Decimal  `json:"total_credit"`
	CreatedAt       time.Time        `json:"created_at"`
	Entries         []*EntryResponse `json:"entries"`
}

// GroupFromDomain converts domain group to response.
func GroupFromDomain(g *domain.JournalGroup) *GroupResponse {
	debit, credit := g.Totals()
	entries := make([]*EntryResponse, len(g.Entries))
	for i, e := range g.Entries {
		entries[i] = EntryFromDomain(e)
	}
	return &GroupResponse{
		ID:              g.ID,
		Description:     g.Description,
		Status:          string(g.Status),
		SubmittedBy:     g.SubmittedBy,
		ReviewedBy:      g.ReviewedBy,
		ReviewedAt:      g.ReviewedAt,
		RejectionReason: g.RejectionReason,
		TotalDebit:      debit,
		TotalCredit:     credit,
		CreatedAt:       g.CreatedAt,
		Entries:         entries,
	}
}

// GroupsFromDomain converts domain groups to responses.
func GroupsFromDomain(groups []*domain.JournalGroup) []*GroupResponse {
	result := make([]*GroupResponse, len(groups))
	for i, g := range groups {
		result[i] = GroupFromDomain(g)
	}
	return result
}

// LedgerRowResponse is one line of an account ledger.
type LedgerRowResponse struct {
	EntryID  string          `json:"entry_id"`
	GroupID  string          `json:"group_id"`
	Date     string          `json:"date"`
	Sequence int64           `json:"sequence"`
	Debit    decimal.Decimal `json:"debit"`
	Credit   decimal.Decimal `json:"credit"`
	Balance  decimal.Decimal `json:"balance"`
}

// LedgerResponse is the projected ledger of one account.
type LedgerResponse struct {
	Account        *AccountResponse     `json:"account"`
	OpeningBalance decimal.Decimal      `json:"opening_balance"`
	EndingBalance  decimal.Decimal      `json:"ending_balance"`
	Rows           []*LedgerRowResponse `json:"rows"`
}

// LedgerFromDomain walks the projection once, collecting rows and the ending balance.
func LedgerFromDomain(p *domain.Projection) *LedgerResponse {
	acc := p.Account()
	resp := &LedgerResponse{
		Account:        AccountFromDomain(acc),
		OpeningBalance: acc.InitialBalance,
		EndingBalance:  acc.InitialBalance,
		Rows:           make([]*LedgerRowResponse, 0, p.Len()),
	}
	for row := range p.Rows() {
		resp.Rows = append(resp.Rows, &LedgerRowResponse{
			EntryID:  row.EntryID,
			GroupID:  row.GroupID,
			Date:     row.Date.Format(domain.DateFormat),
			Sequence: row.Sequence,
			Debit:    row.Debit,
			Credit:   row.Credit,
			Balance:  row.Balance,
		})
		resp.EndingBalance = row.Balance
	}
	return resp
}

// RangeResponse echoes the requested date range. Open bounds are omitted.
type RangeResponse struct {
	Start string `json:"start,omitempty"`
	End   string `json:"end,omitempty"`
}

func rangeFromDomain(r domain.DateRange) RangeResponse {
	var resp RangeResponse
	if r.Start != nil {
		resp.Start = r.Start.Format(domain.DateFormat)
	}
	if r.End != nil {
		resp.End = r.End.Format(domain.DateFormat)
	}
	return resp
}

// AccountTotalResponse is one account line of a statement.
type AccountTotalResponse struct {
	AccountID   string          `json:"account_id"`
	Number      int64           `json:"number"`
	Name        string          `json:"name"`
	Subcategory string          `json:"subcategory,omitempty"`
	NormalSide  string          `json:"normal_side"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Balance     decimal.Decimal `json:"balance"`
}

// CategoryResponse groups the statement lines of one category.
type CategoryResponse struct {
	Category string                 `json:"category"`
	Accounts []AccountTotalResponse `json:"accounts"`
	Debit    decimal.Decimal        `json:"debit"`
	Credit   decimal.Decimal        `json:"credit"`
	Balance  decimal.Decimal        `json:"balance"`
}

func categoryFromDomain(c domain.CategoryTotals) CategoryResponse {
	accounts := make([]AccountTotalResponse, len(c.Accounts))
	for i, a := range c.Accounts {
		accounts[i] = AccountTotalResponse{
			AccountID:   a.AccountID,
			Number:      a.Number,
			Name:        a.Name,
			Subcategory: a.Subcategory,
			NormalSide:  string(a.NormalSide),
			Debit:       a.Debit,
			Credit:      a.Credit,
			Balance:     a.Balance,
		}
	}
	return CategoryResponse{
		Category: string(c.Category),
		Accounts: accounts,
		Debit:    c.Debit,
		Credit:   c.Credit,
		Balance:  c.Balance,
	}
}

// StatementResponse carries every category total for a range.
type StatementResponse struct {
	Range                     RangeResponse              `json:"range"`
	Assets                    CategoryResponse           `json:"assets"`
	Liabilities               CategoryResponse           `json:"liabilities"`
	Equity                    CategoryResponse           `json:"equity"`
	Revenue                   CategoryResponse           `json:"revenue"`
	Expenses                  CategoryResponse           `json:"expenses"`
	Subtotals                 map[string]decimal.Decimal `json:"subtotals"`
	TotalAssets               decimal.Decimal            `json:"total_assets"`
	TotalLiabilities          decimal.Decimal            `json:"total_liabilities"`
	TotalEquity               decimal.Decimal            `json:"total_equity"`
	TotalLiabilitiesAndEquity decimal.Decimal            `json:"total_liabilities_and_equity"`
	TotalRevenue              decimal.Decimal            `json:"total_revenue"`
	TotalExpenses             decimal.Decimal            `json:"total_expenses"`
	NetIncome                 decimal.Decimal            `json:"net_income"`
	GeneratedAt               time.Time                  `json:"generated_at"`
}

// StatementFromDomain converts statement totals to response.
func StatementFromDomain(s *domain.StatementTotals) *StatementResponse {
	return &StatementResponse{
		Range:                     rangeFromDomain(s.Range),
		Assets:                    categoryFromDomain(s.Assets),
		Liabilities:               categoryFromDomain(s.Liabilities),
		Equity:                    categoryFromDomain(s.Equity),
		Revenue:                   categoryFromDomain(s.Revenue),
		Expenses:                  categoryFromDomain(s.Expenses),
		Subtotals:                 s.Subtotals,
		TotalAssets:               s.TotalAssets,
		TotalLiabilities:          s.TotalLiabilities,
		TotalEquity:               s.TotalEquity,
		TotalLiabilitiesAndEquity: s.TotalLiabilitiesAndEquity,
		TotalRevenue:              s.TotalRevenue,
		TotalExpenses:             s.TotalExpenses,
		NetIncome:                 s.NetIncome,
		GeneratedAt:               s.GeneratedAt,
	}
}

// StatementsFromDomain converts a comparative series.
func StatementsFromDomain(statements []*domain.StatementTotals) []*StatementResponse {
	result := make([]*StatementResponse, len(statements))
	for i, s := range statements {
		result[i] = StatementFromDomain(s)
	}
	return result
}

// TrialBalanceRowResponse is one account of a trial balance.
type TrialBalanceRowResponse struct {
	AccountID string          `json:"account_id"`
	Number    int64           `json:"number"`
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
}

// TrialBalanceResponse represents a trial balance.
type TrialBalanceResponse struct {
	Range       RangeResponse             `json:"range"`
	Rows        []TrialBalanceRowResponse `json:"rows"`
	TotalDebit  decimal.Decimal           `json:"total_debit"`
	TotalCredit decimal.Decimal           `json:"total_credit"`
	Balanced    bool                      `json:"balanced"`
}

// TrialBalanceFromDomain converts domain trial balance to response.
func TrialBalanceFromDomain(tb domain.TrialBalance) *TrialBalanceResponse {
	rows := make([]TrialBalanceRowResponse, len(tb.Rows))
	for i, r := range tb.Rows {
		rows[i] = TrialBalanceRowResponse{
			AccountID: r.AccountID,
			Number:    r.Number,
			Name:      r.Name,
			Category:  string(r.Category),
			Debit:     r.Debit,
			Credit:    r.Credit,
		}
	}
	return &TrialBalanceResponse{
		Range:       rangeFromDomain(tb.Range),
		Rows:        rows,
		TotalDebit:  tb.TotalDebit,
		TotalCredit: tb.TotalCredit,
		Balanced:    tb.Balanced,
	}
}

// IncomeStatementResponse represents an income statement.
type IncomeStatementResponse struct {
	Range         RangeResponse    `json:"range"`
	Revenue       CategoryResponse `json:"revenue"`
	Expenses      CategoryResponse `json:"expenses"`
	TotalRevenue  decimal.Decimal  `json:"total_revenue"`
	TotalExpenses decimal.Decimal  `json:"total_expenses"`
	NetIncome     decimal.Decimal  `json:"net_income"`
}

// IncomeStatementFromDomain converts domain income statement to response.
func IncomeStatementFromDomain(s domain.IncomeStatement) *IncomeStatementResponse {
	return &IncomeStatementResponse{
		Range:         rangeFromDomain(s.Range),
		Revenue:       categoryFromDomain(s.Revenue),
		Expenses:      categoryFromDomain(s.Expenses),
		TotalRevenue:  s.TotalRevenue,
		TotalExpenses: s.TotalExpenses,
		NetIncome:     s.NetIncome,
	}
}

// BalanceSheetResponse represents a balance sheet.
type BalanceSheetResponse struct {
	Range                     RangeResponse    `json:"range"`
	Assets                    CategoryResponse `json:"assets"`
	Liabilities               CategoryResponse `json:"liabilities"`
	Equity                    CategoryResponse `json:"equity"`
	TotalAssets               decimal.Decimal  `json:"total_assets"`
	TotalLiabilities          decimal.Decimal  `json:"total_liabilities"`
	TotalEquity               decimal.Decimal  `json:"total_equity"`
	TotalLiabilitiesAndEquity decimal.Decimal  `json:"total_liabilities_and_equity"`
	Balanced                  bool             `json:"balanced"`
}

// BalanceSheetFromDomain converts domain balance sheet to response.
func BalanceSheetFromDomain(s domain.BalanceSheet) *BalanceSheetResponse {
	return &BalanceSheetResponse{
		Range:                     rangeFromDomain(s.Range),
		Assets:                    categoryFromDomain(s.Assets),
		Liabilities:               categoryFromDomain(s.Liabilities),
		Equity:                    categoryFromDomain(s.Equity),
		TotalAssets:               s.TotalAssets,
		TotalLiabilities:          s.TotalLiabilities,
		TotalEquity:               s.TotalEquity,
		TotalLiabilitiesAndEquity: s.TotalLiabilitiesAndEquity,
		Balanced:                  s.TotalAssets.Equal(s.TotalLiabilitiesAndEquity),
	}
}

// RetainedEarningsResponse represents a statement of retained earnings.
type RetainedEarningsResponse struct {
	Range     RangeResponse   `json:"range"`
	Beginning decimal.Decimal `json:"beginning"`
	NetIncome decimal.Decimal `json:"net_income"`
	Dividends decimal.Decimal `json:"dividends"`
	Ending    decimal.Decimal `json:"ending"`
}

// RetainedEarningsFromDomain converts domain retained earnings to response.
func RetainedEarningsFromDomain(s domain.RetainedEarnings) *RetainedEarningsResponse {
	return &RetainedEarningsResponse{
		Range:     rangeFromDomain(s.Range),
		Beginning: s.Beginning,
		NetIncome: s.NetIncome,
		Dividends: s.Dividends,
		Ending:    s.Ending,
	}
}

// ThresholdResponse is the green/yellow boundary of one ratio.
type ThresholdResponse struct {
	Green     decimal.Decimal `json:"green"`
	Yellow    decimal.Decimal `json:"yellow"`
	Direction string          `json:"direction"`
}

func thresholdFromDomain(t domain.Threshold) ThresholdResponse {
	return ThresholdResponse{Green: t.Green, Yellow: t.Yellow, Direction: string(t.Direction)}
}

// ThresholdsFromDomain converts the threshold table to response.
func ThresholdsFromDomain(t domain.Thresholds) map[string]ThresholdResponse {
	result := make(map[string]ThresholdResponse, len(t))
	for name, th := range t {
		result[string(name)] = thresholdFromDomain(th)
	}
	return result
}

// RatioResponse is a classified ratio. Value is null when the ratio is undefined.
type RatioResponse struct {
	Name      string            `json:"name"`
	Value     *decimal.Decimal  `json:"value"`
	Defined   bool              `json:"defined"`
	Signal    string            `json:"signal"`
	Color     string            `json:"color"`
	Healthy   bool              `json:"healthy"`
	Threshold ThresholdResponse `json:"threshold"`
}

// RatioFromDomain converts domain ratio to response.
func RatioFromDomain(r domain.Ratio) RatioResponse {
	resp := RatioResponse{
		Name:      string(r.Name),
		Defined:   r.Value.Defined,
		Signal:    string(r.Signal),
		Color:     r.Signal.Color(),
		Healthy:   r.Signal == domain.SignalHealthy,
		Threshold: thresholdFromDomain(r.Threshold),
	}
	if r.Value.Defined {
		v := r.Value.Value
		resp.Value = &v
	}
	return resp
}

// RatiosFromDomain converts domain ratios to responses, keeping their order.
func RatiosFromDomain(ratios []domain.Ratio) []RatioResponse {
	result := make([]RatioResponse, len(ratios))
	for i, r := range ratios {
		result[i] = RatioFromDomain(r)
	}
	return result
}

// DashboardResponse pairs a statement with its ratios.
type DashboardResponse struct {
	Statement *StatementResponse `json:"statement"`
	Ratios    []RatioResponse    `json:"ratios"`
}

// DashboardFromUseCase converts the dashboard to response.
func DashboardFromUseCase(d *usecase.Dashboard) *DashboardResponse {
	return &DashboardResponse{
		Statement: StatementFromDomain(d.Statement),
		Ratios:    RatiosFromDomain(d.Ratios),
	}
}

// ConsistencyResponse reports whether approved debits equal approved credits.
type ConsistencyResponse struct {
	TotalDebit  decimal.Decimal `json:"total_debit"`
	TotalCredit decimal.Decimal `json:"total_credit"`
	Difference  decimal.Decimal `json:"difference"`
	Consistent  bool            `json:"consistent"`
	CheckedAt   time.Time       `json:"checked_at"`
}

// ConsistencyFromUseCase converts the consistency report to response.
func ConsistencyFromUseCase(r *usecase.ConsistencyReport) *ConsistencyResponse {
	return &ConsistencyResponse{
		TotalDebit:  r.TotalDebit,
		TotalCredit: r.TotalCredit,
		Difference:  r.Difference,
		Consistent:  r.Consistent,
		CheckedAt:   r.CheckedAt,
	}
}

// AuditLogResponse is one change recorded against a resource.
type AuditLogResponse struct {
	ID           string      `json:"id"`
	UserID       string      `json:"user_id"`
	Action       string      `json:"action"`
	ResourceType string      `json:"resource_type"`
	ResourceID   string      `json:"resource_id"`
	RequestID    string      `json:"request_id,omitempty"`
	BeforeState  domain.JSON `json:"before_state,omitempty"`
	AfterState   domain.JSON `json:"after_state,omitempty"`
	Status       string      `json:"status"`
	ErrorMessage string      `json:"error_message,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
}

// AuditLogsFromDomain converts audit records to responses.
func AuditLogsFromDomain(logs []*domain.AuditLog) []*AuditLogResponse {
	result := make([]*AuditLogResponse, len(logs))
	for i, l := range logs {
		result[i] = &AuditLogResponse{
			ID:           l.ID,
			UserID:       l.UserID,
			Action:       l.Action,
			ResourceType: l.ResourceType,
			ResourceID:   l.ResourceID,
			RequestID:    l.RequestID,
			BeforeState:  l.BeforeState,
			AfterState:   l.AfterState,
			Status:       l.Status,
			ErrorMessage: l.ErrorMessage,
			CreatedAt:    l.CreatedAt,
		}
	}
	return result
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message,omitempty"`
}
