package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// RatioName identifies a financial ratio.
type RatioName string

const (
	RatioCurrent              RatioName = "current_ratio"
	RatioAcidTest             RatioName = "acid_test_ratio"
	RatioCash                 RatioName = "cash_ratio"
	RatioOperatingCashFlow    RatioName = "operating_cash_flow_ratio"
	RatioDebt                 RatioName = "debt_ratio"
	RatioDebtToEquity         RatioName = "debt_to_equity_ratio"
	RatioInterestCoverage     RatioName = "interest_coverage_ratio"
	RatioDebtServiceCoverage  RatioName = "debt_service_coverage_ratio"
	RatioAssetTurnover        RatioName = "asset_turnover_ratio"
	RatioInventoryTurnover    RatioName = "inventory_turnover_ratio"
	RatioDaysSalesInInventory RatioName = "days_sales_in_inventory_ratio"
	RatioReceivablesTurnover  RatioName = "receivables_turnover_ratio"
	RatioGrossMargin          RatioName = "gross_margin_ratio"
	RatioOperatingMargin      RatioName = "operating_margin_ratio"
	RatioReturnOnAssets       RatioName = "return_on_assets_ratio"
	RatioReturnOnEquity       RatioName = "return_on_equity_ratio"
)

// RatioNames lists every ratio in dashboard order.
var RatioNames = []RatioName{
	RatioCurrent,
	RatioAcidTest,
	RatioCash,
	RatioOperatingCashFlow,
	RatioDebt,
	RatioDebtToEquity,
	RatioInterestCoverage,
	RatioDebtServiceCoverage,
	RatioAssetTurnover,
	RatioInventoryTurnover,
	RatioDaysSalesInInventory,
	RatioReceivablesTurnover,
	RatioGrossMargin,
	RatioOperatingMargin,
	RatioReturnOnAssets,
	RatioReturnOnEquity,
}

// RatioPrecision is the number of decimal places ratios are rounded to.
const RatioPrecision = 4

const daysPerYear = 365

// Direction says which way a ratio improves.
type Direction string

const (
	HigherIsBetter Direction = "higher"
	LowerIsBetter  Direction = "lower"
)

// Signal is the colour classification of a ratio.
type Signal string

const (
	SignalHealthy   Signal = "healthy"
	SignalWarning   Signal = "warning"
	SignalUnhealthy Signal = "unhealthy"
	SignalUndefined Signal = "undefined"
)

// Color returns the display colour of the signal.
func (s Signal) Color() string {
	switch s {
	case SignalHealthy:
		return "#28a745"
	case SignalWarning:
		return "#ffc107"
	case SignalUnhealthy:
		return "#dc3545"
	}
	return "#6c757d"
}

// Threshold holds the green and yellow boundaries of a ratio.
type Threshold struct {
	Green     decimal.Decimal
	Yellow    decimal.Decimal
	Direction Direction
}

// Classify maps a value to a signal.
func (t Threshold) Classify(v RatioValue) Signal {
	if !v.Defined {
		return SignalUndefined
	}
	if t.Direction == LowerIsBetter {
		switch {
		case v.Value.LessThanOrEqual(t.Green):
			return SignalHealthy
		case v.Value.LessThanOrEqual(t.Yellow):
			return SignalWarning
		}
		return SignalUnhealthy
	}
	switch {
	case v.Value.GreaterThanOrEqual(t.Green):
		return SignalHealthy
	case v.Value.GreaterThanOrEqual(t.Yellow):
		return SignalWarning
	}
	return SignalUnhealthy
}

func (t Threshold) validate() error {
	if t.Direction == LowerIsBetter && t.Green.GreaterThan(t.Yellow) {
		return fmt.Errorf("green %s must not exceed yellow %s", t.Green, t.Yellow)
	}
	if t.Direction == HigherIsBetter && t.Green.LessThan(t.Yellow) {
		return fmt.Errorf("green %s must not be below yellow %s", t.Green, t.Yellow)
	}
	return nil
}

// Thresholds is the threshold table used to classify ratios.
type Thresholds map[RatioName]Threshold

func threshold(green, yellow string, d Direction) Threshold {
	return Threshold{
		Green:     decimal.RequireFromString(green),
		Yellow:    decimal.RequireFromString(yellow),
		Direction: d,
	}
}

// DefaultThresholds returns a fresh copy of the built-in threshold table.
func DefaultThresholds() Thresholds {
	return Thresholds{
		RatioCurrent:              threshold("1.5", "1", HigherIsBetter),
		RatioAcidTest:             threshold("1", "0.5", HigherIsBetter),
		RatioCash:                 threshold("0.5", "0.2", HigherIsBetter),
		RatioOperatingCashFlow:    threshold("1", "0.5", HigherIsBetter),
		RatioDebt:                 threshold("0.5", "0.6", LowerIsBetter),
		RatioDebtToEquity:         threshold("0.7", "1", LowerIsBetter),
		RatioInterestCoverage:     threshold("3", "1.5", HigherIsBetter),
		RatioDebtServiceCoverage:  threshold("1", "0.5", HigherIsBetter),
		RatioAssetTurnover:        threshold("1", "0.5", HigherIsBetter),
		RatioInventoryTurnover:    threshold("6", "3", HigherIsBetter),
		RatioDaysSalesInInventory: threshold("60", "120", LowerIsBetter),
		RatioReceivablesTurnover:  threshold("10", "7", HigherIsBetter),
		RatioGrossMargin:          threshold("0.4", "0.2", HigherIsBetter),
		RatioOperatingMargin:      threshold("0.15", "0.05", HigherIsBetter),
		RatioReturnOnAssets:       threshold("0.03", "0.01", HigherIsBetter),
		RatioReturnOnEquity:       threshold("0.1", "0.05", HigherIsBetter),
	}
}

// Override applies "green/yellow" values keyed by ratio name. Direction is kept.
func (t Thresholds) Override(overrides map[string]string) error {
	for name, spec := range overrides {
		ratio := RatioName(strings.TrimSpace(name))
		current, ok := t[ratio]
		if !ok {
			return NewValidationError("thresholds", fmt.Sprintf("unknown ratio %q", name))
		}

		green, yellow, found := strings.Cut(spec, "/")
		if !found {
			return NewValidationError("thresholds", fmt.Sprintf("%s: expected green/yellow, got %q", name, spec))
		}

		g, err := decimal.NewFromString(strings.TrimSpace(green))
		if err != nil {
			return NewValidationError("thresholds", fmt.Sprintf("%s: invalid green value: %v", name, err))
		}
		y, err := decimal.NewFromString(strings.TrimSpace(yellow))
		if err != nil {
			return NewValidationError("thresholds", fmt.Sprintf("%s: invalid yellow value: %v", name, err))
		}

		next := Threshold{Green: g, Yellow: y, Direction: current.Direction}
		if err := next.validate(); err != nil {
			return NewValidationError("thresholds", fmt.Sprintf("%s: %v", name, err))
		}
		t[ratio] = next
	}
	return nil
}

// RatioValue is a ratio result; Defined is false when the denominator was zero.
type RatioValue struct {
	Value   decimal.Decimal
	Defined bool
}

// Undefined is the result of a division by zero.
var Undefined = RatioValue{}

func divide(numerator, denominator decimal.Decimal) RatioValue {
	if denominator.IsZero() {
		return Undefined
	}
	return RatioValue{Value: numerator.Div(denominator).Round(RatioPrecision), Defined: true}
}

// Ratio is a computed ratio with its classification.
type Ratio struct {
	Name      RatioName
	Value     RatioValue
	Signal    Signal
	Threshold Threshold
}

// Healthy reports whether the ratio meets its green threshold.
func (r Ratio) Healthy() bool {
	return r.Signal == SignalHealthy
}

// RatioInputs are the statement figures the ratios are computed from.
type RatioInputs struct {
	CurrentAssets      decimal.Decimal
	Cash               decimal.Decimal
	Receivables        decimal.Decimal
	Inventory          decimal.Decimal
	CurrentLiabilities decimal.Decimal
	CurrentDebt        decimal.Decimal
	TotalAssets        decimal.Decimal
	TotalLiabilities   decimal.Decimal
	TotalEquity        decimal.Decimal
	NetSales           decimal.Decimal
	CostOfSales        decimal.Decimal
	OperatingExpenses  decimal.Decimal
	InterestExpense    decimal.Decimal
	Depreciation       decimal.Decimal
	OperatingIncome    decimal.Decimal
	NetIncome          decimal.Decimal
}

// InputsFromStatement extracts ratio inputs using the subcategory vocabulary.
func InputsFromStatement(st *StatementTotals) RatioInputs {
	cash := st.Subtotal(CategoryAsset, SubcategoryCash)
	receivables := st.Subtotal(CategoryAsset, SubcategoryReceivables)
	inventory := st.Subtotal(CategoryAsset, SubcategoryInventory)
	currentDebt := st.Subtotal(CategoryLiability, SubcategoryCurrentDebt)
	costOfSales := st.Subtotal(CategoryExpense, SubcategoryCostOfSales)
	interest := st.Subtotal(CategoryExpense, SubcategoryInterestExpense)
	netSales := st.TotalRevenue.Sub(st.Subtotal(CategoryRevenue, SubcategoryOtherRevenue))
	operatingExpenses := st.TotalExpenses.Sub(costOfSales).Sub(interest)

	return RatioInputs{
		CurrentAssets: cash.Add(receivables).Add(inventory).
			Add(st.Subtotal(CategoryAsset, SubcategoryCurrentAsset)),
		Cash:               cash,
		Receivables:        receivables,
		Inventory:          inventory,
		CurrentLiabilities: st.Subtotal(CategoryLiability, SubcategoryCurrentLiability).Add(currentDebt),
		CurrentDebt:        currentDebt,
		TotalAssets:        st.TotalAssets,
		TotalLiabilities:   st.TotalLiabilities,
		TotalEquity:        st.TotalEquity,
		NetSales:           netSales,
		CostOfSales:        costOfSales,
		OperatingExpenses:  operatingExpenses,
		InterestExpense:    interest,
		Depreciation:       st.Subtotal(CategoryExpense, SubcategoryDepreciation),
		OperatingIncome:    netSales.Sub(costOfSales).Sub(operatingExpenses),
		NetIncome:          st.NetIncome,
	}
}

// RatioValues computes every ratio value from the inputs.
func RatioValues(in RatioInputs) map[RatioName]RatioValue {
	inventoryTurnover := divide(in.CostOfSales, in.Inventory)

	daysInInventory := Undefined
	if inventoryTurnover.Defined {
		daysInInventory = divide(decimal.NewFromInt(daysPerYear), inventoryTurnover.Value)
	}

	return map[RatioName]RatioValue{
		RatioCurrent:              divide(in.CurrentAssets, in.CurrentLiabilities),
		RatioAcidTest:             divide(in.CurrentAssets.Sub(in.Inventory), in.CurrentLiabilities),
		RatioCash:                 divide(in.Cash, in.CurrentLiabilities),
		RatioOperatingCashFlow:    divide(in.NetIncome.Add(in.Depreciation), in.CurrentLiabilities),
		RatioDebt:                 divide(in.TotalLiabilities, in.TotalAssets),
		RatioDebtToEquity:         divide(in.TotalLiabilities, in.TotalEquity),
		RatioInterestCoverage:     divide(in.OperatingIncome, in.InterestExpense),
		RatioDebtServiceCoverage:  divide(in.OperatingIncome, in.InterestExpense.Add(in.CurrentDebt)),
		RatioAssetTurnover:        divide(in.NetSales, in.TotalAssets),
		RatioInventoryTurnover:    inventoryTurnover,
		RatioDaysSalesInInventory: daysInInventory,
		RatioReceivablesTurnover:  divide(in.NetSales, in.Receivables),
		RatioGrossMargin:          divide(in.NetSales.Sub(in.CostOfSales), in.NetSales),
		RatioOperatingMargin:      divide(in.OperatingIncome, in.NetSales),
		RatioReturnOnAssets:       divide(in.NetIncome, in.TotalAssets),
		RatioReturnOnEquity:       divide(in.NetIncome, in.TotalEquity),
	}
}

// ComputeRatios computes and classifies every ratio of a statement.
func ComputeRatios(st *StatementTotals, thresholds Thresholds) map[RatioName]Ratio {
	values := RatioValues(InputsFromStatement(st))
	result := make(map[RatioName]Ratio, len(values))
	for name, v := range values {
		t, ok := thresholds[name]
		if !ok {
			t = DefaultThresholds()[name]
		}
		result[name] = Ratio{
			Name:      name,
			Value:     v,
			Signal:    t.Classify(v),
			Threshold: t,
		}
	}
	return result
}
