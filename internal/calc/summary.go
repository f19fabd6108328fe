package calc

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrNoSections           = errors.New("a calculation must contain at least one section")
	ErrBidAmountNotPositive = errors.New("the bid amount must be larger than zero")
)

var oneHundred = decimal.NewFromInt(100)

// Summary is the derived financial state of an aggregated calculation.
type Summary struct {
	BudgetExclRate decimal.Decimal `json:"budgetExclRate"` // Section amounts plus option totals
	FixedRate      decimal.Decimal `json:"fixedRate"`      // BudgetExclRate × Rate/100
	BidAmount      decimal.Decimal `json:"bidAmount"`      // BudgetExclRate + FixedRate

	TotalCO2       decimal.Decimal `json:"totalCo2"`       // Sum of all row CO2 footprints in kg
	CO2BudgetTotal decimal.Decimal `json:"co2BudgetTotal"` // CO2Budget × Area in kg
	Overshoot      decimal.Decimal `json:"overshoot"`      // TotalCO2 − CO2BudgetTotal when exceeding
	ExceedsBudget  bool            `json:"exceedsBudget"`
}

// Summarize derives the financial summary from the tree. The calculation must
// be aggregated; Summarize reads the derived section amounts.
func Summarize(c *Calculation) Summary {
	budget := decimal.Zero
	for _, section := range c.Sections {
		budget = budget.Add(section.Amount)
	}
	for _, option := range c.Options {
		budget = budget.Add(option.Total())
	}

	fixedRate := budget.Mul(c.Rate.Div(oneHundred))

	summary := Summary{
		BudgetExclRate: budget,
		FixedRate:      fixedRate,
		BidAmount:      budget.Add(fixedRate),
		TotalCO2:       c.TotalCO2(),
		CO2BudgetTotal: c.CO2Budget.Mul(c.Area),
		Overshoot:      decimal.Zero,
	}

	// An unset or zero CO2 budget never triggers the warning, even if the
	// calculation carries CO2
	if summary.CO2BudgetTotal.IsPositive() && summary.TotalCO2.GreaterThan(summary.CO2BudgetTotal) {
		summary.ExceedsBudget = true
		summary.Overshoot = summary.TotalCO2.Sub(summary.CO2BudgetTotal)
	}

	return summary
}

// CheckSavable verifies the local preconditions for saving a calculation. It
// runs before any network or database call.
func CheckSavable(c *Calculation) error {
	if len(c.Sections) == 0 {
		return ErrNoSections
	}

	c.Aggregate()
	if !Summarize(c).BidAmount.IsPositive() {
		return ErrBidAmountNotPositive
	}

	return nil
}
