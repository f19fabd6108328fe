// Package calc implements the hierarchical calculation tree: sections,
// subsections and priced rows, the bottom-up amount aggregation, the closed
// set of mutation operations and the derived financial summary.
//
// A Calculation is exclusively owned by one editing session. None of the
// methods on it are safe for concurrent use.
package calc

import (
	"github.com/shopspring/decimal"
)

// Default values for nodes created through the mutation operations.
const (
	DefaultSectionName    = "Ny sektion"
	DefaultSubsectionName = "Ny undersektion"
	DefaultUnit           = "st"
)

// Calculation is the root aggregate of a cost estimation.
type Calculation struct {
	Name    string `json:"name"`    // Name of the calculation
	Project string `json:"project"` // Name of the project the calculation belongs to

	Rate      decimal.Decimal `json:"rate"`      // Fee percentage applied on top of the budget
	Area      decimal.Decimal `json:"area"`      // Gross area in m²
	CO2Budget decimal.Decimal `json:"co2Budget"` // CO2 allowance in kg/m²

	Sections []Section   `json:"sections"`
	Options  []OptionRow `json:"options"`

	// nextSectionID is the high-water mark for section ids within this
	// editing session. It only ever grows, so a deleted section id is never
	// handed out again.
	nextSectionID int
}

// Section is the top level of the cost hierarchy. IDs are unique within the
// Calculation and are never reused after deletion.
type Section struct {
	ID          int             `json:"id"`
	Name        string          `json:"name"`
	Amount      decimal.Decimal `json:"amount"` // Derived, see Aggregate
	Expanded    bool            `json:"expanded"`
	Subsections []Subsection    `json:"subsections"`
}

// Subsection groups rows within a section. IDs are unique within the parent
// section only.
type Subsection struct {
	ID       int             `json:"id"`
	Name     string          `json:"name"`
	Amount   decimal.Decimal `json:"amount"` // Derived, see Aggregate
	Expanded bool            `json:"expanded"`
	Rows     []Row           `json:"rows"`

	// Subsections holds an optional third nesting level. It is read from
	// legacy payloads and aggregated and exported like any other level, but
	// no mutation operation creates one.
	Subsections []SubSubsection `json:"subsections,omitempty"`
}

// SubSubsection is the optional third nesting level. Same shape as a
// Subsection minus further nesting.
type SubSubsection struct {
	ID       int             `json:"id"`
	Name     string          `json:"name"`
	Amount   decimal.Decimal `json:"amount"` // Derived, see Aggregate
	Expanded bool            `json:"expanded"`
	Rows     []Row           `json:"rows"`
}

// Row is a priced line item. IDs are unique within the parent subsection.
type Row struct {
	ID           int             `json:"id"`
	Description  string          `json:"description"`
	Quantity     decimal.Decimal `json:"quantity"`
	Unit         string          `json:"unit"`
	PricePerUnit decimal.Decimal `json:"pricePerUnit"`

	// CO2 is the absolute footprint of the row in kg. Unlike PricePerUnit it
	// is NOT multiplied by Quantity when aggregating.
	CO2 decimal.Decimal `json:"co2"`

	Account  *Account `json:"account"` // nil means no account selected
	Resource string   `json:"resource"`
	Note     string   `json:"note"`
}

// Account is a bookkeeping account reference on a row.
type Account struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// OptionRow is a flat, unnested line item for optional scope. Options count
// towards the budget total but never towards CO2.
type OptionRow struct {
	ID           int             `json:"id"`
	Description  string          `json:"description"`
	Quantity     decimal.Decimal `json:"quantity"`
	Unit         string          `json:"unit"`
	PricePerUnit decimal.Decimal `json:"pricePerUnit"`
}

// Total returns the amount the row contributes to its subsection.
func (r Row) Total() decimal.Decimal {
	return r.Quantity.Mul(r.PricePerUnit)
}

// Total returns the amount the option contributes to the budget.
func (o OptionRow) Total() decimal.Decimal {
	return o.Quantity.Mul(o.PricePerUnit)
}
