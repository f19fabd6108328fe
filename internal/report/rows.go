// Package report renders an aggregated calculation as a flat report: CSV,
// PDF and XLSX exports all walk the same flattened row list.
package report

import (
	"github.com/kalkyl-app/backend/internal/calc"
	"github.com/shopspring/decimal"
)

// RowKind tells what hierarchy node a report row was flattened from.
type RowKind string

const (
	KindSection       RowKind = "section"
	KindSubsection    RowKind = "subsection"
	KindSubSubsection RowKind = "subsubsection"
	KindRow           RowKind = "row"
	KindOption        RowKind = "option"
)

// Row is one line of the flattened report. Depth is the hierarchy level used
// for indentation: 0 for sections, 1 for subsections, 2 for sub-subsections
// and their parent's depth + 1 for leaf rows.
type Row struct {
	Kind  RowKind
	Depth int
	Label string

	// Set for leaf rows only
	Quantity     decimal.Decimal
	Unit         string
	PricePerUnit decimal.Decimal
	CO2          decimal.Decimal

	Amount decimal.Decimal
}

// Rows flattens the section hierarchy in document order, one line per
// section, subsection, sub-subsection and row. The calculation must be
// aggregated.
func Rows(c *calc.Calculation) []Row {
	rows := make([]Row, 0)

	for _, section := range c.Sections {
		rows = append(rows, Row{
			Kind:   KindSection,
			Depth:  0,
			Label:  section.Name,
			Amount: section.Amount,
		})

		for _, subsection := range section.Subsections {
			rows = append(rows, Row{
				Kind:   KindSubsection,
				Depth:  1,
				Label:  subsection.Name,
				Amount: subsection.Amount,
			})

			rows = append(rows, leafRows(subsection.Rows, 2)...)

			for _, nested := range subsection.Subsections {
				rows = append(rows, Row{
					Kind:   KindSubSubsection,
					Depth:  2,
					Label:  nested.Name,
					Amount: nested.Amount,
				})
				rows = append(rows, leafRows(nested.Rows, 3)...)
			}
		}
	}

	return rows
}

// OptionRows flattens the option list.
func OptionRows(c *calc.Calculation) []Row {
	rows := make([]Row, 0, len(c.Options))
	for _, option := range c.Options {
		rows = append(rows, Row{
			Kind:         KindOption,
			Depth:        0,
			Label:        option.Description,
			Quantity:     option.Quantity,
			Unit:         option.Unit,
			PricePerUnit: option.PricePerUnit,
			Amount:       option.Total(),
		})
	}

	return rows
}

func leafRows(rows []calc.Row, depth int) []Row {
	flattened := make([]Row, 0, len(rows))
	for _, row := range rows {
		flattened = append(flattened, Row{
			Kind:         KindRow,
			Depth:        depth,
			Label:        row.Description,
			Quantity:     row.Quantity,
			Unit:         row.Unit,
			PricePerUnit: row.PricePerUnit,
			CO2:          row.CO2,
			Amount:       row.Total(),
		})
	}

	return flattened
}
