package calc

import "github.com/shopspring/decimal"

// Aggregate recomputes every derived Amount in the tree from the leaf rows
// upward. It is a full post-order pass, not an incremental update: amounts
// are re-derived from source data on every call, so they can never drift
// regardless of which mutation produced the tree. Callers run it after every
// structural or field edit, before reading any Amount.
func (c *Calculation) Aggregate() {
	for i := range c.Sections {
		section := &c.Sections[i]

		sectionAmount := decimal.Zero
		for j := range section.Subsections {
			subsection := &section.Subsections[j]

			amount := rowTotal(subsection.Rows)
			for k := range subsection.Subsections {
				nested := &subsection.Subsections[k]
				nested.Amount = rowTotal(nested.Rows)
				amount = amount.Add(nested.Amount)
			}

			subsection.Amount = amount
			sectionAmount = sectionAmount.Add(amount)
		}

		section.Amount = sectionAmount
	}
}

// TotalCO2 sums the CO2 footprint over every row in every section. The value
// is a per-row absolute in kg and is never multiplied by quantity. Options do
// not carry CO2.
func (c *Calculation) TotalCO2() decimal.Decimal {
	total := decimal.Zero
	for _, section := range c.Sections {
		for _, subsection := range section.Subsections {
			for _, row := range subsection.Rows {
				total = total.Add(row.CO2)
			}
			for _, nested := range subsection.Subsections {
				for _, row := range nested.Rows {
					total = total.Add(row.CO2)
				}
			}
		}
	}

	return total
}

func rowTotal(rows []Row) decimal.Decimal {
	total := decimal.Zero
	for _, row := range rows {
		total = total.Add(row.Total())
	}

	return total
}
