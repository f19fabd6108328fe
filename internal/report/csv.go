package report

import (
	"encoding/csv"
	"io"

	"github.com/kalkyl-app/backend/internal/calc"
)

// csvDepth is the number of hierarchy columns. Deeper nodes are indented by
// leading blank columns within these.
const csvDepth = 4

// WriteCSV writes the calculation as a flat CSV, one line per section,
// subsection and row, with the hierarchy preserved through leading blank
// columns. Options and the financial summary follow the tree. The semicolon
// separator matches the spreadsheet convention of the sv-SE locale the
// amounts are formatted in.
func WriteCSV(w io.Writer, c *calc.Calculation) error {
	c.Aggregate()
	summary := calc.Summarize(c)

	writer := csv.NewWriter(w)
	writer.Comma = ';'

	header := append(hierarchyColumns("Sektion", 0), "Mängd", "Enhet", "À-pris", "CO2 (kg)", "Summa")
	header[1] = "Undersektion"
	header[2] = "Rad"
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, row := range Rows(c) {
		if err := writer.Write(csvRecord(row)); err != nil {
			return err
		}
	}

	if len(c.Options) > 0 {
		if err := writer.Write(csvLabelOnly("Tillval")); err != nil {
			return err
		}
		for _, row := range OptionRows(c) {
			row.Depth = 1
			if err := writer.Write(csvRecord(row)); err != nil {
				return err
			}
		}
	}

	summaryLines := [][2]string{
		{"Budget exkl. arvode", FormatCurrency(summary.BudgetExclRate)},
		{"Arvode", FormatCurrency(summary.FixedRate)},
		{"Anbudssumma", FormatCurrency(summary.BidAmount)},
		{"CO2 totalt (kg)", FormatNumber(summary.TotalCO2)},
	}
	for _, line := range summaryLines {
		record := csvLabelOnly(line[0])
		record[len(record)-1] = line[1]
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func csvRecord(row Row) []string {
	record := hierarchyColumns(row.Label, row.Depth)

	if row.Kind == KindRow || row.Kind == KindOption {
		co2 := ""
		if row.Kind == KindRow {
			co2 = FormatNumber(row.CO2)
		}

		record = append(record,
			FormatNumber(row.Quantity),
			row.Unit,
			FormatCurrency(row.PricePerUnit),
			co2,
			FormatCurrency(row.Amount),
		)
	} else {
		record = append(record, "", "", "", "", FormatCurrency(row.Amount))
	}

	return record
}

// hierarchyColumns places label in the column matching its depth and leaves
// the columns before and after it blank.
func hierarchyColumns(label string, depth int) []string {
	columns := make([]string, csvDepth)
	if depth >= csvDepth {
		depth = csvDepth - 1
	}
	columns[depth] = label

	return columns
}

func csvLabelOnly(label string) []string {
	return append(hierarchyColumns(label, 0), "", "", "", "", "")
}
