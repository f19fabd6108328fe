package report

import (
	"io"

	"github.com/kalkyl-app/backend/internal/calc"
	"github.com/xuri/excelize/v2"
)

const xlsxSheet = "Kalkyl"

// WriteXLSX writes the calculation as a spreadsheet with the same flattened
// rows as the CSV export, but with numeric cells kept numeric so the values
// can be worked with after export.
func WriteXLSX(w io.Writer, c *calc.Calculation) error {
	c.Aggregate()
	summary := calc.Summarize(c)

	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", xlsxSheet)

	header := []any{"Sektion", "Undersektion", "Rad", "", "Mängd", "Enhet", "À-pris", "CO2 (kg)", "Summa"}
	if err := f.SetSheetRow(xlsxSheet, "A1", &header); err != nil {
		return err
	}

	line := 2
	for _, row := range Rows(c) {
		if err := f.SetSheetRow(xlsxSheet, cell(line), xlsxRecord(row)); err != nil {
			return err
		}
		line++
	}

	if len(c.Options) > 0 {
		if err := f.SetSheetRow(xlsxSheet, cell(line), &[]any{"Tillval"}); err != nil {
			return err
		}
		line++

		for _, row := range OptionRows(c) {
			row.Depth = 1
			if err := f.SetSheetRow(xlsxSheet, cell(line), xlsxRecord(row)); err != nil {
				return err
			}
			line++
		}
	}

	line++
	summaryLines := []struct {
		label string
		value float64
	}{
		{"Budget exkl. arvode", summary.BudgetExclRate.InexactFloat64()},
		{"Arvode", summary.FixedRate.InexactFloat64()},
		{"Anbudssumma", summary.BidAmount.InexactFloat64()},
		{"CO2 totalt (kg)", summary.TotalCO2.InexactFloat64()},
	}
	for _, s := range summaryLines {
		if err := f.SetSheetRow(xlsxSheet, cell(line), &[]any{s.label, nil, nil, nil, nil, nil, nil, nil, s.value}); err != nil {
			return err
		}
		line++
	}

	return f.Write(w)
}

func xlsxRecord(row Row) *[]any {
	record := make([]any, 9)
	depth := row.Depth
	if depth > 3 {
		depth = 3
	}
	record[depth] = row.Label

	if row.Kind == KindRow || row.Kind == KindOption {
		record[4] = row.Quantity.InexactFloat64()
		record[5] = row.Unit
		record[6] = row.PricePerUnit.InexactFloat64()
		if row.Kind == KindRow {
			record[7] = row.CO2.InexactFloat64()
		}
	}
	record[8] = row.Amount.InexactFloat64()

	return &record
}

func cell(line int) string {
	name, _ := excelize.CoordinatesToCellName(1, line)
	return name
}
