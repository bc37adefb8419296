package export

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/Lumos-Labs-HQ/procgen/internal/config"
	"github.com/Lumos-Labs-HQ/procgen/internal/table"
)

// writeXLSX writes one sheet per table.
func writeXLSX(path string, tables []*table.Table) error {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := HeaderStyle(f)
	if err != nil {
		return err
	}

	for i, t := range tables {
		sheet := t.Name()
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				return err
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
		}

		columns := make([]any, 0, len(t.Columns()))
		for _, c := range t.Columns() {
			columns = append(columns, c)
		}
		if err := WriteSheetRows(f, sheet, headerStyle, columns, rowsOf(t)); err != nil {
			return fmt.Errorf("sheet %s: %w", sheet, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// HeaderStyle registers the bold header style used by every workbook.
func HeaderStyle(f *excelize.File) (int, error) {
	return f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#D9E1F2"}, Pattern: 1},
	})
}

// WriteSheetRows writes a styled header row followed by rows. Dates are
// written as text in the table date layout.
func WriteSheetRows(f *excelize.File, sheet string, headerStyle int, header []any, rows [][]any) error {
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return err
	}

	for i, row := range rows {
		values := make([]any, len(row))
		for j, v := range row {
			if d, ok := v.(time.Time); ok {
				v = d.Format(config.DateLayout)
			}
			values[j] = v
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
	}

	endCol, _ := excelize.ColumnNumberToName(len(header))
	return f.SetColWidth(sheet, "A", endCol, 15)
}

func rowsOf(t *table.Table) [][]any {
	rows := make([][]any, t.Len())
	for i := range rows {
		rows[i] = t.Row(i)
	}
	return rows
}
