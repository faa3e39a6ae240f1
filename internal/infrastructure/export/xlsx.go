// Package export writes report workbooks with excelize.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// ContentType is the MIME type of an .xlsx workbook
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const (
	defaultSheet = "Sheet1"
	maxColWidth  = 60.0
	minColWidth  = 10.0
)

// Row is a record that knows its own cell values, in header order
type Row interface {
	CellValues() []any
}

// Sheet is one worksheet: a bold header row followed by data rows
type Sheet struct {
	Name    string
	Headers []string
	Rows    []Row
}

// Values adapts plain cell slices to Row
type Values []any

// CellValues implements Row
func (v Values) CellValues() []any { return v }

// WriteWorkbook renders sheets into one workbook and writes it to w
func WriteWorkbook(w io.Writer, sheets ...Sheet) (err error) {
	if len(sheets) == 0 {
		return fmt.Errorf("export: workbook needs at least one sheet")
	}

	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("export: header style: %w", err)
	}

	for i, sheet := range sheets {
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, sheet.Name); err != nil {
				return fmt.Errorf("export: rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(sheet.Name); err != nil {
			return fmt.Errorf("export: new sheet %s: %w", sheet.Name, err)
		}
		if err := writeSheet(f, sheet, headerStyle); err != nil {
			return err
		}
	}
	f.SetActiveSheet(0)

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("export: write workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet Sheet, headerStyle int) error {
	widths := make([]float64, len(sheet.Headers))

	header := make([]any, len(sheet.Headers))
	for i, h := range sheet.Headers {
		header[i] = h
		widths[i] = float64(len(h))
	}
	if err := f.SetSheetRow(sheet.Name, "A1", &header); err != nil {
		return fmt.Errorf("export: %s header: %w", sheet.Name, err)
	}
	if len(sheet.Headers) > 0 {
		last, err := excelize.CoordinatesToCellName(len(sheet.Headers), 1)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet.Name, "A1", last, headerStyle); err != nil {
			return fmt.Errorf("export: %s header style: %w", sheet.Name, err)
		}
	}

	for r, row := range sheet.Rows {
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		values := row.CellValues()
		if err := f.SetSheetRow(sheet.Name, cell, &values); err != nil {
			return fmt.Errorf("export: %s row %d: %w", sheet.Name, r+2, err)
		}
		for c, v := range values {
			if c < len(widths) {
				widths[c] = max(widths[c], float64(len(fmt.Sprint(v))))
			}
		}
	}

	for c, w := range widths {
		col, err := excelize.ColumnNumberToName(c + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet.Name, col, col, min(max(w+2, minColWidth), maxColWidth)); err != nil {
			return fmt.Errorf("export: %s column width: %w", sheet.Name, err)
		}
	}
	return nil
}
