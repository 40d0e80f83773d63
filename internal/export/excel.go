package export

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/HojaMaestra/internal/model"
)

// Worksheet names of the spreadsheet exports.
const (
	SheetWorksheet   = "Hoja Maestra"
	HistoryWorksheet = "Historial"
)

// excelTimeLayout formats the created/modified columns.
const excelTimeLayout = "2006-01-02 15:04"

// ExcelHeaders returns the column titles of a sheet export: the metadata
// columns followed by one column per schema field.
func ExcelHeaders() []string {
	headers := []string{
		model.ColumnType,
		model.ColumnID,
		model.ColumnStatus,
		model.ColumnCreated,
		model.ColumnUpdated,
	}
	for _, def := range model.Schema {
		headers = append(headers, def.Label)
	}
	return headers
}

// excelRow returns the cell values of one sheet in ExcelHeaders order.
func excelRow(sheet *model.Sheet) []interface{} {
	row := []interface{}{
		string(sheet.Type),
		sheet.ID,
		string(sheet.Status),
		formatExcelTime(sheet.CreatedAt),
		formatExcelTime(sheet.UpdatedAt),
	}
	for _, def := range model.Schema {
		var v string
		if sheet.Fields != nil {
			v = sheet.Fields.Get(def.Key)
		}
		row = append(row, v)
	}
	return row
}

func formatExcelTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format(excelTimeLayout)
}

// ExportSheetExcel writes one sheet as a single-row workbook that
// importer.ImportSheetExcel can read back.
func ExportSheetExcel(path string, sheet *model.Sheet) error {
	if sheet == nil {
		return fmt.Errorf("no sheet to export")
	}
	return writeWorkbook(path, SheetWorksheet, []*model.Sheet{sheet})
}

// ExportHistoryExcel writes every sheet of the history as one row.
func ExportHistoryExcel(path string, sheets []*model.Sheet) error {
	for i, s := range sheets {
		if s == nil {
			return fmt.Errorf("sheet %d is empty", i)
		}
	}
	return writeWorkbook(path, HistoryWorksheet, sheets)
}

func writeWorkbook(path, name string, sheets []*model.Sheet) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", name); err != nil {
		return fmt.Errorf("failed to name worksheet: %w", err)
	}

	headers := ExcelHeaders()
	headerRow := make([]interface{}, len(headers))
	for i, h := range headers {
		headerRow[i] = h
	}
	if err := f.SetSheetRow(name, "A1", &headerRow); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}

	for i, s := range sheets {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := excelRow(s)
		if err := f.SetSheetRow(name, cell, &row); err != nil {
			return fmt.Errorf("failed to write sheet %s: %w", s.ID, err)
		}
	}

	if err := styleHeader(f, name, len(headers)); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// styleHeader makes the header row bold and shaded, freezes it and widens
// the columns.
func styleHeader(f *excelize.File, name string, cols int) error {
	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(cols, 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(name, "A1", last, style); err != nil {
		return fmt.Errorf("failed to style headers: %w", err)
	}
	lastCol, err := excelize.ColumnNumberToName(cols)
	if err != nil {
		return err
	}
	if err := f.SetColWidth(name, "A", lastCol, 16); err != nil {
		return fmt.Errorf("failed to set column width: %w", err)
	}
	return f.SetPanes(name, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}
