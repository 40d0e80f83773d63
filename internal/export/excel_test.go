package export

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/HojaMaestra/internal/importer"
	"github.com/piwi3910/HojaMaestra/internal/model"
)

func TestExcelHeaders(t *testing.T) {
	h := ExcelHeaders()
	require.Len(t, h, 5+len(model.Schema))
	assert.Equal(t, []string{"Tipo", "ID", "Estado", "Creada", "Modificada"}, h[:5])
	assert.Equal(t, model.Schema[0].Label, h[5])
}

func TestExportSheetExcel_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hoja.xlsx")
	sheet := buildTestSheet()

	require.NoError(t, ExportSheetExcel(path, sheet))

	imported, result := importer.ImportSheetExcel(path)
	require.True(t, result.OK(), "errors: %v", result.Errors)
	assert.Empty(t, result.Warnings)
	assert.Equal(t, sheet.Type, imported.Type)
	assert.Equal(t, sheet.ID, imported.ID)
	assert.Equal(t, sheet.Status, imported.Status)
	if diff := cmp.Diff(sheet.Fields.Values(), imported.Fields.Values()); diff != "" {
		t.Errorf("fields mismatch (-exported +imported):\n%s", diff)
	}
}

func TestExportSheetExcel_Layout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hoja.xlsx")
	require.NoError(t, ExportSheetExcel(path, buildTestSheet()))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetWorksheet}, f.GetSheetList())
	rows, err := f.GetRows(SheetWorksheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "SAP", rows[1][0])
	assert.Equal(t, "400123", rows[1][1])
	assert.Equal(t, "finalizada", rows[1][2])
	assert.NotEmpty(t, rows[1][3], "created date should be written")
}

func TestExportSheetExcel_NilSheet(t *testing.T) {
	assert.Error(t, ExportSheetExcel(filepath.Join(t.TempDir(), "x.xlsx"), nil))
}

func TestExportHistoryExcel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "historial.xlsx")
	second := model.NewSheet(model.SheetFAC, model.FormatFACID(3))
	second.Fields.Write(model.KeyClient, "Cliente Prueba", model.WriteOptions{})

	require.NoError(t, ExportHistoryExcel(path, []*model.Sheet{buildTestSheet(), &second}))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(HistoryWorksheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "400123", rows[1][1])
	assert.Equal(t, "FAC-003", rows[2][1])
	assert.Equal(t, "", rows[2][3], "zero timestamps stay blank")
	assert.Equal(t, "Cliente Prueba", rows[2][5])
}

func TestExportHistoryExcel_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vacio.xlsx")
	require.NoError(t, ExportHistoryExcel(path, nil))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(HistoryWorksheet)
	require.NoError(t, err)
	assert.Len(t, rows, 1, "only the header row")
}

func TestExportHistoryExcel_NilEntry(t *testing.T) {
	err := ExportHistoryExcel(filepath.Join(t.TempDir(), "x.xlsx"), []*model.Sheet{buildTestSheet(), nil})
	assert.Error(t, err)
}
