package importer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/HojaMaestra/internal/model"
)

// createTestExcel writes rows into the first sheet of a new workbook.
func createTestExcel(t *testing.T, rows [][]interface{}) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.xlsx")
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	for i, row := range rows {
		for j, cell := range row {
			cellRef, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				t.Fatalf("failed to create cell reference: %v", err)
			}
			if err := f.SetCellValue(sheet, cellRef, cell); err != nil {
				t.Fatalf("failed to set cell value: %v", err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		t.Fatalf("failed to save Excel file: %v", err)
	}
	return path
}

func createTestCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.csv")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write CSV: %v", err)
	}
	return path
}

// ─── Helpers ───────────────────────────────────────────────

func TestDetectCSVDelimiter(t *testing.T) {
	tests := map[rune]string{
		',':  "SAP,Cliente,Largo\n1001,Acme,300\n",
		';':  "SAP;Cliente;Largo\n1001;Acme;300\n",
		'\t': "SAP\tCliente\tLargo\n1001\tAcme\t300\n",
		'|':  "SAP|Cliente|Largo\n1001|Acme|300\n",
	}
	for want, data := range tests {
		if got := DetectCSVDelimiter([]byte(data)); got != want {
			t.Errorf("expected %q delimiter, got %q", want, got)
		}
	}
}

func TestNormalizeHeader(t *testing.T) {
	tests := map[string]string{
		"  Código ":   "codigo",
		"Área Total":  "area total",
		"DESCRIPCIÓN": "descripcion",
		"Peso bruto":  "peso bruto",
		"dim-grain":   "dim-grain",
		"":            "",
	}
	for in, want := range tests {
		if got := NormalizeHeader(in); got != want {
			t.Errorf("NormalizeHeader(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCleanSAP(t *testing.T) {
	if got := CleanSAP(" #1001 "); got != "1001" {
		t.Errorf("expected 1001, got %q", got)
	}
}

// ─── Master data ───────────────────────────────────────────

func TestLoadMasterData_Excel(t *testing.T) {
	path := createTestExcel(t, [][]interface{}{
		{"Código SAP", "Cliente", "Descripción", "Largo", "Ancho", "Alto", "Área Total", "dim-grain", "Flauta", "Sin uso"},
		{"1001", "Acme", "Caja regular", 300, 200, 150, 1.25, 812, "Flauta B", "x"},
		{"1002", "Beta", "Charola", 250, 180, 60, "", "", "Flauta E", ""},
		{"", "", "", "", "", "", "", "", "", ""},
	})

	md, result := LoadMasterData(path)
	if !result.OK() {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if md.Len() != 2 {
		t.Fatalf("expected 2 indexed rows, got %d", md.Len())
	}

	rec := model.NewRecord()
	filled := md.FillRecord(rec, "#1001")

	want := map[model.FieldKey]string{
		model.KeyClient:    "Acme",
		model.KeyArticle:   "Caja regular",
		model.KeyDimL:      "300",
		model.KeyDimW:      "200",
		model.KeyDimH:      "150",
		model.KeyAreaTotal: "1.25",
		model.KeyDimGrain:  "812",
		model.KeyFlute:     "Flauta B",
	}
	if len(filled) != len(want) {
		t.Errorf("expected %d filled keys, got %v", len(want), filled)
	}
	for k, v := range want {
		if got := rec.Get(k); got != v {
			t.Errorf("%s: expected %q, got %q", k, v, got)
		}
	}
	if filled[0] != model.KeyClient {
		t.Errorf("filled keys should follow schema order, got %v", filled)
	}
}

func TestFillRecord_EmptyCellsAreSkipped(t *testing.T) {
	rows := [][]string{
		{"SAP", "Cliente", "Area Total"},
		{"1002", "Beta"},
	}
	var result ImportResult
	md := ParseMasterData(rows, &result)

	rec := model.RecordFromMap(map[model.FieldKey]string{model.KeyAreaTotal: "9.000"})
	md.FillRecord(rec, "1002")

	if rec.Get(model.KeyAreaTotal) != "9.000" {
		t.Errorf("missing cells must not overwrite, got %q", rec.Get(model.KeyAreaTotal))
	}
}

func TestFillRecord_UnknownSAP(t *testing.T) {
	var result ImportResult
	md := ParseMasterData([][]string{{"SAP", "Cliente"}, {"1", "A"}}, &result)

	rec := model.NewRecord()
	if filled := md.FillRecord(rec, "999"); filled != nil {
		t.Errorf("expected nothing filled, got %v", filled)
	}
	if rec.Len() != 0 {
		t.Error("record should be untouched")
	}

	var nilData *MasterData
	if nilData.FillRecord(rec, "1") != nil || nilData.Len() != 0 {
		t.Error("nil master data should be empty")
	}
}

func TestAliasOrder(t *testing.T) {
	var result ImportResult
	md := ParseMasterData([][]string{
		{"SAP", "Peso", "Peso OK"},
		{"1", "10", "12"},
	}, &result)

	rec := model.NewRecord()
	md.FillRecord(rec, "1")
	if got := rec.Get(model.KeyWeightNet); got != "12" {
		t.Errorf("\"peso ok\" precedes \"peso\" in the alias table, got %q", got)
	}
}

func TestLoadMasterData_CSVWithoutSAPColumn(t *testing.T) {
	path := createTestCSV(t, "Clave;Cliente;Largo\n#A1;Acme;300\n;Nadie;1\n")

	md, result := LoadMasterData(path)
	if !result.OK() {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if md.Len() != 1 {
		t.Fatalf("expected 1 row, got %d", md.Len())
	}
	joined := strings.Join(result.Warnings, "\n")
	if !strings.Contains(joined, "semicolon") {
		t.Errorf("expected delimiter warning, got %v", result.Warnings)
	}
	if !strings.Contains(joined, "No SAP column") {
		t.Errorf("expected SAP column warning, got %v", result.Warnings)
	}
	if !strings.Contains(joined, "missing SAP code") {
		t.Errorf("expected skipped row warning, got %v", result.Warnings)
	}
	if _, ok := md.Row("A1"); !ok {
		t.Error("expected row A1")
	}
}

func TestLoadMasterData_Errors(t *testing.T) {
	if _, result := LoadMasterData(filepath.Join(t.TempDir(), "missing.xlsx")); result.OK() {
		t.Error("expected error for missing file")
	}
	if _, result := LoadMasterData(createTestCSV(t, "   ")); result.OK() {
		t.Error("expected error for empty CSV")
	}
	if _, result := LoadMasterData(createTestExcel(t, [][]interface{}{{"SAP", "Cliente"}})); result.OK() {
		t.Error("expected error for header-only workbook")
	}
}

// ─── Single-sheet workbook ─────────────────────────────────

func TestImportSheetExcel(t *testing.T) {
	path := createTestExcel(t, [][]interface{}{
		{"Tipo", "ID", "Estado", "Creada", "Cliente", "Largo", "ID (SAP)", "Área total", "Columna rara"},
		{"MAQ", "M-JP", "finalizada", "2025-01-01", "Acme", 300, "55", "1.000", "?"},
	})

	sheet, result := ImportSheetExcel(path)
	if !result.OK() {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if sheet.Type != model.SheetMAQ || sheet.ID != "M-JP" || sheet.Status != model.StatusFinal {
		t.Errorf("unexpected metadata %+v", sheet)
	}
	if sheet.Fields.Get(model.KeyClient) != "Acme" || sheet.Fields.Get(model.KeyDimL) != "300" {
		t.Errorf("unexpected fields %v", sheet.Fields.Values())
	}
	if sheet.Fields.Get(model.KeySAP) != "55" {
		t.Errorf("legacy header not mapped, got %v", sheet.Fields.Values())
	}
	if sheet.Fields.Get(model.KeyAreaTotal) != "1.000" {
		t.Errorf("schema label not mapped, got %v", sheet.Fields.Values())
	}
	if len(result.Warnings) != 1 || !strings.Contains(result.Warnings[0], "Columna rara") {
		t.Errorf("expected one unknown-column warning, got %v", result.Warnings)
	}
}

func TestParseSheetRows_Problems(t *testing.T) {
	var result ImportResult
	ParseSheetRows([][]string{{"Cliente"}}, &result)
	if result.OK() {
		t.Error("expected error without data row")
	}

	result = ImportResult{}
	sheet := ParseSheetRows([][]string{{"Tipo", "Estado", "Cliente"}, {"XYZ", "Activo", "A"}, {"", "", "B"}}, &result)
	if !result.OK() {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if sheet.Type != "" || sheet.Status != "" {
		t.Errorf("invalid metadata should be dropped, got %+v", sheet)
	}
	if len(result.Warnings) != 3 {
		t.Errorf("expected 3 warnings, got %v", result.Warnings)
	}

	result = ImportResult{}
	ParseSheetRows([][]string{{"foo"}, {"bar"}}, &result)
	if result.OK() {
		t.Error("expected error when no column is known")
	}
}
