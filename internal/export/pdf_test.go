package export

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/piwi3910/HojaMaestra/internal/model"
)

// buildTestSheet creates a realistic, fully calculated sheet for testing.
func buildTestSheet() *model.Sheet {
	s := model.NewSheet(model.SheetSAP, "400123")
	s.Status = model.StatusFinal
	s.CreatedAt = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	s.UpdatedAt = s.CreatedAt.Add(2 * time.Hour)
	s.Fields = model.RecordFromMap(map[model.FieldKey]string{
		model.KeyClient:       "Alimentos del Norte",
		model.KeyArticle:      "Caja plegadiza Galleta Limón",
		model.KeySAP:          "400123",
		model.KeyVersion:      "2",
		model.KeyMatClass:     "PLEGADIZO",
		model.KeyMatPaper:     "SBS 14pts",
		model.KeyCaliper:      "14",
		model.KeyDimL:         "120",
		model.KeyDimW:         "80",
		model.KeyDimH:         "200",
		model.KeyPaperDim:     "1020 X 720",
		model.KeyDimGrain:     "1020",
		model.KeyDimCross:     "720",
		model.KeyGrainDir:     "HORIZONTAL",
		model.KeyPcsSheet:     "6",
		model.KeyAreaTotal:    "0.7344",
		model.KeyAreaEff:      "81.7",
		model.KeyInk1:         "CYAN",
		model.InkSAPKey(1):    "SAP-001",
		model.KeyPcsPack:      "100",
		model.KeyPacksLayer:   "8",
		model.KeyLayersPallet: "6",
		model.KeyTotalPcs:     "4,800",
	})
	return &s
}

func TestExportSheetPDF_CreatesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hoja.pdf")

	if err := ExportSheetPDF(path, buildTestSheet()); err != nil {
		t.Fatalf("ExportSheetPDF returned error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("PDF file not created: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("PDF file is empty")
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Errorf("expected a PDF header, got %q", data[:8])
	}
}

func TestExportSheetPDF_NilSheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nil.pdf")
	if err := ExportSheetPDF(path, nil); err == nil {
		t.Error("expected error for nil sheet")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("no file should be written for a nil sheet")
	}
}

func TestExportSheetPDF_MissingID(t *testing.T) {
	s := buildTestSheet()
	s.ID = "  "
	if err := ExportSheetPDF(filepath.Join(t.TempDir(), "x.pdf"), s); err == nil {
		t.Error("expected error for a sheet without ID")
	}
}

func TestExportSheetPDF_EmptyFields(t *testing.T) {
	s := model.NewSheet(model.SheetFAC, model.FormatFACID(7))
	s.Fields = nil
	path := filepath.Join(t.TempDir(), "empty.pdf")

	if err := ExportSheetPDF(path, &s); err != nil {
		t.Fatalf("ExportSheetPDF returned error: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("PDF file not created: %v", err)
	}
}

func TestExportSheetPDF_WithoutSheetSize(t *testing.T) {
	s := buildTestSheet()
	s.Fields.Write(model.KeyDimGrain, "", model.WriteOptions{})
	s.Fields.Write(model.KeyDimCross, "", model.WriteOptions{})
	path := filepath.Join(t.TempDir(), "nodiagram.pdf")

	if err := ExportSheetPDF(path, s); err != nil {
		t.Fatalf("ExportSheetPDF returned error: %v", err)
	}
}

func TestExportSheetPDF_LongValues(t *testing.T) {
	s := buildTestSheet()
	long := "Observaciones muy largas que no caben en la celda de la tabla de la sección"
	for _, def := range model.Schema {
		if def.Kind == model.KindText {
			s.Fields.Write(def.Key, long, model.WriteOptions{})
		}
	}
	path := filepath.Join(t.TempDir(), "long.pdf")

	if err := ExportSheetPDF(path, s); err != nil {
		t.Fatalf("ExportSheetPDF returned error: %v", err)
	}
}

func TestFieldLabel(t *testing.T) {
	tests := []struct {
		def  model.FieldDef
		want string
	}{
		{model.FieldDef{Label: "Largo"}, "Largo"},
		{model.FieldDef{Label: "Largo", Unit: "mm"}, "Largo (mm)"},
	}
	for _, tt := range tests {
		if got := fieldLabel(tt.def); got != tt.want {
			t.Errorf("fieldLabel(%+v) = %q, want %q", tt.def, got, tt.want)
		}
	}
}

func TestHeaderSubtitle(t *testing.T) {
	s := buildTestSheet()
	if got := headerSubtitle(s); got != "Alimentos del Norte / Caja plegadiza Galleta Limón" {
		t.Errorf("unexpected subtitle %q", got)
	}

	s.Fields.Write(model.KeyClient, "", model.WriteOptions{})
	if got := headerSubtitle(s); got != "Caja plegadiza Galleta Limón" {
		t.Errorf("unexpected subtitle without client %q", got)
	}
}

func TestSectionColorsCoverAllSections(t *testing.T) {
	for _, s := range model.Sections {
		if _, ok := sectionColors[s]; !ok {
			t.Errorf("section %q has no color", s)
		}
	}
}
