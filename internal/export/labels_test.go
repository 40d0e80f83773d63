package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-pdf/fpdf"
)

func TestExportPalletLabels_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labels.pdf")

	if err := ExportPalletLabels(path, buildTestSheet(), 4); err != nil {
		t.Fatalf("ExportPalletLabels returned error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("labels file not created: %v", err)
	}
	if info.Size() == 0 {
		t.Error("labels file is empty")
	}
}

func TestExportPalletLabels_NilSheet(t *testing.T) {
	if err := ExportPalletLabels(filepath.Join(t.TempDir(), "x.pdf"), nil, 2); err == nil {
		t.Error("expected error for nil sheet")
	}
}

func TestExportPalletLabels_InvalidCount(t *testing.T) {
	for _, n := range []int{0, -3} {
		if err := ExportPalletLabels(filepath.Join(t.TempDir(), "x.pdf"), buildTestSheet(), n); err == nil {
			t.Errorf("expected error for %d pallets", n)
		}
	}
}

func TestExportPalletLabels_ManyPages(t *testing.T) {
	path := filepath.Join(t.TempDir(), "many.pdf")

	// 65 labels span three pages of 30
	if err := ExportPalletLabels(path, buildTestSheet(), 65); err != nil {
		t.Fatalf("ExportPalletLabels returned error: %v", err)
	}
}

func TestCollectLabelInfos(t *testing.T) {
	labels := CollectLabelInfos(buildTestSheet(), 3)
	if len(labels) != 3 {
		t.Fatalf("expected 3 labels, got %d", len(labels))
	}

	for i, l := range labels {
		if l.Pallet != i+1 || l.Pallets != 3 {
			t.Errorf("label %d: got pallet %d of %d", i, l.Pallet, l.Pallets)
		}
		if l.SheetID != "400123" {
			t.Errorf("label %d: expected sheet ID 400123, got %q", i, l.SheetID)
		}
		if l.Client != "Alimentos del Norte" {
			t.Errorf("label %d: unexpected client %q", i, l.Client)
		}
		if l.PcsPerPallet != "4,800" {
			t.Errorf("label %d: expected 4,800 pieces, got %q", i, l.PcsPerPallet)
		}
	}

	if got := CollectLabelInfos(nil, 3); got != nil {
		t.Errorf("expected no labels for nil sheet, got %d", len(got))
	}
	if got := CollectLabelInfos(buildTestSheet(), 0); got != nil {
		t.Errorf("expected no labels for zero pallets, got %d", len(got))
	}
}

func TestCollectLabelInfos_NilFields(t *testing.T) {
	s := buildTestSheet()
	s.Fields = nil

	labels := CollectLabelInfos(s, 1)
	if len(labels) != 1 {
		t.Fatalf("expected 1 label, got %d", len(labels))
	}
	if labels[0].PcsPerPallet != "" || labels[0].Client != "" {
		t.Errorf("expected empty field data, got %+v", labels[0])
	}
}

func TestLabelInfo_JSONRoundTrip(t *testing.T) {
	original := LabelInfo{
		SheetID:      "FAC-012",
		Client:       "Cliente Prueba",
		Article:      "Caja regular",
		PcsPerPallet: "1,200",
		Pallet:       2,
		Pallets:      5,
	}

	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded LabelInfo
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if decoded != original {
		t.Errorf("round trip mismatch: got %+v, want %+v", decoded, original)
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal into map failed: %v", err)
	}
	if _, ok := raw["sap"]; ok {
		t.Error("empty SAP should be omitted from the QR payload")
	}
	if raw["tarima"] != float64(2) {
		t.Errorf("expected tarima 2, got %v", raw["tarima"])
	}
}

func TestTruncate(t *testing.T) {
	pdf := newTestPDF()
	if got := truncate(pdf, "corto", 50); got != "corto" {
		t.Errorf("short text should be unchanged, got %q", got)
	}
	got := truncate(pdf, "un texto bastante largo para una etiqueta pequeña", 20)
	if len(got) < 3 || got[len(got)-3:] != "..." {
		t.Errorf("expected ellipsis, got %q", got)
	}
	if pdf.GetStringWidth(got) > 20 {
		t.Errorf("truncated text %q is wider than 20mm", got)
	}
}

func newTestPDF() *fpdf.Fpdf {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "", 8)
	return pdf
}
