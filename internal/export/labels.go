// Package export renders saved sheets to printable and spreadsheet formats,
// including QR-coded pallet labels.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/piwi3910/HojaMaestra/internal/model"
)

// LabelInfo holds the data encoded into each pallet label's QR code.
type LabelInfo struct {
	SheetID      string `json:"id"`
	Client       string `json:"cliente"`
	Article      string `json:"articulo"`
	SAP          string `json:"sap,omitempty"`
	PcsPerPallet string `json:"piezas_tarima,omitempty"`
	Pallet       int    `json:"tarima"`
	Pallets      int    `json:"de"`
}

// Label layout constants for Avery 5160-compatible labels (3 columns, 10 rows per page).
// Each label cell is approximately 66.7mm x 25.4mm on US Letter paper.
const (
	labelMarginTop  = 12.7 // mm
	labelMarginLeft = 4.8  // mm
	labelWidth      = 66.7 // mm per label
	labelHeight     = 25.4 // mm per label
	labelCols       = 3
	labelRows       = 10
	labelsPerPage   = labelCols * labelRows
	qrSize          = 20.0 // QR code size in mm
	labelPadding    = 2.0  // mm internal padding
)

// CollectLabelInfos builds one label per pallet of a sheet.
func CollectLabelInfos(sheet *model.Sheet, pallets int) []LabelInfo {
	if sheet == nil || pallets <= 0 {
		return nil
	}
	var pcs string
	if sheet.Fields != nil {
		pcs = sheet.Fields.Get(model.KeyTotalPcs)
	}
	labels := make([]LabelInfo, 0, pallets)
	for i := 1; i <= pallets; i++ {
		labels = append(labels, LabelInfo{
			SheetID:      sheet.ID,
			Client:       sheet.Client(),
			Article:      sheet.Product(),
			SAP:          sheet.SAPCode(),
			PcsPerPallet: pcs,
			Pallet:       i,
			Pallets:      pallets,
		})
	}
	return labels
}

// ExportPalletLabels generates a PDF with one QR-coded label per pallet.
// Each label shows the sheet ID, client, article and pieces per pallet,
// laid out on a standard label sheet (Avery 5160 / 3 columns x 10 rows on
// US Letter).
func ExportPalletLabels(path string, sheet *model.Sheet, pallets int) error {
	if sheet == nil {
		return fmt.Errorf("no sheet to generate labels for")
	}
	if pallets <= 0 {
		return fmt.Errorf("pallet count must be positive, got %d", pallets)
	}
	labels := CollectLabelInfos(sheet, pallets)

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	for i, label := range labels {
		if i%labelsPerPage == 0 {
			pdf.AddPage()
		}

		posOnPage := i % labelsPerPage
		col := posOnPage % labelCols
		row := posOnPage / labelCols

		x := labelMarginLeft + float64(col)*labelWidth
		y := labelMarginTop + float64(row)*labelHeight

		if err := renderLabel(pdf, tr, x, y, label); err != nil {
			return fmt.Errorf("failed to render label %d of %s: %w", label.Pallet, label.SheetID, err)
		}
	}

	return pdf.OutputFileAndClose(path)
}

// registerQR encodes data as a QR PNG and registers it with the document
// under name.
func registerQR(pdf *fpdf.Fpdf, name, data string) error {
	png, err := qrcode.Encode(data, qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}
	pdf.RegisterImageOptionsReader(name, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(png))
	return pdf.Error()
}

// renderLabel draws a single label at the given position.
func renderLabel(pdf *fpdf.Fpdf, tr func(string) string, x, y float64, info LabelInfo) error {
	// Light border as cutting guide
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.1)
	pdf.Rect(x, y, labelWidth, labelHeight, "D")

	qrData, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to marshal label info: %w", err)
	}
	imgName := fmt.Sprintf("qr_%s_%d", info.SheetID, info.Pallet)
	if err := registerQR(pdf, imgName, string(qrData)); err != nil {
		return err
	}

	qrX := x + labelWidth - qrSize - labelPadding
	qrY := y + (labelHeight-qrSize)/2
	pdf.ImageOptions(imgName, qrX, qrY, qrSize, qrSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	textX := x + labelPadding
	textW := labelWidth - qrSize - 3*labelPadding

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(textX, y+labelPadding)
	pdf.CellFormat(textW, 4.5, tr(truncate(pdf, info.SheetID, textW)), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	pdf.SetXY(textX, y+labelPadding+5)
	pdf.CellFormat(textW, 3.5, tr(truncate(pdf, info.Client, textW)), "", 1, "L", false, 0, "")
	pdf.SetXY(textX, y+labelPadding+8.5)
	pdf.CellFormat(textW, 3.5, tr(truncate(pdf, info.Article, textW)), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 6)
	pdf.SetTextColor(100, 100, 100)
	if info.PcsPerPallet != "" {
		pdf.SetXY(textX, y+labelPadding+12.5)
		pdf.CellFormat(textW, 3, "Piezas: "+info.PcsPerPallet, "", 1, "L", false, 0, "")
	}
	pdf.SetXY(textX, y+labelPadding+16)
	pdf.SetFont("Helvetica", "B", 7)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(textW, 3, fmt.Sprintf("Tarima %d de %d", info.Pallet, info.Pallets), "", 0, "L", false, 0, "")

	return nil
}

// truncate shortens s with an ellipsis until it fits in w at the current font.
func truncate(pdf *fpdf.Fpdf, s string, w float64) string {
	if pdf.GetStringWidth(s) <= w {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && pdf.GetStringWidth(string(r)+"...") > w {
		r = r[:len(r)-1]
	}
	return string(r) + "..."
}
