package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/piwi3910/HojaMaestra/internal/model"
)

// Page layout constants (A4 portrait in mm).
const (
	pageWidth    = 210.0
	pageHeight   = 297.0
	marginLeft   = 12.0
	marginRight  = 12.0
	marginTop    = 12.0
	marginBottom = 12.0
	headerHeight = 24.0
	headerQRSize = 22.0
	rowHeight    = 5.5
	sectionGap   = 3.0
	diagramMaxH  = 55.0
)

// Column layout of a section table: two label/value pairs per row.
const (
	tableCols  = 2
	tableWidth = pageWidth - marginLeft - marginRight
	pairWidth  = tableWidth / tableCols
	labelColW  = pairWidth * 0.45
	valueColW  = pairWidth - labelColW
)

// sectionColors tints the title bar of each section.
var sectionColors = map[model.Section][3]int{
	model.SectionGeneral:    {55, 71, 79},
	model.SectionMaterial:   {121, 85, 72},
	model.SectionDimensions: {33, 150, 243},
	model.SectionPrinting:   {156, 39, 176},
	model.SectionDieCutting: {244, 67, 54},
	model.SectionGluing:     {255, 152, 0},
	model.SectionPacking:    {76, 175, 80},
	model.SectionShipping:   {0, 150, 136},
}

// statusLabels are the printed names of the workflow states.
var statusLabels = map[model.Status]string{
	model.StatusDraft:    "Borrador",
	model.StatusFinal:    "Finalizada",
	model.StatusApproved: "Aprobada",
}

// ExportSheetPDF renders a sheet as a printable A4 document: a header with
// the sheet identity and a QR code of its ID, a diagram of the paper sheet
// when its size is known, and one table per form section. Fields computed
// by the recalculation engine are shaded.
func ExportSheetPDF(path string, sheet *model.Sheet) error {
	if sheet == nil {
		return fmt.Errorf("no sheet to export")
	}
	if strings.TrimSpace(sheet.ID) == "" {
		return fmt.Errorf("sheet has no ID")
	}
	fields := sheet.Fields
	if fields == nil {
		fields = model.NewRecord()
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(marginLeft, marginTop, marginRight)
	pdf.SetAutoPageBreak(false, marginBottom)
	pdf.SetTitle("Hoja Maestra "+sheet.ID, true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	if err := renderHeader(pdf, tr, sheet); err != nil {
		return err
	}
	y := marginTop + headerHeight + sectionGap

	y = drawSheetDiagram(pdf, tr, fields, y)

	for _, section := range model.Sections {
		defs := model.FieldsInSection(section)
		if len(defs) == 0 {
			continue
		}
		rows := (len(defs) + tableCols - 1) / tableCols
		needed := rowHeight*float64(rows+1) + sectionGap
		if y+needed > pageHeight-marginBottom-6 {
			renderFooter(pdf, tr, sheet.ID, fields)
			pdf.AddPage()
			y = marginTop
		}
		y = renderSection(pdf, tr, section, defs, fields, y)
	}

	renderFooter(pdf, tr, sheet.ID, fields)
	return pdf.OutputFileAndClose(path)
}

// renderHeader draws the title block and the ID QR code on the first page.
func renderHeader(pdf *fpdf.Fpdf, tr func(string) string, sheet *model.Sheet) error {
	imgName := "qr_sheet_" + sheet.ID
	if err := registerQR(pdf, imgName, sheet.ID); err != nil {
		return err
	}
	qrX := pageWidth - marginRight - headerQRSize
	pdf.ImageOptions(imgName, qrX, marginTop, headerQRSize, headerQRSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	textW := tableWidth - headerQRSize - 4

	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(textW, 8, "HOJA MAESTRA", "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetXY(marginLeft, marginTop+8)
	title := fmt.Sprintf("%s  %s", sheet.Type, sheet.ID)
	pdf.CellFormat(textW, 6, tr(title), "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetXY(marginLeft, marginTop+14)
	pdf.CellFormat(textW, 5, tr(headerSubtitle(sheet)), "", 0, "L", false, 0, "")

	status := statusLabels[sheet.Status]
	if status == "" {
		status = string(sheet.Status)
	}
	pdf.SetXY(marginLeft, marginTop+19)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(90, 90, 90)
	pdf.CellFormat(textW, 4, tr("Estado: "+status), "", 0, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+headerHeight, pageWidth-marginRight, marginTop+headerHeight)
	return nil
}

func headerSubtitle(sheet *model.Sheet) string {
	var parts []string
	for _, s := range []string{sheet.Client(), sheet.Product()} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " / ")
}

// renderSection draws the title bar and the label/value grid of one section
// and returns the y position below it.
func renderSection(pdf *fpdf.Fpdf, tr func(string) string, section model.Section, defs []model.FieldDef, fields *model.Record, y float64) float64 {
	c := sectionColors[section]
	pdf.SetFillColor(c[0], c[1], c[2])
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(tableWidth, rowHeight, tr(strings.ToUpper(string(section))), "", 0, "L", true, 0, "")
	y += rowHeight
	pdf.SetTextColor(0, 0, 0)

	pdf.SetDrawColor(180, 180, 180)
	pdf.SetLineWidth(0.1)
	for i, def := range defs {
		col := i % tableCols
		x := marginLeft + float64(col)*pairWidth
		if col == 0 && i > 0 {
			y += rowHeight
		}

		pdf.SetFont("Helvetica", "", 8)
		pdf.SetFillColor(245, 245, 245)
		pdf.SetXY(x, y)
		pdf.CellFormat(labelColW, rowHeight, tr(fieldLabel(def)), "1", 0, "L", true, 0, "")

		// Computed values are shaded and bold
		if def.EngineOwned {
			pdf.SetFillColor(255, 243, 205)
			pdf.SetFont("Helvetica", "B", 8)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		value := fields.Get(def.Key)
		pdf.CellFormat(valueColW, rowHeight, tr(truncate(pdf, value, valueColW-2)), "1", 0, "L", true, 0, "")
	}
	return y + rowHeight + sectionGap
}

func fieldLabel(def model.FieldDef) string {
	if def.Unit == "" {
		return def.Label
	}
	return fmt.Sprintf("%s (%s)", def.Label, def.Unit)
}

// drawSheetDiagram draws the paper sheet to scale with its dimensions, the
// grain direction and the pieces per sheet. Nothing is drawn when the sheet
// size is unknown.
func drawSheetDiagram(pdf *fpdf.Fpdf, tr func(string) string, fields *model.Record, y float64) float64 {
	grain := fields.Number(model.KeyDimGrain)
	cross := fields.Number(model.KeyDimCross)
	if grain <= 0 || cross <= 0 {
		return y
	}

	// The grain dimension runs horizontally
	drawW := tableWidth * 0.6
	scale := math.Min(drawW/grain, diagramMaxH/cross)
	canvasW := grain * scale
	canvasH := cross * scale
	offsetX := marginLeft + 8
	offsetY := y + 2

	pdf.SetFillColor(210, 180, 140)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.4)
	pdf.Rect(offsetX, offsetY, canvasW, canvasH, "FD")

	// Grain arrow along the sheet
	midY := offsetY + canvasH/2
	pdf.SetDrawColor(60, 60, 60)
	pdf.SetLineWidth(0.3)
	pdf.Line(offsetX+canvasW*0.2, midY, offsetX+canvasW*0.8, midY)
	pdf.Line(offsetX+canvasW*0.8, midY, offsetX+canvasW*0.8-2, midY-1.5)
	pdf.Line(offsetX+canvasW*0.8, midY, offsetX+canvasW*0.8-2, midY+1.5)

	drawDimensionAnnotations(pdf, grain, cross, offsetX, offsetY, canvasW, canvasH)

	infoX := offsetX + canvasW + 8
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetXY(infoX, offsetY)
	pdf.CellFormat(60, 5, "Hoja", "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	lines := []string{
		"Medida: " + fields.Get(model.KeyPaperDim),
		"Piezas por hoja: " + fields.Get(model.KeyPcsSheet),
		"Hilo: " + fields.Get(model.KeyGrainDir),
		"Aprovechamiento: " + fields.Get(model.KeyAreaEff),
	}
	for i, line := range lines {
		pdf.SetXY(infoX, offsetY+6+float64(i)*4.5)
		pdf.CellFormat(70, 4, tr(line), "", 0, "L", false, 0, "")
	}

	return offsetY + canvasH + 8 + sectionGap
}

// drawDimensionAnnotations adds width and height labels outside the sheet rectangle.
func drawDimensionAnnotations(pdf *fpdf.Fpdf, w, h, offsetX, offsetY, canvasW, canvasH float64) {
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(80, 80, 80)

	// Width annotation (below the sheet)
	widthLabel := fmt.Sprintf("%.0f mm", w)
	wLabelW := pdf.GetStringWidth(widthLabel)
	pdf.SetXY(offsetX+(canvasW-wLabelW)/2, offsetY+canvasH+1)
	pdf.CellFormat(wLabelW, 4, widthLabel, "", 0, "C", false, 0, "")

	// Height annotation (left of the sheet, rotated)
	heightLabel := fmt.Sprintf("%.0f mm", h)
	pdf.TransformBegin()
	pdf.TransformRotate(90, offsetX-3, offsetY+canvasH/2)
	hLabelW := pdf.GetStringWidth(heightLabel)
	pdf.SetXY(offsetX-3-hLabelW/2, offsetY+canvasH/2-2)
	pdf.CellFormat(hLabelW, 4, heightLabel, "", 0, "C", false, 0, "")
	pdf.TransformEnd()

	pdf.SetTextColor(0, 0, 0)
}

func renderFooter(pdf *fpdf.Fpdf, tr func(string) string, id string, fields *model.Record) {
	pdf.SetFont("Helvetica", "I", 7)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	text := fmt.Sprintf("%s  |  Versión %s  |  Página %d", id, fields.Get(model.KeyVersion), pdf.PageNo())
	pdf.CellFormat(tableWidth, 4, tr(text), "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}
