package widgets

import (
	"fmt"
	"image/color"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/HojaMaestra/internal/engine"
)

// Blank colors alternate so neighbouring blanks stay distinguishable.
var blankColors = []color.NRGBA{
	{R: 76, G: 175, B: 80, A: 200},  // green
	{R: 33, G: 150, B: 243, A: 200}, // blue
}

var (
	boardColor = color.NRGBA{R: 222, G: 196, B: 152, A: 255}
	gripColor  = color.NRGBA{R: 255, G: 50, B: 50, A: 120}
)

// SheetCanvas draws one imposition: the trimmed sheet, the gripper margin
// and the grid of blanks.
type SheetCanvas struct {
	widget.BaseWidget
	option    engine.MachineOption
	blank     engine.Size
	layout    engine.Layout
	maxWidth  float32
	maxHeight float32
}

func NewSheetCanvas(opt engine.MachineOption, blank engine.Size, l engine.Layout, maxW, maxH float32) *SheetCanvas {
	sc := &SheetCanvas{
		option:    opt,
		blank:     blank,
		layout:    l,
		maxWidth:  maxW,
		maxHeight: maxH,
	}
	sc.ExtendBaseWidget(sc)
	return sc
}

func (sc *SheetCanvas) CreateRenderer() fyne.WidgetRenderer {
	return newSheetCanvasRenderer(sc)
}

// scale fits the sheet into the widget bounds. Zero sizes give zero.
func (sc *SheetCanvas) scale() float32 {
	w := float32(sc.option.Sheet.W)
	h := float32(sc.option.Sheet.H)
	if w <= 0 || h <= 0 {
		return 0
	}
	s := sc.maxWidth / w
	if sy := sc.maxHeight / h; sy < s {
		s = sy
	}
	return s
}

type sheetCanvasRenderer struct {
	sc      *SheetCanvas
	objects []fyne.CanvasObject
}

func newSheetCanvasRenderer(sc *SheetCanvas) *sheetCanvasRenderer {
	r := &sheetCanvasRenderer{sc: sc}
	r.rebuild()
	return r
}

func (r *sheetCanvasRenderer) rebuild() {
	r.objects = nil

	scale := r.sc.scale()
	if scale == 0 {
		return
	}
	sheet := r.sc.option.Sheet
	canvasW := float32(sheet.W) * scale
	canvasH := float32(sheet.H) * scale

	bg := canvas.NewRectangle(boardColor)
	bg.Resize(fyne.NewSize(canvasW, canvasH))
	r.objects = append(r.objects, bg)

	border := canvas.NewRectangle(color.Transparent)
	border.StrokeColor = color.NRGBA{R: 100, G: 100, B: 100, A: 255}
	border.StrokeWidth = 2
	border.Resize(fyne.NewSize(canvasW, canvasH))
	r.objects = append(r.objects, border)

	grip := float32(r.sc.layout.Grip) * scale
	if grip > 0 {
		zone := canvas.NewRectangle(gripColor)
		zone.Resize(fyne.NewSize(canvasW, grip))
		r.objects = append(r.objects, zone)
		if grip > 12 && canvasW > 60 {
			label := canvas.NewText("PINZA", color.White)
			label.TextSize = 8
			label.TextStyle = fyne.TextStyle{Bold: true}
			label.Move(fyne.NewPos(5, 1))
			r.objects = append(r.objects, label)
		}
	}

	for i, cell := range BlankCells(r.sc.option.Imposition, r.sc.blank, r.sc.layout) {
		col := blankColors[i%len(blankColors)]
		bx := float32(cell.X) * scale
		by := float32(cell.Y) * scale
		bw := float32(cell.W) * scale
		bh := float32(cell.H) * scale

		rect := canvas.NewRectangle(col)
		rect.StrokeColor = color.NRGBA{R: 30, G: 30, B: 30, A: 255}
		rect.StrokeWidth = 1
		rect.Resize(fyne.NewSize(bw, bh))
		rect.Move(fyne.NewPos(bx, by))
		r.objects = append(r.objects, rect)

		if bw > 30 && bh > 16 {
			label := canvas.NewText(fmt.Sprintf("%d", i+1), color.Black)
			label.TextSize = 10
			label.Move(fyne.NewPos(bx+3, by+2))
			r.objects = append(r.objects, label)
		}
	}
}

func (r *sheetCanvasRenderer) Layout(size fyne.Size)        {}
func (r *sheetCanvasRenderer) Refresh()                     { r.rebuild() }
func (r *sheetCanvasRenderer) Destroy()                     {}
func (r *sheetCanvasRenderer) Objects() []fyne.CanvasObject { return r.objects }
func (r *sheetCanvasRenderer) MinSize() fyne.Size {
	scale := r.sc.scale()
	return fyne.NewSize(float32(r.sc.option.Sheet.W)*scale, float32(r.sc.option.Sheet.H)*scale)
}

// Cell is the position of one blank on the sheet, in mm from the top-left
// corner. The gripper margin is at the top.
type Cell struct {
	X, Y, W, H float64
}

// BlankCells lays out the blanks of an imposition row by row.
func BlankCells(im engine.Imposition, blank engine.Size, l engine.Layout) []Cell {
	w, h := blank.W, blank.H
	if im.Rotated {
		w, h = h, w
	}
	cells := make([]Cell, 0, im.Cols*im.Rows)
	for row := 0; row < im.Rows; row++ {
		for col := 0; col < im.Cols; col++ {
			cells = append(cells, Cell{
				X: float64(col) * (w + l.GapH),
				Y: l.Grip + float64(row)*(h+l.GapV),
				W: w,
				H: h,
			})
		}
	}
	return cells
}

// RenderImpositions creates a scrollable list of ranked die-cutter options,
// each with its preview and a button that calls onChoose.
func RenderImpositions(options []engine.MachineOption, blank engine.Size, l engine.Layout, onChoose func(engine.MachineOption)) fyne.CanvasObject {
	if len(options) == 0 {
		return widget.NewLabel("No die cutter in the inventory fits this blank.")
	}

	var items []fyne.CanvasObject
	for i, line := range OptionSummaries(options) {
		opt := options[i]
		header := widget.NewLabel(line)
		header.TextStyle = fyne.TextStyle{Bold: i == 0}

		var chooseBtn fyne.CanvasObject = widget.NewLabel("")
		if onChoose != nil {
			chooseBtn = widget.NewButton("Use", func() { onChoose(opt) })
		}

		items = append(items,
			container.NewBorder(nil, nil, nil, chooseBtn, header),
			NewSheetCanvas(opt, blank, l, 420, 260),
			widget.NewLabel(printerLine(opt)),
			widget.NewSeparator(),
		)
	}
	return container.NewVScroll(container.NewVBox(items...))
}

// OptionSummaries returns one heading line per option, in order.
func OptionSummaries(options []engine.MachineOption) []string {
	lines := make([]string, 0, len(options))
	for i, opt := range options {
		im := opt.Imposition
		orient := ""
		if im.Rotated {
			orient = ", rotated"
		}
		lines = append(lines, fmt.Sprintf(
			"%d. %s: %d pcs (%d x %d%s) on %.0f x %.0f, %.2f%% efficiency",
			i+1, opt.Machine.Name, im.Count, im.Cols, im.Rows, orient,
			opt.Sheet.W, opt.Sheet.H, im.Efficiency,
		))
	}
	return lines
}

func printerLine(opt engine.MachineOption) string {
	if len(opt.Printers) == 0 {
		return "Printers: none accepts this sheet"
	}
	names := make([]string, len(opt.Printers))
	for i, p := range opt.Printers {
		names[i] = p.Name
	}
	return "Printers: " + strings.Join(names, ", ")
}
