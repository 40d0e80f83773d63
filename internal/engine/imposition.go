package engine

import (
	"math"

	"github.com/piwi3910/HojaMaestra/internal/model"
)

// Size is a width x height rectangle in mm.
type Size struct {
	W float64
	H float64
}

// Area returns the size in m².
func (s Size) Area() float64 { return s.W * s.H / 1e6 }

// Layout holds the gaps between blanks and the gripper margin, in mm.
// The gripper margin is taken from the sheet height.
type Layout struct {
	GapH float64
	GapV float64
	Grip float64
}

// Imposition is the result of stepping a blank across a sheet.
type Imposition struct {
	Count   int
	Cols    int
	Rows    int
	Rotated bool
	// Used is the extent of the blanks plus gaps and gripper.
	Used Size
	// Efficiency is blank area over sheet area, in percent.
	Efficiency float64
}

// Impose computes how many blanks fit on a sheet in a simple grid, trying
// both blank orientations and keeping the one with more pieces. Ties go to
// the unrotated layout.
func Impose(blank, sheet Size, l Layout) Imposition {
	best := imposeOriented(blank, sheet, l, false)
	rot := imposeOriented(Size{W: blank.H, H: blank.W}, sheet, l, true)
	if rot.Count > best.Count {
		best = rot
	}
	if best.Count > 0 && sheet.W > 0 && sheet.H > 0 {
		best.Efficiency = model.RoundTo(float64(best.Count)*blank.W*blank.H/(sheet.W*sheet.H)*100, 2)
	}
	return best
}

func imposeOriented(blank, sheet Size, l Layout, rotated bool) Imposition {
	if blank.W <= 0 || blank.H <= 0 {
		return Imposition{Rotated: rotated}
	}
	cols := stepCount(sheet.W, blank.W, l.GapH)
	rows := stepCount(sheet.H-l.Grip, blank.H, l.GapV)
	im := Imposition{Cols: cols, Rows: rows, Count: cols * rows, Rotated: rotated}
	if im.Count > 0 {
		im.Used = Size{
			W: float64(cols)*blank.W + float64(cols-1)*l.GapH,
			H: float64(rows)*blank.H + float64(rows-1)*l.GapV + l.Grip,
		}
	}
	return im
}

// stepCount returns how many items of size item separated by gap fit in length.
func stepCount(length, item, gap float64) int {
	if length < item {
		return 0
	}
	if gap < 0 {
		gap = 0
	}
	return int(math.Floor((length + gap) / (item + gap)))
}

// Suggestion lists the machines able to run a sheet.
type Suggestion struct {
	DieCutters []model.Machine
	Printers   []model.Machine
}

// SuggestMachines filters the inventory to the die cutters and printers whose
// sheet limits accept the given sheet.
func SuggestMachines(sheet Size, inv model.MachineInventory) Suggestion {
	var s Suggestion
	for _, m := range inv.Machines {
		if !m.Accepts(sheet.W, sheet.H) {
			continue
		}
		switch m.Kind {
		case model.KindDieCutter:
			s.DieCutters = append(s.DieCutters, m)
		case model.KindPrinter:
			s.Printers = append(s.Printers, m)
		}
	}
	return s
}

// ApplyImposition writes a chosen layout into the record (sheet size, pieces
// per sheet and the machines) and runs a full pass.
func (e *Engine) ApplyImposition(opt MachineOption, printer string) Derived {
	set := func(k model.FieldKey, v string) {
		e.fields.Write(k, v, model.WriteOptions{})
	}
	if opt.Sheet.W > 0 && opt.Sheet.H > 0 {
		grain := model.RoundHalfUp(opt.Sheet.W)
		cross := model.RoundHalfUp(opt.Sheet.H)
		set(model.KeyDimGrain, model.FormatNumber(grain))
		set(model.KeyDimCross, model.FormatNumber(cross))
		set(model.KeyPaperDim, FormatPaperDim(grain, cross))
	}
	if opt.Imposition.Count > 0 {
		set(model.KeyPcsSheet, model.FormatNumber(float64(opt.Imposition.Count)))
	}
	if opt.Machine.Name != "" {
		set(model.KeyDieMachine, opt.Machine.Name)
	}
	if printer != "" {
		set(model.KeyPrinter, printer)
	}
	return e.Recalculate("")
}
