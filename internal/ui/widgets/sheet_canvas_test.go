package widgets

import (
	"strings"
	"testing"

	"github.com/piwi3910/HojaMaestra/internal/engine"
	"github.com/piwi3910/HojaMaestra/internal/model"
)

func TestBlankCells(t *testing.T) {
	im := engine.Imposition{Count: 4, Cols: 2, Rows: 2}
	cells := BlankCells(im, engine.Size{W: 300, H: 200}, engine.Layout{GapH: 5, GapV: 10, Grip: 12})

	if len(cells) != 4 {
		t.Fatalf("expected 4 cells, got %d", len(cells))
	}
	want := []Cell{
		{X: 0, Y: 12, W: 300, H: 200},
		{X: 305, Y: 12, W: 300, H: 200},
		{X: 0, Y: 222, W: 300, H: 200},
		{X: 305, Y: 222, W: 300, H: 200},
	}
	for i, c := range cells {
		if c != want[i] {
			t.Errorf("cell %d: expected %+v, got %+v", i, want[i], c)
		}
	}
}

func TestBlankCellsRotated(t *testing.T) {
	im := engine.Imposition{Count: 1, Cols: 1, Rows: 1, Rotated: true}
	cells := BlankCells(im, engine.Size{W: 300, H: 200}, engine.Layout{})
	if len(cells) != 1 {
		t.Fatalf("expected 1 cell, got %d", len(cells))
	}
	if cells[0].W != 200 || cells[0].H != 300 {
		t.Errorf("rotated blank should be 200x300, got %.0fx%.0f", cells[0].W, cells[0].H)
	}
}

func TestBlankCellsMatchImposition(t *testing.T) {
	blank := engine.Size{W: 250, H: 180}
	l := engine.Layout{GapH: 4, GapV: 4, Grip: 10}
	sheet := engine.Size{W: 1050, H: 735}
	im := engine.Impose(blank, sheet, l)

	cells := BlankCells(im, blank, l)
	if len(cells) != im.Count {
		t.Fatalf("expected %d cells, got %d", im.Count, len(cells))
	}
	for i, c := range cells {
		if c.X+c.W > sheet.W+0.001 || c.Y+c.H > sheet.H+0.001 {
			t.Errorf("cell %d overflows the sheet: %+v", i, c)
		}
	}
}

func TestOptionSummaries(t *testing.T) {
	options := []engine.MachineOption{
		{
			Machine:    model.Machine{Name: "SP-104"},
			Imposition: engine.Imposition{Count: 6, Cols: 3, Rows: 2, Efficiency: 81.5},
			Sheet:      engine.Size{W: 1000, H: 700},
		},
		{
			Machine:    model.Machine{Name: "Vision-160"},
			Imposition: engine.Imposition{Count: 4, Cols: 2, Rows: 2, Rotated: true},
			Sheet:      engine.Size{W: 800, H: 600},
		},
	}
	lines := OptionSummaries(options)
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[0] != "1. SP-104: 6 pcs (3 x 2) on 1000 x 700, 81.50% efficiency" {
		t.Errorf("unexpected first line %q", lines[0])
	}
	if !strings.Contains(lines[1], "rotated") {
		t.Errorf("rotated option should say so: %q", lines[1])
	}
}

func TestPrinterLine(t *testing.T) {
	if got := printerLine(engine.MachineOption{}); !strings.Contains(got, "none") {
		t.Errorf("expected no printers, got %q", got)
	}
	opt := engine.MachineOption{Printers: []model.Machine{{Name: "KBA-106"}, {Name: "Landa"}}}
	if got := printerLine(opt); got != "Printers: KBA-106, Landa" {
		t.Errorf("unexpected printer line %q", got)
	}
}
