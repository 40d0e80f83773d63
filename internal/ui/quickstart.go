package ui

import (
	"fmt"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"

	"github.com/piwi3910/HojaMaestra/internal/engine"
	"github.com/piwi3910/HojaMaestra/internal/model"
)

// quickStartInput is the raw text of the quick start wizard.
type quickStartInput struct {
	Client, Article, SAP                string
	MatClass, Paper, Caliper, Flute     string
	ECT, LinerExt, Medium, LinerInt     string
	DimL, DimW, DimH                    string
	GrainDir, DieType, Grip, GapH, GapV string
	GlueType                            string
	Sheet, PieceArea, Pieces            string
}

// quickStartFromValues prefills the wizard from the open sheet.
func quickStartFromValues(v map[model.FieldKey]string) quickStartInput {
	in := quickStartInput{
		Client:    v[model.KeyClient],
		Article:   v[model.KeyArticle],
		SAP:       v[model.KeySAP],
		MatClass:  v[model.KeyMatClass],
		Paper:     v[model.KeyMatPaper],
		Caliper:   v[model.KeyCaliper],
		Flute:     v[model.KeyFlute],
		ECT:       v[model.KeyECT],
		LinerExt:  v[model.KeyLinerExt],
		Medium:    v[model.KeyMedium],
		LinerInt:  v[model.KeyLinerInt],
		DimL:      v[model.KeyDimL],
		DimW:      v[model.KeyDimW],
		DimH:      v[model.KeyDimH],
		GrainDir:  v[model.KeyGrainDir],
		DieType:   v[model.KeyDieType],
		Grip:      v[model.KeyGrip],
		GapH:      v[model.KeyGapH],
		GapV:      v[model.KeyGapV],
		GlueType:  v[model.KeyGlueType],
		Sheet:     v[model.KeyPaperDim],
		PieceArea: v[model.KeyPieceArea],
		Pieces:    v[model.KeyPcsSheet],
	}
	if in.MatClass == "" {
		in.MatClass = model.MaterialClasses[0]
	}
	if in.GrainDir == "" {
		in.GrainDir = model.GrainDirections[0]
	}
	return in
}

// optionalNumber parses a blank-or-positive number.
func optionalNumber(label, s string) (float64, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("%s must be a number >= 0, got %q", label, s)
	}
	return v, nil
}

// toQuickStart validates the wizard input.
func (in quickStartInput) toQuickStart() (engine.QuickStart, error) {
	q := engine.QuickStart{
		Client:   in.Client,
		Article:  in.Article,
		SAP:      in.SAP,
		MatClass: strings.ToUpper(strings.TrimSpace(in.MatClass)),
		Paper:    in.Paper,
		Caliper:  in.Caliper,
		Flute:    in.Flute,
		ECT:      in.ECT,
		DimL:     in.DimL,
		DimW:     in.DimW,
		DimH:     in.DimH,
		GrainDir: in.GrainDir,
		DieType:  in.DieType,
		Grip:     in.Grip,
		GapH:     in.GapH,
		GapV:     in.GapV,
		GlueType: in.GlueType,
	}
	if q.MatClass == "" {
		return q, fmt.Errorf("material class is required")
	}

	var err error
	for _, n := range []struct {
		label string
		text  string
		dst   *float64
	}{
		{"External liner", in.LinerExt, &q.LinerExt},
		{"Medium", in.Medium, &q.Medium},
		{"Internal liner", in.LinerInt, &q.LinerInt},
		{"Piece area", in.PieceArea, &q.PieceArea},
		{"Pieces per sheet", in.Pieces, &q.Pieces},
	} {
		if *n.dst, err = optionalNumber(n.label, n.text); err != nil {
			return q, err
		}
	}

	if s := strings.TrimSpace(in.Sheet); s != "" {
		l, w, ok := engine.ParsePaperDim(s)
		if !ok {
			return q, fmt.Errorf("sheet size must look like 1200 X 800, got %q", s)
		}
		q.SheetL, q.SheetW = l, w
	}
	return q, nil
}

// ─── Quick Start Wizard ────────────────────────────────────

func (a *App) showQuickStartDialog() {
	if !a.requireSheet() {
		return
	}
	in := quickStartFromValues(a.form.Values())

	entry := func(val *string, placeholder string) *widget.Entry {
		e := widget.NewEntry()
		e.SetText(*val)
		e.SetPlaceHolder(placeholder)
		e.OnChanged = func(text string) { *val = text }
		return e
	}
	choice := func(val *string, options []string) *widget.SelectEntry {
		e := widget.NewSelectEntry(options)
		e.SetText(*val)
		e.OnChanged = func(text string) { *val = text }
		return e
	}

	// --- Product ---
	productSection := widget.NewCard("Product", "",
		container.NewGridWithColumns(2,
			widget.NewLabel("Client"), entry(&in.Client, ""),
			widget.NewLabel("Article"), entry(&in.Article, ""),
			widget.NewLabel("SAP Code"), entry(&in.SAP, ""),
		))

	// --- Material ---
	materialSection := widget.NewCard("Material",
		"Liners and medium only apply to microcorrugated board",
		container.NewGridWithColumns(2,
			widget.NewLabel("Class"), choice(&in.MatClass, model.MaterialClasses),
			widget.NewLabel("Paper"), entry(&in.Paper, "e.g., SBS C1S"),
			widget.NewLabel("Caliper (pts)"), entry(&in.Caliper, "e.g., 18"),
			widget.NewLabel("Flute"), choice(&in.Flute, model.Flutes),
			widget.NewLabel("ECT"), entry(&in.ECT, ""),
			widget.NewLabel("External Liner (g/m²)"), entry(&in.LinerExt, ""),
			widget.NewLabel("Medium (g/m²)"), entry(&in.Medium, ""),
			widget.NewLabel("Internal Liner (g/m²)"), entry(&in.LinerInt, ""),
		))

	// --- Box ---
	boxSection := widget.NewCard("Box", "",
		container.NewGridWithColumns(2,
			widget.NewLabel("Length (mm)"), entry(&in.DimL, ""),
			widget.NewLabel("Width (mm)"), entry(&in.DimW, ""),
			widget.NewLabel("Height (mm)"), entry(&in.DimH, ""),
			widget.NewLabel("Glue Type"), entry(&in.GlueType, ""),
		))

	// --- Sheet Layout ---
	layoutSection := widget.NewCard("Sheet Layout",
		"The sheet size is L X W as laid on the press",
		container.NewGridWithColumns(2,
			widget.NewLabel("Sheet Size (mm)"), entry(&in.Sheet, "1200 X 800"),
			widget.NewLabel("Grain Direction"), choice(&in.GrainDir, model.GrainDirections),
			widget.NewLabel("Pieces per Sheet"), entry(&in.Pieces, ""),
			widget.NewLabel("Piece Area (m²)"), entry(&in.PieceArea, ""),
			widget.NewLabel("Die Type"), entry(&in.DieType, ""),
			widget.NewLabel("Gripper (mm)"), entry(&in.Grip, ""),
			widget.NewLabel("Horizontal Gap (mm)"), entry(&in.GapH, ""),
			widget.NewLabel("Vertical Gap (mm)"), entry(&in.GapV, ""),
		))

	content := container.NewVScroll(container.NewVBox(
		productSection,
		materialSection,
		boxSection,
		layoutSection,
	))

	d := dialog.NewCustomConfirm("Quick Start", "Apply", "Cancel", content,
		func(ok bool) {
			if !ok {
				return
			}
			q, err := in.toQuickStart()
			if err != nil {
				dialog.ShowError(err, a.window)
				return
			}
			derived, err := a.session.QuickStart(q)
			if err != nil {
				a.showError(err)
				return
			}
			a.logger.Info("quick start applied", zap.Float64("gsm", derived.Grammage))
			a.refreshState()
		},
		a.window,
	)
	d.Resize(fyne.NewSize(600, 700))
	d.Show()
}
