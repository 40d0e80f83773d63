package ui

import (
	"fmt"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"github.com/piwi3910/HojaMaestra/internal/engine"
	"github.com/piwi3910/HojaMaestra/internal/model"
	"github.com/piwi3910/HojaMaestra/internal/ui/widgets"
)

// layoutFromValues reads the gaps and the gripper margin of the die.
func layoutFromValues(v map[model.FieldKey]string) engine.Layout {
	return engine.Layout{
		GapH: model.ParseNumber(v[model.KeyGapH]),
		GapV: model.ParseNumber(v[model.KeyGapV]),
		Grip: model.ParseNumber(v[model.KeyGrip]),
	}
}

// pickPrinter keeps the current printer when it accepts the option's sheet
// and falls back to the first printer that does.
func pickPrinter(opt engine.MachineOption, current string) string {
	for _, p := range opt.Printers {
		if strings.EqualFold(p.Name, current) {
			return p.Name
		}
	}
	if len(opt.Printers) > 0 {
		return opt.Printers[0].Name
	}
	return ""
}

// ─── Imposition ────────────────────────────────────────────

func (a *App) showImpositionDialog() {
	if !a.requireSheet() {
		return
	}
	values := a.form.Values()
	l := layoutFromValues(values)

	blankW := widget.NewEntry()
	blankW.SetPlaceHolder("Blank width (mm)")
	blankH := widget.NewEntry()
	blankH.SetPlaceHolder("Blank height (mm)")
	gapH := widget.NewEntry()
	gapH.SetText(model.FormatNumber(l.GapH))
	gapV := widget.NewEntry()
	gapV.SetText(model.FormatNumber(l.GapV))
	grip := widget.NewEntry()
	grip.SetText(model.FormatNumber(l.Grip))

	results := container.NewStack(widget.NewLabel("Enter the unfolded blank size and press Compute."))

	var d dialog.Dialog
	compute := func() {
		w, errW := strconv.ParseFloat(strings.TrimSpace(blankW.Text), 64)
		h, errH := strconv.ParseFloat(strings.TrimSpace(blankH.Text), 64)
		if errW != nil || errH != nil || w <= 0 || h <= 0 {
			dialog.ShowError(fmt.Errorf("blank width and height must be > 0"), a.window)
			return
		}
		blank := engine.Size{W: w, H: h}
		layout := engine.Layout{
			GapH: model.ParseNumber(gapH.Text),
			GapV: model.ParseNumber(gapV.Text),
			Grip: model.ParseNumber(grip.Text),
		}
		options := engine.RankMachines(blank, layout, a.config.Machines)
		a.logger.Debug("imposition ranked",
			zap.Float64("blank_w", w), zap.Float64("blank_h", h), zap.Int("options", len(options)))

		results.Objects = []fyne.CanvasObject{
			widgets.RenderImpositions(options, blank, layout, func(opt engine.MachineOption) {
				printer := pickPrinter(opt, a.form.Get(model.KeyPrinter))
				derived, err := a.session.ApplyImposition(opt, printer)
				if err != nil {
					a.showError(err)
					return
				}
				if d != nil {
					d.Hide()
				}
				a.refreshState()
				dialog.ShowInformation("Imposition Applied",
					fmt.Sprintf("%s: %d pieces per %s sheet, %.2f%% efficiency.",
						opt.Machine.Name, opt.Imposition.Count,
						engine.FormatPaperDim(model.RoundHalfUp(opt.Sheet.W), model.RoundHalfUp(opt.Sheet.H)),
						derived.Efficiency),
					a.window)
			}),
		}
		results.Refresh()
	}

	computeBtn := widget.NewButtonWithIcon("Compute", theme.ViewRefreshIcon(), compute)

	inputs := widget.NewCard("Blank & Die", "",
		container.NewVBox(
			container.NewGridWithColumns(4,
				widget.NewLabel("Blank W (mm)"), blankW,
				widget.NewLabel("Blank H (mm)"), blankH,
				widget.NewLabel("Gap H (mm)"), gapH,
				widget.NewLabel("Gap V (mm)"), gapV,
				widget.NewLabel("Gripper (mm)"), grip,
			),
			computeBtn,
		))

	content := container.NewBorder(inputs, nil, nil, nil, results)
	d = dialog.NewCustom("Imposition", "Close", content, a.window)
	d.Resize(fyne.NewSize(700, 750))
	d.Show()
}

// ─── Pallet Layers ─────────────────────────────────────────

func (a *App) showPalletLayersDialog() {
	if !a.requireSheet() {
		return
	}
	layerEntry := widget.NewEntry()
	layerEntry.SetPlaceHolder("Height of one layer (mm)")
	if h := a.form.Get(model.KeyPackH); h != "" {
		layerEntry.SetText(h)
	}
	baseEntry := widget.NewEntry()
	baseEntry.SetText("150")

	resultLabel := widget.NewLabel("")
	resultLabel.Wrapping = fyne.TextWrapWord

	layers := 0
	preview := func() {
		layer := model.ParseNumber(layerEntry.Text)
		base := model.ParseNumber(baseEntry.Text)
		layers = engine.LayersForHeight(a.config.Palletizing, layer, base)
		if layers == 0 {
			resultLabel.SetText(fmt.Sprintf("No layer fits in %.0f cm.", a.config.Palletizing.StandardHeightCm))
			return
		}
		v := a.form.Values()
		load := engine.ComputePalletLoad(
			model.ParseNumber(v[model.KeyPcsPack]),
			model.ParseNumber(v[model.KeyPacksLayer]),
			float64(layers),
			model.ParseNumber(v[model.KeyPalletsCont]),
		)
		text := fmt.Sprintf("%d layers fit in %.0f cm.", layers, a.config.Palletizing.StandardHeightCm)
		if load.PiecesPerPallet > 0 {
			text += fmt.Sprintf("\n%s pieces per pallet", humanize.Comma(int64(load.PiecesPerPallet)))
		}
		if load.PiecesPerContainer > 0 {
			text += fmt.Sprintf(", %s per container", humanize.Comma(int64(load.PiecesPerContainer)))
		}
		resultLabel.SetText(text)
	}
	layerEntry.OnChanged = func(string) { preview() }
	baseEntry.OnChanged = func(string) { preview() }
	preview()

	form := dialog.NewForm("Pallet Layers", "Apply", "Cancel",
		[]*widget.FormItem{
			widget.NewFormItem("Layer Height (mm)", layerEntry),
			widget.NewFormItem("Pallet Base (mm)", baseEntry),
			widget.NewFormItem("", resultLabel),
		},
		func(ok bool) {
			if !ok || layers == 0 {
				return
			}
			if _, err := a.session.Edit(model.KeyLayersPallet, strconv.Itoa(layers)); err != nil {
				a.showError(err)
				return
			}
			a.refreshState()
		},
		a.window,
	)
	form.Resize(fyne.NewSize(420, 280))
	form.Show()
}
