package ui

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/HojaMaestra/internal/model"
)

// showConstantsDialog opens the editor of the material constants the
// engine computes grammage and weights from.
func (a *App) showConstantsDialog() {
	c := a.config.EffectiveConstants()

	// Helper to create a bound float entry
	floatEntry := func(val *float64) *widget.Entry {
		e := widget.NewEntry()
		e.SetText(model.FormatNumber(*val))
		e.OnChanged = func(text string) {
			if v, err := strconv.ParseFloat(text, 64); err == nil {
				*val = v
			}
		}
		return e
	}

	// mapEntry binds an entry to one key of a float map.
	mapEntry := func(m map[string]float64, key string) *widget.Entry {
		e := widget.NewEntry()
		e.SetText(model.FormatNumber(m[key]))
		e.OnChanged = func(text string) {
			if v, err := strconv.ParseFloat(text, 64); err == nil {
				m[key] = v
			}
		}
		return e
	}

	// --- Flutes ---
	flutes := sortedKeys(c.FluteFactors)
	fluteGrid := container.NewGridWithColumns(2)
	for _, f := range flutes {
		fluteGrid.Add(widget.NewLabel("Flute " + f))
		fluteGrid.Add(mapEntry(c.FluteFactors, f))
	}
	defaultFlute := widget.NewSelect(flutes, func(selected string) { c.DefaultFlute = selected })
	defaultFlute.SetSelected(c.DefaultFlute)
	fluteGrid.Add(widget.NewLabel("Default Flute"))
	fluteGrid.Add(defaultFlute)

	fluteSection := widget.NewCard("Flute Factors",
		"Medium take-up factor per flute letter (microcorrugated)",
		fluteGrid)

	// --- Adhesives ---
	adhesiveSection := widget.NewCard("Adhesives",
		"Grammage added by the adhesive layers (g/m²)",
		container.NewGridWithColumns(2,
			widget.NewLabel("Starch"), floatEntry(&c.Adhesives.Starch),
			widget.NewLabel("PVA"), floatEntry(&c.Adhesives.PVA),
			widget.NewLabel("Total"), floatEntry(&c.Adhesives.Total),
		))

	// --- Folding carton families ---
	sections := []fyne.CanvasObject{fluteSection, adhesiveSection}
	for i := range c.FoldingGrammage {
		sections = append(sections, familyCard(&c.FoldingGrammage[i]))
	}

	restoreBtn := widget.NewButtonWithIcon("Restore Defaults", theme.HistoryIcon(), nil)

	content := container.NewBorder(nil, restoreBtn, nil, nil,
		container.NewVScroll(container.NewVBox(sections...)))

	d := dialog.NewCustomConfirm("Material Constants", "Save", "Cancel", content,
		func(ok bool) {
			if !ok {
				return
			}
			a.setConstants(c)
		},
		a.window,
	)
	restoreBtn.OnTapped = func() {
		dialog.ShowConfirm("Restore Defaults",
			"Discard every constant override and return to the built-in table?",
			func(ok bool) {
				if !ok {
					return
				}
				d.Hide()
				a.setConstants(model.MaterialConstants{})
			},
			a.window,
		)
	}
	d.Resize(fyne.NewSize(560, 650))
	d.Show()
}

// familyCard edits the aliases and the caliper table of one paper family.
func familyCard(f *model.PaperFamily) fyne.CanvasObject {
	aliases := widget.NewEntry()
	aliases.SetText(strings.Join(f.Aliases, ", "))
	aliases.OnChanged = func(text string) {
		if parsed := parseAliases(text); len(parsed) > 0 {
			f.Aliases = parsed
		}
	}

	grid := container.NewGridWithColumns(4)
	for _, cal := range sortedCalipers(f.Grammage) {
		cal := cal
		e := widget.NewEntry()
		e.SetText(model.FormatNumber(f.Grammage[cal]))
		e.OnChanged = func(text string) {
			if v, err := strconv.ParseFloat(text, 64); err == nil {
				f.Grammage[cal] = v
			}
		}
		grid.Add(widget.NewLabel(fmt.Sprintf("%d pt", cal)))
		grid.Add(e)
	}

	return widget.NewCard(f.Name,
		"Grammage (g/m²) per caliper point",
		container.NewVBox(
			container.NewBorder(nil, nil, widget.NewLabel("Aliases"), nil, aliases),
			grid,
		))
}

// setConstants stores c as the configured overrides and hands the merged
// table to the engine.
func (a *App) setConstants(c model.MaterialConstants) {
	a.config.Constants = c
	if err := a.saveConfig(); err != nil {
		dialog.ShowError(fmt.Errorf("failed to save constants: %w", err), a.window)
		return
	}
	a.session.SetConstants(a.config.EffectiveConstants())
	a.logger.Info("material constants updated")
	a.refreshState()
}

// parseAliases splits a comma separated alias list into upper-case,
// non-empty aliases.
func parseAliases(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.ToUpper(strings.TrimSpace(part)); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedCalipers(m map[int]float64) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
