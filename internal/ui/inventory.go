package ui

import (
	"fmt"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/HojaMaestra/internal/model"
	"github.com/piwi3910/HojaMaestra/internal/project"
)

var machineKinds = []model.MachineKind{
	model.KindDieCutter,
	model.KindPrinter,
	model.KindGluer,
	model.KindLaminator,
}

var machineKindLabels = map[model.MachineKind]string{
	model.KindDieCutter: "Die cutter",
	model.KindPrinter:   "Printer",
	model.KindGluer:     "Gluer",
	model.KindLaminator: "Laminator",
}

func machineKindByLabel(label string) model.MachineKind {
	for k, l := range machineKindLabels {
		if l == label {
			return k
		}
	}
	return ""
}

func formatLimit(v float64) string {
	if v <= 0 {
		return "-"
	}
	return fmt.Sprintf("%.0f", v)
}

// ─── Machine Inventory Dialog ──────────────────────────────

func (a *App) showMachineInventoryDialog() {
	machineList := container.NewVBox()
	var refreshList func()

	refreshList = func() {
		machineList.RemoveAll()

		if len(a.config.Machines.Machines) == 0 {
			machineList.Add(widget.NewLabel("No machines defined."))
			return
		}

		header := container.NewGridWithColumns(6,
			widget.NewLabelWithStyle("Name", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
			widget.NewLabelWithStyle("Kind", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
			widget.NewLabelWithStyle("Max (mm)", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
			widget.NewLabelWithStyle("Min (mm)", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
			widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{}),
			widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{}),
		)
		machineList.Add(header)
		machineList.Add(widget.NewSeparator())

		for _, kind := range machineKinds {
			for _, m := range a.config.Machines.OfKind(kind) {
				id := m.ID
				row := container.NewGridWithColumns(6,
					widget.NewLabel(m.Name),
					widget.NewLabel(machineKindLabels[m.Kind]),
					widget.NewLabel(formatLimit(m.MaxWidth)+" x "+formatLimit(m.MaxHeight)),
					widget.NewLabel(formatLimit(m.MinWidth)+" x "+formatLimit(m.MinHeight)),
					widget.NewButtonWithIcon("", theme.DocumentCreateIcon(), func() {
						a.showMachineDialog(id, refreshList)
					}),
					widget.NewButtonWithIcon("", theme.DeleteIcon(), func() {
						a.config.Machines.Remove(id)
						a.saveMachines()
						refreshList()
					}),
				)
				machineList.Add(row)
			}
		}
	}

	refreshList()

	addBtn := widget.NewButtonWithIcon("Add Machine", theme.ContentAddIcon(), func() {
		a.showMachineDialog("", refreshList)
	})

	importBtn := widget.NewButtonWithIcon("Import...", theme.FolderOpenIcon(), func() {
		a.importMachines(refreshList)
	})

	exportBtn := widget.NewButtonWithIcon("Export...", theme.DocumentSaveIcon(), func() {
		a.exportMachines()
	})

	toolbar := container.NewHBox(addBtn, layout.NewSpacer(), importBtn, exportBtn)

	content := container.NewBorder(
		toolbar,
		nil, nil, nil,
		container.NewVScroll(machineList),
	)

	d := dialog.NewCustom("Machines", "Close", content, a.window)
	d.Resize(fyne.NewSize(700, 500))
	d.Show()
}

// showMachineDialog edits the machine with the given ID, or adds a new one
// when id is empty.
func (a *App) showMachineDialog(id string, onDone func()) {
	m := model.Machine{Name: "New Machine", Kind: model.KindDieCutter}
	title, confirm := "Add Machine", "Add"
	if id != "" {
		existing := a.config.Machines.FindByID(id)
		if existing == nil {
			return
		}
		m = *existing
		title, confirm = "Edit Machine", "Save"
	}

	nameEntry := widget.NewEntry()
	nameEntry.SetText(m.Name)

	labels := make([]string, len(machineKinds))
	for i, k := range machineKinds {
		labels[i] = machineKindLabels[k]
	}
	kindSelect := widget.NewSelect(labels, nil)
	kindSelect.SetSelected(machineKindLabels[m.Kind])

	limitEntry := func(v float64) *widget.Entry {
		e := widget.NewEntry()
		e.SetPlaceHolder("0 = no limit")
		if v > 0 {
			e.SetText(fmt.Sprintf("%.0f", v))
		}
		return e
	}
	maxW, maxH := limitEntry(m.MaxWidth), limitEntry(m.MaxHeight)
	minW, minH := limitEntry(m.MinWidth), limitEntry(m.MinHeight)

	form := dialog.NewForm(title, confirm, "Cancel",
		[]*widget.FormItem{
			widget.NewFormItem("Name", nameEntry),
			widget.NewFormItem("Kind", kindSelect),
			widget.NewFormItem("Max Width (mm)", maxW),
			widget.NewFormItem("Max Height (mm)", maxH),
			widget.NewFormItem("Min Width (mm)", minW),
			widget.NewFormItem("Min Height (mm)", minH),
		},
		func(ok bool) {
			if !ok {
				return
			}
			edited, err := machineFromEntries(nameEntry.Text, machineKindByLabel(kindSelect.Selected),
				maxW.Text, maxH.Text, minW.Text, minH.Text)
			if err != nil {
				dialog.ShowError(err, a.window)
				return
			}
			if other := a.config.Machines.FindByName(edited.Name); other != nil && other.ID != id {
				dialog.ShowError(fmt.Errorf("a machine named %q already exists", edited.Name), a.window)
				return
			}
			if id == "" {
				a.config.Machines.Add(edited)
			} else if target := a.config.Machines.FindByID(id); target != nil {
				edited.ID = id
				*target = edited
			}
			a.saveMachines()
			onDone()
		},
		a.window,
	)
	form.Resize(fyne.NewSize(400, 420))
	form.Show()
}

// machineFromEntries validates the machine dialog input. Blank limits mean
// "not constrained".
func machineFromEntries(name string, kind model.MachineKind, maxW, maxH, minW, minH string) (model.Machine, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Machine{}, fmt.Errorf("machine name is required")
	}
	if kind == "" {
		return model.Machine{}, fmt.Errorf("machine kind is required")
	}
	var limits [4]float64
	for i, s := range []string{maxW, maxH, minW, minH} {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || v < 0 {
			return model.Machine{}, fmt.Errorf("invalid size %q: must be a number >= 0", s)
		}
		limits[i] = v
	}
	if (limits[0] > 0 && limits[2] > limits[0]) || (limits[1] > 0 && limits[3] > limits[1]) {
		return model.Machine{}, fmt.Errorf("minimum size exceeds the maximum")
	}
	return model.Machine{
		Name:      name,
		Kind:      kind,
		MaxWidth:  limits[0],
		MaxHeight: limits[1],
		MinWidth:  limits[2],
		MinHeight: limits[3],
	}, nil
}

// ─── Import / Export ───────────────────────────────────────

func (a *App) importMachines(onDone func()) {
	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()

		merged, err := project.ImportMachines(reader.URI().Path(), a.config.Machines)
		if err != nil {
			dialog.ShowError(err, a.window)
			return
		}

		added := len(merged.Machines) - len(a.config.Machines.Machines)
		a.config.Machines = merged
		a.saveMachines()
		onDone()
		dialog.ShowInformation("Import Complete",
			fmt.Sprintf("Added %d machines. The inventory now holds %d.", added, len(merged.Machines)),
			a.window)
	}, a.window)
}

func (a *App) exportMachines() {
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		defer writer.Close()

		if err := project.ExportMachines(writer.URI().Path(), a.config.Machines); err != nil {
			dialog.ShowError(err, a.window)
		} else {
			dialog.ShowInformation("Export Complete",
				fmt.Sprintf("Machines exported to %s", writer.URI().Path()),
				a.window)
		}
	}, a.window)
	d.SetFileName("maquinas.json")
	d.Show()
}

// saveMachines persists the inventory and refreshes the machine fields.
func (a *App) saveMachines() {
	if err := a.saveConfig(); err != nil {
		dialog.ShowError(fmt.Errorf("failed to save machines: %w", err), a.window)
	}
	a.refreshMachineChoices()
}

// refreshMachineChoices offers the current inventory on the machine fields.
func (a *App) refreshMachineChoices() {
	for key, names := range machineChoices(a.config.Machines) {
		a.form.SetChoices(key, names)
	}
}
