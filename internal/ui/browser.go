package ui

import (
	"fmt"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/dustin/go-humanize"

	"github.com/piwi3910/HojaMaestra/internal/model"
	"github.com/piwi3910/HojaMaestra/internal/store"
)

const allOption = "All"

// filterSheets keeps the sheets of one type and status. Empty values match
// everything.
func filterSheets(sheets []*model.Sheet, t model.SheetType, st model.Status) []*model.Sheet {
	var out []*model.Sheet
	for _, s := range sheets {
		if s == nil {
			continue
		}
		if t != "" && s.Type != t {
			continue
		}
		if st != "" && s.Status != st {
			continue
		}
		out = append(out, s)
	}
	return out
}

// statsLine summarises the history for the browser footer.
func statsLine(s store.Stats) string {
	parts := []string{fmt.Sprintf("%s sheets", humanize.Comma(int64(s.Total)))}
	for _, t := range model.SheetTypes {
		if n := s.ByType[t]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s %s", humanize.Comma(int64(n)), t))
		}
	}
	for _, st := range model.Statuses {
		if n := s.ByStatus[st]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s %s", humanize.Comma(int64(n)), st))
		}
	}
	if s.NextFAC != "" {
		parts = append(parts, "next "+s.NextFAC)
	}
	return strings.Join(parts, " · ")
}

// ─── History Browser ───────────────────────────────────────

func (a *App) showHistoryDialog() {
	searchEntry := widget.NewEntry()
	searchEntry.SetPlaceHolder("Search ID, client, article or SAP...")

	typeSelect := widget.NewSelect(append([]string{allOption}, sheetTypeNames()...), nil)
	typeSelect.SetSelected(allOption)

	statuses := []string{allOption}
	for _, s := range model.Statuses {
		statuses = append(statuses, string(s))
	}
	statusSelect := widget.NewSelect(statuses, nil)
	statusSelect.SetSelected(allOption)

	statsLabel := widget.NewLabel("")
	statsLabel.Importance = widget.LowImportance

	sheetList := container.NewVBox()
	var refreshList func()
	var d dialog.Dialog

	refreshList = func() {
		sheetList.RemoveAll()

		var sheets []*model.Sheet
		var err error
		if q := strings.TrimSpace(searchEntry.Text); q != "" {
			sheets, err = a.store.Search(a.ctx, q)
		} else {
			sheets, err = a.store.List(a.ctx, "")
		}
		if err != nil {
			sheetList.Add(widget.NewLabel("Failed to read the history: " + err.Error()))
			return
		}
		var t model.SheetType
		if typeSelect.Selected != allOption {
			t = model.SheetType(typeSelect.Selected)
		}
		var st model.Status
		if statusSelect.Selected != allOption {
			st = model.Status(statusSelect.Selected)
		}
		sheets = filterSheets(sheets, t, st)

		if stats, err := a.store.Stats(a.ctx); err == nil {
			statsLabel.SetText(statsLine(stats))
		}

		if len(sheets) == 0 {
			sheetList.Add(widget.NewLabel("No sheets match."))
			return
		}

		header := container.NewGridWithColumns(7,
			widget.NewLabelWithStyle("ID", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
			widget.NewLabelWithStyle("Status", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
			widget.NewLabelWithStyle("Client", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
			widget.NewLabelWithStyle("Article", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
			widget.NewLabelWithStyle("Modified", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
			widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{}),
			widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{}),
		)
		sheetList.Add(header)
		sheetList.Add(widget.NewSeparator())

		for _, s := range sheets {
			id := s.ID
			client := widget.NewLabel(s.Client())
			client.Truncation = fyne.TextTruncateEllipsis
			product := widget.NewLabel(s.Product())
			product.Truncation = fyne.TextTruncateEllipsis
			row := container.NewGridWithColumns(7,
				widget.NewLabel(id),
				widget.NewLabel(string(s.Status)),
				client,
				product,
				widget.NewLabel(humanize.Time(s.UpdatedAt)),
				widget.NewButtonWithIcon("", theme.FolderOpenIcon(), func() {
					a.confirmDiscard(func() {
						if d != nil {
							d.Hide()
						}
						a.openSheet(id)
					})
				}),
				widget.NewButtonWithIcon("", theme.DeleteIcon(), func() {
					dialog.ShowConfirm("Delete Sheet",
						fmt.Sprintf("Delete sheet %s from the history?", id),
						func(ok bool) {
							if !ok {
								return
							}
							if err := a.store.Delete(a.ctx, id); err != nil {
								a.showError(err)
								return
							}
							if open := a.session.Sheet(); open != nil && open.ID == id {
								a.closeSheet()
							}
							a.forgetRecent(id)
							refreshList()
						},
						a.window,
					)
				}),
			)
			sheetList.Add(row)
		}
	}

	searchEntry.OnChanged = func(string) { refreshList() }
	typeSelect.OnChanged = func(string) { refreshList() }
	statusSelect.OnChanged = func(string) { refreshList() }
	refreshList()

	exportBtn := widget.NewButtonWithIcon("Export to Excel...", theme.DocumentSaveIcon(), func() {
		a.exportHistoryExcel()
	})

	toolbar := container.NewBorder(nil, nil, nil,
		container.NewHBox(typeSelect, statusSelect, layout.NewSpacer(), exportBtn),
		searchEntry)

	content := container.NewBorder(
		toolbar,
		statsLabel,
		nil, nil,
		container.NewVScroll(sheetList),
	)

	d = dialog.NewCustom("Sheet History", "Close", content, a.window)
	d.Resize(fyne.NewSize(900, 550))
	d.Show()
}
