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
	"go.uber.org/zap"

	"github.com/piwi3910/HojaMaestra/internal/model"
)

// ─── Templates ─────────────────────────────────────────────

func (a *App) showSaveTemplateDialog() {
	if !a.requireSheet() {
		return
	}
	nameEntry := widget.NewEntry()
	nameEntry.SetPlaceHolder("e.g., Caja ACME 12 pzas")
	if client := a.form.Get(model.KeyClient); client != "" {
		nameEntry.SetText(strings.TrimSpace(client + " " + a.form.Get(model.KeyArticle)))
	}
	descEntry := widget.NewMultiLineEntry()
	descEntry.SetMinRowsVisible(3)

	form := dialog.NewForm("Save as Template", "Save", "Cancel",
		[]*widget.FormItem{
			widget.NewFormItem("Name", nameEntry),
			widget.NewFormItem("Description", descEntry),
		},
		func(ok bool) {
			if !ok {
				return
			}
			name := strings.TrimSpace(nameEntry.Text)
			if name == "" {
				dialog.ShowError(fmt.Errorf("template name is required"), a.window)
				return
			}
			tmpl := model.NewSheetTemplate(name, descEntry.Text, a.session.Sheet().Type,
				model.RecordFromMap(a.form.Values()))
			save := func() {
				if old := a.templates.FindByName(name); old != nil {
					a.templates.Remove(old.ID)
				}
				a.templates.Add(tmpl)
				if err := a.saveTemplates(); err != nil {
					a.showError(err)
					return
				}
				a.logger.Info("template saved", zap.String("template", name), zap.Int("fields", len(tmpl.Fields)))
			}
			if a.templates.FindByName(name) == nil {
				save()
				return
			}
			dialog.ShowConfirm("Replace Template",
				fmt.Sprintf("A template named %q already exists. Replace it?", name),
				func(ok bool) {
					if ok {
						save()
					}
				},
				a.window,
			)
		},
		a.window,
	)
	form.Resize(fyne.NewSize(450, 300))
	form.Show()
}

func (a *App) showTemplatesDialog() {
	templateList := container.NewVBox()
	var refreshList func()
	var d dialog.Dialog

	refreshList = func() {
		templateList.RemoveAll()

		if len(a.templates.Templates) == 0 {
			templateList.Add(widget.NewLabel("No templates saved. Use Edit > Save as Template on an open sheet."))
			return
		}

		header := container.NewGridWithColumns(5,
			widget.NewLabelWithStyle("Name", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
			widget.NewLabelWithStyle("Type", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
			widget.NewLabelWithStyle("Fields", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
			widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{}),
			widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{}),
		)
		templateList.Add(header)
		templateList.Add(widget.NewSeparator())

		for _, t := range a.templates.Templates {
			tmpl := t
			name := widget.NewLabel(tmpl.Name)
			name.Truncation = fyne.TextTruncateEllipsis
			row := container.NewGridWithColumns(5,
				name,
				widget.NewLabel(string(tmpl.Type)),
				widget.NewLabel(fmt.Sprintf("%d", len(tmpl.Fields))),
				widget.NewButtonWithIcon("Use", theme.ConfirmIcon(), func() {
					if d != nil {
						d.Hide()
					}
					a.useTemplate(tmpl)
				}),
				widget.NewButtonWithIcon("", theme.DeleteIcon(), func() {
					a.templates.Remove(tmpl.ID)
					if err := a.saveTemplates(); err != nil {
						a.showError(err)
					}
					refreshList()
				}),
			)
			templateList.Add(row)
			if tmpl.Description != "" {
				desc := widget.NewLabel(tmpl.Description)
				desc.Importance = widget.LowImportance
				desc.Wrapping = fyne.TextWrapWord
				templateList.Add(desc)
			}
		}
	}

	refreshList()

	saveBtn := widget.NewButtonWithIcon("Save Current Sheet...", theme.DocumentSaveIcon(), func() {
		a.showSaveTemplateDialog()
	})
	toolbar := container.NewHBox(saveBtn, layout.NewSpacer())

	content := container.NewBorder(
		toolbar,
		nil, nil, nil,
		container.NewVScroll(templateList),
	)

	d = dialog.NewCustom("Templates", "Close", content, a.window)
	d.Resize(fyne.NewSize(650, 450))
	d.Show()
}

// useTemplate applies a template to the open sheet, or starts a new sheet
// of the template's type first.
func (a *App) useTemplate(t model.SheetTemplate) {
	apply := func() {
		n, err := a.session.ApplyTemplate(t)
		if err != nil {
			a.showError(err)
			return
		}
		a.refreshState()
		dialog.ShowInformation("Template Applied", fmt.Sprintf("Applied %d fields from %q.", n, t.Name), a.window)
	}
	if a.session.Sheet() != nil {
		apply()
		return
	}
	initial := t.Type
	if !initial.Valid() {
		initial = model.SheetSAP
	}
	a.showNewSheetDialogThen(initial, apply)
}
