package ui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/dustin/go-humanize"
	fynetooltip "github.com/dweymouth/fyne-tooltip"
	"go.uber.org/zap"

	"github.com/piwi3910/HojaMaestra/internal/export"
	"github.com/piwi3910/HojaMaestra/internal/importer"
	"github.com/piwi3910/HojaMaestra/internal/model"
	"github.com/piwi3910/HojaMaestra/internal/project"
)

// AppStore is the persistence of the window: the session store plus the
// bulk replace used when restoring a backup.
type AppStore interface {
	Store
	ReplaceAll(ctx context.Context, sheets []*model.Sheet) (int, error)
}

// App holds all application state and UI references.
type App struct {
	app     fyne.App
	window  fyne.Window
	ctx     context.Context
	store   AppStore
	session *Session
	form    *Form
	logger  *zap.Logger

	config     model.AppConfig
	templates  model.TemplateStore
	masterData *importer.MasterData

	// UI references for dynamic updates
	idLabel      *widget.Label
	statusSelect *widget.Select
	savedLabel   *widget.Label
	undoBtn      *historyButton
	redoBtn      *historyButton
	lastSaved    time.Time

	stopAutosave chan struct{}
}

// NewApp wires the form and the editing session to the window.
func NewApp(application fyne.App, window fyne.Window, st AppStore, cfg model.AppConfig, logger *zap.Logger) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &App{
		app:    application,
		window: window,
		ctx:    context.Background(),
		store:  st,
		config: cfg,
		logger: logger,
	}
	a.form = NewForm(machineChoices(cfg.Machines))
	a.session = NewSession(st, a.form, cfg.EffectiveConstants(), WithSessionLogger(logger.Named("session")))
	a.form.OnEdit = a.onEdit

	templates, err := project.LoadTemplates(project.DefaultTemplatePath())
	if err != nil {
		logger.Warn("templates not loaded", zap.Error(err))
		templates = model.NewTemplateStore()
	}
	a.templates = templates
	return a
}

// machineChoices offers the inventory machines on the machine fields.
func machineChoices(inv model.MachineInventory) map[model.FieldKey][]string {
	return map[model.FieldKey][]string{
		model.KeyPrinter:    inv.Names(model.KindPrinter),
		model.KeyDieMachine: inv.Names(model.KindDieCutter),
		model.KeyGluer:      inv.Names(model.KindGluer),
	}
}

// Session returns the editing session of the window.
func (a *App) Session() *Session { return a.session }

// Start applies the configured theme, starts autosaving and offers to
// recover a draft left by an earlier run.
func (a *App) Start() {
	a.app.Settings().SetTheme(ThemeFor(a.config.Theme))
	a.SetupMenus()
	a.setupShortcuts()
	a.window.SetCloseIntercept(a.quit)
	a.refreshState()
	a.restartAutosave()
	a.offerDraftRecovery()
}

// SetupMenus creates the native menu bar for the application.
func (a *App) SetupMenus() {
	recentMenu := fyne.NewMenuItem("Open Recent", nil)
	var recent []*fyne.MenuItem
	for _, id := range a.config.RecentSheets {
		id := id
		recent = append(recent, fyne.NewMenuItem(id, func() {
			a.confirmDiscard(func() { a.openSheet(id) })
		}))
	}
	if len(recent) == 0 {
		none := fyne.NewMenuItem("(none)", nil)
		none.Disabled = true
		recent = append(recent, none)
	}
	recentMenu.ChildMenu = fyne.NewMenu("", recent...)

	newItem := fyne.NewMenuItem("New Sheet...", func() { a.confirmDiscard(a.showNewSheetDialog) })
	newItem.Shortcut = &desktop.CustomShortcut{KeyName: fyne.KeyN, Modifier: fyne.KeyModifierShortcutDefault}
	saveItem := fyne.NewMenuItem("Save", func() { a.saveSheet() })
	saveItem.Shortcut = &desktop.CustomShortcut{KeyName: fyne.KeyS, Modifier: fyne.KeyModifierShortcutDefault}

	// File Menu
	fileMenu := fyne.NewMenu("File",
		newItem,
		fyne.NewMenuItem("New from Template...", func() { a.confirmDiscard(a.showTemplatesDialog) }),
		fyne.NewMenuItem("Open from History...", func() { a.showHistoryDialog() }),
		recentMenu,
		fyne.NewMenuItemSeparator(),
		saveItem,
		fyne.NewMenuItem("Save As...", func() { a.showSaveAsDialog() }),
		fyne.NewMenuItem("Close Sheet", func() { a.confirmDiscard(a.closeSheet) }),
		fyne.NewMenuItem("Delete Sheet", func() { a.deleteSheet() }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Import Sheet from Excel...", func() { a.importSheetExcel() }),
		fyne.NewMenuItem("Import Production Plan (PDF)...", func() { a.importMTY1() }),
		fyne.NewMenuItem("Load Master Data...", func() { a.loadMasterData() }),
		fyne.NewMenuItem("Fill from Master Data...", func() { a.showFillFromMasterDataDialog() }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export PDF...", func() { a.exportPDF() }),
		fyne.NewMenuItem("Export Excel...", func() { a.exportExcel() }),
		fyne.NewMenuItem("Print Pallet Labels...", func() { a.showPalletLabelsDialog() }),
		fyne.NewMenuItem("Export History to Excel...", func() { a.exportHistoryExcel() }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Import / Export Data...", func() { a.showImportExportDialog() }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() { a.quit() }),
	)

	undoItem := fyne.NewMenuItem("Undo", func() { a.undo() })
	undoItem.Shortcut = &desktop.CustomShortcut{KeyName: fyne.KeyZ, Modifier: fyne.KeyModifierShortcutDefault}
	redoItem := fyne.NewMenuItem("Redo", func() { a.redo() })
	redoItem.Shortcut = &desktop.CustomShortcut{KeyName: fyne.KeyY, Modifier: fyne.KeyModifierShortcutDefault}

	// Edit Menu
	editMenu := fyne.NewMenu("Edit",
		undoItem,
		redoItem,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Save as Template...", func() { a.showSaveTemplateDialog() }),
		fyne.NewMenuItem("Manage Templates...", func() { a.showTemplatesDialog() }),
	)

	// Tools Menu
	toolsMenu := fyne.NewMenu("Tools",
		fyne.NewMenuItem("Quick Start...", func() { a.showQuickStartDialog() }),
		fyne.NewMenuItem("Imposition...", func() { a.showImpositionDialog() }),
		fyne.NewMenuItem("Pallet Layers...", func() { a.showPalletLayersDialog() }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Machines...", func() { a.showMachineInventoryDialog() }),
		fyne.NewMenuItem("Material Constants...", func() { a.showConstantsDialog() }),
		fyne.NewMenuItem("Settings...", func() { a.showSettingsDialog() }),
	)

	// Help Menu
	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", func() {
			a.showAboutDialog()
		}),
	)

	a.window.SetMainMenu(fyne.NewMainMenu(
		fileMenu,
		editMenu,
		toolsMenu,
		helpMenu,
	))
}

func (a *App) setupShortcuts() {
	c := a.window.Canvas()
	c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyS, Modifier: fyne.KeyModifierShortcutDefault}, func(fyne.Shortcut) { a.saveSheet() })
	c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyZ, Modifier: fyne.KeyModifierShortcutDefault}, func(fyne.Shortcut) { a.undo() })
	c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyY, Modifier: fyne.KeyModifierShortcutDefault}, func(fyne.Shortcut) { a.redo() })
	c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyZ, Modifier: fyne.KeyModifierShortcutDefault | fyne.KeyModifierShift}, func(fyne.Shortcut) { a.redo() })
	c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyN, Modifier: fyne.KeyModifierShortcutDefault}, func(fyne.Shortcut) {
		a.confirmDiscard(a.showNewSheetDialog)
	})
}

func (a *App) showAboutDialog() {
	dialog.ShowInformation(
		"About Hoja Maestra",
		"Hoja Maestra: packaging specification sheets\n\n"+
			"Captures the material, dimensions, printing, die-cutting,\n"+
			"gluing, packing and shipping data of a product and\n"+
			"recalculates areas, efficiency and weights as you type.\n\n"+
			"Version 1.0.0",
		a.window,
	)
}

// Build constructs the full UI and returns the root container.
func (a *App) Build() fyne.CanvasObject {
	content := container.NewBorder(a.buildToolbar(), a.buildStatusBar(), nil, nil, a.form.Build())
	return fynetooltip.AddWindowToolTipLayer(content, a.window.Canvas())
}

func (a *App) buildToolbar() fyne.CanvasObject {
	a.idLabel = widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{Bold: true})

	statuses := make([]string, len(model.Statuses))
	for i, s := range model.Statuses {
		statuses[i] = string(s)
	}
	a.statusSelect = widget.NewSelect(statuses, nil)

	a.undoBtn = newHistoryButton(theme.ContentUndoIcon(), "Undo", a.undo)
	a.redoBtn = newHistoryButton(theme.ContentRedoIcon(), "Redo", a.redo)

	return container.NewVBox(
		container.NewHBox(
			toolButton(theme.DocumentCreateIcon(), "New sheet", func() { a.confirmDiscard(a.showNewSheetDialog) }),
			toolButton(theme.FolderOpenIcon(), "Open from history", a.showHistoryDialog),
			toolButton(theme.DocumentSaveIcon(), "Save", a.saveSheet),
			widget.NewSeparator(),
			a.undoBtn.Button,
			a.redoBtn.Button,
			widget.NewSeparator(),
			toolButton(theme.MediaPlayIcon(), "Quick start", a.showQuickStartDialog),
			toolButton(theme.GridIcon(), "Imposition", a.showImpositionDialog),
			toolButton(theme.DocumentPrintIcon(), "Export PDF", a.exportPDF),
			widget.NewSeparator(),
			a.idLabel,
			layout.NewSpacer(),
			widget.NewLabel("Status"),
			a.statusSelect,
		),
		widget.NewSeparator(),
	)
}

func (a *App) buildStatusBar() fyne.CanvasObject {
	a.savedLabel = widget.NewLabel("")
	a.savedLabel.Importance = widget.LowImportance
	return container.NewHBox(layout.NewSpacer(), a.savedLabel)
}

// refreshState mirrors the session into the toolbar, the title and the
// form's editability.
func (a *App) refreshState() {
	sheet := a.session.Sheet()
	title := "Hoja Maestra"
	if sheet == nil {
		a.setLabel(a.idLabel, "No sheet open")
		if a.statusSelect != nil {
			a.statusSelect.ClearSelected()
			a.statusSelect.Disable()
		}
	} else {
		a.setLabel(a.idLabel, fmt.Sprintf("%s  %s", sheet.Type, sheet.ID))
		if a.statusSelect != nil {
			a.statusSelect.Enable()
			a.statusSelect.SetSelected(string(sheet.Status))
		}
		title += " - " + sheet.ID
		if a.session.Dirty() {
			title += " *"
		}
	}
	a.window.SetTitle(title)
	a.form.SetEditable(sheet != nil)
	h := a.session.History()
	a.undoBtn.update(h.CanUndo(), h.UndoLabel())
	a.redoBtn.update(h.CanRedo(), h.RedoLabel())
	a.refreshSavedLabel()
}

func (a *App) refreshSavedLabel() {
	switch {
	case a.savedLabel == nil:
	case a.session.Sheet() == nil:
		a.savedLabel.SetText("")
	case a.lastSaved.IsZero():
		a.savedLabel.SetText("Not saved yet")
	default:
		a.savedLabel.SetText("Saved " + humanize.Time(a.lastSaved))
	}
}

func (a *App) setLabel(l *widget.Label, text string) {
	if l != nil {
		l.SetText(text)
	}
}

// selectedStatus returns the status picked in the toolbar, or "".
func (a *App) selectedStatus() model.Status {
	if a.statusSelect == nil {
		return ""
	}
	return model.Status(a.statusSelect.Selected)
}

func (a *App) showError(err error) {
	a.logger.Error("operation failed", zap.Error(err))
	dialog.ShowError(err, a.window)
}

// requireSheet shows a hint and returns false when no sheet is open.
func (a *App) requireSheet() bool {
	if a.session.Sheet() != nil {
		return true
	}
	dialog.ShowInformation("No sheet open", "Create a new sheet or open one from the history first.", a.window)
	return false
}

// confirmDiscard runs next, asking first when the open sheet has unsaved changes.
func (a *App) confirmDiscard(next func()) {
	if !a.session.Dirty() {
		next()
		return
	}
	dialog.ShowConfirm("Unsaved Changes",
		"The open sheet has unsaved changes that will be lost.\n\nContinue anyway?",
		func(ok bool) {
			if !ok {
				return
			}
			a.discardOwnDraft()
			next()
		},
		a.window,
	)
}

func (a *App) discardOwnDraft() {
	if err := a.store.DeleteDraft(a.ctx, a.session.ID()); err != nil {
		a.logger.Warn("draft not removed", zap.Error(err))
	}
}

// ─── Editing ───────────────────────────────────────────────

func (a *App) onEdit(key model.FieldKey, value string) {
	if a.session.Sheet() == nil {
		return
	}
	if _, err := a.session.Edit(key, value); err != nil {
		a.logger.Debug("edit rejected", zap.String("field", string(key)), zap.Error(err))
		return
	}
	a.refreshState()
}

func (a *App) undo() {
	if a.session.Undo() {
		a.refreshState()
	}
}

func (a *App) redo() {
	if a.session.Redo() {
		a.refreshState()
	}
}

// ─── Sheet Lifecycle ───────────────────────────────────────

func sheetTypeNames() []string {
	names := make([]string, len(model.SheetTypes))
	for i, t := range model.SheetTypes {
		names[i] = string(t)
	}
	return names
}

// sheetTypeForm builds the type picker and code entry shared by the new
// sheet and save-as dialogs. FAC sheets take their number from the counter.
func (a *App) sheetTypeForm(initial model.SheetType) (*widget.Select, *widget.Entry, []*widget.FormItem) {
	codeEntry := widget.NewEntry()
	hint := widget.NewLabel("")
	typeSelect := widget.NewSelect(sheetTypeNames(), func(selected string) {
		switch model.SheetType(selected) {
		case model.SheetFAC:
			codeEntry.SetText("")
			codeEntry.Disable()
			next, err := a.store.PeekFAC(a.ctx)
			if err != nil {
				hint.SetText("FAC counter unavailable")
				return
			}
			hint.SetText("Next number: " + next)
		case model.SheetMAQ:
			codeEntry.Enable()
			codeEntry.SetPlaceHolder("Engineer code")
			hint.SetText("ID will be " + model.MAQPrefix + "<code>")
		default:
			codeEntry.Enable()
			codeEntry.SetPlaceHolder("SAP code")
			hint.SetText("")
		}
	})
	typeSelect.SetSelected(string(initial))
	return typeSelect, codeEntry, []*widget.FormItem{
		widget.NewFormItem("Type", typeSelect),
		widget.NewFormItem("Code", codeEntry),
		widget.NewFormItem("", hint),
	}
}

func (a *App) showNewSheetDialog() {
	a.showNewSheetDialogThen(model.SheetSAP, nil)
}

// showNewSheetDialogThen starts a sheet and calls then once it is open.
func (a *App) showNewSheetDialogThen(initial model.SheetType, then func()) {
	typeSelect, codeEntry, items := a.sheetTypeForm(initial)
	form := dialog.NewForm("New Sheet", "Create", "Cancel", items,
		func(ok bool) {
			if !ok {
				return
			}
			sheet, err := a.session.Start(a.ctx, model.SheetType(typeSelect.Selected), codeEntry.Text)
			if err != nil {
				a.showError(err)
				return
			}
			a.lastSaved = time.Time{}
			a.logger.Info("new sheet", zap.String("id", sheet.ID))
			if then != nil {
				then()
			}
			a.refreshState()
		},
		a.window,
	)
	form.Resize(fyne.NewSize(400, 250))
	form.Show()
}

func (a *App) openSheet(id string) {
	sheet, err := a.session.Open(a.ctx, id)
	if err != nil {
		a.showError(err)
		return
	}
	a.lastSaved = sheet.UpdatedAt
	a.rememberRecent(sheet.ID)
	a.refreshState()
}

func (a *App) saveSheet() {
	if !a.requireSheet() {
		return
	}
	if err := a.session.Save(a.ctx, a.selectedStatus()); err != nil {
		a.showError(fmt.Errorf("failed to save sheet: %w", err))
		return
	}
	a.lastSaved = a.session.Sheet().UpdatedAt
	a.rememberRecent(a.session.Sheet().ID)
	a.refreshState()
}

func (a *App) showSaveAsDialog() {
	if !a.requireSheet() {
		return
	}
	typeSelect, codeEntry, items := a.sheetTypeForm(a.session.Sheet().Type)
	form := dialog.NewForm("Save As", "Save", "Cancel", items,
		func(ok bool) {
			if !ok {
				return
			}
			sheet, err := a.session.SaveAs(a.ctx, model.SheetType(typeSelect.Selected), codeEntry.Text)
			if err != nil {
				a.showError(err)
				return
			}
			a.lastSaved = sheet.UpdatedAt
			a.rememberRecent(sheet.ID)
			a.refreshState()
		},
		a.window,
	)
	form.Resize(fyne.NewSize(400, 250))
	form.Show()
}

func (a *App) closeSheet() {
	a.session.Close()
	a.lastSaved = time.Time{}
	a.refreshState()
}

func (a *App) deleteSheet() {
	if !a.requireSheet() {
		return
	}
	id := a.session.Sheet().ID
	dialog.ShowConfirm("Delete Sheet",
		fmt.Sprintf("Delete sheet %s from the history?\n\nThis cannot be undone.", id),
		func(ok bool) {
			if !ok {
				return
			}
			if err := a.session.Delete(a.ctx); err != nil {
				a.showError(err)
				return
			}
			a.forgetRecent(id)
			a.lastSaved = time.Time{}
			a.refreshState()
		},
		a.window,
	)
}

func (a *App) rememberRecent(id string) {
	a.config.AddRecentSheet(id)
	if err := a.saveConfig(); err != nil {
		a.logger.Warn("recent sheets not saved", zap.Error(err))
	}
	a.SetupMenus()
}

func (a *App) forgetRecent(id string) {
	var kept []string
	for _, r := range a.config.RecentSheets {
		if r != id {
			kept = append(kept, r)
		}
	}
	a.config.RecentSheets = kept
	if err := a.saveConfig(); err != nil {
		a.logger.Warn("recent sheets not saved", zap.Error(err))
	}
	a.SetupMenus()
}

func (a *App) quit() {
	a.confirmDiscard(func() {
		a.stopAutosaveLoop()
		a.window.Close()
	})
}

// ─── Autosave & Recovery ───────────────────────────────────

// restartAutosave (re)starts the autosave ticker with the configured
// interval in seconds. Zero disables autosave.
func (a *App) restartAutosave() {
	a.stopAutosaveLoop()
	if a.config.AutoSaveInterval <= 0 {
		return
	}
	stop := make(chan struct{})
	a.stopAutosave = stop
	interval := time.Duration(a.config.AutoSaveInterval) * time.Second
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				fyne.Do(a.autosave)
			}
		}
	}()
}

func (a *App) stopAutosaveLoop() {
	if a.stopAutosave != nil {
		close(a.stopAutosave)
		a.stopAutosave = nil
	}
}

func (a *App) autosave() {
	wrote, err := a.session.Autosave(a.ctx)
	if err != nil {
		a.logger.Warn("autosave failed", zap.Error(err))
		return
	}
	if wrote {
		a.setLabel(a.savedLabel, "Draft autosaved at "+time.Now().Format("15:04"))
		return
	}
	a.refreshSavedLabel()
}

func (a *App) offerDraftRecovery() {
	d, err := a.session.PendingDraft(a.ctx)
	if err != nil {
		a.logger.Warn("draft lookup failed", zap.Error(err))
		return
	}
	if d == nil {
		return
	}
	what := "an unsaved sheet"
	if d.SheetID != "" {
		what = "sheet " + d.SheetID
	}
	dialog.ShowConfirm("Recover Unsaved Work",
		fmt.Sprintf("Hoja Maestra was closed with unsaved changes to %s (autosaved %s).\n\nRecover them?",
			what, humanize.Time(d.UpdatedAt)),
		func(ok bool) {
			if !ok {
				if err := a.session.DiscardDraft(a.ctx, d); err != nil {
					a.showError(err)
				}
				return
			}
			if err := a.session.RecoverDraft(a.ctx, d); err != nil {
				a.showError(err)
				return
			}
			a.refreshState()
		},
		a.window,
	)
}

// ─── Import Functions ──────────────────────────────────────

func (a *App) importSheetExcel() {
	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()

		imp, result := importer.ImportSheetExcel(reader.URI().Path())
		if !a.handleImportResult(result) {
			return
		}
		apply := func() {
			n, err := a.session.ApplyImportedSheet(imp)
			if err != nil {
				a.showError(err)
				return
			}
			if imp.Status.Valid() {
				a.statusSelect.SetSelected(string(imp.Status))
			}
			a.refreshState()
			dialog.ShowInformation("Import Complete", fmt.Sprintf("Imported %d fields.", n), a.window)
		}
		if a.session.Sheet() != nil {
			apply()
			return
		}
		a.startImported(imp, apply)
	}, a.window)
}

// startImported opens a new sheet for an imported workbook, reusing its ID
// when it is free and asking otherwise.
func (a *App) startImported(imp importer.ImportedSheet, then func()) {
	t := imp.Type
	if !t.Valid() {
		t = model.SheetSAP
	}
	code := imp.ID
	if t == model.SheetMAQ {
		code = strings.TrimPrefix(code, model.MAQPrefix)
	}
	if code != "" || t == model.SheetFAC {
		if _, err := a.session.Start(a.ctx, t, code); err == nil {
			then()
			return
		} else if !errors.Is(err, ErrIDTaken) && !errors.Is(err, model.ErrInvalidSheet) {
			a.showError(err)
			return
		}
	}
	a.showNewSheetDialogThen(t, then)
}

func (a *App) importMTY1() {
	if !a.requireSheet() {
		return
	}
	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()

		data, err := importer.ImportMTY1(reader.URI().Path())
		if errors.Is(err, importer.ErrNoMTY1Data) {
			dialog.ShowInformation("Nothing to Import",
				"The PDF carries no readable text. Scanned plans must be typed in by hand.", a.window)
			return
		}
		if err != nil {
			a.showError(err)
			return
		}
		n, err := a.session.ApplyMTY1(data)
		if err != nil {
			a.showError(err)
			return
		}
		a.refreshState()
		dialog.ShowInformation("Import Complete", fmt.Sprintf("Imported %d fields from the production plan.", n), a.window)
	}, a.window)
}

func (a *App) loadMasterData() {
	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()

		md, result := importer.LoadMasterData(reader.URI().Path())
		if !a.handleImportResult(result) || md == nil {
			return
		}
		a.masterData = md
		a.logger.Info("master data loaded", zap.Int("codes", md.Len()))
		dialog.ShowInformation("Master Data Loaded",
			fmt.Sprintf("Indexed %s SAP codes.", humanize.Comma(int64(md.Len()))), a.window)
	}, a.window)
}

func (a *App) showFillFromMasterDataDialog() {
	if !a.requireSheet() {
		return
	}
	if a.masterData == nil {
		dialog.ShowInformation("No Master Data", "Load a master data workbook first (File > Load Master Data).", a.window)
		return
	}
	sapEntry := widget.NewEntry()
	sapEntry.SetText(a.form.Get(model.KeySAP))
	form := dialog.NewForm("Fill from Master Data", "Fill", "Cancel",
		[]*widget.FormItem{widget.NewFormItem("SAP Code", sapEntry)},
		func(ok bool) {
			if !ok {
				return
			}
			keys, err := a.session.FillFromMasterData(a.masterData, sapEntry.Text)
			if err != nil {
				a.showError(err)
				return
			}
			a.refreshState()
			dialog.ShowInformation("Master Data", fmt.Sprintf("Filled %d fields.", len(keys)), a.window)
		},
		a.window,
	)
	form.Resize(fyne.NewSize(350, 150))
	form.Show()
}

// handleImportResult reports import errors and logs warnings. It returns
// false when the import failed.
func (a *App) handleImportResult(result importer.ImportResult) bool {
	if len(result.Errors) > 0 {
		errorMsg := "Errors encountered during import:\n\n" + strings.Join(result.Errors, "\n")
		dialog.ShowError(fmt.Errorf("%s", errorMsg), a.window)
	}
	for _, w := range result.Warnings {
		a.logger.Warn("import warning", zap.String("warning", w))
	}
	return result.OK()
}

// ─── Export Functions ──────────────────────────────────────

// currentSheet returns a copy of the open sheet holding the form values.
func (a *App) currentSheet() *model.Sheet {
	sheet := *a.session.Sheet()
	sheet.Fields = model.RecordFromMap(a.form.Values())
	if st := a.selectedStatus(); st.Valid() {
		sheet.Status = st
	}
	return &sheet
}

func (a *App) saveFile(defaultName string, write func(path string) error) {
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		defer writer.Close()
		path := writer.URI().Path()
		if err := write(path); err != nil {
			a.showError(err)
			return
		}
		a.logger.Info("exported", zap.String("path", path))
		dialog.ShowInformation("Export Complete", fmt.Sprintf("Saved to %s", path), a.window)
	}, a.window)
	d.SetFileName(defaultName)
	d.Show()
}

func (a *App) exportPDF() {
	if !a.requireSheet() {
		return
	}
	sheet := a.currentSheet()
	a.saveFile(sheet.ID+".pdf", func(path string) error {
		return export.ExportSheetPDF(path, sheet)
	})
}

func (a *App) exportExcel() {
	if !a.requireSheet() {
		return
	}
	sheet := a.currentSheet()
	a.saveFile(sheet.ID+".xlsx", func(path string) error {
		return export.ExportSheetExcel(path, sheet)
	})
}

func (a *App) exportHistoryExcel() {
	sheets, err := a.store.List(a.ctx, "")
	if err != nil {
		a.showError(err)
		return
	}
	if len(sheets) == 0 {
		dialog.ShowInformation("Empty History", "There are no saved sheets to export.", a.window)
		return
	}
	a.saveFile("historial-hojas.xlsx", func(path string) error {
		return export.ExportHistoryExcel(path, sheets)
	})
}

func (a *App) showPalletLabelsDialog() {
	if !a.requireSheet() {
		return
	}
	sheet := a.currentSheet()
	count := int(model.ParseNumber(sheet.Fields.Get(model.KeyPalletsCont)))
	if count <= 0 {
		count = 1
	}
	countEntry := widget.NewEntry()
	countEntry.SetText(strconv.Itoa(count))

	form := dialog.NewForm("Pallet Labels", "Export", "Cancel",
		[]*widget.FormItem{widget.NewFormItem("Pallets", countEntry)},
		func(ok bool) {
			if !ok {
				return
			}
			n, err := strconv.Atoi(strings.TrimSpace(countEntry.Text))
			if err != nil || n <= 0 {
				dialog.ShowError(fmt.Errorf("the number of pallets must be > 0"), a.window)
				return
			}
			a.saveFile(sheet.ID+"-etiquetas.pdf", func(path string) error {
				return export.ExportPalletLabels(path, sheet, n)
			})
		},
		a.window,
	)
	form.Resize(fyne.NewSize(300, 150))
	form.Show()
}
