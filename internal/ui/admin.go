package ui

import (
	"fmt"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"github.com/piwi3910/HojaMaestra/internal/model"
	"github.com/piwi3910/HojaMaestra/internal/project"
)

// showSettingsDialog displays the application settings editor.
func (a *App) showSettingsDialog() {
	cfg := a.config

	// Helper to create a float entry bound to a pointer
	floatEntry := func(val *float64) *widget.Entry {
		e := widget.NewEntry()
		e.SetText(fmt.Sprintf("%.1f", *val))
		e.OnChanged = func(text string) {
			if v, err := strconv.ParseFloat(text, 64); err == nil {
				*val = v
			}
		}
		return e
	}

	intEntry := func(val *int) *widget.Entry {
		e := widget.NewEntry()
		e.SetText(fmt.Sprintf("%d", *val))
		e.OnChanged = func(text string) {
			if v, err := strconv.Atoi(text); err == nil {
				*val = v
			}
		}
		return e
	}

	// Theme selector
	themeSelect := widget.NewSelect([]string{"system", "light", "dark"}, func(selected string) {
		cfg.Theme = selected
	})
	themeSelect.SetSelected(cfg.Theme)

	logLevel := widget.NewSelect([]string{"debug", "info", "warn", "error"}, func(selected string) {
		cfg.Logger.Level = selected
	})
	logLevel.SetSelected(cfg.Logger.Level)

	logFile := widget.NewEntry()
	logFile.SetText(cfg.Logger.File)
	logFile.SetPlaceHolder("stderr only")
	logFile.OnChanged = func(text string) { cfg.Logger.File = text }

	formItems := []*widget.FormItem{
		widget.NewFormItem("Theme", themeSelect),
		widget.NewFormItem("Auto-Save Interval (s, 0=off)", intEntry(&cfg.AutoSaveInterval)),
		widget.NewFormItem("", widget.NewSeparator()),
		widget.NewFormItem("Standard Pallet Height (cm)", floatEntry(&cfg.Palletizing.StandardHeightCm)),
		widget.NewFormItem("", widget.NewSeparator()),
		widget.NewFormItem("Log Level", logLevel),
		widget.NewFormItem("Log File", logFile),
		widget.NewFormItem("", widget.NewLabel("Logging changes apply on the next start.")),
	}

	d := dialog.NewForm("Settings", "Save", "Cancel", formItems,
		func(ok bool) {
			if !ok {
				return
			}
			if cfg.AutoSaveInterval < 0 {
				cfg.AutoSaveInterval = 0
			}
			a.config = cfg
			if err := a.saveConfig(); err != nil {
				dialog.ShowError(fmt.Errorf("failed to save settings: %w", err), a.window)
				return
			}
			a.app.Settings().SetTheme(ThemeFor(a.config.Theme))
			a.restartAutosave()
			dialog.ShowInformation("Settings Saved", "Application settings have been saved.", a.window)
		},
		a.window,
	)
	d.Resize(fyne.NewSize(500, 450))
	d.Show()
}

// showImportExportDialog displays the backup export/restore dialog.
func (a *App) showImportExportDialog() {
	exportBtn := widget.NewButton("Export All Data...", func() {
		sheets, err := a.store.List(a.ctx, "")
		if err != nil {
			a.showError(err)
			return
		}
		d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
			if err != nil || writer == nil {
				return
			}
			defer writer.Close()
			path := writer.URI().Path()
			if err := project.ExportAllData(path, a.config, a.templates, sheets); err != nil {
				dialog.ShowError(err, a.window)
			} else {
				a.logger.Info("backup exported", zap.String("path", path), zap.Int("sheets", len(sheets)))
				dialog.ShowInformation("Export Complete",
					fmt.Sprintf("Settings, %d templates and %s sheets exported to:\n%s",
						len(a.templates.Templates), humanize.Comma(int64(len(sheets))), path), a.window)
			}
		}, a.window)
		d.SetFileName("hojamaestra-backup.json")
		d.Show()
	})

	importBtn := widget.NewButton("Import All Data...", func() {
		dialog.ShowConfirm("Import Data",
			"Importing data will replace your settings, templates and the whole sheet history.\n\nAre you sure you want to continue?",
			func(ok bool) {
				if !ok {
					return
				}
				d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
					if err != nil || reader == nil {
						return
					}
					defer reader.Close()
					backup, err := project.ImportAllData(reader.URI().Path())
					if err != nil {
						dialog.ShowError(err, a.window)
						return
					}
					if err := a.restoreBackup(backup); err != nil {
						dialog.ShowError(err, a.window)
						return
					}
					dialog.ShowInformation("Import Complete",
						fmt.Sprintf("Restored %d sheets from the backup created at %s.", len(backup.Sheets), backup.CreatedAt), a.window)
				}, a.window)
				d.Show()
			},
			a.window,
		)
	})

	content := container.NewVBox(
		widget.NewLabel("Export all application data (settings, templates, sheet history) to a backup file,\nor restore a previously exported backup."),
		widget.NewSeparator(),
		exportBtn,
		widget.NewSeparator(),
		importBtn,
	)

	d := dialog.NewCustom("Import / Export Data", "Close", content, a.window)
	d.Resize(fyne.NewSize(450, 250))
	d.Show()
}

// restoreBackup replaces the history, templates and settings with the
// backup contents. The sheets go first so a failed restore leaves the
// configuration untouched. The open database stays the history in use.
func (a *App) restoreBackup(backup project.BackupData) error {
	n, err := a.store.ReplaceAll(a.ctx, backup.Sheets)
	if err != nil {
		return fmt.Errorf("failed to restore sheets: %w", err)
	}
	a.templates = model.TemplateStore{Templates: backup.Templates}
	if err := a.saveTemplates(); err != nil {
		return err
	}
	cfg := backup.Config
	cfg.DatabasePath = a.config.DatabasePath
	a.applyConfig(cfg)
	if err := a.saveConfig(); err != nil {
		return fmt.Errorf("failed to save imported settings: %w", err)
	}
	a.logger.Info("backup restored", zap.Int("sheets", n))
	a.closeSheet()
	return nil
}

// applyConfig makes a new configuration live: theme, machines, constants
// and autosave.
func (a *App) applyConfig(cfg model.AppConfig) {
	a.config = cfg
	a.app.Settings().SetTheme(ThemeFor(cfg.Theme))
	a.refreshMachineChoices()
	a.session.SetConstants(cfg.EffectiveConstants())
	a.restartAutosave()
	a.SetupMenus()
}

// saveConfig persists the current app config to disk.
func (a *App) saveConfig() error {
	return project.SaveAppConfig(project.DefaultConfigPath(), a.config)
}

func (a *App) saveTemplates() error {
	if err := project.SaveTemplates(project.DefaultTemplatePath(), a.templates); err != nil {
		return fmt.Errorf("failed to save templates: %w", err)
	}
	return nil
}
