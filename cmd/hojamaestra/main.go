// Hoja Maestra - packaging spec-sheet editor
//
// A cross-platform desktop application for filling in corrugated and
// folding-carton spec sheets. Derived fields are recalculated as the
// sheet is edited and every sheet is kept in a local SQLite history.
//
// Build:
//   go build -o hojamaestra ./cmd/hojamaestra
//
// Cross-compile:
//   GOOS=windows GOARCH=amd64 go build -o hojamaestra.exe ./cmd/hojamaestra
//   GOOS=darwin  GOARCH=amd64 go build -o hojamaestra-darwin ./cmd/hojamaestra
//
// Using fyne-cross (recommended for proper packaging):
//   go install github.com/fyne-io/fyne-cross@latest
//   fyne-cross windows -arch=amd64
//   fyne-cross darwin  -arch=amd64,arm64

package main

import (
	"fmt"
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"go.uber.org/zap"

	"github.com/piwi3910/HojaMaestra/internal/db"
	"github.com/piwi3910/HojaMaestra/internal/observability"
	"github.com/piwi3910/HojaMaestra/internal/project"
	"github.com/piwi3910/HojaMaestra/internal/store"
	"github.com/piwi3910/HojaMaestra/internal/ui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "hojamaestra:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := project.LoadAppConfig(project.DefaultConfigPath())
	if err != nil {
		return err
	}
	logger, err := observability.Initialize(cfg.Logger)
	if err != nil {
		return err
	}
	defer observability.Sync()

	dbPath := cfg.DatabasePath
	if dbPath == "" {
		dbPath = project.DefaultDatabasePath()
	}
	conn, err := db.OpenDB(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open history %s: %w", dbPath, err)
	}
	defer func() {
		if err := conn.Close(); err != nil {
			logger.Warn("closing database", zap.Error(err))
		}
	}()
	logger.Info("starting", zap.String("db", dbPath))

	st := store.NewSQLiteSheetStore(conn, store.WithLogger(logger.Named("store")))

	application := app.NewWithID("com.piwi3910.hojamaestra")
	window := application.NewWindow("Hoja Maestra")

	appUI := ui.NewApp(application, window, st, cfg, logger.Named("ui"))
	window.SetContent(appUI.Build())
	appUI.Start()
	window.Resize(fyne.NewSize(1400, 800))
	window.CenterOnScreen()
	window.ShowAndRun()
	return nil
}
