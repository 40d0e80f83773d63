// Package cli implements hmctl, the headless companion of the Hoja Maestra
// desktop application: recalculation of record files, exports, imports,
// history queries and backups against the same SQLite history.
package cli

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/piwi3910/HojaMaestra/internal/db"
	"github.com/piwi3910/HojaMaestra/internal/model"
	"github.com/piwi3910/HojaMaestra/internal/observability"
	"github.com/piwi3910/HojaMaestra/internal/project"
	"github.com/piwi3910/HojaMaestra/internal/store"
)

// Version is the hmctl version, overridden at build time.
var Version = "1.0.0"

// Flag and viper keys.
const (
	keyConfig    = "config"
	keyDB        = "db"
	keyLogLevel  = "log-level"
	keyLogFormat = "log-format"
)

// env is the state shared by every subcommand once the root pre-run has
// loaded the configuration.
type env struct {
	v          *viper.Viper
	configPath string
	cfg        model.AppConfig
	logger     *zap.Logger
}

// dbPath resolves the history database: flag or HOJA_DB, then the config
// file, then the default location.
func (e *env) dbPath() string {
	if p := e.v.GetString(keyDB); p != "" {
		return p
	}
	if e.cfg.DatabasePath != "" {
		return e.cfg.DatabasePath
	}
	return project.DefaultDatabasePath()
}

// openStore opens the history. The returned func closes the database.
func (e *env) openStore() (*store.SQLiteSheetStore, func(), error) {
	path := e.dbPath()
	conn, err := db.OpenDB(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open history %s: %w", path, err)
	}
	e.logger.Debug("history opened", zap.String("path", path))
	st := store.NewSQLiteSheetStore(conn, store.WithLogger(e.logger.Named("store")))
	return st, func() { closeDB(conn, e.logger) }, nil
}

// templatesPath keeps the template store next to the config file.
func (e *env) templatesPath() string {
	return filepath.Join(filepath.Dir(e.configPath), "templates.json")
}

func closeDB(conn *sql.DB, logger *zap.Logger) {
	if err := conn.Close(); err != nil {
		logger.Warn("closing database", zap.Error(err))
	}
}

// NewRootCommand builds a fresh hmctl command tree with its own viper
// instance.
func NewRootCommand() *cobra.Command {
	root, _ := newRoot()
	return root
}

func newRoot() (*cobra.Command, *env) {
	e := &env{v: viper.New(), logger: zap.NewNop()}

	root := &cobra.Command{
		Use:           "hmctl",
		Short:         "Headless tools for Hoja Maestra packaging spec sheets.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return e.initialize(cmd.ErrOrStderr())
		},
	}
	root.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	flags := root.PersistentFlags()
	flags.String(keyConfig, "", "config file (default is "+project.DefaultConfigPath()+")")
	flags.String(keyDB, "", "history database (default from the config file)")
	flags.String(keyLogLevel, "", "log level: debug, info, warn, error")
	flags.String(keyLogFormat, "", "log format: json or console")
	for _, k := range []string{keyConfig, keyDB, keyLogLevel, keyLogFormat} {
		_ = e.v.BindPFlag(k, flags.Lookup(k))
	}

	e.v.SetEnvPrefix("HOJA")
	e.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	e.v.AutomaticEnv()

	root.AddCommand(
		newRecalcCmd(e),
		newExportCmd(e),
		newImportCmd(e),
		newHistoryCmd(e),
		newBackupCmd(e),
	)
	return root, e
}

// initialize loads the application config and builds the logger. Flag and
// environment values override the config file.
func (e *env) initialize(stderr io.Writer) error {
	path := e.v.GetString(keyConfig)
	if path == "" {
		path = project.DefaultConfigPath()
	}
	cfg, err := project.LoadAppConfig(path)
	if err != nil {
		return err
	}
	// hmctl stays quiet on stderr unless asked; the config level only
	// applies to the desktop application.
	logCfg := cfg.Logger
	logCfg.Level = "warn"
	if l := e.v.GetString(keyLogLevel); l != "" {
		logCfg.Level = l
	}
	if f := e.v.GetString(keyLogFormat); f != "" {
		logCfg.Format = f
	}
	e.configPath = path
	e.cfg = cfg

	logger, err := observability.NewLogger(logCfg, zapcore.AddSync(stderr))
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	e.logger = logger.Named("hmctl")
	return nil
}

// Execute runs hmctl with the process arguments.
func Execute(ctx context.Context) error {
	root, e := newRoot()
	err := root.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(root.ErrOrStderr(), "Error:", err)
	}
	observability.SyncLogger(e.logger)
	return err
}
