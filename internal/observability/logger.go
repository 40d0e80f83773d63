package observability

import (
	"fmt"
	"os"
	"strings"
	"sync/atomic"

	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/piwi3910/HojaMaestra/internal/model"
)

// RootName names the application logger; components log under RootName.<component>.
const RootName = "hojamaestra"

var globalLogger atomic.Pointer[zap.Logger]

// stderr and isTerminal are replaced in tests.
var (
	stderr     = os.Stderr
	isTerminal = func(f *os.File) bool {
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
)

// NewLogger builds a logger that writes to console and, when cfg.File is set,
// to a size-rotated JSON file. An empty Format picks console output for
// terminals and JSON otherwise.
func NewLogger(cfg model.LoggerConfig, console zapcore.WriteSyncer) (*zap.Logger, error) {
	level := zap.NewAtomicLevel()
	if cfg.Level != "" {
		if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
	}

	format := cfg.Format
	if format == "" {
		format = "json"
		if f, ok := console.(*os.File); ok {
			format = formatFor(f)
		}
	}
	encoder, err := newEncoder(format)
	if err != nil {
		return nil, err
	}
	cores := []zapcore.Core{zapcore.NewCore(encoder, console, level)}

	if cfg.File != "" {
		fileEncoder, _ := newEncoder("json")
		fileWriter := zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
		})
		cores = append(cores, zapcore.NewCore(fileEncoder, fileWriter, level))
	}

	return zap.New(zapcore.NewTee(cores...), zap.AddStacktrace(zap.ErrorLevel)).Named(RootName), nil
}

// formatFor picks console output for terminals and JSON otherwise.
func formatFor(f *os.File) string {
	if isTerminal(f) {
		return "console"
	}
	return "json"
}

func newEncoder(format string) (zapcore.Encoder, error) {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02T15:04:05.000Z07:00")
	switch strings.ToLower(format) {
	case "console":
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		return zapcore.NewConsoleEncoder(encoderConfig), nil
	case "json":
		encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		return zapcore.NewJSONEncoder(encoderConfig), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
}

// Initialize builds the application logger on stderr and installs it as the
// global logger. The format is resolved before stderr is wrapped in a lock.
func Initialize(cfg model.LoggerConfig) (*zap.Logger, error) {
	if cfg.Format == "" {
		cfg.Format = formatFor(stderr)
	}
	logger, err := NewLogger(cfg, zapcore.Lock(stderr))
	if err != nil {
		return nil, err
	}
	globalLogger.Store(logger)
	zap.ReplaceGlobals(logger)
	return logger, nil
}

// L returns the global logger, or a no-op logger before Initialize.
func L() *zap.Logger {
	if l := globalLogger.Load(); l != nil {
		return l
	}
	return zap.NewNop()
}

// Sync flushes the global logger.
func Sync() {
	if logger := globalLogger.Load(); logger != nil {
		SyncLogger(logger)
	}
}

// SyncLogger flushes buffered entries of logger. Errors from syncing a
// terminal are ignored.
func SyncLogger(logger *zap.Logger) {
	if err := logger.Sync(); err != nil {
		msg := err.Error()
		if !strings.Contains(msg, "sync /dev/std") &&
			!strings.Contains(msg, "invalid argument") &&
			!strings.Contains(msg, "inappropriate ioctl") &&
			!strings.Contains(msg, "operation not supported") {
			fmt.Fprintln(os.Stderr, "Error: failed to sync logger:", err)
		}
	}
}

// ResetForTest clears the global logger.
func ResetForTest() {
	globalLogger.Store(nil)
}
