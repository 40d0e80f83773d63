package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/piwi3910/HojaMaestra/internal/engine"
	"github.com/piwi3910/HojaMaestra/internal/model"
)

// Output formats of record files.
const (
	formatJSON = "json"
	formatYAML = "yaml"
)

// formatFor picks the record format from a file extension.
func formatFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return formatYAML
	default:
		return formatJSON
	}
}

// readRecord loads a flat field-key to value map from a JSON or YAML file.
func readRecord(path string) (*model.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read record: %w", err)
	}
	values := map[string]string{}
	switch formatFor(path) {
	case formatYAML:
		err = yaml.Unmarshal(data, &values)
	default:
		err = json.Unmarshal(data, &values)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse record %s: %w", path, err)
	}
	out := make(map[model.FieldKey]string, len(values))
	for k, v := range values {
		out[model.FieldKey(k)] = v
	}
	return model.RecordFromMap(out), nil
}

// writeRecord encodes the record values in the given format.
func writeRecord(w io.Writer, rec *model.Record, format string) error {
	values := make(map[string]string, rec.Len())
	for k, v := range rec.Values() {
		values[string(k)] = v
	}
	switch format {
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(values); err != nil {
			return err
		}
		return enc.Close()
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(values)
	default:
		return fmt.Errorf("unknown format %q (json or yaml)", format)
	}
}

// recordDiff lists the fields whose value changed, one "key: old -> new"
// line each, sorted by key.
func recordDiff(before, after map[model.FieldKey]string) []string {
	if cmp.Equal(before, after) {
		return nil
	}
	keys := map[model.FieldKey]bool{}
	for k := range before {
		keys[k] = true
	}
	for k := range after {
		keys[k] = true
	}
	var lines []string
	for k := range keys {
		if before[k] != after[k] {
			lines = append(lines, fmt.Sprintf("%s: %q -> %q", k, before[k], after[k]))
		}
	}
	sort.Strings(lines)
	return lines
}

func newRecalcCmd(e *env) *cobra.Command {
	var (
		outPath string
		format  string
		diff    bool
	)

	cmd := &cobra.Command{
		Use:   "recalc RECORD",
		Short: "Recalculate the derived fields of a record file.",
		Long: `Reads a JSON or YAML record (field key to value), runs a full
recalculation pass with the configured material constants and writes the
completed record to --out or stdout.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := readRecord(args[0])
			if err != nil {
				return err
			}
			before := rec.Values()

			eng := engine.New(rec, e.cfg.EffectiveConstants(), engine.WithLogger(e.logger.Named("engine")))
			d := eng.Recalculate("")
			e.logger.Info("record recalculated",
				zap.String("file", args[0]),
				zap.Float64("gsm", d.Grammage),
				zap.Float64("efficiency", d.Efficiency))

			if diff {
				for _, line := range recordDiff(before, rec.Values()) {
					fmt.Fprintln(cmd.OutOrStdout(), line)
				}
				return nil
			}

			if format == "" {
				format = formatJSON
				if outPath != "" {
					format = formatFor(outPath)
				}
			}
			if outPath == "" {
				return writeRecord(cmd.OutOrStdout(), rec, format)
			}
			f, err := os.Create(outPath)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", outPath, err)
			}
			if err := writeRecord(f, rec, format); err != nil {
				f.Close()
				return err
			}
			return f.Close()
		},
	}
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write the record to this file instead of stdout")
	cmd.Flags().StringVarP(&format, "format", "f", "", "output format: json or yaml (default from --out)")
	cmd.Flags().BoolVar(&diff, "diff", false, "print only the fields the pass changed")
	return cmd
}
