package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/piwi3910/HojaMaestra/internal/export"
	"github.com/piwi3910/HojaMaestra/internal/model"
	"github.com/piwi3910/HojaMaestra/internal/observability"
	"github.com/piwi3910/HojaMaestra/internal/project"
	"github.com/piwi3910/HojaMaestra/internal/testutil"
)

// hmctl runs a fresh command tree against a config and history in dir.
func hmctl(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append(args,
		"--config", filepath.Join(dir, "config.json"),
		"--db", filepath.Join(dir, "hojas.db"),
	))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestRecalcJSONToStdout(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, filepath.Join(dir, "hoja.json"), `{"paper-dim": "1200 X 800", "client": "ACME"}`)

	out, err := hmctl(t, dir, "recalc", in)
	require.NoError(t, err)

	var rec map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &rec))
	assert.Equal(t, "1200", rec["dim-grain"])
	assert.Equal(t, "800", rec["dim-cross"])
	assert.Equal(t, "0.960", rec["area-total"])
	assert.Equal(t, "ACME", rec["client"])
}

func TestRecalcYAMLToFile(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, filepath.Join(dir, "hoja.yaml"), "paper-dim: 1200 X 800\nflute: C\n")
	outPath := filepath.Join(dir, "out.yml")

	out, err := hmctl(t, dir, "recalc", in, "--out", outPath)
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	var rec map[string]string
	require.NoError(t, yaml.Unmarshal(data, &rec))
	assert.Equal(t, "1200", rec["dim-grain"])
	assert.Equal(t, "0.960", rec["area-total"])
	assert.Equal(t, "C", rec["flute"])
}

func TestRecalcDiff(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, filepath.Join(dir, "hoja.json"), `{"paper-dim": "1200 X 800"}`)

	out, err := hmctl(t, dir, "recalc", in, "--diff")
	require.NoError(t, err)
	assert.Contains(t, out, `area-total: "" -> "0.960"`)
	assert.NotContains(t, out, "paper-dim:")
}

func TestRecalcErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := hmctl(t, dir, "recalc", filepath.Join(dir, "missing.json"))
	assert.Error(t, err)

	bad := writeFile(t, filepath.Join(dir, "bad.json"), `["not", "a", "record"]`)
	_, err = hmctl(t, dir, "recalc", bad)
	assert.Error(t, err)

	good := writeFile(t, filepath.Join(dir, "hoja.json"), `{}`)
	_, err = hmctl(t, dir, "recalc", good, "--format", "toml")
	assert.Error(t, err)
}

func TestFormatFor(t *testing.T) {
	assert.Equal(t, formatYAML, formatFor("a.yaml"))
	assert.Equal(t, formatYAML, formatFor("A.YML"))
	assert.Equal(t, formatJSON, formatFor("a.json"))
	assert.Equal(t, formatJSON, formatFor("a"))
}

func TestRecordDiff(t *testing.T) {
	before := map[model.FieldKey]string{"a": "1", "b": "2"}
	assert.Nil(t, recordDiff(before, map[model.FieldKey]string{"a": "1", "b": "2"}))

	lines := recordDiff(before, map[model.FieldKey]string{"a": "1", "b": "3", "c": "x"})
	assert.Equal(t, []string{`b: "2" -> "3"`, `c: "" -> "x"`}, lines)
}

func TestImportExportHistory(t *testing.T) {
	dir := t.TempDir()
	book := filepath.Join(dir, "400123.xlsx")
	sheet := testutil.NewTestSheet(model.SheetSAP, "400123",
		testutil.WithStatus(model.StatusFinal),
		testutil.WithField(model.KeyPaperDim, "1200 X 800"))
	require.NoError(t, export.ExportSheetExcel(book, sheet))

	out, err := hmctl(t, dir, "import", book)
	require.NoError(t, err)
	assert.Equal(t, "400123\n", out)

	out, err = hmctl(t, dir, "history", "list", "--format", "json")
	require.NoError(t, err)
	var listed []sheetSummary
	require.NoError(t, json.Unmarshal([]byte(out), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, "400123", listed[0].ID)
	assert.Equal(t, "finalizada", listed[0].Status)
	assert.Equal(t, "Cliente Prueba", listed[0].Client)

	out, err = hmctl(t, dir, "history", "list", "--status", "borrador")
	require.NoError(t, err)
	assert.NotContains(t, out, "400123")

	out, err = hmctl(t, dir, "history", "search", "prueba")
	require.NoError(t, err)
	assert.Contains(t, out, "400123")
	assert.Contains(t, out, "ESTADO")

	pdfPath := filepath.Join(dir, "hoja.pdf")
	out, err = hmctl(t, dir, "export", "400123", "--out", pdfPath)
	require.NoError(t, err)
	assert.Equal(t, pdfPath+"\n", out)
	assert.FileExists(t, pdfPath)

	_, err = hmctl(t, dir, "export", "999999")
	assert.ErrorContains(t, err, "not found")
}

func TestImportWithExplicitType(t *testing.T) {
	dir := t.TempDir()
	book := filepath.Join(dir, "hoja.xlsx")
	require.NoError(t, export.ExportSheetExcel(book, testutil.NewTestSheet(model.SheetSAP, "400123")))

	out, err := hmctl(t, dir, "import", book, "--type", "fac")
	require.NoError(t, err)
	assert.Equal(t, "FAC-001\n", out)

	out, err = hmctl(t, dir, "import", book, "--type", "maq", "--code", "JP")
	require.NoError(t, err)
	assert.Equal(t, "M-JP\n", out)

	_, err = hmctl(t, dir, "import", book, "--type", "maq", "--code", "JP")
	assert.ErrorContains(t, err, "already exists")
}

func TestImportJSONNeedsReplace(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, filepath.Join(dir, "historial.json"), `[]`)

	_, err := hmctl(t, dir, "import", in)
	assert.ErrorContains(t, err, "--replace")
}

func TestHistoryStats(t *testing.T) {
	dir := t.TempDir()
	book := filepath.Join(dir, "hoja.xlsx")
	require.NoError(t, export.ExportSheetExcel(book, testutil.NewTestSheet(model.SheetSAP, "400123")))
	_, err := hmctl(t, dir, "import", book)
	require.NoError(t, err)

	out, err := hmctl(t, dir, "history", "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "Total")
	assert.Contains(t, out, "Next FAC")

	out, err = hmctl(t, dir, "history", "stats", "-f", "json")
	require.NoError(t, err)
	var stats struct {
		Total int `json:"total"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &stats))
	assert.Equal(t, 1, stats.Total)
}

func TestHistoryListRejectsUnknownFilters(t *testing.T) {
	dir := t.TempDir()

	_, err := hmctl(t, dir, "history", "list", "--type", "XYZ")
	assert.Error(t, err)
	_, err = hmctl(t, dir, "history", "list", "--status", "perdida")
	assert.Error(t, err)
	_, err = hmctl(t, dir, "history", "list", "--from", "19/10/2026")
	assert.Error(t, err)
}

func TestBackupRoundTrip(t *testing.T) {
	dir := t.TempDir()
	book := filepath.Join(dir, "hoja.xlsx")
	require.NoError(t, export.ExportSheetExcel(book, testutil.NewTestSheet(model.SheetSAP, "400123")))
	_, err := hmctl(t, dir, "import", book)
	require.NoError(t, err)

	tmpl := model.NewTemplateStore()
	tmpl.Add(model.NewSheetTemplate("Caja estándar", "", model.SheetSAP,
		model.RecordFromMap(map[model.FieldKey]string{model.KeyFlute: "C"})))
	require.NoError(t, project.SaveTemplates(filepath.Join(dir, "templates.json"), tmpl))

	backup := filepath.Join(dir, "respaldo.json")
	out, err := hmctl(t, dir, "backup", "export", backup)
	require.NoError(t, err)
	assert.Contains(t, out, "1 sheets and 1 templates")

	// Restore into an empty workspace.
	other := t.TempDir()
	_, err = hmctl(t, other, "backup", "restore", backup)
	assert.ErrorContains(t, err, "--force")

	out, err = hmctl(t, other, "backup", "restore", backup, "--force")
	require.NoError(t, err)
	assert.Contains(t, out, "restored 1 sheets")

	out, err = hmctl(t, other, "history", "search", "400123")
	require.NoError(t, err)
	assert.Contains(t, out, "400123")

	restored, err := project.LoadTemplates(filepath.Join(other, "templates.json"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Caja estándar"}, restored.Names())
	assert.FileExists(t, filepath.Join(other, "config.json"))
}

func TestDatabaseFromEnvironment(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "env.db")
	t.Setenv("HOJA_DB", dbPath)

	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"history", "list", "--config", filepath.Join(dir, "config.json")})
	require.NoError(t, root.ExecuteContext(context.Background()))

	assert.FileExists(t, dbPath)
	assert.True(t, strings.HasPrefix(out.String(), "ID"))
}

func TestExecuteKeepsCommandLogger(t *testing.T) {
	dir := t.TempDir()
	root, e := newRoot()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs([]string{"history", "list", "--log-level", "debug",
		"--config", filepath.Join(dir, "config.json"),
		"--db", filepath.Join(dir, "hojas.db")})
	require.NoError(t, root.ExecuteContext(context.Background()))

	// The logger flushed after the run is the one the commands wrote to.
	assert.True(t, e.logger.Core().Enabled(zapcore.DebugLevel))
	assert.Contains(t, errOut.String(), "history opened")
	observability.SyncLogger(e.logger)
}
