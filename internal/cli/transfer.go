package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/piwi3910/HojaMaestra/internal/engine"
	"github.com/piwi3910/HojaMaestra/internal/export"
	"github.com/piwi3910/HojaMaestra/internal/importer"
	"github.com/piwi3910/HojaMaestra/internal/model"
	"github.com/piwi3910/HojaMaestra/internal/store"
)

// Export kinds.
const (
	exportPDF    = "pdf"
	exportExcel  = "xlsx"
	exportLabels = "labels"
)

// defaultExportPath names the export file after the sheet ID.
func defaultExportPath(id, kind string) string {
	switch kind {
	case exportLabels:
		return id + "-etiquetas.pdf"
	case exportExcel:
		return id + ".xlsx"
	default:
		return id + ".pdf"
	}
}

func newExportCmd(e *env) *cobra.Command {
	var (
		kind    string
		outPath string
		pallets int
	)

	cmd := &cobra.Command{
		Use:   "export ID",
		Short: "Export a saved sheet as PDF, Excel or pallet labels.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, closeStore, err := e.openStore()
			if err != nil {
				return err
			}
			defer closeStore()

			sheet, err := st.Load(cmd.Context(), args[0])
			if errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("sheet %s not found", args[0])
			}
			if err != nil {
				return err
			}

			kind = strings.ToLower(kind)
			if outPath == "" {
				outPath = defaultExportPath(sheet.ID, kind)
			}
			switch kind {
			case exportPDF:
				err = export.ExportSheetPDF(outPath, sheet)
			case exportExcel:
				err = export.ExportSheetExcel(outPath, sheet)
			case exportLabels:
				if pallets <= 0 {
					pallets = int(model.ParseNumber(sheet.Fields.Get(model.KeyPalletsCont)))
				}
				if pallets <= 0 {
					pallets = 1
				}
				err = export.ExportPalletLabels(outPath, sheet, pallets)
			default:
				return fmt.Errorf("unknown export format %q (pdf, xlsx or labels)", kind)
			}
			if err != nil {
				return err
			}
			e.logger.Info("sheet exported", zap.String("id", sheet.ID), zap.String("path", outPath))
			fmt.Fprintln(cmd.OutOrStdout(), outPath)
			return nil
		},
	}
	cmd.Flags().StringVarP(&kind, "format", "f", exportPDF, "pdf, xlsx or labels")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default <ID>.<ext>)")
	cmd.Flags().IntVar(&pallets, "pallets", 0, "number of pallet labels (default from the sheet)")
	return cmd
}

func newImportCmd(e *env) *cobra.Command {
	var (
		sheetType string
		code      string
		replace   bool
	)

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Import a sheet workbook or a JSON history into the store.",
		Long: `A .json file replaces the whole history with its sheets.
A workbook (.xlsx or .csv) exported by Hoja Maestra is recalculated and saved
as one sheet; its ID is taken from the file unless --type and --code are given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, closeStore, err := e.openStore()
			if err != nil {
				return err
			}
			defer closeStore()

			path := args[0]
			if strings.EqualFold(filepath.Ext(path), ".json") {
				if !replace {
					return fmt.Errorf("importing %s replaces the whole history; pass --replace to confirm", path)
				}
				f, err := os.Open(path)
				if err != nil {
					return err
				}
				defer f.Close()
				n, err := st.ImportJSON(cmd.Context(), f)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "imported %d sheets\n", n)
				return nil
			}

			imp, result := importer.ImportSheetExcel(path)
			for _, w := range result.Warnings {
				e.logger.Warn("import warning", zap.String("warning", w))
			}
			if !result.OK() {
				return fmt.Errorf("import failed: %s", strings.Join(result.Errors, "; "))
			}

			sheet, err := importedSheet(cmd, st, imp, model.SheetType(strings.ToUpper(sheetType)), code)
			if err != nil {
				return err
			}
			engine.New(sheet.Fields, e.cfg.EffectiveConstants(), engine.WithLogger(e.logger.Named("engine"))).Recalculate("")
			if err := st.Save(cmd.Context(), sheet); err != nil {
				return err
			}
			e.logger.Info("sheet imported", zap.String("id", sheet.ID), zap.Int("fields", sheet.Fields.Len()))
			fmt.Fprintln(cmd.OutOrStdout(), sheet.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&sheetType, "type", "", "sheet type for the import: SAP, FAC or MAQ")
	cmd.Flags().StringVar(&code, "code", "", "SAP or engineer code of the new sheet")
	cmd.Flags().BoolVar(&replace, "replace", false, "allow a JSON import to replace the history")
	return cmd
}

// importedSheet builds the sheet an imported workbook is saved as. An
// explicit type allocates a new ID, which must be free; otherwise the
// workbook's own ID is reused and a saved sheet with that ID is updated.
func importedSheet(cmd *cobra.Command, st *store.SQLiteSheetStore, imp importer.ImportedSheet, t model.SheetType, code string) (*model.Sheet, error) {
	var sheet model.Sheet
	if t != "" {
		s, err := st.NewSheet(cmd.Context(), t, code)
		if err != nil {
			return nil, err
		}
		free, err := st.IsIDAvailable(cmd.Context(), s.ID)
		if err != nil {
			return nil, err
		}
		if !free {
			return nil, fmt.Errorf("sheet %s already exists", s.ID)
		}
		sheet = s
	} else {
		if !imp.Type.Valid() || imp.ID == "" {
			return nil, fmt.Errorf("the workbook carries no sheet type and ID; pass --type and --code")
		}
		sheet = model.NewSheet(imp.Type, imp.ID)
	}
	if imp.Status.Valid() {
		sheet.Status = imp.Status
	}
	if imp.Fields != nil {
		sheet.Fields = model.RecordFromMap(imp.Fields.Values())
	}
	if sheet.Type == model.SheetSAP {
		sheet.Fields.Write(model.KeySAP, sheet.ID, model.WriteOptions{})
	}
	return &sheet, nil
}
