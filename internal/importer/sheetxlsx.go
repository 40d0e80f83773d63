package importer

import (
	"fmt"

	"github.com/piwi3910/HojaMaestra/internal/model"
)

// legacyExportHeaders are the column titles of single-sheet workbooks
// exported by the earlier spreadsheet tool.
var legacyExportHeaders = map[string]model.FieldKey{
	"id (sap)":           model.KeySAP,
	"fecha doc":          model.KeyDate,
	"clase material":     model.KeyMatClass,
	"tipo papel":         model.KeyMatPaper,
	"area pieza":         model.KeyPieceArea,
	"dim. papel":         model.KeyPaperDim,
	"ancho rollo":        model.KeyRollWidth,
	"largo int":          model.KeyDimL,
	"ancho int":          model.KeyDimW,
	"alto int":           model.KeyDimH,
	"sentido hilo (imp)": model.KeyGrainPrint,
	"dim. hilo":          model.KeyDimGrain,
	"dim. contra":        model.KeyDimCross,
	"piezas/hoja":        model.KeyPcsSheet,
	"# artios":           model.KeyArtios,
	"pinza":              model.KeyGrip,
	"gap h":              model.KeyGapH,
	"gap v":              model.KeyGapV,
	"tipo troquel":       model.KeyDieType,
	"pzas/paquete":       model.KeyPcsPack,
	"paq/cama":           model.KeyPacksLayer,
	"camas/pallet":       model.KeyLayersPallet,
	"total piezas":       model.KeyTotalPcs,
	"pzas/contenedor":    model.KeyPcsCont,
	"pallets/cont":       model.KeyPalletsCont,
	"tam contenedor":     model.KeySizeCont,
}

// ignoredHeaders are informational columns that are not read back.
var ignoredHeaders = map[string]bool{
	NormalizeHeader(model.ColumnCreated): true,
	NormalizeHeader(model.ColumnUpdated): true,
	"fecha modificacion":                 true,
}

// ImportedSheet is a sheet read back from a single-sheet workbook.
type ImportedSheet struct {
	Type   model.SheetType
	ID     string
	Status model.Status
	Fields *model.Record
}

// headerKeys maps normalized headers to field keys: schema labels, field
// keys themselves and the legacy export titles.
func headerKeys() map[string]model.FieldKey {
	m := make(map[string]model.FieldKey, len(model.Schema)*2+len(legacyExportHeaders))
	for h, k := range legacyExportHeaders {
		m[h] = k
	}
	for _, f := range model.Schema {
		m[string(f.Key)] = f.Key
		m[NormalizeHeader(f.Label)] = f.Key
	}
	return m
}

// ImportSheetExcel reads a workbook whose first sheet has a header row and
// one data row, as written by the sheet exporter, back into a record.
func ImportSheetExcel(path string) (ImportedSheet, ImportResult) {
	result := ImportResult{}
	rows := readRows(path, &result)
	if !result.OK() {
		return ImportedSheet{}, result
	}
	return ParseSheetRows(rows, &result), result
}

// ParseSheetRows maps a header row and the first data row onto a record.
// Unknown columns are reported as warnings.
func ParseSheetRows(rows [][]string, result *ImportResult) ImportedSheet {
	out := ImportedSheet{Fields: model.NewRecord()}
	if len(rows) < 2 {
		result.Errors = append(result.Errors, "The workbook has no data row")
		return out
	}
	if len(rows) > 2 {
		result.Warnings = append(result.Warnings, fmt.Sprintf("Only the first of %d data rows was imported", len(rows)-1))
	}

	keys := headerKeys()
	data := rows[1]
	for i, raw := range rows[0] {
		h := NormalizeHeader(raw)
		if h == "" || ignoredHeaders[h] {
			continue
		}
		v := getCell(data, i)
		switch h {
		case NormalizeHeader(model.ColumnType):
			out.Type = model.SheetType(v)
			continue
		case NormalizeHeader(model.ColumnID):
			out.ID = v
			continue
		case NormalizeHeader(model.ColumnStatus):
			out.Status = model.Status(v)
			continue
		}
		key, ok := keys[h]
		if !ok {
			result.Warnings = append(result.Warnings, fmt.Sprintf("Unknown column %q ignored", raw))
			continue
		}
		if v != "" {
			out.Fields.Write(key, v, model.WriteOptions{})
		}
	}

	if out.Type != "" && !out.Type.Valid() {
		result.Warnings = append(result.Warnings, fmt.Sprintf("Unknown sheet type %q ignored", out.Type))
		out.Type = ""
	}
	if out.Status != "" && !out.Status.Valid() {
		result.Warnings = append(result.Warnings, fmt.Sprintf("Unknown status %q ignored", out.Status))
		out.Status = ""
	}
	if out.Fields.Len() == 0 {
		result.Errors = append(result.Errors, "No known columns found")
	}
	return out
}
