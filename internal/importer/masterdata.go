package importer

import (
	"fmt"
	"strings"

	"github.com/piwi3910/HojaMaestra/internal/model"
)

// headerAlias maps a normalized master-data column header to a field key.
type headerAlias struct {
	Header string
	Key    model.FieldKey
}

// masterDataAliases is consulted in order; the first alias with a value wins.
var masterDataAliases = []headerAlias{
	{"cliente", model.KeyClient},
	{"articulo", model.KeyArticle},
	{"descripcion", model.KeyArticle},
	{"fecha", model.KeyDate},
	{"version", model.KeyVersion},
	{"ect", model.KeyECT},
	{"largo", model.KeyDimL},
	{"ancho", model.KeyDimW},
	{"alto", model.KeyDimH},
	{"profundidad", model.KeyDimH},
	{"area total", model.KeyAreaTotal},
	{"area_total", model.KeyAreaTotal},
	{"area efectiva", model.KeyAreaEff},
	{"merma", model.KeyWaste},
	{"peso bruto", model.KeyWeightGrs},
	{"peso ok", model.KeyWeightNet},
	{"peso", model.KeyWeightNet},
	{"papel", model.KeyMatPaper},
	{"gramaje", model.KeyGSM},
	{"flauta", model.KeyFlute},
	{"calibre", model.KeyCaliper},
	{"clase", model.KeyMatClass},
	{"impresora", model.KeyPrinter},
	{"troqueladora", model.KeyDieMachine},
	{"artios", model.KeyArtios},
	{"pegadora", model.KeyGluer},
	{"piezas paq", model.KeyPcsPack},
	{"piezas pallet", model.KeyTotalPcs},
	{"pallets contenedor", model.KeyPalletsCont},
}

// MasterData is the plant master-data workbook indexed by SAP code.
type MasterData struct {
	Headers []string
	rows    map[string]map[string]string
}

// Len returns the number of indexed SAP codes.
func (m *MasterData) Len() int {
	if m == nil {
		return 0
	}
	return len(m.rows)
}

// Row returns the normalized-header to value map for a SAP code.
func (m *MasterData) Row(sap string) (map[string]string, bool) {
	if m == nil {
		return nil, false
	}
	row, ok := m.rows[CleanSAP(sap)]
	return row, ok
}

// CleanSAP strips the "#" marker and surrounding spaces from a SAP code.
func CleanSAP(sap string) string {
	return strings.TrimSpace(strings.ReplaceAll(sap, "#", ""))
}

// isSAPHeader reports whether a normalized header names the SAP code column.
func isSAPHeader(h string) bool {
	return strings.Contains(h, "sap") || strings.Contains(h, "material") || h == "codigo"
}

// LoadMasterData reads the first sheet of an Excel workbook, or a CSV file,
// and indexes its rows by SAP code. The SAP column is detected from the
// header; without one the first column is used and a warning is reported.
func LoadMasterData(path string) (*MasterData, ImportResult) {
	result := ImportResult{}
	rows := readRows(path, &result)
	if !result.OK() {
		return nil, result
	}
	md := ParseMasterData(rows, &result)
	return md, result
}

// ParseMasterData indexes already-read rows. The first row is the header.
func ParseMasterData(rows [][]string, result *ImportResult) *MasterData {
	if len(rows) < 2 {
		result.Errors = append(result.Errors, "The workbook is empty or has no header row")
		return nil
	}

	headers := make([]string, len(rows[0]))
	sapCol := -1
	for i, h := range rows[0] {
		headers[i] = NormalizeHeader(h)
		if sapCol == -1 && headers[i] != "" && isSAPHeader(headers[i]) {
			sapCol = i
		}
	}
	if sapCol == -1 {
		result.Warnings = append(result.Warnings, "No SAP column found, using the first column")
		sapCol = 0
	}

	md := &MasterData{Headers: headers, rows: make(map[string]map[string]string)}
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}
		key := CleanSAP(getCell(row, sapCol))
		if key == "" {
			result.Warnings = append(result.Warnings, fmt.Sprintf("Row %d: missing SAP code, skipped", i+1))
			continue
		}
		values := make(map[string]string, len(headers))
		for j, h := range headers {
			if h == "" {
				continue
			}
			if v := getCell(row, j); v != "" {
				values[h] = v
			}
		}
		if _, dup := md.rows[key]; dup {
			result.Warnings = append(result.Warnings, fmt.Sprintf("Row %d: duplicate SAP %s replaces an earlier row", i+1, key))
		}
		md.rows[key] = values
	}
	return md
}

// valueFor resolves the value of one field from a master-data row: first
// through the alias table, then by a header equal to the field key.
func valueFor(row map[string]string, key model.FieldKey) (string, bool) {
	for _, a := range masterDataAliases {
		if a.Key != key {
			continue
		}
		if v, ok := row[a.Header]; ok {
			return v, true
		}
	}
	v, ok := row[string(key)]
	return v, ok
}

// FillRecord writes the master-data values of a SAP code into w and returns
// the keys it filled, in schema order. Unknown SAP codes fill nothing.
func (m *MasterData) FillRecord(w FieldWriter, sap string) []model.FieldKey {
	row, ok := m.Row(sap)
	if !ok {
		return nil
	}
	var filled []model.FieldKey
	for _, f := range model.Schema {
		v, ok := valueFor(row, f.Key)
		if !ok {
			continue
		}
		w.Write(f.Key, v, model.WriteOptions{})
		filled = append(filled, f.Key)
	}
	return filled
}
