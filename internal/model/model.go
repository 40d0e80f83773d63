package model

import (
	"strconv"
	"strings"
)

// FieldKey identifies one field of a Hoja Maestra form (e.g. "dim-grain").
type FieldKey string

// Field keys used by the form. The values match the column identifiers of
// the plant's spreadsheet exports so that imported files map one-to-one.
const (
	// General
	KeyClient  FieldKey = "client"
	KeyArticle FieldKey = "article"
	KeySAP     FieldKey = "sap-1"
	KeyDate    FieldKey = "date-doc"
	KeyDateIn  FieldKey = "date-1"
	KeyVersion FieldKey = "version"
	KeyArtios  FieldKey = "artios"

	// Material
	KeyMatClass FieldKey = "mat-class"
	KeyMatPaper FieldKey = "mat-paper"
	KeyCaliper  FieldKey = "caliper"
	KeyFlute    FieldKey = "flute"
	KeyECT      FieldKey = "ect"
	KeyLinerExt FieldKey = "l-ext"
	KeyMedium   FieldKey = "medium"
	KeyLinerInt FieldKey = "l-int"

	// Dimensions
	KeyDimL      FieldKey = "dim-l"
	KeyDimW      FieldKey = "dim-w"
	KeyDimH      FieldKey = "dim-h"
	KeyPaperDim  FieldKey = "paper-dim"
	KeyDimGrain  FieldKey = "dim-grain"
	KeyDimCross  FieldKey = "dim-cross"
	KeyRollWidth FieldKey = "roll-width"
	KeyGrainDir  FieldKey = "grain-dir"
	KeyAreaTotal FieldKey = "area-total"
	KeyPieceArea FieldKey = "mat-area"
	KeyPcsSheet  FieldKey = "pcs-sheet"
	KeyAreaEff   FieldKey = "area-eff"
	KeyWaste     FieldKey = "waste"
	KeyGSM       FieldKey = "gsm"
	KeyWeightNet FieldKey = "w-net"
	KeyWeightGrs FieldKey = "w-gross"

	// Printing
	KeyPrinter FieldKey = "printer"
	KeyInk1    FieldKey = "ink1"
	KeyInk2    FieldKey = "ink2"
	KeyInk3    FieldKey = "ink3"
	KeyInk4    FieldKey = "ink4"
	KeyInk5    FieldKey = "ink5"
	KeyInk6    FieldKey = "ink6"
	KeyInk7    FieldKey = "ink7"
	KeyInk8    FieldKey = "ink8"

	KeyGrainPrint FieldKey = "grain-print"
	KeyObsPrint   FieldKey = "obs-print"

	// Die-cutting
	KeyDieMachine FieldKey = "die-machine"
	KeyDieType    FieldKey = "die-type"
	KeyGrip       FieldKey = "grip"
	KeyGapH       FieldKey = "gap-h"
	KeyGapV       FieldKey = "gap-v"
	KeyGripBack   FieldKey = "grip-back"
	KeyTape       FieldKey = "tape"
	KeyThickness  FieldKey = "thickness"
	KeySquares    FieldKey = "squares"
	KeyObsDie     FieldKey = "obs-die"

	// Gluing
	KeyGluer    FieldKey = "gluer"
	KeyGlueType FieldKey = "glue-type"
	KeyGlueFlap FieldKey = "glue-flap"
	KeyGlueName FieldKey = "glue-name"
	KeyObsGlue  FieldKey = "obs-glue"

	// Packing
	KeyPcsPack      FieldKey = "pcs-pack"
	KeyPacksLayer   FieldKey = "packs-layer"
	KeyLayersPallet FieldKey = "layers-pallet"
	KeyTotalPcs     FieldKey = "total-pcs"
	KeyPackType     FieldKey = "pack-type"
	KeyPackFlute    FieldKey = "pack-flute"
	KeyPackECT      FieldKey = "pack-ect"
	KeyPackL        FieldKey = "pack-l"
	KeyPackW        FieldKey = "pack-w"
	KeyPackH        FieldKey = "pack-h"
	KeyPackInstr    FieldKey = "pack-instr"

	// Shipping
	KeyPalletsCont FieldKey = "pallets-cont"
	KeyPcsCont     FieldKey = "pcs-cont"
	KeySizeCont    FieldKey = "size-cont"

	KeyNotes FieldKey = "notes"
)

// Section groups fields on the form and in exports.
type Section string

const (
	SectionGeneral    Section = "General"
	SectionMaterial   Section = "Material"
	SectionDimensions Section = "Dimensiones"
	SectionPrinting   Section = "Impresión"
	SectionDieCutting Section = "Troquelado"
	SectionGluing     Section = "Pegado"
	SectionPacking    Section = "Empaque"
	SectionShipping   Section = "Embarque"
)

// Sections lists the form sections in display order.
var Sections = []Section{
	SectionGeneral,
	SectionMaterial,
	SectionDimensions,
	SectionPrinting,
	SectionDieCutting,
	SectionGluing,
	SectionPacking,
	SectionShipping,
}

// FieldKind describes how a field value is interpreted.
type FieldKind int

const (
	KindText   FieldKind = iota // Free text
	KindNumber                  // Numeric, parsed leniently
	KindChoice                  // One of Options
)

// FieldDef describes one form field.
type FieldDef struct {
	Key     FieldKey
	Label   string
	Section Section
	Kind    FieldKind
	Unit    string
	Options []string

	// EngineOwned fields are written only by the recalculation engine.
	EngineOwned bool
}

// MaterialClasses are the material classes offered on the form.
var MaterialClasses = []string{"MICROCORRUGADO", "PLEGADIZO"}

// GrainDirections are the accepted values for the grain direction field.
var GrainDirections = []string{"HORIZONTAL", "VERTICAL"}

// Flutes are the flute options offered on the form.
var Flutes = []string{"Flauta E", "Flauta B", "Flauta C"}

// Schema is the ordered field list of a Hoja Maestra.
var Schema = []FieldDef{
	{Key: KeyClient, Label: "Cliente", Section: SectionGeneral},
	{Key: KeyArticle, Label: "Artículo", Section: SectionGeneral},
	{Key: KeySAP, Label: "SAP", Section: SectionGeneral},
	{Key: KeyDateIn, Label: "Fecha ingreso", Section: SectionGeneral},
	{Key: KeyDate, Label: "Fecha", Section: SectionGeneral},
	{Key: KeyVersion, Label: "Versión", Section: SectionGeneral},
	{Key: KeyArtios, Label: "Artios", Section: SectionGeneral},

	{Key: KeyMatClass, Label: "Clase", Section: SectionMaterial, Kind: KindChoice, Options: MaterialClasses},
	{Key: KeyMatPaper, Label: "Papel", Section: SectionMaterial},
	{Key: KeyCaliper, Label: "Calibre", Section: SectionMaterial, Unit: "pts"},
	{Key: KeyFlute, Label: "Flauta", Section: SectionMaterial, Kind: KindChoice, Options: Flutes},
	{Key: KeyECT, Label: "ECT", Section: SectionMaterial, Kind: KindNumber},
	{Key: KeyLinerExt, Label: "Liner exterior", Section: SectionMaterial, Kind: KindNumber, Unit: "g/m²"},
	{Key: KeyMedium, Label: "Medium", Section: SectionMaterial, Kind: KindNumber, Unit: "g/m²"},
	{Key: KeyLinerInt, Label: "Liner interior", Section: SectionMaterial, Kind: KindNumber, Unit: "g/m²"},

	{Key: KeyDimL, Label: "Largo", Section: SectionDimensions, Kind: KindNumber, Unit: "mm"},
	{Key: KeyDimW, Label: "Ancho", Section: SectionDimensions, Kind: KindNumber, Unit: "mm"},
	{Key: KeyDimH, Label: "Alto", Section: SectionDimensions, Kind: KindNumber, Unit: "mm"},
	{Key: KeyPaperDim, Label: "Dim. papel", Section: SectionDimensions, Unit: "mm"},
	{Key: KeyDimGrain, Label: "Hilo", Section: SectionDimensions, Kind: KindNumber, Unit: "mm"},
	{Key: KeyDimCross, Label: "Contra hilo", Section: SectionDimensions, Kind: KindNumber, Unit: "mm"},
	{Key: KeyRollWidth, Label: "Ancho de rollo", Section: SectionDimensions, Kind: KindNumber, Unit: "mm"},
	{Key: KeyGrainDir, Label: "Dirección de hilo", Section: SectionDimensions, Kind: KindChoice, Options: GrainDirections},
	{Key: KeyPieceArea, Label: "Área pieza", Section: SectionDimensions, Kind: KindNumber, Unit: "m²"},
	{Key: KeyPcsSheet, Label: "Piezas por hoja", Section: SectionDimensions, Kind: KindNumber},
	{Key: KeyAreaTotal, Label: "Área total", Section: SectionDimensions, Kind: KindNumber, Unit: "m²", EngineOwned: true},
	{Key: KeyAreaEff, Label: "Área efectiva", Section: SectionDimensions, EngineOwned: true},
	{Key: KeyWaste, Label: "Merma", Section: SectionDimensions, EngineOwned: true},
	{Key: KeyGSM, Label: "Gramaje", Section: SectionDimensions, Kind: KindNumber, Unit: "g/m²", EngineOwned: true},
	{Key: KeyWeightNet, Label: "Peso neto", Section: SectionDimensions, Kind: KindNumber, Unit: "g", EngineOwned: true},
	{Key: KeyWeightGrs, Label: "Peso bruto", Section: SectionDimensions, Kind: KindNumber, Unit: "g", EngineOwned: true},

	{Key: KeyPrinter, Label: "Impresora", Section: SectionPrinting},
	{Key: KeyGrainPrint, Label: "Sentido de hilo", Section: SectionPrinting, Kind: KindChoice, Options: GrainDirections},
	{Key: KeyInk1, Label: "Tinta 1", Section: SectionPrinting},
	{Key: InkSAPKey(1), Label: "SAP T1", Section: SectionPrinting},
	{Key: KeyInk2, Label: "Tinta 2", Section: SectionPrinting},
	{Key: InkSAPKey(2), Label: "SAP T2", Section: SectionPrinting},
	{Key: KeyInk3, Label: "Tinta 3", Section: SectionPrinting},
	{Key: InkSAPKey(3), Label: "SAP T3", Section: SectionPrinting},
	{Key: KeyInk4, Label: "Tinta 4", Section: SectionPrinting},
	{Key: InkSAPKey(4), Label: "SAP T4", Section: SectionPrinting},
	{Key: KeyInk5, Label: "Tinta 5", Section: SectionPrinting},
	{Key: InkSAPKey(5), Label: "SAP T5", Section: SectionPrinting},
	{Key: KeyInk6, Label: "Tinta 6", Section: SectionPrinting},
	{Key: InkSAPKey(6), Label: "SAP T6", Section: SectionPrinting},
	{Key: KeyInk7, Label: "Tinta 7", Section: SectionPrinting},
	{Key: InkSAPKey(7), Label: "SAP T7", Section: SectionPrinting},
	{Key: KeyInk8, Label: "Barniz", Section: SectionPrinting},
	{Key: InkSAPKey(8), Label: "SAP T8", Section: SectionPrinting},
	{Key: KeyObsPrint, Label: "Obs. impresión", Section: SectionPrinting},

	{Key: KeyDieMachine, Label: "Troqueladora", Section: SectionDieCutting},
	{Key: KeyDieType, Label: "Tipo de suaje", Section: SectionDieCutting},
	{Key: KeyGrip, Label: "Pinza", Section: SectionDieCutting, Kind: KindNumber, Unit: "mm"},
	{Key: KeyGapH, Label: "Separación H", Section: SectionDieCutting, Kind: KindNumber, Unit: "mm"},
	{Key: KeyGapV, Label: "Separación V", Section: SectionDieCutting, Kind: KindNumber, Unit: "mm"},
	{Key: KeyGripBack, Label: "Contra pinza", Section: SectionDieCutting, Kind: KindNumber, Unit: "mm"},
	{Key: KeyTape, Label: "Cinta ref.", Section: SectionDieCutting},
	{Key: KeyThickness, Label: "Grosor", Section: SectionDieCutting},
	{Key: KeySquares, Label: "Escuadras", Section: SectionDieCutting},
	{Key: KeyObsDie, Label: "Obs. troquel", Section: SectionDieCutting},

	{Key: KeyGluer, Label: "Pegadora", Section: SectionGluing},
	{Key: KeyGlueType, Label: "Tipo de pegue", Section: SectionGluing},
	{Key: KeyGlueFlap, Label: "Ceja de pegue", Section: SectionGluing, Kind: KindNumber, Unit: "mm"},
	{Key: KeyGlueName, Label: "Adhesivo", Section: SectionGluing},
	{Key: KeyObsGlue, Label: "Obs. pegado", Section: SectionGluing},

	{Key: KeyPackType, Label: "Tipo de empaque", Section: SectionPacking},
	{Key: KeyPackFlute, Label: "Flauta empaque", Section: SectionPacking},
	{Key: KeyPackECT, Label: "ECT empaque", Section: SectionPacking, Kind: KindNumber},
	{Key: KeyPackL, Label: "Largo empaque", Section: SectionPacking, Kind: KindNumber, Unit: "mm"},
	{Key: KeyPackW, Label: "Ancho empaque", Section: SectionPacking, Kind: KindNumber, Unit: "mm"},
	{Key: KeyPackH, Label: "Alto empaque", Section: SectionPacking, Kind: KindNumber, Unit: "mm"},
	{Key: KeyPcsPack, Label: "Piezas por paquete", Section: SectionPacking, Kind: KindNumber},
	{Key: KeyPacksLayer, Label: "Paquetes por cama", Section: SectionPacking, Kind: KindNumber},
	{Key: KeyLayersPallet, Label: "Camas por tarima", Section: SectionPacking, Kind: KindNumber},
	{Key: KeyTotalPcs, Label: "Piezas por tarima", Section: SectionPacking, Kind: KindNumber},
	{Key: KeyPackInstr, Label: "Instr. empaque", Section: SectionPacking},

	{Key: KeyPalletsCont, Label: "Tarimas por contenedor", Section: SectionShipping, Kind: KindNumber},
	{Key: KeyPcsCont, Label: "Piezas por contenedor", Section: SectionShipping, Kind: KindNumber},
	{Key: KeySizeCont, Label: "Tamaño contenedor", Section: SectionShipping},
	{Key: KeyNotes, Label: "Notas", Section: SectionShipping},
}

// InkSAPKey returns the key of the SAP code field paired with ink n (1-8).
func InkSAPKey(n int) FieldKey {
	return FieldKey("sap" + strconv.Itoa(n))
}

// InkIndex returns n for the ink field "ink<n>" (1-8).
func InkIndex(key FieldKey) (int, bool) {
	s, ok := strings.CutPrefix(string(key), "ink")
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > 8 {
		return 0, false
	}
	return n, true
}

// InkSAPCodes maps standard ink names to their SAP material codes.
var InkSAPCodes = map[string]string{
	"CYAN":          "SAP-001",
	"MAGENTA":       "SAP-002",
	"YELLOW":        "SAP-003",
	"BLACK":         "SAP-004",
	"BARNIZ ACUOSO": "SAP-101",
	"BARNIZ UV":     "SAP-102",
}

// InkSAPCode returns the SAP code of a standard ink, or "" when unknown.
func InkSAPCode(ink string) string {
	return InkSAPCodes[strings.ToUpper(strings.TrimSpace(ink))]
}

var schemaIndex = func() map[FieldKey]int {
	idx := make(map[FieldKey]int, len(Schema))
	for i, f := range Schema {
		idx[f.Key] = i
	}
	return idx
}()

// LookupField returns the definition for key, if the key is part of the schema.
func LookupField(key FieldKey) (FieldDef, bool) {
	i, ok := schemaIndex[key]
	if !ok {
		return FieldDef{}, false
	}
	return Schema[i], true
}

// IsEngineOwned reports whether key is a derived field owned by the engine.
func IsEngineOwned(key FieldKey) bool {
	f, ok := LookupField(key)
	return ok && f.EngineOwned
}

// EngineOwnedKeys returns the derived field keys in schema order.
func EngineOwnedKeys() []FieldKey {
	var keys []FieldKey
	for _, f := range Schema {
		if f.EngineOwned {
			keys = append(keys, f.Key)
		}
	}
	return keys
}

// FieldsInSection returns the schema entries of one section, in order.
func FieldsInSection(s Section) []FieldDef {
	var out []FieldDef
	for _, f := range Schema {
		if f.Section == s {
			out = append(out, f)
		}
	}
	return out
}
