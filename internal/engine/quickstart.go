package engine

import (
	"math"
	"strings"

	"github.com/piwi3910/HojaMaestra/internal/model"
)

// QuickStart holds the answers of the guided new-sheet wizard.
type QuickStart struct {
	Client  string
	Article string
	SAP     string

	MatClass string
	Paper    string
	Caliper  string
	Flute    string
	ECT      string
	LinerExt float64
	Medium   float64
	LinerInt float64

	DimL string
	DimW string
	DimH string

	// GrainDir is "HORIZONTAL" or "VERTICAL".
	GrainDir string
	DieType  string
	Grip     string
	GapH     string
	GapV     string
	GlueType string

	// Sheet size in mm as laid out on the press (L x W).
	SheetL    float64
	SheetW    float64
	PieceArea float64 // m²
	Pieces    float64 // pieces per sheet
}

// GrainCross maps the wizard sheet size to grain and cross dimensions.
// A vertical grain runs along L; anything else runs along W.
func (q QuickStart) GrainCross() (grain, cross float64) {
	if strings.EqualFold(strings.TrimSpace(q.GrainDir), "VERTICAL") {
		return q.SheetL, q.SheetW
	}
	return q.SheetW, q.SheetL
}

// ApplyQuickStart copies the wizard answers into the record and runs a full
// pass. The wizard computes nothing itself; every derived value comes from
// Recalculate.
func (e *Engine) ApplyQuickStart(q QuickStart) Derived {
	set := func(k model.FieldKey, v string) {
		e.fields.Write(k, strings.TrimSpace(v), model.WriteOptions{})
	}
	num := func(k model.FieldKey, v float64) {
		if v > 0 {
			set(k, model.FormatNumber(v))
		} else {
			set(k, "")
		}
	}

	set(model.KeyClient, q.Client)
	set(model.KeyArticle, q.Article)
	if strings.TrimSpace(q.SAP) != "" {
		set(model.KeySAP, q.SAP)
	}

	set(model.KeyMatClass, q.MatClass)
	set(model.KeyMatPaper, q.Paper)
	set(model.KeyCaliper, q.Caliper)
	set(model.KeyFlute, strings.ToUpper(q.Flute))
	set(model.KeyECT, q.ECT)
	if ClassOf(q.MatClass) == ClassMicro {
		num(model.KeyLinerExt, q.LinerExt)
		num(model.KeyMedium, q.Medium)
		num(model.KeyLinerInt, q.LinerInt)
	} else {
		set(model.KeyLinerExt, "")
		set(model.KeyMedium, "")
		set(model.KeyLinerInt, "")
	}

	set(model.KeyDimL, q.DimL)
	set(model.KeyDimW, q.DimW)
	set(model.KeyDimH, q.DimH)

	set(model.KeyGrainDir, strings.ToUpper(q.GrainDir))
	set(model.KeyDieType, q.DieType)
	set(model.KeyGrip, q.Grip)
	set(model.KeyGapH, q.GapH)
	set(model.KeyGapV, q.GapV)
	set(model.KeyGlueType, q.GlueType)

	grain, cross := q.GrainCross()
	num(model.KeyDimGrain, grain)
	num(model.KeyDimCross, cross)
	if q.SheetL > 0 && q.SheetW > 0 {
		set(model.KeyPaperDim, FormatPaperDim(q.SheetL, q.SheetW))
		num(model.KeyRollWidth, math.Min(q.SheetL, q.SheetW))
	}
	if q.PieceArea > 0 && q.Pieces > 0 {
		num(model.KeyPcsSheet, q.Pieces)
		num(model.KeyPieceArea, q.PieceArea)
	}

	return e.Recalculate("")
}
