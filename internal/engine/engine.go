package engine

import (
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/piwi3910/HojaMaestra/internal/model"
)

// Fields is the record surface the engine reads from and writes to.
// model.Record implements it, and so does the form in the UI.
type Fields interface {
	Get(key model.FieldKey) string
	Write(key model.FieldKey, value string, opts model.WriteOptions)
}

// Locker is implemented by field stores that can make derived fields
// read-only for direct edits.
type Locker interface {
	LockDerived()
}

// specTriggers are the inputs of the sheet specification pass.
var specTriggers = map[model.FieldKey]bool{
	model.KeyDimGrain:  true,
	model.KeyDimCross:  true,
	model.KeyPaperDim:  true,
	model.KeyPcsSheet:  true,
	model.KeyMatClass:  true,
	model.KeyMatPaper:  true,
	model.KeyCaliper:   true,
	model.KeyFlute:     true,
	model.KeyLinerExt:  true,
	model.KeyMedium:    true,
	model.KeyLinerInt:  true,
	model.KeyPieceArea: true,
	model.KeyRollWidth: true,
}

// IsTrigger reports whether a change to key requires a recalculation.
func IsTrigger(key model.FieldKey) bool {
	return specTriggers[key] || palletTriggers[key] || containerTriggers[key]
}

// Class is the material branch used for basis weight.
type Class int

const (
	ClassOther Class = iota
	ClassMicro
	ClassFolding
)

func (c Class) String() string {
	switch c {
	case ClassMicro:
		return "microcorrugated"
	case ClassFolding:
		return "folding"
	default:
		return "other"
	}
}

// ClassOf maps the material class field to its weight branch.
func ClassOf(matClass string) Class {
	s := strings.ToUpper(matClass)
	switch {
	case strings.Contains(s, "MICRO"):
		return ClassMicro
	case strings.Contains(s, "PLEGADIZO"), strings.Contains(s, "FOLDING"):
		return ClassFolding
	default:
		return ClassOther
	}
}

// Derived summarises the values computed by one pass. Zero means "not computed".
type Derived struct {
	Grain      float64
	Cross      float64
	AreaTotal  float64
	Efficiency float64 // percent
	Waste      float64 // percent
	Class      Class
	Grammage   float64
	WeightNet  float64
	WeightGrs  float64
	TotalPcs   float64
	PcsCont    float64
}

// Engine derives area, efficiency, basis weight and weights from the
// entered fields. It is not safe for concurrent use; callers run it on the
// goroutine that owns the fields.
type Engine struct {
	fields    Fields
	constants model.MaterialConstants
	logger    *zap.Logger
	locked    bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for debug traces of each pass.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// New creates an engine bound to fields, reading from a copy of constants.
func New(fields Fields, constants model.MaterialConstants, opts ...Option) *Engine {
	e := &Engine{
		fields:    fields,
		constants: constants.Clone(),
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Constants returns the table the engine currently reads from.
func (e *Engine) Constants() model.MaterialConstants { return e.constants }

// SetConstants replaces the constants table for subsequent passes.
func (e *Engine) SetConstants(c model.MaterialConstants) { e.constants = c.Clone() }

// Fields returns the field store the engine is bound to.
func (e *Engine) Fields() Fields { return e.fields }

// Recalculate runs the pass for a change to the given field. An empty key
// runs a full pass over every derivation and, the first time, locks the
// derived fields. Changes to fields that feed no derivation are ignored.
// Bad input never fails: unparsable numbers count as zero and the
// affected outputs are left untouched.
func (e *Engine) Recalculate(changed model.FieldKey) Derived {
	var d Derived
	full := changed == ""
	if full || specTriggers[changed] {
		e.specPass(changed, &d)
	}
	if full || palletTriggers[changed] || containerTriggers[changed] {
		e.shippingPass(changed, &d)
	}
	if full && !e.locked {
		if l, ok := e.fields.(Locker); ok {
			l.LockDerived()
		}
		e.locked = true
	}
	e.logger.Debug("recalculated",
		zap.String("changed", string(changed)),
		zap.Float64("area_total", d.AreaTotal),
		zap.Float64("efficiency", d.Efficiency),
		zap.Stringer("class", d.Class),
		zap.Float64("grammage", d.Grammage),
		zap.Float64("w_gross", d.WeightGrs),
	)
	return d
}

// Unlock forgets that the first full pass ran. Used when the record is
// cleared for a new sheet.
func (e *Engine) Unlock() { e.locked = false }

func (e *Engine) num(key model.FieldKey) float64 {
	return model.ParseNumber(e.fields.Get(key))
}

func (e *Engine) write(key model.FieldKey, value string) {
	e.fields.Write(key, value, model.WriteOptions{SuppressIfFocused: true})
}

func (e *Engine) specPass(changed model.FieldKey, d *Derived) {
	e.reconcileDimensions(changed)

	grain := e.num(model.KeyDimGrain)
	cross := e.num(model.KeyDimCross)
	pcs := e.num(model.KeyPcsSheet)
	pieceArea := e.num(model.KeyPieceArea)
	d.Grain, d.Cross = grain, cross

	var area float64
	if grain > 0 && cross > 0 {
		area = grain * cross / 1e6
		e.write(model.KeyAreaTotal, model.FormatFixed(area, 3))
	}
	d.AreaTotal = area

	if pieceArea > 0 && pcs > 0 && area > 0 {
		f := pieceArea * pcs / area
		d.Efficiency = model.RoundTo(f*100, 2)
		d.Waste = model.RoundTo(100-f*100, 2)
		e.write(model.KeyAreaEff, model.FormatFixed(d.Efficiency, 2)+"%")
		e.write(model.KeyWaste, model.FormatFixed(d.Waste, 2)+"%")
	}

	d.Class = ClassOf(e.fields.Get(model.KeyMatClass))
	total := e.basisWeight(d.Class)
	if total <= 0 {
		return
	}
	d.Grammage = model.RoundHalfUp(total)
	e.write(model.KeyGSM, model.FormatNumber(d.Grammage))
	if pieceArea > 0 {
		d.WeightNet = model.RoundHalfUp(total * pieceArea)
		e.write(model.KeyWeightNet, model.FormatNumber(d.WeightNet))
	}
	if area > 0 && pcs > 0 {
		d.WeightGrs = model.RoundHalfUp(total * area / pcs)
		e.write(model.KeyWeightGrs, model.FormatNumber(d.WeightGrs))
	}
}

// basisWeight returns the unrounded total grammage in g/m², or 0 when the
// class or its inputs do not allow one.
func (e *Engine) basisWeight(class Class) float64 {
	switch class {
	case ClassMicro:
		lext := e.num(model.KeyLinerExt)
		medium := e.num(model.KeyMedium)
		lint := e.num(model.KeyLinerInt)
		if lext <= 0 || medium <= 0 || lint <= 0 {
			return 0
		}
		factor := e.constants.FluteFactor(e.fields.Get(model.KeyFlute))
		return lext + medium*factor + lint + e.constants.Adhesives.Total
	case ClassFolding:
		return e.constants.FoldingGrammageFor(
			e.fields.Get(model.KeyMatPaper),
			e.fields.Get(model.KeyCaliper),
		)
	default:
		return 0
	}
}

func (e *Engine) reconcileDimensions(changed model.FieldKey) {
	switch changed {
	case model.KeyPaperDim:
		e.applyPaperDim()
	case model.KeyDimGrain, model.KeyDimCross:
		grain := e.num(model.KeyDimGrain)
		cross := e.num(model.KeyDimCross)
		if grain > 0 && cross > 0 {
			e.write(model.KeyPaperDim, FormatPaperDim(grain, cross))
		}
	case "":
		if e.num(model.KeyDimGrain) > 0 && e.num(model.KeyDimCross) > 0 {
			return
		}
		if strings.TrimSpace(e.fields.Get(model.KeyPaperDim)) != "" {
			e.applyPaperDim()
		}
	}
}

func (e *Engine) applyPaperDim() {
	grain, cross, ok := ParsePaperDim(e.fields.Get(model.KeyPaperDim))
	if !ok {
		return
	}
	e.write(model.KeyDimGrain, model.FormatNumber(grain))
	e.write(model.KeyDimCross, model.FormatNumber(cross))
}

var dimSeparator = regexp.MustCompile(`[xX\s]+`)

// ParsePaperDim splits a combined "grain X cross" text. It succeeds only
// when the text holds exactly two numeric tokens.
func ParsePaperDim(s string) (grain, cross float64, ok bool) {
	var tokens []string
	for _, t := range dimSeparator.Split(s, -1) {
		if t != "" {
			tokens = append(tokens, t)
		}
	}
	if len(tokens) != 2 || !model.IsNumeric(tokens[0]) || !model.IsNumeric(tokens[1]) {
		return 0, 0, false
	}
	return model.ParseNumber(tokens[0]), model.ParseNumber(tokens[1]), true
}

// FormatPaperDim renders grain and cross as the combined "1200 X 800" text.
func FormatPaperDim(grain, cross float64) string {
	return model.FormatNumber(grain) + " X " + model.FormatNumber(cross)
}
