package importer

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/piwi3910/HojaMaestra/internal/model"
)

// ErrNoMTY1Data is returned when a PDF carries no recognizable MTY1 text,
// typically because it is a scanned image.
var ErrNoMTY1Data = errors.New("no MTY1 data found in PDF")

// MTY1Data holds the fields recovered from a "Plano Maestro de Produccion" PDF.
type MTY1Data struct {
	Folio      string
	Client     string
	Article    string
	Date       string
	MatClass   string
	Flute      string
	ECT        string
	LinerExt   string
	Medium     string
	LinerInt   string
	DimL       string
	DimW       string
	DimH       string
	PaperDim   string
	DimGrain   string
	DimCross   string
	PcsSheet   string
	Printer    string
	DieMachine string
	GlueType   string
	PcsPack    string
	PacksLayer string
	TotalPcs   string

	// Scanned is set when the page has almost no text and no folio.
	Scanned bool
}

var spaceRun = regexp.MustCompile(`\s+`)

func res(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		out[i] = regexp.MustCompile(p)
	}
	return out
}

var (
	reFolio   = res(`(?i)FOLIO\s+(SK-\d+)`, `SK-(\d+)`, `(?i)Emisi[oó]n\s+(\d+[A-Z]?)`)
	reDate    = res(`(\d{2}/\d{2}/\d{4})`)
	reClient  = res(`(?i)CODIGO/CLIENTE\s+([A-Z]+)`, `(?i)FDO AUTOMATICO\s+\d+ PZAS\s+([A-Z]+)`)
	reMont    = regexp.MustCompile(`\bMONT\b`)
	reClient2 = res(`(?i)CLIENTE\s+([A-Z]{2,10})\b`)
	reArticle = res(
		`(?i)DESCRIPCION DEL PRODUCTO\s+([\w\-.\s]+?)\s+(?:TIPO|FECHA)`,
		`(?i)(FFC\d+[-\w]+)`,
		`(\w{3,4}\d{2,3}-\w{2,4}\d{1,2})`,
	)
	reClass    = res(`(?i)TIPO DE PRODUCTO\s+(FDO AUTOMATICO|LINEAL|CHAROLA|[\w ]+?)(?:\s{2,}|\d)`)
	reFlute    = res(`(?i)FLAUTA\s+([A-Z])\s+\d+\s+ECT`, `(?i)FLAUTA\s+([A-Z])\b`)
	reECT      = res(`(?i)FLAUTA [A-Z]\s+(\d+)\s+ECT`, `(?i)(\d+)\s+ECT`)
	reLinerExt = res(`(?i)SUSTRATO\s+([\w\s]+?)\s+\d{2,3}g`)
	reMedium   = res(`(?i)MEDIUM\s+(\d{2,3}g)`, `(\d{3}g)\s+\d{3}g`)
	reLinerInt = res(`(?i)LINER\s+(\d{2,3}g)`, `\d{3}g\s+(\d{3}g)`)
	reBox      = regexp.MustCompile(`([\d.]+)\s*mm\s+([\d.]+)\s*mm\s+([\d.]+)\s*mm`)
	reLength   = res(`(?i)LARGO\s+([\d.]+)\s+mm`)
	reWidth    = res(`(?i)ANCHO\s+([\d.]+)\s+mm`)
	reHeight   = res(`(?i)ALTO\s+([\d.]+)\s+mm`, `(?i)(?:PROFUNDIDAD|PROF)\s+([\d.]+)\s+mm`)
	rePaper    = regexp.MustCompile(`(?i)SUSTRATO.*?(\d{3,4})\s*mm.*?(\d{3,4})\s*mm`)
	rePaper2   = regexp.MustCompile(`(\d{3,4})\s*mm\b.*?(\d{3,4})\s*mm`)
	reGrain    = res(`(?i)LARGO.*?(\d{3,4}\.\d{2})\s*mm`)
	reCross    = res(`(?i)ANCHO.*?(\d{3,4}\.\d{2})\s*mm`)
	rePcsSheet = res(`(?i)(\d+)\s*PZAS`, `(?i)FORMACION.*?(\d+)`)
	rePrinter  = res(`(?i)KBA\s*(\d+)`)
	reBobst    = regexp.MustCompile(`(?i)BOBST\s*(\d+)`)
	reGlue     = res(`(?i)TIPO DE PEGUE\s+([\w ]+?)(?:\s{2,}|LINEAL|4 ESQ)`)
	rePcsBox   = res(`(?i)(\d+)\s*pzas?\s*por\s*caja`)
	reMasters  = res(`(?i)(\d+)\s*masters?\s*por\s*tarima`)
	rePcsPal   = res(`(?i)(\d+)\s*pzas?\s*por\s*tarima`)
)

// find returns the trimmed first capture of the first pattern that matches.
func find(text string, patterns []*regexp.Regexp) string {
	for _, re := range patterns {
		m := re.FindStringSubmatch(text)
		if len(m) > 1 {
			if v := strings.TrimSpace(m[1]); v != "" {
				return v
			}
		}
	}
	return ""
}

// ParseMTY1Text extracts MTY1 fields from the plain text of the first page.
func ParseMTY1Text(text string) MTY1Data {
	t := spaceRun.ReplaceAllString(text, " ")
	d := MTY1Data{
		Folio:    find(t, reFolio),
		Date:     find(t, reDate),
		Article:  find(t, reArticle),
		ECT:      find(t, reECT),
		LinerExt: find(t, reLinerExt),
		Medium:   find(t, reMedium),
		LinerInt: find(t, reLinerInt),
		DimGrain: find(t, reGrain),
		DimCross: find(t, reCross),
		PcsSheet: find(t, rePcsSheet),
		PcsPack:  find(t, rePcsBox),
		TotalPcs: find(t, rePcsPal),
	}
	d.PacksLayer = find(t, reMasters)

	d.Client = find(t, reClient)
	if d.Client == "" {
		if reMont.MatchString(t) {
			d.Client = "MONT"
		} else {
			d.Client = find(t, reClient2)
		}
	}

	d.MatClass = find(t, reClass)
	if d.MatClass == "" && strings.Contains(t, "FDO AUTOMATICO") {
		d.MatClass = "FDO AUTOMATICO"
	}

	if f := find(t, reFlute); f != "" {
		d.Flute = "Flauta " + strings.ToUpper(f[:1])
	}

	if m := reBox.FindStringSubmatch(t); m != nil {
		d.DimL, d.DimW, d.DimH = m[1], m[2], m[3]
	} else {
		d.DimL = find(t, reLength)
		d.DimW = find(t, reWidth)
		d.DimH = find(t, reHeight)
	}

	if m := rePaper.FindStringSubmatch(t); m != nil {
		d.PaperDim = m[1] + " x " + m[2]
	} else if m := rePaper2.FindStringSubmatch(t); m != nil {
		d.PaperDim = m[1] + " x " + m[2]
	}

	if n := find(t, rePrinter); n != "" {
		d.Printer = "KBA-" + n
	}
	d.DieMachine = dieMachines(t)

	if strings.Contains(t, "FDO AUTO") {
		d.GlueType = "Fondo Automatico"
	} else {
		d.GlueType = find(t, reGlue)
	}

	d.Scanned = d.Folio == "" && len(t) < 100
	return d
}

// dieMachines maps every "BOBST n" mention to a plant die cutter, without
// repeats, joined with " / ".
func dieMachines(t string) string {
	var names []string
	seen := map[string]bool{}
	for _, m := range reBobst.FindAllStringSubmatch(t, -1) {
		name := "SP-" + m[1]
		if m[1] == "160" {
			name = "Vision-160"
		}
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	return strings.Join(names, " / ")
}

// Values returns the non-empty fields keyed by form field.
func (d MTY1Data) Values() map[model.FieldKey]string {
	all := map[model.FieldKey]string{
		model.KeySAP:        d.Folio,
		model.KeyClient:     d.Client,
		model.KeyArticle:    d.Article,
		model.KeyDateIn:     d.Date,
		model.KeyMatClass:   d.MatClass,
		model.KeyFlute:      d.Flute,
		model.KeyECT:        d.ECT,
		model.KeyLinerExt:   d.LinerExt,
		model.KeyMedium:     d.Medium,
		model.KeyLinerInt:   d.LinerInt,
		model.KeyDimL:       d.DimL,
		model.KeyDimW:       d.DimW,
		model.KeyDimH:       d.DimH,
		model.KeyPaperDim:   d.PaperDim,
		model.KeyDimGrain:   d.DimGrain,
		model.KeyDimCross:   d.DimCross,
		model.KeyPcsSheet:   d.PcsSheet,
		model.KeyPrinter:    d.Printer,
		model.KeyDieMachine: d.DieMachine,
		model.KeyGlueType:   d.GlueType,
		model.KeyPcsPack:    d.PcsPack,
		model.KeyPacksLayer: d.PacksLayer,
		model.KeyTotalPcs:   d.TotalPcs,
	}
	for k, v := range all {
		if v == "" {
			delete(all, k)
		}
	}
	return all
}

// Apply writes the non-empty fields into w and returns how many were written.
func (d MTY1Data) Apply(w FieldWriter) int {
	values := d.Values()
	for _, f := range model.Schema {
		if v, ok := values[f.Key]; ok {
			w.Write(f.Key, v, model.WriteOptions{})
		}
	}
	return len(values)
}

// ImportMTY1 reads the first page of an MTY1 PDF and parses its fields.
func ImportMTY1(path string) (MTY1Data, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return MTY1Data{}, fmt.Errorf("opening PDF: %w", err)
	}
	defer f.Close()

	if r.NumPage() < 1 {
		return MTY1Data{}, fmt.Errorf("%w: the document has no pages", ErrNoMTY1Data)
	}
	page := r.Page(1)
	if page.V.IsNull() {
		return MTY1Data{}, fmt.Errorf("%w: cannot read page 1", ErrNoMTY1Data)
	}
	text, err := page.GetPlainText(nil)
	if err != nil {
		return MTY1Data{}, fmt.Errorf("extracting PDF text: %w", err)
	}

	d := ParseMTY1Text(text)
	if d.Folio == "" && d.Scanned {
		return d, ErrNoMTY1Data
	}
	return d, nil
}
