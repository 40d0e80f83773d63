package model

import (
	"sort"
	"strconv"
	"strings"
	"unicode"
)

// Adhesives holds adhesive grammage constants in g/m².
type Adhesives struct {
	Starch float64 `json:"starch"`
	PVA    float64 `json:"pva"`
	Total  float64 `json:"total"`
}

// PaperFamily is a folding-carton board family with its caliper table.
type PaperFamily struct {
	Name string `json:"name"`
	// Aliases are upper-case substrings of the paper field that select this family.
	Aliases []string `json:"aliases"`
	// Grammage maps caliper points to basis weight in g/m².
	Grammage map[int]float64 `json:"grammage"`
}

// MaterialConstants is the table the recalculation engine reads from.
type MaterialConstants struct {
	// FluteFactors maps a flute letter to the medium take-up factor.
	FluteFactors map[string]float64 `json:"flute_factors"`
	// DefaultFlute is used when the flute field does not name a known letter.
	DefaultFlute string    `json:"default_flute"`
	Adhesives    Adhesives `json:"adhesives"`
	// FoldingGrammage is searched in order; the first family whose alias
	// occurs in the paper name wins.
	FoldingGrammage []PaperFamily `json:"folding_grammage"`
}

// Paper family names of the default table.
const (
	FamilyCNKWRK    = "CNK_WRK"
	FamilyPonderosa = "EPL_PONDEROSA"
	FamilySBS       = "SBS/Printkote"
)

// DefaultMaterialConstants returns the built-in constants table.
func DefaultMaterialConstants() MaterialConstants {
	return MaterialConstants{
		FluteFactors: map[string]float64{"E": 1.32, "B": 1.35, "C": 1.48},
		DefaultFlute: "B",
		Adhesives:    Adhesives{Starch: 18, PVA: 26, Total: 44},
		FoldingGrammage: []PaperFamily{
			{
				Name:    FamilyCNKWRK,
				Aliases: []string{"WRK", "CNK"},
				Grammage: map[int]float64{
					12: 264, 14: 293, 15: 317, 16: 332, 17: 347, 18: 361,
					20: 391, 22: 420, 24: 454, 26: 488, 28: 522, 30: 557,
				},
			},
			{
				Name:    FamilyPonderosa,
				Aliases: []string{"PONDEROSA"},
				Grammage: map[int]float64{
					8: 0, 10: 0, 11: 220, 12: 240, 14: 280, 16: 320,
					18: 360, 20: 395, 22: 430, 24: 465, 26: 500, 28: 515,
				},
			},
			// No aliases: the engine only looks up Ponderosa and WRK/CNK
			// papers. SBS aliases can be added in the advanced settings.
			{
				Name: FamilySBS,
				Grammage: map[int]float64{
					10: 202, 12: 227, 14: 255, 16: 284, 18: 311,
					20: 345, 22: 379, 24: 407, 26: 435, 28: 462,
				},
			},
		},
	}
}

// Clone returns a deep copy of c.
func (c MaterialConstants) Clone() MaterialConstants {
	out := MaterialConstants{
		FluteFactors: make(map[string]float64, len(c.FluteFactors)),
		DefaultFlute: c.DefaultFlute,
		Adhesives:    c.Adhesives,
	}
	for k, v := range c.FluteFactors {
		out.FluteFactors[k] = v
	}
	for _, f := range c.FoldingGrammage {
		out.FoldingGrammage = append(out.FoldingGrammage, f.clone())
	}
	return out
}

func (f PaperFamily) clone() PaperFamily {
	out := PaperFamily{Name: f.Name, Aliases: append([]string(nil), f.Aliases...)}
	out.Grammage = make(map[int]float64, len(f.Grammage))
	for k, v := range f.Grammage {
		out.Grammage[k] = v
	}
	return out
}

// Merge overlays the non-zero parts of override on a copy of c.
// Flute factors and caliper entries are merged key by key; families are
// matched by name and unknown families are appended.
func (c MaterialConstants) Merge(override MaterialConstants) MaterialConstants {
	out := c.Clone()
	for k, v := range override.FluteFactors {
		if v > 0 {
			out.FluteFactors[NormalizeFlute(k)] = v
		}
	}
	if d := NormalizeFlute(override.DefaultFlute); d != "" {
		out.DefaultFlute = d
	}
	if override.Adhesives.Starch > 0 {
		out.Adhesives.Starch = override.Adhesives.Starch
	}
	if override.Adhesives.PVA > 0 {
		out.Adhesives.PVA = override.Adhesives.PVA
	}
	if override.Adhesives.Total > 0 {
		out.Adhesives.Total = override.Adhesives.Total
	}
	for _, of := range override.FoldingGrammage {
		i := out.familyIndex(of.Name)
		if i < 0 {
			out.FoldingGrammage = append(out.FoldingGrammage, of.clone())
			continue
		}
		if len(of.Aliases) > 0 {
			out.FoldingGrammage[i].Aliases = append([]string(nil), of.Aliases...)
		}
		for cal, g := range of.Grammage {
			out.FoldingGrammage[i].Grammage[cal] = g
		}
	}
	return out
}

func (c MaterialConstants) familyIndex(name string) int {
	for i, f := range c.FoldingGrammage {
		if strings.EqualFold(f.Name, name) {
			return i
		}
	}
	return -1
}

// NormalizeFlute reduces a flute description ("Flauta B", "b") to its letter code.
func NormalizeFlute(s string) string {
	s = strings.ReplaceAll(strings.ToUpper(s), "FLAUTA", "")
	return strings.Map(func(r rune) rune {
		if r >= 'A' && r <= 'Z' {
			return r
		}
		return -1
	}, s)
}

// FluteFactor returns the take-up factor for a flute description, falling
// back to the default flute when the letter is unknown.
func (c MaterialConstants) FluteFactor(flute string) float64 {
	if f, ok := c.FluteFactors[NormalizeFlute(flute)]; ok {
		return f
	}
	if f, ok := c.FluteFactors[c.DefaultFlute]; ok {
		return f
	}
	return DefaultMaterialConstants().FluteFactors["B"]
}

// ResolveFamily finds the folding-carton family for a paper name.
// Alias substrings are tried first, then an exact family name match.
func (c MaterialConstants) ResolveFamily(paper string) (PaperFamily, bool) {
	p := strings.ToUpper(strings.TrimSpace(paper))
	if p == "" {
		return PaperFamily{}, false
	}
	for _, f := range c.FoldingGrammage {
		for _, alias := range f.Aliases {
			if alias != "" && strings.Contains(p, strings.ToUpper(alias)) {
				return f, true
			}
		}
	}
	if i := c.familyIndex(p); i >= 0 {
		return c.FoldingGrammage[i], true
	}
	return PaperFamily{}, false
}

// CaliperKey strips every non-digit from a caliper description ("18 pts" -> 18).
// It returns 0 when no digits are present.
func CaliperKey(caliper string) int {
	digits := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) && r < unicode.MaxASCII {
			return r
		}
		return -1
	}, caliper)
	if digits == "" {
		return 0
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0
	}
	return n
}

// FoldingGrammageFor looks up the basis weight of a folding-carton board.
// Unknown papers and calipers yield 0.
func (c MaterialConstants) FoldingGrammageFor(paper, caliper string) float64 {
	fam, ok := c.ResolveFamily(paper)
	if !ok {
		return 0
	}
	return fam.Grammage[CaliperKey(caliper)]
}

// CalipersFor lists the calipers known for a paper name, ascending.
func (c MaterialConstants) CalipersFor(paper string) []int {
	fam, ok := c.ResolveFamily(paper)
	if !ok {
		return nil
	}
	out := make([]int, 0, len(fam.Grammage))
	for cal := range fam.Grammage {
		out = append(out, cal)
	}
	sort.Ints(out)
	return out
}
