package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeFlute(t *testing.T) {
	tests := map[string]string{
		"Flauta B":  "B",
		"flauta e":  "E",
		"C":         "C",
		" b-flute ": "BFLUTE",
		"":          "",
		"123":       "",
	}
	for in, want := range tests {
		if got := NormalizeFlute(in); got != want {
			t.Errorf("NormalizeFlute(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFluteFactor(t *testing.T) {
	c := DefaultMaterialConstants()
	assert.Equal(t, 1.32, c.FluteFactor("Flauta E"))
	assert.Equal(t, 1.35, c.FluteFactor("B"))
	assert.Equal(t, 1.48, c.FluteFactor("flauta c"))
	assert.Equal(t, 1.35, c.FluteFactor("Z"), "unknown flute falls back to B")
	assert.Equal(t, 1.35, c.FluteFactor(""))
}

func TestResolveFamily(t *testing.T) {
	c := DefaultMaterialConstants()
	tests := []struct {
		paper string
		want  string
		ok    bool
	}{
		{"PONDEROSA", FamilyPonderosa, true},
		{"epl ponderosa", FamilyPonderosa, true},
		{"CNK", FamilyCNKWRK, true},
		{"WRK Carrier", FamilyCNKWRK, true},
		{"PONDEROSA CNK", FamilyCNKWRK, true},
		{"SBS/Printkote", FamilySBS, true},
		{"SBS C1S", "", false},
		{"Printkote 18", "", false},
		{"CBR", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		fam, ok := c.ResolveFamily(tt.paper)
		if ok != tt.ok || fam.Name != tt.want {
			t.Errorf("ResolveFamily(%q) = %q,%v want %q,%v", tt.paper, fam.Name, ok, tt.want, tt.ok)
		}
	}
}

func TestCaliperKey(t *testing.T) {
	assert.Equal(t, 18, CaliperKey("18"))
	assert.Equal(t, 18, CaliperKey("18 pts"))
	assert.Equal(t, 16, CaliperKey("cal. 16"))
	assert.Equal(t, 0, CaliperKey("pts"))
}

func TestFoldingGrammageFor(t *testing.T) {
	c := DefaultMaterialConstants()
	assert.Equal(t, 360.0, c.FoldingGrammageFor("PONDEROSA", "18"))
	assert.Equal(t, 361.0, c.FoldingGrammageFor("CNK", "18 pts"))
	assert.Equal(t, 311.0, c.FoldingGrammageFor("SBS/Printkote", "18"))
	assert.Equal(t, 0.0, c.FoldingGrammageFor("SBS", "18"), "SBS papers need an alias before they resolve")
	assert.Equal(t, 0.0, c.FoldingGrammageFor("PONDEROSA", "19"))
	assert.Equal(t, 0.0, c.FoldingGrammageFor("CBR", "18"))
}

func TestCalipersFor(t *testing.T) {
	c := DefaultMaterialConstants()
	assert.Equal(t, []int{10, 12, 14, 16, 18, 20, 22, 24, 26, 28}, c.CalipersFor("sbs/printkote"))
	assert.Nil(t, c.CalipersFor("Otro"))
}

func TestMergeOverridesWithoutMutatingBase(t *testing.T) {
	base := DefaultMaterialConstants()
	merged := base.Merge(MaterialConstants{
		FluteFactors: map[string]float64{"flauta b": 1.40, "F": 1.25},
		Adhesives:    Adhesives{Total: 50},
		FoldingGrammage: []PaperFamily{
			{Name: FamilyPonderosa, Grammage: map[int]float64{18: 365}},
			{Name: "KRAFT", Aliases: []string{"KRAFT"}, Grammage: map[int]float64{20: 400}},
		},
	})

	assert.Equal(t, 1.40, merged.FluteFactor("B"))
	assert.Equal(t, 1.25, merged.FluteFactor("F"))
	assert.Equal(t, 1.32, merged.FluteFactor("E"))
	assert.Equal(t, 50.0, merged.Adhesives.Total)
	assert.Equal(t, 18.0, merged.Adhesives.Starch)
	assert.Equal(t, 365.0, merged.FoldingGrammageFor("PONDEROSA", "18"))
	assert.Equal(t, 395.0, merged.FoldingGrammageFor("PONDEROSA", "20"))
	assert.Equal(t, 400.0, merged.FoldingGrammageFor("KRAFT 20", "20"))

	assert.Equal(t, 1.35, base.FluteFactor("B"))
	assert.Equal(t, 360.0, base.FoldingGrammageFor("PONDEROSA", "18"))
}

func TestMergeEmptyOverrideIsIdentity(t *testing.T) {
	base := DefaultMaterialConstants()
	assert.Equal(t, base, base.Merge(MaterialConstants{}))
}
