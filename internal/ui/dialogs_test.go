package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/HojaMaestra/internal/engine"
	"github.com/piwi3910/HojaMaestra/internal/model"
	"github.com/piwi3910/HojaMaestra/internal/store"
	"github.com/piwi3910/HojaMaestra/internal/testutil"
)

func TestPickPrinter(t *testing.T) {
	opt := engine.MachineOption{Printers: []model.Machine{{Name: "KBA-106"}, {Name: "Landa"}}}

	assert.Equal(t, "Landa", pickPrinter(opt, "landa"), "current printer is kept when it accepts the sheet")
	assert.Equal(t, "KBA-106", pickPrinter(opt, "KBA-164"), "falls back to the first printer")
	assert.Equal(t, "KBA-106", pickPrinter(opt, ""))
	assert.Equal(t, "", pickPrinter(engine.MachineOption{}, "Landa"))
}

func TestLayoutFromValues(t *testing.T) {
	l := layoutFromValues(map[model.FieldKey]string{
		model.KeyGapH: "5",
		model.KeyGapV: "4 mm",
		model.KeyGrip: "12",
	})
	assert.Equal(t, engine.Layout{GapH: 5, GapV: 4, Grip: 12}, l)
	assert.Equal(t, engine.Layout{}, layoutFromValues(nil))
}

func TestFilterSheets(t *testing.T) {
	sheets := []*model.Sheet{
		testutil.NewTestSheet(model.SheetSAP, "400123"),
		testutil.NewTestSheet(model.SheetFAC, "FAC-001", testutil.WithStatus(model.StatusApproved)),
		nil,
		testutil.NewTestSheet(model.SheetSAP, "400124", testutil.WithStatus(model.StatusFinal)),
	}

	assert.Len(t, filterSheets(sheets, "", ""), 3)
	assert.Len(t, filterSheets(sheets, model.SheetSAP, ""), 2)

	got := filterSheets(sheets, model.SheetSAP, model.StatusFinal)
	require.Len(t, got, 1)
	assert.Equal(t, "400124", got[0].ID)

	assert.Empty(t, filterSheets(sheets, model.SheetMAQ, ""))
}

func TestStatsLine(t *testing.T) {
	line := statsLine(store.Stats{
		Total:    1234,
		ByType:   map[model.SheetType]int{model.SheetSAP: 1200, model.SheetFAC: 34},
		ByStatus: map[model.Status]int{model.StatusDraft: 1234},
		NextFAC:  "FAC-035",
	})
	assert.Equal(t, "1,234 sheets · 1,200 SAP · 34 FAC · 1,234 borrador · next FAC-035", line)
	assert.Equal(t, "0 sheets", statsLine(store.Stats{}))
}

func TestParseAliases(t *testing.T) {
	assert.Equal(t, []string{"SBS", "PRINTKOTE"}, parseAliases(" sbs, Printkote ,, "))
	assert.Empty(t, parseAliases(" , "))
}

func TestMachineFromEntries(t *testing.T) {
	m, err := machineFromEntries(" SP-104 ", model.KindDieCutter, "1050", "735", "", "")
	require.NoError(t, err)
	assert.Equal(t, "SP-104", m.Name)
	assert.Equal(t, 1050.0, m.MaxWidth)
	assert.Equal(t, 735.0, m.MaxHeight)
	assert.Zero(t, m.MinWidth)
	assert.Empty(t, m.ID, "IDs are assigned by the inventory")

	_, err = machineFromEntries("", model.KindPrinter, "", "", "", "")
	assert.Error(t, err)
	_, err = machineFromEntries("X", "", "", "", "", "")
	assert.Error(t, err)
	_, err = machineFromEntries("X", model.KindPrinter, "abc", "", "", "")
	assert.Error(t, err)
	_, err = machineFromEntries("X", model.KindPrinter, "-1", "", "", "")
	assert.Error(t, err)
	_, err = machineFromEntries("X", model.KindPrinter, "500", "", "600", "")
	assert.Error(t, err, "minimum above maximum")
}

func TestMachineKindLabels(t *testing.T) {
	for _, k := range machineKinds {
		assert.Equal(t, k, machineKindByLabel(machineKindLabels[k]))
	}
	assert.Equal(t, model.MachineKind(""), machineKindByLabel("Router"))
}

func TestMachineChoices(t *testing.T) {
	choices := machineChoices(model.DefaultMachineInventory())
	assert.Contains(t, choices[model.KeyDieMachine], "SP-104")
	assert.Contains(t, choices[model.KeyPrinter], "Landa")
	assert.Contains(t, choices[model.KeyGluer], "Diana")
	assert.NotContains(t, choices[model.KeyPrinter], "SP-104")
}

func TestQuickStartInput(t *testing.T) {
	in := quickStartFromValues(map[model.FieldKey]string{
		model.KeyClient:   "ACME",
		model.KeyPaperDim: "1200 X 800",
		model.KeyMedium:   "120",
	})
	assert.Equal(t, model.MaterialClasses[0], in.MatClass)
	assert.Equal(t, model.GrainDirections[0], in.GrainDir)

	in.MatClass = "microcorrugado"
	in.Pieces = "6"
	in.PieceArea = "0.15"
	q, err := in.toQuickStart()
	require.NoError(t, err)
	assert.Equal(t, "ACME", q.Client)
	assert.Equal(t, "MICROCORRUGADO", q.MatClass)
	assert.Equal(t, 1200.0, q.SheetL)
	assert.Equal(t, 800.0, q.SheetW)
	assert.Equal(t, 120.0, q.Medium)
	assert.Equal(t, 6.0, q.Pieces)
	assert.Equal(t, 0.15, q.PieceArea)
}

func TestQuickStartInputRejects(t *testing.T) {
	in := quickStartFromValues(nil)
	in.MatClass = " "
	_, err := in.toQuickStart()
	assert.Error(t, err)

	in = quickStartFromValues(nil)
	in.Sheet = "1200"
	_, err = in.toQuickStart()
	assert.Error(t, err)

	in = quickStartFromValues(nil)
	in.Medium = "abc"
	_, err = in.toQuickStart()
	assert.Error(t, err)
}

func TestOptionalNumber(t *testing.T) {
	v, err := optionalNumber("x", " 1,200 ")
	require.NoError(t, err)
	assert.Equal(t, 1200.0, v)

	v, err = optionalNumber("x", "")
	require.NoError(t, err)
	assert.Zero(t, v)

	_, err = optionalNumber("x", "-3")
	assert.Error(t, err)
}
