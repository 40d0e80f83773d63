package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/HojaMaestra/internal/model"
)

func TestImpose_NoGaps(t *testing.T) {
	im := Impose(Size{W: 200, H: 300}, Size{W: 1000, H: 700}, Layout{})

	assert.Equal(t, 10, im.Count)
	assert.Equal(t, 5, im.Cols)
	assert.Equal(t, 2, im.Rows)
	assert.False(t, im.Rotated)
	assert.Equal(t, 85.71, im.Efficiency)
	assert.Equal(t, Size{W: 1000, H: 600}, im.Used)
}

func TestImpose_RotatesWhenBetter(t *testing.T) {
	im := Impose(Size{W: 200, H: 300}, Size{W: 1000, H: 700}, Layout{GapH: 5, GapV: 5, Grip: 10})

	require.Equal(t, 9, im.Count)
	assert.True(t, im.Rotated)
	assert.Equal(t, 3, im.Cols)
	assert.Equal(t, 3, im.Rows)
	assert.Equal(t, Size{W: 910, H: 620}, im.Used)
}

func TestImpose_BlankLargerThanSheet(t *testing.T) {
	im := Impose(Size{W: 2000, H: 1500}, Size{W: 1000, H: 700}, Layout{})
	assert.Zero(t, im.Count)
	assert.Zero(t, im.Efficiency)
}

func TestImpose_InvalidBlank(t *testing.T) {
	im := Impose(Size{}, Size{W: 1000, H: 700}, Layout{})
	assert.Zero(t, im.Count)
}

func TestSuggestMachines(t *testing.T) {
	inv := model.DefaultMachineInventory()

	s := SuggestMachines(Size{W: 1000, H: 700}, inv)
	assert.Len(t, s.DieCutters, 4)
	assert.Len(t, s.Printers, 3)

	s = SuggestMachines(Size{W: 1200, H: 900}, inv)
	assert.Len(t, s.DieCutters, 3)
	require.Len(t, s.Printers, 1)
	assert.Equal(t, "KBA-164", s.Printers[0].Name)

	s = SuggestMachines(Size{W: 300, H: 200}, inv)
	assert.Empty(t, s.Printers, "below every printer minimum")
}

func TestRankMachines(t *testing.T) {
	inv := model.DefaultMachineInventory()
	opts := RankMachines(Size{W: 500, H: 400}, Layout{}, inv)

	require.Len(t, opts, 4)
	assert.Equal(t, "Vision-160", opts[0].Machine.Name)
	assert.Equal(t, 8, opts[0].Imposition.Count)
	assert.Equal(t, Size{W: 1600, H: 1000}, opts[0].Sheet)
	assert.Equal(t, 100.0, opts[0].Imposition.Efficiency)
	assert.Equal(t, "SP-162", opts[1].Machine.Name)
	assert.Equal(t, "SPANTHERA", opts[2].Machine.Name)
	assert.Equal(t, "SP-104", opts[3].Machine.Name)

	for i := 1; i < len(opts); i++ {
		assert.GreaterOrEqual(t, opts[i-1].Imposition.Count, opts[i].Imposition.Count)
	}
}

func TestApplyImposition(t *testing.T) {
	rec, eng := newTestEngine(map[model.FieldKey]string{
		model.KeyPieceArea: "0.2",
	})
	opts := RankMachines(Size{W: 500, H: 400}, Layout{}, model.DefaultMachineInventory())
	require.NotEmpty(t, opts)

	d := eng.ApplyImposition(opts[0], "KBA-164")

	assert.Equal(t, "1600", rec.Get(model.KeyDimGrain))
	assert.Equal(t, "1000", rec.Get(model.KeyDimCross))
	assert.Equal(t, "1600 X 1000", rec.Get(model.KeyPaperDim))
	assert.Equal(t, "8", rec.Get(model.KeyPcsSheet))
	assert.Equal(t, "Vision-160", rec.Get(model.KeyDieMachine))
	assert.Equal(t, "KBA-164", rec.Get(model.KeyPrinter))
	assert.Equal(t, "1.600", rec.Get(model.KeyAreaTotal))
	assert.Equal(t, "100.00%", rec.Get(model.KeyAreaEff))
	assert.Equal(t, 1.6, d.AreaTotal)
}
