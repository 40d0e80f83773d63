package engine

import (
	"sort"

	"github.com/piwi3910/HojaMaestra/internal/model"
)

// MachineOption is one die cutter evaluated for a blank.
type MachineOption struct {
	Machine    model.Machine
	Imposition Imposition
	// Sheet is the trimmed sheet the layout needs on this machine.
	Sheet Size
	// Printers lists the printers that accept Sheet.
	Printers []model.Machine
}

// RankMachines imposes the blank on the largest sheet of every die cutter
// in the inventory and returns the options ordered by pieces per sheet,
// then by efficiency on the trimmed sheet. Machines that fit no blank are
// left out.
func RankMachines(blank Size, l Layout, inv model.MachineInventory) []MachineOption {
	var options []MachineOption
	for _, m := range inv.OfKind(model.KindDieCutter) {
		if m.MaxWidth <= 0 || m.MaxHeight <= 0 {
			continue
		}
		im := Impose(blank, Size{W: m.MaxWidth, H: m.MaxHeight}, l)
		if im.Count == 0 {
			continue
		}
		trimmed := im.Used
		im.Efficiency = model.RoundTo(float64(im.Count)*blank.W*blank.H/(trimmed.W*trimmed.H)*100, 2)
		options = append(options, MachineOption{
			Machine:    m,
			Imposition: im,
			Sheet:      trimmed,
			Printers:   SuggestMachines(trimmed, inv).Printers,
		})
	}
	sort.SliceStable(options, func(i, j int) bool {
		a, b := options[i].Imposition, options[j].Imposition
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Efficiency > b.Efficiency
	})
	return options
}
