package model

import (
	"strings"

	"github.com/google/uuid"
)

// MachineKind groups machines by the process they perform.
type MachineKind string

const (
	KindDieCutter MachineKind = "die_cutter"
	KindPrinter   MachineKind = "printer"
	KindGluer     MachineKind = "gluer"
	KindLaminator MachineKind = "laminator"
)

// Machine is a plant machine with the sheet sizes it accepts, in mm.
// Zero limits mean "not constrained".
type Machine struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Kind      MachineKind `json:"kind"`
	MaxWidth  float64     `json:"max_width,omitempty"`
	MaxHeight float64     `json:"max_height,omitempty"`
	MinWidth  float64     `json:"min_width,omitempty"`
	MinHeight float64     `json:"min_height,omitempty"`
}

// NewMachine creates a Machine with a generated ID.
func NewMachine(name string, kind MachineKind, maxW, maxH, minW, minH float64) Machine {
	return Machine{
		ID:        uuid.New().String()[:8],
		Name:      name,
		Kind:      kind,
		MaxWidth:  maxW,
		MaxHeight: maxH,
		MinWidth:  minW,
		MinHeight: minH,
	}
}

// Accepts reports whether a w x h sheet fits the machine in either orientation.
func (m Machine) Accepts(w, h float64) bool {
	return m.fits(w, h) || m.fits(h, w)
}

func (m Machine) fits(w, h float64) bool {
	if m.MaxWidth > 0 && w > m.MaxWidth {
		return false
	}
	if m.MaxHeight > 0 && h > m.MaxHeight {
		return false
	}
	if m.MinWidth > 0 && w < m.MinWidth {
		return false
	}
	if m.MinHeight > 0 && h < m.MinHeight {
		return false
	}
	return true
}

// Pallet is a pallet footprint in inches, named like "40x48".
type Pallet struct {
	Name   string  `json:"name"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Palletizing holds the default palletizing settings.
type Palletizing struct {
	StandardHeightCm float64  `json:"standard_height_cm"`
	Pallets          []Pallet `json:"pallets"`
}

// DefaultPalletizing returns the plant palletizing defaults.
func DefaultPalletizing() Palletizing {
	return Palletizing{
		StandardHeightCm: 150,
		Pallets: []Pallet{
			{Name: "40x48", Width: 40, Height: 48},
			{Name: "48x40", Width: 48, Height: 40},
		},
	}
}

// MachineInventory holds the plant machines used for suggestions and form choices.
type MachineInventory struct {
	Machines []Machine `json:"machines"`
}

// DefaultMachineInventory returns the machines of the plant.
func DefaultMachineInventory() MachineInventory {
	return MachineInventory{
		Machines: []Machine{
			NewMachine("Vision-160", KindDieCutter, 1620, 1103, 0, 0),
			NewMachine("SP-104", KindDieCutter, 1050, 735, 0, 0),
			NewMachine("SP-162", KindDieCutter, 1650, 1133, 0, 0),
			NewMachine("SPANTHERA", KindDieCutter, 1460, 1060, 0, 0),
			NewMachine("KBA-164", KindPrinter, 1640, 1205, 800, 600),
			NewMachine("KBA-106", KindPrinter, 1060, 740, 480, 340),
			NewMachine("Landa", KindPrinter, 1050, 750, 360, 297),
			NewMachine("Asitrade Olivini", KindLaminator, 0, 0, 0, 0),
			NewMachine("ExpertFold", KindGluer, 0, 0, 0, 0),
			NewMachine("Diana", KindGluer, 0, 0, 0, 0),
			NewMachine("Amazon", KindGluer, 0, 0, 0, 0),
		},
	}
}

// OfKind returns the machines of one kind, in inventory order.
func (inv *MachineInventory) OfKind(kind MachineKind) []Machine {
	var out []Machine
	for _, m := range inv.Machines {
		if m.Kind == kind {
			out = append(out, m)
		}
	}
	return out
}

// Names returns the machine names of one kind for UI dropdowns.
func (inv *MachineInventory) Names(kind MachineKind) []string {
	var names []string
	for _, m := range inv.Machines {
		if m.Kind == kind {
			names = append(names, m.Name)
		}
	}
	return names
}

// FindByID returns a pointer to the machine with the given ID, or nil.
func (inv *MachineInventory) FindByID(id string) *Machine {
	for i := range inv.Machines {
		if inv.Machines[i].ID == id {
			return &inv.Machines[i]
		}
	}
	return nil
}

// FindByName returns a pointer to the machine with the given name
// (case-insensitive), or nil.
func (inv *MachineInventory) FindByName(name string) *Machine {
	for i := range inv.Machines {
		if strings.EqualFold(inv.Machines[i].Name, name) {
			return &inv.Machines[i]
		}
	}
	return nil
}

// Add appends a machine, assigning an ID when missing.
func (inv *MachineInventory) Add(m Machine) Machine {
	if m.ID == "" {
		m.ID = uuid.New().String()[:8]
	}
	inv.Machines = append(inv.Machines, m)
	return m
}

// Remove deletes the machine with the given ID. It reports whether one was removed.
func (inv *MachineInventory) Remove(id string) bool {
	for i := range inv.Machines {
		if inv.Machines[i].ID == id {
			inv.Machines = append(inv.Machines[:i], inv.Machines[i+1:]...)
			return true
		}
	}
	return false
}
