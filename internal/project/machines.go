package project

import (
	"fmt"
	"strings"

	"github.com/piwi3910/HojaMaestra/internal/model"
)

// ExportMachines writes the machine inventory so it can be shared with
// another workstation.
func ExportMachines(path string, inv model.MachineInventory) error {
	return writeJSON(path, inv)
}

// ImportMachines merges the machines of a shared file into existing.
// A machine whose ID or name (case-insensitive) is already known is
// skipped. On error existing is returned unchanged.
func ImportMachines(path string, existing model.MachineInventory) (model.MachineInventory, error) {
	var imported model.MachineInventory
	found, err := readJSON(path, &imported)
	if err != nil {
		return existing, err
	}
	if !found {
		return existing, fmt.Errorf("machine file %s not found", path)
	}

	seenID := make(map[string]bool, len(existing.Machines))
	seenName := make(map[string]bool, len(existing.Machines))
	for _, m := range existing.Machines {
		seenID[m.ID] = true
		seenName[strings.ToLower(m.Name)] = true
	}

	merged := model.MachineInventory{Machines: append([]model.Machine(nil), existing.Machines...)}
	for _, m := range imported.Machines {
		name := strings.ToLower(m.Name)
		if (m.ID != "" && seenID[m.ID]) || seenName[name] {
			continue
		}
		m = merged.Add(m)
		seenID[m.ID] = true
		seenName[name] = true
	}
	return merged, nil
}
