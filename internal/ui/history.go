package ui

import (
	"maps"

	"github.com/piwi3910/HojaMaestra/internal/model"
)

const defaultMaxDepth = 50

// undoStep is the record state before one change.
type undoStep struct {
	label  string
	field  model.FieldKey // set for single-field edits, empty for bulk changes
	values map[model.FieldKey]string
}

// History is the undo journal of one open sheet. Steps hold whole record
// states; typing into the same field again extends the current step.
type History struct {
	undo     []undoStep
	redo     []undoStep
	maxDepth int
	open     model.FieldKey // field whose step is still being extended
}

// NewHistory creates a History keeping the last 50 steps.
func NewHistory() *History {
	return &History{maxDepth: defaultMaxDepth}
}

// Edit records the state before an edit of key. A repeated edit of the
// field that was edited last is folded into that step.
func (h *History) Edit(before map[model.FieldKey]string, key model.FieldKey, label string) {
	if key != "" && key == h.open {
		h.redo = nil
		return
	}
	h.push(undoStep{label: label, field: key, values: maps.Clone(before)})
	h.open = key
}

// Checkpoint records the state before a bulk change such as a template or
// an import. The next edit always starts a new step.
func (h *History) Checkpoint(before map[model.FieldKey]string, label string) {
	h.push(undoStep{label: label, values: maps.Clone(before)})
	h.open = ""
}

func (h *History) push(s undoStep) {
	h.undo = append(h.undo, s)
	if over := len(h.undo) - h.maxDepth; over > 0 {
		h.undo = h.undo[over:]
	}
	h.redo = nil
}

// Undo returns the state before the last step and keeps current for Redo.
func (h *History) Undo(current map[model.FieldKey]string) (map[model.FieldKey]string, bool) {
	if len(h.undo) == 0 {
		return nil, false
	}
	last := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	h.redo = append(h.redo, undoStep{label: last.label, field: last.field, values: maps.Clone(current)})
	h.open = ""
	return last.values, true
}

// Redo returns the state the last undone step produced.
func (h *History) Redo(current map[model.FieldKey]string) (map[model.FieldKey]string, bool) {
	if len(h.redo) == 0 {
		return nil, false
	}
	next := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	h.undo = append(h.undo, undoStep{label: next.label, field: next.field, values: maps.Clone(current)})
	h.open = ""
	return next.values, true
}

func (h *History) CanUndo() bool { return len(h.undo) > 0 }

func (h *History) CanRedo() bool { return len(h.redo) > 0 }

// UndoLabel describes the step Undo would revert, for menus and tooltips.
func (h *History) UndoLabel() string {
	if len(h.undo) == 0 {
		return ""
	}
	return h.undo[len(h.undo)-1].label
}

// RedoLabel describes the step Redo would re-apply.
func (h *History) RedoLabel() string {
	if len(h.redo) == 0 {
		return ""
	}
	return h.redo[len(h.redo)-1].label
}

// Clear drops every step, as when another sheet is opened.
func (h *History) Clear() {
	h.undo, h.redo = nil, nil
	h.open = ""
}
