package ui

import (
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/HojaMaestra/internal/model"
)

// fieldEntry is a text entry that reports focus changes, so engine writes
// can skip the field the user is typing into.
type fieldEntry struct {
	widget.Entry
	key     model.FieldKey
	onFocus func(key model.FieldKey, focused bool)
}

func newFieldEntry(key model.FieldKey, onFocus func(model.FieldKey, bool)) *fieldEntry {
	e := &fieldEntry{key: key, onFocus: onFocus}
	e.ExtendBaseWidget(e)
	return e
}

func (e *fieldEntry) FocusGained() {
	e.Entry.FocusGained()
	if e.onFocus != nil {
		e.onFocus(e.key, true)
	}
}

func (e *fieldEntry) FocusLost() {
	e.Entry.FocusLost()
	if e.onFocus != nil {
		e.onFocus(e.key, false)
	}
}

// fieldWidget is the widget placed in the layout for a field: a
// fieldEntry or, for choice fields, a select entry.
type fieldWidget interface {
	fyne.CanvasObject
	fyne.Disableable
}

// Form is the Hoja Maestra field editor. It keeps the values in a
// model.Record and mirrors every change into one entry per schema field.
// Form implements Editor, whose engine.Fields and engine.Locker parts let
// the recalculation engine write through it.
type Form struct {
	rec     *model.Record
	entries map[model.FieldKey]*widget.Entry
	objects map[model.FieldKey]fieldWidget
	selects map[model.FieldKey]*widget.SelectEntry
	syncing bool

	// OnEdit is called when the user changes a field.
	OnEdit func(key model.FieldKey, value string)
}

// NewForm creates the entries of every schema field. Computed fields are
// read-only. choices adds drop-down suggestions to fields, such as the
// machine names of the inventory, on top of the schema options.
func NewForm(choices map[model.FieldKey][]string) *Form {
	f := &Form{
		rec:     model.NewRecord(),
		entries: make(map[model.FieldKey]*widget.Entry, len(model.Schema)),
		objects: make(map[model.FieldKey]fieldWidget, len(model.Schema)),
		selects: make(map[model.FieldKey]*widget.SelectEntry),
	}
	for _, def := range model.Schema {
		opts := def.Options
		if c, ok := choices[def.Key]; ok {
			opts = c
		}
		f.addEntry(def, opts)
	}
	return f
}

func (f *Form) addEntry(def model.FieldDef, options []string) {
	key := def.Key
	var e *widget.Entry
	if len(options) > 0 {
		se := widget.NewSelectEntry(options)
		e = &se.Entry
		f.objects[key] = se
		f.selects[key] = se
	} else {
		fe := newFieldEntry(key, f.focusChanged)
		e = &fe.Entry
		f.objects[key] = fe
	}
	if key == model.KeyNotes {
		e.MultiLine = true
		e.Wrapping = fyne.TextWrapWord
	}
	if def.Unit != "" {
		e.SetPlaceHolder(def.Unit)
	}
	if def.EngineOwned {
		f.objects[key].Disable()
	}
	e.OnChanged = func(text string) {
		if f.syncing {
			return
		}
		if f.OnEdit != nil {
			f.OnEdit(key, text)
			return
		}
		_ = f.rec.Set(key, text)
	}
	f.entries[key] = e
}

func (f *Form) focusChanged(key model.FieldKey, focused bool) {
	switch {
	case focused:
		f.rec.Focus(key)
	case f.rec.IsFocused(key):
		f.rec.Focus("")
	}
}

// Record returns the record behind the form.
func (f *Form) Record() *model.Record { return f.rec }

// Entry returns the entry of a field, or nil for unknown keys.
func (f *Form) Entry(key model.FieldKey) *widget.Entry { return f.entries[key] }

// SetChoices replaces the drop-down options of a choice field. Fields
// created without options stay plain entries.
func (f *Form) SetChoices(key model.FieldKey, options []string) {
	if se, ok := f.selects[key]; ok {
		se.SetOptions(options)
	}
}

// Get returns the stored value of a field.
func (f *Form) Get(key model.FieldKey) string { return f.rec.Get(key) }

// Write stores an engine or import value and shows it.
func (f *Form) Write(key model.FieldKey, value string, opts model.WriteOptions) {
	f.rec.Write(key, value, opts)
	f.sync(key)
}

// Set stores a user value; the entry already shows it.
func (f *Form) Set(key model.FieldKey, value string) error {
	if err := f.rec.Set(key, value); err != nil {
		f.sync(key)
		return err
	}
	return nil
}

// LockDerived locks the computed fields of the record.
func (f *Form) LockDerived() { f.rec.LockDerived() }

// Replace loads a whole set of values.
func (f *Form) Replace(values map[model.FieldKey]string) {
	f.rec.Replace(values)
	f.syncAll()
}

// Reset clears the form to the defaults of a new sheet.
func (f *Form) Reset(now time.Time) {
	f.rec.Reset(now)
	f.syncAll()
}

// Values returns a copy of the stored values.
func (f *Form) Values() map[model.FieldKey]string { return f.rec.Values() }

func (f *Form) sync(key model.FieldKey) {
	e, ok := f.entries[key]
	if !ok {
		return
	}
	v := f.rec.Get(key)
	if e.Text == v {
		return
	}
	f.syncing = true
	e.SetText(v)
	f.syncing = false
}

func (f *Form) syncAll() {
	for key := range f.entries {
		f.sync(key)
	}
}

// SetEditable enables or disables every user-editable entry.
func (f *Form) SetEditable(on bool) {
	for _, def := range model.Schema {
		if def.EngineOwned {
			continue
		}
		if on {
			f.objects[def.Key].Enable()
		} else {
			f.objects[def.Key].Disable()
		}
	}
}

// Build lays the form out with one tab per section.
func (f *Form) Build() fyne.CanvasObject {
	var items []*container.TabItem
	for _, section := range model.Sections {
		defs := model.FieldsInSection(section)
		if len(defs) == 0 {
			continue
		}
		grid := container.New(layout.NewFormLayout())
		for _, def := range defs {
			label := def.Label
			if def.Unit != "" {
				label += " (" + def.Unit + ")"
			}
			style := fyne.TextStyle{}
			if def.EngineOwned {
				style.Italic = true
			}
			grid.Add(widget.NewLabelWithStyle(label, fyne.TextAlignTrailing, style))
			grid.Add(f.objects[def.Key])
		}
		items = append(items, container.NewTabItem(string(section), container.NewVScroll(grid)))
	}
	tabs := container.NewAppTabs(items...)
	tabs.SetTabLocation(container.TabLocationTop)
	return tabs
}
