package model

import (
	"time"

	"github.com/google/uuid"
)

// templateSkipped are identity fields that never carry over into a template.
var templateSkipped = map[FieldKey]bool{
	KeySAP:     true,
	KeyDate:    true,
	KeyVersion: true,
	KeyArtios:  true,
}

// SheetTemplate is a reusable set of field values, such as a client's
// standard box, that starts new sheets.
type SheetTemplate struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Description string              `json:"description"`
	CreatedAt   string              `json:"created_at"`
	UpdatedAt   string              `json:"updated_at"`
	Type        SheetType           `json:"tipo"`
	Fields      map[FieldKey]string `json:"fields"`
}

// NewSheetTemplate captures the values of rec, without its identity fields
// and without engine-owned results, which are recomputed on use.
func NewSheetTemplate(name, description string, t SheetType, rec *Record) SheetTemplate {
	now := time.Now().UTC().Format(time.RFC3339)
	fields := map[FieldKey]string{}
	if rec != nil {
		for k, v := range rec.Values() {
			if templateSkipped[k] || IsEngineOwned(k) {
				continue
			}
			fields[k] = v
		}
	}
	return SheetTemplate{
		ID:          uuid.New().String()[:8],
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
		Type:        t,
		Fields:      fields,
	}
}

// ToRecord starts a fresh record from the new-sheet defaults overlaid with
// the template values.
func (t SheetTemplate) ToRecord(now time.Time) *Record {
	values := NewSheetDefaults(now)
	for k, v := range t.Fields {
		values[k] = v
	}
	return RecordFromMap(values)
}

// TemplateStore holds a collection of sheet templates.
type TemplateStore struct {
	Templates []SheetTemplate `json:"templates"`
}

// NewTemplateStore creates an empty template store.
func NewTemplateStore() TemplateStore {
	return TemplateStore{
		Templates: []SheetTemplate{},
	}
}

// Add adds a template to the store.
func (ts *TemplateStore) Add(t SheetTemplate) {
	ts.Templates = append(ts.Templates, t)
}

// Remove removes a template by ID. Returns true if found and removed.
func (ts *TemplateStore) Remove(id string) bool {
	for i, t := range ts.Templates {
		if t.ID == id {
			ts.Templates = append(ts.Templates[:i], ts.Templates[i+1:]...)
			return true
		}
	}
	return false
}

// FindByName returns a pointer to the first template with the given name, or nil.
func (ts *TemplateStore) FindByName(name string) *SheetTemplate {
	for i := range ts.Templates {
		if ts.Templates[i].Name == name {
			return &ts.Templates[i]
		}
	}
	return nil
}

// Names returns the template names for UI dropdowns.
func (ts *TemplateStore) Names() []string {
	names := make([]string, len(ts.Templates))
	for i, t := range ts.Templates {
		names[i] = t.Name
	}
	return names
}
