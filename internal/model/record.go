package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"
)

// ErrEngineOwned is returned when a caller other than the recalculation
// engine tries to write a derived field after it has been locked.
var ErrEngineOwned = errors.New("field is computed and cannot be edited")

// WriteOptions control how a value is stored by Write.
type WriteOptions struct {
	// SuppressIfFocused skips the write while the user is typing in the field.
	SuppressIfFocused bool
	// ThousandsSeparator formats numeric values as "12,000".
	ThousandsSeparator bool
}

// Record is the flat field store of one Hoja Maestra session.
// The zero value is not usable; create records with NewRecord.
type Record struct {
	values  map[FieldKey]string
	focused FieldKey
	locked  bool
}

// NewRecord returns an empty, unlocked record.
func NewRecord() *Record {
	return &Record{values: make(map[FieldKey]string)}
}

// RecordFromMap builds a record holding a copy of values.
func RecordFromMap(values map[FieldKey]string) *Record {
	r := NewRecord()
	r.Replace(values)
	return r
}

// Get returns the stored value or "" when the key is absent.
func (r *Record) Get(key FieldKey) string {
	return r.values[key]
}

// Number returns the stored value parsed with ParseNumber.
func (r *Record) Number(key FieldKey) float64 {
	return ParseNumber(r.values[key])
}

// Set stores a user-entered value. Engine-owned fields are rejected once
// the record has been locked.
func (r *Record) Set(key FieldKey, value string) error {
	if r.locked && IsEngineOwned(key) {
		return fmt.Errorf("%s: %w", key, ErrEngineOwned)
	}
	r.store(key, value)
	return nil
}

// Write stores a value on behalf of the recalculation engine.
func (r *Record) Write(key FieldKey, value string, opts WriteOptions) {
	if opts.SuppressIfFocused && r.focused == key {
		return
	}
	if opts.ThousandsSeparator && IsNumeric(value) {
		value = FormatThousands(ParseNumber(value))
	}
	r.store(key, value)
}

func (r *Record) store(key FieldKey, value string) {
	if value == "" {
		delete(r.values, key)
		return
	}
	r.values[key] = value
}

// Focus marks key as the field currently being edited. An empty key clears focus.
func (r *Record) Focus(key FieldKey) { r.focused = key }

// Focused returns the field currently being edited, or "".
func (r *Record) Focused() FieldKey { return r.focused }

// IsFocused reports whether key currently holds input focus.
func (r *Record) IsFocused(key FieldKey) bool {
	return key != "" && r.focused == key
}

// LockDerived makes the engine-owned fields read-only for Set.
func (r *Record) LockDerived() { r.locked = true }

// Locked reports whether derived fields are locked.
func (r *Record) Locked() bool { return r.locked }

// Clear removes every value and unlocks the record for a new session.
func (r *Record) Clear() {
	r.values = make(map[FieldKey]string)
	r.focused = ""
	r.locked = false
}

// Reset clears the record and applies the defaults of a new sheet.
func (r *Record) Reset(now time.Time) {
	r.Clear()
	for k, v := range NewSheetDefaults(now) {
		r.values[k] = v
	}
}

// Replace swaps the whole content for a copy of values. Used when a saved
// sheet or an import is loaded; the lock state is kept.
func (r *Record) Replace(values map[FieldKey]string) {
	r.values = make(map[FieldKey]string, len(values))
	for k, v := range values {
		if v != "" {
			r.values[k] = v
		}
	}
}

// Values returns a copy of all stored values.
func (r *Record) Values() map[FieldKey]string {
	out := make(map[FieldKey]string, len(r.values))
	for k, v := range r.values {
		out[k] = v
	}
	return out
}

// Keys returns the stored keys sorted alphabetically.
func (r *Record) Keys() []FieldKey {
	keys := make([]FieldKey, 0, len(r.values))
	for k := range r.values {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Len returns the number of non-empty fields.
func (r *Record) Len() int { return len(r.values) }

func (r *Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.values)
}

func (r *Record) UnmarshalJSON(data []byte) error {
	var values map[FieldKey]string
	if err := json.Unmarshal(data, &values); err != nil {
		return err
	}
	r.Replace(values)
	return nil
}

// NewSheetDefaults returns the values a blank sheet starts with.
func NewSheetDefaults(now time.Time) map[FieldKey]string {
	return map[FieldKey]string{
		KeyDieType: "EXTERIOR",
		KeyInk1:    "CYAN",
		KeyInk2:    "MAGENTA",
		KeyInk3:    "YELLOW",
		KeyInk4:    "BLACK",
		KeyInk8:    "BARNIZ BRILLANTE",
		KeyDate:    now.Format("02/01/2006"),
	}
}
