package ui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/piwi3910/HojaMaestra/internal/engine"
	"github.com/piwi3910/HojaMaestra/internal/importer"
	"github.com/piwi3910/HojaMaestra/internal/model"
	"github.com/piwi3910/HojaMaestra/internal/store"
)

var (
	// ErrNoSheet is returned by operations that need an open sheet.
	ErrNoSheet = errors.New("no sheet is open")
	// ErrIDTaken is returned when a new sheet would reuse a saved ID.
	ErrIDTaken = errors.New("sheet ID already exists")
)

// Store is the persistence a session needs: the sheet history plus
// autosaved drafts.
type Store interface {
	store.SheetStore
	NewSheet(ctx context.Context, t model.SheetType, code string) (model.Sheet, error)
	SaveDraft(ctx context.Context, d store.Draft) error
	LatestDraft(ctx context.Context) (*store.Draft, error)
	DeleteDraft(ctx context.Context, sessionID string) error
}

// Editor is the field surface a session edits. model.Record implements it,
// and so does Form, which mirrors every value into its widgets.
type Editor interface {
	engine.Fields
	engine.Locker
	Set(key model.FieldKey, value string) error
	Replace(values map[model.FieldKey]string)
	Reset(now time.Time)
	Values() map[model.FieldKey]string
}

// Session is the editing state of one Hoja Maestra: which sheet is open,
// its fields, the recalculation engine bound to them and the undo history.
// It holds no widgets, so every flow of the window can be exercised
// without a display.
type Session struct {
	store   Store
	fields  Editor
	engine  *engine.Engine
	history *History
	logger  *zap.Logger
	now     func() time.Time

	id    string
	sheet *model.Sheet
	dirty bool
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithSessionLogger sets the logger of the session and its engine.
func WithSessionLogger(l *zap.Logger) SessionOption {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithSessionClock overrides the time source used for new sheet dates.
func WithSessionClock(now func() time.Time) SessionOption {
	return func(s *Session) { s.now = now }
}

// NewSession binds a session to a store and a field editor.
func NewSession(st Store, fields Editor, constants model.MaterialConstants, opts ...SessionOption) *Session {
	s := &Session{
		store:   st,
		fields:  fields,
		history: NewHistory(),
		logger:  zap.NewNop(),
		now:     time.Now,
		id:      store.NewSessionID(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.engine = engine.New(fields, constants, engine.WithLogger(s.logger.Named("engine")))
	return s
}

// ID returns the session identifier used for drafts.
func (s *Session) ID() string { return s.id }

// Sheet returns the open sheet, or nil.
func (s *Session) Sheet() *model.Sheet { return s.sheet }

// Dirty reports whether the fields changed since the last save or load.
func (s *Session) Dirty() bool { return s.dirty }

// Engine returns the recalculation engine bound to the session fields.
func (s *Session) Engine() *engine.Engine { return s.engine }

// History returns the undo history.
func (s *Session) History() *History { return s.history }

// Fields returns the session field editor.
func (s *Session) Fields() Editor { return s.fields }

// SetConstants replaces the material constants and recalculates.
func (s *Session) SetConstants(c model.MaterialConstants) {
	s.engine.SetConstants(c)
	if s.sheet != nil {
		s.engine.Recalculate("")
	}
}

// Start opens a new blank sheet. FAC sheets take the next counter value;
// SAP and MAQ sheets are keyed by code, which must not be in use.
func (s *Session) Start(ctx context.Context, t model.SheetType, code string) (*model.Sheet, error) {
	sheet, err := s.newSheet(ctx, t, code)
	if err != nil {
		return nil, err
	}

	s.resetFields()
	now := s.now()
	for k, v := range sheet.Fields.Values() {
		s.fields.Write(k, v, model.WriteOptions{})
	}
	s.fields.Write(model.KeyDateIn, now.Format("02/01/2006"), model.WriteOptions{})
	s.engine.Recalculate("")

	s.sheet = sheet
	s.dirty = false
	s.logger.Info("sheet started", zap.String("id", sheet.ID), zap.String("type", string(t)))
	return sheet, nil
}

func (s *Session) newSheet(ctx context.Context, t model.SheetType, code string) (*model.Sheet, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: unknown sheet type %q", model.ErrInvalidSheet, t)
	}
	sheet, err := s.store.NewSheet(ctx, t, code)
	if err != nil {
		return nil, err
	}
	ok, err := s.store.IsIDAvailable(ctx, sheet.ID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%s: %w", sheet.ID, ErrIDTaken)
	}
	return &sheet, nil
}

// Open loads a saved sheet and runs a full pass over it.
func (s *Session) Open(ctx context.Context, id string) (*model.Sheet, error) {
	sheet, err := s.store.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	s.load(sheet)
	s.dirty = false
	s.logger.Info("sheet opened", zap.String("id", sheet.ID))
	return sheet, nil
}

func (s *Session) load(sheet *model.Sheet) {
	s.resetFields()
	var values map[model.FieldKey]string
	if sheet.Fields != nil {
		values = sheet.Fields.Values()
	}
	s.fields.Replace(values)
	s.engine.Recalculate("")
	s.sheet = sheet
}

// resetFields clears the editor, the engine lock and the undo history.
func (s *Session) resetFields() {
	s.fields.Reset(s.now())
	s.engine.Unlock()
	s.history.Clear()
}

// Save stores the open sheet with the current fields and the given status.
// An empty status keeps the current one.
func (s *Session) Save(ctx context.Context, status model.Status) error {
	if s.sheet == nil {
		return ErrNoSheet
	}
	if status != "" {
		if !status.Valid() {
			return fmt.Errorf("%w: unknown status %q", model.ErrInvalidSheet, status)
		}
		s.sheet.Status = status
	}
	s.sheet.Fields = model.RecordFromMap(s.fields.Values())
	if err := s.store.Save(ctx, s.sheet); err != nil {
		return err
	}
	s.dirty = false
	if err := s.store.DeleteDraft(ctx, s.id); err != nil {
		s.logger.Warn("draft not removed after save", zap.Error(err))
	}
	s.logger.Info("sheet saved", zap.String("id", s.sheet.ID), zap.String("status", string(s.sheet.Status)))
	return nil
}

// SaveAs saves a copy of the current fields under a new ID and makes the
// copy the open sheet. The copy starts as a draft.
func (s *Session) SaveAs(ctx context.Context, t model.SheetType, code string) (*model.Sheet, error) {
	if s.sheet == nil {
		return nil, ErrNoSheet
	}
	sheet, err := s.newSheet(ctx, t, code)
	if err != nil {
		return nil, err
	}
	if t == model.SheetSAP {
		s.fields.Write(model.KeySAP, sheet.ID, model.WriteOptions{})
	}
	prev := s.sheet
	s.sheet = sheet
	if err := s.Save(ctx, model.StatusDraft); err != nil {
		s.sheet = prev
		return nil, err
	}
	return sheet, nil
}

// Delete removes the open sheet from the history and closes it.
func (s *Session) Delete(ctx context.Context) error {
	if s.sheet == nil {
		return ErrNoSheet
	}
	if err := s.store.Delete(ctx, s.sheet.ID); err != nil {
		return err
	}
	s.logger.Info("sheet deleted", zap.String("id", s.sheet.ID))
	s.Close()
	return nil
}

// Close abandons the open sheet without saving.
func (s *Session) Close() {
	s.resetFields()
	s.sheet = nil
	s.dirty = false
}

// Edit applies a user change to one field and recalculates what depends
// on it. Consecutive edits of the same field share one undo step.
// Computed fields are rejected once the record is locked.
func (s *Session) Edit(key model.FieldKey, value string) (engine.Derived, error) {
	before := s.fields.Values()
	if err := s.fields.Set(key, value); err != nil {
		return engine.Derived{}, err
	}
	s.history.Edit(before, key, "Edit "+fieldTitle(key))
	s.autoFillInkSAP(key, value)
	s.dirty = true
	return s.engine.Recalculate(key), nil
}

// autoFillInkSAP fills the SAP code paired with an ink field, clearing it
// for inks without a known code.
func (s *Session) autoFillInkSAP(key model.FieldKey, value string) {
	n, ok := model.InkIndex(key)
	if !ok {
		return
	}
	s.fields.Write(model.InkSAPKey(n), model.InkSAPCode(value), model.WriteOptions{})
}

func fieldTitle(key model.FieldKey) string {
	if def, ok := model.LookupField(key); ok {
		return def.Label
	}
	return string(key)
}

// checkpoint records an undo step for a bulk change.
func (s *Session) checkpoint(label string) {
	s.history.Checkpoint(s.fields.Values(), label)
	s.dirty = true
}

// Undo restores the state before the last change.
func (s *Session) Undo() bool {
	values, ok := s.history.Undo(s.fields.Values())
	if !ok {
		return false
	}
	s.restore(values)
	return true
}

// Redo re-applies the last undone change.
func (s *Session) Redo() bool {
	values, ok := s.history.Redo(s.fields.Values())
	if !ok {
		return false
	}
	s.restore(values)
	return true
}

func (s *Session) restore(values map[model.FieldKey]string) {
	s.fields.Replace(values)
	s.dirty = true
}

// QuickStart applies the guided-entry answers.
func (s *Session) QuickStart(q engine.QuickStart) (engine.Derived, error) {
	if s.sheet == nil {
		return engine.Derived{}, ErrNoSheet
	}
	s.checkpoint("Quick start")
	return s.engine.ApplyQuickStart(q), nil
}

// ApplyImposition writes a chosen sheet layout and machine.
func (s *Session) ApplyImposition(opt engine.MachineOption, printer string) (engine.Derived, error) {
	if s.sheet == nil {
		return engine.Derived{}, ErrNoSheet
	}
	s.checkpoint("Imposition")
	return s.engine.ApplyImposition(opt, printer), nil
}

// FillFromMasterData copies the master data row of a SAP code into the
// fields and returns the keys written.
func (s *Session) FillFromMasterData(md *importer.MasterData, sap string) ([]model.FieldKey, error) {
	if s.sheet == nil {
		return nil, ErrNoSheet
	}
	if _, ok := md.Row(sap); !ok {
		return nil, fmt.Errorf("SAP code %q not found in master data", sap)
	}
	s.checkpoint("Master data " + sap)
	keys := md.FillRecord(s.fields, sap)
	s.engine.Recalculate("")
	s.logger.Info("master data applied", zap.String("sap", sap), zap.Int("fields", len(keys)))
	return keys, nil
}

// ApplyImportedSheet overlays the fields of an imported workbook.
func (s *Session) ApplyImportedSheet(imp importer.ImportedSheet) (int, error) {
	if s.sheet == nil {
		return 0, ErrNoSheet
	}
	if imp.Fields == nil {
		return 0, nil
	}
	s.checkpoint("Import workbook")
	values := imp.Fields.Values()
	for _, def := range model.Schema {
		if v, ok := values[def.Key]; ok {
			s.fields.Write(def.Key, v, model.WriteOptions{})
		}
	}
	s.engine.Recalculate("")
	return len(values), nil
}

// ApplyMTY1 overlays the fields read from a production plan PDF.
func (s *Session) ApplyMTY1(data importer.MTY1Data) (int, error) {
	if s.sheet == nil {
		return 0, ErrNoSheet
	}
	s.checkpoint("Import production plan")
	n := data.Apply(s.fields)
	s.engine.Recalculate("")
	return n, nil
}

// ApplyTemplate overlays the values of a template on the open sheet.
// Identity fields of the sheet are kept.
func (s *Session) ApplyTemplate(t model.SheetTemplate) (int, error) {
	if s.sheet == nil {
		return 0, ErrNoSheet
	}
	s.checkpoint("Template " + t.Name)
	n := 0
	for _, def := range model.Schema {
		v, ok := t.Fields[def.Key]
		if !ok || def.EngineOwned || def.Key == model.KeySAP {
			continue
		}
		s.fields.Write(def.Key, v, model.WriteOptions{})
		n++
	}
	s.engine.Recalculate("")
	s.logger.Info("template applied", zap.String("template", t.Name), zap.Int("fields", n))
	return n, nil
}

// Autosave stores the fields as a draft when they changed since the last
// save. It returns whether a draft was written.
func (s *Session) Autosave(ctx context.Context) (bool, error) {
	if !s.dirty {
		return false, nil
	}
	d := store.Draft{
		SessionID: s.id,
		Fields:    model.RecordFromMap(s.fields.Values()),
	}
	if s.sheet != nil {
		d.SheetID = s.sheet.ID
		d.SheetType = s.sheet.Type
	}
	if err := s.store.SaveDraft(ctx, d); err != nil {
		return false, err
	}
	s.logger.Debug("draft saved", zap.String("session", s.id), zap.String("sheet", d.SheetID))
	return true, nil
}

// PendingDraft returns the newest draft left by an earlier session, or
// nil when there is none.
func (s *Session) PendingDraft(ctx context.Context) (*store.Draft, error) {
	d, err := s.store.LatestDraft(ctx)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if d.SessionID == s.id {
		return nil, nil
	}
	return d, nil
}

// RecoverDraft reopens the sheet of a draft with the draft's fields and
// discards the draft. The recovered fields are unsaved.
func (s *Session) RecoverDraft(ctx context.Context, d *store.Draft) error {
	if d == nil {
		return nil
	}
	sheet, err := s.store.Load(ctx, d.SheetID)
	switch {
	case errors.Is(err, store.ErrNotFound) || d.SheetID == "":
		t := d.SheetType
		if !t.Valid() {
			t = model.SheetSAP
		}
		ns := model.NewSheet(t, d.SheetID)
		sheet = &ns
	case err != nil:
		return err
	}
	sheet.Fields = d.Fields
	s.load(sheet)
	s.dirty = true
	if err := s.store.DeleteDraft(ctx, d.SessionID); err != nil {
		return err
	}
	s.logger.Info("draft recovered", zap.String("session", d.SessionID), zap.String("sheet", d.SheetID))
	return nil
}

// DiscardDraft deletes a draft without applying it.
func (s *Session) DiscardDraft(ctx context.Context, d *store.Draft) error {
	if d == nil {
		return nil
	}
	return s.store.DeleteDraft(ctx, d.SessionID)
}
