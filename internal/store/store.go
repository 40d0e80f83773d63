package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/piwi3910/HojaMaestra/internal/model"
)

// ErrNotFound is returned when a sheet or draft does not exist.
var ErrNotFound = errors.New("not found")

// SheetStore is the sheet history used by the UI and the CLI.
type SheetStore interface {
	Save(ctx context.Context, s *model.Sheet) error
	Load(ctx context.Context, id string) (*model.Sheet, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, t model.SheetType) ([]*model.Sheet, error)
	Search(ctx context.Context, query string) ([]*model.Sheet, error)
	Filter(ctx context.Context, f Filter) ([]*model.Sheet, error)
	NextFAC(ctx context.Context) (string, error)
	PeekFAC(ctx context.Context) (string, error)
	IsIDAvailable(ctx context.Context, id string) (bool, error)
	Stats(ctx context.Context) (Stats, error)
	ClearAll(ctx context.Context) error
}

// Filter narrows a sheet listing. Zero fields do not filter.
// From and To bound the creation time, inclusive.
type Filter struct {
	Type   model.SheetType
	Status model.Status
	From   time.Time
	To     time.Time
}

// Stats summarises the history.
type Stats struct {
	Total    int                     `json:"total"`
	ByType   map[model.SheetType]int `json:"por_tipo"`
	ByStatus map[model.Status]int    `json:"por_estado"`
	NextFAC  string                  `json:"ultimo_fac"`
}

// timeLayout is fixed-width so that stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string { return t.UTC().Format(timeLayout) }

func parseTime(s string) (time.Time, error) { return time.Parse(timeLayout, s) }

// SQLiteSheetStore implements SheetStore using a SQLite database.
type SQLiteSheetStore struct {
	db     *sql.DB
	logger *zap.Logger
	now    func() time.Time
}

// Option configures a SQLiteSheetStore.
type Option func(*SQLiteSheetStore)

// WithLogger sets the store logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *SQLiteSheetStore) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *SQLiteSheetStore) { s.now = now }
}

// NewSQLiteSheetStore creates a new SQLiteSheetStore.
func NewSQLiteSheetStore(db *sql.DB, opts ...Option) *SQLiteSheetStore {
	s := &SQLiteSheetStore{db: db, logger: zap.NewNop(), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ SheetStore = (*SQLiteSheetStore)(nil)

const sheetColumns = `id, type, status, fields, created_at, updated_at`

// Save inserts or updates a sheet. CreatedAt is set on insert only;
// UpdatedAt is set on every save. Both are written back into s.
func (r *SQLiteSheetStore) Save(ctx context.Context, s *model.Sheet) error {
	if s.Status == "" {
		s.Status = model.StatusDraft
	}
	if err := s.Validate(); err != nil {
		return err
	}
	if s.Fields == nil {
		s.Fields = model.NewRecord()
	}
	fields, err := json.Marshal(s.Fields)
	if err != nil {
		return fmt.Errorf("encoding sheet fields: %w", err)
	}

	now := r.now().UTC()
	query := `INSERT INTO sheets (id, type, status, client, product, sap_code, fields, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			type = excluded.type,
			status = excluded.status,
			client = excluded.client,
			product = excluded.product,
			sap_code = excluded.sap_code,
			fields = excluded.fields,
			updated_at = excluded.updated_at
		RETURNING created_at`
	var createdAt string
	err = r.db.QueryRowContext(ctx, query,
		s.ID,
		string(s.Type),
		string(s.Status),
		s.Client(),
		s.Product(),
		s.SAPCode(),
		string(fields),
		formatTime(now),
		formatTime(now),
	).Scan(&createdAt)
	if err != nil {
		return fmt.Errorf("saving sheet %s: %w", s.ID, err)
	}
	if s.CreatedAt, err = parseTime(createdAt); err != nil {
		return fmt.Errorf("parsing created_at: %w", err)
	}
	s.UpdatedAt = now
	r.logger.Info("sheet saved", zap.String("id", s.ID), zap.String("type", string(s.Type)))
	return nil
}

// Load returns the sheet with the given ID.
func (r *SQLiteSheetStore) Load(ctx context.Context, id string) (*model.Sheet, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+sheetColumns+` FROM sheets WHERE id = ?`, id)
	s, err := scanSheet(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("sheet %s: %w", id, ErrNotFound)
	}
	return s, err
}

// Delete removes the sheet with the given ID.
func (r *SQLiteSheetStore) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sheets WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting sheet: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting sheet: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("sheet %s: %w", id, ErrNotFound)
	}
	r.logger.Info("sheet deleted", zap.String("id", id))
	return nil
}

// List returns the sheets of one type, or of every type when t is empty,
// most recently modified first.
func (r *SQLiteSheetStore) List(ctx context.Context, t model.SheetType) ([]*model.Sheet, error) {
	return r.Filter(ctx, Filter{Type: t})
}

// Search returns the sheets whose ID, client, product or SAP code contains
// query, case-insensitively. An empty query lists everything. Matching runs
// in Go because SQLite's LOWER only folds ASCII.
func (r *SQLiteSheetStore) Search(ctx context.Context, query string) ([]*model.Sheet, error) {
	all, err := r.List(ctx, "")
	q := strings.ToLower(strings.TrimSpace(query))
	if err != nil || q == "" {
		return all, err
	}
	var hits []*model.Sheet
	for _, s := range all {
		if matchesSearch(s, q) {
			hits = append(hits, s)
		}
	}
	return hits, nil
}

func matchesSearch(s *model.Sheet, q string) bool {
	for _, v := range []string{s.ID, s.Client(), s.Product(), s.SAPCode()} {
		if strings.Contains(strings.ToLower(v), q) {
			return true
		}
	}
	return false
}

// Filter returns the sheets matching every non-zero criterion.
func (r *SQLiteSheetStore) Filter(ctx context.Context, f Filter) ([]*model.Sheet, error) {
	var (
		where []string
		args  []any
	)
	if f.Type != "" {
		where = append(where, "type = ?")
		args = append(args, string(f.Type))
	}
	if f.Status != "" {
		where = append(where, "status = ?")
		args = append(args, string(f.Status))
	}
	if !f.From.IsZero() {
		where = append(where, "created_at >= ?")
		args = append(args, formatTime(f.From))
	}
	if !f.To.IsZero() {
		where = append(where, "created_at <= ?")
		args = append(args, formatTime(f.To))
	}
	query := `SELECT ` + sheetColumns + ` FROM sheets`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY updated_at DESC, id`
	return r.query(ctx, query, args...)
}

func (r *SQLiteSheetStore) query(ctx context.Context, query string, args ...any) ([]*model.Sheet, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing sheets: %w", err)
	}
	defer rows.Close()

	var sheets []*model.Sheet
	for rows.Next() {
		s, err := scanSheet(rows)
		if err != nil {
			return nil, err
		}
		sheets = append(sheets, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sheets: %w", err)
	}
	return sheets, nil
}

// NextFAC allocates the next FAC number and returns its ID.
func (r *SQLiteSheetStore) NextFAC(ctx context.Context) (string, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`UPDATE counters SET value = value + 1 WHERE name = 'fac' RETURNING value`,
	).Scan(&n)
	if err != nil {
		return "", fmt.Errorf("allocating FAC number: %w", err)
	}
	return model.FormatFACID(n), nil
}

// PeekFAC returns the ID NextFAC would allocate, without allocating it.
func (r *SQLiteSheetStore) PeekFAC(ctx context.Context) (string, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT value FROM counters WHERE name = 'fac'`).Scan(&n)
	if err != nil {
		return "", fmt.Errorf("reading FAC counter: %w", err)
	}
	return model.FormatFACID(n + 1), nil
}

// NewSheet creates an unsaved draft sheet with an ID per the type's scheme.
// FAC sheets consume a counter value; SAP and MAQ sheets require a code.
func (r *SQLiteSheetStore) NewSheet(ctx context.Context, t model.SheetType, code string) (model.Sheet, error) {
	var (
		id  string
		err error
	)
	if t == model.SheetFAC {
		id, err = r.NextFAC(ctx)
	} else {
		id, err = model.SheetID(t, code)
	}
	if err != nil {
		return model.Sheet{}, err
	}
	s := model.NewSheet(t, id)
	if t == model.SheetSAP {
		s.Fields.Write(model.KeySAP, id, model.WriteOptions{})
	}
	return s, nil
}

// IsIDAvailable reports whether no saved sheet uses id.
func (r *SQLiteSheetStore) IsIDAvailable(ctx context.Context, id string) (bool, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sheets WHERE id = ?`, id).Scan(&n); err != nil {
		return false, fmt.Errorf("checking sheet id: %w", err)
	}
	return n == 0, nil
}

// Stats counts sheets by type and status.
func (r *SQLiteSheetStore) Stats(ctx context.Context) (Stats, error) {
	st := Stats{
		ByType:   make(map[model.SheetType]int),
		ByStatus: make(map[model.Status]int),
	}
	for _, t := range model.SheetTypes {
		st.ByType[t] = 0
	}
	for _, s := range model.Statuses {
		st.ByStatus[s] = 0
	}
	rows, err := r.db.QueryContext(ctx, `SELECT type, status, COUNT(*) FROM sheets GROUP BY type, status`)
	if err != nil {
		return Stats{}, fmt.Errorf("counting sheets: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var t, s string
		var n int
		if err := rows.Scan(&t, &s, &n); err != nil {
			return Stats{}, fmt.Errorf("scanning sheet counts: %w", err)
		}
		st.Total += n
		st.ByType[model.SheetType(t)] += n
		st.ByStatus[model.Status(s)] += n
	}
	if err := rows.Err(); err != nil {
		return Stats{}, fmt.Errorf("iterating sheet counts: %w", err)
	}
	if st.NextFAC, err = r.PeekFAC(ctx); err != nil {
		return Stats{}, err
	}
	return st, nil
}

// ClearAll deletes every saved sheet. The FAC counter is kept so numbers
// are never reused.
func (r *SQLiteSheetStore) ClearAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sheets`); err != nil {
		return fmt.Errorf("clearing sheets: %w", err)
	}
	r.logger.Warn("sheet history cleared")
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSheet(row scanner) (*model.Sheet, error) {
	var (
		s                    model.Sheet
		typ, status, fields  string
		createdAt, updatedAt string
	)
	if err := row.Scan(&s.ID, &typ, &status, &fields, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning sheet: %w", err)
	}
	s.Type = model.SheetType(typ)
	s.Status = model.Status(status)
	s.Fields = model.NewRecord()
	if err := json.Unmarshal([]byte(fields), s.Fields); err != nil {
		return nil, fmt.Errorf("decoding fields of sheet %s: %w", s.ID, err)
	}
	var err error
	if s.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if s.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &s, nil
}
