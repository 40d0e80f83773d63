package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/piwi3910/HojaMaestra/internal/model"
)

// Draft is the autosaved state of an editing session.
type Draft struct {
	SessionID string
	SheetID   string
	SheetType model.SheetType
	Fields    *model.Record
	UpdatedAt time.Time
}

// NewSessionID returns a fresh editing session identifier.
func NewSessionID() string {
	return uuid.New().String()
}

// SaveDraft stores the in-progress record of a session, replacing any
// previous draft of the same session.
func (r *SQLiteSheetStore) SaveDraft(ctx context.Context, d Draft) error {
	if d.SessionID == "" {
		return fmt.Errorf("saving draft: empty session id")
	}
	if d.Fields == nil {
		d.Fields = model.NewRecord()
	}
	fields, err := json.Marshal(d.Fields)
	if err != nil {
		return fmt.Errorf("encoding draft fields: %w", err)
	}
	query := `INSERT INTO drafts (session_id, sheet_id, sheet_type, fields, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(session_id) DO UPDATE SET
			sheet_id = excluded.sheet_id,
			sheet_type = excluded.sheet_type,
			fields = excluded.fields,
			updated_at = excluded.updated_at`
	_, err = r.db.ExecContext(ctx, query,
		d.SessionID, d.SheetID, string(d.SheetType), string(fields), formatTime(r.now()),
	)
	if err != nil {
		return fmt.Errorf("saving draft: %w", err)
	}
	return nil
}

// LoadDraft returns the draft of one session.
func (r *SQLiteSheetStore) LoadDraft(ctx context.Context, sessionID string) (*Draft, error) {
	row := r.db.QueryRowContext(ctx, `SELECT session_id, sheet_id, sheet_type, fields, updated_at
		FROM drafts WHERE session_id = ?`, sessionID)
	return scanDraft(row)
}

// LatestDraft returns the most recently saved draft of any session, used to
// offer recovery after a crash.
func (r *SQLiteSheetStore) LatestDraft(ctx context.Context) (*Draft, error) {
	row := r.db.QueryRowContext(ctx, `SELECT session_id, sheet_id, sheet_type, fields, updated_at
		FROM drafts ORDER BY updated_at DESC LIMIT 1`)
	return scanDraft(row)
}

// DeleteDraft removes the draft of a session. Missing drafts are not an error.
func (r *SQLiteSheetStore) DeleteDraft(ctx context.Context, sessionID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM drafts WHERE session_id = ?`, sessionID); err != nil {
		return fmt.Errorf("deleting draft: %w", err)
	}
	return nil
}

func scanDraft(row *sql.Row) (*Draft, error) {
	var (
		d                  Draft
		typ, fields, stamp string
	)
	if err := row.Scan(&d.SessionID, &d.SheetID, &typ, &fields, &stamp); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("draft: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning draft: %w", err)
	}
	d.SheetType = model.SheetType(typ)
	d.Fields = model.NewRecord()
	if err := json.Unmarshal([]byte(fields), d.Fields); err != nil {
		return nil, fmt.Errorf("decoding draft fields: %w", err)
	}
	var err error
	if d.UpdatedAt, err = parseTime(stamp); err != nil {
		return nil, fmt.Errorf("parsing draft updated_at: %w", err)
	}
	return &d, nil
}
