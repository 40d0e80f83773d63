package store

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/piwi3910/HojaMaestra/internal/model"
)

// ExportJSON writes every saved sheet as an indented JSON array.
func (r *SQLiteSheetStore) ExportJSON(ctx context.Context, w io.Writer) error {
	sheets, err := r.List(ctx, "")
	if err != nil {
		return err
	}
	if sheets == nil {
		sheets = []*model.Sheet{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(sheets); err != nil {
		return fmt.Errorf("encoding sheets: %w", err)
	}
	return nil
}

// ImportJSON replaces the whole history with the sheets of a JSON array, as
// written by ExportJSON.
func (r *SQLiteSheetStore) ImportJSON(ctx context.Context, rd io.Reader) (int, error) {
	var raw json.RawMessage
	if err := json.NewDecoder(rd).Decode(&raw); err != nil {
		return 0, fmt.Errorf("reading sheets: %w", err)
	}
	var sheets []*model.Sheet
	if err := json.Unmarshal(raw, &sheets); err != nil {
		return 0, fmt.Errorf("invalid history: expected a JSON array of sheets: %w", err)
	}
	if sheets == nil {
		return 0, fmt.Errorf("invalid history: expected a JSON array of sheets")
	}
	return r.ReplaceAll(ctx, sheets)
}

// ReplaceAll swaps the whole history for sheets in one transaction.
// Timestamps are kept; missing ones are set to now. Nothing changes unless
// every sheet is valid. The FAC counter is raised past every imported FAC
// number and never lowered.
func (r *SQLiteSheetStore) ReplaceAll(ctx context.Context, sheets []*model.Sheet) (int, error) {
	for i, s := range sheets {
		if s == nil {
			return 0, fmt.Errorf("sheet %d: %w: empty entry", i, model.ErrInvalidSheet)
		}
		if s.Status == "" {
			s.Status = model.StatusDraft
		}
		if err := s.Validate(); err != nil {
			return 0, fmt.Errorf("sheet %d: %w", i, err)
		}
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("starting import transaction: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM sheets`); err != nil {
		return 0, fmt.Errorf("clearing sheets: %w", err)
	}
	now := r.now().UTC()
	maxFAC := 0
	query := `INSERT OR REPLACE INTO sheets (id, type, status, client, product, sap_code, fields, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	for _, s := range sheets {
		if s.Fields == nil {
			s.Fields = model.NewRecord()
		}
		if s.CreatedAt.IsZero() {
			s.CreatedAt = now
		}
		if s.UpdatedAt.IsZero() {
			s.UpdatedAt = s.CreatedAt
		}
		fields, err := json.Marshal(s.Fields)
		if err != nil {
			return 0, fmt.Errorf("encoding fields of sheet %s: %w", s.ID, err)
		}
		if _, err := tx.ExecContext(ctx, query,
			s.ID, string(s.Type), string(s.Status),
			s.Client(), s.Product(), s.SAPCode(),
			string(fields),
			formatTime(s.CreatedAt), formatTime(s.UpdatedAt),
		); err != nil {
			return 0, fmt.Errorf("inserting sheet %s: %w", s.ID, err)
		}
		if n, ok := model.ParseFACID(s.ID); ok && s.Type == model.SheetFAC && n > maxFAC {
			maxFAC = n
		}
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE counters SET value = MAX(value, ?) WHERE name = 'fac'`, maxFAC,
	); err != nil {
		return 0, fmt.Errorf("updating FAC counter: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing import: %w", err)
	}
	committed = true
	r.logger.Info("history replaced", zap.Int("sheets", len(sheets)), zap.Int("max_fac", maxFAC))
	return len(sheets), nil
}
