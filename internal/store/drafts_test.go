package store

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/HojaMaestra/internal/model"
)

func TestNewSessionID(t *testing.T) {
	a, b := NewSessionID(), NewSessionID()
	assert.NotEqual(t, a, b)
	_, err := uuid.Parse(a)
	assert.NoError(t, err)
}

func TestDrafts(t *testing.T) {
	repo, _ := newTestStore(t)
	ctx := context.Background()

	rec := model.NewRecord()
	rec.Write(model.KeyClient, "Borrador SA", model.WriteOptions{})

	first := NewSessionID()
	require.NoError(t, repo.SaveDraft(ctx, Draft{SessionID: first, SheetID: "FAC-004", SheetType: model.SheetFAC, Fields: rec}))

	got, err := repo.LoadDraft(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, "FAC-004", got.SheetID)
	assert.Equal(t, model.SheetFAC, got.SheetType)
	assert.Equal(t, "Borrador SA", got.Fields.Get(model.KeyClient))
	assert.Equal(t, epoch, got.UpdatedAt)

	second := NewSessionID()
	require.NoError(t, repo.SaveDraft(ctx, Draft{SessionID: second}))

	latest, err := repo.LatestDraft(ctx)
	require.NoError(t, err)
	assert.Equal(t, second, latest.SessionID)

	rec.Write(model.KeyClient, "Actualizado", model.WriteOptions{})
	require.NoError(t, repo.SaveDraft(ctx, Draft{SessionID: first, Fields: rec}))

	latest, err = repo.LatestDraft(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, latest.SessionID)
	assert.Equal(t, "Actualizado", latest.Fields.Get(model.KeyClient))

	require.NoError(t, repo.DeleteDraft(ctx, first))
	require.NoError(t, repo.DeleteDraft(ctx, first))
	_, err = repo.LoadDraft(ctx, first)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestSaveDraft_RequiresSession(t *testing.T) {
	repo, _ := newTestStore(t)
	assert.Error(t, repo.SaveDraft(context.Background(), Draft{}))
}

func TestLatestDraft_Empty(t *testing.T) {
	repo, _ := newTestStore(t)
	_, err := repo.LatestDraft(context.Background())
	assert.True(t, errors.Is(err, ErrNotFound))
}
