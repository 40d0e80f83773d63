package model

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecord_SetAndGet(t *testing.T) {
	r := NewRecord()
	require.NoError(t, r.Set(KeyDimGrain, "1200"))

	assert.Equal(t, "1200", r.Get(KeyDimGrain))
	assert.Equal(t, 1200.0, r.Number(KeyDimGrain))
	assert.Equal(t, "", r.Get(KeyDimCross))
	assert.Equal(t, 1, r.Len())
}

func TestRecord_EmptyValueRemovesKey(t *testing.T) {
	r := NewRecord()
	require.NoError(t, r.Set(KeyClient, "ACME"))
	require.NoError(t, r.Set(KeyClient, ""))
	assert.Equal(t, 0, r.Len())
}

func TestRecord_LockRejectsDerivedWrites(t *testing.T) {
	r := NewRecord()
	require.NoError(t, r.Set(KeyGSM, "300"), "derived fields are writable before locking")

	r.LockDerived()
	err := r.Set(KeyGSM, "999")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEngineOwned))
	assert.Equal(t, "300", r.Get(KeyGSM))

	// Non-derived fields stay editable.
	require.NoError(t, r.Set(KeyDimGrain, "1000"))

	// The engine path is never blocked.
	r.Write(KeyGSM, "310", WriteOptions{})
	assert.Equal(t, "310", r.Get(KeyGSM))
}

func TestRecord_WriteSuppressedWhileFocused(t *testing.T) {
	r := NewRecord()
	r.Focus(KeyDimGrain)
	r.Write(KeyDimGrain, "1200", WriteOptions{SuppressIfFocused: true})
	assert.Equal(t, "", r.Get(KeyDimGrain))

	r.Write(KeyDimCross, "800", WriteOptions{SuppressIfFocused: true})
	assert.Equal(t, "800", r.Get(KeyDimCross))

	r.Focus("")
	r.Write(KeyDimGrain, "1200", WriteOptions{SuppressIfFocused: true})
	assert.Equal(t, "1200", r.Get(KeyDimGrain))
}

func TestRecord_WriteThousands(t *testing.T) {
	r := NewRecord()
	r.Write(KeyTotalPcs, "12000", WriteOptions{ThousandsSeparator: true})
	assert.Equal(t, "12,000", r.Get(KeyTotalPcs))
	assert.Equal(t, 12000.0, r.Number(KeyTotalPcs))

	r.Write(KeyNotes, "n/a", WriteOptions{ThousandsSeparator: true})
	assert.Equal(t, "n/a", r.Get(KeyNotes))
}

func TestRecord_ClearUnlocks(t *testing.T) {
	r := NewRecord()
	r.LockDerived()
	r.Write(KeyGSM, "300", WriteOptions{})
	r.Clear()

	assert.False(t, r.Locked())
	assert.Equal(t, 0, r.Len())
	assert.NoError(t, r.Set(KeyGSM, "1"))
}

func TestRecord_ResetAppliesDefaults(t *testing.T) {
	r := NewRecord()
	r.Reset(time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC))

	assert.Equal(t, "EXTERIOR", r.Get(KeyDieType))
	assert.Equal(t, "CYAN", r.Get(KeyInk1))
	assert.Equal(t, "BARNIZ BRILLANTE", r.Get(KeyInk8))
	assert.Equal(t, "09/03/2026", r.Get(KeyDate))
}

func TestRecord_JSONRoundTrip(t *testing.T) {
	r := RecordFromMap(map[FieldKey]string{
		KeyClient:   "ACME",
		KeyDimGrain: "1200",
		KeyNotes:    "",
	})
	data, err := json.Marshal(r)
	require.NoError(t, err)

	got := NewRecord()
	require.NoError(t, json.Unmarshal(data, got))

	if diff := cmp.Diff(r.Values(), got.Values()); diff != "" {
		t.Errorf("record mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []FieldKey{KeyClient, KeyDimGrain}, got.Keys())
}

func TestRecord_ValuesIsACopy(t *testing.T) {
	r := NewRecord()
	r.Write(KeyClient, "ACME", WriteOptions{})
	v := r.Values()
	v[KeyClient] = "changed"
	assert.Equal(t, "ACME", r.Get(KeyClient))
}
