package db

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenDB(MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db))
}

func TestMigrate_CreatesAllTables(t *testing.T) {
	db := openTestDB(t)

	for _, table := range []string{"sheets", "counters", "drafts"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}
}

func TestMigrate_SeedsFACCounterOnce(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`UPDATE counters SET value = 7 WHERE name = 'fac'`)
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	var v int
	require.NoError(t, db.QueryRow(`SELECT value FROM counters WHERE name = 'fac'`).Scan(&v))
	assert.Equal(t, 7, v, "re-running migrations must not reset the counter")
}

func TestOpenDB_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "hoja.db")
	db, err := OpenDB(path)
	require.NoError(t, err)
	defer db.Close()

	assert.FileExists(t, path)
}

func TestSheetsTypeConstraint(t *testing.T) {
	db := openTestDB(t)
	_, err := db.Exec(`INSERT INTO sheets (id, type, created_at, updated_at) VALUES ('x', 'BAD', '', '')`)
	assert.Error(t, err)
}
