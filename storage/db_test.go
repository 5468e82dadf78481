package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func testDatabase(t *testing.T, db Database) {
	t.Helper()

	ok, err := db.Has([]byte("missing"))
	require.NoError(t, err)
	require.False(t, ok)

	_, err = db.Get([]byte("missing"))
	require.Error(t, err)

	require.NoError(t, db.Put([]byte("key"), []byte("value")))
	ok, err = db.Has([]byte("key"))
	require.NoError(t, err)
	require.True(t, ok)

	value, err := db.Get([]byte("key"))
	require.NoError(t, err)
	require.Equal(t, []byte("value"), value)

	require.NoError(t, db.Put([]byte("key"), []byte("rewritten")))
	value, err = db.Get([]byte("key"))
	require.NoError(t, err)
	require.Equal(t, []byte("rewritten"), value)

	require.NoError(t, db.Delete([]byte("key")))
	ok, err = db.Has([]byte("key"))
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, db.Delete([]byte("key")), "deleting an absent key is not an error")
}

func TestMemDB(t *testing.T) {
	db := NewMemDB()
	defer db.Close()
	testDatabase(t, db)
}

func TestLevelDB(t *testing.T) {
	db, err := NewLevelDB(filepath.Join(t.TempDir(), "chaindata"))
	require.NoError(t, err)
	defer db.Close()
	testDatabase(t, db)
}

func TestMemDBCopiesValues(t *testing.T) {
	db := NewMemDB()
	defer db.Close()

	value := []byte("original")
	require.NoError(t, db.Put([]byte("key"), value))
	value[0] = 'X'

	stored, err := db.Get([]byte("key"))
	require.NoError(t, err)
	require.Equal(t, []byte("original"), stored)
}
