package table

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"tictactoe/game"
)

func TestFileName(t *testing.T) {
	require.Equal(t, "q_table_3x3.parquet", FileName(QTableFile, 3))
	require.Equal(t, "vi_values_7x7.parquet", FileName(ValuesFile, 7))
}

func TestQTablePersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tables", FileName(QTableFile, 3))

	q := NewQTable()
	q.Set("X        ", game.Move{Row: 1, Col: 1}, 0.25)
	q.Set("X        ", game.Move{Row: 2, Col: 0}, -1)
	q.Set("XO       ", game.Move{Row: 0, Col: 2}, 0.9)
	require.NoError(t, SaveQ(path, q))

	loaded, err := LoadQ(path)
	require.NoError(t, err)
	require.Equal(t, q.Entries(), loaded.Entries())
}

func TestValueTablePersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName(ValuesFile, 3))

	v := NewValueTable()
	v.Set("         ", 0.1)
	v.Set("XXXOO    ", 1)
	require.NoError(t, SaveValues(path, v))

	loaded, err := LoadValues(path)
	require.NoError(t, err)
	require.Equal(t, v.Keys(), loaded.Keys())
	require.Equal(t, 1.0, loaded.Get("XXXOO    "))
}

func TestLoadMissingFileStartsEmpty(t *testing.T) {
	dir := t.TempDir()

	q, err := LoadQ(filepath.Join(dir, "absent.parquet"))
	require.NoError(t, err)
	require.Equal(t, 0, q.Len())

	v, err := LoadValues(filepath.Join(dir, "absent.parquet"))
	require.NoError(t, err)
	require.Equal(t, 0, v.Len())
}
