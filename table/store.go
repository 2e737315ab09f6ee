package table

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress/zstd"
	"github.com/rs/zerolog/log"

	"tictactoe/game"
)

// qRow is one persisted (state, move) value.
type qRow struct {
	State string  `parquet:"state,dict"`
	Row   int32   `parquet:"row"`
	Col   int32   `parquet:"col"`
	Value float64 `parquet:"value"`
}

// valueRow is one persisted state value.
type valueRow struct {
	State string  `parquet:"state,dict"`
	Value float64 `parquet:"value"`
}

const (
	QTableFile = "q_table"
	ValuesFile = "vi_values"
	GreedyFile = "rl_table"
)

// FileName names the table file for a board size, e.g. q_table_3x3.parquet.
func FileName(kind string, size int) string {
	return fmt.Sprintf("%s_%dx%d.parquet", kind, size, size)
}

func SaveQ(path string, q *QTable) error {
	entries := q.Entries()
	rows := make([]qRow, len(entries))
	for i, e := range entries {
		rows[i] = qRow{State: string(e.State), Row: int32(e.Move.Row), Col: int32(e.Move.Col), Value: e.Value}
	}
	if err := writeRows(path, rows, "q_table_v1"); err != nil {
		return err
	}
	log.Info().Str("path", path).Int("entries", len(rows)).Msg("saved q-table")
	return nil
}

// LoadQ reads a Q-table. A missing file yields an empty table.
func LoadQ(path string) (*QTable, error) {
	rows, err := readRows[qRow](path)
	if errors.Is(err, os.ErrNotExist) {
		log.Info().Str("path", path).Msg("no q-table on disk, starting empty")
		return NewQTable(), nil
	}
	if err != nil {
		return nil, err
	}

	q := NewQTable()
	for _, row := range rows {
		q.Set(game.StateKey(row.State), game.Move{Row: int(row.Row), Col: int(row.Col)}, row.Value)
	}
	log.Info().Str("path", path).Int("entries", q.Len()).Msg("loaded q-table")
	return q, nil
}

func SaveValues(path string, v *ValueTable) error {
	keys := v.Keys()
	rows := make([]valueRow, len(keys))
	for i, key := range keys {
		rows[i] = valueRow{State: string(key), Value: v.Get(key)}
	}
	if err := writeRows(path, rows, "vi_values_v1"); err != nil {
		return err
	}
	log.Info().Str("path", path).Int("states", len(rows)).Msg("saved value table")
	return nil
}

// LoadValues reads a value table. A missing file yields an empty table.
func LoadValues(path string) (*ValueTable, error) {
	rows, err := readRows[valueRow](path)
	if errors.Is(err, os.ErrNotExist) {
		log.Info().Str("path", path).Msg("no value table on disk, starting empty")
		return NewValueTable(), nil
	}
	if err != nil {
		return nil, err
	}

	v := NewValueTable()
	for _, row := range rows {
		v.Set(game.StateKey(row.State), row.Value)
	}
	log.Info().Str("path", path).Int("states", v.Len()).Msg("loaded value table")
	return v, nil
}

func writeRows[T any](path string, rows []T, schema string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create table dir: %w", err)
	}

	// Write to a temp file and rename atomically.
	tmpPath := path + ".tmp"
	_ = os.Remove(tmpPath)

	if err := parquet.WriteFile(tmpPath, rows,
		parquet.Compression(&zstd.Codec{Level: zstd.SpeedBetterCompression}),
		parquet.KeyValueMetadata("schema", schema),
	); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write parquet: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename table file: %w", err)
	}
	return nil
}

func readRows[T any](path string) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat table file: %w", err)
	}

	pf, err := parquet.OpenFile(f, stat.Size())
	if err != nil {
		return nil, fmt.Errorf("open parquet: %w", err)
	}

	reader := parquet.NewGenericReader[T](pf)
	defer reader.Close()

	rows := make([]T, reader.NumRows())
	n, err := reader.Read(rows)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("read parquet: %w", err)
	}
	return rows[:n], nil
}
