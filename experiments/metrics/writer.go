package metrics

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

type Writer struct {
	baseDir string
}

// NewWriter creates baseDir/runID for the files of one run.
func NewWriter(baseDir, runID string) (*Writer, error) {
	dir := filepath.Join(baseDir, runID)
	err := os.MkdirAll(dir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	return &Writer{
		baseDir: dir,
	}, nil
}

func (w *Writer) Dir() string {
	return w.baseDir
}

func (w *Writer) WriteRunConfig(run RunConfig) error {
	return w.writeCSV("run_config.csv", "run config",
		[]string{"id", "agent", "board_size", "episodes", "seed", "start_time"},
		[][]string{{
			run.ID,
			run.Agent,
			strconv.Itoa(run.BoardSize),
			strconv.Itoa(run.Episodes),
			strconv.FormatUint(run.Seed, 10),
			run.StartTime.Format(time.RFC3339),
		}})
}

func (w *Writer) WriteEpisodeRecords(records []EpisodeRecord) error {
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			strconv.Itoa(record.Episode),
			record.Winner,
			strconv.FormatFloat(record.Reward, 'f', -1, 64),
			strconv.Itoa(record.Moves),
			strconv.FormatFloat(record.Epsilon, 'f', 6, 64),
			strconv.Itoa(record.TableSize),
			strconv.Itoa(record.Sweeps),
			strconv.FormatFloat(record.Delta, 'g', 6, 64),
			record.Duration.String(),
		})
	}
	return w.writeCSV("episode_records.csv", "episode records",
		[]string{"episode", "winner", "reward", "moves", "epsilon", "table_size", "sweeps", "delta", "duration"},
		rows)
}

func (w *Writer) WriteMatchUpRecords(records []MatchUpRecord) error {
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			strconv.Itoa(record.ID),
			record.AI,
			record.Human,
			record.First,
			strconv.Itoa(record.Episodes),
			strconv.Itoa(record.Wins),
			strconv.Itoa(record.Draws),
			strconv.Itoa(record.Losses),
			strconv.FormatFloat(record.WinRate(), 'f', 4, 64),
			strconv.FormatInt(record.Simulations, 10),
			strconv.FormatInt(record.GuidedMoves, 10),
			strconv.FormatInt(record.RandomMoves, 10),
		})
	}
	return w.writeCSV("matchup_records.csv", "matchup records",
		[]string{"id", "ai", "human", "first", "games", "wins", "draws", "losses", "win_rate", "simulations", "guided_moves", "random_moves"},
		rows)
}

func (w *Writer) writeCSV(name, what string, header []string, rows [][]string) error {
	// Create a file
	path := filepath.Join(w.baseDir, name)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s file: %w", what, err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)

	// Write header
	err = writer.Write(header)
	if err != nil {
		return fmt.Errorf("failed to write %s header: %w", what, err)
	}

	// Write each row
	for _, row := range rows {
		err = writer.Write(row)
		if err != nil {
			return fmt.Errorf("failed to write %s row: %w", what, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", what, err)
	}
	return nil
}
