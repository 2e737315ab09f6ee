package metrics

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func sampleRecords() []EpisodeRecord {
	return []EpisodeRecord{
		{Episode: 1, Winner: "O", Reward: -1, Moves: 6},
		{Episode: 2, Winner: "draw", Reward: 0, Moves: 9},
		{Episode: 3, Winner: "X", Reward: 1, Moves: 7},
		{Episode: 4, Winner: "X", Reward: 1, Moves: 5},
	}
}

func TestCollector(t *testing.T) {
	c := NewCollector()
	c.Start(RunConfig{ID: "run", Agent: "qlearning", BoardSize: 3})
	for _, record := range sampleRecords() {
		c.AddEpisode(record)
	}

	summary := c.Complete()
	require.Equal(t, 4, summary.Episodes)
	require.Equal(t, 2, summary.Wins)
	require.Equal(t, 1, summary.Losses)
	require.Equal(t, 1, summary.Draws)
	require.Equal(t, 0.5, summary.WinRate())
	require.Len(t, c.Records(), 4)

	require.Equal(t, 0.0, Summary{}.WinRate())
}

func TestRollingRates(t *testing.T) {
	wins, draws, losses := RollingRates(sampleRecords(), 2)

	require.Equal(t, []float64{0, 0, 0.5, 1}, wins)
	require.Equal(t, []float64{0, 0.5, 0.5, 0}, draws)
	require.Equal(t, []float64{1, 0.5, 0, 0}, losses)
}

func TestWriter(t *testing.T) {
	w, err := NewWriter(t.TempDir(), "run-1")
	require.NoError(t, err)

	run := RunConfig{ID: "run-1", Agent: "qlearning", BoardSize: 3, Episodes: 4, Seed: 7, StartTime: time.Now()}
	require.NoError(t, w.WriteRunConfig(run))
	require.NoError(t, w.WriteEpisodeRecords(sampleRecords()))

	f, err := os.Open(filepath.Join(w.Dir(), "episode_records.csv"))
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 5, "Header plus one row per episode")
	require.Equal(t, "episode", rows[0][0])
	require.Equal(t, "draw", rows[2][1])

	path, err := w.WriteChart(run, sampleRecords(), 2)
	require.NoError(t, err)
	html, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(html), "echarts")
}

func TestWriteMatchUpRecords(t *testing.T) {
	w, err := NewWriter(t.TempDir(), "matchups")
	require.NoError(t, err)

	records := []MatchUpRecord{
		{ID: 1, AI: "mcts", Human: "random", First: "X", Summary: Summary{Episodes: 4, Wins: 3, Draws: 1}, Simulations: 800, GuidedMoves: 12, RandomMoves: 90},
		{ID: 2, AI: "mcts", Human: "random", First: "O", Summary: Summary{Episodes: 4, Wins: 2, Losses: 2}},
	}
	require.NoError(t, w.WriteMatchUpRecords(records))

	f, err := os.Open(filepath.Join(w.Dir(), "matchup_records.csv"))
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, []string{"1", "mcts", "random", "X", "4", "3", "1", "0", "0.7500", "800", "12", "90"}, rows[1])
}
