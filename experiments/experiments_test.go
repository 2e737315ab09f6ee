package experiments

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"tictactoe/agent"
	"tictactoe/game"
)

func TestAgainstRandom(t *testing.T) {
	matchUps := AgainstRandom(agent.Kinds)
	require.Len(t, matchUps, 2*(len(agent.Kinds)-1))
	for _, matchUp := range matchUps {
		require.NotEqual(t, agent.RandomKind, matchUp.AI)
		require.Equal(t, agent.RandomKind, matchUp.Human)
	}
	require.Equal(t, game.X, matchUps[0].First)
	require.Equal(t, game.O, matchUps[1].First)
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	e := Experiment{
		Name:      "search_vs_random",
		BoardSize: 3,
		Games:     6,
		Options:   []agent.Option{agent.WithSimulations(200)},
		Rand:      agent.NewRand(21),
	}
	matchUps := []MatchUp{
		{AI: agent.SearchKind, Human: agent.RandomKind, First: game.X},
		{AI: agent.RandomKind, Human: agent.RandomKind, First: game.O},
	}

	records, err := Run(context.Background(), e, matchUps, dir)
	require.NoError(t, err)
	require.Len(t, records, 2)
	for _, record := range records {
		require.Equal(t, 6, record.Episodes)
		require.Equal(t, 6, record.Wins+record.Draws+record.Losses)
	}
	require.Equal(t, "O", records[1].First)

	require.Positive(t, records[0].Simulations)
	require.Zero(t, records[0].Simulations%200, "Every search runs the configured simulations")
	require.Positive(t, records[0].GuidedMoves+records[0].RandomMoves)
	require.Zero(t, records[1].Simulations, "Random agents do not search")
	require.FileExists(t, filepath.Join(dir, "search_vs_random", "matchup_records.csv"))

	_, err = Run(context.Background(), e, []MatchUp{{AI: "minimax", Human: agent.RandomKind}}, "")
	require.ErrorIs(t, err, agent.ErrUnknownKind)
}

func TestRunDefaultsToAIFirst(t *testing.T) {
	e := Experiment{Name: "unset_first", BoardSize: 3, Games: 2, Rand: agent.NewRand(22)}

	records, err := Run(context.Background(), e, []MatchUp{{AI: agent.RandomKind, Human: agent.RandomKind}}, "")
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, "X", records[0].First)
	require.Equal(t, 2, records[0].Episodes)
}
