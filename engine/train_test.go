package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"tictactoe/agent"
	"tictactoe/experiments/metrics"
	"tictactoe/game"
	"tictactoe/table"
)

func TestTrainer(t *testing.T) {
	t.Run("q-learning fills the table and decays epsilon", func(t *testing.T) {
		rng := agent.NewRand(7)
		learner := agent.NewQLearning(table.NewQTable(), rng, agent.WithSimulations(30))
		collector := metrics.NewCollector()

		trainer := NewTrainer(newGame(t), learner, rng, WithCollector(collector), WithRunInfo(agent.QLearningKind, 7))
		summary, err := trainer.Train(context.Background(), 25)
		require.NoError(t, err)
		require.Equal(t, 25, summary.Episodes)
		require.Len(t, collector.Records(), 25)
		require.Positive(t, learner.Table().Len())
		require.Less(t, learner.Epsilon(), 1.0)

		last := collector.Records()[24]
		require.Equal(t, 25, last.Episode)
		require.Equal(t, learner.Epsilon(), last.Epsilon)
		require.NotEmpty(t, trainer.RunID())
	})

	t.Run("value iteration sweeps after every episode", func(t *testing.T) {
		rng := agent.NewRand(11)
		learner := agent.NewValueIteration(table.NewValueTable(), rng)
		collector := metrics.NewCollector()

		trainer := NewTrainer(newGame(t), learner, rng, WithCollector(collector), WithSweeps(3, 1e-9))
		_, err := trainer.Train(context.Background(), 5)
		require.NoError(t, err)
		require.Positive(t, learner.Table().Len())
		for _, record := range collector.Records() {
			require.GreaterOrEqual(t, record.Sweeps, 1)
			require.LessOrEqual(t, record.Sweeps, 3)
			require.Contains(t, []string{"X", "O", "draw"}, record.Winner)
		}
	})

	t.Run("greedy learns from every move it made", func(t *testing.T) {
		rng := agent.NewRand(13)
		learner := agent.NewGreedy(table.NewQTable(), rng)

		_, err := NewTrainer(newGame(t), learner, rng).Train(context.Background(), 20)
		require.NoError(t, err)
		require.Positive(t, learner.Table().Len())

		nonZero := 0
		for _, entry := range learner.Table().Entries() {
			if entry.Value != 0 {
				nonZero++
			}
		}
		require.Positive(t, nonZero, "Terminal rewards should reach the table")
	})

	t.Run("other agents only play evaluation games", func(t *testing.T) {
		rng := agent.NewRand(17)
		g := newGame(t)
		summary, err := NewTrainer(g, agent.NewRandom(rng), rng).Train(context.Background(), 10)
		require.NoError(t, err)
		require.Equal(t, 10, summary.Episodes)
		require.Equal(t, 0, g.Board.Count(game.O), "The board should be reset after training")
	})

	t.Run("cancellation stops between episodes", func(t *testing.T) {
		rng := agent.NewRand(19)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		summary, err := NewTrainer(newGame(t), agent.NewRandom(rng), rng).Train(ctx, 10)
		require.ErrorIs(t, err, context.Canceled)
		require.Equal(t, 0, summary.Episodes)
	})
}
