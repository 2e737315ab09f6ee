package agent

import (
	"testing"

	"github.com/stretchr/testify/require"

	"tictactoe/game"
	"tictactoe/table"
)

// reachable registers every position reachable from the empty 3x3 board with
// O moving first.
func reachable(t *testing.T, v *table.ValueTable) {
	t.Helper()
	start := position(t, "         ", game.O)
	queue := []*game.Game{start}
	seen := map[game.StateKey]bool{start.Key(): true}
	for len(queue) > 0 {
		g := queue[0]
		queue = queue[1:]
		v.Register(g.Key())
		if g.IsOver() {
			continue
		}
		for _, move := range g.LegalMoves() {
			next := g.Copy()
			require.NoError(t, next.Play(move))
			if !seen[next.Key()] {
				seen[next.Key()] = true
				queue = append(queue, next)
			}
		}
	}
}

func TestValueIterationLookahead(t *testing.T) {
	a := NewValueIteration(table.NewValueTable(), NewRand(1))
	g := position(t, "XX OO    ", game.X)

	tests := []struct {
		name   string
		key    game.StateKey
		move   game.Move
		reward float64
	}{
		{"mover completes a line", "XX OO    ", game.Move{Row: 0, Col: 2}, 1},
		{"human already holds a line", "OOOXX    ", game.Move{Row: 2, Col: 2}, -1},
		{"board fills without a line", "XOXXOOOX ", game.Move{Row: 2, Col: 2}, 0},
		{"game goes on", "XX OO    ", game.Move{Row: 2, Col: 2}, StepPenalty},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, reward, err := a.Lookahead(g, tt.key, tt.move)
			require.NoError(t, err)
			require.Equal(t, tt.reward, reward)

			board, err := game.Decode(next)
			require.NoError(t, err)
			require.Equal(t, game.X, board.At(tt.move.Row, tt.move.Col))
		})
	}

	_, _, err := a.Lookahead(g, "XX OO    ", game.Move{Row: 0, Col: 0})
	require.ErrorIs(t, err, game.ErrInvalidMove)
}

func TestValueIterationConverges(t *testing.T) {
	t.Run("from an empty table", func(t *testing.T) {
		v := table.NewValueTable()
		a := NewValueIteration(v, NewRand(1))
		g := position(t, "XX OO    ", game.X)

		sweeps, delta, err := a.Iterate(g, 50, DefaultTolerance)
		require.NoError(t, err)
		require.Less(t, sweeps, 50)
		require.Less(t, delta, DefaultTolerance)
		require.True(t, v.Has(g.Key()), "Current state should be registered")
		require.Equal(t, 1.0, v.Get(g.Key()))
	})

	t.Run("over every reachable 3x3 state", func(t *testing.T) {
		v := table.NewValueTable()
		reachable(t, v)
		require.Equal(t, 5478, v.Len())

		a := NewValueIteration(v, NewRand(1))
		sweeps, delta, err := a.Iterate(position(t, "         ", game.X), 50, DefaultTolerance)
		require.NoError(t, err)
		require.Less(t, sweeps, 50, "Sweeps should converge well before the iteration cap")
		require.Less(t, delta, DefaultTolerance)
	})

	t.Run("respects the iteration cap", func(t *testing.T) {
		v := table.NewValueTable()
		reachable(t, v)
		a := NewValueIteration(v, NewRand(1))

		sweeps, _, err := a.Iterate(position(t, "         ", game.X), 1, DefaultTolerance)
		require.NoError(t, err)
		require.Equal(t, 1, sweeps)
	})
}

func TestValueIterationFindMove(t *testing.T) {
	t.Run("greedy move takes the win", func(t *testing.T) {
		a := NewValueIteration(table.NewValueTable(), NewRand(1), WithRandomRate(0))
		move, err := a.FindMove(position(t, "XX OO    ", game.X))
		require.NoError(t, err)
		require.Equal(t, game.Move{Row: 0, Col: 2}, move)
	})

	t.Run("explores at the configured rate", func(t *testing.T) {
		a := NewValueIteration(table.NewValueTable(), NewRand(3))
		g := position(t, "XX OO    ", game.X)

		other := 0
		for i := 0; i < 1000; i++ {
			move, err := a.FindMove(g)
			require.NoError(t, err)
			if move != (game.Move{Row: 0, Col: 2}) {
				other++
			}
		}
		// A random move misses the win four times in five.
		require.InDelta(t, 0.4*0.8, float64(other)/1000, 0.06)
	})

	t.Run("observe registers the position", func(t *testing.T) {
		v := table.NewValueTable()
		a := NewValueIteration(v, NewRand(1))
		a.Observe(position(t, "X        ", game.O))
		require.True(t, v.Has("X        "))
	})
}
