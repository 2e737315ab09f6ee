package searcher

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"

	"tictactoe/game"
)

type fixedGuide struct {
	move  game.Move
	calls int
}

func (f *fixedGuide) BestMove(game.StateKey, game.Symbol) (game.Move, bool) {
	f.calls++
	return f.move, true
}

func TestSearchVisitInvariant(t *testing.T) {
	g := newGame(t, "X   O    ", game.X)
	m := NewMCTS(WithSimulations(300), WithRand(rand.New(rand.NewSource(3))))

	_, ok := m.Search(g)
	require.True(t, ok)

	tree := m.Tree()
	require.Equal(t, 300, tree.Node(tree.Root()).Visits(), "Root visits should equal the simulation count")

	for id := NodeID(0); int(id) < tree.Len(); id++ {
		node := tree.Node(id)
		sum := 0
		seen := map[game.Move]bool{}
		for _, child := range node.Children() {
			require.GreaterOrEqual(t, node.Visits(), tree.Node(child).Visits(),
				"Parent visits should be at least each child's visits")
			sum += tree.Node(child).Visits()
			move, _ := tree.Node(child).Move()
			require.False(t, seen[move], "At most one child per move")
			seen[move] = true
		}
		require.GreaterOrEqual(t, node.Visits(), sum)
	}
}

func TestSearchOnTerminalRoot(t *testing.T) {
	g := newGame(t, "XXXOO    ", game.O)
	m := NewMCTS(WithSimulations(20), WithRand(rand.New(rand.NewSource(1))))

	_, ok := m.Search(g)

	require.False(t, ok, "Terminal root should yield no move")
	require.Equal(t, 1, m.Tree().Len(), "Terminal root should never be expanded")
	require.Equal(t, 20, m.Tree().Node(0).Visits())
	require.Equal(t, 20.0, m.Tree().Node(0).Value(), "Every simulation scores the finished AI win")
}

func TestSearchFindsForcedWin(t *testing.T) {
	wins := 0
	trials := 20
	for seed := 0; seed < trials; seed++ {
		g := newGame(t, "XX OO    ", game.X)
		m := NewMCTS(WithSimulations(200), WithRand(rand.New(rand.NewSource(uint64(seed)))))

		move, ok := m.Search(g)
		require.True(t, ok)
		if move == (game.Move{Row: 0, Col: 2}) {
			wins++
		}
	}
	require.GreaterOrEqual(t, float64(wins)/float64(trials), 0.9,
		"Search should complete the top row in at least 90 percent of trials")
}

func TestSearchUsesGuide(t *testing.T) {
	t.Run("legal guided moves are followed", func(t *testing.T) {
		guide := &fixedGuide{move: game.Move{Row: 2, Col: 2}}
		g := newGame(t, "XO XO    ", game.X)
		m := NewMCTS(WithSimulations(50), WithGuide(guide), WithMetrics(),
			WithRand(rand.New(rand.NewSource(9))))

		_, ok := m.Search(g)
		require.True(t, ok)
		require.Greater(t, guide.calls, 0)

		metrics := m.Metrics()
		require.Equal(t, int64(50), metrics.Simulations)
		require.Greater(t, metrics.GuidedMoves, int64(0), "Guide's legal move should be played in rollouts")
		require.Equal(t, m.Tree().Len(), metrics.TreeSize)
	})

	t.Run("illegal guided moves fall back to random", func(t *testing.T) {
		guide := &fixedGuide{move: game.Move{Row: 9, Col: 9}}
		g := newGame(t, "         ", game.X)
		m := NewMCTS(WithSimulations(30), WithGuide(guide), WithMetrics(),
			WithRand(rand.New(rand.NewSource(2))))

		_, ok := m.Search(g)
		require.True(t, ok)
		require.Equal(t, int64(0), m.Metrics().GuidedMoves)
		require.Greater(t, m.Metrics().RandomMoves, int64(0))
	})
}

func TestNewMCTSDefaults(t *testing.T) {
	m := NewMCTS(WithSimulations(-1), WithExploration(-2))
	require.Equal(t, DefaultSimulations, m.simulations)
	require.Equal(t, DefaultExploration, m.exploration)
}
