package searcher

import (
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"

	"tictactoe/game"
	"tictactoe/utils"
)

type Option func(mcts *MCTS)

type MCTS struct {
	simulations int
	exploration float64
	guide       Guide
	rng         *rand.Rand
	tree        *Tree
	metrics     MetricsCollector
	last        SearchMetrics
}

func WithSimulations(simulations int) Option {
	return func(m *MCTS) {
		if simulations > 0 {
			m.simulations = simulations
		}
	}
}

func WithExploration(c float64) Option {
	return func(m *MCTS) {
		if c >= 0 {
			m.exploration = c
		}
	}
}

// WithGuide seeds the rollout policy with a learned table.
func WithGuide(guide Guide) Option {
	return func(m *MCTS) {
		if guide != nil {
			m.guide = guide
		}
	}
}

func WithRand(rng *rand.Rand) Option {
	return func(m *MCTS) {
		if rng != nil {
			m.rng = rng
		}
	}
}

func WithMetrics() Option {
	return func(m *MCTS) {
		m.metrics = NewMetricsCollector()
	}
}

func NewMCTS(options ...Option) *MCTS {
	m := &MCTS{ // Default values
		simulations: DefaultSimulations,
		exploration: DefaultExploration,
		guide:       noGuide{},
		rng:         rand.New(rand.NewSource(uint64(time.Now().UnixNano()))),
		metrics:     NewNoMetricsCollector(),
	}
	for _, option := range options {
		option(m)
	}
	return m
}

// Search runs the configured number of simulations from g and returns the
// most visited root move. It returns false when g is already over.
func (m *MCTS) Search(g *game.Game) (game.Move, bool) {
	m.tree = NewTree(g)
	m.metrics.Start()

	for i := 0; i < m.simulations; i++ {
		m.simulate()
		m.metrics.AddSimulation()
	}

	root := m.tree.Root()
	m.last = m.metrics.Complete(m.tree.Len(), g.IsOver())

	best := m.tree.mostVisited(root)
	if best == NoNode {
		log.Debug().Str("state", string(g.Key())).Msg("search root has no children")
		return game.Move{}, false
	}
	move, _ := m.tree.Node(best).Move()
	log.Debug().
		Str("state", string(g.Key())).
		Stringer("move", move).
		Int("visits", m.tree.Node(best).Visits()).
		Int("nodes", m.tree.Len()).
		Msg("search complete")
	return move, true
}

// Tree returns the tree built by the last Search.
func (m *MCTS) Tree() *Tree {
	return m.tree
}

// Metrics returns the metrics of the last Search when enabled with WithMetrics.
func (m *MCTS) Metrics() SearchMetrics {
	return m.last
}

func (m *MCTS) simulate() {
	node := m.selectThenExpand(m.tree.Root())
	result := m.rollout(m.tree.Node(node).Game())
	backup(m.tree, node, result)
}

func (m *MCTS) selectThenExpand(root NodeID) NodeID {
	node := root
	for len(m.tree.Node(node).Children()) > 0 {
		node = m.tree.pickChild(node, m.exploration)
	}

	leaf := m.tree.Node(node)
	if leaf.Game().IsOver() {
		return node
	}
	return m.expand(node)
}

// expand adds one child per legal move not yet represented and returns one of
// the new children at random.
func (m *MCTS) expand(id NodeID) NodeID {
	parent := m.tree.Node(id).Game()
	existing := m.tree.childMoves(id)

	var added []NodeID
	for _, move := range parent.LegalMoves() {
		if utils.FindIndex(existing, move) >= 0 {
			continue
		}
		child := parent.Copy()
		if err := child.Play(move); err != nil {
			panic(err)
		}
		added = append(added, m.tree.AddChild(id, move, child))
	}
	if len(added) == 0 {
		return id
	}
	return utils.Choice(m.rng, added)
}

// rollout plays g out on a copy, following the guide where it knows the
// position and moving at random otherwise.
func (m *MCTS) rollout(g *game.Game) float64 {
	state := g.Copy()
	for !state.IsOver() {
		move, ok := m.guide.BestMove(state.Key(), state.Current)
		if !ok || !state.Board.IsLegal(move) {
			move = utils.Choice(m.rng, state.LegalMoves())
			ok = false
		}
		m.metrics.AddRolloutMove(ok)
		if err := state.Play(move); err != nil {
			panic(err)
		}
	}
	return outcome(state)
}

// backup adds the same result to every node from id up to the root.
func backup(tree *Tree, id NodeID, result float64) {
	node := id
	for node != NoNode {
		node = tree.update(node, result)
	}
}

type noGuide struct{}

func (noGuide) BestMove(game.StateKey, game.Symbol) (game.Move, bool) {
	return game.Move{}, false
}
