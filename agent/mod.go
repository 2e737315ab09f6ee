package agent

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/exp/rand"

	"tictactoe/game"
	"tictactoe/searcher"
	"tictactoe/table"
)

var (
	ErrNoMoves     = errors.New("no legal moves")
	ErrUnknownKind = errors.New("unknown agent kind")
)

// Agent picks a move for the player to move in g.
type Agent interface {
	FindMove(g *game.Game) (game.Move, error)
}

type Kind string

const (
	QLearningKind      Kind = "qlearning"
	ValueIterationKind Kind = "valueiteration"
	SearchKind         Kind = "mcts"
	GreedyKind         Kind = "greedy"
	RandomKind         Kind = "random"
)

// Kinds lists every agent the factory can build.
var Kinds = []Kind{QLearningKind, ValueIterationKind, SearchKind, GreedyKind, RandomKind}

// ParseKind accepts the short tags as well as the long algorithm names.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "qlearning", "q-learning", "q":
		return QLearningKind, nil
	case "valueiteration", "value-iteration", "vi":
		return ValueIterationKind, nil
	case "mcts", "search":
		return SearchKind, nil
	case "greedy", "reinforcementlearning", "rl":
		return GreedyKind, nil
	case "random":
		return RandomKind, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Settings holds the hyperparameters of every agent. Zero values are replaced
// by each agent's own defaults.
type Settings struct {
	LearningRate float64
	Discount     float64
	Epsilon      float64
	EpsilonDecay float64
	Simulations  int
	Exploration  float64
	RandomRate   float64
}

type Option func(s *Settings)

func WithLearningRate(alpha float64) Option {
	return func(s *Settings) {
		if alpha > 0 && alpha <= 1 {
			s.LearningRate = alpha
		}
	}
}

func WithDiscount(gamma float64) Option {
	return func(s *Settings) {
		if gamma >= 0 && gamma <= 1 {
			s.Discount = gamma
		}
	}
}

func WithEpsilon(epsilon float64) Option {
	return func(s *Settings) {
		if epsilon >= 0 && epsilon <= 1 {
			s.Epsilon = epsilon
		}
	}
}

func WithEpsilonDecay(decay float64) Option {
	return func(s *Settings) {
		if decay > 0 && decay <= 1 {
			s.EpsilonDecay = decay
		}
	}
}

func WithSimulations(simulations int) Option {
	return func(s *Settings) {
		if simulations > 0 {
			s.Simulations = simulations
		}
	}
}

func WithExploration(c float64) Option {
	return func(s *Settings) {
		if c >= 0 {
			s.Exploration = c
		}
	}
}

// WithRandomRate sets the chance of a uniformly random move in value iteration.
func WithRandomRate(rate float64) Option {
	return func(s *Settings) {
		if rate >= 0 && rate <= 1 {
			s.RandomRate = rate
		}
	}
}

func newSettings(defaults Settings, options []Option) Settings {
	s := defaults
	for _, option := range options {
		option(&s)
	}
	return s
}

// Tables are the learned tables shared by the agents. Nil tables are created
// empty. Greedy keeps its own Q-table since it fills every state it visits
// with zeros.
type Tables struct {
	Q      *table.QTable
	Greedy *table.QTable
	Values *table.ValueTable
}

// Searcher is implemented by agents that run MCTS. SearchMetrics describes the
// search behind the last FindMove and is zero when that call did not search.
type Searcher interface {
	SearchMetrics() searcher.SearchMetrics
}

// New builds the agent named by kind over the given tables.
func New(kind Kind, tables Tables, rng *rand.Rand, options ...Option) (Agent, error) {
	if tables.Q == nil {
		tables.Q = table.NewQTable()
	}
	if tables.Greedy == nil {
		tables.Greedy = table.NewQTable()
	}
	if tables.Values == nil {
		tables.Values = table.NewValueTable()
	}
	if rng == nil {
		rng = NewRand(uint64(time.Now().UnixNano()))
	}

	switch kind {
	case QLearningKind:
		return NewQLearning(tables.Q, rng, options...), nil
	case ValueIterationKind:
		return NewValueIteration(tables.Values, rng, options...), nil
	case SearchKind:
		return NewSearch(tables.Values, rng, options...), nil
	case GreedyKind:
		return NewGreedy(tables.Greedy, rng, options...), nil
	case RandomKind:
		return NewRandom(rng), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
}

func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

func legalMoves(g *game.Game) ([]game.Move, error) {
	moves := g.LegalMoves()
	if len(moves) == 0 {
		return nil, fmt.Errorf("%w: state %q", ErrNoMoves, g.Key())
	}
	return moves, nil
}

func newMCTS(guide searcher.Guide, rng *rand.Rand, s Settings) *searcher.MCTS {
	return searcher.NewMCTS(
		searcher.WithGuide(guide),
		searcher.WithRand(rng),
		searcher.WithSimulations(s.Simulations),
		searcher.WithExploration(s.Exploration),
		searcher.WithMetrics(),
	)
}
