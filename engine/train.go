package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"

	"tictactoe/agent"
	"tictactoe/experiments/metrics"
	"tictactoe/game"
	"tictactoe/table"
	"tictactoe/utils"
)

const (
	DefaultOpponentExploration = 0.3
	DefaultSweepsPerEpisode    = 10
)

type TrainerOption func(t *Trainer)

// Trainer drives self-play episodes for a learning agent seated as the AI.
type Trainer struct {
	game                *game.Game
	learner             agent.Agent
	rng                 *rand.Rand
	opponentExploration float64
	sweeps              int
	tolerance           float64
	metrics             metrics.Collector
	runID               string
	seed                uint64
	kind                agent.Kind
}

func WithOpponentExploration(p float64) TrainerOption {
	return func(t *Trainer) {
		if p >= 0 && p <= 1 {
			t.opponentExploration = p
		}
	}
}

// WithSweeps sets the value iteration sweeps run after every episode.
func WithSweeps(sweeps int, tolerance float64) TrainerOption {
	return func(t *Trainer) {
		if sweeps > 0 {
			t.sweeps = sweeps
		}
		if tolerance > 0 {
			t.tolerance = tolerance
		}
	}
}

func WithCollector(c metrics.Collector) TrainerOption {
	return func(t *Trainer) {
		if c != nil {
			t.metrics = c
		}
	}
}

func WithRunInfo(kind agent.Kind, seed uint64) TrainerOption {
	return func(t *Trainer) {
		t.kind = kind
		t.seed = seed
	}
}

func NewTrainer(g *game.Game, learner agent.Agent, rng *rand.Rand, options ...TrainerOption) *Trainer {
	t := &Trainer{ // Default values
		game:                g,
		learner:             learner,
		rng:                 rng,
		opponentExploration: DefaultOpponentExploration,
		sweeps:              DefaultSweepsPerEpisode,
		tolerance:           agent.DefaultTolerance,
		metrics:             metrics.NewCollector(),
		runID:               uuid.NewString(),
	}
	for _, option := range options {
		option(t)
	}
	return t
}

func (t *Trainer) RunID() string {
	return t.runID
}

// Train plays episodes from an empty board, updating the learner after the
// moves its algorithm learns from. It stops early when ctx is cancelled.
func (t *Trainer) Train(ctx context.Context, episodes int) (metrics.Summary, error) {
	t.metrics.Start(metrics.RunConfig{
		ID:        t.runID,
		Agent:     string(t.kind),
		BoardSize: t.game.Board.Size(),
		Episodes:  episodes,
		Seed:      t.seed,
	})
	log.Info().Str("run", t.runID).Str("agent", string(t.kind)).Int("episodes", episodes).Msg("starting training")

	for i := 1; i <= episodes; i++ {
		if err := ctx.Err(); err != nil {
			log.Warn().Str("run", t.runID).Int("episode", i).Msg("training cancelled")
			return t.metrics.Complete(), err
		}

		t.game.Reset()
		start := time.Now()
		record, err := t.episode()
		if err != nil {
			return t.metrics.Complete(), fmt.Errorf("episode %d: %w", i, err)
		}
		record.Episode = i
		record.Duration = time.Since(start)
		t.metrics.AddEpisode(record)

		log.Debug().Int("episode", i).Str("winner", record.Winner).Int("moves", record.Moves).Msg("episode complete")
	}
	t.game.Reset()

	summary := t.metrics.Complete()
	log.Info().
		Str("run", t.runID).
		Int("wins", summary.Wins).
		Int("draws", summary.Draws).
		Int("losses", summary.Losses).
		Dur("duration", summary.Duration).
		Msg("completed training")
	return summary, nil
}

func (t *Trainer) episode() (metrics.EpisodeRecord, error) {
	switch learner := t.learner.(type) {
	case *agent.ValueIteration:
		return t.valueIterationEpisode(learner)
	case *agent.QLearning:
		return t.qLearningEpisode(learner)
	case *agent.Greedy:
		return t.greedyEpisode(learner)
	default:
		return t.evaluationEpisode()
	}
}

// valueIterationEpisode plays against a partly random lookahead opponent and
// refines the value table once the game is over.
func (t *Trainer) valueIterationEpisode(learner *agent.ValueIteration) (metrics.EpisodeRecord, error) {
	g := t.game
	opponent := agent.NewValueIteration(table.NewValueTable(), t.rng)
	moves := 0

	for !g.IsOver() {
		var move game.Move
		var err error
		if g.Current == g.AI {
			learner.Observe(g)
			move, err = learner.FindMove(g)
		} else if t.rng.Float64() < t.opponentExploration {
			move = utils.Choice(t.rng, g.LegalMoves())
		} else {
			move, err = opponent.FindMove(g)
		}
		if err != nil {
			return metrics.EpisodeRecord{}, err
		}
		if err := g.Play(move); err != nil {
			return metrics.EpisodeRecord{}, err
		}
		moves++
	}

	record := t.record(moves)
	sweeps, delta, err := learner.Iterate(g, t.sweeps, t.tolerance)
	if err != nil {
		return record, err
	}
	record.Sweeps = sweeps
	record.Delta = delta
	record.TableSize = learner.Table().Len()
	return record, nil
}

// qLearningEpisode updates the previous (state, action) pair after every AI
// move that has one, against a random opponent.
func (t *Trainer) qLearningEpisode(learner *agent.QLearning) (metrics.EpisodeRecord, error) {
	g := t.game
	var prevState game.StateKey
	var prevAction game.Move
	hasPrev := false
	moves := 0

	for !g.IsOver() {
		current := g.Key()
		if g.Current == g.AI {
			action, err := learner.FindMove(g)
			if err != nil {
				return metrics.EpisodeRecord{}, err
			}
			if err := g.Play(action); err != nil {
				return metrics.EpisodeRecord{}, err
			}
			if hasPrev {
				if err := learner.Update(g, prevState, prevAction, g.Reward(), current); err != nil {
					return metrics.EpisodeRecord{}, err
				}
			}
			prevState, prevAction, hasPrev = current, action, true
		} else if err := g.Play(utils.Choice(t.rng, g.LegalMoves())); err != nil {
			return metrics.EpisodeRecord{}, err
		}
		moves++
	}

	record := t.record(moves)
	record.Epsilon = learner.Epsilon()
	record.TableSize = learner.Table().Len()
	return record, nil
}

// greedyEpisode updates the greedy agent's last move once the opponent has
// replied or the game has ended.
func (t *Trainer) greedyEpisode(learner *agent.Greedy) (metrics.EpisodeRecord, error) {
	g := t.game
	defer learner.Forget()
	moved := false
	moves := 0

	for !g.IsOver() {
		var move game.Move
		if g.Current == g.AI {
			if moved {
				if err := learner.Update(g.Reward(), g.Key()); err != nil {
					return metrics.EpisodeRecord{}, err
				}
			}
			var err error
			if move, err = learner.FindMove(g); err != nil {
				return metrics.EpisodeRecord{}, err
			}
			moved = true
		} else {
			move = utils.Choice(t.rng, g.LegalMoves())
		}
		if err := g.Play(move); err != nil {
			return metrics.EpisodeRecord{}, err
		}
		moves++
	}
	if moved {
		if err := learner.Update(g.Reward(), g.Key()); err != nil {
			return metrics.EpisodeRecord{}, err
		}
	}

	record := t.record(moves)
	record.TableSize = learner.Table().Len()
	return record, nil
}

// evaluationEpisode plays a game against a random opponent without learning.
func (t *Trainer) evaluationEpisode() (metrics.EpisodeRecord, error) {
	result, err := NewLocal(t.game, t.learner, agent.NewRandom(t.rng)).Run()
	if err != nil {
		return metrics.EpisodeRecord{}, err
	}
	return t.record(result.Moves), nil
}

func (t *Trainer) record(moves int) metrics.EpisodeRecord {
	status, winner := t.game.Board.Status()
	label := winner.String()
	if status == game.Draw {
		label = "draw"
	}
	return metrics.EpisodeRecord{
		Winner: label,
		Reward: t.game.Reward(),
		Moves:  moves,
	}
}
