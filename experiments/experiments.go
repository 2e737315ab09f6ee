package experiments

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"

	"tictactoe/agent"
	"tictactoe/engine"
	"tictactoe/experiments/metrics"
	"tictactoe/game"
)

const NumGames = 30 // Per match up

// MatchUp seats one agent as the AI (X) and one as the human (O).
type MatchUp struct {
	AI    agent.Kind
	Human agent.Kind
	First game.Symbol
}

// AgainstRandom pairs every kind with the random baseline, once per starting seat.
func AgainstRandom(kinds []agent.Kind) []MatchUp {
	matchUps := []MatchUp{}
	for _, kind := range kinds {
		if kind == agent.RandomKind {
			continue
		}
		for _, first := range []game.Symbol{game.X, game.O} {
			matchUps = append(matchUps, MatchUp{AI: kind, Human: agent.RandomKind, First: first})
		}
	}
	return matchUps
}

type Experiment struct {
	Name      string
	BoardSize int
	Games     int
	Tables    agent.Tables
	Options   []agent.Option
	Rand      *rand.Rand
}

// Run plays Games games per match up and stores the tallies under
// baseDir/Name when baseDir is set.
func Run(ctx context.Context, e Experiment, matchUps []MatchUp, baseDir string) ([]metrics.MatchUpRecord, error) {
	if e.Games <= 0 {
		e.Games = NumGames
	}
	if e.Rand == nil {
		e.Rand = agent.NewRand(0)
	}

	log.Info().Msgf("starting %s experiment...", e.Name)

	records := []metrics.MatchUpRecord{}
	for mi, matchUp := range matchUps {
		log.Info().Msgf("starting matchup %d of %d between ai=%s and human=%s...", mi+1, len(matchUps), matchUp.AI, matchUp.Human)

		record, err := runMatchUp(ctx, e, matchUp)
		if err != nil {
			return records, fmt.Errorf("matchup %d: %w", mi+1, err)
		}
		record.ID = mi + 1
		records = append(records, record)

		log.Info().Msgf("completed matchup %d of %d with %d wins, %d draws and %d losses",
			mi+1, len(matchUps), record.Wins, record.Draws, record.Losses)
		log.Debug().
			Int64("simulations", record.Simulations).
			Int64("guided", record.GuidedMoves).
			Int64("random", record.RandomMoves).
			Msg("matchup search metrics")
	}

	log.Info().Msgf("completed %s experiment", e.Name)

	if baseDir == "" {
		return records, nil
	}
	writer, err := metrics.NewWriter(baseDir, e.Name)
	if err != nil {
		return records, fmt.Errorf("failed to create experiment writer: %w", err)
	}
	if err := writer.WriteMatchUpRecords(records); err != nil {
		return records, fmt.Errorf("failed to write matchup records: %w", err)
	}
	log.Info().Str("dir", writer.Dir()).Msg("stored matchup records")
	return records, nil
}

func runMatchUp(ctx context.Context, e Experiment, matchUp MatchUp) (metrics.MatchUpRecord, error) {
	record := metrics.MatchUpRecord{AI: string(matchUp.AI), Human: string(matchUp.Human)}

	ai, err := agent.New(matchUp.AI, e.Tables, e.Rand, e.Options...)
	if err != nil {
		return record, err
	}
	human, err := agent.New(matchUp.Human, e.Tables, e.Rand, e.Options...)
	if err != nil {
		return record, err
	}

	// An unset seat means the AI opens.
	first := matchUp.First
	if first != game.X && first != game.O {
		first = game.X
	}
	record.First = first.String()
	g, err := game.NewGame(e.BoardSize, game.X, game.O, first)
	if err != nil {
		return record, err
	}

	meter := &searchMeter{Agent: ai}
	record.Summary, err = engine.PlayMatch(ctx, g, meter, human, e.Games)
	record.Simulations = meter.simulations
	record.GuidedMoves = meter.guided
	record.RandomMoves = meter.random
	return record, err
}

// searchMeter sums the search metrics of an agent's moves.
type searchMeter struct {
	agent.Agent
	simulations int64
	guided      int64
	random      int64
}

func (m *searchMeter) FindMove(g *game.Game) (game.Move, error) {
	move, err := m.Agent.FindMove(g)
	if s, ok := m.Agent.(agent.Searcher); ok {
		searched := s.SearchMetrics()
		m.simulations += searched.Simulations
		m.guided += searched.GuidedMoves
		m.random += searched.RandomMoves
	}
	return move, err
}
