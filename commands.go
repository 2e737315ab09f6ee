package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"

	"tictactoe/agent"
	"tictactoe/config"
	"tictactoe/engine"
	"tictactoe/experiments"
	"tictactoe/experiments/metrics"
	"tictactoe/server"
	"tictactoe/table"
	"tictactoe/tui"
)

// tablePath names the file holding the table kind learns into.
func tablePath(cfg *config.Config, kind agent.Kind) string {
	name := table.ValuesFile
	switch kind {
	case agent.QLearningKind:
		name = table.QTableFile
	case agent.GreedyKind:
		name = table.GreedyFile
	}
	return filepath.Join(cfg.TableDir, table.FileName(name, cfg.BoardSize))
}

// loadTables reads the table kind plays from. Search is guided by the value
// table and random needs none.
func loadTables(cfg *config.Config, kind agent.Kind) (agent.Tables, error) {
	var tables agent.Tables
	var err error
	switch kind {
	case agent.QLearningKind:
		tables.Q, err = table.LoadQ(tablePath(cfg, kind))
	case agent.GreedyKind:
		tables.Greedy, err = table.LoadQ(tablePath(cfg, kind))
	case agent.ValueIterationKind, agent.SearchKind:
		tables.Values, err = table.LoadValues(tablePath(cfg, kind))
	}
	return tables, err
}

func saveTables(cfg *config.Config, kind agent.Kind, tables agent.Tables) error {
	switch kind {
	case agent.QLearningKind:
		return table.SaveQ(tablePath(cfg, kind), tables.Q)
	case agent.GreedyKind:
		return table.SaveQ(tablePath(cfg, kind), tables.Greedy)
	case agent.ValueIterationKind:
		return table.SaveValues(tablePath(cfg, kind), tables.Values)
	}
	return nil
}

// setup loads the tables of the configured agent and builds it with an rng
// seeded by s. Inference agents start from the play exploration rate so a
// trained table is exploited.
func setup(cfg *config.Config, s uint64, inference bool) (agent.Kind, agent.Tables, agent.Agent, *rand.Rand, error) {
	kind, err := cfg.Kind()
	if err != nil {
		return "", agent.Tables{}, nil, nil, err
	}
	tables, err := loadTables(cfg, kind)
	if err != nil {
		return "", agent.Tables{}, nil, nil, err
	}
	if tables.Q == nil {
		tables.Q = table.NewQTable()
	}
	if tables.Greedy == nil {
		tables.Greedy = table.NewQTable()
	}
	if tables.Values == nil {
		tables.Values = table.NewValueTable()
	}
	options := cfg.AgentOptions()
	if inference {
		options = cfg.InferenceOptions()
	}
	rng := agent.NewRand(s)
	a, err := agent.New(kind, tables, rng, options...)
	if err != nil {
		return "", agent.Tables{}, nil, nil, err
	}
	return kind, tables, a, rng, nil
}

func runTrain(ctx context.Context, cfg *config.Config) error {
	s := seed(cfg)
	kind, tables, learner, rng, err := setup(cfg, s, false)
	if err != nil {
		return err
	}
	g, err := cfg.NewGame()
	if err != nil {
		return err
	}

	collector := metrics.NewCollector()
	trainer := engine.NewTrainer(g, learner, rng,
		engine.WithCollector(collector),
		engine.WithRunInfo(kind, s),
		engine.WithOpponentExploration(cfg.OpponentExploration),
		engine.WithSweeps(cfg.Iterations, cfg.Tolerance),
	)
	start := time.Now()
	summary, trainErr := trainer.Train(ctx, cfg.Episodes)
	if trainErr != nil && !errors.Is(trainErr, context.Canceled) {
		return trainErr
	}

	// Keep what was learned even when interrupted.
	if err := saveTables(cfg, kind, tables); err != nil {
		return err
	}

	writer, err := metrics.NewWriter(cfg.MetricsDir, trainer.RunID())
	if err != nil {
		return err
	}
	run := metrics.RunConfig{
		ID:        trainer.RunID(),
		Agent:     string(kind),
		BoardSize: cfg.BoardSize,
		Episodes:  summary.Episodes,
		Seed:      s,
		StartTime: start,
	}
	if err := writer.WriteRunConfig(run); err != nil {
		return err
	}
	if err := writer.WriteEpisodeRecords(collector.Records()); err != nil {
		return err
	}
	chart, err := writer.WriteChart(run, collector.Records(), cfg.ChartWindow)
	if err != nil {
		return err
	}
	log.Info().
		Float64("win_rate", summary.WinRate()).
		Str("metrics", writer.Dir()).
		Str("chart", chart).
		Msg("stored training metrics")
	return trainErr
}

func runPlay(ctx context.Context, cfg *config.Config) error {
	_, _, ai, _, err := setup(cfg, seed(cfg), true)
	if err != nil {
		return err
	}
	g, err := cfg.NewGame()
	if err != nil {
		return err
	}
	return tui.Run(g, ai)
}

func runServe(ctx context.Context, cfg *config.Config) error {
	kind, err := cfg.Kind()
	if err != nil {
		return err
	}
	// Every algorithm can be requested, so load both tables.
	q, err := table.LoadQ(tablePath(cfg, agent.QLearningKind))
	if err != nil {
		return err
	}
	greedy, err := table.LoadQ(tablePath(cfg, agent.GreedyKind))
	if err != nil {
		return err
	}
	values, err := table.LoadValues(tablePath(cfg, agent.ValueIterationKind))
	if err != nil {
		return err
	}
	tables := agent.Tables{Q: q, Greedy: greedy, Values: values}

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: server.New(tables, agent.NewRand(seed(cfg)), cfg.InferenceOptions()...),
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("failed to shut down server")
		}
	}()

	log.Info().Str("addr", cfg.Addr).Str("default_agent", string(kind)).Msg("server is running")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	log.Info().Msg("server stopped")
	return nil
}

// runShow prints every entry of the configured agent's table.
func runShow(ctx context.Context, cfg *config.Config) error {
	kind, err := cfg.Kind()
	if err != nil {
		return err
	}
	tables, err := loadTables(cfg, kind)
	if err != nil {
		return err
	}
	q := tables.Q
	if q == nil {
		q = tables.Greedy
	}
	switch {
	case q != nil:
		for _, entry := range q.Entries() {
			fmt.Fprintf(os.Stdout, "State: %q, Move: %v, Value: %.4f\n", entry.State, entry.Move, entry.Value)
		}
		fmt.Fprintf(os.Stdout, "%d entries over %d states\n", q.Len(), q.States())
	case tables.Values != nil:
		for _, key := range tables.Values.Keys() {
			fmt.Fprintf(os.Stdout, "State: %q, Value: %.4f\n", key, tables.Values.Get(key))
		}
		fmt.Fprintf(os.Stdout, "%d states\n", tables.Values.Len())
	default:
		return fmt.Errorf("%s agents keep no table", kind)
	}
	return nil
}

func runEvaluate(ctx context.Context, cfg *config.Config) error {
	kind, tables, _, rng, err := setup(cfg, seed(cfg), true)
	if err != nil {
		return err
	}
	e := experiments.Experiment{
		Name:      fmt.Sprintf("%s_vs_random_%dx%d", kind, cfg.BoardSize, cfg.BoardSize),
		BoardSize: cfg.BoardSize,
		Games:     cfg.Episodes,
		Tables:    tables,
		Options:   cfg.InferenceOptions(),
		Rand:      rng,
	}
	records, err := experiments.Run(ctx, e, experiments.AgainstRandom([]agent.Kind{kind}), cfg.MetricsDir)
	if err != nil {
		return err
	}
	for _, record := range records {
		fmt.Fprintf(os.Stdout, "%s vs %s, %s first: %d wins, %d draws, %d losses (%.1f%%)\n",
			record.AI, record.Human, record.First, record.Wins, record.Draws, record.Losses, 100*record.WinRate())
	}
	return nil
}
