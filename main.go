package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"tictactoe/config"
)

const usage = `usage: tictactoe <command> [flags]

commands:
  train     train the configured agent and save its table
  play      play against the configured agent in the terminal
  serve     answer move requests over HTTP
  show      print a saved table
  evaluate  play the configured agent against a random opponent
`

// options are the flags shared by every command. Set flags override the config.
type options struct {
	config   string
	agent    string
	size     int
	episodes int
	seed     uint64
	level    string
}

func (o *options) register(fs *flag.FlagSet) {
	fs.StringVar(&o.config, "config", "", "path to a config file (default ./tictactoe.yaml when present)")
	fs.StringVar(&o.agent, "agent", "", "agent kind: qlearning, valueiteration, mcts, greedy or random")
	fs.IntVar(&o.size, "size", 0, "board size: 3, 5 or 7")
	fs.IntVar(&o.episodes, "episodes", 0, "training episodes or evaluation games")
	fs.Uint64Var(&o.seed, "seed", 0, "random seed, 0 for a time based seed")
	fs.StringVar(&o.level, "log-level", "", "log level")
}

func (o *options) apply(fs *flag.FlagSet, cfg *config.Config) error {
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "agent":
			cfg.Agent = o.agent
		case "size":
			cfg.BoardSize = o.size
		case "episodes":
			cfg.Episodes = o.episodes
		case "seed":
			cfg.Seed = o.seed
		case "log-level":
			cfg.LogLevel = o.level
		}
	})
	return cfg.Validate()
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	commands := map[string]func(ctx context.Context, cfg *config.Config) error{
		"train":    runTrain,
		"play":     runPlay,
		"serve":    runServe,
		"show":     runShow,
		"evaluate": runEvaluate,
	}
	name := os.Args[1]
	run, ok := commands[name]
	if !ok {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	var opts options
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	opts.register(fs)
	_ = fs.Parse(os.Args[2:])

	cfg, err := config.Load(opts.config)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if err := opts.apply(fs, cfg); err != nil {
		log.Fatal().Err(err).Msg("invalid flags")
	}
	zerolog.SetGlobalLevel(cfg.Level())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal().Err(err).Str("command", name).Msg("command failed")
	}
}

// seed returns the configured seed, or a time based one when unset.
func seed(cfg *config.Config) uint64 {
	if cfg.Seed != 0 {
		return cfg.Seed
	}
	return uint64(time.Now().UnixNano())
}
