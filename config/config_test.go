package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"tictactoe/agent"
	"tictactoe/game"
)

func TestLoad(t *testing.T) {
	t.Run("defaults without a file", func(t *testing.T) {
		t.Chdir(t.TempDir())
		cfg, err := Load("")
		require.NoError(t, err)
		require.Equal(t, 3, cfg.BoardSize)
		require.Equal(t, 1000, cfg.Simulations)
		require.Equal(t, 1.4, cfg.Exploration)
		require.Equal(t, zerolog.InfoLevel, cfg.Level())
		require.Equal(t, agent.MinEpsilon, cfg.PlayEpsilon)
		require.Len(t, cfg.InferenceOptions(), len(cfg.AgentOptions())+1)

		kind, err := cfg.Kind()
		require.NoError(t, err)
		require.Equal(t, agent.QLearningKind, kind)
	})

	t.Run("file values and environment overrides", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tictactoe.yaml")
		content := "board_size: 5\nagent: vi\nai_symbol: o\nhuman_symbol: x\nfirst: x\nseed: 42\nlog_level: debug\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		t.Setenv("TTT_EPISODES", "250")

		cfg, err := Load(path)
		require.NoError(t, err)
		require.Equal(t, 5, cfg.BoardSize)
		require.Equal(t, 250, cfg.Episodes)
		require.Equal(t, uint64(42), cfg.Seed)
		require.Equal(t, zerolog.DebugLevel, cfg.Level())

		g, err := cfg.NewGame()
		require.NoError(t, err)
		require.Equal(t, game.O, g.AI)
		require.Equal(t, game.X, g.Human)
		require.Equal(t, game.X, g.Current)
		require.Equal(t, 5, g.Board.Size())
	})

	t.Run("an explicit missing file fails", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		require.Error(t, err)
	})

	t.Run("invalid values are rejected", func(t *testing.T) {
		t.Chdir(t.TempDir())
		t.Setenv("TTT_BOARD_SIZE", "4")
		_, err := Load("")
		require.ErrorIs(t, err, ErrInvalidConfig)
	})
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			BoardSize: 3, Agent: "mcts", AISymbol: "X", HumanSymbol: "O", First: "O",
			Simulations: 10, Iterations: 1, Discount: 0.9, EpsilonDecay: 0.995, LogLevel: "warn",
		}
	}
	cfg := valid()
	require.NoError(t, cfg.Validate())

	for name, mutate := range map[string]func(c *Config){
		"unknown agent":      func(c *Config) { c.Agent = "minimax" },
		"same symbols":       func(c *Config) { c.HumanSymbol = "X" },
		"bad first player":   func(c *Config) { c.First = "Z" },
		"no simulations":     func(c *Config) { c.Simulations = 0 },
		"discount above one": func(c *Config) { c.Discount = 1.5 },
		"bad log level":      func(c *Config) { c.LogLevel = "loud" },
	} {
		t.Run(name, func(t *testing.T) {
			cfg := valid()
			mutate(&cfg)
			require.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}

	require.Len(t, cfg.AgentOptions(), 7)
}
