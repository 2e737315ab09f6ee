package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"tictactoe/agent"
	"tictactoe/game"
)

var ErrInvalidConfig = errors.New("invalid config")

// EnvPrefix prefixes the environment overrides, e.g. TTT_BOARD_SIZE=5.
const EnvPrefix = "TTT"

type Config struct {
	BoardSize   int    `mapstructure:"board_size"`
	Agent       string `mapstructure:"agent"`
	AISymbol    string `mapstructure:"ai_symbol"`
	HumanSymbol string `mapstructure:"human_symbol"`
	First       string `mapstructure:"first"`
	Seed        uint64 `mapstructure:"seed"`

	Episodes            int     `mapstructure:"episodes"`
	Simulations         int     `mapstructure:"simulations"`
	Exploration         float64 `mapstructure:"exploration"`
	LearningRate        float64 `mapstructure:"learning_rate"`
	Discount            float64 `mapstructure:"discount"`
	Epsilon             float64 `mapstructure:"epsilon"`
	PlayEpsilon         float64 `mapstructure:"play_epsilon"`
	EpsilonDecay        float64 `mapstructure:"epsilon_decay"`
	Iterations          int     `mapstructure:"vi_iterations"`
	Tolerance           float64 `mapstructure:"vi_tolerance"`
	RandomRate          float64 `mapstructure:"vi_random_rate"`
	OpponentExploration float64 `mapstructure:"opponent_exploration"`

	TableDir    string `mapstructure:"table_dir"`
	MetricsDir  string `mapstructure:"metrics_dir"`
	ChartWindow int    `mapstructure:"chart_window"`
	Addr        string `mapstructure:"addr"`
	LogLevel    string `mapstructure:"log_level"`
}

var defaults = map[string]any{
	"board_size":           3,
	"agent":                string(agent.QLearningKind),
	"ai_symbol":            "X",
	"human_symbol":         "O",
	"first":                "X",
	"seed":                 0,
	"episodes":             1000,
	"simulations":          1000,
	"exploration":          1.4,
	"learning_rate":        0, // zero keeps each agent's own default
	"discount":             0.9,
	"epsilon":              1.0,
	"play_epsilon":         agent.MinEpsilon,
	"epsilon_decay":        0.995,
	"vi_iterations":        10,
	"vi_tolerance":         1e-6,
	"vi_random_rate":       0.4,
	"opponent_exploration": 0.3,
	"table_dir":            ".",
	"metrics_dir":          "runs",
	"chart_window":         100,
	"addr":                 ":8080",
	"log_level":            "info",
}

// Load reads the config file at path, or ./tictactoe.{yaml,json,toml,env}
// when path is empty, applies TTT_ environment overrides and validates the
// result. A missing default file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("tictactoe")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if err := game.CheckPlayable(c.BoardSize); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if _, err := c.Kind(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if _, _, _, err := c.Symbols(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.Episodes < 0 || c.Simulations < 1 || c.Iterations < 1 {
		return fmt.Errorf("%w: episodes, simulations and sweeps must be positive", ErrInvalidConfig)
	}
	for name, p := range map[string]float64{
		"learning_rate":        c.LearningRate,
		"discount":             c.Discount,
		"epsilon":              c.Epsilon,
		"play_epsilon":         c.PlayEpsilon,
		"epsilon_decay":        c.EpsilonDecay,
		"vi_random_rate":       c.RandomRate,
		"opponent_exploration": c.OpponentExploration,
	} {
		if p < 0 || p > 1 {
			return fmt.Errorf("%w: %s=%v is outside [0, 1]", ErrInvalidConfig, name, p)
		}
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

func (c *Config) Kind() (agent.Kind, error) {
	return agent.ParseKind(c.Agent)
}

// Symbols returns the AI, human and first player symbols.
func (c *Config) Symbols() (ai, human, first game.Symbol, err error) {
	if ai, err = game.ParseSymbol(c.AISymbol); err != nil {
		return
	}
	if human, err = game.ParseSymbol(c.HumanSymbol); err != nil {
		return
	}
	if first, err = game.ParseSymbol(c.First); err != nil {
		return
	}
	if ai == human {
		err = fmt.Errorf("%w: both seats play %v", game.ErrInvalidSymbol, ai)
	}
	return
}

func (c *Config) NewGame() (*game.Game, error) {
	ai, human, first, err := c.Symbols()
	if err != nil {
		return nil, err
	}
	return game.NewGame(c.BoardSize, ai, human, first)
}

func (c *Config) Level() zerolog.Level {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}

// AgentOptions maps the hyperparameters onto agent options.
func (c *Config) AgentOptions() []agent.Option {
	return []agent.Option{
		agent.WithLearningRate(c.LearningRate),
		agent.WithDiscount(c.Discount),
		agent.WithEpsilon(c.Epsilon),
		agent.WithEpsilonDecay(c.EpsilonDecay),
		agent.WithSimulations(c.Simulations),
		agent.WithExploration(c.Exploration),
		agent.WithRandomRate(c.RandomRate),
	}
}

// InferenceOptions are AgentOptions for playing with a trained table: the
// exploration rate starts at PlayEpsilon instead of the training Epsilon.
func (c *Config) InferenceOptions() []agent.Option {
	return append(c.AgentOptions(), agent.WithEpsilon(c.PlayEpsilon))
}
