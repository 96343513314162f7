// internal/config/config.go
package config

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/jason-s-yu/lastcard/internal/cache"
	"github.com/jason-s-yu/lastcard/internal/game"
)

// Config is everything the binary reads from the environment.
type Config struct {
	PlayerName string `env:"LASTCARD_PLAYER_NAME" envDefault:"You"`
	BotName    string `env:"LASTCARD_BOT_NAME" envDefault:"Bot"`

	InitialHandSize  int           `env:"LASTCARD_HAND_SIZE" envDefault:"7"`
	PenaltyDrawCount int           `env:"LASTCARD_PENALTY_DRAW_COUNT" envDefault:"2"`
	DeclareTimeout   time.Duration `env:"LASTCARD_DECLARE_TIMEOUT" envDefault:"3s"`
	CatchDelay       time.Duration `env:"LASTCARD_CATCH_DELAY" envDefault:"2s"`
	SelfDeclareDelay time.Duration `env:"LASTCARD_SELF_DECLARE_DELAY" envDefault:"1s"`
	BotMoveDelay     time.Duration `env:"LASTCARD_BOT_MOVE_DELAY" envDefault:"1200ms"`

	// Rules is an optional JSON object of house rule overrides applied on top
	// of the settings above, e.g. {"initialHandSize":5,"catchDelayMs":4000}.
	Rules string `env:"LASTCARD_RULES"`

	// Seed fixes the shuffle for reproducible games; 0 seeds from the clock.
	Seed int64 `env:"LASTCARD_SEED" envDefault:"0"`

	LogLevel  string `env:"LASTCARD_LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LASTCARD_LOG_FORMAT" envDefault:"text"`

	// RedisAddr enables the action log when set.
	RedisAddr  string `env:"REDIS_ADDR"`
	RedisDB    int    `env:"REDIS_DB" envDefault:"0"`
	RedisQueue string `env:"HISTORIAN_QUEUE_NAME"`
}

// Load parses the environment into a Config and validates the resulting rules.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.RedisQueue == "" {
		cfg.RedisQueue = cache.DefaultQueueName
	}
	if cfg.Rules != "" {
		var overrides map[string]interface{}
		if err := json.Unmarshal([]byte(cfg.Rules), &overrides); err != nil {
			return Config{}, fmt.Errorf("parse LASTCARD_RULES: %w", err)
		}
		rules, err := game.ParseRules(overrides, cfg.HouseRules())
		if err != nil {
			return Config{}, fmt.Errorf("apply LASTCARD_RULES: %w", err)
		}
		cfg.setHouseRules(rules)
	}
	if err := cfg.HouseRules().Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid game settings: %w", err)
	}
	return cfg, nil
}

// HouseRules maps the game settings onto game.HouseRules.
func (c Config) HouseRules() game.HouseRules {
	return game.HouseRules{
		InitialHandSize:  c.InitialHandSize,
		PenaltyDrawCount: c.PenaltyDrawCount,
		DeclareTimeout:   c.DeclareTimeout,
		CatchDelay:       c.CatchDelay,
		SelfDeclareDelay: c.SelfDeclareDelay,
		BotMoveDelay:     c.BotMoveDelay,
	}
}

func (c *Config) setHouseRules(rules game.HouseRules) {
	c.InitialHandSize = rules.InitialHandSize
	c.PenaltyDrawCount = rules.PenaltyDrawCount
	c.DeclareTimeout = rules.DeclareTimeout
	c.CatchDelay = rules.CatchDelay
	c.SelfDeclareDelay = rules.SelfDeclareDelay
	c.BotMoveDelay = rules.BotMoveDelay
}
