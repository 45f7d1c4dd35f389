package bot

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config is the top-level bot configuration, read from the environment.
// Module-specific settings live with their modules.
type Config struct {
	// DiscordToken authenticates the gateway session.
	DiscordToken string `env:"DISCORD_TOKEN,notEmpty"`
}

// LoadConfig reads Config from the environment. A missing required value is
// an error.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse bot config: %w", err)
	}
	return &cfg, nil
}
