package main

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config is the sandbox configuration. Environment variables set the
// defaults and command line flags override them.
type Config struct {
	Level           string `env:"DROPLET_LEVEL" envDefault:"course"`
	Prefab          string `env:"DROPLET_PREFAB" envDefault:"droplet.yaml"`
	Contexts        string `env:"DROPLET_CONTEXTS"`
	Watch           bool   `env:"DROPLET_WATCH"`
	Debug           bool   `env:"DROPLET_DEBUG"`
	InfiniteStamina bool   `env:"DROPLET_INFINITE_STAMINA"`
	NoTimeLimit     bool   `env:"DROPLET_NO_TIME_LIMIT"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}
