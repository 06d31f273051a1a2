package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"countries-trivia/internal/domain"
)

// Player is one roster entry with its delivery credentials.
type Player struct {
	Name   string `yaml:"name"`
	Token  string `yaml:"token"`
	ChatID string `yaml:"chat_id"`
}

type Config struct {
	Telegram struct {
		APIBase string `yaml:"api_base"`
	} `yaml:"telegram"`
	Game struct {
		BankPath          string `yaml:"bank_path"`
		Questions         int    `yaml:"questions"`
		InitTimeLimit     string `yaml:"init_time_limit"`
		ResponseTimeLimit string `yaml:"response_time_limit"`
		PollInterval      string `yaml:"poll_interval"`
		PoolSize          int    `yaml:"pool_size"`
	} `yaml:"game"`
	Players  []Player `yaml:"players"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
}

// Load reads YAML config from path and validates the roster. A player
// without credentials is a startup failure, before any session begins.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if cfg.Game.Questions <= 0 {
		cfg.Game.Questions = 5
	}
	if cfg.Game.PoolSize <= 0 {
		cfg.Game.PoolSize = 4
	}
	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if len(c.Players) == 0 {
		return fmt.Errorf("no players configured")
	}
	for _, player := range c.Players {
		if player.Name == "" {
			return fmt.Errorf("player with empty name")
		}
		if player.Token == "" || player.ChatID == "" {
			return fmt.Errorf("%w: %s", domain.ErrNoCredentials, player.Name)
		}
	}
	return nil
}

// Roster maps the configured players to domain participants.
func (c Config) Roster() []domain.Participant {
	roster := make([]domain.Participant, 0, len(c.Players))
	for _, player := range c.Players {
		roster = append(roster, domain.Participant{
			Name:    player.Name,
			Address: domain.Address{Token: player.Token, ChatID: player.ChatID},
		})
	}
	return roster
}

// Duration parses a duration string or returns the fallback if empty
// or invalid.
func Duration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
