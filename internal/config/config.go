package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
)

type AppConfig struct {
	Addr string

	RedisURL    string
	ResolverURL string

	CellSize        int
	InitialPosition string
	SessionTTLSec   int

	MessageOverrideDir string
}

func Load() (*AppConfig, error) {
	cfg := &AppConfig{
		Addr:          ":8080",
		CellSize:      90,
		SessionTTLSec: 3600,
	}

	if v := strings.TrimSpace(os.Getenv("ADDR")); v != "" {
		cfg.Addr = v
	}

	cfg.RedisURL = strings.TrimSpace(os.Getenv("REDIS_URL"))
	cfg.ResolverURL = strings.TrimSpace(os.Getenv("RESOLVER_URL"))
	cfg.InitialPosition = strings.TrimSpace(os.Getenv("INITIAL_POSITION"))
	cfg.MessageOverrideDir = strings.TrimSpace(os.Getenv("MESSAGE_OVERRIDE_DIR"))

	if v := strings.TrimSpace(os.Getenv("CELL_SIZE")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.CellSize = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("SESSION_TTL")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.SessionTTLSec = n
		}
	}

	if cfg.RedisURL == "" {
		return nil, errors.New("REDIS_URL is required")
	}

	return cfg, nil
}
