package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Config is exesctl's environment configuration. Flags override it.
type Config struct {
	APIURL string `env:"EXES_API_URL, default=http://localhost:8080"`
	// SessionDir holds the Badger session database; defaults to ~/.exes/session.
	SessionDir string        `env:"EXES_SESSION_DIR"`
	Timeout    time.Duration `env:"EXES_TIMEOUT, default=15s"`
}

func LoadConfig(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("load cli config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) sessionDir() (string, error) {
	if c.SessionDir != "" {
		return c.SessionDir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve session dir: %w", err)
	}
	return filepath.Join(home, ".exes", "session"), nil
}
