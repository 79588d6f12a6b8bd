package config

import (
	"context"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/secmon-lab/pulseboard/pkg/domain/interfaces"
	"github.com/secmon-lab/pulseboard/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// BoardConfig represents the optional board seed file: settings applied on
// startup before the server accepts traffic.
type BoardConfig struct {
	Settings []SettingSeed `toml:"setting"`
}

// SettingSeed is one key/value pair preloaded into the settings store
type SettingSeed struct {
	Key   string `toml:"key"`
	Value string `toml:"value"`
}

// Validate checks if the BoardConfig is valid
func (b *BoardConfig) Validate() error {
	seen := make(map[string]bool)
	for _, s := range b.Settings {
		if s.Key == "" {
			return goerr.Wrap(ErrInvalidConfig, "setting key is required")
		}
		if seen[s.Key] {
			return goerr.Wrap(ErrInvalidConfig, "duplicate setting key", goerr.V("key", s.Key))
		}
		seen[s.Key] = true
	}
	return nil
}

// LoadBoardConfig loads the board seed configuration from a TOML file
func LoadBoardConfig(path string) (*BoardConfig, error) {
	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, goerr.Wrap(ErrConfigNotFound, "board config file not found", goerr.V(ConfigPathKey, path))
		}
		return nil, goerr.Wrap(err, "failed to read board config", goerr.V(ConfigPathKey, path))
	}

	var cfg BoardConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, goerr.Wrap(err, "failed to parse TOML board config", goerr.V(ConfigPathKey, path))
	}

	if err := cfg.Validate(); err != nil {
		return nil, goerr.Wrap(err, "board config validation failed", goerr.V(ConfigPathKey, path))
	}

	return &cfg, nil
}

// Board holds the CLI flag for the board seed file
type Board struct {
	path string
}

// Flags returns CLI flags for the board seed configuration
func (b *Board) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "board-config",
			Usage:       "Path to TOML board seed file (preloads settings)",
			Sources:     cli.EnvVars("PULSEBOARD_BOARD_CONFIG"),
			Destination: &b.path,
		},
	}
}

// Apply loads the seed file when configured and upserts its settings.
// Existing values are overwritten; seeding is idempotent.
func (b *Board) Apply(ctx context.Context, repo interfaces.Repository) error {
	if b.path == "" {
		return nil
	}

	cfg, err := LoadBoardConfig(b.path)
	if err != nil {
		return err
	}

	for _, s := range cfg.Settings {
		if err := repo.Setting().Put(ctx, s.Key, s.Value); err != nil {
			return goerr.Wrap(err, "failed to seed setting", goerr.V("key", s.Key))
		}
	}

	logging.Default().Info("Board seed applied", "path", b.path, "settings", len(cfg.Settings))
	return nil
}
