// Package config resolves where ziprune keeps its state and loads user settings.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/ilyakaznacheev/cleanenv"
)

const appName = "ziprune"

// Config holds the user-tunable settings. Values come from an optional YAML
// file; environment variables override them.
type Config struct {
	// DBPath overrides the index store location.
	DBPath string `yaml:"db_path" env:"ZIPRUNE_DB" env-default:""`

	// MinConfidence is the default reporting threshold for redundant archives.
	MinConfidence float64 `yaml:"min_confidence" env:"ZIPRUNE_MIN_CONFIDENCE" env-default:"0.9"`

	// BatchSize is the number of files indexed between commits.
	BatchSize int `yaml:"batch_size" env:"ZIPRUNE_BATCH_SIZE" env-default:"1000"`

	// Exclude lists doublestar patterns, relative to the scanned root, that the indexer skips.
	Exclude []string `yaml:"exclude" env:"ZIPRUNE_EXCLUDE" env-separator:","`

	LogLevel string `yaml:"log_level" env:"ZIPRUNE_LOG_LEVEL" env-default:"info"`
	LogFile  string `yaml:"log_file" env:"ZIPRUNE_LOG_FILE" env-default:""`
}

// Load reads the config file when present and applies environment overrides.
func Load() (*Config, error) {
	cfg := &Config{}

	path := GetConfigPath()
	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
	} else {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to stat %s: %w", path, err)
		}
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if cfg.DBPath == "" {
		cfg.DBPath = GetDBPath()
	}
	return cfg, nil
}

// Validate checks ranges that cleanenv cannot express.
func (c *Config) Validate() error {
	if !(c.MinConfidence >= 0 && c.MinConfidence <= 1) {
		return fmt.Errorf("min_confidence must be within [0,1], got %v", c.MinConfidence)
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("batch_size must be positive, got %d", c.BatchSize)
	}
	for _, pattern := range c.Exclude {
		if strings.TrimSpace(pattern) == "" {
			return errors.New("exclude patterns must not be empty")
		}
	}
	return nil
}

// GetDataDir resolves the base directory for ziprune state. ZIPRUNE_DIR wins,
// then the XDG data home, then the user's home directory.
func GetDataDir() string {
	if explicit := os.Getenv("ZIPRUNE_DIR"); explicit != "" {
		return explicit
	}

	xdg.Reload()

	dataHome := xdg.DataHome
	if dataHome == "" {
		home := xdg.Home
		if home == "" {
			var err error
			home, err = os.UserHomeDir()
			if err != nil {
				return filepath.Join(os.TempDir(), appName)
			}
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	return filepath.Join(dataHome, appName)
}

// GetDBPath returns the default path of the SQLite index store.
func GetDBPath() string {
	return filepath.Join(GetDataDir(), "file_index.db")
}

// GetConfigPath returns the location of the optional YAML config file.
func GetConfigPath() string {
	if explicit := os.Getenv("ZIPRUNE_CONFIG"); explicit != "" {
		return explicit
	}

	xdg.Reload()
	return filepath.Join(xdg.ConfigHome, appName, "config.yaml")
}
