package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	apperrors "pomodoro/internal/platform/errors"
)

const appName = "pomodoro"

const (
	DefaultFocusDuration = 25 * time.Minute
	DefaultBreakDuration = 5 * time.Minute
)

type Config struct {
	FocusDuration time.Duration `env:"POMODORO_FOCUS_DURATION"`
	BreakDuration time.Duration `env:"POMODORO_BREAK_DURATION"`
	HooksDir      string        `env:"POMODORO_HOOKS_DIR"`
	DBPath        string        `env:"POMODORO_DB_PATH"`
	ConfigPath    string        `env:"POMODORO_CONFIG"`
}

// fileConfig mirrors config.yaml. Durations use Go syntax ("25m", "1h30m").
type fileConfig struct {
	FocusDuration *Duration `yaml:"focus_duration"`
	BreakDuration *Duration `yaml:"break_duration"`
	HooksDir      string    `yaml:"hooks_dir"`
	DBPath        string    `yaml:"db_path"`
}

type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var raw string
	if err := node.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", raw, err)
	}
	d.Duration = parsed
	return nil
}

// Default returns the built-in configuration. Paths are resolved from the
// XDG base directories; an unresolvable home leaves them relative.
func Default() Config {
	configDir := configHome()
	return Config{
		FocusDuration: DefaultFocusDuration,
		BreakDuration: DefaultBreakDuration,
		HooksDir:      filepath.Join(configDir, appName, "hooks"),
		DBPath:        filepath.Join(stateHome(), appName, "state.db"),
		ConfigPath:    filepath.Join(configDir, appName, "config.yaml"),
	}
}

// Load reads the YAML config file (path overrides the default location when
// non-empty) and then applies POMODORO_* environment overrides. A missing
// file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		cfg.ConfigPath = path
	} else if fromEnv := os.Getenv("POMODORO_CONFIG"); fromEnv != "" {
		cfg.ConfigPath = fromEnv
	}

	if err := cfg.applyFile(cfg.ConfigPath); err != nil {
		return Config{}, err
	}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if path != "" {
		cfg.ConfigPath = path
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyFile(path string) error {
	payload, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config file: %w", err)
	}
	decoded := fileConfig{}
	if err := yaml.Unmarshal(payload, &decoded); err != nil {
		return fmt.Errorf("decode config file: %w", err)
	}
	if decoded.FocusDuration != nil {
		c.FocusDuration = decoded.FocusDuration.Duration
	}
	if decoded.BreakDuration != nil {
		c.BreakDuration = decoded.BreakDuration.Duration
	}
	if decoded.HooksDir != "" {
		c.HooksDir = decoded.HooksDir
	}
	if decoded.DBPath != "" {
		c.DBPath = decoded.DBPath
	}
	return nil
}

func (c Config) Validate() error {
	if c.FocusDuration < 0 {
		return fmt.Errorf("%w: focus duration must be non-negative", apperrors.ErrInvalidInput)
	}
	if c.BreakDuration < 0 {
		return fmt.Errorf("%w: break duration must be non-negative", apperrors.ErrInvalidInput)
	}
	return nil
}

func configHome() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); filepath.IsAbs(dir) {
		return dir
	}
	if dir, err := os.UserConfigDir(); err == nil {
		return dir
	}
	return "."
}

func stateHome() string {
	if dir := os.Getenv("XDG_STATE_HOME"); filepath.IsAbs(dir) {
		return dir
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "state")
	}
	return "."
}
