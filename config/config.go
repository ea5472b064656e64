// Package config resolves runtime settings: built-in defaults, then the
// YAML settings file, then DICEARENA_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v2"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "DICEARENA_"

// ErrNoSettings is returned when the settings file does not exist.
var ErrNoSettings = errors.New("no settings file")

// Config is the explicit configuration object handed to every component.
type Config struct {
	Debug      bool          `yaml:"debug" env:"DEBUG"`
	LogLevel   string        `yaml:"log_level" env:"LOG_LEVEL"`
	LogFormat  string        `yaml:"log_format" env:"LOG_FORMAT"`
	LogFile    string        `yaml:"log_file,omitempty" env:"LOG_FILE"`
	Seed       int64         `yaml:"seed,omitempty" env:"SEED"`
	RollDelay  time.Duration `yaml:"roll_delay" env:"ROLL_DELAY"`
	ContentDir string        `yaml:"content_dir,omitempty" env:"CONTENT_DIR"`
	SaveDir    string        `yaml:"save_dir" env:"SAVE_DIR"`
	ProgressDB string        `yaml:"progress_db" env:"PROGRESS_DB"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		LogLevel:   "info",
		LogFormat:  "console",
		RollDelay:  600 * time.Millisecond,
		SaveDir:    "saves",
		ProgressDB: "dicearena.db",
	}
}

// DefaultPath returns the per-user settings file location.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "dicearena.yaml"
	}
	return filepath.Join(dir, "dicearena", "settings.yaml")
}

// ApplyEnv overlays DICEARENA_* variables onto cfg.
func ApplyEnv(cfg *Config) error {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Store reads and writes one settings file. It is safe for concurrent use.
type Store struct {
	mu   sync.Mutex
	path string
}

// NewStore returns a store for the settings file at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the settings file location.
func (s *Store) Path() string { return s.path }

// Read returns the defaults overlaid with the settings file, without
// environment overrides. A missing file yields the defaults and
// ErrNoSettings.
func (s *Store) Read() (Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

func (s *Store) read() (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, ErrNoSettings
	}
	if err != nil {
		return cfg, fmt.Errorf("reading settings %s: %w", s.path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing settings %s: %w", s.path, err)
	}
	return cfg, nil
}

// Load resolves the effective configuration: defaults, then the settings
// file if present, then the environment. Calling it again reloads.
func (s *Store) Load() (Config, error) {
	cfg, err := s.Read()
	if err != nil && !errors.Is(err, ErrNoSettings) {
		return cfg, err
	}
	if err := ApplyEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Save writes cfg to the settings file, creating its directory.
func (s *Store) Save(cfg Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(cfg)
}

func (s *Store) write(cfg Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating settings directory: %w", err)
		}
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("writing settings %s: %w", s.path, err)
	}
	return nil
}

// Update applies fn to the file settings and writes them back. Environment
// overrides are never persisted.
func (s *Store) Update(fn func(*Config)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cfg, err := s.read()
	if err != nil && !errors.Is(err, ErrNoSettings) {
		return err
	}
	fn(&cfg)
	return s.write(cfg)
}
