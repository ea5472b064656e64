package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestStore_MissingFile(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "settings.yaml"))

	cfg, err := s.Read()
	if !errors.Is(err, ErrNoSettings) {
		t.Fatalf("Read error = %v, want ErrNoSettings", err)
	}
	if cfg != Default() {
		t.Errorf("Read = %+v, want defaults", cfg)
	}

	cfg, err = s.Load()
	if err != nil {
		t.Fatalf("Load with no file: %v", err)
	}
	if cfg.LogLevel != "info" || cfg.RollDelay != 600*time.Millisecond {
		t.Errorf("Load = %+v, want defaults", cfg)
	}
}

func TestStore_SaveAndRead(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "nested", "settings.yaml"))

	want := Default()
	want.Debug = true
	want.Seed = 42
	want.RollDelay = 250 * time.Millisecond
	want.ContentDir = "content"
	if err := s.Save(want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := s.Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got != want {
		t.Errorf("Read = %+v, want %+v", got, want)
	}
}

func TestStore_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	if err := os.WriteFile(path, []byte("log_level: debug\nroll_delay: 1s\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := NewStore(path).Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
	if cfg.RollDelay != time.Second {
		t.Errorf("RollDelay = %v, want 1s", cfg.RollDelay)
	}
	if cfg.SaveDir != "saves" || cfg.LogFormat != "console" {
		t.Errorf("defaults lost: %+v", cfg)
	}
}

func TestStore_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	if err := os.WriteFile(path, []byte("debug: [unclosed\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := NewStore(path).Load(); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestStore_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	s := NewStore(path)
	cfg := Default()
	cfg.LogLevel = "warn"
	cfg.Seed = 1
	if err := s.Save(cfg); err != nil {
		t.Fatal(err)
	}

	t.Setenv("DICEARENA_LOG_LEVEL", "debug")
	t.Setenv("DICEARENA_SEED", "99")
	t.Setenv("DICEARENA_ROLL_DELAY", "10ms")

	got, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.LogLevel != "debug" || got.Seed != 99 || got.RollDelay != 10*time.Millisecond {
		t.Errorf("Load = %+v, want env overrides", got)
	}

	// Env overrides stay out of the file.
	file, err := s.Read()
	if err != nil {
		t.Fatal(err)
	}
	if file.LogLevel != "warn" || file.Seed != 1 {
		t.Errorf("file settings = %+v", file)
	}
}

func TestApplyEnv_BadValue(t *testing.T) {
	t.Setenv("DICEARENA_SEED", "not-a-number")
	cfg := Default()
	if err := ApplyEnv(&cfg); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestStore_Update(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "settings.yaml"))
	t.Setenv("DICEARENA_LOG_FORMAT", "json")

	if err := s.Update(func(c *Config) { c.Debug = true }); err != nil {
		t.Fatalf("Update: %v", err)
	}
	cfg, err := s.Read()
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.Debug {
		t.Error("debug toggle not persisted")
	}
	if cfg.LogFormat != "console" {
		t.Errorf("LogFormat = %q, env override leaked into the file", cfg.LogFormat)
	}

	if err := s.Update(func(c *Config) { c.Debug = !c.Debug }); err != nil {
		t.Fatal(err)
	}
	if cfg, _ := s.Read(); cfg.Debug {
		t.Error("second toggle not persisted")
	}
}
