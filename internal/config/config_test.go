package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"

	"stdlnotify/internal/config"
)

func TestLoadWithoutFileUsesDefaults(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("XDG_DATA_HOME", "")
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}
	wantResolved := filepath.Join(tempHome, ".config", "stdlnotify", "config.toml")
	if resolved != wantResolved {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, wantResolved)
	}
	if cfg.Logging.Level != "warn" {
		t.Fatalf("expected warn default level, got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "console" {
		t.Fatalf("expected console default format, got %q", cfg.Logging.Format)
	}
	if cfg.RequestTimeout() != 0 {
		t.Fatalf("expected no request timeout by default, got %s", cfg.RequestTimeout())
	}
	if cfg.Journal.Enabled {
		t.Fatal("expected journal disabled by default")
	}
	wantJournal := filepath.Join(tempHome, ".local", "share", "stdlnotify", "journal.db")
	if cfg.Journal.Path != wantJournal {
		t.Fatalf("unexpected journal path: got %q want %q", cfg.Journal.Path, wantJournal)
	}
	if cfg.HTTP.UserAgent == "" {
		t.Fatal("expected default user agent")
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "stdlnotify.toml")

	type payload struct {
		HTTP struct {
			RequestTimeout int    `toml:"request_timeout"`
			UserAgent      string `toml:"user_agent"`
		} `toml:"http"`
		Logging struct {
			Format string `toml:"format"`
			Level  string `toml:"level"`
			File   string `toml:"file"`
		} `toml:"logging"`
		Journal struct {
			Enabled bool   `toml:"enabled"`
			Path    string `toml:"path"`
		} `toml:"journal"`
	}
	custom := payload{}
	custom.HTTP.RequestTimeout = 15
	custom.HTTP.UserAgent = "  vtask-runner/2  "
	custom.Logging.Format = "JSON"
	custom.Logging.Level = "Debug"
	custom.Logging.File = filepath.Join(tempDir, "logs", "notify.log")
	custom.Journal.Enabled = true
	custom.Journal.Path = filepath.Join(tempDir, "data", "journal.db")
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.RequestTimeout() != 15*time.Second {
		t.Fatalf("expected 15s timeout, got %s", cfg.RequestTimeout())
	}
	if cfg.HTTP.UserAgent != "vtask-runner/2" {
		t.Fatalf("expected trimmed user agent, got %q", cfg.HTTP.UserAgent)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("expected normalized logging settings, got %+v", cfg.Logging)
	}
	if !cfg.Journal.Enabled || cfg.Journal.Path != custom.Journal.Path {
		t.Fatalf("unexpected journal settings: %+v", cfg.Journal)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{filepath.Join(tempDir, "logs"), filepath.Join(tempDir, "data")} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
}

func TestLoadMissingExplicitPathFallsBackToDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.toml")
	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("expected exists to be false")
	}
	if resolved != path {
		t.Fatalf("unexpected resolved path: %q", resolved)
	}
	if cfg.Logging.Level != "warn" {
		t.Fatalf("expected default level, got %q", cfg.Logging.Level)
	}
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.toml")
	if err := os.WriteFile(path, []byte("[http\nrequest_timeout = "), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(path); err == nil || !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestLoadIgnoresWorkingDirectoryFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_DATA_HOME", "")
	workDir := t.TempDir()
	t.Chdir(workDir)
	if err := os.WriteFile(filepath.Join(workDir, "stdlnotify.toml"), []byte("[http\nbroken"), 0o644); err != nil {
		t.Fatalf("write stray config: %v", err)
	}

	cfg, _, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("working directory file must not be picked up")
	}
	if cfg.Logging.Level != "warn" {
		t.Fatalf("expected defaults, got level %q", cfg.Logging.Level)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(contents), "stdlnotify <endpoint>") {
		t.Fatalf("sample config missing usage hint: %s", contents)
	}

	var cfg config.Config
	if err := toml.Unmarshal(contents, &cfg); err != nil {
		t.Fatalf("unmarshal sample: %v", err)
	}
	if cfg.Logging.Level != "warn" {
		t.Fatalf("expected sample level warn, got %q", cfg.Logging.Level)
	}
	if cfg.Journal.Enabled {
		t.Fatal("expected sample journal disabled")
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	cfg := config.Default()
	cfg.HTTP.RequestTimeout = -1
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for negative timeout")
	}

	cfg = config.Default()
	cfg.Logging.Level = "verbose"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown log level")
	}

	cfg = config.Default()
	cfg.Journal.Enabled = true
	cfg.Journal.Path = " "
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error when journal enabled without path")
	}

	cfg = config.Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
}
