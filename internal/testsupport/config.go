package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"stdlnotify/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config rooted in a per-test temp directory. The
// journal is disabled unless WithJournal is applied.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Journal.Path = filepath.Join(base, "data", "journal.db")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithJournal enables the delivery journal inside the test directory.
func WithJournal() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Journal.Enabled = true
	}
}

// WithJournalPath points the journal at path.
func WithJournalPath(path string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Journal.Path = path
	}
}

// WriteConfig encodes cfg as TOML under a fresh temp dir and returns the
// file path, suitable for --config.
func WriteConfig(t testing.TB, cfg *config.Config) string {
	t.Helper()

	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("encode config: %v", err)
	}
	path := filepath.Join(t.TempDir(), "stdlnotify.toml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}
