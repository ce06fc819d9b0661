package config

const (
	defaultConfigPath      = "~/.config/stdlnotify/config.toml"
	defaultJournalFallback = "~/.local/share/stdlnotify/journal.db"
	defaultUserAgent       = "stdlnotify/0.1.0"
	defaultLogFormat       = "console"
	// Warn keeps a successful run quiet on stderr.
	defaultLogLevel = "warn"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		HTTP: HTTP{
			UserAgent: defaultUserAgent,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		Journal: Journal{
			Path: defaultJournalPath(),
		},
	}
}
