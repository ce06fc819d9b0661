package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateHTTP(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return c.validateJournal()
}

func (c *Config) validateHTTP() error {
	if c.HTTP.RequestTimeout < 0 {
		return errors.New("http.request_timeout must be >= 0 (0 disables the timeout)")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(strings.TrimSpace(c.Logging.Level)) {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level: unsupported value %q (use debug, info, warn, or error)", c.Logging.Level)
	}
}

func (c *Config) validateJournal() error {
	if c.Journal.Enabled && strings.TrimSpace(c.Journal.Path) == "" {
		return errors.New("journal.path must be set when journal.enabled is true")
	}
	return nil
}
