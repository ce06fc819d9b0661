package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	c.normalizeHTTP()
	if err := c.normalizeLogging(); err != nil {
		return err
	}
	return c.normalizeJournal()
}

func (c *Config) normalizeHTTP() {
	c.HTTP.UserAgent = strings.TrimSpace(c.HTTP.UserAgent)
	if c.HTTP.UserAgent == "" {
		c.HTTP.UserAgent = defaultUserAgent
	}
}

func (c *Config) normalizeLogging() error {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	var err error
	if c.Logging.File, err = expandPath(strings.TrimSpace(c.Logging.File)); err != nil {
		return fmt.Errorf("logging.file: %w", err)
	}
	return nil
}

func (c *Config) normalizeJournal() error {
	var err error
	if strings.TrimSpace(c.Journal.Path) == "" {
		c.Journal.Path = defaultJournalPath()
	}
	if c.Journal.Path, err = expandPath(strings.TrimSpace(c.Journal.Path)); err != nil {
		return fmt.Errorf("journal.path: %w", err)
	}
	return nil
}
