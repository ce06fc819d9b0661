package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"stdlnotify/internal/config"
	"stdlnotify/internal/logging"
	"stdlnotify/internal/services"
	"stdlnotify/internal/stdl"
)

type commandContext struct {
	configFlag   *string
	logLevelFlag *string

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error
}

func newCommandContext(configFlag, logLevelFlag *string) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		logLevelFlag: logLevelFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, _, err := config.Load(path)
		if err != nil {
			c.configErr = services.Wrap(services.ErrConfiguration, "config", "load", resolved, err)
			return
		}
		if c.logLevelFlag != nil {
			if level := strings.ToLower(strings.TrimSpace(*c.logLevelFlag)); level != "" {
				cfg.Logging.Level = level
				if err := cfg.Validate(); err != nil {
					c.configErr = services.Wrap(services.ErrConfiguration, "config", "--log-level", "", err)
					return
				}
			}
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = services.Wrap(services.ErrConfiguration, "config", "prepare directories", "", err)
			return
		}
		c.config = cfg
		c.configPath = resolved
	})
	return c.config, c.configErr
}

// logger builds a logger that writes to the command's stderr.
func (c *commandContext) logger(cmd *cobra.Command) (*slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := logging.NewFromConfig(cfg, cmd.ErrOrStderr())
	if err != nil {
		return nil, fmt.Errorf("initialize logging: %w", err)
	}
	return logger, nil
}

// invocation stamps a fresh correlation ID and the endpoint onto the command
// context.
func (c *commandContext) invocation(cmd *cobra.Command, endpoint string) (context.Context, string) {
	base := cmd.Context()
	if base == nil {
		base = context.Background()
	}
	id := uuid.NewString()
	ctx := services.WithRequestID(base, id)
	ctx = services.WithEndpoint(ctx, endpoint)
	return ctx, id
}

func (c *commandContext) client(logger *slog.Logger) *stdl.Client {
	cfg := c.config
	opts := []stdl.Option{stdl.WithLogger(logger)}
	if cfg != nil {
		opts = append(opts,
			stdl.WithTimeout(cfg.RequestTimeout()),
			stdl.WithUserAgent(cfg.HTTP.UserAgent),
		)
	}
	return stdl.NewClient(opts...)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
