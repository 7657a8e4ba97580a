package main

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"autocontent/internal/api"
	"autocontent/internal/config"
	"autocontent/internal/faults"
	"autocontent/internal/logging"
)

type commandContext struct {
	configFlag   string
	logLevelFlag string
	jsonFlag     bool

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger

	// overrideRuntime lets tests swap collaborators before a workflow runs.
	overrideRuntime func(*api.Runtime)
}

func newCommandContext() *commandContext {
	return &commandContext{}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, path, _, err := config.Load(strings.TrimSpace(c.configFlag))
		if err != nil {
			c.configErr = err
			return
		}
		if level := strings.TrimSpace(c.logLevelFlag); level != "" {
			cfg.Logging.Level = level
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = faults.Wrap(faults.ErrConfiguration, "ensure directories", "", err)
			return
		}
		c.config = cfg
		c.configPath = path
	})
	return c.config, c.configErr
}

func (c *commandContext) baseLogger(cmd *cobra.Command) *slog.Logger {
	c.loggerOnce.Do(func() {
		logger, err := logging.NewFromConfig(c.config, cmd.ErrOrStderr())
		if err != nil {
			logger = logging.NewNop()
		}
		if c.config != nil {
			logging.PruneLogs(logger, c.config.Paths.LogDir, c.config.Logging.RetentionDays, time.Now())
		}
		c.logger = logger
	})
	return c.logger
}

// start tags the command context with the command name and a fresh run id
// and returns the workflow runtime bound to it.
func (c *commandContext) start(cmd *cobra.Command) (context.Context, api.Runtime, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, api.Runtime{}, err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = logging.WithCommand(ctx, cmd.Name())
	ctx = logging.WithRunID(ctx, uuid.NewString())

	rt := api.Runtime{
		Config: cfg,
		Logger: logging.WithContext(ctx, c.baseLogger(cmd)),
	}
	if c.overrideRuntime != nil {
		c.overrideRuntime(&rt)
	}
	return ctx, rt, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func requireFlag(cmd *cobra.Command, name, value string) error {
	if strings.TrimSpace(value) == "" {
		return faults.Wrap(faults.ErrValidation, cmd.CommandPath(), "--"+name+" is required", nil)
	}
	return nil
}

// requireFlags checks name/value pairs in order.
func requireFlags(cmd *cobra.Command, pairs ...string) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		if err := requireFlag(cmd, pairs[i], pairs[i+1]); err != nil {
			return err
		}
	}
	return nil
}
