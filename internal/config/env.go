package config

import (
	"context"
	"strings"

	"github.com/sethvargo/go-envconfig"

	"autocontent/internal/faults"
)

// envOverrides lists the environment variables that take precedence over the
// config file. Empty values leave the file setting untouched.
type envOverrides struct {
	Home      string `env:"AUTOCONTENT_HOME"`
	LogLevel  string `env:"AUTOCONTENT_LOG_LEVEL"`
	LogFormat string `env:"AUTOCONTENT_LOG_FORMAT"`
	Importer  string `env:"AUTOCONTENT_IMPORTER"`
	LLMAPIKey string `env:"AUTOCONTENT_LLM_API_KEY"`

	// Provider keys are consulted only when llm.api_key is still empty.
	OpenRouterAPIKey string `env:"OPENROUTER_API_KEY"`
	OpenAIAPIKey     string `env:"OPENAI_API_KEY"`
}

func (c *Config) applyEnv(ctx context.Context) error {
	var env envOverrides
	if err := envconfig.Process(ctx, &env); err != nil {
		return faults.Wrap(faults.ErrConfiguration, "load environment", "process environment overrides", err)
	}
	c.overlay(env)
	return nil
}

func (c *Config) overlay(env envOverrides) {
	if value := strings.TrimSpace(env.Home); value != "" {
		c.Paths.HomeDir = value
	}
	if value := strings.TrimSpace(env.LogLevel); value != "" {
		c.Logging.Level = value
	}
	if value := strings.TrimSpace(env.LogFormat); value != "" {
		c.Logging.Format = value
	}
	if value := strings.TrimSpace(env.Importer); value != "" {
		c.Download.Importer = value
	}
	if value := strings.TrimSpace(env.LLMAPIKey); value != "" {
		c.LLM.APIKey = value
	}
	if strings.TrimSpace(c.LLM.APIKey) == "" {
		for _, value := range []string{env.OpenRouterAPIKey, env.OpenAIAPIKey} {
			if value = strings.TrimSpace(value); value != "" {
				c.LLM.APIKey = value
				break
			}
		}
	}
}
