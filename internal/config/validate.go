package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"autocontent/internal/faults"
)

var (
	validateOnce sync.Once
	structCheck  *validator.Validate
)

// structValidator reports field errors by their TOML key path.
func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		structCheck = validator.New(validator.WithRequiredStructEnabled())
		structCheck.RegisterTagNameFunc(func(field reflect.StructField) string {
			name, _, _ := strings.Cut(field.Tag.Get("toml"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return structCheck
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateFields(); err != nil {
		return err
	}
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateSilence(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateFields() error {
	err := structValidator().Struct(c)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return faults.Wrap(faults.ErrConfiguration, "validate config", "invalid configuration", err)
	}
	first := fieldErrs[0]
	return faults.Wrap(faults.ErrConfiguration, "validate config", describeFieldError(first), nil)
}

func describeFieldError(fe validator.FieldError) string {
	key := fe.Namespace()
	if _, rest, ok := strings.Cut(key, "."); ok {
		key = rest
	}
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s must be set", key)
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %v", key, fe.Param(), fe.Value())
	case "min":
		return fmt.Sprintf("%s must include at least %s entries", key, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", key, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be >= %s", key, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be <= %s", key, fe.Param())
	case "url":
		return fmt.Sprintf("%s must be a valid URL", key)
	default:
		return fmt.Sprintf("%s failed %s validation", key, fe.Tag())
	}
}

// validatePaths keeps generated output under the home root.
func (c *Config) validatePaths() error {
	for _, field := range []struct {
		name  string
		value string
	}{
		{"paths.subs_dir", c.Paths.SubsDir},
		{"paths.sources_dir", c.Paths.SourcesDir},
	} {
		rel, err := filepath.Rel(c.Paths.HomeDir, field.value)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return faults.Wrap(faults.ErrConfiguration, "validate config", fmt.Sprintf("%s must be inside paths.home_dir (%s)", field.name, c.Paths.HomeDir), nil)
		}
	}
	return nil
}

func (c *Config) validateSilence() error {
	if c.Silence.WindowSeconds*float64(c.Silence.SampleRate) < 1 {
		return faults.Wrap(faults.ErrConfiguration, "validate config", "silence.window_seconds must cover at least one sample at silence.sample_rate", nil)
	}
	return nil
}
