package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"autocontent/internal/config"
	"autocontent/internal/faults"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Create or check the configuration file",
	}
	configCmd.AddCommand(newConfigInitCommand(), newConfigValidateCommand(ctx))
	return configCmd
}

type configInitOptions struct {
	path      string
	overwrite bool
}

func newConfigInitCommand() *cobra.Command {
	var opts configInitOptions
	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Write a commented sample configuration",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := opts.target()
			if err != nil {
				return err
			}
			if err := config.CreateSample(target); err != nil {
				return faults.Wrap(faults.ErrConfiguration, "config init", "write sample", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)
			fmt.Fprintln(out, "Set llm.api_key (or export OPENROUTER_API_KEY) to enable suggest-titles.")
			return nil
		},
	}
	cmd.Flags().StringVarP(&opts.path, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&opts.overwrite, "overwrite", false, "Replace an existing configuration file")
	return cmd
}

// target resolves the destination and refuses to clobber an existing file
// unless overwrite is set.
func (o configInitOptions) target() (string, error) {
	resolve := config.ExpandPath
	path := strings.TrimSpace(o.path)
	if path == "" {
		resolve = func(string) (string, error) { return config.DefaultConfigPath() }
	}
	target, err := resolve(path)
	if err != nil {
		return "", faults.Wrap(faults.ErrConfiguration, "config init", "resolve path", err)
	}
	if o.overwrite {
		return target, nil
	}
	switch _, err := os.Stat(target); {
	case err == nil:
		return "", faults.Wrap(faults.ErrFileExists, "config init",
			fmt.Sprintf("%s already exists (use --overwrite to replace it)", target), nil)
	case !errors.Is(err, fs.ErrNotExist):
		return "", faults.Wrap(faults.ErrConfiguration, "config init", "inspect "+target, err)
	}
	return target, nil
}

func newConfigValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "validate",
		Short:       "Load the configuration and create its directories",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, exists, err := config.Load(strings.TrimSpace(ctx.configFlag))
			if err != nil {
				return err
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return faults.Wrap(faults.ErrConfiguration, "config validate", "ensure directories", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config path: %s\n", path)
			if !exists {
				fmt.Fprintln(out, "No config file found; built-in defaults apply")
			}
			fmt.Fprintln(out, "Configuration valid")
			return nil
		},
	}
}
