package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"autocontent/internal/api"
	"autocontent/internal/logging"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show dependency, directory and service readiness",
		RunE: func(cmd *cobra.Command, args []string) error {
			runCtx, rt, err := ctx.start(cmd)
			if err != nil {
				return err
			}
			report, err := api.CollectStatus(runCtx, rt)
			if err != nil {
				return err
			}
			return ctx.emit(cmd, report, func() {
				colorize := logging.IsTerminal(cmd.OutOrStdout())
				fmt.Fprintln(cmd.OutOrStdout(), renderStatus(report, colorize))
			})
		},
	}
}

func renderStatus(report api.StatusReport, colorize bool) string {
	sheet := &statusSheet{color: colorize}
	sheet.section("Paths")
	sheet.row("Home", statusInfo, report.HomeDir)
	sheet.row("Importer", statusInfo, report.Importer)
	cache := "disabled"
	if report.CachePath != "" {
		cache = fmt.Sprintf("%s (%d entries)", report.CachePath, report.CacheEntries)
	}
	sheet.row("Transcript cache", statusInfo, cache)

	sheet.section("Dependencies")
	for _, dep := range report.Dependencies {
		kind, message := dependencyLine(dep)
		sheet.row(dep.Name, kind, message)
	}

	sheet.section("Checks")
	for _, check := range report.Checks {
		kind := statusOK
		switch {
		case check.Skipped:
			kind = statusWarn
		case !check.Passed:
			kind = statusError
		}
		sheet.row(check.Name, kind, check.Detail)
	}

	sheet.section("Summary")
	if report.Healthy() {
		sheet.row("Overall", statusOK, "ready")
	} else {
		sheet.row("Overall", statusError, "not ready")
	}
	return sheet.String()
}

func dependencyLine(dep api.DependencyStatus) (statusKind, string) {
	if dep.Available {
		message := dep.Path
		if dep.Version != "" {
			message = dep.Version
		}
		return statusOK, message
	}
	detail := dep.Detail
	if detail == "" {
		detail = "not found"
	}
	if dep.Optional {
		return statusWarn, detail + " (optional)"
	}
	return statusError, detail
}
