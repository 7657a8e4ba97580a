package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"autocontent/internal/api"
	"autocontent/internal/language"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the transcript cache",
	}
	cacheCmd.AddCommand(newCacheListCommand(ctx))
	cacheCmd.AddCommand(newCacheClearCommand(ctx))
	return cacheCmd
}

func newCacheListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List cached transcripts",
		RunE: func(cmd *cobra.Command, args []string) error {
			runCtx, rt, err := ctx.start(cmd)
			if err != nil {
				return err
			}
			entries, err := api.ListCache(runCtx, rt)
			if err != nil {
				return err
			}
			return ctx.emit(cmd, entries, func() {
				out := cmd.OutOrStdout()
				if len(entries) == 0 {
					fmt.Fprintln(out, "Transcript cache is empty")
					return
				}
				rows := make([][]string, 0, len(entries))
				for _, e := range entries {
					rows = append(rows, []string{e.VideoID, language.DisplayName(e.Language), strconv.Itoa(e.Records), e.FetchedAt})
				}
				fmt.Fprintln(out, renderTable(tableSpec{
					Title:   rt.Config.CacheDBPath(),
					Headers: []string{"Video", "Language", "Records", "Fetched"},
					Rows:    rows,
					Aligns:  []columnAlignment{alignLeft, alignLeft, alignRight, alignLeft},
				}))
			})
		},
	}
}

func newCacheClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear [video-id]",
		Short: "Remove one video's cached transcripts, or all of them",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runCtx, rt, err := ctx.start(cmd)
			if err != nil {
				return err
			}
			var videoID string
			if len(args) == 1 {
				videoID = args[0]
			}
			removed, err := api.ClearCache(runCtx, rt, videoID)
			if err != nil {
				return err
			}
			return ctx.emit(cmd, map[string]int64{"removed": removed}, func() {
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d cached transcript(s)\n", removed)
			})
		},
	}
}
