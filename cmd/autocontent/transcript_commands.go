package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"autocontent/internal/api"
	"autocontent/internal/subtitles"
	"autocontent/internal/timecode"
	"autocontent/internal/transcript"
)

func newPullCommand(ctx *commandContext) *cobra.Command {
	var req api.PullRequest

	cmd := &cobra.Command{
		Use:   "pull",
		Short: "Download a video's transcript as JSON into the subtitles directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireFlag(cmd, "video-id", req.Video); err != nil {
				return err
			}
			runCtx, rt, err := ctx.start(cmd)
			if err != nil {
				return err
			}
			res, err := api.Pull(runCtx, rt, req)
			if err != nil {
				return err
			}
			return ctx.emit(cmd, res, func() {
				fmt.Fprintf(cmd.OutOrStdout(), "Saved to: %s (%d records)\n", res.Path, res.Records)
			})
		},
	}

	cmd.Flags().StringVarP(&req.Video, "video-id", "i", "", "YouTube video id or URL")
	addOutputFlags(cmd, &req.Output, &req.Force, "Output name or path (default <subs_dir>/<video-id>.json)")
	return cmd
}

func newConvertCommand(ctx *commandContext) *cobra.Command {
	var req api.ConvertRequest
	var watch bool
	var watchDir string

	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert a JSON transcript into txt, srt or compressed text",
		Long: "Convert a JSON transcript into txt, srt or compressed text next to the source.\n\n" +
			"With --watch, every JSON transcript created in --dir (default subs_dir) is converted until interrupted.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !watch {
				if err := requireFlag(cmd, "source", req.Source); err != nil {
					return err
				}
			}
			runCtx, rt, err := ctx.start(cmd)
			if err != nil {
				return err
			}
			if watch {
				out := cmd.OutOrStdout()
				return api.WatchConvert(runCtx, rt, api.WatchRequest{
					Dir:         watchDir,
					Format:      req.Format,
					Restructure: req.Restructure,
					Force:       req.Force,
					OnConverted: func(res api.TranscriptResult) {
						fmt.Fprintf(out, "Converted %s -> %s\n", res.Source, res.Path)
					},
				})
			}
			res, err := api.Convert(runCtx, rt, req)
			if err != nil {
				return err
			}
			return ctx.emit(cmd, res, func() {
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Source file: %s\nTarget file: %s\n", res.Source, res.Path)
			})
		},
	}

	cmd.Flags().StringVarP(&req.Source, "source", "s", "", "Path to a transcript in JSON format")
	addFormatFlag(cmd, &req.Format)
	cmd.Flags().IntVar(&req.Restructure, "restructure", 0, "Rewrap every caption onto this many lines (1-9)")
	cmd.Flags().BoolVar(&watch, "watch", false, "Convert new JSON transcripts as they appear")
	cmd.Flags().StringVar(&watchDir, "dir", "", "Directory to watch (default subs_dir)")
	addOutputFlags(cmd, &req.Output, &req.Force, "Output path (default next to the source)")
	return cmd
}

func newChunkCommand(ctx *commandContext) *cobra.Command {
	var req api.ChunkRequest

	cmd := &cobra.Command{
		Use:   "chunk",
		Short: "Cut a time range out of a JSON transcript",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireFlags(cmd, "source", req.Source, "t1", req.Start, "t2", req.End); err != nil {
				return err
			}
			runCtx, rt, err := ctx.start(cmd)
			if err != nil {
				return err
			}
			res, err := api.Chunk(runCtx, rt, req)
			if err != nil {
				return err
			}
			return ctx.emit(cmd, res, func() {
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote to: %s (%d records)\n", res.Path, res.Records)
			})
		},
	}

	cmd.Flags().StringVarP(&req.Source, "source", "s", "", "Path to a transcript in JSON format")
	cmd.Flags().StringVarP(&req.Start, "t1", "a", "", "Left time bracket in seconds or HH:MM:SS")
	cmd.Flags().StringVarP(&req.End, "t2", "b", "", "Right time bracket in seconds or HH:MM:SS")
	addFormatFlag(cmd, &req.Format)
	cmd.Flags().BoolVar(&req.Shift, "shift", false, "Shift timestamps so the chunk starts at zero")
	cmd.Flags().IntVar(&req.Restructure, "restructure", 0, "Rewrap every caption onto this many lines (1-9)")
	addOutputFlags(cmd, &req.Output, &req.Force, "Output path (default <source>_chunk_<t1>_<t2>.<fmt>)")
	return cmd
}

func newShowCommand(ctx *commandContext) *cobra.Command {
	var source string
	var format string
	var limit int

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print a JSON transcript as a table or in a subtitle format",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireFlag(cmd, "source", source); err != nil {
				return err
			}
			runCtx, rt, err := ctx.start(cmd)
			if err != nil {
				return err
			}
			t, err := api.LoadTranscript(runCtx, rt, source)
			if err != nil {
				return err
			}
			records := t.Records()
			if limit > 0 && len(records) > limit {
				records = records[:limit]
			}
			if ctx.jsonFlag {
				return writeJSON(cmd, records)
			}
			out := cmd.OutOrStdout()
			if format != "" {
				f, err := subtitles.ParseFormat(format)
				if err != nil {
					return err
				}
				content, err := subtitles.Render(records, f)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, content)
				return nil
			}
			fmt.Fprintln(out, renderTable(recordTable(t.Path(), records, t.Len())))
			return nil
		},
	}

	cmd.Flags().StringVarP(&source, "source", "s", "", "Path to a transcript in JSON format")
	cmd.Flags().StringVarP(&format, "fmt", "t", "", "Print in this subtitle format instead of a table")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Show at most this many records")
	return cmd
}

func recordTable(path string, records []transcript.Record, total int) tableSpec {
	rows := make([][]string, 0, len(records))
	var last float64
	for i, rec := range records {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			timecode.FormatSRT(rec.Start),
			timecode.FormatSRT(rec.End()),
			rec.Text,
		})
		last = max(last, rec.End())
	}
	return tableSpec{
		Title:    path,
		Headers:  []string{"#", "Start", "End", "Text"},
		Rows:     rows,
		Aligns:   []columnAlignment{alignRight, alignLeft, alignLeft, alignLeft},
		Footer:   []string{"", "", timecode.Format(last), fmt.Sprintf("%d of %d records", len(records), total)},
		MaxWidth: 72,
	}
}

func newSuggestTitlesCommand(ctx *commandContext) *cobra.Command {
	var req api.SuggestTitlesRequest

	cmd := &cobra.Command{
		Use:   "suggest-titles",
		Short: "Ask the configured LLM for video titles based on a transcript",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireFlag(cmd, "source", req.Source); err != nil {
				return err
			}
			runCtx, rt, err := ctx.start(cmd)
			if err != nil {
				return err
			}
			res, err := api.SuggestTitles(runCtx, rt, req)
			if err != nil {
				return err
			}
			return ctx.emit(cmd, res, func() {
				out := cmd.OutOrStdout()
				for i, title := range res.Titles {
					marker := " "
					if title == res.Best {
						marker = "*"
					}
					fmt.Fprintf(out, "%s %2d. %s\n", marker, i+1, title)
				}
			})
		},
	}

	cmd.Flags().StringVarP(&req.Source, "source", "s", "", "Path to a transcript in JSON format")
	cmd.Flags().IntVarP(&req.Count, "count", "n", 5, "Number of titles to suggest (1-19)")
	cmd.Flags().BoolVar(&req.Pick, "pick", false, "Also ask the model to pick the best title")
	return cmd
}

func addFormatFlag(cmd *cobra.Command, target *string) {
	cmd.Flags().StringVarP(target, "fmt", "t", string(subtitles.FormatTXT), "Output format ("+formatNames()+")")
}

func addOutputFlags(cmd *cobra.Command, output *string, force *bool, outputHelp string) {
	cmd.Flags().StringVarP(output, "output", "o", "", outputHelp)
	cmd.Flags().BoolVarP(force, "force", "f", false, "Overwrite the target file if it exists")
}

func formatNames() string {
	names := make([]string, 0, len(subtitles.Formats()))
	for _, f := range subtitles.Formats() {
		names = append(names, string(f))
	}
	return strings.Join(names, ", ")
}
