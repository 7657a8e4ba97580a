package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"autocontent/internal/api"
	"autocontent/internal/services/youtube"
	"autocontent/internal/timecode"
)

func newPullVideoCommand(ctx *commandContext) *cobra.Command {
	var req api.PullVideoRequest

	cmd := &cobra.Command{
		Use:   "pull-video",
		Short: "Download a video (or its audio) into the sources directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireFlag(cmd, "video-id", req.Video); err != nil {
				return err
			}
			runCtx, rt, err := ctx.start(cmd)
			if err != nil {
				return err
			}
			res, err := api.PullVideo(runCtx, rt, req)
			if err != nil {
				return err
			}
			return ctx.emit(cmd, res, func() {
				fmt.Fprintf(cmd.OutOrStdout(), "Saved to: %s (via %s)\n", res.Path, res.Importer)
			})
		},
	}

	cmd.Flags().StringVarP(&req.Video, "video-id", "i", "", "YouTube video id or URL")
	cmd.Flags().StringVar(&req.Importer, "importer", "", "Importer to use ("+strings.Join(youtube.Names(), ", ")+"; default download.importer)")
	cmd.Flags().BoolVar(&req.AudioOnly, "audio-only", false, "Download only the audio track")
	addOutputFlags(cmd, &req.Output, &req.Force, "Output name or path (default <sources_dir>/<video-id>.mp4)")
	return cmd
}

func newClipCommand(ctx *commandContext) *cobra.Command {
	var req api.ClipRequest

	cmd := &cobra.Command{
		Use:   "clip",
		Short: "Cut a time range out of a local video",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireFlags(cmd, "source", req.Source, "t1", req.Start, "t2", req.End); err != nil {
				return err
			}
			runCtx, rt, err := ctx.start(cmd)
			if err != nil {
				return err
			}
			res, err := api.Clip(runCtx, rt, req)
			if err != nil {
				return err
			}
			return ctx.emit(cmd, res, func() {
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote to: %s\n", res.Path)
			})
		},
	}

	cmd.Flags().StringVarP(&req.Source, "source", "s", "", "Path to a video file")
	cmd.Flags().StringVarP(&req.Start, "t1", "a", "", "Clip start in seconds or HH:MM:SS")
	cmd.Flags().StringVarP(&req.End, "t2", "b", "", "Clip end in seconds or HH:MM:SS")
	cmd.Flags().BoolVar(&req.StripSound, "strip-sound", false, "Drop the audio track")
	addOutputFlags(cmd, &req.Output, &req.Force, "Output path (default <sources_dir>/<stem>-clip-<t1>-<t2>.mp4)")
	return cmd
}

func newCutSilenceCommand(ctx *commandContext) *cobra.Command {
	var req api.CutSilenceRequest
	var window, threshold, easeIn float64
	var keepTail bool

	cmd := &cobra.Command{
		Use:   "cut-silence",
		Short: "Remove silent stretches from a local video",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireFlag(cmd, "source", req.Source); err != nil {
				return err
			}
			runCtx, rt, err := ctx.start(cmd)
			if err != nil {
				return err
			}
			req.Detector = api.DetectorFromConfig(rt.Config)
			flags := cmd.Flags()
			if flags.Changed("window") {
				req.Detector.WindowSize = window
			}
			if flags.Changed("threshold") {
				req.Detector.VolumeThreshold = threshold
			}
			if flags.Changed("ease-in") {
				req.Detector.EaseIn = easeIn
			}
			if flags.Changed("keep-tail") {
				req.Detector.CloseTrailing = keepTail
			}

			res, err := api.CutSilence(runCtx, rt, req)
			if err != nil {
				return err
			}
			return ctx.emit(cmd, res, func() {
				out := cmd.OutOrStdout()
				if res.DryRun {
					fmt.Fprintln(out, renderTable(intervalTable(res)))
					return
				}
				fmt.Fprintf(out, "Wrote to: %s (kept %s of %s)\n", res.Path, timecode.Format(res.KeptSeconds), timecode.Format(res.SourceSeconds))
			})
		},
	}

	cmd.Flags().StringVarP(&req.Source, "source", "s", "", "Path to a video file")
	cmd.Flags().Float64Var(&window, "window", 0, "Scan window in seconds (default silence.window_seconds)")
	cmd.Flags().Float64Var(&threshold, "threshold", 0, "Peak volume below which a window is silent (default silence.volume_threshold)")
	cmd.Flags().Float64Var(&easeIn, "ease-in", 0, "Padding around speech in seconds (default silence.ease_in_seconds)")
	cmd.Flags().BoolVar(&keepTail, "keep-tail", false, "Keep speech still running at the end of the video")
	cmd.Flags().BoolVar(&req.DryRun, "dry-run", false, "Only print the speaking intervals")
	addOutputFlags(cmd, &req.Output, &req.Force, "Output path (default <sources_dir>/<stem>-speaking.mp4)")
	return cmd
}

func intervalTable(res api.CutSilenceResult) tableSpec {
	rows := make([][]string, 0, len(res.Intervals))
	for i, iv := range res.Intervals {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			timecode.FormatSRT(iv.Start),
			timecode.FormatSRT(iv.End),
			strconv.FormatFloat(iv.Duration(), 'f', 2, 64),
		})
	}
	return tableSpec{
		Title:   res.Source,
		Headers: []string{"#", "Start", "End", "Seconds"},
		Rows:    rows,
		Aligns:  []columnAlignment{alignRight, alignLeft, alignLeft, alignRight},
		Footer: []string{
			"", "", "kept",
			fmt.Sprintf("%.2f / %.2f", res.KeptSeconds, res.SourceSeconds),
		},
	}
}

func newModifySpeedCommand(ctx *commandContext) *cobra.Command {
	var req api.ModifySpeedRequest

	cmd := &cobra.Command{
		Use:   "modify-speed",
		Short: "Speed a local video up or slow it down",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireFlag(cmd, "source", req.Source); err != nil {
				return err
			}
			runCtx, rt, err := ctx.start(cmd)
			if err != nil {
				return err
			}
			res, err := api.ModifySpeed(runCtx, rt, req)
			if err != nil {
				return err
			}
			return ctx.emit(cmd, res, func() {
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote to: %s\n", res.Path)
			})
		},
	}

	cmd.Flags().StringVarP(&req.Source, "source", "s", "", "Path to a video file")
	cmd.Flags().Float64Var(&req.Factor, "factor", 1.5, "Playback speed multiplier (2 = twice as fast)")
	addOutputFlags(cmd, &req.Output, &req.Force, "Output path (default <sources_dir>/<stem>-x<factor>.mp4)")
	return cmd
}
