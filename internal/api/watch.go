package api

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"autocontent/internal/faults"
	"autocontent/internal/logging"
	"autocontent/internal/subtitles"
	"autocontent/internal/watcher"
)

// WatchRequest converts every JSON transcript that appears in Dir.
type WatchRequest struct {
	// Dir defaults to subs_dir.
	Dir         string
	Format      string
	Restructure int
	Force       bool
	// Settle overrides the pause before a new file is read.
	Settle time.Duration
	// OnConverted, when set, is called after each successful conversion.
	OnConverted func(TranscriptResult)
}

// WatchConvert blocks until ctx is cancelled, converting new .json files next
// to themselves. The json format is rejected because its outputs would be
// picked up again. A failed conversion is logged and does not stop the watch.
func WatchConvert(ctx context.Context, rt Runtime, req WatchRequest) error {
	if err := rt.check(); err != nil {
		return err
	}
	format, err := subtitles.ParseFormat(defaultFormat(req.Format))
	if err != nil {
		return err
	}
	if format == subtitles.FormatJSON {
		return faults.Wrap(faults.ErrValidation, "watch convert", "watch mode cannot convert to json", nil)
	}
	dir := strings.TrimSpace(req.Dir)
	if dir == "" {
		dir = rt.Config.Paths.SubsDir
	}
	if err := rt.Config.EnsureDirectories(); err != nil {
		return fmt.Errorf("ensure directories: %w", err)
	}

	logger := rt.logger("watch")
	handle := func(ctx context.Context, path string) error {
		res, err := Convert(ctx, rt, ConvertRequest{
			Source:      path,
			Format:      string(format),
			Restructure: req.Restructure,
			Force:       req.Force,
		})
		if err != nil {
			return err
		}
		if req.OnConverted != nil {
			req.OnConverted(res)
		}
		return nil
	}

	w, err := watcher.New(dir, handle, logger, watcher.Options{Settle: req.Settle})
	if err != nil {
		return err
	}
	defer func() { _ = w.Close() }()

	err = w.Run(ctx)
	if errors.Is(err, context.Canceled) {
		logger.Info("watch stopped", logging.String("dir", dir))
		return nil
	}
	return err
}
