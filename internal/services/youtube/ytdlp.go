package youtube

import (
	"context"
	"fmt"
	"log/slog"

	"autocontent/internal/logging"
	"autocontent/internal/toolexec"
)

// YtDlp downloads with yt-dlp, choosing the stream by Policy.
type YtDlp struct {
	runner toolexec.Runner
	binary string
	policy Policy
	logger *slog.Logger
}

// Name implements Importer.
func (y *YtDlp) Name() string { return ImporterYtDlp }

// Metadata implements MetadataSource.
func (y *YtDlp) Metadata(ctx context.Context, videoID string) (Metadata, error) {
	out, err := y.runner.Run(ctx, y.binary, "--dump-single-json", "--no-playlist", "--no-warnings", URLBase+videoID)
	if err != nil {
		return Metadata{}, fmt.Errorf("yt-dlp metadata: %w", err)
	}
	return ParseMetadata(out)
}

// Download implements Importer.
func (y *YtDlp) Download(ctx context.Context, req Request) (string, error) {
	meta, err := y.Metadata(ctx, req.VideoID)
	if err != nil {
		return "", err
	}
	format, err := PickFormat(meta.Formats, y.policy)
	if err != nil {
		return "", err
	}
	y.logger.Info("format selected",
		logging.String("video_id", req.VideoID),
		logging.String("format_id", format.FormatID),
		logging.String("resolution", format.Resolution),
		logging.String("ext", format.Ext),
	)
	path, err := runToTarget(ctx, y.runner, y.binary, req, "--no-playlist", "--no-progress", "-f", format.FormatID)
	if err != nil {
		return "", fmt.Errorf("yt-dlp download: %w", err)
	}
	return path, nil
}

// DownloadAudio implements Importer.
func (y *YtDlp) DownloadAudio(ctx context.Context, req Request) (string, error) {
	path, err := runToTarget(ctx, y.runner, y.binary, req, "--no-playlist", "--no-progress", "-f", "bestaudio[ext=m4a]/bestaudio")
	if err != nil {
		return "", fmt.Errorf("yt-dlp audio download: %w", err)
	}
	return path, nil
}
