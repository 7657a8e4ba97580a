package youtube

import (
	"context"
	"fmt"
	"log/slog"

	"autocontent/internal/logging"
	"autocontent/internal/toolexec"
)

// YoutubeDL downloads with the legacy youtube-dl binary, letting it pick the
// best single-file stream.
type YoutubeDL struct {
	runner toolexec.Runner
	binary string
	logger *slog.Logger
}

// Name implements Importer.
func (y *YoutubeDL) Name() string { return ImporterYoutubeDL }

// Download implements Importer.
func (y *YoutubeDL) Download(ctx context.Context, req Request) (string, error) {
	path, err := runToTarget(ctx, y.runner, y.binary, req, "--no-playlist", "--no-progress", "-f", "best[ext=mp4]/best")
	if err != nil {
		return "", fmt.Errorf("youtube-dl download: %w", err)
	}
	y.logger.Debug("youtube-dl download complete", logging.String("video_id", req.VideoID))
	return path, nil
}

// DownloadAudio implements Importer.
func (y *YoutubeDL) DownloadAudio(ctx context.Context, req Request) (string, error) {
	path, err := runToTarget(ctx, y.runner, y.binary, req, "--no-playlist", "--no-progress", "-f", "bestaudio[ext=m4a]/bestaudio")
	if err != nil {
		return "", fmt.Errorf("youtube-dl audio download: %w", err)
	}
	return path, nil
}
