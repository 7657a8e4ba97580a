package youtube

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"autocontent/internal/faults"
	"autocontent/internal/logging"
	"autocontent/internal/pathguard"
)

// HTTP streams a format URL directly, using a MetadataSource to find it.
type HTTP struct {
	client   *http.Client
	metadata MetadataSource
	policy   Policy
	logger   *slog.Logger
}

// Name implements Importer.
func (h *HTTP) Name() string { return ImporterHTTP }

// Download implements Importer.
func (h *HTTP) Download(ctx context.Context, req Request) (string, error) {
	meta, err := h.metadata.Metadata(ctx, req.VideoID)
	if err != nil {
		return "", err
	}
	format, err := PickFormat(meta.Formats, h.policy)
	if err != nil {
		return "", err
	}
	return h.fetch(ctx, req, format)
}

// DownloadAudio implements Importer.
func (h *HTTP) DownloadAudio(ctx context.Context, req Request) (string, error) {
	meta, err := h.metadata.Metadata(ctx, req.VideoID)
	if err != nil {
		return "", err
	}
	format, err := PickAudioFormat(meta.Formats)
	if err != nil {
		return "", err
	}
	return h.fetch(ctx, req, format)
}

func (h *HTTP) fetch(ctx context.Context, req Request, format Format) (string, error) {
	if format.URL == "" {
		return "", faults.Wrap(faults.ErrNotFound, "http download", fmt.Sprintf("format %s has no url", format.FormatID), nil)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, format.URL, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	resp, err := h.client.Do(httpReq)
	if err != nil {
		return "", faults.Wrap(faults.ErrExternalTool, "http download", "request failed", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", faults.Wrap(faults.ErrExternalTool, "http download", fmt.Sprintf("unexpected status %s", resp.Status), nil)
	}

	var written int64
	err = pathguard.Write(req.Target, func(w io.Writer) error {
		n, err := io.Copy(w, resp.Body)
		written = n
		return err
	})
	if err != nil {
		return "", err
	}
	h.logger.Info("stream downloaded",
		logging.String("video_id", req.VideoID),
		logging.String("format_id", format.FormatID),
		logging.Int64("bytes", written),
		logging.String("output", req.Target.Path()),
	)
	return req.Target.Path(), nil
}
