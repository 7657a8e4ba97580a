package youtube

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strings"

	"autocontent/internal/faults"
	"autocontent/internal/logging"
	"autocontent/internal/pathguard"
	"autocontent/internal/toolexec"
)

// Importer names.
const (
	ImporterYtDlp     = "yt-dlp"
	ImporterYoutubeDL = "youtube-dl"
	ImporterHTTP      = "http"
)

// Request identifies a video and the resolved file to write it to.
type Request struct {
	VideoID string
	Target  pathguard.Target
}

// Importer downloads a video or its audio track to Request.Target and returns
// the written path.
type Importer interface {
	Name() string
	Download(ctx context.Context, req Request) (string, error)
	DownloadAudio(ctx context.Context, req Request) (string, error)
}

// MetadataSource resolves yt-dlp style metadata for a video.
type MetadataSource interface {
	Metadata(ctx context.Context, videoID string) (Metadata, error)
}

// Deps carries what the importer strategies need.
type Deps struct {
	Runner          toolexec.Runner
	YtDlpBinary     string
	YoutubeDLBinary string
	HTTPClient      *http.Client
	Policy          Policy
	Logger          *slog.Logger
}

func (d Deps) withDefaults() Deps {
	if d.Runner == nil {
		d.Runner = toolexec.CommandRunner{}
	}
	if strings.TrimSpace(d.YtDlpBinary) == "" {
		d.YtDlpBinary = "yt-dlp"
	}
	if strings.TrimSpace(d.YoutubeDLBinary) == "" {
		d.YoutubeDLBinary = "youtube-dl"
	}
	if d.HTTPClient == nil {
		d.HTTPClient = http.DefaultClient
	}
	if len(d.Policy.Resolutions) == 0 && len(d.Policy.Extensions) == 0 {
		d.Policy = DefaultPolicy()
	}
	d.Logger = logging.NewComponentLogger(d.Logger, "youtube")
	return d
}

var strategies = map[string]func(Deps) Importer{
	ImporterYtDlp: func(d Deps) Importer {
		return &YtDlp{runner: d.Runner, binary: d.YtDlpBinary, policy: d.Policy, logger: d.Logger}
	},
	ImporterYoutubeDL: func(d Deps) Importer {
		return &YoutubeDL{runner: d.Runner, binary: d.YoutubeDLBinary, logger: d.Logger}
	},
	ImporterHTTP: func(d Deps) Importer {
		meta := &YtDlp{runner: d.Runner, binary: d.YtDlpBinary, policy: d.Policy, logger: d.Logger}
		return &HTTP{client: d.HTTPClient, metadata: meta, policy: d.Policy, logger: d.Logger}
	},
}

// Names lists the importer strategies in sorted order.
func Names() []string {
	names := make([]string, 0, len(strategies))
	for name := range strategies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Select builds the named importer.
func Select(name string, deps Deps) (Importer, error) {
	build, ok := strategies[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, faults.Wrap(faults.ErrConfiguration, "select importer", fmt.Sprintf("unknown importer %q (expected one of %s)", name, strings.Join(Names(), ", ")), nil)
	}
	return build(deps.withDefaults()), nil
}

// runToTarget runs a tool that writes req.Target itself and removes any
// partial output if it fails.
func runToTarget(ctx context.Context, runner toolexec.Runner, binary string, req Request, args ...string) (string, error) {
	path, err := pathguard.Claim(req.Target)
	if err != nil {
		return "", err
	}
	args = append(args, "-o", path, URLBase+req.VideoID)
	if _, err := runner.Run(ctx, binary, args...); err != nil {
		pathguard.Discard(req.Target)
		return "", err
	}
	return path, nil
}
