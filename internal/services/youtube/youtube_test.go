package youtube

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"autocontent/internal/faults"
	"autocontent/internal/logging"
	"autocontent/internal/pathguard"
)

type mockRunner struct {
	mock.Mock
}

func (m *mockRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	call := m.Called(ctx, name, args)
	out, _ := call.Get(0).([]byte)
	return out, call.Error(1)
}

func argAfter(args []string, flag string) string {
	for i := 0; i+1 < len(args); i++ {
		if args[i] == flag {
			return args[i+1]
		}
	}
	return ""
}

func hasArg(args []string, want string) bool {
	for _, a := range args {
		if a == want {
			return true
		}
	}
	return false
}

func resolveTarget(t *testing.T, name string) pathguard.Target {
	t.Helper()
	guard, err := pathguard.New(t.TempDir())
	require.NoError(t, err)
	target, err := guard.Resolve(pathguard.Request{Candidate: filepath.Join(guard.Home(), "sources", name)})
	require.NoError(t, err)
	return target
}

const metadataJSON = `{
  "id": "dQw4w9WgXcQ",
  "title": "Example",
  "duration": 212,
  "formats": [
    {"format_id": "18", "ext": "mp4", "resolution": "640x360", "acodec": "mp4a.40.2", "vcodec": "avc1", "audio_channels": 2, "url": "https://example.invalid/18"},
    {"format_id": "22", "ext": "mp4", "resolution": "1280x720", "acodec": "mp4a.40.2", "vcodec": "avc1", "audio_channels": 2},
    {"format_id": "140", "ext": "m4a", "resolution": "audio only", "acodec": "mp4a.40.2", "vcodec": "none", "audio_channels": 2, "abr": 129.5},
    {"format_id": "hls-1", "ext": "mp4", "resolution": "640x360", "acodec": "mp4a.40.2", "vcodec": "avc1", "audio_channels": 2}
  ]
}`

func TestValidateID(t *testing.T) {
	id, err := ValidateID(" dQw4w9WgXcQ ")
	require.NoError(t, err)
	assert.Equal(t, "dQw4w9WgXcQ", id)

	for _, bad := range []string{"", "short", "dQw4w9WgXcQx", "dQw4w9WgXc!"} {
		_, err := ValidateID(bad)
		assert.ErrorIs(t, err, faults.ErrValidation, bad)
	}

	url, err := URL("dQw4w9WgXcQ")
	require.NoError(t, err)
	assert.Equal(t, "https://youtu.be/dQw4w9WgXcQ", url)
}

func TestIDFromURL(t *testing.T) {
	tests := map[string]string{
		"https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42": "dQw4w9WgXcQ",
		"https://youtu.be/dQw4w9WgXcQ?si=abc":              "dQw4w9WgXcQ",
		"https://youtube.com/shorts/dQw4w9WgXcQ":           "dQw4w9WgXcQ",
		"https://m.youtube.com/embed/dQw4w9WgXcQ":          "dQw4w9WgXcQ",
		"youtube.com/watch?v=dQw4w9WgXcQ":                  "dQw4w9WgXcQ",
	}
	for input, want := range tests {
		got, err := IDFromURL(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}
	_, err := IDFromURL("https://example.com/")
	assert.ErrorIs(t, err, faults.ErrValidation)

	id, err := Resolve("dQw4w9WgXcQ")
	require.NoError(t, err)
	assert.Equal(t, "dQw4w9WgXcQ", id)
}

func TestPickFormat(t *testing.T) {
	meta, err := ParseMetadata([]byte(metadataJSON))
	require.NoError(t, err)

	chosen, err := PickFormat(meta.Formats, DefaultPolicy())
	require.NoError(t, err)
	assert.Equal(t, "18", chosen.FormatID)

	two := 2.0
	more := append(meta.Formats, Format{FormatID: "43", Ext: "webm", Resolution: "426x240", AudioCodec: "mp4a.40.2", AudioChannels: &two})
	chosen, err = PickFormat(more, DefaultPolicy())
	require.NoError(t, err)
	assert.Equal(t, "43", chosen.FormatID, "highest numeric id wins")

	zero := 0.0
	_, err = PickFormat([]Format{{FormatID: "18", Ext: "mp4", Resolution: "640x360", AudioCodec: "mp4a.40.2", AudioChannels: &zero}}, DefaultPolicy())
	assert.ErrorIs(t, err, faults.ErrNotFound)

	audio, err := PickAudioFormat(meta.Formats)
	require.NoError(t, err)
	assert.Equal(t, "140", audio.FormatID)
}

func TestSelect(t *testing.T) {
	for _, name := range []string{"yt-dlp", "YouTube-DL", "http"} {
		imp, err := Select(name, Deps{})
		require.NoError(t, err)
		assert.NotEmpty(t, imp.Name())
	}
	_, err := Select("pytube", Deps{})
	assert.ErrorIs(t, err, faults.ErrConfiguration)
	assert.Equal(t, []string{"http", "youtube-dl", "yt-dlp"}, Names())
}

func TestYtDlpDownload(t *testing.T) {
	ctx := context.Background()
	target := resolveTarget(t, "dQw4w9WgXcQ.mp4")
	runner := &mockRunner{}
	runner.On("Run", ctx, "yt-dlp", mock.MatchedBy(func(args []string) bool {
		return hasArg(args, "--dump-single-json")
	})).Return([]byte(metadataJSON), nil).Once()
	runner.On("Run", ctx, "yt-dlp", mock.MatchedBy(func(args []string) bool {
		return argAfter(args, "-f") == "18" && argAfter(args, "-o") == target.Path() && args[len(args)-1] == "https://youtu.be/dQw4w9WgXcQ"
	})).Return([]byte{}, nil).Once()

	imp, err := Select(ImporterYtDlp, Deps{Runner: runner})
	require.NoError(t, err)
	path, err := imp.Download(ctx, Request{VideoID: "dQw4w9WgXcQ", Target: target})
	require.NoError(t, err)
	assert.Equal(t, target.Path(), path)
	runner.AssertExpectations(t)
}

func TestYtDlpDownloadRemovesPartialOutput(t *testing.T) {
	ctx := context.Background()
	target := resolveTarget(t, "partial.m4a")
	runner := &mockRunner{}
	runner.On("Run", ctx, "yt-dlp", mock.Anything).Run(func(args mock.Arguments) {
		_ = os.WriteFile(target.Path(), []byte("half"), 0o644)
	}).Return(nil, errors.New("exit status 1"))

	imp, err := Select(ImporterYtDlp, Deps{Runner: runner})
	require.NoError(t, err)
	_, err = imp.DownloadAudio(ctx, Request{VideoID: "dQw4w9WgXcQ", Target: target})
	require.Error(t, err)
	_, statErr := os.Stat(target.Path())
	assert.True(t, os.IsNotExist(statErr), "partial download should be removed")
}

type stubMetadata struct {
	meta Metadata
}

func (s stubMetadata) Metadata(context.Context, string) (Metadata, error) {
	return s.meta, nil
}

func TestHTTPDownload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/18" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte("video-bytes"))
	}))
	defer server.Close()

	two := 2.0
	formats := []Format{{FormatID: "18", Ext: "mp4", Resolution: "640x360", AudioCodec: "mp4a.40.2", AudioChannels: &two, URL: server.URL + "/18"}}
	imp := &HTTP{client: server.Client(), metadata: stubMetadata{meta: Metadata{Formats: formats}}, policy: DefaultPolicy(), logger: logging.NewNop()}

	target := resolveTarget(t, "video.mp4")
	path, err := imp.Download(context.Background(), Request{VideoID: "dQw4w9WgXcQ", Target: target})
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "video-bytes", string(data))

	formats[0].URL = server.URL + "/missing"
	failed := resolveTarget(t, "missing.mp4")
	_, err = imp.Download(context.Background(), Request{VideoID: "dQw4w9WgXcQ", Target: failed})
	assert.ErrorIs(t, err, faults.ErrExternalTool)
	_, statErr := os.Stat(failed.Path())
	assert.True(t, os.IsNotExist(statErr))
}

type recordingImporter struct {
	calls []string
}

func (r *recordingImporter) Name() string { return "recording" }

func (r *recordingImporter) Download(_ context.Context, req Request) (string, error) {
	r.calls = append(r.calls, "video:"+req.VideoID)
	return req.Target.Path(), nil
}

func (r *recordingImporter) DownloadAudio(_ context.Context, req Request) (string, error) {
	r.calls = append(r.calls, "audio:"+req.VideoID)
	return req.Target.Path(), nil
}

func TestWithLock(t *testing.T) {
	dir := t.TempDir()
	inner := &recordingImporter{}
	locked := WithLock(inner, dir)

	_, err := locked.Download(context.Background(), Request{VideoID: "dQw4w9WgXcQ"})
	require.NoError(t, err)
	_, err = locked.DownloadAudio(context.Background(), Request{VideoID: "dQw4w9WgXcQ"})
	require.NoError(t, err)

	assert.Equal(t, []string{"video:dQw4w9WgXcQ", "audio:dQw4w9WgXcQ"}, inner.calls)
	assert.Equal(t, "recording", locked.Name())
	assert.FileExists(t, filepath.Join(dir, ".dQw4w9WgXcQ.lock"))
}
