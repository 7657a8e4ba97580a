package media

import (
	"context"
	"encoding/binary"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"autocontent/internal/faults"
	"autocontent/internal/silence"
)

type mockRunner struct {
	mock.Mock
}

func (m *mockRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	call := m.Called(ctx, name, args)
	out, _ := call.Get(0).([]byte)
	return out, call.Error(1)
}

func newTestEditor(runner *mockRunner) *Editor {
	return NewEditor(Options{FFmpegBinary: "/opt/ffmpeg", Runner: runner})
}

func TestDecodeAudio(t *testing.T) {
	ctx := context.Background()
	runner := &mockRunner{}
	raw := make([]byte, 0, 12)
	for _, v := range []float32{0.25, -0.5, 1} {
		raw = binary.LittleEndian.AppendUint32(raw, math.Float32bits(v))
	}
	raw = append(raw, 0xff) // trailing partial sample is dropped

	runner.On("Run", ctx, "/opt/ffmpeg", mock.MatchedBy(func(args []string) bool {
		return assert.ObjectsAreEqual([]string{
			"-hide_banner", "-loglevel", "error",
			"-i", "in.mp4", "-vn", "-ac", "1", "-ar", "8000", "-f", "f32le", "-",
		}, args)
	})).Return(raw, nil)

	pcm, err := newTestEditor(runner).DecodeAudio(ctx, "in.mp4", 8000)
	require.NoError(t, err)
	assert.Equal(t, []float32{0.25, -0.5, 1}, pcm.Samples)
	assert.Equal(t, 8000, pcm.SampleRate)
	assert.Equal(t, 1, pcm.Channels)
	runner.AssertExpectations(t)
}

func TestDecodeAudioRejectsRate(t *testing.T) {
	_, err := newTestEditor(&mockRunner{}).DecodeAudio(context.Background(), "in.mp4", 0)
	assert.ErrorIs(t, err, faults.ErrValidation)
}

func TestDecodeAudioPropagatesToolFailure(t *testing.T) {
	ctx := context.Background()
	runner := &mockRunner{}
	runner.On("Run", ctx, "/opt/ffmpeg", mock.Anything).Return(nil, errors.New("exit status 1"))

	_, err := newTestEditor(runner).DecodeAudio(ctx, "in.mp4", 16000)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode audio")
}

func TestClip(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name  string
		strip bool
		want  []string
	}{
		{"with audio", false, []string{"-hide_banner", "-loglevel", "error", "-n", "-i", "in.mp4", "-ss", "1.5", "-to", "10", "-c:v", "libx264", "-c:a", "aac", "out.mp4"}},
		{"strip audio", true, []string{"-hide_banner", "-loglevel", "error", "-n", "-i", "in.mp4", "-ss", "1.5", "-to", "10", "-c:v", "libx264", "-an", "out.mp4"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &mockRunner{}
			runner.On("Run", ctx, "/opt/ffmpeg", tt.want).Return([]byte{}, nil)
			require.NoError(t, newTestEditor(runner).Clip(ctx, "in.mp4", "out.mp4", 1.5, 10, tt.strip))
			runner.AssertExpectations(t)
		})
	}
}

func TestClipRejectsRange(t *testing.T) {
	err := newTestEditor(&mockRunner{}).Clip(context.Background(), "in.mp4", "out.mp4", 5, 5, false)
	assert.ErrorIs(t, err, faults.ErrInvalidRange)
}

func TestSpliceFilter(t *testing.T) {
	intervals := []silence.Interval{{Start: 0, End: 1.5}, {Start: 3, End: 4.25}}

	filter, maps := SpliceFilter(intervals, true)
	assert.Equal(t,
		"[0:v]trim=start=0:end=1.5,setpts=PTS-STARTPTS[v0];[0:a]atrim=start=0:end=1.5,asetpts=PTS-STARTPTS[a0];"+
			"[0:v]trim=start=3:end=4.25,setpts=PTS-STARTPTS[v1];[0:a]atrim=start=3:end=4.25,asetpts=PTS-STARTPTS[a1];"+
			"[v0][a0][v1][a1]concat=n=2:v=1:a=1[outv][outa]",
		filter)
	assert.Equal(t, []string{"[outv]", "[outa]"}, maps)

	filter, maps = SpliceFilter(intervals[:1], false)
	assert.Equal(t, "[0:v]trim=start=0:end=1.5,setpts=PTS-STARTPTS[v0];[v0]concat=n=1:v=1:a=0[outv]", filter)
	assert.Equal(t, []string{"[outv]"}, maps)
}

func TestSplice(t *testing.T) {
	ctx := context.Background()
	runner := &mockRunner{}
	runner.On("Run", ctx, "/opt/ffmpeg", mock.MatchedBy(func(args []string) bool {
		return len(args) > 0 && args[len(args)-1] == "out.mp4" && contains(args, "-filter_complex") && contains(args, "[outa]")
	})).Return([]byte{}, nil)

	err := newTestEditor(runner).Splice(ctx, "in.mp4", "out.mp4", []silence.Interval{{Start: 0, End: 1}}, true)
	require.NoError(t, err)
	runner.AssertExpectations(t)

	err = newTestEditor(&mockRunner{}).Splice(ctx, "in.mp4", "out.mp4", nil, true)
	assert.ErrorIs(t, err, faults.ErrValidation)
}

func TestChangeSpeed(t *testing.T) {
	ctx := context.Background()
	runner := &mockRunner{}
	runner.On("Run", ctx, "/opt/ffmpeg", []string{
		"-hide_banner", "-loglevel", "error", "-n", "-i", "in.mp4",
		"-filter:v", "setpts=PTS/1.5",
		"-filter:a", "atempo=1.5", "-c:a", "aac",
		"-c:v", "libx264", "out.mp4",
	}).Return([]byte{}, nil)

	require.NoError(t, newTestEditor(runner).ChangeSpeed(ctx, "in.mp4", "out.mp4", 1.5, true))
	runner.AssertExpectations(t)
}

func TestAtempoChain(t *testing.T) {
	tests := map[float64]string{
		1:    "atempo=1",
		1.5:  "atempo=1.5",
		4:    "atempo=2.0,atempo=2",
		5:    "atempo=2.0,atempo=2.0,atempo=1.25",
		0.25: "atempo=0.5,atempo=0.5",
	}
	for factor, want := range tests {
		got, err := AtempoChain(factor)
		require.NoError(t, err)
		assert.Equal(t, want, got, "factor %v", factor)
	}
	for _, bad := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		_, err := AtempoChain(bad)
		assert.ErrorIs(t, err, faults.ErrValidation, "factor %v", bad)
	}
}

func TestCheckVideoFile(t *testing.T) {
	dir := t.TempDir()
	video := filepath.Join(dir, "talk.MP4")
	require.NoError(t, os.WriteFile(video, []byte("x"), 0o644))
	notes := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(notes, []byte("x"), 0o644))

	abs, err := CheckVideoFile(video, nil)
	require.NoError(t, err)
	assert.Equal(t, video, abs)

	_, err = CheckVideoFile(notes, nil)
	assert.ErrorIs(t, err, faults.ErrUnsupportedFormat)

	_, err = CheckVideoFile(filepath.Join(dir, "missing.mp4"), nil)
	assert.ErrorIs(t, err, faults.ErrNotFound)

	_, err = CheckVideoFile(dir, nil)
	assert.ErrorIs(t, err, faults.ErrInvalidFilePath)
}

func contains(args []string, want string) bool {
	for _, a := range args {
		if a == want {
			return true
		}
	}
	return false
}
