// Package toolexec runs external command-line tools (ffmpeg, ffprobe, yt-dlp)
// and turns their failures into errors that carry the captured stderr.
//
// Adapters depend on the Runner interface so tests can substitute a mock.
package toolexec
