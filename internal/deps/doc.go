// Package deps discovers the external binaries autocontent shells out to
// (ffmpeg, ffprobe, yt-dlp, youtube-dl) and reports their availability and
// version for the status command.
package deps
