// Package media edits video files by shelling out to ffmpeg.
//
// Editor decodes audio for the silence detector and produces clips, spliced
// cuts and speed changes. Every invocation goes through a toolexec.Runner so
// tests can assert the exact argument lists without ffmpeg installed.
package media
