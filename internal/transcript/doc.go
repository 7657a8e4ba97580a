// Package transcript holds the in-memory caption model used by every command.
//
// A Transcript is built from exactly one source: an explicit record list, a
// JSON file on disk, or a video id resolved through a Fetcher. Once built it
// supports windowed cuts, shifting to a zero origin and rewrapping text onto a
// fixed number of lines. Decode enforces the strict record schema shared by
// files and the cache.
package transcript
