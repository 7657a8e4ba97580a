// Package ffprobe decodes ffprobe JSON output into typed stream and container
// metadata.
//
// Inspect runs ffprobe through a toolexec.Runner; the helpers on Result pick
// out what the editor needs (duration, audio presence, frame size).
package ffprobe
