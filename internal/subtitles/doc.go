// Package subtitles renders transcript records into the supported output
// formats and inspects SRT output for structural problems.
package subtitles
