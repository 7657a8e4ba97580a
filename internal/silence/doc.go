// Package silence finds the speaking parts of an audio signal.
//
// The detector splits the signal into fixed windows, marks each window silent
// when its peak amplitude falls below a threshold, and turns the
// silent/speaking transitions into padded, merged intervals. The result feeds
// the media editor, which splices the kept intervals back together.
package silence
