// Package language normalizes caption language tags.
//
// Configured transcript languages and the tags yt-dlp reports for caption
// tracks are mapped onto one canonical spelling so preference matching and
// cache keys agree regardless of how a user typed the language.
package language
