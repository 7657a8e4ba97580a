// Package youtube downloads videos and captions from YouTube.
//
// Downloads go through an Importer chosen by name from a closed set of
// strategies (yt-dlp, youtube-dl and a plain HTTP streamer fed by yt-dlp
// metadata). TranscriptFetcher pulls json3 captions with yt-dlp and maps them
// onto transcript records. Helpers validate video ids and extract them from
// the common URL shapes.
package youtube
