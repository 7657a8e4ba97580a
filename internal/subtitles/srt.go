package subtitles

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// DurationToleranceSeconds is how far the last cue may drift from the media
// length before Validate reports a mismatch.
const DurationToleranceSeconds = 8.0

// CountCues returns the number of non-blank cue blocks in SRT content.
func CountCues(content string) int {
	content = strings.TrimSpace(strings.ReplaceAll(content, "\r\n", "\n"))
	if content == "" {
		return 0
	}
	count := 0
	for _, block := range strings.Split(content, "\n\n") {
		if strings.TrimSpace(block) != "" {
			count++
		}
	}
	return count
}

// Bounds returns the earliest cue start and latest cue end. ok is false when
// no cue line carried a parseable start.
func Bounds(content string) (first, last float64, ok bool) {
	first = math.Inf(1)
	for _, line := range strings.Split(content, "\n") {
		start, end, found := strings.Cut(line, "-->")
		if !found {
			continue
		}
		if seconds, err := ParseSRTTimestamp(start); err == nil {
			first = min(first, seconds)
			ok = true
		}
		if seconds, err := ParseSRTTimestamp(end); err == nil {
			last = max(last, seconds)
		}
	}
	if !ok {
		return 0, last, false
	}
	return first, last, true
}

// ParseSRTTimestamp parses HH:MM:SS,mmm (a period separator is accepted).
func ParseSRTTimestamp(value string) (float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("empty timestamp")
	}
	value = strings.ReplaceAll(value, ".", ",")
	clock, millisText, found := strings.Cut(value, ",")
	if !found {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	hms := strings.Split(clock, ":")
	if len(hms) != 3 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	hours, errH := strconv.Atoi(hms[0])
	minutes, errM := strconv.Atoi(hms[1])
	seconds, errS := strconv.Atoi(hms[2])
	millis, errMS := strconv.Atoi(millisText)
	if errH != nil || errM != nil || errS != nil || errMS != nil {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	return float64(hours*3600+minutes*60+seconds) + float64(millis)/1000, nil
}

// Validate checks SRT content for format issues. An empty result means the
// content passed. mediaSeconds <= 0 skips the duration check.
func Validate(content string, mediaSeconds float64) []string {
	if CountCues(content) == 0 {
		return []string{"empty_subtitle_file"}
	}

	var issues []string
	first, last, ok := Bounds(content)
	if !ok || (first == 0 && last == 0) {
		issues = append(issues, "no_valid_timestamps")
	}
	if first > last {
		issues = append(issues, "inverted_bounds")
	}
	if mediaSeconds > 0 && last > 0 {
		if delta := mediaSeconds - last; math.Abs(delta) > DurationToleranceSeconds {
			issues = append(issues, fmt.Sprintf("duration_mismatch: delta=%.1fs", delta))
		}
	}
	return issues
}
