package timecode

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"autocontent/internal/faults"
)

var (
	secondsPattern = regexp.MustCompile(`^\d+(\.\d{1,2})?$`)
	minutesPattern = regexp.MustCompile(`^(\d{1,2}):(\d{1,2})$`)
	hoursPattern   = regexp.MustCompile(`^(\d{1,2}):(\d{1,2}):(\d{1,2})$`)
)

// Parse normalizes a time expression to seconds.
//
// Numeric values are returned as-is. Strings may be plain seconds with at most
// two fractional digits ("123", "7.07"), "MM:SS" or "HH:MM:SS" with one or two
// digits per component. Components are not range-checked, so "99:99:99" is
// 362439 seconds.
func Parse(value any) (float64, error) {
	switch v := value.(type) {
	case float64:
		return checkFinite(v)
	case float32:
		return checkFinite(float64(v))
	case int:
		return float64(v), nil
	case int8:
		return float64(v), nil
	case int16:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case uint:
		return float64(v), nil
	case uint8:
		return float64(v), nil
	case uint16:
		return float64(v), nil
	case uint32:
		return float64(v), nil
	case uint64:
		return float64(v), nil
	case string:
		return ParseString(v)
	default:
		return 0, faults.Wrap(faults.ErrInvalidTimeFormat, "parse time", fmt.Sprintf("unsupported type %T", value), nil)
	}
}

// ParseString parses the string forms accepted by Parse.
func ParseString(value string) (float64, error) {
	if secondsPattern.MatchString(value) {
		seconds, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, faults.Wrap(faults.ErrInvalidTimeFormat, "parse time", fmt.Sprintf("%q", value), err)
		}
		return seconds, nil
	}
	var parts []string
	if m := minutesPattern.FindStringSubmatch(value); m != nil {
		parts = []string{"0", m[1], m[2]}
	} else if m := hoursPattern.FindStringSubmatch(value); m != nil {
		parts = m[1:]
	} else {
		return 0, faults.Wrap(faults.ErrInvalidTimeFormat, "parse time", fmt.Sprintf("%q", value), nil)
	}
	total := 0
	for i, multiplier := range []int{3600, 60, 1} {
		n, err := strconv.Atoi(parts[i])
		if err != nil {
			return 0, faults.Wrap(faults.ErrInvalidTimeFormat, "parse time", fmt.Sprintf("%q", value), err)
		}
		total += n * multiplier
	}
	return float64(total), nil
}

func checkFinite(v float64) (float64, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, faults.Wrap(faults.ErrInvalidTimeFormat, "parse time", fmt.Sprintf("non-finite value %v", v), nil)
	}
	return v, nil
}

// Format renders seconds as HH:MM:SS. The fractional part is dropped and hours
// keep growing past 24.
func Format(seconds float64) string {
	whole := wholeSeconds(seconds)
	return fmt.Sprintf("%02d:%02d:%02d", whole/3600, (whole%3600)/60, whole%60)
}

// FormatSRT renders seconds as HH:MM:SS,mmm with milliseconds truncated.
func FormatSRT(seconds float64) string {
	ms := 0
	if seconds > 0 && !math.IsInf(seconds, 0) {
		ms = int(math.Mod(seconds, 1) * 1000)
	}
	return fmt.Sprintf("%s,%03d", Format(seconds), ms)
}

// FormatSeconds renders seconds the way they appear in derived file names:
// shortest decimal form, always with a fractional part ("12.0", "7.07").
func FormatSeconds(seconds float64) string {
	text := strconv.FormatFloat(seconds, 'f', -1, 64)
	if !strings.Contains(text, ".") {
		text += ".0"
	}
	return text
}

func wholeSeconds(seconds float64) int64 {
	if math.IsNaN(seconds) || seconds <= 0 {
		return 0
	}
	if seconds >= math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(math.Floor(seconds))
}
