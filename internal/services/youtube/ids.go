package youtube

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"autocontent/internal/faults"
)

// URLBase prefixes a video id to form a short watch URL.
const URLBase = "https://youtu.be/"

var (
	idPattern       = regexp.MustCompile(`^[0-9A-Za-z_-]{11}$`)
	embeddedPattern = regexp.MustCompile(`[0-9A-Za-z_-]{11}`)
)

// ValidateID checks that id has the shape of a YouTube video id.
func ValidateID(id string) (string, error) {
	id = strings.TrimSpace(id)
	if !idPattern.MatchString(id) {
		return "", faults.Wrap(faults.ErrValidation, "video id", fmt.Sprintf("invalid video id %q", id), nil)
	}
	return id, nil
}

// URL returns the short watch URL for id.
func URL(id string) (string, error) {
	id, err := ValidateID(id)
	if err != nil {
		return "", err
	}
	return URLBase + id, nil
}

// IDFromURL extracts the video id from a watch, short, embed or youtu.be URL.
// Unrecognized URLs fall back to the first id-shaped token.
func IDFromURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if u, err := url.Parse(raw); err == nil && u.Host != "" {
		host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
		segments := strings.Split(strings.Trim(u.Path, "/"), "/")
		switch {
		case host == "youtu.be" && len(segments) > 0:
			if id, err := ValidateID(segments[0]); err == nil {
				return id, nil
			}
		case strings.HasSuffix(host, "youtube.com"):
			if id, err := ValidateID(u.Query().Get("v")); err == nil {
				return id, nil
			}
			if len(segments) >= 2 && (segments[0] == "shorts" || segments[0] == "embed" || segments[0] == "live") {
				if id, err := ValidateID(segments[1]); err == nil {
					return id, nil
				}
			}
		}
	}
	if match := embeddedPattern.FindString(raw); match != "" {
		return match, nil
	}
	return "", faults.Wrap(faults.ErrValidation, "video url", fmt.Sprintf("no video id in %q", raw), nil)
}

// Resolve accepts either a bare video id or a URL and returns the id.
func Resolve(idOrURL string) (string, error) {
	if id, err := ValidateID(idOrURL); err == nil {
		return id, nil
	}
	return IDFromURL(idOrURL)
}
