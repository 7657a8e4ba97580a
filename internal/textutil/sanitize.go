package textutil

import (
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// fileNameReplacer replaces filesystem-unsafe characters with safe alternatives.
var fileNameReplacer = strings.NewReplacer(
	"/", "-",
	"\\", "-",
	":", "-",
	"*", "-",
	"?", "",
	"\"", "",
	"<", "",
	">", "",
	"|", "",
)

// SanitizeFileName replaces filesystem-unsafe characters in a filename.
// Slashes, backslashes, colons, and asterisks become dashes; other unsafe
// characters are removed. The result is trimmed of leading/trailing whitespace.
func SanitizeFileName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	return strings.TrimSpace(fileNameReplacer.Replace(name))
}

// StripArtifacts removes every rune listed in chars from text and trims the
// surrounding whitespace. Text is NFC-normalized first, with or without
// chars, so the output always uses composed forms.
func StripArtifacts(text, chars string) string {
	if chars == "" {
		return strings.TrimSpace(norm.NFC.String(text))
	}
	remove := runes.Remove(runes.Predicate(func(r rune) bool {
		return strings.ContainsRune(chars, r)
	}))
	out, _, err := transform.String(transform.Chain(norm.NFC, remove), text)
	if err != nil {
		out = text
		for _, r := range chars {
			out = strings.ReplaceAll(out, string(r), "")
		}
	}
	return strings.TrimSpace(out)
}

// ShortID returns the last four characters of a random UUID.
func ShortID() string {
	id := uuid.NewString()
	return id[len(id)-4:]
}
