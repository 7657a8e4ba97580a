package faults

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidTimeFormat = errors.New("invalid time format")
	ErrInvalidRange      = errors.New("invalid range")
	ErrEmptyTranscript   = errors.New("empty transcript")
	ErrInvalidSchema     = errors.New("invalid schema")
	ErrConstruction      = errors.New("construction error")
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrValidation        = errors.New("validation error")
	ErrInvalidFilePath   = errors.New("invalid file path")
	ErrFileExists        = errors.New("file exists")
	ErrNotFound          = errors.New("not found")
	ErrExternalTool      = errors.New("external tool error")
	ErrConfiguration     = errors.New("configuration error")
)

// Exit codes returned by the CLI for each error family.
const (
	ExitGeneric    = 1
	ExitUsage      = 2
	ExitFilesystem = 3
	ExitExternal   = 4
	ExitConfig     = 5
)

type kind struct {
	marker error
	name   string
	code   int
}

// Order matters: the first marker matched by errors.Is wins.
var kinds = []kind{
	{ErrInvalidTimeFormat, "invalid_time_format", ExitUsage},
	{ErrInvalidRange, "invalid_range", ExitUsage},
	{ErrEmptyTranscript, "empty_transcript", ExitUsage},
	{ErrInvalidSchema, "invalid_schema", ExitUsage},
	{ErrConstruction, "construction", ExitUsage},
	{ErrUnsupportedFormat, "unsupported_format", ExitUsage},
	{ErrValidation, "validation", ExitUsage},
	{ErrInvalidFilePath, "invalid_file_path", ExitFilesystem},
	{ErrFileExists, "file_exists", ExitFilesystem},
	{ErrNotFound, "not_found", ExitFilesystem},
	{ErrExternalTool, "external_tool", ExitExternal},
	{ErrConfiguration, "configuration", ExitConfig},
}

// Wrap builds an error message that includes operation context while tagging it
// with the provided marker so callers can match the kind with errors.Is. The
// marker should be one of the exported sentinel errors above.
func Wrap(marker error, operation, message string, err error) error {
	detail := buildDetail(operation, message)
	if marker == nil {
		marker = ErrValidation
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// KindOf returns the snake_case name of the first known kind err carries, or
// "unknown".
func KindOf(err error) string {
	if err == nil {
		return ""
	}
	for _, k := range kinds {
		if errors.Is(err, k.marker) {
			return k.name
		}
	}
	return "unknown"
}

// ExitCode maps an error to the process exit status the CLI should use.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	for _, k := range kinds {
		if errors.Is(err, k.marker) {
			return k.code
		}
	}
	return ExitGeneric
}

func buildDetail(operation, message string) string {
	parts := make([]string, 0, 2)
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "operation failed"
	}
	return strings.Join(parts, ": ")
}
