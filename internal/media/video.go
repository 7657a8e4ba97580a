package media

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"autocontent/internal/faults"
)

// DefaultVideoFormats lists the container suffixes accepted as video input.
var DefaultVideoFormats = []string{"mp4", "mhtml", "3gpp", "webm"}

// CheckVideoFile verifies path is an existing regular file whose suffix is in
// formats (DefaultVideoFormats when empty). It returns the absolute path.
func CheckVideoFile(path string, formats []string) (string, error) {
	if len(formats) == 0 {
		formats = DefaultVideoFormats
	}
	abs, err := filepath.Abs(strings.TrimSpace(path))
	if err != nil {
		return "", faults.Wrap(faults.ErrInvalidFilePath, "check video", path, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", faults.Wrap(faults.ErrNotFound, "check video", abs, nil)
		}
		return "", faults.Wrap(faults.ErrInvalidFilePath, "check video", abs, err)
	}
	if !info.Mode().IsRegular() {
		return "", faults.Wrap(faults.ErrInvalidFilePath, "check video", fmt.Sprintf("%s is not a regular file", abs), nil)
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(abs), "."))
	if !slices.Contains(formats, ext) {
		return "", faults.Wrap(faults.ErrUnsupportedFormat, "check video", fmt.Sprintf("%s (expected one of %s)", abs, strings.Join(formats, ", ")), nil)
	}
	return abs, nil
}
