package pathguard

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"autocontent/internal/faults"
)

// Write creates target and streams content into it. It refuses to replace an
// existing file. If fill or the close fails the partial file is removed
// before the error is returned.
func Write(target Target, fill func(io.Writer) error) (err error) {
	if target.path == "" {
		return faults.Wrap(faults.ErrInvalidFilePath, "write output", "unresolved target", nil)
	}
	f, err := os.OpenFile(target.path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return faults.Wrap(faults.ErrFileExists, "write output", target.path, nil)
		}
		return fmt.Errorf("create output: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close output: %w", closeErr)
		}
		if err != nil {
			_ = os.Remove(target.path)
		}
	}()
	if err := fill(f); err != nil {
		return fmt.Errorf("write output %s: %w", target.path, err)
	}
	return nil
}

// WriteFile writes data to target with the same rollback rules as Write.
func WriteFile(target Target, data []byte) error {
	return Write(target, func(w io.Writer) error {
		_, err := io.Copy(w, bytes.NewReader(data))
		return err
	})
}

// Claim returns the target path for an external tool to create, after making
// sure nothing sits there yet. Callers remove the file themselves if the tool
// fails.
func Claim(target Target) (string, error) {
	if target.path == "" {
		return "", faults.Wrap(faults.ErrInvalidFilePath, "claim output", "unresolved target", nil)
	}
	if _, err := os.Lstat(target.path); err == nil {
		return "", faults.Wrap(faults.ErrFileExists, "claim output", target.path, nil)
	}
	return target.path, nil
}

// Discard removes whatever an external tool left at target.
func Discard(target Target) {
	if target.path != "" {
		_ = os.Remove(target.path)
	}
}
