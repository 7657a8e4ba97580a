package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const (
	userConfigPath    = "~/.config/autocontent/config.toml"
	projectConfigFile = "autocontent.toml"
)

// DefaultConfigPath returns the absolute user configuration location.
func DefaultConfigPath() (string, error) {
	return expandPath(userConfigPath)
}

// ExpandPath resolves a leading ~ and returns an absolute, cleaned path.
// Empty input stays empty.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// locate picks the config file Load should read. An explicit path is used
// as given even when missing; otherwise the user file wins over the project
// file, and the user path is reported when neither exists.
func locate(explicit string) (string, bool, error) {
	if explicit != "" {
		path, err := expandPath(explicit)
		if err != nil {
			return "", false, err
		}
		exists, err := isFile(path)
		return path, exists, err
	}

	user, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	project, err := filepath.Abs(projectConfigFile)
	if err != nil {
		return "", false, err
	}
	for _, candidate := range []string{user, project} {
		if ok, _ := isFile(candidate); ok {
			return candidate, true, nil
		}
	}
	return user, false, nil
}

func isFile(path string) (bool, error) {
	info, err := os.Stat(path)
	switch {
	case err == nil:
		return !info.IsDir(), nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, fmt.Errorf("stat config: %w", err)
	}
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" || !strings.HasPrefix(pathValue, "~") {
		return expandAgainst(pathValue, "")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return expandAgainst(pathValue, home)
}

// expandAgainst substitutes home for "~" or a "~/" prefix. "~user" forms are
// left alone. Relative results are made absolute against the working
// directory.
func expandAgainst(pathValue, home string) (string, error) {
	if pathValue == "" {
		return "", nil
	}
	if home != "" {
		switch {
		case pathValue == "~":
			pathValue = home
		case strings.HasPrefix(pathValue, "~/"), strings.HasPrefix(pathValue, `~\`):
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	absolute, err := filepath.Abs(filepath.Clean(pathValue))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", pathValue, err)
	}
	return absolute, nil
}
