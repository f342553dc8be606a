// Package api contains helpers shared by the versioned configuration types.
package api

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/macropower/lv2lint/pkg/yaml"
)

// AppName is the name of the configuration directory.
const AppName = "lv2lint"

var (
	ErrIsDirectory  = errors.New("path is a directory")
	ErrUnknownState = errors.New("unknown file state")
)

// ConfigDir returns the lv2lint directory inside the user's config directory.
// It prefers $XDG_CONFIG_HOME, then ~/.config, then a temp directory.
func ConfigDir() string {
	if xdgHome := os.Getenv("XDG_CONFIG_HOME"); xdgHome != "" {
		return filepath.Join(xdgHome, AppName)
	}

	usrHome, err := os.UserHomeDir()
	if err == nil && usrHome != "" {
		return filepath.Join(usrHome, ".config", AppName)
	}

	dir := filepath.Join(os.TempDir(), AppName)

	slog.Warn("could not determine user config directory, using temp path",
		slog.String("path", dir),
		slog.Any("error", err),
	)

	return dir
}

// GetConfigPath returns the path to filename inside [ConfigDir].
func GetConfigPath(filename string) string {
	return filepath.Join(ConfigDir(), filename)
}

// ReadFile reads a regular file.
func ReadFile(path string) ([]byte, error) {
	err := checkRegular(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path) //nolint:gosec // G304: Potential file inclusion via variable.
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return data, nil
}

// MarshalYAML serializes obj to YAML.
func MarshalYAML(obj any) ([]byte, error) {
	b, err := yaml.Marshal(obj)
	if err != nil {
		return nil, fmt.Errorf("marshal yaml: %w", err)
	}

	return b, nil
}

// FindConfigFile walks up from dir looking for any of names. It returns an
// empty string when no file is found before the filesystem root.
func FindConfigFile(dir string, names ...string) (string, error) {
	searchDir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("get absolute path: %w", err)
	}

	for {
		for _, name := range names {
			path := filepath.Join(searchDir, name)

			info, err := os.Stat(path)
			if err == nil && info.Mode().IsRegular() {
				return path, nil
			}
		}

		parent := filepath.Dir(searchDir)
		if parent == searchDir {
			return "", nil
		}

		searchDir = parent
	}
}

// WriteDefaultFile writes data to path, creating parent directories. An
// existing file is left alone unless force is set, in which case it is
// renamed to a timestamped backup first.
func WriteDefaultFile(path string, data []byte, force bool) error {
	exists := true

	err := checkRegular(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		exists = false
	case err != nil:
		return err
	}

	if exists && !force {
		slog.Debug("file already exists, skipping write", slog.String("path", path))

		return nil
	}

	err = os.MkdirAll(filepath.Dir(path), 0o700)
	if err != nil {
		return fmt.Errorf("create directories: %w", err)
	}

	if exists {
		backupPath := fmt.Sprintf("%s.%d.old", path, time.Now().UnixNano())
		slog.Info("backing up existing file", slog.String("path", backupPath))

		err = os.Rename(path, backupPath)
		if err != nil {
			return fmt.Errorf("back up existing file: %w", err)
		}
	}

	slog.Info("write default file", slog.String("path", path))

	err = os.WriteFile(path, data, 0o600)
	if err != nil {
		return fmt.Errorf("write file: %w", err)
	}

	return nil
}

func checkRegular(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat file: %w", err)
	}

	if info.IsDir() {
		return fmt.Errorf("%s: %w", path, ErrIsDirectory)
	}

	if !info.Mode().IsRegular() {
		return fmt.Errorf("%s: %w", path, ErrUnknownState)
	}

	return nil
}
