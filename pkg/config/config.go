package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/macropower/lv2lint/api/v1beta1/configs"
)

// Resolve returns the configuration file to read. An explicit path always
// wins. Otherwise the nearest local file above dir is used, then the user
// configuration file. It returns an empty string when no file exists.
func Resolve(explicit, dir string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}

	local, err := configs.FindLocal(dir)
	if err != nil {
		return "", err //nolint:wrapcheck // Already wrapped.
	}

	if local != "" {
		return local, nil
	}

	global := configs.GetPath()

	_, err = os.Stat(global)
	switch {
	case err == nil:
		return global, nil
	case errors.Is(err, os.ErrNotExist):
		return "", nil
	}

	return "", fmt.Errorf("stat config: %w", err)
}

// Load reads, validates and returns the configuration at path. An empty
// path returns the defaults.
func Load(path string) (*configs.Config, error) {
	if path == "" {
		return configs.New(), nil
	}

	slog.Debug("load config", slog.String("path", path))

	cl, err := NewLoaderFromFile(path, configs.New, configs.DefaultValidator)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	err = cl.Validate()
	if err != nil {
		return nil, fmt.Errorf("validate config %s: %w", path, err)
	}

	cfg, err := cl.Load()
	if err != nil {
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}

	err = cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}
