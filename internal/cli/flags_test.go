package cli_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/lv2lint/api/v1beta1/configs"
	"github.com/macropower/lv2lint/pkg/whitelist"
	"github.com/macropower/lv2lint/pkg/yaml"
)

//nolint:paralleltest // Sets environment variables.
func TestFlags_EffectiveConfig(t *testing.T) {
	tcs := map[string]struct {
		env    map[string]string
		want   func(t *testing.T, cfg *configs.Config)
		errMsg string
		args   []string
	}{
		"defaults": {
			want: func(t *testing.T, cfg *configs.Config) {
				t.Helper()

				assert.Empty(t, cfg.Lint.Show)
				assert.Empty(t, cfg.Lint.Error)
				assert.Equal(t, configs.FormatText, cfg.Lint.Format)
			},
		},
		"show all": {
			args: []string{"--show", "all"},
			want: func(t *testing.T, cfg *configs.Config) {
				t.Helper()

				assert.Equal(t, []string{"warn", "note", "pass"}, cfg.Lint.Show)
			},
		},
		"show flags apply in order": {
			args: []string{"-s", "all", "-s", "nonote", "-s", "nopass,note"},
			want: func(t *testing.T, cfg *configs.Config) {
				t.Helper()

				assert.Equal(t, []string{"warn", "note"}, cfg.Lint.Show)
			},
		},
		"error implies show": {
			args: []string{"--error", "warn"},
			want: func(t *testing.T, cfg *configs.Config) {
				t.Helper()

				assert.Equal(t, []string{"warn"}, cfg.Lint.Show)
				assert.Equal(t, []string{"warn"}, cfg.Lint.Error)
			},
		},
		"noall error": {
			args: []string{"-e", "all", "-e", "noall"},
			want: func(t *testing.T, cfg *configs.Config) {
				t.Helper()

				assert.Empty(t, cfg.Lint.Error)
			},
		},
		"error does not accept pass": {
			args:   []string{"--error", "pass"},
			errMsg: "invalid argument",
		},
		"unknown severity": {
			args:   []string{"--show", "loud"},
			errMsg: "loud",
		},
		"environment": {
			env: map[string]string{
				"LV2LINT_SHOW":     "note",
				"LV2LINT_PACKAGER": "true",
			},
			want: func(t *testing.T, cfg *configs.Config) {
				t.Helper()

				assert.Equal(t, []string{"note"}, cfg.Lint.Show)
				require.NotNil(t, cfg.Lint.Packager)
				assert.True(t, *cfg.Lint.Packager)
			},
		},
		"whitelist scopes": {
			args: []string{
				"-t", "License",
				"-u", "http://example.org/*", "-t", "Symbols", "-x", "_init",
				"-u", "", "-X", "libm.so.*",
			},
			want: func(t *testing.T, cfg *configs.Config) {
				t.Helper()

				assert.Equal(t, []whitelist.Entry{
					{Pattern: "License"},
					{Subject: "http://example.org/*", Pattern: "Symbols"},
				}, cfg.Whitelist.Tests)
				assert.Equal(t, []whitelist.Entry{
					{Subject: "http://example.org/*", Pattern: "_init"},
				}, cfg.Whitelist.Symbols)
				assert.Equal(t, []whitelist.Entry{{Pattern: "libm.so.*"}}, cfg.Whitelist.Libraries)
			},
		},
		"format and include": {
			args: []string{"--format", "json", "--color", "never", "-D", "-I", "/opt/lv2"},
			want: func(t *testing.T, cfg *configs.Config) {
				t.Helper()

				assert.Equal(t, configs.FormatJSON, cfg.Lint.Format)
				assert.Equal(t, "never", cfg.Lint.Color)
				require.NotNil(t, cfg.Lint.Documentation)
				assert.True(t, *cfg.Lint.Documentation)
				assert.Equal(t, []string{"/opt/lv2"}, cfg.Include)
			},
		},
		"invalid format": {
			args:   []string{"--format", "xml"},
			errMsg: "xml",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			setup(t)

			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			out, err := execute(t, append([]string{"--show-config"}, tc.args...)...)
			if tc.errMsg != "" {
				require.ErrorContains(t, err, tc.errMsg)

				return
			}

			require.NoError(t, err)

			cfg := &configs.Config{}
			require.NoError(t, yaml.NewDecoder(bytes.NewBufferString(out)).Decode(cfg))
			tc.want(t, cfg)
		})
	}
}
