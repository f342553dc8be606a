package api_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/lv2lint/api"
)

//nolint:paralleltest // We need to set environment variables, so run tests sequentially.
func TestGetConfigPath(t *testing.T) {
	tcs := map[string]struct {
		xdg  string
		home string
		want string
	}{
		"XDG_CONFIG_HOME is set": {
			xdg:  "/custom/config",
			home: "/test/home",
			want: "/custom/config/lv2lint/config.yaml",
		},
		"XDG_CONFIG_HOME is empty": {
			home: "/test/home",
			want: "/test/home/.config/lv2lint/config.yaml",
		},
		"XDG_CONFIG_HOME and HOME are empty": {
			want: filepath.Join(os.TempDir(), "lv2lint", "config.yaml"), //nolint:usetesting // Needs to equal host.
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Setenv("XDG_CONFIG_HOME", tc.xdg)
			t.Setenv("HOME", tc.home)

			assert.Equal(t, tc.want, api.GetConfigPath("config.yaml"))
		})
	}
}

func TestReadFile(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		setup func(t *testing.T) string
		err   error
	}{
		"valid file": {
			setup: func(t *testing.T) string {
				t.Helper()

				path := filepath.Join(t.TempDir(), "test.yaml")
				require.NoError(t, os.WriteFile(path, []byte("content"), 0o600))

				return path
			},
		},
		"non-existent file": {
			setup: func(t *testing.T) string {
				t.Helper()

				return filepath.Join(t.TempDir(), "missing.yaml")
			},
			err: os.ErrNotExist,
		},
		"directory": {
			setup: func(t *testing.T) string {
				t.Helper()

				return t.TempDir()
			},
			err: api.ErrIsDirectory,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := api.ReadFile(tc.setup(t))
			if tc.err != nil {
				require.ErrorIs(t, err, tc.err)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, "content", string(got))
		})
	}
}

func TestMarshalYAML(t *testing.T) {
	t.Parallel()

	obj := struct {
		Name  string   `json:"name"`
		Tests []string `json:"tests"`
	}{
		Name:  "amp",
		Tests: []string{"License"},
	}

	data, err := api.MarshalYAML(obj)
	require.NoError(t, err)
	assert.Contains(t, string(data), "name: amp")
	assert.Contains(t, string(data), "- License")
}

func TestFindConfigFile(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o700))

	want := filepath.Join(root, "a", ".lv2lint.yaml")
	require.NoError(t, os.WriteFile(want, []byte("kind: Configuration"), 0o600))

	got, err := api.FindConfigFile(nested, ".lv2lint.yml", ".lv2lint.yaml")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	got, err = api.FindConfigFile(root, ".lv2lint.yaml")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestWriteDefaultFile(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		existing    string
		force       bool
		want        string
		wantBackups int
	}{
		"new file": {
			want: "default",
		},
		"existing file without force": {
			existing: "mine",
			want:     "mine",
		},
		"existing file with force": {
			existing:    "mine",
			force:       true,
			want:        "default",
			wantBackups: 1,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			dir := filepath.Join(t.TempDir(), "nested")
			path := filepath.Join(dir, "config.yaml")

			if tc.existing != "" {
				require.NoError(t, os.MkdirAll(dir, 0o700))
				require.NoError(t, os.WriteFile(path, []byte(tc.existing), 0o600))
			}

			require.NoError(t, api.WriteDefaultFile(path, []byte("default"), tc.force))

			got, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, tc.want, string(got))

			backups, err := filepath.Glob(path + ".*.old")
			require.NoError(t, err)
			assert.Len(t, backups, tc.wantBackups)
		})
	}

	t.Run("directory", func(t *testing.T) {
		t.Parallel()

		err := api.WriteDefaultFile(t.TempDir(), []byte("default"), true)
		require.ErrorIs(t, err, api.ErrIsDirectory)
	})
}
