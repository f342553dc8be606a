// Package version reports build information for lv2lint.
package version

import (
	"log/slog"
	"runtime"
	"runtime/debug"
	"strings"
)

const shortRevisionLength = 7

var (
	Version   string // Set via ldflags.
	Branch    string
	BuildUser string
	BuildDate string

	Revision  = readRevision()
	GoVersion = runtime.Version()
	Platform  = runtime.GOOS + "/" + runtime.GOARCH
)

// Info describes the running build.
type Info struct {
	Version   string `json:"version"`
	Revision  string `json:"revision"`
	Branch    string `json:"branch,omitempty"`
	BuildUser string `json:"buildUser,omitempty"`
	BuildDate string `json:"buildDate,omitempty"`
	GoVersion string `json:"goVersion"`
	Platform  string `json:"platform"`
}

// Get returns the build information.
func Get() Info {
	return Info{
		Version:   GetVersion(),
		Revision:  Revision,
		Branch:    Branch,
		BuildUser: BuildUser,
		BuildDate: BuildDate,
		GoVersion: GoVersion,
		Platform:  Platform,
	}
}

// GetVersion returns the release version, or the VCS revision for
// development builds.
func GetVersion() string {
	if Version != "" {
		return Version
	}

	return Revision
}

// LogValue implements [slog.LogValuer].
func (i Info) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("version", i.Version),
		slog.String("revision", i.Revision),
		slog.String("go", i.GoVersion),
		slog.String("platform", i.Platform),
	}

	if i.BuildDate != "" {
		attrs = append(attrs, slog.String("date", i.BuildDate))
	}

	return slog.GroupValue(attrs...)
}

func readRevision() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}

	return revision(info.Settings)
}

func revision(settings []debug.BuildSetting) string {
	rev := "unknown"
	dirty := false

	for _, s := range settings {
		switch s.Key {
		case "vcs.revision":
			rev = s.Value[:min(len(s.Value), shortRevisionLength)]
		case "vcs.modified":
			dirty = s.Value == "true"
		}
	}

	if dirty {
		return strings.Join([]string{rev, "dirty"}, "-")
	}

	return rev
}
