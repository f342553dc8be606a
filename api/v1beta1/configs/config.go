// Package configs provides the Configuration kind for lv2lint.
package configs

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/invopop/jsonschema"

	_ "embed"

	"github.com/macropower/lv2lint/api"
	"github.com/macropower/lv2lint/api/v1beta1"
	"github.com/macropower/lv2lint/pkg/checks"
	"github.com/macropower/lv2lint/pkg/lint"
	"github.com/macropower/lv2lint/pkg/plugin"
	"github.com/macropower/lv2lint/pkg/report"
	"github.com/macropower/lv2lint/pkg/whitelist"
	"github.com/macropower/lv2lint/pkg/world"
	"github.com/macropower/lv2lint/pkg/yaml"
)

//go:generate go run ../../../internal/schemagen/main.go -o configs.v1beta1.json

const (
	Kind = "Configuration"

	FormatText = "text"
	FormatJSON = "json"
)

var (
	//go:embed config.yaml
	defaultConfigYAML []byte

	//go:embed configs.v1beta1.json
	schemaJSON []byte

	ErrInvalidConfig = errors.New("invalid configuration")

	// ValidKinds contains the valid kind values.
	ValidKinds = []string{Kind}

	// ValidFormats contains the valid report formats.
	ValidFormats = []string{FormatText, FormatJSON}

	// LocalFileNames are searched for in the working directory and its
	// parents when no configuration path is given.
	LocalFileNames = []string{".lv2lint.yaml", ".lv2lint.yml"}

	// DefaultValidator validates configuration against the JSON schema.
	DefaultValidator = yaml.MustNewValidator("/configs.v1beta1.json", schemaJSON)

	// Compile-time interface checks.
	_ v1beta1.Object = (*Config)(nil)
)

// Config is the lv2lint configuration file.
//
//nolint:recvcheck // Must satisfy the jsonschema interface.
type Config struct {
	// Lint controls which findings are shown and which fail the run.
	Lint *LintConfig `json:"lint,omitempty" jsonschema:"title=Lint"`
	// Whitelist entries are registered before any plugin is checked.
	Whitelist *WhitelistConfig `json:"whitelist,omitempty" jsonschema:"title=Whitelist"`
	// Host describes the features and options offered to plugins.
	Host *HostConfig `json:"host,omitempty" jsonschema:"title=Host"`
	// Include lists additional bundle directories.
	Include []string `json:"include,omitempty" jsonschema:"title=Include"`
	// Rules are custom checks written in CEL.
	Rules            []checks.Rule `json:"rules,omitempty" jsonschema:"title=Rules"`
	v1beta1.TypeMeta `json:",inline"`
}

// LintConfig holds reporting options.
type LintConfig struct {
	// Packager enables the packager severity table.
	Packager *bool `json:"packager,omitempty" jsonschema:"title=Packager"`
	// Documentation prints the description of every displayed finding.
	Documentation *bool `json:"documentation,omitempty" jsonschema:"title=Documentation"`
	// Format of the report.
	Format string `json:"format,omitempty" jsonschema:"title=Format,enum=text,enum=json"`
	// Color controls ANSI styling of the text report.
	Color string `json:"color,omitempty" jsonschema:"title=Color,enum=auto,enum=always,enum=never"`
	// Show lists severities that are displayed in addition to fail.
	Show []string `json:"show,omitempty" jsonschema:"title=Show,enum=warn,enum=note,enum=pass"`
	// Error lists severities that fail the run in addition to fail.
	// They are displayed as well.
	Error []string `json:"error,omitempty" jsonschema:"title=Error,enum=warn,enum=note"`
}

// WhitelistConfig holds whitelist entries per registry.
type WhitelistConfig struct {
	// Tests never fail the run for the matching subject and test name.
	Tests []whitelist.Entry `json:"tests,omitempty" jsonschema:"title=Tests"`
	// Symbols are allowed to be exported by the matching plugin binary.
	Symbols []whitelist.Entry `json:"symbols,omitempty" jsonschema:"title=Symbols"`
	// Libraries are allowed to be linked by the matching plugin binary.
	Libraries []whitelist.Entry `json:"libraries,omitempty" jsonschema:"title=Libraries"`
}

// HostConfig overrides the default host capabilities.
type HostConfig struct {
	// Options maps option URIs to values. Replaces the default options when set.
	Options map[string]any `json:"options,omitempty" jsonschema:"title=Options"`
	// Features lists feature URIs. Replaces the default features when set.
	Features []string `json:"features,omitempty" jsonschema:"title=Features"`
}

// New creates a new [Config] with default values.
func New() *Config {
	c := &Config{
		TypeMeta: v1beta1.TypeMeta{
			APIVersion: v1beta1.APIVersion,
			Kind:       Kind,
		},
	}
	c.EnsureDefaults()

	return c
}

// EnsureDefaults initializes nil fields to their default values.
func (c *Config) EnsureDefaults() {
	if c.Lint == nil {
		c.Lint = &LintConfig{}
	}

	if c.Lint.Format == "" {
		c.Lint.Format = FormatText
	}

	if c.Lint.Color == "" {
		c.Lint.Color = string(report.ColorAuto)
	}

	if c.Whitelist == nil {
		c.Whitelist = &WhitelistConfig{}
	}

	if c.Host == nil {
		c.Host = &HostConfig{}
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	err := c.TypeMeta.Check(ValidKinds...)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	if c.Lint != nil {
		err = c.Lint.Validate()
		if err != nil {
			return fmt.Errorf("%w: lint: %w", ErrInvalidConfig, err)
		}
	}

	if c.Host != nil {
		_, err = c.Host.Build()
		if err != nil {
			return fmt.Errorf("%w: host: %w", ErrInvalidConfig, err)
		}
	}

	_, err = checks.New(c.Rules...)
	if err != nil {
		return fmt.Errorf("%w: rules: %w", ErrInvalidConfig, err)
	}

	return nil
}

func (c Config) JSONSchemaExtend(jss *jsonschema.Schema) {
	v1beta1.ExtendSchemaWithEnums(jss, v1beta1.ValidAPIVersions, ValidKinds)
}

// MarshalYAML serializes the config to YAML.
func (c Config) MarshalYAML() ([]byte, error) {
	type alias Config

	b, err := api.MarshalYAML(alias(c))
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}

	return b, nil
}

// Whitelists returns a new [whitelist.Set] holding the configured entries.
func (c *Config) Whitelists() *whitelist.Set {
	wl := whitelist.NewSet()
	if c.Whitelist == nil {
		return wl
	}

	for _, e := range c.Whitelist.Tests {
		wl.Tests.Register(e.Subject, e.Pattern)
	}

	for _, e := range c.Whitelist.Symbols {
		wl.Symbols.Register(e.Subject, e.Pattern)
	}

	for _, e := range c.Whitelist.Libraries {
		wl.Libraries.Register(e.Subject, e.Pattern)
	}

	return wl
}

// Validate checks that every severity and mode is known.
func (l *LintConfig) Validate() error {
	_, err := l.Policy()
	if err != nil {
		return err
	}

	if l.Format != "" && !slices.Contains(ValidFormats, l.Format) {
		return fmt.Errorf("format %q: expected one of %q", l.Format, ValidFormats)
	}

	if l.Color != "" && !slices.Contains(report.AllColorModes, l.Color) {
		return fmt.Errorf("color %q: expected one of %q", l.Color, report.AllColorModes)
	}

	return nil
}

// Policy returns the [lint.Policy] described by l.
func (l *LintConfig) Policy() (lint.Policy, error) {
	p := lint.DefaultPolicy()

	for _, name := range l.Show {
		sev, err := lint.ParseSeverity(name)
		if err != nil {
			return p, fmt.Errorf("show: %w", err)
		}

		p.Show = p.Show.With(sev)
	}

	for _, name := range l.Error {
		sev, err := lint.ParseSeverity(name)
		if err != nil {
			return p, fmt.Errorf("error: %w", err)
		}

		p.Fail = p.Fail.With(sev)
	}

	if l.Packager != nil {
		p.Packager = *l.Packager
	}

	return p.Normalize(), nil
}

// Build returns the [plugin.Host] described by h. Unset fields keep the
// values of [plugin.DefaultHost].
func (h *HostConfig) Build() (plugin.Host, error) {
	host := plugin.DefaultHost()

	if h.Features != nil {
		host.Features = slices.Clone(h.Features)
	}

	if h.Options == nil {
		return host, nil
	}

	host.Options = make(map[string]world.Node, len(h.Options))

	for _, uri := range slices.Sorted(maps.Keys(h.Options)) {
		n, err := optionValue(h.Options[uri])
		if err != nil {
			return host, fmt.Errorf("option %s: %w", uri, err)
		}

		host.Options[uri] = n
	}

	return host, nil
}

func optionValue(v any) (world.Node, error) {
	switch v := v.(type) {
	case bool:
		return world.Bool(v), nil
	case string:
		return world.String(v), nil
	case int:
		return world.Int(int64(v)), nil
	case int64:
		return world.Int(v), nil
	case uint64:
		return world.Int(int64(v)), nil //nolint:gosec // G115: Option values are small.
	case float64:
		return world.Float(v), nil
	}

	return world.Node{}, fmt.Errorf("unsupported value %v (%T)", v, v)
}

// WriteDefault writes the embedded default config.yaml to path.
func WriteDefault(path string, force bool) error {
	err := api.WriteDefaultFile(path, defaultConfigYAML, force)
	if err != nil {
		return fmt.Errorf("write default config: %w", err)
	}

	return nil
}

// GetPath returns the path to the user configuration file.
func GetPath() string {
	return api.GetConfigPath("config.yaml")
}

// FindLocal returns the path of the nearest local configuration file above
// dir, or an empty string.
func FindLocal(dir string) (string, error) {
	path, err := api.FindConfigFile(dir, LocalFileNames...)
	if err != nil {
		return "", fmt.Errorf("find local config: %w", err)
	}

	return path, nil
}
