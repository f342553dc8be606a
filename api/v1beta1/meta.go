// Package v1beta1 contains the v1beta1 configuration types for lv2lint.
package v1beta1

import (
	"errors"
	"fmt"
	"slices"

	"github.com/invopop/jsonschema"
)

// APIVersion is the current API version for all lv2lint configuration kinds.
const APIVersion = "lv2lint.macropower.dev/v1beta1"

var (
	ErrAPIVersion = errors.New("unsupported apiVersion")
	ErrKind       = errors.New("unsupported kind")

	// ValidAPIVersions contains all valid API versions.
	ValidAPIVersions = []string{APIVersion}
)

// TypeMeta contains the API version and kind common to all configuration
// kinds.
type TypeMeta struct {
	// APIVersion specifies the API version for this configuration.
	APIVersion string `json:"apiVersion" jsonschema:"title=API Version,required"`
	// Kind defines the type of configuration.
	Kind string `json:"kind" jsonschema:"title=Kind,required"`
}

func (tm TypeMeta) GetAPIVersion() string { return tm.APIVersion }

func (tm TypeMeta) GetKind() string { return tm.Kind }

// Check returns an error if the API version is not one of [ValidAPIVersions],
// or the kind is not one of kinds.
func (tm TypeMeta) Check(kinds ...string) error {
	if !slices.Contains(ValidAPIVersions, tm.APIVersion) {
		return fmt.Errorf("%w %q, expected one of %q", ErrAPIVersion, tm.APIVersion, ValidAPIVersions)
	}

	if !slices.Contains(kinds, tm.Kind) {
		return fmt.Errorf("%w %q, expected one of %q", ErrKind, tm.Kind, kinds)
	}

	return nil
}

// Object is implemented by all configuration kinds.
type Object interface {
	GetAPIVersion() string
	GetKind() string
	EnsureDefaults()
}

// ExtendSchemaWithEnums restricts the apiVersion and kind properties of jss
// to the given values. It panics if either property is missing.
func ExtendSchemaWithEnums(jss *jsonschema.Schema, apiVersions, kinds []string) {
	constrain(jss, "apiVersion", "API Version", apiVersions)
	constrain(jss, "kind", "Kind", kinds)
}

func constrain(jss *jsonschema.Schema, name, title string, values []string) {
	prop, ok := jss.Properties.Get(name)
	if !ok {
		panic(name + " property not found in schema")
	}

	for _, v := range values {
		prop.OneOf = append(prop.OneOf, &jsonschema.Schema{
			Type:  "string",
			Const: v,
			Title: title,
		})
	}

	jss.Properties.Set(name, prop)
}
