package yaml

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/goccy/go-yaml"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Validator checks YAML documents against a JSON schema, using
// [github.com/santhosh-tekuri/jsonschema/v6].
type Validator struct {
	schema *jsonschema.Schema
}

// NewValidator compiles schemaData, registered under url.
func NewValidator(url string, schemaData []byte) (*Validator, error) {
	var doc any

	err := json.Unmarshal(schemaData, &doc)
	if err != nil {
		return nil, fmt.Errorf("unmarshal schema: %w", err)
	}

	c := jsonschema.NewCompiler()

	err = c.AddResource(url, doc)
	if err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}

	schema, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}

	return &Validator{schema: schema}, nil
}

func MustNewValidator(url string, schemaData []byte) *Validator {
	v, err := NewValidator(url, schemaData)
	if err != nil {
		panic(err)
	}

	return v
}

// Validate checks a decoded document. A schema violation is returned as an
// [*Error] whose Path points at the deepest failing location, so that it can
// be annotated with the document source.
func (v *Validator) Validate(data any) error {
	err := v.schema.Validate(data)
	if err == nil {
		return nil
	}

	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return fmt.Errorf("schema validation: %w", err)
	}

	return &Error{
		Err:  verr,
		Path: locationPath(deepestLocation(verr)),
	}
}

// ValidateBytes decodes the YAML document in data and calls [Validator.Validate].
func (v *Validator) ValidateBytes(data []byte) error {
	var doc any

	err := Unmarshal(data, &doc)
	if err != nil {
		return err
	}

	return v.Validate(doc)
}

func deepestLocation(err *jsonschema.ValidationError) []string {
	loc := err.InstanceLocation

	for _, cause := range err.Causes {
		if l := deepestLocation(cause); len(l) > len(loc) {
			loc = l
		}
	}

	return loc
}

// locationPath converts a JSON pointer, split into tokens, to a [yaml.Path].
// Numeric tokens are treated as sequence indexes.
func locationPath(tokens []string) *yaml.Path {
	p := NewPathBuilder().Root()

	for _, tok := range tokens {
		idx, err := strconv.ParseUint(tok, 10, 0)
		if err == nil {
			p = p.Index(uint(idx))

			continue
		}

		p = p.Child(tok)
	}

	return p.Build()
}
