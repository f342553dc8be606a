package yaml

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// SchemaGenerator reflects a JSON schema from a Go value.
// Uses [github.com/invopop/jsonschema].
type SchemaGenerator struct {
	v      any
	module string
	dirs   []string
}

// NewSchemaGenerator creates a new [SchemaGenerator] for v.
// Doc comments are read from each of dirs, which must be relative to the
// root of the given module and the working directory.
func NewSchemaGenerator(v any, module string, dirs ...string) *SchemaGenerator {
	return &SchemaGenerator{
		v:      v,
		module: module,
		dirs:   dirs,
	}
}

// Generate returns the indented JSON schema.
func (g *SchemaGenerator) Generate() ([]byte, error) {
	r := &jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
	}

	for _, dir := range g.dirs {
		err := r.AddGoComments(g.module, dir)
		if err != nil {
			return nil, fmt.Errorf("add go comments from %s: %w", dir, err)
		}
	}

	jss := r.Reflect(g.v)

	b, err := json.MarshalIndent(jss, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}

	return append(b, '\n'), nil
}
