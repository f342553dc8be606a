package yaml

import (
	"bytes"
	"errors"
	"io"

	"github.com/goccy/go-yaml"
)

// Decoder reads YAML documents. Decode errors are returned as [*Error] so
// they can be annotated with an [ErrorWrapper].
type Decoder struct {
	d *yaml.Decoder
}

// DecodeOpt configures a [Decoder].
type DecodeOpt func(*[]yaml.DecodeOption)

// WithStrict rejects mapping keys that do not correspond to a struct field.
func WithStrict() DecodeOpt {
	return func(opts *[]yaml.DecodeOption) {
		*opts = append(*opts, yaml.DisallowUnknownField())
	}
}

func NewDecoder(r io.Reader, opts ...DecodeOpt) *Decoder {
	yamlOpts := []yaml.DecodeOption{yaml.AllowDuplicateMapKey()}
	for _, opt := range opts {
		opt(&yamlOpts)
	}

	return &Decoder{d: yaml.NewDecoder(r, yamlOpts...)}
}

func (d *Decoder) Decode(v any) error {
	err := d.d.Decode(v)
	if err == nil {
		return nil
	}

	var yamlErr yaml.Error
	if errors.As(err, &yamlErr) {
		return &Error{
			Err:   errors.New(yamlErr.GetMessage()),
			Token: yamlErr.GetToken(),
		}
	}

	return err //nolint:wrapcheck // Return the original error if it's not a [yaml.Error].
}

// Unmarshal decodes the first document in data into v.
func Unmarshal(data []byte, v any, opts ...DecodeOpt) error {
	return NewDecoder(bytes.NewReader(data), opts...).Decode(v)
}
