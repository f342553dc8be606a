package config

import (
	"github.com/macropower/lv2lint/api"
	"github.com/macropower/lv2lint/api/v1beta1"
	"github.com/macropower/lv2lint/pkg/yaml"
)

// Validator validates YAML configuration data against a schema.
type Validator interface {
	ValidateBytes(data []byte) error
}

// Loader is a generic configuration loader that handles validation,
// YAML parsing, and error formatting for any config type T.
type Loader[T v1beta1.Object] struct {
	validator Validator
	newFunc   func() T
	yamlError *yaml.ErrorWrapper
	data      []byte
}

// NewLoaderFromBytes creates a [Loader] from byte data.
// The newFunc parameter is the constructor for type T (e.g., configs.New).
// A nil validator skips schema validation.
func NewLoaderFromBytes[T v1beta1.Object](data []byte, newFunc func() T, validator Validator) *Loader[T] {
	return &Loader[T]{
		data:      data,
		newFunc:   newFunc,
		validator: validator,
		yamlError: yaml.NewErrorWrapper(yaml.WithSource(data)),
	}
}

// NewLoaderFromFile creates a [Loader] from a file path.
func NewLoaderFromFile[T v1beta1.Object](path string, newFunc func() T, validator Validator) (*Loader[T], error) {
	data, err := api.ReadFile(path)
	if err != nil {
		return nil, err //nolint:wrapcheck // Return the original error.
	}

	return NewLoaderFromBytes(data, newFunc, validator), nil
}

// Validate checks the configuration data against the schema. A nil
// validator only checks that the data is valid YAML.
func (l *Loader[T]) Validate() error {
	var err error
	if l.validator == nil {
		var doc any
		err = yaml.Unmarshal(l.data, &doc)
	} else {
		err = l.validator.ValidateBytes(l.data)
	}

	if err != nil {
		return l.yamlError.Wrap(err)
	}

	return nil
}

// Load parses and returns the configuration, with defaults applied.
//
//nolint:ireturn // Generic type parameter return is intentional.
func (l *Loader[T]) Load() (T, error) {
	cfg := l.newFunc()

	err := yaml.Unmarshal(l.data, cfg)
	if err != nil {
		var zero T

		return zero, l.yamlError.Wrap(err)
	}

	cfg.EnsureDefaults()

	return cfg, nil
}
