// Package config loads lv2lint configuration files.
//
// A [Loader] validates raw YAML against a JSON schema before decoding it, so
// that errors point at the offending source line. [Load] applies this to the
// Configuration kind and resolves which file to read.
package config
