package world

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"

	_ "embed"

	"github.com/macropower/lv2lint/api"
	"github.com/macropower/lv2lint/pkg/log"
	"github.com/macropower/lv2lint/pkg/lv2"
	"github.com/macropower/lv2lint/pkg/yaml"
)

const (
	// BundleSuffix is the directory suffix of bundles.
	BundleSuffix = ".lv2"

	keyID   = "@id"
	keyType = "a"
)

var (
	//go:embed bundle.v1.json
	bundleSchemaJSON []byte

	//go:embed vocabulary.yaml
	vocabularyYAML []byte

	// BundleValidator validates descriptor files against the bundle schema.
	BundleValidator = yaml.MustNewValidator("/bundle.v1.json", bundleSchemaJSON)

	ErrInvalidIRI = errors.New("invalid IRI")

	// DefaultSearchPath is used when $LV2_PATH is unset.
	DefaultSearchPath = []string{"~/.lv2", "/usr/local/lib/lv2", "/usr/lib/lv2"}
)

type descriptor struct {
	Prefixes  map[string]string `json:"prefixes"`
	Resources []map[string]any  `json:"resources"`
}

// Load creates a new [World] containing the built-in vocabulary and every
// bundle found in dirs.
func Load(ctx context.Context, dirs ...string) (*World, error) {
	w := New()

	err := w.LoadData(vocabularyYAML, "")
	if err != nil {
		return nil, fmt.Errorf("load vocabulary: %w", err)
	}

	bundles, err := Discover(ctx, dirs...)
	if err != nil {
		return nil, err
	}

	for _, b := range bundles {
		err := w.LoadBundle(b)
		if err != nil {
			return nil, err
		}
	}

	log.WithContext(ctx).DebugContext(ctx, "loaded world",
		slog.Int("bundles", len(bundles)),
		slog.Int("triples", w.Len()),
	)

	return w, nil
}

// SearchPath returns the directories to search for bundles: include, followed
// by the entries of $LV2_PATH (or [DefaultSearchPath] when it is unset).
func SearchPath(include ...string) []string {
	dirs := slices.Clone(include)

	envPath, ok := os.LookupEnv("LV2_PATH")
	if ok {
		dirs = append(dirs, filepath.SplitList(envPath)...)
	} else {
		dirs = append(dirs, DefaultSearchPath...)
	}

	out := make([]string, 0, len(dirs))
	for _, d := range dirs {
		if d == "" {
			continue
		}

		out = append(out, expandHome(d))
	}

	return slices.Compact(out)
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// Discover returns the bundle directories in dirs, in order. A directory that
// is itself a bundle is returned as-is. Missing directories are skipped.
func Discover(ctx context.Context, dirs ...string) ([]string, error) {
	logger := log.WithContext(ctx)

	var bundles []string

	for _, dir := range dirs {
		info, err := os.Stat(dir)
		if errors.Is(err, os.ErrNotExist) {
			logger.DebugContext(ctx, "skip missing search directory", slog.String("dir", dir))

			continue
		}
		if err != nil {
			return nil, fmt.Errorf("stat %q: %w", dir, err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("%s: not a directory", dir)
		}

		if strings.HasSuffix(filepath.Clean(dir), BundleSuffix) {
			bundles = append(bundles, dir)

			continue
		}

		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, fmt.Errorf("read directory %q: %w", dir, err)
		}

		for _, e := range entries {
			if e.IsDir() && strings.HasSuffix(e.Name(), BundleSuffix) {
				bundles = append(bundles, filepath.Join(dir, e.Name()))
			}
		}
	}

	return bundles, nil
}

// LoadBundle loads every *.yaml and *.yml file in the bundle directory dir.
// Relative IRIs are resolved against the bundle directory.
func (w *World) LoadBundle(dir string) error {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("bundle %q: %w", dir, err)
	}

	entries, err := os.ReadDir(abs)
	if err != nil {
		return fmt.Errorf("bundle %q: %w", dir, err)
	}

	base := (&url.URL{Scheme: "file", Path: abs + "/"}).String()

	for _, e := range entries {
		ext := filepath.Ext(e.Name())
		if e.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}

		path := filepath.Join(abs, e.Name())

		data, err := api.ReadFile(path)
		if err != nil {
			return fmt.Errorf("bundle %q: %w", dir, err)
		}

		err = w.LoadData(data, base)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}

	w.bundles = append(w.bundles, abs)

	return nil
}

// LoadData loads a descriptor document. Relative IRIs are resolved against
// base, which may be empty if the document uses no relative IRIs.
func (w *World) LoadData(data []byte, base string) error {
	yamlErr := yaml.NewErrorWrapper(yaml.WithSource(data))

	err := BundleValidator.ValidateBytes(data)
	if err != nil {
		return yamlErr.Wrap(err)
	}

	var d descriptor

	err = yaml.Unmarshal(data, &d, yaml.WithStrict())
	if err != nil {
		return yamlErr.Wrap(err)
	}

	r := &resolver{prefixes: maps.Clone(lv2.Prefixes)}
	maps.Copy(r.prefixes, d.Prefixes)

	if base != "" {
		r.base, err = url.Parse(base)
		if err != nil {
			return fmt.Errorf("%w: base %q: %w", ErrInvalidIRI, base, err)
		}
	}

	for i, res := range d.Resources {
		_, err := w.addResource(r, res)
		if err != nil {
			return yamlErr.Wrap(yaml.NewError(err,
				yaml.WithPath(yaml.NewPathBuilder().Root().Child("resources").Index(uint(i)).Build()),
			))
		}
	}

	return nil
}

type resolver struct {
	base     *url.URL
	prefixes map[string]string
}

// IRI expands a CURIE, or resolves a relative IRI against the base. Values
// may be wrapped in angle brackets.
func (r *resolver) IRI(s string) (string, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(strings.TrimPrefix(s, "<"), ">")

	if s == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidIRI)
	}

	if prefix, local, ok := strings.Cut(s, ":"); ok && !strings.HasPrefix(local, "//") {
		if ns, ok := r.prefixes[prefix]; ok {
			return ns + local, nil
		}
	}

	u, err := url.Parse(s)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %w", ErrInvalidIRI, s, err)
	}
	if u.IsAbs() {
		return s, nil
	}
	if r.base == nil {
		return "", fmt.Errorf("%w: %q: relative IRI without a base", ErrInvalidIRI, s)
	}

	return r.base.ResolveReference(u).String(), nil
}

func (w *World) addResource(r *resolver, res map[string]any) (Node, error) {
	var subject Node

	if id, ok := res[keyID]; ok {
		s, ok := id.(string)
		if !ok {
			return Node{}, fmt.Errorf("%s: expected string, got %T", keyID, id)
		}

		iri, err := r.IRI(s)
		if err != nil {
			return Node{}, fmt.Errorf("%s: %w", keyID, err)
		}

		subject = IRI(iri)
	} else {
		subject = w.NewBlank()
	}

	keys := slices.Sorted(maps.Keys(res))

	for _, key := range keys {
		if key == keyID {
			continue
		}

		var (
			pred     string
			typeDecl = key == keyType
		)

		if typeDecl {
			pred = lv2.RDFType
		} else {
			var err error

			pred, err = r.IRI(key)
			if err != nil {
				return Node{}, fmt.Errorf("predicate %q: %w", key, err)
			}
		}

		objs, err := w.objects(r, res[key], typeDecl)
		if err != nil {
			return Node{}, fmt.Errorf("%s: %w", key, err)
		}

		for _, o := range objs {
			w.Add(subject, IRI(pred), o)
		}
	}

	return subject, nil
}

// objects converts a YAML value to object nodes. When iris is set, plain
// strings are IRIs rather than string literals.
func (w *World) objects(r *resolver, v any, iris bool) ([]Node, error) {
	switch val := v.(type) {
	case nil:
		return nil, nil

	case []any:
		var out []Node
		for _, item := range val {
			nodes, err := w.objects(r, item, iris)
			if err != nil {
				return nil, err
			}

			out = append(out, nodes...)
		}

		return out, nil

	case map[string]any:
		if id, ok := val[keyID]; ok && len(val) == 1 {
			s, ok := id.(string)
			if !ok {
				return nil, fmt.Errorf("%s: expected string, got %T", keyID, id)
			}

			iri, err := r.IRI(s)
			if err != nil {
				return nil, err
			}

			return []Node{IRI(iri)}, nil
		}

		n, err := w.addResource(r, val)
		if err != nil {
			return nil, err
		}

		return []Node{n}, nil

	case string:
		if iris || (strings.HasPrefix(val, "<") && strings.HasSuffix(val, ">")) {
			iri, err := r.IRI(val)
			if err != nil {
				return nil, err
			}

			return []Node{IRI(iri)}, nil
		}

		return []Node{String(val)}, nil

	case bool:
		return []Node{Bool(val)}, nil

	case float64:
		return []Node{Float(val)}, nil

	case float32:
		return []Node{Float(float64(val))}, nil

	case int:
		return []Node{Int(int64(val))}, nil

	case int64:
		return []Node{Int(val)}, nil

	case uint64:
		if val > 1<<63-1 {
			return nil, fmt.Errorf("integer %d out of range", val)
		}

		return []Node{Int(int64(val))}, nil
	}

	return nil, fmt.Errorf("unsupported value type %T", v)
}
