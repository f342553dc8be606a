package world_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/lv2lint/pkg/lv2"
	"github.com/macropower/lv2lint/pkg/world"
	"github.com/macropower/lv2lint/pkg/yaml"
)

const ampManifest = `prefixes:
  eg: http://example.org/
resources:
  - "@id": eg:amp
    a: lv2:Plugin
    lv2:binary: <amp.so>
    rdfs:seeAlso:
      "@id": amp.yaml
`

const ampDescriptor = `prefixes:
  eg: http://example.org/
resources:
  - "@id": eg:amp
    doap:name: Amp
    doap:license:
      "@id": http://opensource.org/licenses/isc
    lv2:minorVersion: 2
    lv2:port:
      - a:
          - lv2:InputPort
          - lv2:ControlPort
        lv2:index: 0
        lv2:symbol: gain
        lv2:name: Gain
        lv2:default: 0.5
        lv2:minimum: 0
        lv2:maximum: 1
        lv2:portProperty: <lv2:integer>
        lv2:connectionOptional: true
`

func writeBundle(t *testing.T, root, name string, files map[string]string) string {
	t.Helper()

	dir := filepath.Join(root, name)
	require.NoError(t, os.MkdirAll(dir, 0o750))

	for file, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, file), []byte(content), 0o600))
	}

	return dir
}

func TestLoad(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	bundle := writeBundle(t, root, "amp.lv2", map[string]string{
		"manifest.yaml": ampManifest,
		"amp.yaml":      ampDescriptor,
		"README.md":     "not a descriptor",
	})

	w, err := world.Load(t.Context(), root)
	require.NoError(t, err)

	abs, err := filepath.Abs(bundle)
	require.NoError(t, err)
	assert.Equal(t, []string{abs}, w.Bundles())

	amp := world.IRI("http://example.org/amp")
	assert.True(t, w.IsA(amp, world.IRI(lv2.Plugin)))

	bin, ok := w.Object(amp, world.IRI(lv2.Binary))
	require.True(t, ok)
	assert.True(t, bin.IsIRI())
	assert.Equal(t, "file://"+abs+"/amp.so", bin.String())

	name, ok := w.Object(amp, world.IRI(lv2.DOAPName))
	require.True(t, ok)
	assert.True(t, name.IsString())
	assert.Equal(t, "Amp", name.String())

	minor, ok := w.Object(amp, world.IRI(lv2.MinorVersion))
	require.True(t, ok)
	assert.True(t, minor.IsInt())
	assert.Equal(t, int64(2), minor.AsInt())

	ports := w.Objects(amp, world.IRI(lv2.PortPred))
	require.Len(t, ports, 1)

	port := ports[0]
	assert.True(t, port.IsBlank())
	assert.True(t, w.IsA(port, world.IRI(lv2.InputPort)))
	assert.True(t, w.IsA(port, world.IRI(lv2.ControlPort)))
	assert.True(t, w.Ask(port, world.IRI(lv2.PortPropertyPred), world.IRI(lv2.Integer)))
	assert.True(t, w.Ask(port, world.IRI(lv2.ConnectionOptional), world.Bool(true)))

	def, ok := w.Object(port, world.IRI(lv2.Default))
	require.True(t, ok)
	assert.True(t, def.IsFloat())
	assert.InDelta(t, 0.5, def.AsFloat(), 1e-9)

	// Built-in vocabulary is always loaded.
	doc, ok := w.Document(lv2.Port)
	assert.True(t, ok)
	assert.Contains(t, doc, "lv2:symbol")
	assert.True(t, w.Ask(world.IRI(lv2.AtomPort), world.IRI(lv2.RDFSSubClassOf), world.IRI(lv2.Port)))
}

func TestLoad_MissingDirectory(t *testing.T) {
	t.Parallel()

	w, err := world.Load(t.Context(), filepath.Join(t.TempDir(), "missing"))
	require.NoError(t, err)
	assert.Empty(t, w.Bundles())
	assert.Empty(t, w.Instances(world.IRI(lv2.Plugin)))
}

func TestLoad_InvalidBundle(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeBundle(t, root, "bad.lv2", map[string]string{
		"manifest.yaml": "prefixes: {}\n",
	})

	_, err := world.Load(t.Context(), root)
	require.Error(t, err)

	var yamlErr *yaml.Error
	require.ErrorAs(t, err, &yamlErr)
	assert.Contains(t, err.Error(), "manifest.yaml")
}

func TestLoadData(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		data    string
		base    string
		wantErr error
		errMsg  string
		wantAny bool
	}{
		"curie and absolute": {
			data: `resources:
  - "@id": http://example.org/a
    rdfs:seeAlso:
      "@id": lv2:Plugin
`,
		},
		"relative with base": {
			data: `resources:
  - "@id": a
`,
			base: "file:///bundles/a.lv2/",
		},
		"relative without base": {
			data: `resources:
  - "@id": a
`,
			wantErr: world.ErrInvalidIRI,
		},
		"empty iri": {
			data: `resources:
  - "@id": http://example.org/a
    rdfs:seeAlso: <>
`,
			wantErr: world.ErrInvalidIRI,
		},
		"syntax error": {
			data:    "resources: [\n",
			wantAny: true,
		},
		"schema violation": {
			data:   "resources: {}\n",
			errMsg: "resources",
		},
		"unknown top-level key": {
			data:   "resources: []\nplugins: []\n",
			errMsg: "plugins",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			w := world.New()

			err := w.LoadData([]byte(tc.data), tc.base)

			switch {
			case tc.wantErr != nil:
				require.ErrorIs(t, err, tc.wantErr)
			case tc.errMsg != "":
				require.ErrorContains(t, err, tc.errMsg)
			case tc.wantAny:
				var yamlErr *yaml.Error
				require.ErrorAs(t, err, &yamlErr)
			default:
				require.NoError(t, err)
			}
		})
	}
}

func TestLoadData_Relative(t *testing.T) {
	t.Parallel()

	w := world.New()

	err := w.LoadData([]byte(`resources:
  - "@id": amp
    lv2:binary: <lib/amp.so>
    rdfs:comment: plain <b>text</b>
`), "file:///bundles/amp.lv2/")
	require.NoError(t, err)

	amp := world.IRI("file:///bundles/amp.lv2/amp")

	bin, ok := w.Object(amp, world.IRI(lv2.Binary))
	require.True(t, ok)
	assert.Equal(t, "file:///bundles/amp.lv2/lib/amp.so", bin.String())

	comment, ok := w.Comment(amp)
	require.True(t, ok)
	assert.Equal(t, "plain <b>text</b>", comment)
}

func TestDiscover(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeBundle(t, root, "b.lv2", nil)
	writeBundle(t, root, "a.lv2", nil)
	writeBundle(t, root, "other", nil)
	require.NoError(t, os.WriteFile(filepath.Join(root, "c.lv2"), nil, 0o600))

	single := writeBundle(t, t.TempDir(), "single.lv2", nil)

	got, err := world.Discover(t.Context(), root, filepath.Join(root, "missing"), single)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "a.lv2"),
		filepath.Join(root, "b.lv2"),
		single,
	}, got)

	_, err = world.Discover(t.Context(), filepath.Join(root, "c.lv2"))
	require.ErrorContains(t, err, "not a directory")
}

func TestSearchPath(t *testing.T) {
	t.Setenv("LV2_PATH", strings.Join([]string{"/opt/lv2", "", "/usr/lib/lv2"}, string(os.PathListSeparator)))

	assert.Equal(t, []string{"./plugins", "/opt/lv2", "/usr/lib/lv2"}, world.SearchPath("./plugins"))

	t.Setenv("LV2_PATH", "")

	assert.Equal(t, []string{"./plugins"}, world.SearchPath("./plugins"))
}
