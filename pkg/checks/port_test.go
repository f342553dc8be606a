package checks_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/lv2lint/pkg/checks"
	"github.com/macropower/lv2lint/pkg/lint"
	"github.com/macropower/lv2lint/pkg/plugin"
)

func TestPortChecks(t *testing.T) {
	t.Parallel()

	const control = "a: [lv2:InputPort, lv2:ControlPort]\n"

	tcs := map[string]struct {
		test  string
		props string
		want  string
	}{
		"symbol not found": {
			test: "Symbol",
			want: "lv2:symbol not found",
		},
		"symbol invalid": {
			test:  "Symbol",
			props: "lv2:symbol: 1st",
			want:  "lv2:symbol not a valid C identifier: 1st",
		},
		"symbol with dash": {
			test:  "Symbol",
			props: "lv2:symbol: in-l",
			want:  "lv2:symbol not a valid C identifier: in-l",
		},
		"symbol": {
			test:  "Symbol",
			props: "lv2:symbol: _in_1",
		},
		"name not found": {
			test: "Name",
			want: "lv2:name not found",
		},
		"name not a string": {
			test:  "Name",
			props: "lv2:name: <eg:gain>",
			want:  "lv2:name not a string",
		},
		"class not valid": {
			test:  "Class",
			props: "a: [lv2:InputPort, eg:Weird]",
			want:  "lv2:Port class <http://example.org/Weird> not valid",
		},
		"port property not valid": {
			test:  "PortProperties",
			props: "lv2:portProperty: [<lv2:integer>, <eg:bogus>]",
			want:  "lv2:portProperty <http://example.org/bogus> not valid",
		},
		"port properties": {
			test:  "PortProperties",
			props: "lv2:portProperty: [<lv2:integer>, <pprops:logarithmic>]",
		},
		"default not found": {
			test:  "Default",
			props: control,
			want:  "lv2:default not found",
		},
		"default on output port": {
			test:  "Default",
			props: "a: [lv2:OutputPort, lv2:ControlPort]",
		},
		"default on audio port": {
			test:  "Default",
			props: "a: [lv2:InputPort, lv2:AudioPort]",
		},
		"default on cv port": {
			test:  "Default",
			props: "a: [lv2:InputPort, lv2:CVPort]",
			want:  "lv2:default not found",
		},
		"default not an integer": {
			test:  "Default",
			props: control + "lv2:portProperty: <lv2:integer>\nlv2:default: 0.5",
			want:  "lv2:default not an integer",
		},
		"integral float default": {
			test:  "Default",
			props: control + "lv2:portProperty: <lv2:integer>\nlv2:default: 2.0",
		},
		"default not a bool": {
			test:  "Default",
			props: control + "lv2:portProperty: <lv2:toggled>\nlv2:default: 2",
			want:  "lv2:default not a bool",
		},
		"bool default": {
			test:  "Default",
			props: control + "lv2:portProperty: <lv2:toggled>\nlv2:default: true",
		},
		"float default of toggle": {
			test:  "Default",
			props: control + "lv2:portProperty: <lv2:toggled>\nlv2:default: 1.0",
		},
		"default not a float": {
			test:  "Default",
			props: control + "lv2:default: loud",
			want:  "lv2:default not a float",
		},
		"minimum not found": {
			test:  "Minimum",
			props: control,
			want:  "lv2:minimum not found",
		},
		"minimum of toggle": {
			test:  "Minimum",
			props: control + "lv2:portProperty: <lv2:toggled>",
		},
		"maximum not an integer": {
			test:  "Maximum",
			props: control + "lv2:portProperty: <lv2:integer>\nlv2:maximum: 9.5",
			want:  "lv2:maximum not an integer",
		},
		"range invalid": {
			test:  "Range",
			props: control + "lv2:default: 2\nlv2:minimum: 0\nlv2:maximum: 1",
			want:  "range invalid (min <= default <= max)",
		},
		"range inverted": {
			test:  "Range",
			props: control + "lv2:default: 0\nlv2:minimum: 1\nlv2:maximum: 0",
			want:  "range invalid (min <= default <= max)",
		},
		"range": {
			test:  "Range",
			props: control + "lv2:default: -6\nlv2:minimum: -90\nlv2:maximum: 6",
		},
		"range falls back": {
			test:  "Range",
			props: "a: [lv2:OutputPort, lv2:ControlPort]",
		},
		"range of toggle": {
			test:  "Range",
			props: control + "lv2:portProperty: <lv2:toggled>\nlv2:default: 1",
		},
		"range of non-numeric default": {
			test:  "Range",
			props: control + "lv2:default: loud\nlv2:minimum: 1\nlv2:maximum: 2",
			want:  "range invalid (min <= default <= max)",
		},
		"event port": {
			test:  "Event Port",
			props: "a: [lv2:InputPort, ev:EventPort]",
			want:  "lv2:EventPort is deprecated, use atom:AtomPort instead",
		},
		"morph port without types": {
			test:  "Morph Port",
			props: "a: [lv2:InputPort, lv2:AudioPort, morph:MorphPort]",
			want:  "supported types for morph port not found",
		},
		"supported types without morph port": {
			test:  "Morph Port",
			props: "a: [lv2:InputPort, lv2:AudioPort]\nmorph:supportsType: [<lv2:AudioPort>, <lv2:CVPort>]",
			want:  "morph port not found",
		},
		"morph port with one type": {
			test:  "Morph Port",
			props: "a: [lv2:InputPort, lv2:AudioPort, morph:MorphPort]\nmorph:supportsType: <lv2:CVPort>",
			want:  "not enough supported types found",
		},
		"morph port without default type": {
			test:  "Morph Port",
			props: "a: [lv2:InputPort, morph:AutoMorphPort]\nmorph:supportsType: [<lv2:AudioPort>, <lv2:CVPort>]",
			want:  "default port type not found",
		},
		"morph port": {
			test:  "Morph Port",
			props: "a: [lv2:InputPort, lv2:AudioPort, morph:MorphPort]\nmorph:supportsType: [<lv2:AudioPort>, <lv2:CVPort>]",
		},
		"comment not found": {
			test: "Comment",
			want: "rdfs:comment not found",
		},
		"comment not a string": {
			test:  "Comment",
			props: "rdfs:comment: 1",
			want:  "rdfs:comment not a string",
		},
		"group not found": {
			test: "Group",
			want: "pg:group not found",
		},
		"group not a URI": {
			test:  "Group",
			props: "pg:group: stereo",
			want:  "pg:group not a URI",
		},
		"unit not found": {
			test:  "Units",
			props: control,
			want:  "units:unit not found",
		},
		"unit literal": {
			test:  "Units",
			props: control + "units:unit: dB",
			want:  "units:unit not a URI or object",
		},
		"unit object": {
			test:  "Units",
			props: control + "units:unit:\n  a: units:Unit\n  rdfs:label: decibel",
		},
		"unit of audio port": {
			test:  "Units",
			props: "a: [lv2:InputPort, lv2:AudioPort]",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			port := loadPort(t, tc.props)

			results := runTable(t, checks.PortTable(), port)

			res, ok := results[tc.test]
			require.True(t, ok, "test %q not run", tc.test)

			assert.Equal(t, tc.want, res.Message())
			assert.Equal(t, tc.want == "", res.Passed())
		})
	}
}

func TestPortChecks_DuplicateSymbol(t *testing.T) {
	t.Parallel()

	p := loadPlugin(t, `lv2:port:
  - lv2:index: 0
    lv2:symbol: in
  - lv2:index: 1
    lv2:symbol: in
  - lv2:index: 2
    lv2:symbol: out
`, "")

	require.Len(t, p.Ports, 3)

	for i, want := range []string{"lv2:symbol not unique: in", "lv2:symbol not unique: in", ""} {
		res := runTable(t, checks.PortTable(), p.Ports[i])["Symbol"]
		assert.Equal(t, want, res.Message(), p.Ports[i].Label())
	}
}

func TestPortChecks_Scratch(t *testing.T) {
	t.Parallel()

	port := loadPort(t, "a: [lv2:InputPort, lv2:ControlPort]\nlv2:default: true\nlv2:minimum: -1\nlv2:maximum: 3")

	session := lint.NewSession(lint.DefaultPolicy(), nil)
	ctx := lint.NewContext(session, port)

	_, err := checks.PortTable().RunAll(ctx)
	require.NoError(t, err)

	dflt, ok := checks.DefaultKey.Get(ctx.Scratch)
	require.True(t, ok)
	assert.InDelta(t, 1.0, dflt, 1e-9)

	lo, ok := checks.MinimumKey.Get(ctx.Scratch)
	require.True(t, ok)
	assert.InDelta(t, -1.0, lo, 1e-9)

	hi, ok := checks.MaximumKey.Get(ctx.Scratch)
	require.True(t, ok)
	assert.InDelta(t, 3.0, hi, 1e-9)
}

func TestPortChecks_CommentNotStringIgnoresPackager(t *testing.T) {
	t.Parallel()

	port := loadPort(t, "rdfs:comment: 1")
	res := runTable(t, checks.PortTable(), port)["Comment"]

	f, ok := res.Finding()
	require.True(t, ok)
	assert.Equal(t, lint.None, f.Packager)
	assert.Equal(t, lint.Fail, lint.EffectiveSeverity(f, true))

	p := loadPlugin(t, "rdfs:comment: <eg:doc>", "")
	res = runTable(t, checks.PluginTable(), &plugin.Instance{Plugin: p})["Comment"]

	f, ok = res.Finding()
	require.True(t, ok)
	assert.Equal(t, lint.Warn, lint.EffectiveSeverity(f, true))
}
