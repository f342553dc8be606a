package checks_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/macropower/lv2lint/pkg/checks"
	"github.com/macropower/lv2lint/pkg/plugin"
)

func TestPluginChecks(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		binaryErr error
		test      string
		props     string
		extra     string
		want      string
	}{
		"name not found": {
			test: "Name",
			want: "doap:name not found",
		},
		"name not a string": {
			test:  "Name",
			props: "doap:name: 1",
			want:  "doap:name not a string",
		},
		"name empty": {
			test:  "Name",
			props: `doap:name: " "`,
			want:  "doap:name empty",
		},
		"license not found": {
			test: "License",
			want: "doap:license not found",
		},
		"license not a URI": {
			test:  "License",
			props: "doap:license: MIT",
			want:  "doap:license not a URI",
		},
		"license": {
			test:  "License",
			props: "doap:license: <http://opensource.org/licenses/isc>",
		},
		"maintainer not found": {
			test: "Maintainer",
			want: "doap:maintainer not found",
		},
		"maintainer literal": {
			test:  "Maintainer",
			props: "doap:maintainer: Jane",
			want:  "doap:maintainer not a resource",
		},
		"maintainer without name": {
			test:  "Maintainer",
			props: "doap:maintainer:\n  foaf:mbox: <mailto:jane@example.org>",
			want:  "foaf:name of doap:maintainer not found",
		},
		"maintainer by reference": {
			test:  "Maintainer",
			props: "doap:maintainer: <eg:jane>",
			extra: "  - \"@id\": eg:jane\n    foaf:name: Jane\n",
		},
		"project not found": {
			test: "Project",
			want: "lv2:project not found",
		},
		"project not a URI": {
			test:  "Project",
			props: "lv2:project: amps",
			want:  "lv2:project not a URI",
		},
		"minor version not found": {
			test: "Version",
			want: "lv2:minorVersion not found",
		},
		"minor version not an integer": {
			test:  "Version",
			props: "lv2:minorVersion: \"2\"\nlv2:microVersion: 0",
			want:  "lv2:minorVersion not a non-negative integer",
		},
		"minor version negative": {
			test:  "Version",
			props: "lv2:minorVersion: -2\nlv2:microVersion: 0",
			want:  "lv2:minorVersion not a non-negative integer",
		},
		"micro version not found": {
			test:  "Version",
			props: "lv2:minorVersion: 2",
			want:  "lv2:microVersion not found",
		},
		"micro version not an integer": {
			test:  "Version",
			props: "lv2:minorVersion: 2\nlv2:microVersion: 0.5",
			want:  "lv2:microVersion not a non-negative integer",
		},
		"development version": {
			test:  "Version",
			props: "lv2:minorVersion: 3\nlv2:microVersion: 1",
			want:  "odd lv2:minorVersion 3 marks a development release",
		},
		"comment not a string": {
			test:  "Comment",
			props: "rdfs:comment: <eg:doc>",
			want:  "rdfs:comment not a string",
		},
		"shortdesc not found": {
			test: "Shortdesc",
			want: "doap:shortdesc not found",
		},
		"binary not found": {
			test:      "Binary",
			binaryErr: fmt.Errorf("<%s>: %w", pluginURI, plugin.ErrNoBinary),
			want:      "lv2:binary not found",
		},
		"binary not opened": {
			test:      "Binary",
			binaryErr: errors.New("permission denied"),
			want:      "lv2:binary could not be opened: permission denied",
		},
		"no binary to inspect": {
			test:      "Symbols",
			binaryErr: errors.New("permission denied"),
		},
		"valid features": {
			test:  "Features",
			props: "lv2:requiredFeature: <urid:map>\nlv2:optionalFeature: [<lv2:hardRTCapable>, <log:log>]",
		},
		"unknown feature": {
			test:  "Features",
			props: "lv2:requiredFeature: <urid:map>\nlv2:optionalFeature: <eg:nope>",
			want:  "lv2:Feature <http://example.org/nope> not valid",
		},
		"unknown extension data": {
			test:  "Extension Data",
			props: "lv2:extensionData: [<state:interface>, <eg:nope>]",
			want:  "lv2:ExtensionData <http://example.org/nope> not valid",
		},
		"worker without interface": {
			test:  "Worker",
			props: "lv2:requiredFeature: <work:schedule>",
			want:  "work:interface extension data not found",
		},
		"worker without schedule": {
			test:  "Worker",
			props: "lv2:extensionData: <work:interface>",
			want:  "work:schedule feature not found",
		},
		"worker": {
			test:  "Worker",
			props: "lv2:optionalFeature: <work:schedule>\nlv2:extensionData: <work:interface>",
		},
		"state without interface": {
			test:  "State",
			props: "state:state:\n  eg:gain: 1.0",
			want:  "state:interface extension data not found",
		},
		"load default state without state": {
			test:  "State",
			props: "lv2:requiredFeature: <state:loadDefaultState>\nlv2:extensionData: <state:interface>",
			want:  "state:state not found",
		},
		"state without load default state": {
			test:  "State",
			props: "state:state:\n  eg:gain: 1.0\nlv2:extensionData: <state:interface>",
			want:  "state:loadDefaultState feature not found",
		},
		"options without feature": {
			test:  "Options",
			props: "opts:supportedOption: <param:sampleRate>",
			want:  "opts:options feature not found",
		},
		"unknown option": {
			test:  "Options",
			props: "lv2:requiredFeature: <opts:options>\nopts:requiredOption: <eg:tempo>",
			want:  "option <http://example.org/tempo> not valid",
		},
		"options": {
			test:  "Options",
			props: "lv2:optionalFeature: <opts:options>\nopts:supportedOption: [<param:sampleRate>, <bufsz:maxBlockLength>]",
		},
		"uri map": {
			test:  "URI Map",
			props: "lv2:requiredFeature: <http://lv2plug.in/ns/ext/uri-map>",
			want:  "uri-map is deprecated, use urid:map instead",
		},
		"instance access": {
			test:  "Instance Access",
			props: "lv2:optionalFeature: <http://lv2plug.in/ns/ext/data-access>",
			want:  "<http://lv2plug.in/ns/ext/data-access> is discouraged, it breaks network transparency",
		},
		"parameter literal": {
			test:  "Parameters",
			props: "patch:writable: gain",
			want:  "patch parameter not a URI: gain",
		},
		"parameter without range": {
			test:  "Parameters",
			props: "patch:readable: <eg:level>",
			extra: "  - \"@id\": eg:level\n    rdfs:label: Level\n",
			want:  "rdfs:range of parameter <http://example.org/level> not found",
		},
		"parameter without label": {
			test:  "Parameters",
			props: "patch:writable: <eg:gain>",
			extra: "  - \"@id\": eg:gain\n    rdfs:range: <xsd:float>\n",
			want:  "rdfs:label of parameter <http://example.org/gain> not found",
		},
		"parameter": {
			test:  "Parameters",
			props: "patch:writable: <eg:gain>",
			extra: "  - \"@id\": eg:gain\n    rdfs:range: <xsd:float>\n    rdfs:label: Gain\n",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			p := loadPlugin(t, tc.props, tc.extra)

			results := runTable(t, checks.PluginTable(), &plugin.Instance{Plugin: p, BinaryErr: tc.binaryErr})

			res, ok := results[tc.test]
			if !assert.True(t, ok, "test %q not run", tc.test) {
				return
			}

			assert.Equal(t, tc.want, res.Message())
			assert.Equal(t, tc.want == "", res.Passed())
		})
	}
}
