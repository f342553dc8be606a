package world_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/macropower/lv2lint/pkg/lv2"
	"github.com/macropower/lv2lint/pkg/world"
)

func TestNode(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		node      world.Node
		wantKind  world.Kind
		isString  bool
		isInt     bool
		isFloat   bool
		isBool    bool
		wantFloat float64
	}{
		"iri": {
			node:      world.IRI("http://example.org/amp"),
			wantKind:  world.KindIRI,
			wantFloat: math.NaN(),
		},
		"blank": {
			node:      world.Blank("b1"),
			wantKind:  world.KindBlank,
			wantFloat: math.NaN(),
		},
		"string": {
			node:      world.String("gain"),
			wantKind:  world.KindLiteral,
			isString:  true,
			wantFloat: math.NaN(),
		},
		"untyped literal": {
			node:      world.Literal("gain", ""),
			wantKind:  world.KindLiteral,
			isString:  true,
			wantFloat: math.NaN(),
		},
		"int": {
			node:      world.Int(-3),
			wantKind:  world.KindLiteral,
			isInt:     true,
			wantFloat: -3,
		},
		"xsd int": {
			node:      world.Literal("7", lv2.XSDInt),
			wantKind:  world.KindLiteral,
			isInt:     true,
			wantFloat: 7,
		},
		"float": {
			node:      world.Float(0.25),
			wantKind:  world.KindLiteral,
			isFloat:   true,
			wantFloat: 0.25,
		},
		"double": {
			node:      world.Literal("1e3", lv2.XSDDouble),
			wantKind:  world.KindLiteral,
			isFloat:   true,
			wantFloat: 1000,
		},
		"bool": {
			node:      world.Bool(true),
			wantKind:  world.KindLiteral,
			isBool:    true,
			wantFloat: 1,
		},
		"malformed int": {
			node:      world.Literal("x", lv2.XSDInteger),
			wantKind:  world.KindLiteral,
			wantFloat: math.NaN(),
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.True(t, tc.node.Valid())
			assert.Equal(t, tc.wantKind, tc.node.Kind())
			assert.Equal(t, tc.isString, tc.node.IsString(), "IsString")
			assert.Equal(t, tc.isInt, tc.node.IsInt(), "IsInt")
			assert.Equal(t, tc.isFloat, tc.node.IsFloat(), "IsFloat")
			assert.Equal(t, tc.isBool, tc.node.IsBool(), "IsBool")

			got := tc.node.AsFloat()
			if math.IsNaN(tc.wantFloat) {
				assert.True(t, math.IsNaN(got), "AsFloat = %v", got)
			} else {
				assert.InDelta(t, tc.wantFloat, got, 1e-9)
			}
		})
	}
}

func TestNode_Conversions(t *testing.T) {
	t.Parallel()

	assert.Equal(t, int64(2), world.Float(2.9).AsInt())
	assert.Equal(t, int64(42), world.Int(42).AsInt())
	assert.Equal(t, int64(0), world.String("42").AsInt())
	assert.False(t, world.String("true").AsBool())
	assert.False(t, world.Bool(false).AsBool())
	assert.Equal(t, "0.5", world.Float(0.5).String())
	assert.Equal(t, lv2.XSDDecimal, world.Float(0.5).Datatype())
	assert.False(t, world.Node{}.Valid())
	assert.Equal(t, world.IRI("a"), world.IRI("a"))
	assert.NotEqual(t, world.IRI("a"), world.String("a"))
}
