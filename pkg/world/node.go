package world

import (
	"math"
	"strconv"

	"github.com/macropower/lv2lint/pkg/lv2"
)

// Kind is the kind of a [Node].
type Kind uint8

const (
	KindNone Kind = iota
	KindIRI
	KindBlank
	KindLiteral
)

// Node is an IRI, a blank node or a typed literal. Nodes are comparable and
// can be used as map keys.
type Node struct {
	value    string
	datatype string
	kind     Kind
}

// IRI returns an IRI node.
func IRI(iri string) Node {
	return Node{kind: KindIRI, value: iri}
}

// Blank returns a blank node with the given label.
func Blank(label string) Node {
	return Node{kind: KindBlank, value: label}
}

// Literal returns a literal node with the given lexical form and datatype.
func Literal(lexical, datatype string) Node {
	return Node{kind: KindLiteral, value: lexical, datatype: datatype}
}

// String returns a plain string literal.
func String(s string) Node {
	return Literal(s, lv2.XSDString)
}

// Int returns an integer literal.
func Int(i int64) Node {
	return Literal(strconv.FormatInt(i, 10), lv2.XSDInteger)
}

// Float returns a decimal literal.
func Float(f float64) Node {
	return Literal(strconv.FormatFloat(f, 'g', -1, 64), lv2.XSDDecimal)
}

// Bool returns a boolean literal.
func Bool(b bool) Node {
	return Literal(strconv.FormatBool(b), lv2.XSDBoolean)
}

// Kind returns the kind of n.
func (n Node) Kind() Kind {
	return n.kind
}

// Valid reports whether n is not the zero [Node].
func (n Node) Valid() bool {
	return n.kind != KindNone
}

// String returns the IRI, blank label or lexical form of n.
func (n Node) String() string {
	return n.value
}

// Datatype returns the datatype IRI of a literal.
func (n Node) Datatype() string {
	return n.datatype
}

func (n Node) IsIRI() bool     { return n.kind == KindIRI }
func (n Node) IsBlank() bool   { return n.kind == KindBlank }
func (n Node) IsLiteral() bool { return n.kind == KindLiteral }

// IsString reports whether n is a plain or xsd:string literal.
func (n Node) IsString() bool {
	return n.kind == KindLiteral && (n.datatype == "" || n.datatype == lv2.XSDString)
}

// IsInt reports whether n is an integer literal.
func (n Node) IsInt() bool {
	if n.kind != KindLiteral {
		return false
	}

	switch n.datatype {
	case lv2.XSDInteger, lv2.XSDInt:
		_, err := strconv.ParseInt(n.value, 10, 64)

		return err == nil
	}

	return false
}

// IsFloat reports whether n is a decimal, double or float literal.
func (n Node) IsFloat() bool {
	if n.kind != KindLiteral {
		return false
	}

	switch n.datatype {
	case lv2.XSDDecimal, lv2.XSDDouble, lv2.XSDFloat:
		_, err := strconv.ParseFloat(n.value, 64)

		return err == nil
	}

	return false
}

// IsBool reports whether n is a boolean literal.
func (n Node) IsBool() bool {
	if n.kind != KindLiteral || n.datatype != lv2.XSDBoolean {
		return false
	}

	_, err := strconv.ParseBool(n.value)

	return err == nil
}

// AsInt returns the integer value of n, or 0.
func (n Node) AsInt() int64 {
	switch {
	case n.IsInt():
		i, _ := strconv.ParseInt(n.value, 10, 64) //nolint:errcheck // Checked by IsInt.

		return i
	case n.IsFloat():
		return int64(n.AsFloat())
	}

	return 0
}

// AsFloat returns the numeric value of n, or NaN if n is not numeric.
func (n Node) AsFloat() float64 {
	switch {
	case n.IsFloat():
		f, _ := strconv.ParseFloat(n.value, 64) //nolint:errcheck // Checked by IsFloat.

		return f
	case n.IsInt():
		return float64(n.AsInt())
	case n.IsBool():
		if n.AsBool() {
			return 1
		}

		return 0
	}

	return math.NaN()
}

// AsBool returns the boolean value of n, or false.
func (n Node) AsBool() bool {
	b, err := strconv.ParseBool(n.value)

	return err == nil && n.IsBool() && b
}
