package checks

import (
	"math"

	"github.com/macropower/lv2lint/pkg/lint"
	"github.com/macropower/lv2lint/pkg/lv2"
	"github.com/macropower/lv2lint/pkg/plugin"
	"github.com/macropower/lv2lint/pkg/world"
)

// Scratch keys written by the value tests and read by the range test.
var (
	DefaultKey = lint.NewKey[float64]("default")
	MinimumKey = lint.NewKey[float64]("minimum")
	MaximumKey = lint.NewKey[float64]("maximum")
)

// numberFindings are the findings of a numeric port value.
type numberFindings struct {
	notFound   *lint.Finding
	notInteger *lint.Finding
	notBool    *lint.Finding
	notFloat   *lint.Finding
}

func newNumberFindings(curie, uri string) numberFindings {
	return numberFindings{
		notFound:   &lint.Finding{Severity: lint.Warn, Message: curie + " not found", URI: lv2.Port},
		notInteger: &lint.Finding{Severity: lint.Warn, Message: curie + " not an integer", URI: uri},
		notBool:    &lint.Finding{Severity: lint.Warn, Message: curie + " not a bool", URI: uri},
		notFloat:   &lint.Finding{Severity: lint.Warn, Message: curie + " not a float", URI: uri},
	}
}

func (f numberFindings) all() []*lint.Finding {
	return []*lint.Finding{f.notFound, f.notInteger, f.notBool, f.notFloat}
}

var (
	symbolNotFound = &lint.Finding{Severity: lint.Fail, Message: "lv2:symbol not found", URI: lv2.Symbol}
	symbolInvalid  = &lint.Finding{Severity: lint.Fail, Message: "lv2:symbol not a valid C identifier: %s", URI: lv2.Symbol}
	symbolNotUniq  = &lint.Finding{Severity: lint.Fail, Message: "lv2:symbol not unique: %s", URI: lv2.Symbol}

	portNameNotFound  = &lint.Finding{Severity: lint.Fail, Message: "lv2:name not found", URI: lv2.Name}
	portNameNotString = &lint.Finding{Severity: lint.Fail, Message: "lv2:name not a string", URI: lv2.Name}

	classNotValid    = &lint.Finding{Severity: lint.Fail, Message: "lv2:Port class <%s> not valid", URI: lv2.Port}
	propertyNotValid = &lint.Finding{Severity: lint.Fail, Message: "lv2:portProperty <%s> not valid", URI: lv2.PortPropertyPred}

	defaultFindings = newNumberFindings("lv2:default", lv2.Default)
	minimumFindings = newNumberFindings("lv2:minimum", lv2.Minimum)
	maximumFindings = newNumberFindings("lv2:maximum", lv2.Maximum)

	rangeInvalid = &lint.Finding{Severity: lint.Fail, Message: "range invalid (min <= default <= max)", URI: lv2.Port}

	eventPortDeprecated = &lint.Finding{Severity: lint.Fail, Message: "lv2:EventPort is deprecated, use atom:AtomPort instead", URI: lv2.EventPort}

	morphPortNotFound      = &lint.Finding{Severity: lint.Fail, Message: "morph port not found", URI: lv2.MorphPort}
	morphTypesNotFound     = &lint.Finding{Severity: lint.Fail, Message: "supported types for morph port not found", URI: lv2.MorphSupportsType}
	morphTypesNotEnough    = &lint.Finding{Severity: lint.Fail, Message: "not enough supported types found", URI: lv2.MorphSupportsType}
	morphDefaultTypeNotSet = &lint.Finding{Severity: lint.Fail, Message: "default port type not found", URI: lv2.MorphPort}

	portCommentNotFound  = &lint.Finding{Severity: lint.Note, Message: "rdfs:comment not found", URI: lv2.RDFSComment}
	portCommentNotString = &lint.Finding{Severity: lint.Fail, Message: "rdfs:comment not a string", URI: lv2.RDFSComment}

	groupNotFound = &lint.Finding{Severity: lint.Note, Message: "pg:group not found", URI: lv2.PGGroup}
	groupNotURI   = &lint.Finding{Severity: lint.Fail, Packager: lint.Warn, Message: "pg:group not a URI", URI: lv2.PGGroup}

	unitNotFound = &lint.Finding{Severity: lint.Note, Message: "units:unit not found", URI: lv2.UnitsUnit}
	unitNotValid = &lint.Finding{Severity: lint.Fail, Packager: lint.Warn, Message: "units:unit not a URI or object", URI: lv2.UnitsUnit}

	portFindings = append([]*lint.Finding{
		symbolNotFound, symbolInvalid, symbolNotUniq,
		portNameNotFound, portNameNotString,
		classNotValid, propertyNotValid,
		rangeInvalid,
		eventPortDeprecated,
		morphPortNotFound, morphTypesNotFound, morphTypesNotEnough, morphDefaultTypeNotSet,
		portCommentNotFound, portCommentNotString,
		groupNotFound, groupNotURI,
		unitNotFound, unitNotValid,
	}, append(append(defaultFindings.all(), minimumFindings.all()...), maximumFindings.all()...)...)
)

// PortTable returns the built-in port-level tests.
func PortTable() *lint.Table[*plugin.Port] {
	return lint.MustNewTable("port",
		lint.Test[*plugin.Port]{Name: "Symbol", Check: testSymbol},
		lint.Test[*plugin.Port]{Name: "Name", Check: testPortName},
		lint.Test[*plugin.Port]{Name: "Class", Check: testClass},
		lint.Test[*plugin.Port]{Name: "PortProperties", Check: testProperties},
		lint.Test[*plugin.Port]{Name: "Default", Check: testDefault, Provides: []string{DefaultKey.Name()}},
		lint.Test[*plugin.Port]{Name: "Minimum", Check: testMinimum, Provides: []string{MinimumKey.Name()}},
		lint.Test[*plugin.Port]{Name: "Maximum", Check: testMaximum, Provides: []string{MaximumKey.Name()}},
		lint.Test[*plugin.Port]{
			Name:     "Range",
			Check:    testRange,
			Requires: []string{DefaultKey.Name(), MinimumKey.Name(), MaximumKey.Name()},
		},
		lint.Test[*plugin.Port]{Name: "Event Port", Check: testEventPort},
		lint.Test[*plugin.Port]{Name: "Morph Port", Check: testMorphPort},
		lint.Test[*plugin.Port]{Name: "Comment", Check: testPortComment},
		lint.Test[*plugin.Port]{Name: "Group", Check: testGroup},
		lint.Test[*plugin.Port]{Name: "Units", Check: testUnits},
	)
}

func testSymbol(ctx *PortContext) lint.Result {
	port := ctx.Subject

	n, ok := port.Object(lv2.Symbol)
	if !ok || !n.IsString() {
		return lint.Found(symbolNotFound)
	}
	if !isCIdentifier(n.String()) {
		return lint.FoundWith(symbolInvalid, n.String())
	}

	for _, other := range port.Plugin.Ports {
		if other != port && other.Symbol == port.Symbol {
			return lint.FoundWith(symbolNotUniq, port.Symbol)
		}
	}

	return lint.OK()
}

func isCIdentifier(s string) bool {
	if s == "" {
		return false
	}

	for i := range len(s) {
		c := s[i]

		switch {
		case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9' && i > 0:
		default:
			return false
		}
	}

	return true
}

func testPortName(ctx *PortContext) lint.Result {
	n, ok := ctx.Subject.Object(lv2.Name)

	switch {
	case !ok:
		return lint.Found(portNameNotFound)
	case !n.IsString():
		return lint.Found(portNameNotString)
	}

	return lint.OK()
}

func testClass(ctx *PortContext) lint.Result {
	port := ctx.Subject
	w := port.Plugin.World

	for _, class := range port.Classes() {
		if class == world.IRI(lv2.Port) {
			continue
		}
		if !w.Ask(class, world.IRI(lv2.RDFSSubClassOf), world.IRI(lv2.Port)) {
			return lint.FoundWith(classNotValid, class.String())
		}
	}

	return lint.OK()
}

func testProperties(ctx *PortContext) lint.Result {
	port := ctx.Subject
	w := port.Plugin.World

	for _, prop := range port.Objects(lv2.PortPropertyPred) {
		if !w.IsA(prop, world.IRI(lv2.PortProperty)) {
			return lint.FoundWith(propertyNotValid, prop.String())
		}
	}

	return lint.OK()
}

// isControl reports whether the port is a control or CV port.
func isControl(port *plugin.Port) bool {
	return port.IsA(lv2.ControlPort) || port.IsA(lv2.CVPort)
}

// hasInputValue reports whether the port is a control or CV input port.
func hasInputValue(port *plugin.Port) bool {
	return isControl(port) && port.IsA(lv2.InputPort)
}

func testDefault(ctx *PortContext) lint.Result {
	DefaultKey.Set(ctx.Scratch, 0)

	port := ctx.Subject
	if !hasInputValue(port) {
		return lint.OK()
	}

	return checkNumber(ctx, DefaultKey, lv2.Default, defaultFindings)
}

func testMinimum(ctx *PortContext) lint.Result {
	MinimumKey.Set(ctx.Scratch, 0)

	port := ctx.Subject
	if !hasInputValue(port) || port.HasProperty(lv2.Toggled) {
		return lint.OK()
	}

	return checkNumber(ctx, MinimumKey, lv2.Minimum, minimumFindings)
}

func testMaximum(ctx *PortContext) lint.Result {
	MaximumKey.Set(ctx.Scratch, 1)

	port := ctx.Subject
	if !hasInputValue(port) || port.HasProperty(lv2.Toggled) {
		return lint.OK()
	}

	return checkNumber(ctx, MaximumKey, lv2.Maximum, maximumFindings)
}

// checkNumber validates the numeric value of pred and stores it under key. The
// stored fallback is kept when the value is not numeric.
func checkNumber(ctx *PortContext, key lint.Key[float64], pred string, f numberFindings) lint.Result {
	port := ctx.Subject

	n, ok := port.Object(pred)
	if !ok {
		return lint.Found(f.notFound)
	}

	if n.IsInt() || n.IsFloat() || n.IsBool() {
		key.Set(ctx.Scratch, n.AsFloat())
	}

	switch {
	case port.HasProperty(lv2.Integer):
		if n.IsInt() || (n.IsFloat() && math.Round(n.AsFloat()) == n.AsFloat()) {
			return lint.OK()
		}

		return lint.Found(f.notInteger)

	case port.HasProperty(lv2.Toggled):
		if n.IsBool() || ((n.IsInt() || n.IsFloat()) && (n.AsFloat() == 0 || n.AsFloat() == 1)) {
			return lint.OK()
		}

		return lint.Found(f.notBool)

	case n.IsInt() || n.IsFloat():
		return lint.OK()
	}

	return lint.Found(f.notFloat)
}

func testRange(ctx *PortContext) lint.Result {
	if !isControl(ctx.Subject) {
		return lint.OK()
	}

	dflt := DefaultKey.GetOr(ctx.Scratch, 0)
	lo := MinimumKey.GetOr(ctx.Scratch, 0)
	hi := MaximumKey.GetOr(ctx.Scratch, 1)

	if !(lo <= dflt && dflt <= hi) {
		return lint.Found(rangeInvalid)
	}

	return lint.OK()
}

func testEventPort(ctx *PortContext) lint.Result {
	if ctx.Subject.IsA(lv2.EventPort) {
		return lint.Found(eventPortDeprecated)
	}

	return lint.OK()
}

func testMorphPort(ctx *PortContext) lint.Result {
	port := ctx.Subject

	morph := port.IsA(lv2.MorphPort) || port.IsA(lv2.AutoMorphPort)
	supported := port.Objects(lv2.MorphSupportsType)

	if !morph && len(supported) == 0 {
		return lint.OK()
	}

	switch {
	case !morph:
		return lint.Found(morphPortNotFound)
	case len(supported) == 0:
		return lint.Found(morphTypesNotFound)
	case len(supported) < 2:
		return lint.Found(morphTypesNotEnough)
	}

	for _, class := range []string{lv2.ControlPort, lv2.AudioPort, lv2.CVPort, lv2.AtomPort, lv2.EventPort} {
		if port.IsA(class) {
			return lint.OK()
		}
	}

	return lint.Found(morphDefaultTypeNotSet)
}

func testPortComment(ctx *PortContext) lint.Result {
	n, ok := ctx.Subject.Object(lv2.RDFSComment)

	switch {
	case !ok:
		return lint.Found(portCommentNotFound)
	case !n.IsString():
		return lint.Found(portCommentNotString)
	}

	return lint.OK()
}

func testGroup(ctx *PortContext) lint.Result {
	n, ok := ctx.Subject.Object(lv2.PGGroup)

	switch {
	case !ok:
		return lint.Found(groupNotFound)
	case !n.IsIRI():
		return lint.Found(groupNotURI)
	}

	return lint.OK()
}

func testUnits(ctx *PortContext) lint.Result {
	port := ctx.Subject
	if !isControl(port) {
		return lint.OK()
	}

	n, ok := port.Object(lv2.UnitsUnit)
	if !ok {
		return lint.Found(unitNotFound)
	}
	if !n.IsIRI() && !port.Plugin.World.IsA(n, world.IRI(lv2.UnitsType)) {
		return lint.Found(unitNotValid)
	}

	return lint.OK()
}
