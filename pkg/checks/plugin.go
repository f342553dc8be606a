package checks

import (
	"errors"
	"slices"
	"strings"

	"github.com/macropower/lv2lint/pkg/lint"
	"github.com/macropower/lv2lint/pkg/lv2"
	"github.com/macropower/lv2lint/pkg/plugin"
	"github.com/macropower/lv2lint/pkg/wildcard"
	"github.com/macropower/lv2lint/pkg/world"
)

var (
	// AllowedSymbols are the symbols a plugin binary may export.
	AllowedSymbols = []string{"lv2_descriptor", "lv2_lib_descriptor"}

	// AllowedLibraries are wildcard patterns of the system libraries a plugin
	// binary may link to.
	AllowedLibraries = []string{
		"libc.so*",
		"libm.so*",
		"libpthread.so*",
		"libdl.so*",
		"librt.so*",
		"libgcc_s.so*",
		"ld-linux*.so*",
		"linux-vdso.so*",
	}
)

var (
	nameNotFound  = &lint.Finding{Severity: lint.Fail, Message: "doap:name not found", URI: lv2.DOAPName}
	nameNotString = &lint.Finding{Severity: lint.Fail, Message: "doap:name not a string", URI: lv2.DOAPName}
	nameEmpty     = &lint.Finding{Severity: lint.Warn, Message: "doap:name empty", URI: lv2.DOAPName}

	licenseNotFound = &lint.Finding{Severity: lint.Warn, Packager: lint.Note, Message: "doap:license not found", URI: lv2.DOAPLicense}
	licenseNotURI   = &lint.Finding{Severity: lint.Fail, Packager: lint.Warn, Message: "doap:license not a URI", URI: lv2.DOAPLicense}

	maintainerNotFound     = &lint.Finding{Severity: lint.Warn, Packager: lint.Note, Message: "doap:maintainer not found", URI: lv2.DOAPMaintainer}
	maintainerNotResource  = &lint.Finding{Severity: lint.Fail, Packager: lint.Warn, Message: "doap:maintainer not a resource", URI: lv2.DOAPMaintainer}
	maintainerNameNotFound = &lint.Finding{Severity: lint.Warn, Packager: lint.Note, Message: "foaf:name of doap:maintainer not found", URI: lv2.FOAFName}

	projectNotFound = &lint.Finding{Severity: lint.Note, Message: "lv2:project not found", URI: lv2.Project}
	projectNotURI   = &lint.Finding{Severity: lint.Fail, Packager: lint.Warn, Message: "lv2:project not a URI", URI: lv2.Project}

	minorVersionNotFound = &lint.Finding{Severity: lint.Fail, Message: "lv2:minorVersion not found", URI: lv2.MinorVersion}
	minorVersionNotInt   = &lint.Finding{Severity: lint.Fail, Message: "lv2:minorVersion not a non-negative integer", URI: lv2.MinorVersion}
	microVersionNotFound = &lint.Finding{Severity: lint.Fail, Message: "lv2:microVersion not found", URI: lv2.MicroVersion}
	microVersionNotInt   = &lint.Finding{Severity: lint.Fail, Message: "lv2:microVersion not a non-negative integer", URI: lv2.MicroVersion}
	versionDevelopment   = &lint.Finding{Severity: lint.Note, Message: "odd lv2:minorVersion %s marks a development release", URI: lv2.MinorVersion}

	pluginCommentNotFound = &lint.Finding{Severity: lint.Warn, Packager: lint.Note, Message: "rdfs:comment not found", URI: lv2.RDFSComment}
	commentNotString      = &lint.Finding{Severity: lint.Fail, Packager: lint.Warn, Message: "rdfs:comment not a string", URI: lv2.RDFSComment}

	shortdescNotFound  = &lint.Finding{Severity: lint.Warn, Packager: lint.Note, Message: "doap:shortdesc not found", URI: lv2.DOAPShortdesc}
	shortdescNotString = &lint.Finding{Severity: lint.Fail, Packager: lint.Warn, Message: "doap:shortdesc not a string", URI: lv2.DOAPShortdesc}

	binaryNotFound  = &lint.Finding{Severity: lint.Fail, Message: "lv2:binary not found", URI: lv2.Binary}
	binaryNotOpened = &lint.Finding{Severity: lint.Fail, Message: "lv2:binary could not be opened: %s", URI: lv2.Binary}

	symbolsUnreadable = &lint.Finding{Severity: lint.Warn, Message: "binary symbols could not be read: %s", URI: lv2.Binary}
	symbolsExported   = &lint.Finding{Severity: lint.Warn, Message: "binary exports superfluous globally visible symbols: %s", URI: lv2.Binary}

	librariesUnreadable = &lint.Finding{Severity: lint.Warn, Message: "binary libraries could not be read: %s", URI: lv2.Binary}
	librariesLinked     = &lint.Finding{Severity: lint.Warn, Message: "binary links to non-whitelisted shared libraries: %s", URI: lv2.Binary}

	featureNotValid       = &lint.Finding{Severity: lint.Fail, Message: "lv2:Feature <%s> not valid", URI: lv2.Feature}
	extensionDataNotValid = &lint.Finding{Severity: lint.Fail, Message: "lv2:ExtensionData <%s> not valid", URI: lv2.ExtensionData}

	workerInterfaceNotFound = &lint.Finding{Severity: lint.Fail, Message: "work:interface extension data not found", URI: lv2.WorkerInterface}
	workerScheduleNotFound  = &lint.Finding{Severity: lint.Warn, Message: "work:schedule feature not found", URI: lv2.WorkerSchedule}

	stateInterfaceNotFound   = &lint.Finding{Severity: lint.Fail, Message: "state:interface extension data not found", URI: lv2.StateInterface}
	stateStateNotFound       = &lint.Finding{Severity: lint.Fail, Message: "state:state not found", URI: lv2.StateState}
	stateLoadDefaultNotFound = &lint.Finding{Severity: lint.Warn, Message: "state:loadDefaultState feature not found", URI: lv2.StateLoadDefault}

	optionsFeatureNotFound = &lint.Finding{Severity: lint.Fail, Message: "opts:options feature not found", URI: lv2.OptsOptions}
	optionNotValid         = &lint.Finding{Severity: lint.Warn, Message: "option <%s> not valid", URI: lv2.OptsSupportedOption}

	uriMapDeprecated = &lint.Finding{Severity: lint.Fail, Message: "uri-map is deprecated, use urid:map instead", URI: lv2.URIMap}

	instanceAccessDiscouraged = &lint.Finding{Severity: lint.Warn, Message: "<%s> is discouraged, it breaks network transparency", URI: lv2.InstanceAccess}

	parameterNotURI        = &lint.Finding{Severity: lint.Fail, Message: "patch parameter not a URI: %s", URI: lv2.PatchWritable}
	parameterRangeNotFound = &lint.Finding{Severity: lint.Warn, Message: "rdfs:range of parameter <%s> not found", URI: lv2.RDFSRange}
	parameterLabelNotFound = &lint.Finding{Severity: lint.Note, Message: "rdfs:label of parameter <%s> not found", URI: lv2.RDFSLabel}

	pluginFindings = []*lint.Finding{
		nameNotFound, nameNotString, nameEmpty,
		licenseNotFound, licenseNotURI,
		maintainerNotFound, maintainerNotResource, maintainerNameNotFound,
		projectNotFound, projectNotURI,
		minorVersionNotFound, minorVersionNotInt, microVersionNotFound, microVersionNotInt, versionDevelopment,
		pluginCommentNotFound, commentNotString,
		shortdescNotFound, shortdescNotString,
		binaryNotFound, binaryNotOpened,
		symbolsUnreadable, symbolsExported,
		librariesUnreadable, librariesLinked,
		featureNotValid, extensionDataNotValid,
		workerInterfaceNotFound, workerScheduleNotFound,
		stateInterfaceNotFound, stateStateNotFound, stateLoadDefaultNotFound,
		optionsFeatureNotFound, optionNotValid,
		uriMapDeprecated,
		instanceAccessDiscouraged,
		parameterNotURI, parameterRangeNotFound, parameterLabelNotFound,
	}
)

// PluginTable returns the built-in plugin-level tests.
func PluginTable() *lint.Table[*plugin.Instance] {
	return lint.MustNewTable("plugin",
		lint.Test[*plugin.Instance]{Name: "Name", Check: testName},
		lint.Test[*plugin.Instance]{Name: "License", Check: testLicense},
		lint.Test[*plugin.Instance]{Name: "Maintainer", Check: testMaintainer},
		lint.Test[*plugin.Instance]{Name: "Project", Check: testProject},
		lint.Test[*plugin.Instance]{Name: "Version", Check: testVersion},
		lint.Test[*plugin.Instance]{Name: "Comment", Check: testPluginComment},
		lint.Test[*plugin.Instance]{Name: "Shortdesc", Check: testShortdesc},
		lint.Test[*plugin.Instance]{Name: "Binary", Check: testBinary},
		lint.Test[*plugin.Instance]{Name: "Symbols", Check: testSymbols},
		lint.Test[*plugin.Instance]{Name: "Libraries", Check: testLibraries},
		lint.Test[*plugin.Instance]{Name: "Features", Check: testFeatures},
		lint.Test[*plugin.Instance]{Name: "Extension Data", Check: testExtensionData},
		lint.Test[*plugin.Instance]{Name: "Worker", Check: testWorker},
		lint.Test[*plugin.Instance]{Name: "State", Check: testState},
		lint.Test[*plugin.Instance]{Name: "Options", Check: testOptions},
		lint.Test[*plugin.Instance]{Name: "URI Map", Check: testURIMap},
		lint.Test[*plugin.Instance]{Name: "Instance Access", Check: testInstanceAccess},
		lint.Test[*plugin.Instance]{Name: "Parameters", Check: testParameters},
	)
}

func testName(ctx *PluginContext) lint.Result {
	n, ok := ctx.Subject.Plugin.Object(lv2.DOAPName)

	switch {
	case !ok:
		return lint.Found(nameNotFound)
	case !n.IsString():
		return lint.Found(nameNotString)
	case strings.TrimSpace(n.String()) == "":
		return lint.Found(nameEmpty)
	}

	return lint.OK()
}

func testLicense(ctx *PluginContext) lint.Result {
	n, ok := ctx.Subject.Plugin.Object(lv2.DOAPLicense)

	switch {
	case !ok:
		return lint.Found(licenseNotFound)
	case !n.IsIRI():
		return lint.Found(licenseNotURI)
	}

	return lint.OK()
}

func testMaintainer(ctx *PluginContext) lint.Result {
	p := ctx.Subject.Plugin

	m, ok := p.Object(lv2.DOAPMaintainer)
	if !ok {
		return lint.Found(maintainerNotFound)
	}
	if m.IsLiteral() {
		return lint.Found(maintainerNotResource)
	}

	name, ok := p.World.Object(m, world.IRI(lv2.FOAFName))
	if !ok || !name.IsString() {
		return lint.Found(maintainerNameNotFound)
	}

	return lint.OK()
}

func testProject(ctx *PluginContext) lint.Result {
	n, ok := ctx.Subject.Plugin.Object(lv2.Project)

	switch {
	case !ok:
		return lint.Found(projectNotFound)
	case n.IsLiteral():
		return lint.Found(projectNotURI)
	}

	return lint.OK()
}

func testVersion(ctx *PluginContext) lint.Result {
	p := ctx.Subject.Plugin

	minor, ok := p.Object(lv2.MinorVersion)
	if !ok {
		return lint.Found(minorVersionNotFound)
	}
	if !minor.IsInt() || minor.AsInt() < 0 {
		return lint.Found(minorVersionNotInt)
	}

	micro, ok := p.Object(lv2.MicroVersion)
	if !ok {
		return lint.Found(microVersionNotFound)
	}
	if !micro.IsInt() || micro.AsInt() < 0 {
		return lint.Found(microVersionNotInt)
	}

	if minor.AsInt()%2 == 1 {
		return lint.FoundWith(versionDevelopment, minor.String())
	}

	return lint.OK()
}

func testPluginComment(ctx *PluginContext) lint.Result {
	n, ok := ctx.Subject.Plugin.Object(lv2.RDFSComment)

	switch {
	case !ok:
		return lint.Found(pluginCommentNotFound)
	case !n.IsString():
		return lint.Found(commentNotString)
	}

	return lint.OK()
}

func testShortdesc(ctx *PluginContext) lint.Result {
	n, ok := ctx.Subject.Plugin.Object(lv2.DOAPShortdesc)

	switch {
	case !ok:
		return lint.Found(shortdescNotFound)
	case !n.IsString():
		return lint.Found(shortdescNotString)
	}

	return lint.OK()
}

func testBinary(ctx *PluginContext) lint.Result {
	err := ctx.Subject.BinaryErr

	switch {
	case errors.Is(err, plugin.ErrNoBinary):
		return lint.Found(binaryNotFound)
	case err != nil:
		return lint.FoundWith(binaryNotOpened, err.Error())
	}

	return lint.OK()
}

func testSymbols(ctx *PluginContext) lint.Result {
	inst := ctx.Subject
	if inst.Binary == nil {
		return lint.OK()
	}

	syms, err := inst.Binary.Symbols()
	if err != nil {
		return lint.FoundWith(symbolsUnreadable, err.Error())
	}

	var extra []string
	for _, s := range syms {
		if slices.Contains(AllowedSymbols, s) || ctx.Session.Whitelist.Symbols.IsWhitelisted(inst.Plugin.URI, s) {
			continue
		}

		extra = append(extra, s)
	}

	if len(extra) > 0 {
		return lint.FoundWith(symbolsExported, strings.Join(extra, ", "))
	}

	return lint.OK()
}

func testLibraries(ctx *PluginContext) lint.Result {
	inst := ctx.Subject
	if inst.Binary == nil {
		return lint.OK()
	}

	libs, err := inst.Binary.Libraries()
	if err != nil {
		return lint.FoundWith(librariesUnreadable, err.Error())
	}

	var extra []string
	for _, l := range libs {
		if allowedLibrary(l) || ctx.Session.Whitelist.Libraries.IsWhitelisted(inst.Plugin.URI, l) {
			continue
		}

		extra = append(extra, l)
	}

	if len(extra) > 0 {
		return lint.FoundWith(librariesLinked, strings.Join(extra, ", "))
	}

	return lint.OK()
}

func allowedLibrary(lib string) bool {
	for _, pattern := range AllowedLibraries {
		if wildcard.Match(pattern, lib) {
			return true
		}
	}

	return false
}

func testFeatures(ctx *PluginContext) lint.Result {
	p := ctx.Subject.Plugin

	for _, f := range features(p) {
		if !p.World.IsA(world.IRI(f), world.IRI(lv2.Feature)) {
			return lint.FoundWith(featureNotValid, f)
		}
	}

	return lint.OK()
}

func testExtensionData(ctx *PluginContext) lint.Result {
	p := ctx.Subject.Plugin

	for _, e := range p.ExtensionData() {
		if !p.World.IsA(world.IRI(e), world.IRI(lv2.ExtensionData)) {
			return lint.FoundWith(extensionDataNotValid, e)
		}
	}

	return lint.OK()
}

func testWorker(ctx *PluginContext) lint.Result {
	p := ctx.Subject.Plugin

	schedule := slices.Contains(features(p), lv2.WorkerSchedule)
	iface := slices.Contains(p.ExtensionData(), lv2.WorkerInterface)

	switch {
	case schedule && !iface:
		return lint.Found(workerInterfaceNotFound)
	case iface && !schedule:
		return lint.Found(workerScheduleNotFound)
	}

	return lint.OK()
}

func testState(ctx *PluginContext) lint.Result {
	p := ctx.Subject.Plugin

	loadDefault := slices.Contains(features(p), lv2.StateLoadDefault)
	_, hasState := p.Object(lv2.StateState)
	iface := slices.Contains(p.ExtensionData(), lv2.StateInterface)

	switch {
	case (loadDefault || hasState) && !iface:
		return lint.Found(stateInterfaceNotFound)
	case loadDefault && !hasState:
		return lint.Found(stateStateNotFound)
	case hasState && !loadDefault:
		return lint.Found(stateLoadDefaultNotFound)
	}

	return lint.OK()
}

func testOptions(ctx *PluginContext) lint.Result {
	p := ctx.Subject.Plugin

	opts := slices.Concat(p.RequiredOptions(), p.SupportedOptions())
	if len(opts) == 0 {
		return lint.OK()
	}

	if !slices.Contains(features(p), lv2.OptsOptions) {
		return lint.Found(optionsFeatureNotFound)
	}

	for _, o := range opts {
		if !p.World.IsA(world.IRI(o), world.IRI(lv2.RDFProperty)) {
			return lint.FoundWith(optionNotValid, o)
		}
	}

	return lint.OK()
}

func testURIMap(ctx *PluginContext) lint.Result {
	if slices.Contains(features(ctx.Subject.Plugin), lv2.URIMap) {
		return lint.Found(uriMapDeprecated)
	}

	return lint.OK()
}

func testInstanceAccess(ctx *PluginContext) lint.Result {
	for _, f := range features(ctx.Subject.Plugin) {
		if f == lv2.InstanceAccess || f == lv2.DataAccess {
			return lint.FoundWith(instanceAccessDiscouraged, f)
		}
	}

	return lint.OK()
}

func testParameters(ctx *PluginContext) lint.Result {
	p := ctx.Subject.Plugin

	params := slices.Concat(p.Objects(lv2.PatchWritable), p.Objects(lv2.PatchReadable))

	for _, param := range params {
		if !param.IsIRI() {
			return lint.FoundWith(parameterNotURI, param.String())
		}
	}

	for _, param := range params {
		if _, ok := p.World.Object(param, world.IRI(lv2.RDFSRange)); !ok {
			return lint.FoundWith(parameterRangeNotFound, param.String())
		}
	}

	for _, param := range params {
		if _, ok := p.World.Object(param, world.IRI(lv2.RDFSLabel)); !ok {
			return lint.FoundWith(parameterLabelNotFound, param.String())
		}
	}

	return lint.OK()
}

// features returns the required and optional features of p.
func features(p *plugin.Plugin) []string {
	return slices.Concat(p.RequiredFeatures(), p.OptionalFeatures())
}
