// Package lv2 contains the vocabulary URIs used by the linter.
package lv2

// Namespace prefixes.
const (
	NSRDF    = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	NSRDFS   = "http://www.w3.org/2000/01/rdf-schema#"
	NSXSD    = "http://www.w3.org/2001/XMLSchema#"
	NSOWL    = "http://www.w3.org/2002/07/owl#"
	NSDOAP   = "http://usefulinc.com/ns/doap#"
	NSFOAF   = "http://xmlns.com/foaf/0.1/"
	NSCore   = "http://lv2plug.in/ns/lv2core#"
	NSAtom   = "http://lv2plug.in/ns/ext/atom#"
	NSEvent  = "http://lv2plug.in/ns/ext/event#"
	NSMorph  = "http://lv2plug.in/ns/ext/morph#"
	NSPG     = "http://lv2plug.in/ns/ext/port-groups#"
	NSUnits  = "http://lv2plug.in/ns/extensions/units#"
	NSURID   = "http://lv2plug.in/ns/ext/urid#"
	NSWorker = "http://lv2plug.in/ns/ext/worker#"
	NSLog    = "http://lv2plug.in/ns/ext/log#"
	NSState  = "http://lv2plug.in/ns/ext/state#"
	NSOpts   = "http://lv2plug.in/ns/ext/options#"
	NSBufSz  = "http://lv2plug.in/ns/ext/buf-size#"
	NSParam  = "http://lv2plug.in/ns/ext/parameters#"
	NSPatch  = "http://lv2plug.in/ns/ext/patch#"
	NSUI     = "http://lv2plug.in/ns/extensions/ui#"
	NSPProps = "http://lv2plug.in/ns/ext/port-props#"
)

// Prefixes maps the well-known prefix names to namespaces. They are available
// in every descriptor file without declaration.
var Prefixes = map[string]string{
	"rdf":    NSRDF,
	"rdfs":   NSRDFS,
	"xsd":    NSXSD,
	"owl":    NSOWL,
	"doap":   NSDOAP,
	"foaf":   NSFOAF,
	"lv2":    NSCore,
	"atom":   NSAtom,
	"ev":     NSEvent,
	"morph":  NSMorph,
	"pg":     NSPG,
	"units":  NSUnits,
	"urid":   NSURID,
	"work":   NSWorker,
	"log":    NSLog,
	"state":  NSState,
	"opts":   NSOpts,
	"bufsz":  NSBufSz,
	"param":  NSParam,
	"patch":  NSPatch,
	"ui":     NSUI,
	"pprops": NSPProps,
}

// RDF, RDFS and XSD.
const (
	RDFType        = NSRDF + "type"
	RDFProperty    = NSRDF + "Property"
	RDFSComment    = NSRDFS + "comment"
	RDFSLabel      = NSRDFS + "label"
	RDFSRange      = NSRDFS + "range"
	RDFSSubClassOf = NSRDFS + "subClassOf"
	RDFSSeeAlso    = NSRDFS + "seeAlso"
	XSDString      = NSXSD + "string"
	XSDInteger     = NSXSD + "integer"
	XSDDecimal     = NSXSD + "decimal"
	XSDDouble      = NSXSD + "double"
	XSDFloat       = NSXSD + "float"
	XSDInt         = NSXSD + "int"
	XSDBoolean     = NSXSD + "boolean"
)

// DOAP and FOAF.
const (
	DOAPName        = NSDOAP + "name"
	DOAPLicense     = NSDOAP + "license"
	DOAPMaintainer  = NSDOAP + "maintainer"
	DOAPDeveloper   = NSDOAP + "developer"
	DOAPShortdesc   = NSDOAP + "shortdesc"
	DOAPDescription = NSDOAP + "description"
	FOAFName        = NSFOAF + "name"
	FOAFMbox        = NSFOAF + "mbox"
	FOAFHomepage    = NSFOAF + "homepage"
)

// LV2 core.
const (
	Plugin             = NSCore + "Plugin"
	Port               = NSCore + "Port"
	PortProperty       = NSCore + "PortProperty"
	InputPort          = NSCore + "InputPort"
	OutputPort         = NSCore + "OutputPort"
	ControlPort        = NSCore + "ControlPort"
	AudioPort          = NSCore + "AudioPort"
	CVPort             = NSCore + "CVPort"
	Feature            = NSCore + "Feature"
	ExtensionData      = NSCore + "ExtensionData"
	Specification      = NSCore + "Specification"
	Binary             = NSCore + "binary"
	PortPred           = NSCore + "port"
	Index              = NSCore + "index"
	Symbol             = NSCore + "symbol"
	Name               = NSCore + "name"
	Default            = NSCore + "default"
	Minimum            = NSCore + "minimum"
	Maximum            = NSCore + "maximum"
	PortPropertyPred   = NSCore + "portProperty"
	Integer            = NSCore + "integer"
	Toggled            = NSCore + "toggled"
	RequiredFeature    = NSCore + "requiredFeature"
	OptionalFeature    = NSCore + "optionalFeature"
	ExtensionDataPred  = NSCore + "extensionData"
	MinorVersion       = NSCore + "minorVersion"
	MicroVersion       = NSCore + "microVersion"
	Project            = NSCore + "project"
	DocumentationPred  = NSCore + "documentation"
	ConnectionOptional = NSCore + "connectionOptional"
	InPlaceBroken      = NSCore + "inPlaceBroken"
	HardRTCapable      = NSCore + "hardRTCapable"
	IsLive             = NSCore + "isLive"
	Enumeration        = NSCore + "enumeration"
	ReportsLatency     = NSCore + "reportsLatency"
	SampleRate         = NSCore + "sampleRate"
	IsSideChain        = NSCore + "isSideChain"
	DesignationPred    = NSCore + "designation"
	ScalePoint         = NSCore + "scalePoint"
)

// Atom, event and morph.
const (
	AtomPort          = NSAtom + "AtomPort"
	AtomBufferType    = NSAtom + "bufferType"
	EventPort         = NSEvent + "EventPort"
	MorphPort         = NSMorph + "MorphPort"
	AutoMorphPort     = NSMorph + "AutoMorphPort"
	MorphSupportsType = NSMorph + "supportsType"
)

// Port groups and units.
const (
	PGGroup   = NSPG + "group"
	UnitsUnit = NSUnits + "unit"
	UnitsType = NSUnits + "Unit"
)

// Host features, extension data and options.
const (
	URIDMap             = NSURID + "map"
	URIDUnmap           = NSURID + "unmap"
	WorkerSchedule      = NSWorker + "schedule"
	WorkerInterface     = NSWorker + "interface"
	LogLog              = NSLog + "log"
	StateInterface      = NSState + "interface"
	StateMakePath       = NSState + "makePath"
	StateLoadDefault    = NSState + "loadDefaultState"
	StateState          = NSState + "state"
	OptsOptions         = NSOpts + "options"
	OptsInterface       = NSOpts + "interface"
	OptsRequiredOption  = NSOpts + "requiredOption"
	OptsSupportedOption = NSOpts + "supportedOption"
	ParamSampleRate     = NSParam + "sampleRate"
	UIUpdateRate        = NSUI + "updateRate"
	BufSzMinBlockLength = NSBufSz + "minBlockLength"
	BufSzMaxBlockLength = NSBufSz + "maxBlockLength"
	BufSzNominalBlock   = NSBufSz + "nominalBlockLength"
	BufSzSequenceSize   = NSBufSz + "sequenceSize"
	PatchWritable       = NSPatch + "writable"
	PatchReadable       = NSPatch + "readable"
	URIMap              = "http://lv2plug.in/ns/ext/uri-map"
	InstanceAccess      = "http://lv2plug.in/ns/ext/instance-access"
	DataAccess          = "http://lv2plug.in/ns/ext/data-access"
)
