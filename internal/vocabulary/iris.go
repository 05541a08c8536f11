package vocabulary

// Meta-model namespace IRIs. Versioned, so a parser can key behavior off the
// prefix rather than sniffing individual terms.
const (
	MetaModelVersion = "2.1.0"

	// Samm is the core meta-model namespace (aspect, property, entity terms).
	Samm = "urn:samm:org.eclipse.esmf.samm:meta-model:" + MetaModelVersion + "#"

	// SammC holds the characteristic subtype terms.
	SammC = "urn:samm:org.eclipse.esmf.samm:characteristic:" + MetaModelVersion + "#"

	// SammE holds the predefined entity terms.
	SammE = "urn:samm:org.eclipse.esmf.samm:entity:" + MetaModelVersion + "#"

	// Unit holds the predefined unit catalog.
	Unit = "urn:samm:org.eclipse.esmf.samm:unit:" + MetaModelVersion + "#"

	// XSD is the XML Schema datatype namespace.
	XSD = "http://www.w3.org/2001/XMLSchema#"

	// RDF is the core RDF namespace (rdf:type and list terms).
	RDF = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
)

// Legacy namespace IRIs. Accepted on parse only.
const (
	LegacyVersion = "2.0.0"

	Bamm  = "urn:bamm:io.openmanufacturing:meta-model:" + LegacyVersion + "#"
	BammC = "urn:bamm:io.openmanufacturing:characteristic:" + LegacyVersion + "#"
	BammE = "urn:bamm:io.openmanufacturing:entity:" + LegacyVersion + "#"
)

// Prefix labels as they appear in serialized documents.
const (
	PrefixSamm  = "samm"
	PrefixSammC = "samm-c"
	PrefixSammE = "samm-e"
	PrefixUnit  = "unit"
	PrefixXSD   = "xsd"
	PrefixRDF   = "rdf"

	PrefixBamm  = "bamm"
	PrefixBammC = "bamm-c"
	PrefixBammE = "bamm-e"
)

// Core meta-model class terms (samm: namespace, local names).
const (
	ClassAspect         = "Aspect"
	ClassProperty       = "Property"
	ClassAbstractProp   = "AbstractProperty"
	ClassCharacteristic = "Characteristic"
	ClassEntity         = "Entity"
	ClassAbstractEntity = "AbstractEntity"
	ClassConstraint     = "Constraint"
	ClassOperation      = "Operation"
	ClassEvent          = "Event"
	ClassUnit           = "Unit"
	ClassQuantityKind   = "QuantityKind"
)

// Characteristic subtype class terms (samm-c: namespace, local names).
const (
	ClassTrait           = "Trait"
	ClassEither          = "Either"
	ClassCollection      = "Collection"
	ClassList            = "List"
	ClassSet             = "Set"
	ClassSortedSet       = "SortedSet"
	ClassTimeSeries      = "TimeSeries"
	ClassEnumeration     = "Enumeration"
	ClassState           = "State"
	ClassStructuredValue = "StructuredValue"
	ClassQuantifiable    = "Quantifiable"
	ClassMeasurement     = "Measurement"
	ClassDuration        = "Duration"
	ClassCode            = "Code"
	ClassSingleEntity    = "SingleEntity"
)

// Constraint subtype class terms (samm-c: namespace, local names).
const (
	ClassRangeConstraint      = "RangeConstraint"
	ClassLengthConstraint     = "LengthConstraint"
	ClassRegularExpression    = "RegularExpressionConstraint"
	ClassEncodingConstraint   = "EncodingConstraint"
	ClassLanguageConstraint   = "LanguageConstraint"
	ClassLocaleConstraint     = "LocaleConstraint"
	ClassFixedPointConstraint = "FixedPointConstraint"
)

// Attribute predicate terms (samm: namespace, local names).
const (
	AttrPreferredName  = "preferredName"
	AttrDescription    = "description"
	AttrSee            = "see"
	AttrProperties     = "properties"
	AttrOperations     = "operations"
	AttrEvents         = "events"
	AttrCharacteristic = "characteristic"
	AttrDataType       = "dataType"
	AttrExampleValue   = "exampleValue"
	AttrExtends        = "extends"
	AttrOptional       = "optional"
	AttrNotInPayload   = "notInPayload"
	AttrPayloadName    = "payloadName"
	AttrInput          = "input"
	AttrOutput         = "output"
	AttrParameters     = "parameters"
	AttrValue          = "value"
	AttrProperty       = "property"
)

// Characteristic attribute predicate terms (samm-c: namespace, local names).
const (
	AttrBaseCharacteristic    = "baseCharacteristic"
	AttrConstraint            = "constraint"
	AttrLeft                  = "left"
	AttrRight                 = "right"
	AttrElementCharacteristic = "elementCharacteristic"
	AttrValues                = "values"
	AttrDefaultValue          = "defaultValue"
	AttrDeconstructionRule    = "deconstructionRule"
	AttrElements              = "elements"
	AttrUnit                  = "unit"
	AttrQuantityKind          = "quantityKind"
)
