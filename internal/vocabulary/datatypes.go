package vocabulary

// ScalarTypes is the catalog of xsd scalar datatypes a characteristic may
// carry. Local names only; prepend XSD to get the full IRI.
var ScalarTypes = []string{
	"string",
	"boolean",
	"decimal",
	"integer",
	"double",
	"float",
	"date",
	"time",
	"dateTime",
	"dateTimeStamp",
	"gYear",
	"gMonth",
	"gDay",
	"gYearMonth",
	"gMonthDay",
	"duration",
	"yearMonthDuration",
	"dayTimeDuration",
	"byte",
	"short",
	"int",
	"long",
	"unsignedByte",
	"unsignedShort",
	"unsignedInt",
	"unsignedLong",
	"positiveInteger",
	"nonNegativeInteger",
	"negativeInteger",
	"nonPositiveInteger",
	"hexBinary",
	"base64Binary",
	"anyURI",
	"curie",
	"langString",
}

var scalarSet = func() map[string]struct{} {
	m := make(map[string]struct{}, len(ScalarTypes))
	for _, t := range ScalarTypes {
		m[t] = struct{}{}
	}
	return m
}()

// IsScalarType reports whether the local name is a known xsd scalar type.
func IsScalarType(local string) bool {
	_, ok := scalarSet[local]
	return ok
}

// ScalarIRI returns the full xsd IRI for a scalar local name.
func ScalarIRI(local string) string {
	return XSD + local
}
