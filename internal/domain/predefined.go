package domain

import "aspectstudio/internal/vocabulary"

// PredefinedCharacteristics lists the built-in characteristic names from the
// shared vocabulary. They resolve in the samm-c: namespace.
var PredefinedCharacteristics = []string{
	"Text",
	"MultiLanguageText",
	"Boolean",
	"Locale",
	"Language",
	"UnitReference",
	"ResourcePath",
	"MimeType",
	"Timestamp",
}

var predefinedDataTypes = map[string]string{
	"Text":              "string",
	"MultiLanguageText": "langString",
	"Boolean":           "boolean",
	"Locale":            "string",
	"Language":          "string",
	"UnitReference":     "curie",
	"ResourcePath":      "anyURI",
	"MimeType":          "string",
	"Timestamp":         "dateTime",
}

// predefinedUnits is a working subset of the shared unit catalog; entries are
// name -> symbol.
var predefinedUnits = map[string]string{
	"metre":         "m",
	"kilogram":      "kg",
	"secondUnitOfTime": "s",
	"ampere":        "A",
	"kelvin":        "K",
	"degreeCelsius": "°C",
	"percent":       "%",
	"hertz":         "Hz",
	"volt":          "V",
	"watt":          "W",
}

// PredefinedRegistry resolves built-in vocabulary elements by name. Lookups
// return fresh shared singletons registered once per store.
type PredefinedRegistry struct {
	characteristics map[string]*Characteristic
	units           map[string]*Unit
}

// NewPredefinedRegistry builds the registry from the built-in catalogs.
func NewPredefinedRegistry() *PredefinedRegistry {
	r := &PredefinedRegistry{
		characteristics: make(map[string]*Characteristic),
		units:           make(map[string]*Unit),
	}
	for _, name := range PredefinedCharacteristics {
		c := NewCharacteristic(vocabulary.SammC+name, name)
		c.Predefined = true
		if dt, ok := predefinedDataTypes[name]; ok {
			c.DataTypeURN = vocabulary.ScalarIRI(dt)
		}
		r.characteristics[name] = c
	}
	for name, symbol := range predefinedUnits {
		u := NewUnit(vocabulary.Unit+name, name)
		u.Predefined = true
		u.Symbol = symbol
		r.units[name] = u
	}
	return r
}

// Characteristic returns the predefined characteristic by local name.
func (r *PredefinedRegistry) Characteristic(name string) (*Characteristic, bool) {
	c, ok := r.characteristics[name]
	return c, ok
}

// Unit returns the predefined unit by local name.
func (r *PredefinedRegistry) Unit(name string) (*Unit, bool) {
	u, ok := r.units[name]
	return u, ok
}

// CharacteristicNames returns the catalog names in declaration order.
func (r *PredefinedRegistry) CharacteristicNames() []string {
	return append([]string(nil), PredefinedCharacteristics...)
}

// IsPredefinedURN reports whether the URN lives in a shared vocabulary
// namespace rather than a model namespace.
func IsPredefinedURN(urn string) bool {
	ns := NamespaceOf(urn)
	switch ns {
	case vocabulary.SammC, vocabulary.SammE, vocabulary.Unit,
		vocabulary.BammC, vocabulary.BammE:
		return true
	}
	return false
}
