package domain

import "aspectstudio/internal/vocabulary"

// CharacteristicClass is the vocabulary class of a characteristic. Plain
// characteristics and the subtypes without extra references (Code,
// SingleEntity) share the Characteristic struct; subtypes with their own
// reference fields get their own types below.
type CharacteristicClass string

const (
	ClassCharacteristic CharacteristicClass = vocabulary.ClassCharacteristic
	ClassCode           CharacteristicClass = vocabulary.ClassCode
	ClassSingleEntity   CharacteristicClass = vocabulary.ClassSingleEntity

	ClassTrait           CharacteristicClass = vocabulary.ClassTrait
	ClassEither          CharacteristicClass = vocabulary.ClassEither
	ClassCollection      CharacteristicClass = vocabulary.ClassCollection
	ClassList            CharacteristicClass = vocabulary.ClassList
	ClassSet             CharacteristicClass = vocabulary.ClassSet
	ClassSortedSet       CharacteristicClass = vocabulary.ClassSortedSet
	ClassTimeSeries      CharacteristicClass = vocabulary.ClassTimeSeries
	ClassEnumeration     CharacteristicClass = vocabulary.ClassEnumeration
	ClassState           CharacteristicClass = vocabulary.ClassState
	ClassStructuredValue CharacteristicClass = vocabulary.ClassStructuredValue
	ClassQuantifiable    CharacteristicClass = vocabulary.ClassQuantifiable
	ClassMeasurement     CharacteristicClass = vocabulary.ClassMeasurement
	ClassDuration        CharacteristicClass = vocabulary.ClassDuration
)

// Characteristic is the typed "shape of values" wrapper attached to a
// property. DataTypeURN is either an xsd scalar IRI or an entity URN.
type Characteristic struct {
	BaseElement
	Class       CharacteristicClass `json:"class"`
	DataTypeURN string              `json:"data_type,omitempty"`
}

// NewCharacteristic creates a plain characteristic.
func NewCharacteristic(urn, name string) *Characteristic {
	return &Characteristic{BaseElement: newBase(urn, name), Class: ClassCharacteristic}
}

// Kind implements ModelElement.
func (c *Characteristic) Kind() Kind { return KindCharacteristic }

// HasComplexDataType reports whether the datatype points at an entity rather
// than an xsd scalar.
func (c *Characteristic) HasComplexDataType() bool {
	return c.DataTypeURN != "" && !vocabulary.IsScalarType(LocalName(c.DataTypeURN))
}

// Trait wraps a base characteristic plus one or more constraints.
type Trait struct {
	Characteristic
	BaseCharacteristicURN string   `json:"base_characteristic,omitempty"`
	ConstraintURNs        []string `json:"constraints,omitempty"`
}

// NewTrait creates an empty trait.
func NewTrait(urn, name string) *Trait {
	t := &Trait{Characteristic: *NewCharacteristic(urn, name)}
	t.Class = ClassTrait
	return t
}

// Kind implements ModelElement.
func (t *Trait) Kind() Kind { return KindTrait }

// Update assigns the child into the trait: a characteristic becomes the base
// characteristic (only if none is set yet), a constraint is appended to the
// constraints list. Returns false if nothing was assigned.
func (t *Trait) Update(child ModelElement) bool {
	switch el := child.(type) {
	case *Constraint:
		if containsString(t.ConstraintURNs, el.URN) {
			return false
		}
		t.ConstraintURNs = append(t.ConstraintURNs, el.URN)
		return true
	case *Trait:
		// a trait cannot be its own base
		return false
	default:
		if !isCharacteristicKind(child) {
			return false
		}
		if t.BaseCharacteristicURN != "" && t.BaseCharacteristicURN != child.Base().URN {
			return false
		}
		if t.BaseCharacteristicURN == child.Base().URN {
			return false
		}
		t.BaseCharacteristicURN = child.Base().URN
		return true
	}
}

// Either offers a value of one of two disjoint characteristics.
type Either struct {
	Characteristic
	LeftURN  string `json:"left,omitempty"`
	RightURN string `json:"right,omitempty"`
}

// NewEither creates an empty either characteristic.
func NewEither(urn, name string) *Either {
	e := &Either{Characteristic: *NewCharacteristic(urn, name)}
	e.Class = ClassEither
	return e
}

// Kind implements ModelElement.
func (e *Either) Kind() Kind { return KindEither }

// Collection covers Collection/List/Set/SortedSet/TimeSeries.
type Collection struct {
	Characteristic
	ElementCharacteristicURN string `json:"element_characteristic,omitempty"`
}

// NewCollection creates a collection characteristic of the given class.
func NewCollection(urn, name string, class CharacteristicClass) *Collection {
	c := &Collection{Characteristic: *NewCharacteristic(urn, name)}
	c.Class = class
	return c
}

// Kind implements ModelElement.
func (c *Collection) Kind() Kind { return KindCollection }

// Enumeration covers Enumeration and State. Scalar enumerations carry literal
// Values; complex enumerations carry entity-value URNs instead.
type Enumeration struct {
	Characteristic
	Values          []string `json:"values,omitempty"`
	ValueURNs       []string `json:"value_urns,omitempty"`
	DefaultValueURN string   `json:"default_value,omitempty"`
}

// NewEnumeration creates a scalar enumeration.
func NewEnumeration(urn, name string) *Enumeration {
	e := &Enumeration{Characteristic: *NewCharacteristic(urn, name)}
	e.Class = ClassEnumeration
	return e
}

// Kind implements ModelElement.
func (e *Enumeration) Kind() Kind { return KindEnumeration }

// Complex reports whether the enumeration is typed with an entity.
func (e *Enumeration) Complex() bool { return e.HasComplexDataType() }

// StructuredElement is one piece of a structured value deconstruction: either
// a literal fragment or a reference to a property.
type StructuredElement struct {
	Literal     string `json:"literal,omitempty"`
	PropertyURN string `json:"property_urn,omitempty"`
}

// StructuredValue deconstructs a scalar value into typed parts.
type StructuredValue struct {
	Characteristic
	DeconstructionRule string              `json:"deconstruction_rule,omitempty"`
	Elements           []StructuredElement `json:"elements,omitempty"`
}

// NewStructuredValue creates an empty structured value characteristic.
func NewStructuredValue(urn, name string) *StructuredValue {
	s := &StructuredValue{Characteristic: *NewCharacteristic(urn, name)}
	s.Class = ClassStructuredValue
	return s
}

// Kind implements ModelElement.
func (s *StructuredValue) Kind() Kind { return KindStructuredValue }

// PropertyURNs returns the referenced properties in declared order.
func (s *StructuredValue) PropertyURNs() []string {
	var urns []string
	for _, el := range s.Elements {
		if el.PropertyURN != "" {
			urns = append(urns, el.PropertyURN)
		}
	}
	return urns
}

// Quantifiable covers Quantifiable/Measurement/Duration; all may carry a unit.
type Quantifiable struct {
	Characteristic
	UnitURN string `json:"unit,omitempty"`
}

// NewQuantifiable creates a quantifiable characteristic of the given class.
func NewQuantifiable(urn, name string, class CharacteristicClass) *Quantifiable {
	q := &Quantifiable{Characteristic: *NewCharacteristic(urn, name)}
	q.Class = class
	return q
}

// Kind implements ModelElement.
func (q *Quantifiable) Kind() Kind { return KindQuantifiable }

// isCharacteristicKind reports whether the element is any characteristic
// variant, traits included.
func isCharacteristicKind(el ModelElement) bool {
	switch el.Kind() {
	case KindCharacteristic, KindTrait, KindEither, KindCollection,
		KindEnumeration, KindStructuredValue, KindQuantifiable:
		return true
	}
	return false
}

// IsCharacteristic reports whether the element is any characteristic variant.
func IsCharacteristic(el ModelElement) bool { return isCharacteristicKind(el) }
