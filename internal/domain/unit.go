package domain

// Unit is a measurement unit, attached to quantifiable characteristics.
// Predefined units come from the shared catalog; custom units are owned by
// the current file and deletable like any other element.
type Unit struct {
	BaseElement
	Symbol           string   `json:"symbol,omitempty"`
	Code             string   `json:"code,omitempty"`
	ReferenceUnitURN string   `json:"reference_unit,omitempty"`
	ConversionFactor string   `json:"conversion_factor,omitempty"`
	QuantityKindURNs []string `json:"quantity_kinds,omitempty"`
}

// NewUnit creates a custom unit.
func NewUnit(urn, name string) *Unit {
	return &Unit{BaseElement: newBase(urn, name)}
}

// Kind implements ModelElement.
func (u *Unit) Kind() Kind { return KindUnit }

// QuantityKind names the physical quantity a unit measures.
type QuantityKind struct {
	BaseElement
}

// NewQuantityKind creates a quantity kind.
func NewQuantityKind(urn, name string) *QuantityKind {
	return &QuantityKind{BaseElement: newBase(urn, name)}
}

// Kind implements ModelElement.
func (q *QuantityKind) Kind() Kind { return KindQuantityKind }
