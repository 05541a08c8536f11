package domain

// PropertyRef is an ordered entry in an Aspect/Entity property list. The
// optionality flags are scoped to the owning element, not the property
// definition itself.
type PropertyRef struct {
	URN          string `json:"urn"`
	Optional     bool   `json:"optional,omitempty"`
	NotInPayload bool   `json:"not_in_payload,omitempty"`
	PayloadName  string `json:"payload_name,omitempty"`
}

// Aspect is the model root. Exactly one exists per model file and it cannot
// be deleted once created.
type Aspect struct {
	BaseElement
	Properties []PropertyRef `json:"properties"`
	Operations []string      `json:"operations,omitempty"`
	Events     []string      `json:"events,omitempty"`
}

// NewAspect creates an aspect with empty member lists.
func NewAspect(urn, name string) *Aspect {
	return &Aspect{BaseElement: newBase(urn, name)}
}

// Kind implements ModelElement.
func (a *Aspect) Kind() Kind { return KindAspect }

// HasProperty reports whether the aspect already lists the property.
func (a *Aspect) HasProperty(urn string) bool {
	for _, ref := range a.Properties {
		if ref.URN == urn {
			return true
		}
	}
	return false
}

// AddProperty appends a property reference, ignoring duplicates.
func (a *Aspect) AddProperty(urn string) {
	if a.HasProperty(urn) {
		return
	}
	a.Properties = append(a.Properties, PropertyRef{URN: urn})
}

// RemoveProperty drops the property reference if present.
func (a *Aspect) RemoveProperty(urn string) {
	a.Properties = removePropertyRef(a.Properties, urn)
}

func removePropertyRef(refs []PropertyRef, urn string) []PropertyRef {
	out := refs[:0]
	for _, ref := range refs {
		if ref.URN != urn {
			out = append(out, ref)
		}
	}
	return out
}

func removeString(list []string, s string) []string {
	out := list[:0]
	for _, v := range list {
		if v != s {
			out = append(out, v)
		}
	}
	return out
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
