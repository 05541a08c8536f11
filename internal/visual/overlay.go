package visual

import "aspectstudio/internal/domain"

// OverlayDirection places an affordance icon on a cell edge.
type OverlayDirection string

const (
	OverlayBottom OverlayDirection = "bottom"
	OverlayTop    OverlayDirection = "top"
	OverlayLeft   OverlayDirection = "left"
	OverlayRight  OverlayDirection = "right"
	OverlayUp     OverlayDirection = "up"
	OverlayDown   OverlayDirection = "down"
)

// Overlay is one "add shape" affordance on a cell. Action names the element
// kind (or slot) a click creates and connects.
type Overlay struct {
	Direction OverlayDirection `json:"direction"`
	Action    string           `json:"action"`
}

// Overlay actions, consumed by the editor service when an affordance is
// clicked.
const (
	ActionAddProperty        = "add-property"
	ActionAddCharacteristic  = "add-characteristic"
	ActionAddTrait           = "add-trait"
	ActionAddConstraint      = "add-constraint"
	ActionAddEntity          = "add-entity"
	ActionAddEntityValue     = "add-entity-value"
	ActionAddLeft            = "add-left-characteristic"
	ActionAddRight           = "add-right-characteristic"
	ActionAddInput           = "add-input-property"
	ActionAddOutput          = "add-output-property"
)

// ComputeOverlays decides which affordances a cell shows, from the element
// kind and its current connection state. Predefined and external elements
// get only the top "wrap in trait" affordance.
func ComputeOverlays(store *domain.Store, el domain.ModelElement) []Overlay {
	if !el.Base().Mutable() {
		if domain.IsCharacteristic(el) {
			return []Overlay{{Direction: OverlayTop, Action: ActionAddTrait}}
		}
		return nil
	}

	switch e := el.(type) {
	case *domain.Aspect:
		return []Overlay{{Direction: OverlayBottom, Action: ActionAddProperty}}

	case *domain.Property:
		if e.Abstract {
			return nil
		}
		if e.CharacteristicURN != "" {
			// single-child slot already filled; no stale affordance
			return nil
		}
		return []Overlay{{Direction: OverlayBottom, Action: ActionAddCharacteristic}}

	case *domain.Trait:
		out := []Overlay{{Direction: OverlayBottom, Action: ActionAddConstraint}}
		if e.BaseCharacteristicURN == "" {
			out = append(out, Overlay{Direction: OverlayBottom, Action: ActionAddCharacteristic})
		}
		return out

	case *domain.Either:
		var out []Overlay
		if e.LeftURN == "" {
			out = append(out, Overlay{Direction: OverlayLeft, Action: ActionAddLeft})
		}
		if e.RightURN == "" {
			out = append(out, Overlay{Direction: OverlayRight, Action: ActionAddRight})
		}
		out = append(out, Overlay{Direction: OverlayTop, Action: ActionAddTrait})
		return out

	case *domain.Collection:
		out := []Overlay{{Direction: OverlayTop, Action: ActionAddTrait}}
		if e.ElementCharacteristicURN == "" {
			out = append(out, Overlay{Direction: OverlayBottom, Action: ActionAddCharacteristic})
		}
		return out

	case *domain.Enumeration:
		out := []Overlay{{Direction: OverlayTop, Action: ActionAddTrait}}
		if e.Complex() {
			out = append(out, Overlay{Direction: OverlayBottom, Action: ActionAddEntityValue})
		} else {
			out = append(out, Overlay{Direction: OverlayBottom, Action: ActionAddEntity})
		}
		return out

	case *domain.StructuredValue:
		return []Overlay{
			{Direction: OverlayTop, Action: ActionAddTrait},
			{Direction: OverlayBottom, Action: ActionAddProperty},
		}

	case *domain.Quantifiable, *domain.Characteristic:
		out := []Overlay{{Direction: OverlayTop, Action: ActionAddTrait}}
		if c, ok := el.(*domain.Characteristic); ok && !c.HasComplexDataType() {
			out = append(out, Overlay{Direction: OverlayBottom, Action: ActionAddEntity})
		}
		if q, ok := el.(*domain.Quantifiable); ok && !q.HasComplexDataType() {
			out = append(out, Overlay{Direction: OverlayBottom, Action: ActionAddEntity})
		}
		return out

	case *domain.Entity:
		return []Overlay{{Direction: OverlayBottom, Action: ActionAddProperty}}

	case *domain.Operation:
		return []Overlay{
			{Direction: OverlayUp, Action: ActionAddInput},
			{Direction: OverlayDown, Action: ActionAddOutput},
		}

	case *domain.Event:
		return []Overlay{{Direction: OverlayBottom, Action: ActionAddProperty}}

	case *domain.Constraint, *domain.Unit, *domain.QuantityKind, *domain.EntityValue:
		return nil
	}
	return nil
}

func overlaysEqual(a, b []Overlay) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
