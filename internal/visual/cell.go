package visual

import (
	"fmt"
	"sort"
	"strings"

	"aspectstudio/internal/domain"
)

// Geometry is a cell's placement and size on the canvas.
type Geometry struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Default cell sizes for the two display modes.
var (
	expandedSize  = Geometry{W: 160, H: 90}
	collapsedSize = Geometry{W: 110, H: 40}
)

// Cell is the visual counterpart of one model element. Every cell carries
// both an expanded and a collapsed geometry so mode toggles never lose
// placement.
type Cell struct {
	URN       string    `json:"urn"`
	Style     string    `json:"style"`
	Label     string    `json:"label"`
	Tooltip   string    `json:"tooltip,omitempty"`
	Expanded  Geometry  `json:"expanded"`
	Collapsed Geometry  `json:"collapsed"`
	Folded    bool      `json:"folded,omitempty"`
	ReadOnly  bool      `json:"read_only,omitempty"`
	Overlays  []Overlay `json:"overlays,omitempty"`

	// Highlight is the stroke color set from validation violations; empty
	// means the default stroke.
	Highlight string `json:"highlight,omitempty"`
}

// Edge is a parent->child connector between two cells.
type Edge struct {
	ID    string `json:"id"`
	From  string `json:"from"`
	To    string `json:"to"`
	Style string `json:"style,omitempty"`
}

func edgeID(from, to string) string {
	return from + " -> " + to
}

// styleFor maps an element to its cell style name.
func styleFor(el domain.ModelElement) string {
	switch e := el.(type) {
	case *domain.Aspect:
		return "aspect"
	case *domain.Property:
		if e.Abstract {
			return "abstractProperty"
		}
		return "property"
	case *domain.Trait:
		return "trait"
	case *domain.Either:
		return "either"
	case *domain.Collection:
		return "collection"
	case *domain.Enumeration:
		return "enumeration"
	case *domain.StructuredValue:
		return "structuredValue"
	case *domain.Quantifiable:
		return "quantifiable"
	case *domain.Characteristic:
		return "characteristic"
	case *domain.Entity:
		if e.Abstract {
			return "abstractEntity"
		}
		return "entity"
	case *domain.Constraint:
		return "constraint"
	case *domain.Operation:
		return "operation"
	case *domain.Event:
		return "event"
	case *domain.Unit:
		return "unit"
	case *domain.QuantityKind:
		return "quantityKind"
	case *domain.EntityValue:
		return "entityValue"
	}
	return "unknown"
}

// labelFor synthesizes the cell label from element attributes: the preferred
// name when one exists, the local name otherwise.
func labelFor(el domain.ModelElement) string {
	b := el.Base()
	if pn, ok := b.PreferredNames["en"]; ok && pn != "" {
		return pn
	}
	return b.Name
}

// tooltipFor synthesizes the hover tooltip: kind, name, and descriptions.
func tooltipFor(el domain.ModelElement) string {
	b := el.Base()
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n%s", el.Kind(), b.Name)
	for _, lang := range sortedLangs(b.Descriptions) {
		fmt.Fprintf(&sb, "\n%s: %s", lang, b.Descriptions[lang])
	}
	if c, ok := el.(*domain.Characteristic); ok && c.DataTypeURN != "" {
		fmt.Fprintf(&sb, "\ndataType: %s", domain.LocalName(c.DataTypeURN))
	}
	return sb.String()
}

func sortedLangs(m map[string]string) []string {
	langs := make([]string, 0, len(m))
	for l := range m {
		langs = append(langs, l)
	}
	sort.Strings(langs)
	return langs
}
