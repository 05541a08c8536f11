// Package codec renders a model store into interchange formats. Turtle is
// the canonical format; JSON and YAML carry a flattened element listing for
// tooling that does not speak RDF.
package codec

import (
	"io"

	"aspectstudio/internal/domain"
)

// Exporter writes a model store to one output format
type Exporter interface {
	Export(store *domain.Store, w io.Writer) error
	Format() string
}

// ByFormat returns the exporter for a format name, or nil for unknown ones.
func ByFormat(format string) Exporter {
	switch format {
	case "ttl", "turtle":
		return NewTurtleCodec()
	case "json":
		return NewJSONCodec()
	case "yaml", "yml":
		return NewYAMLCodec()
	}
	return nil
}

// flatElement is the per-element record shared by the JSON and YAML views.
type flatElement struct {
	URN      string   `json:"urn" yaml:"urn"`
	Kind     string   `json:"kind" yaml:"kind"`
	Name     string   `json:"name" yaml:"name"`
	External bool     `json:"external,omitempty" yaml:"external,omitempty"`
	Children []string `json:"children,omitempty" yaml:"children,omitempty"`
}

func flatten(store *domain.Store) []flatElement {
	elements := store.Elements()
	out := make([]flatElement, 0, len(elements))
	for _, el := range elements {
		base := el.Base()
		out = append(out, flatElement{
			URN:      base.URN,
			Kind:     string(el.Kind()),
			Name:     base.Name,
			External: base.ExternalRef,
			Children: store.Children(base.URN),
		})
	}
	return out
}
