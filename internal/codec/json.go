package codec

import (
	"encoding/json"
	"fmt"
	"io"

	"aspectstudio/internal/domain"
)

// JSONCodec writes a flattened element listing as JSON
type JSONCodec struct{}

// NewJSONCodec creates a new JSON codec
func NewJSONCodec() *JSONCodec {
	return &JSONCodec{}
}

// Format returns the codec format identifier
func (c *JSONCodec) Format() string {
	return "json"
}

// Export writes the element listing as indented JSON
func (c *JSONCodec) Export(store *domain.Store, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(flatten(store)); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	return nil
}
