package codec

import (
	"fmt"
	"io"

	"aspectstudio/internal/domain"

	"gopkg.in/yaml.v3"
)

// YAMLCodec writes a flattened element listing as YAML
type YAMLCodec struct{}

// NewYAMLCodec creates a new YAML codec
func NewYAMLCodec() *YAMLCodec {
	return &YAMLCodec{}
}

// Format returns the codec format identifier
func (c *YAMLCodec) Format() string {
	return "yaml"
}

// Export writes the element listing as YAML
func (c *YAMLCodec) Export(store *domain.Store, w io.Writer) error {
	encoder := yaml.NewEncoder(w)
	defer encoder.Close()

	if err := encoder.Encode(flatten(store)); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}

	return nil
}
