package codec

import (
	"fmt"
	"io"

	"aspectstudio/internal/domain"
	"aspectstudio/internal/rdf"
)

// TurtleCodec writes the model as a Turtle document
type TurtleCodec struct{}

// NewTurtleCodec creates a new Turtle codec
func NewTurtleCodec() *TurtleCodec {
	return &TurtleCodec{}
}

// Format returns the codec format identifier
func (c *TurtleCodec) Format() string {
	return "ttl"
}

// Export writes the store as Turtle
func (c *TurtleCodec) Export(store *domain.Store, w io.Writer) error {
	data, err := rdf.Serialize(store)
	if err != nil {
		return fmt.Errorf("failed to serialize model: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write model: %w", err)
	}
	return nil
}
