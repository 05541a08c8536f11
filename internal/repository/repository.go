package repository

import (
	"context"
	"time"
)

// ModelFile is one persisted Turtle document, keyed by namespace, version
// and file name. Hash is the hex blake2b-256 of Content and is filled in by
// the store on save.
type ModelFile struct {
	Namespace string    `json:"namespace"`
	Version   string    `json:"version"`
	Name      string    `json:"name"`
	Content   string    `json:"content"`
	Hash      string    `json:"hash,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// Key returns the canonical "namespace:version:name" identifier used to
// scope saved cell positions to one model file.
func (f *ModelFile) Key() string {
	return f.Namespace + ":" + f.Version + ":" + f.Name
}

// Position is one cell's saved placement on the canvas.
type Position struct {
	URN    string  `json:"urn"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Folded bool    `json:"folded,omitempty"`
}

// Repository defines the interface for model persistence
type Repository interface {
	// Model file operations
	SaveModelFile(ctx context.Context, file *ModelFile) error
	GetModelFile(ctx context.Context, namespace, version, name string) (*ModelFile, error)
	ListModelFiles(ctx context.Context) ([]ModelFile, error)
	DeleteModelFile(ctx context.Context, namespace, version, name string) error

	// Layout persistence
	SavePositions(ctx context.Context, fileKey string, positions []Position) error
	GetPositions(ctx context.Context, fileKey string) (map[string]Position, error)

	// Close releases resources
	Close() error
}
