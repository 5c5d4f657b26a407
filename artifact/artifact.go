package artifact

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no artifact exists for the key.
var ErrNotFound = errors.New("artifact not found")

// Artifact is a stored file.
type Artifact struct {
	Key         string
	ContentType string
	Data        []byte
}

// Store persists artifacts by key. Implementations must be safe for
// concurrent use.
type Store interface {
	Save(ctx context.Context, a Artifact) error
	Get(ctx context.Context, key string) (*Artifact, error)
	List(ctx context.Context, prefix string) ([]string, error)
	Delete(ctx context.Context, key string) error
}
