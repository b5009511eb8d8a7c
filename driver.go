package docmap

import (
	"context"

	"github.com/google/uuid"
)

// Driver is the external database collaborator boundary. The mapping
// layer consumes it and never re-specifies query execution, wire
// formats, or durability.
type Driver interface {
	Connect(ctx context.Context, url string) (Connection, error)
}

// Connection is an open handle to a database server.
type Connection interface {
	Collection(ctx context.Context, database, name string) (Collection, error)
	Close(ctx context.Context) error
}

// Collection is a handle to a named document collection.
type Collection interface {
	// Name returns the collection name the handle was resolved with.
	Name() string

	// Save upserts a document body under the given identity.
	Save(ctx context.Context, id string, body map[string]any) error

	// Get fetches a document body by identity. Missing documents yield a
	// not-found DocmapError.
	Get(ctx context.Context, id string) (map[string]any, error)

	// Delete removes a single document by identity.
	Delete(ctx context.Context, id string) error

	// RemoveAll removes every document in the collection.
	RemoveAll(ctx context.Context) error

	// Count returns the number of documents in the collection.
	Count(ctx context.Context) (int64, error)
}

// NewObjectID produces a new opaque document identity.
func NewObjectID() uuid.UUID {
	return uuid.Must(uuid.NewV7())
}

// IDString renders a document identity for the collaborator boundary.
func IDString(id any) string {
	switch v := id.(type) {
	case nil:
		return ""
	case string:
		return v
	case uuid.UUID:
		return v.String()
	default:
		s, _ := toString(v)
		return s
	}
}
