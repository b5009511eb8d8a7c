package docmap

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Mapper ties a registry, its configuration, and a database collaborator
// together: materialization honoring the configured validation gate, and
// persistence through collection handles resolved by the registry rules.
type Mapper struct {
	registry *Registry
	driver   Driver

	mu    sync.Mutex
	conns map[string]Connection
}

// NewMapper creates a mapper over a registry and a driver.
func NewMapper(registry *Registry, driver Driver) *Mapper {
	return &Mapper{
		registry: registry,
		driver:   driver,
		conns:    make(map[string]Connection),
	}
}

// Registry returns the registry the mapper resolves through.
func (m *Mapper) Registry() *Registry { return m.registry }

// Materialize builds a document from raw attributes, first validating
// against the descriptor's generated schema when the registry config
// enables it.
func (m *Mapper) Materialize(d *Descriptor, attrs map[string]any) (*Document, error) {
	if m.registry.Config().Entity.ValidateOnMaterialize {
		if err := ValidateAttributes(d, attrs); err != nil {
			return nil, err
		}
	}
	return NewDocument(d, attrs)
}

// Collection resolves the collection handle for a descriptor: connection
// and database come from the descriptor's overrides with registry
// defaults as fallback, the collection name from the inheritance rules.
func (m *Mapper) Collection(ctx context.Context, d *Descriptor) (Collection, error) {
	conn, err := m.connection(ctx, m.registry.ResolveConnection(d))
	if err != nil {
		return nil, err
	}
	return conn.Collection(ctx, m.registry.ResolveDatabaseName(d), m.registry.ResolveCollectionName(d))
}

func (m *Mapper) connection(ctx context.Context, url string) (Connection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if conn, ok := m.conns[url]; ok {
		return conn, nil
	}
	conn, err := m.driver.Connect(ctx, url)
	if err != nil {
		return nil, NewConnectionError("failed to connect", err)
	}
	m.conns[url] = conn
	return conn, nil
}

// Save upserts a document, assigning a fresh object id when the document
// has none, and marks it persisted on success.
func (m *Mapper) Save(ctx context.Context, doc *Document) error {
	coll, err := m.Collection(ctx, doc.Descriptor())
	if err != nil {
		return err
	}

	if doc.ID() == nil {
		doc.SetID(NewObjectID())
	}

	if err := coll.Save(ctx, IDString(doc.ID()), doc.ToMap()); err != nil {
		return err
	}
	doc.MarkPersisted(true)

	if m.registry.Config().Logging.LogQueries {
		zap.S().Debugw("saved document",
			"collection", coll.Name(),
			"id", IDString(doc.ID()))
	}
	return nil
}

// Find fetches a document by identity and materializes it. Found
// documents carry the identity and are marked persisted.
func (m *Mapper) Find(ctx context.Context, d *Descriptor, id any) (*Document, error) {
	coll, err := m.Collection(ctx, d)
	if err != nil {
		return nil, err
	}

	body, err := coll.Get(ctx, IDString(id))
	if err != nil {
		return nil, err
	}

	doc, err := m.Materialize(d, body)
	if err != nil {
		return nil, err
	}
	doc.SetID(id)
	doc.MarkPersisted(true)
	return doc, nil
}

// Delete removes a single document by identity.
func (m *Mapper) Delete(ctx context.Context, doc *Document) error {
	coll, err := m.Collection(ctx, doc.Descriptor())
	if err != nil {
		return err
	}
	if err := coll.Delete(ctx, IDString(doc.ID())); err != nil {
		return err
	}
	doc.MarkPersisted(false)
	return nil
}

// DeleteAll removes every document in the descriptor's collection.
func (m *Mapper) DeleteAll(ctx context.Context, d *Descriptor) error {
	coll, err := m.Collection(ctx, d)
	if err != nil {
		return err
	}
	return coll.RemoveAll(ctx)
}

// Close closes every connection the mapper opened.
func (m *Mapper) Close(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var firstErr error
	for url, conn := range m.conns {
		if err := conn.Close(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(m.conns, url)
	}
	return firstErr
}
