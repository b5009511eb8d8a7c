package internal

import (
	"context"
	"sync"

	"github.com/inkstone-data/docmap"
)

// MemoryDriver is an in-process collaborator used by tests and local
// runs. All connections share the driver's state regardless of URL.
type MemoryDriver struct {
	mu        sync.RWMutex
	databases map[string]map[string]map[string]map[string]any
}

// NewMemoryDriver creates an empty in-memory driver.
func NewMemoryDriver() *MemoryDriver {
	return &MemoryDriver{
		databases: make(map[string]map[string]map[string]map[string]any),
	}
}

func (d *MemoryDriver) Connect(ctx context.Context, url string) (docmap.Connection, error) {
	return &memoryConnection{driver: d}, nil
}

func (d *MemoryDriver) collection(database, name string) map[string]map[string]any {
	db, ok := d.databases[database]
	if !ok {
		db = make(map[string]map[string]map[string]any)
		d.databases[database] = db
	}
	coll, ok := db[name]
	if !ok {
		coll = make(map[string]map[string]any)
		db[name] = coll
	}
	return coll
}

type memoryConnection struct {
	driver *MemoryDriver
}

func (c *memoryConnection) Collection(ctx context.Context, database, name string) (docmap.Collection, error) {
	return &memoryCollection{driver: c.driver, database: database, name: name}, nil
}

func (c *memoryConnection) Close(ctx context.Context) error { return nil }

type memoryCollection struct {
	driver   *MemoryDriver
	database string
	name     string
}

func (c *memoryCollection) Name() string { return c.name }

func (c *memoryCollection) Save(ctx context.Context, id string, body map[string]any) error {
	c.driver.mu.Lock()
	defer c.driver.mu.Unlock()
	c.driver.collection(c.database, c.name)[id] = copyBody(body)
	return nil
}

func (c *memoryCollection) Get(ctx context.Context, id string) (map[string]any, error) {
	c.driver.mu.RLock()
	defer c.driver.mu.RUnlock()

	db, ok := c.driver.databases[c.database]
	if ok {
		if coll, ok := db[c.name]; ok {
			if body, ok := coll[id]; ok {
				return copyBody(body), nil
			}
		}
	}
	return nil, docmap.NewDocumentNotFoundError(c.name, id)
}

func (c *memoryCollection) Delete(ctx context.Context, id string) error {
	c.driver.mu.Lock()
	defer c.driver.mu.Unlock()
	delete(c.driver.collection(c.database, c.name), id)
	return nil
}

func (c *memoryCollection) RemoveAll(ctx context.Context) error {
	c.driver.mu.Lock()
	defer c.driver.mu.Unlock()
	if db, ok := c.driver.databases[c.database]; ok {
		delete(db, c.name)
	}
	return nil
}

func (c *memoryCollection) Count(ctx context.Context) (int64, error) {
	c.driver.mu.RLock()
	defer c.driver.mu.RUnlock()
	if db, ok := c.driver.databases[c.database]; ok {
		if coll, ok := db[c.name]; ok {
			return int64(len(coll)), nil
		}
	}
	return 0, nil
}
