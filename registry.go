package docmap

import (
	"sync"
)

// Bundle is a capability bundle applied to a descriptor: the static
// counterpart of re-opening a class. Bundles appended before a type's
// registration run at registration time; bundles appended afterward run
// retroactively against every descriptor already registered.
type Bundle func(*Descriptor)

// Registry is the process-wide table of every descriptor that adopted
// the document capability, plus the ordered extension and inclusion
// bundles layered on top of them. It also owns the global defaults that
// per-descriptor settings fall back to.
type Registry struct {
	mu          sync.RWMutex
	cfg         *Config
	descriptors []*Descriptor
	registered  map[*Descriptor]struct{}
	extensions  []Bundle
	inclusions  []Bundle
}

// NewRegistry creates a registry backed by the given global defaults.
// A nil config falls back to DefaultConfig.
func NewRegistry(cfg *Config) *Registry {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Registry{
		cfg:        cfg,
		registered: make(map[*Descriptor]struct{}),
	}
}

// Config returns the registry's global defaults.
func (r *Registry) Config() *Config {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cfg
}

// Register adds a descriptor to the registry and applies every bundle
// appended so far, extensions first. Re-registering a descriptor is a
// silent no-op.
func (r *Registry) Register(d *Descriptor) {
	if d == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, dup := r.registered[d]; dup {
		return
	}
	r.registered[d] = struct{}{}
	r.descriptors = append(r.descriptors, d)

	for _, b := range r.extensions {
		b(d)
	}
	for _, b := range r.inclusions {
		b(d)
	}
}

// Descendants returns every registered descriptor in registration order.
func (r *Registry) Descendants() []*Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Descriptor, len(r.descriptors))
	copy(out, r.descriptors)
	return out
}

// Subclasses returns the direct children of a descriptor in declaration
// order.
func (r *Registry) Subclasses(d *Descriptor) []*Descriptor {
	if d == nil {
		return nil
	}
	out := make([]*Descriptor, len(d.subclasses))
	copy(out, d.subclasses)
	return out
}

// AppendExtension stores an extension bundle and applies it immediately
// to all currently registered descriptors.
func (r *Registry) AppendExtension(b Bundle) {
	r.appendBundle(&r.extensions, b)
}

// AppendInclusion stores an inclusion bundle and applies it immediately
// to all currently registered descriptors.
func (r *Registry) AppendInclusion(b Bundle) {
	r.appendBundle(&r.inclusions, b)
}

func (r *Registry) appendBundle(list *[]Bundle, b Bundle) {
	if b == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	*list = append(*list, b)
	for _, d := range r.descriptors {
		b(d)
	}
}

// ResolveCollectionName resolves the collection name for a descriptor.
// Collection names never depend on global defaults, so this simply
// delegates to the descriptor's own resolution.
func (r *Registry) ResolveCollectionName(d *Descriptor) string {
	return d.CollectionName()
}

// ResolveDatabaseName resolves the database for a descriptor: the
// nearest ancestor override when one is set, otherwise the global
// default. Overrides never leak into the global default or siblings.
func (r *Registry) ResolveDatabaseName(d *Descriptor) string {
	for cur := d; cur != nil; cur = cur.parent {
		if cur.databaseName != "" {
			return cur.databaseName
		}
	}
	return r.Config().Database.DefaultDatabase
}

// ResolveConnection resolves the connection URL for a descriptor with
// the same fallback rule as ResolveDatabaseName.
func (r *Registry) ResolveConnection(d *Descriptor) string {
	for cur := d; cur != nil; cur = cur.parent {
		if cur.connectionURL != "" {
			return cur.connectionURL
		}
	}
	return r.Config().Database.URL
}
