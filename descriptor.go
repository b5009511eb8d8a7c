package docmap

import (
	"go.uber.org/zap"
)

// Descriptor is the declare-time metadata for a document-capable type:
// its name and namespace, declared keys, inheritance links, and
// per-type overrides for collection, database, and connection settings.
//
// Descriptors are built during an application's startup phase. Dynamic
// declaration after startup must be serialized by the caller.
type Descriptor struct {
	name      string
	namespace []string

	parent     *Descriptor
	subclasses []*Descriptor

	keys     map[string]Key
	keyOrder []string

	collectionName string
	databaseName   string
	connectionURL  string
}

// NewDescriptor creates a top-level descriptor. Namespace segments are
// given outer-to-inner, e.g. NewDescriptor("Post", "BloggyPoo").
func NewDescriptor(name string, namespace ...string) *Descriptor {
	return &Descriptor{
		name:      name,
		namespace: namespace,
		keys:      make(map[string]Key),
	}
}

// Subclass declares a child descriptor. The child shares the parent's
// namespace, sees the union of the parent's and its own keys, and
// resolves to the parent's collection name.
func (d *Descriptor) Subclass(name string) *Descriptor {
	child := &Descriptor{
		name:      name,
		namespace: d.namespace,
		parent:    d,
		keys:      make(map[string]Key),
	}
	d.subclasses = append(d.subclasses, child)
	return child
}

// Name returns the declared type name without namespace.
func (d *Descriptor) Name() string { return d.name }

// Namespace returns the namespace segments in outer-to-inner order.
func (d *Descriptor) Namespace() []string { return d.namespace }

// Parent returns the direct ancestor descriptor, or nil for a base type.
func (d *Descriptor) Parent() *Descriptor { return d.parent }

// Root returns the top of the inheritance chain (d itself for base types).
func (d *Descriptor) Root() *Descriptor {
	cur := d
	for cur.parent != nil {
		cur = cur.parent
	}
	return cur
}

// DeclareKey registers a key on the descriptor. Declaring the same name
// again replaces the previous declaration.
func (d *Descriptor) DeclareKey(name string, typ KeyType, opts KeyOptions) {
	if _, exists := d.keys[name]; !exists {
		d.keyOrder = append(d.keyOrder, name)
	}
	d.keys[name] = Key{
		Name:        name,
		Type:        typ,
		Required:    opts.Required,
		Default:     opts.Default,
		DefaultFunc: opts.DefaultFunc,
		Embedded:    opts.Embedded,
	}
}

// Key looks up a declared key by name, consulting ancestors when the
// descriptor does not declare it itself.
func (d *Descriptor) Key(name string) (Key, bool) {
	for cur := d; cur != nil; cur = cur.parent {
		if k, ok := cur.keys[name]; ok {
			return k, true
		}
	}
	return Key{}, false
}

// Keys returns the union of ancestor and own key declarations, ancestors
// first, with a descriptor's own declaration winning on name collision.
func (d *Descriptor) Keys() []Key {
	chain := make([]*Descriptor, 0, 2)
	for cur := d; cur != nil; cur = cur.parent {
		chain = append(chain, cur)
	}

	seen := make(map[string]struct{})
	keys := make([]Key, 0, len(d.keyOrder))
	for i := len(chain) - 1; i >= 0; i-- {
		for _, name := range chain[i].keyOrder {
			if _, dup := seen[name]; dup {
				continue
			}
			seen[name] = struct{}{}
			k, _ := d.Key(name)
			keys = append(keys, k)
		}
	}
	return keys
}

// SetCollectionName overrides the derived collection name for this
// descriptor and all of its subclasses.
func (d *Descriptor) SetCollectionName(name string) { d.collectionName = name }

// SetDatabaseName overrides the global default database for this
// descriptor and its subclasses.
func (d *Descriptor) SetDatabaseName(name string) { d.databaseName = name }

// SetConnectionURL overrides the global default connection for this
// descriptor and its subclasses.
func (d *Descriptor) SetConnectionURL(url string) { d.connectionURL = url }

// CollectionName resolves the collection name: the nearest ancestor
// override when one is set, otherwise the name derived from the root
// ancestor (underscored, pluralized, namespace segments dot-joined).
func (d *Descriptor) CollectionName() string {
	for cur := d; cur != nil; cur = cur.parent {
		if cur.collectionName != "" {
			return cur.collectionName
		}
	}
	return defaultCollectionName(d.Root())
}

// Logger returns the process-wide configured logger.
func (d *Descriptor) Logger() *zap.Logger { return zap.L() }
