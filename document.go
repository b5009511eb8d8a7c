package docmap

import (
	"fmt"
	"reflect"

	"go.uber.org/zap"
)

// idAttribute is the reserved attribute name carrying a document's
// identity in raw attribute maps.
const idAttribute = "_id"

// Document is a materialized instance of a descriptor: attribute
// storage, identity, and the back-reference from embedded documents to
// their owning top-level document. A document is owned by a single
// goroutine and requires no synchronization.
type Document struct {
	descriptor *Descriptor
	attributes map[string]any
	id         any
	persisted  bool
	root       *Document
}

// NewDocument materializes a document for a descriptor from raw
// attributes. Declared keys absent from the input receive their default
// (producers invoked fresh, literal compounds deep-copied); present
// scalar values are coerced by their declared type; embedded keys are
// built into child documents whose root back-reference points at the
// top-level document under construction. Undeclared attributes are kept
// verbatim.
func NewDocument(d *Descriptor, attrs map[string]any) (*Document, error) {
	return materialize(d, attrs, nil)
}

func materialize(d *Descriptor, attrs map[string]any, root *Document) (*Document, error) {
	if d == nil {
		return nil, NewInternalError("descriptor cannot be nil", nil)
	}

	doc := &Document{
		descriptor: d,
		attributes: make(map[string]any, len(attrs)),
		root:       root,
	}
	top := root
	if top == nil {
		top = doc
	}

	declared := make(map[string]struct{})
	for _, key := range d.Keys() {
		declared[key.Name] = struct{}{}

		raw, present := attrs[key.Name]
		if !present {
			if !key.HasDefault() {
				continue
			}
			// Defaults are used verbatim; only input attributes are
			// coerced. Embedded defaults still become child documents.
			def := key.DefaultValue()
			if key.IsEmbedded() {
				value, err := buildAttribute(key, def, top)
				if err != nil {
					return nil, err
				}
				doc.attributes[key.Name] = value
			} else {
				doc.attributes[key.Name] = def
			}
			continue
		}

		value, err := buildAttribute(key, raw, top)
		if err != nil {
			return nil, err
		}
		doc.attributes[key.Name] = value
	}

	for name, value := range attrs {
		if name == idAttribute {
			doc.id = value
			continue
		}
		if _, ok := declared[name]; ok {
			continue
		}
		doc.attributes[name] = value
	}

	return doc, nil
}

// buildAttribute prepares a single attribute value: embedded keys become
// child documents bound to the top-level root, scalar keys are coerced
// by declared type.
func buildAttribute(key Key, raw any, top *Document) (any, error) {
	if raw == nil {
		return nil, nil
	}

	switch key.Type {
	case KeyTypeDocument:
		return buildEmbedded(key, raw, top)
	case KeyTypeDocumentList:
		var items []any
		switch list := raw.(type) {
		case []any:
			items = list
		case []*Document:
			items = make([]any, len(list))
			for i, child := range list {
				items[i] = child
			}
		case []map[string]any:
			items = make([]any, len(list))
			for i, m := range list {
				items[i] = m
			}
		default:
			return nil, NewConversionError(key.Name,
				fmt.Sprintf("expected list for embedded key, got %T", raw), nil)
		}
		children := make([]*Document, 0, len(items))
		for _, item := range items {
			child, err := buildEmbedded(key, item, top)
			if err != nil {
				return nil, err
			}
			children = append(children, child)
		}
		return children, nil
	default:
		value, err := coerceValue(raw, key.Type)
		if err != nil {
			return nil, NewConversionError(key.Name, "cannot coerce value", err)
		}
		return value, nil
	}
}

func buildEmbedded(key Key, raw any, top *Document) (*Document, error) {
	if key.Embedded == nil {
		return nil, NewValidationError(key.Name, "embedded key declared without a descriptor")
	}

	switch v := raw.(type) {
	case *Document:
		v.root = top
		return v, nil
	case map[string]any:
		return materialize(key.Embedded, v, top)
	default:
		return nil, NewConversionError(key.Name,
			fmt.Sprintf("expected map or document for embedded key, got %T", raw), nil)
	}
}

// Descriptor returns the descriptor the document was materialized from.
func (doc *Document) Descriptor() *Descriptor { return doc.descriptor }

// ID returns the document's identity, or nil when unset.
func (doc *Document) ID() any { return doc.id }

// SetID assigns the document's identity.
func (doc *Document) SetID(id any) { doc.id = id }

// IsNew reports whether the document has never been persisted: true when
// the identity is unset, and also when a custom identity was assigned
// but the collaborator has not yet confirmed a save.
func (doc *Document) IsNew() bool {
	return doc.id == nil || !doc.persisted
}

// Persisted reports the persistence flag as last accepted from the
// collaborator.
func (doc *Document) Persisted() bool { return doc.persisted }

// MarkPersisted records the persistence state reported by the
// collaborator. The mapping layer tracks the flag; its lifecycle belongs
// to the collaborator.
func (doc *Document) MarkPersisted(persisted bool) { doc.persisted = persisted }

// Equal reports identity-based equality: same declared class and equal
// non-nil identities. Documents without identities are never equal.
func (doc *Document) Equal(other *Document) bool {
	if doc == nil || other == nil {
		return false
	}
	if doc.descriptor != other.descriptor {
		return false
	}
	if doc.id == nil || other.id == nil {
		return false
	}
	return reflect.DeepEqual(doc.id, other.id)
}

// Get returns a declared or kept attribute value.
func (doc *Document) Get(name string) (any, bool) {
	v, ok := doc.attributes[name]
	return v, ok
}

// Set assigns an attribute, coercing scalar values when the name is a
// declared key. Embedded children assigned through Set are re-rooted to
// this document's top-level ancestor.
func (doc *Document) Set(name string, value any) error {
	key, declared := doc.descriptor.Key(name)
	if !declared {
		doc.attributes[name] = value
		return nil
	}

	top := doc.root
	if top == nil {
		top = doc
	}
	built, err := buildAttribute(key, value, top)
	if err != nil {
		return err
	}
	doc.attributes[name] = built
	return nil
}

// Root returns the top-level document owning this embedded document, or
// nil when the document is itself top-level. The reference is
// non-owning; the parent owns the child.
func (doc *Document) Root() *Document { return doc.root }

// Clone produces a new document with the same descriptor and a deep copy
// of the attributes. Identity and the persisted flag are cleared, so a
// clone is always new. Embedded children are cloned and re-rooted to the
// new top-level document.
func (doc *Document) Clone() *Document {
	clone := &Document{
		descriptor: doc.descriptor,
		attributes: make(map[string]any, len(doc.attributes)),
	}
	for name, value := range doc.attributes {
		clone.attributes[name] = cloneAttribute(value, clone)
	}
	return clone
}

func cloneAttribute(value any, top *Document) any {
	switch v := value.(type) {
	case *Document:
		child := v.cloneEmbedded(top)
		return child
	case []*Document:
		out := make([]*Document, len(v))
		for i, item := range v {
			out[i] = item.cloneEmbedded(top)
		}
		return out
	default:
		return deepCopyValue(value)
	}
}

func (doc *Document) cloneEmbedded(top *Document) *Document {
	clone := &Document{
		descriptor: doc.descriptor,
		attributes: make(map[string]any, len(doc.attributes)),
		root:       top,
	}
	for name, value := range doc.attributes {
		clone.attributes[name] = cloneAttribute(value, top)
	}
	return clone
}

// ToMap renders the document as a plain attribute map for the
// collaborator: embedded documents become nested maps, embedded lists
// become slices of maps, and any identity the document carries is
// rendered back out under "_id" so a render/materialize round trip is
// lossless. The result shares no storage with the document.
func (doc *Document) ToMap() map[string]any {
	out := make(map[string]any, len(doc.attributes)+1)
	if doc.id != nil {
		out[idAttribute] = doc.id
	}
	for name, value := range doc.attributes {
		switch v := value.(type) {
		case *Document:
			out[name] = v.ToMap()
		case []*Document:
			items := make([]any, len(v))
			for i, item := range v {
				items[i] = item.ToMap()
			}
			out[name] = items
		default:
			out[name] = deepCopyValue(value)
		}
	}
	return out
}

// Logger returns the process-wide configured logger, identically at
// descriptor and document level.
func (doc *Document) Logger() *zap.Logger { return zap.L() }
