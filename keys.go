package docmap

// KeyType represents the declared value type of a document key.
// The type is advisory metadata used to coerce simple scalar inputs;
// opaque values (KeyTypeAny, maps, lists) are stored as-is.
type KeyType string

const (
	KeyTypeString       KeyType = "string"
	KeyTypeInteger      KeyType = "integer"
	KeyTypeFloat        KeyType = "float"
	KeyTypeBool         KeyType = "bool"
	KeyTypeTime         KeyType = "time"
	KeyTypeObjectID     KeyType = "object_id"
	KeyTypeMap          KeyType = "map"
	KeyTypeList         KeyType = "list"
	KeyTypeDocument     KeyType = "document"      // embedded single document
	KeyTypeDocumentList KeyType = "document_list" // embedded list of documents
	KeyTypeAny          KeyType = "any"
)

// Key describes a single declared key on a descriptor.
type Key struct {
	Name     string
	Type     KeyType
	Required bool

	// Default is a literal default value. Compound literals (maps, slices)
	// are deep-copied per instance so two documents never alias the same
	// backing storage.
	Default any

	// DefaultFunc, when set, takes precedence over Default and is invoked
	// fresh for every materialized document.
	DefaultFunc func() any

	// Embedded is the descriptor of the child document type for
	// KeyTypeDocument and KeyTypeDocumentList keys.
	Embedded *Descriptor
}

// KeyOptions carries the optional parts of a key declaration.
type KeyOptions struct {
	Default     any
	DefaultFunc func() any
	Required    bool
	Embedded    *Descriptor
}

// HasDefault reports whether the key declares any default value.
func (k Key) HasDefault() bool {
	return k.DefaultFunc != nil || k.Default != nil
}

// DefaultValue produces the default for a new document. Producer defaults
// are invoked; literal defaults are deep-copied. Embedded-document
// literals are cloned so two instances never alias the same child and
// re-rooting an instance's child never touches the declared literal.
func (k Key) DefaultValue() any {
	if k.DefaultFunc != nil {
		return k.DefaultFunc()
	}
	switch v := k.Default.(type) {
	case *Document:
		return v.Clone()
	case []*Document:
		out := make([]*Document, len(v))
		for i, child := range v {
			out[i] = child.Clone()
		}
		return out
	}
	return deepCopyValue(k.Default)
}

// IsEmbedded reports whether the key holds embedded documents.
func (k Key) IsEmbedded() bool {
	return k.Type == KeyTypeDocument || k.Type == KeyTypeDocumentList
}
