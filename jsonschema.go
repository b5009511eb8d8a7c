package docmap

import (
	"github.com/google/jsonschema-go/jsonschema"
)

// SchemaFor builds a JSON schema from a descriptor's declared keys,
// including inherited declarations and embedded sub-schemas. Undeclared
// attributes remain allowed; document stores keep them verbatim.
func SchemaFor(d *Descriptor) *jsonschema.Schema {
	properties := make(map[string]*jsonschema.Schema)
	var required []string

	for _, key := range d.Keys() {
		properties[key.Name] = schemaForKey(key)
		if key.Required {
			required = append(required, key.Name)
		}
	}

	return &jsonschema.Schema{
		Type:       "object",
		Properties: properties,
		Required:   required,
	}
}

func schemaForKey(key Key) *jsonschema.Schema {
	switch key.Type {
	case KeyTypeString:
		return &jsonschema.Schema{Type: "string"}
	case KeyTypeInteger:
		return &jsonschema.Schema{Type: "integer"}
	case KeyTypeFloat:
		return &jsonschema.Schema{Type: "number"}
	case KeyTypeBool:
		return &jsonschema.Schema{Type: "boolean"}
	case KeyTypeTime:
		return &jsonschema.Schema{Type: "string", Format: "date-time"}
	case KeyTypeObjectID:
		return &jsonschema.Schema{Type: "string", Format: "uuid"}
	case KeyTypeMap:
		return &jsonschema.Schema{Type: "object"}
	case KeyTypeList:
		return &jsonschema.Schema{Type: "array"}
	case KeyTypeDocument:
		if key.Embedded != nil {
			return SchemaFor(key.Embedded)
		}
		return &jsonschema.Schema{Type: "object"}
	case KeyTypeDocumentList:
		items := &jsonschema.Schema{Type: "object"}
		if key.Embedded != nil {
			items = SchemaFor(key.Embedded)
		}
		return &jsonschema.Schema{Type: "array", Items: items}
	default:
		// KeyTypeAny and future types: no constraint.
		return &jsonschema.Schema{}
	}
}

// ValidateAttributes validates a raw attribute map against the schema
// generated from a descriptor's declarations.
func ValidateAttributes(d *Descriptor, attrs map[string]any) error {
	schema := SchemaFor(d)

	resolved, err := schema.Resolve(&jsonschema.ResolveOptions{})
	if err != nil {
		return NewInternalError("failed to resolve generated schema", err)
	}

	if err := resolved.Validate(attrs); err != nil {
		return NewValidationError("", err.Error()).WithCause(err)
	}
	return nil
}
