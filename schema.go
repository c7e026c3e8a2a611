package scorecard

import (
	"fmt"
	"sort"
)

// SchemaFormat identifies the representation a schema document encodes.
type SchemaFormat string

const (
	// SchemaFormatDescriptors represents the flattened field descriptors.
	SchemaFormatDescriptors SchemaFormat = "descriptors"
	// SchemaFormatOpenAPI represents OpenAPI-compatible JSON Schema documents.
	SchemaFormatOpenAPI SchemaFormat = "openapi"
)

// SchemaDocument is a generated schema alongside its format identifier.
// Document must be JSON-serialisable.
type SchemaDocument struct {
	Format   SchemaFormat `json:"format"`
	Document any          `json:"document"`
}

// SchemaGenerator transforms a Form (or any settings value) into a schema
// document. Implementations must be safe for concurrent use and handle nil
// inputs by returning an empty document.
type SchemaGenerator interface {
	Generate(value any) (SchemaDocument, error)
}

// FieldDescriptor describes one editable path and its type.
type FieldDescriptor struct {
	Path    string   `json:"path"`
	Type    string   `json:"type"`
	ID      string   `json:"id,omitempty"`
	Label   string   `json:"label,omitempty"`
	Choices []Choice `json:"choices,omitempty"`
}

// DefaultSchemaGenerator returns the built-in descriptor-based schema generator.
func DefaultSchemaGenerator() SchemaGenerator {
	return descriptorGenerator{}
}

type descriptorGenerator struct{}

func (descriptorGenerator) Generate(value any) (SchemaDocument, error) {
	var descriptors []FieldDescriptor
	switch typed := value.(type) {
	case Form:
		descriptors = formDescriptors(typed)
	case *Form:
		if typed != nil {
			descriptors = formDescriptors(*typed)
		}
	default:
		descriptors = deriveFieldDescriptors(asStringMap(value), "")
	}
	if descriptors == nil {
		descriptors = []FieldDescriptor{}
	}
	return SchemaDocument{
		Format:   SchemaFormatDescriptors,
		Document: descriptors,
	}, nil
}

func formDescriptors(form Form) []FieldDescriptor {
	fields := form.AllFields()
	out := make([]FieldDescriptor, 0, len(fields))
	for _, field := range fields {
		if field.Path == "" {
			continue
		}
		out = append(out, FieldDescriptor{
			Path:    field.Path,
			Type:    string(field.Kind),
			ID:      field.ID,
			Label:   field.Label,
			Choices: field.Choices,
		})
	}
	return out
}

func deriveFieldDescriptors(value any, prefix string) []FieldDescriptor {
	if value == nil {
		return nil
	}

	switch typed := value.(type) {
	case map[string]any:
		if len(typed) == 0 {
			if prefix == "" {
				return nil
			}
			return []FieldDescriptor{{
				Path: prefix,
				Type: "map[string]any",
			}}
		}
		keys := make([]string, 0, len(typed))
		for key := range typed {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		var fields []FieldDescriptor
		for _, key := range keys {
			fields = append(fields, deriveFieldDescriptors(typed[key], joinPath(prefix, key))...)
		}
		return fields
	case []any:
		elementType := "any"
		if len(typed) > 0 {
			elementType = typeName(typed[0])
		}
		return []FieldDescriptor{{
			Path: prefix,
			Type: "[]" + elementType,
		}}
	default:
		if prefix == "" {
			return nil
		}
		return []FieldDescriptor{{
			Path: prefix,
			Type: typeName(typed),
		}}
	}
}

func typeName(value any) string {
	if value == nil {
		return "nil"
	}
	return fmt.Sprintf("%T", value)
}
