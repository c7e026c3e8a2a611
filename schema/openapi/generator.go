package openapi

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	scorecard "github.com/goliatone/go-scorecard"
)

type generator struct {
	config generatorConfig
}

// NewGenerator constructs an OpenAPI-compatible schema generator.
func NewGenerator(opts ...GeneratorOption) scorecard.SchemaGenerator {
	cfg := defaultGeneratorConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return generator{config: cfg}
}

// Option returns a scorecard.Option that makes Editor.Schema emit OpenAPI
// documents.
func Option(opts ...GeneratorOption) scorecard.Option {
	return scorecard.WithSchemaGenerator(NewGenerator(opts...))
}

// Generate accepts a scorecard.Form, whose fields become a nested object
// schema keyed by settings path, or any JSON-like value which is described by
// reflection.
func (g generator) Generate(value any) (scorecard.SchemaDocument, error) {
	var (
		schema map[string]any
		err    error
	)
	switch typed := value.(type) {
	case scorecard.Form:
		schema = schemaForForm(typed)
	case *scorecard.Form:
		if typed != nil {
			schema = schemaForForm(*typed)
		}
	default:
		schema, err = buildSchema(reflect.ValueOf(value))
	}
	if err != nil {
		return scorecard.SchemaDocument{}, err
	}
	if schema == nil {
		schema = map[string]any{"type": "object", "properties": map[string]any{}}
	}

	document, err := newDocumentBuilder(g.config, schema).build()
	if err != nil {
		return scorecard.SchemaDocument{}, err
	}
	return scorecard.SchemaDocument{
		Format:   scorecard.SchemaFormatOpenAPI,
		Document: document,
	}, nil
}

func schemaForForm(form scorecard.Form) map[string]any {
	root := objectSchema()
	for _, field := range form.AllFields() {
		if field.Path == "" {
			continue
		}
		parent := root
		segments := strings.Split(field.Path, scorecard.PathSeparator)
		for _, segment := range segments[:len(segments)-1] {
			properties := parent["properties"].(map[string]any)
			next, ok := properties[segment].(map[string]any)
			if !ok {
				next = objectSchema()
				properties[segment] = next
			}
			parent = next
		}
		properties := parent["properties"].(map[string]any)
		properties[segments[len(segments)-1]] = schemaForField(field)
	}
	return root
}

func objectSchema() map[string]any {
	return map[string]any{
		"type":       "object",
		"properties": map[string]any{},
	}
}

func schemaForField(field scorecard.Field) map[string]any {
	schema := map[string]any{
		"type":  "string",
		"title": field.Label,
	}
	if len(field.Choices) > 0 {
		schema["type"] = choiceType(field.Choices)
		values := make([]any, 0, len(field.Choices))
		labels := make([]string, 0, len(field.Choices))
		for _, choice := range field.Choices {
			values = append(values, choice.Value)
			labels = append(labels, choice.Label)
		}
		schema["enum"] = values
		schema["x-enum-labels"] = labels
	}
	if field.Value != nil {
		schema["default"] = field.Value
	}

	formgen := map[string]string{
		"id":     field.ID,
		"widget": string(field.Kind),
	}
	if field.Placeholder != "" {
		formgen["placeholder"] = field.Placeholder
	}
	schema["x-formgen"] = orderedStringMap(formgen)
	return schema
}

func choiceType(choices []scorecard.Choice) string {
	for _, choice := range choices {
		switch choice.Value.(type) {
		case int, int32, int64:
		default:
			return "string"
		}
	}
	return "integer"
}

func orderedStringMap(values map[string]string) map[string]any {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	out := make(map[string]any, len(values))
	for _, key := range keys {
		out[key] = values[key]
	}
	return out
}

func buildSchema(rv reflect.Value) (map[string]any, error) {
	if !rv.IsValid() {
		return nil, nil
	}

	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return map[string]any{"type": "null"}, nil
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Interface:
		if rv.IsNil() {
			return map[string]any{"type": "null"}, nil
		}
		return buildSchema(rv.Elem())
	case reflect.Bool:
		return map[string]any{"type": "boolean"}, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return map[string]any{"type": "integer"}, nil
	case reflect.Float32, reflect.Float64:
		return map[string]any{"type": "number"}, nil
	case reflect.String:
		return map[string]any{"type": "string"}, nil
	case reflect.Struct:
		if rv.Type() == reflect.TypeOf(time.Time{}) {
			return map[string]any{
				"type":   "string",
				"format": "date-time",
			}, nil
		}
		return schemaForStruct(rv)
	case reflect.Map:
		return schemaForMap(rv)
	case reflect.Slice, reflect.Array:
		return schemaForSlice(rv)
	default:
		return map[string]any{
			"type":   "string",
			"format": fmt.Sprintf("go:%s", rv.Type().String()),
		}, nil
	}
}

func schemaForMap(rv reflect.Value) (map[string]any, error) {
	if rv.Type().Key().Kind() != reflect.String {
		return nil, fmt.Errorf("openapi: map key type %s unsupported", rv.Type().Key())
	}

	properties := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		child, err := buildSchema(iter.Value())
		if err != nil {
			return nil, err
		}
		if child == nil {
			child = map[string]any{"type": "null"}
		}
		properties[iter.Key().String()] = child
	}
	return map[string]any{
		"type":       "object",
		"properties": properties,
	}, nil
}

func schemaForStruct(rv reflect.Value) (map[string]any, error) {
	rt := rv.Type()
	properties := map[string]any{}

	for i := 0; i < rv.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}

		name := field.Name
		if tag := field.Tag.Get("json"); tag != "" {
			tagName := strings.Split(tag, ",")[0]
			if tagName == "-" {
				continue
			}
			if tagName != "" {
				name = tagName
			}
		}

		child, err := buildSchema(rv.Field(i))
		if err != nil {
			return nil, err
		}
		if child == nil {
			child = map[string]any{"type": "null"}
		}
		properties[name] = child
	}

	return map[string]any{
		"type":       "object",
		"properties": properties,
	}, nil
}

func schemaForSlice(rv reflect.Value) (map[string]any, error) {
	if rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8 {
		return map[string]any{
			"type":   "string",
			"format": "byte",
		}, nil
	}

	itemSchema := map[string]any{}
	if rv.Len() > 0 {
		item, err := buildSchema(rv.Index(0))
		if err != nil {
			return nil, err
		}
		if item != nil {
			itemSchema = item
		}
	}
	return map[string]any{
		"type":  "array",
		"items": itemSchema,
	}, nil
}
