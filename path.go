package scorecard

import (
	"math"
	"reflect"
	"strconv"
	"strings"
)

// PathSeparator delimits segments in a dotted path such as "size.w".
const PathSeparator = "."

// Get resolves path against root and returns the value found there. When any
// segment along the way is absent the first def value is returned instead, or
// nil when no default was supplied.
func Get(root any, path string, def ...any) any {
	if value, ok := Lookup(root, path); ok {
		return value
	}
	if len(def) > 0 {
		return def[0]
	}
	return nil
}

// Lookup resolves path against root and reports whether every segment was
// present. Nil maps, pointers, interfaces and slices count as absent.
func Lookup(root any, path string) (any, bool) {
	current := reflect.ValueOf(root)
	for _, segment := range splitPath(path) {
		next, ok := child(current, segment)
		if !ok {
			return nil, false
		}
		current = next
	}
	if isAbsent(current) {
		return nil, false
	}
	return current.Interface(), true
}

// Set assigns value at path inside root. Intermediate containers are never
// created: when a segment before the last one is absent the call does nothing
// and returns false. Struct fields are only writable when reached through a
// pointer.
func Set(root any, path string, value any) bool {
	segments := splitPath(path)
	parent := reflect.ValueOf(root)
	for _, segment := range segments[:len(segments)-1] {
		next, ok := child(parent, segment)
		if !ok {
			return false
		}
		parent = next
	}
	return assign(parent, segments[len(segments)-1], value)
}

func splitPath(path string) []string {
	return strings.Split(path, PathSeparator)
}

func joinPath(prefix, segment string) string {
	if prefix == "" {
		return segment
	}
	return strings.Join([]string{prefix, segment}, PathSeparator)
}

func indirect(v reflect.Value) (reflect.Value, bool) {
	for v.IsValid() && (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			return reflect.Value{}, false
		}
		v = v.Elem()
	}
	return v, v.IsValid()
}

func isAbsent(v reflect.Value) bool {
	if !v.IsValid() {
		return true
	}
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice:
		return v.IsNil()
	default:
		return false
	}
}

func child(v reflect.Value, key string) (reflect.Value, bool) {
	container, ok := indirect(v)
	if !ok {
		return reflect.Value{}, false
	}

	var next reflect.Value
	switch container.Kind() {
	case reflect.Map:
		mapKey, ok := mapKeyFor(container.Type(), key)
		if !ok || container.IsNil() {
			return reflect.Value{}, false
		}
		next = container.MapIndex(mapKey)
	case reflect.Struct:
		next = structField(container, key)
	default:
		return reflect.Value{}, false
	}

	if isAbsent(next) {
		return reflect.Value{}, false
	}
	return next, true
}

func assign(v reflect.Value, key string, value any) bool {
	container, ok := indirect(v)
	if !ok {
		return false
	}

	switch container.Kind() {
	case reflect.Map:
		if container.IsNil() {
			return false
		}
		mapKey, ok := mapKeyFor(container.Type(), key)
		if !ok {
			return false
		}
		converted, ok := convertValue(value, container.Type().Elem())
		if !ok {
			return false
		}
		container.SetMapIndex(mapKey, converted)
		return true
	case reflect.Struct:
		field := structField(container, key)
		if !field.IsValid() || !field.CanSet() {
			return false
		}
		converted, ok := convertValue(value, field.Type())
		if !ok {
			return false
		}
		field.Set(converted)
		return true
	default:
		return false
	}
}

func mapKeyFor(mapType reflect.Type, key string) (reflect.Value, bool) {
	keyType := mapType.Key()
	if keyType.Kind() != reflect.String {
		return reflect.Value{}, false
	}
	return reflect.ValueOf(key).Convert(keyType), true
}

// structField matches key against the json tag first and the Go field name
// second, ignoring case for the latter.
func structField(v reflect.Value, key string) reflect.Value {
	rt := v.Type()
	fallback := -1
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}
		if tag := field.Tag.Get("json"); tag != "" {
			name := strings.Split(tag, ",")[0]
			if name == "-" {
				continue
			}
			if name == key {
				return v.Field(i)
			}
		}
		if fallback < 0 && strings.EqualFold(field.Name, key) {
			fallback = i
		}
	}
	if fallback >= 0 {
		return v.Field(fallback)
	}
	return reflect.Value{}
}

func convertValue(value any, target reflect.Type) (reflect.Value, bool) {
	if value == nil {
		return reflect.Zero(target), true
	}
	rv := reflect.ValueOf(value)
	if rv.Type().AssignableTo(target) {
		return rv, true
	}
	switch {
	case isNumberKind(rv.Kind()) && isNumberKind(target.Kind()):
		if isFloatKind(rv.Kind()) && !isFloatKind(target.Kind()) {
			f := rv.Float()
			if f != math.Trunc(f) || math.IsInf(f, 0) {
				return reflect.Value{}, false
			}
		}
		return rv.Convert(target), true
	case rv.Kind() == reflect.String && target.Kind() == reflect.String:
		return rv.Convert(target), true
	case rv.Kind() == reflect.String && isNumberKind(target.Kind()):
		return parseNumber(rv.String(), target)
	case target.Kind() == reflect.String:
		return reflect.ValueOf(stringify(value)).Convert(target), true
	}
	return reflect.Value{}, false
}

func isNumberKind(kind reflect.Kind) bool {
	switch kind {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

func isFloatKind(kind reflect.Kind) bool {
	return kind == reflect.Float32 || kind == reflect.Float64
}

func parseNumber(raw string, target reflect.Type) (reflect.Value, bool) {
	raw = strings.TrimSpace(raw)
	out := reflect.New(target).Elem()
	switch target.Kind() {
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return reflect.Value{}, false
		}
		out.SetFloat(f)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return reflect.Value{}, false
		}
		out.SetUint(u)
	default:
		i, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return reflect.Value{}, false
		}
		out.SetInt(i)
	}
	return out, true
}
