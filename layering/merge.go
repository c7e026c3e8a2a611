// Package layering overlays settings snapshots so that values present in a
// stronger layer win and gaps are filled from weaker ones.
package layering

import "reflect"

// MergeLayers composes layers ordered from strongest to weakest. The result is
// a deep copy: no map, slice or pointer in it is shared with the inputs.
//
// Nil maps, slices, pointers and interfaces count as "unset" and fall through
// to weaker layers. Maps merge key by key; slices and scalars replace.
func MergeLayers[T any](layers ...T) T {
	var zero T
	if len(layers) == 0 {
		return zero
	}

	merged := deepCopy(reflect.ValueOf(layers[len(layers)-1]))
	for i := len(layers) - 2; i >= 0; i-- {
		merged = overlay(reflect.ValueOf(layers[i]), merged)
	}
	return toType[T](merged)
}

// Clone returns a deep copy of value.
func Clone[T any](value T) T {
	return toType[T](deepCopy(reflect.ValueOf(value)))
}

func toType[T any](v reflect.Value) T {
	var zero T
	if !v.IsValid() {
		return zero
	}
	target := reflect.TypeOf((*T)(nil)).Elem()
	if v.Type() == target {
		return v.Interface().(T)
	}
	out := reflect.New(target).Elem()
	out.Set(v.Convert(target))
	return out.Interface().(T)
}

// overlay returns strong laid over weak.
func overlay(strong, weak reflect.Value) reflect.Value {
	if unset(strong) {
		return deepCopy(weak)
	}

	switch strong.Kind() {
	case reflect.Pointer:
		var weakElem reflect.Value
		if weak.IsValid() && weak.Kind() == reflect.Pointer && !weak.IsNil() {
			weakElem = weak.Elem()
		}
		out := reflect.New(strong.Type().Elem())
		out.Elem().Set(overlay(strong.Elem(), weakElem))
		return out
	case reflect.Interface:
		var weakElem reflect.Value
		if weak.IsValid() && weak.Kind() == reflect.Interface && !weak.IsNil() {
			weakElem = weak.Elem()
		}
		return overlay(strong.Elem(), weakElem).Convert(strong.Type())
	case reflect.Struct:
		return overlayStruct(strong, weak)
	case reflect.Map:
		return overlayMap(strong, weak)
	default:
		return deepCopy(strong)
	}
}

func overlayStruct(strong, weak reflect.Value) reflect.Value {
	out := reflect.New(strong.Type()).Elem()
	sameType := weak.IsValid() && weak.Type() == strong.Type()
	for i := 0; i < strong.NumField(); i++ {
		field := out.Field(i)
		if !field.CanSet() {
			continue
		}
		var weakField reflect.Value
		if sameType {
			weakField = weak.Field(i)
		}
		field.Set(overlay(strong.Field(i), weakField))
	}
	return out
}

func overlayMap(strong, weak reflect.Value) reflect.Value {
	out := reflect.MakeMapWithSize(strong.Type(), strong.Len())
	if weak.IsValid() && weak.Kind() == reflect.Map && !weak.IsNil() && weak.Type().Key() == strong.Type().Key() {
		iter := weak.MapRange()
		for iter.Next() {
			value := deepCopy(iter.Value())
			if !value.Type().AssignableTo(strong.Type().Elem()) {
				continue
			}
			out.SetMapIndex(iter.Key(), value)
		}
	}
	iter := strong.MapRange()
	for iter.Next() {
		key := iter.Key()
		if existing := out.MapIndex(key); existing.IsValid() {
			out.SetMapIndex(key, overlay(iter.Value(), existing))
			continue
		}
		out.SetMapIndex(key, deepCopy(iter.Value()))
	}
	return out
}

func unset(v reflect.Value) bool {
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

func deepCopy(v reflect.Value) reflect.Value {
	if !v.IsValid() {
		return v
	}

	switch v.Kind() {
	case reflect.Pointer:
		if v.IsNil() {
			return reflect.Zero(v.Type())
		}
		out := reflect.New(v.Type().Elem())
		out.Elem().Set(deepCopy(v.Elem()))
		return out
	case reflect.Interface:
		if v.IsNil() {
			return reflect.Zero(v.Type())
		}
		return deepCopy(v.Elem()).Convert(v.Type())
	case reflect.Struct:
		out := reflect.New(v.Type()).Elem()
		for i := 0; i < v.NumField(); i++ {
			if field := out.Field(i); field.CanSet() {
				field.Set(deepCopy(v.Field(i)))
			}
		}
		return out
	case reflect.Map:
		if v.IsNil() {
			return reflect.Zero(v.Type())
		}
		out := reflect.MakeMapWithSize(v.Type(), v.Len())
		iter := v.MapRange()
		for iter.Next() {
			out.SetMapIndex(iter.Key(), deepCopy(iter.Value()))
		}
		return out
	case reflect.Slice:
		if v.IsNil() {
			return reflect.Zero(v.Type())
		}
		out := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
		for i := 0; i < v.Len(); i++ {
			out.Index(i).Set(deepCopy(v.Index(i)))
		}
		return out
	case reflect.Array:
		out := reflect.New(v.Type()).Elem()
		for i := 0; i < v.Len(); i++ {
			out.Index(i).Set(deepCopy(v.Index(i)))
		}
		return out
	default:
		// Copy scalars out of any addressable parent.
		out := reflect.New(v.Type()).Elem()
		out.Set(v)
		return out
	}
}
