package reflex

import (
	"reflect"

	"github.com/vango-dev/reflex/pkg/vango"
)

// Identical is the default selection equality. Comparable values compare
// with ==; slices, maps, funcs, channels and pointers compare by identity;
// values that cannot be compared (structs holding slices or maps) are never
// identical.
func Identical[T any](a, b T) bool {
	return vango.Same(a, b)
}

// ShallowEqual compares one level deep: struct fields, slice and array
// elements and map entries are compared with Identical. Pointers to structs
// compare the pointed-to fields.
func ShallowEqual[T any](a, b T) bool {
	if Identical(a, b) {
		return true
	}
	return shallowValue(reflect.ValueOf(&a).Elem(), reflect.ValueOf(&b).Elem())
}

// DeepEqual compares with reflect.DeepEqual.
func DeepEqual[T any](a, b T) bool {
	return reflect.DeepEqual(a, b)
}

func shallowValue(a, b reflect.Value) bool {
	if a.Kind() == reflect.Interface {
		if a.IsNil() || b.IsNil() {
			return a.IsNil() && b.IsNil()
		}
		a, b = a.Elem(), b.Elem()
		if a.Type() != b.Type() {
			return false
		}
	}

	switch a.Kind() {
	case reflect.Pointer:
		if a.IsNil() || b.IsNil() {
			return a.IsNil() && b.IsNil()
		}
		if a.Pointer() == b.Pointer() {
			return true
		}
		if a.Elem().Kind() != reflect.Struct {
			return false
		}
		return shallowValue(a.Elem(), b.Elem())
	case reflect.Struct:
		for i := 0; i < a.NumField(); i++ {
			if !identicalValue(a.Field(i), b.Field(i)) {
				return false
			}
		}
		return true
	case reflect.Slice, reflect.Array:
		if a.Kind() == reflect.Slice && a.IsNil() != b.IsNil() {
			return false
		}
		if a.Len() != b.Len() {
			return false
		}
		for i := 0; i < a.Len(); i++ {
			if !identicalValue(a.Index(i), b.Index(i)) {
				return false
			}
		}
		return true
	case reflect.Map:
		if a.IsNil() != b.IsNil() || a.Len() != b.Len() {
			return false
		}
		iter := a.MapRange()
		for iter.Next() {
			other := b.MapIndex(iter.Key())
			if !other.IsValid() || !identicalValue(iter.Value(), other) {
				return false
			}
		}
		return true
	default:
		return identicalValue(a, b)
	}
}

// identicalValue is Identical for reflected values, including unexported
// struct fields that cannot be converted back to interfaces.
func identicalValue(a, b reflect.Value) bool {
	if a.CanInterface() && b.CanInterface() {
		return vango.Same(a.Interface(), b.Interface())
	}

	switch a.Kind() {
	case reflect.Func, reflect.Map, reflect.Chan, reflect.Pointer, reflect.UnsafePointer:
		return a.Pointer() == b.Pointer()
	case reflect.Slice:
		return a.Len() == b.Len() && a.Pointer() == b.Pointer()
	case reflect.Interface:
		if a.IsNil() || b.IsNil() {
			return a.IsNil() && b.IsNil()
		}
		if a.Elem().Type() != b.Elem().Type() {
			return false
		}
		return identicalValue(a.Elem(), b.Elem())
	default:
		return a.Comparable() && b.Comparable() && a.Equal(b)
	}
}
