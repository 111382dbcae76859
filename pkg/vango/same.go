package vango

import (
	"reflect"
	"unsafe"
)

// Same reports whether a and b are the same value in the identity sense
// used for hook dependencies:
//
//   - comparable values compare with ==
//   - slices are the same when they share backing array and length
//   - maps, channels and pointers compare by address
//   - funcs compare by closure identity (two closures allocated by separate
//     evaluations of a capturing func literal are different)
//   - non-comparable structs and arrays are never the same
func Same(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() {
		return false
	}

	switch va.Kind() {
	case reflect.Func:
		return FuncIdentity(a) == FuncIdentity(b)
	case reflect.Slice:
		if va.IsNil() || vb.IsNil() {
			return va.IsNil() && vb.IsNil()
		}
		return va.Len() == vb.Len() && va.Pointer() == vb.Pointer()
	case reflect.Map, reflect.Chan, reflect.Pointer, reflect.UnsafePointer:
		return va.Pointer() == vb.Pointer()
	}

	if !va.Type().Comparable() {
		return false
	}
	eq, ok := safeEqual(a, b)
	return ok && eq
}

// FuncIdentity returns the address of the closure object behind a func
// value, or 0 for nil or non-func values. Func values are pointer-shaped, so
// the interface data word is the closure pointer itself.
func FuncIdentity(fn any) uintptr {
	if fn == nil || reflect.TypeOf(fn).Kind() != reflect.Func {
		return 0
	}
	type eface struct {
		typ  unsafe.Pointer
		data unsafe.Pointer
	}
	return uintptr((*eface)(unsafe.Pointer(&fn)).data)
}

// safeEqual compares with == and reports ok=false when the comparison
// panics (interface fields holding non-comparable dynamic values).
func safeEqual(a, b any) (eq, ok bool) {
	defer func() {
		if recover() != nil {
			eq, ok = false, false
		}
	}()
	return a == b, true
}

// DepsChanged reports whether a dependency list differs from the previous
// one. A nil list means "no dependency list" and always counts as changed;
// an empty non-nil list never changes after the first run.
func DepsChanged(prev, next []any) bool {
	if next == nil || prev == nil {
		return true
	}
	if len(prev) != len(next) {
		return true
	}
	for i := range next {
		if !Same(prev[i], next[i]) {
			return true
		}
	}
	return false
}
