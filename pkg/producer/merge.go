package producer

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
)

// merge returns a copy of state with fields overlaid. Only the named fields
// are decoded; the rest are copied by value, so slices, maps and pointers
// keep their identity and fields hidden from JSON survive.
func merge[S any](state S, fields map[string]json.RawMessage) (S, error) {
	next := state
	v := reflect.ValueOf(&next).Elem()

	switch {
	case v.Kind() == reflect.Struct:
		if err := overlayStruct(v, fields); err != nil {
			return state, err
		}
	case v.Kind() == reflect.Pointer && v.Type().Elem().Kind() == reflect.Struct:
		// Patch a copy of the pointee; the old state value is left alone.
		cp := reflect.New(v.Type().Elem())
		if !v.IsNil() {
			cp.Elem().Set(v.Elem())
		}
		if err := overlayStruct(cp.Elem(), fields); err != nil {
			return state, err
		}
		v.Set(cp)
	case v.Kind() == reflect.Map && v.Type().Key().Kind() == reflect.String:
		if err := overlayMap(v, fields); err != nil {
			return state, err
		}
	default:
		return state, fmt.Errorf("producer: state %s is not an object", v.Type())
	}
	return next, nil
}

func overlayStruct(v reflect.Value, fields map[string]json.RawMessage) error {
	index := jsonFields(v.Type())
	for key, raw := range fields {
		path, ok := index.lookup(key)
		if !ok {
			continue
		}
		field, err := settableField(v, path)
		if err != nil {
			return fmt.Errorf("producer: patch field %q: %w", key, err)
		}
		decoded := reflect.New(field.Type())
		if err := json.Unmarshal(raw, decoded.Interface()); err != nil {
			return fmt.Errorf("producer: patch field %q: %w", key, err)
		}
		field.Set(decoded.Elem())
	}
	return nil
}

func overlayMap(v reflect.Value, fields map[string]json.RawMessage) error {
	cp := reflect.MakeMapWithSize(v.Type(), v.Len()+len(fields))
	iter := v.MapRange()
	for iter.Next() {
		cp.SetMapIndex(iter.Key(), iter.Value())
	}
	for key, raw := range fields {
		decoded := reflect.New(v.Type().Elem())
		if err := json.Unmarshal(raw, decoded.Interface()); err != nil {
			return fmt.Errorf("producer: patch key %q: %w", key, err)
		}
		cp.SetMapIndex(reflect.ValueOf(key).Convert(v.Type().Key()), decoded.Elem())
	}
	v.Set(cp)
	return nil
}

// fieldIndex maps JSON names to struct field index paths.
type fieldIndex struct {
	names []string
	paths [][]int
}

// lookup matches like encoding/json: exact name first, then
// case-insensitive.
func (fi fieldIndex) lookup(key string) ([]int, bool) {
	for i, name := range fi.names {
		if name == key {
			return fi.paths[i], true
		}
	}
	for i, name := range fi.names {
		if strings.EqualFold(name, key) {
			return fi.paths[i], true
		}
	}
	return nil, false
}

// jsonFields lists the exported fields encoding/json would decode into,
// promoted fields of untagged embedded structs included.
func jsonFields(t reflect.Type) fieldIndex {
	var fi fieldIndex
	seen := make(map[string]int)
	for _, f := range reflect.VisibleFields(t) {
		if !f.IsExported() {
			continue
		}
		tag := f.Tag.Get("json")
		if tag == "-" {
			continue
		}
		name, _, _ := strings.Cut(tag, ",")
		if f.Anonymous && name == "" {
			ft := f.Type
			if ft.Kind() == reflect.Pointer {
				ft = ft.Elem()
			}
			if ft.Kind() == reflect.Struct {
				continue
			}
		}
		if name == "" {
			name = f.Name
		}
		// Shallower fields win, as with Go's own promotion rules.
		if i, dup := seen[name]; dup {
			if len(fi.paths[i]) <= len(f.Index) {
				continue
			}
			fi.paths[i] = f.Index
			continue
		}
		seen[name] = len(fi.names)
		fi.names = append(fi.names, name)
		fi.paths = append(fi.paths, f.Index)
	}
	return fi
}

// settableField walks path from v. Embedded struct pointers on the way are
// replaced by copies so the patch never writes through shared state.
func settableField(v reflect.Value, path []int) (reflect.Value, error) {
	for i, idx := range path {
		if i > 0 && v.Kind() == reflect.Pointer {
			cp := reflect.New(v.Type().Elem())
			if !v.IsNil() {
				cp.Elem().Set(v.Elem())
			}
			if !v.CanSet() {
				return reflect.Value{}, fmt.Errorf("unexported embedded pointer %s", v.Type())
			}
			v.Set(cp)
			v = cp.Elem()
		}
		v = v.Field(idx)
	}
	if !v.CanSet() {
		return reflect.Value{}, fmt.Errorf("field of type %s is not settable", v.Type())
	}
	return v, nil
}
