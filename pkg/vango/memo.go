package vango

type memoSlot[T any] struct {
	value    T
	deps     []any
	computed bool
}

// UseMemo returns compute's result, recomputing it during render only when
// deps change (same dependency rules as UseEffect). With an empty non-nil
// deps list compute runs exactly once, synchronously, during the first
// render of the component.
//
// This is a hook and MUST be called unconditionally during render.
func UseMemo[T any](compute func() T, deps []any) T {
	m := useSlot(HookMemo, func() *memoSlot[T] { return &memoSlot[T]{} })
	if !m.computed || DepsChanged(m.deps, deps) {
		m.value = compute()
		m.deps = deps
		m.computed = true
	}
	return m.value
}
