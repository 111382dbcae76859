package vango

import "testing"

type point struct{ X, Y int }

type bag struct{ Items []int }

func selectA(s point) int { return s.X }

func TestSame(t *testing.T) {
	slice := []int{1, 2}
	m := map[string]int{"a": 1}
	p := &point{1, 2}
	makeClosure := func(n int) func() int { return func() int { return n } }
	f1 := makeClosure(1)
	f2 := makeClosure(1)

	tests := []struct {
		name string
		a, b any
		want bool
	}{
		{"nil nil", nil, nil, true},
		{"nil vs value", nil, 1, false},
		{"ints equal", 1, 1, true},
		{"ints differ", 1, 2, false},
		{"different types", 1, int64(1), false},
		{"comparable structs", point{1, 2}, point{1, 2}, true},
		{"same slice", slice, slice, true},
		{"equal contents different slices", []int{1, 2}, []int{1, 2}, false},
		{"resliced", slice, slice[:1], false},
		{"same map", m, m, true},
		{"different maps", m, map[string]int{"a": 1}, false},
		{"same pointer", p, p, true},
		{"different pointers", p, &point{1, 2}, false},
		{"non-comparable struct", bag{}, bag{}, false},
		{"same func value", f1, f1, true},
		{"distinct closures", f1, f2, false},
		{"top-level func", selectA, selectA, true},
		{"interface holding slice", any([]any{slice}), any([]any{slice}), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Same(tt.a, tt.b); got != tt.want {
				t.Errorf("Same(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestFuncIdentity(t *testing.T) {
	if FuncIdentity(nil) != 0 || FuncIdentity(42) != 0 {
		t.Error("non-func values should have zero identity")
	}
	if FuncIdentity(selectA) == 0 {
		t.Error("func identity should be non-zero")
	}
}

func TestDepsChanged(t *testing.T) {
	tests := []struct {
		name       string
		prev, next []any
		want       bool
	}{
		{"nil next always changes", []any{1}, nil, true},
		{"first run", nil, []any{}, true},
		{"empty stays", []any{}, []any{}, false},
		{"same values", []any{1, "a"}, []any{1, "a"}, false},
		{"value changed", []any{1}, []any{2}, true},
		{"length changed", []any{1}, []any{1, 2}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DepsChanged(tt.prev, tt.next); got != tt.want {
				t.Errorf("DepsChanged() = %v, want %v", got, tt.want)
			}
		})
	}
}
