package reflex

import "github.com/vango-dev/reflex/pkg/vango"

// UseSelectorCreator builds a selector with creator(arg), memoized by arg,
// and passes it to UseSelector. Changing arg swaps the selector, which
// re-evaluates the selection during the same render.
//
//	func selectTodo(id int) func(State) Todo {
//	    return func(s State) Todo { return s.Todos[id] }
//	}
//
//	todo := reflex.UseSelectorCreator(selectTodo, props.ID)
//
// This is a hook and MUST be called unconditionally during render.
func UseSelectorCreator[S, T any, A comparable](creator func(A) func(S) T, arg A, equalityFn ...func(a, b T) bool) T {
	selector := vango.UseMemo(func() func(S) T {
		return creator(arg)
	}, []any{arg})
	return UseSelector(selector, equalityFn...)
}
