package eval

// step is the result of one trampoline bounce: the next thunk to run, or a
// final value when next is nil.
type step struct {
	value Value
	next  thunk
}

// thunk is one deferred unit of evaluation. Thunks are produced by the
// evaluation rules and consumed immediately by the driver loop; they are
// never inspected, only invoked.
type thunk func() (step, error)

// cont receives a subexpression's value and decides what runs next.
type cont func(Value) (step, error)

// finalCont ends a thunk chain with the value it is given.
func finalCont(v Value) (step, error) {
	return step{value: v}, nil
}

// run drives a thunk chain to completion. This loop is the only place
// recursion-shaped control flow touches the native stack: every evaluation
// rule returns a thunk instead of recursing, so native depth stays bounded
// regardless of how deep the source-level recursion goes.
func (ev *Evaluator) run(t thunk) (Value, error) {
	s := step{next: t}
	var err error
	for s.next != nil {
		s, err = s.next()
		if err != nil {
			return nil, err
		}
	}
	return s.value, nil
}
