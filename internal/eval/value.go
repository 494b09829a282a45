package eval

import (
	"nickandperla.net/impel/internal/ast"
)

// Value is any runtime value: float64 numbers, bools, *Function closures,
// Void, or nil.
type Value = any

// Void is the absent result: an if with no else branch taken, or an empty
// block.
type Void struct{}

func (Void) String() string { return "" }

// Truthy reports whether a value selects the then-branch of an if.
func Truthy(v Value) bool {
	switch x := v.(type) {
	case nil:
		return false
	case Void:
		return false
	case bool:
		return x
	case float64:
		return x != 0
	}
	return true
}

// Function pairs a function definition with the environment active at its
// definition site. Immutable after creation; pointer identity is what the
// tail-call protocol compares.
type Function struct {
	def     *ast.FunctionDef
	closure *Environment
}

// Name returns the function's declared name.
func (f *Function) Name() string { return f.def.Name }

func (f *Function) String() string { return f.def.String() }

// tailCall asks the activation of fn to rebind its parameters to args and
// re-run its body instead of growing the native stack. Created only when a
// call in tail position targets the currently executing function; consumed
// by that activation's call loop.
type tailCall struct {
	fn   *Function
	args []Value
}

// call runs one activation of f. Exactly one environment is created for
// the whole activation, tail iterations included: a self-targeted tailCall
// overwrites the parameter bindings in place and re-runs the body, so an
// unbounded chain of self-tail-calls needs O(1) native stack and O(1)
// environment allocations. A signal for a different function is propagated
// outward unchanged.
func (f *Function) call(ev *Evaluator, args []Value) (Value, error) {
	env := NewEnvironment(f.closure)
	bindParams(env, f.def.Params, args)
	fr := &frame{fn: f}
	for {
		v, err := ev.run(ev.eval(finalCont, f.def.Body, env, fr, true))
		if err != nil {
			return nil, err
		}
		tc, ok := v.(*tailCall)
		if !ok {
			return v, nil
		}
		if tc.fn != f {
			// Not this activation's signal.
			return tc, nil
		}
		bindParams(env, f.def.Params, tc.args)
	}
}

// bindParams binds arguments positionally. Surplus arguments are dropped
// and unmatched parameters stay unbound, surfacing as ErrUnboundVariable
// only if the body reads them.
func bindParams(env *Environment, params []string, args []Value) {
	for i, p := range params {
		if i < len(args) {
			env.Define(p, args[i])
		}
	}
}

// frame identifies the function a body is being evaluated for, so a tail
// call can recognize direct self-recursion. Nil at top level.
type frame struct {
	fn *Function
}
