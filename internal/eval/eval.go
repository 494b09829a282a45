// Package eval implements the impel evaluator: a continuation-passing
// interpreter over the ast package, driven by an explicit trampoline, with
// frame reuse for directly self-recursive tail calls.
package eval

import (
	"fmt"

	"nickandperla.net/impel/internal/ast"
)

// Evaluator interprets impel syntax trees against a global environment.
// One logical evaluation is in flight at a time; the evaluator is not safe
// for concurrent use.
type Evaluator struct {
	globals *Environment
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithGlobal pre-binds a name in the global environment.
func WithGlobal(name string, v Value) Option {
	return func(ev *Evaluator) { ev.globals.Define(name, v) }
}

// New creates a new Evaluator with the given options.
func New(opts ...Option) *Evaluator {
	ev := &Evaluator{globals: NewEnvironment(nil)}
	for _, opt := range opts {
		opt(ev)
	}
	return ev
}

// Globals returns the evaluator's global environment.
func (ev *Evaluator) Globals() *Environment {
	return ev.globals
}

// Run evaluates a tree to completion and returns its final value. Global
// bindings made by the program survive across calls.
func (ev *Evaluator) Run(node ast.Node) (Value, error) {
	v, err := ev.run(ev.eval(finalCont, node, ev.globals, nil, false))
	if err != nil {
		return nil, err
	}
	if tc, ok := v.(*tailCall); ok {
		return nil, fmt.Errorf("%w: %s", ErrUnhandledTailCall, tc.fn.Name())
	}
	return v, nil
}

// eval compiles one node into a thunk that, when bounced, performs a unit
// of work and hands the node's value to k. No rule produces a value
// directly; the trampoline in run is what actually executes.
//
// tail is true only on the spine that ends an activation's body: the body
// itself, the last statement of a block on that spine, and both branches
// of an if on that spine. fr identifies the activation (nil at top level).
func (ev *Evaluator) eval(k cont, node ast.Node, env *Environment, fr *frame, tail bool) thunk {
	switch n := node.(type) {
	case *ast.Literal:
		return func() (step, error) {
			return k(n.Value)
		}

	case *ast.Var:
		return func() (step, error) {
			v, err := env.Lookup(n.Name)
			if err != nil {
				return step{}, err
			}
			return k(v)
		}

	case *ast.Assign:
		return func() (step, error) {
			assigned := func(v Value) (step, error) {
				env.Assign(n.Name, v)
				return k(v)
			}
			return step{next: ev.eval(assigned, n.Value, env, fr, false)}, nil
		}

	case *ast.BinaryOp:
		return func() (step, error) {
			leftDone := func(left Value) (step, error) {
				rightDone := func(right Value) (step, error) {
					out, err := applyBinary(n.Op, left, right)
					if err != nil {
						return step{}, err
					}
					return k(out)
				}
				return step{next: ev.eval(rightDone, n.Right, env, fr, false)}, nil
			}
			return step{next: ev.eval(leftDone, n.Left, env, fr, false)}, nil
		}

	case *ast.If:
		return func() (step, error) {
			condDone := func(cond Value) (step, error) {
				if Truthy(cond) {
					return step{next: ev.eval(k, n.Then, env, fr, tail)}, nil
				}
				if n.Else != nil {
					return step{next: ev.eval(k, n.Else, env, fr, tail)}, nil
				}
				return k(Void{})
			}
			return step{next: ev.eval(condDone, n.Cond, env, fr, false)}, nil
		}

	case *ast.FunctionDef:
		return func() (step, error) {
			fn := &Function{def: n, closure: env}
			env.Define(n.Name, fn)
			return k(fn)
		}

	case *ast.Call:
		return func() (step, error) {
			funcDone := func(callee Value) (step, error) {
				args := make([]Value, 0, len(n.Args))
				var evalArgs func(rest []ast.Node) (step, error)
				evalArgs = func(rest []ast.Node) (step, error) {
					if len(rest) == 0 {
						return ev.invoke(k, callee, args, n, fr, tail)
					}
					argDone := func(v Value) (step, error) {
						args = append(args, v)
						return evalArgs(rest[1:])
					}
					return step{next: ev.eval(argDone, rest[0], env, fr, false)}, nil
				}
				return evalArgs(n.Args)
			}
			return step{next: ev.eval(funcDone, n.Func, env, fr, false)}, nil
		}

	case *ast.Block:
		return func() (step, error) {
			if len(n.Statements) == 0 {
				return k(Void{})
			}
			var stmt func(i int) (step, error)
			stmt = func(i int) (step, error) {
				if i == len(n.Statements)-1 {
					// Last statement: its value is the block's, and it
					// inherits the block's tail position.
					return step{next: ev.eval(k, n.Statements[i], env, fr, tail)}, nil
				}
				discard := func(Value) (step, error) {
					return stmt(i + 1)
				}
				return step{next: ev.eval(discard, n.Statements[i], env, fr, false)}, nil
			}
			return stmt(0)
		}
	}

	return func() (step, error) {
		if node == nil {
			return step{}, fmt.Errorf("eval: nil node")
		}
		return step{}, fmt.Errorf("eval: cannot evaluate %s node", node.Kind())
	}
}

// invoke completes a call once callee and arguments are evaluated. A call
// in tail position targeting the currently executing function finishes the
// activation's thunk chain with a frame-reuse signal instead of invoking;
// everything else calls through and returns via the evaluator.
func (ev *Evaluator) invoke(k cont, callee Value, args []Value, call *ast.Call, fr *frame, tail bool) (step, error) {
	fn, ok := callee.(*Function)
	if !ok {
		return step{}, fmt.Errorf("%w: %s", ErrNotCallable, call.Func)
	}
	if tail && fr != nil && fr.fn == fn {
		return step{value: &tailCall{fn: fn, args: args}}, nil
	}
	v, err := fn.call(ev, args)
	if err != nil {
		return step{}, err
	}
	if tc, ok := v.(*tailCall); ok {
		// A propagating signal for an enclosing activation; keep
		// unwinding instead of feeding it to the continuation.
		return step{value: tc}, nil
	}
	return k(v)
}

// applyBinary applies one of the supported operators. Division follows
// float64 semantics; there is no special zero check.
func applyBinary(op string, left, right Value) (Value, error) {
	switch op {
	case "+", "-", "*", "/", "<", ">":
		l, lok := left.(float64)
		r, rok := right.(float64)
		if !lok || !rok {
			return nil, fmt.Errorf("%w: %q needs numbers, got %T and %T", ErrBadOperand, op, left, right)
		}
		switch op {
		case "+":
			return l + r, nil
		case "-":
			return l - r, nil
		case "*":
			return l * r, nil
		case "/":
			return l / r, nil
		case "<":
			return l < r, nil
		default:
			return l > r, nil
		}
	case "==":
		return left == right, nil
	case "!=":
		return left != right, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownOperator, op)
}
