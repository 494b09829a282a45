package impel

import (
	"fmt"

	"nickandperla.net/impel/internal/ast"
	"nickandperla.net/impel/internal/eval"
	"nickandperla.net/impel/internal/macro"
	"nickandperla.net/impel/internal/store"
)

// Runtime is the impel interpreter runtime: a macro engine, a CPS
// evaluator with a persistent global environment, and an optional program
// store.
type Runtime struct {
	evaluator *eval.Evaluator
	engine    *macro.Engine
	store     store.Store
	rules     []*macro.Rule
	globals   map[string]eval.Value
}

// New creates a new impel runtime with the given options.
func New(opts ...Option) *Runtime {
	r := &Runtime{}
	for _, opt := range opts {
		opt(r)
	}

	evalOpts := make([]eval.Option, 0, len(r.globals))
	for name, v := range r.globals {
		evalOpts = append(evalOpts, eval.WithGlobal(name, v))
	}
	r.evaluator = eval.New(evalOpts...)
	r.engine = macro.NewEngine(r.rules...)
	return r
}

// Run expands the tree through the registered macro rules, evaluates it,
// and returns the final value. Global bindings made by the program persist
// across Run calls.
func (r *Runtime) Run(program ast.Node) (Value, error) {
	expanded, err := r.engine.Expand(program)
	if err != nil {
		return nil, err
	}
	return r.evaluator.Run(expanded)
}

// Expand applies the registered macro rules without evaluating.
func (r *Runtime) Expand(program ast.Node) (ast.Node, error) {
	return r.engine.Expand(program)
}

// Global looks up a name in the runtime's global environment.
func (r *Runtime) Global(name string) (Value, error) {
	return r.evaluator.Globals().Lookup(name)
}

// Define binds a name in the runtime's global environment.
func (r *Runtime) Define(name string, v Value) {
	r.evaluator.Globals().Define(name, v)
}

// SaveProgram persists a program tree under a name.
func (r *Runtime) SaveProgram(name string, program ast.Node) error {
	if r.store == nil {
		return fmt.Errorf("impel: no store configured")
	}
	return r.store.Put(name, program)
}

// LoadProgram retrieves a persisted program tree. Returns nil when the
// name is absent.
func (r *Runtime) LoadProgram(name string) (ast.Node, error) {
	if r.store == nil {
		return nil, fmt.Errorf("impel: no store configured")
	}
	return r.store.Get(name)
}

// RunStored loads a persisted program and runs it.
func (r *Runtime) RunStored(name string) (Value, error) {
	program, err := r.LoadProgram(name)
	if err != nil {
		return nil, err
	}
	if program == nil {
		return nil, fmt.Errorf("impel: no stored program %q", name)
	}
	return r.Run(program)
}

// Close releases resources.
func (r *Runtime) Close() error {
	if r.store != nil {
		return r.store.Close()
	}
	return nil
}
