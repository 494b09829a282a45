package eval

import "fmt"

// Environment is one scope in a lexical chain. Lookup walks from the
// innermost scope outward; the parent link is not owned by the child.
//
// Evaluation is single-threaded, so the chain carries no lock. A scope is
// created per function activation and reused in place across tail
// iterations of the same activation.
type Environment struct {
	vars   map[string]Value
	parent *Environment
}

// NewEnvironment creates a scope chained to parent (nil for the global
// scope).
func NewEnvironment(parent *Environment) *Environment {
	return &Environment{
		vars:   make(map[string]Value),
		parent: parent,
	}
}

// Lookup returns the first binding for name found walking outward.
func (e *Environment) Lookup(name string) (Value, error) {
	for env := e; env != nil; env = env.parent {
		if v, ok := env.vars[name]; ok {
			return v, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnboundVariable, name)
}

// Define writes a binding into this scope, shadowing any outer binding of
// the same name.
func (e *Environment) Define(name string, v Value) {
	e.vars[name] = v
}

// Update overwrites the first existing binding for name found walking
// outward. It never creates a binding.
func (e *Environment) Update(name string, v Value) error {
	for env := e; env != nil; env = env.parent {
		if _, ok := env.vars[name]; ok {
			env.vars[name] = v
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrUnboundVariable, name)
}

// Assign implements assignment semantics: update the existing binding
// wherever it lives on the chain, or define a fresh local when there is
// none. This is what makes closures observe updates to shared names while
// new names stay local.
func (e *Environment) Assign(name string, v Value) {
	if err := e.Update(name, v); err != nil {
		e.Define(name, v)
	}
}
