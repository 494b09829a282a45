// Package impel provides the public API for the impel interpreter core:
// syntax trees for a small imperative language, a macro engine that
// rewrites them, and a trampolined continuation-passing evaluator with
// self-tail-call frame reuse.
package impel

import (
	"nickandperla.net/impel/internal/eval"
	"nickandperla.net/impel/internal/macro"
	"nickandperla.net/impel/internal/store"
)

// Option configures a Runtime.
type Option func(*Runtime)

// WithRules registers macro rewrite rules, tried in order during Run and
// Expand.
func WithRules(rules ...*macro.Rule) Option {
	return func(r *Runtime) {
		r.rules = append(r.rules, rules...)
	}
}

// WithGlobals pre-binds names in the global environment.
func WithGlobals(globals map[string]eval.Value) Option {
	return func(r *Runtime) {
		if r.globals == nil {
			r.globals = make(map[string]eval.Value, len(globals))
		}
		for name, v := range globals {
			r.globals[name] = v
		}
	}
}

// WithSQLiteStore configures SQLite program persistence at the given path.
func WithSQLiteStore(path string) Option {
	return func(r *Runtime) {
		s, err := store.NewSQLite(path)
		if err == nil {
			r.store = s
		}
	}
}

// WithMemoryStore configures an in-memory program store (for testing).
func WithMemoryStore() Option {
	return func(r *Runtime) {
		r.store = store.NewMemory()
	}
}

// WithStore configures a custom program store.
func WithStore(s store.Store) Option {
	return func(r *Runtime) {
		r.store = s
	}
}

// Value is any runtime value.
type Value = eval.Value

// Void is the absent result value.
type Void = eval.Void

// Store interface for custom program stores.
type Store = store.Store

// Rule is a macro rewrite rule.
type Rule = macro.Rule

// Fatal evaluation conditions, re-exported for errors.Is checks.
var (
	ErrUnboundVariable   = eval.ErrUnboundVariable
	ErrNotCallable       = eval.ErrNotCallable
	ErrUnknownOperator   = eval.ErrUnknownOperator
	ErrUnhandledTailCall = eval.ErrUnhandledTailCall
)

// NewRule creates a macro rewrite rule from a pattern/template pair.
func NewRule(pattern, template Node) *Rule {
	return macro.NewRule(pattern, template)
}

// WhileRule returns the loop desugaring rule: an else-less if standing in
// for "while" becomes an immediately invoked self-recursive function.
func WhileRule() *Rule {
	return macro.WhileRule()
}
