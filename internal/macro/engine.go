package macro

import (
	"fmt"

	"nickandperla.net/impel/internal/ast"
)

// Rule rewrites nodes matching Pattern into instances of Template.
type Rule struct {
	Pattern  ast.Node
	Template ast.Node
}

// NewRule creates a rewrite rule from a pattern/template pair.
func NewRule(pattern, template ast.Node) *Rule {
	return &Rule{Pattern: pattern, Template: template}
}

// Apply rewrites node when it matches the rule's pattern and returns it
// unchanged otherwise. No-match is never an error, so rule sets can be
// tried in sequence; only a malformed template errors.
func (r *Rule) Apply(node ast.Node) (ast.Node, error) {
	b, ok := Match(r.Pattern, node)
	if !ok {
		return node, nil
	}
	v, err := Instantiate(r.Template, b)
	if err != nil {
		return nil, err
	}
	n, ok := v.(ast.Node)
	if !ok && v != nil {
		return nil, fmt.Errorf("macro: template produced %T, want node", v)
	}
	return n, nil
}

// Engine holds an ordered rule set and applies it across whole trees.
type Engine struct {
	rules []*Rule
}

// NewEngine creates an engine with the given rules.
func NewEngine(rules ...*Rule) *Engine {
	return &Engine{rules: rules}
}

// Register appends a rule. Rules are tried in registration order.
func (e *Engine) Register(r *Rule) {
	e.rules = append(e.rules, r)
}

// Rules returns the registered rules in order.
func (e *Engine) Rules() []*Rule {
	return e.rules
}

// Expand rewrites a tree bottom-up, trying each rule in order at every
// node; the first matching rule wins for that node and its replacement is
// not revisited. With no rules registered the tree is returned as-is.
func (e *Engine) Expand(root ast.Node) (ast.Node, error) {
	if len(e.rules) == 0 {
		return root, nil
	}
	return ast.Modify(root, func(n ast.Node) (ast.Node, error) {
		for _, r := range e.rules {
			out, err := r.Apply(n)
			if err != nil {
				return nil, err
			}
			if out != n {
				return out, nil
			}
		}
		return n, nil
	})
}
