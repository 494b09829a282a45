// Package macro implements structural pattern matching and template
// instantiation over impel syntax trees. A rewrite rule is a (pattern,
// template) pair authored in the same AST vocabulary as programs, with
// capture placeholders ("$name") standing for arbitrary subtrees or lists.
package macro

import (
	"nickandperla.net/impel/internal/ast"
)

// Bindings maps capture names ("$cond") to the subtree, list, or leaf they
// captured. Ephemeral: produced by Match, consumed by Instantiate within
// one Apply.
type Bindings map[string]any

// Match structurally aligns pattern against value. A capture position
// always matches and records; a node position requires the same variant
// kind and pairwise-matching slots; a list position matches pairwise by
// length, except a one-capture pattern list which binds the entire value
// list; any other leaf must be exactly equal. The second result is false
// when nothing matched, which is the designed no-match outcome rather than
// an error.
func Match(pattern, value any) (Bindings, bool) {
	b := Bindings{}
	if !match(pattern, value, b) {
		return nil, false
	}
	return b, true
}

func match(pattern, value any, b Bindings) bool {
	if name, ok := captureName(pattern); ok {
		b[name] = value
		return true
	}

	switch p := pattern.(type) {
	case ast.Node:
		v, ok := value.(ast.Node)
		if !ok || v == nil || p.Kind() != v.Kind() {
			return false
		}
		// Same kind implies same slot count.
		vs := v.Slots()
		for i, ps := range p.Slots() {
			if !match(ps, vs[i], b) {
				return false
			}
		}
		return true

	case []ast.Node:
		v, ok := value.([]ast.Node)
		if !ok {
			return false
		}
		if len(p) == 1 {
			if name, ok := captureName(p[0]); ok {
				b[name] = v
				return true
			}
		}
		if len(p) != len(v) {
			return false
		}
		for i := range p {
			if !match(p[i], v[i], b) {
				return false
			}
		}
		return true

	case []string:
		v, ok := value.([]string)
		if !ok {
			return false
		}
		if len(p) == 1 && ast.IsCaptureToken(p[0]) {
			b[p[0]] = v
			return true
		}
		if len(p) != len(v) {
			return false
		}
		for i := range p {
			if p[i] != v[i] {
				return false
			}
		}
		return true
	}

	return pattern == value
}

// captureName recognizes the two capture spellings: a Placeholder node in
// a node position, or a "$"-prefixed string in a name/operator position.
func captureName(v any) (string, bool) {
	switch x := v.(type) {
	case *ast.Placeholder:
		return x.Name, true
	case string:
		if ast.IsCaptureToken(x) {
			return x, true
		}
	}
	return "", false
}
