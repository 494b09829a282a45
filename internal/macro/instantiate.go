package macro

import (
	"fmt"

	"nickandperla.net/impel/internal/ast"
)

// Instantiate rebuilds a fragment shaped like template with every capture
// replaced by its binding. Node templates are rebuilt child-by-child with
// the same variant; a one-capture template list splices the captured list
// in place instead of nesting it; other leaves copy verbatim. An unbound
// capture in the template is a malformed rule and is an error, unlike a
// match failure.
func Instantiate(template any, b Bindings) (any, error) {
	if name, ok := captureName(template); ok {
		v, ok := b[name]
		if !ok {
			return nil, fmt.Errorf("macro: template capture %s is unbound", name)
		}
		return v, nil
	}

	switch t := template.(type) {
	case ast.Node:
		slots := t.Slots()
		out := make([]any, len(slots))
		for i, s := range slots {
			v, err := Instantiate(s, b)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		n, err := ast.Build(t.Kind(), out)
		if err != nil {
			return nil, err
		}
		return n, nil

	case []ast.Node:
		return instantiateNodeList(t, b)

	case []string:
		return instantiateStringList(t, b)
	}

	return template, nil
}

func instantiateNodeList(template []ast.Node, b Bindings) ([]ast.Node, error) {
	if len(template) == 1 {
		if name, ok := captureName(template[0]); ok {
			v, ok := b[name]
			if !ok {
				return nil, fmt.Errorf("macro: template capture %s is unbound", name)
			}
			switch bound := v.(type) {
			case []ast.Node:
				return bound, nil
			case ast.Node:
				// A single captured subtree in list position becomes a
				// one-element list.
				return []ast.Node{bound}, nil
			}
			return nil, fmt.Errorf("macro: capture %s holds %T, want node or node list", name, v)
		}
	}
	out := make([]ast.Node, len(template))
	for i, item := range template {
		v, err := Instantiate(item, b)
		if err != nil {
			return nil, err
		}
		if v == nil {
			continue
		}
		n, ok := v.(ast.Node)
		if !ok {
			return nil, fmt.Errorf("macro: template list element %d became %T, want node", i, v)
		}
		out[i] = n
	}
	return out, nil
}

func instantiateStringList(template []string, b Bindings) ([]string, error) {
	if len(template) == 1 && ast.IsCaptureToken(template[0]) {
		v, ok := b[template[0]]
		if !ok {
			return nil, fmt.Errorf("macro: template capture %s is unbound", template[0])
		}
		ss, ok := v.([]string)
		if !ok {
			return nil, fmt.Errorf("macro: capture %s holds %T, want string list", template[0], v)
		}
		return ss, nil
	}
	out := make([]string, len(template))
	for i, item := range template {
		if ast.IsCaptureToken(item) {
			v, ok := b[item]
			if !ok {
				return nil, fmt.Errorf("macro: template capture %s is unbound", item)
			}
			s, ok := v.(string)
			if !ok {
				return nil, fmt.Errorf("macro: capture %s holds %T, want string", item, v)
			}
			out[i] = s
			continue
		}
		out[i] = item
	}
	return out, nil
}
