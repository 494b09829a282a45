package ast

// Modify rewrites a tree bottom-up: children are rewritten first, then fn
// is applied to the (possibly rebuilt) node. Returning the input node
// unchanged from fn leaves that subtree alone. Nodes are never mutated in
// place; a node whose children changed is rebuilt from its slots.
func Modify(node Node, fn func(Node) (Node, error)) (Node, error) {
	if node == nil {
		return nil, nil
	}

	slots := node.Slots()
	changed := false
	for i, slot := range slots {
		switch v := slot.(type) {
		case Node:
			child, err := Modify(v, fn)
			if err != nil {
				return nil, err
			}
			if child != v {
				slots[i] = child
				changed = true
			}
		case []Node:
			var out []Node
			for j, c := range v {
				child, err := Modify(c, fn)
				if err != nil {
					return nil, err
				}
				if child != c && out == nil {
					out = make([]Node, len(v))
					copy(out, v[:j])
				}
				if out != nil {
					out[j] = child
				}
			}
			if out != nil {
				slots[i] = out
				changed = true
			}
		}
	}

	if changed {
		rebuilt, err := Build(node.Kind(), slots)
		if err != nil {
			return nil, err
		}
		node = rebuilt
	}
	return fn(node)
}
