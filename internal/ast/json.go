package ast

import (
	"encoding/json"
	"fmt"
)

// encNode is the wire shape shared by all variants. Only the fields a
// variant uses are populated; "kind" selects the decoder arm.
type encNode struct {
	Kind   string     `json:"kind"`
	Value  *any       `json:"value,omitempty"`
	Name   string     `json:"name,omitempty"`
	Op     string     `json:"op,omitempty"`
	Params []string   `json:"params,omitempty"`
	Left   *encNode   `json:"left,omitempty"`
	Right  *encNode   `json:"right,omitempty"`
	Cond   *encNode   `json:"cond,omitempty"`
	Then   *encNode   `json:"then,omitempty"`
	Else   *encNode   `json:"else,omitempty"`
	Func   *encNode   `json:"func,omitempty"`
	Body   *encNode   `json:"body,omitempty"`
	Args   []*encNode `json:"args,omitempty"`
	Stmts  []*encNode `json:"stmts,omitempty"`
}

// Marshal serializes a tree for persistence.
func Marshal(n Node) ([]byte, error) {
	enc, err := encode(n)
	if err != nil {
		return nil, err
	}
	return json.Marshal(enc)
}

// Unmarshal rebuilds a tree serialized by Marshal.
func Unmarshal(data []byte) (Node, error) {
	var enc encNode
	if err := json.Unmarshal(data, &enc); err != nil {
		return nil, err
	}
	return decode(&enc)
}

func encode(n Node) (*encNode, error) {
	if n == nil {
		return nil, nil
	}
	enc := &encNode{Kind: n.Kind().String()}
	var err error
	switch node := n.(type) {
	case *Literal:
		v := node.Value
		enc.Value = &v
	case *Var:
		enc.Name = node.Name
	case *Assign:
		enc.Name = node.Name
		if enc.Body, err = encode(node.Value); err != nil {
			return nil, err
		}
	case *BinaryOp:
		enc.Op = node.Op
		if enc.Left, err = encode(node.Left); err != nil {
			return nil, err
		}
		if enc.Right, err = encode(node.Right); err != nil {
			return nil, err
		}
	case *If:
		if enc.Cond, err = encode(node.Cond); err != nil {
			return nil, err
		}
		if enc.Then, err = encode(node.Then); err != nil {
			return nil, err
		}
		if enc.Else, err = encode(node.Else); err != nil {
			return nil, err
		}
	case *FunctionDef:
		enc.Name = node.Name
		enc.Params = node.Params
		if enc.Body, err = encode(node.Body); err != nil {
			return nil, err
		}
	case *Call:
		if enc.Func, err = encode(node.Func); err != nil {
			return nil, err
		}
		if enc.Args, err = encodeList(node.Args); err != nil {
			return nil, err
		}
	case *Block:
		if enc.Stmts, err = encodeList(node.Statements); err != nil {
			return nil, err
		}
	case *Placeholder:
		enc.Name = node.Name
	default:
		return nil, fmt.Errorf("ast: marshal: unknown node type %T", n)
	}
	return enc, nil
}

func encodeList(nodes []Node) ([]*encNode, error) {
	if nodes == nil {
		return nil, nil
	}
	out := make([]*encNode, len(nodes))
	for i, n := range nodes {
		enc, err := encode(n)
		if err != nil {
			return nil, err
		}
		out[i] = enc
	}
	return out, nil
}

func decode(enc *encNode) (Node, error) {
	if enc == nil {
		return nil, nil
	}
	switch enc.Kind {
	case "literal":
		var v any
		if enc.Value != nil {
			v = *enc.Value
		}
		return &Literal{Value: v}, nil
	case "var":
		return &Var{Name: enc.Name}, nil
	case "assign":
		value, err := decode(enc.Body)
		if err != nil {
			return nil, err
		}
		return &Assign{Name: enc.Name, Value: value}, nil
	case "binop":
		left, err := decode(enc.Left)
		if err != nil {
			return nil, err
		}
		right, err := decode(enc.Right)
		if err != nil {
			return nil, err
		}
		return &BinaryOp{Op: enc.Op, Left: left, Right: right}, nil
	case "if":
		cond, err := decode(enc.Cond)
		if err != nil {
			return nil, err
		}
		then, err := decode(enc.Then)
		if err != nil {
			return nil, err
		}
		els, err := decode(enc.Else)
		if err != nil {
			return nil, err
		}
		return &If{Cond: cond, Then: then, Else: els}, nil
	case "func":
		body, err := decode(enc.Body)
		if err != nil {
			return nil, err
		}
		return &FunctionDef{Name: enc.Name, Params: enc.Params, Body: body}, nil
	case "call":
		fn, err := decode(enc.Func)
		if err != nil {
			return nil, err
		}
		args, err := decodeList(enc.Args)
		if err != nil {
			return nil, err
		}
		return &Call{Func: fn, Args: args}, nil
	case "block":
		stmts, err := decodeList(enc.Stmts)
		if err != nil {
			return nil, err
		}
		return &Block{Statements: stmts}, nil
	case "placeholder":
		return &Placeholder{Name: enc.Name}, nil
	}
	return nil, fmt.Errorf("ast: unmarshal: unknown kind %q", enc.Kind)
}

func decodeList(encs []*encNode) ([]Node, error) {
	if encs == nil {
		return nil, nil
	}
	out := make([]Node, len(encs))
	for i, enc := range encs {
		n, err := decode(enc)
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}
