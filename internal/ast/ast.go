// Package ast defines the impel syntax tree.
//
// Nodes are immutable once constructed and shared read-only; evaluation
// mutates only environments, never the tree. Every variant exposes its
// children through Slots and can be rebuilt from them through Build, which
// is what lets the macro engine walk and reconstruct arbitrary variants
// without per-variant code.
package ast

import (
	"fmt"
	"strings"
)

// Kind identifies a node variant.
type Kind int

const (
	KindLiteral Kind = iota
	KindVar
	KindAssign
	KindBinaryOp
	KindIf
	KindFunctionDef
	KindCall
	KindBlock
	KindPlaceholder
)

// String returns the lowercase variant name used by the JSON codec.
func (k Kind) String() string {
	switch k {
	case KindLiteral:
		return "literal"
	case KindVar:
		return "var"
	case KindAssign:
		return "assign"
	case KindBinaryOp:
		return "binop"
	case KindIf:
		return "if"
	case KindFunctionDef:
		return "func"
	case KindCall:
		return "call"
	case KindBlock:
		return "block"
	case KindPlaceholder:
		return "placeholder"
	}
	return "unknown"
}

// Node is the interface all syntax tree variants implement.
type Node interface {
	// Kind returns the variant tag.
	Kind() Kind
	// Slots returns the node's positional children as a fresh slice.
	// Slot values are one of: Node, []Node, []string, string, or a
	// literal value. Build accepts the same shapes.
	Slots() []any
	// String returns a compact source-like rendering.
	String() string
}

// CapturePrefix marks a string as a capture token in macro patterns and
// templates ("$name").
const CapturePrefix = "$"

// IsCaptureToken reports whether s is a capture token.
func IsCaptureToken(s string) bool {
	return strings.HasPrefix(s, CapturePrefix)
}

// Literal is a constant value (float64 number or bool).
type Literal struct {
	Value any
}

func (l *Literal) Kind() Kind     { return KindLiteral }
func (l *Literal) Slots() []any   { return []any{l.Value} }
func (l *Literal) String() string { return fmt.Sprintf("%v", l.Value) }

// Var is a variable reference.
type Var struct {
	Name string
}

func (v *Var) Kind() Kind     { return KindVar }
func (v *Var) Slots() []any   { return []any{v.Name} }
func (v *Var) String() string { return v.Name }

// Assign binds the value of an expression to a name using the
// update-or-define policy.
type Assign struct {
	Name  string
	Value Node
}

func (a *Assign) Kind() Kind   { return KindAssign }
func (a *Assign) Slots() []any { return []any{a.Name, a.Value} }
func (a *Assign) String() string {
	return a.Name + " = " + stringOrNil(a.Value)
}

// BinaryOp applies an arithmetic or comparison operator to two operands.
type BinaryOp struct {
	Op    string
	Left  Node
	Right Node
}

func (b *BinaryOp) Kind() Kind   { return KindBinaryOp }
func (b *BinaryOp) Slots() []any { return []any{b.Op, b.Left, b.Right} }
func (b *BinaryOp) String() string {
	return "(" + stringOrNil(b.Left) + " " + b.Op + " " + stringOrNil(b.Right) + ")"
}

// If evaluates Then when Cond is truthy, Else otherwise. Else may be nil.
type If struct {
	Cond Node
	Then Node
	Else Node
}

func (i *If) Kind() Kind   { return KindIf }
func (i *If) Slots() []any { return []any{i.Cond, i.Then, i.Else} }
func (i *If) String() string {
	s := "if " + stringOrNil(i.Cond) + ": " + stringOrNil(i.Then)
	if i.Else != nil {
		s += " else: " + i.Else.String()
	}
	return s
}

// FunctionDef declares a named function. Evaluating it creates a closure
// over the defining environment and binds it under Name.
type FunctionDef struct {
	Name   string
	Params []string
	Body   Node
}

func (f *FunctionDef) Kind() Kind   { return KindFunctionDef }
func (f *FunctionDef) Slots() []any { return []any{f.Name, f.Params, f.Body} }
func (f *FunctionDef) String() string {
	return "def " + f.Name + "(" + strings.Join(f.Params, ", ") + ")"
}

// Call invokes the value of Func with the values of Args, left to right.
type Call struct {
	Func Node
	Args []Node
}

func (c *Call) Kind() Kind   { return KindCall }
func (c *Call) Slots() []any { return []any{c.Func, c.Args} }
func (c *Call) String() string {
	parts := make([]string, len(c.Args))
	for i, a := range c.Args {
		parts[i] = stringOrNil(a)
	}
	return stringOrNil(c.Func) + "(" + strings.Join(parts, ", ") + ")"
}

// Block evaluates statements in order; its value is the last statement's.
type Block struct {
	Statements []Node
}

func (b *Block) Kind() Kind   { return KindBlock }
func (b *Block) Slots() []any { return []any{b.Statements} }
func (b *Block) String() string {
	parts := make([]string, len(b.Statements))
	for i, s := range b.Statements {
		parts[i] = stringOrNil(s)
	}
	return "{ " + strings.Join(parts, "; ") + " }"
}

// Placeholder is a capture slot in a macro pattern or template. It is a
// Node so patterns are authored in the same vocabulary as programs; it
// never reaches the evaluator.
type Placeholder struct {
	Name string // includes the "$" prefix
}

func (p *Placeholder) Kind() Kind     { return KindPlaceholder }
func (p *Placeholder) Slots() []any   { return []any{p.Name} }
func (p *Placeholder) String() string { return p.Name }

// Capture returns a placeholder node for "$name"-style tokens. The prefix
// is added when missing so rule authors can write either form.
func Capture(name string) *Placeholder {
	if !IsCaptureToken(name) {
		name = CapturePrefix + name
	}
	return &Placeholder{Name: name}
}

// Build constructs a node of the given kind from a slot slice shaped like
// the one Slots returns. It is the inverse used by the macro instantiator.
func Build(kind Kind, slots []any) (Node, error) {
	switch kind {
	case KindLiteral:
		if err := wantSlots(kind, slots, 1); err != nil {
			return nil, err
		}
		return &Literal{Value: slots[0]}, nil
	case KindVar:
		if err := wantSlots(kind, slots, 1); err != nil {
			return nil, err
		}
		name, err := slotString(kind, 0, slots[0])
		if err != nil {
			return nil, err
		}
		return &Var{Name: name}, nil
	case KindAssign:
		if err := wantSlots(kind, slots, 2); err != nil {
			return nil, err
		}
		name, err := slotString(kind, 0, slots[0])
		if err != nil {
			return nil, err
		}
		value, err := slotNode(kind, 1, slots[1])
		if err != nil {
			return nil, err
		}
		return &Assign{Name: name, Value: value}, nil
	case KindBinaryOp:
		if err := wantSlots(kind, slots, 3); err != nil {
			return nil, err
		}
		op, err := slotString(kind, 0, slots[0])
		if err != nil {
			return nil, err
		}
		left, err := slotNode(kind, 1, slots[1])
		if err != nil {
			return nil, err
		}
		right, err := slotNode(kind, 2, slots[2])
		if err != nil {
			return nil, err
		}
		return &BinaryOp{Op: op, Left: left, Right: right}, nil
	case KindIf:
		if err := wantSlots(kind, slots, 3); err != nil {
			return nil, err
		}
		cond, err := slotNode(kind, 0, slots[0])
		if err != nil {
			return nil, err
		}
		then, err := slotNode(kind, 1, slots[1])
		if err != nil {
			return nil, err
		}
		els, err := slotNode(kind, 2, slots[2])
		if err != nil {
			return nil, err
		}
		return &If{Cond: cond, Then: then, Else: els}, nil
	case KindFunctionDef:
		if err := wantSlots(kind, slots, 3); err != nil {
			return nil, err
		}
		name, err := slotString(kind, 0, slots[0])
		if err != nil {
			return nil, err
		}
		params, err := slotStrings(kind, 1, slots[1])
		if err != nil {
			return nil, err
		}
		body, err := slotNode(kind, 2, slots[2])
		if err != nil {
			return nil, err
		}
		return &FunctionDef{Name: name, Params: params, Body: body}, nil
	case KindCall:
		if err := wantSlots(kind, slots, 2); err != nil {
			return nil, err
		}
		fn, err := slotNode(kind, 0, slots[0])
		if err != nil {
			return nil, err
		}
		args, err := slotNodes(kind, 1, slots[1])
		if err != nil {
			return nil, err
		}
		return &Call{Func: fn, Args: args}, nil
	case KindBlock:
		if err := wantSlots(kind, slots, 1); err != nil {
			return nil, err
		}
		stmts, err := slotNodes(kind, 0, slots[0])
		if err != nil {
			return nil, err
		}
		return &Block{Statements: stmts}, nil
	case KindPlaceholder:
		if err := wantSlots(kind, slots, 1); err != nil {
			return nil, err
		}
		name, err := slotString(kind, 0, slots[0])
		if err != nil {
			return nil, err
		}
		return &Placeholder{Name: name}, nil
	}
	return nil, fmt.Errorf("ast: build: unknown kind %d", kind)
}

func wantSlots(kind Kind, slots []any, n int) error {
	if len(slots) != n {
		return fmt.Errorf("ast: build %s: want %d slots, got %d", kind, n, len(slots))
	}
	return nil
}

func slotString(kind Kind, i int, v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("ast: build %s: slot %d: want string, got %T", kind, i, v)
	}
	return s, nil
}

func slotNode(kind Kind, i int, v any) (Node, error) {
	if v == nil {
		return nil, nil
	}
	n, ok := v.(Node)
	if !ok {
		return nil, fmt.Errorf("ast: build %s: slot %d: want node, got %T", kind, i, v)
	}
	return n, nil
}

func slotNodes(kind Kind, i int, v any) ([]Node, error) {
	if v == nil {
		return nil, nil
	}
	ns, ok := v.([]Node)
	if !ok {
		return nil, fmt.Errorf("ast: build %s: slot %d: want node list, got %T", kind, i, v)
	}
	return ns, nil
}

func slotStrings(kind Kind, i int, v any) ([]string, error) {
	if v == nil {
		return nil, nil
	}
	ss, ok := v.([]string)
	if !ok {
		return nil, fmt.Errorf("ast: build %s: slot %d: want string list, got %T", kind, i, v)
	}
	return ss, nil
}

func stringOrNil(n Node) string {
	if n == nil {
		return "<nil>"
	}
	return n.String()
}
