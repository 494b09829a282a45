package impel

import "nickandperla.net/impel/internal/ast"

// Node is the interface all syntax tree variants implement.
type Node = ast.Node

// Syntax tree variants, re-exported so programs and macro rules can be
// authored against the public package.
type (
	Literal     = ast.Literal
	Var         = ast.Var
	Assign      = ast.Assign
	BinaryOp    = ast.BinaryOp
	If          = ast.If
	FunctionDef = ast.FunctionDef
	Call        = ast.Call
	Block       = ast.Block
	Placeholder = ast.Placeholder
)

// Capture returns a placeholder node for "$name"-style capture tokens.
func Capture(name string) *Placeholder {
	return ast.Capture(name)
}

// Marshal serializes a tree to the store's wire form.
func Marshal(n Node) ([]byte, error) {
	return ast.Marshal(n)
}

// Unmarshal rebuilds a tree serialized by Marshal.
func Unmarshal(data []byte) (Node, error) {
	return ast.Unmarshal(data)
}
