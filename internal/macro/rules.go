package macro

import (
	"nickandperla.net/impel/internal/ast"
)

// LoopFunctionName is the name the while desugaring binds its generated
// self-recursive function under.
const LoopFunctionName = "loop"

// WhileRule desugars a condition/body loop (represented as an else-less
// if in the frontend's vocabulary) into a zero-argument self-recursive
// function that is defined and immediately invoked:
//
//	if $cond: $body
//	=>
//	{ def loop(): if $cond: { $body; loop() }
//	  loop() }
//
// The recursive call sits in tail position, so iteration reuses the
// activation's frame and the loop runs in constant native stack depth.
// The pattern also matches a plain else-less if; apply the rule to loop
// nodes explicitly rather than registering it for whole-tree expansion of
// programs that contain ordinary conditionals.
func WhileRule() *Rule {
	cond := ast.Capture("cond")
	body := ast.Capture("body")
	loop := func() ast.Node {
		return &ast.Call{Func: &ast.Var{Name: LoopFunctionName}}
	}
	return NewRule(
		&ast.If{Cond: cond, Then: body},
		&ast.Block{Statements: []ast.Node{
			&ast.FunctionDef{
				Name: LoopFunctionName,
				Body: &ast.If{
					Cond: cond,
					Then: &ast.Block{Statements: []ast.Node{body, loop()}},
				},
			},
			loop(),
		}},
	)
}
