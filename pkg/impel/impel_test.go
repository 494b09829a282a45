package impel

import (
	"errors"
	"path/filepath"
	"testing"
)

func num(v float64) *Literal { return &Literal{Value: v} }
func ref(name string) *Var   { return &Var{Name: name} }

// counterLoop is x = 0 followed by a loop (an else-less if, desugared by
// WhileRule) incrementing x until it reaches bound.
func counterLoop(bound float64) Node {
	return &Block{Statements: []Node{
		&Assign{Name: "x", Value: num(0)},
		&If{
			Cond: &BinaryOp{Op: "<", Left: ref("x"), Right: num(bound)},
			Then: &Assign{Name: "x", Value: &BinaryOp{Op: "+", Left: ref("x"), Right: num(1)}},
		},
	}}
}

func TestRunWhileLoop(t *testing.T) {
	r := New(WithRules(WhileRule()))
	if _, err := r.Run(counterLoop(5)); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	x, err := r.Global("x")
	if err != nil {
		t.Fatalf("Global failed: %v", err)
	}
	if x != float64(5) {
		t.Errorf("expected x == 5, got %v", x)
	}
}

func TestRunWithoutRulesIsSinglePass(t *testing.T) {
	r := New()
	if _, err := r.Run(counterLoop(5)); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	x, err := r.Global("x")
	if err != nil {
		t.Fatalf("Global failed: %v", err)
	}
	if x != float64(1) {
		t.Errorf("expected a single conditional pass, got x == %v", x)
	}
}

func TestGlobalsPersistAcrossRuns(t *testing.T) {
	r := New()
	if _, err := r.Run(&Assign{Name: "count", Value: num(1)}); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	got, err := r.Run(&BinaryOp{Op: "+", Left: ref("count"), Right: num(1)})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if got != float64(2) {
		t.Errorf("expected 2, got %v", got)
	}
}

func TestWithGlobals(t *testing.T) {
	r := New(WithGlobals(map[string]Value{"seed": float64(21)}))
	got, err := r.Run(&BinaryOp{Op: "*", Left: ref("seed"), Right: num(2)})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if got != float64(42) {
		t.Errorf("expected 42, got %v", got)
	}
}

func TestDefineAndGlobal(t *testing.T) {
	r := New()
	r.Define("limit", float64(3))
	got, err := r.Run(&BinaryOp{Op: "<", Left: num(1), Right: ref("limit")})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if got != true {
		t.Errorf("expected true, got %v", got)
	}
	if _, err := r.Global("missing"); !errors.Is(err, ErrUnboundVariable) {
		t.Errorf("expected ErrUnboundVariable, got %v", err)
	}
}

func TestExpandRewritesLoop(t *testing.T) {
	r := New(WithRules(WhileRule()))
	out, err := r.Expand(counterLoop(5))
	if err != nil {
		t.Fatalf("Expand failed: %v", err)
	}
	expanded, ok := out.(*Block).Statements[1].(*Block)
	if !ok {
		t.Fatalf("expected loop desugared into a block, got %T", out.(*Block).Statements[1])
	}
	if _, ok := expanded.Statements[0].(*FunctionDef); !ok {
		t.Errorf("expected generated loop function, got %s", expanded.Statements[0])
	}
}

func TestSaveLoadRunStored(t *testing.T) {
	r := New(WithRules(WhileRule()), WithMemoryStore())
	defer r.Close()

	if err := r.SaveProgram("counter", counterLoop(5)); err != nil {
		t.Fatalf("SaveProgram failed: %v", err)
	}

	loaded, err := r.LoadProgram("counter")
	if err != nil {
		t.Fatalf("LoadProgram failed: %v", err)
	}
	if loaded == nil {
		t.Fatal("expected stored program back")
	}

	if _, err := r.RunStored("counter"); err != nil {
		t.Fatalf("RunStored failed: %v", err)
	}
	x, err := r.Global("x")
	if err != nil {
		t.Fatalf("Global failed: %v", err)
	}
	if x != float64(5) {
		t.Errorf("expected x == 5, got %v", x)
	}
}

func TestSQLiteStoreOption(t *testing.T) {
	path := filepath.Join(t.TempDir(), "impel.db")
	r := New(WithSQLiteStore(path))
	defer r.Close()

	if err := r.SaveProgram("counter", counterLoop(5)); err != nil {
		t.Fatalf("SaveProgram failed: %v", err)
	}
	loaded, err := r.LoadProgram("counter")
	if err != nil {
		t.Fatalf("LoadProgram failed: %v", err)
	}
	if loaded == nil {
		t.Fatal("expected stored program back")
	}
}

func TestStoreOperationsWithoutStore(t *testing.T) {
	r := New()
	if err := r.SaveProgram("p", num(1)); err == nil {
		t.Error("expected error saving without a store")
	}
	if _, err := r.LoadProgram("p"); err == nil {
		t.Error("expected error loading without a store")
	}
}

func TestRunStoredMissingProgram(t *testing.T) {
	r := New(WithMemoryStore())
	defer r.Close()
	if _, err := r.RunStored("absent"); err == nil {
		t.Error("expected error for missing stored program")
	}
}

func TestCustomRule(t *testing.T) {
	// Rewrite any subtraction into an addition.
	rule := NewRule(
		&BinaryOp{Op: "-", Left: Capture("l"), Right: Capture("r")},
		&BinaryOp{Op: "+", Left: Capture("l"), Right: Capture("r")},
	)
	r := New(WithRules(rule))
	got, err := r.Run(&BinaryOp{Op: "-", Left: num(2), Right: num(3)})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if got != float64(5) {
		t.Errorf("expected rewritten addition, got %v", got)
	}
}
