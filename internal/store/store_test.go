package store

import (
	"path/filepath"
	"reflect"
	"testing"

	"nickandperla.net/impel/internal/ast"
)

func sampleProgram(bound float64) ast.Node {
	return &ast.Block{Statements: []ast.Node{
		&ast.Assign{Name: "x", Value: &ast.Literal{Value: float64(0)}},
		&ast.If{
			Cond: &ast.BinaryOp{Op: "<", Left: &ast.Var{Name: "x"}, Right: &ast.Literal{Value: bound}},
			Then: &ast.Assign{Name: "x", Value: &ast.BinaryOp{Op: "+", Left: &ast.Var{Name: "x"}, Right: &ast.Literal{Value: float64(1)}}},
		},
	}}
}

type historyMetadataStore interface {
	HistoryStore
	MetadataStore
}

func openStores(t *testing.T) map[string]historyMetadataStore {
	t.Helper()
	sqlite, err := NewSQLite(filepath.Join(t.TempDir(), "impel.db"))
	if err != nil {
		t.Fatalf("NewSQLite failed: %v", err)
	}
	t.Cleanup(func() { sqlite.Close() })
	return map[string]historyMetadataStore{
		"memory": NewMemory(),
		"sqlite": sqlite,
	}
}

func TestPutGetRoundTrip(t *testing.T) {
	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			program := sampleProgram(5)
			if err := s.Put("counter", program); err != nil {
				t.Fatalf("Put failed: %v", err)
			}
			got, err := s.Get("counter")
			if err != nil {
				t.Fatalf("Get failed: %v", err)
			}
			if !reflect.DeepEqual(program, got) {
				t.Errorf("round trip mismatch:\n got %s\nwant %s", got, program)
			}
		})
	}
}

func TestGetMissingReturnsNil(t *testing.T) {
	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			got, err := s.Get("absent")
			if err != nil {
				t.Fatalf("Get failed: %v", err)
			}
			if got != nil {
				t.Errorf("expected nil for missing program, got %s", got)
			}
		})
	}
}

func TestDelete(t *testing.T) {
	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			if err := s.Put("doomed", sampleProgram(1)); err != nil {
				t.Fatalf("Put failed: %v", err)
			}
			if err := s.Delete("doomed"); err != nil {
				t.Fatalf("Delete failed: %v", err)
			}
			got, err := s.Get("doomed")
			if err != nil {
				t.Fatalf("Get failed: %v", err)
			}
			if got != nil {
				t.Errorf("expected program gone, got %s", got)
			}
			history, err := s.GetHistory("doomed", 0)
			if err != nil {
				t.Fatalf("GetHistory failed: %v", err)
			}
			if len(history) != 0 {
				t.Errorf("expected history gone, got %d entries", len(history))
			}
		})
	}
}

func TestVersionHistory(t *testing.T) {
	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			for _, bound := range []float64{1, 2, 3} {
				if err := s.Put("counter", sampleProgram(bound)); err != nil {
					t.Fatalf("Put failed: %v", err)
				}
			}
			// Identical payload must not create a revision.
			if err := s.Put("counter", sampleProgram(3)); err != nil {
				t.Fatalf("Put failed: %v", err)
			}

			history, err := s.GetHistory("counter", 0)
			if err != nil {
				t.Fatalf("GetHistory failed: %v", err)
			}
			if len(history) != 3 {
				t.Fatalf("expected 3 revisions, got %d", len(history))
			}
			for i, e := range history {
				if want := 3 - i; e.Version != want {
					t.Errorf("entry %d: expected version %d, got %d", i, want, e.Version)
				}
				if e.Ts == "" {
					t.Errorf("entry %d: expected timestamp", i)
				}
			}

			limited, err := s.GetHistory("counter", 2)
			if err != nil {
				t.Fatalf("GetHistory failed: %v", err)
			}
			if len(limited) != 2 || limited[0].Version != 3 {
				t.Errorf("expected newest 2 revisions, got %v", limited)
			}

			latest, err := ast.Unmarshal([]byte(history[0].Source))
			if err != nil {
				t.Fatalf("Unmarshal failed: %v", err)
			}
			if !reflect.DeepEqual(latest, sampleProgram(3)) {
				t.Errorf("expected newest source to decode to latest program, got %s", latest)
			}
		})
	}
}

func TestHistoryMissingProgram(t *testing.T) {
	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			history, err := s.GetHistory("absent", 0)
			if err != nil {
				t.Fatalf("GetHistory failed: %v", err)
			}
			if len(history) != 0 {
				t.Errorf("expected no history, got %v", history)
			}
		})
	}
}

func TestMetadata(t *testing.T) {
	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			if err := s.SetMetadata("owner", "tests"); err != nil {
				t.Fatalf("SetMetadata failed: %v", err)
			}
			v, err := s.GetMetadata("owner")
			if err != nil {
				t.Fatalf("GetMetadata failed: %v", err)
			}
			if v != "tests" {
				t.Errorf("expected tests, got %q", v)
			}

			if err := s.SetMetadata("owner", "ci"); err != nil {
				t.Fatalf("SetMetadata failed: %v", err)
			}
			v, err = s.GetMetadata("owner")
			if err != nil {
				t.Fatalf("GetMetadata failed: %v", err)
			}
			if v != "ci" {
				t.Errorf("expected ci, got %q", v)
			}

			missing, err := s.GetMetadata("absent")
			if err != nil {
				t.Fatalf("GetMetadata failed: %v", err)
			}
			if missing != "" {
				t.Errorf("expected empty value, got %q", missing)
			}
		})
	}
}

func TestSQLitePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "impel.db")

	s, err := NewSQLite(path)
	if err != nil {
		t.Fatalf("NewSQLite failed: %v", err)
	}
	program := sampleProgram(5)
	if err := s.Put("counter", program); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened, err := NewSQLite(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer reopened.Close()

	got, err := reopened.Get("counter")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !reflect.DeepEqual(program, got) {
		t.Errorf("expected program to survive reopen, got %s", got)
	}

	version, err := reopened.GetMetadata("schema_version")
	if err != nil {
		t.Fatalf("GetMetadata failed: %v", err)
	}
	if version != SchemaVersion {
		t.Errorf("expected schema version %s, got %s", SchemaVersion, version)
	}
}

func TestSQLiteRejectsUnknownSchemaVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "impel.db")

	s, err := NewSQLite(path)
	if err != nil {
		t.Fatalf("NewSQLite failed: %v", err)
	}
	if err := s.SetMetadata("schema_version", "999"); err != nil {
		t.Fatalf("SetMetadata failed: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	if _, err := NewSQLite(path); err == nil {
		t.Error("expected error for unsupported schema version")
	}
}
