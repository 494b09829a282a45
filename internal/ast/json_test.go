package ast

import (
	"reflect"
	"strings"
	"testing"
)

func TestMarshalRoundTrip(t *testing.T) {
	original := sampleProgram()

	data, err := Marshal(original)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	decoded, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if !reflect.DeepEqual(original, decoded) {
		t.Errorf("round trip mismatch:\n got %s\nwant %s", decoded, original)
	}
}

func TestMarshalZeroLiteral(t *testing.T) {
	// A zero value must survive the codec; omitempty on the literal slot
	// would silently drop it.
	data, err := Marshal(&Literal{Value: float64(0)})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	decoded, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	lit, ok := decoded.(*Literal)
	if !ok {
		t.Fatalf("expected *Literal, got %T", decoded)
	}
	if lit.Value != float64(0) {
		t.Errorf("expected 0, got %v", lit.Value)
	}
}

func TestMarshalMissingElse(t *testing.T) {
	n := &If{Cond: &Var{Name: "c"}, Then: &Var{Name: "t"}}
	data, err := Marshal(n)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if strings.Contains(string(data), "else") {
		t.Errorf("expected absent else omitted, got %s", data)
	}
	decoded, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if decoded.(*If).Else != nil {
		t.Errorf("expected nil else, got %v", decoded.(*If).Else)
	}
}

func TestUnmarshalUnknownKind(t *testing.T) {
	if _, err := Unmarshal([]byte(`{"kind":"goto","name":"x"}`)); err == nil {
		t.Error("expected error for unknown kind")
	}
}
