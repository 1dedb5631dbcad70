package bindings

import (
	"testing"

	"github.com/openprovenance/provtemplate/qn"
)

func TestBinding_Cardinality(t *testing.T) {
	cases := []struct {
		name string
		b    Binding
		want int
	}{
		{"none", Binding{}, 0},
		{"scalar", NewScalar(qn.NewPlain("x")), 1},
		{"list", NewList([]qn.Value{qn.NewPlain("a"), qn.NewPlain("b")}), 2},
		{"grid", NewGrid([][]qn.Value{{qn.NewPlain("a"), qn.NewPlain("b")}, {qn.NewPlain("c"), qn.NewPlain("d")}}), 2},
	}
	for _, c := range cases {
		if got := c.b.Cardinality(); got != c.want {
			t.Errorf("%s: got %d, want %d", c.name, got, c.want)
		}
	}
}

func TestNewGrid_SingleColumnCollapsesToList(t *testing.T) {
	b := NewGrid([][]qn.Value{{qn.NewPlain("a")}, {qn.NewPlain("b")}})
	if b.Shape != ShapeList {
		t.Fatalf("expected single-column grid to collapse to list, got shape %v", b.Shape)
	}
	if len(b.List) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(b.List))
	}
}

func TestStore_GetPutCardinality(t *testing.T) {
	s := NewStore()
	v := qn.New("var", "x")
	if s.Cardinality(v) != 0 {
		t.Errorf("expected 0 cardinality for unbound variable")
	}
	s.Put(v, NewList([]qn.Value{qn.NewPlain("a"), qn.NewPlain("b"), qn.NewPlain("c")}))
	if s.Cardinality(v) != 3 {
		t.Errorf("expected cardinality 3, got %d", s.Cardinality(v))
	}
	got, ok := s.Get(v)
	if !ok || len(got.List) != 3 {
		t.Errorf("unexpected get result: %+v, %v", got, ok)
	}
}
