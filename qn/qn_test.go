package qn

import "testing"

func TestParse(t *testing.T) {
	q, err := Parse("var:quote")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Prefix != "var" || q.Local != "quote" {
		t.Errorf("got %+v, want var:quote", q)
	}
	if !q.IsVar() || q.IsVarGen() {
		t.Errorf("expected var:quote to be a var, not vargen")
	}
}

func TestParse_Invalid(t *testing.T) {
	for _, s := range []string{"noColon", "too:many:colons", ""} {
		if _, err := Parse(s); err == nil {
			t.Errorf("Parse(%q): expected error, got none", s)
		}
	}
}

func TestQN_Equal(t *testing.T) {
	a := New("ex", "q1")
	b := New("ex", "q1")
	c := New("ex", "q2")
	if !a.Equal(b) {
		t.Errorf("expected %v == %v", a, b)
	}
	if a.Equal(c) {
		t.Errorf("expected %v != %v", a, c)
	}
}

func TestQN_IsVariable(t *testing.T) {
	if !New(PrefixVar, "x").IsVariable() {
		t.Error("var: should be a variable")
	}
	if !New(PrefixVarGen, "x").IsVariable() {
		t.Error("vargen: should be a variable")
	}
	if New("ex", "x").IsVariable() {
		t.Error("ex: should not be a variable")
	}
}

func TestRegistry_ReservedPrefixesSeeded(t *testing.T) {
	r := NewRegistry()
	for prefix, iri := range ReservedIRIs {
		got, ok := r.IRI(prefix)
		if !ok || got != iri {
			t.Errorf("prefix %q: got (%q, %v), want (%q, true)", prefix, got, ok, iri)
		}
	}
}

func TestRegistry_RegisterRejectsReservedOverride(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(PrefixVar, "http://example.com/nope#"); err == nil {
		t.Error("expected error overriding reserved prefix var:")
	}
}

func TestRegistry_Merge(t *testing.T) {
	r := NewRegistry()
	r.Merge(map[string]string{"ex": "http://example.com/", "var": "http://should-not-apply/"})
	if iri, ok := r.IRI("ex"); !ok || iri != "http://example.com/" {
		t.Errorf("expected ex: to merge, got (%q, %v)", iri, ok)
	}
	if iri, _ := r.IRI("var"); iri != ReservedIRIs["var"] {
		t.Errorf("expected var: to stay reserved, got %q", iri)
	}
}

func TestRegistry_Resolve(t *testing.T) {
	r := NewRegistry()
	r.Merge(map[string]string{"ex": "http://example.com/"})
	q, err := r.Resolve("ex:q1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.String() != "ex:q1" {
		t.Errorf("got %q, want ex:q1", q.String())
	}
	if _, err := r.Resolve("unknown:q1"); err == nil {
		t.Error("expected error for unknown prefix")
	}
}
