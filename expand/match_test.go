package expand

import (
	"testing"

	"github.com/openprovenance/provtemplate/bindings"
	"github.com/openprovenance/provtemplate/qn"
)

func counterMinter() Minter {
	n := 0
	return func(k int) []string {
		out := make([]string, k)
		for i := range out {
			n++
			out[i] = "id" + string(rune('0'+n))
		}
		return out
	}
}

func TestMatcher_ResolveIdentifier_NonVariableBroadcasts(t *testing.T) {
	m := NewMatcher(bindings.NewStore())
	vals, unbound, err := m.ResolveIdentifier(qn.New("ex", "fixed"), 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if unbound {
		t.Fatal("concrete identifier must never be unbound")
	}
	if len(vals) != 3 || vals[0].QN.String() != "ex:fixed" || vals[2].QN.String() != "ex:fixed" {
		t.Fatalf("unexpected broadcast: %+v", vals)
	}
}

func TestMatcher_ResolveIdentifier_UnboundVarIsUnbound(t *testing.T) {
	m := NewMatcher(bindings.NewStore())
	_, unbound, err := m.ResolveIdentifier(qn.New("var", "x"), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !unbound {
		t.Fatal("expected unbound var: to report unbound=true")
	}
}

func TestMatcher_ResolveIdentifier_UnboundVarGenMints(t *testing.T) {
	store := bindings.NewStore()
	m := NewMatcher(store)
	m.Minter = counterMinter()

	vals, unbound, err := m.ResolveIdentifier(qn.New("vargen", "x"), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if unbound {
		t.Fatal("vargen: should never report unbound")
	}
	if len(vals) != 2 || vals[0].QN.Prefix != qn.PrefixExUUID {
		t.Fatalf("expected two ex_uuid: identifiers, got %+v", vals)
	}

	// property P5: a second resolution of the same variable returns the
	// same memoised sequence, not a freshly minted one.
	again, _, err := m.ResolveIdentifier(qn.New("vargen", "x"), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if again[0].QN != vals[0].QN || again[1].QN != vals[1].QN {
		t.Fatalf("expected memoised identifiers to be reused, got %+v vs %+v", vals, again)
	}
}

func TestMatcher_ResolveIdentifier_ListCardinalityMismatch(t *testing.T) {
	store := bindings.NewStore()
	store.Put(qn.New("var", "a"), bindings.NewList([]qn.Value{qn.NewPlain("x"), qn.NewPlain("y")}))
	m := NewMatcher(store)

	_, _, err := m.ResolveIdentifier(qn.New("var", "a"), 3)
	if err == nil {
		t.Fatal("expected error for cardinality mismatch")
	}
}

func TestMatcher_ResolveIdentifier_ScalarBroadcasts(t *testing.T) {
	store := bindings.NewStore()
	store.Put(qn.New("var", "a"), bindings.NewScalar(qn.NewPlain("x")))
	m := NewMatcher(store)

	vals, _, err := m.ResolveIdentifier(qn.New("var", "a"), 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vals) != 3 || vals[1].Text != "x" {
		t.Fatalf("unexpected scalar broadcast: %+v", vals)
	}
}

func TestMatcher_ResolveAttributeAt_ListIndexed(t *testing.T) {
	store := bindings.NewStore()
	store.Put(qn.New("var", "a"), bindings.NewList([]qn.Value{qn.NewPlain("x"), qn.NewPlain("y")}))
	m := NewMatcher(store)

	vals, present, err := m.ResolveAttributeAt(qn.NewQNValue(qn.New("var", "a")), 1, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !present || len(vals) != 1 || vals[0].Text != "y" {
		t.Fatalf("unexpected resolution: %+v", vals)
	}
}

func TestMatcher_ResolveAttributeAt_UnboundVarIsOmitted(t *testing.T) {
	m := NewMatcher(bindings.NewStore())
	vals, present, err := m.ResolveAttributeAt(qn.NewQNValue(qn.New("var", "a")), 0, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if present || vals != nil {
		t.Fatalf("expected omission, got present=%v vals=%+v", present, vals)
	}
}

func TestMatcher_ResolveAttributeAt_GridRowFansOut(t *testing.T) {
	store := bindings.NewStore()
	store.Put(qn.New("var", "a"), bindings.NewGrid([][]qn.Value{
		{qn.NewPlain("r0c0"), qn.NewPlain("r0c1")},
		{qn.NewPlain("r1c0"), qn.NewPlain("r1c1")},
	}))
	m := NewMatcher(store)

	vals, present, err := m.ResolveAttributeAt(qn.NewQNValue(qn.New("var", "a")), 1, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !present || len(vals) != 2 || vals[0].Text != "r1c0" || vals[1].Text != "r1c1" {
		t.Fatalf("unexpected grid row: %+v", vals)
	}
}

func TestMatcher_ResolveAttributeAt_NonVariableValuePassesThrough(t *testing.T) {
	m := NewMatcher(bindings.NewStore())
	lit := qn.NewLiteral("hello", qn.QN{})
	vals, present, err := m.ResolveAttributeAt(lit, 0, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !present || len(vals) != 1 || vals[0].Text != "hello" {
		t.Fatalf("unexpected passthrough: %+v", vals)
	}
}
