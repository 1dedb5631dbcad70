package prov

import (
	"errors"
	"testing"

	"github.com/openprovenance/provtemplate/qn"
)

func TestDocument_AddRecordOrderPreserved(t *testing.T) {
	d := NewDocument()
	e1 := NewEntity(qn.New("ex", "q1"), nil)
	e2 := NewEntity(qn.New("ex", "q2"), nil)
	d.AddRecord(e1)
	d.AddRecord(e2)

	got := d.Elements()
	if len(got) != 2 || got[0] != e1 || got[1] != e2 {
		t.Fatalf("expected order-preserving elements, got %+v", got)
	}
}

func TestNewRelation_ArityMismatch(t *testing.T) {
	id := qn.New("ex", "a1")
	_, err := NewRelation(Attribution, nil, []*qn.QN{&id}, nil) // Attribution needs 2 args
	if err == nil {
		t.Fatal("expected arity mismatch error")
	}
}

func TestNewRelation_UnknownKind(t *testing.T) {
	_, err := NewRelation(RelationKind(999), nil, nil, nil)
	if !errors.Is(err, ErrUnknownRelation) {
		t.Fatalf("expected ErrUnknownRelation, got %v", err)
	}
}

func TestNewRelation_Valid(t *testing.T) {
	entity := qn.New("ex", "e1")
	agent := qn.New("ex", "g1")
	rel, err := NewRelation(Attribution, nil, []*qn.QN{&entity, &agent}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rel.Formal) != 2 || rel.Formal[0].Role != "entity" || rel.Formal[1].Role != "agent" {
		t.Fatalf("unexpected formal args: %+v", rel.Formal)
	}
}

func TestCloneRelation_Independent(t *testing.T) {
	entity := qn.New("ex", "e1")
	rel, err := NewRelation(Specialization, nil, []*qn.QN{&entity, nil}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	clone, err := CloneRelation(rel)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	*clone.Formal[0].Arg = qn.New("ex", "mutated")
	if rel.Formal[0].Arg.Local == "mutated" {
		t.Fatal("expected clone to be independent of original")
	}
}

func TestRelationRoles_AllKindsCovered(t *testing.T) {
	kinds := []RelationKind{
		Generation, Usage, Communication, Start, End, Invalidation, Derivation,
		Attribution, Association, Delegation, Influence, Alternate, Specialization, Membership,
	}
	for _, k := range kinds {
		roles, err := RelationRoles(k)
		if err != nil {
			t.Errorf("kind %d: unexpected error: %v", k, err)
		}
		if len(roles) == 0 {
			t.Errorf("kind %d: expected non-empty roles", k)
		}
	}
}
