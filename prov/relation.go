package prov

import (
	"fmt"

	"github.com/openprovenance/provtemplate/qn"
	deepcopy "github.com/tiendc/go-deepcopy"
)

// RelationKind enumerates the fixed PROV relation shapes this engine
// understands — an exhaustive tagged variant, not open dispatch, per the
// "replace dynamic dispatch with an exhaustive enum" design note.
type RelationKind int

const (
	Generation RelationKind = iota
	Usage
	Communication
	Start
	End
	Invalidation
	Derivation
	Attribution
	Association
	Delegation
	Influence
	Alternate
	Specialization
	Membership
)

// relationInfo describes one relation kind's name and its positional role
// names, in the order arguments are supplied and emitted.
type relationInfo struct {
	name  string
	roles []string
}

var relationTable = map[RelationKind]relationInfo{
	Generation:     {"wasGeneratedBy", []string{"entity", "activity", "time"}},
	Usage:          {"used", []string{"activity", "entity", "time"}},
	Communication:  {"wasInformedBy", []string{"informed", "informant"}},
	Start:          {"wasStartedBy", []string{"activity", "trigger", "starter", "time"}},
	End:            {"wasEndedBy", []string{"activity", "trigger", "ender", "time"}},
	Invalidation:   {"wasInvalidatedBy", []string{"entity", "activity", "time"}},
	Derivation:     {"wasDerivedFrom", []string{"generatedEntity", "usedEntity", "activity", "generation", "usage"}},
	Attribution:    {"wasAttributedTo", []string{"entity", "agent"}},
	Association:    {"wasAssociatedWith", []string{"activity", "agent", "plan"}},
	Delegation:     {"actedOnBehalfOf", []string{"delegate", "responsible", "activity"}},
	Influence:      {"wasInfluencedBy", []string{"influencee", "influencer"}},
	Alternate:      {"alternateOf", []string{"alternate1", "alternate2"}},
	Specialization: {"specializationOf", []string{"specificEntity", "generalEntity"}},
	Membership:     {"hadMember", []string{"collection", "entity"}},
}

// RelationName returns the PROV-N verb for kind, e.g. "wasGeneratedBy".
func RelationName(kind RelationKind) (string, error) {
	info, ok := relationTable[kind]
	if !ok {
		return "", fmt.Errorf("prov: %w: relation kind %d", ErrUnknownRelation, kind)
	}
	return info.name, nil
}

// RelationRoles returns the ordered role names for kind.
func RelationRoles(kind RelationKind) ([]string, error) {
	info, ok := relationTable[kind]
	if !ok {
		return nil, fmt.Errorf("prov: %w: relation kind %d", ErrUnknownRelation, kind)
	}
	return info.roles, nil
}

// FormalArg is one positional argument slot of a relation: a role name
// (from RelationRoles) paired with an optional identifier. A nil Arg means
// the position is explicitly absent ("None"), which spec.md §3 permits.
type FormalArg struct {
	Role string
	Arg  *qn.QN
}

// Relation is a PROV relation record: up to five positional arguments plus
// any number of free extra attributes.
type Relation struct {
	Kind  RelationKind
	ID    *qn.QN // optional relation identifier
	Formal []FormalArg
	Extra  []Attribute
}

// NewRelation builds a Relation for kind, validating that len(args) matches
// the kind's fixed arity. An id of nil means the relation is anonymous.
// An unknown kind is the fatal UnknownRelation error from the taxonomy —
// the builder is total, so every caller gets a definite answer.
func NewRelation(kind RelationKind, id *qn.QN, args []*qn.QN, extra []Attribute) (*Relation, error) {
	roles, err := RelationRoles(kind)
	if err != nil {
		return nil, err
	}
	if len(args) != len(roles) {
		return nil, fmt.Errorf("prov: relation %s expects %d arguments, got %d", mustName(kind), len(roles), len(args))
	}
	formal := make([]FormalArg, len(roles))
	for i, role := range roles {
		formal[i] = FormalArg{Role: role, Arg: args[i]}
	}
	return &Relation{Kind: kind, ID: id, Formal: formal, Extra: extra}, nil
}

func mustName(kind RelationKind) string {
	name, err := RelationName(kind)
	if err != nil {
		return fmt.Sprintf("relation(%d)", kind)
	}
	return name
}

// CloneRelation returns a deep, independent copy of rel: its ID pointer,
// Formal argument pointers, and Extra attributes are all copied rather than
// shared, so that per-index expansion of a linked group never aliases one
// expanded relation's argument with another's.
func CloneRelation(rel *Relation) (*Relation, error) {
	if rel == nil {
		return nil, nil
	}
	var out Relation
	if err := deepcopy.Copy(&out, rel); err != nil {
		return nil, fmt.Errorf("prov: cloning relation: %w", err)
	}
	return &out, nil
}
