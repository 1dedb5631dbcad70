// Package prov implements the PROV document model: the record and
// attribute types shared by templates and their expanded output, plus the
// fixed-arity relation table from the PROV data model. Nothing in this
// package knows about variables or bindings — that is expand's job; prov
// only knows how to hold and build well-formed records.
package prov

import (
	"github.com/openprovenance/provtemplate/qn"
	deepcopy "github.com/tiendc/go-deepcopy"
)

// Attribute is a (name, value) pair. Repeated names are permitted on a
// single record — a record's Attributes field is an ordered list, not a map.
type Attribute struct {
	Name  qn.QN
	Value qn.Value
}

// ElementKind distinguishes the three PROV node kinds.
type ElementKind int

const (
	EntityKind ElementKind = iota
	ActivityKind
	AgentKind
)

func (k ElementKind) String() string {
	switch k {
	case EntityKind:
		return "entity"
	case ActivityKind:
		return "activity"
	case AgentKind:
		return "agent"
	default:
		return "unknown"
	}
}

// Element is an entity, activity, or agent record.
type Element struct {
	Kind       ElementKind
	ID         qn.QN
	Attributes []Attribute
}

// Record is implemented by Element and Relation, the two record shapes a
// Document (or Bundle) can hold.
type Record interface {
	isRecord()
}

func (*Element) isRecord() {}
func (*Relation) isRecord() {}

// CloneAttributes returns a deep, independent copy of attrs so that
// template records can be reused across repeated expansions without risk
// of the expander's substitution mutating shared backing arrays. Uses
// go-deepcopy rather than a manual field-by-field copy because Attribute
// values may grow nested fields (grid-resolved multi-value attributes) that
// a shallow slice copy would alias.
func CloneAttributes(attrs []Attribute) []Attribute {
	if attrs == nil {
		return nil
	}
	var out []Attribute
	if err := deepcopy.Copy(&out, &attrs); err != nil {
		// Attribute has no unexported or uncopyable fields; deepcopy can only
		// fail here on a library bug, not on well-formed input.
		out = append(out[:0], attrs...)
	}
	return out
}
