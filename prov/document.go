package prov

import "github.com/openprovenance/provtemplate/qn"

// Document is an ordered list of records plus zero or more bundles, with a
// namespace registry attached at document level. Bundles inherit the
// document's registry (spec.md §3).
type Document struct {
	Namespaces *qn.Registry
	Records    []Record
	Bundles    []*Bundle
}

// Bundle is a named sub-document; its records are scoped to the bundle but
// share the parent document's namespace registry.
type Bundle struct {
	ID      qn.QN
	Records []Record
}

// NewDocument returns an empty document seeded with the reserved namespaces.
func NewDocument() *Document {
	return &Document{Namespaces: qn.NewRegistry()}
}

// NewElement builds an element record of the given kind.
func NewElement(kind ElementKind, id qn.QN, attrs []Attribute) *Element {
	return &Element{Kind: kind, ID: id, Attributes: attrs}
}

// NewEntity, NewActivity, and NewAgent are thin convenience wrappers over
// NewElement, matching the shape of a record builder exposed per element
// kind (spec.md §4.2).
func NewEntity(id qn.QN, attrs []Attribute) *Element   { return NewElement(EntityKind, id, attrs) }
func NewActivity(id qn.QN, attrs []Attribute) *Element { return NewElement(ActivityKind, id, attrs) }
func NewAgent(id qn.QN, attrs []Attribute) *Element    { return NewElement(AgentKind, id, attrs) }

// AddRecord appends a record, preserving insertion order.
func (d *Document) AddRecord(r Record) {
	d.Records = append(d.Records, r)
}

// AddBundle appends a bundle.
func (d *Document) AddBundle(b *Bundle) {
	d.Bundles = append(d.Bundles, b)
}

// Elements returns the Element records in the document, in order.
func (d *Document) Elements() []*Element {
	var out []*Element
	for _, r := range d.Records {
		if e, ok := r.(*Element); ok {
			out = append(out, e)
		}
	}
	return out
}

// Relations returns the Relation records in the document, in order.
func (d *Document) Relations() []*Relation {
	var out []*Relation
	for _, r := range d.Records {
		if rel, ok := r.(*Relation); ok {
			out = append(out, rel)
		}
	}
	return out
}

// Elements/Relations on a Bundle mirror the Document accessors, since a
// bundle is itself just a scoped record list (spec.md §4.7 Phase 3).
func (b *Bundle) Elements() []*Element {
	var out []*Element
	for _, r := range b.Records {
		if e, ok := r.(*Element); ok {
			out = append(out, e)
		}
	}
	return out
}

func (b *Bundle) Relations() []*Relation {
	var out []*Relation
	for _, r := range b.Records {
		if rel, ok := r.(*Relation); ok {
			out = append(out, rel)
		}
	}
	return out
}
