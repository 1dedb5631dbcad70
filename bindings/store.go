// Package bindings implements the bindings store (C3) and the two bindings
// reader formats (C4): the PROV-bindings document format and JSON v3. Both
// readers populate the same Store shape so the expander never has to know
// which format produced a given binding.
package bindings

import "github.com/openprovenance/provtemplate/qn"

// Shape distinguishes the three binding-value shapes a variable's entry in
// the store can take (spec.md §4.3).
type Shape int

const (
	ShapeNone Shape = iota
	ShapeScalar
	ShapeList
	ShapeGrid
)

// Binding is the result of looking up a variable: exactly one of Scalar,
// List, or Grid is meaningful, selected by Shape.
type Binding struct {
	Shape  Shape
	Scalar qn.Value
	List   []qn.Value
	Grid   [][]qn.Value
}

// NewScalar wraps a single value.
func NewScalar(v qn.Value) Binding { return Binding{Shape: ShapeScalar, Scalar: v} }

// NewList wraps an ordered list of values.
func NewList(vs []qn.Value) Binding { return Binding{Shape: ShapeList, List: vs} }

// NewGrid wraps a 2-D ordered list of values, collapsing a single-column
// grid down to a List as spec.md §4.4 requires ("Single-column grids
// collapse to a list").
func NewGrid(rows [][]qn.Value) Binding {
	singleColumn := true
	for _, row := range rows {
		if len(row) != 1 {
			singleColumn = false
			break
		}
	}
	if singleColumn {
		flat := make([]qn.Value, len(rows))
		for i, row := range rows {
			if len(row) == 1 {
				flat[i] = row[0]
			}
		}
		return NewList(flat)
	}
	return Binding{Shape: ShapeGrid, Grid: rows}
}

// Cardinality returns len for list/grid shapes, 1 for scalar, 0 for absent.
func (b Binding) Cardinality() int {
	switch b.Shape {
	case ShapeScalar:
		return 1
	case ShapeList:
		return len(b.List)
	case ShapeGrid:
		return len(b.Grid)
	default:
		return 0
	}
}

// Store maps variable QNs to their binding-value. It is mutated only by Put,
// used by the matcher (C6) to memoise minted vargen: values within one
// expansion call.
type Store struct {
	values map[qn.QN]Binding
}

// NewStore returns an empty bindings store.
func NewStore() *Store {
	return &Store{values: make(map[qn.QN]Binding)}
}

// Get returns the binding for v, and whether one is present.
func (s *Store) Get(v qn.QN) (Binding, bool) {
	b, ok := s.values[v]
	return b, ok
}

// Put records (or overwrites) the binding for v.
func (s *Store) Put(v qn.QN, b Binding) {
	s.values[v] = b
}

// Cardinality returns 0 for an absent variable, else Binding.Cardinality().
func (s *Store) Cardinality(v qn.QN) int {
	b, ok := s.values[v]
	if !ok {
		return 0
	}
	return b.Cardinality()
}

// Variables returns every variable QN currently bound, for diagnostics and
// tests — iteration order is not meaningful.
func (s *Store) Variables() []qn.QN {
	out := make([]qn.QN, 0, len(s.values))
	for v := range s.values {
		out = append(out, v)
	}
	return out
}
