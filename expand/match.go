package expand

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/openprovenance/provtemplate/bindings"
	"github.com/openprovenance/provtemplate/prov"
	"github.com/openprovenance/provtemplate/qn"
)

// MintCache is the optional durable backing for vargen: minting, so that
// repeated expansions of the same template+bindings pair reuse identifiers
// instead of minting fresh ones each run. A nil MintCache (the default)
// means minting is purely in-memory for the lifetime of one Expand call.
type MintCache interface {
	Lookup(variable string) ([]string, bool, error)
	Store(variable string, ids []string) error
}

// Minter produces n fresh local-part strings for vargen: identifiers. The
// default is UUIDv4 (google/uuid), matching spec.md §4.6's "UUIDv4 local
// parts"; tests substitute a deterministic counter.
type Minter func(n int) []string

// UUIDMinter mints n random UUIDv4 strings.
func UUIDMinter(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = uuid.NewString()
	}
	return out
}

// Matcher resolves template Values against a bindings store (C6),
// memoising freshly minted vargen: identifiers in the store itself so a
// variable referenced from both a node and a relation resolves to the same
// sequence (property P5).
type Matcher struct {
	Store  *bindings.Store
	Minter Minter
	Cache  MintCache
}

// NewMatcher returns a Matcher with the default UUIDv4 minter.
func NewMatcher(store *bindings.Store) *Matcher {
	return &Matcher{Store: store, Minter: UUIDMinter}
}

// ResolveIdentifier resolves v (an element identifier or a relation
// argument) to exactly n values, minting or broadcasting as needed.
// unbound is true when v is a var: with no binding — callers in element
// identifier position must treat that as fatal (UnboundMandatoryVariable);
// callers in relation argument position tolerate it by omitting the
// dimension (spec.md §4.6).
func (m *Matcher) ResolveIdentifier(v qn.QN, n int) (values []qn.Value, unbound bool, err error) {
	if !v.IsVariable() {
		values = make([]qn.Value, n)
		for i := range values {
			values[i] = qn.NewQNValue(v)
		}
		return values, false, nil
	}

	b, ok := m.Store.Get(v)
	if !ok {
		if v.IsVarGen() {
			minted, err := m.mint(v, n)
			if err != nil {
				return nil, false, err
			}
			return minted, false, nil
		}
		return nil, true, nil
	}

	vals, err := m.expandBinding(v, b, n)
	if err != nil {
		return nil, false, err
	}
	return vals, false, nil
}

// expandBinding materialises a (non-grid) binding to exactly n values,
// broadcasting a scalar or length-1 list.
func (m *Matcher) expandBinding(owner qn.QN, b bindings.Binding, n int) ([]qn.Value, error) {
	switch b.Shape {
	case bindings.ShapeScalar:
		out := make([]qn.Value, n)
		for i := range out {
			out[i] = b.Scalar
		}
		return out, nil
	case bindings.ShapeList:
		if len(b.List) == n {
			return b.List, nil
		}
		if len(b.List) == 1 {
			out := make([]qn.Value, n)
			for i := range out {
				out[i] = b.List[0]
			}
			return out, nil
		}
		return nil, prov.NewExpansionError(prov.ErrIncorrectBindingsForStatement,
			owner.String(), fmt.Sprintf("expected %d bound values, found %d", n, len(b.List)))
	case bindings.ShapeGrid:
		return nil, prov.NewExpansionError(prov.ErrBindingsFormat,
			owner.String(), "grid bindings are not valid in identifier position")
	default:
		out := make([]qn.Value, n)
		return out, nil
	}
}

// ResolveAttributeAt resolves a single attribute value at expansion index
// idx (of n total), per spec.md §4.7 Phase 1 step 1: a scalar/length-1
// list broadcasts, a matching-length list is indexed, and a grid row fans
// out into multiple values sharing the same attribute name. present=false
// means the attribute should be omitted at this index (an unbound var:
// attribute value — spec.md is silent on this case; this engine omits
// rather than emitting a dangling variable).
func (m *Matcher) ResolveAttributeAt(val qn.Value, idx, n int) (values []qn.Value, present bool, err error) {
	if val.Kind != qn.KindQN || !val.QN.IsVariable() {
		return []qn.Value{val}, true, nil
	}
	v := val.QN

	b, ok := m.Store.Get(v)
	if !ok {
		if !v.IsVarGen() {
			return nil, false, nil
		}
		minted, err := m.mint(v, n)
		if err != nil {
			return nil, false, err
		}
		return []qn.Value{minted[idx]}, true, nil
	}

	switch b.Shape {
	case bindings.ShapeScalar:
		return []qn.Value{b.Scalar}, true, nil
	case bindings.ShapeList:
		if len(b.List) == 1 {
			return []qn.Value{b.List[0]}, true, nil
		}
		if idx < len(b.List) {
			return []qn.Value{b.List[idx]}, true, nil
		}
		return nil, false, prov.NewExpansionError(prov.ErrIncorrectBindingsForStatement,
			v.String(), fmt.Sprintf("attribute value index %d out of range (have %d)", idx, len(b.List)))
	case bindings.ShapeGrid:
		if idx < len(b.Grid) {
			return b.Grid[idx], true, nil
		}
		return nil, false, prov.NewExpansionError(prov.ErrIncorrectBindingsForStatement,
			v.String(), fmt.Sprintf("grid row index %d out of range (have %d)", idx, len(b.Grid)))
	default:
		return nil, false, nil
	}
}

// mint returns n fresh identifiers for vargen: variable v, consulting the
// mint cache first (if configured) and memoising the result in the
// bindings store so subsequent references to v within this expansion — and
// any future Lookup against the same cache — see the same sequence
// (property P5).
func (m *Matcher) mint(v qn.QN, n int) ([]qn.Value, error) {
	if cached, ok, err := m.lookupCache(v); err != nil {
		return nil, err
	} else if ok && len(cached) == n {
		values := make([]qn.Value, n)
		for i, local := range cached {
			values[i] = qn.NewQNValue(qn.New(qn.PrefixExUUID, local))
		}
		m.Store.Put(v, bindings.NewList(values))
		return values, nil
	}

	locals := m.minter()(n)
	values := make([]qn.Value, n)
	for i, local := range locals {
		values[i] = qn.NewQNValue(qn.New(qn.PrefixExUUID, local))
	}
	m.Store.Put(v, bindings.NewList(values))

	if m.Cache != nil {
		if err := m.Cache.Store(v.String(), locals); err != nil {
			return nil, fmt.Errorf("expand: persisting minted identifiers for %s: %w", v, err)
		}
	}
	return values, nil
}

func (m *Matcher) minter() Minter {
	if m.Minter != nil {
		return m.Minter
	}
	return UUIDMinter
}

func (m *Matcher) lookupCache(v qn.QN) ([]string, bool, error) {
	if m.Cache == nil {
		return nil, false, nil
	}
	return m.Cache.Lookup(v.String())
}
