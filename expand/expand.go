package expand

import (
	"fmt"
	"log/slog"

	"github.com/openprovenance/provtemplate/bindings"
	"github.com/openprovenance/provtemplate/prov"
	"github.com/openprovenance/provtemplate/qn"
)

// Option configures an Expander. Following the teacher's functional-option
// style (see goreason.go's IngestOption/QueryOption), options are applied
// before Expand runs and never mutate the template or bindings store.
type Option func(*Expander)

// WithMinter overrides the default UUIDv4 minter — used by tests that need
// deterministic vargen: identifiers.
func WithMinter(m Minter) Option {
	return func(e *Expander) { e.minter = m }
}

// WithMintCache wires an optional durable mint cache (C10).
func WithMintCache(c MintCache) Option {
	return func(e *Expander) { e.cache = c }
}

// WithLogger overrides the package-level default logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Expander) { e.logger = l }
}

// Expander orchestrates the three-phase expansion described in spec.md §4.7.
// It is single-shot and stateless across calls: construct one per Expand
// invocation (see Expand below), matching the teacher's request-scoped
// style of building fresh per-call state rather than keeping a long-lived
// mutable engine (graph/builder.go does the same for each ingest call).
type Expander struct {
	minter Minter
	cache  MintCache
	logger *slog.Logger
}

// Expand runs the full expansion: Phase 1 (elements), Phase 2 (relations),
// Phase 3 (bundles), in that order, first-failure semantics (spec.md §4.7).
func Expand(template *prov.Document, store *bindings.Store, opts ...Option) (*prov.Document, error) {
	e := &Expander{logger: slog.Default()}
	for _, o := range opts {
		o(e)
	}

	matcher := NewMatcher(store)
	if e.minter != nil {
		matcher.Minter = e.minter
	}
	matcher.Cache = e.cache

	out := prov.NewDocument()
	out.Namespaces = template.Namespaces

	records, err := e.expandRecordSet(template.Elements(), template.Relations(), store, matcher)
	if err != nil {
		return nil, err
	}
	out.Records = records

	for _, b := range template.Bundles {
		outBundle, err := e.expandBundle(b, store, matcher)
		if err != nil {
			return nil, err
		}
		out.AddBundle(outBundle)
	}

	return out, nil
}

func (e *Expander) expandBundle(b *prov.Bundle, store *bindings.Store, matcher *Matcher) (*prov.Bundle, error) {
	id := b.ID
	var resolvedID qn.QN
	if id.IsVariable() {
		vals, unbound, err := matcher.ResolveIdentifier(id, 1)
		if err != nil {
			return nil, err
		}
		if unbound {
			return nil, prov.NewExpansionError(prov.ErrUnboundMandatoryVariable, id.String(), "bundle identifier variable is unbound")
		}
		resolvedID = vals[0].QN
	} else {
		resolvedID = id
	}

	records, err := e.expandRecordSet(b.Elements(), b.Relations(), store, matcher)
	if err != nil {
		return nil, err
	}
	return &prov.Bundle{ID: resolvedID, Records: records}, nil
}

// expandRecordSet implements Phase 1 and Phase 2 over one record set
// (the document's top level, or one bundle's). Elements are emitted first
// in topological order, then relations in template order, matching the
// ordering guarantees of spec.md §5.
func (e *Expander) expandRecordSet(elements []*prov.Element, relations []*prov.Relation, store *bindings.Store, matcher *Matcher) ([]prov.Record, error) {
	byID := make(map[qn.QN]*prov.Element, len(elements))
	for _, el := range elements {
		byID[el.ID] = el
	}

	analysis, err := Analyse(elements, store)
	if err != nil {
		return nil, err
	}

	var out []prov.Record

	for _, node := range analysis.Order {
		tmplElem := byID[node]
		group := analysis.Groups[analysis.GroupOf[node]]
		n := group.Cardinality

		ids, unbound, err := matcher.ResolveIdentifier(node, n)
		if err != nil {
			return nil, err
		}
		if unbound {
			return nil, prov.NewExpansionError(prov.ErrUnboundMandatoryVariable, node.String(), "element identifier variable is unbound")
		}

		e.logger.Debug("expand: emitting element group", "node", node.String(), "cardinality", n)

		for i := 0; i < n; i++ {
			attrs, err := resolveElementAttributes(tmplElem.Attributes, matcher, i, n)
			if err != nil {
				return nil, err
			}
			out = append(out, prov.NewElement(tmplElem.Kind, ids[i].QN, attrs))
		}
	}

	for _, rel := range relations {
		relRecords, err := e.expandRelation(rel, analysis, store, matcher)
		if err != nil {
			return nil, err
		}
		out = append(out, relRecords...)
	}

	return out, nil
}

// resolveElementAttributes resolves every template attribute at expansion
// index i (of n), dropping the tmpl:linked hint itself (a template-authoring
// directive, never part of the output) and fanning out grid rows into
// repeated attribute names.
func resolveElementAttributes(attrs []prov.Attribute, matcher *Matcher, i, n int) ([]prov.Attribute, error) {
	var out []prov.Attribute
	for _, a := range attrs {
		if a.Name.Prefix == qn.PrefixTmpl && a.Name.Local == linkedAttr {
			continue
		}
		vals, present, err := matcher.ResolveAttributeAt(a.Value, i, n)
		if err != nil {
			return nil, err
		}
		if !present {
			continue
		}
		for _, v := range vals {
			out = append(out, prov.Attribute{Name: a.Name, Value: v})
		}
	}
	return prov.CloneAttributes(out), nil
}

// expandRelation implements spec.md §4.7 Phase 2 for a single template
// relation: group its arguments, compute the cartesian/zip product, and
// emit one output Relation per combination.
func (e *Expander) expandRelation(rel *prov.Relation, analysis *Analysis, store *bindings.Store, matcher *Matcher) ([]prov.Record, error) {
	if _, err := prov.RelationName(rel.Kind); err != nil {
		return nil, err
	}

	argKeys := make([]*string, len(rel.Formal))
	argVals := make([][]qn.Value, len(rel.Formal))
	cardinality := map[string]int{}
	var keyOrder []string

	for i, fa := range rel.Formal {
		if fa.Arg == nil {
			continue
		}
		argQN := *fa.Arg
		if !argQN.IsVariable() {
			continue
		}

		var key string
		var n int
		if gid, ok := analysis.GroupOf[argQN]; ok {
			key = fmt.Sprintf("group:%d", gid)
			n = analysis.Groups[gid].Cardinality
		} else {
			key = "var:" + argQN.String()
			n = store.Cardinality(argQN)
			if n == 0 {
				n = 1
			}
		}
		argKeys[i] = &key

		vals, unbound, err := matcher.ResolveIdentifier(argQN, n)
		if err != nil {
			return nil, err
		}
		if unbound {
			// Tolerated per spec.md §4.6: an unbound var: in relation
			// argument position yields an unexpanded edge, which is simply
			// omitted — no output records for this template relation, no
			// error.
			e.logger.Debug("expand: omitting relation, unbound argument", "variable", argQN.String())
			return nil, nil
		}
		argVals[i] = vals
		if _, already := cardinality[key]; !already {
			cardinality[key] = n
			keyOrder = append(keyOrder, key)
		}
	}

	total := 1
	for _, k := range keyOrder {
		total *= cardinality[k]
	}
	if total == 0 {
		return nil, nil
	}

	idSeq, err := e.resolveRelationID(rel.ID, total, matcher)
	if err != nil {
		return nil, err
	}

	var out []prov.Record
	ordinal := 0
	err = cartesian(keyOrder, cardinality, func(idx map[string]int) error {
		formalOut := make([]prov.FormalArg, len(rel.Formal))
		for i, fa := range rel.Formal {
			if fa.Arg == nil {
				formalOut[i] = prov.FormalArg{Role: fa.Role, Arg: nil}
				continue
			}
			argQN := *fa.Arg
			if !argQN.IsVariable() {
				v := argQN
				formalOut[i] = prov.FormalArg{Role: fa.Role, Arg: &v}
				continue
			}
			key := *argKeys[i]
			val := argVals[i][idx[key]]
			q := val.QN
			formalOut[i] = prov.FormalArg{Role: fa.Role, Arg: &q}
		}

		var extraOut []prov.Attribute
		for _, a := range rel.Extra {
			vals, present, err := matcher.ResolveAttributeAt(a.Value, ordinal, total)
			if err != nil {
				return err
			}
			if !present {
				continue
			}
			for _, v := range vals {
				extraOut = append(extraOut, prov.Attribute{Name: a.Name, Value: v})
			}
		}

		var id *qn.QN
		if idSeq != nil {
			id = idSeq[ordinal]
		}
		cloned, err := prov.CloneRelation(rel)
		if err != nil {
			return err
		}
		cloned.ID = id
		cloned.Formal = formalOut
		cloned.Extra = prov.CloneAttributes(extraOut)
		out = append(out, cloned)
		ordinal++
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// resolveRelationID implements spec.md §4.7 Phase 2 step 4c: an explicit
// bound id (scalar/list, length must equal total), a freshly minted QN per
// expansion for vargen: ids, None for unbound var: ids, or the concrete ID
// verbatim.
func (e *Expander) resolveRelationID(id *qn.QN, total int, matcher *Matcher) ([]*qn.QN, error) {
	out := make([]*qn.QN, total)
	if id == nil {
		return out, nil
	}
	if !id.IsVariable() {
		for i := range out {
			v := *id
			out[i] = &v
		}
		return out, nil
	}

	if b, ok := matcher.Store.Get(*id); ok && b.Cardinality() != total {
		return nil, prov.NewExpansionError(prov.ErrIncorrectBindingsForStatement,
			id.String(), fmt.Sprintf("relation expands to %d copies, identifier is bound to %d values", total, b.Cardinality()))
	}
	vals, unbound, err := matcher.ResolveIdentifier(*id, total)
	if err != nil {
		return nil, err
	}
	if unbound {
		return out, nil // all nil: rule (c)
	}
	for i, v := range vals {
		q := v.QN
		out[i] = &q
	}
	return out, nil
}

// cartesian calls cb once per combination of indices across keys, in
// nested-loop order with keys[0] as the outermost loop — matching spec.md
// §5's "outermost = first cartesian group" ordering guarantee.
func cartesian(keys []string, card map[string]int, cb func(idx map[string]int) error) error {
	idx := make(map[string]int, len(keys))
	var rec func(pos int) error
	rec = func(pos int) error {
		if pos == len(keys) {
			return cb(idx)
		}
		k := keys[pos]
		for i := 0; i < card[k]; i++ {
			idx[k] = i
			if err := rec(pos + 1); err != nil {
				return err
			}
		}
		return nil
	}
	if len(keys) == 0 {
		return cb(idx)
	}
	return rec(0)
}
