package bindings

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/openprovenance/provtemplate/prov"
	"github.com/openprovenance/provtemplate/qn"
)

// jsonV3Doc mirrors the JSON v3 wire shape from spec.md §6.
type jsonV3Doc struct {
	Context map[string]string         `json:"context"`
	Var     map[string][]jsonV3Entry  `json:"var"`
	VarGen  map[string][]jsonV3Entry  `json:"vargen"`
}

type jsonV3Entry struct {
	ID    *string `json:"@id,omitempty"`
	Value *string `json:"@value,omitempty"`
	Type  *string `json:"@type,omitempty"`
}

// ReadBindingsJSONV3 parses Format B. templateNS is the template's namespace
// registry; the bindings document's own "context" is merged into it
// (later duplicate prefix silently overwrites), and the merged registry is
// returned alongside the store, per spec.md §6's
// read_bindings_json_v3(json_value, template_ns_registry) → (store, merged_ns)
// contract.
func ReadBindingsJSONV3(raw []byte, templateNS *qn.Registry) (*Store, *qn.Registry, error) {
	var doc jsonV3Doc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, nil, prov.NewExpansionError(prov.ErrBindingsFormat, "", fmt.Sprintf("invalid JSON v3 bindings document: %v", err))
	}

	templateNS.Merge(doc.Context)

	store := NewStore()
	if err := readEntries(store, qn.PrefixVar, doc.Var, templateNS); err != nil {
		return nil, nil, err
	}
	if err := readEntries(store, qn.PrefixVarGen, doc.VarGen, templateNS); err != nil {
		return nil, nil, err
	}
	return store, templateNS, nil
}

func readEntries(store *Store, prefix string, entries map[string][]jsonV3Entry, ns *qn.Registry) error {
	for name, list := range entries {
		variable := qn.New(prefix, name)
		values := make([]qn.Value, len(list))
		for i, entry := range list {
			v, err := resolveEntry(entry, ns)
			if err != nil {
				return err
			}
			values[i] = v
		}
		store.Put(variable, NewList(values))
	}
	return nil
}

// resolveEntry turns one JSON v3 entry into a qn.Value. An @id entry that
// fails to resolve (more than one colon, or an unknown prefix) is reported
// via slog.Warn but is not fatal: the raw string is kept as a Plain value,
// per spec.md §4.4 ("Invalid @id strings ... are reported but not fatal;
// the raw object is kept").
func resolveEntry(entry jsonV3Entry, ns *qn.Registry) (qn.Value, error) {
	switch {
	case entry.ID != nil:
		q, err := ns.Resolve(*entry.ID)
		if err != nil {
			slog.Warn("bindings: could not resolve @id, keeping raw value", "id", *entry.ID, "error", err)
			return qn.NewPlain(*entry.ID), nil
		}
		return qn.NewQNValue(q), nil
	case entry.Value != nil:
		if entry.Type == nil {
			return qn.NewPlain(*entry.Value), nil
		}
		datatype := rawIRIAsQN(*entry.Type)
		return qn.NewLiteral(*entry.Value, datatype), nil
	default:
		return qn.Value{}, prov.NewExpansionError(prov.ErrBindingsFormat, "", "JSON v3 entry has neither @id nor @value")
	}
}

// rawIRIAsQN turns an @type string into a datatype QN. A string with exactly
// one colon is parsed as prefix:local (so "xsd:integer" keeps its prefix,
// and a full IRI such as "http://..." splits at its scheme colon); any other
// string is kept whole as the local part of a QN with an empty prefix.
func rawIRIAsQN(iri string) qn.QN {
	if q, err := qn.Parse(iri); err == nil {
		return q
	}
	return qn.QN{Prefix: "", Local: iri}
}
