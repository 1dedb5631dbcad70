package provtemplate

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/openprovenance/provtemplate/bindings"
	"github.com/openprovenance/provtemplate/expand"
	"github.com/openprovenance/provtemplate/mintcache"
	"github.com/openprovenance/provtemplate/prov"
	"github.com/openprovenance/provtemplate/qn"
)

// Option configures one Expand call, following the teacher's
// IngestOption/QueryOption functional-option pattern in goreason.go.
type Option func(*expandSettings)

type expandSettings struct {
	cache  *mintcache.Cache
	logger *slog.Logger
}

// WithLogger overrides the default slog.Default() logger for one call.
func WithLogger(l *slog.Logger) Option {
	return func(s *expandSettings) { s.logger = l }
}

// Expand runs the full three-phase expansion (C7) of template against
// store, per spec.md §6's `expand(template_doc, bindings_store) →
// output_doc | ExpansionError` contract. If cfg.MintCachePath is set, a
// durable mint cache is opened and scoped to this template's content hash
// (see mintcache.HashTemplate), so repeated calls against the same
// template reuse previously minted vargen: identifiers.
func Expand(template *prov.Document, store *bindings.Store, cfg Config, opts ...Option) (*prov.Document, error) {
	s := &expandSettings{logger: slog.Default()}
	for _, o := range opts {
		o(s)
	}

	expandOpts := []expand.Option{expand.WithLogger(s.logger)}

	if cfg.DeterministicMint {
		expandOpts = append(expandOpts, expand.WithMinter(deterministicMinter()))
	}

	if cfg.MintCachePath != "" {
		hash := mintcache.HashTemplate(canonicalize(template))
		cache, err := mintcache.Open(cfg.MintCachePath, hash)
		if err != nil {
			return nil, fmt.Errorf("provtemplate: opening mint cache: %w", err)
		}
		defer cache.Close()
		expandOpts = append(expandOpts, expand.WithMintCache(cache))
	}

	return expand.Expand(template, store, expandOpts...)
}

// deterministicMinter returns a Minter that mints sequential
// "det-<n>"-style local parts instead of random UUIDs, for reproducible
// test fixtures (Config.DeterministicMint).
func deterministicMinter() expand.Minter {
	next := 0
	return func(n int) []string {
		out := make([]string, n)
		for i := range out {
			out[i] = fmt.Sprintf("det-%d", next)
			next++
		}
		return out
	}
}

// canonicalize renders a stable textual form of a template document for
// content hashing — the full record listing in document order, including
// every attribute name/value and relation argument, not just element
// kind+ID (a coarser projection would let two templates differing only in
// attribute values or relation arguments collide onto the same mint-cache
// entry and silently reuse the wrong minted identifier).
func canonicalize(doc *prov.Document) string {
	type attrLine struct {
		Name  string `json:"name"`
		Value string `json:"value"`
	}
	type line struct {
		Kind  string     `json:"kind"`
		ID    string     `json:"id,omitempty"`
		Attrs []attrLine `json:"attrs,omitempty"`
		Args  []string   `json:"args,omitempty"`
	}
	canonAttrs := func(attrs []prov.Attribute) []attrLine {
		out := make([]attrLine, len(attrs))
		for i, a := range attrs {
			out[i] = attrLine{Name: a.Name.String(), Value: a.Value.String()}
		}
		return out
	}
	var lines []line
	for _, r := range doc.Records {
		switch v := r.(type) {
		case *prov.Element:
			lines = append(lines, line{
				Kind:  v.Kind.String(),
				ID:    v.ID.String(),
				Attrs: canonAttrs(v.Attributes),
			})
		case *prov.Relation:
			name, _ := prov.RelationName(v.Kind)
			args := make([]string, len(v.Formal))
			for i, fa := range v.Formal {
				if fa.Arg == nil {
					args[i] = "-"
					continue
				}
				args[i] = fa.Arg.String()
			}
			id := ""
			if v.ID != nil {
				id = v.ID.String()
			}
			lines = append(lines, line{
				Kind:  name,
				ID:    id,
				Attrs: canonAttrs(v.Extra),
				Args:  args,
			})
		}
	}
	out, _ := json.Marshal(lines)
	return string(out)
}

// ReadBindingsProvDoc parses a PROV-bindings document (Format A) into a
// bindings store, per spec.md §6/§4.4.
func ReadBindingsProvDoc(doc *prov.Document) (*bindings.Store, error) {
	return bindings.ReadBindingsProvDoc(doc)
}

// ReadBindingsJSONV3 parses a JSON v3 bindings document (Format B) into a
// bindings store and the merged namespace registry, per spec.md §6/§4.4.
func ReadBindingsJSONV3(raw []byte, templateNS *qn.Registry) (*bindings.Store, *qn.Registry, error) {
	return bindings.ReadBindingsJSONV3(raw, templateNS)
}
