// Package provtemplate implements a W3C PROV template expansion engine:
// given a PROV template document containing var:/vargen: variables and a
// bindings store mapping those variables to concrete values, it produces a
// fully instantiated PROV document. See the qn, prov, bindings, and expand
// sub-packages for the value model, document model, bindings store/readers,
// and the expansion algorithm itself, respectively.
package provtemplate

import "github.com/openprovenance/provtemplate/qn"

// Config holds the process-wide tunables for an expansion run, following
// the teacher's Config/DefaultConfig shape (config.go's DBPath/DBName/
// StorageDir fields generalised to this engine's concerns).
type Config struct {
	// ReservedNamespaces holds a copy of the five fixed-IRI prefixes
	// (var/vargen/tmpl/prov/ex_uuid). Expand does not read it: the
	// registries always use qn.ReservedIRIs, so changing this map does not
	// alter the IRIs used during expansion.
	ReservedNamespaces map[string]string

	// MintCachePath, if non-empty, enables a durable SQLite-backed mint
	// cache (mintcache package) at this file path so that repeated
	// expansions of the same template reuse previously minted vargen:
	// identifiers. Empty disables persistence (the default): minting is
	// purely in-memory for the lifetime of one Expand call.
	MintCachePath string

	// DeterministicMint, if true, replaces the default crypto-random
	// UUIDv4 minter with a monotonic counter-based one — for
	// reproducible test fixtures and golden-file comparisons.
	DeterministicMint bool
}

// DefaultConfig returns a Config seeded with the five reserved namespaces
// and persistence disabled, mirroring the teacher's zero-value-safe
// default plus explicit opt-in for persistence.
func DefaultConfig() Config {
	reserved := make(map[string]string, len(qn.ReservedIRIs))
	for prefix, iri := range qn.ReservedIRIs {
		reserved[prefix] = iri
	}
	return Config{
		ReservedNamespaces: reserved,
		MintCachePath:      "",
		DeterministicMint:  false,
	}
}
