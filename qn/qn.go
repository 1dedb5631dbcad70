// Package qn implements the PROV qualified-name and value model: immutable
// identifiers, literals, and the namespace registry that resolves a
// "prefix:local" string to a concrete IRI. It is the leaf dependency of
// every other package in this module.
package qn

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Reserved prefixes with fixed IRIs, per the external interface contract.
const (
	PrefixVar    = "var"
	PrefixVarGen = "vargen"
	PrefixTmpl   = "tmpl"
	PrefixProv   = "prov"
	PrefixExUUID = "ex_uuid"
)

// ReservedIRIs maps every fixed-IRI prefix to its canonical IRI. These are
// seeded into every fresh Registry and cannot be overridden by template or
// bindings input (invariant: the variable namespaces never change meaning).
var ReservedIRIs = map[string]string{
	PrefixVar:    "http://openprovenance.org/var#",
	PrefixVarGen: "http://openprovenance.org/vargen#",
	PrefixTmpl:   "http://openprovenance.org/tmpl#",
	PrefixProv:   "http://www.w3.org/ns/prov#",
	PrefixExUUID: "http://example.com/uuid#",
}

// QN is a qualified name: a (namespace-prefix, local-part) pair. Equality is
// by normalised prefix+local, never by IRI alone, matching the PROV-Template
// convention that `var:x` and `vargen:x` are distinct identifiers even
// though they otherwise look alike.
type QN struct {
	Prefix string
	Local  string
}

// New constructs a QN, normalising the local part to Unicode NFC so that two
// visually identical but differently-encoded identifiers compare equal.
func New(prefix, local string) QN {
	return QN{Prefix: prefix, Local: normalise(local)}
}

func normalise(s string) string {
	return norm.NFC.String(s)
}

// Parse splits a "prefix:local" string into a QN. Exactly one colon is
// expected; zero or more-than-one is an error left to the caller (the JSON
// v3 bindings reader keeps such an @id as a plain value; the provexpand
// line-format parser reports it as a parse error).
func Parse(s string) (QN, error) {
	i := strings.IndexByte(s, ':')
	if i < 0 || strings.IndexByte(s[i+1:], ':') >= 0 {
		return QN{}, fmt.Errorf("qn: %q is not a valid prefix:local identifier", s)
	}
	return New(s[:i], s[i+1:]), nil
}

// String renders the canonical "prefix:local" form.
func (q QN) String() string {
	return q.Prefix + ":" + q.Local
}

// IsVariable reports whether q is drawn from the var: or vargen: namespace.
func (q QN) IsVariable() bool {
	return q.Prefix == PrefixVar || q.Prefix == PrefixVarGen
}

// IsVar reports whether q is a mandatory (var:) variable.
func (q QN) IsVar() bool { return q.Prefix == PrefixVar }

// IsVarGen reports whether q is an auto-generated (vargen:) variable.
func (q QN) IsVarGen() bool { return q.Prefix == PrefixVarGen }

// Equal reports structural equality after normalisation.
func (q QN) Equal(o QN) bool {
	return q.Prefix == o.Prefix && q.Local == o.Local
}
