package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/openprovenance/provtemplate/prov"
	"github.com/openprovenance/provtemplate/qn"
)

// This file implements a minimal internal line format — NOT PROV-N, PROV-XML,
// Turtle, or RDF/XML — sufficient to exercise the engine end-to-end without
// pulling in a real serialisation library, which spec.md §1 places out of
// scope for the core ("PROV document serialisation/parsing ... specified
// only in §6" as an external collaborator concern).
//
// Grammar (one record per line, whitespace-separated fields):
//
//	entity   <qn> [name=value ...]
//	activity <qn> [name=value ...]
//	agent    <qn> [name=value ...]
//	relation <verb> <id-or-dash> <arg-or-dash> ... [name=value ...]
//
// A value is either a quoted plain literal ("text"), typed literal
// ("text"^^prefix:local), or a bare prefix:local identifier. "-" marks an
// absent (None) relation argument or identifier.

var verbToKind = map[string]prov.RelationKind{
	"wasGeneratedBy":    prov.Generation,
	"used":              prov.Usage,
	"wasInformedBy":     prov.Communication,
	"wasStartedBy":      prov.Start,
	"wasEndedBy":        prov.End,
	"wasInvalidatedBy":  prov.Invalidation,
	"wasDerivedFrom":    prov.Derivation,
	"wasAttributedTo":   prov.Attribution,
	"wasAssociatedWith": prov.Association,
	"actedOnBehalfOf":   prov.Delegation,
	"wasInfluencedBy":   prov.Influence,
	"alternateOf":       prov.Alternate,
	"specializationOf":  prov.Specialization,
	"hadMember":         prov.Membership,
}

// ParseDocument reads the internal line format into a template Document.
func ParseDocument(r io.Reader) (*prov.Document, error) {
	doc := prov.NewDocument()
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields, err := tokenizeLine(line)
		if err != nil {
			return nil, fmt.Errorf("provexpand: line %d: %w", lineNo, err)
		}
		rec, err := parseRecord(fields)
		if err != nil {
			return nil, fmt.Errorf("provexpand: line %d: %w", lineNo, err)
		}
		doc.AddRecord(rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("provexpand: reading template: %w", err)
	}
	return doc, nil
}

func parseRecord(fields []string) (prov.Record, error) {
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty record")
	}
	kind := fields[0]
	switch kind {
	case "entity", "activity", "agent":
		if len(fields) < 2 {
			return nil, fmt.Errorf("%s: missing identifier", kind)
		}
		id, err := qn.Parse(fields[1])
		if err != nil {
			return nil, err
		}
		attrs, err := parseAttributes(fields[2:])
		if err != nil {
			return nil, err
		}
		switch kind {
		case "entity":
			return prov.NewEntity(id, attrs), nil
		case "activity":
			return prov.NewActivity(id, attrs), nil
		default:
			return prov.NewAgent(id, attrs), nil
		}
	case "relation":
		return parseRelation(fields[1:])
	default:
		return nil, fmt.Errorf("unknown record kind %q", kind)
	}
}

func parseRelation(fields []string) (*prov.Relation, error) {
	if len(fields) < 1 {
		return nil, fmt.Errorf("relation: missing verb")
	}
	verb := fields[0]
	kind, ok := verbToKind[verb]
	if !ok {
		return nil, fmt.Errorf("%w: %q", prov.ErrUnknownRelation, verb)
	}
	roles, err := prov.RelationRoles(kind)
	if err != nil {
		return nil, err
	}
	rest := fields[1:]
	if len(rest) < 1+len(roles) {
		return nil, fmt.Errorf("relation %s: expected id + %d arguments", verb, len(roles))
	}

	id, err := parseOptionalQN(rest[0])
	if err != nil {
		return nil, err
	}
	args := make([]*qn.QN, len(roles))
	for i := range roles {
		a, err := parseOptionalQN(rest[1+i])
		if err != nil {
			return nil, err
		}
		args[i] = a
	}

	attrs, err := parseAttributes(rest[1+len(roles):])
	if err != nil {
		return nil, err
	}
	return prov.NewRelation(kind, id, args, attrs)
}

func parseOptionalQN(s string) (*qn.QN, error) {
	if s == "-" {
		return nil, nil
	}
	q, err := qn.Parse(s)
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func parseAttributes(fields []string) ([]prov.Attribute, error) {
	var attrs []prov.Attribute
	for _, f := range fields {
		i := strings.IndexByte(f, '=')
		if i < 0 {
			return nil, fmt.Errorf("malformed attribute %q (expected name=value)", f)
		}
		name, err := qn.Parse(f[:i])
		if err != nil {
			return nil, err
		}
		val, err := parseValue(f[i+1:])
		if err != nil {
			return nil, err
		}
		attrs = append(attrs, prov.Attribute{Name: name, Value: val})
	}
	return attrs, nil
}

func parseValue(s string) (qn.Value, error) {
	if strings.HasPrefix(s, `"`) {
		end := strings.LastIndexByte(s, '"')
		if end <= 0 {
			return qn.Value{}, fmt.Errorf("malformed literal %q", s)
		}
		text := s[1:end]
		rest := s[end+1:]
		if strings.HasPrefix(rest, "^^") {
			dt, err := qn.Parse(rest[2:])
			if err != nil {
				return qn.Value{}, err
			}
			return qn.NewLiteral(text, dt), nil
		}
		return qn.NewPlain(text), nil
	}
	q, err := qn.Parse(s)
	if err != nil {
		return qn.Value{}, err
	}
	return qn.NewQNValue(q), nil
}

// tokenizeLine splits on whitespace but keeps quoted-literal values (which
// may contain spaces) intact as a single field.
func tokenizeLine(line string) ([]string, error) {
	var fields []string
	var cur strings.Builder
	inQuote := false
	flush := func() {
		if cur.Len() > 0 {
			fields = append(fields, cur.String())
			cur.Reset()
		}
	}
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == '"':
			inQuote = !inQuote
			cur.WriteByte(c)
		case (c == ' ' || c == '\t') && !inQuote:
			flush()
		default:
			cur.WriteByte(c)
		}
	}
	if inQuote {
		return nil, fmt.Errorf("unterminated quoted literal")
	}
	flush()
	return fields, nil
}

// WriteDocument renders doc back to the internal line format.
func WriteDocument(w io.Writer, doc *prov.Document) error {
	bw := bufio.NewWriter(w)
	for _, r := range doc.Records {
		var line string
		switch v := r.(type) {
		case *prov.Element:
			line = formatElement(v)
		case *prov.Relation:
			l, err := formatRelation(v)
			if err != nil {
				return err
			}
			line = l
		}
		if _, err := fmt.Fprintln(bw, line); err != nil {
			return fmt.Errorf("provexpand: writing output: %w", err)
		}
	}
	return bw.Flush()
}

func formatElement(e *prov.Element) string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	b.WriteByte(' ')
	b.WriteString(e.ID.String())
	for _, a := range e.Attributes {
		b.WriteByte(' ')
		b.WriteString(a.Name.String())
		b.WriteByte('=')
		b.WriteString(formatValue(a.Value))
	}
	return b.String()
}

func formatRelation(r *prov.Relation) (string, error) {
	verb, err := prov.RelationName(r.Kind)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	b.WriteString("relation ")
	b.WriteString(verb)
	b.WriteByte(' ')
	b.WriteString(formatOptionalQN(r.ID))
	for _, fa := range r.Formal {
		b.WriteByte(' ')
		b.WriteString(formatOptionalQN(fa.Arg))
	}
	for _, a := range r.Extra {
		b.WriteByte(' ')
		b.WriteString(a.Name.String())
		b.WriteByte('=')
		b.WriteString(formatValue(a.Value))
	}
	return b.String(), nil
}

func formatOptionalQN(q *qn.QN) string {
	if q == nil {
		return "-"
	}
	return q.String()
}

func formatValue(v qn.Value) string {
	switch v.Kind {
	case qn.KindQN:
		return v.QN.String()
	case qn.KindLiteral:
		if v.HasType {
			return `"` + v.Text + `"^^` + v.Datatype.String()
		}
		return `"` + v.Text + `"`
	default:
		return `"` + v.Text + `"`
	}
}
