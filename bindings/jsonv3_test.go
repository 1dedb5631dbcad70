package bindings

import (
	"testing"

	"github.com/openprovenance/provtemplate/qn"
)

func TestReadBindingsJSONV3_ScalarAndID(t *testing.T) {
	raw := []byte(`{
		"context": {"ex": "http://example.com/"},
		"var": {
			"quote": [{"@id": "ex:q1"}],
			"value": [{"@value": "hello"}]
		},
		"vargen": {}
	}`)

	ns := qn.NewRegistry()
	store, merged, err := ReadBindingsJSONV3(raw, ns)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if iri, ok := merged.IRI("ex"); !ok || iri != "http://example.com/" {
		t.Fatalf("expected ex: merged into registry, got (%q, %v)", iri, ok)
	}

	quote, ok := store.Get(qn.New("var", "quote"))
	if !ok || quote.Shape != ShapeList || len(quote.List) != 1 || quote.List[0].QN.String() != "ex:q1" {
		t.Fatalf("unexpected quote binding: %+v", quote)
	}

	value, ok := store.Get(qn.New("var", "value"))
	if !ok || value.List[0].Text != "hello" {
		t.Fatalf("unexpected value binding: %+v", value)
	}
}

func TestReadBindingsJSONV3_InvalidIDIsNonFatal(t *testing.T) {
	raw := []byte(`{"var": {"a": [{"@id": "not:a:valid:qn"}]}}`)
	ns := qn.NewRegistry()
	store, _, err := ReadBindingsJSONV3(raw, ns)
	if err != nil {
		t.Fatalf("expected non-fatal handling, got error: %v", err)
	}
	b, ok := store.Get(qn.New("var", "a"))
	if !ok || b.List[0].Kind != qn.KindPlain {
		t.Fatalf("expected raw value kept as plain, got %+v", b)
	}
}

func TestReadBindingsJSONV3_MalformedJSON(t *testing.T) {
	ns := qn.NewRegistry()
	_, _, err := ReadBindingsJSONV3([]byte(`not json`), ns)
	if err == nil {
		t.Fatal("expected error for malformed JSON")
	}
}

func TestReadBindingsJSONV3_TypedLiteral(t *testing.T) {
	raw := []byte(`{"var": {"n": [{"@value": "42", "@type": "xsd:integer"}]}}`)
	ns := qn.NewRegistry()
	ns.Register("xsd", "http://www.w3.org/2001/XMLSchema#")
	store, _, err := ReadBindingsJSONV3(raw, ns)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, _ := store.Get(qn.New("var", "n"))
	if b.List[0].Datatype.String() != "xsd:integer" {
		t.Fatalf("expected datatype xsd:integer, got %+v", b.List[0])
	}
}
