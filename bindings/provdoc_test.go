package bindings

import (
	"errors"
	"testing"

	"github.com/openprovenance/provtemplate/prov"
	"github.com/openprovenance/provtemplate/qn"
)

func attr(local string, v qn.Value) prov.Attribute {
	return prov.Attribute{Name: qn.New(qn.PrefixTmpl, local), Value: v}
}

func TestReadBindingsProvDoc_ScalarList(t *testing.T) {
	doc := prov.NewDocument()
	doc.AddRecord(prov.NewEntity(qn.New("var", "a"), []prov.Attribute{
		attr("value_0", qn.NewPlain("e1")),
		attr("value_1", qn.NewPlain("e2")),
	}))

	store, err := ReadBindingsProvDoc(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, ok := store.Get(qn.New("var", "a"))
	if !ok || b.Shape != ShapeList || len(b.List) != 2 {
		t.Fatalf("unexpected binding: %+v, %v", b, ok)
	}
}

func TestReadBindingsProvDoc_NonContiguousIsFormatError(t *testing.T) {
	doc := prov.NewDocument()
	doc.AddRecord(prov.NewEntity(qn.New("var", "a"), []prov.Attribute{
		attr("value_0", qn.NewPlain("e1")),
		attr("value_2", qn.NewPlain("e2")), // gap at index 1
	}))

	_, err := ReadBindingsProvDoc(doc)
	if !errors.Is(err, prov.ErrBindingsFormat) {
		t.Fatalf("expected ErrBindingsFormat, got %v", err)
	}
}

func TestReadBindingsProvDoc_NonVariableIdentifierIsFormatError(t *testing.T) {
	doc := prov.NewDocument()
	doc.AddRecord(prov.NewEntity(qn.New("ex", "a"), nil))

	_, err := ReadBindingsProvDoc(doc)
	if !errors.Is(err, prov.ErrBindingsFormat) {
		t.Fatalf("expected ErrBindingsFormat, got %v", err)
	}
}

func TestReadBindingsProvDoc_Grid(t *testing.T) {
	doc := prov.NewDocument()
	doc.AddRecord(prov.NewEntity(qn.New("var", "a"), []prov.Attribute{
		attr("2dvalue_0_0", qn.NewPlain("a0")),
		attr("2dvalue_0_1", qn.NewPlain("a1")),
		attr("2dvalue_1_0", qn.NewPlain("b0")),
		attr("2dvalue_1_1", qn.NewPlain("b1")),
	}))

	store, err := ReadBindingsProvDoc(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, ok := store.Get(qn.New("var", "a"))
	if !ok || b.Shape != ShapeGrid || len(b.Grid) != 2 || len(b.Grid[0]) != 2 {
		t.Fatalf("unexpected binding: %+v, %v", b, ok)
	}
}

func TestReadBindingsProvDoc_GridSingleColumnCollapses(t *testing.T) {
	doc := prov.NewDocument()
	doc.AddRecord(prov.NewEntity(qn.New("var", "a"), []prov.Attribute{
		attr("2dvalue_0_0", qn.NewPlain("a0")),
		attr("2dvalue_1_0", qn.NewPlain("b0")),
	}))

	store, err := ReadBindingsProvDoc(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, _ := store.Get(qn.New("var", "a"))
	if b.Shape != ShapeList || len(b.List) != 2 {
		t.Fatalf("expected collapsed list, got %+v", b)
	}
}

func TestReadBindingsProvDoc_UnknownAttributeIsFormatError(t *testing.T) {
	doc := prov.NewDocument()
	doc.AddRecord(prov.NewEntity(qn.New("var", "a"), []prov.Attribute{
		attr("bogus_3", qn.NewPlain("x")),
	}))
	_, err := ReadBindingsProvDoc(doc)
	if !errors.Is(err, prov.ErrBindingsFormat) {
		t.Fatalf("expected ErrBindingsFormat, got %v", err)
	}
}
