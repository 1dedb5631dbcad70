package bindings

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"

	"github.com/openprovenance/provtemplate/prov"
	"github.com/openprovenance/provtemplate/qn"
)

var (
	valuePattern   = regexp.MustCompile(`^value_(\d+)$`)
	gridValuePattern = regexp.MustCompile(`^2dvalue_(\d+)_(\d+)$`)
)

// ReadBindingsProvDoc parses Format A: a PROV document whose element records
// are all identified by var:/vargen: QNs, each carrying tmpl:value_i or
// tmpl:2dvalue_i_j attributes. Spec.md §4.4.
func ReadBindingsProvDoc(doc *prov.Document) (*Store, error) {
	store := NewStore()
	for _, e := range doc.Elements() {
		if !e.ID.IsVariable() {
			return nil, prov.NewExpansionError(prov.ErrBindingsFormat,
				e.ID.String(), "bindings-document record identifier must be var: or vargen:")
		}
		b, err := parseBindingAttributes(e.ID, e.Attributes)
		if err != nil {
			return nil, err
		}
		store.Put(e.ID, b)
	}
	return store, nil
}

func parseBindingAttributes(owner qn.QN, attrs []prov.Attribute) (Binding, error) {
	listVals := map[int]qn.Value{}
	gridVals := map[int]map[int]qn.Value{}

	for _, a := range attrs {
		if a.Name.Prefix != qn.PrefixTmpl {
			return Binding{}, prov.NewExpansionError(prov.ErrBindingsFormat,
				owner.String(), fmt.Sprintf("unexpected attribute %s on bindings record", a.Name))
		}
		local := a.Name.Local
		if m := valuePattern.FindStringSubmatch(local); m != nil {
			idx, _ := strconv.Atoi(m[1])
			listVals[idx] = a.Value
			continue
		}
		if m := gridValuePattern.FindStringSubmatch(local); m != nil {
			i, _ := strconv.Atoi(m[1])
			j, _ := strconv.Atoi(m[2])
			row, ok := gridVals[i]
			if !ok {
				row = map[int]qn.Value{}
				gridVals[i] = row
			}
			row[j] = a.Value
			continue
		}
		return Binding{}, prov.NewExpansionError(prov.ErrBindingsFormat,
			owner.String(), fmt.Sprintf("unrecognised bindings attribute name tmpl:%s", local))
	}

	switch {
	case len(listVals) > 0 && len(gridVals) > 0:
		return Binding{}, prov.NewExpansionError(prov.ErrBindingsFormat,
			owner.String(), "record mixes tmpl:value_i and tmpl:2dvalue_i_j")
	case len(listVals) > 0:
		list, err := contiguousList(owner, listVals)
		if err != nil {
			return Binding{}, err
		}
		return NewList(list), nil
	case len(gridVals) > 0:
		grid, err := contiguousGrid(owner, gridVals)
		if err != nil {
			return Binding{}, err
		}
		return NewGrid(grid), nil
	default:
		return Binding{}, nil
	}
}

// contiguousList validates that vals' keys form 0..n-1 with no gaps, then
// returns them in index order.
func contiguousList(owner qn.QN, vals map[int]qn.Value) ([]qn.Value, error) {
	n := len(vals)
	out := make([]qn.Value, n)
	for i := 0; i < n; i++ {
		v, ok := vals[i]
		if !ok {
			return nil, prov.NewExpansionError(prov.ErrBindingsFormat,
				owner.String(), fmt.Sprintf("tmpl:value_i indices are not contiguous from 0 (missing index %d)", i))
		}
		out[i] = v
	}
	return out, nil
}

// contiguousGrid validates row indices 0..n-1 and, per row, column indices
// 0..m-1, returning rows in order.
func contiguousGrid(owner qn.QN, rows map[int]map[int]qn.Value) ([][]qn.Value, error) {
	n := len(rows)
	out := make([][]qn.Value, n)
	rowIdx := make([]int, 0, n)
	for i := range rows {
		rowIdx = append(rowIdx, i)
	}
	sort.Ints(rowIdx)
	for i := 0; i < n; i++ {
		cols, ok := rows[i]
		if !ok {
			return nil, prov.NewExpansionError(prov.ErrBindingsFormat,
				owner.String(), fmt.Sprintf("tmpl:2dvalue_i_j row indices are not contiguous from 0 (missing row %d)", i))
		}
		m := len(cols)
		row := make([]qn.Value, m)
		for j := 0; j < m; j++ {
			v, ok := cols[j]
			if !ok {
				return nil, prov.NewExpansionError(prov.ErrBindingsFormat,
					owner.String(), fmt.Sprintf("tmpl:2dvalue_%d_j column indices are not contiguous from 0 (missing column %d)", i, j))
			}
			row[j] = v
		}
		out[i] = row
	}
	return out, nil
}
