// Package expand implements the linked-group analyser (C5), the variable
// matcher (C6), and the expander (C7): the heart of the engine. Its shape —
// build an adjacency/parent map, verify well-formedness, then walk it with a
// stable iterative pass — follows graph/traversal.go's BFS-over-adjacency-map
// idiom in the teacher codebase, adapted to a parent-pointer forest since
// tmpl:linked permits at most one parent per node (spec.md §3 invariant 4),
// unlike the teacher's general entity graph.
package expand

import (
	"fmt"

	"github.com/openprovenance/provtemplate/bindings"
	"github.com/openprovenance/provtemplate/prov"
	"github.com/openprovenance/provtemplate/qn"
)

const linkedAttr = "linked" // tmpl:linked

// Group is a linked-group: a set of node identifiers joined (transitively)
// by tmpl:linked, plus the cardinality shared by the whole group.
type Group struct {
	ID          int
	Nodes       []qn.QN
	Cardinality int
}

// Analysis is the result of analysing a template's elements: a topological
// node order (roots before children, template order preserved otherwise)
// and the group each node belongs to.
type Analysis struct {
	Order   []qn.QN
	GroupOf map[qn.QN]int
	Groups  map[int]*Group
}

// Analyse implements spec.md §4.5 steps 1-5.
func Analyse(elements []*prov.Element, store *bindings.Store) (*Analysis, error) {
	order := make([]qn.QN, len(elements))
	for i, e := range elements {
		order[i] = e.ID
	}

	parent, err := buildParentMap(elements)
	if err != nil {
		return nil, err
	}
	if err := checkAcyclic(order, parent); err != nil {
		return nil, err
	}

	groupOf, groups := partitionGroups(order, parent)

	topo, err := topoSort(order, parent)
	if err != nil {
		return nil, err
	}

	for id, g := range groups {
		n, err := groupCardinality(g, store)
		if err != nil {
			return nil, err
		}
		groups[id].Cardinality = n
	}

	return &Analysis{Order: topo, GroupOf: groupOf, Groups: groups}, nil
}

// buildParentMap scans each element's attributes for tmpl:linked, recording
// child -> parent. A node with more than one tmpl:linked attribute violates
// invariant 4 (at most one parent) and is a LinkedGraphInvalid error.
func buildParentMap(elements []*prov.Element) (map[qn.QN]qn.QN, error) {
	parent := make(map[qn.QN]qn.QN)
	for _, e := range elements {
		var found bool
		for _, a := range e.Attributes {
			if a.Name.Prefix != qn.PrefixTmpl || a.Name.Local != linkedAttr {
				continue
			}
			if a.Value.Kind != qn.KindQN {
				return nil, prov.NewExpansionError(prov.ErrLinkedGraphInvalid,
					e.ID.String(), "tmpl:linked value must be an identifier")
			}
			if found {
				return nil, prov.NewExpansionError(prov.ErrLinkedGraphInvalid,
					e.ID.String(), "node has more than one tmpl:linked parent")
			}
			parent[e.ID] = a.Value.QN
			found = true
		}
	}
	return parent, nil
}

// checkAcyclic walks each node's parent chain looking for a cycle.
func checkAcyclic(order []qn.QN, parent map[qn.QN]qn.QN) error {
	state := make(map[qn.QN]int, len(order)) // 0=unvisited, 1=in-progress, 2=done
	var walk func(qn.QN, []qn.QN) error
	walk = func(n qn.QN, path []qn.QN) error {
		switch state[n] {
		case 2:
			return nil
		case 1:
			return prov.NewExpansionError(prov.ErrLinkedGraphInvalid, n.String(), "tmpl:linked cycle detected")
		}
		state[n] = 1
		if p, ok := parent[n]; ok {
			if err := walk(p, append(path, n)); err != nil {
				return err
			}
		}
		state[n] = 2
		return nil
	}
	for _, n := range order {
		if err := walk(n, nil); err != nil {
			return err
		}
	}
	return nil
}

// partitionGroups assigns every node in order to a group: nodes transitively
// joined by tmpl:linked share a group; everything else is a singleton.
func partitionGroups(order []qn.QN, parent map[qn.QN]qn.QN) (map[qn.QN]int, map[int]*Group) {
	groupOf := make(map[qn.QN]int, len(order))
	groups := make(map[int]*Group)
	nextID := 0

	find := func(n qn.QN) qn.QN {
		cur := n
		for {
			p, ok := parent[cur]
			if !ok {
				return cur
			}
			cur = p
		}
	}

	rootGroup := make(map[qn.QN]int)
	for _, n := range order {
		root := find(n)
		id, ok := rootGroup[root]
		if !ok {
			id = nextID
			nextID++
			rootGroup[root] = id
			groups[id] = &Group{ID: id}
		}
		groupOf[n] = id
		groups[id].Nodes = append(groups[id].Nodes, n)
	}
	return groupOf, groups
}

// topoSort returns order's elements with every child placed after its
// parent, preserving relative order otherwise (stable under permutation of
// unlinked nodes — property P7).
func topoSort(order []qn.QN, parent map[qn.QN]qn.QN) ([]qn.QN, error) {
	emitted := make(map[qn.QN]bool, len(order))
	result := make([]qn.QN, 0, len(order))
	for len(result) < len(order) {
		progressed := false
		for _, n := range order {
			if emitted[n] {
				continue
			}
			if p, hasParent := parent[n]; hasParent && !emitted[p] {
				continue
			}
			result = append(result, n)
			emitted[n] = true
			progressed = true
		}
		if !progressed {
			return nil, fmt.Errorf("expand: internal error: tmpl:linked graph did not resolve to a DAG")
		}
	}
	return result, nil
}

// groupCardinality computes N for a group per spec.md §4.5 step 4: the
// maximum cardinality among its bound members; every bound member must be
// 1, 0, or N, and N=0 cannot coexist with a sibling N>0. A group with no
// bound member at all defaults to N=1 (spec.md scenario S4: an unbound
// singleton vargen: node produces exactly one identifier).
func groupCardinality(g *Group, store *bindings.Store) (int, error) {
	type boundNode struct {
		node qn.QN
		card int
	}
	var bound []boundNode
	for _, node := range g.Nodes {
		if _, ok := store.Get(node); ok {
			bound = append(bound, boundNode{node: node, card: store.Cardinality(node)})
		}
	}
	if len(bound) == 0 {
		return 1, nil
	}
	maxN := 0
	for _, b := range bound {
		if b.card > maxN {
			maxN = b.card
		}
	}
	for _, b := range bound {
		if b.card == maxN || b.card == 1 {
			continue
		}
		if b.card == 0 && maxN == 0 {
			continue
		}
		return 0, prov.NewExpansionError(prov.ErrIncorrectBindingsForGroup,
			b.node.String(),
			fmt.Sprintf("group member has cardinality %d, group cardinality is %d", b.card, maxN))
	}
	return maxN, nil
}
