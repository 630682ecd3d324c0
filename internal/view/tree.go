package view

import "sort"

// Tree is a rendered view rooted at a document node.
type Tree struct {
	Root *Node
}

// NewTree creates a tree whose document node covers bounds.
func NewTree(bounds Rect) *Tree {
	return &Tree{Root: NewNode("document", bounds)}
}

// Document returns the root node.
func (t *Tree) Document() *Node { return t.Root }

// ElementsFromPoint returns every node whose bounds contain p, topmost
// first: higher z-index, then later paint order (children after parents,
// later siblings after earlier ones).
func (t *Tree) ElementsFromPoint(p Point) []*Node {
	if t == nil || t.Root == nil {
		return nil
	}
	var hits []*Node
	var walk func(n *Node)
	walk = func(n *Node) {
		if n.Bounds.Contains(p) {
			hits = append(hits, n)
		}
		for _, c := range n.children {
			walk(c)
		}
	}
	walk(t.Root)

	for i, j := 0, len(hits)-1; i < j; i, j = i+1, j-1 {
		hits[i], hits[j] = hits[j], hits[i]
	}
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Style.ZIndex > hits[j].Style.ZIndex
	})
	return hits
}

// ElementFromPoint returns the topmost node at p, or the document when
// nothing else is hit.
func (t *Tree) ElementFromPoint(p Point) *Node {
	if hits := t.ElementsFromPoint(p); len(hits) > 0 {
		return hits[0]
	}
	return t.Root
}
