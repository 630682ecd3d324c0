package dnd

import "github.com/Makepad-fr/tada/internal/view"

// FindDropTarget picks the most specific interactable node for a drop on
// target at p. The literal target wins when it carries an identity, then its
// nearest container ancestor, then a point hit-test preferring items over
// containers. It returns nil when nothing qualifies.
func FindDropTarget(doc *view.Tree, target *view.Node, p view.Point) *view.Node {
	if target != nil {
		if target.HasAttr(view.AttrContainerID) {
			return target
		}
		if target.HasAttr(view.AttrDraggableID) {
			return target
		}
		if c := target.Closest(view.AttrContainerID); c != nil {
			return c
		}
	}

	hits := doc.ElementsFromPoint(p)
	for _, n := range hits {
		if n.HasAttr(view.AttrDraggableID) {
			return n
		}
	}
	for _, n := range hits {
		if n.HasAttr(view.AttrContainerID) {
			return n
		}
	}
	return nil
}
