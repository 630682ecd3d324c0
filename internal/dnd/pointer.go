package dnd

import "github.com/Makepad-fr/tada/internal/view"

// Platform is what a UI feeds raw pointer input into. Implementations turn
// press/move/release into the dragstart, dragover, drop and dragend events
// an Engine listens for.
type Platform interface {
	Press(at view.Point) bool
	Move(at view.Point) bool
	Release(at view.Point) bool
	Cancel()
	Dragging() bool
}

type gesture int

const (
	gestureIdle gesture = iota
	gestureArmed
	gestureDragging
)

// DefaultDeadZone is how far, in cells, the pointer travels before a press
// becomes a drag.
const DefaultDeadZone = 1

// Pointer is a synthetic Platform for environments without native drag
// events, such as a terminal reporting mouse cells.
type Pointer struct {
	doc      *view.Tree
	deadZone int

	state    gesture
	source   *view.Node
	pressAt  view.Point
	over     *view.Node
	accepted bool
	data     *view.DataTransfer
}

var _ Platform = (*Pointer)(nil)

// NewPointer drives drags over doc. A negative dead zone uses the default.
func NewPointer(doc *view.Tree, deadZone int) *Pointer {
	if deadZone < 0 {
		deadZone = DefaultDeadZone
	}
	return &Pointer{doc: doc, deadZone: deadZone}
}

// Dragging reports whether a drag gesture is in progress.
func (p *Pointer) Dragging() bool { return p.state == gestureDragging }

// Source returns the node the current gesture started on.
func (p *Pointer) Source() *view.Node { return p.source }

// Press arms a gesture when at lies on a draggable node. A press during an
// active gesture cancels it first. It reports whether a gesture was armed.
func (p *Pointer) Press(at view.Point) bool {
	if p.state != gestureIdle {
		p.Cancel()
	}
	if p.doc == nil {
		return false
	}
	src := p.doc.ElementFromPoint(at).Closest(view.AttrDraggable)
	if src == nil {
		return false
	}
	p.state = gestureArmed
	p.source = src
	p.pressAt = at
	return true
}

// Move starts the drag once the pointer leaves the dead zone and then keeps
// the hovered target informed. It reports whether the move was consumed by
// a drag.
func (p *Pointer) Move(at view.Point) bool {
	switch p.state {
	case gestureArmed:
		if distance(p.pressAt, at) <= p.deadZone {
			return false
		}
		p.data = view.NewDataTransfer()
		p.source.Dispatch(view.NewEvent(view.DragStart, p.pressAt, p.data))
		p.state = gestureDragging
		p.hover(at)
		return true
	case gestureDragging:
		p.hover(at)
		return true
	}
	return false
}

// Release finishes the gesture. The drop goes to the node under the
// pointer only when that node accepted the last drag-over; dragend is
// always delivered to the source. It reports whether a drag ended.
func (p *Pointer) Release(at view.Point) bool {
	switch p.state {
	case gestureArmed:
		p.clear()
		return false
	case gestureDragging:
		p.hover(at)
		if p.accepted {
			p.over.Dispatch(view.NewEvent(view.Drop, at, p.data))
		}
		p.source.Dispatch(view.NewEvent(view.DragEnd, at, p.data))
		p.clear()
		return true
	}
	return false
}

// Cancel aborts the gesture without dropping.
func (p *Pointer) Cancel() {
	if p.state == gestureDragging {
		if p.over != nil {
			p.over.Dispatch(view.NewEvent(view.DragLeave, p.pressAt, p.data))
		}
		p.source.Dispatch(view.NewEvent(view.DragEnd, p.pressAt, p.data))
	}
	p.clear()
}

func (p *Pointer) hover(at view.Point) {
	p.source.Dispatch(view.NewEvent(view.Drag, at, p.data))

	target := p.doc.ElementFromPoint(at)
	if p.over != nil && p.over != target {
		p.over.Dispatch(view.NewEvent(view.DragLeave, at, p.data))
	}
	p.over = target
	p.accepted = target.Dispatch(view.NewEvent(view.DragOver, at, p.data))
}

func (p *Pointer) clear() {
	p.state = gestureIdle
	p.source = nil
	p.over = nil
	p.accepted = false
	p.data = nil
}

// distance is the Chebyshev distance between two cells.
func distance(a, b view.Point) int {
	return max(abs(a.X-b.X), abs(a.Y-b.Y))
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
