package dnd

import (
	"github.com/rs/zerolog"

	tlog "github.com/Makepad-fr/tada/internal/log"
	"github.com/Makepad-fr/tada/internal/view"
)

// binding remembers the listeners the engine attached to one node.
type binding struct {
	node      *view.Node
	listeners []attached
}

type attached struct {
	typ view.EventType
	id  view.ListenerID
}

func (b *binding) listen(t view.EventType, fn view.Listener) {
	b.listeners = append(b.listeners, attached{typ: t, id: b.node.AddListener(t, fn)})
}

func (b *binding) detach() {
	for _, l := range b.listeners {
		b.node.RemoveListener(l.typ, l.id)
	}
	b.listeners = nil
}

// Engine is a drag-and-drop coordinator bound to one view tree.
type Engine struct {
	doc *view.Tree
	log zerolog.Logger

	state      DragState
	savedStyle view.Style
	// data transfer of the last handled drop; a gesture drops at most once
	lastDrop *view.DataTransfer

	containers map[string]*binding
	draggables map[ID]*binding
	guard      *binding
	onDragEnd  DragEndFunc
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger routes drag tracing to l. Tracing is emitted at debug and
// trace level only.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// New creates an engine for doc. A nil doc disables the document guard and
// point-based hit testing but is otherwise usable.
func New(doc *view.Tree, opts ...Option) *Engine {
	e := &Engine{
		doc:        doc,
		log:        zerolog.Nop(),
		containers: map[string]*binding{},
		draggables: map[ID]*binding{},
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// SetDragEndCallback replaces the drop callback. Nil clears it.
func (e *Engine) SetDragEndCallback(fn DragEndFunc) {
	e.onDragEnd = fn
}

// Document returns the tree the engine hit-tests against.
func (e *Engine) Document() *view.Tree { return e.doc }

// Destroy detaches every listener, forgets every registration, removes the
// document guard and clears the callback. A drag in flight is reset.
func (e *Engine) Destroy() {
	e.reset()
	for id, b := range e.containers {
		b.detach()
		b.node.RemoveAttr(view.AttrContainerID)
		delete(e.containers, id)
	}
	for id, b := range e.draggables {
		b.detach()
		b.node.RemoveAttr(view.AttrDraggable)
		b.node.RemoveAttr(view.AttrDraggableID)
		delete(e.draggables, id)
	}
	if e.guard != nil {
		e.guard.detach()
		e.guard = nil
	}
	e.onDragEnd = nil
	e.lastDrop = nil
	e.log.Debug().Str(tlog.FieldEvent, "engine.destroy").Msg("drag engine destroyed")
}

// installGuard makes the whole document accept drag-over exactly once, so
// drops outside containers still complete the gesture instead of bouncing.
func (e *Engine) installGuard() {
	if e.guard != nil || e.doc == nil || e.doc.Root == nil {
		return
	}
	g := &binding{node: e.doc.Root}
	g.listen(view.DragOver, func(ev *view.Event) {
		ev.PreventDefault()
		ev.StopPropagation()
	})
	g.listen(view.Drop, func(ev *view.Event) {
		e.log.Trace().
			Str(tlog.FieldEvent, "drop.outside").
			Int("x", ev.Point.X).Int("y", ev.Point.Y).
			Msg("drop outside any container")
	})
	e.guard = g
}
