package dnd

import (
	tlog "github.com/Makepad-fr/tada/internal/log"
	"github.com/Makepad-fr/tada/internal/view"
)

// RegisterContainer makes h a drop zone named id. Registering an id again
// replaces its handle; the previous listeners are detached first. A nil
// handle or empty id is ignored.
func (e *Engine) RegisterContainer(id string, h *view.Node) {
	if h == nil || id == "" {
		return
	}
	if old, ok := e.containers[id]; ok {
		e.releaseContainer(old)
	}

	h.SetAttr(view.AttrContainerID, id)
	b := &binding{node: h}
	b.listen(view.DragOver, e.containerDragOver(h))
	b.listen(view.Drop, e.containerDrop(h))
	b.listen(view.DragLeave, func(*view.Event) { h.RemoveClass(ClassDragOver) })
	e.containers[id] = b

	e.installGuard()
	e.log.Debug().
		Str(tlog.FieldEvent, "container.register").
		Str(tlog.FieldContainerID, id).
		Msg("container registered")
}

// RegisterDraggable makes h draggable as id. Registering an id again
// replaces its handle. A nil handle is ignored.
func (e *Engine) RegisterDraggable(id ID, h *view.Node) {
	if h == nil {
		return
	}
	if old, ok := e.draggables[id]; ok {
		e.releaseDraggable(id, old)
	}

	h.SetAttr(view.AttrDraggable, "true")
	h.SetAttr(view.AttrDraggableID, id.String())
	b := &binding{node: h}
	b.listen(view.DragStart, e.dragStart(id, h))
	b.listen(view.Drag, func(ev *view.Event) { ev.PreventDefault() })
	b.listen(view.DragEnd, func(*view.Event) { e.reset() })
	e.draggables[id] = b

	e.log.Trace().
		Str(tlog.FieldEvent, "draggable.register").
		Stringer(tlog.FieldDraggableID, id).
		Msg("draggable registered")
}

// UnregisterContainer detaches the drop zone named id. Unknown ids are ignored.
func (e *Engine) UnregisterContainer(id string) {
	b, ok := e.containers[id]
	if !ok {
		return
	}
	e.releaseContainer(b)
	delete(e.containers, id)
}

// UnregisterDraggable detaches the draggable id. Unknown ids are ignored.
// Unregistering the element being dragged ends the drag.
func (e *Engine) UnregisterDraggable(id ID) {
	b, ok := e.draggables[id]
	if !ok {
		return
	}
	e.releaseDraggable(id, b)
	delete(e.draggables, id)
}

// Container returns the handle registered as id.
func (e *Engine) Container(id string) (*view.Node, bool) {
	b, ok := e.containers[id]
	if !ok {
		return nil, false
	}
	return b.node, true
}

// Draggable returns the handle registered as id.
func (e *Engine) Draggable(id ID) (*view.Node, bool) {
	b, ok := e.draggables[id]
	if !ok {
		return nil, false
	}
	return b.node, true
}

func (e *Engine) releaseContainer(b *binding) {
	b.detach()
	b.node.RemoveClass(ClassDragOver)
	b.node.RemoveAttr(view.AttrContainerID)
}

func (e *Engine) releaseDraggable(id ID, b *binding) {
	if e.IsDragging(id) {
		e.reset()
	}
	b.detach()
	b.node.RemoveAttr(view.AttrDraggable)
	b.node.RemoveAttr(view.AttrDraggableID)
}
