package dnd

import (
	tlog "github.com/Makepad-fr/tada/internal/log"
	"github.com/Makepad-fr/tada/internal/view"
)

// IsDragging reports whether id is the element currently being dragged.
func (e *Engine) IsDragging(id ID) bool {
	return e.state.IsDragging && e.state.DraggedID != nil && *e.state.DraggedID == id
}

// State returns a copy of the current drag state.
func (e *Engine) State() DragState {
	s := e.state
	if s.DraggedID != nil {
		id := *s.DraggedID
		s.DraggedID = &id
	}
	if s.OriginalPosition != nil {
		p := *s.OriginalPosition
		s.OriginalPosition = &p
	}
	return s
}

func (e *Engine) dragStart(id ID, h *view.Node) view.Listener {
	return func(ev *view.Event) {
		ev.StopPropagation()
		if e.state.IsDragging {
			e.log.Debug().
				Str(tlog.FieldEvent, "drag.restart").
				Stringer(tlog.FieldActiveID, *e.state.DraggedID).
				Stringer(tlog.FieldDraggableID, id).
				Msg("drag started while another was active")
			e.reset()
		}

		origin := view.Point{X: h.Bounds.X, Y: h.Bounds.Y}
		e.state = DragState{
			IsDragging:       true,
			DraggedID:        &id,
			DraggedElement:   h,
			OriginalPosition: &origin,
			Placeholder:      h,
		}
		e.lastDrop = nil

		if ev.Data != nil {
			ev.Data.SetData(PayloadFormat, id.String())
			ev.Data.EffectAllowed = "move"
			ev.Data.SetDragImage(h, view.Point{X: h.Bounds.W / 2, Y: h.Bounds.H / 2})
		}

		e.savedStyle = h.Style
		h.Style = draggingStyle

		e.log.Debug().
			Str(tlog.FieldEvent, "drag.start").
			Stringer(tlog.FieldActiveID, id).
			Msg("drag started")
	}
}

// reset returns to Idle, removing every affordance applied while dragging.
// It is safe to call when already idle.
func (e *Engine) reset() {
	if el := e.state.DraggedElement; el != nil {
		el.Style = e.savedStyle
	}
	for _, b := range e.containers {
		b.node.RemoveClass(ClassDragOver)
	}
	if e.state.IsDragging {
		e.log.Debug().
			Str(tlog.FieldEvent, "drag.end").
			Stringer(tlog.FieldActiveID, *e.state.DraggedID).
			Msg("drag ended")
	}
	e.state = DragState{}
	e.savedStyle = view.Style{}
}
