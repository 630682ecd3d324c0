package dnd

import (
	"github.com/rs/zerolog"

	tlog "github.com/Makepad-fr/tada/internal/log"
	"github.com/Makepad-fr/tada/internal/view"
)

func (e *Engine) containerDragOver(c *view.Node) view.Listener {
	return func(ev *view.Event) {
		ev.PreventDefault()
		ev.StopPropagation()
		if ev.Data != nil {
			ev.Data.DropEffect = "move"
		}
		c.AddClass(ClassDragOver)
	}
}

func (e *Engine) containerDrop(c *view.Node) view.Listener {
	return func(ev *view.Event) {
		ev.PreventDefault()
		ev.StopPropagation()
		c.RemoveClass(ClassDragOver)

		payload := ev.Data.GetData(PayloadFormat)
		if payload == "" {
			e.log.Trace().Str(tlog.FieldEvent, "drop.no_payload").Msg("drop without payload ignored")
			return
		}
		if ev.Data == e.lastDrop {
			return
		}
		e.lastDrop = ev.Data

		target := FindDropTarget(e.doc, ev.Target, ev.Point)
		dragEvent := Normalize(payload, target, c)

		if e.log.GetLevel() <= zerolog.DebugLevel {
			l := e.log.Debug().
				Str(tlog.FieldEvent, "drop").
				Stringer(tlog.FieldActiveID, dragEvent.Active.ID)
			if dragEvent.Over != nil {
				l = l.Stringer(tlog.FieldOverID, dragEvent.Over.ID)
			}
			l.Msg("drop resolved")
		}

		if e.onDragEnd == nil {
			return
		}
		e.onDragEnd(dragEvent)
	}
}

// Normalize builds the drag event for payload dropped onto the resolved
// target inside container. With no resolved target the container itself is
// the destination, so Over is never nil for a drop a container received.
func Normalize(payload string, target, container *view.Node) CustomDragEvent {
	active := ParseID(payload)

	if target != nil {
		if id, ok := target.Attr(view.AttrDraggableID); ok && id != "" {
			return CustomDragEvent{
				Active: Target{ID: active, Rect: target.Bounds},
				Over:   &Target{ID: ParseID(id), Rect: target.Bounds},
			}
		}
		if id, ok := target.Attr(view.AttrContainerID); ok && id != "" {
			return CustomDragEvent{
				Active: Target{ID: active, Rect: target.Bounds},
				Over:   &Target{ID: ParseID(id), Rect: target.Bounds},
			}
		}
	}

	if container == nil {
		return CustomDragEvent{Active: Target{ID: active}}
	}
	id, _ := container.Attr(view.AttrContainerID)
	if id == "" {
		id = FallbackContainerID
	}
	return CustomDragEvent{
		Active: Target{ID: active, Rect: container.Bounds},
		Over:   &Target{ID: ParseID(id), Rect: container.Bounds},
	}
}
