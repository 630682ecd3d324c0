package dnd

import "github.com/Makepad-fr/tada/internal/view"

const (
	// PayloadFormat is the data transfer format carrying the dragged id.
	PayloadFormat = "text/plain"

	// ClassDragOver marks a container while a drag hovers it.
	ClassDragOver = "drag-over"

	// FallbackContainerID names a receiving container that carries no id.
	FallbackContainerID = "container"
)

// Visual affordance applied to the dragged element.
var draggingStyle = view.Style{Opacity: 0.5, Rotation: 5, ZIndex: 1000}

// Target is one side of a drag event.
type Target struct {
	ID   ID
	Rect view.Rect
}

// CustomDragEvent describes a completed drop. Over is nil only when no
// target could be resolved; consumers treat that as a no-op.
type CustomDragEvent struct {
	Active Target
	Over   *Target
}

// DragEndFunc receives every normalized drop.
type DragEndFunc func(CustomDragEvent)

// DragState is the engine's single in-flight drag.
// IsDragging is true exactly when DraggedID is non-nil.
type DragState struct {
	IsDragging       bool
	DraggedID        *ID
	DraggedElement   *view.Node
	OriginalPosition *view.Point
	// Placeholder is the node used as the drag preview.
	Placeholder *view.Node
}
