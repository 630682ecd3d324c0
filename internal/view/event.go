package view

// EventType names a drag lifecycle event.
type EventType string

const (
	DragStart EventType = "dragstart"
	Drag      EventType = "drag"
	DragOver  EventType = "dragover"
	DragLeave EventType = "dragleave"
	Drop      EventType = "drop"
	DragEnd   EventType = "dragend"
)

// Listener handles an event delivered to a node.
type Listener func(*Event)

// ListenerID identifies one attached listener on one node.
type ListenerID uint64

// Event is delivered from its Target up through every ancestor until a
// listener stops propagation.
type Event struct {
	Type          EventType
	Target        *Node
	CurrentTarget *Node
	Point         Point
	Data          *DataTransfer

	prevented bool
	stopped   bool
}

// NewEvent builds an event of type t at p.
func NewEvent(t EventType, p Point, data *DataTransfer) *Event {
	return &Event{Type: t, Point: p, Data: data}
}

func (e *Event) PreventDefault()        { e.prevented = true }
func (e *Event) DefaultPrevented() bool { return e.prevented }
func (e *Event) StopPropagation()       { e.stopped = true }
func (e *Event) Stopped() bool          { return e.stopped }

// DataTransfer carries the drag payload for the lifetime of one gesture.
type DataTransfer struct {
	EffectAllowed string
	DropEffect    string

	data        map[string]string
	image       *Node
	imageOffset Point
}

func NewDataTransfer() *DataTransfer {
	return &DataTransfer{data: map[string]string{}}
}

func (d *DataTransfer) SetData(format, value string) {
	if d.data == nil {
		d.data = map[string]string{}
	}
	d.data[format] = value
}

// GetData returns "" for formats that were never set.
func (d *DataTransfer) GetData(format string) string {
	if d == nil {
		return ""
	}
	return d.data[format]
}

func (d *DataTransfer) ClearData() { d.data = map[string]string{} }

// SetDragImage chooses the node rendered under the pointer and the
// offset of the pointer inside it.
func (d *DataTransfer) SetDragImage(n *Node, offset Point) {
	d.image = n
	d.imageOffset = offset
}

// DragImage returns the preview node and pointer offset, if any.
func (d *DataTransfer) DragImage() (*Node, Point) {
	if d == nil {
		return nil, Point{}
	}
	return d.image, d.imageOffset
}
