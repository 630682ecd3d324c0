package log

// Canonical field names for structured logging.
const (
	FieldComponent = "component"
	FieldEvent     = "event"

	// drag and drop
	FieldActiveID    = "active_id"
	FieldOverID      = "over_id"
	FieldContainerID = "container_id"
	FieldDraggableID = "draggable_id"

	// todo items
	FieldItemID    = "item_id"
	FieldCompleted = "completed"
	FieldFrom      = "from"
	FieldTo        = "to"

	// http
	FieldMethod    = "method"
	FieldPath      = "path"
	FieldStatus    = "status"
	FieldRequestID = "request_id"
	FieldDuration  = "duration"
)
