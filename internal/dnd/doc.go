// Package dnd coordinates pointer drag-and-drop over a view tree.
//
// An Engine owns two registries (drop containers and draggable items), the
// single in-flight drag state, and the callback that receives a normalized
// CustomDragEvent once per completed drop. Items and containers are plain
// view nodes; the engine decorates them with identity attributes and
// listeners when they are registered and strips both when they are not.
//
// The engine only reacts to five view events: dragstart, drag and dragend on
// draggables, dragover/dragleave and drop on containers. Anything that can
// produce those events can drive it; Pointer is the synthetic implementation
// fed from terminal mouse input.
//
// Engines are not safe for concurrent use. Every call is expected to come
// from the UI event loop.
package dnd
