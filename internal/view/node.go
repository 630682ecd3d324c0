package view

import "slices"

// Attributes the drag engine reads and writes.
const (
	AttrContainerID = "data-container-id"
	AttrDraggableID = "data-draggable-id"
	AttrDraggable   = "draggable"
)

// Style holds the visual overrides a node can carry. The zero value means
// no override.
type Style struct {
	Opacity  float64
	Rotation int
	ZIndex   int
}

type listenerEntry struct {
	id ListenerID
	fn Listener
}

// Node is one element of the rendered view.
type Node struct {
	Name   string
	Bounds Rect
	Style  Style

	attrs     map[string]string
	classes   map[string]struct{}
	parent    *Node
	children  []*Node
	listeners map[EventType][]listenerEntry
	nextID    ListenerID
}

func NewNode(name string, bounds Rect) *Node {
	return &Node{Name: name, Bounds: bounds}
}

func (n *Node) Parent() *Node     { return n.parent }
func (n *Node) Children() []*Node { return slices.Clone(n.children) }

// Append attaches children to n, detaching them from any previous parent.
func (n *Node) Append(children ...*Node) {
	for _, c := range children {
		if c == nil || c == n {
			continue
		}
		c.Detach()
		c.parent = n
		n.children = append(n.children, c)
	}
}

// Detach removes n from its parent.
func (n *Node) Detach() {
	p := n.parent
	if p == nil {
		return
	}
	if i := slices.Index(p.children, n); i >= 0 {
		p.children = slices.Delete(p.children, i, i+1)
	}
	n.parent = nil
}

// Contains reports whether other is n or one of its descendants.
func (n *Node) Contains(other *Node) bool {
	for c := other; c != nil; c = c.parent {
		if c == n {
			return true
		}
	}
	return false
}

func (n *Node) Attr(key string) (string, bool) {
	v, ok := n.attrs[key]
	return v, ok
}

func (n *Node) SetAttr(key, value string) {
	if n.attrs == nil {
		n.attrs = map[string]string{}
	}
	n.attrs[key] = value
}

func (n *Node) RemoveAttr(key string) { delete(n.attrs, key) }

// HasAttr reports whether key is set to a non-empty value.
func (n *Node) HasAttr(key string) bool {
	return n.attrs[key] != ""
}

func (n *Node) AddClass(c string) {
	if n.classes == nil {
		n.classes = map[string]struct{}{}
	}
	n.classes[c] = struct{}{}
}

func (n *Node) RemoveClass(c string) { delete(n.classes, c) }

func (n *Node) HasClass(c string) bool {
	_, ok := n.classes[c]
	return ok
}

// Closest returns the nearest of n and its ancestors carrying a non-empty attr.
func (n *Node) Closest(attr string) *Node {
	for c := n; c != nil; c = c.parent {
		if c.HasAttr(attr) {
			return c
		}
	}
	return nil
}

// AddListener attaches fn for events of type t.
func (n *Node) AddListener(t EventType, fn Listener) ListenerID {
	if n.listeners == nil {
		n.listeners = map[EventType][]listenerEntry{}
	}
	n.nextID++
	n.listeners[t] = append(n.listeners[t], listenerEntry{id: n.nextID, fn: fn})
	return n.nextID
}

// RemoveListener detaches a listener; unknown ids are ignored.
func (n *Node) RemoveListener(t EventType, id ListenerID) bool {
	ls := n.listeners[t]
	for i, l := range ls {
		if l.id == id {
			n.listeners[t] = slices.Delete(ls, i, i+1)
			if len(n.listeners[t]) == 0 {
				delete(n.listeners, t)
			}
			return true
		}
	}
	return false
}

// ListenerCount reports how many listeners of type t are attached.
func (n *Node) ListenerCount(t EventType) int { return len(n.listeners[t]) }

// Listening reports whether any listener at all is attached.
func (n *Node) Listening() bool { return len(n.listeners) > 0 }

// Dispatch delivers ev to n and then to each ancestor, stopping when a
// listener calls StopPropagation. It reports whether default was prevented.
func (n *Node) Dispatch(ev *Event) bool {
	ev.Target = n
	for c := n; c != nil && !ev.stopped; c = c.parent {
		ev.CurrentTarget = c
		// listeners may detach themselves while running
		for _, l := range slices.Clone(c.listeners[ev.Type]) {
			l.fn(ev)
		}
	}
	ev.CurrentTarget = nil
	return ev.prevented
}
