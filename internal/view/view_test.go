package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// board builds document > column > row > icon.
func board() (*Tree, *Node, *Node, *Node) {
	t := NewTree(Rect{W: 80, H: 24})
	col := NewNode("column", Rect{X: 0, Y: 0, W: 40, H: 24})
	row := NewNode("row", Rect{X: 1, Y: 2, W: 38, H: 1})
	icon := NewNode("icon", Rect{X: 1, Y: 2, W: 2, H: 1})
	row.Append(icon)
	col.Append(row)
	t.Root.Append(col)
	return t, col, row, icon
}

func TestRectContains(t *testing.T) {
	r := Rect{X: 2, Y: 3, W: 4, H: 2}
	assert.True(t, r.Contains(Point{X: 2, Y: 3}))
	assert.True(t, r.Contains(Point{X: 5, Y: 4}))
	assert.False(t, r.Contains(Point{X: 6, Y: 4}), "right edge is exclusive")
	assert.False(t, r.Contains(Point{X: 2, Y: 5}), "bottom edge is exclusive")
	assert.Equal(t, Point{X: 4, Y: 4}, r.Center())
	assert.True(t, Rect{W: 0, H: 3}.Empty())
}

func TestElementsFromPointTopmostFirst(t *testing.T) {
	tr, col, row, icon := board()

	got := tr.ElementsFromPoint(Point{X: 1, Y: 2})
	assert.Equal(t, []*Node{icon, row, col, tr.Root}, got)

	got = tr.ElementsFromPoint(Point{X: 20, Y: 10})
	assert.Equal(t, []*Node{col, tr.Root}, got)

	assert.Empty(t, tr.ElementsFromPoint(Point{X: 200, Y: 200}))
	assert.Same(t, tr.Root, tr.ElementFromPoint(Point{X: 200, Y: 200}))
}

func TestElementsFromPointHonoursZIndex(t *testing.T) {
	tr, col, row, icon := board()
	row.Style.ZIndex = 1000

	got := tr.ElementsFromPoint(Point{X: 1, Y: 2})
	assert.Equal(t, []*Node{row, icon, col, tr.Root}, got)
}

func TestLaterSiblingIsOnTop(t *testing.T) {
	tr := NewTree(Rect{W: 10, H: 10})
	a := NewNode("a", Rect{W: 5, H: 5})
	b := NewNode("b", Rect{W: 5, H: 5})
	tr.Root.Append(a, b)
	assert.Equal(t, []*Node{b, a, tr.Root}, tr.ElementsFromPoint(Point{X: 1, Y: 1}))
}

func TestClosest(t *testing.T) {
	_, col, row, icon := board()
	col.SetAttr(AttrContainerID, "incomplete")
	row.SetAttr(AttrDraggableID, "7")

	assert.Same(t, col, icon.Closest(AttrContainerID))
	assert.Same(t, row, icon.Closest(AttrDraggableID))
	assert.Nil(t, col.Closest(AttrDraggableID))

	row.SetAttr(AttrDraggableID, "")
	assert.Nil(t, icon.Closest(AttrDraggableID), "empty attribute does not count")
}

func TestDispatchBubblesAndStops(t *testing.T) {
	tr, col, row, icon := board()
	var seen []string
	record := func(name string) Listener {
		return func(e *Event) {
			seen = append(seen, name)
			assert.Same(t, icon, e.Target)
		}
	}
	row.AddListener(Drop, record("row"))
	col.AddListener(Drop, func(e *Event) {
		seen = append(seen, "col")
		e.PreventDefault()
		e.StopPropagation()
	})
	tr.Root.AddListener(Drop, record("document"))

	prevented := icon.Dispatch(NewEvent(Drop, Point{X: 1, Y: 2}, nil))
	assert.True(t, prevented)
	assert.Equal(t, []string{"row", "col"}, seen)
}

func TestRemoveListener(t *testing.T) {
	n := NewNode("n", Rect{W: 1, H: 1})
	calls := 0
	id := n.AddListener(DragStart, func(*Event) { calls++ })
	require.Equal(t, 1, n.ListenerCount(DragStart))

	assert.True(t, n.RemoveListener(DragStart, id))
	assert.False(t, n.RemoveListener(DragStart, id))
	assert.False(t, n.Listening())

	n.Dispatch(NewEvent(DragStart, Point{}, nil))
	assert.Zero(t, calls)
}

func TestListenerMayRemoveItselfDuringDispatch(t *testing.T) {
	n := NewNode("n", Rect{W: 1, H: 1})
	calls := 0
	var id ListenerID
	id = n.AddListener(Drag, func(*Event) {
		calls++
		n.RemoveListener(Drag, id)
	})
	n.AddListener(Drag, func(*Event) { calls++ })

	n.Dispatch(NewEvent(Drag, Point{}, nil))
	assert.Equal(t, 2, calls)
	n.Dispatch(NewEvent(Drag, Point{}, nil))
	assert.Equal(t, 3, calls)
}

func TestAppendReparents(t *testing.T) {
	a := NewNode("a", Rect{})
	b := NewNode("b", Rect{})
	c := NewNode("c", Rect{})
	a.Append(c)
	b.Append(c)
	assert.Empty(t, a.Children())
	assert.Equal(t, []*Node{c}, b.Children())
	assert.Same(t, b, c.Parent())
	assert.True(t, b.Contains(c))
	assert.False(t, a.Contains(c))
}

func TestDataTransfer(t *testing.T) {
	d := NewDataTransfer()
	assert.Empty(t, d.GetData("text/plain"))
	d.SetData("text/plain", "12")
	assert.Equal(t, "12", d.GetData("text/plain"))

	var nilData *DataTransfer
	assert.Empty(t, nilData.GetData("text/plain"))

	n := NewNode("img", Rect{W: 4, H: 2})
	d.SetDragImage(n, Point{X: 2, Y: 1})
	img, off := d.DragImage()
	assert.Same(t, n, img)
	assert.Equal(t, Point{X: 2, Y: 1}, off)
}
