package tui

import (
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
	"github.com/rs/zerolog"

	"github.com/Makepad-fr/tada/internal/board"
	"github.com/Makepad-fr/tada/internal/dnd"
	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/view"
)

var columnOrder = []string{board.ColumnIncomplete, board.ColumnCompleted}

// surface is the mutable state shared by every copy of the Bubble Tea
// model: the view tree the drag engine works on, the zone manager that
// measures it, and commands queued by drops.
type surface struct {
	zones  *zone.Manager
	prefix string

	doc    *view.Tree
	engine *dnd.Engine
	ptr    *dnd.Pointer
	cols   map[string]*view.Node
	rows   map[int]*view.Node

	focus   string
	pending []tea.Cmd
}

func newSurface(disp *board.Dispatcher, deadZone int, log zerolog.Logger) *surface {
	s := &surface{
		zones: zone.New(),
		doc:   view.NewTree(view.Rect{W: 80, H: 24}),
		cols:  map[string]*view.Node{},
		rows:  map[int]*view.Node{},
		focus: board.ColumnIncomplete,
	}
	s.prefix = s.zones.NewPrefix()
	s.engine = dnd.New(s.doc, dnd.WithLogger(log))
	for _, name := range columnOrder {
		n := view.NewNode(name, view.Rect{})
		s.doc.Root.Append(n)
		s.cols[name] = n
		s.engine.RegisterContainer(name, n)
	}
	s.engine.SetDragEndCallback(func(ev dnd.CustomDragEvent) {
		if cmd := disp.Handle(ev); cmd != nil {
			s.pending = append(s.pending, cmd)
		}
	})
	s.ptr = dnd.NewPointer(s.doc, deadZone)
	return s
}

func (s *surface) colZone(name string) string { return s.prefix + "col-" + name }
func (s *surface) rowZone(id int) string      { return s.prefix + "row-" + strconv.Itoa(id) }

// mount keeps one registered row node per shown item, parented to the
// column it is shown in. Rows for items no longer shown are unregistered.
func (s *surface) mount(columns map[string][]model.Item) {
	seen := map[int]bool{}
	for name, items := range columns {
		col := s.cols[name]
		for _, it := range items {
			seen[it.ID] = true
			n, ok := s.rows[it.ID]
			if !ok {
				n = view.NewNode("row", view.Rect{})
				s.rows[it.ID] = n
				col.Append(n)
				s.engine.RegisterDraggable(dnd.IntID(it.ID), n)
				continue
			}
			if n.Parent() != col {
				col.Append(n)
			}
		}
	}
	for id, n := range s.rows {
		if seen[id] {
			continue
		}
		s.engine.UnregisterDraggable(dnd.IntID(id))
		n.Detach()
		delete(s.rows, id)
	}
}

// layout copies the last rendered zone positions onto the view tree. Rows
// that are scrolled out of view get an empty rect.
func (s *surface) layout(width, height int, visible map[int]bool) {
	s.doc.Root.Bounds = view.Rect{W: width, H: height}
	for name, n := range s.cols {
		if r, ok := s.zoneRect(s.colZone(name)); ok {
			n.Bounds = r
		}
	}
	for id, n := range s.rows {
		if !visible[id] {
			n.Bounds = view.Rect{}
			continue
		}
		if r, ok := s.zoneRect(s.rowZone(id)); ok {
			n.Bounds = r
		}
	}
}

func (s *surface) zoneRect(id string) (view.Rect, bool) {
	z := s.zones.Get(id)
	if z == nil || z.IsZero() {
		return view.Rect{}, false
	}
	return view.Rect{
		X: z.StartX,
		Y: z.StartY,
		W: z.EndX - z.StartX + 1,
		H: z.EndY - z.StartY + 1,
	}, true
}

// rowID is the item id a row node stands for.
func rowID(n *view.Node) (int, bool) {
	if n == nil {
		return 0, false
	}
	v, ok := n.Attr(view.AttrDraggableID)
	if !ok {
		return 0, false
	}
	id, err := strconv.Atoi(v)
	return id, err == nil
}

// flush hands back the commands drops queued since the last call.
func (s *surface) flush() tea.Cmd {
	cmds := s.pending
	s.pending = nil
	return tea.Batch(cmds...)
}

func (s *surface) close() {
	s.ptr.Cancel()
	s.engine.Destroy()
	s.zones.Close()
}
