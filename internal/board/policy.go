// Package board decides what a completed drop means for the todo list and
// carries the resulting operation out.
package board

import (
	"slices"

	"github.com/Makepad-fr/tada/internal/dnd"
	"github.com/Makepad-fr/tada/internal/model"
)

// Column container ids.
const (
	ColumnIncomplete = "incomplete"
	ColumnCompleted  = "completed"
)

// Kind is the operation a drop resolves to.
type Kind int

const (
	None Kind = iota
	SetStatus
	Reorder
)

func (k Kind) String() string {
	switch k {
	case SetStatus:
		return "set_status"
	case Reorder:
		return "reorder"
	}
	return "none"
}

// Action is the outcome of Decide.
type Action struct {
	Kind   Kind
	ItemID int

	// SetStatus
	Completed bool

	// Reorder: the target item and both positions in the sorted view.
	OverID   int
	From, To int
}

// Policy maps container ids to the completion status they stand for.
type Policy struct {
	Columns map[string]bool
}

// DefaultPolicy knows the two board columns.
func DefaultPolicy() Policy {
	return Policy{Columns: map[string]bool{
		ColumnIncomplete: false,
		ColumnCompleted:  true,
	}}
}

// Decide turns a drop into an action against view, the sorted and filtered
// items the user was looking at. It is pure.
func (p Policy) Decide(ev dnd.CustomDragEvent, view []model.Item) Action {
	if ev.Over == nil || ev.Active.ID == ev.Over.ID {
		return Action{}
	}
	activeID, ok := ev.Active.ID.Int()
	if !ok {
		return Action{}
	}
	from := indexOf(view, activeID)
	if from < 0 {
		return Action{}
	}
	dragged := view[from]

	if done, ok := p.Columns[ev.Over.ID.String()]; ok {
		if dragged.Completed == done {
			return Action{}
		}
		return Action{Kind: SetStatus, ItemID: activeID, Completed: done}
	}

	overID, ok := ev.Over.ID.Int()
	if !ok {
		return Action{}
	}
	to := indexOf(view, overID)
	if to < 0 {
		return Action{}
	}
	if target := view[to]; target.Completed != dragged.Completed {
		return Action{Kind: SetStatus, ItemID: activeID, Completed: target.Completed}
	}
	return Action{Kind: Reorder, ItemID: activeID, OverID: overID, From: from, To: to}
}

func indexOf(items []model.Item, id int) int {
	return slices.IndexFunc(items, func(it model.Item) bool { return it.ID == id })
}
