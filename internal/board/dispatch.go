package board

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/Makepad-fr/tada/internal/dnd"
	tlog "github.com/Makepad-fr/tada/internal/log"
	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/store"
)

// DefaultTimeout bounds a remote status update.
const DefaultTimeout = 10 * time.Second

// ErrStale is reported when a reorder names an item the list no longer has.
var ErrStale = errors.New("item no longer in list")

// StatusChangedMsg is delivered when a status update succeeded.
type StatusChangedMsg struct {
	ID        int
	Completed bool
}

// FailedMsg is delivered when an operation failed. The list is left as it
// was.
type FailedMsg struct {
	Action Action
	Err    error
}

func (m FailedMsg) Error() string {
	return fmt.Sprintf("%s item %d: %v", m.Action.Kind, m.Action.ItemID, m.Err)
}

// Dispatcher applies drop actions. It is owned by the UI loop: Handle and
// Apply touch List directly, while status updates run inside the returned
// command and report back through messages.
type Dispatcher struct {
	Policy  Policy
	Backend model.Backend
	List    *store.List
	Log     zerolog.Logger
	Timeout time.Duration
}

// NewDispatcher wires a dispatcher with the default policy.
func NewDispatcher(b model.Backend, l *store.List, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		Policy:  DefaultPolicy(),
		Backend: b,
		List:    l,
		Log:     log,
		Timeout: DefaultTimeout,
	}
}

// Handle decides and dispatches a drop in one step.
func (d *Dispatcher) Handle(ev dnd.CustomDragEvent) tea.Cmd {
	a := d.Policy.Decide(ev, d.List.Sorted())
	logEvt := d.Log.Debug().
		Str(tlog.FieldEvent, "drop.decided").
		Str(tlog.FieldActiveID, ev.Active.ID.String()).
		Str("action", a.Kind.String())
	if ev.Over != nil {
		logEvt = logEvt.Str(tlog.FieldOverID, ev.Over.ID.String())
	}
	logEvt.Msg("drop")
	return d.Dispatch(a)
}

// Dispatch carries out a. Reorders are local and happen now; status updates
// go to the backend in the returned command.
func (d *Dispatcher) Dispatch(a Action) tea.Cmd {
	switch a.Kind {
	case Reorder:
		if !d.List.Move(a.ItemID, a.OverID) {
			return d.fail(a, ErrStale)
		}
		d.Log.Info().
			Str(tlog.FieldEvent, "item.reordered").
			Int(tlog.FieldItemID, a.ItemID).
			Int(tlog.FieldFrom, a.From).
			Int(tlog.FieldTo, a.To).
			Msg("item reordered")
		return nil
	case SetStatus:
		return d.setStatus(a)
	}
	return nil
}

func (d *Dispatcher) setStatus(a Action) tea.Cmd {
	backend, log := d.Backend, d.Log
	timeout := d.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		completed := a.Completed
		if _, err := backend.Update(ctx, a.ItemID, model.UpdateRequest{Completed: &completed}); err != nil {
			log.Warn().Err(err).
				Str(tlog.FieldEvent, "item.status_failed").
				Int(tlog.FieldItemID, a.ItemID).
				Bool(tlog.FieldCompleted, completed).
				Msg("status update failed")
			return FailedMsg{Action: a, Err: err}
		}
		log.Info().
			Str(tlog.FieldEvent, "item.status_changed").
			Int(tlog.FieldItemID, a.ItemID).
			Bool(tlog.FieldCompleted, completed).
			Msg("status updated")
		return StatusChangedMsg{ID: a.ItemID, Completed: completed}
	}
}

func (d *Dispatcher) fail(a Action, err error) tea.Cmd {
	d.Log.Warn().Err(err).
		Str(tlog.FieldEvent, "item.reorder_failed").
		Int(tlog.FieldItemID, a.ItemID).
		Msg("reorder failed")
	return func() tea.Msg { return FailedMsg{Action: a, Err: err} }
}

// Apply folds a dispatcher message into the list and reports whether msg
// was one.
func (d *Dispatcher) Apply(msg tea.Msg) bool {
	switch m := msg.(type) {
	case StatusChangedMsg:
		d.List.SetCompleted(m.ID, m.Completed)
		return true
	case FailedMsg:
		d.List.SetError(m.Error())
		return true
	}
	return false
}
