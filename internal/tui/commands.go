package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Makepad-fr/tada/internal/model"
)

type pageMsg struct {
	page  model.Page
	reset bool
	err   error
}

type createdMsg struct{ item model.Item }

type editedMsg struct {
	id  int
	req model.UpdateRequest
}

type deletedMsg struct{ id int }

type opErrMsg struct {
	op  string
	err error
}

// load claims the next page from the pager; it is a no-op while a fetch is
// running or when nothing is left.
func (m Model) load(reset bool) tea.Cmd {
	skip, limit, ok := m.pager.Begin(reset)
	if !ok {
		return nil
	}
	m.items.SetLoading(true)
	backend, timeout := m.backend, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		page, err := backend.List(ctx, skip, limit)
		return pageMsg{page: page, reset: reset, err: err}
	}
}

func (m Model) create(req model.CreateRequest) tea.Cmd {
	backend, timeout := m.backend, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		it, err := backend.Create(ctx, req)
		if err != nil {
			return opErrMsg{op: "add", err: err}
		}
		return createdMsg{item: it}
	}
}

func (m Model) edit(id int, req model.UpdateRequest) tea.Cmd {
	backend, timeout := m.backend, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if _, err := backend.Update(ctx, id, req); err != nil {
			return opErrMsg{op: "edit", err: err}
		}
		return editedMsg{id: id, req: req}
	}
}

func (m Model) remove(id int) tea.Cmd {
	backend, timeout := m.backend, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := backend.Delete(ctx, id); err != nil {
			return opErrMsg{op: "delete", err: err}
		}
		return deletedMsg{id: id}
	}
}

const defaultTimeout = 10 * time.Second
