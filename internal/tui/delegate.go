package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Makepad-fr/tada/internal/dnd"
	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/ui"
)

// listItem adapts model.Item to bubbles/list.Item
type listItem struct {
	model.Item
}

func (i listItem) FilterValue() string { return i.Text }

// Custom delegate to control how items render (single line). Every row is
// wrapped in a zone so the mouse can find it.
type itemDelegate struct {
	s   *surface
	col string
}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(listItem)
	if !ok {
		return
	}
	width := max(m.Width(), 10)
	text := ui.Truncate(it.Text, width-6)

	var line string
	if d.s.engine.IsDragging(dnd.IntID(it.ID)) {
		line = "  " + draggingStyle.Render(grip+" "+text)
	} else {
		box := mutedStyle.Render(boxUnchecked)
		if it.Completed {
			box = successStyle.Render(boxChecked)
			text = doneStyle.Render(text)
		}
		prefix := "  "
		if index == m.Index() && d.s.focus == d.col {
			prefix = selectedStyle.Render("> ")
		}
		line = fmt.Sprintf("%s%s %s", prefix, box, text)
	}
	line = lipgloss.NewStyle().Width(width).Render(line)
	fmt.Fprint(w, d.s.zones.Mark(d.s.rowZone(it.ID), line))
}
