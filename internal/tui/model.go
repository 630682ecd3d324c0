// Package tui is the interactive two-column board. Rows can be dragged with
// the mouse between and within the columns.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/Makepad-fr/tada/internal/board"
	"github.com/Makepad-fr/tada/internal/dnd"
	tlog "github.com/Makepad-fr/tada/internal/log"
	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/store"
	"github.com/Makepad-fr/tada/internal/ui"
	"github.com/Makepad-fr/tada/internal/view"
)

type mode int

const (
	modeNormal mode = iota
	modeAdd
	modeEdit
	modeSearch
	modeConfirmDelete
)

// loadAhead is how close to the end of a column the cursor gets before the
// next page is fetched.
const loadAhead = 3

// Options configures the board.
type Options struct {
	Backend  model.Backend
	PageSize int
	OwnerID  int
	// DeadZone is how far, in cells, the pointer moves before a press
	// becomes a drag. Negative uses the default.
	DeadZone int
	Timeout  time.Duration
	Logger   *zerolog.Logger
}

// Model is the Bubble Tea model for the board.
type Model struct {
	backend model.Backend
	items   *store.List
	pager   *store.Pager
	disp    *board.Dispatcher
	s       *surface
	cols    map[string]*list.Model
	log     zerolog.Logger

	keys keyMap
	help help.Model
	ti   textinput.Model

	mode     mode
	width    int
	height   int
	ownerID  int
	timeout  time.Duration
	editID   int
	deleteID int
	inputErr string
	status   string
}

// New builds a board over opts.Backend. Call Close when done.
func New(opts Options) Model {
	log := tlog.WithComponent("tui")
	if opts.Logger != nil {
		log = *opts.Logger
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	items := store.New()
	disp := board.NewDispatcher(opts.Backend, items, log.With().Str(tlog.FieldComponent, "board").Logger())
	disp.Timeout = timeout
	s := newSurface(disp, opts.DeadZone, log.With().Str(tlog.FieldComponent, "dnd").Logger())

	cols := make(map[string]*list.Model, len(columnOrder))
	for _, name := range columnOrder {
		l := list.New(nil, itemDelegate{s: s, col: name}, 0, 0)
		l.Title = columnTitle(name)
		l.SetShowStatusBar(false)
		l.SetShowHelp(false)
		l.SetShowPagination(true)
		l.SetFilteringEnabled(false)
		l.DisableQuitKeybindings()
		l.Styles.Title = titleStyle
		l.Styles.PaginationStyle = helpStyle
		l.SetStatusBarItemName("item", "items")
		cols[name] = &l
	}

	// set up text input for inline add/edit/search
	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = model.MaxTextLen

	h := help.New()
	h.Styles.ShortKey = helpStyle
	h.Styles.ShortDesc = helpStyle

	return Model{
		backend: opts.Backend,
		items:   items,
		pager:   store.NewPager(opts.PageSize),
		disp:    disp,
		s:       s,
		cols:    cols,
		log:     log,
		keys:    defaultKeys(),
		help:    h,
		ti:      ti,
		ownerID: opts.OwnerID,
		timeout: timeout,
	}
}

func columnTitle(name string) string {
	if name == board.ColumnCompleted {
		return "Completed"
	}
	return "To do"
}

// Close releases the drag engine and the zone manager.
func (m Model) Close() { m.s.close() }

// Run starts the board and blocks until the user quits.
func Run(opts Options) error {
	m := New(opts)
	defer m.Close()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}

// Update and View implement Bubble Tea's Model on Model
func (m Model) Init() tea.Cmd { return m.load(true) }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.resize()
		return m, nil

	case pageMsg:
		if msg.err != nil {
			m.pager.Fail()
			m.items.SetError("load: " + msg.err.Error())
			m.log.Warn().Err(msg.err).Str(tlog.FieldEvent, "page.failed").Msg("load failed")
			return m, nil
		}
		m.pager.Done(msg.page)
		if msg.reset {
			m.items.Set(msg.page.Todos)
		} else {
			m.items.Append(msg.page.Todos)
			m.items.SetLoading(false)
		}
		m.refresh()
		return m, nil

	case createdMsg:
		m.items.Add(msg.item)
		m.items.ClearError()
		m.status = "added"
		m.refresh()
		m.selectID(msg.item.ID)
		return m, nil

	case editedMsg:
		if old, ok := m.items.Get(msg.id); ok {
			m.items.Update(msg.req.Apply(old))
		}
		m.status = "saved"
		m.refresh()
		return m, nil

	case deletedMsg:
		m.items.Remove(msg.id)
		m.status = "deleted"
		m.refresh()
		return m, nil

	case opErrMsg:
		m.items.SetError(msg.op + ": " + msg.err.Error())
		m.log.Warn().Err(msg.err).Str(tlog.FieldEvent, msg.op+".failed").Msg("operation failed")
		return m, nil

	case board.StatusChangedMsg, board.FailedMsg:
		m.disp.Apply(msg)
		m.refresh()
		return m, nil

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.inputting() {
		var cmd tea.Cmd
		m.ti, cmd = m.ti.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) inputting() bool {
	return m.mode == modeAdd || m.mode == modeEdit || m.mode == modeSearch
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case modeAdd, modeEdit:
		return m.updateInput(msg)
	case modeSearch:
		return m.updateSearch(msg)
	case modeConfirmDelete:
		return m.updateConfirm(msg)
	}

	if msg.Type == tea.KeyEsc {
		if m.s.ptr.Dragging() {
			m.s.ptr.Cancel()
			return m, m.s.flush()
		}
		m.items.ClearError()
		m.status = ""
		return m, nil
	}

	l := m.cols[m.s.focus]
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.s.ptr.Cancel()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.resize()
	case key.Matches(msg, m.keys.Left):
		m.focusColumn(board.ColumnIncomplete)
	case key.Matches(msg, m.keys.Right):
		m.focusColumn(board.ColumnCompleted)
	case key.Matches(msg, m.keys.Up):
		l.CursorUp()
	case key.Matches(msg, m.keys.Down):
		l.CursorDown()
		return m, m.loadIfNearEnd()
	case key.Matches(msg, m.keys.Toggle):
		if it, ok := m.selected(); ok {
			return m, m.setStatus(it, !it.Completed)
		}
	case key.Matches(msg, m.keys.MoveRight):
		if it, ok := m.selected(); ok && !it.Completed {
			return m, m.setStatus(it, true)
		}
	case key.Matches(msg, m.keys.MoveLeft):
		if it, ok := m.selected(); ok && it.Completed {
			return m, m.setStatus(it, false)
		}
	case key.Matches(msg, m.keys.Add):
		m.startInput(modeAdd, "", "New item title...")
	case key.Matches(msg, m.keys.Edit):
		if it, ok := m.selected(); ok {
			m.editID = it.ID
			m.startInput(modeEdit, it.Text, "Edit item title...")
		}
	case key.Matches(msg, m.keys.Delete):
		if it, ok := m.selected(); ok {
			m.deleteID = it.ID
			m.setMode(modeConfirmDelete)
		}
	case key.Matches(msg, m.keys.Filter):
		m.items.SetFilter(m.items.Filter().Next())
		m.refresh()
	case key.Matches(msg, m.keys.Search):
		m.startInput(modeSearch, m.items.Search(), "Search...")
	case key.Matches(msg, m.keys.Reload):
		return m, m.load(true)
	case key.Matches(msg, m.keys.More):
		return m, m.load(false)
	}
	return m, nil
}

func (m Model) setStatus(it model.Item, done bool) tea.Cmd {
	return m.disp.Dispatch(board.Action{Kind: board.SetStatus, ItemID: it.ID, Completed: done})
}

func (m *Model) startInput(md mode, value, placeholder string) {
	m.inputErr = ""
	m.ti.SetValue(value)
	m.ti.CursorEnd()
	m.ti.Placeholder = placeholder
	m.ti.Focus()
	m.setMode(md)
}

func (m *Model) endInput() {
	m.inputErr = ""
	m.ti.SetValue("")
	m.ti.Blur()
	m.setMode(modeNormal)
}

func (m *Model) setMode(md mode) {
	m.mode = md
	m.resize()
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		if m.mode == modeAdd {
			req, err := model.NewCreateRequest(m.ti.Value(), m.ownerID)
			if err != nil {
				m.inputErr = err.Error()
				return m, nil
			}
			m.endInput()
			return m, m.create(req)
		}
		text, err := model.NormalizeText(m.ti.Value())
		if err != nil {
			m.inputErr = err.Error()
			return m, nil
		}
		id := m.editID
		m.endInput()
		return m, m.edit(id, model.SetText(text))
	case tea.KeyEsc:
		m.endInput()
		return m, nil
	}
	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	return m, cmd
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.ti.Blur()
		m.setMode(modeNormal)
		return m, nil
	case tea.KeyEsc:
		m.items.SetSearch("")
		m.endInput()
		m.refresh()
		return m, nil
	}
	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	m.items.SetSearch(m.ti.Value())
	m.refresh()
	return m, cmd
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		id := m.deleteID
		m.setMode(modeNormal)
		return m, m.remove(id)
	case key.Matches(msg, m.keys.Cancel):
		m.setMode(modeNormal)
	}
	return m, nil
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.mode != modeNormal {
		return m, nil
	}
	p := view.Point{X: msg.X, Y: msg.Y}

	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonLeft:
			m.s.layout(m.width, m.height, m.visible())
			if m.s.ptr.Press(p) {
				if id, ok := rowID(m.s.ptr.Source()); ok {
					m.selectID(id)
				}
			}
		case tea.MouseButtonWheelUp:
			m.cols[m.s.focus].CursorUp()
		case tea.MouseButtonWheelDown:
			m.cols[m.s.focus].CursorDown()
			return m, m.loadIfNearEnd()
		}
	case tea.MouseActionMotion:
		m.s.ptr.Move(p)
	case tea.MouseActionRelease:
		src := m.s.ptr.Source()
		if m.s.ptr.Release(p) {
			m.refresh()
			if id, ok := rowID(src); ok {
				m.selectID(id)
			}
			return m, m.s.flush()
		}
	}
	return m, nil
}

// refresh pushes the store's current view into both columns and mounts the
// matching row nodes.
func (m Model) refresh() {
	shown := map[string][]model.Item{
		board.ColumnIncomplete: m.items.Incomplete(),
		board.ColumnCompleted:  m.items.Completed(),
	}
	for name, items := range shown {
		l := m.cols[name]
		idx := l.Index()
		li := make([]list.Item, len(items))
		for i, it := range items {
			li[i] = listItem{it}
		}
		l.SetItems(li)
		if n := len(li); n > 0 {
			l.Select(min(idx, n-1))
		}
	}
	m.s.mount(shown)
}

func (m Model) focusColumn(name string) {
	m.s.focus = name
}

// selectID focuses the column showing id and moves its cursor there.
func (m Model) selectID(id int) {
	for _, name := range columnOrder {
		l := m.cols[name]
		for i, it := range l.Items() {
			if li, ok := it.(listItem); ok && li.ID == id {
				m.s.focus = name
				l.Select(i)
				return
			}
		}
	}
}

func (m Model) selected() (model.Item, bool) {
	it, ok := m.cols[m.s.focus].SelectedItem().(listItem)
	return it.Item, ok
}

func (m Model) loadIfNearEnd() tea.Cmd {
	l := m.cols[m.s.focus]
	if !m.pager.HasMore() || !store.NearEnd(l.Index(), len(l.Items()), loadAhead) {
		return nil
	}
	return m.load(false)
}

// visible is the set of item ids on each column's current page.
func (m Model) visible() map[int]bool {
	out := map[int]bool{}
	for _, l := range m.cols {
		items := l.Items()
		start, end := l.Paginator.GetSliceBounds(len(items))
		for _, it := range items[start:end] {
			if li, ok := it.(listItem); ok {
				out[li.ID] = true
			}
		}
	}
	return out
}

const (
	headerLines = 3
	footerLines = 2
	inputLines  = 4
)

func (m *Model) resize() {
	if m.width == 0 || m.height == 0 {
		return
	}
	// border and padding of each column
	colW := max(m.width/2-4, 10)
	chrome := headerLines + footerLines + 2
	if m.mode != modeNormal {
		chrome += inputLines
	}
	if m.help.ShowAll {
		chrome += 4
	}
	colH := max(m.height-chrome, 3)
	for _, l := range m.cols {
		l.SetSize(colW, colH)
	}
}

func (m Model) View() string {
	parts := []string{m.headerView(), m.columnsView()}
	if in := m.inputView(); in != "" {
		parts = append(parts, in)
	}
	parts = append(parts, m.footerView())
	return m.s.zones.Scan(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

func (m Model) headerView() string {
	c := m.items.Counts()
	line := fmt.Sprintf("%s   %s %d  %s %d  %s %d   %s",
		titleStyle.Render("Todos"),
		successStyle.Render("✔"), c.Completed,
		pendingStyle.Render("•"), c.Incomplete,
		accentStyle.Render("Total"), c.Total,
		mutedStyle.Render("filter: "+string(m.items.Filter())),
	)
	if q := m.items.Search(); q != "" {
		line += mutedStyle.Render("  search: " + q)
	}
	switch {
	case m.items.Loading():
		line += mutedStyle.Render("  loading...")
	case m.pager.HasMore():
		line += mutedStyle.Render("  more available")
	}
	return line + "\n" + mutedStyle.Render(ui.ProgressBar(c.Completed, c.Total, 28)) + "\n"
}

func (m Model) columnsView() string {
	cols := make([]string, 0, len(columnOrder))
	for _, name := range columnOrder {
		st := columnStyle
		switch {
		case m.s.cols[name].HasClass(dnd.ClassDragOver):
			st = st.BorderForeground(dropBorder)
		case m.s.focus == name:
			st = st.BorderForeground(focusedBorder)
		}
		cols = append(cols, m.s.zones.Mark(m.s.colZone(name), st.Render(m.cols[name].View())))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cols...)
}

func (m Model) inputView() string {
	var title string
	switch m.mode {
	case modeAdd:
		title = "Add new item"
	case modeEdit:
		title = "Edit item"
	case modeSearch:
		title = "Search"
	case modeConfirmDelete:
		text := ""
		if it, ok := m.items.Get(m.deleteID); ok {
			text = ui.Truncate(it.Text, 40)
		}
		return inputStyle.Render(errorStyle.Render(fmt.Sprintf("Delete %q?", text)) + "\n" + helpStyle.Render("y: delete  n: keep"))
	default:
		return ""
	}
	if m.inputErr != "" {
		title += " " + errorStyle.Render(m.inputErr)
	}
	return inputStyle.Render(title + "\n" + m.ti.View())
}

func (m Model) footerView() string {
	var line string
	switch {
	case m.items.Err() != "":
		line = errorStyle.Render("✖ "+m.items.Err()) + helpStyle.Render("  (esc to dismiss)")
	case m.s.ptr.Dragging():
		if id, ok := rowID(m.s.ptr.Source()); ok {
			if it, ok := m.items.Get(id); ok {
				line = accentStyle.Render(grip + " moving " + ui.Truncate(it.Text, 40))
			}
		}
	case m.status != "":
		line = successStyle.Render("✔ " + m.status)
	}
	return strings.TrimRight(line+"\n"+m.help.View(m.keys), "\n")
}
