// Package store holds the in-memory todo list the UI renders: the canonical
// item order, the active filter and search, and the derived views.
package store

import (
	"fmt"
	"slices"
	"strings"

	"github.com/Makepad-fr/tada/internal/model"
)

// Filter restricts the view by completion status.
type Filter string

const (
	FilterAll        Filter = "all"
	FilterIncomplete Filter = "incomplete"
	FilterCompleted  Filter = "completed"
)

// ParseFilter accepts "all", "incomplete" or "completed".
func ParseFilter(s string) (Filter, error) {
	switch f := Filter(strings.ToLower(strings.TrimSpace(s))); f {
	case FilterAll, FilterIncomplete, FilterCompleted:
		return f, nil
	case "":
		return FilterAll, nil
	}
	return "", fmt.Errorf("unknown filter %q", s)
}

// Next cycles all → incomplete → completed → all.
func (f Filter) Next() Filter {
	switch f {
	case FilterAll:
		return FilterIncomplete
	case FilterIncomplete:
		return FilterCompleted
	}
	return FilterAll
}

// Counts are computed over every item regardless of filter.
type Counts struct {
	Total, Completed, Incomplete int
}

// List is the canonical item collection. It is owned by the UI loop and is
// not safe for concurrent use.
type List struct {
	items   []model.Item
	filter  Filter
	search  string
	loading bool
	err     string
}

func New(items ...model.Item) *List {
	return &List{items: slices.Clone(items), filter: FilterAll}
}

// Items returns a copy of the canonical order.
func (l *List) Items() []model.Item { return slices.Clone(l.items) }

func (l *List) Len() int { return len(l.items) }

// Set replaces every item, newest first, and clears loading and error
// state.
func (l *List) Set(items []model.Item) {
	l.items = NewestFirst(items)
	l.loading = false
	l.err = ""
}

// Append adds a fetched page after the items already loaded, newest first
// within the page, skipping ids already present.
func (l *List) Append(items []model.Item) int {
	added := 0
	for _, it := range NewestFirst(items) {
		if l.Index(it.ID) >= 0 {
			continue
		}
		l.items = append(l.items, it)
		added++
	}
	return added
}

// Add puts a new item first.
func (l *List) Add(it model.Item) {
	l.items = slices.Insert(l.items, 0, it)
}

// Update replaces the item with the same id.
func (l *List) Update(it model.Item) bool {
	i := l.Index(it.ID)
	if i < 0 {
		return false
	}
	l.items[i] = it
	return true
}

func (l *List) Remove(id int) bool {
	i := l.Index(id)
	if i < 0 {
		return false
	}
	l.items = slices.Delete(l.items, i, i+1)
	return true
}

func (l *List) Toggle(id int) bool {
	i := l.Index(id)
	if i < 0 {
		return false
	}
	l.items[i].Completed = !l.items[i].Completed
	return true
}

func (l *List) SetCompleted(id int, done bool) bool {
	i := l.Index(id)
	if i < 0 {
		return false
	}
	l.items[i].Completed = done
	return true
}

// Reorder removes the item at from and inserts it at to. Out of range
// indexes leave the list unchanged.
func (l *List) Reorder(from, to int) bool {
	n := len(l.items)
	if from < 0 || from >= n || to < 0 || to >= n {
		return false
	}
	if from == to {
		return true
	}
	it := l.items[from]
	l.items = slices.Delete(l.items, from, from+1)
	l.items = slices.Insert(l.items, to, it)
	return true
}

// Move reorders by identity: the item id takes over's position.
func (l *List) Move(id, over int) bool {
	return l.Reorder(l.Index(id), l.Index(over))
}

func (l *List) Get(id int) (model.Item, bool) {
	i := l.Index(id)
	if i < 0 {
		return model.Item{}, false
	}
	return l.items[i], true
}

// Index is the canonical position of id, or -1.
func (l *List) Index(id int) int {
	return slices.IndexFunc(l.items, func(it model.Item) bool { return it.ID == id })
}

func (l *List) Filter() Filter     { return l.filter }
func (l *List) SetFilter(f Filter) { l.filter = f }
func (l *List) Search() string     { return l.search }
func (l *List) SetSearch(q string) { l.search = q }
func (l *List) Loading() bool      { return l.loading }
func (l *List) SetLoading(b bool)  { l.loading = b }
func (l *List) Err() string        { return l.err }
func (l *List) ClearError()        { l.err = "" }

// SetError records a user-visible failure and stops loading.
func (l *List) SetError(msg string) {
	l.err = msg
	l.loading = false
}

// Filtered applies the status filter and search query.
func (l *List) Filtered() []model.Item {
	return FilterItems(l.items, l.filter, l.search)
}

// Sorted is the filtered view with incomplete items first.
func (l *List) Sorted() []model.Item {
	return SortItems(l.Filtered())
}

// Incomplete is the sorted view's incomplete column.
func (l *List) Incomplete() []model.Item {
	return byStatus(l.Sorted(), false)
}

// Completed is the sorted view's completed column.
func (l *List) Completed() []model.Item {
	return byStatus(l.Sorted(), true)
}

func (l *List) Counts() Counts {
	c := Counts{Total: len(l.items)}
	for _, it := range l.items {
		if it.Completed {
			c.Completed++
		} else {
			c.Incomplete++
		}
	}
	return c
}

// FilterItems keeps items matching f whose text contains query, ignoring case.
func FilterItems(items []model.Item, f Filter, query string) []model.Item {
	query = strings.ToLower(strings.TrimSpace(query))
	out := make([]model.Item, 0, len(items))
	for _, it := range items {
		switch f {
		case FilterCompleted:
			if !it.Completed {
				continue
			}
		case FilterIncomplete:
			if it.Completed {
				continue
			}
		}
		if query != "" && !strings.Contains(strings.ToLower(it.Text), query) {
			continue
		}
		out = append(out, it)
	}
	return out
}

// SortItems puts incomplete items before completed ones and otherwise keeps
// the given order, so manual reorders survive. Loaded pages and added items
// are already newest first.
func SortItems(items []model.Item) []model.Item {
	out := slices.Clone(items)
	slices.SortStableFunc(out, func(a, b model.Item) int {
		switch {
		case a.Completed == b.Completed:
			return 0
		case a.Completed:
			return 1
		}
		return -1
	})
	return out
}

// NewestFirst returns items ordered by id, highest first. Ids grow with
// creation time on both backends.
func NewestFirst(items []model.Item) []model.Item {
	out := slices.Clone(items)
	slices.SortStableFunc(out, func(a, b model.Item) int { return b.ID - a.ID })
	return out
}

func byStatus(items []model.Item, done bool) []model.Item {
	out := make([]model.Item, 0, len(items))
	for _, it := range items {
		if it.Completed == done {
			out = append(out, it)
		}
	}
	return out
}
