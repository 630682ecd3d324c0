package ui

import (
	"fmt"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/store"
)

const maxTitleWidth = 80

// Header is the counts line shown above a listing.
func Header(c store.Counts) string {
	t := Current()
	return fmt.Sprintf("%s  %s %d  %s %d  %s %d",
		C(t.Title, "Todos"),
		C(t.Success, t.SymDone), c.Completed,
		C(t.Pending, t.SymUnchecked), c.Incomplete,
		C(t.Accent, "Total"), c.Total,
	)
}

// ListLines renders items numbered from 1 in the given order. With group set
// the incomplete and completed sections are split but numbering continues
// across them, so indexes stay valid for done/rm/edit.
func ListLines(items []model.Item, group bool) []string {
	if !group {
		return flatLines(items, 1)
	}
	var pend, done []model.Item
	for _, it := range items {
		if it.Completed {
			done = append(done, it)
		} else {
			pend = append(pend, it)
		}
	}
	t := Current()
	var lines []string
	lines = append(lines, C(t.Accent, "Pending"))
	if len(pend) == 0 {
		lines = append(lines, C(t.Muted, "(none)"))
	} else {
		lines = append(lines, flatLines(pend, 1)...)
	}
	lines = append(lines, "")
	lines = append(lines, C(t.Accent, "Done"))
	if len(done) == 0 {
		lines = append(lines, C(t.Muted, "(none)"))
	} else {
		lines = append(lines, flatLines(done, len(pend)+1)...)
	}
	return lines
}

func flatLines(items []model.Item, first int) []string {
	t := Current()
	if len(items) == 0 {
		return []string{C(t.Muted, "no items")}
	}
	out := make([]string, 0, len(items))
	for i, it := range items {
		idx := fmt.Sprintf("%2d.", first+i)
		box, color := t.BoxUnchecked, t.Muted
		if it.Completed {
			box, color = t.BoxChecked, t.Success
		}
		out = append(out, fmt.Sprintf("%s %s %s", C(dim, idx), C(color, box), Truncate(it.Text, maxTitleWidth)))
	}
	return out
}

// Truncate shortens s to at most n runes, marking the cut with "...".
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}

// Listing is the full `ls` panel body.
func Listing(items []model.Item, c store.Counts, group bool) []string {
	lines := []string{
		Header(c),
		C(Current().Muted, ProgressBar(c.Completed, c.Total, 28)),
		"",
	}
	lines = append(lines, ListLines(items, group)...)
	lines = append(lines, "", C(Current().Muted, "Tip: add with `todo add \"Buy milk\"`"))
	return lines
}
