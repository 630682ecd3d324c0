package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/store"
)

func useMono(t *testing.T) {
	t.Helper()
	require.NoError(t, SetTheme("mono"))
	t.Cleanup(func() { _ = SetTheme("classic") })
}

func TestSetTheme(t *testing.T) {
	t.Cleanup(func() { _ = SetTheme("classic") })
	require.NoError(t, SetTheme("NEON"))
	assert.Equal(t, "neon", Current().Name)

	assert.Error(t, SetTheme("sepia"))
	assert.Equal(t, "classic", Current().Name)
}

func TestColorMode(t *testing.T) {
	t.Cleanup(func() { _ = SetColorMode(ColorAuto) })

	require.NoError(t, SetColorMode("ALWAYS"))
	assert.Equal(t, fgRed+"x"+reset, C(fgRed, "x"))
	assert.Equal(t, "x", C("", "x"))

	require.NoError(t, SetColorMode(ColorNever))
	assert.Equal(t, "x", C(fgRed, "x"))

	assert.Error(t, SetColorMode("sometimes"))
	assert.Equal(t, ColorNever, colorMode, "bad mode keeps the previous one")
}

func TestColorAutoHonorsNoColor(t *testing.T) {
	t.Cleanup(func() { _ = SetColorMode(ColorAuto) })
	require.NoError(t, SetColorMode(ColorAuto))
	t.Setenv("NO_COLOR", "1")
	assert.Equal(t, "x", C(fgRed, "x"))
}

func TestMonoThemeBeatsAlways(t *testing.T) {
	useMono(t)
	t.Cleanup(func() { _ = SetColorMode(ColorAuto) })
	require.NoError(t, SetColorMode(ColorAlways))
	assert.Equal(t, "x", C(fgRed, "x"))
}

func TestProgressBar(t *testing.T) {
	assert.Equal(t, "█████░░░░░  50%", ProgressBar(1, 2, 10))
	assert.Equal(t, "░░░░░   0%", ProgressBar(0, 0, 1))
}

func TestListLinesGroupedKeepsNumbering(t *testing.T) {
	useMono(t)
	items := []model.Item{
		{ID: 1, Text: "Buy milk"},
		{ID: 3, Text: "Write report"},
		{ID: 2, Text: "Walk dog", Completed: true},
	}
	got := ListLines(items, true)
	assert.Equal(t, []string{
		"Pending",
		" 1. [ ] Buy milk",
		" 2. [ ] Write report",
		"",
		"Done",
		" 3. [x] Walk dog",
	}, got)

	assert.Equal(t, []string{"no items"}, ListLines(nil, false))
}

func TestPanel(t *testing.T) {
	useMono(t)
	var buf bytes.Buffer
	Panel(&buf, []string{"ab", "abcd"})
	assert.Equal(t, strings.Join([]string{
		"+------+",
		"| ab   |",
		"| abcd |",
		"+------+",
		"",
	}, "\n"), buf.String())
}

func TestListingHeader(t *testing.T) {
	useMono(t)
	lines := Listing(nil, store.Counts{Total: 4, Completed: 1, Incomplete: 3}, false)
	assert.Equal(t, "Todos  x 1  - 3  Total 4", lines[0])
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "héllo", Truncate("héllo", 5))
	assert.Equal(t, "hé...", Truncate("héllo world", 5))
}

func TestOKAndFail(t *testing.T) {
	useMono(t)
	var buf bytes.Buffer
	OK(&buf, "added")
	Fail(&buf, "nope")
	assert.Equal(t, "✔ added\n✖ nope\n", buf.String())
}
