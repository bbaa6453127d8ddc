package listview

import (
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	id   int64
	name string
}

func newModel(n, height int) *Model[row] {
	m := New(
		func(r row) int64 { return r.id },
		func(r row, cursor, marked bool) string {
			prefix := "  "
			if cursor {
				prefix = "> "
			}
			if marked {
				prefix += "*"
			}
			return prefix + r.name
		},
		height,
	)
	items := make([]row, n)
	for i := range items {
		items[i] = row{id: int64(i + 100), name: fmt.Sprintf("row%d", i)}
	}
	m.SetItems(items)
	return m
}

func key(s string) tea.KeyMsg {
	switch s {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func TestModel_Navigation(t *testing.T) {
	m := newModel(10, 4)

	m.Update(key("up"))
	assert.Equal(t, 0, m.Cursor(), "cursor stays at the top")

	m.Update(key("down"))
	m.Update(key("j"))
	assert.Equal(t, 2, m.Cursor())

	m.Update(key("G"))
	assert.Equal(t, 9, m.Cursor())
	assert.Equal(t, 6, m.VisibleFrom())

	m.Update(key("g"))
	assert.Equal(t, 0, m.Cursor())
	assert.Equal(t, 0, m.VisibleFrom())
}

func TestModel_View(t *testing.T) {
	m := newModel(10, 3)
	lines := strings.Split(m.View(), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "> row0", lines[0])
	assert.Equal(t, "  row1", lines[1])

	assert.Empty(t, newModel(0, 3).View())
}

func TestModel_Marks(t *testing.T) {
	m := newModel(5, 5)
	m.Update(key(" "))
	m.SetCursor(3)
	m.ToggleMark()

	marked := m.Marked()
	require.Len(t, marked, 2)
	assert.Equal(t, int64(100), marked[0].id)
	assert.Equal(t, int64(103), marked[1].id)
	assert.Contains(t, m.View(), "*row3")

	m.ToggleMark()
	assert.Len(t, m.Marked(), 1)

	// Reload without row 100 drops its mark.
	m.SetItems([]row{{id: 101, name: "row1"}})
	assert.Empty(t, m.Marked())
	assert.Equal(t, 0, m.Cursor())

	m.ToggleMark()
	m.ClearMarks()
	assert.Empty(t, m.Marked())
}

func TestModel_CurrentOnEmpty(t *testing.T) {
	m := newModel(0, 3)
	assert.Nil(t, m.Current())
	m.ToggleMark()
	assert.Empty(t, m.Marked())
}
