package listview

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// RenderFunc renders one row. cursor is set for the row under the cursor,
// marked for rows selected for a bulk action.
type RenderFunc[T any] func(item T, cursor, marked bool) string

// KeyFunc returns the identity of an item.
type KeyFunc[T any] func(item T) int64

// Model is a cursor list over one page of items.
type Model[T any] struct {
	items  []T
	render RenderFunc[T]
	key    KeyFunc[T]

	cursor int
	marked map[int64]bool

	// offset is the first rendered row when the page is taller than height.
	offset int
	height int
}

// New returns an empty list rendering rows with render.
func New[T any](key KeyFunc[T], render RenderFunc[T], height int) *Model[T] {
	return &Model[T]{
		render: render,
		key:    key,
		marked: make(map[int64]bool),
		height: max(height, 1),
	}
}

// SetItems replaces the rows. The cursor is kept in range and marks on
// items no longer present are dropped.
func (m *Model[T]) SetItems(items []T) {
	m.items = items
	present := make(map[int64]bool, len(items))
	for _, it := range items {
		present[m.key(it)] = true
	}
	for k := range m.marked {
		if !present[k] {
			delete(m.marked, k)
		}
	}
	m.SetCursor(m.cursor)
}

// SetHeight sets how many rows are rendered.
func (m *Model[T]) SetHeight(h int) {
	m.height = max(h, 1)
	m.scroll()
}

// Update moves the cursor and toggles marks.
//
//nolint:exhaustive // Only navigation keys are handled.
func (m *Model[T]) Update(msg tea.Msg) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || len(m.items) == 0 {
		return
	}
	switch keyMsg.String() {
	case "up", "k":
		m.SetCursor(m.cursor - 1)
	case "down", "j":
		m.SetCursor(m.cursor + 1)
	case "pgup":
		m.SetCursor(m.cursor - m.height)
	case "pgdown":
		m.SetCursor(m.cursor + m.height)
	case "g":
		m.SetCursor(0)
	case "G":
		m.SetCursor(len(m.items) - 1)
	case " ", "space":
		m.ToggleMark()
	}
}

// View renders the visible rows.
func (m *Model[T]) View() string {
	if len(m.items) == 0 {
		return ""
	}
	end := min(m.offset+m.height, len(m.items))
	var b strings.Builder
	for i := m.offset; i < end; i++ {
		if i > m.offset {
			b.WriteByte('\n')
		}
		it := m.items[i]
		b.WriteString(m.render(it, i == m.cursor, m.marked[m.key(it)]))
	}
	return b.String()
}

// Len returns the number of rows.
func (m *Model[T]) Len() int {
	return len(m.items)
}

// Cursor returns the cursor row index.
func (m *Model[T]) Cursor() int {
	return m.cursor
}

// SetCursor moves the cursor, clamped to the rows.
func (m *Model[T]) SetCursor(i int) {
	switch {
	case len(m.items) == 0 || i < 0:
		m.cursor = 0
	case i >= len(m.items):
		m.cursor = len(m.items) - 1
	default:
		m.cursor = i
	}
	m.scroll()
}

// Current returns the item under the cursor, or nil when empty.
func (m *Model[T]) Current() *T {
	if m.cursor < 0 || m.cursor >= len(m.items) {
		return nil
	}
	return &m.items[m.cursor]
}

// ToggleMark marks or unmarks the cursor row.
func (m *Model[T]) ToggleMark() {
	it := m.Current()
	if it == nil {
		return
	}
	k := m.key(*it)
	if m.marked[k] {
		delete(m.marked, k)
	} else {
		m.marked[k] = true
	}
}

// Marked returns the marked items in row order.
func (m *Model[T]) Marked() []T {
	var out []T
	for _, it := range m.items {
		if m.marked[m.key(it)] {
			out = append(out, it)
		}
	}
	return out
}

// ClearMarks unmarks every row.
func (m *Model[T]) ClearMarks() {
	clear(m.marked)
}

// VisibleFrom returns the first rendered row index.
func (m *Model[T]) VisibleFrom() int {
	return m.offset
}

// scroll keeps the cursor inside the rendered window.
func (m *Model[T]) scroll() {
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.height {
		m.offset = m.cursor - m.height + 1
	}
	if maxOffset := max(len(m.items)-m.height, 0); m.offset > maxOffset {
		m.offset = maxOffset
	}
}
