package detail

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// State is the load state of the record.
type State int

// Load states.
const (
	StateLoading State = iota
	StateLoaded
	StateError
)

// LoadFunc fetches the record.
type LoadFunc[T any] func(ctx context.Context) (T, error)

// RenderFunc renders a loaded record.
type RenderFunc[T any] func(item T) string

// LoadedMsg carries the outcome of one load attempt.
type LoadedMsg[T any] struct {
	Attempt int
	Item    T
	Err     error
}

//nolint:gochecknoglobals // Style definitions are read-only after init.
var (
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	hintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// Model loads one record on Open and renders it.
type Model[T any] struct {
	ctx     context.Context //nolint:containedctx // Bubble Tea commands need the caller's context.
	load    LoadFunc[T]
	render  RenderFunc[T]
	state   State
	item    T
	err     error
	attempt int
}

// New returns a detail model. Nothing is fetched until Open.
func New[T any](ctx context.Context, load LoadFunc[T], render RenderFunc[T]) *Model[T] {
	return &Model[T]{ctx: ctx, load: load, render: render}
}

// Open starts a load and returns the command that performs it. Results of
// earlier attempts are ignored once a new one starts.
func (m *Model[T]) Open() tea.Cmd {
	m.attempt++
	m.state = StateLoading
	m.err = nil
	attempt, load, ctx := m.attempt, m.load, m.ctx
	return func() tea.Msg {
		item, err := load(ctx)
		return LoadedMsg[T]{Attempt: attempt, Item: item, Err: err}
	}
}

// Update applies load results and handles the retry key.
func (m *Model[T]) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case LoadedMsg[T]:
		if msg.Attempt != m.attempt {
			return nil
		}
		if msg.Err != nil {
			m.state = StateError
			m.err = msg.Err
			return nil
		}
		m.state = StateLoaded
		m.item = msg.Item
	case tea.KeyMsg:
		if msg.String() == "r" && m.state == StateError {
			return m.Open()
		}
	}
	return nil
}

// State returns the load state.
func (m *Model[T]) State() State {
	return m.state
}

// Err returns the last load error.
func (m *Model[T]) Err() error {
	return m.err
}

// Item returns the loaded record.
func (m *Model[T]) Item() (T, bool) {
	return m.item, m.state == StateLoaded
}

// ErrIs reports whether the last load failed with target.
func (m *Model[T]) ErrIs(target error) bool {
	return errors.Is(m.err, target)
}

// View renders the current state.
func (m *Model[T]) View() string {
	switch m.state {
	case StateLoading:
		return hintStyle.Render("Loading...")
	case StateError:
		return errorStyle.Render("Error: "+m.err.Error()) + "\n" + hintStyle.Render("[r] retry  [esc] back")
	case StateLoaded:
		return m.render(m.item)
	default:
		return ""
	}
}
