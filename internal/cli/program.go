package cli

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// withStartup runs a constructor's first command alongside the model's own
// Init. After the first Update the program holds the inner model.
type withStartup struct {
	tea.Model

	cmd tea.Cmd
}

// Init implements tea.Model.
func (w withStartup) Init() tea.Cmd {
	return tea.Batch(w.Model.Init(), w.cmd)
}

// sessionErr is implemented by models that can end with an error, such as an
// expired session.
type sessionErr interface {
	Err() error
}

// runProgram runs model full-screen until it quits and returns the model's
// terminal error, if any.
func runProgram(ctx context.Context, model tea.Model, start tea.Cmd, opts ...tea.ProgramOption) (tea.Model, error) {
	opts = append([]tea.ProgramOption{tea.WithContext(ctx)}, opts...)
	p := tea.NewProgram(withStartup{Model: model, cmd: start}, opts...)
	final, err := p.Run()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return final, fmt.Errorf("failed to run interactive TUI: %w", err)
	}
	if w, ok := final.(withStartup); ok {
		final = w.Model
	}
	if m, ok := final.(sessionErr); ok && m.Err() != nil {
		return final, classify(m.Err())
	}
	return final, nil
}
