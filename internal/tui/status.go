package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rshade/fintrack/internal/batch"
	"github.com/rshade/fintrack/internal/notify"
)

// statusLine is the notify sink of a TUI model. It keeps only the latest
// message, shown under the list until the next one replaces it.
type statusLine struct {
	sev     notify.Severity
	message string
}

// Notify implements notify.Sink.
func (s *statusLine) Notify(sev notify.Severity, message string) {
	s.sev = sev
	s.message = message
}

func (s *statusLine) clear() {
	s.message = ""
}

func (s *statusLine) View() string {
	if s.message == "" {
		return ""
	}
	return notify.Render(s.sev, s.message, false)
}

// bulkProgressMsg reports progress of a running bulk delete.
type bulkProgressMsg struct {
	snap batch.ProgressSnapshot
}

// bulkDoneMsg ends a bulk delete.
type bulkDoneMsg struct {
	deleted int
	failed  int
	err     error
}

// startBulk runs op over items on a goroutine and returns the channel its
// progress and completion messages arrive on.
func startBulk[T any](ctx context.Context, items []T, op batch.Operation[T]) <-chan tea.Msg {
	// One slot per progress message plus the final done message, so the
	// worker never blocks on a slow UI.
	ch := make(chan tea.Msg, len(items)+1)
	go func() {
		defer close(ch)
		p := batch.NewProcessorWithDefaults[T]().WithProgressCallback(func(s batch.ProgressSnapshot) {
			ch <- bulkProgressMsg{snap: s}
		})
		res, err := p.Run(ctx, items, op)
		if err == nil {
			err = res.Err()
		}
		ch <- bulkDoneMsg{deleted: len(res.Succeeded), failed: len(res.Failed), err: err}
	}()
	return ch
}

// waitBulk reads the next message from a bulk run.
func waitBulk(ch <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return nil
		}
		return msg
	}
}

// bulkSummary is the notification text after a bulk delete.
func bulkSummary(noun string, done bulkDoneMsg) (notify.Severity, string) {
	if done.failed == 0 && done.err == nil {
		return notify.Success, fmt.Sprintf("Deleted %d %s", done.deleted, noun)
	}
	if done.failed == 0 {
		return notify.Error, fmt.Sprintf("Deleted %d %s: %v", done.deleted, noun, done.err)
	}
	return notify.Error, fmt.Sprintf("Deleted %d of %d %s: %v", done.deleted, done.deleted+done.failed, noun, done.err)
}

// truncate shortens s to n runes, ending in "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}

// pad right-pads s with spaces to n runes.
func pad(s string, n int) string {
	r := []rune(s)
	if len(r) >= n {
		return s
	}
	return s + strings.Repeat(" ", n-len(r))
}
