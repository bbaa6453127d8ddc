// Package notify delivers transient user-facing messages such as
// "Transaction deleted" or a failed page load.
package notify

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
)

// Severity classifies a notification.
type Severity int

const (
	// Success reports a completed user action.
	Success Severity = iota
	// Error reports a failed operation.
	Error
)

// String returns the lowercase severity name.
func (s Severity) String() string {
	switch s {
	case Success:
		return "success"
	case Error:
		return "error"
	default:
		return fmt.Sprintf("severity(%d)", int(s))
	}
}

// Sink receives notifications.
type Sink interface {
	Notify(sev Severity, message string)
}

// Func adapts a plain function to Sink.
type Func func(sev Severity, message string)

// Notify calls f.
func (f Func) Notify(sev Severity, message string) {
	f(sev, message)
}

// Discard drops every notification.
//
//nolint:gochecknoglobals // Stateless sink.
var Discard Sink = Func(func(Severity, string) {})

//nolint:gochecknoglobals // Style definitions are read-only after init.
var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
)

// WriterSink prints notifications as single styled lines.
type WriterSink struct {
	mu    sync.Mutex
	w     io.Writer
	plain bool
}

// NewWriterSink returns a sink writing to w. When plain is true no ANSI
// styling is applied.
func NewWriterSink(w io.Writer, plain bool) *WriterSink {
	return &WriterSink{w: w, plain: plain}
}

// Notify writes one line for the notification.
func (s *WriterSink) Notify(sev Severity, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, _ = fmt.Fprintln(s.w, Render(sev, message, s.plain))
}

// Render formats a notification the way WriterSink prints it.
func Render(sev Severity, message string, plain bool) string {
	prefix := "✓"
	style := successStyle
	if sev == Error {
		prefix = "✗"
		style = errorStyle
	}
	if plain {
		return prefix + " " + message
	}
	return style.Render(prefix) + " " + message
}

// LogSink records notifications in the structured log.
type LogSink struct {
	logger zerolog.Logger
}

// NewLogSink returns a sink that logs each notification on logger.
func NewLogSink(logger zerolog.Logger) LogSink {
	return LogSink{logger: logger.With().Str("component", "notify").Logger()}
}

// Notify logs the message at info for success and warn for errors.
func (s LogSink) Notify(sev Severity, message string) {
	ev := s.logger.Info()
	if sev == Error {
		ev = s.logger.Warn()
	}
	ev.Str("severity", sev.String()).Msg(message)
}

// Multi fans a notification out to every sink in order.
type Multi []Sink

// Notify forwards to each non-nil sink.
func (m Multi) Notify(sev Severity, message string) {
	for _, s := range m {
		if s != nil {
			s.Notify(sev, message)
		}
	}
}

// Recorder keeps notifications in memory. Used by tests and by views that
// render the latest message in a status line.
type Recorder struct {
	mu      sync.Mutex
	entries []Entry
}

// Entry is one recorded notification.
type Entry struct {
	Severity Severity
	Message  string
}

// Notify appends the notification.
func (r *Recorder) Notify(sev Severity, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, Entry{Severity: sev, Message: message})
}

// Entries returns a copy of everything recorded so far.
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Last returns the most recent entry and whether one exists.
func (r *Recorder) Last() (Entry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.entries) == 0 {
		return Entry{}, false
	}
	return r.entries[len(r.entries)-1], true
}
