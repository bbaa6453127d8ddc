package tui

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rshade/fintrack/internal/api"
	"github.com/rshade/fintrack/internal/format"
)

// importQueue bounds buffered progress updates; extra updates are dropped.
const importQueue = 64

// Importer uploads a transaction workbook.
type Importer interface {
	ImportFile(ctx context.Context, path string, progress api.ProgressFunc) (api.ImportResult, error)
}

type importProgressMsg struct {
	sent  int64
	total int64
}

type importDoneMsg struct {
	res api.ImportResult
	err error
}

// ImportModel shows an upload progress bar and then the import result.
//
//nolint:recvcheck // Bubble Tea requires value receivers for Init/Update/View interface methods.
type ImportModel struct {
	path  string
	bar   progress.Model
	ch    <-chan tea.Msg
	sent  int64
	total int64
	done  bool
	res   api.ImportResult
	err   error
}

// NewImportModel starts uploading path and returns the model tracking it.
func NewImportModel(ctx context.Context, svc Importer, path string) (ImportModel, tea.Cmd) {
	ch := make(chan tea.Msg, importQueue)
	go func() {
		defer close(ch)
		res, err := svc.ImportFile(ctx, path, func(sent, total int64) {
			select {
			case ch <- importProgressMsg{sent: sent, total: total}:
			default:
			}
		})
		ch <- importDoneMsg{res: res, err: err}
	}()

	m := ImportModel{
		path: path,
		bar:  progress.New(progress.WithDefaultGradient()),
		ch:   ch,
	}
	return m, waitBulk(ch)
}

// Init implements tea.Model.
func (m ImportModel) Init() tea.Cmd {
	return nil
}

// Result returns the import result once the upload finished.
func (m ImportModel) Result() (api.ImportResult, error) {
	return m.res, m.err
}

// Done reports whether the upload finished.
func (m ImportModel) Done() bool {
	return m.done
}

// Update implements tea.Model.
func (m ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case importProgressMsg:
		m.sent, m.total = msg.sent, msg.total
		return m, waitBulk(m.ch)
	case importDoneMsg:
		m.done = true
		m.res, m.err = msg.res, msg.err
		if msg.err == nil {
			m.sent = m.total
		}
		return m, tea.Quit
	case tea.WindowSizeMsg:
		m.bar.Width = max(msg.Width-20, 10) //nolint:mnd // Room for the byte counter.
		return m, nil
	case tea.KeyMsg:
		if msg.String() == keyCtrlC {
			return m, tea.Quit
		}
	}
	return m, nil
}

// Ratio returns the share of the request body sent so far.
func (m ImportModel) Ratio() float64 {
	if m.total <= 0 {
		return 0
	}
	return float64(m.sent) / float64(m.total)
}

// View implements tea.Model.
func (m ImportModel) View() string {
	name := filepath.Base(m.path)
	if m.done {
		if m.err != nil {
			return CriticalStyle.Render(fmt.Sprintf("Import of %s failed: %v", name, m.err)) + "\n"
		}
		return RenderImportResult(m.res, false) + "\n"
	}
	return fmt.Sprintf("%s %s\n%s %s / %s\n",
		LabelStyle.Render("Uploading"), ValueStyle.Render(name),
		m.bar.ViewAs(m.Ratio()), format.Bytes(m.sent), format.Bytes(m.total))
}
