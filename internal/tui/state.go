package tui

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// ViewState is the screen a model is showing.
type ViewState int

// View states.
const (
	ViewStateLoading ViewState = iota
	ViewStateList
	ViewStateDetail
	ViewStateConfirm
	ViewStateAuth
	ViewStateError
	ViewStateQuitting
)

// String returns the state name.
func (s ViewState) String() string {
	switch s {
	case ViewStateLoading:
		return "loading"
	case ViewStateList:
		return "list"
	case ViewStateDetail:
		return "detail"
	case ViewStateConfirm:
		return "confirm"
	case ViewStateAuth:
		return "auth"
	case ViewStateError:
		return "error"
	case ViewStateQuitting:
		return "quitting"
	default:
		return "unknown"
	}
}

// Key bindings shared by the models.
const (
	keyQuit   = "q"
	keyCtrlC  = "ctrl+c"
	keyEnter  = "enter"
	keyEsc    = "esc"
	keySlash  = "/"
	keyLeft   = "left"
	keyRight  = "right"
	keyPrev   = "h"
	keyNext   = "l"
	keyFirst  = "home"
	keyLast   = "end"
	keySize   = "z"
	keyReload = "r"
	keyDelete = "d"
	keyMark   = " "
	keyType   = "t"
	keyCat    = "c"
	keyMonthB = "["
	keyMonthF = "]"
	keyClear  = "x"
	keyYes    = "y"
	keyNo     = "n"
)

// LoadingState wraps the spinner shown while a request is in flight.
type LoadingState struct {
	spinner spinner.Model
	message string
}

// NewLoadingState returns a spinner with the default message.
func NewLoadingState() *LoadingState {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = InfoStyle
	return &LoadingState{spinner: s, message: "Loading..."}
}

// Init starts the spinner.
func (l *LoadingState) Init() tea.Cmd {
	return l.spinner.Tick
}

// Update advances the spinner on its tick messages.
func (l *LoadingState) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	l.spinner, cmd = l.spinner.Update(msg)
	return cmd
}

// View renders the spinner line.
func (l *LoadingState) View() string {
	return l.spinner.View() + " " + l.message
}

func newTextInput() textinput.Model {
	ti := textinput.New()
	ti.Placeholder = "search note or category..."
	ti.Prompt = "/ "
	ti.CharLimit = 100
	return ti
}
