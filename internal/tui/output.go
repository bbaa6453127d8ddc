package tui

import (
	"os"

	"golang.org/x/term"
)

// OutputMode selects how results are presented.
type OutputMode int

const (
	// OutputModePlain prints unstyled text, for pipes and NO_COLOR.
	OutputModePlain OutputMode = iota
	// OutputModeStyled prints lipgloss-styled text without interaction.
	OutputModeStyled
	// OutputModeInteractive runs a Bubble Tea program.
	OutputModeInteractive
)

// String returns the mode name.
func (m OutputMode) String() string {
	switch m {
	case OutputModePlain:
		return "plain"
	case OutputModeStyled:
		return "styled"
	case OutputModeInteractive:
		return "interactive"
	default:
		return "unknown"
	}
}

// Terminal size fallbacks.
const (
	defaultWidth  = 100
	defaultHeight = 30
	minHeight     = 5
)

// IsTTY reports whether stdout is a terminal.
func IsTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd())) //nolint:gosec // Fd fits in int on supported platforms.
}

// DetectOutputMode picks the richest mode the environment allows. plain
// forces OutputModePlain; noInteractive caps the result at OutputModeStyled.
func DetectOutputMode(plain, noColor, noInteractive bool) OutputMode {
	return detectOutputMode(plain, noColor, noInteractive, IsTTY(), os.Getenv)
}

func detectOutputMode(plain, noColor, noInteractive, tty bool, getenv func(string) string) OutputMode {
	if plain || !tty {
		return OutputModePlain
	}
	if noColor || getenv("NO_COLOR") != "" || getenv("TERM") == "dumb" {
		return OutputModePlain
	}
	if noInteractive || getenv("CI") != "" {
		return OutputModeStyled
	}
	return OutputModeInteractive
}
