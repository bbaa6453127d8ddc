package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rshade/fintrack/internal/tui"
)

// PromptResult contains the result of a user prompt interaction.
type PromptResult struct {
	// Accepted is true if the user typed "y" or "yes".
	Accepted bool
	// Cancelled is true if reading input failed.
	Cancelled bool
	// NoTerminal is true if no prompt was shown because stdout is not a terminal.
	NoTerminal bool
}

// errNotConfirmed is returned when a destructive command was not confirmed.
var errNotConfirmed = errors.New("not confirmed")

// Confirm asks a yes/no question and defaults to "No". It returns immediately
// with NoTerminal set in non-TTY environments.
func Confirm(writer io.Writer, reader io.Reader, question string) PromptResult {
	return confirm(writer, reader, question, tui.IsTTY())
}

func confirm(writer io.Writer, reader io.Reader, question string, tty bool) PromptResult {
	if !tty {
		return PromptResult{NoTerminal: true}
	}

	fmt.Fprintf(writer, "? %s [y/N] ", question)

	scanner := bufio.NewScanner(reader)
	if !scanner.Scan() {
		if scanner.Err() != nil {
			return PromptResult{Cancelled: true}
		}
		return PromptResult{}
	}

	switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
	case "y", "yes":
		return PromptResult{Accepted: true}
	default:
		return PromptResult{}
	}
}

// requireConfirmation returns nil when assumeYes is set or the user accepts.
func requireConfirmation(writer io.Writer, reader io.Reader, question string, assumeYes bool) error {
	if assumeYes {
		return nil
	}
	res := Confirm(writer, reader, question)
	switch {
	case res.Accepted:
		return nil
	case res.NoTerminal:
		return &ExitError{Code: ExitUsage, Reason: "refusing to delete without a terminal, pass --yes", Err: errNotConfirmed}
	default:
		return &ExitError{Code: ExitFailure, Reason: "aborted", Err: errNotConfirmed}
	}
}
