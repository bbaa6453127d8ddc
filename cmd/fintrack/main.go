// Command fintrack is the terminal client for the finance tracker server.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/rshade/fintrack/internal/cli"
	"github.com/rshade/fintrack/pkg/version"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

// run executes the CLI with args and returns the process exit code.
func run(args []string, stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	root := cli.NewRootCmd(version.GetVersion())
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
	}
	return extractExitCode(err)
}

// extractExitCode returns the code carried by a *cli.ExitError anywhere in
// err's chain, 1 for any other error and 0 for nil.
func extractExitCode(err error) int {
	return cli.ExitCode(err)
}
