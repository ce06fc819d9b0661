package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"stdlnotify/internal/services"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command tree and returns the process exit code. Errors are
// written to stderr only.
func run(args []string, stdout, stderr io.Writer) int {
	cmd := newRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(stderr, err)
		}
		return services.ExitCode(err)
	}
	return 0
}
