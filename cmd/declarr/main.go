package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"github.com/declarr/declarr/cli/cmd"
	"github.com/declarr/declarr/faults"
)

func main() {
	if err := cmd.Execute(); err != nil {
		if isDebugInvocation(os.Args[1:]) {
			fmt.Fprintf(os.Stderr, "Error (%s): %v\n", faults.Category(err), err)
		} else {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(exitCodeForError(err))
	}
}

// isDebugInvocation peeks at the arguments before cobra has parsed them so
// the final error line can match the requested verbosity.
func isDebugInvocation(args []string) bool {
	flags := pflag.NewFlagSet("log-level", pflag.ContinueOnError)
	flags.ParseErrorsWhitelist.UnknownFlags = true
	flags.SetOutput(io.Discard)

	var level string
	flags.StringVar(&level, "log-level", "info", "")
	if err := flags.Parse(args); err != nil {
		return false
	}
	level = strings.ToLower(strings.TrimSpace(level))
	return level == "debug" || level == "trace"
}

// exitCodeForError distinguishes configuration mistakes from instance
// problems so wrappers and CI jobs can react accordingly.
func exitCodeForError(err error) int {
	switch faults.Category(err) {
	case faults.ValidationError:
		return 2
	case faults.ConnectivityError, faults.AuthError:
		return 3
	default:
		return 1
	}
}
