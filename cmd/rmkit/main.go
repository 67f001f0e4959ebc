// Package main is the rmkit command line tool.
//
// rmkit generates RMK keyboard firmware projects:
//   - create builds a project from keyboard.toml and vial.json
//   - init asks for the keyboard interactively (or reads an answer file)
//   - check validates the two documents without writing anything
//   - get-chip, get-project-name and chips answer scripting questions
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"rmkit/internal/errs"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)

	stop()
	os.Exit(code)
}

// run executes one command line and returns the process exit code.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	a := &app{stdin: stdin, stdout: stdout, stderr: stderr}

	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return errs.ExitOK
	}

	printError(stderr, err)

	return errs.ExitCode(err)
}

func printError(w io.Writer, err error) {
	var conflict *errs.ConflictError
	if errors.As(err, &conflict) {
		fmt.Fprintln(w, conflict.Error())
		return
	}

	fmt.Fprintln(w, "error:", err)
}
