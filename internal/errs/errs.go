// Package errs defines the error taxonomy of the generator and maps it to
// process exit codes.
package errs

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"rmkit/internal/diagnostic"
)

// ErrCancelled is returned when the user or a signal aborts a run.
var ErrCancelled = errors.New("cancelled")

// Exit codes returned by the command line tool.
const (
	ExitOK            = 0
	ExitOther         = 1
	ExitParse         = 2
	ExitNormalization = 3
	ExitConflict      = 4
	ExitRender        = 5
	ExitIO            = 6
	ExitCancelled     = 7
)

// ParseError is a malformed input document or a missing required field.
type ParseError struct {
	// Document is the file name or kind ("keyboard.toml").
	Document string
	// Field is the dotted path of the offending key, if known.
	Field string
	// Line and Column are 1-based; zero when unknown.
	Line   int
	Column int
	Msg    string
	Err    error
}

func (e *ParseError) Error() string {
	var sb strings.Builder

	sb.WriteString(e.Document)

	if e.Line > 0 {
		fmt.Fprintf(&sb, ":%d:%d", e.Line, e.Column)
	}

	sb.WriteString(": ")

	if e.Field != "" {
		sb.WriteString(e.Field + ": ")
	}

	sb.WriteString(e.Msg)

	return sb.String()
}

func (e *ParseError) Unwrap() error { return e.Err }

// NormalizationError is an internal invariant of one document that cannot
// be satisfied, such as a pin used twice.
type NormalizationError struct {
	Document    string
	Field       string
	Msg         string
	Suggestions []string
}

func (e *NormalizationError) Error() string {
	msg := e.Document + ": " + e.Field + ": " + e.Msg
	if len(e.Suggestions) > 0 {
		msg += " (did you mean " + strings.Join(e.Suggestions, ", ") + "?)"
	}

	return msg
}

// ConflictError carries the full report of cross-document disagreements.
type ConflictError struct {
	Report *diagnostic.Report
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("keyboard.toml and vial.json disagree:\n%s", strings.TrimRight(e.Report.String(), "\n"))
}

// RenderError is a template that could not be rendered from a valid model.
type RenderError struct {
	Template string
	Path     string
	Err      error
}

func (e *RenderError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("render %s (%s): %v", e.Template, e.Path, e.Err)
	}

	return fmt.Sprintf("render %s: %v", e.Template, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// IOError is a file system or fetch failure.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// ExitCode maps an error chain to the tool's exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	var (
		parseErr    *ParseError
		normErr     *NormalizationError
		conflictErr *ConflictError
		renderErr   *RenderError
		ioErr       *IOError
	)

	switch {
	case errors.Is(err, ErrCancelled), errors.Is(err, context.Canceled):
		return ExitCancelled
	case errors.As(err, &parseErr):
		return ExitParse
	case errors.As(err, &normErr):
		return ExitNormalization
	case errors.As(err, &conflictErr):
		return ExitConflict
	case errors.As(err, &renderErr):
		return ExitRender
	case errors.As(err, &ioErr):
		return ExitIO
	default:
		return ExitOther
	}
}
