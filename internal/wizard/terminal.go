package wizard

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
)

// BackInput is the answer that steps back one question.
const BackInput = "<"

type line struct {
	text string
	err  error
}

// TerminalPrompter asks questions on a line-oriented terminal.
type TerminalPrompter struct {
	in        io.Reader
	out       io.Writer
	once      sync.Once
	closeOnce sync.Once
	lines     chan line
	done      chan struct{}
	// stopped is closed when readLoop returns.
	stopped chan struct{}
}

// NewTerminalPrompter reads answers from in and writes prompts to out.
// Close releases the reader goroutine.
func NewTerminalPrompter(in io.Reader, out io.Writer) *TerminalPrompter {
	return &TerminalPrompter{
		in:      in,
		out:     out,
		lines:   make(chan line),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
}

// Close stops delivering lines. A read already blocked on the input ends
// with the input.
func (t *TerminalPrompter) Close() error {
	t.closeOnce.Do(func() { close(t.done) })
	return nil
}

// readLoop owns the reader so a pending read never blocks cancellation.
func (t *TerminalPrompter) readLoop() {
	defer close(t.stopped)

	sc := bufio.NewScanner(t.in)
	for sc.Scan() {
		if !t.send(line{text: sc.Text()}) {
			return
		}
	}

	err := sc.Err()
	if err == nil {
		err = io.EOF
	}

	if t.send(line{err: err}) {
		close(t.lines)
	}
}

func (t *TerminalPrompter) send(l line) bool {
	select {
	case t.lines <- l:
		return true
	case <-t.done:
		return false
	}
}

// Ask implements Prompter.
func (t *TerminalPrompter) Ask(ctx context.Context, p Prompt) (string, error) {
	t.once.Do(func() { go t.readLoop() })

	if p.Problem != "" {
		fmt.Fprintf(t.out, "  ! %s\n", p.Problem)
	}

	fmt.Fprint(t.out, formatPrompt(p))

	select {
	case <-ctx.Done():
		fmt.Fprintln(t.out)
		return "", ctx.Err()
	case <-t.done:
		return "", io.EOF
	case l, ok := <-t.lines:
		if !ok {
			return "", io.EOF
		}

		if l.err != nil {
			return "", l.err
		}

		if strings.TrimSpace(l.text) == BackInput {
			return "", ErrBack
		}

		return l.text, nil
	}
}

func formatPrompt(p Prompt) string {
	var sb strings.Builder

	if p.Total > 0 {
		fmt.Fprintf(&sb, "[%d/%d] ", p.Step, p.Total)
	}

	sb.WriteString("? " + p.Text)

	switch p.Kind {
	case KindYesNo:
		sb.WriteString(" (yes/no)")
	case KindChoice:
		if len(p.Choices) > 0 && len(p.Choices) <= 8 {
			sb.WriteString(" (" + strings.Join(p.Choices, "/") + ")")
		}
	case KindPins:
		sb.WriteString(" (space separated, ranges like P0_02..P0_05)")
	}

	if p.Default != "" {
		sb.WriteString(" [" + p.Default + "]")
	}

	sb.WriteString(": ")

	return sb.String()
}
