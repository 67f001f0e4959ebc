package wizard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"rmkit/internal/errs"
	"rmkit/internal/model"
)

// ErrBack asks the driver to return to the previous question.
var ErrBack = errors.New("wizard: back")

// Prompt is what a Prompter shows for one question.
type Prompt struct {
	ID      QuestionID
	Text    string
	Kind    Kind
	Choices []string
	Default string
	// Problem is the reason the previous answer to this question was
	// rejected, empty on the first ask.
	Problem string
	Step    int
	Total   int
}

// Prompter renders a prompt and returns the raw answer. It returns ErrBack
// to step back, and ErrCancelled, io.EOF or the context error to abort.
type Prompter interface {
	Ask(ctx context.Context, p Prompt) (string, error)
}

// Run drives s with p until the session finishes or is aborted. Aborting
// discards every answer and returns an error wrapping ErrCancelled.
func Run(ctx context.Context, s *Session, p Prompter, logger *slog.Logger) (*model.DeviceModel, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	problem := ""

	for s.State() == StateAsking {
		if err := ctx.Err(); err != nil {
			s.Cancel()
			return nil, fmt.Errorf("%w: %w", ErrCancelled, err)
		}

		q, _ := s.Current()

		if raw, ok := s.presets[q.ID]; ok {
			delete(s.presets, q.ID)

			if err := s.Answer(raw); err != nil {
				s.Cancel()
				return nil, asNormalizationError(err)
			}

			logger.Debug("wizard preset", "question", string(q.ID), "answer", raw)

			continue
		}

		done, total := s.Progress()

		raw, err := p.Ask(ctx, Prompt{
			ID:      q.ID,
			Text:    q.Prompt,
			Kind:    q.Kind,
			Choices: s.Choices(),
			Default: s.Default(),
			Problem: problem,
			Step:    done + 1,
			Total:   total,
		})

		switch {
		case errors.Is(err, ErrBack):
			s.Back()
			problem = ""

			continue
		case errors.Is(err, ErrCancelled), errors.Is(err, io.EOF), ctx.Err() != nil:
			s.Cancel()
			return nil, fmt.Errorf("%w at %s", ErrCancelled, q.ID)
		case err != nil:
			s.Cancel()
			return nil, fmt.Errorf("wizard: %s: %w", q.ID, asNormalizationError(err))
		}

		if err := s.Answer(raw); err != nil {
			var invalid *InvalidAnswerError
			if !errors.As(err, &invalid) {
				return nil, err
			}

			logger.Debug("wizard answer rejected", "question", string(q.ID), "reason", invalid.Reason)
			problem = invalid.Reason

			continue
		}

		problem = ""
	}

	if s.State() == StateCancelled {
		return nil, ErrCancelled
	}

	return s.Model()
}

// asNormalizationError reports an answer that cannot be corrected
// interactively the same way a bad document field is reported.
func asNormalizationError(err error) error {
	var invalid *InvalidAnswerError
	if !errors.As(err, &invalid) {
		return err
	}

	return &errs.NormalizationError{Document: "answers", Field: string(invalid.ID), Msg: invalid.Reason}
}
