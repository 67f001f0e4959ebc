package wizard

import (
	"errors"
	"fmt"
	"strings"

	"rmkit/internal/chip"
	"rmkit/internal/errs"
)

// ErrCancelled is returned when the session is aborted.
var ErrCancelled = errs.ErrCancelled

// ErrNotAsking is returned when answering a finished or cancelled session.
var ErrNotAsking = errors.New("wizard: session is not waiting for an answer")

// State of a session.
type State int

const (
	StateAsking State = iota
	StateDone
	StateCancelled
)

// InvalidAnswerError rejects an answer. The session stays on the same
// question.
type InvalidAnswerError struct {
	ID     QuestionID
	Input  string
	Reason string
}

func (e *InvalidAnswerError) Error() string {
	return fmt.Sprintf("invalid answer %q for %s: %s", e.Input, e.ID, e.Reason)
}

// Session is the wizard state: the answers so far and the current question.
// It is not safe for concurrent use.
type Session struct {
	catalog   *chip.Catalog
	questions []Question
	answers   []Answer
	current   int
	state     State
	presets   map[QuestionID]string
}

// NewSession starts a session at the first question. A nil catalog means
// chip.Default().
func NewSession(catalog *chip.Catalog) *Session {
	if catalog == nil {
		catalog = chip.Default()
	}

	return &Session{
		catalog:   catalog,
		questions: questions(catalog),
		presets:   make(map[QuestionID]string),
	}
}

// Preset supplies an answer up front, as command line flags do. Run uses
// it instead of prompting when the question comes up.
func (s *Session) Preset(id QuestionID, raw string) {
	s.presets[id] = raw
}

// State returns the session state.
func (s *Session) State() State { return s.state }

// Current returns the question waiting for an answer.
func (s *Session) Current() (Question, bool) {
	if s.state != StateAsking {
		return Question{}, false
	}

	return s.questions[s.current], true
}

// Choices returns the accepted answers for the current question.
func (s *Session) Choices() []string {
	q, ok := s.Current()
	if !ok {
		return nil
	}

	return q.choicesFor(s.answerSet())
}

// Default returns the default answer of the current question.
func (s *Session) Default() string {
	q, ok := s.Current()
	if !ok {
		return ""
	}

	return q.defaultFor(s.answerSet())
}

// Answers returns a copy of the accepted answers in order.
func (s *Session) Answers() []Answer {
	out := make([]Answer, len(s.answers))
	copy(out, s.answers)

	return out
}

// Answer validates raw for the current question. On success the session
// moves to the next visible question; on failure it returns an
// *InvalidAnswerError and nothing changes.
func (s *Session) Answer(raw string) error {
	q, ok := s.Current()
	if !ok {
		return ErrNotAsking
	}

	set := s.answerSet()

	raw = strings.TrimSpace(raw)
	if raw == "" {
		raw = q.defaultFor(set)
	}

	if raw == "" {
		return &InvalidAnswerError{ID: q.ID, Input: raw, Reason: "an answer is required"}
	}

	value, err := q.Parse(set, raw)
	if err != nil {
		return &InvalidAnswerError{ID: q.ID, Input: raw, Reason: err.Error()}
	}

	s.answers = append(s.answers, Answer{ID: q.ID, Raw: raw, Value: value})

	if confirmed, _ := value.(bool); q.ID == QConfirm && !confirmed {
		s.Cancel()
		return nil
	}

	s.advance(s.current + 1)

	return nil
}

// Back drops the last answer and returns to its question. It returns false
// at the first question.
func (s *Session) Back() bool {
	if len(s.answers) == 0 || s.state == StateCancelled {
		return false
	}

	last := s.answers[len(s.answers)-1]
	s.answers = s.answers[:len(s.answers)-1]

	for i, q := range s.questions {
		if q.ID == last.ID {
			s.current = i
			break
		}
	}

	s.state = StateAsking

	return true
}

// Cancel aborts the session and discards every answer.
func (s *Session) Cancel() {
	s.answers = nil
	s.state = StateCancelled
}

// Progress returns the number of answers given and an estimate of the
// total number of visible questions.
func (s *Session) Progress() (done, total int) {
	set := s.answerSet()
	for _, q := range s.questions {
		if q.visible(set) {
			total++
		}
	}

	return len(s.answers), total
}

func (s *Session) advance(from int) {
	set := s.answerSet()

	for i := from; i < len(s.questions); i++ {
		if s.questions[i].visible(set) {
			s.current = i
			return
		}
	}

	s.state = StateDone
}

func (s *Session) answerSet() Answers {
	set := make(Answers, len(s.answers))
	for _, a := range s.answers {
		set[a.ID] = a
	}

	return set
}
