package wizard

import (
	"context"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// AnswerValue is one answer in an answer file. It accepts a scalar, a list
// of scalars (joined with spaces) or a list of lists (rows joined with ';'
// as for direct pins).
type AnswerValue string

// UnmarshalYAML implements custom YAML unmarshaling for AnswerValue.
func (v *AnswerValue) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var s string
		if err := node.Decode(&s); err != nil {
			return err
		}

		*v = AnswerValue(s)

		return nil

	case yaml.SequenceNode:
		rows := make([]string, 0, len(node.Content))

		for _, item := range node.Content {
			switch item.Kind {
			case yaml.ScalarNode:
				rows = append(rows, item.Value)
			case yaml.SequenceNode:
				var cells []string
				if err := item.Decode(&cells); err != nil {
					return err
				}

				rows = append(rows, strings.Join(cells, " "))
			default:
				return fmt.Errorf("line %d: expected string or list", item.Line)
			}
		}

		sep := " "
		if len(node.Content) > 0 && node.Content[0].Kind == yaml.SequenceNode {
			sep = "; "
		}

		*v = AnswerValue(strings.Join(rows, sep))

		return nil

	default:
		return fmt.Errorf("line %d: expected string or list, got %v", node.Line, node.Kind)
	}
}

// AnswerFile maps question ids to answers.
type AnswerFile map[QuestionID]AnswerValue

// LoadAnswerFile reads an answer file from path.
func LoadAnswerFile(path string) (AnswerFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read answer file %s: %w", path, err)
	}

	return ParseAnswerFile(data)
}

// ParseAnswerFile parses YAML answers.
func ParseAnswerFile(data []byte) (AnswerFile, error) {
	var af AnswerFile
	if err := yaml.Unmarshal(data, &af); err != nil {
		return nil, fmt.Errorf("failed to parse answer file: %w", err)
	}

	return af, nil
}

// ScriptedPrompter replays an answer file. Missing answers fall back to
// the question default; a rejected answer ends the session instead of
// being replayed forever.
type ScriptedPrompter struct {
	answers AnswerFile
}

// NewScriptedPrompter replays answers.
func NewScriptedPrompter(answers AnswerFile) *ScriptedPrompter {
	return &ScriptedPrompter{answers: answers}
}

// Ask implements Prompter.
func (s *ScriptedPrompter) Ask(ctx context.Context, p Prompt) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	raw, ok := s.answers[p.ID]

	if p.Problem != "" {
		return "", &InvalidAnswerError{ID: p.ID, Input: string(raw), Reason: p.Problem}
	}

	if !ok {
		if p.Default != "" {
			return "", nil
		}

		return "", fmt.Errorf("answer file has no answer for %s", p.ID)
	}

	return string(raw), nil
}
