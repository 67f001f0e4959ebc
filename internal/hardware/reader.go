package hardware

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"rmkit/internal/errs"
)

// ReadFile loads and parses keyboard.toml from path.
func ReadFile(path string) (*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &errs.IOError{Op: "read", Path: path, Err: err}
	}

	return Read(data)
}

// Read parses keyboard.toml. Missing required keys yield a field-qualified
// *errs.ParseError.
func Read(data []byte) (*Spec, error) {
	var spec Spec

	if err := toml.Unmarshal(data, &spec); err != nil {
		return nil, decodeError(err)
	}

	applyDefaults(&spec)

	if err := checkRequired(&spec); err != nil {
		return nil, err
	}

	return &spec, nil
}

// applyDefaults fills in values that have a fixed default.
func applyDefaults(spec *Spec) {
	spec.Keyboard.Name = strings.TrimSpace(spec.Keyboard.Name)
	spec.Keyboard.Chip = strings.ToLower(strings.TrimSpace(spec.Keyboard.Chip))
	spec.Keyboard.Board = strings.TrimSpace(spec.Keyboard.Board)

	if spec.Keyboard.Interface == "" {
		spec.Keyboard.Interface = "usb"
	}
}

func decodeError(err error) error {
	pe := &errs.ParseError{Document: Document, Msg: err.Error(), Err: err}

	var de *toml.DecodeError
	if errors.As(err, &de) {
		pe.Line, pe.Column = de.Position()
		pe.Field = strings.Join(de.Key(), ".")
		pe.Msg = de.Error()
	}

	return pe
}

func missing(field string) error {
	return &errs.ParseError{Document: Document, Field: field, Msg: "missing required field"}
}

func exclusive(a, b string) error {
	return &errs.ParseError{Document: Document, Field: a, Msg: fmt.Sprintf("%s and %s cannot both be set", a, b)}
}

func checkRequired(spec *Spec) error {
	kb := spec.Keyboard

	if kb.Name == "" {
		return missing("keyboard.name")
	}

	switch {
	case kb.Chip != "" && kb.Board != "":
		return exclusive("keyboard.chip", "keyboard.board")
	case kb.Chip == "" && kb.Board == "":
		return missing("keyboard.chip")
	}

	switch {
	case spec.Matrix != nil && spec.Split != nil:
		return exclusive("matrix", "split")
	case spec.Matrix == nil && spec.Split == nil:
		return missing("matrix")
	case spec.Matrix != nil:
		return checkMatrix("matrix", spec.Matrix)
	}

	if spec.Split.Central == nil {
		return missing("split.central")
	}

	if err := checkHalf("split.central", spec.Split.Central); err != nil {
		return err
	}

	for i := range spec.Split.Peripheral {
		if err := checkHalf(fmt.Sprintf("split.peripheral[%d]", i), &spec.Split.Peripheral[i]); err != nil {
			return err
		}
	}

	return nil
}

func checkHalf(field string, h *Half) error {
	if h.Matrix == nil {
		return missing(field + ".matrix")
	}

	return checkMatrix(field+".matrix", h.Matrix)
}

func checkMatrix(field string, m *Matrix) error {
	if m.IsDirect() {
		if len(m.DirectPins) == 0 {
			return missing(field + ".direct_pins")
		}

		return nil
	}

	if len(m.InputPins) == 0 {
		return missing(field + ".input_pins")
	}

	if len(m.OutputPins) == 0 {
		return missing(field + ".output_pins")
	}

	return nil
}
