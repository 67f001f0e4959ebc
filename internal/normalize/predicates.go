package normalize

import (
	"fmt"
	"regexp"
	"strings"

	"rmkit/internal/common"
	"rmkit/internal/model"
	"rmkit/utils"
)

// Limits shared by the normalizer and the wizard.
const (
	MaxDimension = 32
	MaxLayers    = 32
	MaxPeers     = 3
	// MaxRangeSize caps how many pins one "A..B" shorthand may produce.
	MaxRangeSize = 64
)

var (
	projectNameRE = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]*$`)
	pinNameRE     = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)
)

// ProjectName derives the Cargo package name from a keyboard name.
func ProjectName(keyboardName string) string {
	return strings.ReplaceAll(strings.TrimSpace(keyboardName), " ", "_")
}

// ValidateProjectName checks that name is usable as a Cargo package and
// directory name.
func ValidateProjectName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("project name must not be empty")
	case len(name) > 64:
		return fmt.Errorf("project name %q is longer than 64 characters", name)
	case !projectNameRE.MatchString(name):
		return fmt.Errorf("project name %q must start with a letter and contain only letters, digits, '_' or '-'", name)
	}

	return nil
}

// ValidateDimension checks a row or column count.
func ValidateDimension(what string, n int) error {
	if !utils.IsInRange(1, n, MaxDimension) {
		return fmt.Errorf("%s must be between 1 and %d, got %d", what, MaxDimension, n)
	}

	return nil
}

// ValidateLayerCount checks the number of keymap layers.
func ValidateLayerCount(n int) error {
	if !utils.IsInRange(1, n, MaxLayers) {
		return fmt.Errorf("layer count must be between 1 and %d, got %d", MaxLayers, n)
	}

	return nil
}

// ValidatePeerCount checks the number of split peripherals.
func ValidatePeerCount(n int) error {
	if !utils.IsInRange(1, n, MaxPeers) {
		return fmt.Errorf("peripheral count must be between 1 and %d, got %d", MaxPeers, n)
	}

	return nil
}

// ValidatePinName checks the syntax of one pin identifier.
func ValidatePinName(pin string) error {
	if !pinNameRE.MatchString(pin) {
		return fmt.Errorf("invalid pin name %q", pin)
	}

	return nil
}

// ValidatePinList expands range shorthand, checks every name and rejects
// duplicates. If want > 0 the expanded list must have exactly want pins.
func ValidatePinList(pins []string, want int) ([]string, error) {
	expanded, err := ExpandPins(pins)
	if err != nil {
		return nil, err
	}

	for _, pin := range expanded {
		if err := ValidatePinName(pin); err != nil {
			return nil, err
		}
	}

	if dups := common.Duplicates(expanded); len(dups) > 0 {
		return nil, fmt.Errorf("pin %s is used more than once", strings.Join(dups, ", "))
	}

	if want > 0 && len(expanded) != want {
		return nil, fmt.Errorf("expected %d pins, got %d", want, len(expanded))
	}

	return expanded, nil
}

// ValidateDirectPins checks a direct-pin grid and returns its shape and the
// number of keys it wires. "_" marks a slot without a switch.
func ValidateDirectPins(grid [][]string) (model.Shape, int, error) {
	if err := ValidateDimension("direct pin rows", len(grid)); err != nil {
		return model.Shape{}, 0, err
	}

	var (
		shape model.Shape
		used  []string
	)

	shape.Rows = len(grid)

	for r, row := range grid {
		if len(row) == 0 {
			return model.Shape{}, 0, fmt.Errorf("direct pin row %d is empty", r)
		}

		shape.Cols = max(shape.Cols, len(row))

		for _, pin := range row {
			if pin == model.UnusedPin {
				continue
			}

			if err := ValidatePinName(pin); err != nil {
				return model.Shape{}, 0, err
			}

			used = append(used, pin)
		}
	}

	if err := ValidateDimension("direct pin columns", shape.Cols); err != nil {
		return model.Shape{}, 0, err
	}

	if len(used) == 0 {
		return model.Shape{}, 0, fmt.Errorf("direct pin matrix wires no keys")
	}

	if dups := common.Duplicates(used); len(dups) > 0 {
		return model.Shape{}, 0, fmt.Errorf("pin %s is used more than once", strings.Join(dups, ", "))
	}

	return shape, len(used), nil
}
