package normalize

import (
	"fmt"
	"strconv"
	"strings"
)

// rangeSep separates the ends of a pin range ("P0_02..P0_05").
const rangeSep = ".."

// ExpandPins replaces every "A..B" item by the pins between A and B
// inclusive. Both ends must share a prefix and end in digits. Zero padding
// of the first end is kept, and B < A counts down.
func ExpandPins(pins []string) ([]string, error) {
	out := make([]string, 0, len(pins))

	for _, item := range pins {
		item = strings.TrimSpace(item)

		from, to, ok := strings.Cut(item, rangeSep)
		if !ok {
			out = append(out, item)
			continue
		}

		expanded, err := expandRange(strings.TrimSpace(from), strings.TrimSpace(to))
		if err != nil {
			return nil, fmt.Errorf("pin range %q: %w", item, err)
		}

		out = append(out, expanded...)
	}

	return out, nil
}

func expandRange(from, to string) ([]string, error) {
	prefix, start, width, err := splitPin(from)
	if err != nil {
		return nil, err
	}

	toPrefix, end, _, err := splitPin(to)
	if err != nil {
		return nil, err
	}

	if prefix != toPrefix {
		return nil, fmt.Errorf("ends have different prefixes %q and %q", prefix, toPrefix)
	}

	step := 1
	if end < start {
		step = -1
	}

	if n := (end-start)*step + 1; n > MaxRangeSize {
		return nil, fmt.Errorf("range covers %d pins, more than %d", n, MaxRangeSize)
	}

	var out []string

	for i := start; ; i += step {
		out = append(out, fmt.Sprintf("%s%0*d", prefix, width, i))

		if i == end {
			break
		}
	}

	return out, nil
}

// splitPin splits "P0_02" into ("P0_", 2, 2). Width is 0 unless the number
// is zero padded.
func splitPin(pin string) (prefix string, n int, width int, err error) {
	i := len(pin)
	for i > 0 && pin[i-1] >= '0' && pin[i-1] <= '9' {
		i--
	}

	digits := pin[i:]
	if digits == "" || i == 0 {
		return "", 0, 0, fmt.Errorf("%q must be a name followed by a number", pin)
	}

	n, err = strconv.Atoi(digits)
	if err != nil {
		return "", 0, 0, fmt.Errorf("%q: %w", pin, err)
	}

	if len(digits) > 1 && digits[0] == '0' {
		width = len(digits)
	}

	return pin[:i], n, width, nil
}
