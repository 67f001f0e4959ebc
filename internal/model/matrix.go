package model

import (
	"fmt"
	"strconv"
	"strings"
)

// UnusedPin marks a direct-pin slot with no switch.
const UnusedPin = "_"

// Shape is a matrix size in rows and columns.
type Shape struct {
	Rows int `json:"rows"`
	Cols int `json:"cols"`
}

// Keys is the number of matrix positions.
func (s Shape) Keys() int { return s.Rows * s.Cols }

// Contains reports whether p is inside the shape.
func (s Shape) Contains(p Position) bool {
	return p.Row >= 0 && p.Col >= 0 && p.Row < s.Rows && p.Col < s.Cols
}

func (s Shape) String() string { return strconv.Itoa(s.Rows) + "x" + strconv.Itoa(s.Cols) }

// Position is a (row, col) coordinate in the combined matrix.
type Position struct {
	Row int
	Col int
}

func (p Position) String() string { return fmt.Sprintf("%d,%d", p.Row, p.Col) }

// ParsePosition reads the "r,c" form used by KLE labels.
func ParsePosition(s string) (Position, error) {
	r, c, ok := strings.Cut(strings.TrimSpace(s), ",")
	if !ok {
		return Position{}, fmt.Errorf("position %q is not in row,col form", s)
	}

	row, err := strconv.Atoi(strings.TrimSpace(r))
	if err != nil {
		return Position{}, fmt.Errorf("position %q: bad row: %w", s, err)
	}

	col, err := strconv.Atoi(strings.TrimSpace(c))
	if err != nil {
		return Position{}, fmt.Errorf("position %q: bad col: %w", s, err)
	}

	return Position{Row: row, Col: col}, nil
}

// Matrix is the pin wiring of one board (or one split half).
type Matrix struct {
	Type MatrixType

	// InputPins and OutputPins are kept as declared (ranges expanded).
	InputPins  []string
	OutputPins []string
	// Row2Col inverts the diode direction: outputs drive columns.
	Row2Col bool

	DirectPins         [][]string
	DirectPinLowActive bool

	Shape    Shape
	KeyCount int
}

// RowPins returns the pins that select rows.
func (m *Matrix) RowPins() []string {
	if m.Row2Col {
		return m.OutputPins
	}

	return m.InputPins
}

// ColPins returns the pins that select columns.
func (m *Matrix) ColPins() []string {
	if m.Row2Col {
		return m.InputPins
	}

	return m.OutputPins
}

// Pins lists every pin the matrix uses, rows before columns, or the used
// direct pins in row-major order.
func (m *Matrix) Pins() []string {
	if m.Type == MatrixDirectPin {
		var out []string

		for _, row := range m.DirectPins {
			for _, pin := range row {
				if pin != UnusedPin {
					out = append(out, pin)
				}
			}
		}

		return out
	}

	out := make([]string, 0, len(m.InputPins)+len(m.OutputPins))
	out = append(out, m.InputPins...)

	return append(out, m.OutputPins...)
}

// Unused returns local positions with no switch: "_" direct pins and the
// short tail of ragged direct-pin rows.
func (m *Matrix) Unused() []Position {
	if m.Type != MatrixDirectPin {
		return nil
	}

	var out []Position

	for r, row := range m.DirectPins {
		for c := 0; c < m.Shape.Cols; c++ {
			if c >= len(row) || row[c] == UnusedPin {
				out = append(out, Position{Row: r, Col: c})
			}
		}
	}

	return out
}

func (m *Matrix) clone() *Matrix {
	if m == nil {
		return nil
	}

	c := *m
	c.InputPins = append([]string(nil), m.InputPins...)
	c.OutputPins = append([]string(nil), m.OutputPins...)

	if m.DirectPins != nil {
		c.DirectPins = make([][]string, len(m.DirectPins))
		for i, row := range m.DirectPins {
			c.DirectPins[i] = append([]string(nil), row...)
		}
	}

	return &c
}
