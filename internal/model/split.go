package model

import "fmt"

// SerialLink is one UART connection between halves.
type SerialLink struct {
	Instance string
	TxPin    string
	RxPin    string
}

// Half is one physical part of a split keyboard.
type Half struct {
	Role Role
	// Index is 0 for the central and 1..n for peripherals.
	Index  int
	Matrix *Matrix
	// Offset places the half inside the combined matrix.
	Offset  Position
	BLEAddr []byte
	Serial  []SerialLink
}

// Name is "central" or "peripheral<i>".
func (h *Half) Name() string {
	if h.Role == RoleCentral {
		return "central"
	}

	return fmt.Sprintf("peripheral%d", h.Index)
}

// Covers reports whether combined position p belongs to this half.
func (h *Half) Covers(p Position) bool {
	local := Position{Row: p.Row - h.Offset.Row, Col: p.Col - h.Offset.Col}
	return h.Matrix.Shape.Contains(local)
}

// Unused returns unused positions of the half in combined coordinates.
func (h *Half) Unused() []Position {
	local := h.Matrix.Unused()
	out := make([]Position, len(local))

	for i, p := range local {
		out[i] = Position{Row: p.Row + h.Offset.Row, Col: p.Col + h.Offset.Col}
	}

	return out
}

func (h *Half) clone() *Half {
	c := *h
	c.Matrix = h.Matrix.clone()
	c.BLEAddr = append([]byte(nil), h.BLEAddr...)
	c.Serial = append([]SerialLink(nil), h.Serial...)

	return &c
}

// Split is the split topology: the central and its peers.
type Split struct {
	// Connection is InterfaceBLE or InterfaceSerial.
	Connection  Interface
	Central     *Half
	Peripherals []*Half
}

// Halves returns the central followed by every peripheral.
func (s *Split) Halves() []*Half {
	out := make([]*Half, 0, len(s.Peripherals)+1)
	out = append(out, s.Central)

	return append(out, s.Peripherals...)
}

// CombinedShape is the bounding box of all halves.
func (s *Split) CombinedShape() Shape {
	return CombinedShape(s.Halves())
}

// CombinedShape is max(offset+size) over the given halves.
func CombinedShape(halves []*Half) Shape {
	var shape Shape

	for _, h := range halves {
		shape.Rows = max(shape.Rows, h.Offset.Row+h.Matrix.Shape.Rows)
		shape.Cols = max(shape.Cols, h.Offset.Col+h.Matrix.Shape.Cols)
	}

	return shape
}

// Gaps returns positions of the combined shape that no half covers.
func (s *Split) Gaps() []Position {
	shape := s.CombinedShape()
	halves := s.Halves()

	var out []Position

	for r := 0; r < shape.Rows; r++ {
		for c := 0; c < shape.Cols; c++ {
			p := Position{Row: r, Col: c}

			covered := false

			for _, h := range halves {
				if h.Covers(p) {
					covered = true
					break
				}
			}

			if !covered {
				out = append(out, p)
			}
		}
	}

	return out
}

func (s *Split) clone() *Split {
	if s == nil {
		return nil
	}

	c := &Split{Connection: s.Connection, Central: s.Central.clone()}
	for _, p := range s.Peripherals {
		c.Peripherals = append(c.Peripherals, p.clone())
	}

	return c
}
