package model

import (
	"sort"

	"rmkit/internal/chip"
)

// Keycode names used when a layout leaves a slot empty.
const (
	KeyNone        = "KC_NO"
	KeyTransparent = "KC_TRNS"
)

// USBIDs are the optional vendor and product ids. Zero means undeclared.
type USBIDs struct {
	VendorID  uint16
	ProductID uint16
}

// HardwareModel is the normalized hardware document.
type HardwareModel struct {
	Name         string
	ProjectName  string
	Manufacturer string
	USBIDs

	Chip  chip.Info
	Board string

	Interface Interface
	Topology  Topology

	// Matrix is set for non-split keyboards, Split for split ones.
	Matrix *Matrix
	Split  *Split

	// DeclaredShape and DeclaredLayers come from the optional [layout]
	// table; zero when absent.
	DeclaredShape  Shape
	DeclaredLayers int
	KeyCount       int

	Features         []string
	DisabledDefaults []string
}

// Shape is the matrix shape, combined across halves for split keyboards.
func (h *HardwareModel) Shape() Shape {
	if h.Split != nil {
		return h.Split.CombinedShape()
	}

	if h.Matrix != nil {
		return h.Matrix.Shape
	}

	return Shape{}
}

// UnusedPositions returns combined positions without a switch, sorted.
func (h *HardwareModel) UnusedPositions() []Position {
	var out []Position

	switch {
	case h.Split != nil:
		for _, half := range h.Split.Halves() {
			out = append(out, half.Unused()...)
		}

		out = append(out, h.Split.Gaps()...)
	case h.Matrix != nil:
		out = h.Matrix.Unused()
	}

	sortPositions(out)

	return out
}

// Combo fires Output when all Keys are held together on Layer.
type Combo struct {
	Keys   []Position
	Output string
	Layer  int
}

// Macro types Sequence when the Trigger key is pressed.
type Macro struct {
	Name     string
	Trigger  Position
	Sequence []string
}

// LayoutModel is the normalized layout document.
type LayoutModel struct {
	Name string
	USBIDs

	Shape Shape
	// Layers is indexed [layer][row][col].
	Layers [][][]string
	// Positions lists the key positions named by the visual layout, if any.
	Positions []Position
	Combos    []Combo
	Macros    []Macro
}

// DeviceModel is the reconciled description used for generation.
type DeviceModel struct {
	Name         string
	ProjectName  string
	Manufacturer string
	USBIDs

	Chip      chip.Info
	Board     string
	Interface Interface
	Topology  Topology

	Shape    Shape
	KeyCount int
	Matrix   *Matrix
	Split    *Split

	Layers    [][][]string
	Positions []Position
	Combos    []Combo
	Macros    []Macro

	Features         []string
	DisabledDefaults []string
}

// New merges the two fragments into a fresh DeviceModel. The result shares
// no memory with its inputs. Hardware wins for the name; USB ids fall back
// to the layout when the hardware document leaves them out.
func New(hw *HardwareModel, lay *LayoutModel) *DeviceModel {
	m := &DeviceModel{
		Name:             hw.Name,
		ProjectName:      hw.ProjectName,
		Manufacturer:     hw.Manufacturer,
		USBIDs:           hw.USBIDs,
		Chip:             hw.Chip,
		Board:            hw.Board,
		Interface:        hw.Interface,
		Topology:         hw.Topology,
		Shape:            hw.Shape(),
		KeyCount:         hw.KeyCount,
		Matrix:           hw.Matrix.clone(),
		Split:            hw.Split.clone(),
		Features:         append([]string(nil), hw.Features...),
		DisabledDefaults: append([]string(nil), hw.DisabledDefaults...),
	}

	if m.VendorID == 0 {
		m.VendorID = lay.VendorID
	}

	if m.ProductID == 0 {
		m.ProductID = lay.ProductID
	}

	m.Layers = cloneLayers(lay.Layers)
	m.Positions = append([]Position(nil), lay.Positions...)

	for _, c := range lay.Combos {
		c.Keys = append([]Position(nil), c.Keys...)
		m.Combos = append(m.Combos, c)
	}

	for _, mac := range lay.Macros {
		mac.Sequence = append([]string(nil), mac.Sequence...)
		m.Macros = append(m.Macros, mac)
	}

	return m
}

// IsSplit reports whether the model has peripherals.
func (m *DeviceModel) IsSplit() bool { return m.Topology == TopologySplit && m.Split != nil }

// PeerCount is the number of peripherals, 0 for non-split keyboards.
func (m *DeviceModel) PeerCount() int {
	if m.Split == nil {
		return 0
	}

	return len(m.Split.Peripherals)
}

// LayerCount is the number of keymap layers.
func (m *DeviceModel) LayerCount() int { return len(m.Layers) }

// HasFeature reports whether the named RMK feature is enabled.
func (m *DeviceModel) HasFeature(name string) bool {
	for _, f := range m.Features {
		if f == name {
			return true
		}
	}

	return false
}

// AllPins lists every pin on the central board (or the only board).
func (m *DeviceModel) AllPins() []string {
	if m.Split != nil {
		return m.Split.Central.Matrix.Pins()
	}

	return m.Matrix.Pins()
}

func cloneLayers(layers [][][]string) [][][]string {
	out := make([][][]string, len(layers))

	for l, layer := range layers {
		out[l] = make([][]string, len(layer))
		for r, row := range layer {
			out[l][r] = append([]string(nil), row...)
		}
	}

	return out
}

func sortPositions(ps []Position) {
	sort.Slice(ps, func(i, j int) bool {
		if ps[i].Row != ps[j].Row {
			return ps[i].Row < ps[j].Row
		}

		return ps[i].Col < ps[j].Col
	})
}
