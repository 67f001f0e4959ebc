package gen

import (
	"fmt"

	"github.com/goccy/go-json"

	"rmkit/internal/model"
)

type vialDocument struct {
	Name      string       `json:"name"`
	VendorID  string       `json:"vendorId,omitempty"`
	ProductID string       `json:"productId,omitempty"`
	Matrix    vialMatrix   `json:"matrix"`
	Layouts   vialLayouts  `json:"layouts"`
	Layers    [][][]string `json:"layers"`
	Combos    []vialCombo  `json:"combos,omitempty"`
	Macros    []vialMacro  `json:"macros,omitempty"`
}

type vialMatrix struct {
	Rows int `json:"rows"`
	Cols int `json:"cols"`
}

type vialLayouts struct {
	Keymap [][]string `json:"keymap"`
}

type vialCombo struct {
	Keys   [][2]int `json:"keys"`
	Output string   `json:"output"`
	Layer  int      `json:"layer"`
}

type vialMacro struct {
	Name     string   `json:"name"`
	Trigger  [2]int   `json:"trigger"`
	Sequence []string `json:"sequence"`
}

// buildVial regenerates the layout document from the model.
func buildVial(d *renderData) ([]byte, error) {
	m := d.Model

	doc := vialDocument{
		Name:    m.Name,
		Matrix:  vialMatrix{Rows: m.Shape.Rows, Cols: m.Shape.Cols},
		Layouts: vialLayouts{Keymap: kleRows(m)},
		Layers:  m.Layers,
	}

	if m.VendorID != 0 {
		doc.VendorID = fmt.Sprintf("0x%04X", m.VendorID)
	}

	if m.ProductID != 0 {
		doc.ProductID = fmt.Sprintf("0x%04X", m.ProductID)
	}

	for _, c := range m.Combos {
		vc := vialCombo{Output: c.Output, Layer: c.Layer}
		for _, p := range c.Keys {
			vc.Keys = append(vc.Keys, [2]int{p.Row, p.Col})
		}

		doc.Combos = append(doc.Combos, vc)
	}

	for _, mac := range m.Macros {
		doc.Macros = append(doc.Macros, vialMacro{
			Name:     mac.Name,
			Trigger:  [2]int{mac.Trigger.Row, mac.Trigger.Col},
			Sequence: mac.Sequence,
		})
	}

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}

	return append(out, '\n'), nil
}

// kleRows lists key positions row by row as KLE labels ("r,c"). Positions
// read from the original document are kept; otherwise every wired position
// is listed.
func kleRows(m *model.DeviceModel) [][]string {
	positions := m.Positions
	if len(positions) == 0 {
		positions = wiredPositions(m)
	}

	rows := make([][]string, m.Shape.Rows)
	for _, p := range positions {
		if p.Row < 0 || p.Row >= len(rows) {
			continue
		}

		rows[p.Row] = append(rows[p.Row], p.String())
	}

	out := rows[:0]

	for _, r := range rows {
		if len(r) > 0 {
			out = append(out, r)
		}
	}

	return out
}

func wiredPositions(m *model.DeviceModel) []model.Position {
	unused := make(map[model.Position]bool)

	switch {
	case m.Split != nil:
		for _, h := range m.Split.Halves() {
			for _, p := range h.Unused() {
				unused[p] = true
			}
		}

		for _, p := range m.Split.Gaps() {
			unused[p] = true
		}
	case m.Matrix != nil:
		for _, p := range m.Matrix.Unused() {
			unused[p] = true
		}
	}

	var out []model.Position

	for r := 0; r < m.Shape.Rows; r++ {
		for c := 0; c < m.Shape.Cols; c++ {
			if p := (model.Position{Row: r, Col: c}); !unused[p] {
				out = append(out, p)
			}
		}
	}

	return out
}
