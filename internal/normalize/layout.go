package normalize

import (
	"fmt"
	"strconv"
	"strings"

	"rmkit/internal/layout"
	"rmkit/internal/model"
	"rmkit/utils"
)

// Layout lowers a parsed vial.json into a LayoutModel.
func (n *Normalizer) Layout(spec *layout.Spec) (*model.LayoutModel, error) {
	if err := ValidateDimension("matrix.rows", spec.Matrix.Rows); err != nil {
		return nil, layoutError("matrix.rows", "%v", err)
	}

	if err := ValidateDimension("matrix.cols", spec.Matrix.Cols); err != nil {
		return nil, layoutError("matrix.cols", "%v", err)
	}

	lay := &model.LayoutModel{
		Name:  strings.TrimSpace(spec.Name),
		Shape: model.Shape{Rows: spec.Matrix.Rows, Cols: spec.Matrix.Cols},
	}

	var err error

	if lay.VendorID, err = parseUSBID(spec.VendorID); err != nil {
		return nil, layoutError("vendorId", "%v", err)
	}

	if lay.ProductID, err = parseUSBID(spec.ProductID); err != nil {
		return nil, layoutError("productId", "%v", err)
	}

	if lay.Layers, err = lowerLayers(spec.Layers, lay.Shape); err != nil {
		return nil, err
	}

	if lay.Positions, err = lowerKeymap(spec.Keymap, lay.Shape); err != nil {
		return nil, err
	}

	for i, c := range spec.Combos {
		combo, err := lowerCombo(i, c, lay)
		if err != nil {
			return nil, err
		}

		lay.Combos = append(lay.Combos, combo)
	}

	for i, m := range spec.Macros {
		macro, err := lowerMacro(i, m, lay.Shape)
		if err != nil {
			return nil, err
		}

		lay.Macros = append(lay.Macros, macro)
	}

	n.logger.Debug("normalized layout",
		"shape", lay.Shape.String(),
		"layers", len(lay.Layers),
		"combos", len(lay.Combos),
		"macros", len(lay.Macros))

	return lay, nil
}

func parseUSBID(s string) (uint16, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}

	v, err := strconv.ParseUint(s, 0, 16)
	if err != nil {
		return 0, fmt.Errorf("%q is not a 16-bit id", s)
	}

	return uint16(v), nil
}

func lowerLayers(layers [][][]layout.Key, shape model.Shape) ([][][]string, error) {
	if err := ValidateLayerCount(len(layers)); err != nil {
		return nil, layoutError("layers", "%v", err)
	}

	out := make([][][]string, len(layers))

	for l, layer := range layers {
		if len(layer) != shape.Rows {
			return nil, layoutError(fmt.Sprintf("layers[%d]", l),
				"has %d rows, matrix declares %d", len(layer), shape.Rows)
		}

		out[l] = make([][]string, shape.Rows)

		for r, row := range layer {
			if len(row) != shape.Cols {
				return nil, layoutError(fmt.Sprintf("layers[%d][%d]", l, r),
					"has %d keys, matrix declares %d cols", len(row), shape.Cols)
			}

			out[l][r] = make([]string, shape.Cols)

			for c, key := range row {
				code := strings.TrimSpace(string(key))
				if code == "" {
					code = model.KeyNone
				}

				out[l][r][c] = code
			}
		}
	}

	return out, nil
}

func lowerKeymap(labels []layout.KeyLabel, shape model.Shape) ([]model.Position, error) {
	seen := make(map[model.Position]bool, len(labels))

	var out []model.Position

	for _, label := range labels {
		field := fmt.Sprintf("layouts.keymap[%d][%d]", label.Row, label.Item)

		p, err := model.ParsePosition(label.Label)
		if err != nil {
			return nil, layoutError(field, "%v", err)
		}

		if !shape.Contains(p) {
			return nil, layoutError(field, "key %s is outside the %s matrix", p, shape)
		}

		// layout options repeat positions
		if seen[p] {
			continue
		}

		seen[p] = true
		out = append(out, p)
	}

	return out, nil
}

func lowerPosition(field string, pair []int, shape model.Shape) (model.Position, error) {
	if len(pair) != 2 {
		return model.Position{}, layoutError(field, "must be a [row, col] pair, got %d numbers", len(pair))
	}

	row, col := utils.Unpack2(pair)
	p := model.Position{Row: row, Col: col}

	if !shape.Contains(p) {
		return model.Position{}, layoutError(field, "key %s is outside the %s matrix", p, shape)
	}

	return p, nil
}

func lowerCombo(i int, c layout.Combo, lay *model.LayoutModel) (model.Combo, error) {
	field := fmt.Sprintf("combos[%d]", i)

	combo := model.Combo{Output: strings.TrimSpace(c.Output), Layer: c.Layer}
	seen := make(map[model.Position]bool, len(c.Keys))

	for k, pair := range c.Keys {
		p, err := lowerPosition(fmt.Sprintf("%s.keys[%d]", field, k), pair, lay.Shape)
		if err != nil {
			return model.Combo{}, err
		}

		if seen[p] {
			continue
		}

		seen[p] = true
		combo.Keys = append(combo.Keys, p)
	}

	if len(combo.Keys) < 2 {
		return model.Combo{}, layoutError(field+".keys", "a combo needs at least 2 distinct keys, got %d", len(combo.Keys))
	}

	if combo.Output == "" {
		return model.Combo{}, layoutError(field+".output", "missing output keycode")
	}

	if c.Layer < 0 || c.Layer >= len(lay.Layers) {
		return model.Combo{}, layoutError(field+".layer", "layer %d does not exist (have %d)", c.Layer, len(lay.Layers))
	}

	return combo, nil
}

func lowerMacro(i int, m layout.Macro, shape model.Shape) (model.Macro, error) {
	field := fmt.Sprintf("macros[%d]", i)

	p, err := lowerPosition(field+".trigger", m.Trigger, shape)
	if err != nil {
		return model.Macro{}, err
	}

	name := strings.TrimSpace(m.Name)
	if name == "" {
		name = fmt.Sprintf("macro%d", i)
	}

	return model.Macro{Name: name, Trigger: p, Sequence: append([]string(nil), m.Sequence...)}, nil
}
