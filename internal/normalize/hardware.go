package normalize

import (
	"fmt"
	"strings"

	"rmkit/internal/common"
	"rmkit/internal/hardware"
	"rmkit/internal/model"
)

// Hardware lowers a parsed keyboard.toml into a HardwareModel.
func (n *Normalizer) Hardware(spec *hardware.Spec) (*model.HardwareModel, error) {
	kb := spec.Keyboard

	info, err := n.ResolveChip(kb.Chip, kb.Board)
	if err != nil {
		return nil, err
	}

	iface, err := model.ParseInterface(kb.Interface)
	if err != nil {
		return nil, hwError("keyboard.interface", "%v", err)
	}

	if iface == model.InterfaceBLE && !info.BLE {
		return nil, hwError("keyboard.interface", "chip %s has no BLE radio", info.Name)
	}

	hw := &model.HardwareModel{
		Name:         kb.Name,
		ProjectName:  ProjectName(kb.Name),
		Manufacturer: kb.Manufacturer,
		Chip:         info,
		Board:        kb.Board,
		Interface:    iface,
	}

	if err := ValidateProjectName(hw.ProjectName); err != nil {
		return nil, hwError("keyboard.name", "%v", err)
	}

	if kb.VendorID != nil {
		hw.VendorID = *kb.VendorID
	}

	if kb.ProductID != nil {
		hw.ProductID = *kb.ProductID
	}

	if spec.Split != nil {
		if err := n.split(hw, spec.Split); err != nil {
			return nil, err
		}
	} else {
		m, err := lowerMatrix("matrix", spec.Matrix)
		if err != nil {
			return nil, err
		}

		hw.Topology = model.TopologyNonSplit
		hw.Matrix = m
	}

	if err := declaredLayout(hw, spec.Layout); err != nil {
		return nil, err
	}

	row2col := hw.Matrix != nil && hw.Matrix.Row2Col
	if hw.Split != nil {
		row2col = hw.Split.Central.Matrix.Row2Col
	}

	hw.Features, hw.DisabledDefaults = Features(FeatureInput{
		Row2Col: row2col,
		Storage: spec.StorageEnabled(),
		Defmt:   spec.DefmtEnabled(),
		Split:   hw.Topology == model.TopologySplit,
		BLE:     iface == model.InterfaceBLE || (hw.Split != nil && hw.Split.Connection == model.InterfaceBLE),
		Chip:    info,
	})

	n.logger.Debug("normalized hardware",
		"project", hw.ProjectName,
		"chip", info.Name,
		"topology", hw.Topology.String(),
		"shape", hw.Shape().String(),
		"keys", hw.KeyCount)

	return hw, nil
}

// lowerMatrix validates one [matrix] table and computes its shape.
func lowerMatrix(field string, spec *hardware.Matrix) (*model.Matrix, error) {
	mt, err := model.ParseMatrixType(spec.MatrixType)
	if err != nil {
		return nil, hwError(field+".matrix_type", "%v", err)
	}

	m := &model.Matrix{Type: mt, Row2Col: spec.Row2Col, DirectPinLowActive: true}

	if mt == model.MatrixDirectPin {
		grid := make([][]string, len(spec.DirectPins))
		for r, row := range spec.DirectPins {
			grid[r] = common.Map(row, strings.TrimSpace)
		}

		shape, used, err := ValidateDirectPins(grid)
		if err != nil {
			return nil, hwError(field+".direct_pins", "%v", err)
		}

		m.DirectPins = grid
		m.Shape = shape
		m.KeyCount = used

		if spec.DirectPinLowActive != nil {
			m.DirectPinLowActive = *spec.DirectPinLowActive
		}

		return m, nil
	}

	m.InputPins, err = ValidatePinList(spec.InputPins, 0)
	if err != nil {
		return nil, hwError(field+".input_pins", "%v", err)
	}

	m.OutputPins, err = ValidatePinList(spec.OutputPins, 0)
	if err != nil {
		return nil, hwError(field+".output_pins", "%v", err)
	}

	if dups := common.Duplicates(m.Pins()); len(dups) > 0 {
		return nil, hwError(field, "pin %s is used as both input and output", strings.Join(dups, ", "))
	}

	m.Shape = model.Shape{Rows: len(m.RowPins()), Cols: len(m.ColPins())}
	if err := ValidateDimension("rows", m.Shape.Rows); err != nil {
		return nil, hwError(field, "%v", err)
	}

	if err := ValidateDimension("cols", m.Shape.Cols); err != nil {
		return nil, hwError(field, "%v", err)
	}

	m.KeyCount = m.Shape.Keys()

	return m, nil
}

// declaredLayout applies the optional [layout] table and the key count
// invariants.
func declaredLayout(hw *model.HardwareModel, decl *hardware.Layout) error {
	wired := 0
	direct := false

	if hw.Matrix != nil {
		wired = hw.Matrix.KeyCount
		direct = hw.Matrix.Type == model.MatrixDirectPin
	} else {
		for _, h := range hw.Split.Halves() {
			wired += h.Matrix.KeyCount
			direct = direct || h.Matrix.Type == model.MatrixDirectPin
		}
	}

	hw.KeyCount = wired

	if decl == nil {
		return nil
	}

	if decl.Rows != 0 || decl.Cols != 0 {
		if err := ValidateDimension("layout.rows", decl.Rows); err != nil {
			return hwError("layout.rows", "%v", err)
		}

		if err := ValidateDimension("layout.cols", decl.Cols); err != nil {
			return hwError("layout.cols", "%v", err)
		}

		hw.DeclaredShape = model.Shape{Rows: decl.Rows, Cols: decl.Cols}
	}

	if decl.Layers != 0 {
		if err := ValidateLayerCount(decl.Layers); err != nil {
			return hwError("layout.layers", "%v", err)
		}

		hw.DeclaredLayers = decl.Layers
	}

	if decl.KeyCount == 0 {
		return nil
	}

	switch {
	case decl.KeyCount < 0:
		return hwError("layout.key_count", "must be positive, got %d", decl.KeyCount)
	case direct && decl.KeyCount != wired:
		return hwError("layout.key_count", "direct pin matrix wires %d keys, declared %d", wired, decl.KeyCount)
	case decl.KeyCount > wired:
		return hwError("layout.key_count", "matrix has %d positions, declared %d keys", wired, decl.KeyCount)
	}

	hw.KeyCount = decl.KeyCount

	return nil
}

func (n *Normalizer) split(hw *model.HardwareModel, spec *hardware.Split) error {
	if !hw.Chip.SplitSupport {
		return hwError("split", "chip %s does not support split keyboards (supported: %s)",
			hw.Chip.Name, strings.Join(n.catalog.SplitNames(), ", "))
	}

	conn, err := splitConnection(spec.Connection, hw)
	if err != nil {
		return err
	}

	s := &model.Split{Connection: conn}

	s.Central, err = lowerHalf("split.central", spec.Central, model.RoleCentral, 0)
	if err != nil {
		return err
	}

	for i := range spec.Peripheral {
		h, err := lowerHalf(fmt.Sprintf("split.peripheral[%d]", i), &spec.Peripheral[i], model.RolePeripheral, i+1)
		if err != nil {
			return err
		}

		s.Peripherals = append(s.Peripherals, h)
	}

	if err := checkOverlap(s); err != nil {
		return err
	}

	hw.Topology = model.TopologySplit
	hw.Split = s

	return nil
}

func splitConnection(raw string, hw *model.HardwareModel) (model.Interface, error) {
	if raw == "" {
		if hw.Chip.BLE {
			return model.InterfaceBLE, nil
		}

		return model.InterfaceSerial, nil
	}

	conn, err := model.ParseInterface(raw)
	if err != nil {
		return 0, hwError("split.connection", "%v", err)
	}

	switch conn {
	case model.InterfaceBLE:
		if !hw.Chip.BLE {
			return 0, hwError("split.connection", "chip %s has no BLE radio", hw.Chip.Name)
		}
	case model.InterfaceSerial:
	default:
		return 0, hwError("split.connection", "must be ble or serial, got %q", raw)
	}

	return conn, nil
}

func lowerHalf(field string, spec *hardware.Half, role model.Role, index int) (*model.Half, error) {
	m, err := lowerMatrix(field+".matrix", spec.Matrix)
	if err != nil {
		return nil, err
	}

	if spec.Rows != 0 && spec.Rows != m.Shape.Rows {
		return nil, hwError(field+".rows", "declared %d rows but the matrix has %d", spec.Rows, m.Shape.Rows)
	}

	if spec.Cols != 0 && spec.Cols != m.Shape.Cols {
		return nil, hwError(field+".cols", "declared %d cols but the matrix has %d", spec.Cols, m.Shape.Cols)
	}

	if spec.RowOffset < 0 || spec.ColOffset < 0 {
		return nil, hwError(field, "offsets must not be negative")
	}

	h := &model.Half{
		Role:    role,
		Index:   index,
		Matrix:  m,
		Offset:  model.Position{Row: spec.RowOffset, Col: spec.ColOffset},
		BLEAddr: append([]byte(nil), spec.BLEAddr...),
	}

	if len(h.BLEAddr) != 0 && len(h.BLEAddr) != 6 {
		return nil, hwError(field+".ble_addr", "must have 6 bytes, got %d", len(h.BLEAddr))
	}

	pins := m.Pins()

	for i, s := range spec.Serial {
		link := model.SerialLink{
			Instance: strings.TrimSpace(s.Instance),
			TxPin:    strings.TrimSpace(s.TxPin),
			RxPin:    strings.TrimSpace(s.RxPin),
		}

		if link.Instance == "" {
			return nil, hwError(fmt.Sprintf("%s.serial[%d].instance", field, i), "missing UART instance")
		}

		for _, pin := range []string{link.TxPin, link.RxPin} {
			if err := ValidatePinName(pin); err != nil {
				return nil, hwError(fmt.Sprintf("%s.serial[%d]", field, i), "%v", err)
			}
		}

		pins = append(pins, link.TxPin, link.RxPin)
		h.Serial = append(h.Serial, link)
	}

	if dups := common.Duplicates(pins); len(dups) > 0 {
		return nil, hwError(field, "pin %s is referenced twice", strings.Join(dups, ", "))
	}

	return h, nil
}

// checkOverlap rejects halves that claim the same combined position.
func checkOverlap(s *model.Split) error {
	halves := s.Halves()

	for i, a := range halves {
		for _, b := range halves[i+1:] {
			ar := rect(a)
			br := rect(b)

			if ar.r0 < br.r1 && br.r0 < ar.r1 && ar.c0 < br.c1 && br.c0 < ar.c1 {
				return hwError("split", "%s and %s overlap in the combined matrix", a.Name(), b.Name())
			}
		}
	}

	return nil
}

type bounds struct{ r0, c0, r1, c1 int }

func rect(h *model.Half) bounds {
	return bounds{
		r0: h.Offset.Row,
		c0: h.Offset.Col,
		r1: h.Offset.Row + h.Matrix.Shape.Rows,
		c1: h.Offset.Col + h.Matrix.Shape.Cols,
	}
}
