package wizard

import (
	"errors"
	"fmt"

	"rmkit/internal/model"
	"rmkit/internal/normalize"
)

// Link addresses given to generated split halves. Users replace them with
// the real addresses of their boards.
var (
	centralBLEAddr    = []byte{0x18, 0xe2, 0x21, 0x80, 0xc0, 0xc7}
	peripheralBLEAddr = []byte{0x7e, 0xfe, 0x73, 0x9e, 0x66, 0xe3}
)

const serialInstance = "UART0"

// Model builds the DeviceModel from a finished session. Every field was
// validated when it was answered, so the documents are not re-read.
func (s *Session) Model() (*model.DeviceModel, error) {
	switch s.state {
	case StateCancelled:
		return nil, ErrCancelled
	case StateAsking:
		return nil, errors.New("wizard: session is not finished")
	}

	a := s.answerSet()

	info, ok := s.catalog.Lookup(a.String(QChip))
	if !ok {
		return nil, fmt.Errorf("wizard: chip %q vanished from the catalog", a.String(QChip))
	}

	iface := model.InterfaceUSB
	if a.String(QInterface) == "ble" {
		iface = model.InterfaceBLE
	}

	hw := &model.HardwareModel{
		Name:        a.String(QProjectName),
		ProjectName: a.String(QProjectName),
		Chip:        info,
		Interface:   iface,
		Topology:    model.TopologyNonSplit,
	}

	if a.IsSplit() {
		hw.Topology = model.TopologySplit
		hw.Split = buildSplit(a)

		for _, h := range hw.Split.Halves() {
			hw.KeyCount += h.Matrix.KeyCount
		}
	} else {
		hw.Matrix = buildMatrix(a, 0)
		hw.KeyCount = hw.Matrix.KeyCount
	}

	hw.Features, hw.DisabledDefaults = normalize.Features(normalize.FeatureInput{
		Row2Col: a.Bool(QRow2Col),
		Storage: true,
		Defmt:   true,
		Split:   a.IsSplit(),
		BLE:     iface == model.InterfaceBLE || (hw.Split != nil && hw.Split.Connection == model.InterfaceBLE),
		Chip:    info,
	})

	shape := hw.Shape()
	lay := &model.LayoutModel{
		Name:   hw.Name,
		Shape:  shape,
		Layers: blankLayers(a.Int(QLayers), shape),
	}

	return model.New(hw, lay), nil
}

func buildMatrix(a Answers, i int) *model.Matrix {
	ids := idsFor(i)

	m := &model.Matrix{
		Shape:              model.Shape{Rows: a.Int(ids.rows), Cols: a.Int(ids.cols)},
		Row2Col:            a.Bool(QRow2Col),
		DirectPinLowActive: true,
	}

	if a.IsDirect() {
		m.Type = model.MatrixDirectPin
		m.DirectPins = a.Grid(ids.direct)
		m.KeyCount = len(m.Pins())

		return m
	}

	m.Type = model.MatrixNormal
	m.InputPins = a.Pins(ids.input)
	m.OutputPins = a.Pins(ids.output)
	m.KeyCount = m.Shape.Keys()

	return m
}

// buildSplit places peripherals to the right of the central, in order.
func buildSplit(a Answers) *model.Split {
	s := &model.Split{Connection: model.InterfaceBLE}
	if a.String(QSplitConnection) == "serial" {
		s.Connection = model.InterfaceSerial
	}

	link := func() []model.SerialLink {
		if s.Connection != model.InterfaceSerial {
			return nil
		}

		return []model.SerialLink{{Instance: serialInstance, TxPin: a.String(QSerialTxPin), RxPin: a.String(QSerialRxPin)}}
	}

	s.Central = &model.Half{Role: model.RoleCentral, Matrix: buildMatrix(a, 0), Serial: link()}
	if s.Connection == model.InterfaceBLE {
		s.Central.BLEAddr = append([]byte(nil), centralBLEAddr...)
	}

	col := s.Central.Matrix.Shape.Cols

	for i := 1; i <= a.PeerCount(); i++ {
		h := &model.Half{
			Role:   model.RolePeripheral,
			Index:  i,
			Matrix: buildMatrix(a, i),
			Offset: model.Position{Col: col},
			Serial: link(),
		}

		if s.Connection == model.InterfaceBLE {
			h.BLEAddr = append([]byte(nil), peripheralBLEAddr...)
			h.BLEAddr[5] += byte(i - 1)
		}

		col += h.Matrix.Shape.Cols
		s.Peripherals = append(s.Peripherals, h)
	}

	return s
}

// blankLayers fills layer 0 with KC_NO and the rest with KC_TRNS.
func blankLayers(n int, shape model.Shape) [][][]string {
	layers := make([][][]string, n)

	for l := range layers {
		code := model.KeyTransparent
		if l == 0 {
			code = model.KeyNone
		}

		layers[l] = make([][]string, shape.Rows)
		for r := range layers[l] {
			row := make([]string, shape.Cols)
			for c := range row {
				row[c] = code
			}

			layers[l][r] = row
		}
	}

	return layers
}
