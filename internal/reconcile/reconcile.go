package reconcile

import (
	"fmt"
	"log/slog"
	"strconv"

	"rmkit/internal/diagnostic"
	"rmkit/internal/errs"
	"rmkit/internal/model"
)

// Config tunes reconciliation.
type Config struct {
	// UnusedPositionsAreConflicts turns combos and macros on positions
	// without a switch into conflicts instead of warnings.
	UnusedPositionsAreConflicts bool
}

// DefaultConfig returns the default reconciliation configuration.
func DefaultConfig() Config {
	return Config{}
}

// Reconciler runs the cross-document checks.
type Reconciler struct {
	config Config
	logger *slog.Logger
}

// New creates a Reconciler. A nil logger discards.
func New(config Config, logger *slog.Logger) *Reconciler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Reconciler{config: config, logger: logger}
}

// Reconcile runs with the default configuration.
func Reconcile(hw *model.HardwareModel, lay *model.LayoutModel) (*model.DeviceModel, *diagnostic.Report, error) {
	return New(DefaultConfig(), nil).Reconcile(hw, lay)
}

// Reconcile compares the two models. It always returns the report. When
// the report has conflicts the model is nil and the error is an
// *errs.ConflictError carrying the same report.
func (r *Reconciler) Reconcile(hw *model.HardwareModel, lay *model.LayoutModel) (*model.DeviceModel, *diagnostic.Report, error) {
	report := &diagnostic.Report{}

	checkShape(hw, lay, report)
	checkSplit(hw, report)
	checkLayers(hw, lay, report)
	checkKeyCount(hw, lay, report)
	checkUSBIDs(hw, lay, report)
	r.checkUnused(hw, lay, report)
	checkName(hw, lay, report)

	r.logger.Debug("reconciled",
		"conflicts", len(report.Conflicts),
		"warnings", len(report.Warnings))

	if report.HasConflicts() {
		return nil, report, &errs.ConflictError{Report: report}
	}

	return model.New(hw, lay), report, nil
}

func checkShape(hw *model.HardwareModel, lay *model.LayoutModel, report *diagnostic.Report) {
	shape := hw.Shape()

	if hw.Split == nil {
		if shape != lay.Shape {
			report.AddConflict(diagnostic.CodeMatrixShapeMismatch, "matrix",
				shape.String(), lay.Shape.String(),
				"keyboard.toml pins and vial.json matrix describe different matrix shapes")
		}

		if hw.DeclaredShape != (model.Shape{}) && hw.DeclaredShape != shape {
			report.AddConflict(diagnostic.CodeMatrixShapeMismatch, "layout",
				shape.String(), hw.DeclaredShape.String(),
				"keyboard.toml [layout] rows/cols do not match its pins")
		}

		return
	}

	if shape != lay.Shape {
		report.AddConflict(diagnostic.CodeSplitShapeMismatch, "split.matrix",
			shape.String(), lay.Shape.String(),
			fmt.Sprintf("combined matrix of the central and %d peripheral(s) does not match the vial.json matrix",
				len(hw.Split.Peripherals)))
	}

	if hw.DeclaredShape != (model.Shape{}) && hw.DeclaredShape != shape {
		report.AddConflict(diagnostic.CodeSplitShapeMismatch, "layout",
			shape.String(), hw.DeclaredShape.String(),
			"keyboard.toml [layout] rows/cols do not match the combined split matrix")
	}
}

func checkSplit(hw *model.HardwareModel, report *diagnostic.Report) {
	if hw.Split == nil {
		return
	}

	s := hw.Split
	peers := len(s.Peripherals)

	if peers == 0 {
		report.AddConflict(diagnostic.CodeSplitPeerCount, "split.peripheral",
			">= 1", "0", "a split keyboard needs at least one peripheral")
	}

	switch s.Connection {
	case model.InterfaceBLE:
		if len(s.Central.BLEAddr) == 0 {
			report.AddConflict(diagnostic.CodeSplitLinkMissing, "split.central.ble_addr",
				"6-byte address", "none", "central has no BLE address")
		}

		for i, p := range s.Peripherals {
			if len(p.BLEAddr) == 0 {
				report.AddConflict(diagnostic.CodeSplitLinkMissing,
					fmt.Sprintf("split.peripheral[%d].ble_addr", i),
					"6-byte address", "none",
					fmt.Sprintf("%s has no BLE address", p.Name()))
			}
		}
	case model.InterfaceSerial:
		switch {
		case len(s.Central.Serial) == 0 && peers > 0:
			report.AddConflict(diagnostic.CodeSplitLinkMissing, "split.central.serial",
				strconv.Itoa(peers)+" link(s)", "none", "central has no serial link to its peripherals")
		case len(s.Central.Serial) != peers && peers > 0:
			report.AddConflict(diagnostic.CodeSplitPeerCount, "split.central.serial",
				strconv.Itoa(peers), strconv.Itoa(len(s.Central.Serial)),
				"central needs one serial link per peripheral")
		}

		for i, p := range s.Peripherals {
			if len(p.Serial) == 0 {
				report.AddConflict(diagnostic.CodeSplitLinkMissing,
					fmt.Sprintf("split.peripheral[%d].serial", i),
					"1 link", "none",
					fmt.Sprintf("%s has no serial link to the central", p.Name()))
			}
		}
	}
}

func checkLayers(hw *model.HardwareModel, lay *model.LayoutModel, report *diagnostic.Report) {
	if hw.DeclaredLayers == 0 || hw.DeclaredLayers == len(lay.Layers) {
		return
	}

	report.AddConflict(diagnostic.CodeLayerCountMismatch, "layout.layers",
		strconv.Itoa(hw.DeclaredLayers), strconv.Itoa(len(lay.Layers)),
		"keyboard.toml declares a different number of layers than vial.json provides")
}

func checkKeyCount(hw *model.HardwareModel, lay *model.LayoutModel, report *diagnostic.Report) {
	if len(lay.Positions) <= hw.KeyCount {
		return
	}

	report.AddConflict(diagnostic.CodeKeyCountExceedsMatrix, "layout.key_count",
		"<= "+strconv.Itoa(hw.KeyCount), strconv.Itoa(len(lay.Positions)),
		"vial.json lays out more keys than the hardware wires")
}

func checkUSBIDs(hw *model.HardwareModel, lay *model.LayoutModel, report *diagnostic.Report) {
	if hw.VendorID != 0 && lay.VendorID != 0 && hw.VendorID != lay.VendorID {
		report.AddConflict(diagnostic.CodeVendorIDMismatch, "keyboard.vendor_id",
			hex16(hw.VendorID), hex16(lay.VendorID), "vendor ids differ")
	}

	if hw.ProductID != 0 && lay.ProductID != 0 && hw.ProductID != lay.ProductID {
		report.AddConflict(diagnostic.CodeProductIDMismatch, "keyboard.product_id",
			hex16(hw.ProductID), hex16(lay.ProductID), "product ids differ")
	}
}

// checkUnused flags combos and macros placed on positions that have no
// switch on the hardware side.
func (r *Reconciler) checkUnused(hw *model.HardwareModel, lay *model.LayoutModel, report *diagnostic.Report) {
	unused := make(map[model.Position]bool)
	for _, p := range hw.UnusedPositions() {
		unused[p] = true
	}

	if len(unused) == 0 {
		return
	}

	add := func(code, field, msg string) {
		if r.config.UnusedPositionsAreConflicts {
			report.AddConflict(code, field, "wired key", "unused position", msg)
			return
		}

		report.AddWarning(code, field, msg)
	}

	for i, c := range lay.Combos {
		for _, k := range c.Keys {
			if unused[k] {
				add(diagnostic.CodeComboOnUnusedPosition, fmt.Sprintf("combos[%d]", i),
					fmt.Sprintf("combo key %s has no switch on the hardware", k))
			}
		}
	}

	for i, m := range lay.Macros {
		if unused[m.Trigger] {
			add(diagnostic.CodeMacroOnUnusedPosition, fmt.Sprintf("macros[%d]", i),
				fmt.Sprintf("macro %q trigger %s has no switch on the hardware", m.Name, m.Trigger))
		}
	}
}

func checkName(hw *model.HardwareModel, lay *model.LayoutModel, report *diagnostic.Report) {
	if lay.Name == "" || lay.Name == hw.Name {
		return
	}

	report.AddWarning(diagnostic.CodeNameMismatch, "keyboard.name",
		fmt.Sprintf("vial.json names the keyboard %q, using %q from keyboard.toml", lay.Name, hw.Name))
}

func hex16(v uint16) string { return fmt.Sprintf("0x%04X", v) }
