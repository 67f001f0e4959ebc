package gen

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"

	"rmkit/internal/hardware"
	"rmkit/internal/layout"
	"rmkit/internal/model"
	"rmkit/internal/normalize"
	"rmkit/internal/reconcile"
)

// fromDocs runs the document pipeline on inline keyboard.toml and vial.json.
func fromDocs(t *testing.T, hwDoc, layDoc string) *model.DeviceModel {
	t.Helper()

	n := normalize.New(nil, nil)

	hs, err := hardware.Read([]byte(hwDoc))
	require.NoError(t, err)

	hw, err := n.Hardware(hs)
	require.NoError(t, err)

	ls, err := layout.Read([]byte(layDoc))
	require.NoError(t, err)

	lay, err := n.Layout(ls)
	require.NoError(t, err)

	m, _, err := reconcile.Reconcile(hw, lay)
	require.NoError(t, err)

	return m
}

// layoutDoc builds a vial.json with every key set to KC_A on layer 0 and
// KC_TRNS above it.
func layoutDoc(t *testing.T, rows, cols, layers int) string {
	t.Helper()

	grid := make([][][]string, layers)
	for l := range grid {
		code := "KC_TRNS"
		if l == 0 {
			code = "KC_A"
		}

		grid[l] = make([][]string, rows)
		for r := range grid[l] {
			for range cols {
				grid[l][r] = append(grid[l][r], code)
			}
		}
	}

	data, err := json.Marshal(map[string]any{
		"matrix": map[string]int{"rows": rows, "cols": cols},
		"layers": grid,
	})
	require.NoError(t, err)

	return string(data)
}

const directPadTOML = `
[keyboard]
name = "Pad"
chip = "nrf52840"
vendor_id = 0x4c4b
product_id = 0x4643

[matrix]
matrix_type = "direct_pin"
direct_pins = [
  ["P0_02", "P0_03", "P0_04"],
  ["P0_05", "P0_06", "P0_07"],
  ["P0_08", "P0_09", "P0_10"],
  ["P0_11", "P0_12", "P0_13"],
]
`

const directPadJSON = `{
  "name": "Pad",
  "vendorId": "0x4C4B",
  "productId": "0x4643",
  "matrix": {"rows": 4, "cols": 3},
  "layers": [[
    ["KC_A", "KC_B", "KC_C"],
    ["KC_1", "KC_2", "KC_3"],
    ["MO(1)", "KC_TRNS", "KC_NO"],
    ["LT(1, KC_SPC)", "KC_ENT", "KC_F5"]
  ]],
  "combos": [{"keys": [[0, 0], [0, 1]], "output": "KC_ESC", "layer": 0}]
}`

const row2colTOML = `
[keyboard]
name = "row2col"
chip = "rp2040"

[matrix]
input_pins = ["PIN_0", "PIN_1", "PIN_2"]
output_pins = ["PIN_3", "PIN_4"]
row2col = true
`

const serialSplitTOML = `
[keyboard]
name = "Serial Split"
chip = "rp2040"

[split]
connection = "serial"

[split.central]
rows = 2
cols = 2
serial = [{ instance = "UART0", tx_pin = "PIN_8", rx_pin = "PIN_9" }]

[split.central.matrix]
input_pins = ["PIN_0", "PIN_1"]
output_pins = ["PIN_2", "PIN_3"]

[[split.peripheral]]
rows = 2
cols = 2
col_offset = 2
serial = [{ instance = "UART0", tx_pin = "PIN_8", rx_pin = "PIN_9" }]

[split.peripheral.matrix]
input_pins = ["PIN_0", "PIN_1"]
output_pins = ["PIN_2", "PIN_3"]
`

const bleSplitTOML = `
[keyboard]
name = "BLE Split"
chip = "nrf52840"
interface = "ble"

[split]
connection = "ble"

[split.central]
ble_addr = [0x18, 0xe2, 0x21, 0x80, 0xc0, 0xc7]

[split.central.matrix]
input_pins = ["P0_02", "P0_03"]
output_pins = ["P0_04", "P0_05"]

[[split.peripheral]]
col_offset = 2
ble_addr = [0x7e, 0xfe, 0x73, 0x9e, 0x66, 0xe3]

[split.peripheral.matrix]
input_pins = ["P0_02", "P0_03"]
output_pins = ["P0_04", "P0_05"]

[[split.peripheral]]
col_offset = 4
ble_addr = [0x7e, 0xfe, 0x73, 0x9e, 0x66, 0xe4]

[split.peripheral.matrix]
input_pins = ["P0_02", "P0_03"]
output_pins = ["P0_04", "P0_05"]
`

const espTOML = `
[keyboard]
name = "esp"
chip = "esp32c3"

[matrix]
input_pins = ["GPIO0"]
output_pins = ["GPIO1", "GPIO2"]
`

func fileMap(files []GeneratedFile) map[string]string {
	out := make(map[string]string, len(files))
	for _, f := range files {
		out[f.Path] = string(f.Content)
	}

	return out
}
