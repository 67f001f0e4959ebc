package layout

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/goccy/go-json"
)

// Document is the name used in errors raised by this package.
const Document = "vial.json"

// Spec is the typed form of vial.json.
type Spec struct {
	Name      string     `json:"name"`
	VendorID  string     `json:"vendorId"`
	ProductID string     `json:"productId"`
	Matrix    *Dims      `json:"matrix"`
	Layers    [][][]Key  `json:"layers"`
	Combos    []Combo    `json:"combos"`
	Macros    []Macro    `json:"macros"`
	Keymap    []KeyLabel `json:"-"`
}

// Dims is the declared matrix size.
type Dims struct {
	Rows int `json:"rows"`
	Cols int `json:"cols"`
}

// Combo references matrix positions as [row, col] pairs.
type Combo struct {
	Keys   [][]int `json:"keys"`
	Output string  `json:"output"`
	Layer  int     `json:"layer"`
}

// Macro is triggered by the key at Trigger ([row, col]).
type Macro struct {
	Name     string   `json:"name"`
	Trigger  []int    `json:"trigger"`
	Sequence []string `json:"sequence"`
}

// KeyLabel is one key of the KLE keymap: its "r,c" label and where it was
// found in the document.
type KeyLabel struct {
	Label string
	// Row and Item index the layouts.keymap array.
	Row  int
	Item int
}

// Key is a keycode. Vial writes most keycodes as names but falls back to
// raw numbers for codes it has no name for.
type Key string

// UnmarshalJSON accepts a string or a number.
func (k *Key) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}

		*k = Key(s)

		return nil
	}

	if bytes.Equal(data, []byte("null")) {
		*k = ""
		return nil
	}

	n, err := strconv.ParseInt(string(data), 10, 32)
	if err != nil {
		return fmt.Errorf("keycode must be a string or an integer, got %s", data)
	}

	switch n {
	case -1, 0:
		*k = "KC_NO"
	case 1:
		*k = "KC_TRNS"
	default:
		*k = Key(fmt.Sprintf("0x%04X", n))
	}

	return nil
}
