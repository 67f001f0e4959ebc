package hardware

// Document is the name used in errors raised by this package.
const Document = "keyboard.toml"

// Spec is the typed form of keyboard.toml.
type Spec struct {
	Keyboard   Keyboard    `toml:"keyboard"`
	Matrix     *Matrix     `toml:"matrix"`
	Layout     *Layout     `toml:"layout"`
	Split      *Split      `toml:"split"`
	Storage    *Storage    `toml:"storage"`
	Dependency *Dependency `toml:"dependency"`
}

// Keyboard is the [keyboard] table.
type Keyboard struct {
	Name         string  `toml:"name"`
	VendorID     *uint16 `toml:"vendor_id"`
	ProductID    *uint16 `toml:"product_id"`
	Manufacturer string  `toml:"manufacturer"`
	Chip         string  `toml:"chip"`
	Board        string  `toml:"board"`
	Interface    string  `toml:"interface"`
}

// Matrix is a [matrix] table, either top level or inside a split half.
type Matrix struct {
	MatrixType         string     `toml:"matrix_type"`
	InputPins          []string   `toml:"input_pins"`
	OutputPins         []string   `toml:"output_pins"`
	DirectPins         [][]string `toml:"direct_pins"`
	DirectPinLowActive *bool      `toml:"direct_pin_low_active"`
	Row2Col            bool       `toml:"row2col"`
}

// IsDirect reports whether the matrix declares direct-pin wiring.
func (m *Matrix) IsDirect() bool {
	return m.MatrixType == "direct_pin" || m.MatrixType == "direct"
}

// Layout is the optional [layout] table.
type Layout struct {
	Rows     int `toml:"rows"`
	Cols     int `toml:"cols"`
	Layers   int `toml:"layers"`
	KeyCount int `toml:"key_count"`
}

// Split is the [split] table.
type Split struct {
	Connection string `toml:"connection"`
	Central    *Half  `toml:"central"`
	Peripheral []Half `toml:"peripheral"`
}

// Half is [split.central] or one [[split.peripheral]].
type Half struct {
	Rows      int      `toml:"rows"`
	Cols      int      `toml:"cols"`
	RowOffset int      `toml:"row_offset"`
	ColOffset int      `toml:"col_offset"`
	BLEAddr   []uint8  `toml:"ble_addr"`
	Serial    []Serial `toml:"serial"`
	Matrix    *Matrix  `toml:"matrix"`
}

// Serial is one UART link of a split half.
type Serial struct {
	Instance string `toml:"instance"`
	TxPin    string `toml:"tx_pin"`
	RxPin    string `toml:"rx_pin"`
}

// Storage is the [storage] table.
type Storage struct {
	Enabled *bool `toml:"enabled"`
}

// Dependency is the [dependency] table.
type Dependency struct {
	DefmtLog *bool `toml:"defmt_log"`
}

// StorageEnabled defaults to true.
func (s *Spec) StorageEnabled() bool {
	return s.Storage == nil || s.Storage.Enabled == nil || *s.Storage.Enabled
}

// DefmtEnabled defaults to true.
func (s *Spec) DefmtEnabled() bool {
	return s.Dependency == nil || s.Dependency.DefmtLog == nil || *s.Dependency.DefmtLog
}
