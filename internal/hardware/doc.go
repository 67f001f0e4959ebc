// Package hardware reads keyboard.toml, the hardware and build description
// of a keyboard.
//
// Read is a pure parse: it checks that required structural keys are
// present and leaves every semantic rule (pin expansion, shapes, chip
// lookup) to the normalize package. Unknown keys are ignored.
package hardware
