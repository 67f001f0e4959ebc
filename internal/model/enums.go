package model

import (
	"fmt"
	"strings"
)

//go:generate go tool stringer -type=Topology,MatrixType,Interface,Role -linecomment -output=enums_string.go

// Topology tells whether the keyboard is one board or a central plus peripherals.
type Topology int

const (
	TopologyNonSplit Topology = iota // normal
	TopologySplit                    // split
)

// MatrixType is how switches are wired to the chip.
type MatrixType int

const (
	MatrixNormal    MatrixType = iota // normal
	MatrixDirectPin                   // direct_pin
)

// Interface is the host link, or the link between split halves.
type Interface int

const (
	InterfaceUSB    Interface = iota // usb
	InterfaceBLE                     // ble
	InterfaceSerial                  // serial
)

// Role of a half in a split keyboard.
type Role int

const (
	RoleCentral    Role = iota // central
	RolePeripheral             // peripheral
)

// ParseMatrixType accepts the keyboard.toml spelling. Empty means normal.
func ParseMatrixType(s string) (MatrixType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "normal":
		return MatrixNormal, nil
	case "direct_pin", "direct":
		return MatrixDirectPin, nil
	default:
		return 0, fmt.Errorf("unknown matrix type %q, expected normal or direct_pin", s)
	}
}

// ParseInterface accepts "usb", "ble" or "serial". Empty means usb.
func ParseInterface(s string) (Interface, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "usb":
		return InterfaceUSB, nil
	case "ble":
		return InterfaceBLE, nil
	case "serial", "uart":
		return InterfaceSerial, nil
	default:
		return 0, fmt.Errorf("unknown interface %q, expected usb, ble or serial", s)
	}
}
