// Package model holds the canonical keyboard description shared by every
// stage after parsing.
//
// HardwareModel and LayoutModel are the normalized forms of the two input
// documents. DeviceModel is their reconciled union; it is built once per
// run by New and must be treated as read-only afterwards.
package model
