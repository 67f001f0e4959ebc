// Package layout reads vial.json, the key layout exported by the Vial
// configurator.
//
// The typed part of the document (matrix, layers, combos, macros) is
// decoded with go-json. The KLE keymap under layouts.keymap mixes strings
// and property objects, so it is scanned with gjson instead of being given
// a schema.
package layout
