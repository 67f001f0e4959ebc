// Package normalize lowers the parsed keyboard.toml and vial.json documents
// into their canonical model form.
//
// It resolves defaults, expands pin range shorthand and computes derived
// values such as the matrix shape and key count. The field predicates in
// predicates.go are shared with the wizard so both producers of a
// DeviceModel enforce the same rules.
package normalize
