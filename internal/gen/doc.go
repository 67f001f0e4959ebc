// Package gen renders an RMK firmware project from a DeviceModel.
//
// Templates are grouped into sets keyed by chip family and topology. Every
// template carries an inclusion predicate over the model, so selection can
// be tested without rendering anything.
//
// Rendering uses text/template and is deterministic: the same model always
// yields the same bytes. Rendered TOML and JSON files are parsed back as a
// consistency check.
package gen
