// Package emit writes a rendered project to disk.
//
// Emission validates every path before the first write, creates parent
// directories as needed and never rolls back: when a write fails the
// Report lists what was written, what failed and what was never attempted.
package emit
