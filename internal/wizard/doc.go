// Package wizard collects a keyboard description through a question and
// answer session when no input documents are given.
//
// A Session is a state machine over an ordered question list. Each answer
// is checked with the same predicates the normalize package applies to
// documents, so a finished session yields a DeviceModel that satisfies the
// same invariants as one built from keyboard.toml and vial.json. Rendering
// prompts and reading input is left to a Prompter.
package wizard
