// Package diagnostic provides the conflict report produced when the hardware
// and layout documents are checked against each other.
//
// Every discrepancy is collected instead of stopping at the first one, so a
// user can fix all of them in one edit cycle. Conflicts fail generation;
// warnings are reported but do not.
package diagnostic
