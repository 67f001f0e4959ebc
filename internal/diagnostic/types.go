package diagnostic

import (
	"fmt"
	"strings"

	"rmkit/internal/common"
)

// Conflict codes. Each names one cross-document check.
const (
	CodeMatrixShapeMismatch   = "matrix_shape_mismatch"
	CodeSplitShapeMismatch    = "split_shape_mismatch"
	CodeSplitPeerCount        = "split_peer_count"
	CodeSplitLinkMissing      = "split_link_missing"
	CodeLayerCountMismatch    = "layer_count_mismatch"
	CodeKeyCountExceedsMatrix = "key_count_exceeds_matrix"
	CodeVendorIDMismatch      = "vendor_id_mismatch"
	CodeProductIDMismatch     = "product_id_mismatch"
)

// Warning codes.
const (
	CodeComboOnUnusedPosition = "combo_on_unused_position"
	CodeMacroOnUnusedPosition = "macro_on_unused_position"
	CodeNameMismatch          = "name_mismatch"
)

// Severity of a diagnostic.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityConflict
)

// String returns a human-readable severity name.
func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityConflict:
		return "conflict"
	default:
		return common.UnknownStr
	}
}

// MarshalText lets JSON output carry the name instead of the number.
func (s Severity) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Diagnostic is one discrepancy between the two documents.
type Diagnostic struct {
	Severity Severity `json:"severity"`
	// Code is a stable identifier for the check that fired.
	Code string `json:"code"`
	// Field is the document path the discrepancy is about.
	Field    string `json:"field"`
	Expected string `json:"expected,omitempty"`
	Found    string `json:"found,omitempty"`
	Message  string `json:"message"`
}

// String renders "field: [code] message (expected X, found Y)".
func (d Diagnostic) String() string {
	msg := d.Message
	if d.Code != "" {
		msg = fmt.Sprintf("[%s] %s", d.Code, msg)
	}

	if d.Expected != "" || d.Found != "" {
		msg += fmt.Sprintf(" (expected %s, found %s)", d.Expected, d.Found)
	}

	if d.Field != "" {
		return d.Field + ": " + msg
	}

	return msg
}

// Report is the ordered result of reconciliation. An empty Conflicts list
// means validation passed.
type Report struct {
	Conflicts []Diagnostic `json:"conflicts"`
	Warnings  []Diagnostic `json:"warnings"`
}

// AddConflict appends a conflict.
func (r *Report) AddConflict(code, field, expected, found, message string) {
	r.Conflicts = append(r.Conflicts, Diagnostic{
		Severity: SeverityConflict,
		Code:     code,
		Field:    field,
		Expected: expected,
		Found:    found,
		Message:  message,
	})
}

// AddWarning appends a warning.
func (r *Report) AddWarning(code, field, message string) {
	r.Warnings = append(r.Warnings, Diagnostic{
		Severity: SeverityWarning,
		Code:     code,
		Field:    field,
		Message:  message,
	})
}

// HasConflicts returns true if generation must not proceed.
func (r *Report) HasConflicts() bool {
	return r != nil && len(r.Conflicts) > 0
}

// IsValid returns true if there are no conflicts.
func (r *Report) IsValid() bool { return !r.HasConflicts() }

// Merge appends another report's entries, keeping order.
func (r *Report) Merge(other *Report) {
	if other == nil {
		return
	}

	r.Conflicts = append(r.Conflicts, other.Conflicts...)
	r.Warnings = append(r.Warnings, other.Warnings...)
}

// Codes returns the conflict codes in report order.
func (r *Report) Codes() []string {
	return common.Map(r.Conflicts, func(d Diagnostic) string { return d.Code })
}

// Has reports whether a conflict or warning with code exists.
func (r *Report) Has(code string) bool {
	for _, d := range r.Conflicts {
		if d.Code == code {
			return true
		}
	}

	for _, d := range r.Warnings {
		if d.Code == code {
			return true
		}
	}

	return false
}

// String lists every conflict, then every warning, one per line.
func (r *Report) String() string {
	var sb strings.Builder

	if len(r.Conflicts) > 0 {
		fmt.Fprintf(&sb, "%d conflict(s):\n", len(r.Conflicts))

		for _, d := range r.Conflicts {
			sb.WriteString("  - " + d.String() + "\n")
		}
	}

	if len(r.Warnings) > 0 {
		fmt.Fprintf(&sb, "%d warning(s):\n", len(r.Warnings))

		for _, d := range r.Warnings {
			sb.WriteString("  - " + d.String() + "\n")
		}
	}

	return sb.String()
}
