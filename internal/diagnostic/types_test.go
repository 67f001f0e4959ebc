package diagnostic

import (
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportCollectsInOrder(t *testing.T) {
	var r Report

	assert.True(t, r.IsValid())

	r.AddConflict(CodeMatrixShapeMismatch, "matrix", "4x3", "4x6", "matrix shapes differ")
	r.AddWarning(CodeNameMismatch, "keyboard.name", "names differ")
	r.AddConflict(CodeLayerCountMismatch, "layout.layers", "2", "1", "layer count differs")

	assert.True(t, r.HasConflicts())
	assert.False(t, r.IsValid())
	assert.Equal(t, []string{CodeMatrixShapeMismatch, CodeLayerCountMismatch}, r.Codes())
	assert.True(t, r.Has(CodeNameMismatch))
	assert.False(t, r.Has(CodeSplitPeerCount))
}

func TestWarningsAloneAreValid(t *testing.T) {
	var r Report
	r.AddWarning(CodeComboOnUnusedPosition, "combos[0]", "combo uses an unused key")

	assert.True(t, r.IsValid())
	assert.Contains(t, r.String(), "1 warning(s)")
}

func TestNilReport(t *testing.T) {
	var r *Report
	assert.False(t, r.HasConflicts())
}

func TestDiagnosticString(t *testing.T) {
	tests := []struct {
		name string
		d    Diagnostic
		want string
	}{
		{
			name: "full",
			d:    Diagnostic{Code: "matrix_shape_mismatch", Field: "matrix", Expected: "4x3", Found: "4x6", Message: "shapes differ"},
			want: "matrix: [matrix_shape_mismatch] shapes differ (expected 4x3, found 4x6)",
		},
		{
			name: "no field",
			d:    Diagnostic{Code: "x", Message: "m"},
			want: "[x] m",
		},
		{
			name: "message only",
			d:    Diagnostic{Message: "m"},
			want: "m",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.d.String())
		})
	}
}

func TestMergeAndString(t *testing.T) {
	var a, b Report
	a.AddConflict("a", "f", "1", "2", "first")
	b.AddConflict("b", "g", "3", "4", "second")
	a.Merge(&b)
	a.Merge(nil)

	out := a.String()
	assert.Contains(t, out, "2 conflict(s)")
	assert.Less(t, strings.Index(out, "first"), strings.Index(out, "second"))
}

func TestReportJSON(t *testing.T) {
	var r Report
	r.AddConflict(CodeVendorIDMismatch, "keyboard.vendor_id", "0x4C4B", "0x1234", "vendor ids differ")

	data, err := json.Marshal(&r)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"severity":"conflict"`)
	assert.Contains(t, string(data), `"code":"vendor_id_mismatch"`)
}
