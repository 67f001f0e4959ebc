package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandPins(t *testing.T) {
	tests := []struct {
		name    string
		in      []string
		want    []string
		wantErr string
	}{
		{
			name: "plain",
			in:   []string{"P0_02", "P0_03"},
			want: []string{"P0_02", "P0_03"},
		},
		{
			name: "padded range",
			in:   []string{"P0_02..P0_05"},
			want: []string{"P0_02", "P0_03", "P0_04", "P0_05"},
		},
		{
			name: "unpadded range",
			in:   []string{"PIN_8..PIN_11"},
			want: []string{"PIN_8", "PIN_9", "PIN_10", "PIN_11"},
		},
		{
			name: "descending",
			in:   []string{"PB12..PB10"},
			want: []string{"PB12", "PB11", "PB10"},
		},
		{
			name: "mixed",
			in:   []string{"P1_00", " P0_29..P0_31 "},
			want: []string{"P1_00", "P0_29", "P0_30", "P0_31"},
		},
		{
			name: "single",
			in:   []string{"PA0..PA0"},
			want: []string{"PA0"},
		},
		{
			name:    "prefix mismatch",
			in:      []string{"PA0..PB3"},
			wantErr: "different prefixes",
		},
		{
			name:    "no number",
			in:      []string{"PA..PB"},
			wantErr: "followed by a number",
		},
		{
			name:    "too large",
			in:      []string{"P0..P100"},
			wantErr: "more than",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExpandPins(tt.in)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidatePinList(t *testing.T) {
	pins, err := ValidatePinList([]string{"P0_02..P0_04"}, 3)
	require.NoError(t, err)
	assert.Len(t, pins, 3)

	_, err = ValidatePinList([]string{"P0_02..P0_04", "P0_03"}, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "P0_03 is used more than once")

	_, err = ValidatePinList([]string{"P0_02"}, 2)
	assert.ErrorContains(t, err, "expected 2 pins")

	_, err = ValidatePinList([]string{"0bad"}, 0)
	assert.ErrorContains(t, err, "invalid pin name")
}

func TestValidateDirectPins(t *testing.T) {
	shape, used, err := ValidateDirectPins([][]string{{"PIN_0", "_", "PIN_2"}, {"PIN_3"}})
	require.NoError(t, err)
	assert.Equal(t, 2, shape.Rows)
	assert.Equal(t, 3, shape.Cols)
	assert.Equal(t, 3, used)

	_, _, err = ValidateDirectPins([][]string{{"_", "_"}})
	assert.ErrorContains(t, err, "wires no keys")

	_, _, err = ValidateDirectPins([][]string{{"PIN_0"}, {"PIN_0"}})
	assert.ErrorContains(t, err, "more than once")

	_, _, err = ValidateDirectPins(nil)
	assert.Error(t, err)
}

func TestPredicates(t *testing.T) {
	assert.NoError(t, ValidateProjectName("my_keyboard-2"))
	assert.Error(t, ValidateProjectName(""))
	assert.Error(t, ValidateProjectName("1board"))
	assert.Error(t, ValidateProjectName("has space"))

	assert.Equal(t, "My_Keyboard", ProjectName("  My Keyboard "))

	assert.NoError(t, ValidateDimension("rows", 1))
	assert.NoError(t, ValidateDimension("rows", MaxDimension))
	assert.Error(t, ValidateDimension("rows", 0))
	assert.Error(t, ValidateDimension("rows", MaxDimension+1))

	assert.Error(t, ValidateLayerCount(0))
	assert.NoError(t, ValidateLayerCount(4))
	assert.Error(t, ValidatePeerCount(0))
	assert.NoError(t, ValidatePeerCount(1))
	assert.Error(t, ValidatePeerCount(MaxPeers+1))
}

func TestFeatures(t *testing.T) {
	nrf := mustChip(t, "nrf52840")

	tests := []struct {
		name         string
		in           FeatureInput
		wantEnabled  []string
		wantDisabled []string
	}{
		{
			name:        "defaults",
			in:          FeatureInput{Storage: true, Defmt: true, Chip: nrf},
			wantEnabled: []string{"col2row", "defmt", "storage", "vial"},
		},
		{
			name:         "row2col drops col2row",
			in:           FeatureInput{Row2Col: true, Storage: true, Defmt: true, Chip: nrf},
			wantEnabled:  []string{"defmt", "storage", "vial"},
			wantDisabled: []string{"col2row"},
		},
		{
			name:         "split ble without storage",
			in:           FeatureInput{Defmt: true, Split: true, BLE: true, Chip: nrf},
			wantEnabled:  []string{"col2row", "defmt", "vial", "split", "_nrf_ble"},
			wantDisabled: []string{"storage"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enabled, disabled := Features(tt.in)
			assert.Equal(t, tt.wantEnabled, enabled)
			assert.Equal(t, tt.wantDisabled, disabled)
		})
	}
}
