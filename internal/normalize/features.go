package normalize

import "rmkit/internal/chip"

// RMK cargo features.
const (
	FeatureCol2Row = "col2row"
	FeatureDefmt   = "defmt"
	FeatureStorage = "storage"
	FeatureVial    = "vial"
	FeatureSplit   = "split"
)

// DefaultFeatures are enabled by RMK unless default-features is off.
var DefaultFeatures = []string{FeatureCol2Row, FeatureDefmt, FeatureStorage, FeatureVial}

// FeatureInput is what feature selection depends on.
type FeatureInput struct {
	Row2Col bool
	Storage bool
	Defmt   bool
	Split   bool
	BLE     bool
	Chip    chip.Info
}

// Features returns the enabled feature list and the defaults it turns off.
// A non-empty disabled list means Cargo.toml must set
// default-features = false and list every enabled feature.
func Features(in FeatureInput) (enabled, disabled []string) {
	drop := map[string]bool{
		FeatureCol2Row: in.Row2Col,
		FeatureStorage: !in.Storage,
		FeatureDefmt:   !in.Defmt,
	}

	for _, f := range DefaultFeatures {
		if drop[f] {
			disabled = append(disabled, f)
			continue
		}

		enabled = append(enabled, f)
	}

	if in.Split {
		enabled = append(enabled, FeatureSplit)
	}

	if in.BLE && in.Chip.BLEFeature != "" {
		enabled = append(enabled, in.Chip.BLEFeature)
	}

	return enabled, disabled
}
