package gen

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rmkit/internal/chip"
	"rmkit/internal/errs"
	"rmkit/internal/hardware"
	"rmkit/internal/model"
	"rmkit/internal/remote"
)

func TestSelectTemplates(t *testing.T) {
	tests := []struct {
		name  string
		model func(t *testing.T) *model.DeviceModel
		want  []string
	}{
		{
			name:  "non-split nrf52840",
			model: func(t *testing.T) *model.DeviceModel { return fromDocs(t, directPadTOML, directPadJSON) },
			want: []string{
				".cargo/config.toml", "Cargo.toml", "Makefile.toml", "README.md", "build.rs",
				"keyboard.toml", "memory.x", "rust-toolchain.toml", "src/keymap.rs", "src/main.rs", "vial.json",
			},
		},
		{
			name:  "serial split rp2040",
			model: func(t *testing.T) *model.DeviceModel { return fromDocs(t, serialSplitTOML, layoutDoc(t, 2, 4, 1)) },
			want: []string{
				".cargo/config.toml", "Cargo.toml", "Makefile.toml", "README.md", "build.rs",
				"keyboard.toml", "memory.x", "rust-toolchain.toml", "src/central.rs", "src/keymap.rs",
				"src/peripheral.rs", "vial.json",
			},
		},
		{
			name:  "ble split with two peripherals",
			model: func(t *testing.T) *model.DeviceModel { return fromDocs(t, bleSplitTOML, layoutDoc(t, 2, 6, 1)) },
			want: []string{
				".cargo/config.toml", "Cargo.toml", "Makefile.toml", "README.md", "build.rs",
				"keyboard.toml", "memory.x", "rust-toolchain.toml", "src/ble.rs", "src/central.rs",
				"src/keymap.rs", "src/peripheral1.rs", "src/peripheral2.rs", "vial.json",
			},
		},
		{
			name:  "esp32 has no memory.x or uf2",
			model: func(t *testing.T) *model.DeviceModel { return fromDocs(t, espTOML, layoutDoc(t, 1, 2, 1)) },
			want: []string{
				".cargo/config.toml", "Cargo.toml", "README.md", "build.rs", "keyboard.toml",
				"rust-toolchain.toml", "src/keymap.rs", "src/main.rs", "vial.json",
			},
		},
	}

	e := NewEngine(DefaultConfig(), nil)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tfs, err := e.SelectTemplates(tt.model(t))
			require.NoError(t, err)

			var paths []string
			for _, tf := range tfs {
				paths = append(paths, tf.Path)
			}

			assert.Equal(t, tt.want, paths)
		})
	}
}

func TestSetIDs(t *testing.T) {
	nonSplit := SetIDs(SetKey{Family: chip.FamilyNRF52, Topology: model.TopologyNonSplit})
	split := SetIDs(SetKey{Family: chip.FamilyNRF52, Topology: model.TopologySplit})
	esp := SetIDs(SetKey{Family: chip.FamilyESP32, Topology: model.TopologyNonSplit})

	assert.Contains(t, nonSplit, "main")
	assert.NotContains(t, nonSplit, "central")
	assert.Contains(t, split, "central")
	assert.Contains(t, split, "peripheral")
	assert.NotContains(t, split, "main")
	assert.NotContains(t, esp, "memory")
	assert.Equal(t, "nrf52/split", SetKey{Family: chip.FamilyNRF52, Topology: model.TopologySplit}.String())
}

func TestGenerateDeterministic(t *testing.T) {
	m := fromDocs(t, bleSplitTOML, layoutDoc(t, 2, 6, 2))
	e := NewEngine(DefaultConfig(), nil)

	first, err := e.Generate(m, nil)
	require.NoError(t, err)

	for range 3 {
		again, err := e.Generate(m, nil)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestDirectPinScenario(t *testing.T) {
	m := fromDocs(t, directPadTOML, directPadJSON)

	files, err := NewEngine(DefaultConfig(), nil).Generate(m, nil)
	require.NoError(t, err)

	got := fileMap(files)
	if testing.Verbose() {
		t.Log(spew.Sdump(m))
		t.Log(got["keyboard.toml"])
	}

	spec, err := hardware.Read([]byte(got["keyboard.toml"]))
	require.NoError(t, err)
	require.NotNil(t, spec.Matrix)

	var pins []string
	for _, row := range spec.Matrix.DirectPins {
		pins = append(pins, row...)
	}

	assert.Equal(t, m.AllPins(), pins)
	assert.Len(t, pins, 12)

	assert.Contains(t, got["src/keymap.rs"], "[k!(A), k!(B), k!(C)],")
	assert.Contains(t, got["src/keymap.rs"], "[k!(Kc1), k!(Kc2), k!(Kc3)],")
	assert.Contains(t, got["src/keymap.rs"], "[mo!(1), a!(Transparent), a!(No)],")
	assert.Contains(t, got["src/keymap.rs"], "[lt!(1, Space), k!(Enter), k!(F5)],")
	assert.Contains(t, got["src/keymap.rs"], "use rmk::{a, k, layer, lt, mo};")
	assert.Contains(t, got["src/keymap.rs"], "pub(crate) const NUM_LAYER: usize = 1;")
	assert.Contains(t, got["keyboard.toml"], `["LT(1, Space)", "Enter", "F5"],`)
}

// Regenerated keyboard.toml and vial.json must describe the same keyboard.
func TestRegeneratedDocumentsRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		hw   string
		lay  func(t *testing.T) string
	}{
		{"direct pad", directPadTOML, func(*testing.T) string { return directPadJSON }},
		{"row2col", row2colTOML, func(t *testing.T) string { return layoutDoc(t, 2, 3, 2) }},
		{"serial split", serialSplitTOML, func(t *testing.T) string { return layoutDoc(t, 2, 4, 1) }},
		{"ble split", bleSplitTOML, func(t *testing.T) string { return layoutDoc(t, 2, 6, 3) }},
	}

	e := NewEngine(DefaultConfig(), nil)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := fromDocs(t, tt.hw, tt.lay(t))

			files, err := e.Generate(m, nil)
			require.NoError(t, err)

			got := fileMap(files)
			again := fromDocs(t, got["keyboard.toml"], got["vial.json"])

			assert.Equal(t, m.ProjectName, again.ProjectName)
			assert.Equal(t, m.Chip, again.Chip)
			assert.Equal(t, m.Interface, again.Interface)
			assert.Equal(t, m.USBIDs, again.USBIDs)
			assert.Equal(t, m.Shape, again.Shape)
			assert.Equal(t, m.KeyCount, again.KeyCount)
			assert.Equal(t, m.Matrix, again.Matrix)
			assert.Equal(t, m.Split, again.Split)
			assert.Equal(t, m.Layers, again.Layers)
			assert.Equal(t, m.Combos, again.Combos)
			assert.Equal(t, m.Features, again.Features)
			assert.Equal(t, m.DisabledDefaults, again.DisabledDefaults)
		})
	}
}

func TestCargoFeatures(t *testing.T) {
	tests := []struct {
		name string
		hw   string
		lay  func(t *testing.T) string
		want string
	}{
		{
			name: "defaults only",
			hw:   directPadTOML,
			lay:  func(*testing.T) string { return directPadJSON },
			want: `rmk = { version = "0.7" }`,
		},
		{
			name: "row2col turns default features off",
			hw:   row2colTOML,
			lay:  func(t *testing.T) string { return layoutDoc(t, 2, 3, 1) },
			want: `rmk = { version = "0.7", default-features = false, features = ["defmt", "storage", "vial"] }`,
		},
		{
			name: "split over ble",
			hw:   bleSplitTOML,
			lay:  func(t *testing.T) string { return layoutDoc(t, 2, 6, 1) },
			want: `rmk = { version = "0.7", features = ["_nrf_ble", "split"] }`,
		},
	}

	e := NewEngine(DefaultConfig(), nil)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			files, err := e.Generate(fromDocs(t, tt.hw, tt.lay(t)), nil)
			require.NoError(t, err)

			assert.Contains(t, fileMap(files)["Cargo.toml"], tt.want)
		})
	}
}

func TestSplitFiles(t *testing.T) {
	files, err := NewEngine(DefaultConfig(), nil).Generate(fromDocs(t, bleSplitTOML, layoutDoc(t, 2, 6, 1)), nil)
	require.NoError(t, err)

	got := fileMap(files)

	assert.Contains(t, got["src/peripheral1.rs"], "#[rmk_peripheral(id = 0)]")
	assert.Contains(t, got["src/peripheral2.rs"], "#[rmk_peripheral(id = 1)]")
	assert.Contains(t, got["src/central.rs"], "mod ble;")
	assert.Contains(t, got["src/ble.rs"], "pub const CENTRAL_ADDR: [u8; 6] = [0x18, 0xe2, 0x21, 0x80, 0xc0, 0xc7];")
	assert.Contains(t, got["src/ble.rs"], "pub const PERIPHERAL_ADDRS: [[u8; 6]; 2] = [")
	assert.Contains(t, got["Cargo.toml"], "name = \"peripheral2\"\npath = \"src/peripheral2.rs\"")
	assert.Contains(t, got["Makefile.toml"], `"--family", "nrf52840"`)
	assert.Contains(t, got["memory.x"], "FLASH : ORIGIN = 0x00000000, LENGTH = 1024K")
	assert.Contains(t, got[".cargo/config.toml"], `runner = "probe-rs run --chip nRF52840_xxAA"`)
}

func TestOverlay(t *testing.T) {
	m := fromDocs(t, directPadTOML, directPadJSON)

	overlay := []remote.File{
		{Path: "src/main.rs", Data: []byte("remote main")},
		{Path: "extra/config.toml", Data: []byte(`name = "{{ project_name }}" # {{ chip_name }} {{ uf2_key }}`)},
		{Path: "src/util.rs", Data: []byte("// {{ project_name }}")},
		{Path: ".github/workflows/build.yml", Data: []byte("on: push")},
	}

	files, err := NewEngine(DefaultConfig(), nil).Generate(m, overlay)
	require.NoError(t, err)

	got := fileMap(files)

	assert.NotEqual(t, "remote main", got["src/main.rs"])
	assert.Equal(t, `name = "Pad" # nrf52840 nrf52840`, got["extra/config.toml"])
	assert.Equal(t, "// {{ project_name }}", got["src/util.rs"])

	// overlay files follow the built-in ones, in path order
	tail := files[len(files)-3:]
	assert.Equal(t, ".github/workflows/build.yml", tail[0].Path)
	assert.Equal(t, "extra/config.toml", tail[1].Path)
	assert.Equal(t, "src/util.rs", tail[2].Path)
}

func TestSubstituteUF2Key(t *testing.T) {
	m := &model.DeviceModel{ProjectName: "f4", Chip: chip.Info{Name: "stm32f411ce", Family: chip.FamilySTM32}}
	assert.Equal(t, "stm32f4 stm32f411ce f4", string(Substitute([]byte("{{ uf2_key }} {{ chip_name }} {{ project_name }}"), m)))
}

func TestRenderErrors(t *testing.T) {
	m := fromDocs(t, directPadTOML, directPadJSON)
	dir := t.TempDir()

	config := DefaultConfig()
	config.DebugDir = dir
	e := NewEngine(config, nil)

	_, err := e.Render(TemplateFile{
		ID:   "broken",
		Path: "broken.rs",
		Render: func(*model.DeviceModel) ([]byte, error) {
			return nil, errors.New("no such field")
		},
	}, m)

	var renderErr *errs.RenderError
	require.True(t, errors.As(err, &renderErr))
	assert.Equal(t, "broken", renderErr.Template)
	assert.Equal(t, errs.ExitRender, errs.ExitCode(err))

	_, err = e.Render(TemplateFile{
		ID:     "bad-toml",
		Path:   "conf/bad.toml",
		Render: func(*model.DeviceModel) ([]byte, error) { return []byte("key = = 1"), nil },
		check:  checkTOML,
	}, m)
	require.True(t, errors.As(err, &renderErr))
	assert.Contains(t, err.Error(), "does not parse")

	debug, err := os.ReadFile(filepath.Join(dir, "conf", "bad.toml.unchecked"))
	require.NoError(t, err)
	assert.Equal(t, "key = = 1", string(debug))
}

func TestEmbeddedTemplatesParse(t *testing.T) {
	for _, name := range []string{"Cargo.toml.tmpl", "keyboard.toml.tmpl", "deps.nrf52", "runner.esp32", "matrix", "half"} {
		assert.NotNil(t, tree.Lookup(name), name)
	}

	for _, specs := range [][]fileSpec{commonSpecs, topologySpecs[model.TopologySplit], topologySpecs[model.TopologyNonSplit]} {
		for _, s := range specs {
			if s.build == nil {
				assert.NotNil(t, tree.Lookup(s.tmpl), s.id)
			}

			assert.False(t, strings.HasPrefix(s.path, "/"), s.id)
		}
	}
}
