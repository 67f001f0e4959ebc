package gen

import (
	"bytes"
	"embed"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"text/template"

	"rmkit/internal/chip"
	"rmkit/internal/errs"
	"rmkit/internal/model"
	"rmkit/internal/normalize"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// tree is the parsed template set. Embedded templates are fixed at build
// time, so a parse failure is a programming error.
var tree = parseTemplates()

func parseTemplates() *template.Template {
	var t *template.Template

	funcs := funcMap()
	funcs["include"] = func(name string, data any) (string, error) {
		var buf bytes.Buffer
		if err := t.ExecuteTemplate(&buf, name, data); err != nil {
			return "", err
		}

		return buf.String(), nil
	}

	t = template.Must(template.New("rmkit").
		Option("missingkey=error").
		Funcs(funcs).
		ParseFS(templateFS, "templates/*.tmpl"))

	return t
}

// Predicate decides whether a template is part of a project.
type Predicate func(*model.DeviceModel) bool

// Inclusion predicates.
var (
	Always   Predicate = func(*model.DeviceModel) bool { return true }
	Split    Predicate = (*model.DeviceModel).IsSplit
	NonSplit Predicate = func(m *model.DeviceModel) bool { return !m.IsSplit() }
	// HasMemoryX holds for chips linked with a memory.x script.
	HasMemoryX Predicate = func(m *model.DeviceModel) bool { return m.Chip.MemoryX }
	// HasUF2 holds for chips flashed by UF2 bootloader.
	HasUF2 Predicate = func(m *model.DeviceModel) bool { return m.Chip.UF2 && m.Chip.UF2FamilyID != 0 }
	// UsesBLE holds when the host link or the split link is BLE.
	UsesBLE Predicate = usesBLE
)

// All holds when every predicate holds.
func All(ps ...Predicate) Predicate {
	return func(m *model.DeviceModel) bool {
		for _, p := range ps {
			if !p(m) {
				return false
			}
		}

		return true
	}
}

func usesBLE(m *model.DeviceModel) bool {
	return m.Interface == model.InterfaceBLE || (m.Split != nil && m.Split.Connection == model.InterfaceBLE)
}

// TemplateFile is one selected template with its target path resolved.
type TemplateFile struct {
	ID string
	// Path is relative to the project root.
	Path    string
	Include Predicate
	// Render produces the file content for a model.
	Render func(*model.DeviceModel) ([]byte, error)

	check func([]byte) error
}

// fileSpec declares a template before its path is resolved.
type fileSpec struct {
	id string
	// path is itself a template ("src/peripheral{{ .Suffix }}.rs").
	path string
	// tmpl names the text template. Empty when build is set.
	tmpl    string
	build   func(*renderData) ([]byte, error)
	include Predicate
	// perPeer expands the spec once for every split peripheral.
	perPeer bool
	check   func([]byte) error
}

// SetKey selects a template set.
type SetKey struct {
	Family   chip.Family
	Topology model.Topology
}

func (k SetKey) String() string { return string(k.Family) + "/" + k.Topology.String() }

// KeyFor returns the set key of m.
func KeyFor(m *model.DeviceModel) SetKey {
	return SetKey{Family: m.Chip.Family, Topology: m.Topology}
}

var commonSpecs = []fileSpec{
	{id: "cargo", path: "Cargo.toml", tmpl: "Cargo.toml.tmpl", include: Always, check: checkTOML},
	{id: "build", path: "build.rs", tmpl: "build.rs.tmpl", include: Always},
	{id: "readme", path: "README.md", tmpl: "README.md.tmpl", include: Always},
	{id: "keyboard", path: "keyboard.toml", tmpl: "keyboard.toml.tmpl", include: Always, check: checkTOML},
	{id: "vial", path: "vial.json", build: buildVial, include: Always, check: checkJSON},
	{id: "keymap", path: "src/keymap.rs", tmpl: "keymap.rs.tmpl", include: Always},
	{id: "cargo-config", path: ".cargo/config.toml", tmpl: "cargo_config.toml.tmpl", include: Always, check: checkTOML},
	{id: "makefile", path: "Makefile.toml", tmpl: "Makefile.toml.tmpl", include: HasUF2, check: checkTOML},
	{id: "ble", path: "src/ble.rs", tmpl: "ble.rs.tmpl", include: UsesBLE},
	{id: "toolchain", path: "rust-toolchain.toml", tmpl: "rust-toolchain.toml.tmpl", include: Always, check: checkTOML},
}

var memoryX = fileSpec{id: "memory", path: "memory.x", tmpl: "memory.x.tmpl", include: HasMemoryX}

var familySpecs = map[chip.Family][]fileSpec{
	chip.FamilyNRF52:  {memoryX},
	chip.FamilyRP2040: {memoryX},
	chip.FamilySTM32:  {memoryX},
	chip.FamilyESP32:  nil,
}

var topologySpecs = map[model.Topology][]fileSpec{
	model.TopologyNonSplit: {
		{id: "main", path: "src/main.rs", tmpl: "main.rs.tmpl", include: NonSplit},
	},
	model.TopologySplit: {
		{id: "central", path: "src/central.rs", tmpl: "central.rs.tmpl", include: Split},
		{id: "peripheral", path: "src/peripheral{{ .Suffix }}.rs", tmpl: "peripheral.rs.tmpl", include: Split, perPeer: true},
	},
}

// setFor returns the specs of one set: common files, then family files,
// then topology files.
func setFor(key SetKey) []fileSpec {
	out := slices.Clone(commonSpecs)
	out = append(out, familySpecs[key.Family]...)

	return append(out, topologySpecs[key.Topology]...)
}

// SetIDs lists the template ids of a set in declaration order.
func SetIDs(key SetKey) []string {
	specs := setFor(key)
	ids := make([]string, len(specs))

	for i, s := range specs {
		ids[i] = s.id
	}

	return ids
}

// SelectTemplates returns the templates of m's set whose predicate holds,
// ordered by path then id.
func (e *Engine) SelectTemplates(m *model.DeviceModel) ([]TemplateFile, error) {
	key := KeyFor(m)

	var out []TemplateFile

	for _, spec := range setFor(key) {
		if !spec.include(m) {
			e.logger.Debug("template excluded", "template", spec.id, "set", key.String())
			continue
		}

		if !spec.perPeer {
			tf, err := e.bind(spec, m, nil)
			if err != nil {
				return nil, err
			}

			out = append(out, tf)

			continue
		}

		for _, peer := range m.Split.Peripherals {
			tf, err := e.bind(spec, m, peer)
			if err != nil {
				return nil, err
			}

			out = append(out, tf)
		}
	}

	sortTemplates(out)

	return out, nil
}

// bind resolves the path of spec and closes its renderer over peer.
func (e *Engine) bind(spec fileSpec, m *model.DeviceModel, peer *model.Half) (TemplateFile, error) {
	id := spec.id
	if peer != nil {
		id = spec.id + strconv.Itoa(peer.Index)
	}

	path, err := resolvePath(spec.path, e.data(m, peer))
	if err != nil {
		return TemplateFile{}, &errs.RenderError{Template: id, Path: spec.path, Err: err}
	}

	return TemplateFile{
		ID:      id,
		Path:    path,
		Include: spec.include,
		Render: func(m *model.DeviceModel) ([]byte, error) {
			data := e.data(m, peer)
			if spec.build != nil {
				return spec.build(data)
			}

			var buf bytes.Buffer
			if err := tree.ExecuteTemplate(&buf, spec.tmpl, data); err != nil {
				return nil, err
			}

			return buf.Bytes(), nil
		},
		check: spec.check,
	}, nil
}

func resolvePath(path string, data *renderData) (string, error) {
	if !strings.Contains(path, "{{") {
		return path, nil
	}

	t, err := template.New("path").Option("missingkey=error").Parse(path)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

// bin is one [[bin]] target of Cargo.toml.
type bin struct {
	Name string
	Path string
}

// cargo is the rmk dependency line of Cargo.toml.
type cargo struct {
	// NoDefaultFeatures renders default-features = false. Features then
	// lists every enabled feature, defaults included.
	NoDefaultFeatures bool
	Features          []string
	Bins              []bin
}

// renderData is the value templates execute against.
type renderData struct {
	Model  *model.DeviceModel
	Chip   chip.Info
	Config Config
	Cargo  cargo
	Defmt  bool
	BLE    bool
	// Peer and Suffix are set for per-peripheral files.
	Peer   *model.Half
	Suffix string
}

func (e *Engine) data(m *model.DeviceModel, peer *model.Half) *renderData {
	d := &renderData{
		Model:  m,
		Chip:   m.Chip,
		Config: e.config,
		Cargo:  cargoFor(m),
		Defmt:  m.HasFeature(normalize.FeatureDefmt),
		BLE:    usesBLE(m),
		Peer:   peer,
	}

	if peer != nil {
		d.Suffix = peerSuffix(m, peer)
	}

	return d
}

// peerSuffix is empty for a single peripheral and its index otherwise.
func peerSuffix(m *model.DeviceModel, peer *model.Half) string {
	if m.PeerCount() == 1 {
		return ""
	}

	return strconv.Itoa(peer.Index)
}

func cargoFor(m *model.DeviceModel) cargo {
	c := cargo{NoDefaultFeatures: len(m.DisabledDefaults) > 0}

	for _, f := range m.Features {
		if c.NoDefaultFeatures || !slices.Contains(normalize.DefaultFeatures, f) {
			c.Features = append(c.Features, f)
		}
	}

	slices.Sort(c.Features)

	if !m.IsSplit() {
		c.Bins = []bin{{Name: m.ProjectName, Path: "src/main.rs"}}
		return c
	}

	c.Bins = []bin{{Name: "central", Path: "src/central.rs"}}
	for _, p := range m.Split.Peripherals {
		suffix := peerSuffix(m, p)
		c.Bins = append(c.Bins, bin{Name: "peripheral" + suffix, Path: fmt.Sprintf("src/peripheral%s.rs", suffix)})
	}

	return c
}
