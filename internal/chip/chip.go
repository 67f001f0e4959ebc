// Package chip holds the catalog of supported microcontrollers and the
// boards that carry them.
package chip

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"rmkit/internal/match"
)

//go:embed chips.yaml
var defaultCatalogYAML []byte

// Family groups chips that share a HAL crate and a template set.
type Family string

const (
	FamilyNRF52  Family = "nrf52"
	FamilyRP2040 Family = "rp2040"
	FamilySTM32  Family = "stm32"
	FamilyESP32  Family = "esp32"
)

// Region is one memory.x entry. Length keeps the linker notation ("256K").
type Region struct {
	Origin uint32 `yaml:"origin"`
	Length string `yaml:"length"`
}

// FamilyInfo is the per-family part of the catalog.
type FamilyInfo struct {
	HALCrate   string `yaml:"hal_crate"`
	BLEFeature string `yaml:"ble_feature"`
	UF2        bool   `yaml:"uf2"`
	MemoryX    bool   `yaml:"memory_x"`
}

// Info describes one supported chip.
type Info struct {
	Name         string `yaml:"name"`
	Family       Family `yaml:"family"`
	Target       string `yaml:"target"`
	ProbeName    string `yaml:"probe"`
	UF2FamilyID  uint32 `yaml:"uf2_family_id"`
	SplitSupport bool   `yaml:"split"`
	BLE          bool   `yaml:"ble"`
	Flash        Region `yaml:"flash"`
	RAM          Region `yaml:"ram"`

	FamilyInfo `yaml:"-"`
}

// UF2Key is the name the template Makefile uses to pick the UF2 family id.
// STM32 parts share one id per series, so the key is the series prefix.
func (i Info) UF2Key() string {
	if i.Family == FamilySTM32 && len(i.Name) > 7 {
		return i.Name[:7]
	}

	return i.Name
}

// RemoteFolder is the folder name of this chip in the template repository.
func (i Info) RemoteFolder(split bool) string {
	if split {
		return i.Name + "_split"
	}

	return i.Name
}

type catalogFile struct {
	Families map[Family]FamilyInfo `yaml:"families"`
	Chips    []Info                `yaml:"chips"`
	Boards   map[string]string     `yaml:"boards"`
}

// Catalog indexes chips and boards by name.
type Catalog struct {
	chips  []Info
	byName map[string]int
	boards map[string]string
	// board display names keyed by normalized name
	boardNames map[string]string
}

// Parse builds a catalog from its YAML form.
func Parse(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse chip catalog: %w", err)
	}

	c := &Catalog{
		byName:     make(map[string]int, len(f.Chips)),
		boards:     make(map[string]string, len(f.Boards)),
		boardNames: make(map[string]string, len(f.Boards)),
	}

	for _, info := range f.Chips {
		fam, ok := f.Families[info.Family]
		if !ok {
			return nil, fmt.Errorf("chip %q: unknown family %q", info.Name, info.Family)
		}

		key := strings.ToLower(info.Name)
		if _, dup := c.byName[key]; dup {
			return nil, fmt.Errorf("chip %q listed twice", info.Name)
		}

		info.FamilyInfo = fam
		c.byName[key] = len(c.chips)
		c.chips = append(c.chips, info)
	}

	for board, chipName := range f.Boards {
		if _, ok := c.byName[strings.ToLower(chipName)]; !ok {
			return nil, fmt.Errorf("board %q: unknown chip %q", board, chipName)
		}

		norm := match.NormalizeName(board)
		c.boards[norm] = strings.ToLower(chipName)
		c.boardNames[norm] = board
	}

	return c, nil
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the built-in catalog. It panics if the embedded YAML is
// malformed, which the package tests rule out.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := Parse(defaultCatalogYAML)
		if err != nil {
			panic(err)
		}

		defaultCatalog = c
	})

	return defaultCatalog
}

// Lookup finds a chip by name, ignoring case.
func (c *Catalog) Lookup(name string) (Info, bool) {
	idx, ok := c.byName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Info{}, false
	}

	return c.chips[idx], true
}

// Board resolves a board name to its chip. Punctuation and case are
// ignored, so "nice!nano" and "nice-nano" are the same board.
func (c *Catalog) Board(name string) (Info, bool) {
	chipName, ok := c.boards[match.NormalizeName(name)]
	if !ok {
		return Info{}, false
	}

	return c.Lookup(chipName)
}

// Chips returns all chips in catalog order.
func (c *Catalog) Chips() []Info {
	out := make([]Info, len(c.chips))
	copy(out, c.chips)

	return out
}

// Names returns the chip names in catalog order.
func (c *Catalog) Names() []string {
	out := make([]string, len(c.chips))
	for i, info := range c.chips {
		out[i] = info.Name
	}

	return out
}

// SplitNames returns the chips that can drive a split keyboard.
func (c *Catalog) SplitNames() []string {
	var out []string

	for _, info := range c.chips {
		if info.SplitSupport {
			out = append(out, info.Name)
		}
	}

	return out
}

// BoardNames returns board names sorted alphabetically.
func (c *Catalog) BoardNames() []string {
	out := make([]string, 0, len(c.boardNames))
	for _, name := range c.boardNames {
		out = append(out, name)
	}

	sort.Strings(out)

	return out
}
