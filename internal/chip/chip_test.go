package chip

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	c := Default()

	tests := []struct {
		name   string
		family Family
		id     uint32
		split  bool
		ble    bool
		uf2Key string
	}{
		{"nrf52840", FamilyNRF52, 0xada52840, true, true, "nrf52840"},
		{"nrf52832", FamilyNRF52, 0x72721d4e, false, true, "nrf52832"},
		{"rp2040", FamilyRP2040, 0xe48bff56, true, false, "rp2040"},
		{"stm32f411ce", FamilySTM32, 0x57755a57, false, false, "stm32f4"},
		{"stm32h743zi", FamilySTM32, 0x6db66082, false, false, "stm32h7"},
		{"esp32c3", FamilyESP32, 0xd42ba06c, false, true, "esp32c3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, ok := c.Lookup(tt.name)
			require.True(t, ok)
			assert.Equal(t, tt.family, info.Family)
			assert.Equal(t, tt.id, info.UF2FamilyID)
			assert.Equal(t, tt.split, info.SplitSupport)
			assert.Equal(t, tt.ble, info.BLE)
			assert.Equal(t, tt.uf2Key, info.UF2Key())
			assert.NotEmpty(t, info.HALCrate)
			assert.NotEmpty(t, info.Target)
		})
	}
}

func TestLookupIgnoresCase(t *testing.T) {
	info, ok := Default().Lookup("NRF52840")
	require.True(t, ok)
	assert.Equal(t, "nrf52840", info.Name)

	_, ok = Default().Lookup("atmega32u4")
	assert.False(t, ok)
}

func TestBoard(t *testing.T) {
	c := Default()

	for _, name := range []string{"nice!nano", "nice-nano", "Nice Nano", "nice!nano_v2", "xiao_ble"} {
		t.Run(name, func(t *testing.T) {
			info, ok := c.Board(name)
			require.True(t, ok)
			assert.Equal(t, "nrf52840", info.Name)
		})
	}

	info, ok := c.Board("liatris")
	require.True(t, ok)
	assert.Equal(t, "rp2040", info.Name)

	_, ok = c.Board("pro_micro")
	assert.False(t, ok)
}

func TestRemoteFolder(t *testing.T) {
	info, _ := Default().Lookup("rp2040")
	assert.Equal(t, "rp2040", info.RemoteFolder(false))
	assert.Equal(t, "rp2040_split", info.RemoteFolder(true))
}

func TestSplitNames(t *testing.T) {
	assert.ElementsMatch(t, []string{"nrf52840", "rp2040"}, Default().SplitNames())
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{
			name: "unknown family",
			yaml: "families: {}\nchips:\n  - name: x\n    family: avr\n",
			want: `unknown family "avr"`,
		},
		{
			name: "board on unknown chip",
			yaml: "families: {nrf52: {}}\nchips:\n  - name: nrf52840\n    family: nrf52\nboards:\n  foo: bar\n",
			want: `unknown chip "bar"`,
		},
		{
			name: "duplicate",
			yaml: "families: {nrf52: {}}\nchips:\n  - {name: a, family: nrf52}\n  - {name: A, family: nrf52}\n",
			want: "listed twice",
		},
		{
			name: "malformed",
			yaml: "chips: [",
			want: "failed to parse chip catalog",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
