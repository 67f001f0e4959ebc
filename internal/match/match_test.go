package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"kitten", "sitting", 3},
		{"nrf52840", "nrf52833", 2},
		{"rp2040", "rp2040", 0},
		{"stm32f411ce", "stm32f401cc", 2},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.want, Levenshtein(tt.a, tt.b))
			assert.Equal(t, tt.want, Levenshtein(tt.b, tt.a))
		})
	}
}

func TestSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, Similarity("", ""), 1e-9)
	assert.InDelta(t, 1.0, Similarity("abc", "abc"), 1e-9)
	assert.InDelta(t, 0.0, Similarity("abc", "xyz"), 1e-9)
	assert.InDelta(t, 0.75, Similarity("nrf52840", "nrf52833"), 1e-9)
}

func TestNormalizeName(t *testing.T) {
	tests := map[string]string{
		"nice!nano_v2": "nicenanov2",
		"Nice-Nano V2": "nicenanov2",
		"NRF52840":     "nrf52840",
		"":             "",
	}

	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, NormalizeName(in))
		})
	}
}

func TestSuggest(t *testing.T) {
	names := []string{"nrf52840", "nrf52833", "nrf52832", "rp2040", "stm32f401cc", "stm32f411ce", "esp32c3"}

	t.Run("typo", func(t *testing.T) {
		got := Suggest("nrf52480", names, 3)
		assert.Len(t, got, 3)
		assert.Equal(t, "nrf52840", got[0])
	})

	t.Run("prefix", func(t *testing.T) {
		got := Suggest("stm32f4", names, 3)
		assert.Subset(t, got, []string{"stm32f401cc", "stm32f411ce"})
	})

	t.Run("nothing close", func(t *testing.T) {
		assert.Empty(t, Suggest("atmega32u4", names, 3))
	})

	t.Run("limit", func(t *testing.T) {
		assert.Len(t, Suggest("nrf528", names, 2), 2)
	})
}
