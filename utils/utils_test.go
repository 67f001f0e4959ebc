package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsInRange(t *testing.T) {
	assert.True(t, IsInRange(1, 1, 32))
	assert.True(t, IsInRange(1, 32, 32))
	assert.False(t, IsInRange(1, 0, 32))
	assert.False(t, IsInRange(1, 33, 32))
	assert.True(t, IsInRange(0.5, 0.75, 1.0))
}

func TestUnpack2(t *testing.T) {
	a, b := Unpack2([]int{3, 4, 5})
	assert.Equal(t, 3, a)
	assert.Equal(t, 4, b)

	a, b = Unpack2([]int{7})
	assert.Equal(t, 7, a)
	assert.Zero(t, b)

	a, b = Unpack2([]int(nil))
	assert.Zero(t, a)
	assert.Zero(t, b)
}
