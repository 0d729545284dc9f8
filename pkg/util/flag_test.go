package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyFlagSet(t *testing.T) {
	testCases := []struct {
		input    string
		expected KeyFlag
	}{
		{"q", 'q'},
		{"Q", 'Q'},
		{"ctrl+q", 0x11},
		{"Ctrl-Q", 0x11},
		{"C-a", 0x01},
		{"^Z", 0x1a},
		{"^", '^'},
		{"27", 0x1b},
		{"0x11", 0x11},
	}
	for _, c := range testCases {
		var k KeyFlag
		assert.NoError(t, k.Set(c.input), c.input)
		assert.Equal(t, c.expected, k, c.input)
	}

	for _, bad := range []string{"", "ctrl+1", "256", "abc"} {
		var k KeyFlag
		assert.Error(t, k.Set(bad), bad)
	}
}

func TestKeyFlagString(t *testing.T) {
	testCases := [][2]string{
		{"ctrl+q", "ctrl+q"},
		{"x", "x"},
		{"27", "0x1b"},
		{"127", "0x7f"},
	}
	for _, c := range testCases {
		var k KeyFlag
		assert.NoError(t, k.Set(c[0]))
		assert.Equal(t, c[1], k.String())
	}
}
