package code

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_Format(t *testing.T) {
	c, err := Generate()
	require.NoError(t, err)

	assert.Len(t, c, length)
	for _, r := range c {
		assert.True(t, strings.ContainsRune(alphabet, r), "unexpected character %q", r)
	}
}

func TestGenerate_Uniqueness(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		c, err := Generate()
		require.NoError(t, err)
		assert.False(t, seen[c], "duplicate code %s", c)
		seen[c] = true
	}
}
