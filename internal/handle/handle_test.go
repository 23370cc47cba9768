package handle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIsUnique(t *testing.T) {
	seen := make(map[Handle]bool)
	for i := 0; i < 1000; i++ {
		h := New()
		require.False(t, seen[h], "handle reused")
		seen[h] = true
		assert.False(t, h.IsNull())
	}
}

func TestParseRoundTrip(t *testing.T) {
	h := New()

	parsed, err := Parse(h.String())
	require.NoError(t, err)
	assert.Equal(t, h, parsed)

	_, err = Parse("not-a-handle")
	assert.Error(t, err)
}
