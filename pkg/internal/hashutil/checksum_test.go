package hashutil

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSHA1Writer(t *testing.T) {
	var buf bytes.Buffer
	w := NewSHA1Writer(&buf)

	_, err := w.Write([]byte("Hello, "))
	require.NoError(t, err)
	_, err = w.Write([]byte("World!"))
	require.NoError(t, err)

	assert.Equal(t, "Hello, World!", buf.String())
	// sha1("Hello, World!")
	assert.Equal(t, "0a0a9f2a6772942557ab5355d76af442f8f65e01", w.Sum())
}

func TestMatches(t *testing.T) {
	assert.True(t, Matches("", "anything"))
	assert.True(t, Matches("ABCDEF", "abcdef"))
	assert.False(t, Matches("abc", "def"))
}
