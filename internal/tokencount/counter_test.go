package tokencount

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountTokensWhitespace(t *testing.T) {
	c := NewCounter(map[string]string{"Writer": "some-model"}, nil)
	n, err := c.CountTokens("Writer", "the quick brown fox")
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}

func TestCountTokensUnknownAgent(t *testing.T) {
	c := NewCounter(map[string]string{}, nil)
	_, err := c.CountTokens("Ghost", "hello")
	assert.Error(t, err)
}

func TestUsageRecorderWritesRow(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tokens.csv")
	r, err := NewUsageRecorder(path)
	require.NoError(t, err)
	defer r.Close()

	require.NoError(t, r.Record(1, "Writer", 10, 20, 5))
}
