package perceptor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagerTryAddPicksLeastPeakBackend(t *testing.T) {
	m := NewManager()
	tables := smallTables()

	busy := New("busy", tables, 100*time.Millisecond, nil, nil)
	_, ok := busy.TryAdd(999, 500, 200*time.Millisecond)
	require.True(t, ok)

	quiet := New("quiet", tables, 100*time.Millisecond, nil, nil)

	m.Register("busy", busy, nil)
	m.Register("quiet", quiet, nil)

	chosen, ok := m.TryAdd([]string{"busy", "quiet"}, 1, 50, 200*time.Millisecond)
	require.True(t, ok)
	assert.Equal(t, "quiet", chosen)

	busy.mu.Lock()
	_, stillThere := busy.msgMap[1]
	busy.mu.Unlock()
	assert.False(t, stillThere, "non-chosen backend's tentative admission must be rolled back")
}

func TestManagerTryAddNoCandidatesReturnsFalse(t *testing.T) {
	m := NewManager()
	_, ok := m.TryAdd(nil, 1, 50, time.Second)
	assert.False(t, ok)
}

func TestManagerTryAddAllOverBudgetReturnsFalse(t *testing.T) {
	m := NewManager()
	tables := smallTables()
	tables.MaxTokens = 10
	p := New("only", tables, 100*time.Millisecond, nil, nil)
	m.Register("only", p, nil)

	_, ok := m.TryAdd([]string{"only"}, 1, 500, time.Second)
	assert.False(t, ok)
}
