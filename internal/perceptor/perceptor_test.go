package perceptor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pranshu258/OpenPrequal/internal/config"
)

func smallTables() *config.Tables {
	return &config.Tables{
		MaxTokens:   1000,
		DecodeSlope: 10,
		BiasFactor:  1,
	}
}

func TestTryAddAdmitsWithinBudget(t *testing.T) {
	p := New("backend-1", smallTables(), 100*time.Millisecond, nil, nil)
	pred, ok := p.TryAdd(1, 50, 200*time.Millisecond)
	require.True(t, ok)
	assert.Greater(t, pred, 0.0)
}

func TestTryAddRejectsOverBudgetAndDoesNotCommit(t *testing.T) {
	tables := smallTables()
	tables.MaxTokens = 60
	p := New("backend-1", tables, 100*time.Millisecond, nil, nil)

	_, ok := p.TryAdd(1, 100, 200*time.Millisecond)
	assert.False(t, ok)

	p.mu.Lock()
	empty := len(p.msgMap) == 0 && len(p.intervals) == 0
	p.mu.Unlock()
	assert.True(t, empty, "rejected admission must leave no trace")
}

func TestRemoveFreesReservation(t *testing.T) {
	p := New("backend-1", smallTables(), 100*time.Millisecond, nil, nil)
	_, ok := p.TryAdd(1, 50, 200*time.Millisecond)
	require.True(t, ok)

	p.Remove(1)

	p.mu.Lock()
	_, stillPresent := p.msgMap[1]
	remaining := len(p.intervals)
	p.mu.Unlock()
	assert.False(t, stillPresent)
	assert.Zero(t, remaining)
}

func TestTryAddSecondRequestIncreasesProjectedPeak(t *testing.T) {
	p := New("backend-1", smallTables(), 100*time.Millisecond, nil, nil)
	first, ok := p.TryAdd(1, 50, 200*time.Millisecond)
	require.True(t, ok)
	second, ok := p.TryAdd(2, 50, 200*time.Millisecond)
	require.True(t, ok)
	assert.Greater(t, second, first)
}
