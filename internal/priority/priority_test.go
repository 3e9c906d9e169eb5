package priority

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pranshu258/OpenPrequal/internal/contracts"
)

func latencies(agent string, values ...float64) []contracts.LatencySample {
	out := make([]contracts.LatencySample, len(values))
	for i, v := range values {
		out[i] = contracts.LatencySample{Agent: agent, LatencySeconds: v}
	}
	return out
}

func TestRankOrdersClosestToIdealFirst(t *testing.T) {
	var samples []contracts.LatencySample
	samples = append(samples, latencies("Fast", 0.01, 0.02, 0.015, 0.012)...)
	samples = append(samples, latencies("Slow", 5.0, 5.2, 4.8, 5.1)...)

	ranked := Rank(samples)
	require.Len(t, ranked, 2)
	assert.Equal(t, "Fast", ranked[0])
	assert.Equal(t, "Slow", ranked[1])
}

func TestRankEmptyInput(t *testing.T) {
	assert.Nil(t, Rank(nil))
}

func TestWasserstein1DIdenticalDistributionsIsZero(t *testing.T) {
	a := []float64{1, 2, 3}
	b := []float64{1, 2, 3}
	assert.InDelta(t, 0, wasserstein1D(a, b), 1e-9)
}
