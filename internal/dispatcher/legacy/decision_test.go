package legacy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundRobinCycles(t *testing.T) {
	rr := &RoundRobin{}
	status := make([]ReplicaStatus, 3)
	assert.Equal(t, 0, rr.Decide(status))
	assert.Equal(t, 1, rr.Decide(status))
	assert.Equal(t, 2, rr.Decide(status))
	assert.Equal(t, 0, rr.Decide(status))
}

func TestLeastBusyPrefersReady(t *testing.T) {
	status := []ReplicaStatus{ReplicaBusy, ReplicaReady, ReplicaBusy}
	lb := LeastBusy{}
	assert.Equal(t, 1, lb.Decide(status))
}

func TestRandomDecideWithinRange(t *testing.T) {
	status := make([]ReplicaStatus, 4)
	r := Random{}
	idx := r.Decide(status)
	assert.GreaterOrEqual(t, idx, 0)
	assert.Less(t, idx, 4)
}

func TestDecideEmptyReturnsNegativeOne(t *testing.T) {
	assert.Equal(t, -1, (&RoundRobin{}).Decide(nil))
	assert.Equal(t, -1, Random{}.Decide(nil))
	assert.Equal(t, -1, LeastBusy{}.Decide(nil))
	assert.Equal(t, -1, PowerOfTwoLeastBusy{}.Decide(nil))
}
