package queue

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pranshu258/OpenPrequal/internal/contracts"
)

func req(id int64, priority int, offset time.Duration) *contracts.AdmissionRequest {
	r := contracts.NewAdmissionRequest(id, "agent", 10, priority, time.Second)
	r.StartTime = time.Now().Add(offset)
	return r
}

func TestSortPriorityOrdersByPriorityThenStartTime(t *testing.T) {
	q := New()
	q.Append(req(1, 2, 0))
	q.Append(req(2, 0, 2*time.Millisecond))
	q.Append(req(3, 0, time.Millisecond))

	q.SortPriority()

	first, ok := q.PeekFront()
	require.True(t, ok)
	assert.Equal(t, int64(3), first.MsgID)
}

func TestPopLeftEmpty(t *testing.T) {
	q := New()
	_, ok := q.PopLeft()
	assert.False(t, ok)
}

func TestAppendAndLen(t *testing.T) {
	q := New()
	assert.True(t, q.Empty())
	q.Append(req(1, 1, 0))
	assert.Equal(t, 1, q.Len())
}
