// Package queue implements the balancer's waiting-request priority
// deque, the Go analogue of the original ThreadSafeDeque plus its
// sort_priority method.
package queue

import (
	"sort"
	"sync"

	"github.com/Pranshu258/OpenPrequal/internal/contracts"
)

// PriorityDeque is a lock-guarded, priority-sortable queue of pending
// admission requests. Lower Priority values are more urgent; ties break
// on earlier StartTime.
type PriorityDeque struct {
	mu    sync.Mutex
	items []*contracts.AdmissionRequest
}

// New returns an empty deque.
func New() *PriorityDeque {
	return &PriorityDeque{}
}

// Append adds a request to the back of the deque.
func (q *PriorityDeque) Append(r *contracts.AdmissionRequest) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, r)
}

// PeekFront returns the current head without removing it.
func (q *PriorityDeque) PeekFront() (*contracts.AdmissionRequest, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return nil, false
	}
	return q.items[0], true
}

// PopLeft removes and returns the head.
func (q *PriorityDeque) PopLeft() (*contracts.AdmissionRequest, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return nil, false
	}
	r := q.items[0]
	q.items = q.items[1:]
	return r, true
}

// Len reports the number of pending requests.
func (q *PriorityDeque) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Empty reports whether the deque has no pending requests.
func (q *PriorityDeque) Empty() bool {
	return q.Len() == 0
}

// SortPriority re-sorts the deque in place by (Priority asc, StartTime
// asc), mirroring sort_priority's key.
func (q *PriorityDeque) SortPriority() {
	q.mu.Lock()
	defer q.mu.Unlock()
	sort.SliceStable(q.items, func(i, j int) bool {
		a, b := q.items[i], q.items[j]
		if a.Priority != b.Priority {
			return a.Priority < b.Priority
		}
		return a.StartTime.Before(b.StartTime)
	})
}
