package perceptor

import (
	"sort"
	"sync"
	"time"

	"github.com/Pranshu258/OpenPrequal/internal/metrics"
)

// Manager places a request across a set of backends serving the same
// model: it tries TryAdd on every non-waiting replica, keeps whichever
// accepted with the smallest projected peak, and rolls back the rest.
type Manager struct {
	mu         sync.RWMutex
	perceptors map[string]*Perceptor
	pollers    map[string]*metrics.Poller
}

// NewManager returns an empty manager; backends are registered as they
// come online.
func NewManager() *Manager {
	return &Manager{
		perceptors: make(map[string]*Perceptor),
		pollers:    make(map[string]*metrics.Poller),
	}
}

// Register wires a backend's perceptor and telemetry poller into the
// manager so it becomes a placement candidate.
func (m *Manager) Register(url string, p *Perceptor, poller *metrics.Poller) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.perceptors[url] = p
	m.pollers[url] = poller
}

type candidate struct {
	url  string
	pred float64
}

// TryAdd attempts admission across all candidate URLs and returns the
// chosen backend, or ok=false if none could accept the request.
func (m *Manager) TryAdd(urls []string, msgID int64, promptTokens int, predictedTime time.Duration) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var admitted []candidate
	for _, url := range urls {
		poller, ok := m.pollers[url]
		if ok && poller != nil && poller.Waiting() {
			continue
		}
		p, ok := m.perceptors[url]
		if !ok {
			continue
		}
		pred, accepted := p.TryAdd(msgID, promptTokens, predictedTime)
		if accepted {
			admitted = append(admitted, candidate{url: url, pred: pred})
		}
	}

	if len(admitted) == 0 {
		return "", false
	}

	sort.SliceStable(admitted, func(i, j int) bool { return admitted[i].pred < admitted[j].pred })
	best := admitted[0]
	for _, c := range admitted[1:] {
		m.perceptors[c.url].Remove(msgID)
	}
	return best.url, true
}

// Remove releases msgID's reservation on the backend it was admitted to.
func (m *Manager) Remove(url string, msgID int64) {
	m.mu.RLock()
	p, ok := m.perceptors[url]
	m.mu.RUnlock()
	if ok {
		p.Remove(msgID)
	}
}
