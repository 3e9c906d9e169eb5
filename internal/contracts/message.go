// Package contracts holds the shared data types passed between the
// balancer, dispatcher, agent and analysis components.
package contracts

import (
	"sync"
	"time"
)

// MsgType distinguishes the envelopes agents and dispatchers exchange.
type MsgType string

const (
	MsgRequest MsgType = "request"
	MsgEvent   MsgType = "event"
	MsgFlush   MsgType = "flush"
)

// ActionTiming is a single breadcrumb recorded when a message is handed
// off between components (send/recv/run).
type ActionTiming struct {
	Action    string    `json:"action_name"`
	Timestamp time.Time `json:"timestamp"`
}

// Message is the envelope that flows agent -> dispatcher -> balancer ->
// dispatcher -> agent. It is not safe to share a Message across
// goroutines without going through its methods.
type Message struct {
	mu sync.Mutex

	ID          int64                  `json:"id"`
	ServiceName string                 `json:"service_name"`
	Type        MsgType                `json:"msg_type"`
	Payload     map[string]interface{} `json:"payload,omitempty"`

	ActionTiming []ActionTiming `json:"action_timing"`

	StartTime      time.Time `json:"start_time,omitempty"`
	EndTime        time.Time `json:"end_time,omitempty"`
	StartTimestamp float64   `json:"start_timestamp,omitempty"`
}

// NewMessage builds an empty envelope for the given service/type.
func NewMessage(id int64, serviceName string, msgType MsgType) *Message {
	return &Message{
		ID:          id,
		ServiceName: serviceName,
		Type:        msgType,
	}
}

// AddActionTiming appends a timestamped breadcrumb. Safe for concurrent use.
func (m *Message) AddActionTiming(action string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ActionTiming = append(m.ActionTiming, ActionTiming{Action: action, Timestamp: time.Now()})
}

// ActionTimings returns a copy of the recorded breadcrumbs.
func (m *Message) ActionTimings() []ActionTiming {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]ActionTiming, len(m.ActionTiming))
	copy(out, m.ActionTiming)
	return out
}

// SetPayload stores the caller's origin data, replacing whatever was there.
func (m *Message) SetPayload(data map[string]interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Payload = data
}

// GetPayload returns the stored origin data.
func (m *Message) GetPayload() map[string]interface{} {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Payload
}

// SetStartTime marks the wall-clock moment work began on this message.
func (m *Message) SetStartTime() {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	m.StartTime = now
	m.StartTimestamp = float64(now.UnixNano()) / 1e9
}

// SetEndTime marks completion.
func (m *Message) SetEndTime() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.EndTime = time.Now()
}

// DurationSeconds reports elapsed time between start and end, and whether
// both were actually set.
func (m *Message) DurationSeconds() (float64, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.StartTime.IsZero() || m.EndTime.IsZero() {
		return 0, false
	}
	return m.EndTime.Sub(m.StartTime).Seconds(), true
}

// Clone returns a copy with its own mutex and its own ActionTiming
// slice; the Payload map is not copied and is shared with m.
func (m *Message) Clone() *Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := &Message{
		ID:             m.ID,
		ServiceName:    m.ServiceName,
		Type:           m.Type,
		Payload:        m.Payload,
		StartTime:      m.StartTime,
		EndTime:        m.EndTime,
		StartTimestamp: m.StartTimestamp,
	}
	c.ActionTiming = make([]ActionTiming, len(m.ActionTiming))
	copy(c.ActionTiming, m.ActionTiming)
	return c
}
