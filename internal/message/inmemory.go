package message

import (
	"context"
	"fmt"
	"sync"

	"github.com/Pranshu258/OpenPrequal/internal/contracts"
)

// busRegistry is the shared set of topic channels an InMemoryHandler set
// publishes/consumes from, so that multiple handlers in the same process
// (goroutine process model) can address each other by target name.
type busRegistry struct {
	mu     sync.Mutex
	topics map[string]chan *contracts.Message
}

func newBusRegistry() *busRegistry {
	return &busRegistry{topics: make(map[string]chan *contracts.Message)}
}

func (b *busRegistry) topic(name string) chan *contracts.Message {
	b.mu.Lock()
	defer b.mu.Unlock()
	ch, ok := b.topics[name]
	if !ok {
		ch = make(chan *contracts.Message, 256)
		b.topics[name] = ch
	}
	return ch
}

// Bus is a process-local message fabric, used for the in-process
// goroutine deployment mode where a broker would be overkill.
type Bus struct {
	reg *busRegistry
}

// NewBus creates a fresh in-memory fabric shared by every handler built
// from it via NewHandler.
func NewBus() *Bus {
	return &Bus{reg: newBusRegistry()}
}

// NewHandler returns a Handler that consumes ownTarget's channel.
func (b *Bus) NewHandler(ownTarget string) *InMemoryHandler {
	return &InMemoryHandler{
		reg: b.reg,
		own: ChannelFromTarget(ownTarget),
	}
}

// InMemoryHandler implements Handler over Go channels, for tests and the
// single-process deployment mode. Ordering is total within a channel.
type InMemoryHandler struct {
	reg *busRegistry
	own string
}

func (h *InMemoryHandler) AddTargetMapping(target string)       {}
func (h *InMemoryHandler) AddTargetMappings(targets []string)    {}

func (h *InMemoryHandler) Send(ctx context.Context, msg *contracts.Message, target string) error {
	msg.AddActionTiming(fmt.Sprintf("send to %s", target))
	msg.AddActionTiming(fmt.Sprintf("start_send to %s", target))
	ch := h.reg.topic(ChannelFromTarget(target))
	select {
	case ch <- msg:
		msg.AddActionTiming(fmt.Sprintf("end_send to %s", target))
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Recv drains whatever is currently buffered on this handler's channel
// without blocking for new arrivals.
func (h *InMemoryHandler) Recv(ctx context.Context) ([]*contracts.Message, error) {
	ch := h.reg.topic(h.own)
	var out []*contracts.Message
	for {
		select {
		case msg := <-ch:
			msg.AddActionTiming("recv")
			out = append(out, msg)
		default:
			return out, nil
		}
	}
}

func (h *InMemoryHandler) Close() error { return nil }
