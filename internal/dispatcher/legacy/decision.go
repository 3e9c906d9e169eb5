// Package legacy ports the original per-replica RequestDispatcher: a
// decision model picks which replica channel of an agent a request goes
// to, independent of the balancer's memory-aware placement. It's kept as
// a supported routing mode for deployments that run several replicas of
// one agent and don't need memory-aware admission in front of them (e.g.
// a stateless Router agent with no backing LLM).
package legacy

import (
	"context"
	"log"
	"time"

	"github.com/Pranshu258/OpenPrequal/internal/contracts"
	"github.com/Pranshu258/OpenPrequal/internal/message"
)

// ReplicaStatus mirrors AgentReplicaStatus: a replica is either free to
// take work or already busy with a request.
type ReplicaStatus int

const (
	ReplicaReady ReplicaStatus = iota
	ReplicaBusy
)

// DecisionModel picks an index into replicaStatus for the next request
// in buffer, matching BaseDecisionModel.decide's signature.
type DecisionModel interface {
	Decide(replicaStatus []ReplicaStatus) int
}

// RequestDispatcher fans requests for one agent out across its replicas
// using a DecisionModel, the Go analogue of RequestDispatcher +
// AgentReplicaQueue.
type RequestDispatcher struct {
	agentName string
	handler   message.Handler
	decision  DecisionModel
	logger    *log.Logger

	replicaTargets []string
	status         []ReplicaStatus

	buffer chan *contracts.Message
}

// NewRequestDispatcher builds a dispatcher fanning out to the given
// replica target names (each gets its own topic).
func NewRequestDispatcher(agentName string, handler message.Handler, replicaTargets []string, decision DecisionModel, logger *log.Logger) *RequestDispatcher {
	for _, t := range replicaTargets {
		handler.AddTargetMapping(t)
	}
	return &RequestDispatcher{
		agentName:      agentName,
		handler:        handler,
		decision:       decision,
		logger:         logger,
		replicaTargets: replicaTargets,
		status:         make([]ReplicaStatus, len(replicaTargets)),
		buffer:         make(chan *contracts.Message, 256),
	}
}

// MarkReady flips a replica back to ready, e.g. once it reports done.
func (d *RequestDispatcher) MarkReady(index int) {
	if index >= 0 && index < len(d.status) {
		d.status[index] = ReplicaReady
	}
}

// Receive enqueues an inbound request for dispatch.
func (d *RequestDispatcher) Receive(msg *contracts.Message) {
	d.buffer <- msg
}

// Run drains the buffer, picks a replica via DecisionModel and forwards,
// polling ticker-style like the original's process_buffer loop.
func (d *RequestDispatcher) Run(ctx context.Context, tick time.Duration) {
	ticker := time.NewTicker(tick)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			select {
			case msg := <-d.buffer:
				d.dispatchOne(ctx, msg)
			default:
			}
		}
	}
}

func (d *RequestDispatcher) dispatchOne(ctx context.Context, msg *contracts.Message) {
	idx := d.decision.Decide(d.status)
	if idx < 0 || idx >= len(d.replicaTargets) {
		d.logf("legacy dispatcher %s: decision model returned invalid index %d", d.agentName, idx)
		return
	}
	target := d.replicaTargets[idx]
	if err := d.handler.Send(ctx, msg, target); err != nil {
		d.logf("legacy dispatcher %s: send to %s failed: %v", d.agentName, target, err)
		return
	}
	d.status[idx] = ReplicaBusy
}

func (d *RequestDispatcher) logf(format string, args ...interface{}) {
	if d.logger != nil {
		d.logger.Printf(format, args...)
	}
}
