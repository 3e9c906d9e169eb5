// Package dispatcher routes inbound requests to per-agent message
// topics. The v2 Dispatcher here forwards directly to an agent's own
// process (one goroutine/topic per agent, matching RequestDispatcherV2);
// the legacy subpackage keeps the earlier per-replica, decision-model
// routing style for single-process deployments that want to multiplex
// several replicas of one agent behind a dispatcher.
package dispatcher

import (
	"context"
	"log"
	"time"

	"github.com/Pranshu258/OpenPrequal/internal/contracts"
	"github.com/Pranshu258/OpenPrequal/internal/message"
)

// Dispatcher consumes messages addressed to one named target and relays
// each to its downstream agent's topic, recovering from a panicking
// worker rather than taking the whole process down.
type Dispatcher struct {
	Name    string
	Handler message.Handler
	Target  string
	Logger  *log.Logger
}

// New builds a dispatcher that reads from Handler's own topic and
// forwards request messages on to target.
func New(name string, handler message.Handler, target string, logger *log.Logger) *Dispatcher {
	handler.AddTargetMapping(target)
	return &Dispatcher{Name: name, Handler: handler, Target: target, Logger: logger}
}

// Run polls for inbound messages until ctx is cancelled.
func (d *Dispatcher) Run(ctx context.Context, pollInterval time.Duration) {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			msgs, err := d.Handler.Recv(ctx)
			if err != nil {
				d.logf("dispatcher %s: recv failed: %v", d.Name, err)
				continue
			}
			for _, msg := range msgs {
				if msg.Type != contracts.MsgRequest {
					continue
				}
				go d.forward(ctx, msg)
			}
		}
	}
}

func (d *Dispatcher) forward(ctx context.Context, msg *contracts.Message) {
	defer func() {
		if r := recover(); r != nil {
			d.logf("dispatcher %s: recovered panic forwarding msg %d: %v", d.Name, msg.ID, r)
		}
	}()
	if err := d.Handler.Send(ctx, msg, d.Target); err != nil {
		d.logf("dispatcher %s: forward to %s failed: %v", d.Name, d.Target, err)
	}
}

func (d *Dispatcher) logf(format string, args ...interface{}) {
	if d.Logger != nil {
		d.Logger.Printf(format, args...)
	}
}
