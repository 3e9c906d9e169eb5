// Package message provides the topic-keyed, at-least-once message bus
// agents and dispatchers use to exchange contracts.Message envelopes.
package message

import (
	"context"

	"github.com/Pranshu258/OpenPrequal/internal/contracts"
)

// Handler is the pub/sub abstraction every transport (Kafka, in-memory)
// implements. A Handler owns one consumer channel (its own topic) and can
// publish to any number of target topics derived from target names.
type Handler interface {
	// AddTargetMapping registers target as a publishable destination.
	AddTargetMapping(target string)
	AddTargetMappings(targets []string)

	// Send publishes msg to target's topic, appending send breadcrumbs.
	Send(ctx context.Context, msg *contracts.Message, target string) error

	// Recv returns whatever batch of messages is currently available on
	// this handler's own topic, appending a recv breadcrumb to each.
	Recv(ctx context.Context) ([]*contracts.Message, error)

	Close() error
}

// ChannelFromTarget derives a topic/channel name from a logical target
// name, matching KafkaMessageHandler's _generate_channel_from_target.
func ChannelFromTarget(target string) string {
	return target + "_topic"
}
