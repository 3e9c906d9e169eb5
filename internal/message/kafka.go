package message

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	kafka "github.com/segmentio/kafka-go"

	"github.com/Pranshu258/OpenPrequal/internal/contracts"
)

// KafkaHandler is the production Handler, backed by segmentio/kafka-go.
// Ordering is only guaranteed per key within a partition; delivery is
// at-least-once since offsets are only committed after a batch has been
// fetched and decoded into the slice Recv returns.
type KafkaHandler struct {
	brokers []string
	groupID string
	own     string
	logger  *log.Logger

	mu      sync.Mutex
	writers map[string]*kafka.Writer
	reader  *kafka.Reader
}

// NewKafkaHandler creates a handler that consumes ownTarget's topic
// (its own queue) and can publish to any topic registered via
// AddTargetMapping.
func NewKafkaHandler(brokers []string, groupID, ownTarget string, logger *log.Logger) *KafkaHandler {
	h := &KafkaHandler{
		brokers: brokers,
		groupID: groupID,
		own:     ChannelFromTarget(ownTarget),
		logger:  logger,
		writers: make(map[string]*kafka.Writer),
	}
	h.reader = kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		GroupID:  groupID,
		Topic:    h.own,
		MinBytes: 1,
		MaxBytes: 10e6,
		MaxWait:  10 * time.Millisecond,
	})
	return h
}

func (h *KafkaHandler) AddTargetMapping(target string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	topic := ChannelFromTarget(target)
	if _, ok := h.writers[target]; ok {
		return
	}
	h.writers[target] = &kafka.Writer{
		Addr:         kafka.TCP(h.brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
	}
}

func (h *KafkaHandler) AddTargetMappings(targets []string) {
	for _, t := range targets {
		h.AddTargetMapping(t)
	}
}

func (h *KafkaHandler) Send(ctx context.Context, msg *contracts.Message, target string) error {
	msg.AddActionTiming(fmt.Sprintf("send to %s", target))

	h.mu.Lock()
	w, ok := h.writers[target]
	h.mu.Unlock()
	if !ok {
		h.AddTargetMapping(target)
		h.mu.Lock()
		w = h.writers[target]
		h.mu.Unlock()
	}

	msg.AddActionTiming(fmt.Sprintf("start_send to %s", target))
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("message: marshal for %s: %w", target, err)
	}
	err = w.WriteMessages(ctx, kafka.Message{Key: nil, Value: body})
	msg.AddActionTiming(fmt.Sprintf("end_send to %s", target))
	if err != nil {
		return fmt.Errorf("message: write to %s: %w", target, err)
	}
	return nil
}

// Recv fetches records until none arrives within a 50ms window, decodes
// each, and commits the batch's offsets once every record has been
// decoded into the returned slice, just before returning it.
func (h *KafkaHandler) Recv(ctx context.Context) ([]*contracts.Message, error) {
	var out []*contracts.Message
	var committed []kafka.Message

	deadline, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()

	for {
		raw, err := h.reader.FetchMessage(deadline)
		if err != nil {
			break
		}
		var msg contracts.Message
		if jerr := json.Unmarshal(raw.Value, &msg); jerr != nil {
			h.logf("message: dropping undecodable record on %s: %v", h.own, jerr)
			committed = append(committed, raw)
			continue
		}
		msg.AddActionTiming("recv")
		out = append(out, &msg)
		committed = append(committed, raw)
	}

	if len(committed) > 0 {
		if err := h.reader.CommitMessages(ctx, committed...); err != nil {
			return out, fmt.Errorf("message: commit offsets on %s: %w", h.own, err)
		}
	}
	return out, nil
}

func (h *KafkaHandler) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	var firstErr error
	for _, w := range h.writers {
		if err := w.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if err := h.reader.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

func (h *KafkaHandler) logf(format string, args ...interface{}) {
	if h.logger != nil {
		h.logger.Printf(format, args...)
	}
}
