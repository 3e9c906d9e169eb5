// Package agent provides the base runtime every workflow agent embeds:
// a run loop wired to a message.Handler, and a Generate helper that calls
// the balancer for LLM completions.
package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/Pranshu258/OpenPrequal/internal/contracts"
	"github.com/Pranshu258/OpenPrequal/internal/message"
)

// Defaults mirror BaseAgentV2's sampling defaults.
const (
	DefaultTemperature = 0
	DefaultTopP        = 1
	DefaultTopK        = -1
	DefaultMaxTokens   = 1024
)

// RunFunc is the user-supplied business logic for one agent: given the
// inbound payload and a way to call an LLM, produce a result payload and
// the name of the next hop to forward it to.
type RunFunc func(ctx context.Context, input map[string]interface{}, generate GenerateFunc) (result map[string]interface{}, nextTarget string, err error)

// GenerateFunc calls the balancer for a completion of prompt, tagged with
// metadata the balancer's admission queue uses for priority/placement.
type GenerateFunc func(ctx context.Context, prompt string, metadata map[string]interface{}) (string, error)

// Base is the runtime shared by every agent: it owns the message handler,
// reads request messages off its own topic, and dispatches each to run.
type Base struct {
	Name        string
	Handler     message.Handler
	BalancerURL string
	HTTPClient  *http.Client
	Logger      *log.Logger
	Run         RunFunc
}

// NewBase wires a runtime for name, consuming from its own topic via
// handler and calling balancerURL for completions.
func NewBase(name string, handler message.Handler, balancerURL string, run RunFunc, logger *log.Logger) *Base {
	return &Base{
		Name:        name,
		Handler:     handler,
		BalancerURL: balancerURL,
		HTTPClient:  &http.Client{Timeout: 60 * time.Second},
		Logger:      logger,
		Run:         run,
	}
}

// Serve polls for inbound messages until ctx is cancelled, handling each
// in its own goroutine so a slow request never blocks the next arrival.
func (b *Base) Serve(ctx context.Context, pollInterval time.Duration) {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			msgs, err := b.Handler.Recv(ctx)
			if err != nil {
				b.logf("agent %s: recv failed: %v", b.Name, err)
				continue
			}
			for _, msg := range msgs {
				if msg.Type != contracts.MsgRequest {
					continue
				}
				go b.handle(ctx, msg)
			}
		}
	}
}

func (b *Base) handle(ctx context.Context, msg *contracts.Message) {
	defer func() {
		if r := recover(); r != nil {
			b.logf("agent %s: recovered panic handling msg %d: %v", b.Name, msg.ID, r)
		}
	}()
	msg.AddActionTiming("start_run")

	generate := func(ctx context.Context, prompt string, metadata map[string]interface{}) (string, error) {
		return b.generate(ctx, prompt, metadata)
	}

	result, nextTarget, err := b.Run(ctx, msg.GetPayload(), generate)
	msg.AddActionTiming("end_run")
	if err != nil {
		b.logf("agent %s: run failed for msg %d: %v", b.Name, msg.ID, err)
		return
	}

	msg.SetPayload(result)
	if nextTarget == "" {
		return
	}
	if err := b.Handler.Send(ctx, msg, nextTarget); err != nil {
		b.logf("agent %s: send to %s failed: %v", b.Name, nextTarget, err)
	}
}

type generatePayload struct {
	Prompt      string                 `json:"prompt"`
	Stream      bool                   `json:"stream"`
	Temperature float64                `json:"temperature"`
	TopP        float64                `json:"top_p"`
	TopK        int                    `json:"top_k"`
	MaxTokens   int                    `json:"max_tokens"`
	Metadata    map[string]interface{} `json:"metadata"`
}

type generateResponse struct {
	Text  []string `json:"text"`
	Error string   `json:"error"`
}

// generate POSTs to the balancer, which admits the request and forwards
// it to whichever backend it placed the request on.
func (b *Base) generate(ctx context.Context, prompt string, metadata map[string]interface{}) (string, error) {
	payload := generatePayload{
		Prompt:      prompt,
		Stream:      false,
		Temperature: DefaultTemperature,
		TopP:        DefaultTopP,
		TopK:        DefaultTopK,
		MaxTokens:   DefaultMaxTokens,
		Metadata:    metadata,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("agent: marshal generate payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.BalancerURL+"/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("agent: build generate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("agent: generate call: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("agent: read generate response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("agent: generate returned %d: %s", resp.StatusCode, string(raw))
	}

	var out generateResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("agent: decode generate response: %w", err)
	}
	if out.Error != "" {
		return "", fmt.Errorf("agent: backend error: %s", out.Error)
	}
	if len(out.Text) == 0 {
		return "", fmt.Errorf("agent: empty generate response")
	}
	return out.Text[0], nil
}

func (b *Base) logf(format string, args ...interface{}) {
	if b.Logger != nil {
		b.Logger.Printf(format, args...)
	}
}
