// Package tokencount estimates prompt/response token counts per agent's
// configured model and records usage for offline analysis.
package tokencount

import (
	"fmt"
	"strings"
	"sync"
)

// Tokenizer turns text into tokens. The reference implementation used a
// HuggingFace AutoTokenizer per model; no such dependency exists in this
// pack, so the default is an approximate whitespace splitter, with the
// interface left open for a real BPE tokenizer to be plugged in later.
type Tokenizer interface {
	Tokenize(text string) []string
}

// WhitespaceTokenizer is the default approximate Tokenizer.
type WhitespaceTokenizer struct{}

// Tokenize splits on whitespace, which undercounts relative to a real
// subword tokenizer but is a stable, dependency-free proxy.
func (WhitespaceTokenizer) Tokenize(text string) []string {
	return strings.Fields(text)
}

// Counter counts tokens per agent, resolving each agent to its
// configured model and caching one tokenizer per model.
type Counter struct {
	mu             sync.Mutex
	agentModel     map[string]string
	tokenizers     map[string]Tokenizer
	newTokenizer   func(model string) Tokenizer
}

// NewCounter builds a counter for the given agent->model mapping. If
// newTokenizer is nil, every model shares a WhitespaceTokenizer.
func NewCounter(agentModel map[string]string, newTokenizer func(model string) Tokenizer) *Counter {
	if newTokenizer == nil {
		newTokenizer = func(string) Tokenizer { return WhitespaceTokenizer{} }
	}
	return &Counter{
		agentModel:   agentModel,
		tokenizers:   make(map[string]Tokenizer),
		newTokenizer: newTokenizer,
	}
}

// CountTokens returns the token count for text under agentName's model.
func (c *Counter) CountTokens(agentName, text string) (int, error) {
	model, ok := c.agentModel[agentName]
	if !ok {
		return 0, fmt.Errorf("tokencount: no model configured for agent %q", agentName)
	}

	c.mu.Lock()
	tok, ok := c.tokenizers[model]
	if !ok {
		tok = c.newTokenizer(model)
		c.tokenizers[model] = tok
	}
	c.mu.Unlock()

	return len(tok.Tokenize(text)), nil
}
