package config

import "time"

// Tables holds the static, process-wide scheduling knobs that the original
// balancer_setting module hard-coded per agent. They are immutable once
// loaded; callers share a single *Tables.
type Tables struct {
	// Priority is lower-is-more-urgent, matching the priority queue's sort.
	Priority map[string]int
	// PredictedDuration is the expected wall-clock time a request against
	// that agent's model will occupy a backend, used by the memory
	// perceptor to size its forward projection window.
	PredictedDuration map[string]time.Duration

	MaxTokens   float64
	DecodeSlope float64
	BiasFactor  float64
}

// DefaultTables mirrors balancer_setting.py's PRIORITY_TABLE /
// PREDICT_TIME_TABLE for the reference workflow's five agents, with the
// None placeholders resolved to concrete values.
func DefaultTables() *Tables {
	return &Tables{
		Priority: map[string]int{
			"Router":       0,
			"Researcher":   1,
			"MathAgent":    1,
			"HistoryAgent": 1,
			"Writer":       2,
		},
		PredictedDuration: map[string]time.Duration{
			"Router":       200 * time.Millisecond,
			"Researcher":   3 * time.Second,
			"MathAgent":    2 * time.Second,
			"HistoryAgent": 2 * time.Second,
			"Writer":       4 * time.Second,
		},
		MaxTokens:   32768,
		DecodeSlope: 1.0,
		BiasFactor:  1.0,
	}
}

// PriorityFor returns the configured priority for an agent, defaulting to
// the lowest urgency for agents the tables don't know about.
func (t *Tables) PriorityFor(agent string) int {
	if p, ok := t.Priority[agent]; ok {
		return p
	}
	return 99
}

// PredictedDurationFor returns the configured predicted occupancy window,
// falling back to a conservative 1s guess for unknown agents.
func (t *Tables) PredictedDurationFor(agent string) time.Duration {
	if d, ok := t.PredictedDuration[agent]; ok {
		return d
	}
	return time.Second
}
