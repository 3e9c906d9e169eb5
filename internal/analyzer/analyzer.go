// Package analyzer classifies parent->child fan-out edges in a recorded
// workflow trace as simple, sequential or parallel, using the same
// sweep-line approach as the original WorkflowAnalyzer.
package analyzer

import (
	"sort"

	"github.com/Pranshu258/OpenPrequal/internal/contracts"
)

type event struct {
	t     float64
	delta int // +1 arrive, -1 finish
	agent string
}

// Analyze groups entries by their Upstream agent and classifies each
// child's edge.
func Analyze(entries []contracts.WorkflowLogEntry) map[string]map[string]contracts.EdgeClass {
	byParent := make(map[string][]contracts.WorkflowLogEntry)
	for _, e := range entries {
		byParent[e.Upstream] = append(byParent[e.Upstream], e)
	}

	result := make(map[string]map[string]contracts.EdgeClass)
	for parent, children := range byParent {
		result[parent] = classifyChildren(children)
	}
	return result
}

func classifyChildren(children []contracts.WorkflowLogEntry) map[string]contracts.EdgeClass {
	classes := make(map[string]contracts.EdgeClass, len(children))

	if len(children) == 1 {
		classes[children[0].Agent] = contracts.EdgeSimple
		return classes
	}

	var events []event
	for _, c := range children {
		events = append(events, event{t: c.ArriveTime, delta: 1, agent: c.Agent})
		events = append(events, event{t: c.FinishTime, delta: -1, agent: c.Agent})
	}
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].t != events[j].t {
			return events[i].t < events[j].t
		}
		// Process finishes before arrivals at the same instant so a
		// sibling that ends exactly when another begins isn't counted
		// as overlapping.
		return events[i].delta < events[j].delta
	})

	running := make(map[string]bool)
	for _, ev := range events {
		if ev.delta == 1 {
			if len(running) > 0 {
				classes[ev.agent] = contracts.EdgeParallel
				for sibling := range running {
					classes[sibling] = contracts.EdgeParallel
				}
			}
			running[ev.agent] = true
		} else {
			delete(running, ev.agent)
		}
	}

	for _, c := range children {
		if _, ok := classes[c.Agent]; !ok {
			classes[c.Agent] = contracts.EdgeSequential
		}
	}
	return classes
}
