package contracts

// WorkflowLogEntry is one child invocation recorded for the offline
// workflow analyzer: agent was invoked by upstream, arriving and
// finishing at the given offsets (seconds since trace start).
type WorkflowLogEntry struct {
	Agent      string
	Upstream   string
	ArriveTime float64
	FinishTime float64
}

// EdgeClass is how a parent->child fan-out edge behaves across a trace.
type EdgeClass string

const (
	EdgeSimple     EdgeClass = "simple"
	EdgeSequential EdgeClass = "sequential"
	EdgeParallel   EdgeClass = "parallel"
)

// LatencySample is one observed (agent, latency) pair used by priority
// determination.
type LatencySample struct {
	Agent          string
	LatencySeconds float64
}
