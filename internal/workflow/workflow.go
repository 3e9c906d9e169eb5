// Package workflow describes a deployable graph: which agents exist,
// which service entry points route into them, and which LLM engines back
// which agents, mirroring the original Workflow builder.
package workflow

import "fmt"

// EngineSpec describes one LLM engine instance to launch.
type EngineSpec struct {
	Model                  string
	Dtype                  string
	MaxNumSeqs              int
	EnableChunkedPrefill    bool
	TensorParallelSize      int
	GPUMemoryUtilization    float64
	Instances               int
	ServingType             string // "normal" or other tiers
	Remote                  bool
	RemoteHost              string
}

// ServiceSpec is one externally reachable entry point into the workflow.
type ServiceSpec struct {
	Name           string
	EntryAgentName string
	RequestKeys    []string
}

// Workflow is the declarative description the controller launches from.
type Workflow struct {
	agentReplicaCount map[string]int
	agentsLLM         map[string]string // agent name -> model
	services          []ServiceSpec
	engines           []EngineSpec
}

// New returns an empty workflow ready for AddAgent/AddService/AddEngine calls.
func New() *Workflow {
	return &Workflow{
		agentReplicaCount: make(map[string]int),
		agentsLLM:         make(map[string]string),
	}
}

// AddAgent registers an agent with the given replica count (default 1).
func (w *Workflow) AddAgent(agentName string, replicas int) {
	if replicas <= 0 {
		replicas = 1
	}
	w.agentReplicaCount[agentName] = replicas
}

// AgentReplicaCount returns how many replicas an agent was registered with.
func (w *Workflow) AgentReplicaCount(agentName string) int {
	return w.agentReplicaCount[agentName]
}

// AddService registers a named entry point routing into entryAgentName.
func (w *Workflow) AddService(name, entryAgentName string, requestKeys []string) {
	w.services = append(w.services, ServiceSpec{Name: name, EntryAgentName: entryAgentName, RequestKeys: requestKeys})
}

// Services returns the registered entry points.
func (w *Workflow) Services() []ServiceSpec { return w.services }

// AddEngine registers an LLM engine instance to launch for model.
func (w *Workflow) AddEngine(spec EngineSpec) {
	if spec.ServingType == "" {
		spec.ServingType = "normal"
	}
	if spec.Instances <= 0 {
		spec.Instances = 1
	}
	w.engines = append(w.engines, spec)
}

// Engines returns the registered engine specs.
func (w *Workflow) Engines() []EngineSpec { return w.engines }

// AddAgentLLM records which model an agent calls.
func (w *Workflow) AddAgentLLM(agentName, model string) {
	w.agentsLLM[agentName] = model
}

// AgentsLLM returns the agent->model mapping.
func (w *Workflow) AgentsLLM() map[string]string {
	out := make(map[string]string, len(w.agentsLLM))
	for k, v := range w.agentsLLM {
		out[k] = v
	}
	return out
}

func (w *Workflow) String() string {
	return fmt.Sprintf("Workflow{agents=%d, services=%d, engines=%d}", len(w.agentReplicaCount), len(w.services), len(w.engines))
}
