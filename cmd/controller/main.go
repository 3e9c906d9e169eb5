// Command controller launches a workflow's balancer, backend and agent
// processes and tears them down together on shutdown, the Go analogue of
// ControllerV2.launch_all.
package main

import (
	"log"
	"os"

	"github.com/Pranshu258/OpenPrequal/internal/config"
	"github.com/Pranshu258/OpenPrequal/internal/controller"
	"github.com/Pranshu258/OpenPrequal/internal/obslog"
	"github.com/Pranshu258/OpenPrequal/internal/workflow"
)

func defaultWorkflow() *workflow.Workflow {
	w := workflow.New()
	for _, agent := range []string{"Router", "Researcher", "MathAgent", "HistoryAgent", "Writer"} {
		w.AddAgent(agent, 1)
		w.AddAgentLLM(agent, "default-model")
	}
	w.AddService("qa", "Router", []string{"question"})
	w.AddEngine(workflow.EngineSpec{Model: "default-model", Dtype: "bfloat16", MaxNumSeqs: 16, TensorParallelSize: 1, GPUMemoryUtilization: 0.9})
	return w
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("controller: load config: %v", err)
	}
	logger, err := config.NewLogger(cfg, "controller")
	if err != nil {
		log.Fatalf("controller: setup logging: %v", err)
	}

	timing, err := obslog.NewTimeRecorder(cfg.LogDir + "/controller_timing.csv")
	if err != nil {
		log.Fatalf("controller: open timing recorder: %v", err)
	}
	defer timing.Close()

	ctrl := controller.New(controller.ProcessModel(cfg.ProcessModel), logger, timing)

	self, err := os.Executable()
	if err != nil {
		log.Fatalf("controller: resolve self path: %v", err)
	}
	binDir := self[:len(self)-len("controller")]

	w := defaultWorkflow()
	logger.Printf("launching workflow %s", w.String())

	if err := ctrl.LaunchSubprocess("backend", binDir+"backend"); err != nil {
		logger.Fatalf("controller: launch backend: %v", err)
	}
	if err := ctrl.LaunchSubprocess("balancer", binDir+"balancer"); err != nil {
		logger.Fatalf("controller: launch balancer: %v", err)
	}
	for agentName := range w.AgentsLLM() {
		next := nextAgentFor(agentName)
		args := []string{"-name", agentName}
		if next != "" {
			args = append(args, "-next", next)
		}
		if err := ctrl.LaunchSubprocess("agent-"+agentName, binDir+"agent", args...); err != nil {
			logger.Fatalf("controller: launch agent %s: %v", agentName, err)
		}
	}

	logger.Printf("workflow running, waiting for shutdown signal")
	ctrl.WaitForSignal()
}

// nextAgentFor is a placeholder routing table for the demo workflow; a
// real deployment would derive this from the workflow graph.
func nextAgentFor(agentName string) string {
	if agentName == "Router" {
		return "Writer"
	}
	return ""
}
