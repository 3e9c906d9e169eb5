package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Pranshu258/OpenPrequal/internal/contracts"
)

func TestAnalyzeSingleChildIsSimple(t *testing.T) {
	entries := []contracts.WorkflowLogEntry{
		{Agent: "Writer", Upstream: "Router", ArriveTime: 0, FinishTime: 1},
	}
	result := Analyze(entries)
	assert.Equal(t, contracts.EdgeSimple, result["Router"]["Writer"])
}

func TestAnalyzeOverlappingChildrenAreParallel(t *testing.T) {
	entries := []contracts.WorkflowLogEntry{
		{Agent: "Researcher", Upstream: "Router", ArriveTime: 0, FinishTime: 2},
		{Agent: "MathAgent", Upstream: "Router", ArriveTime: 1, FinishTime: 3},
	}
	result := Analyze(entries)
	assert.Equal(t, contracts.EdgeParallel, result["Router"]["Researcher"])
	assert.Equal(t, contracts.EdgeParallel, result["Router"]["MathAgent"])
}

func TestAnalyzeNonOverlappingChildrenAreSequential(t *testing.T) {
	entries := []contracts.WorkflowLogEntry{
		{Agent: "Researcher", Upstream: "Router", ArriveTime: 0, FinishTime: 1},
		{Agent: "Writer", Upstream: "Router", ArriveTime: 1, FinishTime: 2},
	}
	result := Analyze(entries)
	assert.Equal(t, contracts.EdgeSequential, result["Router"]["Researcher"])
	assert.Equal(t, contracts.EdgeSequential, result["Router"]["Writer"])
}
