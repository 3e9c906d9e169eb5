// Package engine launches the LLM engine processes a workflow depends
// on, either on the local host or on a remote host over SSH, mirroring
// start_vllm_engine / start_vllm_engine_remote.
package engine

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"

	"github.com/Pranshu258/OpenPrequal/internal/workflow"
)

// Launch starts one vLLM-compatible engine instance listening on port,
// returning the running *exec.Cmd so the caller can terminate it later.
func Launch(ctx context.Context, spec workflow.EngineSpec, port int, cudaVisibleDevices string) (*exec.Cmd, error) {
	args := buildArgs(spec, port)

	var cmd *exec.Cmd
	if spec.Remote {
		if spec.RemoteHost == "" {
			return nil, fmt.Errorf("engine: remote engine requires a host")
		}
		remoteCmd := "CUDA_VISIBLE_DEVICES=" + cudaVisibleDevices + " " + joinArgs(args)
		cmd = exec.CommandContext(ctx, "ssh", spec.RemoteHost, remoteCmd)
	} else {
		cmd = exec.CommandContext(ctx, args[0], args[1:]...)
		cmd.Env = append(cmd.Env, "CUDA_VISIBLE_DEVICES="+cudaVisibleDevices)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("engine: start on port %d: %w", port, err)
	}
	return cmd, nil
}

func buildArgs(spec workflow.EngineSpec, port int) []string {
	args := []string{
		"vllm", "serve", spec.Model,
		"--port", strconv.Itoa(port),
		"--dtype", spec.Dtype,
		"--max-num-seqs", strconv.Itoa(spec.MaxNumSeqs),
		"--tensor-parallel-size", strconv.Itoa(spec.TensorParallelSize),
		"--gpu-memory-utilization", strconv.FormatFloat(spec.GPUMemoryUtilization, 'f', -1, 64),
	}
	if spec.EnableChunkedPrefill {
		args = append(args, "--enable-chunked-prefill")
	}
	return args
}

func joinArgs(args []string) string {
	out := ""
	for i, a := range args {
		if i > 0 {
			out += " "
		}
		out += a
	}
	return out
}
