// Command agent runs one workflow agent's runtime: it consumes request
// messages from its own topic, calls the balancer for a completion, and
// forwards the result to the next hop. The actual per-agent business
// logic (_run_impl in the original) is workflow-specific and out of
// scope here; this wires a generic relay suitable for demos and the
// trace-replay tooling.
package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/Pranshu258/OpenPrequal/internal/agent"
	"github.com/Pranshu258/OpenPrequal/internal/config"
	"github.com/Pranshu258/OpenPrequal/internal/message"
)

func main() {
	name := flag.String("name", "", "agent name (topic identity)")
	next := flag.String("next", "", "target topic to forward completions to (optional)")
	flag.Parse()
	if *name == "" {
		log.Fatal("agent: -name is required")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("agent: load config: %v", err)
	}
	logger, err := config.NewLogger(cfg, "agent-"+*name)
	if err != nil {
		log.Fatalf("agent: setup logging: %v", err)
	}

	handler := message.NewKafkaHandler(cfg.KafkaBrokers, cfg.KafkaGroupID, *name, logger)
	defer handler.Close()
	if *next != "" {
		handler.AddTargetMapping(*next)
	}

	run := func(ctx context.Context, input map[string]interface{}, generate agent.GenerateFunc) (map[string]interface{}, string, error) {
		prompt, _ := input["prompt"].(string)
		completion, err := generate(ctx, prompt, map[string]interface{}{"agent_name": *name})
		if err != nil {
			return nil, "", err
		}
		return map[string]interface{}{"prompt": prompt, "response": completion}, *next, nil
	}

	base := agent.NewBase(*name, handler, cfg.ProxyURL, run, logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger.Printf("agent %s serving", *name)
	base.Serve(ctx, 50*time.Millisecond)
}
