// Command frontend drives a workflow: it sends requests into a service's
// entry agent at a fixed rate (or replays a recorded arrival trace) and
// records completions to a JSON trail.
package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/Pranshu258/OpenPrequal/internal/config"
	fe "github.com/Pranshu258/OpenPrequal/internal/frontend"
	"github.com/Pranshu258/OpenPrequal/internal/message"
)

func main() {
	service := flag.String("service", "qa", "service name to send requests for")
	entryAgent := flag.String("entry-agent", "Router", "entry agent topic")
	rateSeconds := flag.Float64("rate", 1.0, "seconds between requests")
	requestCount := flag.Int("count", 10, "number of requests to send")
	tracePath := flag.String("trace", "", "optional CSV trace file to replay instead of -rate/-count")
	sampleInterval := flag.Int("sample-interval", 1, "subsample every Nth trace row")
	scaleFactor := flag.Int("scale-factor", 1, "replicate each kept trace row this many times")
	labMark := flag.String("lab-mark", "default", "tag for the output trail file")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("frontend: load config: %v", err)
	}
	logger, err := config.NewLogger(cfg, "frontend")
	if err != nil {
		log.Fatalf("frontend: setup logging: %v", err)
	}

	handler := message.NewKafkaHandler(cfg.KafkaBrokers, cfg.KafkaGroupID, "frontend", logger)
	defer handler.Close()
	handler.AddTargetMapping(*entryAgent)

	dataset := fe.NewStaticDataset(map[string][]map[string]interface{}{
		*service: {{"question": "what is 2+2?"}},
	})
	front := fe.New(handler, dataset, *labMark, cfg.LogDir, logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	go front.RecvLoop(ctx, 50*time.Millisecond)
	go front.FlushLoop(ctx, 5*time.Second)

	if *tracePath != "" {
		replayer := fe.NewTraceReplayer(front, *service, *entryAgent, *sampleInterval, *scaleFactor)
		if err := replayer.Replay(ctx, *tracePath); err != nil {
			logger.Printf("frontend: trace replay ended: %v", err)
		}
		return
	}

	ticker := time.NewTicker(time.Duration(*rateSeconds * float64(time.Second)))
	defer ticker.Stop()
	for i := 0; i < *requestCount; i++ {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := front.SendRequest(ctx, *service, *entryAgent); err != nil {
				logger.Printf("frontend: send request failed: %v", err)
			}
		}
	}
}
