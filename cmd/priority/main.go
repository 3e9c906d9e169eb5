// Command priority reads a JSON array of {agent,latency_seconds} samples
// and prints the agents ranked closest-to-ideal first, the offline
// analogue of get_priority/agent_wasserstein_mds_sort.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/Pranshu258/OpenPrequal/internal/contracts"
	"github.com/Pranshu258/OpenPrequal/internal/priority"
)

type sampleRow struct {
	Agent          string  `json:"agent"`
	LatencySeconds float64 `json:"latency_seconds"`
}

func main() {
	path := flag.String("samples", "", "path to a JSON samples file")
	flag.Parse()
	if *path == "" {
		log.Fatal("priority: -samples is required")
	}

	body, err := os.ReadFile(*path)
	if err != nil {
		log.Fatalf("priority: read %s: %v", *path, err)
	}

	var rows []sampleRow
	if err := json.Unmarshal(body, &rows); err != nil {
		log.Fatalf("priority: parse %s: %v", *path, err)
	}

	samples := make([]contracts.LatencySample, len(rows))
	for i, r := range rows {
		samples[i] = contracts.LatencySample{Agent: r.Agent, LatencySeconds: r.LatencySeconds}
	}

	for i, agent := range priority.Rank(samples) {
		fmt.Printf("%d. %s\n", i+1, agent)
	}
}
