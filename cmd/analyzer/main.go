// Command analyzer reads a recorded workflow trace (JSON array of
// {agent,upstream,arrive_time,finish_time}) and prints each parent
// agent's child edge classifications.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/Pranshu258/OpenPrequal/internal/analyzer"
	"github.com/Pranshu258/OpenPrequal/internal/contracts"
)

type traceRow struct {
	Agent      string  `json:"agent"`
	Upstream   string  `json:"upstream"`
	ArriveTime float64 `json:"arrive_time"`
	FinishTime float64 `json:"finish_time"`
}

func main() {
	path := flag.String("trace", "", "path to a JSON trace file")
	flag.Parse()
	if *path == "" {
		log.Fatal("analyzer: -trace is required")
	}

	body, err := os.ReadFile(*path)
	if err != nil {
		log.Fatalf("analyzer: read %s: %v", *path, err)
	}

	var rows []traceRow
	if err := json.Unmarshal(body, &rows); err != nil {
		log.Fatalf("analyzer: parse %s: %v", *path, err)
	}

	entries := make([]contracts.WorkflowLogEntry, len(rows))
	for i, r := range rows {
		entries[i] = contracts.WorkflowLogEntry{Agent: r.Agent, Upstream: r.Upstream, ArriveTime: r.ArriveTime, FinishTime: r.FinishTime}
	}

	for parent, children := range analyzer.Analyze(entries) {
		for child, class := range children {
			fmt.Printf("%s -> %s: %s\n", parent, child, class)
		}
	}
}
